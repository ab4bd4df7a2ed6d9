package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"metriburn/internal/analysis"
	"metriburn/internal/config"
	"metriburn/internal/dataset"
	"metriburn/internal/service"
)

func newTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train the model on the reference table and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			bar := progressbar.Default(int64(cfg.Model.Trees), "training")
			app, st, err := openApp(cfg, service.Options{
				Retrain: true,
				Progress: func(done, total int) {
					_ = bar.Add(1)
				},
			})
			if err != nil {
				return err
			}
			defer st.Close()
			_ = bar.Finish()

			report := app.TrainingReport()
			if report == nil {
				return service.ErrModelUnavailable
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nTrained %d trees on %d rows from %s in %s\n",
				report.Trees, report.Rows, app.DatasetPath(), report.Elapsed.Round(time.Millisecond))
			if report.SkippedRows > 0 {
				fmt.Fprintf(out, "Skipped %d rows with missing values\n", report.SkippedRows)
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Model", "R²", "RMSE", "MAE"})
			table.Append([]string{"Forest", fmtScore(report.Scores.R2, 3), fmtScore(report.Scores.RMSE, 1), fmtScore(report.Scores.MAE, 1)})
			if b := report.Baseline; b != nil {
				table.Append([]string{"Linear (" + b.Variable + ")", fmtScore(b.Scores.R2, 3), fmtScore(b.Scores.RMSE, 1), fmtScore(b.Scores.MAE, 1)})
			}
			table.Render()

			importances := tablewriter.NewWriter(out)
			importances.SetHeader([]string{"Rank", "Feature", "Importance"})
			for i, fi := range report.Importances {
				importances.Append([]string{strconv.Itoa(i + 1), fi.Name, fmt.Sprintf("%.1f%%", fi.Importance*100)})
			}
			importances.Render()
			return nil
		},
	}
}

func newEstimateCmd() *cobra.Command {
	var (
		activity  string
		typeArg   string
		intensity string
		weight    float64
		duration  float64
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate calories for one session",
		Long: `Estimate calories for a reference activity (--activity) or a custom one
described by --type and --intensity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("weight") {
				weight = cfg.Inputs.DefaultWeight
			}
			if !cmd.Flags().Changed("duration") {
				duration = cfg.Inputs.DefaultDuration
			}

			req := service.EstimateRequest{Activity: activity, WeightLbs: weight, DurationMinutes: duration}
			if typeArg != "" || intensity != "" {
				req.Custom = true
				req.CustomType = dataset.ParseActivityType(typeArg)
				req.CustomIntensity = dataset.ParseIntensity(intensity)
				if typeArg != "" && !strings.EqualFold(string(req.CustomType), strings.TrimSpace(typeArg)) {
					return fmt.Errorf("%w: unknown activity type %q", analysis.ErrInvalidValue, typeArg)
				}
				if req.CustomIntensity == dataset.IntensityUnknown {
					return fmt.Errorf("%w: intensity must be Low, Moderate or High", analysis.ErrInvalidValue)
				}
			}

			app, st, err := openApp(cfg, service.Options{})
			if err != nil {
				return err
			}
			defer st.Close()

			est, err := app.Estimate(req)
			if err != nil {
				return err
			}
			printEstimate(cmd, est, app.ModelInfo().Stale)
			return nil
		},
	}

	cmd.Flags().StringVarP(&activity, "activity", "a", "", "reference activity name")
	cmd.Flags().StringVar(&typeArg, "type", "", "custom activity type (Cardio, Strength, Flexibility, Sports, Other)")
	cmd.Flags().StringVar(&intensity, "intensity", "", "custom activity intensity (Low, Moderate, High)")
	cmd.Flags().Float64VarP(&weight, "weight", "w", 0, "body weight in pounds")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "duration in minutes")
	return cmd
}

func printEstimate(cmd *cobra.Command, est *service.Estimate, stale bool) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s · %s · %s at %s lb\n\n", est.Activity, est.Intensity,
		analysis.FormatDuration(est.DurationMinutes), humanize.FormatFloat("#,###.#", est.WeightLbs))

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"Total calories", humanize.Comma(int64(est.TotalCalories + 0.5))},
		{"Calories per hour", humanize.Comma(int64(est.CaloriesPerHour + 0.5))},
		{"Calories per minute", fmt.Sprintf("%.1f", est.Metrics.CaloriesPerMinute)},
		{"Calories per kg", fmt.Sprintf("%.2f", est.Metrics.CaloriesPerKg)},
		{"Effort", fmt.Sprintf("%s (~%.1f MET)", est.Metrics.Level, est.Metrics.METEstimate)},
	})
	table.Render()

	fmt.Fprintf(out, "\n%s\n", est.Commentary)

	if len(est.Foods) > 0 {
		fmt.Fprintln(out, "\nThat's about:")
		for _, f := range est.Foods {
			fmt.Fprintf(out, "  %.1f × %s\n", f.Quantity, f.Food.Name)
		}
	}

	if len(est.Comparable) > 0 {
		fmt.Fprintln(out)
		similar := tablewriter.NewWriter(out)
		similar.SetHeader([]string{"Similar activity", "Avg kcal/h", "Intensity"})
		for _, r := range est.Comparable {
			similar.Append([]string{r.Activity, humanize.Comma(int64(r.AvgCalories + 0.5)), string(r.Intensity)})
		}
		similar.Render()
	}

	if stale {
		fmt.Fprintln(out, "\nwarning: the stored model was trained on a different dataset; run `metriburn train`")
	}
}

func newActivitiesCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List reference activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, st, err := openApp(cfg, service.Options{})
			if err != nil {
				return err
			}
			defer st.Close()

			names := app.ActivitiesIn(category)
			if len(names) == 0 {
				return fmt.Errorf("no activities in category %q (have %v)", category, app.Categories())
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Activity", "Type", "Intensity", "Avg kcal/h"})
			for _, name := range names {
				rec, ok := app.Activity(name)
				if !ok {
					continue
				}
				table.Append([]string{rec.Activity, string(rec.Type), string(rec.Intensity), humanize.Comma(int64(rec.AvgCalories + 0.5))})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", analysis.AllCategories, "activity type to list")
	return cmd
}

func newExploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Summarise the reference table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, st, err := openApp(cfg, service.Options{})
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			s := app.Summary()
			fmt.Fprintf(out, "%d activities in %s\n\n", s.Activities, app.DatasetPath())

			byType := tablewriter.NewWriter(out)
			byType.SetHeader([]string{"Type", "Activities", "Min kcal/h", "Mean kcal/h", "Max kcal/h"})
			counts := map[string]int{}
			for _, lc := range s.ByType {
				counts[lc.Label] = lc.Count
			}
			for _, tc := range s.CaloriesByType {
				byType.Append([]string{
					string(tc.Type),
					strconv.Itoa(counts[string(tc.Type)]),
					humanize.Comma(int64(tc.Min + 0.5)),
					humanize.Comma(int64(tc.Mean + 0.5)),
					humanize.Comma(int64(tc.Max + 0.5)),
				})
			}
			byType.Render()

			fmt.Fprintln(out)
			byIntensity := tablewriter.NewWriter(out)
			byIntensity.SetHeader([]string{"Intensity", "Activities"})
			for _, lc := range s.ByIntensity {
				byIntensity.Append([]string{lc.Label, strconv.Itoa(lc.Count)})
			}
			byIntensity.Render()

			fmt.Fprintln(out)
			top := tablewriter.NewWriter(out)
			top.SetHeader([]string{"#", "Activity", "Avg kcal/h", "Type"})
			for i, r := range s.Top {
				top.Append([]string{strconv.Itoa(i + 1), r.Activity, humanize.Comma(int64(r.AvgCalories + 0.5)), string(r.Type)})
			}
			top.Render()
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write the engineered reference table as CSV",
		Long: `Write the engineered reference table as CSV. Without a path the file is
written next to the base table under the configured expanded file name, so
later runs load it directly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, st, err := openApp(cfg, service.Options{})
			if err != nil {
				return err
			}
			defer st.Close()

			path := filepath.Join(cfg.Data.Dir, cfg.Data.ExpandedFile)
			if len(args) == 1 {
				path = args[0]
			}
			if err := app.Export(path); err != nil {
				return fmt.Errorf("exporting table: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d activities to %s\n", app.Table().Len(), path)
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CreateExample(configPath); err != nil {
				return fmt.Errorf("creating example config: %w", err)
			}
			path := configPath
			if path == "" {
				dir, err := config.GetConfigDir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, "config.json")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil && !errors.Is(err, config.ErrNoConfig) {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Setting", "Value"})
			table.AppendBulk([][]string{
				{"data.dir", cfg.Data.Dir},
				{"data.dataset", cfg.Data.Dataset},
				{"model.path", cfg.Model.Path},
				{"model.trees", strconv.Itoa(cfg.Model.Trees)},
				{"model.seed", strconv.FormatInt(cfg.Model.Seed, 10)},
				{"inputs.default_weight", strconv.FormatFloat(cfg.Inputs.DefaultWeight, 'f', -1, 64)},
				{"inputs.default_duration", strconv.FormatFloat(cfg.Inputs.DefaultDuration, 'f', -1, 64)},
				{"log.level", cfg.Log.Level},
			})
			table.Render()
			return nil
		},
	})
	return cmd
}

func fmtScore(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
