package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"metriburn/internal/config"
	"metriburn/internal/logger"
	"metriburn/internal/service"
	"metriburn/internal/store"
	"metriburn/internal/tui"
)

// Persistent flags
var (
	configPath string
	datasetArg string
	logLevel   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "metriburn",
		Short:        "Estimate calories burned during exercise",
		Long:         `MetriBurn predicts calories burned for an activity, body weight and duration from a reference table of exercises.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.metriburn/config.json)")
	cmd.PersistentFlags().StringVar(&datasetArg, "dataset", "", "reference table CSV (overrides discovery)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newTrainCmd(),
		newEstimateCmd(),
		newActivitiesCmd(),
		newExploreCmd(),
		newExportCmd(),
		newConfigCmd(),
	)
	return cmd
}

// loadConfig reads and validates the configuration and sets up logging.
// A missing config file is not an error; the defaults apply.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger.Setup(level, cfg.Log.Mode)
	return cfg, nil
}

// openApp opens the model store and builds the application context
func openApp(cfg *config.Config, opts service.Options) (*service.App, *store.Store, error) {
	st, err := store.Open(cfg.Model.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening model store: %w", err)
	}

	if opts.Dataset == "" {
		opts.Dataset = datasetArg
	}
	app, err := service.New(cfg, st, opts)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return app, st, nil
}

func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file
	logFile := cfg.Log.File
	if logFile == "" {
		dir, err := config.GetConfigDir()
		if err != nil {
			return err
		}
		logFile = filepath.Join(dir, "metriburn.log")
	}
	closer, err := logger.ToFile(logFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	app, st, err := openApp(cfg, service.Options{})
	if err != nil {
		return err
	}
	defer st.Close()

	p := tea.NewProgram(tui.NewApp(app, cfg.Inputs), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
