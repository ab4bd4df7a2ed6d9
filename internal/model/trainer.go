package model

import (
	"math"
	"time"

	"metriburn/internal/analysis"
	"metriburn/internal/dataset"
	"metriburn/internal/logger"
)

// Report summarises a training run
type Report struct {
	Rows        int
	SkippedRows int
	Repaired    int
	Trees       int
	Scores      Scores
	Baseline    *Baseline
	Importances []analysis.FeatureImportance
	Elapsed     time.Duration
}

// Samples builds the design matrix and targets from an engineered table in
// FeatureSchema order. Rows with a missing target or feature are left out
// and counted in skipped.
func Samples(t *dataset.Table) (x [][]float64, y []float64, skipped int) {
	for _, rec := range t.Records {
		fv := analysis.RecordFeatures(rec)
		if math.IsNaN(rec.AvgCalories) || fv.HasMissing() {
			skipped++
			continue
		}
		x = append(x, fv.Values())
		y = append(y, rec.AvgCalories)
	}
	return x, y, skipped
}

// Train fits a forest to predict avg_calories from the engineered table.
// A nil table yields no model and no error. "Unknown" intensities are set
// to Moderate in place before fitting.
func Train(t *dataset.Table, cfg Config, progress ProgressFunc) (*Forest, *Report, error) {
	if t == nil {
		return nil, nil, nil
	}
	start := time.Now()
	report := &Report{}

	for i := range t.Records {
		if t.Records[i].Intensity == dataset.IntensityUnknown {
			t.Records[i].Intensity = dataset.IntensityModerate
			report.Repaired++
		}
	}
	if report.Repaired > 0 {
		logger.WithField("rows", report.Repaired).Warn("Unknown intensity values found in dataset; replaced with Moderate")
	}

	x, y, skipped := Samples(t)
	report.Rows = len(x)
	report.SkippedRows = skipped
	if skipped > 0 {
		logger.WithField("rows", skipped).Warn("Skipping rows with missing values")
	}

	forest, err := Fit(x, y, analysis.FeatureSchema, cfg, progress)
	if err != nil {
		return nil, nil, err
	}
	report.Trees = len(forest.Trees)

	predicted, err := forest.PredictAll(x)
	if err != nil {
		return nil, nil, err
	}
	report.Scores = Score(predicted, y)
	report.Importances = analysis.RankFeatures(forest.Features, forest.FeatureImportances())

	perKg := make([]float64, len(x))
	for i, row := range x {
		perKg[i] = row[columnIndex(dataset.ColCaloriesPerKg)]
	}
	baseline, err := FitBaseline(dataset.ColCaloriesPerKg, perKg, y)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("Linear baseline unavailable")
	} else {
		report.Baseline = baseline
	}

	report.Elapsed = time.Since(start)
	logger.WithFields(map[string]interface{}{
		"rows":  report.Rows,
		"trees": report.Trees,
		"r2":    report.Scores.R2,
		"rmse":  report.Scores.RMSE,
	}).Info("Model trained")

	return forest, report, nil
}

func columnIndex(name string) int {
	for i, f := range analysis.FeatureSchema {
		if f == name {
			return i
		}
	}
	return -1
}
