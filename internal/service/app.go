package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"metriburn/internal/analysis"
	"metriburn/internal/config"
	"metriburn/internal/dataset"
	"metriburn/internal/logger"
	"metriburn/internal/model"
	"metriburn/internal/store"
)

var (
	// ErrModelUnavailable is returned when no trained model can serve a prediction
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrUnknownActivity is returned when an activity is not in the reference table
	ErrUnknownActivity = errors.New("unknown activity")
)

// Options control how the application context is built
type Options struct {
	// Dataset overrides discovery when set
	Dataset string

	// Retrain ignores any stored model
	Retrain bool

	// Progress is called after each tree when a model is trained
	Progress model.ProgressFunc
}

// ModelInfo describes the model serving predictions
type ModelInfo struct {
	Source       string
	Trees        int
	TrainingRows int
	R2           *float64
	RMSE         *float64
	MAE          *float64
	BaselineR2   *float64
	TrainedAt    time.Time
	Fingerprint  string
	Stale        bool // trained on a different table than the one loaded
}

// App is the application context: the engineered table and the model are
// loaded once and not modified afterwards
type App struct {
	cfg         *config.Config
	store       *store.Store
	datasetPath string
	table       *dataset.Table
	fingerprint string
	bounds      analysis.Bounds
	forest      *model.Forest
	info        ModelInfo
	report      *model.Report
}

// New discovers and engineers the reference table, then loads the stored
// model or trains one. st may be nil, in which case a trained model is
// kept in memory only. A failed training run leaves the App without a
// model rather than failing.
func New(cfg *config.Config, st *store.Store, opts Options) (*App, error) {
	explicit := opts.Dataset
	if explicit == "" {
		explicit = cfg.Data.Dataset
	}
	path, err := dataset.Discover(explicit, cfg.Data.Dir, cfg.Data.ExpandedFile, cfg.Data.BaseFile)
	if err != nil {
		return nil, err
	}

	raw, err := dataset.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	table := analysis.Engineer(raw)
	if n := analysis.RepairIntensity(table); n > 0 {
		logger.WithFields(map[string]interface{}{
			"rows":    n,
			"dataset": path,
		}).Warn("Unknown intensity values repaired from average calories")
	}

	a := &App{
		cfg:         cfg,
		store:       st,
		datasetPath: path,
		table:       table,
		fingerprint: dataset.Fingerprint(table),
		bounds:      analysis.BoundsFromTable(table),
	}
	logger.WithFields(map[string]interface{}{
		"dataset":    path,
		"activities": table.Len(),
	}).Info("Dataset loaded")

	if !opts.Retrain && a.loadStored() {
		return a, nil
	}
	if err := a.train(opts.Progress); err != nil {
		logger.WithField("error", err.Error()).Error("Model training failed")
	}
	return a, nil
}

// loadStored restores the persisted model. It reports false when there is
// no usable model and one should be trained.
func (a *App) loadStored() bool {
	if a.store == nil {
		return false
	}
	m, err := a.store.GetModel()
	if errors.Is(err, store.ErrNoModel) {
		logger.Info("No stored model; training")
		return false
	}
	if err != nil {
		logger.WithField("error", err.Error()).Warn("Reading stored model failed; retraining")
		return false
	}
	if !sameSchema(m.FeatureSchema, analysis.FeatureSchema) {
		logger.WithField("schema", m.FeatureSchema).Warn("Stored model uses a different feature schema; retraining")
		return false
	}

	forest, err := model.Decode(m.Payload)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("Stored model is unreadable; retraining")
		return false
	}

	a.forest = forest
	a.info = ModelInfo{
		Source:       ModelSourceStored,
		Trees:        m.Trees,
		TrainingRows: m.TrainingRows,
		R2:           m.R2,
		RMSE:         m.RMSE,
		MAE:          m.MAE,
		BaselineR2:   m.BaselineR2,
		TrainedAt:    m.TrainedAt,
		Fingerprint:  m.DatasetFingerprint,
		Stale:        m.DatasetFingerprint != a.fingerprint,
	}
	if a.info.Stale {
		logger.WithFields(map[string]interface{}{
			"stored":  m.DatasetFingerprint,
			"dataset": a.fingerprint,
		}).Warn("Stored model was trained on a different dataset; normalization may be stale")
	}
	return true
}

func (a *App) train(progress model.ProgressFunc) error {
	forest, report, err := model.Train(a.table, modelConfig(a.cfg), progress)
	if err != nil {
		return fmt.Errorf("training model: %w", err)
	}
	if forest == nil {
		return ErrModelUnavailable
	}

	a.forest = forest
	a.report = report
	a.info = ModelInfo{
		Source:       ModelSourceTrained,
		Trees:        len(forest.Trees),
		TrainingRows: report.Rows,
		R2:           finite(report.Scores.R2),
		RMSE:         finite(report.Scores.RMSE),
		MAE:          finite(report.Scores.MAE),
		TrainedAt:    time.Now().UTC().Truncate(time.Second),
		Fingerprint:  a.fingerprint,
	}
	if report.Baseline != nil {
		a.info.BaselineR2 = finite(report.Baseline.Scores.R2)
	}

	if a.store == nil {
		return nil
	}
	return a.save()
}

func (a *App) save() error {
	payload, err := model.Encode(a.forest)
	if err != nil {
		return err
	}

	ranked := analysis.RankFeatures(a.forest.Features, a.forest.FeatureImportances())
	importances := make([]store.FeatureImportance, len(ranked))
	for i, fi := range ranked {
		importances[i] = store.FeatureImportance{Feature: fi.Name, Importance: fi.Importance, Rank: i + 1}
	}

	err = a.store.SaveModel(&store.Model{
		Payload:            payload,
		Trees:              a.info.Trees,
		Seed:               a.forest.Config.Seed,
		FeatureSchema:      a.forest.Features,
		DatasetPath:        a.datasetPath,
		DatasetFingerprint: a.fingerprint,
		TrainingRows:       a.info.TrainingRows,
		R2:                 a.info.R2,
		RMSE:               a.info.RMSE,
		MAE:                a.info.MAE,
		BaselineR2:         a.info.BaselineR2,
		TrainedAt:          a.info.TrainedAt,
	}, importances)
	if err != nil {
		return fmt.Errorf("saving model: %w", err)
	}
	return nil
}

func modelConfig(cfg *config.Config) model.Config {
	return model.Config{
		Trees:           cfg.Model.Trees,
		Seed:            cfg.Model.Seed,
		MaxDepth:        cfg.Model.MaxDepth,
		MinSamplesSplit: cfg.Model.MinSamplesSplit,
		MinSamplesLeaf:  cfg.Model.MinSamplesLeaf,
	}
}

func sameSchema(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Table returns the engineered reference table
func (a *App) Table() *dataset.Table { return a.table }

// DatasetPath returns the file the table was loaded from
func (a *App) DatasetPath() string { return a.datasetPath }

// Bounds returns the normalisation bounds of the loaded table
func (a *App) Bounds() analysis.Bounds { return a.bounds }

// HasModel reports whether predictions are available
func (a *App) HasModel() bool { return a.forest != nil }

// ModelInfo describes the serving model
func (a *App) ModelInfo() ModelInfo { return a.info }

// TrainingReport returns the report of a model trained by this process, or nil
func (a *App) TrainingReport() *model.Report { return a.report }
