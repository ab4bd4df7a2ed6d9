package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNoSamples is returned when there is nothing to fit
	ErrNoSamples = errors.New("no training samples")

	// ErrFeatureMismatch is returned when a vector does not match the model's features
	ErrFeatureMismatch = errors.New("feature vector does not match model")

	// ErrUntrained is returned when predicting with a nil or empty forest
	ErrUntrained = errors.New("model is not trained")
)

// Regressor maps a feature vector to a prediction
type Regressor interface {
	Predict(x []float64) (float64, error)
}

// Config controls forest fitting
type Config struct {
	Trees           int
	Seed            int64
	MaxDepth        int // 0 grows until leaves are pure
	MinSamplesSplit int
	MinSamplesLeaf  int
}

// DefaultConfig mirrors a conventional random forest: 100 unpruned trees
func DefaultConfig() Config {
	return Config{
		Trees:           100,
		Seed:            42,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
}

// ProgressFunc is called after each tree is fitted
type ProgressFunc func(done, total int)

// Forest is a bagged ensemble of regression trees
type Forest struct {
	Trees       []Tree
	Features    []string
	Importances []float64
	Config      Config
}

// Fit grows cfg.Trees trees, each on a bootstrap sample of the rows.
// Every split considers all features. Fitting is deterministic for a
// given seed.
func Fit(x [][]float64, y []float64, features []string, cfg Config, progress ProgressFunc) (*Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d targets", ErrNoSamples, len(x), len(y))
	}
	for i, row := range x {
		if len(row) != len(features) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrFeatureMismatch, i, len(row), len(features))
		}
	}
	if cfg.Trees < 1 {
		cfg.Trees = 1
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	f := &Forest{
		Trees:       make([]Tree, 0, cfg.Trees),
		Features:    append([]string(nil), features...),
		Importances: make([]float64, len(features)),
		Config:      cfg,
	}

	n := len(x)
	for t := 0; t < cfg.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}

		tree, imp := growTree(x, y, sample, cfg)
		f.Trees = append(f.Trees, *tree)
		if total := floats.Sum(imp); total > 0 {
			floats.Scale(1/total, imp)
			floats.Add(f.Importances, imp)
		}

		if progress != nil {
			progress(t+1, cfg.Trees)
		}
	}

	if total := floats.Sum(f.Importances); total > 0 {
		floats.Scale(1/total, f.Importances)
	}
	return f, nil
}

// Predict averages the trees' predictions for x
func (f *Forest) Predict(x []float64) (float64, error) {
	if f == nil || len(f.Trees) == 0 {
		return math.NaN(), ErrUntrained
	}
	if len(x) != len(f.Features) {
		return math.NaN(), fmt.Errorf("%w: got %d values, want %d", ErrFeatureMismatch, len(x), len(f.Features))
	}

	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].Predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}

// PredictAll predicts every row of x
func (f *Forest) PredictAll(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, row := range x {
		p, err := f.Predict(row)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// FeatureImportances returns the mean impurity decrease per feature,
// normalised to sum to 1, in Features order
func (f *Forest) FeatureImportances() []float64 {
	if f == nil {
		return nil
	}
	return append([]float64(nil), f.Importances...)
}
