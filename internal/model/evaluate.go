package model

import (
	"fmt"
	"math"

	"github.com/sajari/regression"
	"gonum.org/v1/gonum/stat"
)

// Scores are in-sample fit statistics
type Scores struct {
	R2   float64
	RMSE float64
	MAE  float64
}

// Score compares predictions with actual values. Mismatched or empty
// inputs score NaN.
func Score(predicted, actual []float64) Scores {
	if len(predicted) == 0 || len(predicted) != len(actual) {
		return Scores{R2: math.NaN(), RMSE: math.NaN(), MAE: math.NaN()}
	}

	var sq, abs float64
	for i := range predicted {
		d := predicted[i] - actual[i]
		sq += d * d
		abs += math.Abs(d)
	}
	n := float64(len(predicted))
	return Scores{
		R2:   stat.RSquaredFrom(predicted, actual, nil),
		RMSE: math.Sqrt(sq / n),
		MAE:  abs / n,
	}
}

// Baseline is a one-variable least-squares fit used to put the forest's
// scores in context
type Baseline struct {
	Variable string
	Scores   Scores
	Formula  string
}

// FitBaseline regresses y on a single explanatory variable
func FitBaseline(name string, x, y []float64) (*Baseline, error) {
	if len(x) < 3 || len(x) != len(y) {
		return nil, fmt.Errorf("%w: baseline needs at least 3 paired rows", ErrNoSamples)
	}

	r := new(regression.Regression)
	r.SetObserved("avg_calories")
	r.SetVar(0, name)
	for i := range x {
		r.Train(regression.DataPoint(y[i], []float64{x[i]}))
	}
	if err := r.Run(); err != nil {
		return nil, fmt.Errorf("fitting baseline: %w", err)
	}

	predicted := make([]float64, len(x))
	for i := range x {
		p, err := r.Predict([]float64{x[i]})
		if err != nil {
			return nil, fmt.Errorf("baseline prediction: %w", err)
		}
		predicted[i] = p
	}

	return &Baseline{
		Variable: name,
		Scores:   Score(predicted, y),
		Formula:  r.Formula,
	}, nil
}
