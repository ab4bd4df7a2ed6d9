package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"metriburn/internal/analysis"
	"metriburn/internal/dataset"
	"metriburn/internal/logger"
	"metriburn/internal/model"
)

// EstimateRequest is one user query. Custom requests describe the activity
// by type and intensity instead of naming a reference activity.
type EstimateRequest struct {
	Activity        string
	Custom          bool
	CustomType      dataset.ActivityType
	CustomIntensity dataset.Intensity
	WeightLbs       float64
	DurationMinutes float64
}

// Estimate is a prediction and everything derived from it
type Estimate struct {
	ID              string
	Activity        string
	Type            dataset.ActivityType
	Intensity       dataset.Intensity
	Custom          bool
	MET             float64
	WeightLbs       float64
	DurationMinutes float64

	CaloriesPerHour float64
	TotalCalories   float64
	Metrics         analysis.SessionMetrics
	Foods           []analysis.FoodEquivalent
	Commentary      string
	Curve           []analysis.CurvePoint

	// Comparable holds similar reference activities, or examples of the
	// chosen type and intensity for custom requests
	Comparable []dataset.Record
	Features   analysis.FeatureVector
}

// CustomName labels a custom activity, e.g. "Custom Cardio (High)"
func CustomName(t dataset.ActivityType, i dataset.Intensity) string {
	return fmt.Sprintf("Custom %s (%s)", t, i)
}

// Predict runs the regressor on a feature vector
func Predict(r model.Regressor, v analysis.FeatureVector) (float64, error) {
	if r == nil {
		return math.NaN(), ErrModelUnavailable
	}
	if f, ok := r.(*model.Forest); ok && f == nil {
		return math.NaN(), ErrModelUnavailable
	}
	p, err := r.Predict(v.Values())
	if errors.Is(err, model.ErrUntrained) {
		return math.NaN(), ErrModelUnavailable
	}
	return p, err
}

// Estimate predicts calories for the request
func (a *App) Estimate(req EstimateRequest) (*Estimate, error) {
	if err := analysis.ValidateRequest(analysis.Input{
		Activity:        req.Activity,
		Custom:          req.Custom,
		WeightLbs:       req.WeightLbs,
		DurationMinutes: req.DurationMinutes,
	}, a.limits()); err != nil {
		return nil, err
	}
	if a.forest == nil {
		return nil, ErrModelUnavailable
	}

	est := &Estimate{
		ID:              uuid.NewString(),
		Custom:          req.Custom,
		WeightLbs:       req.WeightLbs,
		DurationMinutes: req.DurationMinutes,
	}

	var perKg float64
	if req.Custom {
		est.Type, est.Intensity = req.CustomType, req.CustomIntensity
		est.Activity = CustomName(req.CustomType, req.CustomIntensity)
		est.MET, perKg = analysis.CustomActivity(req.CustomType, req.CustomIntensity)
		est.Comparable = analysis.Examples(a.table, req.CustomType, req.CustomIntensity, ExamplesLimit)
	} else {
		rec, ok := a.table.Find(req.Activity)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownActivity, req.Activity)
		}
		est.Activity = rec.Activity
		est.Type, est.Intensity = rec.Type, rec.Intensity
		est.MET, perKg = rec.EstimatedMET, rec.CaloriesPerKg
		est.Comparable = analysis.Comparable(a.table, rec, ComparableLimit)
	}

	est.Features = analysis.Synthesize(est.MET, perKg, req.WeightLbs, a.bounds)
	cph, err := Predict(a.forest, est.Features)
	if err != nil {
		return nil, err
	}

	est.CaloriesPerHour = cph
	est.TotalCalories = analysis.ScaleToDuration(cph, req.DurationMinutes)
	est.Metrics = analysis.CalorieMetrics(est.TotalCalories, analysis.LbsToKg(req.WeightLbs), req.DurationMinutes)
	est.Foods = analysis.FoodEquivalents(est.TotalCalories)
	est.Commentary = analysis.IntensityCommentary(est.TotalCalories)
	est.Curve = analysis.BurnCurve(cph, req.DurationMinutes, BurnCurvePoints)

	logger.WithActivity(est.Activity).WithFields(map[string]interface{}{
		"estimate_id":       est.ID,
		"weight_lbs":        req.WeightLbs,
		"duration_minutes":  req.DurationMinutes,
		"calories_per_hour": math.Round(cph),
		"total_calories":    math.Round(est.TotalCalories),
	}).Info("Estimate computed")

	return est, nil
}

func (a *App) limits() analysis.Limits {
	in := a.cfg.Inputs
	return analysis.Limits{
		MinWeight:   in.MinWeight,
		MaxWeight:   in.MaxWeight,
		MinDuration: in.MinDuration,
		MaxDuration: in.MaxDuration,
	}
}
