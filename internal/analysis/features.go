package analysis

import (
	"math"
	"sort"

	"metriburn/internal/dataset"
)

const (
	// ReferenceBodyMassKg is the body mass the MET proxy assumes
	ReferenceBodyMassKg = 70.0

	// DefaultCustomMET is used for custom (type, intensity) pairs with no table entry
	DefaultCustomMET = 5.0

	// CustomCaloriesPerKgFactor approximates Calories per kg from a MET value
	CustomCaloriesPerKgFactor = 1.05
)

// TargetColumn is the regression target
const TargetColumn = dataset.ColAvgCalories

// FeatureSchema is the ordered list of model inputs. Training and inference
// both build vectors in this order; the calories_per_Nlb columns duplicate
// the weight-class columns and are kept so persisted models keep their shape.
var FeatureSchema = buildFeatureSchema()

func buildFeatureSchema() []string {
	var cols []string
	for _, w := range dataset.WeightClasses {
		cols = append(cols, dataset.WeightColumn(w))
	}
	cols = append(cols, dataset.ColCaloriesPerKg)
	for _, w := range dataset.WeightClasses {
		cols = append(cols, dataset.PerWeightColumn(w))
	}
	return append(cols, dataset.ColNormalized, dataset.ColEstimatedMET)
}

// FeatureVector is one model input row
type FeatureVector struct {
	Calories                [4]float64
	CaloriesPerKg           float64
	CaloriesPerClass        [4]float64
	NormalizedCaloriesPerKg float64
	EstimatedMET            float64
}

// Values flattens the vector in FeatureSchema order
func (v FeatureVector) Values() []float64 {
	out := make([]float64, 0, len(FeatureSchema))
	out = append(out, v.Calories[:]...)
	out = append(out, v.CaloriesPerKg)
	out = append(out, v.CaloriesPerClass[:]...)
	return append(out, v.NormalizedCaloriesPerKg, v.EstimatedMET)
}

// HasMissing reports whether any feature is NaN
func (v FeatureVector) HasMissing() bool {
	for _, x := range v.Values() {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}

// RecordFeatures extracts the training vector of an engineered record
func RecordFeatures(r dataset.Record) FeatureVector {
	return FeatureVector{
		Calories:                r.Calories,
		CaloriesPerKg:           r.CaloriesPerKg,
		CaloriesPerClass:        r.CaloriesPerClass,
		NormalizedCaloriesPerKg: r.NormalizedCaloriesPerKg,
		EstimatedMET:            r.EstimatedMET,
	}
}

// Bounds holds the Calories per kg range used for min-max normalisation
type Bounds struct {
	Min   float64
	Max   float64
	Valid bool
}

// BoundsFromTable computes normalisation bounds from the current table
func BoundsFromTable(t *dataset.Table) Bounds {
	min, max, ok := t.CaloriesPerKgRange()
	return Bounds{Min: min, Max: max, Valid: ok}
}

// Degenerate reports whether the range cannot scale values (no data or min == max)
func (b Bounds) Degenerate() bool {
	return !b.Valid || b.Max == b.Min
}

// Normalize maps v into [0,1] relative to the bounds. Missing values stay
// NaN; a degenerate range maps every value to 0.
func (b Bounds) Normalize(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	if b.Degenerate() {
		return 0
	}
	return (v - b.Min) / (b.Max - b.Min)
}

// Synthesize rebuilds a model input for a user of userWeightLbs performing an
// activity with the given MET and Calories per kg. Each weight-class value is
// met*70 scaled by classWeight/userWeight, matching how the training features
// relate to the target. userWeightLbs must be positive.
func Synthesize(met, caloriesPerKg, userWeightLbs float64, b Bounds) FeatureVector {
	var v FeatureVector
	for i, w := range dataset.WeightClasses {
		c := met * ReferenceBodyMassKg * (float64(w) / userWeightLbs)
		v.Calories[i] = c
		v.CaloriesPerClass[i] = c
	}
	v.CaloriesPerKg = caloriesPerKg
	v.NormalizedCaloriesPerKg = b.Normalize(caloriesPerKg)
	v.EstimatedMET = met
	return v
}

type customKey struct {
	activityType dataset.ActivityType
	intensity    dataset.Intensity
}

var customMETs = map[customKey]float64{
	{dataset.TypeCardio, dataset.IntensityLow}:           4.0,
	{dataset.TypeCardio, dataset.IntensityModerate}:      7.0,
	{dataset.TypeCardio, dataset.IntensityHigh}:          10.0,
	{dataset.TypeStrength, dataset.IntensityLow}:         3.0,
	{dataset.TypeStrength, dataset.IntensityModerate}:    5.0,
	{dataset.TypeStrength, dataset.IntensityHigh}:        8.0,
	{dataset.TypeFlexibility, dataset.IntensityLow}:      2.0,
	{dataset.TypeFlexibility, dataset.IntensityModerate}: 3.0,
	{dataset.TypeFlexibility, dataset.IntensityHigh}:     4.0,
	{dataset.TypeSports, dataset.IntensityLow}:           4.0,
	{dataset.TypeSports, dataset.IntensityModerate}:      6.0,
	{dataset.TypeSports, dataset.IntensityHigh}:          9.0,
	{dataset.TypeOther, dataset.IntensityLow}:            3.0,
	{dataset.TypeOther, dataset.IntensityModerate}:       5.0,
	{dataset.TypeOther, dataset.IntensityHigh}:           7.0,
}

// CustomMET returns the MET for a free-form activity, or DefaultCustomMET
func CustomMET(t dataset.ActivityType, i dataset.Intensity) float64 {
	if met, ok := customMETs[customKey{t, i}]; ok {
		return met
	}
	return DefaultCustomMET
}

// CustomActivity returns the MET and approximate Calories per kg for a
// free-form (type, intensity) pair
func CustomActivity(t dataset.ActivityType, i dataset.Intensity) (met, caloriesPerKg float64) {
	met = CustomMET(t, i)
	return met, met * CustomCaloriesPerKgFactor
}

// FeatureImportance pairs a feature name with its importance
type FeatureImportance struct {
	Name       string
	Importance float64
}

// RankFeatures zips names with importances, most important first. Extra
// entries on either side are ignored.
func RankFeatures(names []string, importances []float64) []FeatureImportance {
	n := len(names)
	if len(importances) < n {
		n = len(importances)
	}
	ranked := make([]FeatureImportance, n)
	for i := 0; i < n; i++ {
		ranked[i] = FeatureImportance{Name: names[i], Importance: importances[i]}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Importance > ranked[b].Importance
	})
	return ranked
}
