package dataset

import (
	"fmt"
	"math"
	"strings"
)

// WeightClasses are the reference body weights (lb) tabulated by the source data
var WeightClasses = [4]int{130, 155, 180, 205}

// Column names of the reference table
const (
	ColActivity      = "activity"
	ColCaloriesPerKg = "Calories per kg"
	ColAvgCalories   = "avg_calories"
	ColIntensity     = "intensity"
	ColActivityType  = "activity_type"
	ColNormalized    = "normalized_calories_per_kg"
	ColEstimatedMET  = "estimated_met"
)

// activityAliases are accepted in place of ColActivity
var activityAliases = []string{
	"Activity, Exercise or Sport (1 hour)",
	"activity name",
}

// SignatureColumns mark a table whose derived columns already exist
var SignatureColumns = []string{ColAvgCalories, ColIntensity, ColActivityType, ColEstimatedMET}

// WeightColumn returns the raw column for a weight class, e.g. "130 lb"
func WeightColumn(lb int) string {
	return fmt.Sprintf("%d lb", lb)
}

// PerWeightColumn returns the duplicate column for a weight class, e.g. "calories_per_130lb"
func PerWeightColumn(lb int) string {
	return fmt.Sprintf("calories_per_%dlb", lb)
}

// EngineeredColumns returns the full column order of an engineered table
func EngineeredColumns() []string {
	cols := []string{ColActivity}
	for _, w := range WeightClasses {
		cols = append(cols, WeightColumn(w))
	}
	cols = append(cols, ColCaloriesPerKg, ColAvgCalories)
	for _, w := range WeightClasses {
		cols = append(cols, PerWeightColumn(w))
	}
	return append(cols, ColIntensity, ColActivityType, ColNormalized, ColEstimatedMET)
}

// Intensity is the effort label of an activity
type Intensity string

const (
	IntensityLow      Intensity = "Low"
	IntensityModerate Intensity = "Moderate"
	IntensityHigh     Intensity = "High"
	IntensityUnknown  Intensity = "Unknown"
)

// Intensities lists the valid labels in ascending order
var Intensities = []Intensity{IntensityLow, IntensityModerate, IntensityHigh}

// ParseIntensity maps a label to an Intensity. Anything unrecognised is Unknown.
func ParseIntensity(s string) Intensity {
	for _, i := range Intensities {
		if strings.EqualFold(strings.TrimSpace(s), string(i)) {
			return i
		}
	}
	return IntensityUnknown
}

// ActivityType is the broad category of an activity
type ActivityType string

const (
	TypeCardio      ActivityType = "Cardio"
	TypeStrength    ActivityType = "Strength"
	TypeFlexibility ActivityType = "Flexibility"
	TypeSports      ActivityType = "Sports" // custom entries only; never derived from a name
	TypeOther       ActivityType = "Other"
)

// ActivityTypes lists every type a user can pick for a custom activity
var ActivityTypes = []ActivityType{TypeCardio, TypeStrength, TypeFlexibility, TypeSports, TypeOther}

// ParseActivityType maps a label to an ActivityType, defaulting to Other
func ParseActivityType(s string) ActivityType {
	for _, t := range ActivityTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t
		}
	}
	return TypeOther
}

// Record is one engineered row of the reference table. NaN marks a missing
// or unparseable number.
type Record struct {
	Activity                string
	Calories                [4]float64 // hourly burn per weight class, same order as WeightClasses
	CaloriesPerKg           float64
	AvgCalories             float64
	CaloriesPerClass        [4]float64 // calories_per_Nlb, duplicates Calories
	Intensity               Intensity
	Type                    ActivityType
	NormalizedCaloriesPerKg float64
	EstimatedMET            float64
}

// Table is the engineered reference table, read-only once loaded
type Table struct {
	Records []Record
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Find returns the first record whose activity matches name exactly
func (t *Table) Find(name string) (Record, bool) {
	if t == nil {
		return Record{}, false
	}
	for _, r := range t.Records {
		if r.Activity == name {
			return r, true
		}
	}
	return Record{}, false
}

// CaloriesPerKgRange returns the min and max finite Calories per kg.
// ok is false when the table has no finite values.
func (t *Table) CaloriesPerKgRange() (min, max float64, ok bool) {
	if t == nil {
		return 0, 0, false
	}
	min, max = math.Inf(1), math.Inf(-1)
	for _, r := range t.Records {
		v := r.CaloriesPerKg
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}
