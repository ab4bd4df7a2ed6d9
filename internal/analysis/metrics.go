package analysis

import (
	"fmt"
	"math"
)

// LbsToKg converts pounds to kilograms
func LbsToKg(lbs float64) float64 {
	return lbs * 0.45359237
}

// ScaleToDuration converts an hourly burn into the total for a session
func ScaleToDuration(caloriesPerHour, durationMinutes float64) float64 {
	return caloriesPerHour * durationMinutes / 60
}

// Food is a reference food and its energy content
type Food struct {
	Name     string
	Calories float64
}

// FoodCatalog lists the comparison foods in display order
var FoodCatalog = []Food{
	{"Slice of Pizza", 285},
	{"Apple", 95},
	{"Chocolate Bar", 210},
	{"Can of Soda", 140},
	{"Mile Walked", 100},
}

// minFoodQuantity hides comparisons too small to be meaningful
const minFoodQuantity = 0.5

// FoodEquivalent is how many of a food a burn corresponds to
type FoodEquivalent struct {
	Food     Food
	Quantity float64
}

// FoodEquivalents expresses a calorie total in catalog foods. Quantities
// below half a unit are omitted.
func FoodEquivalents(total float64) []FoodEquivalent {
	var out []FoodEquivalent
	for _, f := range FoodCatalog {
		q := total / f.Calories
		if q < minFoodQuantity {
			continue
		}
		out = append(out, FoodEquivalent{Food: f, Quantity: q})
	}
	return out
}

// IntensityCommentary returns an encouraging note for a session total
func IntensityCommentary(total float64) string {
	switch {
	case total < 100:
		return "Good start! Every movement counts on your wellness journey."
	case total < 300:
		return "Great progress! You're building healthy habits that last."
	case total < 500:
		return "Excellent burn! You're making serious progress toward your goals."
	default:
		return "Outstanding performance! You're a calorie-burning champion."
	}
}

// SessionMetrics are rates derived from a session total
type SessionMetrics struct {
	CaloriesPerMinute float64
	CaloriesPerKg     float64
	METEstimate       float64
	Level             string
}

// CalorieMetrics derives per-minute and per-kg rates plus a rough MET level.
// Weight and duration are floored at 1 to avoid dividing by zero.
func CalorieMetrics(total, weightKg, durationMinutes float64) SessionMetrics {
	minutes := math.Max(durationMinutes, 1)
	kg := math.Max(weightKg, 1)

	perKg := total / kg
	met := perKg / (minutes / 60)

	level := "Vigorous"
	switch {
	case met < 3:
		level = "Light"
	case met < 6:
		level = "Moderate"
	}

	return SessionMetrics{
		CaloriesPerMinute: total / minutes,
		CaloriesPerKg:     perKg,
		METEstimate:       met,
		Level:             level,
	}
}

// FormatDuration renders minutes as "45 minutes", "1 hour" or "1h 30m"
func FormatDuration(minutes float64) string {
	m := int(math.Round(minutes))
	if m < 60 {
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	h, rem := m/60, m%60
	if rem == 0 {
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return fmt.Sprintf("%dh %dm", h, rem)
}

// CurvePoint is the cumulative burn after a number of minutes
type CurvePoint struct {
	Minutes  float64
	Calories float64
}

// BurnCurve samples the cumulative burn from 0 to durationMinutes at
// points evenly spaced intervals (at least two points)
func BurnCurve(caloriesPerHour, durationMinutes float64, points int) []CurvePoint {
	if points < 2 {
		points = 2
	}
	curve := make([]CurvePoint, points)
	for i := range curve {
		m := durationMinutes * float64(i) / float64(points-1)
		curve[i] = CurvePoint{Minutes: m, Calories: ScaleToDuration(caloriesPerHour, m)}
	}
	return curve
}
