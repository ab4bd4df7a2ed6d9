package analysis

import (
	"strings"

	"metriburn/internal/dataset"
)

// Calorie thresholds (kcal/hour) for intensity when the name carries no keyword
const (
	LowIntensityMaxCalories      = 250
	ModerateIntensityMaxCalories = 450
)

// keywordRule assigns label when the activity name contains any keyword
type keywordRule[T any] struct {
	keywords []string
	label    T
}

// Rule order is precedence: the first matching rule wins.
var intensityRules = []keywordRule[dataset.Intensity]{
	{[]string{"light", "mild", "slow", "leisure"}, dataset.IntensityLow},
	{[]string{"moderate", "medium"}, dataset.IntensityModerate},
	{[]string{"vigorous", "fast", "racing", "high"}, dataset.IntensityHigh},
}

var activityTypeRules = []keywordRule[dataset.ActivityType]{
	{[]string{"cycling", "running", "rowing", "aerobics", "dancing"}, dataset.TypeCardio},
	{[]string{"weight lifting", "calisthenics", "body building"}, dataset.TypeStrength},
	{[]string{"yoga", "stretching"}, dataset.TypeFlexibility},
}

func matchRules[T any](name string, rules []keywordRule[T]) (T, bool) {
	lower := strings.ToLower(name)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.label, true
			}
		}
	}
	var zero T
	return zero, false
}

// ClassifyIntensity labels an activity from keywords in its name, falling
// back to its average hourly calories when known, and to Moderate otherwise.
func ClassifyIntensity(name string, avgCalories *float64) dataset.Intensity {
	if label, ok := matchRules(name, intensityRules); ok {
		return label
	}
	if avgCalories != nil {
		return IntensityFromCalories(*avgCalories)
	}
	return dataset.IntensityModerate
}

// IntensityFromCalories buckets an average hourly burn
func IntensityFromCalories(avg float64) dataset.Intensity {
	switch {
	case avg < LowIntensityMaxCalories:
		return dataset.IntensityLow
	case avg < ModerateIntensityMaxCalories:
		return dataset.IntensityModerate
	default:
		return dataset.IntensityHigh
	}
}

// ClassifyActivityType labels an activity from keywords in its name
func ClassifyActivityType(name string) dataset.ActivityType {
	if label, ok := matchRules(name, activityTypeRules); ok {
		return label
	}
	return dataset.TypeOther
}
