package analysis

import (
	"math"
	"sort"

	"metriburn/internal/dataset"
)

// AllCategories selects every activity type
const AllCategories = "All"

// Comparable band around an activity's average burn
const (
	comparableLow  = 0.8
	comparableHigh = 1.2
)

// Comparable returns up to limit other activities whose average burn is
// within 20% of rec's, highest burn first
func Comparable(t *dataset.Table, rec dataset.Record, limit int) []dataset.Record {
	if t == nil || math.IsNaN(rec.AvgCalories) {
		return nil
	}
	lo, hi := rec.AvgCalories*comparableLow, rec.AvgCalories*comparableHigh

	var out []dataset.Record
	for _, r := range t.Records {
		if r.Activity == rec.Activity {
			continue
		}
		if r.AvgCalories >= lo && r.AvgCalories <= hi {
			out = append(out, r)
		}
	}
	return topByCalories(out, limit)
}

// Examples returns up to limit reference activities with the given type and
// intensity, highest burn first
func Examples(t *dataset.Table, at dataset.ActivityType, in dataset.Intensity, limit int) []dataset.Record {
	if t == nil {
		return nil
	}
	var out []dataset.Record
	for _, r := range t.Records {
		if r.Type == at && r.Intensity == in {
			out = append(out, r)
		}
	}
	return topByCalories(out, limit)
}

// topByCalories sorts by descending average burn (missing values last)
// and keeps the first limit records
func topByCalories(recs []dataset.Record, limit int) []dataset.Record {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i].AvgCalories, recs[j].AvgCalories
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
	if limit >= 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// Categories lists "All" followed by the activity types present, sorted
func Categories(t *dataset.Table) []string {
	seen := map[dataset.ActivityType]bool{}
	var types []string
	if t != nil {
		for _, r := range t.Records {
			if !seen[r.Type] {
				seen[r.Type] = true
				types = append(types, string(r.Type))
			}
		}
	}
	sort.Strings(types)
	return append([]string{AllCategories}, types...)
}

// ActivitiesIn lists the sorted activity names in a category
func ActivitiesIn(t *dataset.Table, category string) []string {
	if t == nil {
		return nil
	}
	var names []string
	for _, r := range t.Records {
		if r.Activity == "" {
			continue
		}
		if category == AllCategories || string(r.Type) == category {
			names = append(names, r.Activity)
		}
	}
	sort.Strings(names)
	return names
}

// LabelCount is a label and how many activities carry it
type LabelCount struct {
	Label string
	Count int
}

// TypeCalories summarises the average burn of one activity type
type TypeCalories struct {
	Type dataset.ActivityType
	Mean float64
	Min  float64
	Max  float64
}

// Summary describes the reference table for the explore view
type Summary struct {
	Activities     int
	ByType         []LabelCount
	ByIntensity    []LabelCount
	CaloriesByType []TypeCalories
	Top            []dataset.Record
}

// Summarize counts activities by type and intensity and picks the topN
// highest-burning activities
func Summarize(t *dataset.Table, topN int) Summary {
	var s Summary
	if t == nil {
		return s
	}
	s.Activities = t.Len()

	typeCounts := map[string]int{}
	intensityCounts := map[string]int{}
	burns := map[dataset.ActivityType][]float64{}
	for _, r := range t.Records {
		typeCounts[string(r.Type)]++
		intensityCounts[string(r.Intensity)]++
		if !math.IsNaN(r.AvgCalories) {
			burns[r.Type] = append(burns[r.Type], r.AvgCalories)
		}
	}

	s.ByType = sortedCounts(typeCounts)
	for _, in := range append(dataset.Intensities, dataset.IntensityUnknown) {
		if n := intensityCounts[string(in)]; n > 0 {
			s.ByIntensity = append(s.ByIntensity, LabelCount{Label: string(in), Count: n})
		}
	}

	for _, lc := range s.ByType {
		vals := burns[dataset.ActivityType(lc.Label)]
		if len(vals) == 0 {
			continue
		}
		tc := TypeCalories{Type: dataset.ActivityType(lc.Label), Min: vals[0], Max: vals[0]}
		var sum float64
		for _, v := range vals {
			sum += v
			tc.Min = math.Min(tc.Min, v)
			tc.Max = math.Max(tc.Max, v)
		}
		tc.Mean = sum / float64(len(vals))
		s.CaloriesByType = append(s.CaloriesByType, tc)
	}

	all := make([]dataset.Record, len(t.Records))
	copy(all, t.Records)
	s.Top = topByCalories(all, topN)
	return s
}

// sortedCounts orders by count descending, then label
func sortedCounts(m map[string]int) []LabelCount {
	out := make([]LabelCount, 0, len(m))
	for label, n := range m {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
