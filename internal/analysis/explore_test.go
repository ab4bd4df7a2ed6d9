package analysis

import (
	"math"
	"strconv"
	"testing"

	"metriburn/internal/dataset"
)

func calorieTable(avgs ...float64) *dataset.Table {
	t := &dataset.Table{}
	for i, a := range avgs {
		t.Records = append(t.Records, dataset.Record{Activity: "act" + strconv.Itoa(i), AvgCalories: a})
	}
	return t
}

func TestComparable(t *testing.T) {
	table := calorieTable(300, 320, 350, 380, 400, 410, 450, 480, 481, 470, math.NaN())
	self := table.Records[4]

	got := Comparable(table, self, 5)
	want := []float64{480, 470, 450, 410, 380}
	if len(got) != len(want) {
		t.Fatalf("Comparable() returned %d records, want %d", len(got), len(want))
	}
	for i, r := range got {
		if r.AvgCalories != want[i] {
			t.Errorf("result %d avg = %v, want %v", i, r.AvgCalories, want[i])
		}
		if r.Activity == self.Activity {
			t.Error("Comparable() should exclude the activity itself")
		}
		if r.AvgCalories < 320 || r.AvgCalories > 480 {
			t.Errorf("result %v outside [320, 480]", r.AvgCalories)
		}
	}

	if got := Comparable(table, dataset.Record{AvgCalories: math.NaN()}, 5); got != nil {
		t.Errorf("unknown average should yield nothing, got %v", got)
	}
}

func TestExamples(t *testing.T) {
	table := &dataset.Table{Records: []dataset.Record{
		{Activity: "a", Type: dataset.TypeCardio, Intensity: dataset.IntensityHigh, AvgCalories: 600},
		{Activity: "b", Type: dataset.TypeCardio, Intensity: dataset.IntensityHigh, AvgCalories: 800},
		{Activity: "c", Type: dataset.TypeCardio, Intensity: dataset.IntensityLow, AvgCalories: 200},
		{Activity: "d", Type: dataset.TypeOther, Intensity: dataset.IntensityHigh, AvgCalories: 900},
	}}
	got := Examples(table, dataset.TypeCardio, dataset.IntensityHigh, 5)
	if len(got) != 2 || got[0].Activity != "b" || got[1].Activity != "a" {
		t.Errorf("Examples() = %+v, want [b a]", got)
	}
	if got := Examples(table, dataset.TypeSports, dataset.IntensityHigh, 5); len(got) != 0 {
		t.Errorf("Examples() for Sports = %+v, want none", got)
	}
}

func TestCategoriesAndActivities(t *testing.T) {
	table := &dataset.Table{Records: []dataset.Record{
		{Activity: "Yoga", Type: dataset.TypeFlexibility},
		{Activity: "Cycling", Type: dataset.TypeCardio},
		{Activity: "Aerobics", Type: dataset.TypeCardio},
		{Activity: "", Type: dataset.TypeOther},
	}}

	cats := Categories(table)
	want := []string{"All", "Cardio", "Flexibility", "Other"}
	if len(cats) != len(want) {
		t.Fatalf("Categories() = %q, want %q", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, cats[i], want[i])
		}
	}

	cardio := ActivitiesIn(table, "Cardio")
	if len(cardio) != 2 || cardio[0] != "Aerobics" || cardio[1] != "Cycling" {
		t.Errorf("ActivitiesIn(Cardio) = %q", cardio)
	}
	if all := ActivitiesIn(table, AllCategories); len(all) != 3 {
		t.Errorf("ActivitiesIn(All) = %q, want 3 named activities", all)
	}
	if got := Categories(nil); len(got) != 1 || got[0] != AllCategories {
		t.Errorf("Categories(nil) = %q", got)
	}
}

func TestSummarize(t *testing.T) {
	table := &dataset.Table{Records: []dataset.Record{
		{Activity: "a", Type: dataset.TypeCardio, Intensity: dataset.IntensityHigh, AvgCalories: 600},
		{Activity: "b", Type: dataset.TypeCardio, Intensity: dataset.IntensityModerate, AvgCalories: 400},
		{Activity: "c", Type: dataset.TypeOther, Intensity: dataset.IntensityLow, AvgCalories: 200},
	}}

	s := Summarize(table, 2)
	if s.Activities != 3 {
		t.Errorf("Activities = %d, want 3", s.Activities)
	}
	if s.ByType[0].Label != "Cardio" || s.ByType[0].Count != 2 {
		t.Errorf("ByType[0] = %+v, want Cardio x2", s.ByType[0])
	}
	if len(s.ByIntensity) != 3 || s.ByIntensity[0].Label != "Low" {
		t.Errorf("ByIntensity = %+v, want Low, Moderate, High", s.ByIntensity)
	}
	if len(s.Top) != 2 || s.Top[0].Activity != "a" {
		t.Errorf("Top = %+v, want [a b]", s.Top)
	}
	if s.CaloriesByType[0].Mean != 500 || s.CaloriesByType[0].Max != 600 {
		t.Errorf("CaloriesByType[0] = %+v, want mean 500 max 600", s.CaloriesByType[0])
	}
	if table.Records[0].Activity != "a" || table.Records[2].Activity != "c" {
		t.Error("Summarize should not reorder the table")
	}
}
