package analysis

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"metriburn/internal/dataset"
)

const referenceCSV = `"Activity, Exercise or Sport (1 hour)","130 lb","155 lb","180 lb","205 lb","Calories per kg"
"Cycling, mountain bike, bmx",502,598,695,791,1.75
"Yoga, slow stretching",148,176,204,233,0.52
"Weight lifting, vigorous effort",354,422,490,558,1.23
"Fishing, general",177,211,245,279,n/a
"Sitting",,,,,
`

func readRaw(t *testing.T, s string) *dataset.Raw {
	t.Helper()
	raw, err := dataset.Read(strings.NewReader(s))
	if err != nil {
		t.Fatalf("dataset.Read() error = %v", err)
	}
	return raw
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) < 1e-9
}

func TestEngineerNil(t *testing.T) {
	if got := Engineer(nil); got != nil {
		t.Errorf("Engineer(nil) = %v, want nil", got)
	}
}

func TestEngineerDerivesColumns(t *testing.T) {
	table := Engineer(readRaw(t, referenceCSV))
	if table.Len() != 5 {
		t.Fatalf("rows = %d, want 5", table.Len())
	}

	tests := []struct {
		activity   string
		avg        float64
		intensity  dataset.Intensity
		typ        dataset.ActivityType
		normalized float64
	}{
		{"Cycling, mountain bike, bmx", 646.5, dataset.IntensityHigh, dataset.TypeCardio, 1},
		{"Yoga, slow stretching", 190.25, dataset.IntensityLow, dataset.TypeFlexibility, 0},
		{"Weight lifting, vigorous effort", 456, dataset.IntensityHigh, dataset.TypeStrength, (1.23 - 0.52) / (1.75 - 0.52)},
		{"Fishing, general", 228, dataset.IntensityLow, dataset.TypeOther, math.NaN()},
		{"Sitting", math.NaN(), dataset.IntensityModerate, dataset.TypeOther, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.activity, func(t *testing.T) {
			rec, ok := table.Find(tt.activity)
			if !ok {
				t.Fatalf("activity %q not found", tt.activity)
			}
			if !sameFloat(rec.AvgCalories, tt.avg) {
				t.Errorf("avg_calories = %v, want %v", rec.AvgCalories, tt.avg)
			}
			if rec.Intensity != tt.intensity {
				t.Errorf("intensity = %v, want %v", rec.Intensity, tt.intensity)
			}
			if rec.Type != tt.typ {
				t.Errorf("activity_type = %v, want %v", rec.Type, tt.typ)
			}
			if !sameFloat(rec.NormalizedCaloriesPerKg, tt.normalized) {
				t.Errorf("normalized = %v, want %v", rec.NormalizedCaloriesPerKg, tt.normalized)
			}
			if !sameFloat(rec.EstimatedMET, tt.avg/70) {
				t.Errorf("estimated_met = %v, want %v", rec.EstimatedMET, tt.avg/70)
			}
			if rec.CaloriesPerClass != rec.Calories && !math.IsNaN(rec.Calories[0]) {
				t.Errorf("per-class columns %v should copy weight columns %v", rec.CaloriesPerClass, rec.Calories)
			}
		})
	}
}

func TestEngineerPartialRow(t *testing.T) {
	raw := readRaw(t, "activity,130 lb,155 lb,180 lb,205 lb,Calories per kg\nRowing,400,,600,,1.0\nGolf,200,240,280,320,0.5\n")
	table := Engineer(raw)

	rec, _ := table.Find("Rowing")
	if rec.AvgCalories != 500 {
		t.Errorf("avg_calories = %v, want mean of present values 500", rec.AvgCalories)
	}
	if !math.IsNaN(rec.Calories[1]) {
		t.Errorf("missing 155 lb should be NaN, got %v", rec.Calories[1])
	}
}

func TestEngineerNormalizationBounds(t *testing.T) {
	table := Engineer(readRaw(t, referenceCSV))
	min, max := math.Inf(1), math.Inf(-1)
	for _, r := range table.Records {
		if math.IsNaN(r.NormalizedCaloriesPerKg) {
			continue
		}
		min = math.Min(min, r.NormalizedCaloriesPerKg)
		max = math.Max(max, r.NormalizedCaloriesPerKg)
	}
	if min != 0 || max != 1 {
		t.Errorf("normalized range = [%v, %v], want [0, 1]", min, max)
	}
}

func TestEngineerDegenerateNormalization(t *testing.T) {
	raw := readRaw(t, "activity,130 lb,155 lb,180 lb,205 lb,Calories per kg\nA,100,120,140,160,1.0\nB,200,240,280,320,1.0\n")
	for _, r := range Engineer(raw).Records {
		if r.NormalizedCaloriesPerKg != 0 {
			t.Errorf("%s normalized = %v, want 0 when min == max", r.Activity, r.NormalizedCaloriesPerKg)
		}
	}
}

func TestEngineerIsIdempotent(t *testing.T) {
	first := Engineer(readRaw(t, referenceCSV))

	var buf bytes.Buffer
	if err := dataset.Write(&buf, first); err != nil {
		t.Fatalf("dataset.Write() error = %v", err)
	}
	second := Engineer(readRaw(t, buf.String()))

	if second.Len() != first.Len() {
		t.Fatalf("rows = %d, want %d", second.Len(), first.Len())
	}
	for i, want := range first.Records {
		got := second.Records[i]
		if got.Activity != want.Activity || got.Intensity != want.Intensity || got.Type != want.Type {
			t.Errorf("row %d labels = (%q, %v, %v), want (%q, %v, %v)",
				i, got.Activity, got.Intensity, got.Type, want.Activity, want.Intensity, want.Type)
		}
		gotVals := RecordFeatures(got).Values()
		for j, v := range RecordFeatures(want).Values() {
			if !sameFloat(gotVals[j], v) {
				t.Errorf("row %d %s = %v, want %v", i, FeatureSchema[j], gotVals[j], v)
			}
		}
		if !sameFloat(got.AvgCalories, want.AvgCalories) {
			t.Errorf("row %d avg_calories = %v, want %v", i, got.AvgCalories, want.AvgCalories)
		}
	}
}

func TestEngineerKeepsEngineeredLabels(t *testing.T) {
	csv := "activity,130 lb,155 lb,180 lb,205 lb,Calories per kg,avg_calories,intensity,activity_type,estimated_met\n" +
		"Mystery,100,120,140,160,1.0,130,Unknown,Sports,1.857\n"
	table := Engineer(readRaw(t, csv))
	rec := table.Records[0]
	if rec.Intensity != dataset.IntensityUnknown {
		t.Errorf("intensity = %v, want Unknown kept until repair", rec.Intensity)
	}
	if rec.Type != dataset.TypeSports {
		t.Errorf("activity_type = %v, want Sports", rec.Type)
	}
	if rec.CaloriesPerClass[2] != 140 {
		t.Errorf("missing per-class columns should mirror weight columns, got %v", rec.CaloriesPerClass)
	}
	if !math.IsNaN(rec.NormalizedCaloriesPerKg) {
		t.Errorf("absent normalized column should be NaN, got %v", rec.NormalizedCaloriesPerKg)
	}
}

func TestRepairIntensity(t *testing.T) {
	table := &dataset.Table{Records: []dataset.Record{
		{Activity: "a", AvgCalories: 100, Intensity: dataset.IntensityUnknown},
		{Activity: "b", AvgCalories: 300, Intensity: dataset.IntensityUnknown},
		{Activity: "c", AvgCalories: 600, Intensity: dataset.IntensityUnknown},
		{Activity: "d", AvgCalories: 600, Intensity: dataset.IntensityLow},
	}}

	if n := RepairIntensity(table); n != 3 {
		t.Errorf("RepairIntensity() = %d, want 3", n)
	}
	want := []dataset.Intensity{dataset.IntensityLow, dataset.IntensityModerate, dataset.IntensityHigh, dataset.IntensityLow}
	for i, w := range want {
		if table.Records[i].Intensity != w {
			t.Errorf("row %d intensity = %v, want %v", i, table.Records[i].Intensity, w)
		}
	}
	if RepairIntensity(nil) != 0 {
		t.Error("RepairIntensity(nil) should be 0")
	}
}
