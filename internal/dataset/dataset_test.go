package dataset

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const rawCSV = `" Activity, Exercise or Sport (1 hour) ", "130 lb", "155 lb", "180 lb", "205 lb", "Calories per kg"
"Cycling, mountain bike, bmx",502,598,695,791,1.75
"Running, 6 mph (10 min mile)",590,704,817,931,2.06
"Fishing, general",177,211,245,279,0.62
`

func TestReadCleansHeader(t *testing.T) {
	raw, err := Read(strings.NewReader(rawCSV))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := []string{ColActivity, "130 lb", "155 lb", "180 lb", "205 lb", ColCaloriesPerKg}
	if len(raw.Header) != len(want) {
		t.Fatalf("header = %q, want %q", raw.Header, want)
	}
	for i := range want {
		if raw.Header[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, raw.Header[i], want[i])
		}
	}

	if len(raw.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(raw.Rows))
	}
	if got := raw.Cell(raw.Rows[0], ColActivity); got != "Cycling, mountain bike, bmx" {
		t.Errorf("activity = %q", got)
	}
	if got := raw.Number(raw.Rows[1], "155 lb"); got != 704 {
		t.Errorf("155 lb = %v, want 704", got)
	}
	if raw.Has(SignatureColumns...) {
		t.Error("raw table should not report engineered columns")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		nan  bool
	}{
		{"502", 502, false},
		{" 1.75 ", 1.75, false},
		{`"3"`, 3, false},
		{"", 0, true},
		{"n/a", 0, true},
		{"12abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseNumber(tt.in)
			if tt.nan {
				if !math.IsNaN(got) {
					t.Errorf("ParseNumber(%q) = %v, want NaN", tt.in, got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadEmpty(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Error("Read() of empty input should fail")
	}
}

func TestParseLabels(t *testing.T) {
	if ParseIntensity(" high ") != IntensityHigh {
		t.Error("ParseIntensity should be case-insensitive and trim")
	}
	if ParseIntensity("Unknown") != IntensityUnknown {
		t.Error("Unknown should stay Unknown")
	}
	if ParseIntensity("extreme") != IntensityUnknown {
		t.Error("unrecognised labels should be Unknown")
	}
	if ParseActivityType("sports") != TypeSports {
		t.Error("ParseActivityType(sports) should be Sports")
	}
	if ParseActivityType("Swimming") != TypeOther {
		t.Error("unrecognised types should be Other")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	table := &Table{Records: []Record{
		{
			Activity:                `Aerobics, "step", high impact`,
			Calories:                [4]float64{502, 598, 695, 791},
			CaloriesPerKg:           1.75,
			AvgCalories:             646.5,
			CaloriesPerClass:        [4]float64{502, 598, 695, 791},
			Intensity:               IntensityHigh,
			Type:                    TypeCardio,
			NormalizedCaloriesPerKg: 1,
			EstimatedMET:            646.5 / 70,
		},
		{
			Activity:                "Sitting",
			Calories:                [4]float64{59, math.NaN(), 82, 93},
			CaloriesPerKg:           math.NaN(),
			AvgCalories:             78,
			CaloriesPerClass:        [4]float64{59, math.NaN(), 82, 93},
			Intensity:               IntensityLow,
			Type:                    TypeOther,
			NormalizedCaloriesPerKg: math.NaN(),
			EstimatedMET:            78.0 / 70,
		},
	}}

	var buf bytes.Buffer
	if err := Write(&buf, table); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	raw, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !raw.Has(EngineeredColumns()...) {
		t.Fatalf("written header %q is missing engineered columns", raw.Header)
	}
	if got := raw.Cell(raw.Rows[0], ColActivity); got != `Aerobics, "step", high impact` {
		t.Errorf("activity = %q", got)
	}
	if got := raw.Number(raw.Rows[0], ColEstimatedMET); math.Abs(got-646.5/70) > 1e-12 {
		t.Errorf("estimated_met = %v", got)
	}
	if got := raw.Number(raw.Rows[1], "155 lb"); !math.IsNaN(got) {
		t.Errorf("missing value should round-trip as NaN, got %v", got)
	}
	if got := raw.Cell(raw.Rows[1], ColIntensity); got != "Low" {
		t.Errorf("intensity = %q, want Low", got)
	}
}

func TestCaloriesPerKgRange(t *testing.T) {
	table := &Table{Records: []Record{
		{CaloriesPerKg: 2.0},
		{CaloriesPerKg: math.NaN()},
		{CaloriesPerKg: 0.5},
		{CaloriesPerKg: 1.2},
	}}
	min, max, ok := table.CaloriesPerKgRange()
	if !ok || min != 0.5 || max != 2.0 {
		t.Errorf("range = (%v, %v, %v), want (0.5, 2, true)", min, max, ok)
	}

	var empty *Table
	if _, _, ok := empty.CaloriesPerKgRange(); ok {
		t.Error("nil table should have no range")
	}
}

func TestTableFind(t *testing.T) {
	table := &Table{Records: []Record{{Activity: "Yoga, Hatha"}, {Activity: "Fishing"}}}
	if _, ok := table.Find("Fishing"); !ok {
		t.Error("Find(Fishing) should succeed")
	}
	if _, ok := table.Find("fishing"); ok {
		t.Error("Find should be exact")
	}
	var empty *Table
	if empty.Len() != 0 {
		t.Error("nil table should have zero length")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "exercise_dataset.csv")
	expanded := filepath.Join(dir, "engineered_exercise_dataset_expanded.csv")

	if _, err := Discover("", dir, "engineered_exercise_dataset_expanded.csv", "exercise_dataset.csv"); !errors.Is(err, ErrDatasetNotFound) {
		t.Fatalf("Discover() with no files error = %v, want ErrDatasetNotFound", err)
	}

	writeFile(t, base)
	got, err := Discover("", dir, "engineered_exercise_dataset_expanded.csv", "exercise_dataset.csv")
	if err != nil || got != base {
		t.Errorf("Discover() = %q, %v; want base file", got, err)
	}

	writeFile(t, expanded)
	got, err = Discover("", dir, "engineered_exercise_dataset_expanded.csv", "exercise_dataset.csv")
	if err != nil || got != expanded {
		t.Errorf("Discover() = %q, %v; want expanded file preferred", got, err)
	}

	explicit := filepath.Join(t.TempDir(), "uploaded.csv")
	writeFile(t, explicit)
	got, err = Discover(explicit, dir, "engineered_exercise_dataset_expanded.csv", "exercise_dataset.csv")
	if err != nil || got != explicit {
		t.Errorf("Discover() = %q, %v; want explicit file", got, err)
	}

	if _, err := Discover(filepath.Join(dir, "nope.csv"), dir, "", ""); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("missing explicit file error = %v, want ErrDatasetNotFound", err)
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(rawCSV), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFingerprint(t *testing.T) {
	a := &Table{Records: []Record{{Activity: "Yoga", CaloriesPerKg: 0.5, AvgCalories: 190}}}
	b := &Table{Records: []Record{{Activity: "Yoga", CaloriesPerKg: 0.5, AvgCalories: 190}}}
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("identical tables should share a fingerprint")
	}

	b.Records[0].AvgCalories = 191
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("changed table should change the fingerprint")
	}
	if Fingerprint(nil) == "" {
		t.Error("nil table should still hash")
	}
}
