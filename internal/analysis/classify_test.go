package analysis

import (
	"testing"

	"metriburn/internal/dataset"
)

func ptr(v float64) *float64 { return &v }

func TestClassifyIntensity(t *testing.T) {
	tests := []struct {
		name     string
		activity string
		avg      *float64
		want     dataset.Intensity
	}{
		{"light keyword", "Light jogging", nil, dataset.IntensityLow},
		{"keyword beats calories", "Walking, slow pace", ptr(900), dataset.IntensityLow},
		{"case insensitive", "BICYCLING, LEISURE", nil, dataset.IntensityLow},
		{"moderate keyword", "Swimming, moderate effort", ptr(100), dataset.IntensityModerate},
		{"vigorous keyword", "Calisthenics, vigorous", nil, dataset.IntensityHigh},
		{"racing", "Cycling, racing", ptr(200), dataset.IntensityHigh},
		{"low wins over high", "Light to high effort", nil, dataset.IntensityLow},
		{"below 250", "Fishing", ptr(249.9), dataset.IntensityLow},
		{"at 250", "Fishing", ptr(250), dataset.IntensityModerate},
		{"below 450", "Golf", ptr(449), dataset.IntensityModerate},
		{"at 450", "Golf", ptr(450), dataset.IntensityHigh},
		{"no keyword no calories", "Sitting", nil, dataset.IntensityModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIntensity(tt.activity, tt.avg); got != tt.want {
				t.Errorf("ClassifyIntensity(%q) = %v, want %v", tt.activity, got, tt.want)
			}
		})
	}
}

func TestClassifyActivityType(t *testing.T) {
	tests := []struct {
		activity string
		want     dataset.ActivityType
	}{
		{"Cycling, mountain bike, bmx", dataset.TypeCardio},
		{"Running, 6 mph (10 min mile)", dataset.TypeCardio},
		{"Rowing machine, vigorous", dataset.TypeCardio},
		{"Aerobics, general", dataset.TypeCardio},
		{"Ballroom dancing, fast", dataset.TypeCardio},
		{"Weight lifting, light workout", dataset.TypeStrength},
		{"Calisthenics, moderate", dataset.TypeStrength},
		{"Body building, vigorous", dataset.TypeStrength},
		{"Hatha yoga", dataset.TypeFlexibility},
		{"Stretching, mild", dataset.TypeFlexibility},
		{"Fishing, general", dataset.TypeOther},
		{"Swimming laps, freestyle", dataset.TypeOther},
		{"", dataset.TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.activity, func(t *testing.T) {
			if got := ClassifyActivityType(tt.activity); got != tt.want {
				t.Errorf("ClassifyActivityType(%q) = %v, want %v", tt.activity, got, tt.want)
			}
		})
	}
}

func TestClassifierNeverEmitsSports(t *testing.T) {
	for _, name := range []string{"Sports, general", "Basketball game", "Soccer, competitive"} {
		if got := ClassifyActivityType(name); got == dataset.TypeSports {
			t.Errorf("ClassifyActivityType(%q) = Sports, want a reference type", name)
		}
	}
}
