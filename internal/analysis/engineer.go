package analysis

import (
	"math"
	"strings"

	"metriburn/internal/dataset"
	"metriburn/internal/logger"
)

// Engineer turns a raw reference table into an engineered one. A table that
// already carries the derived columns is only coerced to numbers; a nil
// table stays nil.
func Engineer(raw *dataset.Raw) *dataset.Table {
	if raw == nil {
		return nil
	}
	if raw.Has(dataset.SignatureColumns...) {
		return coerce(raw)
	}
	return derive(raw)
}

// coerce reads an already-engineered table. Labels are taken as written;
// "Unknown" intensities are left for RepairIntensity.
func coerce(raw *dataset.Raw) *dataset.Table {
	hasPerClass := raw.Has(perClassColumns()...)

	table := &dataset.Table{Records: make([]dataset.Record, 0, len(raw.Rows))}
	for _, row := range raw.Rows {
		rec := dataset.Record{
			Activity:                raw.Cell(row, dataset.ColActivity),
			CaloriesPerKg:           raw.Number(row, dataset.ColCaloriesPerKg),
			AvgCalories:             raw.Number(row, dataset.ColAvgCalories),
			Intensity:               dataset.ParseIntensity(raw.Cell(row, dataset.ColIntensity)),
			Type:                    dataset.ParseActivityType(raw.Cell(row, dataset.ColActivityType)),
			NormalizedCaloriesPerKg: raw.Number(row, dataset.ColNormalized),
			EstimatedMET:            raw.Number(row, dataset.ColEstimatedMET),
		}
		for i, w := range dataset.WeightClasses {
			rec.Calories[i] = raw.Number(row, dataset.WeightColumn(w))
			if hasPerClass {
				rec.CaloriesPerClass[i] = raw.Number(row, dataset.PerWeightColumn(w))
			} else {
				rec.CaloriesPerClass[i] = rec.Calories[i]
			}
		}
		table.Records = append(table.Records, rec)
	}
	return table
}

// derive computes every engineered column from the raw weight-class table
func derive(raw *dataset.Raw) *dataset.Table {
	table := &dataset.Table{Records: make([]dataset.Record, 0, len(raw.Rows))}
	for _, row := range raw.Rows {
		rec := dataset.Record{
			Activity:      cleanActivity(raw.Cell(row, dataset.ColActivity)),
			CaloriesPerKg: raw.Number(row, dataset.ColCaloriesPerKg),
		}
		for i, w := range dataset.WeightClasses {
			rec.Calories[i] = raw.Number(row, dataset.WeightColumn(w))
		}
		rec.CaloriesPerClass = rec.Calories
		rec.AvgCalories = meanSkipNaN(rec.Calories[:])

		var avg *float64
		if !math.IsNaN(rec.AvgCalories) {
			v := rec.AvgCalories
			avg = &v
		}
		rec.Intensity = ClassifyIntensity(rec.Activity, avg)
		rec.Type = ClassifyActivityType(rec.Activity)
		rec.EstimatedMET = rec.AvgCalories / ReferenceBodyMassKg

		table.Records = append(table.Records, rec)
	}

	bounds := BoundsFromTable(table)
	if bounds.Degenerate() && table.Len() > 0 {
		logger.WithFields(map[string]interface{}{
			"rows": table.Len(),
			"min":  bounds.Min,
			"max":  bounds.Max,
		}).Warn("Calories per kg has no spread; normalized_calories_per_kg set to 0")
	}
	for i := range table.Records {
		table.Records[i].NormalizedCaloriesPerKg = bounds.Normalize(table.Records[i].CaloriesPerKg)
	}

	return table
}

// RepairIntensity replaces "Unknown" intensities using the average-calorie
// thresholds and returns how many rows changed
func RepairIntensity(t *dataset.Table) int {
	if t == nil {
		return 0
	}
	repaired := 0
	for i := range t.Records {
		if t.Records[i].Intensity == dataset.IntensityUnknown {
			t.Records[i].Intensity = IntensityFromCalories(t.Records[i].AvgCalories)
			repaired++
		}
	}
	return repaired
}

func cleanActivity(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}

func perClassColumns() []string {
	cols := make([]string, len(dataset.WeightClasses))
	for i, w := range dataset.WeightClasses {
		cols[i] = dataset.PerWeightColumn(w)
	}
	return cols
}

// meanSkipNaN averages the finite values; all-missing input yields NaN
func meanSkipNaN(xs []float64) float64 {
	var sum float64
	var n int
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
