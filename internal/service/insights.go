package service

import (
	"metriburn/internal/analysis"
	"metriburn/internal/dataset"
)

// FeatureImportance ranks the model's features, most important first
func (a *App) FeatureImportance() []analysis.FeatureImportance {
	if a.forest == nil {
		return nil
	}
	return analysis.RankFeatures(a.forest.Features, a.forest.FeatureImportances())
}

// Summary describes the reference table for exploration
func (a *App) Summary() analysis.Summary {
	return analysis.Summarize(a.table, TopActivitiesSize)
}

// Categories lists the selectable activity categories
func (a *App) Categories() []string {
	return analysis.Categories(a.table)
}

// ActivitiesIn lists the reference activities of a category
func (a *App) ActivitiesIn(category string) []string {
	return analysis.ActivitiesIn(a.table, category)
}

// Activity looks up a reference activity by name
func (a *App) Activity(name string) (dataset.Record, bool) {
	return a.table.Find(name)
}

// Export writes the engineered table so later runs can skip engineering
func (a *App) Export(path string) error {
	return dataset.WriteFile(path, a.table)
}
