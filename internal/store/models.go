package store

import "time"

// Model is a persisted forest plus what it was trained on
type Model struct {
	Payload            []byte    `db:"payload"` // gob-encoded forest
	Trees              int       `db:"n_trees"`
	Seed               int64     `db:"seed"`
	FeatureSchema      []string  `db:"feature_schema"` // JSON array in the table
	DatasetPath        string    `db:"dataset_path"`
	DatasetFingerprint string    `db:"dataset_fingerprint"`
	TrainingRows       int       `db:"training_rows"`
	R2                 *float64  `db:"r2"` // nullable
	RMSE               *float64  `db:"rmse"`
	MAE                *float64  `db:"mae"`
	BaselineR2         *float64  `db:"baseline_r2"`
	TrainedAt          time.Time `db:"trained_at"`
}

// FeatureImportance is one ranked feature of the stored model
type FeatureImportance struct {
	Feature    string  `db:"feature"`
	Importance float64 `db:"importance"`
	Rank       int     `db:"rank"` // 1 = most important
}
