package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Trained model (singleton row, replaced wholesale on retrain)
		`CREATE TABLE IF NOT EXISTS model (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			payload BLOB NOT NULL,
			n_trees INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			feature_schema TEXT NOT NULL,
			dataset_path TEXT,
			dataset_fingerprint TEXT NOT NULL,
			training_rows INTEGER NOT NULL,
			r2 REAL,
			rmse REAL,
			mae REAL,
			baseline_r2 REAL,
			trained_at TEXT NOT NULL
		)`,

		// Feature importances of the stored model
		`CREATE TABLE IF NOT EXISTS feature_importances (
			feature TEXT PRIMARY KEY,
			importance REAL NOT NULL,
			rank INTEGER NOT NULL,
			model_id INTEGER NOT NULL DEFAULT 1,
			FOREIGN KEY (model_id) REFERENCES model(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_feature_importances_rank ON feature_importances(rank)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
