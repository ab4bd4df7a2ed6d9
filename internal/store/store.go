package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Store is the application's data access layer
type Store struct {
	db *sql.DB
}

// newStore creates a Store from a database connection.
func newStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced operations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Model Methods ---

// SaveModel replaces the stored model and its feature importances
func (s *Store) SaveModel(m *Model, importances []FeatureImportance) error {
	schema, err := json.Marshal(m.FeatureSchema)
	if err != nil {
		return fmt.Errorf("encoding feature schema: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM feature_importances`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM model`); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO model (
			id, payload, n_trees, seed, feature_schema, dataset_path, dataset_fingerprint,
			training_rows, r2, rmse, mae, baseline_r2, trained_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.Payload, m.Trees, m.Seed, string(schema), m.DatasetPath, m.DatasetFingerprint,
		m.TrainingRows, m.R2, m.RMSE, m.MAE, m.BaselineR2,
		m.TrainedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting model: %w", err)
	}

	for _, fi := range importances {
		if _, err := tx.Exec(`
			INSERT INTO feature_importances (feature, importance, rank)
			VALUES (?, ?, ?)
		`, fi.Feature, fi.Importance, fi.Rank); err != nil {
			return fmt.Errorf("inserting importance %q: %w", fi.Feature, err)
		}
	}

	return tx.Commit()
}

// GetModel retrieves the stored model
func (s *Store) GetModel() (*Model, error) {
	row := s.db.QueryRow(`
		SELECT payload, n_trees, seed, feature_schema, dataset_path, dataset_fingerprint,
			training_rows, r2, rmse, mae, baseline_r2, trained_at
		FROM model
		WHERE id = 1
	`)

	var m Model
	var schema, trainedAt string
	var datasetPath sql.NullString
	var r2, rmse, mae, baseline sql.NullFloat64

	err := row.Scan(
		&m.Payload, &m.Trees, &m.Seed, &schema, &datasetPath, &m.DatasetFingerprint,
		&m.TrainingRows, &r2, &rmse, &mae, &baseline, &trainedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoModel
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(schema), &m.FeatureSchema); err != nil {
		return nil, fmt.Errorf("decoding feature schema: %w", err)
	}
	m.DatasetPath = datasetPath.String
	m.R2 = nullFloat(r2)
	m.RMSE = nullFloat(rmse)
	m.MAE = nullFloat(mae)
	m.BaselineR2 = nullFloat(baseline)

	m.TrainedAt, err = time.Parse(time.RFC3339, trainedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing trained_at %q: %w", trainedAt, err)
	}

	return &m, nil
}

// GetFeatureImportances retrieves the stored importances, most important first
func (s *Store) GetFeatureImportances() ([]FeatureImportance, error) {
	rows, err := s.db.Query(`
		SELECT feature, importance, rank
		FROM feature_importances
		ORDER BY rank
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FeatureImportance
	for rows.Next() {
		var fi FeatureImportance
		if err := rows.Scan(&fi.Feature, &fi.Importance, &fi.Rank); err != nil {
			return nil, err
		}
		out = append(out, fi)
	}
	return out, rows.Err()
}

// DeleteModel removes the stored model and its importances
func (s *Store) DeleteModel() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM feature_importances`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM model`); err != nil {
		return err
	}
	return tx.Commit()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
