package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// MetricPoint is one recorded value of an engagement metric
type MetricPoint struct {
	Name         string    `json:"name"`
	Value        string    `json:"value"`
	CalculatedAt time.Time `json:"calculatedAt"`
}

// OpenPostgres connects to the metrics database and verifies the connection
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// MetricsStore persists engagement metric history in Postgres. The entity
// tables are never loaded from it.
type MetricsStore struct {
	db *sql.DB
}

// NewMetricsStore creates a new MetricsStore
func NewMetricsStore(db *sql.DB) *MetricsStore {
	return &MetricsStore{db: db}
}

// EnsureSchema creates the metrics table if it does not exist
func (s *MetricsStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS metrics (
			id            SERIAL PRIMARY KEY,
			metric_name   TEXT NOT NULL,
			metric_value  TEXT NOT NULL,
			calculated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_metrics_name_time ON metrics (metric_name, calculated_at DESC);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create metrics table: %w", err)
	}
	return nil
}

// SaveSnapshot records each metric whose value differs from its latest row.
// It reports how many rows were written.
func (s *MetricsStore) SaveSnapshot(ctx context.Context, values map[string]string, at time.Time) (written int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	latestQuery := `
		SELECT metric_value FROM metrics
		WHERE metric_name = $1
		ORDER BY calculated_at DESC
		LIMIT 1
	`
	insertQuery := `
		INSERT INTO metrics (metric_name, metric_value, calculated_at)
		VALUES ($1, $2, $3)
	`

	for name, value := range values {
		var previous sql.NullString
		err := tx.QueryRowContext(ctx, latestQuery, name).Scan(&previous)
		if err != nil && err != sql.ErrNoRows {
			return 0, fmt.Errorf("failed to read metric %s: %w", name, err)
		}
		if previous.Valid && previous.String == value {
			continue
		}

		if _, err := tx.ExecContext(ctx, insertQuery, name, value, at); err != nil {
			return 0, fmt.Errorf("failed to store metric %s: %w", name, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return written, nil
}

// Latest retrieves the most recent value of every metric
func (s *MetricsStore) Latest(ctx context.Context) (map[string]string, error) {
	query := `
		SELECT DISTINCT ON (metric_name) metric_name, metric_value
		FROM metrics
		ORDER BY metric_name, calculated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics: %w", err)
	}
	defer rows.Close()

	metrics := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		metrics[name] = value
	}

	return metrics, rows.Err()
}

// History retrieves recorded values of one metric, newest first
func (s *MetricsStore) History(ctx context.Context, name string, limit int) ([]MetricPoint, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}
	query := `
		SELECT metric_name, metric_value, calculated_at
		FROM metrics
		WHERE metric_name = $1
		ORDER BY calculated_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, name, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for %s: %w", name, err)
	}
	defer rows.Close()

	points := []MetricPoint{}
	for rows.Next() {
		var p MetricPoint
		if err := rows.Scan(&p.Name, &p.Value, &p.CalculatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}
