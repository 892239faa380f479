package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/closetly/edge-gateway/app/domain/entities"
)

// SQLiteRepository implements the Repository interface using an SQLite database.
type SQLiteRepository struct {
	db  *sql.DB
	dsn string
}

// NewSQLiteRepository creates a new SQLiteRepository.
// The DSN is the data source name for the SQLite database.
func NewSQLiteRepository(dsn string) (*SQLiteRepository, error) {
	// The driver "sqlite3" must be registered by the application importing this package,
	// typically by a blank import like `_ "github.com/mattn/go-sqlite3"`.
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &SQLiteRepository{db: db, dsn: dsn}, nil
}

// Init initializes the SQLite repository, creating the necessary tables if they don't exist.
func (r *SQLiteRepository) Init() error {
	query := `
    CREATE TABLE IF NOT EXISTS route_stats (
        prefix TEXT PRIMARY KEY,
        request_count INTEGER DEFAULT 0,
        upstream_error_count INTEGER DEFAULT 0,
        timeout_count INTEGER DEFAULT 0,
        last_status_code INTEGER DEFAULT 0
    );`

	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create route_stats table: %w", err)
	}
	log.Println("SQLite route_stats table initialized successfully.")
	return nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetStats retrieves accumulated statistics for a given route prefix.
func (r *SQLiteRepository) GetStats(prefix string) (*entities.RouteStats, error) {
	query := `SELECT prefix, request_count, upstream_error_count, timeout_count, last_status_code
              FROM route_stats WHERE prefix = ?;`
	row := r.db.QueryRow(query, prefix)

	var st entities.RouteStats
	err := row.Scan(
		&st.Prefix,
		&st.RequestCount,
		&st.UpstreamErrorCount,
		&st.TimeoutCount,
		&st.LastStatusCode,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to get route stats: %w", err)
	}
	return &st, nil
}

// RecordRequest folds one request outcome into the counters for a prefix,
// creating the row on first use.
func (r *SQLiteRepository) RecordRequest(prefix string, outcome entities.RouteOutcome) (*entities.RouteStats, error) {
	ctx := context.Background()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	errInc := 0
	if outcome.UpstreamError {
		errInc = 1
	}
	timeoutInc := 0
	if outcome.Timeout {
		timeoutInc = 1
	}

	queryUpsert := `
    INSERT INTO route_stats (prefix, request_count, upstream_error_count, timeout_count, last_status_code)
    VALUES (?, 1, ?, ?, ?)
    ON CONFLICT(prefix) DO UPDATE SET
        request_count = route_stats.request_count + 1,
        upstream_error_count = route_stats.upstream_error_count + excluded.upstream_error_count,
        timeout_count = route_stats.timeout_count + excluded.timeout_count,
        last_status_code = excluded.last_status_code;`

	_, err = tx.ExecContext(ctx, queryUpsert, prefix, errInc, timeoutInc, outcome.StatusCode)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert route stats: %w", err)
	}

	querySelect := `SELECT prefix, request_count, upstream_error_count, timeout_count, last_status_code
                     FROM route_stats WHERE prefix = ?;`
	row := tx.QueryRowContext(ctx, querySelect, prefix)
	var st entities.RouteStats
	if errScan := row.Scan(&st.Prefix, &st.RequestCount, &st.UpstreamErrorCount, &st.TimeoutCount, &st.LastStatusCode); errScan != nil {
		return nil, fmt.Errorf("failed to select route stats after update: %w", errScan)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &st, nil
}

// ListStats returns all route statistics.
func (r *SQLiteRepository) ListStats() (map[string]*entities.RouteStats, error) {
	query := `SELECT prefix, request_count, upstream_error_count, timeout_count, last_status_code FROM route_stats;`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list route stats: %w", err)
	}
	defer rows.Close()

	statsMap := make(map[string]*entities.RouteStats)
	for rows.Next() {
		var st entities.RouteStats
		if err := rows.Scan(&st.Prefix, &st.RequestCount, &st.UpstreamErrorCount, &st.TimeoutCount, &st.LastStatusCode); err != nil {
			return nil, fmt.Errorf("failed to scan route stats row: %w", err)
		}
		statsMap[st.Prefix] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating route stats rows: %w", err)
	}
	return statsMap, nil
}
