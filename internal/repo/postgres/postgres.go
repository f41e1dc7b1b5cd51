package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/llmvitals/llmvitals/internal/domain"
	"github.com/llmvitals/llmvitals/internal/repo"
)

var _ repo.ResultStore = (*Store)(nil)

// Store persists monitoring results in Postgres. See
// migrations/001_create_monitoring_results.sql for the schema.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Append(ctx context.Context, r *domain.MonitoringResult) error {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO monitoring_results
		   (timestamp, monitor_name, endpoint_url, model_name, state, status_code, message, series_id, environment)
		 VALUES
		   ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ts, r.MonitorName, r.EndpointURL, r.ModelName, string(r.State),
		r.StatusCode, nullIfEmpty(r.Message), r.SeriesID, r.Environment,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

const resultColumns = `id, timestamp, monitor_name, endpoint_url, model_name,
       state, status_code, message, series_id, environment, created_at`

func (s *Store) ListByMonitor(ctx context.Context, monitor string, limit, offset int) ([]*domain.MonitoringResult, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	q := `SELECT ` + resultColumns + `
	   FROM monitoring_results`
	args := []any{}
	if monitor != "" {
		q += ` WHERE monitor_name = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`
		args = append(args, monitor, limit, offset)
	} else {
		q += ` ORDER BY timestamp DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

func (s *Store) BySeries(ctx context.Context, seriesID string) ([]*domain.MonitoringResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+resultColumns+`
		   FROM monitoring_results
		  WHERE series_id = $1
		  ORDER BY timestamp ASC`,
		seriesID,
	)
	if err != nil {
		return nil, fmt.Errorf("series results: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

func (s *Store) Monitors(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT monitor_name
		   FROM monitoring_results
		  ORDER BY monitor_name`)
	if err != nil {
		return nil, fmt.Errorf("monitors: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan monitor: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
