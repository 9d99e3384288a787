package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencampus/campus/internal/domain"
)

type UsageRepo struct {
	pool *pgxpool.Pool
}

func NewUsageRepo(pool *pgxpool.Pool) *UsageRepo {
	return &UsageRepo{pool: pool}
}

// RecordBatch upserts flushed metering deltas in one batch; counters add to
// whatever previous flushes wrote for the same (school, date, path).
func (r *UsageRepo) RecordBatch(ctx context.Context, deltas []domain.UsageDelta) error {
	if len(deltas) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, d := range deltas {
		batch.Queue(
			`INSERT INTO api_usage (school_id, date, path, calls, total_time_ms)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (school_id, date, path)
			 DO UPDATE SET calls = api_usage.calls + EXCLUDED.calls,
			               total_time_ms = api_usage.total_time_ms + EXCLUDED.total_time_ms`,
			d.SchoolID, d.Date, d.Path, d.Calls, d.TotalTimeMS,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range deltas {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("usageRepo.RecordBatch: %w", err)
		}
	}

	return nil
}

// DailyWindow returns per-day call totals for the trailing window. A nil
// schoolID aggregates across all schools.
func (r *UsageRepo) DailyWindow(ctx context.Context, schoolID uuid.UUID, days int) ([]domain.DailyUsage, error) {
	query := `SELECT date, SUM(calls)
		 FROM api_usage
		 WHERE date >= to_char(now() - make_interval(days => $1), 'YYYY-MM-DD')`
	args := []any{days}
	if schoolID != uuid.Nil {
		query += ` AND school_id = $2`
		args = append(args, schoolID)
	}
	query += ` GROUP BY date ORDER BY date`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("usageRepo.DailyWindow: %w", err)
	}
	defer rows.Close()

	var daily []domain.DailyUsage
	for rows.Next() {
		var d domain.DailyUsage

		err = rows.Scan(&d.Date, &d.Calls)
		if err != nil {
			return nil, fmt.Errorf("usageRepo.DailyWindow: scan: %w", err)
		}

		daily = append(daily, d)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("usageRepo.DailyWindow: %w", err)
	}

	return daily, nil
}

// EndpointWindow returns per-endpoint totals and average latency for the
// trailing window.
func (r *UsageRepo) EndpointWindow(ctx context.Context, schoolID uuid.UUID, days int) ([]domain.EndpointUsage, error) {
	query := `SELECT path, SUM(calls), SUM(total_time_ms)::float8 / GREATEST(SUM(calls), 1)
		 FROM api_usage
		 WHERE date >= to_char(now() - make_interval(days => $1), 'YYYY-MM-DD')`
	args := []any{days}
	if schoolID != uuid.Nil {
		query += ` AND school_id = $2`
		args = append(args, schoolID)
	}
	query += ` GROUP BY path ORDER BY SUM(calls) DESC LIMIT 50`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("usageRepo.EndpointWindow: %w", err)
	}
	defer rows.Close()

	var endpoints []domain.EndpointUsage
	for rows.Next() {
		var e domain.EndpointUsage

		err = rows.Scan(&e.Path, &e.Calls, &e.AvgResponseTime)
		if err != nil {
			return nil, fmt.Errorf("usageRepo.EndpointWindow: scan: %w", err)
		}

		endpoints = append(endpoints, e)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("usageRepo.EndpointWindow: %w", err)
	}

	return endpoints, nil
}
