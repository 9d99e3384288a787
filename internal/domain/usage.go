package domain

import (
	"context"

	"github.com/google/uuid"
)

// DailyUsage is one day's API call count for a school.
type DailyUsage struct {
	Date  string `json:"date"` // "2006-01-02"
	Calls int64  `json:"calls"`
}

// EndpointUsage is the per-endpoint call count and latency for the window.
type EndpointUsage struct {
	Path            string  `json:"path"`
	Calls           int64   `json:"calls"`
	AvgResponseTime float64 `json:"avgResponseTime"` // milliseconds
}

// UsageDelta is one flushed metering increment: calls and accumulated
// response time for (school, date, path) since the previous flush.
type UsageDelta struct {
	SchoolID    uuid.UUID
	Date        string
	Path        string
	Calls       int64
	TotalTimeMS int64
}

type UsageRepository interface {
	// RecordBatch upserts metering deltas, adding to existing counters.
	RecordBatch(ctx context.Context, deltas []UsageDelta) error
	// DailyWindow returns per-day totals for the trailing window. A Nil
	// schoolID aggregates across all schools (system scope).
	DailyWindow(ctx context.Context, schoolID uuid.UUID, days int) ([]DailyUsage, error)
	// EndpointWindow returns per-endpoint totals for the trailing window.
	EndpointWindow(ctx context.Context, schoolID uuid.UUID, days int) ([]EndpointUsage, error)
}
