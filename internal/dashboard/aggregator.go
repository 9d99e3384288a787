// Package dashboard assembles the summary cards shown on the landing view.
// System-scope and school-scope summaries are loaded with concurrent fetches
// that fail together: a partial dashboard with silently missing numbers is
// worse than an explicit load error.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/opencampus/campus/internal/billing"
	"github.com/opencampus/campus/internal/domain"
)

// ErrSchoolUnresolved is returned by LoadSchool when no tenant has been
// resolved yet. Callers defer rendering instead of fetching with a guessed
// school ID.
var ErrSchoolUnresolved = errors.New("dashboard: school not resolved")

// UsageReader is the slice of the usage store the aggregator needs.
type UsageReader interface {
	DailyWindow(ctx context.Context, schoolID uuid.UUID, days int) ([]domain.DailyUsage, error)
	EndpointWindow(ctx context.Context, schoolID uuid.UUID, days int) ([]domain.EndpointUsage, error)
}

// BillingReader is the slice of the billing client the aggregator needs.
type BillingReader interface {
	Subscriptions(ctx context.Context, schoolID uuid.UUID) ([]billing.Subscription, error)
	Overview(ctx context.Context, schoolID uuid.UUID) (*billing.Overview, error)
}

// SystemSummary feeds the platform operator's dashboard cards.
type SystemSummary struct {
	ActiveSchools int64                  `json:"active_schools"`
	TotalAPICalls int64                  `json:"total_api_calls"`
	DailyUsage    []domain.DailyUsage    `json:"daily_usage"`
	Subscriptions []billing.Subscription `json:"subscriptions"`
}

// SchoolSummary feeds a single school's dashboard cards.
type SchoolSummary struct {
	DailyUsage    []domain.DailyUsage    `json:"daily_usage"`
	EndpointUsage []domain.EndpointUsage `json:"endpoint_usage"`
	Billing       *billing.Overview      `json:"billing,omitempty"`
}

type Aggregator struct {
	usage      UsageReader
	billing    BillingReader
	windowDays int
}

func New(usage UsageReader, billing BillingReader, windowDays int) *Aggregator {
	return &Aggregator{usage: usage, billing: billing, windowDays: windowDays}
}

// LoadSystem builds the cross-tenant summary. The usage window and the
// subscription list are fetched concurrently; if either fails, both cards
// fail with a single error.
func (a *Aggregator) LoadSystem(ctx context.Context) (*SystemSummary, error) {
	var (
		daily []domain.DailyUsage
		subs  []billing.Subscription
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		daily, err = a.usage.DailyWindow(ctx, uuid.Nil, a.windowDays)
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = a.billing.Subscriptions(ctx, uuid.Nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard.LoadSystem: %w", err)
	}

	summary := &SystemSummary{
		DailyUsage:    daily,
		Subscriptions: subs,
	}
	for _, d := range daily {
		summary.TotalAPICalls += d.Calls
	}
	for _, s := range subs {
		if s.Status == "active" {
			summary.ActiveSchools++
		}
	}
	return summary, nil
}

// LoadSchool builds one school's summary. A nil school ID means the tenant
// has not resolved yet; the aggregator returns ErrSchoolUnresolved without
// touching any backend.
func (a *Aggregator) LoadSchool(ctx context.Context, schoolID uuid.UUID) (*SchoolSummary, error) {
	if schoolID == uuid.Nil {
		return nil, ErrSchoolUnresolved
	}

	var (
		daily     []domain.DailyUsage
		endpoints []domain.EndpointUsage
		overview  *billing.Overview
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		daily, err = a.usage.DailyWindow(ctx, schoolID, a.windowDays)
		return err
	})
	g.Go(func() error {
		var err error
		endpoints, err = a.usage.EndpointWindow(ctx, schoolID, a.windowDays)
		return err
	})
	g.Go(func() error {
		var err error
		overview, err = a.billing.Overview(ctx, schoolID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard.LoadSchool: %w", err)
	}

	return &SchoolSummary{
		DailyUsage:    daily,
		EndpointUsage: endpoints,
		Billing:       overview,
	}, nil
}
