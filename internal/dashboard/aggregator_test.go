package dashboard_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/campus/internal/billing"
	"github.com/opencampus/campus/internal/dashboard"
	"github.com/opencampus/campus/internal/domain"
)

// countingUsage implements dashboard.UsageReader and counts fetches.
type countingUsage struct {
	fetches      atomic.Int64
	daily        []domain.DailyUsage
	endpoints    []domain.EndpointUsage
	dailyErr     error
	endpointsErr error
}

func (c *countingUsage) DailyWindow(_ context.Context, _ uuid.UUID, _ int) ([]domain.DailyUsage, error) {
	c.fetches.Add(1)
	return c.daily, c.dailyErr
}

func (c *countingUsage) EndpointWindow(_ context.Context, _ uuid.UUID, _ int) ([]domain.EndpointUsage, error) {
	c.fetches.Add(1)
	return c.endpoints, c.endpointsErr
}

// countingBilling implements dashboard.BillingReader and counts fetches.
type countingBilling struct {
	fetches     atomic.Int64
	subs        []billing.Subscription
	subsErr     error
	overview    *billing.Overview
	overviewErr error
}

func (c *countingBilling) Subscriptions(_ context.Context, _ uuid.UUID) ([]billing.Subscription, error) {
	c.fetches.Add(1)
	return c.subs, c.subsErr
}

func (c *countingBilling) Overview(_ context.Context, _ uuid.UUID) (*billing.Overview, error) {
	c.fetches.Add(1)
	return c.overview, c.overviewErr
}

func TestLoadSystemComputesCards(t *testing.T) {
	t.Parallel()

	usage := &countingUsage{
		daily: []domain.DailyUsage{
			{Date: "2026-08-30", Calls: 5000},
			{Date: "2026-08-31", Calls: 6000},
		},
	}
	bill := &countingBilling{
		subs: []billing.Subscription{
			{ID: "s1", Status: "active"},
			{ID: "s2", Status: "active"},
			{ID: "s3", Status: "cancelled"},
		},
	}

	agg := dashboard.New(usage, bill, 7)
	summary, err := agg.LoadSystem(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.ActiveSchools)
	assert.Equal(t, int64(11000), summary.TotalAPICalls)
	assert.Len(t, summary.DailyUsage, 2)
	assert.Len(t, summary.Subscriptions, 3)
}

// Either source failing aborts both cards with one error; there is no
// half-rendered system dashboard.
func TestLoadSystemFailsTogether(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		usage *countingUsage
		bill  *countingBilling
	}{
		{
			name:  "usage store down",
			usage: &countingUsage{dailyErr: errors.New("pg: connection refused")},
			bill:  &countingBilling{subs: []billing.Subscription{{Status: "active"}}},
		},
		{
			name:  "billing service down",
			usage: &countingUsage{daily: []domain.DailyUsage{{Calls: 100}}},
			bill:  &countingBilling{subsErr: billing.ErrUnavailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			agg := dashboard.New(tt.usage, tt.bill, 7)
			summary, err := agg.LoadSystem(context.Background())
			require.Error(t, err)
			assert.Nil(t, summary)
		})
	}
}

func TestLoadSchoolAssemblesSummary(t *testing.T) {
	t.Parallel()

	usage := &countingUsage{
		daily:     []domain.DailyUsage{{Date: "2026-08-31", Calls: 42}},
		endpoints: []domain.EndpointUsage{{Path: "/api/v1/grades", Calls: 40, AvgResponseTime: 12.5}},
	}
	bill := &countingBilling{
		overview: &billing.Overview{CurrentPlan: "pro", APIUsage: 42, APILimit: 100000},
	}

	agg := dashboard.New(usage, bill, 7)
	summary, err := agg.LoadSchool(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Len(t, summary.DailyUsage, 1)
	assert.Len(t, summary.EndpointUsage, 1)
	require.NotNil(t, summary.Billing)
	assert.Equal(t, "pro", summary.Billing.CurrentPlan)
}

// An unresolved tenant defers the dashboard: no backend is touched and no
// data is fetched on behalf of a guessed school.
func TestLoadSchoolUnresolvedTenantFetchesNothing(t *testing.T) {
	t.Parallel()

	usage := &countingUsage{}
	bill := &countingBilling{}

	agg := dashboard.New(usage, bill, 7)
	summary, err := agg.LoadSchool(context.Background(), uuid.Nil)

	require.ErrorIs(t, err, dashboard.ErrSchoolUnresolved)
	assert.Nil(t, summary)
	assert.Zero(t, usage.fetches.Load())
	assert.Zero(t, bill.fetches.Load())
}

func TestLoadSchoolFailsTogether(t *testing.T) {
	t.Parallel()

	usage := &countingUsage{daily: []domain.DailyUsage{{Calls: 1}}}
	bill := &countingBilling{overviewErr: billing.ErrUnavailable}

	agg := dashboard.New(usage, bill, 7)
	summary, err := agg.LoadSchool(context.Background(), uuid.New())

	require.ErrorIs(t, err, billing.ErrUnavailable)
	assert.Nil(t, summary)
}

// A successful reload replaces a previous failure: the aggregator holds no
// sticky error state.
func TestLoadSchoolRecoversAfterFailure(t *testing.T) {
	t.Parallel()

	usage := &countingUsage{daily: []domain.DailyUsage{{Calls: 7}}}
	bill := &countingBilling{overviewErr: billing.ErrUnavailable}
	agg := dashboard.New(usage, bill, 7)

	schoolID := uuid.New()
	_, err := agg.LoadSchool(context.Background(), schoolID)
	require.Error(t, err)

	bill.overviewErr = nil
	bill.overview = &billing.Overview{CurrentPlan: "starter"}

	summary, err := agg.LoadSchool(context.Background(), schoolID)
	require.NoError(t, err)
	assert.Equal(t, "starter", summary.Billing.CurrentPlan)
}
