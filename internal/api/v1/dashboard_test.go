package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/opencampus/campus/internal/api/v1"
	"github.com/opencampus/campus/internal/dashboard"
	"github.com/opencampus/campus/internal/domain"
)

// ---------------------------------------------------------------------------
// TestSystemDashboard
// ---------------------------------------------------------------------------

func TestSystemDashboard(t *testing.T) {
	t.Parallel()

	t.Run("operator_sees_cross_school_cards", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		loader := &mockLoader{
			loadSystemFunc: func(_ context.Context) (*dashboard.SystemSummary, error) {
				return &dashboard.SystemSummary{ActiveSchools: 3, TotalAPICalls: 12000}, nil
			},
		}
		v1.RegisterDashboardRoutes(api, loader)

		resp := api.GetCtx(operatorCtx(uuid.New()), "/dashboard/system")

		require.Equal(t, http.StatusOK, resp.Code)
		var body dashboard.SystemSummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(3), body.ActiveSchools)
		assert.Equal(t, int64(12000), body.TotalAPICalls)
	})

	t.Run("school_admin_is_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterDashboardRoutes(api, &mockLoader{})

		ctx := sessionCtx(uuid.New(), uuid.New(), domain.RoleSchoolAdmin)
		resp := api.GetCtx(ctx, "/dashboard/system")

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("collaborator_outage_is_bad_gateway", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		loader := &mockLoader{
			loadSystemFunc: func(_ context.Context) (*dashboard.SystemSummary, error) {
				return nil, errors.New("billing: connection refused")
			},
		}
		v1.RegisterDashboardRoutes(api, loader)

		resp := api.GetCtx(operatorCtx(uuid.New()), "/dashboard/system")
		assert.Equal(t, http.StatusBadGateway, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestSchoolDashboard
// ---------------------------------------------------------------------------

func TestSchoolDashboard(t *testing.T) {
	t.Parallel()

	schoolID := uuid.New()

	t.Run("loads_callers_school", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		loader := &mockLoader{
			loadSchoolFunc: func(_ context.Context, sid uuid.UUID) (*dashboard.SchoolSummary, error) {
				assert.Equal(t, schoolID, sid)
				return &dashboard.SchoolSummary{
					DailyUsage: []domain.DailyUsage{{Date: "2026-02-10", Calls: 420}},
				}, nil
			},
		}
		v1.RegisterDashboardRoutes(api, loader)

		ctx := sessionCtx(schoolID, uuid.New(), domain.RoleSchoolAdmin)
		resp := api.GetCtx(ctx, "/dashboard/school")

		require.Equal(t, http.StatusOK, resp.Code)
		var body dashboard.SchoolSummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.DailyUsage, 1)
		assert.Equal(t, int64(420), body.DailyUsage[0].Calls)
	})

	t.Run("operator_session_has_no_school", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		loader := &mockLoader{
			loadSchoolFunc: func(_ context.Context, sid uuid.UUID) (*dashboard.SchoolSummary, error) {
				assert.Equal(t, uuid.Nil, sid)
				return nil, dashboard.ErrSchoolUnresolved
			},
		}
		v1.RegisterDashboardRoutes(api, loader)

		resp := api.GetCtx(operatorCtx(uuid.New()), "/dashboard/school")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
