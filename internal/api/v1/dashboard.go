package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/opencampus/campus/internal/dashboard"
	"github.com/opencampus/campus/internal/policy"
	"github.com/opencampus/campus/internal/server/middleware"
)

type SystemDashboardOutput struct {
	Body dashboard.SystemSummary
}

type SchoolDashboardOutput struct {
	Body dashboard.SchoolSummary
}

// RegisterDashboardRoutes registers the landing-view aggregates.
func RegisterDashboardRoutes(api huma.API, loader DashboardLoader) {
	huma.Register(api, huma.Operation{
		OperationID: "system-dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard/system",
		Summary:     "Cross-school operator dashboard",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, _ *struct{}) (*SystemDashboardOutput, error) {
		role, ok := middleware.RoleFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}
		if policy.ScopeFor(role) != policy.ScopeSystem {
			return nil, huma.Error403Forbidden("requires system operator access")
		}

		summary, err := loader.LoadSystem(ctx)
		if err != nil {
			return nil, huma.Error502BadGateway("failed to load dashboard data", err)
		}

		return &SystemDashboardOutput{Body: *summary}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "school-dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard/school",
		Summary:     "School dashboard",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, _ *struct{}) (*SchoolDashboardOutput, error) {
		if _, ok := middleware.RoleFromContext(ctx); !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}
		schoolID, _ := middleware.SchoolIDFromContext(ctx)

		summary, err := loader.LoadSchool(ctx, schoolID)
		if err != nil {
			if errors.Is(err, dashboard.ErrSchoolUnresolved) {
				return nil, huma.Error404NotFound("no school is associated with this session")
			}
			return nil, huma.Error502BadGateway("failed to load dashboard data", err)
		}

		return &SchoolDashboardOutput{Body: *summary}, nil
	})
}
