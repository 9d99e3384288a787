package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	v1 "github.com/opencampus/campus/internal/api/v1"
	"github.com/opencampus/campus/internal/policy"
	"github.com/opencampus/campus/internal/server/middleware"
)

// registerPublicRoutes mounts the unauthenticated surface. The OpenAPI
// document and docs UI live here so they stay reachable without a token.
func registerPublicRoutes(r chi.Router, deps Deps) {
	cfg := huma.DefaultConfig("Campus API", "1.0.0")
	cfg.Servers = []*huma.Server{{URL: "/api/v1"}}

	// A nil concrete provider must stay a nil interface so the handlers
	// can report Google sign-in as not configured.
	var oauth v1.OAuthProvider
	if deps.OAuth != nil {
		oauth = deps.OAuth
	}

	api := humachi.New(r, cfg)
	v1.RegisterAuthRoutes(api, deps.Auth, oauth)
}

// registerViewRoutes mounts the authenticated surface. Each navigable view
// gets its own chi group with a GuardView gate, so a request for an
// out-of-policy view is refused before routing reaches a handler. Every
// group needs its own huma instance because the guard is chi middleware.
func registerViewRoutes(r chi.Router, deps Deps, publisher v1.Publisher) {
	// Session routes carry no view guard: any authenticated user can
	// inspect or revoke their own session.
	v1.RegisterSessionRoutes(viewAPI(r), deps.Auth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.GuardView(policy.ViewDashboard))
		v1.RegisterDashboardRoutes(viewAPI(r), deps.Loader)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.GuardView(policy.ViewCourses))
		api := viewAPI(r)
		v1.RegisterCourseRoutes(api, deps.Store)
		v1.RegisterEnrollmentRoutes(api, deps.Store)
		v1.RegisterChatRoutes(api, deps.Store, publisher)
		v1.RegisterDocQARoutes(api, deps.QA)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.GuardView(policy.ViewStudents))
		v1.RegisterUserRoutes(viewAPI(r), deps.Store, deps.Auth)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.GuardView(policy.ViewGrades))
		v1.RegisterGradeRoutes(viewAPI(r), deps.Store)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.GuardView(policy.ViewTimetables))
		v1.RegisterTimetableRoutes(viewAPI(r), deps.Store)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.GuardView(policy.ViewSchools))
		r.Use(middleware.RequireOperator())
		v1.RegisterSchoolRoutes(viewAPI(r), deps.Store, deps.Auth)
	})
}

// viewAPI builds a huma instance for one route group. The OpenAPI, docs,
// and schema paths are blanked because the public group already serves
// them; registering them per group would collide on the shared mux.
func viewAPI(r chi.Router) huma.API {
	cfg := huma.DefaultConfig("Campus API", "1.0.0")
	cfg.Servers = []*huma.Server{{URL: "/api/v1"}}
	cfg.OpenAPIPath = ""
	cfg.DocsPath = ""
	cfg.SchemasPath = ""
	return humachi.New(r, cfg)
}
