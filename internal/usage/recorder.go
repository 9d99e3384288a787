package usage

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opencampus/campus/internal/server/middleware"
)

// Recorder returns middleware that meters every authenticated request into
// the aggregator. It must be chained after Auth so the school ID is in
// context; unauthenticated requests pass through unmetered. The route
// pattern (not the raw URL) is used as the path key so /courses/{id} counts
// as one endpoint, not one per course.
func Recorder(agg *Aggregator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			schoolID, ok := middleware.SchoolIDFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			next.ServeHTTP(w, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}
			agg.Record(schoolID, path, time.Since(start))
		})
	}
}
