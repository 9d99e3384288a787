package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/opencampus/campus/internal/domain"
)

const resolverCacheTTL = 30 * time.Second

type resolvedEntry struct {
	school    *domain.School
	expiresAt time.Time
}

// ResolveSchool returns middleware that resolves the tenant school from the
// request's Host header and stores it in the request context. Hosts that do
// not map to a school pass through with no school in context; downstream
// consumers treat the absence as "tenant unresolved" and must not guess.
//
// Lookups are cached per host for a short TTL so branding and login pages do
// not hit the database on every request.
func ResolveSchool(schools domain.SchoolRepository) func(http.Handler) http.Handler {
	var (
		mu    sync.Mutex
		cache = make(map[string]resolvedEntry)
	)

	lookup := func(ctx context.Context, host string) *domain.School {
		mu.Lock()
		if e, ok := cache[host]; ok && time.Now().Before(e.expiresAt) {
			mu.Unlock()
			return e.school
		}
		mu.Unlock()

		school, err := schools.GetByDomain(ctx, host)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				log.Warn().Err(err).Str("host", host).Msg("tenant: school lookup failed")
				// Transient failure: do not cache, do not guess.
				return nil
			}
			school = nil
		}

		mu.Lock()
		cache[host] = resolvedEntry{school: school, expiresAt: time.Now().Add(resolverCacheTTL)}
		mu.Unlock()
		return school
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := normalizeHost(r.Host)
			if host == "" {
				next.ServeHTTP(w, r)
				return
			}

			if school := lookup(r.Context(), host); school != nil {
				ctx := context.WithValue(r.Context(), ContextKeySchool, school)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSchool rejects requests whose host did not resolve to a school.
// Used on routes that only make sense inside a tenant, such as tenant login.
func RequireSchool() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ResolvedSchoolFromContext(r.Context()); !ok {
				http.Error(w, `{"title":"Not Found","status":404,"detail":"no school is registered for this domain"}`, http.StatusNotFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalizeHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(strings.TrimSuffix(host, "."))
}
