// Package filter applies view routing decisions as net/http middleware.
//
// Forwarding wraps a handler chain so that extensionless view URLs are
// forwarded to their physical templates, extension-bearing requests are
// redirected to their canonical form, and unmatched paths under public
// scanned roots are rejected. Metrics and Tracing provide optional
// observers over the routing decisions.
package filter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cleanviews/cleanviews/pkg/viewpath"
	"github.com/cleanviews/cleanviews/pkg/views"
)

type contextKey int

const (
	pathParamsKey contextKey = iota
	originalPathKey
)

// PathParams returns the MultiViews path parameters of a forwarded request,
// or nil when the request carried none.
func PathParams(ctx context.Context) []string {
	params, _ := ctx.Value(pathParamsKey).([]string)
	return params
}

// OriginalPath returns the request path as the client sent it, before the
// internal forward rewrote it. It returns "" for requests that were not
// forwarded.
func OriginalPath(ctx context.Context) string {
	path, _ := ctx.Value(originalPathKey).(string)
	return path
}

// Observer is notified of every routing decision the filter takes.
// Implementations must be safe for concurrent use.
type Observer interface {
	// ObserveResolution is called after the decision for one request path
	// has been computed, with the time resolution took.
	ObserveResolution(path string, d views.Decision, elapsed time.Duration)
}

// Config configures the forwarding filter.
type Config struct {
	// Logger receives a debug record per non-pass decision.
	// Default: slog.Default().
	Logger *slog.Logger

	// Observers are notified of every routing decision.
	Observers []Observer
}

// Option configures the forwarding filter.
type Option func(*Config)

// WithLogger sets the filter's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithObserver adds a decision observer.
func WithObserver(observer Observer) Option {
	return func(c *Config) {
		c.Observers = append(c.Observers, observer)
	}
}

// Forwarding creates middleware that routes view requests according to the
// given resolver.
//
// Per decision:
//   - forward: the request proceeds down the chain with its URL path
//     rewritten to the physical template; the original path and any
//     MultiViews path parameters are available via OriginalPath and
//     PathParams.
//   - redirect: a permanent redirect to the extensionless URL, query
//     string preserved.
//   - not found: a plain 404.
//   - pass: the request proceeds untouched.
//
// Request paths that fail canonicalization are rejected with 400 before
// any resolution happens.
func Forwarding(resolver *views.Resolver, opts ...Option) func(http.Handler) http.Handler {
	config := Config{Logger: slog.Default()}
	for _, opt := range opts {
		opt(&config)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			canonical, err := viewpath.Canonicalize(r.URL.Path)
			if err != nil {
				config.Logger.Debug("rejecting malformed request path",
					"path", r.URL.Path, "error", err)
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}

			start := time.Now()
			decision := resolver.Resolve(canonical.Path)
			elapsed := time.Since(start)

			for _, observer := range config.Observers {
				observer.ObserveResolution(canonical.Path, decision, elapsed)
			}

			switch decision.Action {
			case views.Forward:
				config.Logger.Debug("forwarding view request",
					"path", canonical.Path,
					"target", decision.Target,
					"params", decision.PathParams)

				ctx := context.WithValue(r.Context(), originalPathKey, canonical.Path)
				if decision.PathParams != nil {
					ctx = context.WithValue(ctx, pathParamsKey, decision.PathParams)
				}

				forwarded := r.Clone(ctx)
				forwarded.URL.Path = decision.Target
				forwarded.URL.RawPath = ""
				next.ServeHTTP(w, forwarded)

			case views.Redirect:
				target := decision.Target
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				config.Logger.Debug("redirecting view request",
					"path", canonical.Path, "target", target)
				http.Redirect(w, r, target, http.StatusMovedPermanently)

			case views.NotFound:
				config.Logger.Debug("rejecting unmatched view request",
					"path", canonical.Path)
				http.NotFound(w, r)

			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
