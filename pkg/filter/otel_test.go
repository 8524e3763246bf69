package filter

import (
	"testing"
	"time"

	"github.com/cleanviews/cleanviews/pkg/views"
)

func TestTracingObserver(t *testing.T) {
	// The global tracer provider defaults to a no-op; the observer must
	// still accept every decision shape without panicking.
	observer := Tracing(WithTracerName("test"))

	observer.ObserveResolution("/foo",
		views.Decision{Action: views.Forward, Target: "/WEB-INF/faces-views/foo.xhtml", PathParams: []string{"a"}},
		time.Millisecond)
	observer.ObserveResolution("/foo.xhtml",
		views.Decision{Action: views.Redirect, Target: "/foo"},
		time.Millisecond)
	observer.ObserveResolution("/pages/nope",
		views.Decision{Action: views.NotFound},
		time.Millisecond)
	observer.ObserveResolution("/other",
		views.Decision{Action: views.Pass},
		0)
}

func TestTracingObserverPathFilter(t *testing.T) {
	var seen []string
	observer := Tracing(WithPathFilter(func(path string) bool {
		seen = append(seen, path)
		return path != "/healthz"
	}))

	observer.ObserveResolution("/healthz", views.Decision{Action: views.Pass}, 0)
	observer.ObserveResolution("/foo", views.Decision{Action: views.Forward, Target: "/foo.xhtml"}, time.Microsecond)

	if len(seen) != 2 {
		t.Fatalf("filter consulted %d times, want 2", len(seen))
	}
	if seen[0] != "/healthz" || seen[1] != "/foo" {
		t.Errorf("filter saw %v, want [/healthz /foo]", seen)
	}
}
