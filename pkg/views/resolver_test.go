package views

import (
	"reflect"
	"testing"

	"github.com/cleanviews/cleanviews/pkg/resources"
)

func newTestResolver(t *testing.T, cfg *Config, store resources.Store) *Resolver {
	t.Helper()
	return NewResolver(scanTree(t, cfg, store), cfg)
}

func checkDecision(t *testing.T, r *Resolver, path string, want Decision) {
	t.Helper()
	got := r.Resolve(path)
	if got.Action != want.Action || got.Target != want.Target || !reflect.DeepEqual(got.PathParams, want.PathParams) {
		t.Errorf("Resolve(%q) = %+v, want %+v", path, got, want)
	}
}

func TestResolveDefault(t *testing.T) {
	store := testStore("/WEB-INF/faces-views/foo.xhtml")
	r := newTestResolver(t, testConfig(t, ""), store)

	checkDecision(t, r, "/foo", Decision{Action: Forward, Target: "/WEB-INF/faces-views/foo.xhtml"})
	checkDecision(t, r, "/foo.xhtml", Decision{Action: Redirect, Target: "/foo"})
	checkDecision(t, r, "/foo;jsessionid=abc123", Decision{Action: Forward, Target: "/WEB-INF/faces-views/foo.xhtml"})
	checkDecision(t, r, "/other", Decision{Action: Pass})
	checkDecision(t, r, "/style.css", Decision{Action: Pass})
}

func TestResolveServeAsIs(t *testing.T) {
	store := testStore("/WEB-INF/faces-views/foo.xhtml")
	cfg := testConfig(t, "")
	cfg.ExtensionAction = ServeAsIs
	r := newTestResolver(t, cfg, store)

	// The extension form is served, via an internal forward for views in
	// the private directory.
	checkDecision(t, r, "/foo.xhtml", Decision{Action: Forward, Target: "/WEB-INF/faces-views/foo.xhtml"})
	checkDecision(t, r, "/foo", Decision{Action: Forward, Target: "/WEB-INF/faces-views/foo.xhtml"})
}

func TestResolveVirtualExtension(t *testing.T) {
	store := testStore("/WEB-INF/faces-views/foo.xhtml")
	cfg, err := ParseConfig(MapParams(map[string]string{ParamVirtualExtensions: ".jsf"}))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	r := newTestResolver(t, cfg, store)

	// A legacy bookmark under the dispatcher's own extension is redirected
	// to the canonical extensionless URL.
	checkDecision(t, r, "/foo.jsf", Decision{Action: Redirect, Target: "/foo"})
}

func TestResolveMultiViews(t *testing.T) {
	store := testStore("/foo.xhtml", "/foo/bar.xhtml")
	r := newTestResolver(t, testConfig(t, "/*.xhtml/*"), store)

	checkDecision(t, r, "/foo", Decision{Action: Forward, Target: "/foo.xhtml"})
	checkDecision(t, r, "/foo/baz", Decision{Action: Forward, Target: "/foo.xhtml", PathParams: []string{"baz"}})

	// The closest wildcard prefix wins.
	checkDecision(t, r, "/foo/bar/baz/qux", Decision{Action: Forward, Target: "/foo/bar.xhtml", PathParams: []string{"baz", "qux"}})

	// The extension form still negotiates down to the extensionless URL.
	checkDecision(t, r, "/foo.xhtml", Decision{Action: Redirect, Target: "/foo"})
}

func TestResolveMultiViewsWelcomeFile(t *testing.T) {
	store := testStore("/index.xhtml", "/sub/index.xhtml")
	cfg := testConfig(t, "/*.xhtml/*")
	cfg.WelcomeFiles = []string{"index"}
	r := newTestResolver(t, cfg, store)

	// Directory requests resolve through the welcome file.
	checkDecision(t, r, "/", Decision{Action: Forward, Target: "/index.xhtml"})
	checkDecision(t, r, "/sub/", Decision{Action: Forward, Target: "/sub/index.xhtml"})

	// Unmatched paths fall back to the welcome file of the closest ancestor
	// directory, trailing segments becoming path parameters.
	checkDecision(t, r, "/sub/x/y", Decision{Action: Forward, Target: "/sub/index.xhtml", PathParams: []string{"x", "y"}})

	// With no intermediate welcome file the global one catches everything.
	checkDecision(t, r, "/a/b", Decision{Action: Forward, Target: "/index.xhtml", PathParams: []string{"a", "b"}})

	// A request already rewritten to the welcome file form resolves like
	// the directory itself.
	checkDecision(t, r, "/sub/index", Decision{Action: Forward, Target: "/sub/index.xhtml"})
}

func TestResolveMultiViewsExclusion(t *testing.T) {
	store := testStore("/foo.xhtml", "/legacy/old.xhtml")
	r := newTestResolver(t, testConfig(t, "/*.xhtml/*, !/legacy"), store)

	checkDecision(t, r, "/foo/x", Decision{Action: Forward, Target: "/foo.xhtml", PathParams: []string{"x"}})
	checkDecision(t, r, "/legacy/old", Decision{Action: Pass})
	checkDecision(t, r, "/legacy/old/extra", Decision{Action: Pass})
}

func TestResolveDirectoryCoverForm(t *testing.T) {
	store := testStore("/pages/index.xhtml", "/WEB-INF/faces-views/foo.xhtml")
	cfg := testConfig(t, "/pages/*.xhtml/*")
	cfg.WelcomeFiles = []string{"index"}
	r := newTestResolver(t, cfg, store)

	checkDecision(t, r, "/foo", Decision{Action: Forward, Target: "/WEB-INF/faces-views/foo.xhtml"})
	checkDecision(t, r, "/foo/", Decision{Action: Forward, Target: "/WEB-INF/faces-views/foo.xhtml"})
}

func TestResolvePathAction(t *testing.T) {
	store := testStore("/pages/a.xhtml")
	cfg := testConfig(t, "/pages/*.xhtml")
	r := newTestResolver(t, cfg, store)

	checkDecision(t, r, "/a", Decision{Action: Forward, Target: "/pages/a.xhtml"})

	// An unmatched extensionless request under a publicly reachable scanned
	// root is rejected rather than exposing raw directory handling.
	checkDecision(t, r, "/pages/nope", Decision{Action: NotFound})
	checkDecision(t, r, "/nope", Decision{Action: Pass})

	cfg = testConfig(t, "/pages/*.xhtml")
	cfg.PathAction = FallThrough
	r = newTestResolver(t, cfg, store)
	checkDecision(t, r, "/pages/nope", Decision{Action: Pass})
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{Pass, "pass"},
		{Forward, "forward"},
		{Redirect, "redirect"},
		{NotFound, "not_found"},
	}
	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.action, got, tt.want)
		}
	}
}
