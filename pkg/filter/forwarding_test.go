package filter

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/cleanviews/cleanviews/pkg/resources"
	"github.com/cleanviews/cleanviews/pkg/views"
)

func newTestResolver(t *testing.T, params map[string]string, files ...string) *views.Resolver {
	t.Helper()

	fsys := fstest.MapFS{}
	for _, f := range files {
		fsys[strings.TrimPrefix(f, "/")] = &fstest.MapFile{Data: []byte("<view/>")}
	}

	cfg, err := views.ParseConfig(views.MapParams(params))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	resolver, err := views.NewRuntime(cfg, resources.NewDirStore(fsys)).Resolver()
	if err != nil {
		t.Fatalf("Resolver: %v", err)
	}
	return resolver
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingHandler captures what the downstream handler observed.
type recordingHandler struct {
	called       bool
	path         string
	originalPath string
	pathParams   []string
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.path = r.URL.Path
	h.originalPath = OriginalPath(r.Context())
	h.pathParams = PathParams(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestForwardingForward(t *testing.T) {
	resolver := newTestResolver(t, nil, "/WEB-INF/faces-views/foo.xhtml")
	next := &recordingHandler{}
	handler := Forwarding(resolver, WithLogger(quietLogger()))(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foo", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !next.called {
		t.Fatal("downstream handler was not called")
	}
	if next.path != "/WEB-INF/faces-views/foo.xhtml" {
		t.Errorf("forwarded path = %q, want the physical template", next.path)
	}
	if next.originalPath != "/foo" {
		t.Errorf("OriginalPath = %q, want /foo", next.originalPath)
	}
	if next.pathParams != nil {
		t.Errorf("PathParams = %v, want nil", next.pathParams)
	}
}

func TestForwardingRedirectKeepsQuery(t *testing.T) {
	resolver := newTestResolver(t, nil, "/WEB-INF/faces-views/foo.xhtml")
	next := &recordingHandler{}
	handler := Forwarding(resolver, WithLogger(quietLogger()))(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foo.xhtml?tab=2", nil))

	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/foo?tab=2" {
		t.Errorf("Location = %q, want /foo?tab=2", loc)
	}
	if next.called {
		t.Error("downstream handler must not run on redirect")
	}
}

func TestForwardingNotFound(t *testing.T) {
	resolver := newTestResolver(t,
		map[string]string{views.ParamScanPaths: "/pages/*.xhtml"},
		"/pages/a.xhtml")
	next := &recordingHandler{}
	handler := Forwarding(resolver, WithLogger(quietLogger()))(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pages/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if next.called {
		t.Error("downstream handler must not run on a rejected path")
	}
}

func TestForwardingPass(t *testing.T) {
	resolver := newTestResolver(t, nil, "/WEB-INF/faces-views/foo.xhtml")
	next := &recordingHandler{}
	handler := Forwarding(resolver, WithLogger(quietLogger()))(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/app.css", nil))

	if !next.called {
		t.Fatal("downstream handler was not called")
	}
	if next.path != "/assets/app.css" {
		t.Errorf("path = %q, want untouched /assets/app.css", next.path)
	}
	if next.originalPath != "" {
		t.Errorf("OriginalPath = %q, want empty for a passed request", next.originalPath)
	}
}

func TestForwardingMultiViewsParams(t *testing.T) {
	resolver := newTestResolver(t,
		map[string]string{views.ParamScanPaths: "/*.xhtml/*"},
		"/foo.xhtml")
	next := &recordingHandler{}
	handler := Forwarding(resolver, WithLogger(quietLogger()))(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/foo/a/b", nil))

	if next.path != "/foo.xhtml" {
		t.Errorf("forwarded path = %q, want /foo.xhtml", next.path)
	}
	if len(next.pathParams) != 2 || next.pathParams[0] != "a" || next.pathParams[1] != "b" {
		t.Errorf("PathParams = %v, want [a b]", next.pathParams)
	}
}

func TestForwardingRejectsMalformedPath(t *testing.T) {
	resolver := newTestResolver(t, nil, "/WEB-INF/faces-views/foo.xhtml")
	next := &recordingHandler{}
	handler := Forwarding(resolver, WithLogger(quietLogger()))(next)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/a/../../b"
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if next.called {
		t.Error("downstream handler must not run on a malformed path")
	}
}

type fakeObserver struct {
	paths     []string
	decisions []views.Decision
	elapsed   []time.Duration
}

func (o *fakeObserver) ObserveResolution(path string, d views.Decision, elapsed time.Duration) {
	o.paths = append(o.paths, path)
	o.decisions = append(o.decisions, d)
	o.elapsed = append(o.elapsed, elapsed)
}

func TestForwardingNotifiesObservers(t *testing.T) {
	resolver := newTestResolver(t, nil, "/WEB-INF/faces-views/foo.xhtml")
	observer := &fakeObserver{}
	handler := Forwarding(resolver,
		WithLogger(quietLogger()),
		WithObserver(observer),
	)(&recordingHandler{})

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/foo", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/elsewhere", nil))

	if len(observer.decisions) != 2 {
		t.Fatalf("observed %d decisions, want 2", len(observer.decisions))
	}
	if observer.paths[0] != "/foo" || observer.decisions[0].Action != views.Forward {
		t.Errorf("first observation = %q %+v, want forward of /foo", observer.paths[0], observer.decisions[0])
	}
	if observer.decisions[1].Action != views.Pass {
		t.Errorf("second observation = %+v, want pass", observer.decisions[1])
	}
	for i, e := range observer.elapsed {
		if e < 0 {
			t.Errorf("elapsed[%d] = %v, want non-negative", i, e)
		}
	}
}
