// Package cleanviews maps view templates in a deployed application tree to
// clean, extensionless URLs.
//
// The typical embedding scans once at startup and mounts the forwarding
// filter in front of the application's handler chain:
//
//	app, err := cleanviews.New(resources.NewOSDirStore("./webapp"), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	mw, err := app.Middleware()
//	if err != nil {
//		log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", mw(mux))
//
// Configuration comes from the cleanviews.* parameters; see pkg/views.
package cleanviews

import (
	"net/http"

	"github.com/cleanviews/cleanviews/pkg/filter"
	"github.com/cleanviews/cleanviews/pkg/resources"
	"github.com/cleanviews/cleanviews/pkg/views"
)

// App ties a configuration and a resource tree to the scan-once runtime.
type App struct {
	cfg     *views.Config
	runtime *views.Runtime
}

// New creates an App from raw configuration parameters. A nil map yields the
// zero-configuration defaults: only /WEB-INF/faces-views/ is scanned.
func New(store resources.Store, params map[string]string) (*App, error) {
	cfg, err := views.ParseConfig(views.MapParams(params))
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, store), nil
}

// NewWithConfig creates an App over an already validated configuration.
func NewWithConfig(cfg *views.Config, store resources.Store) *App {
	return &App{
		cfg:     cfg,
		runtime: views.NewRuntime(cfg, store),
	}
}

// Config returns the app's configuration.
func (a *App) Config() *views.Config {
	return a.cfg
}

// Runtime returns the underlying scan-once runtime.
func (a *App) Runtime() *views.Runtime {
	return a.runtime
}

// Scan runs the startup scan (once; later calls return the cached result).
func (a *App) Scan() (*views.ScanResult, error) {
	return a.runtime.ScanResult()
}

// Middleware returns the forwarding filter over the scanned views. The scan
// runs on the first call if it has not already.
func (a *App) Middleware(opts ...filter.Option) (func(http.Handler) http.Handler, error) {
	resolver, err := a.runtime.Resolver()
	if err != nil {
		return nil, err
	}
	return filter.Forwarding(resolver, opts...), nil
}

// URL returns the URL to link to for the given physical resource: the
// extensionless form when the resource is a mapped view and extensionless
// links are enabled, the resource path itself otherwise.
func (a *App) URL(resource string) string {
	if !a.cfg.Enabled || !a.cfg.AlwaysExtensionless {
		return resource
	}
	result, err := a.runtime.ScanResult()
	if err != nil {
		return resource
	}
	if url, ok := result.URLFor(resource); ok {
		return url
	}
	return resource
}
