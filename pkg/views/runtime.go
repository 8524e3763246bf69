package views

import (
	"sync"

	"github.com/cleanviews/cleanviews/pkg/resources"
)

// Runtime owns the scan-once lifecycle: the scan executes at most once,
// synchronously, on first use during startup, and the immutable result is
// shared by every request goroutine afterwards. Feature flags such as
// MultiViews are computed during that single pass and carried here
// explicitly; nothing is recomputed at request time.
type Runtime struct {
	cfg   *Config
	store resources.Store

	once     sync.Once
	result   *ScanResult
	resolver *Resolver
	err      error
}

// NewRuntime creates a runtime for the given configuration and resource
// tree. No scanning happens until ScanResult or Resolver is first called.
func NewRuntime(cfg *Config, store resources.Store) *Runtime {
	return &Runtime{cfg: cfg, store: store}
}

// Config returns the runtime's configuration.
func (r *Runtime) Config() *Config {
	return r.cfg
}

// Enabled reports whether the subsystem is active.
func (r *Runtime) Enabled() bool {
	return r.cfg.Enabled
}

// ScanResult runs the startup scan on first call and returns the cached
// result on every later call. A second invocation is a no-op returning the
// identical object.
func (r *Runtime) ScanResult() (*ScanResult, error) {
	r.scan()
	return r.result, r.err
}

// Resolver returns the request-path resolver over the scan result.
func (r *Runtime) Resolver() (*Resolver, error) {
	r.scan()
	return r.resolver, r.err
}

func (r *Runtime) scan() {
	r.once.Do(func() {
		if !r.cfg.Enabled {
			r.result = &ScanResult{mappings: map[string]string{}, reverse: map[string]string{}, wildcardPrefixes: map[string]struct{}{}}
			r.resolver = NewResolver(r.result, r.cfg)
			return
		}

		r.result, r.err = NewScanner(r.store, r.cfg).Scan()
		if r.err != nil {
			return
		}
		r.resolver = NewResolver(r.result, r.cfg)
	})
}
