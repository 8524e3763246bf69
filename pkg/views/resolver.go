package views

import (
	"strings"

	"github.com/cleanviews/cleanviews/pkg/viewpath"
)

// Action is the routing decision for an incoming request path.
type Action int

const (
	// Pass leaves the request untouched; it is not a managed view.
	Pass Action = iota

	// Forward serves a different internal resource without a client
	// visible URL change.
	Forward

	// Redirect sends the client to the extensionless form of the URL.
	Redirect

	// NotFound rejects the request.
	NotFound
)

// String returns a short name for the action, used in logs and metrics.
func (a Action) String() string {
	switch a {
	case Forward:
		return "forward"
	case Redirect:
		return "redirect"
	case NotFound:
		return "not_found"
	default:
		return "pass"
	}
}

// Decision is the outcome of resolving one request path.
type Decision struct {
	// Action selects what the filter should do.
	Action Action

	// Target is the physical resource to forward to, or the extensionless
	// path to redirect to.
	Target string

	// PathParams are trailing MultiViews path segments beyond the matched
	// view, in request order.
	PathParams []string
}

// Resolver decides, per incoming request path, whether to forward, redirect,
// reject, or pass through. Every lookup is a read of the immutable
// ScanResult, so a single Resolver is safe for concurrent use.
type Resolver struct {
	result          *ScanResult
	extensionAction ExtensionAction
	pathAction      PathAction
}

// NewResolver creates a resolver over the given scan result.
func NewResolver(result *ScanResult, cfg *Config) *Resolver {
	return &Resolver{
		result:          result,
		extensionAction: cfg.ExtensionAction,
		pathAction:      cfg.PathAction,
	}
}

// Result returns the scan result the resolver consults.
func (r *Resolver) Result() *ScanResult {
	return r.result
}

// Resolve runs the routing state machine for the given request path.
// The path must not include the query string.
func (r *Resolver) Resolve(path string) Decision {
	p := viewpath.EnsureLeadingSlash(viewpath.StripArtifacts(path))

	if strings.HasSuffix(p, "/") {
		return r.resolveDirectory(p)
	}
	if viewpath.IsExtensionless(p) {
		return r.resolveExtensionless(p)
	}
	return r.resolveExtension(p)
}

// resolveDirectory handles directory-form requests, including the root.
func (r *Resolver) resolveDirectory(dir string) Decision {
	// The directory cover form of a view key ("/foo/" for /foo.xhtml),
	// present when a MultiViews welcome file forces the filter onto "/*".
	if resource, ok := r.result.Lookup(dir); ok {
		return Decision{Action: Forward, Target: resource}
	}

	base := viewpath.StripTrailingSlash(dir)
	for _, welcome := range r.result.WelcomeFiles() {
		candidate := base + welcome
		if resource, ok := r.result.Lookup(candidate); ok {
			return Decision{Action: Forward, Target: resource}
		}
		if r.multiViewsActive(candidate) {
			if resource, ok := r.result.Lookup(candidate + "/*"); ok {
				return Decision{Action: Forward, Target: resource}
			}
		}
	}

	return Decision{Action: Pass}
}

// resolveExtensionless handles paths without a file extension.
func (r *Resolver) resolveExtensionless(p string) Decision {
	if resource, ok := r.result.Lookup(p); ok {
		return Decision{Action: Forward, Target: resource}
	}

	// An upstream welcome-file mechanism may already have rewritten a
	// directory request to its welcome file; resolve the directory form.
	for _, welcome := range r.result.WelcomeFiles() {
		if strings.HasSuffix(p, welcome) {
			return r.resolveDirectory(p[:len(p)-len(welcome)] + "/")
		}
	}

	if r.multiViewsActive(p) {
		// Closest wildcard prefix wins; trailing segments become path
		// parameters.
		prefix := p
		var params []string
		for prefix != "" {
			if resource, ok := r.result.Lookup(prefix + "/*"); ok {
				return Decision{Action: Forward, Target: resource, PathParams: params}
			}
			idx := strings.LastIndex(prefix, "/")
			params = append([]string{prefix[idx+1:]}, params...)
			prefix = prefix[:idx]
		}

		// Welcome files of ancestor directories, closest first. These
		// take priority over the global MultiViews welcome file.
		for dir := viewpath.ParentDir(p); dir != ""; dir = viewpath.ParentDir(dir) {
			for _, welcome := range r.result.WelcomeFiles() {
				if resource, ok := r.result.Lookup(dir + welcome + "/*"); ok {
					return Decision{Action: Forward, Target: resource, PathParams: segmentsAfter(dir, p)}
				}
			}
		}

		if mw := r.result.MultiViewsWelcomeFile(); mw != "" {
			if resource, ok := r.result.Lookup(mw + "/*"); ok {
				return Decision{Action: Forward, Target: resource, PathParams: viewpath.Segments(p)}
			}
		}
	}

	if r.result.InPublicRoot(p) && r.pathAction == Send404 {
		return Decision{Action: NotFound}
	}
	return Decision{Action: Pass}
}

// resolveExtension handles paths carrying a file extension.
func (r *Resolver) resolveExtension(p string) Decision {
	extensionless := viewpath.StripExtension(p)

	_, ok := r.result.ReverseLookup(extensionless)
	if !ok {
		// Under MultiViews the wildcard form replaces the plain key.
		_, ok = r.result.ReverseLookup(extensionless + "/*")
	}
	if !ok {
		return Decision{Action: Pass}
	}

	if r.extensionAction == ServeAsIs {
		// Serve the view under its extension-bearing URL; views in
		// private directories still need the internal forward.
		if resource, ok := r.result.Lookup(p); ok {
			return Decision{Action: Forward, Target: resource}
		}
		return Decision{Action: Pass}
	}
	return Decision{Action: Redirect, Target: extensionless}
}

// multiViewsActive reports whether MultiViews applies to the given path:
// enabled for the deployment and the path not under an exclusion prefix.
func (r *Resolver) multiViewsActive(p string) bool {
	return r.result.MultiViews() && !r.result.Excluded(p)
}

// segmentsAfter returns the segments of p beyond the given directory prefix.
func segmentsAfter(dir, p string) []string {
	return viewpath.Segments(strings.TrimPrefix(p, dir))
}
