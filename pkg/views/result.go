package views

import (
	"sort"
	"strings"

	"github.com/cleanviews/cleanviews/pkg/viewpath"
)

// ScanResult is the aggregate of a scan pass. It is produced exactly once
// during startup and is read-only thereafter, so concurrent request
// goroutines can consult it without locking.
type ScanResult struct {
	// mappings maps every derived URL key to its physical resource.
	mappings map[string]string

	// reverse holds the extensionless subset of mappings, used for
	// extension-bearing request negotiation and link generation.
	reverse map[string]string

	// wildcardPrefixes are the extensionless keys that carry a "/*"
	// wildcard mapping.
	wildcardPrefixes map[string]struct{}

	// excludedPrefixes are the exclusion root paths, trailing slash kept.
	excludedPrefixes []string

	// extensions are the unique file extensions encountered (".xhtml" form).
	extensions []string

	// welcomeFiles are the extensionless deployment welcome files,
	// normalized to a leading slash, declaration order preserved.
	welcomeFiles []string

	// multiViewsWelcomeFile is the welcome file carrying a wildcard
	// mapping, or "" when there is none.
	multiViewsWelcomeFile string

	// publicRoots are scanned roots that are also directly reachable.
	publicRoots []string

	// multiViews reports whether any MultiViews root was configured.
	multiViews bool
}

// Lookup returns the physical resource mapped to the given URL key.
func (r *ScanResult) Lookup(key string) (string, bool) {
	resource, ok := r.mappings[key]
	return resource, ok
}

// ReverseLookup returns the physical resource for an extensionless key.
func (r *ScanResult) ReverseLookup(key string) (string, bool) {
	resource, ok := r.reverse[key]
	return resource, ok
}

// Empty reports whether the scan found no views at all.
func (r *ScanResult) Empty() bool {
	return len(r.mappings) == 0
}

// Len returns the number of mapped URL keys.
func (r *ScanResult) Len() int {
	return len(r.mappings)
}

// Keys returns the mapped URL keys in sorted order.
func (r *ScanResult) Keys() []string {
	keys := make([]string, 0, len(r.mappings))
	for k := range r.mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MultiViews reports whether MultiViews is enabled for this deployment.
func (r *ScanResult) MultiViews() bool {
	return r.multiViews
}

// HasWildcard reports whether the given extensionless key has a wildcard
// path-parameter mapping.
func (r *ScanResult) HasWildcard(key string) bool {
	_, ok := r.wildcardPrefixes[key]
	return ok
}

// Excluded reports whether the given path falls under an exclusion prefix.
func (r *ScanResult) Excluded(path string) bool {
	p := path
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return viewpath.StartsWithOneOf(p, r.excludedPrefixes...)
}

// InPublicRoot reports whether the given path lies under a scanned root that
// is also directly reachable by clients.
func (r *ScanResult) InPublicRoot(path string) bool {
	return viewpath.StartsWithOneOf(path, r.publicRoots...)
}

// Extensions returns the unique file extensions encountered while scanning.
func (r *ScanResult) Extensions() []string {
	return r.extensions
}

// WelcomeFiles returns the extensionless deployment welcome files.
func (r *ScanResult) WelcomeFiles() []string {
	return r.welcomeFiles
}

// MultiViewsWelcomeFile returns the welcome file serving as the global
// MultiViews fallback, or "" when there is none.
func (r *ScanResult) MultiViewsWelcomeFile() string {
	return r.multiViewsWelcomeFile
}

// URLFor returns the canonical extensionless URL the given physical resource
// is reachable under. Wildcard and directory cover forms reduce to the plain
// key; the shortest candidate wins for determinism.
func (r *ScanResult) URLFor(resource string) (string, bool) {
	var best string
	found := false
	for key, res := range r.reverse {
		if res != resource {
			continue
		}
		url := viewpath.StripTrailingSlash(strings.TrimSuffix(key, "/*"))
		if url == "" {
			url = "/"
		}
		if !found || len(url) < len(best) || (len(url) == len(best) && url < best) {
			best = url
			found = true
		}
	}
	return best, found
}

// DispatcherMappings returns the union of URL patterns the host view
// dispatcher must be mapped on to handle every scanned view: a "*<ext>" glob
// per encountered extension, every extensionless welcome file, and every
// extensionless mapped key. Sorted for deterministic registration.
func (r *ScanResult) DispatcherMappings() []string {
	set := make(map[string]struct{})

	for _, ext := range r.extensions {
		set["*"+ext] = struct{}{}
	}
	for _, w := range r.welcomeFiles {
		set[w] = struct{}{}
	}
	for key := range r.reverse {
		set[key] = struct{}{}
	}

	mappings := make([]string, 0, len(set))
	for m := range set {
		mappings = append(mappings, m)
	}
	sort.Strings(mappings)
	return mappings
}
