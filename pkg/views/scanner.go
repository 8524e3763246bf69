package views

import (
	"sort"
	"strings"

	"github.com/cleanviews/cleanviews/pkg/resources"
	"github.com/cleanviews/cleanviews/pkg/viewpath"
)

// Scanner discovers view templates in the deployed resource tree and derives
// the URL keys each one should be reachable under.
type Scanner struct {
	store resources.Store
	cfg   *Config
}

// NewScanner creates a scanner over the given resource tree.
func NewScanner(store resources.Store, cfg *Config) *Scanner {
	return &Scanner{store: store, cfg: cfg}
}

// Scan walks every configured root and produces the immutable ScanResult.
//
// For each accepted file the key set contains the literal root-relative key
// and an extensionless variant; under a MultiViews prefix the wildcard
// "key/*" form replaces the plain extensionless one. Exclusion roots are
// applied in a single pass over the fully collected set, so scan order does
// not matter.
func (s *Scanner) Scan() (*ScanResult, error) {
	welcome, err := s.welcomeFiles()
	if err != nil {
		return nil, err
	}

	multiViews := s.cfg.MultiViewsEnabled()
	hasMultiViewsWelcome := multiViews && len(welcome) > 0

	var mvRoots []string
	var excludedPrefixes []string
	for _, root := range s.cfg.Roots {
		if root.Exclude {
			excludedPrefixes = append(excludedPrefixes, root.Path)
			continue
		}
		if root.MultiViews {
			mvRoots = append(mvRoots, root.Path)
		}
	}

	collected := make(map[string]string)
	extSet := make(map[string]struct{})

	for _, root := range s.cfg.Roots {
		if root.Exclude {
			continue
		}
		s.scanDir(root, root.Path, collected, extSet, mvRoots, hasMultiViewsWelcome)
	}

	for key := range collected {
		if viewpath.StartsWithOneOf(key, excludedPrefixes...) {
			delete(collected, key)
		}
	}

	result := &ScanResult{
		mappings:         collected,
		reverse:          make(map[string]string),
		wildcardPrefixes: make(map[string]struct{}),
		excludedPrefixes: excludedPrefixes,
		welcomeFiles:     welcome,
		multiViews:       multiViews,
	}

	for key, resource := range collected {
		if viewpath.IsExtensionless(key) {
			result.reverse[key] = resource
		}
		if strings.HasSuffix(key, "/*") {
			result.wildcardPrefixes[strings.TrimSuffix(key, "/*")] = struct{}{}
		}
	}

	for ext := range extSet {
		result.extensions = append(result.extensions, ext)
	}
	sort.Strings(result.extensions)

	for _, root := range s.cfg.Roots {
		if root.Path != "/" && !root.Exclude && !viewpath.StartsWithOneOf(root.Path, restrictedDirs...) {
			result.publicRoots = append(result.publicRoots, root.Path)
		}
	}

	if multiViews {
		for _, w := range welcome {
			if _, ok := collected[w+"/*"]; ok {
				result.multiViewsWelcomeFile = w
				break
			}
		}
	}

	return result, nil
}

// scanDir recurses into the directory, honoring the restricted directories
// of the implicit "/" root and the root's extension filter.
func (s *Scanner) scanDir(root RootSpec, dir string, collected map[string]string, extSet map[string]struct{}, mvRoots []string, hasMultiViewsWelcome bool) {
	for _, child := range s.store.List(dir) {
		if viewpath.IsDirectory(child) {
			if s.canScanDirectory(root, child) {
				s.scanDir(root, child, collected, extSet, mvRoots, hasMultiViewsWelcome)
			}
		} else if root.Ext == "" || strings.HasSuffix(child, root.Ext) {
			s.scanView(root, child, collected, extSet, mvRoots, hasMultiViewsWelcome)
		}
	}
}

func (s *Scanner) canScanDirectory(root RootSpec, dir string) bool {
	if root.Path != "/" {
		// An explicitly configured root recurses without restriction.
		return true
	}
	return !viewpath.StartsWithOneOf(dir, restrictedDirs...)
}

// scanView derives and stores the URL keys for one accepted file.
func (s *Scanner) scanView(root RootSpec, resource string, collected map[string]string, extSet map[string]struct{}, mvRoots []string, hasMultiViewsWelcome bool) {
	// "/WEB-INF/faces-views/foo.xhtml" becomes "/foo.xhtml" for the
	// private views root.
	key := viewpath.StripPrefix(root.Path, resource)

	collected[key] = resource
	extensionless := viewpath.StripExtension(key)

	if isMultiViewsResource(mvRoots, viewpath.StripExtension(resource)) {
		collected[extensionless+"/*"] = resource
	} else {
		if hasMultiViewsWelcome {
			// The filter runs on every request in this mode, so the
			// directory form of the key must resolve too.
			collected[extensionless+"/"] = resource
		}

		collected[extensionless] = resource

		// Legacy variants for extensions the dispatcher is already mapped
		// on, so old bookmarks keep resolving (and get redirected).
		for _, virtual := range s.cfg.VirtualExtensions {
			if !strings.HasSuffix(resource, virtual) {
				collected[extensionless+virtual] = resource
			}
		}
	}

	if ext := viewpath.Extension(resource); ext != "" {
		extSet[ext] = struct{}{}
	}
}

// isMultiViewsResource reports whether the extensionless physical path lies
// under a MultiViews root.
func isMultiViewsResource(mvRoots []string, extensionlessResource string) bool {
	return viewpath.StartsWithOneOf(extensionlessResource+"/", mvRoots...)
}

// welcomeFiles resolves the extensionless welcome files, from the explicit
// configuration override or the deployment descriptor.
func (s *Scanner) welcomeFiles() ([]string, error) {
	declared := s.cfg.WelcomeFiles
	if declared == nil {
		var err error
		declared, err = resources.WelcomeFiles(s.store)
		if err != nil {
			return nil, err
		}
	}

	var welcome []string
	seen := make(map[string]struct{})
	for _, w := range declared {
		if !viewpath.IsExtensionless(w) {
			continue
		}
		w = viewpath.StripTrailingSlash(viewpath.EnsureLeadingSlash(w))
		if _, dup := seen[w]; dup || w == "" {
			continue
		}
		seen[w] = struct{}{}
		welcome = append(welcome, w)
	}
	return welcome, nil
}
