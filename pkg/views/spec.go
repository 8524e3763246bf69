package views

import (
	"fmt"
	"strings"

	"github.com/cleanviews/cleanviews/pkg/viewpath"
)

// PrivateViewsDir is the dedicated well-known directory where view templates
// can be placed. It is scanned by convention, so zero configuration is needed
// for views living there.
const PrivateViewsDir = "/WEB-INF/faces-views/"

// restrictedDirs are never recursed into when scanning the implicit "/" root.
// Explicitly configured roots are not subject to this restriction.
var restrictedDirs = []string{"/WEB-INF/", "/META-INF/", "/resources/"}

// RootSpec is a configured scan root. Immutable once parsed.
type RootSpec struct {
	// Path is the absolute root path, with leading and trailing slash.
	Path string

	// Ext restricts scanning under this root to files with the given
	// extension (".xhtml" form). Empty means every file is scanned.
	Ext string

	// Exclude marks this root as an exclusion prefix: every collected key
	// under it is removed after scanning.
	Exclude bool

	// MultiViews enables wildcard path-parameter mapping for views under
	// this root.
	MultiViews bool
}

// ParseScanPaths parses the comma separated scan path configuration value.
//
// Each entry is a root path, optionally prefixed with "!" to exclude it,
// optionally carrying a "*<ext>" extension filter, and optionally suffixed
// with "/*" to enable MultiViews. Examples:
//
//	/*.xhtml        scan everything under / with the .xhtml extension
//	/foo/*.xhtml/*  scan /foo for .xhtml files, with MultiViews enabled
//	/bar            scan every file under /bar
//	!/legacy        exclude everything under /legacy
func ParseScanPaths(value string) ([]RootSpec, error) {
	var specs []RootSpec

	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		spec, err := parseRootSpec(entry)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

func parseRootSpec(entry string) (RootSpec, error) {
	var spec RootSpec
	rest := entry

	if strings.HasPrefix(rest, "!") {
		spec.Exclude = true
		rest = rest[1:]
	}

	if idx := strings.LastIndex(rest, "/*"); idx != -1 && idx == len(rest)-2 {
		spec.MultiViews = true
		rest = rest[:idx]
	}

	if idx := strings.Index(rest, "*"); idx != -1 {
		spec.Ext = rest[idx+1:]
		rest = rest[:idx]

		if spec.Ext == "" || !strings.HasPrefix(spec.Ext, ".") || strings.ContainsAny(spec.Ext, "/*") {
			return RootSpec{}, fmt.Errorf("scan path %q: invalid extension filter %q", entry, spec.Ext)
		}
	}

	spec.Path = normalizeRootPath(rest)
	return spec, nil
}

// normalizeRootPath ensures a leading and trailing slash.
func normalizeRootPath(path string) string {
	path = viewpath.EnsureLeadingSlash(path)
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

// defaultRoots returns the implicit roots scanned without configuration.
func defaultRoots() []RootSpec {
	return []RootSpec{{Path: PrivateViewsDir}}
}
