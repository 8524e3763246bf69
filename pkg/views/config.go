package views

import (
	"fmt"
	"strings"
)

// Configuration parameter names, read once at startup from the host
// application's parameter store.
const (
	// ParamEnabled switches the whole subsystem off when explicitly "false".
	ParamEnabled = "cleanviews.enabled"

	// ParamScanPaths holds the comma separated scan root specs.
	// See ParseScanPaths for the syntax.
	ParamScanPaths = "cleanviews.scan-paths"

	// ParamAlwaysExtensionless forces generated links to omit extensions
	// regardless of the request form.
	ParamAlwaysExtensionless = "cleanviews.always-extensionless"

	// ParamExtensionAction selects what happens when a mapped view is
	// requested with its extension: "redirect-to-extensionless" (default)
	// or "serve-as-is".
	ParamExtensionAction = "cleanviews.extension-action"

	// ParamPathAction selects what happens when an extensionless request
	// under a public scanned root matches nothing: "send-404" (default) or
	// "fall-through".
	ParamPathAction = "cleanviews.path-action"

	// ParamFilterAfterDeclared controls whether the forwarding filter runs
	// after other declared filters.
	ParamFilterAfterDeclared = "cleanviews.filter-after-declared-filters"

	// ParamVirtualExtensions lists extensions the host dispatcher is
	// already mapped on (comma separated, ".jsf" form). Views gain legacy
	// variants under these extensions so old bookmarks keep resolving.
	ParamVirtualExtensions = "cleanviews.virtual-extensions"
)

// ExtensionAction is the action performed when a resource is requested WITH
// its extension while it is also reachable without one.
type ExtensionAction int

const (
	// RedirectToExtensionless issues a permanent redirect to the
	// extensionless form of the URL.
	RedirectToExtensionless ExtensionAction = iota

	// ServeAsIs lets the request proceed unchanged.
	ServeAsIs
)

// String returns the configuration token for the action.
func (a ExtensionAction) String() string {
	if a == ServeAsIs {
		return "serve-as-is"
	}
	return "redirect-to-extensionless"
}

// PathAction is the action performed when an extensionless request under a
// public scanned root does not match any view.
type PathAction int

const (
	// Send404 rejects the request with a not-found response.
	Send404 PathAction = iota

	// FallThrough lets the request proceed to normal static handling.
	FallThrough
)

// String returns the configuration token for the action.
func (a PathAction) String() string {
	if a == FallThrough {
		return "fall-through"
	}
	return "send-404"
}

// Config carries every startup decision the subsystem needs, computed once
// and passed explicitly. Request handling never consults the parameter store.
type Config struct {
	// Enabled reports whether the subsystem is active at all.
	Enabled bool

	// Roots are the scan roots, the implicit private views directory first.
	Roots []RootSpec

	// AlwaysExtensionless forces generated links to omit extensions.
	AlwaysExtensionless bool

	// ExtensionAction applies to requests carrying a mapped extension.
	ExtensionAction ExtensionAction

	// PathAction applies to unmatched requests under public roots.
	PathAction PathAction

	// FilterAfterDeclared orders the forwarding filter after other filters.
	FilterAfterDeclared bool

	// VirtualExtensions are dispatcher extensions to emit legacy variants for.
	VirtualExtensions []string

	// WelcomeFiles overrides the deployment descriptor's welcome-file list
	// when non-nil. Mostly useful for embedding and tests.
	WelcomeFiles []string
}

// Params is a read-only view of the host's startup parameter store.
type Params func(name string) string

// MapParams adapts a plain map to Params.
func MapParams(m map[string]string) Params {
	return func(name string) string { return m[name] }
}

// ParseConfig reads and validates the configuration eagerly. An invalid
// enumerated value is a fatal startup error naming the parameter and value.
func ParseConfig(params Params) (*Config, error) {
	cfg := &Config{
		Enabled: params(ParamEnabled) != "false",
		Roots:   defaultRoots(),
	}

	if v := params(ParamScanPaths); v != "" {
		roots, err := ParseScanPaths(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", ParamScanPaths, err)
		}
		cfg.Roots = append(cfg.Roots, roots...)
	}

	// Default is true; only an explicit "false" disables it.
	cfg.AlwaysExtensionless = params(ParamAlwaysExtensionless) != "false"

	var err error
	if cfg.ExtensionAction, err = parseExtensionAction(params(ParamExtensionAction)); err != nil {
		return nil, err
	}
	if cfg.PathAction, err = parsePathAction(params(ParamPathAction)); err != nil {
		return nil, err
	}

	cfg.FilterAfterDeclared = params(ParamFilterAfterDeclared) == "true"

	if v := params(ParamVirtualExtensions); v != "" {
		for _, ext := range strings.Split(v, ",") {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				return nil, fmt.Errorf("value %q is not valid for parameter %q: extensions start with a dot", ext, ParamVirtualExtensions)
			}
			cfg.VirtualExtensions = append(cfg.VirtualExtensions, ext)
		}
	}

	return cfg, nil
}

// MultiViewsEnabled reports whether any root enables MultiViews.
func (c *Config) MultiViewsEnabled() bool {
	for _, root := range c.Roots {
		if root.MultiViews && !root.Exclude {
			return true
		}
	}
	return false
}

func parseExtensionAction(value string) (ExtensionAction, error) {
	switch strings.ToLower(value) {
	case "", "redirect-to-extensionless":
		return RedirectToExtensionless, nil
	case "serve-as-is":
		return ServeAsIs, nil
	default:
		return 0, fmt.Errorf("value %q is not valid for parameter %q", value, ParamExtensionAction)
	}
}

func parsePathAction(value string) (PathAction, error) {
	switch strings.ToLower(value) {
	case "", "send-404":
		return Send404, nil
	case "fall-through":
		return FallThrough, nil
	default:
		return 0, fmt.Errorf("value %q is not valid for parameter %q", value, ParamPathAction)
	}
}
