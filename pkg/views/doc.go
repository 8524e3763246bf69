// Package views implements extensionless, SEO-friendly URL routing for
// server-rendered view templates.
//
// At application startup a Scanner walks the configured roots of the
// deployed resource tree, derives for every discovered template the URL
// forms it should be reachable under (with extension, without extension,
// legacy virtual-extension variants, and in MultiViews mode a wildcard
// path-parameter form), and publishes the immutable ScanResult. At request
// time a Resolver consults those tables and decides whether to forward
// internally, redirect to the canonical extensionless URL, reject with a
// not-found, or pass the request through untouched.
//
// Zero configuration: templates placed under /WEB-INF/faces-views/ are
// scanned automatically. Additional roots, extension filters, exclusions
// and MultiViews mode come from the scan-paths parameter; see
// ParseScanPaths.
//
// The package has no HTTP dependency of its own; pkg/filter applies
// Decisions as net/http middleware.
package views
