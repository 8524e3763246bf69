// Package viewpath provides helpers for working with resource paths of a
// deployed web application tree. Paths are always slash separated and
// absolute; directories carry a trailing slash.
package viewpath

import "strings"

// Extension returns the file extension of the given resource path, including
// the leading dot. It returns "" when the last segment has no extension.
func Extension(path string) string {
	base := path
	if idx := strings.LastIndex(base, "/"); idx != -1 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx != -1 {
		return base[idx:]
	}
	return ""
}

// IsExtensionless reports whether the last segment of the path has no
// file extension.
func IsExtensionless(path string) bool {
	return Extension(path) == ""
}

// StripExtension returns the path without its file extension, if any.
func StripExtension(path string) string {
	ext := Extension(path)
	if ext == "" {
		return path
	}
	return path[:len(path)-len(ext)]
}

// IsDirectory reports whether the resource path denotes a directory.
// Directory paths end with a slash.
func IsDirectory(path string) bool {
	return strings.HasSuffix(path, "/")
}

// StripPrefix strips the given directory prefix from the resource path while
// keeping the prefix's trailing slash as the leading slash of the result.
// E.g. StripPrefix("/WEB-INF/faces-views/", "/WEB-INF/faces-views/foo.xhtml")
// yields "/foo.xhtml". The path is returned unchanged when it does not start
// with the prefix.
func StripPrefix(prefix, path string) string {
	if prefix != "" && strings.HasPrefix(path, prefix) {
		return path[len(prefix)-1:]
	}
	return path
}

// StripTrailingSlash removes a single trailing slash, leaving "" for "/".
func StripTrailingSlash(path string) string {
	return strings.TrimSuffix(path, "/")
}

// EnsureLeadingSlash prepends a slash when the path lacks one.
func EnsureLeadingSlash(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// StripArtifacts removes semicolon delimited path artifacts such as
// container session encodings (e.g. "/foo;jsessionid=abc" becomes "/foo").
func StripArtifacts(path string) string {
	if idx := strings.IndexByte(path, ';'); idx != -1 {
		return path[:idx]
	}
	return path
}

// ParentDir returns the parent directory of the path without a trailing
// slash, or "" when the path is at the root.
func ParentDir(path string) string {
	path = StripTrailingSlash(path)
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return ""
	}
	return path[:idx]
}

// Segments splits a path into its non-empty segments.
func Segments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// FilterExtensionless returns the subset of keys that have no file extension.
func FilterExtensionless(keys []string) []string {
	var out []string
	for _, k := range keys {
		if IsExtensionless(k) {
			out = append(out, k)
		}
	}
	return out
}

// StartsWithOneOf reports whether the path starts with any of the given
// prefixes.
func StartsWithOneOf(path string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
