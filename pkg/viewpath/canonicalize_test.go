package viewpath

import (
	"errors"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		input       string
		wantPath    string
		wantQuery   string
		wantChanged bool
	}{
		{"/foo/bar", "/foo/bar", "", false},
		{"/foo//bar", "/foo/bar", "", true},
		{"/foo/./bar", "/foo/bar", "", true},
		{"/foo/../bar", "/bar", "", true},
		{"/foo/bar?a=1", "/foo/bar", "a=1", false},
		{"", "/", "", true},
		{"/", "/", "", false},
		{"foo", "/foo", "", true},
		{"/foo/", "/foo/", "", false},
		{"/foo//", "/foo/", "", true},
	}

	for _, tt := range tests {
		got, err := Canonicalize(tt.input)
		if err != nil {
			t.Errorf("Canonicalize(%q) error: %v", tt.input, err)
			continue
		}
		if got.Path != tt.wantPath {
			t.Errorf("Canonicalize(%q).Path = %q, want %q", tt.input, got.Path, tt.wantPath)
		}
		if got.Query != tt.wantQuery {
			t.Errorf("Canonicalize(%q).Query = %q, want %q", tt.input, got.Query, tt.wantQuery)
		}
		if got.Changed != tt.wantChanged {
			t.Errorf("Canonicalize(%q).Changed = %v, want %v", tt.input, got.Changed, tt.wantChanged)
		}
	}
}

func TestCanonicalizeRejects(t *testing.T) {
	tests := []struct {
		input   string
		wantErr error
	}{
		{"/foo\\bar", ErrBackslashInPath},
		{"/foo\x00bar", ErrNullByteInPath},
		{"/foo%00bar", ErrNullByteInPath},
		{"/../secret", ErrPathEscapesRoot},
		{"/..", ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		_, err := Canonicalize(tt.input)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Canonicalize(%q) error = %v, want %v", tt.input, err, tt.wantErr)
		}
	}
}
