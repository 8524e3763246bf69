// Package resources abstracts the deployed resource tree of a web
// application. The scanner walks it at startup and the dispatcher reads view
// templates from it at request time.
//
// Resource paths are absolute and slash separated ("/WEB-INF/web.xml");
// directory paths carry a trailing slash ("/WEB-INF/").
package resources

import (
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// Store provides read access to a deployed application tree.
type Store interface {
	// List returns the immediate children of the given directory path.
	// Child directories end with a slash. A nil slice means the directory
	// does not exist or is empty.
	List(dir string) []string

	// Open opens the resource at the given path for reading.
	Open(path string) (io.ReadCloser, error)
}

// DirStore serves a resource tree from an fs.FS.
type DirStore struct {
	fsys fs.FS
}

// NewDirStore creates a Store over the given filesystem.
func NewDirStore(fsys fs.FS) *DirStore {
	return &DirStore{fsys: fsys}
}

// NewOSDirStore creates a Store rooted at the given OS directory.
func NewOSDirStore(root string) *DirStore {
	return &DirStore{fsys: os.DirFS(root)}
}

// List implements Store.
func (s *DirStore) List(dir string) []string {
	name := strings.Trim(dir, "/")
	if name == "" {
		name = "."
	}

	entries, err := fs.ReadDir(s.fsys, name)
	if err != nil {
		return nil
	}

	base := dir
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}

	children := make([]string, 0, len(entries))
	for _, e := range entries {
		child := base + e.Name()
		if e.IsDir() {
			child += "/"
		}
		children = append(children, child)
	}
	sort.Strings(children)
	return children
}

// Open implements Store.
func (s *DirStore) Open(path string) (io.ReadCloser, error) {
	name := strings.TrimPrefix(path, "/")
	if name == "" {
		name = "."
	}
	return s.fsys.Open(name)
}
