package main

import (
	"bytes"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/cleanviews/cleanviews/pkg/filter"
	"github.com/cleanviews/cleanviews/pkg/resources"
	"github.com/cleanviews/cleanviews/pkg/viewpath"
)

// templateExtensions are the file extensions executed through html/template.
var templateExtensions = map[string]bool{
	".xhtml":  true,
	".html":   true,
	".gohtml": true,
	".tmpl":   true,
}

// viewData is the data available to executed templates.
type viewData struct {
	// Path is the URL the client requested, extensionless form.
	Path string

	// Params are the MultiViews path parameters, in request order.
	Params []string
}

// dispatcher serves physical resources from the store. Template files are
// executed through html/template; everything else is served raw.
type dispatcher struct {
	store  resources.Store
	logger *slog.Logger

	// devScript is injected into rendered pages in development mode.
	devScript string
}

func (d *dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// Containers never serve these directly; only an internal forward may
	// reach into them.
	if filter.OriginalPath(r.Context()) == "" &&
		viewpath.StartsWithOneOf(path, "/WEB-INF/", "/META-INF/") {
		http.NotFound(w, r)
		return
	}

	rc, err := d.store.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		d.logger.Error("reading resource", "path", path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if templateExtensions[viewpath.Extension(path)] {
		d.render(w, r, path, content)
		return
	}

	if ct := mime.TypeByExtension(viewpath.Extension(path)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Write(content)
}

func (d *dispatcher) render(w http.ResponseWriter, r *http.Request, path string, content []byte) {
	tmpl, err := template.New(path).Parse(string(content))
	if err != nil {
		d.logger.Error("parsing template", "path", path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	requested := filter.OriginalPath(r.Context())
	if requested == "" {
		requested = path
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, viewData{
		Path:   requested,
		Params: filter.PathParams(r.Context()),
	})
	if err != nil {
		d.logger.Error("executing template", "path", path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := buf.Bytes()
	if d.devScript != "" {
		if idx := bytes.LastIndex(page, []byte("</body>")); idx != -1 {
			injected := make([]byte, 0, len(page)+len(d.devScript))
			injected = append(injected, page[:idx]...)
			injected = append(injected, d.devScript...)
			injected = append(injected, page[idx:]...)
			page = injected
		} else {
			page = append(page, d.devScript...)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
