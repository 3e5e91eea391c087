// Package views holds the embedded page templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

//go:embed templates
var files embed.FS

const pageDir = "templates/pages/"

type Views struct {
	pages map[string]*template.Template
}

// New parses the layout and partials once, then clones them for every page
// under templates/pages. Pages are keyed by path without extension, e.g.
// "home" or "admin/login".
func New(loc *time.Location) (*Views, error) {
	base, err := template.New("").Funcs(Funcs(loc)).
		ParseFS(files, "templates/layouts/*.tmpl", "templates/partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	v := &Views{pages: map[string]*template.Template{}}
	err = fs.WalkDir(files, "templates/pages", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return err
		}
		page, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := page.ParseFS(files, path); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		v.pages[strings.TrimSuffix(strings.TrimPrefix(path, pageDir), ".tmpl")] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Render executes the named page into a buffer first so a template error
// never leaves a half-written 200 response.
func (v *Views) Render(w http.ResponseWriter, status int, name string, data any) error {
	page, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "base", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
