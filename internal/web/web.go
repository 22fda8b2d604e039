// Package web holds the HTML templates of both apps and the echo renderer
// that executes them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates
var templates embed.FS

// Renderer implements echo.Renderer. Every page is parsed together with
// the app's layout.html and executed through the "layout" template.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"deref": func(p any) any {
		switch v := p.(type) {
		case *string:
			if v == nil {
				return ""
			}
			return *v
		case *float64:
			if v == nil {
				return ""
			}
			return fmt.Sprintf("%g", *v)
		}
		return p
	},
}

// NewRenderer parses the templates of app ("iris" or "paralympics").
func NewRenderer(app string) (*Renderer, error) {
	dir := path.Join("templates", app)
	entries, err := fs.ReadDir(templates, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "no templates for app %q", app)
	}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == "layout.html" {
			continue
		}
		t, err := template.New(name).Funcs(funcs).ParseFS(templates, path.Join(dir, "layout.html"), path.Join(dir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing template %s", name)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page name with data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Has reports whether a page exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
