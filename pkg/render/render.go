package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Data is the view model handed to a page template.
type Data map[string]interface{}

type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page under dir together with dir/layout.html. Pages are
// addressed by their path relative to dir, e.g. "category/form.html".
func New(fsys fs.FS, dir string) (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	layout := path.Join(dir, "layout.html")

	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || p == layout || !strings.HasSuffix(p, ".html") {
			return nil
		}
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, layout, p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		r.pages[strings.TrimPrefix(p, dir+"/")] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// HTML renders page into a buffer first so a template error never leaves a half-written response.
func (r *Renderer) HTML(w http.ResponseWriter, status int, page string, data Data) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("execute %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"date":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"eqptr": func(s *string, v string) bool { return s != nil && *s == v },
}
