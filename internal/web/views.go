package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"gitlab.com/golang-commonmark/markdown"
)

//go:embed templates static
var files embed.FS

// Views renders the HTML pages. Every page template is parsed together with
// templates/layout.html and executed through it.
type Views struct {
	pages map[string]*template.Template
	md    *markdown.Markdown
}

func NewViews() (*Views, error) {
	v := &Views{
		pages: make(map[string]*template.Template),
		// raw HTML in article bodies is escaped, not passed through
		md: markdown.New(markdown.HTML(false), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10)),
	}

	layout, err := template.New("layout.html").Funcs(template.FuncMap{
		"markdown": v.Markdown,
	}).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, err
	}

	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if t, err = t.ParseFS(files, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[base] = t
	}

	return v, nil
}

// Markdown renders an article body.
func (v *Views) Markdown(src string) template.HTML {
	return template.HTML(v.md.RenderToString([]byte(src))) // nolint:gosec
}

// Render executes the page into a buffer first, so a template error does not
// leave a half written response.
func (v *Views) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)

	return err
}

// Static serves the embedded stylesheet and friends.
func Static() http.FileSystem {
	fsys, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}

	return http.FS(fsys)
}
