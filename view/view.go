// Package view holds the server-rendered pages. Each page is the shared layout
// cloned and combined with the page's own "content" template.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"feedback-tool-backend/model"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var files embed.FS

const (
	PageHome        = "home"
	PageSearch      = "search"
	PageForm        = "form"
	PageDetail      = "detail"
	PageAuth        = "auth"
	PageNotFound    = "not_found"
	PageFixProfiles = "fix_profiles"
	PageError       = "error"
)

var pages = []string{PageHome, PageSearch, PageForm, PageDetail, PageAuth, PageNotFound, PageFixProfiles, PageError}

var funcs = template.FuncMap{
	"paragraphs": Paragraphs,
	"statuses":   func() []model.FeedbackStatus { return model.AllStatuses },
}

// Paragraphs splits content on blank lines, dropping empty paragraphs.
func Paragraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(content, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Renderer implements gin's render.HTMLRender over the embedded pages.
type Renderer struct {
	templates map[string]*template.Template
}

func New() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(files, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *Renderer) Instance(name string, data any) render.Render {
	return render.HTML{
		Template: r.templates[name],
		Name:     "layout",
		Data:     data,
	}
}
