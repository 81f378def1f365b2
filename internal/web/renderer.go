// Package web renders HTML pages. It is the boundary collaborator the
// core hands a view name and a data bag; everything else about markup
// lives here.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/brfrastenen/brfweb/internal/domain"
)

//go:embed templates
var templateFS embed.FS

// Data is the bag handed to every template.
type Data struct {
	Title       string
	Description string
	CurrentPage string
	BaseURL     string
	User        *domain.Principal
	Flash       *Flash
	Content     any
}

// pageLayouts maps each page to the layout it renders inside.
var pageLayouts = map[string]string{
	"pages/home":      "layouts/main",
	"pages/news":      "layouts/main",
	"pages/section":   "layouts/main",
	"pages/static":    "layouts/main",
	"pages/kontakt":   "layouts/main",
	"admin/login":     "layouts/admin",
	"admin/dashboard": "layouts/admin",
	"admin/news":      "layouts/admin",
	"admin/news_form": "layouts/admin",
	"errors/404":      "layouts/error",
	"errors/error":    "layouts/error",
}

type Renderer struct {
	baseURL   string
	templates map[string]*template.Template
}

func NewRenderer(baseURL string) (*Renderer, error) {
	r := &Renderer{
		baseURL:   baseURL,
		templates: make(map[string]*template.Template, len(pageLayouts)),
	}

	for page, layout := range pageLayouts {
		tmpl, err := template.ParseFS(templateFS,
			"templates/"+layout+".html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}

	return r, nil
}

// Render writes the page with the given status. The template is
// executed into a buffer first so a render failure never produces a
// half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Data) {
	tmpl, ok := r.templates[page]
	if !ok {
		log.Printf("ERROR [web.Renderer] unknown page %q", page)
		http.Error(w, "Ett oväntat fel inträffade", http.StatusInternalServerError)
		return
	}

	if data.BaseURL == "" {
		data.BaseURL = r.baseURL
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("ERROR [web.Renderer] rendering %s: %v", page, err)
		http.Error(w, "Ett oväntat fel inträffade", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
