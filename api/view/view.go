// Package view renders the server-side HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/fastygo/breaks/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexPage feeds templates/index.html.
type IndexPage struct {
	Username   string
	Activities []domain.Activity
	Breaks     []domain.Break
}

type LoginPage struct {
	Username string
	Next     string
	Error    string
}

type Renderer struct {
	index *template.Template
	login *template.Template
}

// NewRenderer parses the embedded templates once.
func NewRenderer() (*Renderer, error) {
	index, err := template.ParseFS(templateFS, "templates/layout.html", "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	login, err := template.ParseFS(templateFS, "templates/layout.html", "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login template: %w", err)
	}
	return &Renderer{index: index, login: login}, nil
}

// MustRenderer panics when the embedded templates are broken.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Index(w io.Writer, page IndexPage) error {
	return r.index.ExecuteTemplate(w, "layout", page)
}

func (r *Renderer) Login(w io.Writer, page LoginPage) error {
	return r.login.ExecuteTemplate(w, "layout", page)
}
