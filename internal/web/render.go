package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"yatube/internal/urls"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the page templates into byte slices so a page can be
// cached exactly as it was served.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"postURL":     urls.Post,
		"editURL":     urls.PostEdit,
		"commentURL":  urls.PostComment,
		"profileURL":  urls.Profile,
		"groupURL":    urls.Group,
		"followURL":   urls.Follow,
		"unfollowURL": urls.Unfollow,
		"mediaURL":    urls.Media,
		"date": func(t time.Time) string {
			return t.Format("02 Jan 2006 15:04")
		},
		"groupSelected": func(current *uint, id uint) bool {
			return current != nil && *current == id
		},
	}
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
