package web

import (
	"embed"
	"html/template"
)

const IndexTemplate = "index.html"

//go:embed templates
var files embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(files, "templates/*.html")
}
