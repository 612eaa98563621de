package web_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/photo-effects/internal/web"
)

func TestTemplates_RenderIndex(t *testing.T) {
	tmpl, err := web.Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, web.IndexTemplate, map[string]any{
		"SourceID":      "abc_cat.png",
		"Flashes":       []map[string]string{{"Category": "success", "Text": "File uploaded successfully!"}},
		"Transforms":    []map[string]string{{"Slug": "blur", "Label": "Blurred Image"}},
		"Enhancements":  []string{"brightness"},
		"ExportFormats": []string{"png"},
		"Effects":       []map[string]string{{"ID": "blurred_abc_cat.png", "Label": "Blurred Image"}},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `action="/blur/abc_cat.png"`)
	assert.Contains(t, html, `action="/download/blurred_abc_cat.png/png"`)
	assert.Contains(t, html, "File uploaded successfully!")
}
