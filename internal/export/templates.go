package export

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var suggestionTemplate *template.Template

func init() {
	funcMap := template.FuncMap{
		"lower": strings.ToLower,
		"formatDate": func(t time.Time, layout string) string {
			return t.Format(layout)
		},
	}

	templateContent, err := templateFS.ReadFile("templates/suggestion.html")
	if err != nil {
		// Fallback to built-in template if file not found
		suggestionTemplate = template.Must(template.New("suggestion").Funcs(funcMap).Parse(fallbackTemplate))
		return
	}

	suggestionTemplate = template.Must(template.New("suggestion").Funcs(funcMap).Parse(string(templateContent)))
}

// TemplateData holds data for suggestion template rendering
type TemplateData struct {
	Title        string
	Content      string
	Author       string
	CategoryName string
	Status       string
	Sentiment    string
	AutoCategory string
	CreatedAt    time.Time
	Replies      []TemplateReply
}

// TemplateReply holds reply data for template
type TemplateReply struct {
	Author    string
	Content   string
	CreatedAt time.Time
}

// RenderSuggestionHTML renders the suggestion template with provided data
func RenderSuggestionHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := suggestionTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fallbackTemplate is used if the embedded template fails to load
const fallbackTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 2rem auto; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 2rem; }
    .reply { background: #f5f5f5; padding: 1rem; margin: 1rem 0; border-left: 3px solid #333; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">{{.CategoryName}} | {{.Author}} | {{.Status}} | {{.CreatedAt.Format "Jan 2, 2006"}}</div>
  <div>{{.Content}}</div>
  {{if .Replies}}
  <h2>Replies</h2>
  {{range .Replies}}<div class="reply"><strong>{{.Author}}</strong>: {{.Content}}</div>{{end}}
  {{end}}
</body>
</html>`
