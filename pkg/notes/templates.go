package notes

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const (
	DefaultTitle = `Release {{ .Version }}`

	DefaultBody = `## Release {{ .Version }}

{{ if .Previous }}Changes since ` + "`{{ .Previous }}`" + ` ({{ .Bump }} bump).{{ else }}First release ({{ .Bump }} bump).{{ end }}
{{ if .Commits }}
{{ range .Commits }}- {{ subject .Message }}{{ if .SHA }} ({{ short .SHA }}){{ end }}
{{ end }}{{ end }}`
)

type Commit struct {
	SHA     string
	Message string
}

type Data struct {
	Version  string
	Tag      string
	Previous string
	Bump     string
	Commits  []Commit
}

var funcs = template.FuncMap{
	"subject": subject,
	"short":   shortSHA,
}

// Renderer renders release titles and bodies from text/template sources.
type Renderer struct {
	title *template.Template
	body  *template.Template
}

// NewRenderer parses the given templates. Empty sources fall back to the
// defaults.
func NewRenderer(title, body string) (*Renderer, error) {
	if title == "" {
		title = DefaultTitle
	}
	if body == "" {
		body = DefaultBody
	}
	t, err := template.New("title").Funcs(funcs).Parse(title)
	if err != nil {
		return nil, fmt.Errorf("parse release title template: %w", err)
	}
	b, err := template.New("body").Funcs(funcs).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse release body template: %w", err)
	}
	return &Renderer{title: t, body: b}, nil
}

func (r *Renderer) Title(d Data) (string, error) {
	var buf bytes.Buffer
	if err := r.title.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render release title: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (r *Renderer) Body(d Data) (string, error) {
	var buf bytes.Buffer
	if err := r.body.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render release body: %w", err)
	}
	return buf.String(), nil
}

func subject(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return strings.TrimSpace(line)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
