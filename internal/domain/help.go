package domain

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed shell_help.txt
var shellHelpTmpl string

// HelpData holds data for rendering the shell help screen.
type HelpData struct {
	Pumpkin string // Current daily reset time, e.g. "0400"
	Labels  string // Example label for the configured scheme, e.g. "2.b.1."
}

// RenderShellHelp renders the shell help screen.
func RenderShellHelp(data HelpData) (string, error) {
	return renderTemplate(shellHelpTmpl, data)
}

// ExampleLabel returns a three-level label written with the scheme.
func (s LabelScheme) ExampleLabel() string {
	return s.Segment(FirstTaskDepth, 2) + s.Segment(FirstTaskDepth+1, 2) + s.Segment(FirstTaskDepth+2, 1)
}

func renderTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("help").Parse(tmplStr)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
