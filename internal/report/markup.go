package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed report.css
var stylesheetSource string

//go:embed report.html.tmpl
var markupSource string

type markupData struct {
	Layout
	Stylesheet template.CSS
}

func parseMarkupTemplate() (*template.Template, error) {
	tmpl, err := template.New("report").Parse(markupSource)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return tmpl, nil
}

// bind renders layout into a standalone HTML document.
func (r *Renderer) bind(layout *Layout) ([]byte, error) {
	var buf bytes.Buffer
	data := markupData{
		Layout:     *layout,
		Stylesheet: template.CSS(stylesheetSource),
	}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}
