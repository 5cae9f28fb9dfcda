package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

var htmlTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"isLink": func(f Field) bool { return f.Style == StyleLink },
	"isFile": func(f Field) bool { return f.Style == StyleFile },
}).ParseFS(templatesFS, "templates/report.html"))

// RenderHTML writes doc as a standalone HTML page. All document text is
// escaped for its HTML context and link targets are URL-sanitized.
func RenderHTML(w io.Writer, doc *Document) error {
	if err := htmlTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("render report html: %w", err)
	}
	return nil
}

// HTML returns doc rendered as an HTML string.
func HTML(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
