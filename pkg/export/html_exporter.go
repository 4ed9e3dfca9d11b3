package export

import (
	"bytes"
	"fmt"
	"html/template"
)

// HTMLExporter renders datasets into a standalone printable HTML document.
// The document calls window.print() on load so a browser tab opened on it
// immediately offers the print dialog.
type HTMLExporter struct {
	tmpl *template.Template
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 24px; }
h1 { font-size: 18px; text-align: center; }
table { width: 100%; border-collapse: collapse; font-size: 12px; }
th, td { border: 1px solid #444; padding: 4px 6px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body onload="window.print()">
<h1>{{.Title}}</h1>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// NewHTMLExporter constructs an HTML print-view exporter.
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{tmpl: printTemplate}
}

// Render produces the printable HTML document for the dataset.
func (e *HTMLExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("html requires at least one header")
	}

	rows := make([][]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		rows = append(rows, record)
	}

	buf := &bytes.Buffer{}
	err := e.tmpl.Execute(buf, struct {
		Title   string
		Headers []string
		Rows    [][]string
	}{Title: title, Headers: data.Headers, Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("render print view: %w", err)
	}
	return buf.Bytes(), nil
}
