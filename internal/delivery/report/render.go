package report

import (
	"html/template"
	"io"
	"time"
)

var funcs = template.FuncMap{
	"content": cellContent,
}

var tableTemplate = template.Must(template.New("table").Funcs(funcs).Parse(tableHTML))

var pageTemplate = template.Must(template.Must(tableTemplate.Clone()).New("page").Parse(pageHTML))

const tableHTML = `<table class="fooddex">
  <thead>
    <tr><th></th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
  </thead>
  <tbody>
{{- range $i, $row := .Rows}}
    <tr><th>{{$i}}</th>{{range $row}}<td{{with .Background}} style="background-color: {{.}}"{{end}}>{{content .}}</td>{{end}}</tr>
{{- end}}
  </tbody>
</table>`

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; margin: 2em; }
  table.fooddex { border-collapse: collapse; font-size: 13px; }
  table.fooddex th, table.fooddex td { border: 1px solid #ccc; padding: 4px 8px; vertical-align: top; }
  figure { margin: 2em 0; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Dataset {{.DatasetID}} &middot; {{.CreatedAt.Format "2006-01-02 15:04:05 MST"}} &middot; {{len .Table.Rows}} rows, {{.Failed}} failed</p>
{{template "table" .Table}}
{{- range .Figures}}
<figure>
  <figcaption>{{.Title}}</figcaption>
  {{.SVG}}
</figure>
{{- end}}
</body>
</html>
`

// Figure is a rendered chart embedded in a report page
type Figure struct {
	Title string
	SVG   template.HTML
}

// Page is everything a full report needs
type Page struct {
	Title     string
	DatasetID string
	CreatedAt time.Time
	Failed    int
	Table     Table
	Figures   []Figure
}

func cellContent(c Cell) any {
	if c.Markup {
		return template.HTML(c.Text)
	}
	return c.Text
}

// RenderHTML writes t as an HTML table. Cell text is escaped except for
// markup cells; backgrounds become inline background-color styles.
func RenderHTML(w io.Writer, t Table) error {
	return tableTemplate.Execute(w, t)
}

// RenderPage writes a standalone HTML page with the table and figures
func RenderPage(w io.Writer, page Page) error {
	return pageTemplate.ExecuteTemplate(w, "page", page)
}
