package htmltable

import "html/template"

var (
	HeaderTemplate = template.Must(template.New("header").Parse(
		"<table{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}" +
			"{{if .HeaderRow}}" +
			"  <thead>\n" +
			"    <tr>{{range .Columns}}<th align=\"{{.Align}}\" width=\"{{.Width}}\">{{.Heading}}</th>{{end}}</tr>\n" +
			"  </thead>\n" +
			"{{end}}" +
			"  <tbody>\n",
	))

	RowTemplate = template.Must(template.New("row").Parse(
		"    <tr>{{range .Cells}}<td align=\"{{.Align}}\">{{.HTML}}</td>{{end}}</tr>\n",
	))

	FooterTemplate = template.Must(template.New("footer").Parse(
		"  </tbody>\n" +
			"</table>",
	))
)

type TemplateContext struct {
	TableClass string
	Caption    string
	HeaderRow  bool
	Columns    []HeaderCell
}

type HeaderCell struct {
	Heading string
	Align   string
	Width   string
}

type RowTemplateContext struct {
	TemplateContext

	RowIndex int
	RowID    string
	Cells    []RowCell
}

type RowCell struct {
	Align string
	HTML  template.HTML
}
