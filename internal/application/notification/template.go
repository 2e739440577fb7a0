package notification

import (
	"bytes"
	"html/template"

	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/pkg/money"
)

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": money.Format,
}).Parse(`<html>
  <head></head>
  <body>
    <h1>Monthly Activity Report - {{.Username}}</h1>
    <p>Period: {{.From.Format "2006-01-02"}} to {{.To.Format "2006-01-02"}}</p>
    <p>Total Expenditure: {{money .Total}}</p>
    <ul>
    {{- range .Lines}}
      <li>{{.ProductName}} - Quantity: {{.Quantity}} - Amount: {{money .Amount}}</li>
    {{- else}}
      <li>No purchases this period.</li>
    {{- end}}
    </ul>
  </body>
</html>
`))

func renderReportHTML(report ports.ActivityReport) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}
