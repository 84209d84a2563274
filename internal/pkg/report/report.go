// Package report renders a resident's procedure logbook report as an
// HTML document or a PDF printed from it.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// ProcedureEntry is one validated procedure row of the report.
type ProcedureEntry struct {
	Name             string
	PerformedAt      time.Time
	PreceptorName    string
	EvaluatorRemarks string
}

// PreceptorFrequency is one row of the preceptor frequency table.
type PreceptorFrequency struct {
	PreceptorName string
	Count         int
}

// Data holds everything the report template needs.
type Data struct {
	ResidentName    string
	ResidentEmail   string
	Category        string
	EntryYear       int
	SpecialtyName   string
	UniversityName  string
	HospitalName    string
	IssuedAt        time.Time
	Validated       []ProcedureEntry
	ValidatedCount  int
	PendingCount    int
	RejectedCount   int
	GrandTotal      int
	Frequencies     []PreceptorFrequency
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Procedure Logbook Report - {{.ResidentName}}</title>
<style>
	@page { size: A4; margin: 2cm; }
	body { font-family: Arial, Helvetica, sans-serif; font-size: 11px; color: #222; }
	h1 { font-size: 18px; border-bottom: 2px solid #2c3e50; padding-bottom: 6px; }
	h2 { font-size: 14px; margin-top: 24px; color: #2c3e50; }
	table { width: 100%; border-collapse: collapse; margin: 10px 0; }
	th, td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; vertical-align: top; }
	th { background-color: #f0f0f0; }
	.summary td { font-weight: bold; }
	.footer { margin-top: 30px; padding-top: 15px; border-top: 1px solid #ccc; font-size: 8px; color: #666; }
</style>
</head>
<body>
	<h1>Procedure Logbook Report</h1>

	<h2>Resident</h2>
	<table>
		<tr><th>Name</th><td>{{.ResidentName}}</td></tr>
		<tr><th>Email</th><td>{{.ResidentEmail}}</td></tr>
		<tr><th>Category</th><td>{{.Category}}</td></tr>
		<tr><th>Entry year</th><td>{{.EntryYear}}</td></tr>
		<tr><th>Specialty</th><td>{{.SpecialtyName}}</td></tr>
		<tr><th>University</th><td>{{.UniversityName}}</td></tr>
		<tr><th>Hospital</th><td>{{.HospitalName}}</td></tr>
	</table>

	<h2>Summary</h2>
	<table>
		<tr><th>Validated</th><th>Pending</th><th>Rejected</th><th>Total</th></tr>
		<tr class="summary">
			<td>{{.ValidatedCount}}</td>
			<td>{{.PendingCount}}</td>
			<td>{{.RejectedCount}}</td>
			<td>{{.GrandTotal}}</td>
		</tr>
	</table>

	<h2>Validated procedures</h2>
	{{if .Validated}}
	<table>
		<tr><th>#</th><th>Procedure</th><th>Date</th><th>Preceptor</th><th>Remarks</th></tr>
		{{range $i, $p := .Validated}}
		<tr>
			<td>{{inc $i}}</td>
			<td>{{$p.Name}}</td>
			<td>{{$p.PerformedAt.Format "02/01/2006"}}</td>
			<td>{{$p.PreceptorName}}</td>
			<td>{{$p.EvaluatorRemarks}}</td>
		</tr>
		{{end}}
	</table>
	{{else}}
	<p>No validated procedures recorded.</p>
	{{end}}

	<h2>Validations per preceptor</h2>
	{{if .Frequencies}}
	<table>
		<tr><th>Preceptor</th><th>Validated procedures</th></tr>
		{{range .Frequencies}}
		<tr><td>{{.PreceptorName}}</td><td>{{.Count}}</td></tr>
		{{end}}
	</table>
	{{else}}
	<p>No validations recorded.</p>
	{{end}}

	<div class="footer">
		Issued on {{.IssuedAt.Format "02/01/2006 15:04"}}. This report lists only procedures validated by a preceptor.
	</div>
</body>
</html>
`

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(reportTemplate))

// BuildHTML renders the report document. The output is deterministic for
// a given Data value.
func BuildHTML(data Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report template: %w", err)
	}
	return buf.Bytes(), nil
}
