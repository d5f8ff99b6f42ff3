// Render the HTML run report of one dataset

package render

import (
	"html/template"
	"io"
	"path"
	"time"

	"github.com/yumyai/goabund/pkg/model"
)

const ReportFileName = "report.html"

var reportTemplate *template.Template

func init() {
	mainTmpl := `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>GO term abundance: {{ .Dataset }}</title>
	<style>
		body { font-family: sans-serif; margin: 2em; }
		table { border-collapse: collapse; margin-bottom: 2em; }
		td, th { border: 1px solid #999; padding: 4px 8px; }
		td.num { text-align: right; }
		.swatch { display: inline-block; width: 1em; height: 1em; border: 1px solid #000; }
	</style>
</head>
<body>
	<h1>GO term abundance: {{ .Dataset }}</h1>
	<p>Run {{ .RunID }} on {{ .Generated.Format "2006-01-02 15:04:05" }}</p>
	{{template "stats" .}}
	<p>
		[<a href="{{ .JoinedCSV }}">{{ .JoinedCSV }}</a>]
		[<a href="{{ .SummaryCSV }}">{{ .SummaryCSV }}</a>]
	</p>
	{{ range .Charts }}{{template "chart" .}}{{ end }}
	{{ range .Skipped }}<p>Skipped chart {{ . }}: no requested term has both phase abundances.</p>{{ end }}
</body>
</html>`

	statsTmpl := `
	{{define "stats"}}
	<table>
		<tr><th>Expression rows</th><td class="num">{{ .Stats.Input }}</td></tr>
		<tr><th>Null q_value</th><td class="num">{{ .Stats.NullQValue }}</td></tr>
		<tr><th>Above q_value threshold</th><td class="num">{{ .Stats.AboveThreshold }}</td></tr>
		<tr><th>Null T1/T2</th><td class="num">{{ .Stats.NullAbundance }}</td></tr>
		<tr><th>Zero T1/T2</th><td class="num">{{ .Stats.ZeroAbundance }}</td></tr>
		<tr><th>Without GO annotation</th><td class="num">{{ .Stats.Unmatched }}</td></tr>
		<tr><th>GO sentinel / name sentinel</th><td class="num">{{ .Stats.GOSentinel }} / {{ .Stats.NameSentinel }}</td></tr>
		<tr><th>Joined rows</th><td class="num">{{ .Stats.Output }}</td></tr>
		<tr><th>Summary rows</th><td class="num">{{ .SummaryRows }}</td></tr>
	</table>
	{{end}}`

	chartTmpl := `
	{{define "chart"}}
	<h2>{{ .Spec.Name }} ({{ .Spec.Domain }})</h2>
	<img src="{{ imagePath .File }}" alt="{{ .Spec.Name }}" width="600">
	<table>
		<tr><th></th><th>Description</th><th>Phase I</th><th>Phase II</th><th>log2(T2/T1)</th></tr>
		{{ range .Bars }}
		<tr>
			<td><span class="swatch" style="background: {{ .Color | css }}"></span></td>
			<td>{{ .Description }}</td>
			<td class="num">{{ printf "%.3f" .PhaseI }}</td>
			<td class="num">{{ printf "%.3f" .PhaseII }}</td>
			<td class="num">{{ printf "%.3f" .Log2Ratio }}</td>
		</tr>
		{{ end }}
	</table>
	{{ if .Missing }}<p>Not found in phase I: {{ range $i, $d := .Missing }}{{ if $i }}, {{ end }}{{ $d }}{{ end }}</p>{{ end }}
	{{end}}`

	funcMap := template.FuncMap{
		"imagePath": func(file string) string { return path.Join(PlotsDirName, file) },
		"css":       func(s string) template.CSS { return template.CSS(s) },
	}

	reportTemplate = template.New("report").Funcs(funcMap)
	reportTemplate = template.Must(reportTemplate.Parse(mainTmpl))
	reportTemplate = template.Must(reportTemplate.Parse(statsTmpl))
	reportTemplate = template.Must(reportTemplate.Parse(chartTmpl))
}

// Report is the data behind report.html.
type Report struct {
	RunID       string
	Dataset     string
	Generated   time.Time
	JoinedCSV   string
	SummaryCSV  string
	Stats       model.JoinStats
	SummaryRows int
	Charts      []*Chart
	Skipped     []string
}

func RenderReport(w io.Writer, r Report) error {
	return reportTemplate.Execute(w, r)
}
