// Package renderer turns rebalance plans and snapshots into markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/rebalance"
)

//go:embed templates/*.md
var embedded embed.FS

var templates = must(fs.Sub(embedded, "templates"))

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// funcs are the helpers available in every template.
var funcs = template.FuncMap{
	"amount": rebalance.FormatAmount,
	"number": rebalance.FormatNumber,
	"date":   func(t time.Time) string { return t.Format("02/01/2006") },
	// cell keeps text inside a single table cell.
	"cell": func(s string) string {
		s = strings.ReplaceAll(s, "|", `\|`)
		return strings.Join(strings.Fields(s), " ")
	},
	"action": func(a rebalance.Action) string {
		if a == rebalance.Buy {
			return "Buy"
		}
		return "Sell"
	},
}

// Markdown renders the full rebalance report: holdings, cash adjustment and
// operations.
func Markdown(r *Report) string {
	partials := map[string]string{
		"report_title":      "report_title.md",
		"report_holdings":   "report_holdings.md",
		"report_cash":       "report_cash.md",
		"report_operations": "report_operations.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// Holdings renders only the holdings table.
func Holdings(r *Report) string {
	return renderTemplate("holdings", "report_holdings.md", nil, r)
}

// Operations renders only the list of operations, or why there are none.
func Operations(r *Report) string {
	return renderTemplate("operations", "report_operations.md", nil, r)
}

// Snapshot renders a saved snapshot.
func Snapshot(s rebalance.Snapshot, currency string) string {
	r := NewReport(s.Assets, rebalance.Evaluate(s.Assets, 0), currency)
	r.SavedOn = s.Date
	partials := map[string]string{
		"snapshot_title":  "snapshot_title.md",
		"report_holdings": "report_holdings.md",
	}
	return renderTemplate("snapshot", "snapshot.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
