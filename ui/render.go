// Package ui renders the predictor page: the input form, the results table
// and the failure notice.
package ui

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"concretepredictor/mix"
	"concretepredictor/ml"
)

//go:embed templates/page.html
var templateFS embed.FS

var printer = message.NewPrinter(language.English)

var pageTemplate = template.Must(template.New("page.html").
	Funcs(template.FuncMap{"fixed2": FormatValue}).
	ParseFS(templateFS, "templates/page.html"))

// leftColumnSize is the number of fields in the first form column.
const leftColumnSize = 4

// Page is the data behind one render. Result and Error are mutually exclusive.
type Page struct {
	Request mix.Request
	Result  *ml.Result
	Error   string
}

// Control is a form control with its current value.
type Control struct {
	Key     string
	Label   string
	Min     string
	Max     string
	Step    string
	Value   string
	Options []string
}

type pageView struct {
	Columns [][]Control
	Result  *ml.Result
	Error   string
}

// FormatValue formats a predicted value with exactly two decimals.
func FormatValue(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// Controls lists the form controls populated from req, in display order.
func Controls(req mix.Request) []Control {
	fields := mix.Fields()
	controls := make([]Control, len(fields))
	for i, f := range fields {
		c := Control{Key: f.Key, Label: f.Label, Value: f.Value(req), Options: f.Options}
		if f.Kind != mix.KindEnum {
			c.Min = formatBound(f.Min)
			c.Max = formatBound(f.Max)
			c.Step = formatBound(f.Step)
		}
		controls[i] = c
	}
	return controls
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderForm writes the page with the form populated from req.
func RenderForm(w io.Writer, req mix.Request) error {
	return render(w, Page{Request: req})
}

// RenderResult writes the page with the results table below the form.
func RenderResult(w io.Writer, req mix.Request, result ml.Result) error {
	return render(w, Page{Request: req, Result: &result})
}

// RenderError writes the page with a failure notice; the form stays usable.
func RenderError(w io.Writer, req mix.Request, msg string) error {
	return render(w, Page{Request: req, Error: msg})
}

func render(w io.Writer, page Page) error {
	controls := Controls(page.Request)
	view := pageView{
		Columns: [][]Control{controls[:leftColumnSize], controls[leftColumnSize:]},
		Result:  page.Result,
		Error:   page.Error,
	}
	return pageTemplate.Execute(w, view)
}
