package views

import (
	"html/template"
	"net/url"
	"strings"
	"time"
)

// Funcs are the helpers available to every page. Timestamps are shown in loc.
func Funcs(loc *time.Location) template.FuncMap {
	if loc == nil {
		loc = time.UTC
	}
	return template.FuncMap{
		"year":        func() string { return time.Now().In(loc).Format("2006") },
		"fmtDate":     func(t time.Time) string { return t.In(loc).Format("Mon, Jan 2 2006") },
		"fmtDateTime": func(t time.Time) string { return t.In(loc).Format("Mon, Jan 2 2006 3:04 PM") },
		"typeLabel":   TypeLabel,
		"mailto":      Mailto,
		"nl2br": func(s string) template.HTML {
			if s == "" {
				return ""
			}
			esc := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
			return template.HTML(strings.ReplaceAll(esc, "\n", "<br>"))
		},
	}
}

// TypeLabel turns an equipment type into its display form.
func TypeLabel(t string) string {
	switch t {
	case "shoes":
		return "Shoes"
	case "broom":
		return "Broom"
	}
	return t
}

// Mailto builds a mailto: link with a subject line.
func Mailto(to, subject string) template.URL {
	q := url.Values{"subject": {subject}}
	// mail clients expect %20, not +
	return template.URL("mailto:" + url.PathEscape(to) + "?" + strings.ReplaceAll(q.Encode(), "+", "%20"))
}
