package server

import (
	"embed"
	"html/template"

	"github.com/rotisserie/eris"

	"github.com/sells-group/risk-dashboard/internal/charts"
)

//go:embed templates static
var assets embed.FS

// Page template names.
const (
	pageHome       = "home"
	pagePrediction = "prediction"
)

var funcs = template.FuncMap{
	"currency":   charts.FormatCurrency,
	"percentage": charts.FormatPercentage,
	"count":      charts.FormatCount,
}

// parsePages builds one template set per page, each sharing the layout.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, 2)
	for _, name := range []string{pageHome, pagePrediction} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(assets,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, eris.Wrapf(err, "server: parse %s template", name)
		}
		pages[name] = t
	}
	return pages, nil
}
