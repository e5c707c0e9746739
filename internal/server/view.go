package server

import (
	"html/template"
	"strconv"

	"github.com/sells-group/risk-dashboard/internal/charts"
	"github.com/sells-group/risk-dashboard/internal/dashboard"
	"github.com/sells-group/risk-dashboard/internal/model"
)

const appTitle = "Prêt à dépenser - Default Risk"

// layoutData is shared by every page.
type layoutData struct {
	Title     string
	Active    string
	RequestID string
}

type infoField struct {
	Label string
	Value string
}

// widget is one chart slot: either an inline SVG or an error message.
type widget struct {
	Title string
	SVG   template.HTML
	Err   string
	Note  string
}

type predictionData struct {
	layoutData
	ClientIDs    []model.ClientID
	Selected     model.ClientID
	ShowStats    bool
	ClientsErr   string
	StatsWarning bool

	Predicted     bool
	PredictionErr string
	Banner        *banner
	Gauge         widget
	Info          []infoField

	ShowStatsSection bool
	StatsErr         string
	Densities        []widget
	Income           widget
}

type banner struct {
	Level   string
	Message string
}

// newPredictionData flattens a dashboard page into template data, rendering
// every chart to SVG. A chart that fails to render carries its message.
func newPredictionData(layout layoutData, p dashboard.Page) predictionData {
	d := predictionData{
		layoutData:   layout,
		ClientIDs:    p.ClientIDs,
		Selected:     p.State.ClientID,
		ShowStats:    p.State.ShowStats,
		ClientsErr:   p.ClientsErr,
		StatsWarning: p.StatsWarning(),
		Predicted:    p.Phase.Predicted(),
	}
	if !d.Predicted {
		return d
	}

	d.PredictionErr = p.PredictionErr
	if v := p.Prediction; v != nil {
		d.Banner = &banner{Level: v.Decision.Level(), Message: v.Message}
		d.Gauge = svgWidget("", v.Gauge.SVG)
		d.Info = clientInfo(*v.Detail)
	}

	d.ShowStatsSection = p.Phase == dashboard.PhaseStatsShown
	d.StatsErr = p.StatsErr
	if p.Stats != nil {
		for _, w := range p.Stats.Densities {
			title := w.Kind.Title()
			if w.Err != nil {
				d.Densities = append(d.Densities, widget{Title: title, Err: dashboard.UserMessage(w.Err)})
				continue
			}
			d.Densities = append(d.Densities, svgWidget(title, w.Chart.SVG))
		}
		d.Income = widget{Title: charts.IncomeTitle}
		if p.Stats.Income.Err != nil {
			d.Income.Err = dashboard.UserMessage(p.Stats.Income.Err)
		} else {
			h := p.Stats.Income.Chart
			d.Income = svgWidget(charts.IncomeTitle, h.SVG)
			if h.Excluded > 0 {
				d.Income.Note = charts.FormatCount(h.Excluded) + " clients outside the displayed income range"
			}
		}
	}
	return d
}

func svgWidget(title string, render func() ([]byte, error)) widget {
	w := widget{Title: title}
	svg, err := render()
	if err != nil {
		w.Err = dashboard.UserMessage(err)
		return w
	}
	w.SVG = template.HTML(svg) //nolint:gosec // generated by go-chart, no user input
	return w
}

// clientInfo lists the fields of the client information panel in display
// order.
func clientInfo(d model.ClientDetail) []infoField {
	return []infoField{
		{"Client id", d.ClientID.String()},
		{"Children", strconv.Itoa(d.Children)},
		{"Years employed", model.FormatNumber(d.YearsEmployed)},
		{"Gender", d.Gender},
		{"Own realty", d.OwnRealty.String()},
		{"Annual income", charts.FormatCurrency(d.TotalIncome)},
		{"Age", model.FormatNumber(d.Age)},
		{"Own car", d.OwnCar.String()},
		{"AMT credit", charts.FormatCurrency(d.Credit)},
	}
}
