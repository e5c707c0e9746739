package model

// StatKind names one of the population statistics served by the scoring API.
type StatKind string

const (
	StatAges          StatKind = "ages"
	StatYearsEmployed StatKind = "yearsEmployed"
	StatAmtCredit     StatKind = "amtCredits"
)

// StatKinds lists the statistics in display order.
var StatKinds = []StatKind{StatAges, StatYearsEmployed, StatAmtCredit}

// BucketMap is a histogram-style mapping from a discrete value to its count.
type BucketMap map[string]int

// Total sums the counts.
func (b BucketMap) Total() int {
	n := 0
	for _, c := range b {
		n += c
	}
	return n
}

// StatDistribution holds the repaid and not-repaid histograms for one metric.
type StatDistribution struct {
	Kind      StatKind  `json:"kind"`
	Repaid    BucketMap `json:"repaid"`
	NotRepaid BucketMap `json:"notRepaid"`
}

type statMeta struct {
	repaidKey    string
	notRepaidKey string
	title        string
	axis         string
	marker       string
	value        func(ClientDetail) float64
}

var statMetas = map[StatKind]statMeta{
	StatAges: {
		repaidKey:    "ages_repaid",
		notRepaidKey: "ages_not_repaid",
		title:        "Client's age vs Current clients",
		axis:         "Ages",
		marker:       "Client's age",
		value:        func(d ClientDetail) float64 { return d.Age },
	},
	StatYearsEmployed: {
		repaidKey:    "years_employed_repaid",
		notRepaidKey: "years_employed_not_repaid",
		title:        "Years employed by the client vs Current clients",
		axis:         "Years employed",
		marker:       "Years employed by the client",
		value:        func(d ClientDetail) float64 { return d.YearsEmployed },
	},
	StatAmtCredit: {
		repaidKey:    "amt_credit_repaid",
		notRepaidKey: "amt_credit_not_repaid",
		title:        "Client's AMT credit vs Current clients",
		axis:         "AMT Credit",
		marker:       "Client's AMT credit",
		value:        func(d ClientDetail) float64 { return d.Credit },
	},
}

// Valid reports whether k is a known statistic.
func (k StatKind) Valid() bool {
	_, ok := statMetas[k]
	return ok
}

// Path is the API path serving this statistic.
func (k StatKind) Path() string { return "/api/statistics/" + string(k) }

// RepaidKey is the response key of the repaid histogram.
func (k StatKind) RepaidKey() string { return statMetas[k].repaidKey }

// NotRepaidKey is the response key of the not-repaid histogram.
func (k StatKind) NotRepaidKey() string { return statMetas[k].notRepaidKey }

// Title is the chart title.
func (k StatKind) Title() string { return statMetas[k].title }

// AxisLabel is the x-axis label.
func (k StatKind) AxisLabel() string { return statMetas[k].axis }

// MarkerLabel annotates the client's own value.
func (k StatKind) MarkerLabel() string { return statMetas[k].marker }

// ClientValue extracts the client's own value for this metric.
func (k StatKind) ClientValue(d ClientDetail) float64 {
	m, ok := statMetas[k]
	if !ok {
		return 0
	}
	return m.value(d)
}
