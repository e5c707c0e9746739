package model

// Income column bounds of the reference histogram.
const (
	IncomeRangeMin = 25000.0
	IncomeRangeMax = 300000.0
)

// ReferenceClient is one row of the local reference dataset.
type ReferenceClient struct {
	TotalIncome float64 `json:"totalIncome"`
	// Target is 0 for clients who repaid and 1 for those who did not.
	Target int `json:"target"`
}

// Repaid reports whether the row belongs to the repaid class.
func (r ReferenceClient) Repaid() bool { return r.Target == 0 }

// ReferenceTable is the reference dataset of current clients, loaded once.
type ReferenceTable struct {
	Rows    []ReferenceClient
	Skipped int
	Source  string
}

// Len returns the number of usable rows.
func (t *ReferenceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
