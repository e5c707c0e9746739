package reference

import (
	"math"
	"strconv"
	"strings"

	"github.com/sells-group/risk-dashboard/internal/model"
)

func parseRow(row []string, cols columns) (income float64, target int, ok bool) {
	if cols.income >= len(row) || cols.target >= len(row) {
		return 0, 0, false
	}

	income, err := strconv.ParseFloat(strings.TrimSpace(row[cols.income]), 64)
	if err != nil || math.IsNaN(income) || math.IsInf(income, 0) {
		return 0, 0, false
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(row[cols.target]), 64)
	if err != nil || (t != 0 && t != 1) {
		return 0, 0, false
	}
	return income, int(t), true
}

func appendRow(table *model.ReferenceTable, row []string, cols columns) {
	income, target, ok := parseRow(row, cols)
	if !ok {
		table.Skipped++
		return
	}
	table.Rows = append(table.Rows, model.ReferenceClient{TotalIncome: income, Target: target})
}
