// Package reference loads the table of current clients used for the income
// comparison chart. The table is read once at startup from CSV or XLSX.
package reference

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/risk-dashboard/internal/fetcher"
	"github.com/sells-group/risk-dashboard/internal/model"
)

// Column names read from the dataset.
const (
	ColumnIncome = "AMT_INCOME_TOTAL"
	ColumnTarget = "TARGET"
)

// Options configures Load.
type Options struct {
	// Source is a local path or an http(s)/ftp URL, optionally a .zip.
	Source string
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	Fetch fetcher.Options
}

// Load reads the reference table. Rows with an unparseable income or target
// are skipped and counted; a missing column fails the load.
func Load(ctx context.Context, opts Options) (*model.ReferenceTable, error) {
	start := time.Now()

	local, err := fetcher.Open(ctx, opts.Source, opts.Fetch)
	if err != nil {
		return nil, eris.Wrap(err, "reference: open source")
	}
	defer local.Close() //nolint:errcheck

	var table *model.ReferenceTable
	switch local.Ext() {
	case ".csv", ".txt":
		table, err = loadCSV(ctx, local.Path)
	case ".xlsx":
		table, err = loadXLSX(local.Path, opts.Sheet)
	default:
		return nil, eris.Errorf("reference: unsupported file type %q", local.Ext())
	}
	if err != nil {
		return nil, err
	}
	table.Source = opts.Source

	zap.L().Info("reference: table loaded",
		zap.String("source", opts.Source),
		zap.Int("rows", table.Len()),
		zap.Int("skipped", table.Skipped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return table, nil
}

func loadCSV(ctx context.Context, path string) (*model.ReferenceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "reference: open csv")
	}
	defer f.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headerCh := make(chan []string, 1)
	rowCh, errCh := fetcher.StreamCSV(ctx, f, fetcher.CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
		TrimSpace: true,
	})

	table := &model.ReferenceTable{}
	var cols columns
	haveHeader := false
	for row := range rowCh {
		if !haveHeader {
			cols, err = locateColumns(<-headerCh)
			if err != nil {
				return nil, err
			}
			haveHeader = true
		}
		appendRow(table, row, cols)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrap(err, "reference: read csv")
	}

	if !haveHeader {
		// Header only, or an empty file.
		select {
		case header := <-headerCh:
			if _, err := locateColumns(header); err != nil {
				return nil, err
			}
		default:
			return nil, eris.New("reference: csv has no header row")
		}
	}
	return table, nil
}

func loadXLSX(path, sheet string) (*model.ReferenceTable, error) {
	header, rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: sheet, SkipRows: 1})
	if err != nil {
		return nil, eris.Wrap(err, "reference: read xlsx")
	}
	if header == nil {
		return nil, eris.New("reference: xlsx sheet is empty")
	}

	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	table := &model.ReferenceTable{}
	for _, row := range rows {
		appendRow(table, row, cols)
	}
	return table, nil
}

type columns struct {
	income int
	target int
}

func locateColumns(header []string) (columns, error) {
	cols := columns{income: -1, target: -1}
	for i, name := range header {
		switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case ColumnIncome:
			cols.income = i
		case ColumnTarget:
			cols.target = i
		}
	}
	if cols.income < 0 {
		return cols, eris.Wrap(model.NewMissingFieldError("reference table", ColumnIncome), "reference: locate columns")
	}
	if cols.target < 0 {
		return cols, eris.Wrap(model.NewMissingFieldError("reference table", ColumnTarget), "reference: locate columns")
	}
	return cols, nil
}
