package pipeline

import (
	"fmt"

	"github.com/vinay-asish/SmartHire/internal/spreadsheet"
	"github.com/vinay-asish/SmartHire/internal/store"
	"go.uber.org/zap"
)

// Loader reads the summarized table and populates the jobs table, one row per
// input row. There is no idempotence guard: re-running doubles the rows.
type Loader struct {
	Input  string
	Store  *store.Store
	Logger *zap.Logger
}

// LoadSummary reports the outcome of one loader run.
type LoadSummary struct {
	Inserted int
}

// Run inserts every summarized posting. A missing summary column aborts
// before the jobs table is touched.
func (l *Loader) Run() (*LoadSummary, error) {
	table, err := spreadsheet.Read(l.Input)
	if err != nil {
		return nil, err
	}

	if table.ColumnIndex(ColumnJDSummary) < 0 {
		return nil, fmt.Errorf("%q column not found in %q, available columns: %v",
			ColumnJDSummary, l.Input, table.Columns)
	}

	if err := l.Store.EnsureJobs(); err != nil {
		return nil, fmt.Errorf("ensure jobs table: %w", err)
	}

	summary := &LoadSummary{}
	for i := range table.Rows {
		job := &store.Job{
			Title:   table.Cell(i, ColumnJobTitle),
			Summary: table.Cell(i, ColumnJDSummary),
		}
		if err := l.Store.CreateJob(job); err != nil {
			return nil, fmt.Errorf("insert job %q: %w", job.Title, err)
		}
		summary.Inserted++
	}

	return summary, nil
}
