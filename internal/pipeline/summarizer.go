// Package pipeline implements the four recruiting stages. Each runner owns
// one standalone run: dependencies are injected, progress goes to the
// console logger and a summary with counts is returned for the final status
// line.
package pipeline

import (
	"context"
	"fmt"

	"github.com/vinay-asish/SmartHire/internal/ai"
	"github.com/vinay-asish/SmartHire/internal/spreadsheet"
	"go.uber.org/zap"
)

const (
	// ColumnJobTitle and ColumnJobDescription are the required input columns.
	ColumnJobTitle       = "Job Title"
	ColumnJobDescription = "Job Description"
	// ColumnJDSummary is added by the summarizer and required by the loader.
	ColumnJDSummary = "JD Summary"

	// summaryErrorSentinel fills the summary slot of a row whose model call
	// failed so the remaining rows still get processed.
	summaryErrorSentinel = "Error during summarization"
)

// Summarizer reads a table of job postings, asks the model for a structured
// summary per posting and writes the output table.
type Summarizer struct {
	Input  string
	Output string
	AI     ai.Summarizer
	Logger *zap.Logger
}

// SummarizeSummary reports the outcome of one summarizer run.
type SummarizeSummary struct {
	Rows       int
	Summarized int
	Failed     int
	Output     string
}

// Run processes every posting row. Missing required columns abort before any
// model call and before any output is written.
func (s *Summarizer) Run(ctx context.Context) (*SummarizeSummary, error) {
	table, err := spreadsheet.Read(s.Input)
	if err != nil {
		return nil, err
	}

	if table.ColumnIndex(ColumnJobTitle) < 0 || table.ColumnIndex(ColumnJobDescription) < 0 {
		return nil, fmt.Errorf("required columns %q and %q not found, available columns: %v",
			ColumnJobTitle, ColumnJobDescription, table.Columns)
	}

	summary := &SummarizeSummary{Rows: len(table.Rows), Output: s.Output}

	summaries := make([]string, 0, len(table.Rows))
	for i := range table.Rows {
		title := table.Cell(i, ColumnJobTitle)

		s.Logger.Info("summarizing job description",
			zap.Int("row", i+1),
			zap.String("job_title", title),
		)

		text, err := s.AI.Summarize(ctx, title, table.Cell(i, ColumnJobDescription))
		if err != nil {
			s.Logger.Warn("summarization failed",
				zap.Int("row", i+1),
				zap.String("job_title", title),
				zap.Error(err),
			)
			text = summaryErrorSentinel
			summary.Failed++
		} else {
			summary.Summarized++
		}

		summaries = append(summaries, text)
	}

	table.DropUnnamed()
	if err := table.AppendColumn(ColumnJDSummary, summaries); err != nil {
		return nil, err
	}

	if err := spreadsheet.Write(s.Output, table); err != nil {
		return nil, fmt.Errorf("write summarized table: %w", err)
	}

	return summary, nil
}
