package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vinay-asish/SmartHire/internal/ai"
	"github.com/vinay-asish/SmartHire/internal/cvfile"
	"github.com/vinay-asish/SmartHire/internal/spreadsheet"
	"github.com/vinay-asish/SmartHire/internal/store"
	"go.uber.org/zap"
)

// suitableScore marks a match worth calling out in the progress output.
const suitableScore = 80

// Matcher walks the CV folder, extracts a profile per document, scores it
// against every known job and persists the results. Failures are confined to
// the document (or document and job pair) they occurred in.
type Matcher struct {
	CVDir     string
	Export    string
	Store     *store.Store
	Extractor ai.Extractor
	Scorer    ai.Scorer
	Logger    *zap.Logger
	// ErrorLog receives full failure detail and persists across runs.
	ErrorLog *zap.Logger

	// ReadDocument overrides CV text extraction, used by tests. When nil the
	// PDF reader is used.
	ReadDocument func(path string) (string, error)
}

// MatchSummary reports the outcome of one matcher run.
type MatchSummary struct {
	Documents  int
	Skipped    int
	Inserted   int
	Duplicates int
	Failures   int
	Export     string
}

// Run processes every discovered document and finally exports the candidates
// table. Per-document failures are logged and do not abort the run.
func (m *Matcher) Run(ctx context.Context) (*MatchSummary, error) {
	if err := m.Store.EnsureCandidates(); err != nil {
		return nil, fmt.Errorf("ensure candidates table: %w", err)
	}

	jobs, err := m.Store.Jobs()
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil, errors.New("no job descriptions found in the store, run load-jobs first")
	}

	paths, err := cvfile.Discover(m.CVDir)
	if err != nil {
		return nil, err
	}

	summary := &MatchSummary{Export: m.Export}
	for _, path := range paths {
		summary.Documents++

		m.Logger.Info("processing cv", zap.String("cv_path", path))

		if err := m.processDocument(ctx, path, jobs, summary); err != nil {
			m.ErrorLog.Error("document processing failed",
				zap.String("cv_path", path),
				zap.Error(err),
			)
			m.Logger.Warn("document abandoned",
				zap.String("cv_path", path),
				zap.Error(err),
			)
			summary.Failures++
		}
	}

	if err := m.exportCandidates(); err != nil {
		return nil, err
	}

	return summary, nil
}

func (m *Matcher) processDocument(ctx context.Context, path string, jobs []store.Job, summary *MatchSummary) error {
	text, err := m.readDocument(path)
	if err != nil {
		return err
	}

	if strings.TrimSpace(text) == "" {
		m.Logger.Warn("empty cv text, skipping document", zap.String("cv_path", path))
		summary.Skipped++
		return nil
	}

	profile, err := m.Extractor.Extract(ctx, text)
	if err != nil {
		return err
	}

	if !profile.HasEmail() {
		m.Logger.Warn("missing email in extracted data", zap.String("cv_path", path))
	}

	parsed, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("serialize profile: %w", err)
	}

	m.Logger.Info("parsed candidate",
		zap.String("name", profile.DisplayName()),
		zap.String("cv_path", path),
	)

	for _, job := range jobs {
		exists, err := m.Store.CandidateExists(profile.Email, job.ID)
		if err != nil {
			return fmt.Errorf("duplicate check: %w", err)
		}
		if exists {
			m.Logger.Warn("duplicate entry skipped",
				zap.String("email", profile.Email),
				zap.Uint("jd_id", job.ID),
			)
			summary.Duplicates++
			continue
		}

		result, err := m.Scorer.Score(ctx, job.Summary, profile)
		if err != nil {
			m.ErrorLog.Error("scoring failed",
				zap.String("cv_path", path),
				zap.Uint("jd_id", job.ID),
				zap.Error(err),
			)
			m.Logger.Warn("scoring abandoned for job",
				zap.Uint("jd_id", job.ID),
				zap.Error(err),
			)
			summary.Failures++
			continue
		}

		candidate := &store.Candidate{
			Name:       profile.DisplayName(),
			Email:      profile.Email,
			CVPath:     path,
			ParsedData: string(parsed),
			MatchScore: result.Score,
			Reasoning:  result.Reasoning,
			JDID:       job.ID,
		}
		if err := m.Store.CreateCandidate(candidate); err != nil {
			return fmt.Errorf("insert candidate: %w", err)
		}
		summary.Inserted++

		if result.Score >= suitableScore {
			m.Logger.Info("suitable match",
				zap.Uint("jd_id", job.ID),
				zap.Float64("score", result.Score),
			)
		} else {
			m.Logger.Info("match below threshold",
				zap.Uint("jd_id", job.ID),
				zap.Float64("score", result.Score),
			)
		}
	}

	return nil
}

func (m *Matcher) readDocument(path string) (string, error) {
	if m.ReadDocument != nil {
		return m.ReadDocument(path)
	}
	return cvfile.ExtractText(path)
}

func (m *Matcher) exportCandidates() error {
	candidates, err := m.Store.Candidates()
	if err != nil {
		return fmt.Errorf("load candidates for export: %w", err)
	}

	table := &spreadsheet.Table{
		Columns: []string{"id", "name", "email", "cv_path", "parsed_data", "match_score", "reasoning", "jd_id", "notified"},
	}
	for _, c := range candidates {
		table.Rows = append(table.Rows, []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Name,
			c.Email,
			c.CVPath,
			c.ParsedData,
			strconv.FormatFloat(c.MatchScore, 'f', -1, 64),
			c.Reasoning,
			strconv.FormatUint(uint64(c.JDID), 10),
			strconv.FormatBool(c.Notified),
		})
	}

	if err := spreadsheet.Write(m.Export, table); err != nil {
		return fmt.Errorf("export candidates: %w", err)
	}

	return nil
}
