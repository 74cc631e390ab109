package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vinay-asish/SmartHire/internal/ai"
	"github.com/vinay-asish/SmartHire/internal/mail"
	"github.com/vinay-asish/SmartHire/internal/spreadsheet"
	"github.com/vinay-asish/SmartHire/internal/store"
	"go.uber.org/zap"
)

type stubSummarizer struct {
	calls   int
	failFor string
}

func (s *stubSummarizer) Summarize(_ context.Context, title, _ string) (string, error) {
	s.calls++
	if title == s.failFor {
		return "", errors.New("model unavailable")
	}
	return "Summary for " + title, nil
}

type stubExtractor struct {
	calls   int
	extract func(cvText string) (*ai.CandidateProfile, error)
}

func (s *stubExtractor) Extract(_ context.Context, cvText string) (*ai.CandidateProfile, error) {
	s.calls++
	return s.extract(cvText)
}

type stubScorer struct {
	calls int
	score func(jobSummary string, profile *ai.CandidateProfile) (*ai.MatchResult, error)
}

func (s *stubScorer) Score(_ context.Context, jobSummary string, profile *ai.CandidateProfile) (*ai.MatchResult, error) {
	s.calls++
	return s.score(jobSummary, profile)
}

type stubSender struct {
	sent    []mail.Message
	failFor string
}

func (s *stubSender) Send(_ context.Context, msg mail.Message) error {
	if msg.To == s.failFor {
		return errors.New("relay refused connection")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "recruitment.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

func writeTable(t *testing.T, path string, table *spreadsheet.Table) {
	t.Helper()
	if err := spreadsheet.Write(path, table); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writePDFStub(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func backendProfile() *ai.CandidateProfile {
	return &ai.CandidateProfile{
		FullName: "Ada Lovelace",
		Email:    "a@b.com",
		Skills:   []string{"go", "sql"},
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t)

	postings := filepath.Join(dir, "job_descriptions.xlsx")
	summarized := filepath.Join(dir, "jd_summary_output.xlsx")
	export := filepath.Join(dir, "candidates_summary.xlsx")
	cvDir := filepath.Join(dir, "cvs")

	writeTable(t, postings, &spreadsheet.Table{
		Columns: []string{ColumnJobTitle, ColumnJobDescription},
		Rows: [][]string{{
			"Backend Engineer",
			"Skills: Go, SQL.\nExperience: 3 years.\nResponsibilities: build services.",
		}},
	})

	summarizer := &Summarizer{
		Input:  postings,
		Output: summarized,
		AI:     &stubSummarizer{},
		Logger: zap.NewNop(),
	}
	if _, err := summarizer.Run(context.Background()); err != nil {
		t.Fatalf("summarizer run: %v", err)
	}

	loader := &Loader{Input: summarized, Store: s, Logger: zap.NewNop()}
	loadSummary, err := loader.Run()
	if err != nil {
		t.Fatalf("loader run: %v", err)
	}
	if loadSummary.Inserted != 1 {
		t.Fatalf("expected 1 job inserted, got %d", loadSummary.Inserted)
	}

	jobs, err := s.Jobs()
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job row, got %d", len(jobs))
	}

	writePDFStub(t, cvDir, "ada.pdf")

	matcher := &Matcher{
		CVDir:     cvDir,
		Export:    export,
		Store:     s,
		Extractor: &stubExtractor{extract: func(string) (*ai.CandidateProfile, error) { return backendProfile(), nil }},
		Scorer: &stubScorer{score: func(string, *ai.CandidateProfile) (*ai.MatchResult, error) {
			return &ai.MatchResult{Score: 85, Reasoning: "strong backend profile"}, nil
		}},
		Logger:       zap.NewNop(),
		ErrorLog:     zap.NewNop(),
		ReadDocument: func(string) (string, error) { return "Ada Lovelace, backend engineer", nil },
	}
	matchSummary, err := matcher.Run(context.Background())
	if err != nil {
		t.Fatalf("matcher run: %v", err)
	}
	if matchSummary.Inserted != 1 {
		t.Fatalf("expected 1 candidate inserted, got %d", matchSummary.Inserted)
	}

	candidates, err := s.Candidates()
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 || candidates[0].MatchScore != 85 {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
	if candidates[0].JDID != jobs[0].ID {
		t.Fatalf("candidate references job %d, expected %d", candidates[0].JDID, jobs[0].ID)
	}

	sender := &stubSender{}
	notifier := &Notifier{Store: s, Sender: sender, Logger: zap.NewNop()}

	shortlisted, err := notifier.Shortlist()
	if err != nil {
		t.Fatalf("shortlist: %v", err)
	}
	notifySummary, err := notifier.Notify(context.Background(), shortlisted)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	if notifySummary.Sent != 1 || len(sender.sent) != 1 {
		t.Fatalf("expected exactly one email attempt, got %+v", notifySummary)
	}
	if sender.sent[0].To != "a@b.com" {
		t.Fatalf("unexpected recipient: %s", sender.sent[0].To)
	}
	if !strings.Contains(sender.sent[0].Body, fmt.Sprintf("Job ID %d", jobs[0].ID)) {
		t.Fatalf("expected job reference in body:\n%s", sender.sent[0].Body)
	}
}
