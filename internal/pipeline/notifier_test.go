package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/vinay-asish/SmartHire/internal/store"
	"go.uber.org/zap"
)

func seedCandidates(t *testing.T, s *store.Store, scores []float64) {
	t.Helper()

	if err := s.EnsureCandidates(); err != nil {
		t.Fatal(err)
	}
	for i, score := range scores {
		candidate := &store.Candidate{
			Name:       fmt.Sprintf("Candidate %d", i+1),
			Email:      fmt.Sprintf("c%d@example.com", i+1),
			MatchScore: score,
			Reasoning:  "evaluation summary",
			JDID:       1,
		}
		if err := s.CreateCandidate(candidate); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNotifierSendsToShortlistedOnly(t *testing.T) {
	s := newTestStore(t)
	seedCandidates(t, s, []float64{95, 80, 79})

	sender := &stubSender{}
	notifier := &Notifier{Store: s, Sender: sender, Logger: zap.NewNop()}

	shortlisted, err := notifier.Shortlist()
	if err != nil {
		t.Fatalf("shortlist: %v", err)
	}
	if len(shortlisted) != 2 {
		t.Fatalf("expected 2 shortlisted candidates, got %d", len(shortlisted))
	}

	summary, err := notifier.Notify(context.Background(), shortlisted)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if summary.Sent != 2 || len(sender.sent) != 2 {
		t.Fatalf("expected 2 sends, got %+v", summary)
	}

	remaining, err := notifier.Shortlist()
	if err != nil {
		t.Fatalf("shortlist after notify: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected everyone notified, got %d remaining", len(remaining))
	}

	candidates, err := s.Candidates()
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range candidates {
		notified := c.MatchScore >= 80
		if c.Notified != notified {
			t.Fatalf("unexpected notified flag for score %v: %v", c.MatchScore, c.Notified)
		}
	}
}

func TestNotifierLeavesFlagUnsetOnDeliveryFailure(t *testing.T) {
	s := newTestStore(t)
	seedCandidates(t, s, []float64{95, 90})

	sender := &stubSender{failFor: "c1@example.com"}
	notifier := &Notifier{Store: s, Sender: sender, Logger: zap.NewNop()}

	shortlisted, err := notifier.Shortlist()
	if err != nil {
		t.Fatalf("shortlist: %v", err)
	}

	summary, err := notifier.Notify(context.Background(), shortlisted)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if summary.Sent != 1 || summary.Failed != 1 {
		t.Fatalf("expected one send and one failure, got %+v", summary)
	}

	// The failed candidate stays eligible for a future run.
	remaining, err := notifier.Shortlist()
	if err != nil {
		t.Fatalf("shortlist after notify: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Email != "c1@example.com" {
		t.Fatalf("expected the failed candidate to remain shortlisted, got %+v", remaining)
	}
}

func TestComposeInvitation(t *testing.T) {
	msg := ComposeInvitation(store.Candidate{
		Name:       "Ada Lovelace",
		Email:      "a@b.com",
		MatchScore: 85,
		Reasoning:  "strong backend profile",
		JDID:       7,
	})

	if msg.To != "a@b.com" || msg.ToName != "Ada Lovelace" {
		t.Fatalf("unexpected recipient: %+v", msg)
	}
	for _, fragment := range []string{
		"Hi Ada Lovelace",
		"Job ID 7",
		"match score of 85%",
		`"strong backend profile"`,
		"Option 1",
		"Option 2",
		"Option 3",
	} {
		if !strings.Contains(msg.Body, fragment) {
			t.Fatalf("expected %q in body:\n%s", fragment, msg.Body)
		}
	}
}
