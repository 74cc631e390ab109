package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vinay-asish/SmartHire/internal/mail"
	"github.com/vinay-asish/SmartHire/internal/store"
	"go.uber.org/zap"
)

// DefaultThreshold is the match score at which a candidate is shortlisted.
const DefaultThreshold = 80

const invitationSubject = "Interview Invitation – SmartHire"

const invitationBodyTemplate = `Hi %s,

Congratulations! Based on your profile, you've been shortlisted for an interview for Job ID %d with a match score of %s%%.

Summary of our evaluation:
"%s"

Please let us know your availability for a virtual interview from the following options:
- Option 1: Tomorrow at 10:00 AM
- Option 2: Day after tomorrow at 3:00 PM
- Option 3: This Friday at 11:00 AM

Interview Format: Online (Google Meet / Zoom)

Looking forward to hearing from you!

Best regards,
Recruitment Team
SmartHire
`

// Notifier emails shortlisted candidates and marks them notified. Delivery
// failures leave the flag unset so the candidate is retried on a future run.
type Notifier struct {
	Store     *store.Store
	Sender    mail.Sender
	Threshold float64
	Logger    *zap.Logger
}

// NotifySummary reports the outcome of one notifier run.
type NotifySummary struct {
	Shortlisted int
	Sent        int
	Failed      int
}

// Shortlist ensures the notified column exists and returns the candidates
// still awaiting an invitation.
func (n *Notifier) Shortlist() ([]store.Candidate, error) {
	if err := n.Store.EnsureNotifiedColumn(); err != nil {
		return nil, fmt.Errorf("ensure notified column: %w", err)
	}

	threshold := n.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	return n.Store.Shortlisted(threshold)
}

// Notify sends one invitation per candidate, marking each (email, jd_id)
// pair notified only after a successful delivery.
func (n *Notifier) Notify(ctx context.Context, candidates []store.Candidate) (*NotifySummary, error) {
	summary := &NotifySummary{Shortlisted: len(candidates)}

	for _, candidate := range candidates {
		msg := ComposeInvitation(candidate)

		if err := n.Sender.Send(ctx, msg); err != nil {
			n.Logger.Warn("failed to send email",
				zap.String("email", candidate.Email),
				zap.Uint("jd_id", candidate.JDID),
				zap.Error(err),
			)
			summary.Failed++
			continue
		}

		if err := n.Store.MarkNotified(candidate.Email, candidate.JDID); err != nil {
			return nil, fmt.Errorf("mark %q notified: %w", candidate.Email, err)
		}

		n.Logger.Info("email sent",
			zap.String("name", candidate.Name),
			zap.String("email", candidate.Email),
			zap.Uint("jd_id", candidate.JDID),
		)
		summary.Sent++
	}

	return summary, nil
}

// ComposeInvitation renders the fixed invitation template for one candidate.
func ComposeInvitation(candidate store.Candidate) mail.Message {
	score := strconv.FormatFloat(candidate.MatchScore, 'f', -1, 64)

	return mail.Message{
		To:      candidate.Email,
		ToName:  candidate.Name,
		Subject: invitationSubject,
		Body: fmt.Sprintf(invitationBodyTemplate,
			candidate.Name, candidate.JDID, score, candidate.Reasoning),
	}
}
