// Package retry implements the retry discipline for language-model calls that
// are expected to return strict JSON. Only malformed responses are retried;
// transport failures and responses that parse but fail validation end the
// attempt loop immediately.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/vinay-asish/SmartHire/internal/utils"
)

// State describes where the attempt loop ended up.
type State int

const (
	// StateAttempting is the zero value, held while the loop is in flight.
	StateAttempting State = iota
	// StateSucceeded means an attempt returned without error.
	StateSucceeded
	// StateFailed means an attempt returned a non-retryable error, for
	// example a response that parsed but failed validation.
	StateFailed
	// StateExhausted means every attempt returned a malformed response.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateExhausted:
		return "exhausted"
	default:
		return "attempting"
	}
}

// ErrMalformed marks an error as retryable. Use Malformed to wrap decode
// failures so the policy can tell them apart from hard failures.
var ErrMalformed = errors.New("malformed response")

type malformedError struct {
	err error
}

func (e *malformedError) Error() string { return "malformed response: " + e.err.Error() }

func (e *malformedError) Unwrap() error { return e.err }

func (e *malformedError) Is(target error) bool { return target == ErrMalformed }

// Malformed wraps err so that the policy treats it as retryable.
func Malformed(err error) error {
	if err == nil {
		return nil
	}
	return &malformedError{err: err}
}

// Policy parameterizes the attempt loop.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first one.
	// Values below one are treated as a single attempt.
	MaxAttempts int
	// Delay is the fixed wait between attempts.
	Delay time.Duration
}

// Result reports the outcome of a Do call.
type Result struct {
	State    State
	Attempts int
	Err      error
}

// Succeeded reports whether an attempt completed without error.
func (r Result) Succeeded() bool { return r.State == StateSucceeded }

// Do runs attempt until it succeeds, fails hard, or the attempt budget is
// exhausted. The delay between attempts honors context cancellation.
func (p Policy) Do(ctx context.Context, attempt func() error) Result {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	res := Result{State: StateAttempting}
	for res.Attempts < maxAttempts {
		res.Attempts++

		err := attempt()
		if err == nil {
			res.State = StateSucceeded
			res.Err = nil
			return res
		}
		res.Err = err

		if !errors.Is(err, ErrMalformed) {
			res.State = StateFailed
			return res
		}

		if res.Attempts < maxAttempts {
			if waitErr := utils.WaitFor(ctx, p.Delay); waitErr != nil {
				res.State = StateFailed
				res.Err = waitErr
				return res
			}
		}
	}

	res.State = StateExhausted
	return res
}
