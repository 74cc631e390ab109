package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vinay-asish/SmartHire/internal/ai"
	"github.com/vinay-asish/SmartHire/internal/retry"
	"github.com/vinay-asish/SmartHire/internal/utils"
	"go.uber.org/zap"
)

const scorePromptTemplate = `You are a strict evaluator. ONLY respond in proper JSON. No markdown, no preface.

Job Description:
{{JD_SUMMARY}}

Candidate Info:
{{CANDIDATE_JSON}}

Your output must be:
{
  "match_score": number from 0 to 100,
  "reasoning": "brief explanation"
}

Strict JSON only. Do not add anything before or after. No bullet points. No commentary.`

// Scorer rates a candidate profile against a job summary.
type Scorer struct {
	generator contentGenerator
	policy    retry.Policy
	logger    *zap.Logger
	maxLogLen int
}

// NewScorer builds a Scorer with the given retry policy.
func NewScorer(generator contentGenerator, policy retry.Policy, logger *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Scorer{
		generator: generator,
		policy:    policy,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Score submits the candidate profile against the job summary and decodes the
// two-field verdict strictly as JSON. A response that parses but carries a
// score outside [0, 100] is a hard failure, not a retryable one.
func (s *Scorer) Score(ctx context.Context, jobSummary string, profile *ai.CandidateProfile) (*ai.MatchResult, error) {
	if profile == nil {
		return nil, fmt.Errorf("candidate profile is required")
	}

	candidateJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("marshal candidate profile: %w", err)
	}

	prompt := strings.ReplaceAll(scorePromptTemplate, "{{JD_SUMMARY}}", jobSummary)
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_JSON}}", string(candidateJSON))

	s.logger.Debug("scoring request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	var result *ai.MatchResult
	res := s.policy.Do(ctx, func() error {
		raw, err := s.generator.GenerateContent(ctx, prompt)
		if err != nil {
			return err
		}

		s.logger.Debug("scoring response",
			zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
		)

		parsed := &ai.MatchResult{}
		if err := json.Unmarshal([]byte(extractJSON(raw)), parsed); err != nil {
			return retry.Malformed(err)
		}

		if parsed.Score < 0 || parsed.Score > 100 {
			return fmt.Errorf("match score %v is outside the 0-100 range", parsed.Score)
		}

		result = parsed
		return nil
	})

	if !res.Succeeded() {
		return nil, fmt.Errorf("score candidate (%s after %d attempts): %w", res.State, res.Attempts, res.Err)
	}

	result.Reasoning = strings.TrimSpace(result.Reasoning)
	return result, nil
}
