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

const defaultMaxLogLength = 200

const extractPromptTemplate = `Extract this info from the CV below:

- full_name (string)
- email (string)
- education (list of strings)
- work_experience (list of objects with role, company, duration)
- skills (list of strings)
- certifications (list of strings)

Respond with a single JSON object using exactly those keys. Return JSON only,
no markdown, no commentary before or after.

CV:
{{CV_TEXT}}`

// Extractor turns raw CV text into a validated candidate profile.
type Extractor struct {
	generator contentGenerator
	policy    retry.Policy
	logger    *zap.Logger
	maxLogLen int
}

// NewExtractor builds an Extractor with the given retry policy.
func NewExtractor(generator contentGenerator, policy retry.Policy, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Extractor{
		generator: generator,
		policy:    policy,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract submits the CV text and decodes the response strictly as JSON.
// Malformed responses are retried per the policy; when the attempts are
// exhausted the last decode failure is returned to the caller.
func (e *Extractor) Extract(ctx context.Context, cvText string) (*ai.CandidateProfile, error) {
	prompt := strings.ReplaceAll(extractPromptTemplate, "{{CV_TEXT}}", cvText)

	e.logger.Debug("extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	var profile *ai.CandidateProfile
	res := e.policy.Do(ctx, func() error {
		raw, err := e.generator.GenerateContent(ctx, prompt)
		if err != nil {
			return err
		}

		e.logger.Debug("extraction response",
			zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
		)

		parsed := &ai.CandidateProfile{}
		if err := json.Unmarshal([]byte(extractJSON(raw)), parsed); err != nil {
			return retry.Malformed(err)
		}

		profile = parsed
		return nil
	})

	if !res.Succeeded() {
		return nil, fmt.Errorf("extract candidate profile (%s after %d attempts): %w", res.State, res.Attempts, res.Err)
	}

	profile.NormalizeSkills()
	return profile, nil
}
