package gemini

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/vinay-asish/SmartHire/internal/utils"
	"go.uber.org/zap"
)

const summaryPromptTemplate = `You are an AI assistant helping a recruiter.

Read and summarize the following job description into the following structured fields:

- **Required Skills** (as bullet points)
- **Experience Required**
- **Qualifications**
- **Job Responsibilities** (as bullet points)

Job Title: {{JOB_TITLE}}
Job Description:
{{JOB_DESCRIPTION}}

Return only the structured summary, no extra explanation or commentary.`

// Summarizer turns a raw job description into a structured text summary.
type Summarizer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewSummarizer builds a Summarizer on top of the given generator.
func NewSummarizer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Summarizer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Summarizer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Summarize asks the model for the four-section summary of the posting. The
// response is free-form structured prose, returned as-is.
func (s *Summarizer) Summarize(ctx context.Context, title, description string) (string, error) {
	prompt := strings.ReplaceAll(summaryPromptTemplate, "{{JOB_TITLE}}", title)
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", description)

	s.logger.Debug("summary request",
		zap.String("job_title", title),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	s.logger.Debug("summary response",
		zap.String("job_title", title),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	return strings.TrimSpace(raw), nil
}
