// Package ai defines the typed contracts between the pipeline stages and the
// language-model collaborator.
package ai

import (
	"context"
	"sort"
	"strings"
)

// WorkExperience is a single position extracted from a CV.
type WorkExperience struct {
	Role     string `json:"role"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// CandidateProfile holds the structured fields extracted from a CV document.
// Absent fields stay at their zero value; Email in particular is tolerated
// missing and callers are expected to warn about it.
type CandidateProfile struct {
	FullName       string           `json:"full_name"`
	Email          string           `json:"email"`
	Education      []string         `json:"education"`
	Experience     []WorkExperience `json:"work_experience"`
	Skills         []string         `json:"skills"`
	Certifications []string         `json:"certifications"`
}

// HasEmail reports whether the extraction produced a usable email address.
func (p *CandidateProfile) HasEmail() bool {
	return strings.TrimSpace(p.Email) != ""
}

// DisplayName returns the extracted name or a placeholder when absent.
func (p *CandidateProfile) DisplayName() string {
	name := strings.TrimSpace(p.FullName)
	if name == "" {
		return "Unknown"
	}
	return name
}

// NormalizeSkills lowercases, trims and de-duplicates the skill list in place.
// The result is sorted so that repeated extractions of the same CV serialize
// identically.
func (p *CandidateProfile) NormalizeSkills() {
	seen := make(map[string]struct{}, len(p.Skills))
	normalized := make([]string, 0, len(p.Skills))
	for _, skill := range p.Skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		normalized = append(normalized, skill)
	}
	sort.Strings(normalized)
	p.Skills = normalized
}

// MatchResult is the scorer's verdict for one candidate against one job.
type MatchResult struct {
	// Score is the 0-100 fit rating.
	Score float64 `json:"match_score"`
	// Reasoning is the model's short justification for the score.
	Reasoning string `json:"reasoning"`
}

// Summarizer produces a structured text summary for one job posting.
type Summarizer interface {
	Summarize(ctx context.Context, title, description string) (string, error)
}

// Extractor turns raw CV text into a validated candidate profile.
type Extractor interface {
	Extract(ctx context.Context, cvText string) (*CandidateProfile, error)
}

// Scorer rates a candidate profile against a job summary.
type Scorer interface {
	Score(ctx context.Context, jobSummary string, profile *CandidateProfile) (*MatchResult, error)
}
