package ai

import (
	"reflect"
	"testing"
)

func TestNormalizeSkills(t *testing.T) {
	cases := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "case folding and dedup",
			input:    []string{"Python", "python", "SQL"},
			expected: []string{"python", "sql"},
		},
		{
			name:     "whitespace trimmed",
			input:    []string{"  Go ", "go", ""},
			expected: []string{"go"},
		},
		{
			name:     "empty list",
			input:    nil,
			expected: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := &CandidateProfile{Skills: tc.input}
			profile.NormalizeSkills()

			if !reflect.DeepEqual(profile.Skills, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, profile.Skills)
			}
		})
	}
}

func TestHasEmail(t *testing.T) {
	profile := &CandidateProfile{}
	if profile.HasEmail() {
		t.Fatal("expected missing email")
	}

	profile.Email = "  "
	if profile.HasEmail() {
		t.Fatal("expected whitespace email to count as missing")
	}

	profile.Email = "a@b.com"
	if !profile.HasEmail() {
		t.Fatal("expected email to be present")
	}
}

func TestDisplayName(t *testing.T) {
	profile := &CandidateProfile{}
	if got := profile.DisplayName(); got != "Unknown" {
		t.Fatalf("expected placeholder name, got %q", got)
	}

	profile.FullName = " Ada Lovelace "
	if got := profile.DisplayName(); got != "Ada Lovelace" {
		t.Fatalf("unexpected name: %q", got)
	}
}
