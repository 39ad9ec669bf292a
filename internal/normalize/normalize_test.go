package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minyeol/songquiz/internal/normalize"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "plain title",
			input:    "Ditto",
			expected: []string{"ditto"},
		},
		{
			name:     "punctuation and spacing stripped",
			input:    "  Love Dive!! ",
			expected: []string{"lovedive"},
		},
		{
			name:     "korean title",
			input:    "밤편지",
			expected: []string{"밤편지"},
		},
		{
			name:     "jamo preserved",
			input:    "ㅈㅣㄱㅡㅁ",
			expected: []string{"ㅈㅣㄱㅡㅁ"},
		},
		{
			name:     "digits preserved",
			input:    "24K Magic",
			expected: []string{"24kmagic"},
		},
		{
			name:     "parenthetical subtitle kept as own segment",
			input:    "소격동 (At Gwanghwamun)",
			expected: []string{"소격동", "atgwanghwamun"},
		},
		{
			name:     "feat credit discarded",
			input:    "Eight (feat. SUGA)",
			expected: []string{"eight"},
		},
		{
			name:     "feat credit discarded case-insensitively",
			input:    "Gang (FEAT. Sik-K)",
			expected: []string{"gang"},
		},
		{
			name:     "subtitle and feat credit",
			input:    "첫 만남은 계획대로 되지 않아 (Supernatural) (feat. anyone)",
			expected: []string{"첫만남은계획대로되지않아", "supernatural"},
		},
		{
			name:     "empty segments dropped",
			input:    "!!! (...)",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.expected, normalize.Segments(tt.input))
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name       string
		truth      string
		submission string
		expected   bool
	}{
		{
			name:       "exact",
			truth:      "Ditto",
			submission: "ditto",
			expected:   true,
		},
		{
			name:       "case and punctuation insensitive",
			truth:      "I AM",
			submission: "i am!",
			expected:   true,
		},
		{
			name:       "main title without subtitle",
			truth:      "소격동 (At Gwanghwamun)",
			submission: "소격동",
			expected:   true,
		},
		{
			name:       "subtitle alone",
			truth:      "소격동 (At Gwanghwamun)",
			submission: "At Gwanghwamun",
			expected:   true,
		},
		{
			name:       "feat credit omitted",
			truth:      "Eight (feat. SUGA)",
			submission: "eight",
			expected:   true,
		},
		{
			name:       "extraneous segment rejected",
			truth:      "Ditto",
			submission: "Ditto (live)",
			expected:   false,
		},
		{
			name:       "wrong answer",
			truth:      "Ditto",
			submission: "OMG",
			expected:   false,
		},
		{
			name:       "empty submission rejected",
			truth:      "Ditto",
			submission: "   ",
			expected:   false,
		},
		{
			name:       "submission of only punctuation rejected",
			truth:      "Ditto",
			submission: "?!",
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalize.Matches(tt.truth, tt.submission))
		})
	}
}
