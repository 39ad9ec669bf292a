// Package normalize reduces free-text quiz answers and track titles to
// comparable keyword segments.
//
// Titles in the catalogue routinely carry parenthetical subtitles and
// "(feat. X)" credits. A title is split on "(" so that either the main title
// or a subtitle counts as a match, while featured-artist credits and all
// punctuation, spacing and casing differences are ignored.
package normalize

import (
	"regexp"
	"strings"
)

// Everything outside Hangul syllables/jamo, Latin letters and digits is noise.
var strippedRe = regexp.MustCompile(`[^가-힣ㄱ-ㅎㅏ-ㅣA-Za-z0-9]`)

const featPrefix = "feat."

// Segments splits s on "(", discards segments crediting a featured artist,
// and normalizes each remaining segment by stripping every character that is
// not a Hangul syllable/jamo, Latin letter or digit, then lower-casing.
// Empty segments are dropped; order is preserved but irrelevant for matching.
func Segments(s string) []string {
	parts := strings.Split(s, "(")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if len(trimmed) >= len(featPrefix) && strings.EqualFold(trimmed[:len(featPrefix)], featPrefix) {
			continue
		}
		normalized := strings.ToLower(strippedRe.ReplaceAllString(part, ""))
		if normalized == "" {
			continue
		}
		segments = append(segments, normalized)
	}
	return segments
}

// SubsetOf reports whether every segment in sub also appears in super.
// An empty sub never matches; a submission must carry at least one segment.
func SubsetOf(sub, super []string) bool {
	if len(sub) == 0 {
		return false
	}
	members := make(map[string]bool, len(super))
	for _, seg := range super {
		members[seg] = true
	}
	for _, seg := range sub {
		if !members[seg] {
			return false
		}
	}
	return true
}

// Matches reports whether a raw submission is an acceptable answer for the
// given truth. A submission may omit a subtitle or feat. credit but may not
// introduce a segment absent from the truth.
func Matches(truth, submission string) bool {
	return SubsetOf(Segments(submission), Segments(truth))
}
