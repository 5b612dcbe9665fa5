package phonetic

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Default weights for the similarity sub-scores. Edit distance and shared
// subsequence dominate because dyslexic substitutions usually preserve the
// word's length and first letter — those signals alone would rank almost
// everything equally.
const (
	defaultLengthWeight    = 0.1
	defaultFirstCharWeight = 0.2
	defaultLCSWeight       = 0.3
	defaultEditWeight      = 0.4
)

// Scorer computes a bounded [0,1] similarity between two tokens from four
// signals: length ratio, first-character match, longest-common-subsequence
// ratio, and normalized edit distance. All sub-scores are computed over
// lowercase, letters-only forms. The zero value is not usable; construct
// with [NewScorer].
type Scorer struct {
	lengthWeight    float64
	firstCharWeight float64
	lcsWeight       float64
	editWeight      float64
}

// NewScorer returns a [Scorer] with the default weights.
func NewScorer() *Scorer {
	return &Scorer{
		lengthWeight:    defaultLengthWeight,
		firstCharWeight: defaultFirstCharWeight,
		lcsWeight:       defaultLCSWeight,
		editWeight:      defaultEditWeight,
	}
}

// Score returns the weighted similarity between a and b in [0,1].
// Returns 0 when either side normalizes to the empty string.
func (s *Scorer) Score(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	la, lb := len(na), len(nb)
	longer := max(la, lb)

	lengthScore := float64(min(la, lb)) / float64(longer)

	// Full credit for a matching first letter, half credit otherwise —
	// dyslexic misspellings usually start right, but "fone"/"phone" shows
	// the first letter cannot be a hard requirement.
	firstCharScore := 0.5
	if na[0] == nb[0] {
		firstCharScore = 1.0
	}

	lcsScore := float64(lcsLength(na, nb)) / float64(longer)

	editScore := 1.0 - float64(matchr.Levenshtein(na, nb))/float64(longer)
	if editScore < 0 {
		editScore = 0
	}

	score := s.lengthWeight*lengthScore +
		s.firstCharWeight*firstCharScore +
		s.lcsWeight*lcsScore +
		s.editWeight*editScore

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// Normalize lowercases s and strips every rune that is not a letter.
func Normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			sb.WriteRune(r)
			continue
		}
		// Keep non-ASCII letters so accented names survive normalization.
		if r > 127 && isLetter(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r > 127
}

// lcsLength returns the length of the longest common subsequence of a and b
// using the classic two-row dynamic program. matchr covers edit distances
// and phonetic codes but has no LCS, so this stays local.
func lcsLength(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
