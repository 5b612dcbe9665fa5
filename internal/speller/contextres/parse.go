package contextres

import (
	"strings"

	"github.com/MrWong99/orthograph/internal/speller/diffalign"
)

const changesPrefix = "CHANGES:"

// ParseChanges extracts word pairs from a structured change-list reply.
// found reports whether a CHANGES line was present at all; a reply of
// "CHANGES: none" is found with zero pairs. Pairs are lowercased and
// stripped of punctuation; commentary after a corrected word (for example
// "food (fits the sentence)") is discarded.
func ParseChanges(raw string) (pairs []WordPair, found bool) {
	line, ok := changesLine(raw)
	if !ok {
		return nil, false
	}
	if strings.EqualFold(strings.TrimSpace(line), "none") {
		return nil, true
	}

	for _, part := range strings.Split(line, ",") {
		wrong, right, ok := strings.Cut(part, "->")
		if !ok {
			continue
		}
		p := WordPair{
			Original:  cleanChangeWord(wrong),
			Corrected: cleanChangeWord(right),
		}
		if p.Original == "" || p.Corrected == "" {
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs, true
}

// changesLine finds the first line carrying the CHANGES prefix and returns
// its payload. Models occasionally wrap the line in prose or emit it after a
// blank line, so every line is inspected.
func changesLine(raw string) (string, bool) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(strings.ToUpper(line), changesPrefix)
		if idx < 0 {
			continue
		}
		return line[idx+len(changesPrefix):], true
	}
	return "", false
}

// cleanChangeWord normalizes one side of a change pair: trailing commentary
// is dropped, punctuation is stripped and the word is lowercased.
func cleanChangeWord(w string) string {
	w = strings.TrimSpace(w)
	if idx := strings.IndexAny(w, "(["); idx >= 0 {
		w = w[:idx]
	}
	fields := strings.Fields(w)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(diffalign.TrimPunct(fields[0]))
}
