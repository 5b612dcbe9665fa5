package speller

import (
	"strings"
	"unicode"

	"github.com/MrWong99/orthograph/internal/speller/diffalign"
)

// token is one whitespace-delimited word of the input sentence.
type token struct {
	// text is the raw token including surrounding punctuation.
	text string

	// core is text without leading/trailing punctuation, casing intact.
	core string

	// clean is the lowercase core, the form used for all lookups.
	clean string

	// offset is the byte offset of text within the input.
	offset int

	// coreOff is the byte offset of core within the input.
	coreOff int
}

// tokenize splits input into tokens on whitespace, recording byte offsets so
// the corrected sentence can be reassembled without disturbing spacing.
func tokenize(input string) []token {
	var tokens []token
	start := -1
	for i, r := range input {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, newToken(input[start:i], start))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, newToken(input[start:], start))
	}
	return tokens
}

func newToken(text string, offset int) token {
	core := diffalign.TrimPunct(text)
	coreOff := offset
	if core != "" {
		if idx := strings.Index(text, core); idx >= 0 {
			coreOff = offset + idx
		}
	}
	return token{
		text:    text,
		core:    core,
		clean:   strings.ToLower(core),
		offset:  offset,
		coreOff: coreOff,
	}
}

// checkable reports whether the token is a word worth checking: its core
// must contain at least two letters. Numbers, bare punctuation and stray
// single letters pass through untouched.
func (t token) checkable() bool {
	letters := 0
	for _, r := range t.core {
		if unicode.IsLetter(r) {
			letters++
			if letters >= 2 {
				return true
			}
		}
	}
	return false
}

// replaceCore swaps the token's core for replacement, keeping the
// surrounding punctuation.
func (t token) replaceCore(replacement string) string {
	idx := strings.Index(t.text, t.core)
	if idx < 0 {
		return replacement
	}
	return t.text[:idx] + replacement + t.text[idx+len(t.core):]
}
