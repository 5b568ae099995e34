// Package words tokenizes buffer text and counts words.
//
// A word is a run of characters from [A-Za-z0-9']. Every other character
// is a delimiter. Tokens follow split semantics: a leading delimiter run
// produces one empty leading token and trailing empty tokens are dropped.
package words

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"textedit/internal/buffer"
)

// Stats holds the word counts of a buffer.
type Stats struct {
	Words  int
	Unique int
}

// IsDelimiter reports whether r separates words.
func IsDelimiter(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '\'':
		return false
	}
	return true
}

// Split breaks text on runs of delimiters. Empty text yields no tokens.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	var tokens []string
	start := 0
	inDelim := false
	for i, r := range text {
		d := IsDelimiter(r)
		if d && !inDelim {
			tokens = append(tokens, text[start:i])
		}
		if !d && inDelim {
			start = i
		}
		inDelim = d
	}
	if inDelim {
		tokens = append(tokens, "")
	} else {
		tokens = append(tokens, text[start:])
	}
	for len(tokens) > 0 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// CountWords returns the number of tokens in b. A nil or empty buffer has
// zero words.
func CountWords(b *buffer.Buffer) int {
	if b == nil {
		return 0
	}
	return len(Split(b.String()))
}

// CountUniqueWords returns the number of distinct tokens in b, ignoring case.
func CountUniqueWords(b *buffer.Buffer) int {
	if b == nil {
		return 0
	}
	fold := cases.Lower(language.Und)
	seen := make(map[string]struct{})
	for _, tok := range Split(b.String()) {
		seen[fold.String(tok)] = struct{}{}
	}
	return len(seen)
}

// Count returns both word counts of b.
func Count(b *buffer.Buffer) Stats {
	return Stats{Words: CountWords(b), Unique: CountUniqueWords(b)}
}
