package prefs

import "strings"

// Tokenize splits raw text into normalized tokens. Text is lowercased,
// punctuation becomes a separator except for characters meaningful inside
// identifiers (underscore, hyphen, dot), and the result is split on
// whitespace. Identifier characters are trimmed from token edges so a
// sentence-final "docs." still yields "docs" while "next.js" keeps its dot.
//
// Tokenizing the same input always yields the same sequence. Empty or
// whitespace-only input yields an empty sequence, never an error.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '-', r == '.':
			return r
		default:
			return ' '
		}
	}, strings.ToLower(text))

	fields := strings.Fields(mapped)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "._-")
		if f == "" {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
