package views

import "strings"

// stopWords are dropped from search input before matching. Tokens this
// common carry no ranking signal for title/description word matches.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "if": true, "in": true,
	"into": true, "is": true, "it": true, "no": true, "not": true, "of": true,
	"on": true, "or": true, "such": true, "that": true, "the": true,
	"their": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "to": true, "was": true, "will": true, "with": true,
}

// Tokenize normalizes a search string: lowercase, collapsed whitespace,
// split on spaces, stop words removed. The result may be empty.
func Tokenize(search string) []string {
	fields := strings.Fields(strings.ToLower(search))
	tokens := make([]string, 0, len(fields))
	for _, word := range fields {
		if !stopWords[word] {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
