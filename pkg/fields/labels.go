package fields

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var separatorPattern = regexp.MustCompile(`[_\-\s]+`)

// DefaultLabeler turns a field name into a human readable label: it splits on
// underscores, dashes, whitespace and camelCase boundaries and capitalises
// each token ("use_ssl" -> "Use Ssl", "dbName" -> "Db Name").
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	var tokens []string
	for _, word := range separatorPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		for _, token := range splitCamel(word) {
			tokens = append(tokens, capitalise(token))
		}
	}
	return strings.Join(tokens, " ")
}

func splitCamel(word string) []string {
	runes := []rune(word)
	var (
		out   []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		if isBoundary(runes, i) {
			out = append(out, string(runes[start:i]))
			start = i
		}
	}
	return append(out, string(runes[start:]))
}

// isBoundary splits "dbName", "use2fa" and "HTTPServer" (before "Server").
func isBoundary(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(cur):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
		return true
	}
	return false
}

func capitalise(token string) string {
	r, size := utf8.DecodeRuneInString(token)
	if r == utf8.RuneError {
		return token
	}
	return string(unicode.ToUpper(r)) + token[size:]
}
