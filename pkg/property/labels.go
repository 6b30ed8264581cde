package property

import (
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s.]+`)

// DefaultLabeler converts a property name into a human-friendly label. It
// splits on underscores, dashes, dots and camelCase boundaries.
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	// Casers are stateful; build one per call.
	caser := cases.Title(language.English)
	words := splitWordsPattern.Split(name, -1)
	var segments []string
	for _, word := range words {
		if word == "" {
			continue
		}
		segments = append(segments, caser.String(splitCamel(word)))
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

// ItemName derives the item schema name of an array property ("tags" ->
// "tag"). Names that do not singularize get an "Item" suffix.
func ItemName(arrayName string) string {
	trimmed := strings.TrimSpace(arrayName)
	if trimmed == "" {
		return "item"
	}
	singular := inflect.Singularize(trimmed)
	if singular == "" || singular == trimmed {
		return trimmed + "Item"
	}
	return singular
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }
