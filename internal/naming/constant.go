package naming

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// ConstantName turns an identifier-like literal into a static constant name.
// The namespace is dropped, the last path segment comes first and the directory
// segments follow in reverse order, singularized:
//
//	"example:foo/another_id" -> "ANOTHER_ID_FOO"
//	"blocks/stone"           -> "STONE_BLOCK"
//	"maxCount"               -> "MAX_COUNT"
func ConstantName(literal string) (string, bool) {
	s := strings.TrimSpace(literal)
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}

	var segments []string
	for _, seg := range strings.Split(s, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return "", false
	}

	parts := []string{segments[len(segments)-1]}
	for i := len(segments) - 2; i >= 0; i-- {
		parts = append(parts, singular(segments[i]))
	}

	var words []string
	for _, p := range parts {
		for _, w := range Words(p) {
			words = append(words, upper.String(w))
		}
	}
	if len(words) == 0 {
		return "", false
	}

	name := strings.Join(words, "_")
	if unicode.IsDigit([]rune(name)[0]) {
		name = "_" + name
	}
	return name, IsValidIdentifier(name)
}

// singular singularizes the last word of a path segment ("block_entities" -> "block_entity")
func singular(segment string) string {
	words := Words(segment)
	if len(words) == 0 {
		return segment
	}
	last := words[len(words)-1]
	words[len(words)-1] = inflect.Singularize(strings.ToLower(last))
	return strings.Join(words, "_")
}
