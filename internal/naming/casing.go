package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

// Capitalize upper-cases the first letter: "value" -> "Value"
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return upper.String(string(r)) + s[size:]
}

// Decapitalize lower-cases the first letter unless the name starts with an acronym:
// "Value" -> "value", "URL" -> "URL"
func Decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(r) && unicode.IsUpper(next) {
		return s
	}
	return lower.String(string(r)) + s[size:]
}

// Words splits a name on separators ('_', '-', '.', '/', ' ') and camelCase boundaries
func Words(s string) []string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && len(cur) > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// "fooBar" splits before B; "URLName" splits before N
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// CamelCase joins the words of s in lowerCamelCase: "max_count" -> "maxCount"
func CamelCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(lower.String(w))
			continue
		}
		b.WriteString(Capitalize(lower.String(w)))
	}
	return b.String()
}

// UpperSnakeCase joins the words of s in UPPER_SNAKE_CASE: "anotherId" -> "ANOTHER_ID"
func UpperSnakeCase(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = upper.String(w)
	}
	return strings.Join(words, "_")
}

// FieldName converts a literal (e.g., a codec key such as "max_count") into a field name
func FieldName(literal string) (string, bool) {
	name := CamelCase(literal)
	if name != "" && unicode.IsDigit([]rune(name)[0]) {
		name = "_" + name
	}
	return name, IsValidIdentifier(name)
}

// GetterName returns the accessor name for a field name
func GetterName(field string, boolean bool) string {
	if boolean {
		if strings.HasPrefix(field, "is") && len(field) > 2 && unicode.IsUpper([]rune(field)[2]) {
			return field
		}
		return "is" + Capitalize(field)
	}
	return "get" + Capitalize(field)
}

// SetterName returns the mutator name for a field name
func SetterName(field string) string {
	return "set" + Capitalize(field)
}

// FieldNameFromAccessor strips a get/set/is prefix: "getFoo" -> "foo".
// Names without a recognized prefix are returned unchanged with ok=false.
func FieldNameFromAccessor(method string) (string, bool) {
	for _, prefix := range []string{"get", "set", "is"} {
		rest, found := strings.CutPrefix(method, prefix)
		if !found || rest == "" {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest); !unicode.IsUpper(r) {
			continue
		}
		name := Decapitalize(rest)
		if IsValidIdentifier(name) {
			return name, true
		}
	}
	return method, false
}
