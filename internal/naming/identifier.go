package naming

import "unicode"

// javaKeywords are reserved words and literals that can never be used as names
var javaKeywords = map[string]bool{
	"abstract":     true,
	"assert":       true,
	"boolean":      true,
	"break":        true,
	"byte":         true,
	"case":         true,
	"catch":        true,
	"char":         true,
	"class":        true,
	"const":        true,
	"continue":     true,
	"default":      true,
	"do":           true,
	"double":       true,
	"else":         true,
	"enum":         true,
	"extends":      true,
	"final":        true,
	"finally":      true,
	"float":        true,
	"for":          true,
	"goto":         true,
	"if":           true,
	"implements":   true,
	"import":       true,
	"instanceof":   true,
	"int":          true,
	"interface":    true,
	"long":         true,
	"native":       true,
	"new":          true,
	"package":      true,
	"private":      true,
	"protected":    true,
	"public":       true,
	"return":       true,
	"short":        true,
	"static":       true,
	"strictfp":     true,
	"super":        true,
	"switch":       true,
	"synchronized": true,
	"this":         true,
	"throw":        true,
	"throws":       true,
	"transient":    true,
	"try":          true,
	"void":         true,
	"volatile":     true,
	"while":        true,
	"_":            true,

	// Literals
	"true":  true,
	"false": true,
	"null":  true,
}

// IsKeyword reports whether name is a Java reserved word or literal
func IsKeyword(name string) bool {
	return javaKeywords[name]
}

// IsValidIdentifier checks if a string is a usable Java identifier
// Rejects empty strings, keywords, and anything with spaces, operators, etc.
func IsValidIdentifier(name string) bool {
	if name == "" || IsKeyword(name) {
		return false
	}

	for i, ch := range name {
		if i == 0 {
			if !(unicode.IsLetter(ch) || ch == '_' || ch == '$') {
				return false
			}
			continue
		}
		if !(unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '$') {
			return false
		}
	}
	return true
}
