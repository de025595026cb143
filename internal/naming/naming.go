package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// CamelToSnake converts a CamelCase string to snake_case.
// Consecutive uppercase letters (acronyms) are kept together:
// "ID" → "id", "UserID" → "user_id", "CreatedAt" → "created_at".
func CamelToSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				next := rune(0)
				if i+1 < len(runes) {
					next = runes[i+1]
				}
				if unicode.IsLower(prev) || (unicode.IsUpper(prev) && unicode.IsLower(next)) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Underscore converts camelCase, CamelCase and dasherized names to
// snake_case: "logoPath" → "logo_path", "preprint-provider" → "preprint_provider".
func Underscore(s string) string {
	return strings.NewReplacer("-", "_", " ", "_").Replace(CamelToSnake(s))
}

// Dasherize converts a CamelCase or snake_case name to a dasherized one:
// "PreprintProvider" → "preprint-provider".
func Dasherize(s string) string {
	return strings.ReplaceAll(Underscore(s), "_", "-")
}

// PathForType returns the URL path segment for a resource type:
// "preprint-provider" → "preprint_providers".
func PathForType(resourceType string) string {
	return inflection.Plural(Underscore(resourceType))
}
