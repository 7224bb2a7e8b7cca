package schema

import (
	"strings"
	"unicode"
)

// CamelToKebab converts a camelCase name to kebab-case by inserting a dash
// between a lowercase letter and the uppercase letter after it, then
// lowercasing everything. Runs of capitals are not split, so "maxHTTPConns"
// becomes "max-httpconns".
func CamelToKebab(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 4)

	prevLower := false

	for _, r := range s {
		if prevLower && unicode.IsUpper(r) {
			sb.WriteByte('-')
		}

		prevLower = unicode.IsLower(r)

		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}

// KebabToCamel converts a kebab-case key to camelCase. It is the inverse of
// [CamelToKebab] for names without runs of capitals.
func KebabToCamel(s string) string {
	parts := strings.Split(s, "-")

	var sb strings.Builder

	sb.Grow(len(s))

	for i, part := range parts {
		if part == "" {
			continue
		}

		if i == 0 {
			sb.WriteString(part)
			continue
		}

		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		sb.WriteString(string(r))
	}

	return sb.String()
}
