// Package quoting provides identifier and string quoting for SQLite SQL text.
package quoting

import "strings"

// DoubleQuote quotes a SQL identifier using double quotes.
// Internal double quotes are escaped by doubling them.
func DoubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// QualifiedName quotes each dot-separated part of name and rejoins them,
// so "users.id" becomes "users"."id".
func QualifiedName(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = DoubleQuote(p)
	}
	return strings.Join(parts, ".")
}

// EscapeString escapes a string literal by doubling single quotes.
// SQLite treats backslash as an ordinary character, so it is left alone.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// QuoteString escapes s and wraps it in single quotes.
func QuoteString(s string) string {
	return "'" + EscapeString(s) + "'"
}

// EscapeLikePattern escapes LIKE wildcard characters (%, _) in a string
// so they are matched literally. The backslash is used as the escape character.
func EscapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
