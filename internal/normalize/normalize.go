package normalize

import "strings"

// Email returns the comparable form of an email address: trimmed and
// lower-cased.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
