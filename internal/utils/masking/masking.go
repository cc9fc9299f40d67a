// Package masking hides purchaser identity in storefront responses.
package masking

import "strings"

// KeepFirstThree keeps the first three characters and stars the rest.
// Strings of three characters or fewer pass through unchanged.
func KeepFirstThree(s string) string {
	if len(s) <= 3 {
		return s
	}
	return s[:3] + strings.Repeat("*", len(s)-3)
}

// KeepLastThree stars everything except the last three characters.
func KeepLastThree(s string) string {
	if len(s) <= 3 {
		return s
	}
	return strings.Repeat("*", len(s)-3) + s[len(s)-3:]
}
