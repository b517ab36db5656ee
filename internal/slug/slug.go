// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lowercases s, strips diacritics and collapses every run of
// characters outside [a-z0-9] into a single hyphen. The result never starts
// or ends with a hyphen and may be empty. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	// transform.Chain keeps state, so it is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = nonAlnum.ReplaceAllString(folded, "-")
	return strings.Trim(folded, "-")
}

// Valid reports whether s is already in normalized form.
func Valid(s string) bool {
	return s != "" && Normalize(s) == s
}
