// Package strings holds the small text helpers shared by modules and feed adapters
package strings

import (
	std "strings"

	"golang.org/x/text/unicode/norm"
)

// Or returns in, or def when in has no elements
func Or[T any](in, def []T) []T {
	if len(in) > 0 {
		return in
	}
	return def
}

// MustString panics with "<what> is required" when s is blank
func MustString(s, what string) string {
	if std.TrimSpace(s) == "" {
		panic(what + " is required")
	}
	return s
}

// MustPrefix turns " outage/ " into "/outage". The bare root is rejected
func MustPrefix(s string) string {
	p := std.Trim(std.TrimSpace(s), "/ ")
	if p == "" {
		panic("root path is required")
	}
	return "/" + p
}

// every apostrophe variant the feeds use folds to U+02BC
var apostrophes = std.NewReplacer("'", "ʼ", "’", "ʼ", "‘", "ʼ", "`", "ʼ", "′", "ʼ")

// NormalizeName makes place names comparable across feeds
func NormalizeName(s string) string {
	return std.Join(std.Fields(apostrophes.Replace(norm.NFC.String(s))), " ")
}

// StripQuotes drops every double quote then trims
func StripQuotes(s string) string {
	return std.TrimSpace(std.ReplaceAll(s, `"`, ""))
}
