package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery canonicalizes raw search-box input: Unicode NFC (so that
// precomposed and decomposed Devanagari compare equal), lowercase, and single
// spaces between words.
func NormalizeQuery(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeKey is NormalizeQuery for dictionary keys loaded from data assets.
func NormalizeKey(s string) string {
	return NormalizeQuery(s)
}

// IsNumeric reports whether s is non-empty and made only of digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// UniqueStrings returns items without duplicates or empty strings, keeping the
// first occurrence of each.
func UniqueStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
