package utils

import "strings"

// NormalizePlate strips spaces and dashes from a license plate and
// uppercases it, so stored plates match partial search input.
func NormalizePlate(raw string) string {
	normalized := strings.TrimSpace(raw)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	return strings.ToUpper(normalized)
}

// Truncate cuts s to at most max runes. The hosted store enforces column
// widths by erroring, so writes trim client-side instead.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
