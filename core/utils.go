package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// SlugifyCode turns a unit code into a path-safe slug, e.g. "MAT 2101" -> "mat-2101".
func SlugifyCode(code string) string {
	return strings.ReplaceAll(CleanString(code, true /* lower */), " ", "-")
}
