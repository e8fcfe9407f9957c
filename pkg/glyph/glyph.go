// Package glyph handles the single-glyph emoji attached to every routine.
package glyph

import "strings"

// Fallback is used whenever a routine has no usable emoji of its own.
const Fallback = "🔁"

// Sanitize reduces raw input to exactly one glyph. Whitespace is trimmed and
// only the first remaining rune is kept. When nothing survives trimming the
// previous value is returned unchanged, so an empty emoji can never be
// committed; a previous that is itself empty degrades to Fallback.
func Sanitize(input, previous string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		if strings.TrimSpace(previous) == "" {
			return Fallback
		}
		return previous
	}
	runes := []rune(trimmed)
	return string(runes[0])
}

// Suggested returns the emoji offered by pickers, roughly ordered by how often
// they show up in routine names.
func Suggested() []string {
	return []string{
		"🔁", "💪", "🧘", "🏃", "📚", "💧", "🪴", "🧹", "🌙", "🦷",
	}
}
