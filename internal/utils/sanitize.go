package utils

import "regexp"

// MaxSanitizedLen caps user-supplied free text before it reaches prompts,
// stores or logs.
const MaxSanitizedLen = 1000

// Word characters must cover all scripts, not just ASCII, so study text in
// Cyrillic, CJK and the like survives sanitization.
var disallowedChars = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?'"]`)

// SanitizeInput strips every character outside word characters, whitespace
// and basic punctuation, then truncates to MaxSanitizedLen runes. It never
// fails; empty input yields an empty string.
func SanitizeInput(text string) string {
	if text == "" {
		return ""
	}
	cleaned := disallowedChars.ReplaceAllString(text, "")
	runes := []rune(cleaned)
	if len(runes) > MaxSanitizedLen {
		runes = runes[:MaxSanitizedLen]
	}
	return string(runes)
}
