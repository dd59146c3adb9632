// Package profanity screens customer supplied text (names, custom event
// types) against a Spanish blocklist and a handful of spam patterns.
package profanity

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MsgInappropriate is shown when the text contains blocked content.
	MsgInappropriate = "El contenido ingresado contiene palabras o frases inapropiadas. Por favor, utiliza un lenguaje respetuoso y apropiado para eventos familiares."
	// MsgInvalidEventType is shown when a custom event type is rejected.
	MsgInvalidEventType = "Por favor, ingresa un tipo de evento válido y apropiado para un restaurante familiar (ej: Cumpleaños, Boda, Evento Corporativo, Graduación, etc.)."
)

const letters = `a-zA-ZáéíóúüñÁÉÍÓÚÜÑ`

var (
	blockedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(fuck|shit|damn|hell|bitch|asshole|bastard)\b`),
		regexp.MustCompile(`(?i)\b(drug\s+deal|sell\s+drugs|buy\s+drugs)\b`),
		regexp.MustCompile(`(?i)\b(kill\s+someone|murder\s+plan|assassination)\b`),
		regexp.MustCompile(`(?i)\b(sex\s+party|orgy|gang\s+bang)\b`),
		regexp.MustCompile(`(?i)\b(nazi\s+party|white\s+power|heil\s+hitler)\b`),
		regexp.MustCompile(`(?i)\b(suicide\s+pact|mass\s+suicide)\b`),
		regexp.MustCompile(`(?i)\b(money\s+laundering|tax\s+evasion)\b`),
		// only symbols or digits
		regexp.MustCompile(`^[^` + letters + `\s]{5,}$`),
		regexp.MustCompile(`^\s*[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]+\s*$`),
	}

	hasLetter       = regexp.MustCompile(`[` + letters + `]`)
	plainName       = regexp.MustCompile(`^[` + letters + `\s\-'.,]+$`)
	spaces          = regexp.MustCompile(`\s+`)
	disallowedChars = regexp.MustCompile(`[^\w\sáéíóúüñÁÉÍÓÚÜÑ\-'.,]`)
)

// ContainsInappropriate reports whether text contains a blocked term, a
// blocked phrase or spam-like content.
func ContainsInappropriate(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return false
	}
	for _, w := range blockedTerms {
		if strings.Contains(normalized, w) {
			return true
		}
	}
	if repeatsRune(normalized, 5) {
		return true
	}
	for _, re := range blockedPatterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

// IsValidEventType reports whether text is acceptable as the name of a
// custom event type.
func IsValidEventType(text string) bool {
	trimmed := strings.TrimSpace(text)
	n := utf8.RuneCountInString(trimmed)
	if n < 3 || n > 50 {
		return false
	}
	if ContainsInappropriate(trimmed) {
		return false
	}
	if !hasLetter.MatchString(trimmed) {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, k := range eventKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return plainName.MatchString(trimmed)
}

// Sanitize collapses whitespace, strips characters outside the allowed
// set and truncates the result to 100 characters.
func Sanitize(text string) string {
	s := spaces.ReplaceAllString(strings.TrimSpace(text), " ")
	s = disallowedChars.ReplaceAllString(s, "")
	if utf8.RuneCountInString(s) > 100 {
		s = string([]rune(s)[:100])
	}
	return s
}

// Message returns the user facing rejection message for text, or an empty
// string when text is acceptable as an event type.
func Message(text string) string {
	if ContainsInappropriate(text) {
		return MsgInappropriate
	}
	if !IsValidEventType(text) {
		return MsgInvalidEventType
	}
	return ""
}

// repeatsRune reports whether any rune occurs n or more times in a row.
func repeatsRune(s string, n int) bool {
	var prev rune
	run := 0
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}
