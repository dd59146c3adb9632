package utils

import (
	"strings"
	"unicode"
)

const vowels = "aeiouáéíóúü"

// FormatPersonName normalizes a customer name for display: whitespace and
// underscores collapse to single spaces, camel case is split ("anaRuiz" ->
// "Ana Ruiz") and every word is title-cased.  A single all-letter token of
// six or more letters is split at vowel/consonant boundaries into two words,
// or three words when it has twelve or more letters.
func FormatPersonName(raw string) string {
	s := strings.Join(strings.Fields(strings.ReplaceAll(raw, "_", " ")), " ")
	if s == "" {
		return ""
	}
	s = splitCamel(s)
	if !strings.Contains(s, " ") {
		s = splitToken(strings.ToLower(s))
	}
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Initials returns the upper-cased first letter of each word of name.
func Initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		r := []rune(w)
		b.WriteRune(unicode.ToUpper(r[0]))
	}
	return b.String()
}

func splitCamel(s string) string {
	r := []rune(s)
	var b strings.Builder
	for i, c := range r {
		if i > 0 && unicode.IsLower(r[i-1]) && unicode.IsUpper(c) {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func splitToken(s string) string {
	r := []rune(s)
	n := len(r)
	if n < 6 {
		return s
	}
	for _, c := range r {
		if !unicode.IsLetter(c) {
			return s
		}
	}
	isVowel := func(c rune) bool { return strings.ContainsRune(vowels, c) }
	boundary := func(i int) bool {
		if i <= 1 || i >= n-1 {
			return false
		}
		return isVowel(r[i-1]) && !isVowel(r[i])
	}
	near := func(target int) int {
		maxD := min(6, max(target, n-target))
		for d := 0; d <= maxD; d++ {
			if boundary(target - d) {
				return target - d
			}
			if boundary(target + d) {
				return target + d
			}
		}
		return min(max(2, target), n-2)
	}
	round := func(num, den int) int { return (2*num + den) / (2 * den) }

	if n >= 12 {
		i := near(round(n, 3))
		j := near(round(2*n, 3))
		if j-i < 2 {
			j = min(n-2, i+2)
		}
		if i >= 2 && j <= n-2 {
			return string(r[:i]) + " " + string(r[i:j]) + " " + string(r[j:])
		}
	}
	k := near(n / 2)
	return string(r[:k]) + " " + string(r[k:])
}
