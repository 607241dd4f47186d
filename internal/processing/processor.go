package processing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	markup      = regexp.MustCompile(`<[^>]+>`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}]+`)
)

// NormalizeTitle lowercases the title, drops everything that is neither a
// word character nor whitespace, squeezes whitespace and keeps the first
// maxRunes characters. maxRunes <= 0 disables truncation.
func NormalizeTitle(title string, maxRunes int) string {
	if title == "" {
		return ""
	}
	clean := punctuation.ReplaceAllString(strings.ToLower(title), "")
	clean = strings.Join(strings.Fields(clean), " ")
	return Truncate(clean, maxRunes)
}

// StripMarkup removes anything that looks like a tag. Entities are left as is.
func StripMarkup(input string) string {
	if input == "" {
		return ""
	}
	return markup.ReplaceAllString(input, "")
}

// Truncate keeps at most maxRunes characters of s. maxRunes <= 0 returns s unchanged.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes])
}

// Capitalize upper-cases the first character and lower-cases the rest,
// so "armed group" becomes "Armed group" and "m23" becomes "M23".
func Capitalize(word string) string {
	if word == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(first)) + strings.ToLower(word[size:])
}

// Haystack is the lowercased text every matcher runs against.
func Haystack(title, body string) string {
	return strings.ToLower(title + " " + body)
}
