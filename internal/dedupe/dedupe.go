// Package dedupe collapses news items that share a normalized title.
package dedupe

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/DeafMist/quiet-radar/internal/models"
	"github.com/DeafMist/quiet-radar/internal/processing"
)

// TitlePrefix is how many normalized characters take part in the fingerprint.
const TitlePrefix = 60

// Fingerprint hashes the normalized 60-character title prefix. It returns
// false for titles that are empty or whitespace only.
func Fingerprint(title string) (string, bool) {
	if strings.TrimSpace(title) == "" {
		return "", false
	}
	s := sha1.Sum([]byte(processing.NormalizeTitle(title, TitlePrefix)))
	return hex.EncodeToString(s[:]), true
}

// Items keeps the first item per fingerprint and drops untitled items.
// Relative order of the kept items is preserved.
func Items(items []models.NewsItem) []models.NewsItem {
	seen := make(map[string]struct{}, len(items))
	unique := make([]models.NewsItem, 0, len(items))

	for _, item := range items {
		key, ok := Fingerprint(item.Title)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}

	return unique
}
