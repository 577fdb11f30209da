package service

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	maxSlugBase = 100
	slugRetries = 3
)

// Slugify lowercases title and joins its alphanumeric runs with dashes.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")

	runes := []rune(slug)
	if len(runes) > maxSlugBase {
		slug = strings.TrimSuffix(string(runes[:maxSlugBase]), "-")
	}
	return slug
}

// articleSlug makes a unique slug by suffixing the unix milliseconds.
func articleSlug(title string, now time.Time) string {
	base := Slugify(title)
	if base == "" {
		base = "article"
	}
	return base + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// withSlugNonce appends a short random suffix to a slug that collided.
func withSlugNonce(slug string) string {
	return slug + "-" + uuid.NewString()[:6]
}
