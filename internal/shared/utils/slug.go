package utils

import (
	"strings"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a title into a URL-safe ASCII slug.
// "Đà Lạt in Autumn!" → "da-lat-in-autumn", "Привет мир" → "privet-mir"
func Slugify(input string) string {
	// Step 1: Transliterate to ASCII
	ascii := Transliterate(input)

	// Step 2: Lowercase, collapse every non-alphanumeric run into one hyphen
	var b strings.Builder
	b.Grow(len(ascii))
	pendingHyphen := false

	for _, r := range strings.ToLower(ascii) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// Transliterate maps text to its closest ASCII spelling: "Nguyễn" → "Nguyen", "Straße" → "Strasse".
// Input is composed first so decomposed accents transliterate like precomposed ones.
func Transliterate(input string) string {
	return unidecode.Unidecode(norm.NFC.String(input))
}
