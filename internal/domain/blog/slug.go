package blog

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength caps generated slugs
const MaxSlugLength = 100

// Slugify converts arbitrary text to a URL slug: diacritics are stripped,
// letters lower-cased and every run of other characters collapsed to a dash.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}

// WithSuffix returns slug-n, shortening slug so the result stays within MaxSlugLength
func WithSuffix(slug string, n int) string {
	suffix := "-" + strconv.Itoa(n)
	if len(slug)+len(suffix) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength-len(suffix)], "-")
	}
	return slug + suffix
}

// IsValidSlug reports whether s is already in slug form
func IsValidSlug(s string) bool {
	return s != "" && Slugify(s) == s
}
