package blog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 64

var (
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	slugSeparate = regexp.MustCompile(`[^a-z0-9_]+`)
)

// Slugify folds title into a URL slug: accents are stripped, runs of
// other characters become single hyphens. Titles with no Latin letters
// or digits yield an empty slug.
func Slugify(title string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, title)
	if err != nil {
		folded = title
	}
	slug := slugSeparate.ReplaceAllString(strings.ToLower(folded), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

func validSlug(slug string) bool {
	return len(slug) <= maxSlugLength && slugPattern.MatchString(slug)
}
