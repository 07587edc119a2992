package posts

import (
	"regexp"
	"strings"
)

const (
	// Suffix is the file extension every post file carries.
	Suffix = ".md"

	// fallbackName is used when a title normalizes to an empty slug.
	fallbackName = "untitled"
)

var (
	disallowedRe = regexp.MustCompile(`[^\w\s-]`)
	separatorRe  = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts a post title into its canonical slug: everything outside
// word characters, whitespace, and hyphens is dropped, runs of whitespace and
// hyphens collapse to a single hyphen, leading/trailing hyphens are trimmed,
// and the result is lower-cased. Total over any input; may return "".
func Slugify(title string) string {
	s := disallowedRe.ReplaceAllString(title, "")
	s = separatorRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return strings.ToLower(s)
}

// Filename derives the content filename for a title. Titles that normalize
// to an empty slug fall back to "untitled.md" rather than producing an
// unusable name.
func Filename(title string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = fallbackName
	}
	return slug + Suffix
}

// TitleFromFilename reconstructs a display title from a filename when the
// file itself contains no usable title line: the suffix is stripped, hyphens
// become spaces, and each word is capitalized.
func TitleFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, Suffix)
	words := strings.Split(strings.ReplaceAll(name, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
