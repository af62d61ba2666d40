package tags

import (
	"regexp"
	"strings"
)

const DefaultColor = "#6B7280"

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	slugSpacing  = regexp.MustCompile(`[\s_-]+`)
	hexColor     = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// GenerateSlug converts a tag name to a URL-friendly slug.
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = slugSpacing.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func IsValidHexColor(color string) bool {
	return hexColor.MatchString(color)
}

// Named is a tag name together with its slug.
type Named struct {
	Name string
	Slug string
}

// Normalize trims names, drops the ones without a usable slug and keeps the first
// spelling of each slug, in input order.
func Normalize(names []string) []Named {
	seen := make(map[string]bool, len(names))
	out := make([]Named, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := GenerateSlug(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, Named{Name: name, Slug: slug})
	}
	return out
}
