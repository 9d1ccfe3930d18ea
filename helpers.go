package crimepress

import (
	"net/url"
	"regexp"
	"strings"
)

// slugPattern matches the allowed slug charset: Latin lowercase letters,
// digits, hyphens, and Arabic letters. Enforced at the form layer.
var slugPattern = regexp.MustCompile(`^[a-z0-9\x{0600}-\x{06FF}-]+$`)

// emailPattern is the same loose shape check the public forms apply.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidSlug reports whether s is a non-empty slug in the allowed charset.
func ValidSlug(s string) bool {
	return s != "" && slugPattern.MatchString(s)
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Slugify converts a title to a URL-safe slug. Arabic letters are kept as-is
// since slugs on this site are Arabic-first.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r >= 0x0600 && r <= 0x06FF:
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
// Segments are used verbatim, so callers escape Arabic slugs themselves.
func BuildURL(base string, pathSegments ...string) string {
	if len(pathSegments) == 0 {
		return base
	}
	b := strings.TrimSuffix(base, "/")
	for _, seg := range pathSegments {
		b += "/" + strings.Trim(seg, "/")
	}
	return b + "/"
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}
