// Package htmltext turns HTML fragments back into plain text: tag stripping,
// entity decoding, and word counting for reading-time estimates.
package htmltext

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reTag     = regexp.MustCompile(`<[^>]*>`)
	reDecimal = regexp.MustCompile(`&#(\d+);`)
	reSpace   = regexp.MustCompile(`\s+`)
)

var namedEntities = strings.NewReplacer(
	"&quot;", `"`,
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&apos;", "'",
	"&nbsp;", " ",
)

// StripTags removes all HTML tags from s, leaving the text content.
func StripTags(s string) string {
	return reTag.ReplaceAllString(s, "")
}

// DecodeEntities resolves numeric character references and the common named
// entities. Unknown references pass through unchanged.
func DecodeEntities(s string) string {
	s = reDecimal.ReplaceAllStringFunc(s, func(m string) string {
		code, err := strconv.Atoi(m[2 : len(m)-1])
		if err != nil {
			return m
		}
		return string(rune(code))
	})
	return namedEntities.Replace(s)
}

// WordCount strips tags and counts whitespace-separated words.
func WordCount(html string) int {
	text := strings.TrimSpace(StripTags(html))
	if text == "" {
		return 0
	}
	return len(reSpace.Split(text, -1))
}
