// Package markup rewrites embedded blog HTML into lightly formatted plain
// text. Conversion is a fixed-order chain of pattern rewrites, not parsing:
// later rules operate on the already-partially-converted string, and
// anything unrecognized is stripped best-effort with its inner text kept.
package markup

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/starford/laguz/internal/models"
)

// DefaultExcerptLen bounds derived excerpts unless the caller overrides it.
const DefaultExcerptLen = 200

var (
	scriptRe  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)

	headingRe    = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	paragraphRe  = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	breakRe      = regexp.MustCompile(`(?i)<br[^>]*/?>`)
	boldRe       = regexp.MustCompile(`(?is)<(?:strong|b)\b[^>]*>(.*?)</(?:strong|b)>`)
	italicRe     = regexp.MustCompile(`(?is)<(?:em|i)\b[^>]*>(.*?)</(?:em|i)>`)
	linkRe       = regexp.MustCompile(`(?is)<a[^>]+href=["']([^"']+)["'][^>]*>(.*?)</a>`)
	imgAltRe     = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["'][^>]*alt=["']([^"']*)["'][^>]*/?>`)
	imgRe        = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["'][^>]*/?>`)
	olBlockRe    = regexp.MustCompile(`(?is)<ol[^>]*>(.*?)</ol>`)
	ulOpenRe     = regexp.MustCompile(`(?i)<ul[^>]*>`)
	ulCloseRe    = regexp.MustCompile(`(?i)</ul>`)
	listItemRe   = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	blockquoteRe = regexp.MustCompile(`(?is)<blockquote[^>]*>(.*?)</blockquote>`)
	preCodeRe    = regexp.MustCompile(`(?is)<pre[^>]*><code[^>]*>(.*?)</code></pre>`)
	preRe        = regexp.MustCompile(`(?is)<pre[^>]*>(.*?)</pre>`)
	codeRe       = regexp.MustCompile(`(?is)<code[^>]*>(.*?)</code>`)

	tagRe          = regexp.MustCompile(`<[^>]+>`)
	multiNewlineRe = regexp.MustCompile(`\n\s*\n\s*\n`)
	hspaceRe       = regexp.MustCompile(`[ \t]+`)
	wsRe           = regexp.MustCompile(`\s+`)

	excerptPunctRe = regexp.MustCompile("[*_`#>\\-\\[\\]()]")
)

// Convert rewrites src into plain text and derives a bounded excerpt from the
// converted result. Empty or whitespace-only input deterministically yields
// an empty result; deciding whether that makes the record publishable is the
// caller's job. excerptMaxLen <= 0 selects DefaultExcerptLen.
func Convert(src string, excerptMaxLen int) models.ConvertedBody {
	if strings.TrimSpace(src) == "" {
		return models.ConvertedBody{}
	}

	text := src

	// Executable and style blocks are removed outright, content included.
	text = scriptRe.ReplaceAllString(text, "")
	text = styleRe.ReplaceAllString(text, "")
	text = commentRe.ReplaceAllString(text, "")

	text = html.UnescapeString(text)

	text = headingRe.ReplaceAllStringFunc(text, rewriteHeading)
	text = paragraphRe.ReplaceAllString(text, "$1\n\n")
	text = breakRe.ReplaceAllString(text, "\n")

	text = boldRe.ReplaceAllString(text, "**$1**")
	text = italicRe.ReplaceAllString(text, "*$1*")

	text = linkRe.ReplaceAllString(text, "[$2]($1)")
	text = imgAltRe.ReplaceAllString(text, "![$2]($1)")
	text = imgRe.ReplaceAllString(text, "![]($1)")

	// Ordered lists first: their items get sequential numbers, then any
	// remaining items belong to unordered (or orphaned) lists.
	text = olBlockRe.ReplaceAllStringFunc(text, rewriteOrderedList)
	text = ulOpenRe.ReplaceAllString(text, "")
	text = ulCloseRe.ReplaceAllString(text, "\n")
	text = listItemRe.ReplaceAllString(text, "- $1\n")

	text = blockquoteRe.ReplaceAllString(text, "> $1")
	text = preCodeRe.ReplaceAllString(text, "```\n$1\n```")
	text = preRe.ReplaceAllString(text, "```\n$1\n```")
	text = codeRe.ReplaceAllString(text, "`$1`")

	text = tagRe.ReplaceAllString(text, "")

	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	text = hspaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	return models.ConvertedBody{
		Text:    text,
		Excerpt: Excerpt(text, excerptMaxLen),
	}
}

// rewriteHeading turns <hN>…</hN> into a run of N '#' characters followed by
// the element's inner text with nested tags stripped.
func rewriteHeading(match string) string {
	parts := headingRe.FindStringSubmatch(match)
	if parts == nil {
		return match
	}
	level := int(parts[1][0] - '0')
	return strings.Repeat("#", level) + " " + stripTags(parts[2])
}

// rewriteOrderedList numbers the items of one <ol> block, restarting at 1.
func rewriteOrderedList(block string) string {
	parts := olBlockRe.FindStringSubmatch(block)
	if parts == nil {
		return block
	}
	n := 0
	out := listItemRe.ReplaceAllStringFunc(parts[1], func(item string) string {
		inner := listItemRe.FindStringSubmatch(item)
		if inner == nil {
			return item
		}
		n++
		return fmt.Sprintf("%d. %s\n", n, strings.TrimSpace(inner[1]))
	})
	return out + "\n"
}

// stripTags reduces a markup fragment to its plain inner text.
func stripTags(src string) string {
	text := scriptRe.ReplaceAllString(src, "")
	text = styleRe.ReplaceAllString(text, "")
	text = commentRe.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = tagRe.ReplaceAllString(text, "")
	text = wsRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Excerpt strips residual formatting punctuation from converted text,
// collapses whitespace, and truncates to maxLen runes. Truncation prefers
// the nearest preceding word boundary when that keeps at least 80% of
// maxLen; truncated excerpts end with an ellipsis marker.
func Excerpt(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultExcerptLen
	}
	if text == "" {
		return ""
	}

	plain := excerptPunctRe.ReplaceAllString(text, "")
	plain = wsRe.ReplaceAllString(plain, " ")
	plain = strings.TrimSpace(plain)

	runes := []rune(plain)
	if len(runes) <= maxLen {
		return plain
	}

	truncated := runes[:maxLen]
	lastSpace := -1
	for i, r := range truncated {
		if r == ' ' {
			lastSpace = i
		}
	}
	if float64(lastSpace) > float64(maxLen)*0.8 {
		truncated = truncated[:lastSpace]
	}
	return string(truncated) + "..."
}
