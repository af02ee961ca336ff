// Package security sanitizes third-party HTML before it is served to readers.
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans HTML fragments.
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

type articleSanitizer struct {
	policy *bluemonday.Policy
}

// NewArticleSanitizer returns a Sanitizer for article bodies. It keeps text
// formatting, links, images and figures and strips scripts, frames, styles and
// event handler attributes. Links open in a new tab without a referrer.
func NewArticleSanitizer() Sanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "hr", "ul", "ol", "li",
		"h2", "h3", "h4", "blockquote", "pre", "code",
		"strong", "em", "b", "i", "sub", "sup",
		"figure", "figcaption", "aside",
	)

	p.AllowAttrs("href").OnElements("a")
	p.RequireParseableURLs(true)
	p.AllowURLSchemes("https", "http", "mailto")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")

	return &articleSanitizer{policy: p}
}

func (s *articleSanitizer) Sanitize(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}
	return s.policy.Sanitize(rawHTML)
}
