// Package markup strips and filters user-supplied HTML.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/artpar/themedesigner/domain/settings"
)

// Filter implements settings.Markup.
// StripTags removes all markup and returns the text content.
// FilterPost keeps the tags allowed in user-generated post content.
type Filter struct {
	post *bluemonday.Policy
}

// New creates a filter using bluemonday's UGC policy for post content.
func New() *Filter {
	return &Filter{post: bluemonday.UGCPolicy()}
}

// textEscaper re-escapes the characters that would read as markup once the
// text is stored. Quotes are left alone.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// StripTags removes tags from s, dropping script and style elements, and
// trims the result. Entities are never decoded into markup: input without
// tags is returned as-is, and text taken from parsed HTML is re-escaped.
// The result contains no tags, so StripTags(StripTags(s)) == StripTags(s).
func (f *Filter) StripTags(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		// Fall back to the strict policy, which drops every element.
		return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(s))
	}
	doc.Find("script, style").Remove()
	return strings.TrimSpace(textEscaper.Replace(doc.Text()))
}

// FilterPost removes elements and attributes not allowed in post content.
// Text is HTML-escaped on output, quotes included, so `It's "great"` is
// returned as `It&#39;s &#34;great&#34;`. Filtering escaped output again
// yields the same string.
func (f *Filter) FilterPost(s string) string {
	return f.post.Sanitize(s)
}

var _ settings.Markup = (*Filter)(nil)
