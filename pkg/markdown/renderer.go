package markdown

import (
	"sync"

	"htmlexport/pkg/htmlwriter"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// RenderOptions restricts what the sanitized output may contain.
type RenderOptions struct {
	NoLinks  bool
	NoImages bool
}

// policies caches one sanitizer per RenderOptions. bluemonday policies are
// safe for concurrent use once built.
var policies sync.Map

// RenderToHTML converts markdown text to sanitized HTML.
// It uses blackfriday for markdown parsing and bluemonday for HTML sanitization
// to prevent XSS attacks while preserving safe formatting.
func RenderToHTML(markdown string) string {
	return RenderToHTMLWithOptions(markdown, RenderOptions{})
}

// RenderToHTMLWithOptions is RenderToHTML with links and/or images removed.
// Link and image text is kept.
func RenderToHTMLWithOptions(markdown string, opts RenderOptions) string {
	unsafeHTML := blackfriday.Run(
		[]byte(markdown),
		blackfriday.WithExtensions(
			blackfriday.CommonExtensions|
				blackfriday.AutoHeadingIDs|
				blackfriday.Footnotes,
		),
	)
	return string(policyFor(opts).SanitizeBytes(unsafeHTML))
}

// Write renders markdown and writes the sanitized fragment to w. The
// fragment is already escaped, so it goes through WriteRaw.
func Write(w *htmlwriter.Writer, markdown string, opts RenderOptions) error {
	return w.WriteRaw(RenderToHTMLWithOptions(markdown, opts))
}

func policyFor(opts RenderOptions) *bluemonday.Policy {
	if p, ok := policies.Load(opts); ok {
		return p.(*bluemonday.Policy)
	}
	p, _ := policies.LoadOrStore(opts, newPolicy(opts))
	return p.(*bluemonday.Policy)
}

func newPolicy(opts RenderOptions) *bluemonday.Policy {
	var policy *bluemonday.Policy
	if !opts.NoLinks && !opts.NoImages {
		// UGCPolicy allows user-generated content with safe HTML tags
		policy = bluemonday.UGCPolicy()
	} else {
		policy = bluemonday.NewPolicy()
		policy.AllowStandardAttributes()
		policy.AllowElements(
			"p", "br", "hr", "div", "span",
			"strong", "em", "b", "i", "del", "s", "sup", "sub",
			"blockquote", "pre", "code",
			"h1", "h2", "h3", "h4", "h5", "h6",
		)
		policy.AllowLists()
		policy.AllowTables()
		if !opts.NoLinks {
			policy.AllowStandardURLs()
			policy.AllowAttrs("href").OnElements("a")
			policy.RequireNoFollowOnLinks(true)
		}
		if !opts.NoImages {
			policy.AllowStandardURLs()
			policy.AllowImages()
		}
	}

	// Allow additional safe attributes for better formatting
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span")
	policy.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return policy
}
