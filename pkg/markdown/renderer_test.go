package markdown

import (
	"bytes"
	"strings"
	"testing"

	"htmlexport/pkg/htmlwriter"

	"github.com/stretchr/testify/require"
)

func TestRenderToHTML_BasicMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "headers",
			input:    "# Header 1\n## Header 2",
			contains: []string{"<h1", "Header 1", "<h2", "Header 2"},
		},
		{
			name:     "bold and italic",
			input:    "**bold text** and *italic text*",
			contains: []string{"<strong>bold text</strong>", "<em>italic text</em>"},
		},
		{
			name:     "code block",
			input:    "```\ncode block\nmore code\n```",
			contains: []string{"<pre>", "<code>", "code block", "more code"},
		},
		{
			name:     "unordered list",
			input:    "- Item 1\n- Item 2",
			contains: []string{"<ul>", "<li>Item 1</li>", "<li>Item 2</li>", "</ul>"},
		},
		{
			name:     "links",
			input:    "[Link text](https://example.com)",
			contains: []string{"<a href=\"https://example.com\"", "Link text</a>"},
		},
		{
			name:     "table",
			input:    "| A | B |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<th>A</th>", "<td>1</td>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderToHTML(tt.input)

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("RenderToHTML() result doesn't contain expected substring.\nExpected: %q\nResult: %s", expected, result)
				}
			}
		})
	}
}

func TestRenderToHTML_XSSPrevention(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		shouldBlock string
	}{
		{name: "script tag", input: "<script>alert('xss')</script>", shouldBlock: "<script>"},
		{name: "onclick handler", input: "<a href=\"#\" onclick=\"alert('xss')\">Click me</a>", shouldBlock: "onclick"},
		{name: "javascript protocol", input: "[Click me](javascript:alert('xss'))", shouldBlock: "javascript:"},
		{name: "iframe", input: "<iframe src=\"http://evil.com\"></iframe>", shouldBlock: "<iframe"},
		{name: "style tag", input: "<style>body { display: none; }</style>", shouldBlock: "<style>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderToHTML(tt.input)
			if strings.Contains(result, tt.shouldBlock) {
				t.Errorf("XSS vector not blocked.\nInput: %s\nBlocked string: %q\nResult: %s",
					tt.input, tt.shouldBlock, result)
			}
		})
	}
}

func TestRenderToHTML_Empty(t *testing.T) {
	require.Empty(t, strings.TrimSpace(RenderToHTML("")))
	require.Empty(t, strings.TrimSpace(RenderToHTML("   \n\n   ")))
}

func TestRenderToHTMLWithOptions_Strict(t *testing.T) {
	input := "# Header\n[Link](https://example.com)\n![Image](https://example.com/image.png)\n**Bold** text"

	result := RenderToHTMLWithOptions(input, RenderOptions{NoLinks: true, NoImages: true})

	require.Contains(t, result, "<h1")
	require.Contains(t, result, "<strong>Bold</strong>")
	require.Contains(t, result, "Link")
	require.NotContains(t, result, "href=")
	require.NotContains(t, result, "<img")
}

func TestRenderToHTMLWithOptions_NoImagesKeepsLinks(t *testing.T) {
	input := "[docs](https://example.com) ![logo](https://example.com/logo.png)"

	result := RenderToHTMLWithOptions(input, RenderOptions{NoImages: true})

	require.Contains(t, result, `href="https://example.com"`)
	require.NotContains(t, result, "<img")
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	w := htmlwriter.New(&buf)

	require.NoError(t, w.OpenTag("td", htmlwriter.A("_class", "content")))
	require.NoError(t, Write(w, "**bold** & <script>x</script>", RenderOptions{}))
	_, err := w.CloseTag()
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, `<td class="content">`))
	require.True(t, strings.HasSuffix(out, "</td>"))
	require.Contains(t, out, "<strong>bold</strong>")
	require.Contains(t, out, "&amp;")
	require.NotContains(t, out, "<script>")
}

func TestWrite_ClosedWriter(t *testing.T) {
	w := htmlwriter.New(&bytes.Buffer{})
	require.NoError(t, w.Close())
	require.ErrorIs(t, Write(w, "# x", RenderOptions{}), htmlwriter.ErrWriterClosed)
}
