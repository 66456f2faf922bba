package exporter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"htmlexport/pkg/contentkind"
	"htmlexport/pkg/htmlwriter"
	"htmlexport/pkg/markdown"
	"htmlexport/pkg/transcript"
)

// ErrUnbalanced is returned when a closed element is not the one expected.
var ErrUnbalanced = errors.New("exporter: unbalanced document")

const (
	dateLayout      = "2006-01-02"
	shortTimeLayout = "15:04:05"
	longTimeLayout  = "Monday 02 of January 2006, 15:04:05"
)

const stylesheet = `body{font-family:sans-serif;margin:0 auto;max-width:960px}
.dates{padding:8px;text-align:center}
table{border-collapse:collapse;width:100%}
td{padding:2px 6px;vertical-align:top}
td.time,td.stream{color:#888;white-space:nowrap}
td.content{font-family:monospace}
tr.stderr td.content{color:#b00}
tr.stdin td.content{color:#06c}
.binary{color:#888;font-style:italic}
.footer{color:#888;font-size:small;padding:8px;text-align:center}
`

// Page is one HTML document of an export.
type Page struct {
	Title string
	// Date is the day this page covers; empty for a single-page document.
	Date      string
	Prev      string
	Next      string
	Entries   []transcript.Entry
	FirstID   int
	Host      string
	Generated time.Time
}

// PageFileName returns the file name of the page for date.
func PageFileName(date string) string {
	return date + ".html"
}

// pageWriter wraps a Writer and keeps the first error, so a page can be
// written as a sequence of calls and checked once.
type pageWriter struct {
	w   *htmlwriter.Writer
	err error
}

func (p *pageWriter) raw(s string) {
	if p.err == nil {
		p.err = p.w.WriteRaw(s)
	}
}

func (p *pageWriter) text(s string) {
	if p.err == nil {
		p.err = p.w.WriteText(s)
	}
}

func (p *pageWriter) tag(name string, attrs ...htmlwriter.Attr) {
	if p.err == nil {
		p.err = p.w.Tag(name, attrs...)
	}
}

func (p *pageWriter) open(name string, attrs ...htmlwriter.Attr) {
	if p.err == nil {
		p.err = p.w.OpenTag(name, attrs...)
	}
}

func (p *pageWriter) close(want string) {
	if p.err != nil {
		return
	}
	got, err := p.w.CloseTag()
	if err != nil {
		p.err = err
		return
	}
	if got != want {
		p.err = fmt.Errorf("%w: closed <%s>, expected <%s>", ErrUnbalanced, got, want)
	}
}

func (p *pageWriter) element(name, text string, attrs ...htmlwriter.Attr) {
	p.open(name, attrs...)
	p.text(text)
	p.close(name)
}

// WritePage writes a complete document for page to w. It does not close w.
func WritePage(w *htmlwriter.Writer, page Page, opts RenderOptions) error {
	p := &pageWriter{w: w}

	p.raw("<!DOCTYPE html>\n")
	p.open("html")
	writeHead(p, page.Title, page.Date)

	p.open("body")
	if page.Date != "" {
		writeNavigation(p, page)
	}

	p.open("table", htmlwriter.A("_class", "entries"))
	for i, e := range page.Entries {
		writeEntry(p, page.FirstID+i, e, opts)
	}
	p.close("table")

	writeFooter(p, page.Host, page.Generated)
	p.close("body")
	p.close("html")
	return p.err
}

func writeHead(p *pageWriter, title, date string) {
	p.open("head")
	p.tag("meta", htmlwriter.A("charset", "utf-8"))
	if date != "" {
		title = title + " - " + date
	}
	p.element("title", title)
	p.open("style")
	p.raw(stylesheet)
	p.close("style")
	p.close("head")
}

// writeNavigation writes "prev | date | next", linking the neighbours.
func writeNavigation(p *pageWriter, page Page) {
	p.open("div", htmlwriter.A("_class", "dates"))
	if page.Prev != "" {
		p.element("a", page.Prev, htmlwriter.A("href", PageFileName(page.Prev)))
		p.raw(" | ")
	}
	p.text(page.Date)
	if page.Next != "" {
		p.raw(" | ")
		p.element("a", page.Next, htmlwriter.A("href", PageFileName(page.Next)))
	}
	p.close("div")
}

func writeEntry(p *pageWriter, id int, e transcript.Entry, opts RenderOptions) {
	p.open("tr",
		htmlwriter.A("id", "entry-"+strconv.Itoa(id)),
		htmlwriter.A("_class", e.Stream),
	)
	ts := e.Timestamp.UTC()
	p.element("td", ts.Format(shortTimeLayout),
		htmlwriter.A("_class", "time"),
		htmlwriter.A("title", ts.Format(longTimeLayout)),
	)
	p.element("td", e.Stream, htmlwriter.A("_class", "stream"))

	p.open("td", htmlwriter.A("_class", "content"))
	writeContent(p, e, opts)
	p.close("td")
	p.close("tr")
}

func writeContent(p *pageWriter, e transcript.Entry, opts RenderOptions) {
	switch contentkind.Classify(e.Data) {
	case contentkind.Binary:
		p.element("span", fmt.Sprintf("[binary data, %d bytes]", len(e.Data)),
			htmlwriter.A("_class", "binary"))
	case contentkind.Markdown:
		if opts.Markdown {
			if p.err == nil {
				p.err = markdown.Write(p.w, contentkind.StripANSI(e.Text()), markdown.RenderOptions{
					NoLinks:  opts.NoLinks,
					NoImages: opts.NoImages,
				})
			}
			return
		}
		fallthrough
	default:
		p.text(strings.TrimSuffix(contentkind.StripANSI(e.Text()), "\n"))
	}
}

func writeFooter(p *pageWriter, host string, generated time.Time) {
	if generated.IsZero() && host == "" {
		return
	}
	p.open("div", htmlwriter.A("_class", "footer"))
	footer := "Exported"
	if !generated.IsZero() {
		footer += " " + generated.UTC().Format(time.RFC3339)
	}
	if host != "" {
		footer += " on " + host
	}
	p.text(footer)
	p.close("div")
}
