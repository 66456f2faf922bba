// Package exporter turns transcripts into HTML documents: one page per day
// linked to its neighbours, plus an index page.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"htmlexport/pkg/htmlwriter"
	"htmlexport/pkg/transcript"

	"github.com/shirou/gopsutil/v3/host"
)

// IndexFileName is the name of the page listing all days.
const IndexFileName = "index.html"

// RenderOptions controls how entry content is rendered.
type RenderOptions struct {
	// Markdown renders entries that look like markdown as formatted HTML.
	Markdown bool
	NoLinks  bool
	NoImages bool
}

// Options configures an Exporter.
type Options struct {
	OutputDir string
	Title     string
	Render    RenderOptions
	// Host is shown in page footers. Looked up on first use when empty.
	Host   string
	Logger *slog.Logger
	Now    func() time.Time
}

// Exporter writes transcripts as paged HTML documents.
type Exporter struct {
	opts     Options
	log      *slog.Logger
	hostOnce sync.Once
	host     string
}

// New creates an Exporter.
func New(opts Options) *Exporter {
	if opts.Title == "" {
		opts.Title = "Transcript"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{opts: opts, log: logger, host: opts.Host}
}

// Host returns the host description used in footers.
func (e *Exporter) Host(ctx context.Context) string {
	e.hostOnce.Do(func() {
		if e.host != "" {
			return
		}
		info, err := host.InfoWithContext(ctx)
		if err != nil {
			e.log.Warn("Failed to look up host info", "error", err)
			return
		}
		e.host = fmt.Sprintf("%s (%s %s)", info.Hostname, info.Platform, info.PlatformVersion)
	})
	return e.host
}

// day groups the entries of one UTC date.
type day struct {
	date    string
	entries []transcript.Entry
	firstID int
}

// groupByDay orders entries by time (stable) and splits them by UTC date.
// Entry ids count across the whole transcript.
func groupByDay(entries []transcript.Entry) []day {
	sorted := append([]transcript.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var days []day
	for i, e := range sorted {
		date := e.Timestamp.UTC().Format(dateLayout)
		if len(days) == 0 || days[len(days)-1].date != date {
			days = append(days, day{date: date, firstID: i})
		}
		last := &days[len(days)-1]
		last.entries = append(last.entries, e)
	}
	return days
}

// Export writes one page per day and an index page into the output
// directory and returns the written paths, index last.
func (e *Exporter) Export(ctx context.Context, entries []transcript.Entry) ([]string, error) {
	days := groupByDay(entries)
	generated := e.opts.Now()
	hostName := e.Host(ctx)

	var paths []string
	for i, d := range days {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		page := Page{
			Title:     e.opts.Title,
			Date:      d.date,
			Entries:   d.entries,
			FirstID:   d.firstID,
			Host:      hostName,
			Generated: generated,
		}
		if i > 0 {
			page.Prev = days[i-1].date
		}
		if i < len(days)-1 {
			page.Next = days[i+1].date
		}

		path := filepath.Join(e.opts.OutputDir, PageFileName(d.date))
		err := htmlwriter.WithFile(path, func(w *htmlwriter.Writer) error {
			return WritePage(w, page, e.opts.Render)
		})
		if err != nil {
			return paths, fmt.Errorf("failed to write page %s: %w", path, err)
		}
		e.log.Info("Exported page", "path", path, "entries", len(d.entries))
		paths = append(paths, path)
	}

	indexPath := filepath.Join(e.opts.OutputDir, IndexFileName)
	err := htmlwriter.WithFile(indexPath, func(w *htmlwriter.Writer) error {
		return writeIndex(w, e.opts.Title, days, hostName, generated)
	})
	if err != nil {
		return paths, fmt.Errorf("failed to write index %s: %w", indexPath, err)
	}
	e.log.Info("Exported index", "path", indexPath, "days", len(days))
	return append(paths, indexPath), nil
}

// WriteDocument writes all entries as a single page without navigation.
func (e *Exporter) WriteDocument(ctx context.Context, w *htmlwriter.Writer, entries []transcript.Entry) error {
	return WritePage(w, Page{
		Title:     e.opts.Title,
		Entries:   entries,
		Host:      e.Host(ctx),
		Generated: e.opts.Now(),
	}, e.opts.Render)
}

func writeIndex(w *htmlwriter.Writer, title string, days []day, hostName string, generated time.Time) error {
	p := &pageWriter{w: w}

	p.raw("<!DOCTYPE html>\n")
	p.open("html")
	writeHead(p, title, "")
	p.open("body")
	p.element("h1", title)

	p.open("ul", htmlwriter.A("_class", "days"))
	for _, d := range days {
		p.open("li")
		p.element("a", d.date, htmlwriter.A("href", PageFileName(d.date)))
		p.text(" (" + strconv.Itoa(len(d.entries)) + " entries)")
		p.close("li")
	}
	p.close("ul")

	writeFooter(p, hostName, generated)
	p.close("body")
	p.close("html")
	return p.err
}
