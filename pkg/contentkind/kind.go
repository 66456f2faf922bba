// Package contentkind classifies recorded output so it can be rendered
// appropriately: binary data as a placeholder, markdown as formatted HTML and
// everything else as escaped text.
package contentkind

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind is the detected kind of a piece of output.
type Kind string

const (
	Text     Kind = "text"
	Binary   Kind = "binary"
	Markdown Kind = "markdown"
)

// minMarkdownSignals is the number of distinct markdown constructs needed
// before content is treated as markdown.
const minMarkdownSignals = 2

// ansiPattern matches CSI sequences (colours, cursor movement) and OSC
// sequences (window titles, hyperlinks).
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

var linkPattern = regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)

// Classify returns the kind of data.
func Classify(data []byte) Kind {
	if len(data) == 0 {
		return Text
	}
	if isBinary(data) {
		return Binary
	}
	if countMarkdownSignals(string(data)) >= minMarkdownSignals {
		return Markdown
	}
	return Text
}

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	if !strings.Contains(s, "\x1b") {
		return s
	}
	return ansiPattern.ReplaceAllString(s, "")
}

func isBinary(data []byte) bool {
	if !utf8.Valid(data) {
		return true
	}

	s := string(data)
	nonPrintable := 0
	runes := 0
	for _, r := range s {
		runes++
		if r == 0 {
			return true
		}
		// ESC is part of colour codes, not binary noise.
		if r < 32 && r != '\t' && r != '\n' && r != '\r' && r != 0x1B {
			nonPrintable++
		} else if r > 126 && r < 160 {
			nonPrintable++
		}
	}
	return float64(nonPrintable) > float64(runes)*0.3
}

type signals struct {
	header, codeBlock, list, link, bold, blockquote bool
}

func (s signals) count() int {
	n := 0
	for _, b := range []bool{s.header, s.codeBlock, s.list, s.link, s.bold, s.blockquote} {
		if b {
			n++
		}
	}
	return n
}

func countMarkdownSignals(text string) int {
	var s signals
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if isHeader(trimmed) {
			s.header = true
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			s.codeBlock = true
		}
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
			strings.HasPrefix(trimmed, "+ ") || isOrderedItem(trimmed) {
			s.list = true
		}
		if linkPattern.MatchString(line) {
			s.link = true
		}
		if strings.Contains(line, "**") || strings.Contains(line, "__") {
			s.bold = true
		}
		if strings.HasPrefix(trimmed, "> ") {
			s.blockquote = true
		}
	}
	return s.count()
}

// isHeader matches "# title" up to six hashes.
func isHeader(line string) bool {
	hashes := 0
	for hashes < len(line) && line[hashes] == '#' {
		hashes++
	}
	if hashes == 0 || hashes > 6 {
		return false
	}
	return hashes == len(line) || line[hashes] == ' '
}

// isOrderedItem matches "12. item".
func isOrderedItem(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(line) && line[i] == '.' && line[i+1] == ' '
}
