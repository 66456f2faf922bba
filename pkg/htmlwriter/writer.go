package htmlwriter

import (
	"errors"
	"io"
	"strings"
)

// textEscaper performs one left-to-right pass, so substituted output is
// never rescanned.
var textEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	"\n", "<br/>",
)

type errFlusher interface {
	Flush() error
}

// flusher matches http.Flusher.
type flusher interface {
	Flush()
}

// Writer streams HTML markup into a sink and tracks open elements.
type Writer struct {
	sink   io.Writer
	tags   []string
	closed bool
}

// New returns a Writer bound to sink with no open tags.
//
// Close flushes sink if it has a Flush method and closes it if it is an
// io.Closer.
func New(sink io.Writer) *Writer {
	return &Writer{sink: sink}
}

// WriteRaw appends text to the sink verbatim.
func (w *Writer) WriteRaw(text string) error {
	if w.closed {
		return ErrWriterClosed
	}
	_, err := io.WriteString(w.sink, text)
	return err
}

// WriteText escapes text and appends it to the sink. Empty text writes
// nothing.
func (w *Writer) WriteText(text string) error {
	if w.closed {
		return ErrWriterClosed
	}
	if text == "" {
		return nil
	}
	return w.WriteRaw(EscapeText(text))
}

// EscapeText returns text with "<", ">" and newlines replaced the way
// WriteText does.
func EscapeText(text string) string {
	return textEscaper.Replace(text)
}

// Tag writes a self-closing element. The tag stack is not changed.
func (w *Writer) Tag(name string, attrs ...Attr) error {
	return w.openTag(name, attrs, true)
}

// OpenTag writes an opening tag and pushes name onto the tag stack.
func (w *Writer) OpenTag(name string, attrs ...Attr) error {
	return w.openTag(name, attrs, false)
}

func (w *Writer) openTag(name string, attrs []Attr, autoClose bool) error {
	if w.closed {
		return ErrWriterClosed
	}

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(name)
	appendAttrs(&b, attrs)
	if autoClose {
		b.WriteString("/>")
		return w.WriteRaw(b.String())
	}

	w.tags = append(w.tags, name)
	b.WriteByte('>')
	return w.WriteRaw(b.String())
}

// CloseTag closes the most recently opened tag and returns its name.
// It fails with ErrStackUnderflow, writing nothing, if no tag is open.
func (w *Writer) CloseTag() (string, error) {
	if w.closed {
		return "", ErrWriterClosed
	}
	if len(w.tags) == 0 {
		return "", ErrStackUnderflow
	}

	last := len(w.tags) - 1
	name := w.tags[last]
	w.tags = w.tags[:last]
	return name, w.WriteRaw("</" + name + ">")
}

// CloseAll closes every open tag, innermost first.
func (w *Writer) CloseAll() error {
	if w.closed {
		return ErrWriterClosed
	}
	for len(w.tags) > 0 {
		if _, err := w.CloseTag(); err != nil {
			return err
		}
	}
	return nil
}

// Depth returns the number of open tags.
func (w *Writer) Depth() int {
	return len(w.tags)
}

// OpenTags returns a copy of the tag stack, outermost first.
func (w *Writer) OpenTags() []string {
	return append([]string(nil), w.tags...)
}

// Closed reports whether Close has been called.
func (w *Writer) Closed() bool {
	return w.closed
}

// Close flushes and releases the sink. It releases the sink only on the
// first call; later calls return ErrWriterClosed.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true

	var flushErr error
	switch f := w.sink.(type) {
	case errFlusher:
		flushErr = f.Flush()
	case flusher:
		f.Flush()
	}

	if c, ok := w.sink.(io.Closer); ok {
		return errors.Join(flushErr, c.Close())
	}
	return flushErr
}
