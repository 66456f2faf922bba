// Package htmlwriter writes HTML documents incrementally to a sink.
//
// # Overview
//
// A Writer sequences raw markup and escaped text into an io.Writer and keeps
// a stack of the elements opened with OpenTag, so callers can close them with
// CloseTag (or CloseAll) without repeating the element name.
//
//	w, err := htmlwriter.Create("out/page.html")
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//
//	w.OpenTag("p", htmlwriter.A("class", "note"))
//	w.WriteText("a<b\nc")
//	w.CloseTag()
//
// produces
//
//	<p class="note">a&lt;b<br/>c</p>
//
// # Escaping
//
// WriteText replaces "<" with "&lt;", ">" with "&gt;" and every newline with
// "<br/>" in a single pass. Ampersands and quotes are left untouched, and
// attribute values are written verbatim. Callers must supply safe values.
//
// # Attribute keys
//
// Leading and trailing underscores are stripped from attribute keys, so
// A("_class_", "x") renders as class="x".
//
// # Lifecycle
//
// Close flushes and closes the sink exactly once. Every other operation
// after Close fails with ErrWriterClosed. Unclosed tags are not closed by
// Close. With and WithFile guarantee the close on every exit path.
//
// A Writer is not safe for concurrent use.
package htmlwriter
