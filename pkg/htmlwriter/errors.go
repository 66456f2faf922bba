package htmlwriter

import "errors"

// Sentinel errors for writer misuse. Sink failures are returned unchanged.
var (
	ErrStackUnderflow = errors.New("htmlwriter: close tag without open tag")
	ErrWriterClosed   = errors.New("htmlwriter: writer closed")
)
