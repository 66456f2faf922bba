package transcript

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"
)

// TimeLayout is the timestamp layout of a record.
const TimeLayout = time.RFC3339Nano

// ErrMalformed is wrapped by every parse error.
var ErrMalformed = errors.New("transcript: malformed record")

var streamPattern = regexp.MustCompile(`^[a-zA-Z0-9_./-]{1,64}$`)

// Entry is one record of a transcript.
type Entry struct {
	Stream    string
	Timestamp time.Time // UTC
	Data      []byte    // may include a trailing newline
}

// Text returns the entry content as a string.
func (e Entry) Text() string {
	return string(e.Data)
}

// ValidStream reports whether name is usable as a stream name.
func ValidStream(name string) bool {
	return streamPattern.MatchString(name)
}

// Format formats an entry as a transcript record.
func Format(e Entry) []byte {
	ts := e.Timestamp.UTC().Format(TimeLayout)
	out := make([]byte, 0, len(e.Stream)+len(ts)+len(e.Data)+16)
	out = append(out, e.Stream...)
	out = append(out, ' ')
	out = append(out, ts...)
	out = append(out, ' ')
	out = strconv.AppendInt(out, int64(len(e.Data)), 10)
	out = append(out, ':', ' ')
	out = append(out, e.Data...)
	return append(out, '\n')
}

// Append writes e to w as one record.
func Append(w io.Writer, e Entry) error {
	if !ValidStream(e.Stream) {
		return fmt.Errorf("invalid stream name %q", e.Stream)
	}
	_, err := w.Write(Format(e))
	return err
}
