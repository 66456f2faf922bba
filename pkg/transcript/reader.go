package transcript

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// maxRecordLength bounds a single record so a corrupt length field cannot
// trigger a huge allocation.
const maxRecordLength = 64 << 20

// Reader reads entries from a transcript one at a time.
type Reader struct {
	r      *bufio.Reader
	record int
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next entry. It returns io.EOF when the input ends on a
// record boundary.
func (r *Reader) Next() (Entry, error) {
	var e Entry
	r.record++

	stream, err := r.readField(' ')
	if err != nil {
		if errors.Is(err, io.EOF) && stream == "" {
			return e, io.EOF
		}
		return e, r.malformed("reading stream", err)
	}
	if !ValidStream(stream) {
		return e, r.malformed("invalid stream name "+strconv.Quote(stream), nil)
	}
	e.Stream = stream

	tsField, err := r.readField(' ')
	if err != nil {
		return e, r.malformed("reading timestamp", err)
	}
	ts, err := time.Parse(TimeLayout, tsField)
	if err != nil {
		return e, r.malformed("parsing timestamp", err)
	}
	e.Timestamp = ts.UTC()

	lengthField, err := r.readField(':')
	if err != nil {
		return e, r.malformed("reading length", err)
	}
	length, err := strconv.Atoi(lengthField)
	if err != nil || length < 0 || length > maxRecordLength {
		return e, r.malformed("invalid length "+strconv.Quote(lengthField), err)
	}

	b, err := r.r.ReadByte()
	if err != nil {
		return e, r.malformed("reading space after colon", err)
	}
	if b != ' ' {
		return e, r.malformed(fmt.Sprintf("expected space after colon, got %q", b), nil)
	}

	e.Data = make([]byte, length)
	if _, err := io.ReadFull(r.r, e.Data); err != nil {
		return e, r.malformed("reading content", err)
	}

	b, err = r.r.ReadByte()
	if err != nil {
		return e, r.malformed("reading separator", err)
	}
	if b != '\n' {
		return e, r.malformed(fmt.Sprintf("expected newline separator, got %q", b), nil)
	}
	return e, nil
}

func (r *Reader) readField(delim byte) (string, error) {
	field, err := r.r.ReadString(delim)
	if err != nil {
		return field, err
	}
	return field[:len(field)-1], nil
}

func (r *Reader) malformed(what string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: record %d: %s: %w", ErrMalformed, r.record, what, err)
	}
	return fmt.Errorf("%w: record %d: %s", ErrMalformed, r.record, what)
}

// ReadAll reads every entry from r.
func ReadAll(r io.Reader) ([]Entry, error) {
	reader := NewReader(r)
	var entries []Entry
	for {
		e, err := reader.Next()
		// Parse errors may wrap io.EOF, only the bare value marks a clean end.
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
}

// ReadFile reads every entry of the transcript file at path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer f.Close()
	return ReadAll(f)
}
