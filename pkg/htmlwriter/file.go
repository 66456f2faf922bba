package htmlwriter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Create creates (or truncates) the file at path and returns a Writer bound
// to it. Missing parent directories are created.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return New(f), nil
}

// With binds a Writer to sink, runs fn and closes the writer afterwards,
// also when fn fails or panics. The close error is joined to fn's error.
func With(sink io.Writer, fn func(*Writer) error) error {
	return run(New(sink), fn)
}

// WithFile is like With for a file created by Create.
func WithFile(path string, fn func(*Writer) error) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	return run(w, fn)
}

func run(w *Writer, fn func(*Writer) error) (err error) {
	defer func() {
		if closeErr := w.Close(); closeErr != nil && !errors.Is(closeErr, ErrWriterClosed) {
			err = errors.Join(err, closeErr)
		}
	}()
	return fn(w)
}
