package htmlwriter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreate_MakesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "page.html")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.OpenTag("p"))
	require.NoError(t, w.WriteText("x>y"))
	_, err = w.CloseTag()
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<p>x&gt;y</p>", string(data))
}

func TestCreate_ExistingDirectoryAndTruncate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte("old content that is long"), 0600))

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Tag("hr"))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<hr/>", string(data))
}

func TestCreate_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	_, err := Create(filepath.Join(blocker, "page.html"))
	require.Error(t, err)
}

func TestWith_ClosesOnSuccess(t *testing.T) {
	sink := &countingSink{}

	err := With(sink, func(w *Writer) error {
		if err := w.OpenTag("p"); err != nil {
			return err
		}
		_, err := w.CloseTag()
		return err
	})
	require.NoError(t, err)
	require.Equal(t, "<p></p>", sink.String())
	require.Equal(t, 1, sink.closes)
}

func TestWith_ClosesOnError(t *testing.T) {
	sink := &countingSink{}
	fnErr := errors.New("boom")

	err := With(sink, func(w *Writer) error {
		_, err := w.CloseTag()
		require.ErrorIs(t, err, ErrStackUnderflow)
		return fnErr
	})
	require.ErrorIs(t, err, fnErr)
	require.Equal(t, 1, sink.closes)
}

func TestWith_JoinsCloseError(t *testing.T) {
	closeErr := errors.New("close failed")
	fnErr := errors.New("boom")
	sink := &countingSink{closeErr: closeErr}

	err := With(sink, func(w *Writer) error { return fnErr })
	require.ErrorIs(t, err, fnErr)
	require.ErrorIs(t, err, closeErr)
	require.Equal(t, 1, sink.closes)
}

func TestWith_ClosesOnPanic(t *testing.T) {
	sink := &countingSink{}

	require.Panics(t, func() {
		_ = With(sink, func(w *Writer) error {
			panic("unexpected")
		})
	})
	require.Equal(t, 1, sink.closes)
}

func TestWith_CallbackClosesWriter(t *testing.T) {
	sink := &countingSink{}

	err := With(sink, func(w *Writer) error {
		return w.Close()
	})
	require.NoError(t, err)
	require.Equal(t, 1, sink.closes)
}

func TestWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.html")

	err := WithFile(path, func(w *Writer) error {
		if err := w.OpenTag("div", A("_class", "box")); err != nil {
			return err
		}
		return w.CloseAll()
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `<div class="box"></div>`, string(data))
}
