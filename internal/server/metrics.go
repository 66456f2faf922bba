package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	transportHTTP      = "http"
	transportWebSocket = "websocket"
)

type metrics struct {
	documents *prometheus.CounterVec
	bytes     *prometheus.CounterVec
	errors    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "htmlexport",
			Name:      "documents_rendered_total",
			Help:      "Documents rendered completely, by transport.",
		}, []string{"transport"}),
		bytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "htmlexport",
			Name:      "bytes_written_total",
			Help:      "Bytes of HTML written to clients, by transport.",
		}, []string{"transport"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "htmlexport",
			Name:      "render_errors_total",
			Help:      "Documents that failed while rendering, by transport.",
		}, []string{"transport"}),
	}
}

// countingSink counts bytes written to a sink. Its Close flushes and closes
// the wrapped sink when it supports that, so the document writer still
// releases the real sink.
type countingSink struct {
	w     io.Writer
	bytes prometheus.Counter
}

func (c *countingSink) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.bytes.Add(float64(n))
	return n, err
}

func (c *countingSink) Close() error {
	var flushErr error
	switch f := c.w.(type) {
	case interface{ Flush() error }:
		flushErr = f.Flush()
	case http.Flusher:
		f.Flush()
	}
	if closer, ok := c.w.(io.Closer); ok {
		return errors.Join(flushErr, closer.Close())
	}
	return flushErr
}
