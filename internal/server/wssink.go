package server

import (
	"errors"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// closeTimeout bounds sending the close frame to a slow client.
const closeTimeout = time.Second

// WebSocketSink is a document sink that sends every write as one text
// message. Close sends a normal-closure frame and closes the connection.
type WebSocketSink struct {
	conn   *websocket.Conn
	closed bool
}

// NewWebSocketSink returns a sink writing to conn. The sink owns conn.
func NewWebSocketSink(conn *websocket.Conn) *WebSocketSink {
	return &WebSocketSink{conn: conn}
}

func (s *WebSocketSink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, net.ErrClosed
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close releases the connection. Calls after the first return net.ErrClosed.
func (s *WebSocketSink) Close() error {
	if s.closed {
		return net.ErrClosed
	}
	s.closed = true

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	writeErr := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout))
	if errors.Is(writeErr, websocket.ErrCloseSent) {
		writeErr = nil
	}
	return errors.Join(writeErr, s.conn.Close())
}
