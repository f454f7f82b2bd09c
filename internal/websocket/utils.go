package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// Deadlines for the calendar change stream. The read deadline is slack
// because a healthy view only sends the occasional keepalive ping; the
// write deadline bounds how long a stalled view can block the stream.
const (
	WriteWait = 10 * time.Second
	ReadWait  = 5 * time.Minute
)

// WriteTyped sends one typed payload with the stream write deadline.
// Writes are not safe for concurrent use; the stream handler funnels every
// write through a single goroutine.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(WriteWait))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON decodes the next message into v, resetting the keepalive read
// deadline first.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(ReadWait))
	return conn.ReadJSON(v)
}
