package server

import (
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait is how long a single outbound message may take.
const writeWait = 10 * time.Second

// WebSocketClient wraps a WebSocket connection for browser-based play.
type WebSocketClient struct {
	conn    *websocket.Conn
	readBuf []string   // lines left over from a multi-line message
	mu      sync.Mutex // protects readBuf
	writeMu sync.Mutex // gorilla allows one concurrent writer
}

// NewWebSocketClient creates a new WebSocketClient. Inbound messages larger
// than maxMessageSize bytes close the connection; 0 leaves no limit.
func NewWebSocketClient(conn *websocket.Conn, maxMessageSize int64) *WebSocketClient {
	if maxMessageSize > 0 {
		conn.SetReadLimit(maxMessageSize)
	}
	return &WebSocketClient{
		conn:    conn,
		readBuf: make([]string, 0),
	}
}

// ReadLine returns the next non-empty line. A message holding several lines
// is buffered and returned one line at a time.
func (c *WebSocketClient) ReadLine() (string, error) {
	for {
		c.mu.Lock()
		if len(c.readBuf) > 0 {
			line := c.readBuf[0]
			c.readBuf = c.readBuf[1:]
			c.mu.Unlock()
			return line, nil
		}
		c.mu.Unlock()

		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return "", err
		}

		lines := splitLines(string(message))
		if len(lines) == 0 {
			continue
		}

		c.mu.Lock()
		c.readBuf = append(c.readBuf, lines[1:]...)
		c.mu.Unlock()
		return lines[0], nil
	}
}

// WriteLine sends message as one text frame.
func (c *WebSocketClient) WriteLine(message string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(message))
}

// Close sends a close frame and closes the connection.
func (c *WebSocketClient) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *WebSocketClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// splitLines splits text on newlines, trimming and dropping blank lines.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	return filtered
}
