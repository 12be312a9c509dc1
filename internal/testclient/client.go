// Package testclient drives a running dungeon server over WebSocket for
// smoke tests.
package testclient

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TestClient is one player connected to the dungeon server.
type TestClient struct {
	Name     string
	conn     *websocket.Conn
	messages []string
	mu       sync.Mutex
	writeMu  sync.Mutex
	done     chan struct{}
	closed   chan struct{} // closed when the server ends the connection
}

// NewTestClient connects to the server at wsURL (e.g. ws://localhost:8080/ws)
// and waits for the opening of a new game. name may be empty.
func NewTestClient(name, wsURL string) (*TestClient, error) {
	client, err := NewTestClientRaw(name, wsURL)
	if err != nil {
		return nil, err
	}
	if !client.WaitForMessage("help", 2*time.Second) {
		messages := client.GetMessages()
		client.Close()
		return nil, fmt.Errorf("no game opening received, messages: %v", messages)
	}
	return client, nil
}

// NewTestClientRaw connects without waiting for anything.
func NewTestClientRaw(name, wsURL string) (*TestClient, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if name != "" {
		q := u.Query()
		q.Set("name", name)
		u.RawQuery = q.Encode()
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	client := &TestClient{
		Name:   name,
		conn:   conn,
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go client.readMessages()
	return client, nil
}

// readMessages continuously reads messages from the server
func (c *TestClient) readMessages() {
	defer close(c.closed)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimRight(line, "\r")
			if line == "" {
				continue
			}
			c.mu.Lock()
			c.messages = append(c.messages, line)
			c.mu.Unlock()
		}
	}
}

// SendCommand sends a command to the server
func (c *TestClient) SendCommand(cmd string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(cmd))
}

// GetMessages returns all lines received so far
func (c *TestClient) GetMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]string, len(c.messages))
	copy(result, c.messages)
	return result
}

// GetLastMessage returns the most recent line
func (c *TestClient) GetLastMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return ""
	}
	return c.messages[len(c.messages)-1]
}

// ClearMessages clears the message buffer
func (c *TestClient) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

// HasMessage checks if any line contains the specified text
func (c *TestClient) HasMessage(text string) bool {
	for _, msg := range c.GetMessages() {
		if strings.Contains(msg, text) {
			return true
		}
	}
	return false
}

// WaitForMessage waits for a line containing the specified text
func (c *TestClient) WaitForMessage(text string, timeout time.Duration) bool {
	_, ok := c.WaitForAnyMessage([]string{text}, timeout)
	return ok
}

// WaitForAnyMessage waits for any of the specified texts and returns the
// one that was seen
func (c *TestClient) WaitForAnyMessage(texts []string, timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)

	for {
		for _, msg := range c.GetMessages() {
			for _, text := range texts {
				if strings.Contains(msg, text) {
					return text, true
				}
			}
		}
		if time.Now().After(deadline) {
			return "", false
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// WaitForClose waits for the server to end the connection
func (c *TestClient) WaitForClose(timeout time.Duration) bool {
	select {
	case <-c.closed:
		return true
	case <-time.After(timeout):
		return false
	}
}

// PrintMessages prints all lines (for debugging)
func (c *TestClient) PrintMessages() {
	fmt.Printf("\n=== Messages for %s ===\n", c.Name)
	for i, msg := range c.GetMessages() {
		fmt.Printf("[%d] %s\n", i, msg)
	}
	fmt.Println("======================")
}

// Close closes the client connection
func (c *TestClient) Close() error {
	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
	}
	c.writeMu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}
