package server

// Client abstracts the connection layer for both console and WebSocket play.
// This allows a session to drive a game without knowing the transport.
type Client interface {
	// ReadLine blocks until a complete line is received (without newline).
	ReadLine() (string, error)

	// WriteLine sends a block of text to the client.
	// For the console, this appends a newline. For WebSocket, it sends one message.
	WriteLine(message string) error

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the client's address for logging.
	RemoteAddr() string
}
