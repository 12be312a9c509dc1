package server

import (
	"bufio"
	"io"
	"strings"
)

// ConsoleClient plays over a reader and writer, normally stdin and stdout.
type ConsoleClient struct {
	scanner *bufio.Scanner
	writer  *bufio.Writer
	closer  io.Closer
}

// NewConsoleClient creates a ConsoleClient. If in is an io.Closer it is
// closed by Close.
func NewConsoleClient(in io.Reader, out io.Writer) *ConsoleClient {
	c := &ConsoleClient{
		scanner: bufio.NewScanner(in),
		writer:  bufio.NewWriter(out),
	}
	if closer, ok := in.(io.Closer); ok {
		c.closer = closer
	}
	return c
}

// ReadLine reads a line (blocking). It returns io.EOF when the input ends.
func (c *ConsoleClient) ReadLine() (string, error) {
	if c.scanner.Scan() {
		return strings.TrimSpace(c.scanner.Text()), nil
	}
	if err := c.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// WriteLine writes a message followed by a newline.
func (c *ConsoleClient) WriteLine(message string) error {
	if _, err := c.writer.WriteString(message); err != nil {
		return err
	}
	if !strings.HasSuffix(message, "\n") {
		if err := c.writer.WriteByte('\n'); err != nil {
			return err
		}
	}
	return c.writer.Flush()
}

// Prompt writes text without a trailing newline.
func (c *ConsoleClient) Prompt(text string) error {
	if _, err := c.writer.WriteString(text); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Close closes the input if it can be closed.
func (c *ConsoleClient) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// RemoteAddr returns "console".
func (c *ConsoleClient) RemoteAddr() string {
	return "console"
}
