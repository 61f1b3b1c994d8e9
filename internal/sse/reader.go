// Package sse reads server-sent event frames from a response body.
package sse

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Reader extracts the data payload of successive SSE events. Field
// lines other than "data:" (event names, comments, ids) are skipped;
// the JSON payloads carry their own type discriminator.
type Reader struct {
	// reader buffers the underlying event stream.
	reader *bufio.Reader
}

// NewReader wraps an event stream body.
func NewReader(source io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(source)}
}

// Next returns the data payload of the next event. Multi-line data
// fields are joined with newlines per the SSE specification. It returns
// io.EOF once the stream ends.
func (r *Reader) Next() (string, error) {
	var builder strings.Builder
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			// Blank line terminates an event; skip separators between events.
			if builder.Len() == 0 {
				if errors.Is(err, io.EOF) {
					return "", io.EOF
				}
				continue
			}
			return strings.TrimSuffix(builder.String(), "\n"), nil
		}
		if strings.HasPrefix(line, "data:") {
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			builder.WriteString(payload)
			builder.WriteByte('\n')
		}
		if errors.Is(err, io.EOF) {
			if builder.Len() == 0 {
				return "", io.EOF
			}
			return strings.TrimSuffix(builder.String(), "\n"), nil
		}
	}
}
