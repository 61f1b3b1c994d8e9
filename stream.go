package misanthropy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/cortesi/misanthropy/internal/sse"
)

// Stream is a live event subscription. The caller pulls events with
// Next; each pulled event is merged into Response before it is
// returned, so Response always reflects every event seen so far.
//
// Response is exclusively owned by the pulling caller until the stream
// closes; the engine never mutates it concurrently.
type Stream struct {
	// Response accumulates the merged message state.
	Response MessagesResponse

	// reader frames SSE events from the subscription body.
	reader *sse.Reader
	// body is the underlying subscription resource.
	body io.ReadCloser
	// closeOnce guards the single release of body across the explicit
	// and early-cancellation close paths.
	closeOnce sync.Once
	// closed reports that message_stop or end-of-stream was observed.
	closed bool
	// anomalies records tolerated merge irregularities in arrival order.
	anomalies []Anomaly
}

// newStream wraps a subscription body in a pull-based event stream.
func newStream(body io.ReadCloser) *Stream {
	return &Stream{
		reader: sse.NewReader(body),
		body:   body,
	}
}

// Next pulls the next event, merges it into Response and returns it.
// It returns io.EOF once the stream has closed, a response_parse-kind
// error for malformed payloads (the subscription stays open so the
// caller may keep pulling), and a classified error for stream-level
// error events and transport failures.
func (s *Stream) Next(ctx context.Context) (*StreamEvent, error) {
	if s.closed {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.reader.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Transport signaled end-of-stream without message_stop.
			s.Close()
			return nil, io.EOF
		}
		return nil, &Error{Kind: ErrStream, Message: "read stream event", Err: err}
	}

	var event StreamEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		// Malformed payloads terminate this pull but not the stream.
		return nil, &Error{Kind: ErrResponseParse, Message: "parse stream event", Err: err}
	}

	if event.Type == EventError {
		// Stream-level errors surface without closing the state machine;
		// the transport is expected to end the subscription afterwards.
		message := "stream error"
		kind := ErrStream
		if event.Error != nil {
			message = event.Error.Message
			kind = kindForAPIErrorType(event.Error.Type)
		}
		return nil, &Error{Kind: kind, Message: message}
	}

	closed, anomaly, err := mergeEvent(&s.Response, &event)
	if err != nil {
		return nil, err
	}
	if anomaly != nil {
		s.anomalies = append(s.anomalies, *anomaly)
	}
	if closed {
		s.Close()
	}
	return &event, nil
}

// Text returns the best-effort partial transcript accumulated so far.
func (s *Stream) Text() string {
	return s.Response.Text()
}

// Anomalies returns tolerated merge irregularities in arrival order.
func (s *Stream) Anomalies() []Anomaly {
	return s.anomalies
}

// Close releases the underlying subscription. It is safe to call at
// any time and from either release path; the resource is released
// exactly once.
func (s *Stream) Close() error {
	s.closed = true
	var err error
	s.closeOnce.Do(func() {
		err = s.body.Close()
	})
	return err
}
