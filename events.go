package misanthropy

// StreamEventType discriminates server-pushed stream events.
type StreamEventType string

const (
	// EventMessageStart carries the initial response snapshot.
	EventMessageStart StreamEventType = "message_start"
	// EventContentBlockStart announces a new content block at an index.
	EventContentBlockStart StreamEventType = "content_block_start"
	// EventContentBlockDelta extends the block at an index.
	EventContentBlockDelta StreamEventType = "content_block_delta"
	// EventContentBlockStop marks a block as complete.
	EventContentBlockStop StreamEventType = "content_block_stop"
	// EventMessageDelta updates stop data and usage for the message.
	EventMessageDelta StreamEventType = "message_delta"
	// EventMessageStop terminates the stream.
	EventMessageStop StreamEventType = "message_stop"
	// EventPing is a keep-alive with no effect.
	EventPing StreamEventType = "ping"
	// EventError reports a stream-level API error.
	EventError StreamEventType = "error"
)

// DeltaType discriminates incremental content block updates.
type DeltaType string

const (
	// DeltaTypeText appends text to a text block.
	DeltaTypeText DeltaType = "text_delta"
	// DeltaTypeThinking appends to a thinking block's reasoning trace.
	DeltaTypeThinking DeltaType = "thinking_delta"
	// DeltaTypeInputJSON streams partial JSON for a tool_use input.
	DeltaTypeInputJSON DeltaType = "input_json_delta"
)

// Delta is the polymorphic "delta" payload of stream events. For
// content_block_delta events Type and one of the payload fields are
// set; for message_delta events the stop fields are set instead.
type Delta struct {
	// Type discriminates a content block delta; empty on message deltas.
	Type DeltaType `json:"type,omitempty"`
	// Text is the increment of a text_delta.
	Text string `json:"text,omitempty"`
	// Thinking is the increment of a thinking_delta.
	Thinking string `json:"thinking,omitempty"`
	// PartialJSON is the increment of an input_json_delta.
	PartialJSON string `json:"partial_json,omitempty"`
	// StopReason is the authoritative stop reason on message deltas.
	StopReason *StopReason `json:"stop_reason,omitempty"`
	// StopSequence is the matched stop string on message deltas.
	StopSequence *string `json:"stop_sequence,omitempty"`
}

// APIErrorDetail is the error object the API embeds in error responses
// and stream-level error events.
type APIErrorDetail struct {
	// Type is the API error class, e.g. "rate_limit_error".
	Type string `json:"type"`
	// Message is the human-readable description.
	Message string `json:"message"`
}

// StreamEvent is one server-pushed event. Type is authoritative; only
// the fields belonging to that event kind are populated.
type StreamEvent struct {
	// Type discriminates the event kind.
	Type StreamEventType `json:"type"`
	// Message is the initial response snapshot on message_start.
	Message *MessagesResponse `json:"message,omitempty"`
	// Index addresses a content block for block-scoped events.
	Index int `json:"index,omitempty"`
	// ContentBlock is the initial block on content_block_start.
	ContentBlock *Content `json:"content_block,omitempty"`
	// Delta is the incremental update on content_block_delta and the
	// stop data on message_delta.
	Delta *Delta `json:"delta,omitempty"`
	// Usage is the usage increment on message_delta.
	Usage *Usage `json:"usage,omitempty"`
	// Error is the payload of a stream-level error event.
	Error *APIErrorDetail `json:"error,omitempty"`
}
