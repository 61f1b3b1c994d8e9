package misanthropy

import "fmt"

// Anomaly records a tolerated irregularity observed while merging a
// stream event. Anomalies never corrupt accumulated state: the
// offending delta is ignored and the stream continues.
type Anomaly struct {
	// Index is the content block index the event addressed.
	Index int
	// BlockType is the kind of the existing block, if one exists.
	BlockType ContentType
	// DeltaType is the kind of the rejected delta.
	DeltaType DeltaType
	// Reason describes the irregularity.
	Reason string
}

// mergeEvent folds one stream event into the response. Response state
// after N events is a pure left-fold over the first N events: every
// event kind has exactly one effect and no reordering or buffering
// happens. It returns closed=true on message_stop, a non-nil anomaly
// for tolerated mismatches, and an error only for the loud failure
// cases (tool_use input deltas).
func mergeEvent(response *MessagesResponse, event *StreamEvent) (closed bool, anomaly *Anomaly, err error) {
	switch event.Type {
	case EventMessageStart:
		// A full snapshot, not a delta.
		if event.Message != nil {
			*response = *event.Message
		}
	case EventContentBlockStart:
		mergeBlockStart(response, event)
	case EventContentBlockDelta:
		anomaly, err = mergeBlockDelta(response, event)
		return false, anomaly, err
	case EventContentBlockStop:
		// Per-block completion is not tracked beyond what merging
		// already reflects.
	case EventMessageDelta:
		mergeMessageDelta(response, event)
	case EventMessageStop:
		return true, nil, nil
	case EventPing:
		// Keep-alive only.
	case EventError:
		// Surfaced by the stream before merging; nothing to fold.
	}
	return false, nil, nil
}

// mergeBlockStart appends the initial block when the event addresses
// the next slot. A start for an already-filled index is a duplicate and
// is ignored.
func mergeBlockStart(response *MessagesResponse, event *StreamEvent) {
	if event.ContentBlock == nil || event.Index < len(response.Content) {
		return
	}
	response.Content = append(response.Content, *event.ContentBlock)
}

// mergeBlockDelta applies an incremental update to the block at the
// event's index, dispatching on the (block kind, delta kind) pairing.
func mergeBlockDelta(response *MessagesResponse, event *StreamEvent) (*Anomaly, error) {
	if event.Delta == nil {
		return &Anomaly{Index: event.Index, Reason: "content_block_delta without delta payload"}, nil
	}
	if event.Index < 0 || event.Index >= len(response.Content) {
		// No block was started at this index. Ignoring keeps the
		// accumulated state intact; see DESIGN.md for the policy choice.
		return &Anomaly{
			Index:     event.Index,
			DeltaType: event.Delta.Type,
			Reason:    "delta for an index with no started block",
		}, nil
	}

	block := &response.Content[event.Index]
	switch {
	case block.Type == ContentTypeText && event.Delta.Type == DeltaTypeText:
		block.Text += event.Delta.Text
	case block.Type == ContentTypeThinking && event.Delta.Type == DeltaTypeThinking:
		block.Thinking += event.Delta.Thinking
	case block.Type == ContentTypeToolUse:
		// Assembling partial JSON into the input value is not
		// implemented. Fail loudly so a tool call never proceeds with a
		// truncated input.
		return nil, fmt.Errorf("content block %d: %w", event.Index, ErrToolInputStreaming)
	default:
		// Forward-compatible pairings must not break the consumer.
		return &Anomaly{
			Index:     event.Index,
			BlockType: block.Type,
			DeltaType: event.Delta.Type,
			Reason:    "delta kind does not match block kind",
		}, nil
	}
	return nil, nil
}

// mergeMessageDelta applies the authoritative stop data and merges the
// usage increment into the aggregate.
func mergeMessageDelta(response *MessagesResponse, event *StreamEvent) {
	if event.Delta != nil {
		if event.Delta.StopReason != nil {
			response.StopReason = event.Delta.StopReason
		}
		if event.Delta.StopSequence != nil {
			response.StopSequence = event.Delta.StopSequence
		}
	}
	if event.Usage != nil {
		response.Usage = response.Usage.Merge(*event.Usage)
	}
}
