package misanthropy

import (
	"testing"

	"github.com/cortesi/misanthropy/internal/testutil"
)

// startEvent builds a content_block_start for the given index.
func startEvent(index int, block Content) *StreamEvent {
	return &StreamEvent{Type: EventContentBlockStart, Index: index, ContentBlock: &block}
}

// textDeltaEvent builds a text_delta for the given index.
func textDeltaEvent(index int, text string) *StreamEvent {
	return &StreamEvent{
		Type:  EventContentBlockDelta,
		Index: index,
		Delta: &Delta{Type: DeltaTypeText, Text: text},
	}
}

// applyAll folds a sequence of events into a fresh response, collecting
// anomalies and failing the test on any loud error.
func applyAll(testingHandle *testing.T, events []*StreamEvent) (MessagesResponse, []Anomaly) {
	testingHandle.Helper()
	var response MessagesResponse
	var anomalies []Anomaly
	for i, event := range events {
		_, anomaly, err := mergeEvent(&response, event)
		if err != nil {
			testingHandle.Fatalf("event %d: unexpected merge error: %v", i, err)
		}
		if anomaly != nil {
			anomalies = append(anomalies, *anomaly)
		}
	}
	return response, anomalies
}

// TestMessageStartOverwritesSnapshot verifies message_start replaces the
// full response state rather than merging into it.
func TestMessageStartOverwritesSnapshot(testingHandle *testing.T) {
	response := MessagesResponse{ID: "stale", Content: []Content{Text("leftover")}}

	snapshot := &MessagesResponse{
		ID:    "msg_1",
		Model: "model-x",
		Role:  RoleAssistant,
		Usage: Usage{InputTokens: intPtr(12)},
	}
	_, _, err := mergeEvent(&response, &StreamEvent{Type: EventMessageStart, Message: snapshot})
	testutil.RequireNoError(testingHandle, err, "merge message_start")

	testutil.RequireEqual(testingHandle, response.ID, "msg_1", "snapshot id")
	testutil.RequireEqual(testingHandle, len(response.Content), 0, "snapshot must replace stale content")
	testutil.RequireEqual(testingHandle, *response.Usage.InputTokens, 12, "snapshot usage")
}

// TestStreamFoldIsDeterministic verifies replaying the same event
// sequence from a fresh response yields identical state both times.
func TestStreamFoldIsDeterministic(testingHandle *testing.T) {
	stop := StopReasonEndTurn
	events := []*StreamEvent{
		{Type: EventMessageStart, Message: &MessagesResponse{ID: "msg_1", Role: RoleAssistant}},
		startEvent(0, Content{Type: ContentTypeThinking}),
		{Type: EventContentBlockDelta, Index: 0, Delta: &Delta{Type: DeltaTypeThinking, Thinking: "hmm"}},
		{Type: EventContentBlockStop, Index: 0},
		startEvent(1, Text("")),
		textDeltaEvent(1, "Hello"),
		textDeltaEvent(1, ", world"),
		{Type: EventContentBlockStop, Index: 1},
		{Type: EventMessageDelta, Delta: &Delta{StopReason: &stop}, Usage: &Usage{OutputTokens: intPtr(7)}},
		{Type: EventPing},
		{Type: EventMessageStop},
	}

	first, _ := applyAll(testingHandle, events)
	second, _ := applyAll(testingHandle, events)
	testutil.RequireEqual(testingHandle, first, second, "fold determinism")

	testutil.RequireEqual(testingHandle, first.Text(), "Hello, world", "final transcript")
	testutil.RequireEqual(testingHandle, first.Content[0].Thinking, "hmm", "thinking trace")
	testutil.RequireEqual(testingHandle, *first.StopReason, StopReasonEndTurn, "stop reason")
	testutil.RequireEqual(testingHandle, *first.Usage.OutputTokens, 7, "usage")
}

// TestPartialTextGrowsMonotonically verifies the partial transcript is a
// strict prefix-extension after every delta.
func TestPartialTextGrowsMonotonically(testingHandle *testing.T) {
	var response MessagesResponse
	deltas := []string{"one ", "two ", "three"}

	_, _, err := mergeEvent(&response, &StreamEvent{Type: EventMessageStart, Message: &MessagesResponse{Role: RoleAssistant}})
	testutil.RequireNoError(testingHandle, err, "merge message_start")
	_, _, err = mergeEvent(&response, startEvent(0, Text("")))
	testutil.RequireNoError(testingHandle, err, "merge content_block_start")

	previous := ""
	expected := ""
	for _, delta := range deltas {
		_, _, err := mergeEvent(&response, textDeltaEvent(0, delta))
		testutil.RequireNoError(testingHandle, err, "merge delta")

		current := response.Text()
		expected += delta
		testutil.RequireTrue(testingHandle, len(current) > len(previous), "transcript must strictly grow")
		testutil.RequireTrue(testingHandle, current[:len(previous)] == previous, "transcript must extend previous read")
		previous = current
	}

	_, _, err = mergeEvent(&response, &StreamEvent{Type: EventContentBlockStop, Index: 0})
	testutil.RequireNoError(testingHandle, err, "merge content_block_stop")
	closed, _, err := mergeEvent(&response, &StreamEvent{Type: EventMessageStop})
	testutil.RequireNoError(testingHandle, err, "merge message_stop")
	testutil.RequireTrue(testingHandle, closed, "message_stop must close the fold")
	testutil.RequireEqual(testingHandle, response.Text(), expected, "final transcript equals delta concatenation")
}

// TestDuplicateBlockStartIsIdempotent verifies a second start for an
// already-filled index changes nothing.
func TestDuplicateBlockStartIsIdempotent(testingHandle *testing.T) {
	var response MessagesResponse
	_, _, err := mergeEvent(&response, startEvent(0, Text("kept")))
	testutil.RequireNoError(testingHandle, err, "merge first start")
	_, _, err = mergeEvent(&response, startEvent(0, Text("dropped")))
	testutil.RequireNoError(testingHandle, err, "merge duplicate start")

	testutil.RequireEqual(testingHandle, len(response.Content), 1, "block count")
	testutil.RequireEqual(testingHandle, response.Content[0].Text, "kept", "original block must survive")
}

// TestMismatchedDeltaIsToleratedAnomaly verifies a kind mismatch leaves
// the block byte-identical and is recorded rather than fatal.
func TestMismatchedDeltaIsToleratedAnomaly(testingHandle *testing.T) {
	var response MessagesResponse
	_, _, err := mergeEvent(&response, startEvent(0, Text("before")))
	testutil.RequireNoError(testingHandle, err, "merge start")

	mismatch := &StreamEvent{
		Type:  EventContentBlockDelta,
		Index: 0,
		Delta: &Delta{Type: DeltaTypeThinking, Thinking: "stray"},
	}
	_, anomaly, err := mergeEvent(&response, mismatch)
	testutil.RequireNoError(testingHandle, err, "mismatch must not be fatal")
	testutil.RequireTrue(testingHandle, anomaly != nil, "mismatch must be recorded")
	testutil.RequireEqual(testingHandle, anomaly.BlockType, ContentTypeText, "anomaly block kind")
	testutil.RequireEqual(testingHandle, anomaly.DeltaType, DeltaTypeThinking, "anomaly delta kind")
	testutil.RequireEqual(testingHandle, response.Content[0].Text, "before", "block content must be untouched")
}

// TestToolUseDeltaFailsLoudly verifies any delta against a tool_use
// block surfaces as the distinct unsupported-operation failure.
func TestToolUseDeltaFailsLoudly(testingHandle *testing.T) {
	var response MessagesResponse
	_, _, err := mergeEvent(&response, startEvent(0, Content{Type: ContentTypeToolUse, ID: "tu_1", Name: "calculator"}))
	testutil.RequireNoError(testingHandle, err, "merge start")

	jsonDelta := &StreamEvent{
		Type:  EventContentBlockDelta,
		Index: 0,
		Delta: &Delta{Type: DeltaTypeInputJSON, PartialJSON: `{"a":`},
	}
	_, _, err = mergeEvent(&response, jsonDelta)
	testutil.RequireErrorIs(testingHandle, err, ErrToolInputStreaming, "tool input delta rejection")
	// Distinguishable from classified transport/parse errors.
	testutil.RequireTrue(testingHandle, !IsKind(err, ErrResponseParse), "must not classify as parse error")
}

// TestDeltaBeforeStartIsRecordedNoOp verifies a delta addressing an
// index with no started block is ignored and recorded.
func TestDeltaBeforeStartIsRecordedNoOp(testingHandle *testing.T) {
	var response MessagesResponse
	_, anomaly, err := mergeEvent(&response, textDeltaEvent(3, "orphan"))
	testutil.RequireNoError(testingHandle, err, "orphan delta must not be fatal")
	testutil.RequireTrue(testingHandle, anomaly != nil, "orphan delta must be recorded")
	testutil.RequireEqual(testingHandle, anomaly.Index, 3, "anomaly index")
	testutil.RequireEqual(testingHandle, len(response.Content), 0, "no block may be invented")
}

// TestMessageDeltaReplacesStopAndMergesUsage verifies stop data is
// authoritative while usage accumulates additively.
func TestMessageDeltaReplacesStopAndMergesUsage(testingHandle *testing.T) {
	var response MessagesResponse
	response.Usage = Usage{OutputTokens: intPtr(3)}

	stop := StopReasonStopSequence
	sequence := "END"
	event := &StreamEvent{
		Type:  EventMessageDelta,
		Delta: &Delta{StopReason: &stop, StopSequence: &sequence},
		Usage: &Usage{OutputTokens: intPtr(4)},
	}
	_, _, err := mergeEvent(&response, event)
	testutil.RequireNoError(testingHandle, err, "merge message_delta")

	testutil.RequireEqual(testingHandle, *response.StopReason, StopReasonStopSequence, "stop reason")
	testutil.RequireEqual(testingHandle, *response.StopSequence, "END", "stop sequence")
	testutil.RequireEqual(testingHandle, *response.Usage.OutputTokens, 7, "usage accumulates increments")
}
