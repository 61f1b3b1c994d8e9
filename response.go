package misanthropy

import (
	"fmt"
	"strings"
)

// StopReason explains why the model stopped generating.
type StopReason string

const (
	// StopReasonEndTurn means the model finished its turn naturally.
	StopReasonEndTurn StopReason = "end_turn"
	// StopReasonMaxTokens means the max_tokens budget was exhausted.
	StopReasonMaxTokens StopReason = "max_tokens"
	// StopReasonStopSequence means a custom stop sequence was produced.
	StopReasonStopSequence StopReason = "stop_sequence"
	// StopReasonToolUse means the model is waiting on a tool result.
	StopReasonToolUse StopReason = "tool_use"
)

// Usage counts tokens consumed by a request. All counters are optional
// so partial accounting from streamed increments stays distinguishable
// from an explicit zero.
type Usage struct {
	// InputTokens counts prompt tokens.
	InputTokens *int `json:"input_tokens,omitempty"`
	// OutputTokens counts generated tokens.
	OutputTokens *int `json:"output_tokens,omitempty"`
	// CacheCreationInputTokens counts tokens written to the prompt cache.
	CacheCreationInputTokens *int `json:"cache_creation_input_tokens,omitempty"`
	// CacheReadInputTokens counts tokens served from the prompt cache.
	CacheReadInputTokens *int `json:"cache_read_input_tokens,omitempty"`
}

// Merge sums two usage records field by field, treating absent counters
// as zero. Streamed message_delta events report increments, so the
// aggregate usage of a stream is the merge of all of them.
func (u Usage) Merge(other Usage) Usage {
	return Usage{
		InputTokens:              addCounters(u.InputTokens, other.InputTokens),
		OutputTokens:             addCounters(u.OutputTokens, other.OutputTokens),
		CacheCreationInputTokens: addCounters(u.CacheCreationInputTokens, other.CacheCreationInputTokens),
		CacheReadInputTokens:     addCounters(u.CacheReadInputTokens, other.CacheReadInputTokens),
	}
}

// addCounters sums two optional counters; the result is absent only
// when both inputs are absent.
func addCounters(a *int, b *int) *int {
	if a == nil && b == nil {
		return nil
	}
	total := 0
	if a != nil {
		total += *a
	}
	if b != nil {
		total += *b
	}
	return &total
}

// MessagesResponse is a full generation result. It is either decoded in
// one shot from a non-streaming response or accumulated event by event
// by a Stream.
type MessagesResponse struct {
	// ID is the server-assigned message identifier.
	ID string `json:"id"`
	// Model is the model that produced the response.
	Model string `json:"model"`
	// Role is the producing role, normally assistant.
	Role Role `json:"role"`
	// Content is the ordered sequence of generated blocks.
	Content []Content `json:"content"`
	// StopReason explains why generation ended, once known.
	StopReason *StopReason `json:"stop_reason,omitempty"`
	// StopSequence is the matched custom stop string, if any.
	StopSequence *string `json:"stop_sequence,omitempty"`
	// Usage is the cumulative token accounting.
	Usage Usage `json:"usage"`
}

// Text concatenates the text of every text block in order, ignoring
// other kinds. It is valid mid-stream and returns the best-effort
// partial transcript.
func (r *MessagesResponse) Text() string {
	var builder strings.Builder
	for _, block := range r.Content {
		if block.Type == ContentTypeText {
			builder.WriteString(block.Text)
		}
	}
	return builder.String()
}

// FormatContent renders all content blocks as human-readable text. Role
// prefixes are stripped when every line is assistant-authored text or
// thinking; user content or any image/tool block forces a prefix on
// every line.
func (r *MessagesResponse) FormatContent() string {
	role := string(RoleAssistant)
	if r.Role == RoleUser {
		role = string(RoleUser)
	}

	var lines []string
	forcePrefixes := r.Role == RoleUser
	for _, block := range r.Content {
		switch block.Type {
		case ContentTypeText:
			lines = append(lines, prefixLines(role, block.Text)...)
		case ContentTypeThinking:
			lines = append(lines, prefixLines(role, "[Thinking] "+block.Thinking)...)
		case ContentTypeImage:
			sourceType, mediaType := "", ""
			if block.Source != nil {
				sourceType, mediaType = block.Source.Type, block.Source.MediaType
			}
			lines = append(lines, fmt.Sprintf("%s: [Image: %s %s]", role, sourceType, mediaType))
			forcePrefixes = true
		case ContentTypeToolUse:
			lines = append(lines, fmt.Sprintf("%s: [Tool use: %s]", role, block.Name))
			forcePrefixes = true
		case ContentTypeToolResult:
			lines = append(lines, prefixLines(role, "[Tool result] "+block.Content)...)
			forcePrefixes = true
		}
	}

	if !forcePrefixes {
		for i, line := range lines {
			lines[i] = strings.TrimPrefix(line, string(RoleAssistant)+": ")
		}
	}
	return strings.Join(lines, "\n")
}

// prefixLines prefixes every line of text with the producing role.
func prefixLines(role string, text string) []string {
	split := strings.Split(text, "\n")
	lines := make([]string, 0, len(split))
	for _, line := range split {
		lines = append(lines, role+": "+line)
	}
	return lines
}
