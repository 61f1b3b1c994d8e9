package misanthropy

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Role identifies a conversation participant.
type Role string

const (
	// RoleUser marks content supplied by the caller.
	RoleUser Role = "user"
	// RoleAssistant marks content generated by the model.
	RoleAssistant Role = "assistant"
)

// ContentType discriminates the kind of a content block.
type ContentType string

const (
	// ContentTypeText is a plain text block.
	ContentTypeText ContentType = "text"
	// ContentTypeImage is a base64-encoded image block.
	ContentTypeImage ContentType = "image"
	// ContentTypeToolUse is a tool invocation requested by the model.
	ContentTypeToolUse ContentType = "tool_use"
	// ContentTypeToolResult carries the caller's result for a tool invocation.
	ContentTypeToolResult ContentType = "tool_result"
	// ContentTypeThinking is an extended reasoning trace.
	ContentTypeThinking ContentType = "thinking"
)

// CacheControl marks a block as a prompt cache breakpoint.
type CacheControl struct {
	// Type is the cache strategy; the API currently accepts "ephemeral".
	Type string `json:"type"`
}

// Source describes the payload of an image block.
type Source struct {
	// Type is the payload encoding, currently always "base64".
	Type string `json:"type"`
	// MediaType is the MIME type of the decoded data.
	MediaType string `json:"media_type"`
	// Data is the base64-encoded image bytes.
	Data string `json:"data"`
}

// Content is one block within a message. Type is authoritative; only the
// fields belonging to that kind are populated.
type Content struct {
	// Type discriminates which block kind the remaining fields describe.
	Type ContentType `json:"type"`
	// Text is the payload of a text block.
	Text string `json:"text,omitempty"`
	// CacheControl optionally tags a text block for prompt caching.
	CacheControl *CacheControl `json:"cache_control,omitempty"`
	// Source is the payload of an image block.
	Source *Source `json:"source,omitempty"`
	// ID is the server-assigned identifier of a tool_use block.
	ID string `json:"id,omitempty"`
	// Name is the tool being invoked by a tool_use block.
	Name string `json:"name,omitempty"`
	// Input is the free-form JSON argument value of a tool_use block.
	Input any `json:"input,omitempty"`
	// ToolUseID references the tool_use block a tool_result answers.
	ToolUseID string `json:"tool_use_id,omitempty"`
	// Content is the textual payload of a tool_result block.
	Content string `json:"content,omitempty"`
	// IsError marks a tool_result as a failed invocation.
	IsError bool `json:"is_error,omitempty"`
	// Thinking is the reasoning trace of a thinking block.
	Thinking string `json:"thinking,omitempty"`
	// Signature is the integrity signature of a completed thinking block.
	Signature string `json:"signature,omitempty"`
}

// Text constructs a text content block.
func Text(text string) Content {
	return Content{Type: ContentTypeText, Text: text}
}

// TextCached constructs a text block tagged as a prompt cache breakpoint.
func TextCached(text string) Content {
	return Content{
		Type:         ContentTypeText,
		Text:         text,
		CacheControl: &CacheControl{Type: "ephemeral"},
	}
}

// ImageFromFile reads an image from disk and constructs an image block.
// The media type is inferred from the file extension; unrecognized
// extensions fall back to application/octet-stream.
func ImageFromFile(path string) (Content, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("read image %s: %w", path, err)
	}
	return Content{
		Type: ContentTypeImage,
		Source: &Source{
			Type:      "base64",
			MediaType: mediaTypeForExt(filepath.Ext(path)),
			Data:      base64.StdEncoding.EncodeToString(raw),
		},
	}, nil
}

// ToolResult constructs a successful tool_result block answering the
// tool_use block with the given id.
func ToolResult(toolUseID string, text string) Content {
	return Content{
		Type:      ContentTypeToolResult,
		ToolUseID: toolUseID,
		Content:   text,
	}
}

// ToolResultError constructs a tool_result block reporting a failed
// tool invocation.
func ToolResultError(toolUseID string, text string) Content {
	return Content{
		Type:      ContentTypeToolResult,
		ToolUseID: toolUseID,
		Content:   text,
		IsError:   true,
	}
}

// mediaTypeForExt maps a file extension to an image MIME type.
func mediaTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// Message is one conversational turn: a role and its ordered content blocks.
type Message struct {
	// Role identifies who produced the content.
	Role Role `json:"role"`
	// Content is the ordered sequence of blocks in this turn.
	Content []Content `json:"content"`
}
