package misanthropy

import (
	"testing"

	"github.com/cortesi/misanthropy/internal/testutil"
)

// intPtr returns a pointer to the given counter value.
func intPtr(value int) *int {
	return &value
}

// TestUsageMergeIsAssociative verifies merge(merge(a,b),c) equals
// merge(a,merge(b,c)).
func TestUsageMergeIsAssociative(testingHandle *testing.T) {
	a := Usage{InputTokens: intPtr(1), OutputTokens: intPtr(2)}
	b := Usage{OutputTokens: intPtr(3), CacheReadInputTokens: intPtr(5)}
	c := Usage{InputTokens: intPtr(7), CacheCreationInputTokens: intPtr(11)}

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))
	testutil.RequireEqual(testingHandle, left, right, "usage merge associativity")
}

// TestUsageMergeIdentity verifies merging with an empty usage is a no-op.
func TestUsageMergeIdentity(testingHandle *testing.T) {
	a := Usage{InputTokens: intPtr(4), OutputTokens: intPtr(9)}
	merged := a.Merge(Usage{})

	testutil.RequireEqual(testingHandle, merged, a, "merge with empty usage")
	// Absent on both sides stays absent rather than becoming zero.
	testutil.RequireTrue(testingHandle, merged.CacheReadInputTokens == nil, "absent counters must stay absent")
}

// TestFormatContentStripsAssistantPrefixes verifies pure assistant text
// renders without role prefixes.
func TestFormatContentStripsAssistantPrefixes(testingHandle *testing.T) {
	response := MessagesResponse{
		Role:    RoleAssistant,
		Content: []Content{Text("Hi there")},
	}
	testutil.RequireEqual(testingHandle, response.FormatContent(), "Hi there", "assistant-only rendering")
}

// TestFormatContentPrefixesUserContent verifies user content always
// carries a role prefix.
func TestFormatContentPrefixesUserContent(testingHandle *testing.T) {
	response := MessagesResponse{
		Role:    RoleUser,
		Content: []Content{Text("hello")},
	}
	testutil.RequireEqual(testingHandle, response.FormatContent(), "user: hello", "user rendering")
}

// TestFormatContentImageForcesPrefixes verifies a non-text block forces
// prefixes on every output line.
func TestFormatContentImageForcesPrefixes(testingHandle *testing.T) {
	response := MessagesResponse{
		Role: RoleAssistant,
		Content: []Content{
			Text("caption"),
			{Type: ContentTypeImage, Source: &Source{Type: "base64", MediaType: "image/png"}},
		},
	}

	rendered := response.FormatContent()
	testutil.RequireEqual(testingHandle, rendered, "assistant: caption\nassistant: [Image: base64 image/png]", "mixed rendering")
}

// TestFormatContentToolBlocksForcePrefixes verifies tool blocks render
// with role prefixes on all lines.
func TestFormatContentToolBlocksForcePrefixes(testingHandle *testing.T) {
	response := MessagesResponse{
		Role: RoleAssistant,
		Content: []Content{
			{Type: ContentTypeToolUse, ID: "tu_1", Name: "calculator"},
			Text("done"),
		},
	}

	rendered := response.FormatContent()
	testutil.RequireEqual(testingHandle, rendered, "assistant: [Tool use: calculator]\nassistant: done", "tool rendering")
}

// TestTextConcatenatesTextBlocksOnly verifies the partial transcript
// read skips non-text blocks.
func TestTextConcatenatesTextBlocksOnly(testingHandle *testing.T) {
	response := MessagesResponse{
		Content: []Content{
			{Type: ContentTypeThinking, Thinking: "pondering"},
			Text("Hello, "),
			{Type: ContentTypeToolUse, Name: "calculator"},
			Text("world"),
		},
	}
	testutil.RequireEqual(testingHandle, response.Text(), "Hello, world", "text concatenation")
}
