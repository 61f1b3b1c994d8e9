package misanthropy

// Tool declares a capability the model may invoke with a tool_use block.
// Custom tools carry a name, description and JSON schema; built-in tools
// (such as the text editor) are identified by Type instead of a schema.
type Tool struct {
	// Type identifies a built-in tool variant; empty for custom tools.
	Type string `json:"type,omitempty"`
	// Name is the tool identifier the model emits in tool_use blocks.
	Name string `json:"name"`
	// Description tells the model what the tool does.
	Description string `json:"description,omitempty"`
	// InputSchema is a JSON Schema object describing the tool input.
	// This library stores and serializes the schema as supplied; it does
	// not derive schemas from Go types.
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

// NewTool constructs a custom tool declaration.
func NewTool(name string, description string, inputSchema map[string]any) Tool {
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
	}
}

// TextEditorType selects a built-in text editor tool generation. Each
// model generation expects a matching editor variant.
type TextEditorType string

const (
	// TextEditor20240620 targets the claude-3-5-sonnet-20240620 generation.
	TextEditor20240620 TextEditorType = "text_editor_20240620"
	// TextEditor20241022 targets the claude-3-5-sonnet-20241022 generation.
	TextEditor20241022 TextEditorType = "text_editor_20241022"
	// TextEditor20250124 targets claude-3-7 and later generations.
	TextEditor20250124 TextEditorType = "text_editor_20250124"
)

// textEditorToolName is the fixed name the API requires for the
// built-in text editor.
const textEditorToolName = "str_replace_editor"

// NewTextEditorTool constructs the built-in text editor declaration for
// the given model generation.
func NewTextEditorTool(editorType TextEditorType) Tool {
	return Tool{
		Type: string(editorType),
		Name: textEditorToolName,
	}
}

// ToolChoice directs how the model selects among declared tools.
type ToolChoice struct {
	// Type is one of "auto", "any" or "tool".
	Type string `json:"type"`
	// Name is the forced tool when Type is "tool".
	Name string `json:"name,omitempty"`
}

// ToolChoiceAuto lets the model decide whether to use a tool. This is
// the API default and is omitted from serialized requests.
func ToolChoiceAuto() *ToolChoice {
	return &ToolChoice{Type: "auto"}
}

// ToolChoiceAny forces the model to use one of the declared tools.
func ToolChoiceAny() *ToolChoice {
	return &ToolChoice{Type: "any"}
}

// ToolChoiceTool forces the model to use the named tool.
func ToolChoiceTool(name string) *ToolChoice {
	return &ToolChoice{Type: "tool", Name: name}
}
