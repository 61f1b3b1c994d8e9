package misanthropy

// Thinking configures the extended thinking token budget for a request.
type Thinking struct {
	// Type enables thinking; the API accepts "enabled".
	Type string `json:"type"`
	// BudgetTokens is the maximum number of tokens spent on thinking.
	BudgetTokens int `json:"budget_tokens"`
}

// MessagesRequest is an outbound generation request. Zero values for
// Model and MaxTokens are filled from client defaults at send time.
type MessagesRequest struct {
	// Model is the model identifier to generate with.
	Model string `json:"model"`
	// MaxTokens caps the generated output length.
	MaxTokens int `json:"max_tokens"`
	// Messages is the ordered conversation history.
	Messages []Message `json:"messages"`
	// System is an optional system prompt content sequence.
	System []Content `json:"system,omitempty"`
	// Temperature controls sampling randomness when set.
	Temperature *float64 `json:"temperature,omitempty"`
	// Stream requests a server-sent event response.
	Stream bool `json:"stream"`
	// Tools declares the capabilities available to the model.
	Tools []Tool `json:"tools,omitempty"`
	// ToolChoice directs tool selection; nil means the "auto" default.
	ToolChoice *ToolChoice `json:"tool_choice,omitempty"`
	// StopSequences are custom strings that end generation.
	StopSequences []string `json:"stop_sequences,omitempty"`
	// Thinking enables an extended thinking budget when set.
	Thinking *Thinking `json:"thinking,omitempty"`
}

// WithModel returns a copy of the request targeting the given model.
func (r MessagesRequest) WithModel(model string) MessagesRequest {
	r.Model = model
	return r
}

// WithMaxTokens returns a copy of the request with the given output cap.
func (r MessagesRequest) WithMaxTokens(maxTokens int) MessagesRequest {
	r.MaxTokens = maxTokens
	return r
}

// WithTemperature returns a copy of the request with sampling temperature set.
func (r MessagesRequest) WithTemperature(temperature float64) MessagesRequest {
	r.Temperature = &temperature
	return r
}

// WithStream returns a copy of the request with the streaming flag set.
// The flag only declares intent; Client.MessagesStream enforces it.
func (r MessagesRequest) WithStream(stream bool) MessagesRequest {
	r.Stream = stream
	return r
}

// WithTools returns a copy of the request declaring the given tools.
func (r MessagesRequest) WithTools(tools ...Tool) MessagesRequest {
	r.Tools = tools
	return r
}

// WithToolChoice returns a copy of the request with the given tool
// selection policy. The "auto" default is stored as nil so it is
// omitted from the serialized request.
func (r MessagesRequest) WithToolChoice(choice *ToolChoice) MessagesRequest {
	if choice != nil && choice.Type == "auto" {
		choice = nil
	}
	r.ToolChoice = choice
	return r
}

// WithStopSequences returns a copy of the request with custom stop strings.
func (r MessagesRequest) WithStopSequences(sequences ...string) MessagesRequest {
	r.StopSequences = sequences
	return r
}

// WithThinking returns a copy of the request with an extended thinking
// budget enabled.
func (r MessagesRequest) WithThinking(budgetTokens int) MessagesRequest {
	r.Thinking = &Thinking{Type: "enabled", BudgetTokens: budgetTokens}
	return r
}

// AddUser appends user content, coalescing into the trailing message
// when it is also a user turn. The API expects alternating roles, so a
// contiguous run of same-role additions always lands in one message.
func (r *MessagesRequest) AddUser(content ...Content) {
	r.addContent(RoleUser, content)
}

// AddAssistant appends assistant content, coalescing into the trailing
// message when it is also an assistant turn.
func (r *MessagesRequest) AddAssistant(content ...Content) {
	r.addContent(RoleAssistant, content)
}

// AddSystem appends one block to the system prompt sequence.
func (r *MessagesRequest) AddSystem(content Content) {
	r.System = append(r.System, content)
}

// addContent implements the same-role coalescing invariant for the two
// append operations.
func (r *MessagesRequest) addContent(role Role, content []Content) {
	if len(content) == 0 {
		return
	}
	if last := len(r.Messages) - 1; last >= 0 && r.Messages[last].Role == role {
		r.Messages[last].Content = append(r.Messages[last].Content, content...)
		return
	}
	r.Messages = append(r.Messages, Message{Role: role, Content: content})
}
