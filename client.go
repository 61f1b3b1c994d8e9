// Package misanthropy is a typed client for the Anthropic Messages API,
// covering single request/response calls and server-sent event streaming.
package misanthropy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const (
	// DefaultModel is used when a request does not name a model.
	DefaultModel = "claude-3-5-sonnet-20241022"
	// DefaultMaxTokens is used when a request does not set a budget.
	DefaultMaxTokens = 1024
	// APIKeyEnv is the environment variable consulted for the credential.
	APIKeyEnv = "ANTHROPIC_API_KEY"
	// APIVersion is sent in the anthropic-version header.
	APIVersion = "2023-06-01"
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"
)

// messagesPath is the Messages API endpoint path.
const messagesPath = "/v1/messages"

// Client issues Messages API requests. It holds the credential and the
// defaults filled into requests that leave model or max_tokens unset.
type Client struct {
	// apiKey is attached to every request as the x-api-key header.
	apiKey string
	// baseURL is the API endpoint root.
	baseURL string
	// model is the default model identifier.
	model string
	// maxTokens is the default output budget.
	maxTokens int
	// httpClient executes requests.
	httpClient *http.Client
}

// NewClient constructs a client with the given credential and library
// defaults for everything else.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		maxTokens:  DefaultMaxTokens,
		httpClient: &http.Client{},
	}
}

// FromEnv constructs a client from the ANTHROPIC_API_KEY environment
// variable.
func FromEnv() (*Client, error) {
	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return nil, &Error{
			Kind:    ErrConfig,
			Message: fmt.Sprintf("environment variable %s not set", APIKeyEnv),
		}
	}
	return NewClient(apiKey), nil
}

// WithStringOrEnv constructs a client from an explicit credential,
// falling back to the environment when the string is empty.
func WithStringOrEnv(apiKey string) (*Client, error) {
	if apiKey != "" {
		return NewClient(apiKey), nil
	}
	return FromEnv()
}

// WithModel sets the default model and returns the client for chaining.
func (c *Client) WithModel(model string) *Client {
	c.model = model
	return c
}

// WithMaxTokens sets the default output budget and returns the client
// for chaining.
func (c *Client) WithMaxTokens(maxTokens int) *Client {
	c.maxTokens = maxTokens
	return c
}

// WithBaseURL overrides the API endpoint root, e.g. for a test server.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// WithHTTPClient overrides the HTTP client used for requests.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// Model returns the default model identifier.
func (c *Client) Model() string {
	return c.model
}

// MaxTokens returns the default output budget.
func (c *Client) MaxTokens() int {
	return c.maxTokens
}

// BaseURL returns the API endpoint root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Messages sends a single generation request and blocks until the full
// response or a classified error is available.
func (c *Client) Messages(ctx context.Context, request MessagesRequest) (*MessagesResponse, error) {
	resp, err := c.post(ctx, request, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: ErrTransport, Message: "read response body", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyAPIError(resp.StatusCode, body)
	}

	var parsed MessagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &Error{Kind: ErrResponseParse, Message: "parse messages response", Err: err}
	}
	return &parsed, nil
}

// MessagesStream opens a live event subscription for the request and
// returns the stream handle immediately. The request must have its
// streaming flag set; a false flag is a caller-contract violation
// rejected before any network I/O.
func (c *Client) MessagesStream(ctx context.Context, request MessagesRequest) (*Stream, error) {
	if !request.Stream {
		return nil, &Error{
			Kind:    ErrBadRequest,
			Message: "request stream flag must be true for streaming calls",
		}
	}

	resp, err := c.post(ctx, request, true)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, &Error{Kind: ErrTransport, Message: "read stream error body", Err: readErr}
		}
		// Rate limiting during stream establishment is classified
		// distinctly so callers can back off.
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, &Error{Kind: ErrRateLimited, Message: "rate limit exceeded", StatusCode: resp.StatusCode}
		}
		return nil, classifyAPIError(resp.StatusCode, body)
	}
	return newStream(resp.Body), nil
}

// post fills request defaults and issues the Messages API call.
func (c *Client) post(ctx context.Context, request MessagesRequest, streaming bool) (*http.Response, error) {
	if request.Model == "" {
		request.Model = c.model
	}
	if request.MaxTokens == 0 {
		request.MaxTokens = c.maxTokens
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, &Error{Kind: ErrBadRequest, Message: "marshal messages request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+messagesPath,
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, &Error{Kind: ErrBadRequest, Message: "create messages request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", APIVersion)
	if streaming {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: ErrTransport, Message: "send messages request", Err: err}
	}
	return resp, nil
}
