package misanthropy

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind classifies client failures for retry and reporting decisions.
type ErrorKind string

const (
	// ErrBadRequest marks malformed or semantically invalid requests,
	// including caller-contract violations caught before any network I/O.
	ErrBadRequest ErrorKind = "bad_request"
	// ErrUnauthorized marks authentication and permission failures.
	ErrUnauthorized ErrorKind = "unauthorized"
	// ErrRateLimited marks rate-limit rejections.
	ErrRateLimited ErrorKind = "rate_limited"
	// ErrOverloaded marks temporary server overload.
	ErrOverloaded ErrorKind = "overloaded"
	// ErrAPI marks generic server-side API failures.
	ErrAPI ErrorKind = "api_error"
	// ErrUnknown marks unrecognized or not-found API error classes.
	ErrUnknown ErrorKind = "unknown"
	// ErrResponseParse marks response or event bodies that failed to
	// parse against the expected shape.
	ErrResponseParse ErrorKind = "response_parse"
	// ErrTransport marks failures at the HTTP or connection layer.
	ErrTransport ErrorKind = "transport"
	// ErrStream marks failures maintaining the live event subscription.
	ErrStream ErrorKind = "stream"
	// ErrConfig marks credential or environment resolution failures.
	ErrConfig ErrorKind = "config"
)

// ErrToolInputStreaming is returned when a content_block_delta targets
// a tool_use block. Streamed tool input assembly is not implemented, and
// silently dropping the delta would let a tool call proceed with a
// truncated input value.
var ErrToolInputStreaming = errors.New("streaming deltas for tool_use input are not supported")

// Error is a classified client failure.
type Error struct {
	// Kind is the taxonomy class of the failure.
	Kind ErrorKind
	// Message describes the failure.
	Message string
	// StatusCode is the HTTP status, when the failure came from a response.
	StatusCode int
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a classified client error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind == kind
	}
	return false
}

// apiErrorResponse is the JSON body of a non-2xx API response.
type apiErrorResponse struct {
	// Type is always "error".
	Type string `json:"type"`
	// Error carries the class and message.
	Error APIErrorDetail `json:"error"`
}

// kindForAPIErrorType maps an API error class to the taxonomy.
func kindForAPIErrorType(errorType string) ErrorKind {
	switch errorType {
	case "invalid_request_error":
		return ErrBadRequest
	case "authentication_error", "permission_error":
		return ErrUnauthorized
	case "rate_limit_error":
		return ErrRateLimited
	case "overloaded_error":
		return ErrOverloaded
	case "api_error":
		return ErrAPI
	default:
		// not_found_error and future classes land here.
		return ErrUnknown
	}
}

// classifyAPIError translates a non-2xx response body into a classified
// error. Bodies that do not decode as an API error keep the raw text so
// nothing is lost.
func classifyAPIError(statusCode int, body []byte) *Error {
	var parsed apiErrorResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error.Type == "" {
		return &Error{
			Kind:       ErrUnknown,
			Message:    fmt.Sprintf("api request failed with status %d: %s", statusCode, string(body)),
			StatusCode: statusCode,
		}
	}
	return &Error{
		Kind:       kindForAPIErrorType(parsed.Error.Type),
		Message:    parsed.Error.Message,
		StatusCode: statusCode,
	}
}
