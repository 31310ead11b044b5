package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// Version is the JSON-RPC protocol version spoken on the wire.
const Version = "2.0"

// Request is a JSON-RPC 2.0 request. Notifications carry no ID.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response. Exactly one of Result or Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject is a JSON-RPC 2.0 error object.
type ErrorObject struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Standard JSON-RPC 2.0 error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// Bridge-specific error codes.
const (
	// ErrCodeSolver is a failure raised by the solver's scripting API.
	ErrCodeSolver = -32000
	// ErrCodeNotFound is returned when a named setup, sweep, object or report is absent.
	ErrCodeNotFound = -32004
	// ErrCodeProjectNotFound is returned when the project file cannot be opened.
	ErrCodeProjectNotFound = -32005
)

// RemoteError is an error response returned by the bridge.
type RemoteError struct {
	Method  string
	Code    int
	Message string
	Data    json.RawMessage
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("bridge %s: %s (code %d)", e.Method, e.Message, e.Code)
}

// Unwrap maps well-known codes onto domain sentinels so callers can use errors.Is.
func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case ErrCodeNotFound:
		return domain.ErrNotFound
	case ErrCodeProjectNotFound:
		return domain.ErrProjectNotFound
	}
	return nil
}

// IsRemote reports whether err carries a bridge error response.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
