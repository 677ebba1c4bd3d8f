package tools

import (
	"errors"

	"github.com/osintforge/intelx-mcp/intelx"
	"github.com/osintforge/intelx-mcp/search"
)

// Sentinel errors for consistent error handling.
var (
	ErrToolNotFound      = errors.New("tool not found")
	ErrHandlerNotFound   = errors.New("handler not found")
	ErrAlreadyRegistered = errors.New("tool already registered")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInvalidArguments  = errors.New("invalid arguments")
)

// MCP JSON-RPC 2.0 error codes. The -327xx range is the JSON-RPC spec; the
// -320xx range carries this server's domain failures.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603

	ErrCodeToolNotFound      = -32001
	ErrCodeToolExecFailed    = -32002
	ErrCodeUnknownIdentifier = -32003
	ErrCodeInvalidSearch     = -32004
	ErrCodeTreeUnavailable   = -32005
	ErrCodeUpstream          = -32006
)

// errorCode maps a tool execution failure onto its JSON-RPC error code.
func errorCode(err error) int {
	var statusErr *intelx.StatusError
	switch {
	case errors.Is(err, ErrToolNotFound):
		return ErrCodeToolNotFound
	case errors.Is(err, ErrInvalidArguments):
		return ErrCodeInvalidParams
	case errors.Is(err, search.ErrUnknownIdentifier):
		return ErrCodeUnknownIdentifier
	case errors.Is(err, intelx.ErrInvalidSearchTerm),
		errors.Is(err, intelx.ErrSubmitRejected),
		errors.Is(err, intelx.ErrInvalidHandle):
		return ErrCodeInvalidSearch
	case errors.Is(err, intelx.ErrTreeUnavailable):
		return ErrCodeTreeUnavailable
	case errors.As(err, &statusErr):
		return ErrCodeUpstream
	default:
		return ErrCodeToolExecFailed
	}
}
