package search

import (
	"errors"
	"fmt"

	"github.com/osintforge/intelx-mcp/pseudonym"
)

// ErrUnknownIdentifier means a caller referenced a pseudonymized integer
// the registry never issued for that field.
var ErrUnknownIdentifier = errors.New("unknown identifier")

// UnknownIdentifierError carries the offending field and integer.
type UnknownIdentifierError struct {
	Field pseudonym.Field
	Value int
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown identifier: no %s was ever returned as %d", e.Field, e.Value)
}

func (e *UnknownIdentifierError) Unwrap() error {
	return ErrUnknownIdentifier
}
