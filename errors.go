package respcodec

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEnd is returned when the input ends before a required token or terminator was found.
	ErrUnexpectedEnd = errors.New("respcodec: unexpected end of input")

	// ErrUnrecognizedStart is returned when a value starts with a byte that does not map to any RESP kind.
	ErrUnrecognizedStart = errors.New("respcodec: unrecognized start of RESP data")

	// ErrExpectedLength is returned when a length token was required but the input did not hold a valid
	// non-negative decimal.
	ErrExpectedLength = errors.New("respcodec: expected a length for following items")

	// ErrInvalidUTF8 is returned when payload bytes decoded into a string target are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("respcodec: invalid UTF-8 sequence in RESP data")

	// ErrMaxDepth is returned when a value nests deeper than MaxDepth.
	ErrMaxDepth = errors.New("respcodec: maximum nesting depth exceeded")
)

// MaxDepth bounds the nesting depth of values handled by Marshal, Unmarshal
// and the bounded array/map readers. The wire format itself has no depth
// limit; the guard exists so pathological inputs fail with ErrMaxDepth
// instead of exhausting the stack.
const MaxDepth = 1000

// UnexpectedByteError is returned when a byte or token does not match what
// the expected shape or wire kind required.
type UnexpectedByteError struct {
	// Expected describes the byte or token that was required.
	Expected string
	// Found is the offending input byte.
	Found byte
}

// Error implements the error interface.
func (e *UnexpectedByteError) Error() string {
	return fmt.Sprintf("respcodec: unexpected byte: expected %s, found %q", e.Expected, e.Found)
}

// SerializeError reports a shape-contract violation during encoding, for
// example a map with unknown length.
type SerializeError struct {
	Msg string
}

// Error implements the error interface.
func (e *SerializeError) Error() string {
	return "respcodec: failed to serialize RESP data: " + e.Msg
}

func serializeErrorf(format string, args ...any) error {
	return &SerializeError{Msg: fmt.Sprintf(format, args...)}
}

// DeserializeError reports a shape-contract violation during decoding that
// is not covered by the more specific errors, for example a union variant
// map with a pair count other than one.
type DeserializeError struct {
	Msg string
}

// Error implements the error interface.
func (e *DeserializeError) Error() string {
	return "respcodec: failed to deserialize RESP data: " + e.Msg
}

func deserializeErrorf(format string, args ...any) error {
	return &DeserializeError{Msg: fmt.Sprintf(format, args...)}
}
