package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidCalldata is returned when input is not hex or shorter than a selector
	ErrInvalidCalldata = errors.New("invalid calldata")

	// ErrInvalidSelector is returned when a selector is not 4 bytes of hex
	ErrInvalidSelector = errors.New("invalid selector")

	// ErrNoSignature is returned when no candidate signature exists for a selector
	ErrNoSignature = errors.New("no signature found")

	// ErrDecodeFailed is returned when no candidate could decode the arguments
	ErrDecodeFailed = errors.New("decode failed")

	// ErrUnsupportedType is returned when a signature uses a type the decoder can't build
	ErrUnsupportedType = errors.New("unsupported type")
)

type NoSignatureErr struct {
	Selector string
}

func (e NoSignatureErr) Error() string {
	return fmt.Sprintf("no signature found for selector %s", e.Selector)
}

func (e NoSignatureErr) Unwrap() error {
	return ErrNoSignature
}

type DecodeErr struct {
	Selector string
	Tried    []string
	Last     error
}

func (e DecodeErr) Error() string {
	return fmt.Sprintf("none of %d candidate(s) for %s decoded the calldata: %v", len(e.Tried), e.Selector, e.Last)
}

func (e DecodeErr) Unwrap() []error {
	return []error{ErrDecodeFailed, e.Last}
}
