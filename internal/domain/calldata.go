package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// SelectorHexLen is the width of a selector in hex characters.
const SelectorHexLen = 8

// ParseCalldata normalizes raw calldata and splits the selector from the tail.
// Whitespace and an optional 0x prefix are ignored. A trailing odd nibble is
// rejected because it can't be a byte.
func ParseCalldata(raw string) (Calldata, error) {
	s := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	s = strings.TrimPrefix(s, "0x")

	if len(s) < SelectorHexLen {
		return Calldata{}, fmt.Errorf("%w: need at least 4 bytes, got %d hex chars", ErrInvalidCalldata, len(s))
	}
	if len(s)%2 != 0 {
		return Calldata{}, fmt.Errorf("%w: odd number of hex chars", ErrInvalidCalldata)
	}
	if _, err := hex.DecodeString(s); err != nil {
		return Calldata{}, fmt.Errorf("%w: %v", ErrInvalidCalldata, err)
	}

	return Calldata{
		Raw:      s,
		Selector: "0x" + s[:SelectorHexLen],
		Tail:     s[SelectorHexLen:],
	}, nil
}

// NormalizeSelector returns the selector as lowercase 0x-prefixed hex. Longer
// inputs are treated as calldata and truncated to their first 4 bytes.
func NormalizeSelector(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "0x")
	if len(s) < SelectorHexLen {
		return "", fmt.Errorf("%w: %q", ErrInvalidSelector, raw)
	}
	s = s[:SelectorHexLen]
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSelector, raw)
	}
	return "0x" + s, nil
}
