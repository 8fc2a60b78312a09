package domain

import (
	"fmt"
	"time"
)

// Parameter is one formal argument of a resolved function signature together
// with its already-decoded value.
type Parameter struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

// Segment is a contiguous range of the calldata tail expressed in hex-character
// offsets (one byte is two characters). End is exclusive.
//
// OffsetValue is the pointer word of an offset segment, capped at MaxInt32. It
// is 0 when the slot is cut off or not hex; such segments never have a payload.
type Segment struct {
	Start       int    `json:"start" yaml:"start"`
	End         int    `json:"end" yaml:"end"`
	Type        string `json:"type" yaml:"type"`
	Name        string `json:"name" yaml:"name"`
	Value       any    `json:"value,omitempty" yaml:"value,omitempty"`
	IsDynamic   bool   `json:"isDynamic" yaml:"isDynamic"`
	IsOffset    bool   `json:"isOffset" yaml:"isOffset"`
	OffsetValue int    `json:"offsetValue,omitempty" yaml:"offsetValue,omitempty"`
}

// Len returns the segment width in hex characters.
func (s Segment) Len() int {
	return s.End - s.Start
}

// Kind returns a short label for the role the segment plays in the encoding.
func (s Segment) Kind() SegmentKind {
	switch {
	case s.IsOffset:
		return SegmentOffset
	case s.IsDynamic:
		return SegmentDynamic
	default:
		return SegmentStatic
	}
}

// SegmentKind tags the semantic role of a range of calldata.
type SegmentKind string

const (
	SegmentSelector SegmentKind = "selector"
	SegmentStatic   SegmentKind = "static"
	SegmentOffset   SegmentKind = "offset"
	SegmentDynamic  SegmentKind = "dynamic"
	SegmentGap      SegmentKind = "gap"
)

// Chunk is a piece of tail text clipped to the tail bounds. Gap chunks have a
// nil Segment.
type Chunk struct {
	Start   int
	Text    string
	Segment *Segment
}

// Kind returns the role of the chunk, SegmentGap for unannotated hex.
func (c Chunk) Kind() SegmentKind {
	if c.Segment == nil {
		return SegmentGap
	}
	return c.Segment.Kind()
}

// SignatureCandidate is one text signature a directory returned for a selector.
type SignatureCandidate struct {
	ID            int64     `json:"id" yaml:"id"`
	TextSignature string    `json:"textSignature" yaml:"textSignature"`
	HexSignature  string    `json:"hexSignature" yaml:"hexSignature"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
}

// SelectionRecord remembers the text signature a user confirmed for a selector.
type SelectionRecord struct {
	Selector  string    `json:"selector" yaml:"selector"`
	Signature string    `json:"signature" yaml:"signature"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// ResolutionSource says which rule picked the signature.
type ResolutionSource string

const (
	SourceSingle    ResolutionSource = "single"
	SourceHistory   ResolutionSource = "history"
	SourceHeuristic ResolutionSource = "heuristic"
	SourceForced    ResolutionSource = "forced"
	SourcePicked    ResolutionSource = "picked"
)

// Resolution is the outcome of ranking candidate signatures.
type Resolution struct {
	Signature string           `json:"signature" yaml:"signature"`
	Index     int              `json:"index" yaml:"index"`
	Source    ResolutionSource `json:"source" yaml:"source"`
	// Scores is index-aligned with the candidates. It is nil when no scoring
	// was needed.
	Scores []float64 `json:"scores,omitempty" yaml:"scores,omitempty"`
	// Fallback is set when the picked signature failed to decode and a lower
	// ranked candidate was used instead.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Calldata is a normalized view of raw calldata: lowercase hex without 0x,
// with the 4-byte selector split off.
type Calldata struct {
	Raw      string
	Selector string
	Tail     string
}

// Prefixed returns the calldata as 0x-prefixed hex.
func (c Calldata) Prefixed() string {
	return "0x" + c.Raw
}

func (c Calldata) String() string {
	return fmt.Sprintf("%s|%s", c.Selector, c.Tail)
}
