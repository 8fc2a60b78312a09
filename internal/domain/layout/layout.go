// Package layout reconstructs which range of an ABI-encoded calldata tail each
// parameter occupies. It never decodes values; it only infers byte ranges from
// the fixed 32-byte head-slot convention and the offset/length words found in
// the tail.
package layout

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
)

const (
	// SlotWidth is one 32-byte head slot in hex characters.
	SlotWidth = 64

	// DefaultPayloadBias is added to offset*2 to locate a dynamic payload.
	// Existing callers depend on this exact value.
	DefaultPayloadBias = -8

	// maxWord bounds offset and length words so arithmetic on them can't overflow.
	maxWord = math.MaxInt32
)

// Options configures an Analyzer. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// StaticWidths maps a static ABI type to the hex width it occupies.
	StaticWidths map[string]int
	// DefaultWidth is used for static types missing from StaticWidths.
	DefaultWidth int
	// PayloadBias is added to offset*2 when locating a dynamic payload.
	PayloadBias int
}

// DefaultOptions returns a fresh copy of the built-in configuration.
func DefaultOptions() Options {
	return Options{
		StaticWidths: DefaultStaticWidths(),
		DefaultWidth: SlotWidth,
		PayloadBias:  DefaultPayloadBias,
	}
}

// DefaultStaticWidths builds the static-length table: address, bool, every
// uintN/intN width and bytesN for N in {1,2,4,8,16,32}, each one head slot.
func DefaultStaticWidths() map[string]int {
	widths := map[string]int{
		"address": SlotWidth,
		"bool":    SlotWidth,
		"uint":    SlotWidth,
		"int":     SlotWidth,
	}
	for bits := 8; bits <= 256; bits += 8 {
		widths[fmt.Sprintf("uint%d", bits)] = SlotWidth
		widths[fmt.Sprintf("int%d", bits)] = SlotWidth
	}
	for _, n := range []int{1, 2, 4, 8, 16, 32} {
		widths[fmt.Sprintf("bytes%d", n)] = SlotWidth
	}
	return widths
}

// Analyzer computes segments for one configuration. It holds no mutable state
// and is safe for concurrent use.
type Analyzer struct {
	widths       map[string]int
	defaultWidth int
	bias         int
}

// New creates an Analyzer. The width table is copied so later changes to
// opts don't leak in.
func New(opts Options) *Analyzer {
	defaultWidth := opts.DefaultWidth
	if defaultWidth <= 0 {
		defaultWidth = SlotWidth
	}
	return &Analyzer{
		widths:       lo.Assign(opts.StaticWidths),
		defaultWidth: defaultWidth,
		bias:         opts.PayloadBias,
	}
}

// DefaultAnalyzer uses DefaultOptions.
var DefaultAnalyzer = New(DefaultOptions())

// ComputeSegments runs DefaultAnalyzer.
func ComputeSegments(params []domain.Parameter, tailHex string) []domain.Segment {
	return DefaultAnalyzer.ComputeSegments(params, tailHex)
}

// IsDynamic reports whether an ABI type is variable-length: exactly string,
// exactly bytes, or a T[] array. Fixed-size arrays T[N] are static here even
// when T is dynamic.
func IsDynamic(typ string) bool {
	return typ == "string" || typ == "bytes" || strings.HasSuffix(typ, "[]")
}

// PayloadBias returns the bias this analyzer applies to offsets.
func (a *Analyzer) PayloadBias() int {
	return a.bias
}

// StaticWidth returns the hex width of a static type, falling back to the
// default width for unknown types.
func (a *Analyzer) StaticWidth(typ string) int {
	if w, ok := a.widths[typ]; ok && w > 0 {
		return w
	}
	return a.defaultWidth
}

// ComputeSegments returns the segments for params laid over tailHex (the
// calldata after the selector, no 0x). The result is sorted by Start and
// non-overlapping. Segments are logical ranges and may extend past the end of
// tailHex; use Annotate to clip them for display.
func (a *Analyzer) ComputeSegments(params []domain.Parameter, tailHex string) []domain.Segment {
	if len(params) == 0 {
		return []domain.Segment{}
	}

	hasDynamic := lo.SomeBy(params, func(p domain.Parameter) bool {
		return IsDynamic(p.Type)
	})
	if !hasDynamic {
		return a.staticSegments(params)
	}
	head, payloads := a.mixedSegments(params, tailHex)
	return settle(head, payloads)
}

func (a *Analyzer) staticSegments(params []domain.Parameter) []domain.Segment {
	segments := make([]domain.Segment, 0, len(params))
	cursor := 0
	for _, p := range params {
		width := a.StaticWidth(p.Type)
		segments = append(segments, domain.Segment{
			Start: cursor,
			End:   cursor + width,
			Type:  p.Type,
			Name:  p.Name,
			Value: p.Value,
		})
		cursor += width
	}
	return segments
}

func (a *Analyzer) mixedSegments(params []domain.Parameter, tail string) (head, payloads []domain.Segment) {
	head = make([]domain.Segment, 0, len(params))

	cursor := 0
	for _, p := range params {
		if !IsDynamic(p.Type) {
			head = append(head, domain.Segment{
				Start: cursor,
				End:   cursor + a.StaticWidth(p.Type),
				Type:  p.Type,
				Name:  p.Name,
				Value: p.Value,
			})
			cursor += SlotWidth
			continue
		}

		offset, ok := readWord(tail, cursor)
		head = append(head, domain.Segment{
			Start:       cursor,
			End:         cursor + SlotWidth,
			Type:        p.Type + " offset",
			Name:        p.Name,
			Value:       p.Value,
			IsOffset:    true,
			OffsetValue: offset,
		})
		cursor += SlotWidth

		// Without a readable pointer there is nothing to locate.
		if !ok {
			continue
		}

		start := offset*2 + a.bias
		payloads = append(payloads, domain.Segment{
			Start:     start,
			End:       start + a.payloadSpan(p.Type, tail, start),
			Type:      p.Type,
			Name:      p.Name,
			Value:     p.Value,
			IsDynamic: true,
		})
	}

	return head, payloads
}

// payloadSpan estimates the width of a dynamic payload starting at start.
// string and bytes carry a length word followed by the data padded to a full
// slot; every other dynamic type gets a single slot.
func (a *Analyzer) payloadSpan(typ, tail string, start int) int {
	if typ != "string" && typ != "bytes" {
		return SlotWidth
	}

	length, ok := readWord(tail, start)
	if !ok {
		return SlotWidth
	}
	// The span is logical and may run past the tail; Annotate clips it.
	dataWidth := length * 2
	return SlotWidth + (dataWidth+SlotWidth-1)/SlotWidth*SlotWidth
}

// readWord parses the 32-byte big-endian word at hex position pos. It reports
// false when the slot is out of range, isn't hex, or doesn't fit maxWord. A
// hex word above maxWord is returned capped at maxWord.
func readWord(tail string, pos int) (int, bool) {
	if pos < 0 || pos+SlotWidth > len(tail) {
		return 0, false
	}
	v, ok := new(big.Int).SetString(tail[pos:pos+SlotWidth], 16)
	if !ok || v.Sign() < 0 {
		return 0, false
	}
	if v.Cmp(big.NewInt(maxWord)) > 0 {
		return maxWord, false
	}
	return int(v.Int64()), true
}

// settle merges head and payload segments into one list sorted by Start.
// Head slots are placed first and win any conflict; a payload is trimmed to
// the free range at its start and dropped when nothing is left.
func settle(head, payloads []domain.Segment) []domain.Segment {
	placed := make([]domain.Segment, 0, len(head)+len(payloads))
	for _, s := range append(head, payloads...) {
		if s, ok := fit(placed, s); ok {
			placed = append(placed, s)
		}
	}

	sort.SliceStable(placed, func(i, j int) bool {
		return placed[i].Start < placed[j].Start
	})
	return placed
}

func fit(placed []domain.Segment, s domain.Segment) (domain.Segment, bool) {
	s.Start = max(s.Start, 0)
	for moved := true; moved; {
		moved = false
		for _, p := range placed {
			if s.Start >= p.Start && s.Start < p.End {
				s.Start = p.End
				moved = true
			}
		}
	}
	for _, p := range placed {
		if p.Start > s.Start && p.Start < s.End {
			s.End = p.Start
		}
	}
	return s, s.Start < s.End
}
