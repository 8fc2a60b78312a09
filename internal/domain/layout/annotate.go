package layout

import "github.com/trebuchet-org/calldata-lens/internal/domain"

// Annotate slices tail into display chunks. Each segment is intersected with
// [0, len(tail)); ranges no segment covers (before the first, between two, or
// after the last) come back as gap chunks with a nil Segment. segments must be
// sorted and non-overlapping, as returned by ComputeSegments.
func Annotate(tail string, segments []domain.Segment) []domain.Chunk {
	var chunks []domain.Chunk
	cursor := 0

	for i := range segments {
		if cursor >= len(tail) {
			break
		}
		seg := &segments[i]

		start := max(seg.Start, cursor)
		end := min(seg.End, len(tail))
		if start >= len(tail) {
			break
		}
		if start > cursor {
			chunks = append(chunks, domain.Chunk{Start: cursor, Text: tail[cursor:start]})
		}
		if end > start {
			chunks = append(chunks, domain.Chunk{Start: start, Text: tail[start:end], Segment: seg})
			cursor = end
		} else {
			cursor = start
		}
	}

	if cursor < len(tail) {
		chunks = append(chunks, domain.Chunk{Start: cursor, Text: tail[cursor:]})
	}
	return chunks
}

// Coverage returns how many hex characters of tail are owned by a segment.
func Coverage(tail string, segments []domain.Segment) int {
	covered := 0
	for _, c := range Annotate(tail, segments) {
		if c.Segment != nil {
			covered += len(c.Text)
		}
	}
	return covered
}
