// Package signature ranks candidate text signatures for a selector against the
// calldata that was actually sent and the user's previous choice.
package signature

import (
	"math"
	"regexp"
	"strings"

	"github.com/trebuchet-org/calldata-lens/internal/domain"
)

const (
	complexityPenalty = 0.5
	namedParamBonus   = 0.5
	specificTypeBonus = 0.2
	closeLengthBonus  = 3
	nearLengthBonus   = 1

	// prefixedSelectorLen is "0x" plus four selector bytes.
	prefixedSelectorLen = 10
	slotHexWidth        = 64
)

var specificType = regexp.MustCompile(`^(uint|int|bytes)[0-9]+$`)

// Options configures a Resolver.
type Options struct {
	// Patterns are checked in order; the first match adds its bonus.
	Patterns []Pattern
}

// DefaultOptions returns the built-in configuration.
func DefaultOptions() Options {
	return Options{Patterns: DefaultPatterns()}
}

// Resolver picks the most plausible signature. It holds no mutable state.
type Resolver struct {
	patterns []Pattern
}

// New creates a Resolver. The pattern list is copied.
func New(opts Options) *Resolver {
	patterns := make([]Pattern, len(opts.Patterns))
	copy(patterns, opts.Patterns)
	return &Resolver{patterns: patterns}
}

// DefaultResolver uses DefaultOptions.
var DefaultResolver = New(DefaultOptions())

// Patterns returns a copy of the configured pattern list.
func (r *Resolver) Patterns() []Pattern {
	out := make([]Pattern, len(r.patterns))
	copy(out, r.patterns)
	return out
}

// Resolve picks one of candidates for calldata. A single candidate is returned
// as is. A prior selection that matches a candidate exactly always wins.
// Otherwise the highest Score wins and ties go to the earliest candidate.
//
// candidates must not be empty; for an empty list Index is -1.
func (r *Resolver) Resolve(candidates []string, calldata string, prior string) domain.Resolution {
	switch len(candidates) {
	case 0:
		return domain.Resolution{Index: -1}
	case 1:
		return domain.Resolution{Signature: candidates[0], Index: 0, Source: domain.SourceSingle}
	}

	if prior != "" {
		for i, c := range candidates {
			if c == prior {
				return domain.Resolution{Signature: c, Index: i, Source: domain.SourceHistory}
			}
		}
	}

	scores := make([]float64, len(candidates))
	best := 0
	for i, c := range candidates {
		scores[i] = r.Score(c, calldata)
		if scores[i] > scores[best] {
			best = i
		}
	}

	return domain.Resolution{
		Signature: candidates[best],
		Index:     best,
		Source:    domain.SourceHeuristic,
		Scores:    scores,
	}
}

// Score rates how plausible sig is for calldata. Only relative order within
// one Resolve call is meaningful.
func (r *Resolver) Score(sig, calldata string) float64 {
	return r.Breakdown(sig, calldata).Total()
}

// Breakdown is the itemized score of one signature.
type Breakdown struct {
	Pattern     *Pattern `json:"-" yaml:"-"`
	Protocol    float64  `json:"protocol" yaml:"protocol"`
	Complexity  float64  `json:"complexity" yaml:"complexity"`
	LengthMatch float64  `json:"lengthMatch" yaml:"lengthMatch"`
	Named       float64  `json:"named" yaml:"named"`
	Specific    float64  `json:"specific" yaml:"specific"`
}

// Total sums every component.
func (b Breakdown) Total() float64 {
	return b.Protocol + b.Complexity + b.LengthMatch + b.Named + b.Specific
}

// Breakdown scores sig against calldata component by component. calldata may
// be given with or without its 0x prefix.
func (r *Resolver) Breakdown(sig, calldata string) Breakdown {
	var b Breakdown

	if p, ok := r.Match(sig); ok {
		b.Pattern = &p
		b.Protocol = p.Bonus
	}

	count := countParams(sig)
	b.Complexity = -complexityPenalty * float64(count)

	if !strings.HasPrefix(calldata, "0x") {
		calldata = "0x" + calldata
	}
	if len(calldata) > prefixedSelectorLen {
		actual := float64(len(calldata) - prefixedSelectorLen)
		expected := float64(count * slotHexWidth)
		switch diff := math.Abs(expected-actual) / actual; {
		case diff < 0.25:
			b.LengthMatch = closeLengthBonus
		case diff < 0.5:
			b.LengthMatch = nearLengthBonus
		}
	}

	for _, p := range flatParams(sig) {
		if strings.Contains(p, " ") {
			b.Named += namedParamBonus
		}
		if specificType.MatchString(TypeOf(p)) {
			b.Specific += specificTypeBonus
		}
	}

	return b
}

// Match returns the first pattern whose shape fits sig.
func (r *Resolver) Match(sig string) (Pattern, bool) {
	canonical := Canonical(sig)
	for _, p := range r.patterns {
		if p.Matches(canonical) {
			return p, true
		}
	}
	return Pattern{}, false
}
