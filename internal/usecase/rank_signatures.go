package usecase

import (
	"fmt"

	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
)

// RankSignaturesParams contains parameters for ranking signatures offline
type RankSignaturesParams struct {
	Calldata   string
	Signatures []string
	Prior      string
}

// RankedSignature is one scored candidate.
type RankedSignature struct {
	Signature string
	Breakdown signature.Breakdown
	Score     float64
	Verified  bool
}

// RankResult contains every candidate's score and the resolver's pick.
type RankResult struct {
	Calldata   domain.Calldata
	Rows       []RankedSignature
	Resolution domain.Resolution
}

// RankSignatures scores user-supplied candidates without any lookup.
type RankSignatures struct {
	resolver *signature.Resolver
}

// NewRankSignatures creates a new RankSignatures use case
func NewRankSignatures(resolver *signature.Resolver) *RankSignatures {
	return &RankSignatures{resolver: resolver}
}

// Run executes the rank use case
func (uc *RankSignatures) Run(params RankSignaturesParams) (*RankResult, error) {
	calldata, err := domain.ParseCalldata(params.Calldata)
	if err != nil {
		return nil, err
	}
	if len(params.Signatures) == 0 {
		return nil, fmt.Errorf("at least one signature is required")
	}

	rows := make([]RankedSignature, len(params.Signatures))
	for i, sig := range params.Signatures {
		b := uc.resolver.Breakdown(sig, calldata.Prefixed())
		rows[i] = RankedSignature{
			Signature: sig,
			Breakdown: b,
			Score:     b.Total(),
			Verified:  signature.Verify(sig, calldata.Selector),
		}
	}

	return &RankResult{
		Calldata:   calldata,
		Rows:       rows,
		Resolution: uc.resolver.Resolve(params.Signatures, calldata.Prefixed(), params.Prior),
	}, nil
}
