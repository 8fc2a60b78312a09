package interactive

import (
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
)

func TestSelectCandidate_NonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})

	_, err := s.SelectCandidate(context.Background(), []domain.SignatureCandidate{{}, {}}, nil, "pick")

	assert.ErrorIs(t, err, ErrNonInteractive)
}

func TestSelectCandidate_Trivial(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{})

	_, err := s.SelectCandidate(context.Background(), nil, nil, "pick")
	assert.Error(t, err)

	index, err := s.SelectCandidate(context.Background(), []domain.SignatureCandidate{{TextSignature: "f()"}}, nil, "pick")
	require.NoError(t, err)
	assert.Equal(t, 0, index)
}

func TestFormatCandidateOptions(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	options := formatCandidateOptions([]domain.SignatureCandidate{
		{ID: 145, TextSignature: "transfer(address,uint256)", HexSignature: "0xa9059cbb"},
		{ID: 9, TextSignature: "bogus()", HexSignature: "0xa9059cbb"},
	}, []float64{12.2, -0.5})

	assert.Equal(t, "transfer(address,uint256) (score 12.2, #145)", options[0])
	assert.Equal(t, "bogus() (score -0.5, #9, [unverified])", options[1])

	options = formatCandidateOptions([]domain.SignatureCandidate{{TextSignature: "f()"}}, nil)
	assert.Equal(t, "f()", options[0])
}

func TestFuzzySearch(t *testing.T) {
	search := createFuzzySearchFunc([]string{"transfer(address,uint256)", "many_msg_babbage(bytes1)"})

	assert.True(t, search("", 0))
	assert.True(t, search("TRANSFER", 0))
	assert.True(t, search("trnsfr", 0))
	assert.False(t, search("babbage", 0))
	assert.True(t, search("babbage", 1))
}
