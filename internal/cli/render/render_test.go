package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"github.com/trebuchet-org/calldata-lens/internal/domain/layout"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
	"gopkg.in/yaml.v3"
)

const (
	recipientWord = "000000000000000000000000d8da6bf26964af9d7eed9e03e53415d37aa96045"
	amountWord    = "00000000000000000000000000000000000000000000000014d1120d7b160000"
)

func init() {
	color.NoColor = true
}

func transferResult(t *testing.T) *usecase.DecodeResult {
	t.Helper()
	calldata, err := domain.ParseCalldata("0xa9059cbb" + recipientWord + amountWord)
	require.NoError(t, err)

	params := []domain.Parameter{
		{Name: "to", Type: "address", Value: "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"},
		{Name: "amount", Type: "uint256", Value: "1500000000000000000"},
	}
	pattern := signature.DefaultPatterns()[0]
	return &usecase.DecodeResult{
		Calldata: calldata,
		Candidates: []domain.SignatureCandidate{
			{ID: 145, TextSignature: "transfer(address,uint256)", HexSignature: "0xa9059cbb"},
			{ID: 31780, TextSignature: "many_msg_babbage(bytes1)", HexSignature: "0xa9059cbb"},
		},
		Resolution: domain.Resolution{
			Signature: "transfer(address,uint256)",
			Index:     0,
			Source:    domain.SourceHeuristic,
			Scores:    []float64{12.2, -0.3},
		},
		Parameters: params,
		Segments:   layout.ComputeSegments(params, calldata.Tail),
		Pattern:    &pattern,
	}
}

func TestDecodeRenderer(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewDecodeRenderer(&buf, config.FormatText).Render(transferResult(t)))

		out := buf.String()
		assert.Contains(t, out, "0xa9059cbb")
		assert.Contains(t, out, "transfer(address,uint256)")
		assert.Contains(t, out, "ERC-20 Transfer")
		assert.Contains(t, out, "heuristic, 2 candidates")
		assert.Contains(t, out, recipientWord)
		assert.Contains(t, out, amountWord)
		assert.Contains(t, out, "0x0004")
		assert.Contains(t, out, "0x0024")
		assert.Contains(t, out, "1500000000000000000")
		assert.Contains(t, out, "≈ 1.5 × 10^18")
		assert.Contains(t, out, "36..68")
		assert.NotContains(t, out, "hashes to")
	})

	t.Run("warns when the signature does not hash to the selector", func(t *testing.T) {
		result := transferResult(t)
		result.Resolution = domain.Resolution{Signature: "foo(address,uint256)", Source: domain.SourceForced}
		result.Pattern = nil

		var buf bytes.Buffer
		require.NoError(t, NewDecodeRenderer(&buf, config.FormatText).Render(result))
		assert.Contains(t, buf.String(), "foo(address,uint256) hashes to "+signature.Selector("foo(address,uint256)"))
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewDecodeRenderer(&buf, config.FormatJSON).Render(transferResult(t)))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "0xa9059cbb", got["selector"])
		assert.Equal(t, "ERC-20", got["family"])
		assert.Len(t, got["segments"], 2)
		resolution := got["resolution"].(map[string]any)
		assert.Equal(t, "heuristic", resolution["source"])
	})

	t.Run("yaml batch", func(t *testing.T) {
		var buf bytes.Buffer
		results := []*usecase.DecodeResult{transferResult(t), transferResult(t)}
		require.NoError(t, NewDecodeRenderer(&buf, config.FormatYAML).RenderMany(results))

		var got []map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "0xa9059cbb", got[1]["selector"])
		assert.Equal(t, "transfer(address,uint256)", got[1]["signature"])
	})
}

func TestDecodeRendererDynamicPayload(t *testing.T) {
	// foo(string) with "hi": offset 0x20, length 2, data.
	tail := "0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000002" +
		"6869000000000000000000000000000000000000000000000000000000000000"
	calldata, err := domain.ParseCalldata("0x12345678" + tail)
	require.NoError(t, err)
	params := []domain.Parameter{{Name: "s", Type: "string", Value: "hi"}}

	result := &usecase.DecodeResult{
		Calldata:   calldata,
		Resolution: domain.Resolution{Signature: "foo(string)", Source: domain.SourceForced},
		Parameters: params,
		Segments:   layout.New(layout.Options{PayloadBias: 0}).ComputeSegments(params, tail),
	}

	var buf bytes.Buffer
	require.NoError(t, NewDecodeRenderer(&buf, config.FormatText).Render(result))
	out := buf.String()
	assert.Contains(t, out, "s offset=32")
	assert.Contains(t, out, "s data")
	assert.Contains(t, out, `"hi"`)
}

func TestRankRenderer(t *testing.T) {
	calldata, err := domain.ParseCalldata("0xa9059cbb" + recipientWord + amountWord)
	require.NoError(t, err)
	resolver := signature.New(signature.DefaultOptions())

	result := &usecase.RankResult{Calldata: calldata}
	for _, sig := range []string{"many_msg_babbage(bytes1)", "transfer(address,uint256)"} {
		b := resolver.Breakdown(sig, calldata.Prefixed())
		result.Rows = append(result.Rows, usecase.RankedSignature{Signature: sig, Breakdown: b, Score: b.Total(), Verified: true})
	}
	result.Resolution = resolver.Resolve([]string{"many_msg_babbage(bytes1)", "transfer(address,uint256)"}, calldata.Prefixed(), "")

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRankRenderer(&buf, config.FormatText).Render(result))
		out := buf.String()
		assert.Contains(t, out, "▸")
		assert.Contains(t, out, "+12.2")
		assert.Contains(t, out, "-0.3")
		assert.Contains(t, out, "Resolved transfer(address,uint256) via heuristic")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRankRenderer(&buf, config.FormatJSON).Render(result))
		var got struct {
			Rows []struct {
				Signature string  `json:"signature"`
				Family    string  `json:"family"`
				Score     float64 `json:"score"`
			} `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got.Rows, 2)
		assert.Equal(t, "", got.Rows[0].Family)
		assert.Equal(t, "ERC-20", got.Rows[1].Family)
		assert.InDelta(t, 12.2, got.Rows[1].Score, 1e-9)
	})
}

func TestLookupRenderer(t *testing.T) {
	result := &usecase.LookupResult{Entries: []usecase.SelectorCandidates{
		{
			Selector: "0xa9059cbb",
			Candidates: []usecase.CandidateInfo{
				{SignatureCandidate: domain.SignatureCandidate{ID: 145, TextSignature: "transfer(address,uint256)"}, Verified: true, Selected: true},
			},
		},
		{Selector: "0xdeadbeef"},
	}}

	var buf bytes.Buffer
	require.NoError(t, NewLookupRenderer(&buf, config.FormatText).Render(result))
	out := buf.String()
	assert.Contains(t, out, "0xa9059cbb")
	assert.Contains(t, out, "★ selected")
	assert.Contains(t, out, "No signatures found")

	buf.Reset()
	require.NoError(t, NewLookupRenderer(&buf, config.FormatJSON).Render(result))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Empty(t, got[1]["candidates"])
}

func TestHistoryRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewHistoryRenderer(&buf, config.FormatText)

	require.NoError(t, r.Render(nil))
	assert.Contains(t, buf.String(), "No remembered selections")

	buf.Reset()
	require.NoError(t, r.RenderForget(&usecase.ForgetResult{Removed: []string{"0xa9059cbb"}, Missing: []string{"0xdeadbeef"}}))
	assert.Contains(t, buf.String(), "Forgot 0xa9059cbb")
	assert.Contains(t, buf.String(), "No selection remembered for 0xdeadbeef")

	buf.Reset()
	require.NoError(t, NewHistoryRenderer(&buf, config.FormatJSON).Render(nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestFormatValue(t *testing.T) {
	longBytes := "0x" + strings.Repeat("ab", 40)

	tests := []struct {
		name  string
		value any
		typ   string
		want  string
	}{
		{"string", "hello", "string", `"hello"`},
		{"number", "1000000", "uint256", "1000000"},
		{"short bytes", "0x1234", "bytes", "0x1234"},
		{"long bytes", longBytes, "bytes", longBytes[:34] + "...(40 bytes)"},
		{"bool", true, "bool", "true"},
		{"list", []any{"1", "2"}, "uint256[]", "[1, 2]"},
		{"string list", []any{"a"}, "string[2]", `["a"]`},
		{"tuple", map[string]any{"b": "2", "a": "0x01"}, "(bytes1,uint8)", "{a: 0x01, b: 2}"},
		{"nil", nil, "", "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value, tt.typ))
		})
	}
}

func TestAmountHint(t *testing.T) {
	assert.Equal(t, "≈ 1.5 × 10^18", AmountHint(domain.Parameter{Type: "uint256", Value: "1500000000000000000"}))
	assert.Equal(t, "≈ 0.000001 × 10^18", AmountHint(domain.Parameter{Type: "uint256", Value: "1000000000000"}))
	assert.Empty(t, AmountHint(domain.Parameter{Type: "uint256", Value: "1000000"}))
	assert.Empty(t, AmountHint(domain.Parameter{Type: "int256", Value: "1500000000000000000"}))
	assert.Empty(t, AmountHint(domain.Parameter{Type: "uint256[]", Value: []any{"1500000000000000000"}}))
}

func TestFamilyLabel(t *testing.T) {
	assert.Equal(t, "ERC-20 TransferFrom", FamilyLabel(signature.Pattern{Family: "ERC-20", Name: "transferFrom"}))
	assert.Equal(t, "AMM Router Swap", FamilyLabel(signature.Pattern{Family: "AMM", Name: "router swap"}))
}
