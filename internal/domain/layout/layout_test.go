package layout

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
)

func word(n int) string {
	return fmt.Sprintf("%064x", n)
}

func params(types ...string) []domain.Parameter {
	out := make([]domain.Parameter, len(types))
	for i, t := range types {
		out[i] = domain.Parameter{Name: fmt.Sprintf("param%d", i), Type: t}
	}
	return out
}

func pack(t *testing.T, types []string, values ...any) string {
	t.Helper()
	var args abi.Arguments
	for _, typ := range types {
		at, err := abi.NewType(typ, "", nil)
		require.NoError(t, err)
		args = append(args, abi.Argument{Type: at})
	}
	data, err := args.Pack(values...)
	require.NoError(t, err)
	return hex.EncodeToString(data)
}

func assertWellFormed(t *testing.T, segments []domain.Segment) {
	t.Helper()
	for i, s := range segments {
		assert.Less(t, s.Start, s.End, "segment %d (%s) is empty", i, s.Name)
		assert.GreaterOrEqual(t, s.Start, 0)
		if i > 0 {
			assert.GreaterOrEqual(t, s.Start, segments[i-1].End, "segment %d overlaps its predecessor", i)
		}
	}
}

func TestIsDynamic(t *testing.T) {
	tests := []struct {
		typ  string
		want bool
	}{
		{"string", true},
		{"bytes", true},
		{"uint256[]", true},
		{"address[]", true},
		{"string[]", true},
		{"bytes32", false},
		{"address", false},
		{"uint256[3]", false},
		{"string[3]", false},
		{"tuple", false},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDynamic(tt.typ))
		})
	}
}

func TestStaticWidth(t *testing.T) {
	a := DefaultAnalyzer
	for _, typ := range []string{"address", "bool", "uint8", "uint256", "int128", "bytes1", "bytes32", "uint", "int"} {
		assert.Equal(t, SlotWidth, a.StaticWidth(typ), typ)
	}
	assert.Equal(t, SlotWidth, a.StaticWidth("bytes3"), "unknown types default to one slot")
	assert.Equal(t, SlotWidth, a.StaticWidth("(uint256,address)"))
}

func TestNewCopiesWidthTable(t *testing.T) {
	opts := DefaultOptions()
	opts.StaticWidths["custom"] = 128
	a := New(opts)

	opts.StaticWidths["custom"] = 2
	delete(opts.StaticWidths, "address")

	assert.Equal(t, 128, a.StaticWidth("custom"))
	assert.Equal(t, SlotWidth, a.StaticWidth("address"))
}

func TestComputeSegments_Empty(t *testing.T) {
	segments := ComputeSegments(nil, "")
	assert.NotNil(t, segments)
	assert.Empty(t, segments)
}

func TestComputeSegments_StaticOnly(t *testing.T) {
	tail := strings.Repeat("0", 24) + "ce289bb9fb0a9591317981223cbe33d5dc42268d" + word(100) + word(1)
	ps := []domain.Parameter{
		{Name: "to", Type: "address", Value: "0xce28"},
		{Name: "amount", Type: "uint256", Value: 100},
		{Name: "flag", Type: "bool", Value: true},
	}

	segments := ComputeSegments(ps, tail)

	require.Len(t, segments, 3)
	for i, s := range segments {
		assert.Equal(t, i*SlotWidth, s.Start)
		assert.Equal(t, SlotWidth, s.Len())
		assert.Equal(t, ps[i].Type, s.Type)
		assert.Equal(t, ps[i].Name, s.Name)
		assert.Equal(t, ps[i].Value, s.Value)
		assert.False(t, s.IsOffset)
		assert.False(t, s.IsDynamic)
	}
}

func TestComputeSegments_StaticUsesWidthTable(t *testing.T) {
	opts := DefaultOptions()
	opts.StaticWidths["uint256[2]"] = 2 * SlotWidth
	a := New(opts)

	segments := a.ComputeSegments(params("uint256[2]", "address"), strings.Repeat("0", 3*SlotWidth))

	require.Len(t, segments, 2)
	assert.Equal(t, domain.Segment{Start: 0, End: 128, Type: "uint256[2]", Name: "param0"}, segments[0])
	assert.Equal(t, domain.Segment{Start: 128, End: 192, Type: "address", Name: "param1"}, segments[1])
}

func TestComputeSegments_SingleString(t *testing.T) {
	// The pointer 0x24 lands the payload right after the head with the
	// default bias: 0x24*2 - 8 = 64.
	tail := word(0x24) + word(5) + "68656c6c6f" + strings.Repeat("0", 54)
	ps := []domain.Parameter{{Name: "note", Type: "string", Value: "hello"}}

	segments := ComputeSegments(ps, tail)

	require.Len(t, segments, 2)
	assert.Equal(t, domain.Segment{
		Start: 0, End: 64, Type: "string offset", Name: "note", Value: "hello",
		IsOffset: true, OffsetValue: 0x24,
	}, segments[0])
	assert.Equal(t, domain.Segment{
		Start: 64, End: 192, Type: "string", Name: "note", Value: "hello",
		IsDynamic: true,
	}, segments[1])
}

func TestComputeSegments_LongBytesPadsToSlot(t *testing.T) {
	data := strings.Repeat("ab", 33)
	tail := word(0x24) + word(33) + data + strings.Repeat("0", 128-len(data))

	segments := ComputeSegments(params("bytes"), tail)

	require.Len(t, segments, 2)
	assert.Equal(t, 64, segments[1].Start)
	assert.Equal(t, 64+64+128, segments[1].End, "length word plus two data slots")
}

func TestComputeSegments_ArrayPayloadIsOneSlot(t *testing.T) {
	tail := word(0x24) + word(3) + word(1) + word(2) + word(3)

	segments := ComputeSegments(params("uint256[]"), tail)

	require.Len(t, segments, 2)
	assert.True(t, segments[0].IsOffset)
	assert.Equal(t, "uint256[] offset", segments[0].Type)
	assert.True(t, segments[1].IsDynamic)
	assert.Equal(t, SlotWidth, segments[1].Len())
}

func TestComputeSegments_AlignedBiasMatchesPackedVector(t *testing.T) {
	types := []string{"address", "string", "uint256", "bytes"}
	tail := pack(t, types,
		common.HexToAddress("0xce289bb9fb0a9591317981223cbe33d5dc42268d"),
		"hello",
		big.NewInt(7),
		[]byte{0x01, 0x02},
	)
	require.Len(t, tail, 512)

	opts := DefaultOptions()
	opts.PayloadBias = 0
	segments := New(opts).ComputeSegments(params(types...), tail)

	want := []struct {
		start, end int
		typ        string
		offset     bool
		dynamic    bool
		offsetVal  int
	}{
		{0, 64, "address", false, false, 0},
		{64, 128, "string offset", true, false, 128},
		{128, 192, "uint256", false, false, 0},
		{192, 256, "bytes offset", true, false, 192},
		{256, 384, "string", false, true, 0},
		{384, 512, "bytes", false, true, 0},
	}
	require.Len(t, segments, len(want))
	for i, w := range want {
		s := segments[i]
		assert.Equal(t, w.start, s.Start, "segment %d start", i)
		assert.Equal(t, w.end, s.End, "segment %d end", i)
		assert.Equal(t, w.typ, s.Type, "segment %d type", i)
		assert.Equal(t, w.offset, s.IsOffset, "segment %d offset", i)
		assert.Equal(t, w.dynamic, s.IsDynamic, "segment %d dynamic", i)
		assert.Equal(t, w.offsetVal, s.OffsetValue, "segment %d offset value", i)
	}
	assert.Equal(t, len(tail), Coverage(tail, segments))
}

func TestComputeSegments_DefaultBiasOnPackedVector(t *testing.T) {
	// A standard encoding puts the payload at offset*2, eight characters
	// after where the default bias looks. The length read then straddles two
	// words, falls back to a single slot, and the payload is trimmed so it
	// doesn't overlap the pointer.
	tail := pack(t, []string{"string"}, "hello")

	segments := ComputeSegments(params("string"), tail)

	require.Len(t, segments, 2)
	assertWellFormed(t, segments)
	assert.Equal(t, 0x20, segments[0].OffsetValue)
	assert.Equal(t, 64, segments[1].Start)
	assert.Equal(t, 120, segments[1].End)
	assert.True(t, segments[1].IsDynamic)
}

func TestComputeSegments_MixedStaticKeepsHeadOrder(t *testing.T) {
	tail := word(7) + word(0x64) + word(9) + word(2) + "abcd" + strings.Repeat("0", 60)
	ps := params("uint256", "bytes", "bool")

	segments := ComputeSegments(ps, tail)

	require.Len(t, segments, 4)
	assert.Equal(t, "uint256", segments[0].Type)
	assert.Equal(t, "bytes offset", segments[1].Type)
	assert.Equal(t, 0x64, segments[1].OffsetValue)
	assert.Equal(t, "bool", segments[2].Type)
	assert.Equal(t, 128, segments[2].Start)
	assert.Equal(t, "bytes", segments[3].Type)
	assert.Equal(t, 0x64*2-8, segments[3].Start)
	assert.Equal(t, segments[3].Start+128, segments[3].End)
}

func TestComputeSegments_ShortTailDegrades(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		tail  string
	}{
		{"empty tail", []string{"string", "uint256"}, ""},
		{"truncated pointer", []string{"bytes"}, strings.Repeat("0", 10)},
		{"pointer past end", []string{"string"}, word(0x400)},
		{"length slot missing", []string{"string"}, word(0x24)},
		{"non hex", []string{"string", "address"}, strings.Repeat("zz", 64)},
		{"huge pointer", []string{"bytes"}, strings.Repeat("f", 64)},
		{"huge length", []string{"string"}, word(0x24) + strings.Repeat("f", 64)},
		{"zero pointer", []string{"string"}, word(0) + word(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var segments []domain.Segment
			require.NotPanics(t, func() {
				segments = ComputeSegments(params(tt.types...), tt.tail)
			})
			require.NotEmpty(t, segments)
			assertWellFormed(t, segments)
			assert.True(t, segments[0].IsOffset)
		})
	}
}

func TestComputeSegments_TruncatedDataKeepsLogicalSpan(t *testing.T) {
	// The length word says 40 bytes but only 20 follow.
	tail := word(0x24) + word(40) + strings.Repeat("ab", 20)

	segments := ComputeSegments(params("string"), tail)

	require.Len(t, segments, 2)
	assert.Equal(t, 64, segments[1].Start)
	assert.Equal(t, 64+SlotWidth+128, segments[1].End, "length word plus ceil(80/64) data slots")

	chunks := Annotate(tail, segments)
	require.Len(t, chunks, 2)
	assert.Equal(t, tail[64:], chunks[1].Text, "annotation clips the payload to the tail")
	assert.Equal(t, len(tail), Coverage(tail, segments))
}

func TestComputeSegments_OversizedPointerIsCapped(t *testing.T) {
	segments := ComputeSegments(params("bytes"), strings.Repeat("f", 64))

	require.Len(t, segments, 1)
	assert.True(t, segments[0].IsOffset)
	assert.Equal(t, math.MaxInt32, segments[0].OffsetValue)
}

func TestComputeSegments_UnreadablePointerHasNoPayload(t *testing.T) {
	segments := ComputeSegments(params("string", "uint256"), "")

	require.Len(t, segments, 2)
	assert.Equal(t, domain.Segment{Start: 0, End: 64, Type: "string offset", Name: "param0", IsOffset: true}, segments[0])
	assert.Equal(t, domain.Segment{Start: 64, End: 128, Type: "uint256", Name: "param1"}, segments[1])
}

func TestComputeSegments_SharedPointerDoesNotOverlap(t *testing.T) {
	tail := word(0x44) + word(0x44) + word(3) + "616263" + strings.Repeat("0", 58)

	segments := ComputeSegments(params("string", "string"), tail)

	assertWellFormed(t, segments)
	dynamic := 0
	for _, s := range segments {
		if s.IsDynamic {
			dynamic++
		}
	}
	assert.Equal(t, 1, dynamic, "the second payload is fully shadowed by the first")
}

func TestComputeSegments_NeverOverlaps(t *testing.T) {
	types := []string{"address", "uint256", "bool", "bytes32", "string", "bytes", "uint8[]", "address[]", "uint256[2]", "weird"}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := rng.Intn(6)
		ps := make([]domain.Parameter, n)
		for j := range ps {
			ps[j] = domain.Parameter{Name: fmt.Sprintf("p%d", j), Type: types[rng.Intn(len(types))]}
		}

		var tail strings.Builder
		for k := rng.Intn(12); k > 0; k-- {
			switch rng.Intn(3) {
			case 0:
				tail.WriteString(word(rng.Intn(0x200)))
			case 1:
				tail.WriteString(word(rng.Intn(8)))
			default:
				b := make([]byte, 32)
				rng.Read(b)
				tail.WriteString(hex.EncodeToString(b))
			}
		}

		segments := ComputeSegments(ps, tail.String())
		assertWellFormed(t, segments)
	}
}
