package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCalldata(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		selector string
		tail     string
		wantErr  bool
	}{
		{name: "prefixed", raw: "0xA9059CBB00ff", selector: "0xa9059cbb", tail: "00ff"},
		{name: "bare selector", raw: "a9059cbb", selector: "0xa9059cbb", tail: ""},
		{name: "whitespace", raw: " 0xa9059cbb\n 0000 \t11 ", selector: "0xa9059cbb", tail: "000011"},
		{name: "too short", raw: "0xa905", wantErr: true},
		{name: "odd length", raw: "0xa9059cbb0", wantErr: true},
		{name: "not hex", raw: "0xa9059cbbzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCalldata(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCalldata)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.selector, c.Selector)
			assert.Equal(t, tt.tail, c.Tail)
			assert.Equal(t, "0x"+c.Raw, c.Prefixed())
		})
	}
}

func TestNormalizeSelector(t *testing.T) {
	sel, err := NormalizeSelector("A9059CBB")
	require.NoError(t, err)
	assert.Equal(t, "0xa9059cbb", sel)

	sel, err = NormalizeSelector("0xa9059cbb000000000000000000000000d8da6bf26964af9d7eed9e03e53415d37aa96045")
	require.NoError(t, err)
	assert.Equal(t, "0xa9059cbb", sel)

	_, err = NormalizeSelector("0x1234")
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = NormalizeSelector("0xzz059cbb")
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestSegmentKind(t *testing.T) {
	assert.Equal(t, SegmentStatic, Segment{}.Kind())
	assert.Equal(t, SegmentOffset, Segment{IsOffset: true}.Kind())
	assert.Equal(t, SegmentDynamic, Segment{IsDynamic: true}.Kind())
	assert.Equal(t, SegmentGap, Chunk{}.Kind())
	assert.Equal(t, 64, Segment{Start: 64, End: 128}.Len())
}

func TestErrorsUnwrap(t *testing.T) {
	assert.ErrorIs(t, NoSignatureErr{Selector: "0xa9059cbb"}, ErrNoSignature)

	last := ErrUnsupportedType
	err := DecodeErr{Selector: "0xa9059cbb", Tried: []string{"a()"}, Last: last}
	assert.ErrorIs(t, err, ErrDecodeFailed)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "none of 1 candidate(s)")
}
