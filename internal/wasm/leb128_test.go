package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeULEB32 covers small single-byte values, a multi-byte
// value, and the overflow case.
func TestDecodeULEB32(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    uint32
		wantN   int
		wantErr bool
	}{
		{name: "zero", input: []byte{0x00}, want: 0, wantN: 1},
		{name: "single byte", input: []byte{0x7F}, want: 127, wantN: 1},
		{name: "three bytes", input: []byte{0xE5, 0x8E, 0x26}, want: 624485, wantN: 3},
		{name: "max uint32 in 5 bytes", input: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}, want: 0xFFFFFFFF, wantN: 5},
		{name: "overflow", input: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}, wantErr: true},
		{name: "truncated", input: []byte{0xFF}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := decodeULEB32(tt.input, 0)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantN, n)
		})
	}
}

func TestDecodeSLEB32(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  int32
	}{
		{name: "zero", input: []byte{0x00}, want: 0},
		{name: "positive small", input: []byte{0x02}, want: 2},
		{name: "negative one", input: []byte{0x7F}, want: -1},
		{name: "negative large", input: []byte{0x9B, 0xF1, 0x59}, want: -624485},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := decodeSLEB32(tt.input, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeULEB32AtOffset(t *testing.T) {
	input := []byte{0xAA, 0xAA, 0x00, 0x7F}
	got, n, err := decodeULEB32(input, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), got)
	assert.Equal(t, 1, n)
}
