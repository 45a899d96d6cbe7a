// Package wasm implements a single-pass structural parser over a
// WebAssembly binary module, including the six
// non-standard 0xFC-prefixed opcodes (0x3A-0x3F) used for Veyra's nondeterministic
// constructs. It does not validate or execute anything; it only
// extracts the structural view the Rocq emitter (internal/rocq)
// consumes.
//
// LEB128 decoding works over a byte-slice cursor rather than an
// io.Reader, since the parser already holds the whole module in
// memory; the 32/64-bit overflow checks bound malformed encodings.
package wasm

import "fmt"

// decodeULEB32 reads an unsigned LEB128 value from b starting at
// offset, returning the value, the number of bytes consumed, and an
// error if the encoding runs past 5 bytes (the max for a 32-bit
// value) or past the end of b.
func decodeULEB32(b []byte, offset int) (uint32, int, error) {
	v, n, err := decodeULEB64(b, offset)
	if err != nil {
		return 0, 0, err
	}
	if n > 5 {
		return 0, 0, fmt.Errorf("uleb128: value overflows 32 bits at offset %d", offset)
	}
	return uint32(v), n, nil
}

func decodeULEB64(b []byte, offset int) (uint64, int, error) {
	var result uint64
	var shift uint
	i := 0
	for {
		if offset+i >= len(b) {
			return 0, 0, fmt.Errorf("uleb128: unexpected end of input at offset %d", offset+i)
		}
		byt := b[offset+i]
		i++
		result |= uint64(byt&0x7f) << shift
		if byt&0x80 == 0 {
			return result, i, nil
		}
		shift += 7
		if i > 10 {
			return 0, 0, fmt.Errorf("uleb128: value overflows 64 bits at offset %d", offset)
		}
	}
}

// decodeSLEB32 reads a signed LEB128 value, used for i32.const
// immediates and the signed block-type byte.
func decodeSLEB32(b []byte, offset int) (int32, int, error) {
	v, n, err := decodeSLEB64(b, offset)
	if err != nil {
		return 0, 0, err
	}
	return int32(v), n, nil
}

func decodeSLEB64(b []byte, offset int) (int64, int, error) {
	var result int64
	var shift uint
	i := 0
	var byt byte
	for {
		if offset+i >= len(b) {
			return 0, 0, fmt.Errorf("sleb128: unexpected end of input at offset %d", offset+i)
		}
		byt = b[offset+i]
		i++
		result |= int64(byt&0x7f) << shift
		shift += 7
		if byt&0x80 == 0 {
			break
		}
		if i > 10 {
			return 0, 0, fmt.Errorf("sleb128: value overflows 64 bits at offset %d", offset)
		}
	}
	if shift < 64 && byt&0x40 != 0 {
		result |= -1 << shift
	}
	return result, i, nil
}
