package wasm

import (
	"encoding/binary"
	"fmt"
)

var magic = [4]byte{0x00, 0x61, 0x73, 0x6D}

// Parse decodes a WASM binary into a structural Module view in one
// forward pass. Parse errors fail fast; emission-phase error
// accumulation belongs to internal/rocq, not here.
func Parse(data []byte) (*Module, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("wasm: input too short to be a module")
	}
	if [4]byte{data[0], data[1], data[2], data[3]} != magic {
		return nil, fmt.Errorf("wasm: bad magic bytes")
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != 1 {
		return nil, fmt.Errorf("wasm: unsupported version %d", version)
	}

	m := &Module{FuncNames: make(map[uint32]string), LocalNames: make(map[uint32]map[uint32]string)}
	offset := 8
	for offset < len(data) {
		id := data[offset]
		offset++
		size, n, err := decodeULEB32(data, offset)
		if err != nil {
			return nil, err
		}
		offset += n
		end := offset + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("wasm: section %d size runs past end of input", id)
		}
		body := data[offset:end]

		switch id {
		case 1:
			if err := parseTypeSection(m, body); err != nil {
				return nil, err
			}
		case 2:
			if err := parseImportSection(m, body); err != nil {
				return nil, err
			}
		case 3:
			if err := parseFunctionSection(m, body); err != nil {
				return nil, err
			}
		case 4:
			if err := parseTableSection(m, body); err != nil {
				return nil, err
			}
		case 5:
			if err := parseMemorySection(m, body); err != nil {
				return nil, err
			}
		case 6:
			if err := parseGlobalSection(m, body); err != nil {
				return nil, err
			}
		case 7:
			if err := parseExportSection(m, body); err != nil {
				return nil, err
			}
		case 8:
			idx, _, err := decodeULEB32(body, 0)
			if err != nil {
				return nil, err
			}
			m.StartFunc, m.HasStart = idx, true
		case 9:
			if err := parseElementSection(m, body); err != nil {
				return nil, err
			}
		case 10:
			if err := parseCodeSection(m, body); err != nil {
				return nil, err
			}
		case 11:
			if err := parseDataSection(m, body); err != nil {
				return nil, err
			}
		case 0:
			if err := parseCustomSection(m, body); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("wasm: unsupported section id %d", id)
		}

		offset = end
	}
	return m, nil
}

func readValueTypeVec(b []byte, offset int) ([]ValueType, int, error) {
	count, n, err := decodeULEB32(b, offset)
	if err != nil {
		return nil, 0, err
	}
	offset += n
	out := make([]ValueType, count)
	for i := range out {
		if offset >= len(b) {
			return nil, 0, fmt.Errorf("wasm: truncated value-type vector")
		}
		out[i] = ValueType(b[offset])
		offset++
	}
	return out, offset, nil
}

func readName(b []byte, offset int) (string, int, error) {
	n, ln, err := decodeULEB32(b, offset)
	if err != nil {
		return "", 0, err
	}
	offset += ln
	if offset+int(n) > len(b) {
		return "", 0, fmt.Errorf("wasm: truncated name string")
	}
	return string(b[offset : offset+int(n)]), offset + int(n), nil
}

func parseTypeSection(m *Module, b []byte) error {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if offset >= len(b) || b[offset] != 0x60 {
			return fmt.Errorf("wasm: expected func type tag 0x60")
		}
		offset++
		params, next, err := readValueTypeVec(b, offset)
		if err != nil {
			return err
		}
		offset = next
		results, next, err := readValueTypeVec(b, offset)
		if err != nil {
			return err
		}
		offset = next
		m.Types = append(m.Types, FuncType{Params: params, Results: results})
	}
	return nil
}

func parseImportSection(m *Module, b []byte) error {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		mod, next, err := readName(b, offset)
		if err != nil {
			return err
		}
		offset = next
		name, next, err := readName(b, offset)
		if err != nil {
			return err
		}
		offset = next
		if offset >= len(b) {
			return fmt.Errorf("wasm: truncated import descriptor")
		}
		kind := b[offset]
		offset++
		var idx uint32
		switch kind {
		case 0x00: // func: type index
			idx, next, err = decodeULEB32(b, offset)
		case 0x01: // table
			if offset >= len(b) || b[offset] != 0x70 && b[offset] != 0x6F {
				return fmt.Errorf("wasm: bad table import element type")
			}
			offset++
			_, next, err = parseLimits(b, offset)
		case 0x02: // memory
			_, next, err = parseLimits(b, offset)
		case 0x03: // global
			offset += 2 // valtype + mutability byte
			next = offset
		default:
			return fmt.Errorf("wasm: unknown import kind %d", kind)
		}
		if err != nil {
			return err
		}
		offset = next
		m.Imports = append(m.Imports, Import{Module: mod, Name: name, Kind: kind, Index: idx})
	}
	return nil
}

// parseLimits decodes a `limits` shape (flag byte + min [+ max]),
// returning the byte offset just past it.
func parseLimits(b []byte, offset int) (Table, int, error) {
	if offset >= len(b) {
		return Table{}, 0, fmt.Errorf("wasm: truncated limits")
	}
	flag := b[offset]
	offset++
	min, n, err := decodeULEB32(b, offset)
	if err != nil {
		return Table{}, 0, err
	}
	offset += n
	t := Table{Min: min}
	if flag == 1 {
		max, n2, err := decodeULEB32(b, offset)
		if err != nil {
			return Table{}, 0, err
		}
		offset += n2
		t.Max, t.HasMax = max, true
	}
	return t, offset, nil
}

func parseFunctionSection(m *Module, b []byte) error {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		idx, n, err := decodeULEB32(b, offset)
		if err != nil {
			return err
		}
		offset += n
		m.FuncTypeIndices = append(m.FuncTypeIndices, idx)
	}
	return nil
}

func parseTableSection(m *Module, b []byte) error {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if offset >= len(b) {
			return fmt.Errorf("wasm: truncated table entry")
		}
		elemType := ValueType(b[offset])
		offset++
		t, next, err := parseLimits(b, offset)
		if err != nil {
			return err
		}
		offset = next
		t.ElemType = elemType
		m.Tables = append(m.Tables, t)
	}
	return nil
}

func parseMemorySection(m *Module, b []byte) error {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		t, next, err := parseLimits(b, offset)
		if err != nil {
			return err
		}
		offset = next
		m.Memories = append(m.Memories, Memory{Min: t.Min, Max: t.Max, HasMax: t.HasMax})
	}
	return nil
}

func parseGlobalSection(m *Module, b []byte) error {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if offset+1 >= len(b) {
			return fmt.Errorf("wasm: truncated global entry")
		}
		gt := GlobalType{Type: ValueType(b[offset]), Mutable: b[offset+1] == 1}
		offset += 2
		init, next, err := decodeBlock(b, offset)
		if err != nil {
			return err
		}
		offset = next
		m.Globals = append(m.Globals, Global{Type: gt, Init: init})
	}
	return nil
}

func parseExportSection(m *Module, b []byte) error {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		name, next, err := readName(b, offset)
		if err != nil {
			return err
		}
		offset = next
		if offset >= len(b) {
			return fmt.Errorf("wasm: truncated export entry")
		}
		kind := b[offset]
		offset++
		idx, n, err := decodeULEB32(b, offset)
		if err != nil {
			return err
		}
		offset += n
		m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Index: idx})
	}
	return nil
}

func parseElementSection(m *Module, b []byte) error {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		tableIdx, n, err := decodeULEB32(b, offset)
		if err != nil {
			return err
		}
		offset += n
		offsetExpr, next, err := decodeBlock(b, offset)
		if err != nil {
			return err
		}
		offset = next
		fcount, n2, err := decodeULEB32(b, offset)
		if err != nil {
			return err
		}
		offset += n2
		funcs := make([]uint32, fcount)
		for j := range funcs {
			idx, fn, err := decodeULEB32(b, offset)
			if err != nil {
				return err
			}
			offset += fn
			funcs[j] = idx
		}
		m.Elements = append(m.Elements, Element{TableIndex: tableIdx, Offset: offsetExpr, FuncIndices: funcs})
	}
	return nil
}

func parseCodeSection(m *Module, b []byte) error {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		size, n, err := decodeULEB32(b, offset)
		if err != nil {
			return err
		}
		offset += n
		bodyEnd := offset + int(size)
		if bodyEnd > len(b) {
			return fmt.Errorf("wasm: code entry size runs past end of section")
		}
		body := b[offset:bodyEnd]

		localCount, lo, err := decodeULEB32(body, 0)
		if err != nil {
			return err
		}
		var locals []ValueType
		for j := uint32(0); j < localCount; j++ {
			n2, n2len, err := decodeULEB32(body, lo)
			if err != nil {
				return err
			}
			lo += n2len
			if lo >= len(body) {
				return fmt.Errorf("wasm: truncated local declaration")
			}
			vt := ValueType(body[lo])
			lo++
			for k := uint32(0); k < n2; k++ {
				locals = append(locals, vt)
			}
		}
		instrs, _, err := decodeBlock(body, lo)
		if err != nil {
			return err
		}
		m.Codes = append(m.Codes, Code{Locals: locals, Body: instrs})
		offset = bodyEnd
	}
	return nil
}

func parseDataSection(m *Module, b []byte) error {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		memIdx, n, err := decodeULEB32(b, offset)
		if err != nil {
			return err
		}
		offset += n
		offsetExpr, next, err := decodeBlock(b, offset)
		if err != nil {
			return err
		}
		offset = next
		size, n2, err := decodeULEB32(b, offset)
		if err != nil {
			return err
		}
		offset += n2
		if offset+int(size) > len(b) {
			return fmt.Errorf("wasm: data segment runs past end of section")
		}
		bytes := append([]byte{}, b[offset:offset+int(size)]...)
		offset += int(size)
		m.DataSegments = append(m.DataSegments, Data{MemoryIndex: memIdx, Offset: offsetExpr, Bytes: bytes})
	}
	return nil
}

// parseCustomSection only interprets the "name" custom section; any
// other custom section is ignored rather than erroring, since custom
// sections carry no semantics the translator needs.
func parseCustomSection(m *Module, b []byte) error {
	name, offset, err := readName(b, 0)
	if err != nil {
		return err
	}
	if name != "name" {
		return nil
	}
	for offset < len(b) {
		subID := b[offset]
		offset++
		size, n, err := decodeULEB32(b, offset)
		if err != nil {
			return err
		}
		offset += n
		subEnd := offset + int(size)
		if subEnd > len(b) {
			return fmt.Errorf("wasm: name subsection runs past end")
		}
		switch subID {
		case 1: // function names
			if _, err := parseNameMap(b[offset:subEnd], m.FuncNames); err != nil {
				return err
			}
		case 2: // local names: indirect map funcidx -> namemap
			if err := parseIndirectNameMap(b[offset:subEnd], m.LocalNames); err != nil {
				return err
			}
		}
		offset = subEnd
	}
	return nil
}

// parseNameMap decodes a `namemap` (vec of (index, name) pairs)
// starting at offset 0 of b and returns the number of bytes consumed,
// so callers that embed a namemap inside a larger structure (the
// indirect name map) can keep advancing their own cursor.
func parseNameMap(b []byte, out map[uint32]string) (int, error) {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return 0, err
	}
	for i := uint32(0); i < count; i++ {
		idx, n, err := decodeULEB32(b, offset)
		if err != nil {
			return 0, err
		}
		offset += n
		name, next, err := readName(b, offset)
		if err != nil {
			return 0, err
		}
		offset = next
		out[idx] = name
	}
	return offset, nil
}

// parseIndirectNameMap decodes the local-names subsection: a vec of
// (funcIndex, namemap) pairs, where each namemap maps a local index
// to its preserved name.
func parseIndirectNameMap(b []byte, out map[uint32]map[uint32]string) error {
	count, offset, err := decodeULEB32(b, 0)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		idx, n, err := decodeULEB32(b, offset)
		if err != nil {
			return err
		}
		offset += n
		sub := make(map[uint32]string)
		consumed, err := parseNameMap(b[offset:], sub)
		if err != nil {
			return err
		}
		offset += consumed
		out[idx] = sub
	}
	return nil
}
