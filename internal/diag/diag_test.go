package diag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostic_Error_FormatsPosition(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			name: "with position",
			d:    Diagnostic{Code: CodeTypeMismatch, Message: "expected i32, found bool", File: "main.vey", Line: 12, Column: 5},
			want: "main.vey:12:5: expected i32, found bool",
		},
		{
			name: "with detail",
			d:    Diagnostic{Code: CodeSyntaxError, Message: "unexpected token", File: "a.vey", Line: 1, Column: 1, Detail: "found ';'"},
			want: "a.vey:1:1: unexpected token: found ';'",
		},
		{
			name: "no position",
			d:    Diagnostic{Code: CodeMalformedWasm, Message: "truncated section header"},
			want: "truncated section header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.Error())
		})
	}
}

func TestDiagnostic_JSON_RoundTrips(t *testing.T) {
	d := Diagnostic{Code: CodeUnknownOpcode, Severity: Error, Message: "bad opcode", File: "m.wasm", Line: 0, Column: 0}

	raw := d.JSON()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, "UNKNOWN_OPCODE", decoded["code"])
	assert.Equal(t, "bad opcode", decoded["message"])
}

func TestBag_Add_DeduplicatesByKey(t *testing.T) {
	b := NewBag()
	d := Diagnostic{Code: CodeUnresolvedIdentifier, Message: "unresolved: x", File: "f.vey", Line: 3, Column: 4}

	b.Add(d)
	b.Add(d)
	b.Add(d)

	assert.Equal(t, 1, b.Len())
}

func TestBag_Add_DistinctPositionsAreKeptSeparate(t *testing.T) {
	b := NewBag()
	b.Add(Diagnostic{Code: CodeUnresolvedIdentifier, Message: "unresolved: x", File: "f.vey", Line: 1, Column: 1})
	b.Add(Diagnostic{Code: CodeUnresolvedIdentifier, Message: "unresolved: x", File: "f.vey", Line: 2, Column: 1})

	assert.Equal(t, 2, b.Len())
}

func TestBag_HasErrors(t *testing.T) {
	b := NewBag()
	assert.False(t, b.HasErrors())

	b.Add(Diagnostic{Code: CodeTypeMismatch, Severity: Error, Message: "boom"})
	assert.True(t, b.HasErrors())
}
