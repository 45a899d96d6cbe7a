package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual_PrimitivesAndArrays(t *testing.T) {
	tests := []struct {
		name string
		a, b *TypeInfo
		want bool
	}{
		{"unit == unit", Unit(), Unit(), true},
		{"bool == bool", Bool(), Bool(), true},
		{"i32 == i32", Num(I32), Num(I32), true},
		{"i32 != u32", Num(I32), Num(U32), false},
		{"array same size/elem", Array(Num(I32), 4), Array(Num(I32), 4), true},
		{"array different size", Array(Num(I32), 4), Array(Num(I32), 8), false},
		{"array different elem", Array(Num(I32), 4), Array(Bool(), 4), false},
		{"bool != string", Bool(), Str(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestSubstitute_ReplacesGenericLeavesOnly(t *testing.T) {
	generic := &TypeInfo{Kind: KindStruct, Name: "Box", TypeArgs: []*TypeInfo{Generic("T")}}
	bound := generic.Substitute(map[string]*TypeInfo{"T": Num(I32)})

	assert.True(t, generic.HasUnresolvedParams())
	assert.False(t, bound.HasUnresolvedParams())
	assert.True(t, bound.TypeArgs[0].Equal(Num(I32)))
}

func TestSubstitute_LeavesUnboundGenericsAlone(t *testing.T) {
	generic := Generic("U")
	result := generic.Substitute(map[string]*TypeInfo{"T": Num(I32)})

	assert.True(t, result.HasUnresolvedParams())
	assert.Equal(t, "U", result.Name)
}

func TestHasUnresolvedParams_NestedInArrayAndFunction(t *testing.T) {
	arr := Array(Generic("T"), 3)
	assert.True(t, arr.HasUnresolvedParams())

	fn := Function([]*TypeInfo{Num(I32)}, Generic("R"))
	assert.True(t, fn.HasUnresolvedParams())

	concreteFn := Function([]*TypeInfo{Num(I32)}, Bool())
	assert.False(t, concreteFn.HasUnresolvedParams())
}

func TestString_RendersReadableForms(t *testing.T) {
	tests := []struct {
		name string
		ty   *TypeInfo
		want string
	}{
		{"unit", Unit(), "()"},
		{"i32", Num(I32), "i32"},
		{"array", Array(Num(U8), 4), "[u8; 4]"},
		{"generic struct", &TypeInfo{Kind: KindStruct, Name: "Box", TypeArgs: []*TypeInfo{Num(I32)}}, "Box<i32>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ty.String())
		})
	}
}
