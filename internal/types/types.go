// Package types implements the TypeInfo value representation produced
// by the type checker's phase 5 inference. TypeInfo is
// a closed sum of variants; new variants are added here, never by
// embedding arbitrary interface{} payloads, so substitute and
// has_unresolved_params stay exhaustive.
package types

import (
	"strconv"
	"strings"
)

// Kind discriminates which TypeInfo variant is populated.
type Kind int

const (
	KindUnit Kind = iota
	KindBool
	KindString
	KindNumber
	KindArray
	KindStruct
	KindEnum
	KindSpec
	KindCustom
	KindGeneric
	KindQualifiedName
	KindFunction
)

// NumberKind narrows KindNumber to one of the primitive integer
// widths/signs.
type NumberKind int

const (
	I8 NumberKind = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
)

var numberNames = [...]string{"i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64"}

func (n NumberKind) String() string {
	if int(n) < len(numberNames) {
		return numberNames[n]
	}
	return "number"
}

// IsSigned reports whether n is one of the signed integer widths.
func (n NumberKind) IsSigned() bool {
	return n == I8 || n == I16 || n == I32 || n == I64
}

// TypeInfo is the checker's internal type representation. Exactly one
// group of fields is meaningful per Kind; which group is documented
// next to each field.
type TypeInfo struct {
	Kind Kind

	// KindNumber
	Number NumberKind

	// KindArray
	Element *TypeInfo
	Size    uint32

	// KindStruct / KindEnum / KindSpec / KindCustom: the declared name.
	// KindGeneric: the type-parameter name.
	// KindQualifiedName: unused, see Path.
	Name string

	// KindStruct only: field name -> field type, insertion order
	// preserved via FieldOrder for deterministic Rocq emission.
	Fields     map[string]*TypeInfo
	FieldOrder []string

	// KindEnum only: variant names in declaration order.
	Variants []string

	// KindCustom / KindStruct / KindEnum / KindSpec: type arguments
	// supplied at a use site, e.g. Box<i32> -> TypeArgs: [i32].
	TypeArgs []*TypeInfo

	// KindQualifiedName: the unresolved path segments, e.g.
	// ["collections", "List"]. A checker bug if this ever survives
	// past phase 3 import resolution into a final node_types entry.
	Path []string

	// KindFunction
	Params     []*TypeInfo
	ReturnType *TypeInfo
}

func Unit() *TypeInfo   { return &TypeInfo{Kind: KindUnit} }
func Bool() *TypeInfo   { return &TypeInfo{Kind: KindBool} }
func Str() *TypeInfo    { return &TypeInfo{Kind: KindString} }
func Num(k NumberKind) *TypeInfo { return &TypeInfo{Kind: KindNumber, Number: k} }

func Array(elem *TypeInfo, size uint32) *TypeInfo {
	return &TypeInfo{Kind: KindArray, Element: elem, Size: size}
}

func Generic(param string) *TypeInfo {
	return &TypeInfo{Kind: KindGeneric, Name: param}
}

func QualifiedName(path []string) *TypeInfo {
	return &TypeInfo{Kind: KindQualifiedName, Path: path}
}

func Function(params []*TypeInfo, ret *TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: KindFunction, Params: params, ReturnType: ret}
}

// Equal reports structural equality, the relation the checker uses for
// assignability and binary-operator typing. There is no implicit
// widening between number kinds.
func (t *TypeInfo) Equal(other *TypeInfo) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindUnit, KindBool, KindString:
		return true
	case KindNumber:
		return t.Number == other.Number
	case KindArray:
		return t.Size == other.Size && t.Element.Equal(other.Element)
	case KindStruct, KindEnum, KindSpec, KindCustom:
		if t.Name != other.Name || len(t.TypeArgs) != len(other.TypeArgs) {
			return false
		}
		for i := range t.TypeArgs {
			if !t.TypeArgs[i].Equal(other.TypeArgs[i]) {
				return false
			}
		}
		return true
	case KindGeneric:
		return t.Name == other.Name
	case KindQualifiedName:
		return strings.Join(t.Path, "::") == strings.Join(other.Path, "::")
	case KindFunction:
		if len(t.Params) != len(other.Params) || !t.ReturnType.Equal(other.ReturnType) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(other.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders a human-readable form for diagnostics.
func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindUnit:
		return "()"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNumber:
		return t.Number.String()
	case KindArray:
		return "[" + t.Element.String() + "; " + strconv.Itoa(int(t.Size)) + "]"
	case KindGeneric:
		return t.Name
	case KindQualifiedName:
		return strings.Join(t.Path, "::")
	case KindFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + t.ReturnType.String()
	case KindStruct, KindEnum, KindSpec, KindCustom:
		if len(t.TypeArgs) == 0 {
			return t.Name
		}
		parts := make([]string, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			parts[i] = a.String()
		}
		return t.Name + "<" + strings.Join(parts, ", ") + ">"
	default:
		return "?"
	}
}

// Substitute replaces every KindGeneric leaf whose Name is a key of
// bindings with the bound TypeInfo, recursively, returning a new tree
// (the receiver is never mutated). Used when instantiating a generic
// struct/function at a call site.
func (t *TypeInfo) Substitute(bindings map[string]*TypeInfo) *TypeInfo {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KindGeneric:
		if bound, ok := bindings[t.Name]; ok {
			return bound
		}
		return t
	case KindArray:
		return &TypeInfo{Kind: KindArray, Element: t.Element.Substitute(bindings), Size: t.Size}
	case KindFunction:
		params := make([]*TypeInfo, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.Substitute(bindings)
		}
		return &TypeInfo{Kind: KindFunction, Params: params, ReturnType: t.ReturnType.Substitute(bindings)}
	case KindStruct, KindEnum, KindSpec, KindCustom:
		if len(t.TypeArgs) == 0 {
			return t
		}
		args := make([]*TypeInfo, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = a.Substitute(bindings)
		}
		cp := *t
		cp.TypeArgs = args
		return &cp
	default:
		return t
	}
}

// HasUnresolvedParams reports whether t (recursively) still contains a
// KindGeneric leaf, meaning it is not yet a concrete, emittable type
// Generic definitions are never themselves emitted to Rocq, only
// their monomorphized instantiations are.
func (t *TypeInfo) HasUnresolvedParams() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindGeneric:
		return true
	case KindArray:
		return t.Element.HasUnresolvedParams()
	case KindFunction:
		for _, p := range t.Params {
			if p.HasUnresolvedParams() {
				return true
			}
		}
		return t.ReturnType.HasUnresolvedParams()
	case KindStruct, KindEnum, KindSpec, KindCustom:
		for _, a := range t.TypeArgs {
			if a.HasUnresolvedParams() {
				return true
			}
		}
		return false
	default:
		return false
	}
}
