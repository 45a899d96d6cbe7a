// Package ast defines the node vocabulary stored in the arena
// (internal/arena). Nodes are plain data: a Kind discriminator, a
// Location, and a Payload holding the fields specific to that kind.
// The arena owns identity and tree shape (parent/children); this
// package only owns what a node means.
package ast

// Kind discriminates the category and concrete shape of a Node.
type Kind int

const (
	KindInvalid Kind = iota

	// SourceFile
	KindSourceFile

	// Directive
	KindUseDirective

	// Definitions
	KindFunctionDef
	KindStructDef
	KindEnumDef
	KindConstDef
	KindTypeAliasDef
	KindModuleDef
	KindSpecDef
	KindImplDef

	// Block types (nondeterministic blocks)
	KindForallBlock
	KindExistsBlock
	KindAssumeBlock
	KindUniqueBlock
	KindPlainBlock

	// Statements
	KindLetStmt
	KindAssignStmt
	KindReturnStmt
	KindIfStmt
	KindWhileStmt
	KindLoopStmt
	KindBreakStmt
	KindExprStmt

	// Expressions
	KindLiteralExpr
	KindIdentifierExpr
	KindBinaryExpr
	KindUnaryExpr
	KindCallExpr
	KindMethodCallExpr
	KindFieldAccessExpr
	KindIndexExpr
	KindArrayLiteralExpr
	KindStructLiteralExpr
	KindTypeMemberExpr
	KindUzumakiExpr
	KindBlockExpr
	KindIfExpr
	KindCastExpr

	// Literals
	KindNumberLit
	KindBoolLit
	KindStringLit
	KindUnitLit

	// Types
	KindSimpleType
	KindArrayType
	KindNamedType
	KindQualifiedType
	KindGenericParamType
	KindFunctionType

	// Misc
	KindArgument
	KindField
	KindEnumVariant
	KindIdentifierSpelling
	KindVisibilityNode
)

var kindNames = map[Kind]string{
	KindInvalid:            "invalid",
	KindSourceFile:         "source_file",
	KindUseDirective:       "use_directive",
	KindFunctionDef:        "function_def",
	KindStructDef:          "struct_def",
	KindEnumDef:            "enum_def",
	KindConstDef:           "const_def",
	KindTypeAliasDef:       "type_alias_def",
	KindModuleDef:          "module_def",
	KindSpecDef:            "spec_def",
	KindImplDef:            "impl_def",
	KindForallBlock:        "forall_block",
	KindExistsBlock:        "exists_block",
	KindAssumeBlock:        "assume_block",
	KindUniqueBlock:        "unique_block",
	KindPlainBlock:         "plain_block",
	KindLetStmt:            "let_stmt",
	KindAssignStmt:         "assign_stmt",
	KindReturnStmt:         "return_stmt",
	KindIfStmt:             "if_stmt",
	KindWhileStmt:          "while_stmt",
	KindLoopStmt:           "loop_stmt",
	KindBreakStmt:          "break_stmt",
	KindExprStmt:           "expr_stmt",
	KindLiteralExpr:        "literal_expr",
	KindIdentifierExpr:     "identifier_expr",
	KindBinaryExpr:         "binary_expr",
	KindUnaryExpr:          "unary_expr",
	KindCallExpr:           "call_expr",
	KindMethodCallExpr:     "method_call_expr",
	KindFieldAccessExpr:    "field_access_expr",
	KindIndexExpr:          "index_expr",
	KindArrayLiteralExpr:   "array_literal_expr",
	KindStructLiteralExpr:  "struct_literal_expr",
	KindTypeMemberExpr:     "type_member_expr",
	KindUzumakiExpr:        "uzumaki_expr",
	KindBlockExpr:          "block_expr",
	KindIfExpr:             "if_expr",
	KindCastExpr:           "cast_expr",
	KindNumberLit:          "number_lit",
	KindBoolLit:            "bool_lit",
	KindStringLit:          "string_lit",
	KindUnitLit:            "unit_lit",
	KindSimpleType:         "simple_type",
	KindArrayType:          "array_type",
	KindNamedType:          "named_type",
	KindQualifiedType:      "qualified_type",
	KindGenericParamType:   "generic_param_type",
	KindFunctionType:       "function_type",
	KindArgument:           "argument",
	KindField:              "field",
	KindEnumVariant:        "enum_variant",
	KindIdentifierSpelling: "identifier_spelling",
	KindVisibilityNode:     "visibility",
}

// String implements fmt.Stringer for debug dumps and diagnostics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown_kind"
}

// IsExpression reports whether a node of this kind is a value
// expression — the category whose nodes get entries in the type
// checker's node_types map.
func (k Kind) IsExpression() bool {
	switch k {
	case KindLiteralExpr, KindIdentifierExpr, KindBinaryExpr, KindUnaryExpr,
		KindCallExpr, KindMethodCallExpr, KindFieldAccessExpr, KindIndexExpr,
		KindArrayLiteralExpr, KindStructLiteralExpr, KindTypeMemberExpr,
		KindUzumakiExpr, KindBlockExpr, KindIfExpr, KindCastExpr:
		return true
	default:
		return false
	}
}

// IsDefinition reports whether a node of this kind is a top-level or
// impl-scoped definition.
func (k Kind) IsDefinition() bool {
	switch k {
	case KindFunctionDef, KindStructDef, KindEnumDef, KindConstDef,
		KindTypeAliasDef, KindModuleDef, KindSpecDef, KindImplDef:
		return true
	default:
		return false
	}
}

// IsNondeterministicBlock reports whether a node introduces a
// forall/exists/assume/unique scope. These are statements, not
// expressions: they are scope-introducing and value-less.
func (k Kind) IsNondeterministicBlock() bool {
	switch k {
	case KindForallBlock, KindExistsBlock, KindAssumeBlock, KindUniqueBlock:
		return true
	default:
		return false
	}
}

// SimpleTypeKind is the compact value enum used for primitive types.
// Primitives are never heap-allocated as distinct nodes with their own
// identity; a node carrying a SimpleTypeKind still has a Location, but
// comparisons between primitives are plain discriminant comparisons.
type SimpleTypeKind int

const (
	SimpleUnit SimpleTypeKind = iota
	SimpleBool
	SimpleI8
	SimpleI16
	SimpleI32
	SimpleI64
	SimpleU8
	SimpleU16
	SimpleU32
	SimpleU64
)

var simpleTypeNames = map[SimpleTypeKind]string{
	SimpleUnit: "unit",
	SimpleBool: "bool",
	SimpleI8:   "i8",
	SimpleI16:  "i16",
	SimpleI32:  "i32",
	SimpleI64:  "i64",
	SimpleU8:   "u8",
	SimpleU16:  "u16",
	SimpleU32:  "u32",
	SimpleU64:  "u64",
}

func (s SimpleTypeKind) String() string {
	if name, ok := simpleTypeNames[s]; ok {
		return name
	}
	return "unknown_simple_type"
}

// IsSignedInteger reports whether the kind is one of i8/i16/i32/i64.
func (s SimpleTypeKind) IsSignedInteger() bool {
	switch s {
	case SimpleI8, SimpleI16, SimpleI32, SimpleI64:
		return true
	default:
		return false
	}
}

// IsInteger reports whether the kind is any signed or unsigned integer.
func (s SimpleTypeKind) IsInteger() bool {
	switch s {
	case SimpleI8, SimpleI16, SimpleI32, SimpleI64,
		SimpleU8, SimpleU16, SimpleU32, SimpleU64:
		return true
	default:
		return false
	}
}

// Visibility is carried on definitions, fields, methods, and modules.
// Private is the zero value: a definition with no `pub` marker is
// private.
type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "pub"
	}
	return "private"
}
