package ast

import "github.com/oxhq/veyra/internal/source"

// ID is a non-zero 32-bit node identifier. Zero is reserved as
// "invalid".
type ID uint32

// InvalidID is the sentinel for "no node".
const InvalidID ID = 0

// Valid reports whether id is a usable node reference.
func (id ID) Valid() bool {
	return id != InvalidID
}

// Node is one entry in the arena. Kind discriminates which of the
// Payload's concrete shapes is populated; the arena never interprets
// Payload itself, only stores it.
type Node struct {
	ID       ID
	Kind     Kind
	Location source.Location
	Payload  any
}

// --- Payload shapes, one family per node category -------------------

// SourceFilePayload is carried by the root node of a parsed file. It
// is the only node that stores the full source text; every other
// node's text is recovered by slicing this string.
type SourceFilePayload struct {
	Path string
	Text string
}

// UseDirectivePayload represents one `use` statement. The Glob and
// Partial flags select among plain / glob / partial forms.
type UseDirectivePayload struct {
	Path    []string
	Glob    bool
	Partial bool
	// Items is only populated for partial imports: one entry per
	// `x` or `x as y` item, local name resolved (alias if given).
	Items []PartialImportItem
}

// PartialImportItem is one `x` or `x as y` entry in a partial import.
type PartialImportItem struct {
	OriginalName string
	LocalName    string
}

// FunctionDefPayload covers both free functions and methods (methods
// additionally set Receiver and HasSelf).
type FunctionDefPayload struct {
	Name           string
	Visibility     Visibility
	TypeParams     []string
	Params         []ID // Argument nodes
	ReturnType     ID   // Type node, InvalidID means unit
	Body           ID   // BlockExpr node
	Receiver       string
	HasSelf        bool
}

// StructDefPayload describes a struct definition with ordered fields.
type StructDefPayload struct {
	Name       string
	Visibility Visibility
	TypeParams []string
	Fields     []ID // Field nodes, in declaration order
}

// EnumDefPayload describes an enum and its unit variants.
type EnumDefPayload struct {
	Name       string
	Visibility Visibility
	Variants   []ID // EnumVariant nodes
}

// ConstDefPayload describes a top-level constant.
type ConstDefPayload struct {
	Name       string
	Visibility Visibility
	Type       ID // Type node, may be InvalidID
	Value      ID // Expression node
}

// TypeAliasDefPayload describes `type Name = T;`.
type TypeAliasDefPayload struct {
	Name       string
	Visibility Visibility
	TypeParams []string
	Aliased    ID // Type node
}

// ModuleDefPayload describes a `module` block.
type ModuleDefPayload struct {
	Name       string
	Visibility Visibility
	Members    []ID
}

// SpecDefPayload describes a `spec` block (interface-like contract).
type SpecDefPayload struct {
	Name       string
	Visibility Visibility
	Members    []ID
}

// ImplDefPayload describes an `impl Type { ... }` block.
type ImplDefPayload struct {
	TargetTypeName string
	TypeParams     []string
	Methods        []ID // FunctionDef nodes with HasSelf set appropriately
}

// BlockTypePayload is shared by forall/exists/assume/unique/plain
// blocks: scope-introducing, value-less.
type BlockTypePayload struct {
	Statements []ID
}

// LetStmtPayload is `let x: T = e` / `let x = e`.
type LetStmtPayload struct {
	Name           string
	DeclaredType   ID // Type node, InvalidID if omitted
	Value          ID // Expression node
}

// AssignStmtPayload is `x = e`.
type AssignStmtPayload struct {
	Target ID // Expression node (identifier or place expression)
	Value  ID
}

// ReturnStmtPayload is `return e;` / `return;`.
type ReturnStmtPayload struct {
	Value ID // InvalidID for bare `return;`
}

// IfStmtPayload is `if c { ... } else { ... }` used as a statement.
type IfStmtPayload struct {
	Condition ID
	Then      ID // BlockExpr
	Else      ID // BlockExpr or IfStmt-as-expr, InvalidID if absent
}

// WhileStmtPayload is `while c { ... }`.
type WhileStmtPayload struct {
	Condition ID
	Body      ID
}

// LoopStmtPayload is `loop { ... }`.
type LoopStmtPayload struct {
	Body ID
}

// BreakStmtPayload is `break;`.
type BreakStmtPayload struct{}

// ExprStmtPayload wraps a bare expression used as a statement.
type ExprStmtPayload struct {
	Expr ID
}

// LiteralExprPayload wraps a Literal node id as an expression.
type LiteralExprPayload struct {
	Literal ID
}

// IdentifierExprPayload is a bare name reference.
type IdentifierExprPayload struct {
	Name string
}

// BinaryExprPayload is `lhs OP rhs`.
type BinaryExprPayload struct {
	Operator string
	Left     ID
	Right    ID
}

// UnaryExprPayload is `OP operand`.
type UnaryExprPayload struct {
	Operator string
	Operand  ID
}

// CallExprPayload is `callee(args...)`.
type CallExprPayload struct {
	Callee ID
	Args   []ID
}

// MethodCallExprPayload is `receiver.method(args...)`.
type MethodCallExprPayload struct {
	Receiver ID
	Method   string
	Args     []ID
}

// FieldAccessExprPayload is `target.field`.
type FieldAccessExprPayload struct {
	Target ID
	Field  string
}

// IndexExprPayload is `target[index]`.
type IndexExprPayload struct {
	Target ID
	Index  ID
}

// ArrayLiteralExprPayload is `[e1, e2, ...]`.
type ArrayLiteralExprPayload struct {
	Elements []ID
}

// StructLiteralExprPayload is `S { f: v, ... }`.
type StructLiteralExprPayload struct {
	TypeName string
	Fields   []StructLiteralField
}

// StructLiteralField is one `f: v` entry.
type StructLiteralField struct {
	Name  string
	Value ID
}

// TypeMemberExprPayload is `E::V` (enum variant access).
type TypeMemberExprPayload struct {
	TypeName string
	Member   string
}

// UzumakiExprPayload is the `@` operator; it carries no data of its
// own, only a Location, but is kept as a distinct payload for clarity.
type UzumakiExprPayload struct{}

// BlockExprPayload is `{ stmt...; tail_expr? }` used as an expression.
type BlockExprPayload struct {
	Statements []ID
	Tail       ID // InvalidID if the block has no trailing expression
}

// IfExprPayload is `if c { e1 } else { e2 }` used as an expression.
type IfExprPayload struct {
	Condition ID
	Then      ID
	Else      ID
}

// CastExprPayload is `e as T`.
type CastExprPayload struct {
	Value      ID
	TargetType ID
}

// --- Literals ---------------------------------------------------------

// NumberLitPayload is an integer literal; Suffix records an explicit
// numeric-type suffix if the surface syntax has one (empty otherwise).
type NumberLitPayload struct {
	Text   string
	Suffix string
}

// BoolLitPayload is `true`/`false`.
type BoolLitPayload struct {
	Value bool
}

// StringLitPayload is a string literal, value already unescaped.
type StringLitPayload struct {
	Value string
}

// UnitLitPayload is `()`.
type UnitLitPayload struct{}

// --- Types --------------------------------------------------------------

// SimpleTypePayload wraps a primitive SimpleTypeKind value.
type SimpleTypePayload struct {
	Kind SimpleTypeKind
}

// ArrayTypePayload is `[T; N]`.
type ArrayTypePayload struct {
	Element ID
	Size    uint32
}

// NamedTypePayload is a reference to a struct/enum/spec/alias by name,
// optionally with generic type arguments.
type NamedTypePayload struct {
	Name     string
	TypeArgs []ID
}

// QualifiedTypePayload is `path::segments::Name`.
type QualifiedTypePayload struct {
	Path []string
}

// GenericParamTypePayload is a reference to a declared type parameter.
type GenericParamTypePayload struct {
	ParamName string
}

// FunctionTypePayload is a function type, e.g. for higher-order uses.
type FunctionTypePayload struct {
	Params     []ID
	ReturnType ID
}

// --- Misc -----------------------------------------------------------

// ArgumentPayload is one function/method parameter declaration.
type ArgumentPayload struct {
	Name string
	Type ID
}

// FieldPayload is one struct field declaration.
type FieldPayload struct {
	Name       string
	Type       ID
	Visibility Visibility
}

// EnumVariantPayload is one enum variant. The language has unit
// variants only.
type EnumVariantPayload struct {
	Name string
}

// IdentifierSpellingPayload carries the raw spelling of an identifier
// where it needs its own node (e.g. import aliases).
type IdentifierSpellingPayload struct {
	Text string
}

// VisibilityNodePayload carries an explicit `pub` marker's location
// when the grammar exposes it as its own CST node.
type VisibilityNodePayload struct {
	Visibility Visibility
}
