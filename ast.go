// ast.go — the expression tree produced by the parser.
//
// One struct per syntactic form. The tree is immutable once parsed and owns
// its children. Every node embeds its source position (the span of its
// leading token) so the builder can point type errors at the right column.
// The parser does no type checking; these nodes record shape only.
package findit

// span is the source position of a node, 1-based line and 0-based column.
type span struct {
	Line int
	Col  int
}

func (s span) pos() span { return s }
func (span) exprNode()   {}

// Expr is one parsed expression node.
type Expr interface {
	pos() span
	exprNode()
}

// Literal is a number, string, path, date, boolean or EMPTY literal.
type Literal struct {
	span
	Val Value
}

// Binary is an infix operator application. Op is the operator's token type:
// arithmetic and bitwise (PLUS MINUS STAR SLASH PERCENT AMP PIPE CARET),
// comparisons (EQ NEQ LESS LESS_EQ GREATER GREATER_EQ), logical (AND OR
// XOR), MATCHES, and OF.
type Binary struct {
	span
	Op          TokenType
	Left, Right Expr
}

// Not negates a boolean operand.
type Not struct {
	span
	Operand Expr
}

// Brackets is a parenthesized sub-expression, kept as its own node so the
// printed form round-trips.
type Brackets struct {
	span
	Inner Expr
}

// Property reads one file property of the current context (NAME, SIZE, ...).
// Name is the canonical upper-cased property name.
type Property struct {
	span
	Name string
}

// Is is the postfix state check `target IS [NOT] keyword`.
type Is struct {
	span
	Target  Expr
	Check   TokenType
	Negated bool
}

// If is `IF cond THEN a [ELSE b] END`; Else may be nil.
type If struct {
	span
	Cond Expr
	Then Expr
	Else Expr
}

// When is one `WHEN cond THEN result` arm of a Case.
type When struct {
	Cond   Expr
	Result Expr
}

// Case is `CASE (WHEN c THEN r)+ [ELSE e] END`; Else may be nil.
type Case struct {
	span
	Whens []When
	Else  Expr
}

// Between is `target BETWEEN lo AND hi`.
type Between struct {
	span
	Target Expr
	Lo     Expr
	Hi     Expr
}

// Position is `POSITION(needle IN hay)`.
type Position struct {
	span
	Needle Expr
	Hay    Expr
}

// Substring is `SUBSTRING(source FROM start [FOR length])`; Length may be nil.
type Substring struct {
	span
	Source Expr
	From   Expr
	Length Expr
}

// Call is a plain function call (NOW, UPPER, LOWER, TRIM, CONCAT, COALESCE,
// CWD). Name is canonical upper case.
type Call struct {
	span
	Name string
	Args []Expr
}

// ExecMode selects the process-invocation flavor.
type ExecMode int

const (
	ExecRun    ExecMode = iota // EXECUTE: wait, report success
	ExecOutput                 // OUTPUT: wait, capture stdout
	ExecSpawn                  // SPAWN: detach, report pid
)

// Exec is `EXECUTE|OUTPUT|SPAWN(prog, args...) [INTO target]`; Into may be
// nil and is never set for OUTPUT.
type Exec struct {
	span
	Mode ExecMode
	Prog Expr
	Args []Expr
	Into Expr
}

// SelfDiv is the prefix form `/term`, dividing a number by itself.
type SelfDiv struct {
	span
	Operand Expr
}

// Cast is `operand AS type`. Target is the destination kind.
type Cast struct {
	span
	Operand Expr
	Target  ValueTag
}

// FormatDate is `FORMAT(date, pattern)`.
type FormatDate struct {
	span
	Date    Expr
	Pattern Expr
}

// ParseDate is `PARSE(text, pattern)`.
type ParseDate struct {
	span
	Text    Expr
	Pattern Expr
}

// Replace is `REPLACE(source, old, new)`.
type Replace struct {
	span
	Source Expr
	Old    Expr
	New    Expr
}

// BindingRef reads a binding introduced by WITH or a lambda parameter.
type BindingRef struct {
	span
	Name string
}

// WithBinding is one `$name AS init` clause of a With.
type WithBinding struct {
	Name string
	Init Expr
}

// With is `WITH $a AS e1[, $b AS e2]* DO action END`. Each init may see the
// bindings declared before it.
type With struct {
	span
	Bindings []WithBinding
	Action   Expr
}

// ListLit is `[a, b, c]` or `:[a, b, c]`.
type ListLit struct {
	span
	Items []Expr
}

// Lambda is a single-parameter lambda argument `$param body`.
type Lambda struct {
	Param string
	Body  Expr
}

// MethodCall is `target.name(...)`. At most one of Arg and Lambda is set;
// both are nil for zero-argument methods.
type MethodCall struct {
	span
	Target Expr
	Name   string
	Arg    Expr
	Lambda *Lambda
}

// RecordField is one `:name value` pair of a record literal.
type RecordField struct {
	Name string
	Val  Expr
}

// RecordLit is `{:f1 v1, :f2 v2}`.
type RecordLit struct {
	span
	Fields []RecordField
}

// FieldAccess is `target::name`.
type FieldAccess struct {
	span
	Target Expr
	Name   string
}
