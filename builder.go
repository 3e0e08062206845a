// builder.go — from AST to executable evaluator tree.
//
// Build walks the parsed expression once, resolving binding references to
// slot indices and checking every operator and method against its typing
// rule. The result is a tree of evaluator nodes, each carrying the one
// static type it can produce. Everything that can be rejected is rejected
// here; evaluation itself never raises an error, it degrades to Empty.
//
// The evaluation contract for every node: it may return a value of its
// declared type, or Empty. Binary operators evaluate both operands and
// propagate Empty, with two exceptions wired into logicEval: a false AND
// side and a true OR side decide the result alone.
package findit

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// Evaluator is one executable node: a typed unit produced by Build.
type Evaluator interface {
	Eval(*Context) Value
	Type() ValueType
}

// Build compiles an expression against a binding environment. b may be nil
// for the top-level (no bindings in scope). The returned error is a
// *TypeError.
func Build(e Expr, b *Bindings) (Evaluator, error) {
	switch n := e.(type) {
	case *Literal:
		return &litEval{val: n.Val, typ: literalType(n.Val)}, nil

	case *Brackets:
		return Build(n.Inner, b)

	case *Property:
		return &propEval{name: n.Name, typ: properties[n.Name]}, nil

	case *BindingRef:
		slot, t, ok := b.lookup(n.Name)
		if !ok {
			return nil, typeErrf(n.span, "unknown binding $%s", n.Name)
		}
		return &bindingEval{slot: slot, typ: t}, nil

	case *Not:
		operand, err := Build(n.Operand, b)
		if err != nil {
			return nil, err
		}
		if operand.Type().Tag != TagBool {
			return nil, typeErrf(n.span, "NOT expects BOOL, got %s", operand.Type())
		}
		return &notEval{operand: operand}, nil

	case *Binary:
		return buildBinary(n, b)

	case *Is:
		return buildIs(n, b)

	case *If:
		return buildIf(n, b)

	case *Case:
		return buildCase(n, b)

	case *Between:
		return buildBetween(n, b)

	case *SelfDiv:
		operand, err := Build(n.Operand, b)
		if err != nil {
			return nil, err
		}
		if operand.Type().Tag != TagNumber {
			return nil, typeErrf(n.span, "'/' expects NUMBER, got %s", operand.Type())
		}
		return &selfDivEval{operand: operand}, nil

	case *Cast:
		operand, err := Build(n.Operand, b)
		if err != nil {
			return nil, err
		}
		return &castEval{operand: operand, target: n.Target}, nil

	case *With:
		return buildWith(n, b)

	case *ListLit:
		return buildListLit(n, b)

	case *RecordLit:
		return buildRecordLit(n, b)

	case *FieldAccess:
		return buildFieldAccess(n, b)

	case *MethodCall:
		return buildMethodCall(n, b)

	case *Position, *Substring, *Call, *FormatDate, *ParseDate, *Replace:
		return buildFunction(e, b)

	case *Exec:
		return buildExec(n, b)

	default:
		return nil, typeErrf(e.pos(), "cannot build %T", e)
	}
}

// BuildSource parses and builds src in one step.
func BuildSource(src string, b *Bindings) (Evaluator, error) {
	ast, err := ParseSource(src)
	if err != nil {
		return nil, err
	}
	return Build(ast, b)
}

func typeErrf(s span, format string, args ...interface{}) error {
	return &TypeError{Line: s.Line, Col: s.Col, Msg: fmt.Sprintf(format, args...)}
}

func literalType(v Value) ValueType {
	switch v.Tag {
	case TagBool:
		return TypeBool
	case TagNumber:
		return TypeNumber
	case TagString:
		return TypeString
	case TagPath:
		return TypePath
	case TagDate:
		return TypeDate
	default:
		return TypeEmpty
	}
}

// unifyBranch merges the types of two alternative branches. The Empty type
// unifies with anything, so a missing ELSE or an EMPTY arm never forces the
// whole conditional to EMPTY.
func unifyBranch(a, b ValueType) (ValueType, bool) {
	if a.Tag == TagEmpty {
		return b, true
	}
	if b.Tag == TagEmpty {
		return a, true
	}
	if a.Same(b) {
		return a, true
	}
	return a, false
}

// ───────────────────────────────── leaves ───────────────────────────────────

type litEval struct {
	val Value
	typ ValueType
}

func (e *litEval) Eval(*Context) Value { return e.val }
func (e *litEval) Type() ValueType     { return e.typ }

type bindingEval struct {
	slot int
	typ  ValueType
}

func (e *bindingEval) Eval(ctx *Context) Value { return ctx.binding(e.slot) }
func (e *bindingEval) Type() ValueType         { return e.typ }

// ─────────────────────────────── boolean ops ────────────────────────────────

type notEval struct {
	operand Evaluator
}

func (e *notEval) Eval(ctx *Context) Value {
	v := e.operand.Eval(ctx)
	if v.IsEmpty() {
		return Empty
	}
	return Bool(!v.asBool())
}
func (e *notEval) Type() ValueType { return TypeBool }

type logicEval struct {
	op   TokenType // AND, OR or XOR
	l, r Evaluator
}

func (e *logicEval) Eval(ctx *Context) Value {
	switch e.op {
	case AND:
		lv := e.l.Eval(ctx)
		if lv.Tag == TagBool && !lv.asBool() {
			return Bool(false)
		}
		rv := e.r.Eval(ctx)
		if rv.Tag == TagBool && !rv.asBool() {
			return Bool(false)
		}
		if lv.IsEmpty() || rv.IsEmpty() {
			return Empty
		}
		return Bool(true)
	case OR:
		lv := e.l.Eval(ctx)
		if lv.Tag == TagBool && lv.asBool() {
			return Bool(true)
		}
		rv := e.r.Eval(ctx)
		if rv.Tag == TagBool && rv.asBool() {
			return Bool(true)
		}
		if lv.IsEmpty() || rv.IsEmpty() {
			return Empty
		}
		return Bool(false)
	default: // XOR
		lv := e.l.Eval(ctx)
		rv := e.r.Eval(ctx)
		if lv.IsEmpty() || rv.IsEmpty() {
			return Empty
		}
		return Bool(lv.asBool() != rv.asBool())
	}
}
func (e *logicEval) Type() ValueType { return TypeBool }

// ─────────────────────────────── comparisons ────────────────────────────────

type cmpEval struct {
	op   TokenType
	l, r Evaluator
}

func (e *cmpEval) Eval(ctx *Context) Value {
	lv := e.l.Eval(ctx)
	rv := e.r.Eval(ctx)
	if lv.IsEmpty() || rv.IsEmpty() {
		return Empty
	}
	c := Compare(lv, rv)
	switch e.op {
	case EQ:
		return Bool(c == 0)
	case NEQ:
		return Bool(c != 0)
	case LESS:
		return Bool(c < 0)
	case LESS_EQ:
		return Bool(c <= 0)
	case GREATER:
		return Bool(c > 0)
	default: // GREATER_EQ
		return Bool(c >= 0)
	}
}
func (e *cmpEval) Type() ValueType { return TypeBool }

// matchesEval applies a regular expression search. The compiled pattern is
// cached per node as long as the pattern text repeats; a pattern that does
// not compile is a run-time absence, not an error.
type matchesEval struct {
	l, r    Evaluator
	lastPat string
	lastRe  *regexp.Regexp
	lastBad bool
}

func (e *matchesEval) Eval(ctx *Context) Value {
	lv := e.l.Eval(ctx)
	rv := e.r.Eval(ctx)
	if lv.IsEmpty() || rv.IsEmpty() {
		return Empty
	}
	pat := rv.asString()
	if e.lastRe == nil && !e.lastBad || e.lastPat != pat {
		e.lastPat = pat
		e.lastRe, e.lastBad = nil, false
		if re, err := regexp.Compile(pat); err == nil {
			e.lastRe = re
		} else {
			e.lastBad = true
		}
	}
	if e.lastBad {
		return Empty
	}
	return Bool(e.lastRe.MatchString(lv.asString()))
}
func (e *matchesEval) Type() ValueType { return TypeBool }

// ───────────────────────────────── arithmetic ───────────────────────────────

type arithEval struct {
	op   TokenType // PLUS MINUS STAR SLASH PERCENT AMP PIPE CARET
	l, r Evaluator
}

func (e *arithEval) Eval(ctx *Context) Value {
	lv := e.l.Eval(ctx)
	rv := e.r.Eval(ctx)
	if lv.IsEmpty() || rv.IsEmpty() {
		return Empty
	}
	a, b := lv.asNumber(), rv.asNumber()
	var c uint64
	ok := true
	switch e.op {
	case PLUS:
		c, ok = addChecked(a, b)
	case MINUS:
		c, ok = subChecked(a, b)
	case STAR:
		c, ok = mulChecked(a, b)
	case SLASH:
		c, ok = divChecked(a, b)
	case PERCENT:
		c, ok = modChecked(a, b)
	case AMP:
		c = a & b
	case PIPE:
		c = a | b
	default: // CARET
		c = a ^ b
	}
	if !ok {
		return Empty
	}
	return Number(c)
}
func (e *arithEval) Type() ValueType { return TypeNumber }

type selfDivEval struct {
	operand Evaluator
}

// Eval divides the operand by itself, evaluating it once: 1 for any
// non-zero number, Empty for zero or absence.
func (e *selfDivEval) Eval(ctx *Context) Value {
	v := e.operand.Eval(ctx)
	if v.IsEmpty() {
		return Empty
	}
	n := v.asNumber()
	q, ok := divChecked(n, n)
	if !ok {
		return Empty
	}
	return Number(q)
}
func (e *selfDivEval) Type() ValueType { return TypeNumber }

// concatEval is `+` with a string on either side: both displays joined.
type concatEval struct {
	l, r Evaluator
}

func (e *concatEval) Eval(ctx *Context) Value {
	lv := e.l.Eval(ctx)
	rv := e.r.Eval(ctx)
	if lv.IsEmpty() || rv.IsEmpty() {
		return Empty
	}
	return Str(lv.Display() + rv.Display())
}
func (e *concatEval) Type() ValueType { return TypeString }

// dateShiftEval moves a date by a number of seconds.
type dateShiftEval struct {
	sub  bool
	l, r Evaluator
}

func (e *dateShiftEval) Eval(ctx *Context) Value {
	lv := e.l.Eval(ctx)
	rv := e.r.Eval(ctx)
	if lv.IsEmpty() || rv.IsEmpty() {
		return Empty
	}
	n := rv.asNumber()
	if n > uint64(math.MaxInt64/int64(time.Second)) {
		return Empty
	}
	d := time.Duration(n) * time.Second
	if e.sub {
		d = -d
	}
	return Date(lv.asDate().Add(d))
}
func (e *dateShiftEval) Type() ValueType { return TypeDate }

// dateDiffEval is Date minus Date, in whole seconds; a negative difference
// does not fit the number type and resolves to Empty.
type dateDiffEval struct {
	l, r Evaluator
}

func (e *dateDiffEval) Eval(ctx *Context) Value {
	lv := e.l.Eval(ctx)
	rv := e.r.Eval(ctx)
	if lv.IsEmpty() || rv.IsEmpty() {
		return Empty
	}
	diff := lv.asDate().Unix() - rv.asDate().Unix()
	if diff < 0 {
		return Empty
	}
	return Number(uint64(diff))
}
func (e *dateDiffEval) Type() ValueType { return TypeNumber }

// listCatEval chains two lists of the same item type, lazily.
type listCatEval struct {
	l, r Evaluator
	typ  ValueType
}

func (e *listCatEval) Eval(ctx *Context) Value {
	lv := e.l.Eval(ctx)
	rv := e.r.Eval(ctx)
	if lv.IsEmpty() || rv.IsEmpty() {
		return Empty
	}
	lc := lv.asList().Cursor()
	rc := rv.asList().Cursor()
	return List(NewLazyList(func() (Value, bool) {
		if v, ok := lc(); ok {
			return v, true
		}
		return rc()
	}))
}
func (e *listCatEval) Type() ValueType { return e.typ }

// ofEval evaluates its left side against a different path.
type ofEval struct {
	l, r Evaluator
}

func (e *ofEval) Eval(ctx *Context) Value {
	rv := e.r.Eval(ctx)
	if rv.IsEmpty() {
		return Empty
	}
	return e.l.Eval(ctx.withPath(rv.asPath()))
}
func (e *ofEval) Type() ValueType { return e.l.Type() }

// ────────────────────────────── binary builder ──────────────────────────────

func buildBinary(n *Binary, b *Bindings) (Evaluator, error) {
	l, err := Build(n.Left, b)
	if err != nil {
		return nil, err
	}
	r, err := Build(n.Right, b)
	if err != nil {
		return nil, err
	}
	lt, rt := l.Type(), r.Type()

	switch n.Op {
	case AND, OR, XOR:
		if lt.Tag != TagBool || rt.Tag != TagBool {
			return nil, typeErrf(n.span, "%s expects BOOL operands, got %s and %s", opName(n.Op), lt, rt)
		}
		return &logicEval{op: n.Op, l: l, r: r}, nil

	case EQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ:
		if !lt.Same(rt) {
			return nil, typeErrf(n.span, "cannot compare %s to %s", lt, rt)
		}
		return &cmpEval{op: n.Op, l: l, r: r}, nil

	case MATCHES:
		if lt.Tag != TagString || rt.Tag != TagString {
			return nil, typeErrf(n.span, "MATCHES expects STRING operands, got %s and %s", lt, rt)
		}
		return &matchesEval{l: l, r: r}, nil

	case OF:
		if rt.Tag != TagPath {
			return nil, typeErrf(n.span, "OF expects a PATH on its right side, got %s", rt)
		}
		return &ofEval{l: l, r: r}, nil

	case PLUS:
		switch {
		case lt.Tag == TagNumber && rt.Tag == TagNumber:
			return &arithEval{op: PLUS, l: l, r: r}, nil
		case lt.Tag == TagString || rt.Tag == TagString:
			return &concatEval{l: l, r: r}, nil
		case lt.Tag == TagDate && rt.Tag == TagNumber:
			return &dateShiftEval{l: l, r: r}, nil
		case lt.Tag == TagList && rt.Tag == TagList && lt.Same(rt):
			return &listCatEval{l: l, r: r, typ: lt}, nil
		default:
			return nil, typeErrf(n.span, "cannot add %s and %s", lt, rt)
		}

	case MINUS:
		switch {
		case lt.Tag == TagNumber && rt.Tag == TagNumber:
			return &arithEval{op: MINUS, l: l, r: r}, nil
		case lt.Tag == TagDate && rt.Tag == TagNumber:
			return &dateShiftEval{sub: true, l: l, r: r}, nil
		case lt.Tag == TagDate && rt.Tag == TagDate:
			return &dateDiffEval{l: l, r: r}, nil
		default:
			return nil, typeErrf(n.span, "cannot subtract %s from %s", rt, lt)
		}

	case STAR, SLASH, PERCENT, AMP, PIPE, CARET:
		if lt.Tag != TagNumber || rt.Tag != TagNumber {
			return nil, typeErrf(n.span, "%s expects NUMBER operands, got %s and %s", opName(n.Op), lt, rt)
		}
		return &arithEval{op: n.Op, l: l, r: r}, nil

	default:
		return nil, typeErrf(n.span, "unsupported operator")
	}
}

func opName(tt TokenType) string {
	switch tt {
	case AND:
		return "AND"
	case OR:
		return "OR"
	case XOR:
		return "XOR"
	case STAR:
		return "'*'"
	case SLASH:
		return "'/'"
	case PERCENT:
		return "'%'"
	case AMP:
		return "'&'"
	case PIPE:
		return "'|'"
	case CARET:
		return "'^'"
	default:
		return "operator"
	}
}

// ─────────────────────────────── IS checks ──────────────────────────────────

// isEmptyEval answers `x IS [NOT] EMPTY` for any operand type. It is the one
// node that never returns Empty itself.
type isEmptyEval struct {
	target  Evaluator
	negated bool
}

func (e *isEmptyEval) Eval(ctx *Context) Value {
	res := e.target.Eval(ctx).IsEmpty()
	if e.negated {
		res = !res
	}
	return Bool(res)
}
func (e *isEmptyEval) Type() ValueType { return TypeBool }

// pathStateEval answers the path-state checks (IS DIR, IS HIDDEN, ...).
type pathStateEval struct {
	target  Evaluator
	check   TokenType
	negated bool
}

func (e *pathStateEval) Eval(ctx *Context) Value {
	v := e.target.Eval(ctx)
	if v.IsEmpty() {
		return Empty
	}
	res := pathState(ctx, v.asPath(), e.check)
	if e.negated {
		res = !res
	}
	return Bool(res)
}
func (e *pathStateEval) Type() ValueType { return TypeBool }

func buildIs(n *Is, b *Bindings) (Evaluator, error) {
	target, err := Build(n.Target, b)
	if err != nil {
		return nil, err
	}
	if n.Check == EMPTY {
		return &isEmptyEval{target: target, negated: n.Negated}, nil
	}
	if target.Type().Tag != TagPath {
		return nil, typeErrf(n.span, "IS %s expects a PATH, got %s", stateName(n.Check), target.Type())
	}
	return &pathStateEval{target: target, check: n.Check, negated: n.Negated}, nil
}

func stateName(tt TokenType) string {
	switch tt {
	case DIR:
		return "DIR"
	case DIRECTORY:
		return "DIRECTORY"
	case FILE:
		return "FILE"
	case LINK:
		return "LINK"
	case SYMLINK:
		return "SYMLINK"
	case HIDDEN:
		return "HIDDEN"
	case ABSOLUTE:
		return "ABSOLUTE"
	case RELATIVE:
		return "RELATIVE"
	case EXISTS:
		return "EXISTS"
	default:
		return "EMPTY"
	}
}

// ─────────────────────────────── conditionals ───────────────────────────────

type ifEval struct {
	cond, then, els Evaluator
	typ             ValueType
}

// Eval treats an Empty condition like false: the ELSE side answers.
func (e *ifEval) Eval(ctx *Context) Value {
	c := e.cond.Eval(ctx)
	if c.Tag == TagBool && c.asBool() {
		return e.then.Eval(ctx)
	}
	return e.els.Eval(ctx)
}
func (e *ifEval) Type() ValueType { return e.typ }

func buildIf(n *If, b *Bindings) (Evaluator, error) {
	cond, err := Build(n.Cond, b)
	if err != nil {
		return nil, err
	}
	if cond.Type().Tag != TagBool {
		return nil, typeErrf(n.span, "the IF condition must be BOOL, got %s", cond.Type())
	}
	then, err := Build(n.Then, b)
	if err != nil {
		return nil, err
	}
	var els Evaluator = &litEval{val: Empty, typ: TypeEmpty}
	if n.Else != nil {
		if els, err = Build(n.Else, b); err != nil {
			return nil, err
		}
	}
	typ, ok := unifyBranch(then.Type(), els.Type())
	if !ok {
		return nil, typeErrf(n.span, "IF branches disagree: %s vs %s", then.Type(), els.Type())
	}
	return &ifEval{cond: cond, then: then, els: els, typ: typ}, nil
}

type caseArm struct {
	cond, result Evaluator
}

type caseEval struct {
	arms []caseArm
	els  Evaluator
	typ  ValueType
}

func (e *caseEval) Eval(ctx *Context) Value {
	for _, arm := range e.arms {
		c := arm.cond.Eval(ctx)
		if c.Tag == TagBool && c.asBool() {
			return arm.result.Eval(ctx)
		}
	}
	return e.els.Eval(ctx)
}
func (e *caseEval) Type() ValueType { return e.typ }

func buildCase(n *Case, b *Bindings) (Evaluator, error) {
	node := &caseEval{typ: TypeEmpty}
	for _, w := range n.Whens {
		cond, err := Build(w.Cond, b)
		if err != nil {
			return nil, err
		}
		if cond.Type().Tag != TagBool {
			return nil, typeErrf(n.span, "a WHEN condition must be BOOL, got %s", cond.Type())
		}
		result, err := Build(w.Result, b)
		if err != nil {
			return nil, err
		}
		typ, ok := unifyBranch(node.typ, result.Type())
		if !ok {
			return nil, typeErrf(n.span, "CASE branches disagree: %s vs %s", node.typ, result.Type())
		}
		node.typ = typ
		node.arms = append(node.arms, caseArm{cond: cond, result: result})
	}
	node.els = &litEval{val: Empty, typ: TypeEmpty}
	if n.Else != nil {
		els, err := Build(n.Else, b)
		if err != nil {
			return nil, err
		}
		typ, ok := unifyBranch(node.typ, els.Type())
		if !ok {
			return nil, typeErrf(n.span, "CASE branches disagree: %s vs %s", node.typ, els.Type())
		}
		node.typ = typ
		node.els = els
	}
	return node, nil
}

type betweenEval struct {
	target, lo, hi Evaluator
}

func (e *betweenEval) Eval(ctx *Context) Value {
	v := e.target.Eval(ctx)
	lo := e.lo.Eval(ctx)
	hi := e.hi.Eval(ctx)
	if v.IsEmpty() || lo.IsEmpty() || hi.IsEmpty() {
		return Empty
	}
	return Bool(Compare(lo, v) <= 0 && Compare(v, hi) <= 0)
}
func (e *betweenEval) Type() ValueType { return TypeBool }

func buildBetween(n *Between, b *Bindings) (Evaluator, error) {
	target, err := Build(n.Target, b)
	if err != nil {
		return nil, err
	}
	lo, err := Build(n.Lo, b)
	if err != nil {
		return nil, err
	}
	hi, err := Build(n.Hi, b)
	if err != nil {
		return nil, err
	}
	if !target.Type().Same(lo.Type()) || !target.Type().Same(hi.Type()) {
		return nil, typeErrf(n.span, "BETWEEN operands must share one type, got %s, %s and %s",
			target.Type(), lo.Type(), hi.Type())
	}
	return &betweenEval{target: target, lo: lo, hi: hi}, nil
}

// ──────────────────────────────── casts ─────────────────────────────────────

type castEval struct {
	operand Evaluator
	target  ValueTag
}

func (e *castEval) Eval(ctx *Context) Value {
	return castValue(ctx, e.operand.Eval(ctx), e.target)
}
func (e *castEval) Type() ValueType { return ValueType{Tag: e.target} }

// ──────────────────────────────── bindings ──────────────────────────────────

type withEval struct {
	inits  []Evaluator
	action Evaluator
}

func (e *withEval) Eval(ctx *Context) Value {
	for _, init := range e.inits {
		ctx = ctx.withBinding(init.Eval(ctx))
	}
	return e.action.Eval(ctx)
}
func (e *withEval) Type() ValueType { return e.action.Type() }

func buildWith(n *With, b *Bindings) (Evaluator, error) {
	node := &withEval{}
	env := b
	for _, wb := range n.Bindings {
		init, err := Build(wb.Init, env)
		if err != nil {
			return nil, err
		}
		node.inits = append(node.inits, init)
		env = env.extend(wb.Name, init.Type())
	}
	action, err := Build(n.Action, env)
	if err != nil {
		return nil, err
	}
	node.action = action
	return node, nil
}

// ───────────────────────────── list literals ────────────────────────────────

type listLitEval struct {
	items []Evaluator
	typ   ValueType
}

func (e *listLitEval) Eval(ctx *Context) Value {
	vs := make([]Value, len(e.items))
	for i, item := range e.items {
		vs[i] = item.Eval(ctx)
	}
	return List(FromSlice(vs))
}
func (e *listLitEval) Type() ValueType { return e.typ }

func buildListLit(n *ListLit, b *Bindings) (Evaluator, error) {
	node := &listLitEval{}
	itemT := TypeEmpty
	for _, item := range n.Items {
		ev, err := Build(item, b)
		if err != nil {
			return nil, err
		}
		t, ok := unifyBranch(itemT, ev.Type())
		if !ok {
			return nil, typeErrf(n.span, "list items disagree: %s vs %s", itemT, ev.Type())
		}
		itemT = t
		node.items = append(node.items, ev)
	}
	node.typ = ListOf(itemT)
	return node, nil
}

// ─────────────────────────────── records ────────────────────────────────────

type recordEval struct {
	class  *ClassType
	fields []Evaluator
}

func (e *recordEval) Eval(ctx *Context) Value {
	vs := make([]Value, len(e.fields))
	for i, f := range e.fields {
		vs[i] = f.Eval(ctx)
	}
	return Record(NewInstance(e.class, vs))
}
func (e *recordEval) Type() ValueType { return ClassOf(e.class) }

func buildRecordLit(n *RecordLit, b *Bindings) (Evaluator, error) {
	node := &recordEval{}
	var fields []ClassField
	seen := map[string]bool{}
	for _, f := range n.Fields {
		if seen[f.Name] {
			return nil, typeErrf(n.span, "duplicate field :%s", f.Name)
		}
		seen[f.Name] = true
		ev, err := Build(f.Val, b)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ClassField{Name: f.Name, Type: ev.Type()})
		node.fields = append(node.fields, ev)
	}
	node.class = NewClassType(fields)
	return node, nil
}

type fieldEval struct {
	target Evaluator
	index  int
	typ    ValueType
}

func (e *fieldEval) Eval(ctx *Context) Value {
	v := e.target.Eval(ctx)
	if v.IsEmpty() {
		return Empty
	}
	return v.asRecord().Field(e.index)
}
func (e *fieldEval) Type() ValueType { return e.typ }

func buildFieldAccess(n *FieldAccess, b *Bindings) (Evaluator, error) {
	target, err := Build(n.Target, b)
	if err != nil {
		return nil, err
	}
	tt := target.Type()
	if tt.Tag != TagClass {
		return nil, typeErrf(n.span, "::%s needs a record, got %s", n.Name, tt)
	}
	idx, ok := tt.Class.FieldIndex(n.Name)
	if !ok {
		return nil, typeErrf(n.span, "unknown field ::%s on %s", n.Name, tt)
	}
	return &fieldEval{target: target, index: idx, typ: tt.Class.Fields[idx].Type}, nil
}
