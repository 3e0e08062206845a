// functions.go — the named function forms.
//
// POSITION, SUBSTRING, FORMAT, PARSE and REPLACE arrive from the parser as
// dedicated nodes because their argument lists carry keywords or fixed
// arity; the rest come through Call. String positions are SQL-flavored:
// counted in runes, 1-based, with out-of-range requests clamped rather
// than failed.
package findit

import (
	"math"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

func buildFunction(e Expr, b *Bindings) (Evaluator, error) {
	switch n := e.(type) {
	case *Position:
		needle, err := buildTyped(n.Needle, b, TypeString, "POSITION needle")
		if err != nil {
			return nil, err
		}
		hay, err := buildTyped(n.Hay, b, TypeString, "POSITION haystack")
		if err != nil {
			return nil, err
		}
		return &positionEval{needle: needle, hay: hay}, nil

	case *Substring:
		src, err := buildTyped(n.Source, b, TypeString, "SUBSTRING source")
		if err != nil {
			return nil, err
		}
		from, err := buildTyped(n.From, b, TypeNumber, "SUBSTRING start")
		if err != nil {
			return nil, err
		}
		node := &substringEval{src: src, from: from}
		if n.Length != nil {
			if node.length, err = buildTyped(n.Length, b, TypeNumber, "SUBSTRING length"); err != nil {
				return nil, err
			}
		}
		return node, nil

	case *FormatDate:
		date, err := buildTyped(n.Date, b, TypeDate, "FORMAT date")
		if err != nil {
			return nil, err
		}
		pattern, err := buildTyped(n.Pattern, b, TypeString, "FORMAT pattern")
		if err != nil {
			return nil, err
		}
		return &formatEval{date: date, pattern: pattern}, nil

	case *ParseDate:
		text, err := buildTyped(n.Text, b, TypeString, "PARSE text")
		if err != nil {
			return nil, err
		}
		pattern, err := buildTyped(n.Pattern, b, TypeString, "PARSE pattern")
		if err != nil {
			return nil, err
		}
		return &parseEval{text: text, pattern: pattern}, nil

	case *Replace:
		src, err := buildTyped(n.Source, b, TypeString, "REPLACE source")
		if err != nil {
			return nil, err
		}
		old, err := buildTyped(n.Old, b, TypeString, "REPLACE old")
		if err != nil {
			return nil, err
		}
		repl, err := buildTyped(n.New, b, TypeString, "REPLACE new")
		if err != nil {
			return nil, err
		}
		return &replaceEval{src: src, old: old, repl: repl}, nil

	case *Call:
		return buildCall(n, b)

	default:
		return nil, typeErrf(e.pos(), "cannot build %T", e)
	}
}

// buildTyped builds an argument and insists on one type.
func buildTyped(e Expr, b *Bindings, want ValueType, what string) (Evaluator, error) {
	ev, err := Build(e, b)
	if err != nil {
		return nil, err
	}
	if !ev.Type().Same(want) {
		return nil, typeErrf(e.pos(), "%s must be %s, got %s", what, want, ev.Type())
	}
	return ev, nil
}

func buildCall(n *Call, b *Bindings) (Evaluator, error) {
	args := make([]Evaluator, len(n.Args))
	for i, a := range n.Args {
		ev, err := Build(a, b)
		if err != nil {
			return nil, err
		}
		args[i] = ev
	}
	arity := func(want int) error {
		if len(args) != want {
			return typeErrf(n.span, "%s expects %d arguments, got %d", n.Name, want, len(args))
		}
		return nil
	}

	switch n.Name {
	case "NOW":
		if err := arity(0); err != nil {
			return nil, err
		}
		return &nowEval{}, nil

	case "CWD":
		if err := arity(0); err != nil {
			return nil, err
		}
		return &cwdEval{}, nil

	case "UPPER", "LOWER", "TRIM":
		if err := arity(1); err != nil {
			return nil, err
		}
		if args[0].Type().Tag != TagString {
			return nil, typeErrf(n.span, "%s expects STRING, got %s", n.Name, args[0].Type())
		}
		return &strFnEval{fn: n.Name, arg: args[0]}, nil

	case "CONCAT":
		if len(args) == 0 {
			return nil, typeErrf(n.span, "CONCAT expects at least one argument")
		}
		return &concatFnEval{args: args}, nil

	case "COALESCE":
		if len(args) == 0 {
			return nil, typeErrf(n.span, "COALESCE expects at least one argument")
		}
		typ := TypeEmpty
		for _, a := range args {
			t, ok := unifyBranch(typ, a.Type())
			if !ok {
				return nil, typeErrf(n.span, "COALESCE arguments disagree: %s vs %s", typ, a.Type())
			}
			typ = t
		}
		return &coalesceEval{args: args, typ: typ}, nil

	default:
		return nil, typeErrf(n.span, "unknown function %s", n.Name)
	}
}

type nowEval struct{}

func (*nowEval) Eval(*Context) Value { return Date(time.Now()) }
func (*nowEval) Type() ValueType     { return TypeDate }

type cwdEval struct{}

func (*cwdEval) Eval(*Context) Value {
	wd, err := os.Getwd()
	if err != nil {
		return Empty
	}
	return Path(wd)
}
func (*cwdEval) Type() ValueType { return TypePath }

type strFnEval struct {
	fn  string
	arg Evaluator
}

func (e *strFnEval) Eval(ctx *Context) Value {
	v := e.arg.Eval(ctx)
	if v.IsEmpty() {
		return Empty
	}
	s := v.asString()
	switch e.fn {
	case "UPPER":
		return Str(strings.ToUpper(s))
	case "LOWER":
		return Str(strings.ToLower(s))
	default: // TRIM
		return Str(strings.TrimSpace(s))
	}
}
func (e *strFnEval) Type() ValueType { return TypeString }

// concatFnEval joins display forms. Unlike `+`, an Empty argument does not
// poison the whole result, it just contributes nothing.
type concatFnEval struct {
	args []Evaluator
}

func (e *concatFnEval) Eval(ctx *Context) Value {
	var sb strings.Builder
	for _, a := range e.args {
		sb.WriteString(a.Eval(ctx).Display())
	}
	return Str(sb.String())
}
func (e *concatFnEval) Type() ValueType { return TypeString }

type coalesceEval struct {
	args []Evaluator
	typ  ValueType
}

func (e *coalesceEval) Eval(ctx *Context) Value {
	for _, a := range e.args {
		if v := a.Eval(ctx); !v.IsEmpty() {
			return v
		}
	}
	return Empty
}
func (e *coalesceEval) Type() ValueType { return e.typ }

type positionEval struct {
	needle, hay Evaluator
}

func (e *positionEval) Eval(ctx *Context) Value {
	nv := e.needle.Eval(ctx)
	hv := e.hay.Eval(ctx)
	if nv.IsEmpty() || hv.IsEmpty() {
		return Empty
	}
	hay := hv.asString()
	idx := strings.Index(hay, nv.asString())
	if idx < 0 {
		return Number(0)
	}
	return Number(uint64(utf8.RuneCountInString(hay[:idx])) + 1)
}
func (e *positionEval) Type() ValueType { return TypeNumber }

type substringEval struct {
	src, from, length Evaluator
}

func (e *substringEval) Eval(ctx *Context) Value {
	sv := e.src.Eval(ctx)
	fv := e.from.Eval(ctx)
	if sv.IsEmpty() || fv.IsEmpty() {
		return Empty
	}
	var lv Value
	if e.length != nil {
		if lv = e.length.Eval(ctx); lv.IsEmpty() {
			return Empty
		}
	}
	rs := []rune(sv.asString())
	n := int64(len(rs))
	start := clampInt64(fv.asNumber()) - 1
	if start >= n {
		return Str("")
	}
	end := n
	if e.length != nil {
		if l := clampInt64(lv.asNumber()); l < n-start {
			end = start + l
		}
	}
	if start < 0 {
		start = 0
	}
	if end <= start {
		return Str("")
	}
	return Str(string(rs[start:end]))
}
func (e *substringEval) Type() ValueType { return TypeString }

func clampInt64(n uint64) int64 {
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

type formatEval struct {
	date, pattern Evaluator
}

func (e *formatEval) Eval(ctx *Context) Value {
	dv := e.date.Eval(ctx)
	pv := e.pattern.Eval(ctx)
	if dv.IsEmpty() || pv.IsEmpty() {
		return Empty
	}
	if s, ok := formatDate(dv.asDate(), pv.asString()); ok {
		return Str(s)
	}
	return Empty
}
func (e *formatEval) Type() ValueType { return TypeString }

type parseEval struct {
	text, pattern Evaluator
}

func (e *parseEval) Eval(ctx *Context) Value {
	tv := e.text.Eval(ctx)
	pv := e.pattern.Eval(ctx)
	if tv.IsEmpty() || pv.IsEmpty() {
		return Empty
	}
	if t, ok := parseDate(tv.asString(), pv.asString()); ok {
		return Date(t)
	}
	return Empty
}
func (e *parseEval) Type() ValueType { return TypeDate }

type replaceEval struct {
	src, old, repl Evaluator
}

func (e *replaceEval) Eval(ctx *Context) Value {
	sv := e.src.Eval(ctx)
	ov := e.old.Eval(ctx)
	rv := e.repl.Eval(ctx)
	if sv.IsEmpty() || ov.IsEmpty() || rv.IsEmpty() {
		return Empty
	}
	old := ov.asString()
	if old == "" {
		return sv
	}
	return Str(strings.ReplaceAll(sv.asString(), old, rv.asString()))
}
func (e *replaceEval) Type() ValueType { return TypeString }
