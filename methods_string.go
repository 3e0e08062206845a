// methods_string.go — the string method set. Positions and counts are in
// runes, not bytes.
package findit

import (
	"strings"
	"unicode/utf8"
)

func buildStringMethod(n *MethodCall, target Evaluator, b *Bindings) (Evaluator, error) {
	switch n.Name {
	case "LENGTH", "LINES", "WORDS", "REVERSE":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &strMethodEval{name: n.Name, target: target}, nil

	case "CONTAINS", "INDEXOF":
		arg, err := oneArg(n, b, TypeString)
		if err != nil {
			return nil, err
		}
		return &strProbeEval{name: n.Name, target: target, arg: arg}, nil

	case "TAKE", "SKIP":
		count, err := oneArg(n, b, TypeNumber)
		if err != nil {
			return nil, err
		}
		return &strSliceEval{take: n.Name == "TAKE", target: target, count: count}, nil

	default:
		return nil, typeErrf(n.span, "STRING has no method .%s", methodName(n.Name))
	}
}

type strMethodEval struct {
	name   string
	target Evaluator
}

func (e *strMethodEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	s := tv.asString()
	switch e.name {
	case "LENGTH":
		return Number(uint64(utf8.RuneCountInString(s)))
	case "LINES":
		return List(NewLazyList(lineIter(s)))
	case "WORDS":
		fields := strings.Fields(s)
		words := make([]Value, len(fields))
		for i, f := range fields {
			words[i] = Str(f)
		}
		return List(FromSlice(words))
	default: // REVERSE
		rs := []rune(s)
		for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
			rs[i], rs[j] = rs[j], rs[i]
		}
		return Str(string(rs))
	}
}

func (e *strMethodEval) Type() ValueType {
	switch e.name {
	case "LENGTH":
		return TypeNumber
	case "LINES", "WORDS":
		return ListOf(TypeString)
	default:
		return TypeString
	}
}

// lineIter yields the lines of s lazily. Lines end at '\n' with an optional
// '\r' stripped; the final newline does not open an extra empty line, so ""
// has no lines and "a\n" has one.
func lineIter(s string) iterator {
	pos := 0
	return func() (Value, bool) {
		if pos >= len(s) {
			return Empty, false
		}
		line := s[pos:]
		if nl := strings.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
			pos += nl + 1
		} else {
			pos = len(s)
		}
		return Str(strings.TrimSuffix(line, "\r")), true
	}
}

type strProbeEval struct {
	name        string
	target, arg Evaluator
}

func (e *strProbeEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	av := e.arg.Eval(ctx)
	if tv.IsEmpty() || av.IsEmpty() {
		return Empty
	}
	s, probe := tv.asString(), av.asString()
	if e.name == "CONTAINS" {
		return Bool(strings.Contains(s, probe))
	}
	idx := strings.Index(s, probe)
	if idx < 0 {
		return Empty
	}
	return Number(uint64(utf8.RuneCountInString(s[:idx])))
}

func (e *strProbeEval) Type() ValueType {
	if e.name == "CONTAINS" {
		return TypeBool
	}
	return TypeNumber
}

type strSliceEval struct {
	take          bool
	target, count Evaluator
}

func (e *strSliceEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	cv := e.count.Eval(ctx)
	if tv.IsEmpty() || cv.IsEmpty() {
		return Empty
	}
	rs := []rune(tv.asString())
	n := cv.asNumber()
	if n > uint64(len(rs)) {
		n = uint64(len(rs))
	}
	if e.take {
		return Str(string(rs[:n]))
	}
	return Str(string(rs[n:]))
}
func (e *strSliceEval) Type() ValueType { return TypeString }
