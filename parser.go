// parser.go — precedence-climbing parser.
//
// OVERVIEW
// --------
// parseExpr(min) parses one primary term, then loops consuming infix and
// postfix operators whose priority exceeds min, recursing with the consumed
// operator's own priority as the new floor. That one loop gives left
// associativity and the whole precedence ladder without a grammar table:
//
//	OF                                  5
//	BETWEEN, OR                        10
//	XOR                                15
//	AND                                20
//	= == != <> < <= > >=, MATCHES,
//	postfix IS, postfix AS             40
//	+ - & | ^                          50
//	* / %                              80
//	.method(...), ::field             110
//
// Primary terms are literals, `(expr)`, NOT, the `/term` self-divide prefix,
// properties, bindings, list and record literals, and the keyword forms
// (IF, CASE, WITH, POSITION, SUBSTRING, function calls, EXECUTE/OUTPUT/
// SPAWN). Each compound form consumes its own closing keyword or bracket.
//
// Both BETWEEN bounds are parsed at floor 20 so that any AND after the
// upper bound stays a logical AND on the whole BETWEEN, the way SQL
// groups it.
//
// Lambda arguments `$param body` are only accepted where the method table
// declares a lambda-taking method (map, filter, flatMap, sortBy, distinctBy,
// groupBy, any, debug); the body runs to the closing ')'.
//
// The parser enforces shape only. All typing happens in builder.go.
package findit

import (
	"fmt"
	"time"
)

// ParseSource lexes and parses one expression. The returned tree is immutable.
func ParseSource(src string) (Expr, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errHere(fmt.Sprintf("unexpected token %q", p.peek().Lexeme))
	}
	return e, nil
}

// lambdaMethods are the methods whose single argument is a lambda.
var lambdaMethods = map[string]bool{
	"MAP":        true,
	"FILTER":     true,
	"FLATMAP":    true,
	"SORTBY":     true,
	"DISTINCTBY": true,
	"GROUPBY":    true,
	"ANY":        true,
	"DEBUG":      true,
}

// priority returns an operator's binding priority, or 0 for any token that
// does not continue an expression.
func priority(tt TokenType) int {
	switch tt {
	case OF:
		return 5
	case BETWEEN, OR:
		return 10
	case XOR:
		return 15
	case AND:
		return 20
	case EQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ, MATCHES, IS, AS:
		return 40
	case PLUS, MINUS, AMP, PIPE, CARET:
		return 50
	case STAR, SLASH, PERCENT:
		return 80
	case DOT, FIELDGET:
		return 110
	default:
		return 0
	}
}

type parser struct {
	toks []Token
	i    int
}

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(t TokenType, msg string) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	return Token{}, p.errHere(msg)
}

func (p *parser) errHere(msg string) error {
	g := p.peek()
	if g.Type == EOF {
		return &ParseError{Line: g.Line, Col: g.Col, Msg: msg + " (unexpected end of expression)"}
	}
	return &ParseError{Line: g.Line, Col: g.Col, Msg: msg}
}

func at(t Token) span { return span{Line: t.Line, Col: t.Col} }

// ─────────────────────────── expression climbing ────────────────────────────

func (p *parser) parseExpr(min int) (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		prio := priority(t.Type)
		if prio == 0 || prio <= min {
			return left, nil
		}
		p.i++
		left, err = p.parseInfix(left, t)
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseInfix(left Expr, t Token) (Expr, error) {
	switch t.Type {
	case BETWEEN:
		lo, err := p.parseExpr(20)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(AND, "AND expected after the BETWEEN lower bound"); err != nil {
			return nil, err
		}
		hi, err := p.parseExpr(20)
		if err != nil {
			return nil, err
		}
		return &Between{span: at(t), Target: left, Lo: lo, Hi: hi}, nil

	case IS:
		negated := p.match(NOT)
		g := p.peek()
		switch g.Type {
		case EMPTY, DIR, DIRECTORY, FILE, LINK, SYMLINK, HIDDEN, ABSOLUTE, RELATIVE, EXISTS:
			p.i++
			return &Is{span: at(t), Target: left, Check: g.Type, Negated: negated}, nil
		default:
			return nil, p.errHere("state keyword expected after IS")
		}

	case AS:
		g := p.peek()
		var target ValueTag
		switch {
		case g.Type == BOOL:
			target = TagBool
		case g.Type == NUMBER:
			target = TagNumber
		case g.Type == STRING:
			target = TagString
		case g.Type == DATE:
			target = TagDate
		case g.Type == PROPERTY && g.Literal == "PATH":
			target = TagPath
		default:
			return nil, p.errHere("type name expected after AS")
		}
		p.i++
		return &Cast{span: at(t), Operand: left, Target: target}, nil

	case DOT:
		return p.parseMethod(left, t)

	case FIELDGET:
		return &FieldAccess{span: at(t), Target: left, Name: t.Literal.(string)}, nil

	default:
		right, err := p.parseExpr(priority(t.Type))
		if err != nil {
			return nil, err
		}
		return &Binary{span: at(t), Op: t.Type, Left: left, Right: right}, nil
	}
}

func (p *parser) parseMethod(target Expr, dot Token) (Expr, error) {
	name, err := p.need(METHOD, "method name expected after '.'")
	if err != nil {
		return nil, err
	}
	method := name.Literal.(string)
	if _, err := p.need(LPAREN, "'(' expected after method name"); err != nil {
		return nil, err
	}
	call := &MethodCall{span: at(dot), Target: target, Name: method}
	if p.match(RPAREN) {
		return call, nil
	}
	if lambdaMethods[method] {
		param, err := p.need(BINDING, "lambda parameter expected, e.g. .filter($x ...)")
		if err != nil {
			return nil, err
		}
		body, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		call.Lambda = &Lambda{Param: param.Literal.(string), Body: body}
	} else {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		call.Arg = arg
	}
	if _, err := p.need(RPAREN, "')' expected to close the method call"); err != nil {
		return nil, err
	}
	return call, nil
}

// ─────────────────────────────── primary terms ──────────────────────────────

func (p *parser) parseTerm() (Expr, error) {
	t := p.peek()
	switch t.Type {
	case INTEGER:
		p.i++
		return &Literal{span: at(t), Val: Number(t.Literal.(uint64))}, nil
	case STRLIT:
		p.i++
		return &Literal{span: at(t), Val: Str(t.Literal.(string))}, nil
	case PATHLIT:
		p.i++
		return &Literal{span: at(t), Val: Path(t.Literal.(string))}, nil
	case DATELIT:
		p.i++
		return &Literal{span: at(t), Val: Date(t.Literal.(time.Time))}, nil
	case TRUE:
		p.i++
		return &Literal{span: at(t), Val: Bool(true)}, nil
	case FALSE:
		p.i++
		return &Literal{span: at(t), Val: Bool(false)}, nil
	case EMPTY:
		p.i++
		return &Literal{span: at(t), Val: Empty}, nil

	case LPAREN:
		p.i++
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, "')' expected"); err != nil {
			return nil, err
		}
		return &Brackets{span: at(t), Inner: inner}, nil

	case NOT:
		p.i++
		operand, err := p.parseExpr(20)
		if err != nil {
			return nil, err
		}
		return &Not{span: at(t), Operand: operand}, nil

	case SLASH:
		p.i++
		operand, err := p.parseExpr(80)
		if err != nil {
			return nil, err
		}
		return &SelfDiv{span: at(t), Operand: operand}, nil

	case PROPERTY:
		p.i++
		return &Property{span: at(t), Name: t.Literal.(string)}, nil

	case BINDING:
		p.i++
		return &BindingRef{span: at(t), Name: t.Literal.(string)}, nil

	case LBRACKET, LISTOPEN:
		p.i++
		return p.parseListLit(t)

	case LBRACE:
		p.i++
		return p.parseRecordLit(t)

	case IF:
		p.i++
		return p.parseIf(t)

	case CASE:
		p.i++
		return p.parseCase(t)

	case WITH:
		p.i++
		return p.parseWith(t)

	case FNNAME:
		p.i++
		return p.parseFunction(t)

	case EOF:
		return nil, p.errHere("expression expected")

	default:
		return nil, p.errHere(fmt.Sprintf("unexpected token %q", t.Lexeme))
	}
}

func (p *parser) parseListLit(open Token) (Expr, error) {
	lst := &ListLit{span: at(open)}
	if p.match(RBRACKET) {
		return lst, nil
	}
	for {
		item, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		lst.Items = append(lst.Items, item)
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RBRACKET, "']' expected to close the list"); err != nil {
		return nil, err
	}
	return lst, nil
}

func (p *parser) parseRecordLit(open Token) (Expr, error) {
	rec := &RecordLit{span: at(open)}
	for {
		f, err := p.need(FIELDDEF, "field definition expected, e.g. {:name value}")
		if err != nil {
			return nil, err
		}
		val, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, RecordField{Name: f.Literal.(string), Val: val})
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RBRACE, "'}' expected to close the record"); err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *parser) parseIf(kw Token) (Expr, error) {
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(THEN, "THEN expected after the IF condition"); err != nil {
		return nil, err
	}
	then, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	node := &If{span: at(kw), Cond: cond, Then: then}
	if p.match(ELSE) {
		if node.Else, err = p.parseExpr(0); err != nil {
			return nil, err
		}
	}
	if _, err := p.need(END, "END expected to close IF"); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parser) parseCase(kw Token) (Expr, error) {
	node := &Case{span: at(kw)}
	if _, err := p.need(WHEN, "WHEN expected after CASE"); err != nil {
		return nil, err
	}
	for {
		cond, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(THEN, "THEN expected after the WHEN condition"); err != nil {
			return nil, err
		}
		result, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		node.Whens = append(node.Whens, When{Cond: cond, Result: result})
		if !p.match(WHEN) {
			break
		}
	}
	var err error
	if p.match(ELSE) {
		if node.Else, err = p.parseExpr(0); err != nil {
			return nil, err
		}
	}
	if _, err := p.need(END, "END expected to close CASE"); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parser) parseWith(kw Token) (Expr, error) {
	node := &With{span: at(kw)}
	for {
		name, err := p.need(BINDING, "binding name expected after WITH, e.g. WITH $x AS ...")
		if err != nil {
			return nil, err
		}
		if _, err := p.need(AS, "AS expected after the binding name"); err != nil {
			return nil, err
		}
		init, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		node.Bindings = append(node.Bindings, WithBinding{Name: name.Literal.(string), Init: init})
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(DO, "DO expected after the WITH bindings"); err != nil {
		return nil, err
	}
	action, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	node.Action = action
	if _, err := p.need(END, "END expected to close WITH"); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parser) parseFunction(name Token) (Expr, error) {
	fn := name.Literal.(string)
	if _, err := p.need(LPAREN, "'(' expected after "+fn); err != nil {
		return nil, err
	}
	switch fn {
	case "POSITION":
		needle, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(IN, "IN expected inside POSITION(needle IN text)"); err != nil {
			return nil, err
		}
		hay, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, "')' expected to close POSITION"); err != nil {
			return nil, err
		}
		return &Position{span: at(name), Needle: needle, Hay: hay}, nil

	case "SUBSTRING":
		src, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(FROM, "FROM expected inside SUBSTRING(text FROM start)"); err != nil {
			return nil, err
		}
		from, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		node := &Substring{span: at(name), Source: src, From: from}
		if p.match(FOR) {
			if node.Length, err = p.parseExpr(0); err != nil {
				return nil, err
			}
		}
		if _, err := p.need(RPAREN, "')' expected to close SUBSTRING"); err != nil {
			return nil, err
		}
		return node, nil

	case "FORMAT":
		args, err := p.parseArgs(2, fn)
		if err != nil {
			return nil, err
		}
		return &FormatDate{span: at(name), Date: args[0], Pattern: args[1]}, nil

	case "PARSE":
		args, err := p.parseArgs(2, fn)
		if err != nil {
			return nil, err
		}
		return &ParseDate{span: at(name), Text: args[0], Pattern: args[1]}, nil

	case "REPLACE":
		args, err := p.parseArgs(3, fn)
		if err != nil {
			return nil, err
		}
		return &Replace{span: at(name), Source: args[0], Old: args[1], New: args[2]}, nil

	case "EXECUTE", "OUTPUT", "SPAWN":
		return p.parseExec(name, fn)

	default:
		args, err := p.parseArgs(-1, fn)
		if err != nil {
			return nil, err
		}
		return &Call{span: at(name), Name: fn, Args: args}, nil
	}
}

// parseArgs reads a comma-separated argument list up to ')'. want < 0 accepts
// any count; otherwise the exact count is enforced here since it is part of
// the call's shape.
func (p *parser) parseArgs(want int, fn string) ([]Expr, error) {
	var args []Expr
	if !p.match(RPAREN) {
		for {
			a, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if !p.match(COMMA) {
				break
			}
		}
		if _, err := p.need(RPAREN, "')' expected to close the "+fn+" call"); err != nil {
			return nil, err
		}
	}
	if want >= 0 && len(args) != want {
		return nil, p.errHere(fmt.Sprintf("%s expects %d arguments, got %d", fn, want, len(args)))
	}
	return args, nil
}

func (p *parser) parseExec(name Token, fn string) (Expr, error) {
	node := &Exec{span: at(name)}
	switch fn {
	case "EXECUTE":
		node.Mode = ExecRun
	case "OUTPUT":
		node.Mode = ExecOutput
	case "SPAWN":
		node.Mode = ExecSpawn
	}
	prog, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	node.Prog = prog
	for p.match(COMMA) {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, arg)
	}
	if _, err := p.need(RPAREN, "')' expected to close the "+fn+" call"); err != nil {
		return nil, err
	}
	if node.Mode != ExecOutput && p.match(INTO) {
		if node.Into, err = p.parseExpr(40); err != nil {
			return nil, err
		}
	}
	return node, nil
}
