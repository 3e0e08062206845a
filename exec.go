// exec.go — the EXECUTE / OUTPUT / SPAWN evaluators.
package findit

type execEval struct {
	mode ExecMode
	prog Evaluator
	args []Evaluator
	into Evaluator
}

func buildExec(n *Exec, b *Bindings) (Evaluator, error) {
	prog, err := Build(n.Prog, b)
	if err != nil {
		return nil, err
	}
	if t := prog.Type().Tag; t != TagString && t != TagPath {
		return nil, typeErrf(n.span, "%s expects a STRING or PATH program, got %s", execName(n.Mode), prog.Type())
	}
	node := &execEval{mode: n.Mode, prog: prog}
	for _, a := range n.Args {
		ev, err := Build(a, b)
		if err != nil {
			return nil, err
		}
		if ev.Type().Tag != TagString {
			return nil, typeErrf(a.pos(), "%s arguments must be STRING, got %s", execName(n.Mode), ev.Type())
		}
		node.args = append(node.args, ev)
	}
	if n.Into != nil {
		into, err := Build(n.Into, b)
		if err != nil {
			return nil, err
		}
		if t := into.Type().Tag; t != TagString && t != TagPath {
			return nil, typeErrf(n.Into.pos(), "INTO expects a STRING or PATH target, got %s", into.Type())
		}
		node.into = into
	}
	return node, nil
}

func execName(m ExecMode) string {
	switch m {
	case ExecOutput:
		return "OUTPUT"
	case ExecSpawn:
		return "SPAWN"
	default:
		return "EXECUTE"
	}
}

func (e *execEval) Eval(ctx *Context) Value {
	pv := e.prog.Eval(ctx)
	if pv.IsEmpty() {
		return Empty
	}
	prog := pv.Display()
	var args []string
	for _, a := range e.args {
		av := a.Eval(ctx)
		if av.IsEmpty() {
			return Empty
		}
		args = append(args, av.asString())
	}
	redirect := ""
	if e.into != nil {
		iv := e.into.Eval(ctx)
		if iv.IsEmpty() {
			return Empty
		}
		redirect = iv.Display()
	}

	switch e.mode {
	case ExecOutput:
		out, err := ctx.Proc.Output(prog, args)
		if err != nil {
			return Empty
		}
		return Str(out)
	case ExecSpawn:
		pid, err := ctx.Proc.Start(prog, args, redirect)
		if err != nil {
			return Empty
		}
		return Number(uint64(pid))
	default:
		ok, err := ctx.Proc.Run(prog, args, redirect)
		if err != nil {
			return Empty
		}
		return Bool(ok)
	}
}

func (e *execEval) Type() ValueType {
	switch e.mode {
	case ExecOutput:
		return TypeString
	case ExecSpawn:
		return TypeNumber
	default:
		return TypeBool
	}
}
