// methods_path.go — the path method set.
//
// A path's length is the size of the file it names, and lines/words read it
// under the same bounded text policy as the CONTENT property: a missing,
// unreadable or binary file is an absent value, not an empty one. walk
// streams every descendant lazily, nearest first, without following
// symlinked directories.
package findit

import (
	"path/filepath"
	"strings"
)

func buildPathMethod(n *MethodCall, target Evaluator, b *Bindings) (Evaluator, error) {
	switch n.Name {
	case "LENGTH", "LINES", "WORDS":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &pathMethodEval{name: n.Name, target: target}, nil

	case "WALK":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &walkEval{target: target}, nil

	default:
		return nil, typeErrf(n.span, "PATH has no method .%s", methodName(n.Name))
	}
}

type pathMethodEval struct {
	name   string
	target Evaluator
}

func (e *pathMethodEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	p := tv.asPath()
	if e.name == "LENGTH" {
		m, err := ctx.FS.Target(p)
		if err != nil {
			return Empty
		}
		return Number(m.Size)
	}
	text, ok := ctx.FS.Content(p)
	if !ok {
		return Empty
	}
	if e.name == "LINES" {
		return List(NewLazyList(lineIter(text)))
	}
	fields := strings.Fields(text)
	words := make([]Value, len(fields))
	for i, f := range fields {
		words[i] = Str(f)
	}
	return List(FromSlice(words))
}

func (e *pathMethodEval) Type() ValueType {
	if e.name == "LENGTH" {
		return TypeNumber
	}
	return ListOf(TypeString)
}

type walkEval struct {
	target Evaluator
}

// Eval lists descendants breadth-first: the directory's own entries come
// before anything nested below them. Unreadable subdirectories contribute
// nothing; an unreadable root is Empty.
func (e *walkEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	root := tv.asPath()
	names, err := ctx.FS.List(root)
	if err != nil {
		return Empty
	}
	queue := make([]string, 0, len(names))
	for _, name := range names {
		queue = append(queue, filepath.Join(root, name))
	}
	return List(NewLazyList(func() (Value, bool) {
		if len(queue) == 0 {
			return Empty, false
		}
		p := queue[0]
		queue = queue[1:]
		if m, err := ctx.FS.Meta(p); err == nil && m.IsDir() {
			if children, err := ctx.FS.List(p); err == nil {
				for _, name := range children {
					queue = append(queue, filepath.Join(p, name))
				}
			}
		}
		return Path(p), true
	}))
}
func (e *walkEval) Type() ValueType { return ListOf(TypePath) }
