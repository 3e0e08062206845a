// query.go — the query model: flag text in, ordered rows out.
//
// A Query holds expression sources the way the CLI collected them.
// CompileQuery builds each one exactly once against an empty binding
// environment, so every lex, parse and type fault is reported before a
// single file is touched, wrapped with a caret snippet naming the flag it
// came from. The compiled form then streams rows through a Walker.
package findit

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"
)

// NullOrder places Empty cells during ordering. No query syntax sets it;
// it is a knob for embedders and defaults to Empty-first, matching the
// value order.
type NullOrder int

const (
	NullsFirst NullOrder = iota
	NullsLast
)

// SelectItem is one output column: expression source plus header label.
type SelectItem struct {
	Label  string
	Source string
}

// SortItem is one ordering key.
type SortItem struct {
	Source     string
	Descending bool
	Nulls      NullOrder
}

// Query is a fully-specified search, before compilation.
type Query struct {
	Roots       []string
	Where       string // empty keeps everything
	Select      []SelectItem
	OrderBy     []SortItem
	Limit       int // 0 = unlimited
	MaxDepth    int // negative = unlimited
	FollowLinks bool
	NoIgnore    bool
}

// Row is one result: the path that produced it and its selected cells.
type Row struct {
	Path  string
	Depth int
	Cells []Value

	keys []Value
}

// CompiledQuery is a Query with every expression built. FS, Proc and Debug
// default to the real services and may be replaced before Run.
type CompiledQuery struct {
	q       Query
	where   Evaluator
	selects []Evaluator
	order   []Evaluator

	FS    FileSystem
	Proc  Runner
	Debug io.Writer
}

// CompileQuery builds every expression in q. An empty select list defaults
// to the path itself; an empty root list means the current directory.
func CompileQuery(q Query) (*CompiledQuery, error) {
	if len(q.Select) == 0 {
		q.Select = []SelectItem{{Label: "path", Source: "PATH"}}
	}
	if len(q.Roots) == 0 {
		q.Roots = []string{"."}
	}
	cq := &CompiledQuery{q: q, FS: osFS{}, Proc: osRunner{}}

	if q.Where != "" {
		ev, err := BuildSource(q.Where, nil)
		if err != nil {
			return nil, WrapErrorWithName(err, "--where", q.Where)
		}
		if ev.Type().Tag != TagBool {
			terr := &TypeError{Line: 1, Msg: fmt.Sprintf("the filter must be BOOL, got %s", ev.Type())}
			return nil, WrapErrorWithName(terr, "--where", q.Where)
		}
		cq.where = ev
	}
	for _, s := range q.Select {
		ev, err := BuildSource(s.Source, nil)
		if err != nil {
			return nil, WrapErrorWithName(err, "--select", s.Source)
		}
		cq.selects = append(cq.selects, ev)
	}
	for _, s := range q.OrderBy {
		ev, err := BuildSource(s.Source, nil)
		if err != nil {
			return nil, WrapErrorWithName(err, "--order-by", s.Source)
		}
		cq.order = append(cq.order, ev)
	}
	return cq, nil
}

// Headers are the output column labels, in select order.
func (cq *CompiledQuery) Headers() []string {
	hs := make([]string, len(cq.q.Select))
	for i, s := range cq.q.Select {
		hs[i] = s.Label
	}
	return hs
}

func (cq *CompiledQuery) newContext(path string, depth int) *Context {
	ctx := NewContext(path, depth)
	ctx.FS = cq.FS
	ctx.Proc = cq.Proc
	ctx.Debug = cq.Debug
	return ctx
}

// Run walks the roots and hands each surviving row to emit. With ordering
// the rows are collected, sorted and truncated first; without it they
// stream straight through and the walk stops at the limit.
func (cq *CompiledQuery) Run(emit func(Row) error) error {
	var rows []Row
	ordered := len(cq.order) > 0
	emitted := 0

	w := &Walker{
		FS:          cq.FS,
		MaxDepth:    cq.q.MaxDepth,
		FollowLinks: cq.q.FollowLinks,
		NoIgnore:    cq.q.NoIgnore,
	}
	visit := func(path string, depth int) error {
		ctx := cq.newContext(path, depth)
		if cq.where != nil {
			keep := cq.where.Eval(ctx)
			if keep.Tag != TagBool || !keep.asBool() {
				return nil
			}
		}
		row := Row{Path: path, Depth: depth, Cells: make([]Value, len(cq.selects))}
		for i, sel := range cq.selects {
			row.Cells[i] = sel.Eval(ctx)
		}
		if ordered {
			row.keys = make([]Value, len(cq.order))
			for i, o := range cq.order {
				row.keys[i] = o.Eval(ctx)
			}
			rows = append(rows, row)
			return nil
		}
		if err := emit(row); err != nil {
			return err
		}
		emitted++
		if cq.q.Limit > 0 && emitted >= cq.q.Limit {
			return ErrStopWalk
		}
		return nil
	}

	for _, root := range cq.q.Roots {
		err := w.Walk(root, visit)
		if errors.Is(err, ErrStopWalk) {
			break
		}
		if err != nil {
			return err
		}
	}

	if !ordered {
		return nil
	}
	slices.SortStableFunc(rows, cq.compareRows)
	if cq.q.Limit > 0 && len(rows) > cq.q.Limit {
		rows = rows[:cq.q.Limit]
	}
	for _, row := range rows {
		if err := emit(row); err != nil {
			return err
		}
	}
	return nil
}

// compareRows orders two rows by the sort keys. The null knob places Empty
// absolutely; Descending reverses only the value order.
func (cq *CompiledQuery) compareRows(a, b Row) int {
	for i, s := range cq.q.OrderBy {
		ka, kb := a.keys[i], b.keys[i]
		if ka.IsEmpty() || kb.IsEmpty() {
			if ka.IsEmpty() && kb.IsEmpty() {
				continue
			}
			c := 1
			if ka.IsEmpty() {
				c = -1
			}
			if s.Nulls == NullsLast {
				c = -c
			}
			return c
		}
		c := Compare(ka, kb)
		if c == 0 {
			continue
		}
		if s.Descending {
			c = -c
		}
		return c
	}
	return 0
}

// ParseSelectList splits a comma-separated select specification. Commas
// nested in brackets or strings do not split; each item labels its own
// column with its source text.
func ParseSelectList(s string) []SelectItem {
	var items []SelectItem
	for _, part := range splitTopLevel(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, SelectItem{Label: part, Source: part})
	}
	return items
}

// ParseOrderByList splits an order-by specification. Each key may carry a
// :desc or :asc suffix.
func ParseOrderByList(s string) []SortItem {
	var items []SortItem
	for _, part := range splitTopLevel(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		item := SortItem{Source: part}
		lower := strings.ToLower(part)
		switch {
		case strings.HasSuffix(lower, ":desc"):
			item.Descending = true
			item.Source = strings.TrimSpace(part[:len(part)-len(":desc")])
		case strings.HasSuffix(lower, ":asc"):
			item.Source = strings.TrimSpace(part[:len(part)-len(":asc")])
		}
		items = append(items, item)
	}
	return items
}

// splitTopLevel cuts s at commas outside (), [], {} and quoted strings.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	inStr := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch c {
			case '\\':
				i++
			case '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
