// methods_list.go — the list method set.
//
// Transforming methods (map, filter, flatMap, take, skip, debug, enumerate,
// distinct, distinctBy, concatenation) stay lazy: they wrap a cursor over
// the target and do per-item work on pull. Methods that cannot answer
// without seeing every element (sort, sortBy, groupBy, reverse, last, the
// aggregations) force the target. A lambda result of the wrong shape at run
// time cannot happen; the body was typed at build.
package findit

import (
	"strings"

	"golang.org/x/exp/slices"
)

func buildListMethod(n *MethodCall, target Evaluator, b *Bindings) (Evaluator, error) {
	itemT := target.Type().ItemType()

	switch n.Name {
	case "MAP":
		body, err := buildLambda(n, itemT, b)
		if err != nil {
			return nil, err
		}
		return &mapEval{target: target, body: body, typ: ListOf(body.Type())}, nil

	case "FILTER":
		body, err := buildLambda(n, itemT, b)
		if err != nil {
			return nil, err
		}
		if body.Type().Tag != TagBool {
			return nil, typeErrf(n.span, ".filter() needs a BOOL lambda, got %s", body.Type())
		}
		return &filterEval{target: target, body: body, typ: target.Type()}, nil

	case "FLATMAP":
		body, err := buildLambda(n, itemT, b)
		if err != nil {
			return nil, err
		}
		if body.Type().Tag != TagList {
			return nil, typeErrf(n.span, ".flatMap() needs a list-valued lambda, got %s", body.Type())
		}
		return &flatMapEval{target: target, body: body, typ: body.Type()}, nil

	case "SORTBY":
		body, err := buildLambda(n, itemT, b)
		if err != nil {
			return nil, err
		}
		return &sortByEval{target: target, body: body, typ: target.Type()}, nil

	case "DISTINCTBY":
		body, err := buildLambda(n, itemT, b)
		if err != nil {
			return nil, err
		}
		return &distinctByEval{target: target, body: body, typ: target.Type()}, nil

	case "GROUPBY":
		body, err := buildLambda(n, itemT, b)
		if err != nil {
			return nil, err
		}
		class := NewClassType([]ClassField{
			{Name: "key", Type: body.Type()},
			{Name: "items", Type: ListOf(itemT)},
		})
		return &groupByEval{target: target, body: body, class: class}, nil

	case "ANY":
		body, err := buildLambda(n, itemT, b)
		if err != nil {
			return nil, err
		}
		if body.Type().Tag != TagBool {
			return nil, typeErrf(n.span, ".any() needs a BOOL lambda, got %s", body.Type())
		}
		return &anyEval{target: target, body: body}, nil

	case "DEBUG":
		body, err := buildLambda(n, itemT, b)
		if err != nil {
			return nil, err
		}
		return &debugEval{target: target, body: body, typ: target.Type()}, nil

	case "SUM":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &sumEval{target: target}, nil

	case "AVG":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &avgEval{target: target}, nil

	case "MIN", "MAX":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &extremumEval{target: target, max: n.Name == "MAX", typ: itemT}, nil

	case "FIRST":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &firstEval{target: target, typ: itemT}, nil

	case "LAST":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &lastEval{target: target, typ: itemT}, nil

	case "TAKE", "SKIP":
		count, err := oneArg(n, b, TypeNumber)
		if err != nil {
			return nil, err
		}
		if n.Name == "TAKE" {
			return &takeEval{target: target, count: count, typ: target.Type()}, nil
		}
		return &skipEval{target: target, count: count, typ: target.Type()}, nil

	case "JOIN":
		sep, err := oneArg(n, b, TypeString)
		if err != nil {
			return nil, err
		}
		return &joinEval{target: target, sep: sep}, nil

	case "CONTAINS", "INDEXOF":
		arg, err := buildItemArg(n, b, itemT)
		if err != nil {
			return nil, err
		}
		if n.Name == "CONTAINS" {
			return &listContainsEval{target: target, arg: arg}, nil
		}
		return &listIndexOfEval{target: target, arg: arg}, nil

	case "REVERSE":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &reverseEval{target: target, typ: target.Type()}, nil

	case "ENUMERATE":
		if err := noArg(n); err != nil {
			return nil, err
		}
		class := NewClassType([]ClassField{
			{Name: "index", Type: TypeNumber},
			{Name: "item", Type: itemT},
		})
		return &enumerateEval{target: target, class: class}, nil

	case "DISTINCT":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &distinctEval{target: target, typ: target.Type()}, nil

	case "SORT":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &sortEval{target: target, typ: target.Type()}, nil

	case "LENGTH":
		if err := noArg(n); err != nil {
			return nil, err
		}
		return &listLenEval{target: target}, nil

	default:
		return nil, typeErrf(n.span, "%s has no method .%s", target.Type(), methodName(n.Name))
	}
}

// buildItemArg types a contains/indexOf argument against the item type. An
// empty list literal has item type EMPTY and accepts any probe.
func buildItemArg(n *MethodCall, b *Bindings, itemT ValueType) (Evaluator, error) {
	if n.Arg == nil {
		return nil, typeErrf(n.span, ".%s() expects an argument", methodName(n.Name))
	}
	ev, err := Build(n.Arg, b)
	if err != nil {
		return nil, err
	}
	if _, ok := unifyBranch(itemT, ev.Type()); !ok {
		return nil, typeErrf(n.Arg.pos(), ".%s() expects %s, got %s", methodName(n.Name), itemT, ev.Type())
	}
	return ev, nil
}

// ───────────────────────────── lazy transforms ──────────────────────────────

type mapEval struct {
	target, body Evaluator
	typ          ValueType
}

func (e *mapEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	return List(NewLazyList(func() (Value, bool) {
		v, ok := cur()
		if !ok {
			return Empty, false
		}
		return e.body.Eval(ctx.withBinding(v)), true
	}))
}
func (e *mapEval) Type() ValueType { return e.typ }

type filterEval struct {
	target, body Evaluator
	typ          ValueType
}

// Eval keeps items whose predicate is true; false and Empty both drop.
func (e *filterEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	return List(NewLazyList(func() (Value, bool) {
		for {
			v, ok := cur()
			if !ok {
				return Empty, false
			}
			keep := e.body.Eval(ctx.withBinding(v))
			if keep.Tag == TagBool && keep.asBool() {
				return v, true
			}
		}
	}))
}
func (e *filterEval) Type() ValueType { return e.typ }

type flatMapEval struct {
	target, body Evaluator
	typ          ValueType
}

// Eval flattens one level. A lambda answering Empty contributes no items.
func (e *flatMapEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	var inner iterator
	return List(NewLazyList(func() (Value, bool) {
		for {
			if inner != nil {
				if v, ok := inner(); ok {
					return v, true
				}
				inner = nil
			}
			v, ok := cur()
			if !ok {
				return Empty, false
			}
			if bv := e.body.Eval(ctx.withBinding(v)); bv.Tag == TagList {
				inner = bv.asList().Cursor()
			}
		}
	}))
}
func (e *flatMapEval) Type() ValueType { return e.typ }

type takeEval struct {
	target, count Evaluator
	typ           ValueType
}

func (e *takeEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	cv := e.count.Eval(ctx)
	if tv.IsEmpty() || cv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	left := cv.asNumber()
	return List(NewLazyList(func() (Value, bool) {
		if left == 0 {
			return Empty, false
		}
		left--
		return cur()
	}))
}
func (e *takeEval) Type() ValueType { return e.typ }

type skipEval struct {
	target, count Evaluator
	typ           ValueType
}

func (e *skipEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	cv := e.count.Eval(ctx)
	if tv.IsEmpty() || cv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	n := cv.asNumber()
	skipped := false
	return List(NewLazyList(func() (Value, bool) {
		if !skipped {
			skipped = true
			for i := uint64(0); i < n; i++ {
				if _, ok := cur(); !ok {
					return Empty, false
				}
			}
		}
		return cur()
	}))
}
func (e *skipEval) Type() ValueType { return e.typ }

type debugEval struct {
	target, body Evaluator
	typ          ValueType
}

// Eval passes items through unchanged, writing the lambda's view of each to
// the debug sink as it streams past.
func (e *debugEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	return List(NewLazyList(func() (Value, bool) {
		v, ok := cur()
		if !ok {
			return Empty, false
		}
		ctx.debugln(e.body.Eval(ctx.withBinding(v)).Display())
		return v, true
	}))
}
func (e *debugEval) Type() ValueType { return e.typ }

type enumerateEval struct {
	target Evaluator
	class  *ClassType
}

func (e *enumerateEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	i := uint64(0)
	return List(NewLazyList(func() (Value, bool) {
		v, ok := cur()
		if !ok {
			return Empty, false
		}
		rec := Record(NewInstance(e.class, []Value{Number(i), v}))
		i++
		return rec, true
	}))
}
func (e *enumerateEval) Type() ValueType { return ListOf(ClassOf(e.class)) }

type distinctEval struct {
	target Evaluator
	typ    ValueType
}

func (e *distinctEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	var seen []Value
	return List(NewLazyList(func() (Value, bool) {
		for {
			v, ok := cur()
			if !ok {
				return Empty, false
			}
			if !containsValue(seen, v) {
				seen = append(seen, v)
				return v, true
			}
		}
	}))
}
func (e *distinctEval) Type() ValueType { return e.typ }

type distinctByEval struct {
	target, body Evaluator
	typ          ValueType
}

func (e *distinctByEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	var seen []Value
	return List(NewLazyList(func() (Value, bool) {
		for {
			v, ok := cur()
			if !ok {
				return Empty, false
			}
			key := e.body.Eval(ctx.withBinding(v))
			if !containsValue(seen, key) {
				seen = append(seen, key)
				return v, true
			}
		}
	}))
}
func (e *distinctByEval) Type() ValueType { return e.typ }

func containsValue(vs []Value, v Value) bool {
	for _, s := range vs {
		if Equal(s, v) {
			return true
		}
	}
	return false
}

// ───────────────────────────── forcing methods ──────────────────────────────

type sortEval struct {
	target Evaluator
	typ    ValueType
}

func (e *sortEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	items := tv.asList().Force()
	out := make([]Value, len(items))
	copy(out, items)
	slices.SortStableFunc(out, Compare)
	return List(FromSlice(out))
}
func (e *sortEval) Type() ValueType { return e.typ }

type sortByEval struct {
	target, body Evaluator
	typ          ValueType
}

func (e *sortByEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	items := tv.asList().Force()
	type keyed struct {
		key, val Value
	}
	ks := make([]keyed, len(items))
	for i, v := range items {
		ks[i] = keyed{key: e.body.Eval(ctx.withBinding(v)), val: v}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int { return Compare(a.key, b.key) })
	out := make([]Value, len(ks))
	for i := range ks {
		out[i] = ks[i].val
	}
	return List(FromSlice(out))
}
func (e *sortByEval) Type() ValueType { return e.typ }

type groupByEval struct {
	target, body Evaluator
	class        *ClassType
}

// Eval groups by lambda key; groups appear in first-encounter order.
func (e *groupByEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	type group struct {
		key   Value
		items []Value
	}
	var groups []group
	for _, v := range tv.asList().Force() {
		key := e.body.Eval(ctx.withBinding(v))
		found := false
		for i := range groups {
			if Equal(groups[i].key, key) {
				groups[i].items = append(groups[i].items, v)
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, group{key: key, items: []Value{v}})
		}
	}
	out := make([]Value, len(groups))
	for i, g := range groups {
		out[i] = Record(NewInstance(e.class, []Value{g.key, List(FromSlice(g.items))}))
	}
	return List(FromSlice(out))
}
func (e *groupByEval) Type() ValueType { return ListOf(ClassOf(e.class)) }

type reverseEval struct {
	target Evaluator
	typ    ValueType
}

func (e *reverseEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	items := tv.asList().Force()
	out := make([]Value, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return List(FromSlice(out))
}
func (e *reverseEval) Type() ValueType { return e.typ }

// ───────────────────────────── consumers ────────────────────────────────────

type anyEval struct {
	target, body Evaluator
}

// Eval stops at the first item whose predicate is true; Empty predicate
// results count as false, an exhausted list answers false.
func (e *anyEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	for {
		v, ok := cur()
		if !ok {
			return Bool(false)
		}
		if r := e.body.Eval(ctx.withBinding(v)); r.Tag == TagBool && r.asBool() {
			return Bool(true)
		}
	}
}
func (e *anyEval) Type() ValueType { return TypeBool }

type sumEval struct {
	target Evaluator
}

// Eval adds the numeric items, skipping everything else; a list with no
// numbers sums to 0, overflow resolves to Empty.
func (e *sumEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	var total uint64
	for {
		v, ok := cur()
		if !ok {
			return Number(total)
		}
		if v.Tag != TagNumber {
			continue
		}
		next, ok := addChecked(total, v.asNumber())
		if !ok {
			return Empty
		}
		total = next
	}
}
func (e *sumEval) Type() ValueType { return TypeNumber }

type avgEval struct {
	target Evaluator
}

// Eval averages the numeric items (integer division); no numeric items
// means there is no average.
func (e *avgEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	var total, count uint64
	for {
		v, ok := cur()
		if !ok {
			break
		}
		if v.Tag != TagNumber {
			continue
		}
		next, ok := addChecked(total, v.asNumber())
		if !ok {
			return Empty
		}
		total = next
		count++
	}
	if count == 0 {
		return Empty
	}
	return Number(total / count)
}
func (e *avgEval) Type() ValueType { return TypeNumber }

type extremumEval struct {
	target Evaluator
	max    bool
	typ    ValueType
}

// Eval finds the smallest or largest non-Empty item.
func (e *extremumEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	best := Empty
	for {
		v, ok := cur()
		if !ok {
			return best
		}
		if v.IsEmpty() {
			continue
		}
		if best.IsEmpty() {
			best = v
			continue
		}
		if c := Compare(v, best); (e.max && c > 0) || (!e.max && c < 0) {
			best = v
		}
	}
}
func (e *extremumEval) Type() ValueType { return e.typ }

type firstEval struct {
	target Evaluator
	typ    ValueType
}

func (e *firstEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	v, ok := tv.asList().At(0)
	if !ok {
		return Empty
	}
	return v
}
func (e *firstEval) Type() ValueType { return e.typ }

type lastEval struct {
	target Evaluator
	typ    ValueType
}

func (e *lastEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	items := tv.asList().Force()
	if len(items) == 0 {
		return Empty
	}
	return items[len(items)-1]
}
func (e *lastEval) Type() ValueType { return e.typ }

type joinEval struct {
	target, sep Evaluator
}

func (e *joinEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	sv := e.sep.Eval(ctx)
	if tv.IsEmpty() || sv.IsEmpty() {
		return Empty
	}
	items := tv.asList().Force()
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = v.Display()
	}
	return Str(strings.Join(parts, sv.asString()))
}
func (e *joinEval) Type() ValueType { return TypeString }

type listContainsEval struct {
	target, arg Evaluator
}

func (e *listContainsEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	av := e.arg.Eval(ctx)
	if tv.IsEmpty() || av.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	for {
		v, ok := cur()
		if !ok {
			return Bool(false)
		}
		if Equal(v, av) {
			return Bool(true)
		}
	}
}
func (e *listContainsEval) Type() ValueType { return TypeBool }

type listIndexOfEval struct {
	target, arg Evaluator
}

// Eval answers the 0-based position of the first match, Empty when absent.
func (e *listIndexOfEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	av := e.arg.Eval(ctx)
	if tv.IsEmpty() || av.IsEmpty() {
		return Empty
	}
	cur := tv.asList().Cursor()
	for i := uint64(0); ; i++ {
		v, ok := cur()
		if !ok {
			return Empty
		}
		if Equal(v, av) {
			return Number(i)
		}
	}
}
func (e *listIndexOfEval) Type() ValueType { return TypeNumber }

type listLenEval struct {
	target Evaluator
}

func (e *listLenEval) Eval(ctx *Context) Value {
	tv := e.target.Eval(ctx)
	if tv.IsEmpty() {
		return Empty
	}
	return Number(uint64(tv.asList().Len()))
}
func (e *listLenEval) Type() ValueType { return TypeNumber }
