// list.go — the lazy list runtime.
//
// A LazyList is a pull iterator with a memo: every element pulled from the
// source is appended to the memo before it is handed out, so the source is
// driven at most once no matter how many holders share the handle. Cursors
// replay the memo and then continue pulling the shared source, which keeps
// single-pass consumers (first, take, any) lazy while still letting a later
// Force see exactly the same elements. Forcing twice returns the same
// backing slice. Everything here assumes single-threaded evaluation.
package findit

// iterator yields the next element, or ok=false once exhausted. After the
// first ok=false it is never called again.
type iterator func() (Value, bool)

// LazyList is a memoizing sequence. The zero value is an empty list.
type LazyList struct {
	src  iterator
	memo []Value
	done bool
}

// NewLazyList wraps a pull source.
func NewLazyList(src iterator) *LazyList {
	return &LazyList{src: src}
}

// FromSlice builds an already-materialized list. The slice is owned by the
// list and must not be mutated afterwards.
func FromSlice(items []Value) *LazyList {
	return &LazyList{memo: items, done: true}
}

// pull advances the source by one element. Reports false when exhausted.
func (l *LazyList) pull() bool {
	if l.done {
		return false
	}
	if l.src == nil {
		l.done = true
		return false
	}
	v, ok := l.src()
	if !ok {
		l.done = true
		l.src = nil
		return false
	}
	l.memo = append(l.memo, v)
	return true
}

// At returns the i-th element, pulling the source just far enough.
func (l *LazyList) At(i int) (Value, bool) {
	if i < 0 {
		return Empty, false
	}
	for len(l.memo) <= i {
		if !l.pull() {
			return Empty, false
		}
	}
	return l.memo[i], true
}

// Force drains the source and returns the complete element slice. The result
// is the memo itself; callers must treat it as read-only.
func (l *LazyList) Force() []Value {
	for l.pull() {
	}
	return l.memo
}

// Len forces the list and returns its length.
func (l *LazyList) Len() int {
	return len(l.Force())
}

// Cursor returns an independent iterator over the whole list. Elements
// already memoized are replayed; beyond them the shared source is advanced,
// so concurrent cursors on one handle never double-drive the source.
func (l *LazyList) Cursor() iterator {
	i := 0
	return func() (Value, bool) {
		v, ok := l.At(i)
		if !ok {
			return Empty, false
		}
		i++
		return v, true
	}
}
