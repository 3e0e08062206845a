package findit

import (
	"reflect"
	"testing"
)

// countingSource yields 1..n and counts how often it is pulled.
func countingSource(n int, pulls *int) iterator {
	i := 0
	return func() (Value, bool) {
		*pulls++
		if i >= n {
			return Empty, false
		}
		i++
		return Number(uint64(i)), true
	}
}

func Test_List_At_Pulls_Just_Enough(t *testing.T) {
	pulls := 0
	l := NewLazyList(countingSource(5, &pulls))

	v, ok := l.At(0)
	if !ok || v.asNumber() != 1 {
		t.Fatalf("At(0): %s %v", v, ok)
	}
	if pulls != 1 {
		t.Fatalf("want 1 pull, got %d", pulls)
	}

	v, ok = l.At(2)
	if !ok || v.asNumber() != 3 {
		t.Fatalf("At(2): %s %v", v, ok)
	}
	if pulls != 3 {
		t.Fatalf("want 3 pulls, got %d", pulls)
	}

	// Replays come from the memo.
	l.At(0)
	l.At(1)
	if pulls != 3 {
		t.Fatalf("memo replay should not pull, got %d", pulls)
	}

	if _, ok := l.At(5); ok {
		t.Fatalf("At past the end should report false")
	}
	if _, ok := l.At(-1); ok {
		t.Fatalf("At(-1) should report false")
	}
}

func Test_List_Force_Is_Idempotent(t *testing.T) {
	pulls := 0
	l := NewLazyList(countingSource(3, &pulls))

	a := l.Force()
	want := []Value{Number(1), Number(2), Number(3)}
	if !reflect.DeepEqual(a, want) {
		t.Fatalf("Force: %v", a)
	}
	afterFirst := pulls

	b := l.Force()
	if pulls != afterFirst {
		t.Fatalf("second Force should not pull, got %d extra", pulls-afterFirst)
	}
	if &a[0] != &b[0] {
		t.Fatalf("Force should return the same backing slice")
	}
	if l.Len() != 3 {
		t.Fatalf("Len = %d", l.Len())
	}
}

func Test_List_Cursors_Share_One_Source(t *testing.T) {
	pulls := 0
	l := NewLazyList(countingSource(4, &pulls))

	c1 := l.Cursor()
	c2 := l.Cursor()

	// Interleave the cursors; each element is pulled from the source once.
	v, _ := c1()
	if v.asNumber() != 1 {
		t.Fatalf("c1 first: %s", v)
	}
	v, _ = c2()
	if v.asNumber() != 1 {
		t.Fatalf("c2 first: %s", v)
	}
	v, _ = c2()
	if v.asNumber() != 2 {
		t.Fatalf("c2 second: %s", v)
	}
	v, _ = c1()
	if v.asNumber() != 2 {
		t.Fatalf("c1 second: %s", v)
	}
	if pulls != 2 {
		t.Fatalf("want 2 source pulls so far, got %d", pulls)
	}

	var rest []uint64
	for {
		v, ok := c1()
		if !ok {
			break
		}
		rest = append(rest, v.asNumber())
	}
	if !reflect.DeepEqual(rest, []uint64{3, 4}) {
		t.Fatalf("c1 rest: %v", rest)
	}

	// The exhausted source is never pulled again.
	exhausted := pulls
	if _, ok := c2(); !ok {
		t.Fatalf("c2 should still see 3")
	}
	l.Force()
	if pulls != exhausted {
		t.Fatalf("source pulled after exhaustion: %d -> %d", exhausted, pulls)
	}
}

func Test_List_FromSlice_And_Zero_Value(t *testing.T) {
	l := FromSlice([]Value{Str("a"), Str("b")})
	if l.Len() != 2 {
		t.Fatalf("Len = %d", l.Len())
	}
	if v, ok := l.At(1); !ok || v.asString() != "b" {
		t.Fatalf("At(1): %s %v", v, ok)
	}

	var empty LazyList
	if empty.Len() != 0 {
		t.Fatalf("zero value should be empty")
	}
	if _, ok := empty.At(0); ok {
		t.Fatalf("zero value has no elements")
	}
}
