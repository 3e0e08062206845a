package findit

import (
	"testing"
	"time"
)

func Test_Value_Display_Forms(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Empty, ""},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Number(42), "42"},
		{Str("hi"), "hi"},
		{Path("a/b.txt"), "a/b.txt"},
		{Date(time.Date(2021, 7, 9, 12, 30, 45, 0, time.Local)), "2021-07-09 12:30:45"},
		{List(FromSlice([]Value{Number(1), Number(2)})), "[1, 2]"},
		{List(FromSlice(nil)), "[]"},
	}
	for _, c := range cases {
		if got := c.v.Display(); got != c.want {
			t.Fatalf("Display(%s): want %q, got %q", c.v, c.want, got)
		}
	}
}

func Test_Value_Debug_String_Forms(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Empty, "<empty>"},
		{Str("hi"), `"hi"`},
		{Path("a/b"), "@a/b"},
		{Number(7), "7"},
		{Bool(true), "true"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Fatalf("String: want %q, got %q", c.want, got)
		}
	}
}

func Test_Value_Compare_Within_Tags(t *testing.T) {
	cases := []struct {
		a, b Value
		want int
	}{
		{Number(1), Number(2), -1},
		{Number(2), Number(2), 0},
		{Bool(false), Bool(true), -1},
		{Str("a"), Str("b"), -1},
		{Path("a"), Path("b"), -1},
		{Empty, Empty, 0},
		{
			Date(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
			Date(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)),
			-1,
		},
		{
			List(FromSlice([]Value{Number(1), Number(2)})),
			List(FromSlice([]Value{Number(1), Number(3)})),
			-1,
		},
		{
			List(FromSlice([]Value{Number(1)})),
			List(FromSlice([]Value{Number(1), Number(0)})),
			-1,
		},
	}
	for _, c := range cases {
		if got := Compare(c.a, c.b); got != c.want {
			t.Fatalf("Compare(%s, %s): want %d, got %d", c.a, c.b, c.want, got)
		}
		if got := Compare(c.b, c.a); got != -c.want {
			t.Fatalf("Compare(%s, %s): want %d, got %d", c.b, c.a, -c.want, got)
		}
	}
}

func Test_Value_Compare_Across_Tags_Ranks_Empty_First(t *testing.T) {
	ordered := []Value{
		Empty,
		Bool(true),
		Number(0),
		Str(""),
		Path(""),
		Date(time.Now()),
		List(FromSlice(nil)),
	}
	for i := 0; i < len(ordered)-1; i++ {
		if Compare(ordered[i], ordered[i+1]) >= 0 {
			t.Fatalf("rank %d (%s) should come before rank %d (%s)",
				i, ordered[i], i+1, ordered[i+1])
		}
	}
}

func Test_Value_Equal_Records(t *testing.T) {
	ct := NewClassType([]ClassField{{Name: "a", Type: TypeNumber}})
	same := NewClassType([]ClassField{{Name: "a", Type: TypeNumber}})
	other := NewClassType([]ClassField{{Name: "b", Type: TypeNumber}})

	x := Record(NewInstance(ct, []Value{Number(1)}))
	y := Record(NewInstance(same, []Value{Number(1)}))
	z := Record(NewInstance(ct, []Value{Number(2)}))
	w := Record(NewInstance(other, []Value{Number(1)}))

	if !Equal(x, y) {
		t.Fatalf("structurally same records should be equal")
	}
	if Equal(x, z) {
		t.Fatalf("different field values should not be equal")
	}
	if Equal(x, w) {
		t.Fatalf("records of different classes are never equal")
	}
	if Equal(Number(1), Str("1")) {
		t.Fatalf("values of different tags are never equal")
	}
}

func Test_Value_Checked_Arithmetic(t *testing.T) {
	if v, ok := addChecked(2, 3); !ok || v != 5 {
		t.Fatalf("add: %d %v", v, ok)
	}
	if _, ok := addChecked(^uint64(0), 1); ok {
		t.Fatalf("add should overflow")
	}
	if v, ok := subChecked(3, 2); !ok || v != 1 {
		t.Fatalf("sub: %d %v", v, ok)
	}
	if _, ok := subChecked(2, 3); ok {
		t.Fatalf("sub should underflow")
	}
	if v, ok := mulChecked(6, 7); !ok || v != 42 {
		t.Fatalf("mul: %d %v", v, ok)
	}
	if v, ok := mulChecked(0, ^uint64(0)); !ok || v != 0 {
		t.Fatalf("mul by zero: %d %v", v, ok)
	}
	if _, ok := mulChecked(1<<63, 2); ok {
		t.Fatalf("mul should overflow")
	}
	if v, ok := divChecked(7, 2); !ok || v != 3 {
		t.Fatalf("div: %d %v", v, ok)
	}
	if _, ok := divChecked(1, 0); ok {
		t.Fatalf("div by zero")
	}
	if v, ok := modChecked(7, 4); !ok || v != 3 {
		t.Fatalf("mod: %d %v", v, ok)
	}
	if _, ok := modChecked(1, 0); ok {
		t.Fatalf("mod by zero")
	}
}
