package findit

import "testing"

func Test_StringMethods_Length_Reverse(t *testing.T) {
	wantNumber(t, evalSrc(t, `"hello".length()`), 5)
	wantNumber(t, evalSrc(t, `"héllo".length()`), 5)
	wantNumber(t, evalSrc(t, `"".length()`), 0)
	wantStr(t, evalSrc(t, `"abc".reverse()`), "cba")
	wantStr(t, evalSrc(t, `"héllo".reverse()`), "olléh")
}

func Test_StringMethods_Take_Skip_Count_Runes(t *testing.T) {
	wantStr(t, evalSrc(t, `"hello".take(2)`), "he")
	wantStr(t, evalSrc(t, `"hello".take(99)`), "hello")
	wantStr(t, evalSrc(t, `"hello".skip(2)`), "llo")
	wantStr(t, evalSrc(t, `"hello".skip(99)`), "")
	wantStr(t, evalSrc(t, `"héllo".take(2)`), "hé")
	wantStr(t, evalSrc(t, `"héllo".skip(2)`), "llo")
}

func Test_StringMethods_Lines(t *testing.T) {
	wantDisplay(t, evalSrc(t, `"a\nb\nc".lines()`), "[a, b, c]")
	wantDisplay(t, evalSrc(t, `"".lines()`), "[]")
	// A final newline closes the last line instead of opening an empty one.
	wantDisplay(t, evalSrc(t, `"a\n".lines()`), "[a]")
	wantDisplay(t, evalSrc(t, `"a\r\nb".lines()`), "[a, b]")
	wantDisplay(t, evalSrc(t, `"a\n\nb".lines()`), "[a, , b]")
	wantNumber(t, evalSrc(t, `"one\ntwo\nthree".lines().length()`), 3)
	wantStr(t, evalSrc(t, `"one\ntwo".lines().first()`), "one")
}

func Test_StringMethods_Lines_Stream_Lazily(t *testing.T) {
	v, log := evalWithDebug(t, `"a\nb\nc".lines().debug($s $s).first()`)
	wantStr(t, v, "a")
	if log != "a\n" {
		t.Fatalf("first() should pull a single line, debug log:\n%q", log)
	}
}

func Test_StringMethods_Words(t *testing.T) {
	wantDisplay(t, evalSrc(t, `"  one two\tthree\n".words()`), "[one, two, three]")
	wantDisplay(t, evalSrc(t, `"".words()`), "[]")
	wantDisplay(t, evalSrc(t, `"solo".words()`), "[solo]")
}

func Test_StringMethods_Contains_IndexOf(t *testing.T) {
	wantBool(t, evalSrc(t, `"hello".contains("ell")`), true)
	wantBool(t, evalSrc(t, `"hello".contains("xyz")`), false)
	wantNumber(t, evalSrc(t, `"hello".indexOf("llo")`), 2)
	// Positions count runes, not bytes.
	wantNumber(t, evalSrc(t, `"héllo".indexOf("llo")`), 2)
	wantNumber(t, evalSrc(t, `"hello".indexOf("")`), 0)
	wantEmpty(t, evalSrc(t, `"hello".indexOf("xyz")`))
}

func Test_StringMethods_Absent_Operands(t *testing.T) {
	wantEmpty(t, evalSrc(t, `(("x" AS NUMBER) AS STRING).length()`))
	wantEmpty(t, evalSrc(t, `"hello".take(("x" AS NUMBER))`))
	wantEmpty(t, evalSrc(t, `"hello".contains((("x" AS NUMBER) AS STRING))`))
}

func Test_StringMethods_Static_Types(t *testing.T) {
	cases := []struct {
		src, typ string
	}{
		{`"x".length()`, "NUMBER"},
		{`"x".lines()`, "LIST OF STRING"},
		{`"x".words()`, "LIST OF STRING"},
		{`"x".reverse()`, "STRING"},
		{`"x".contains("y")`, "BOOL"},
		{`"x".indexOf("y")`, "NUMBER"},
		{`"x".take(1)`, "STRING"},
	}
	for _, c := range cases {
		ev := mustBuild(t, c.src)
		if got := ev.Type().String(); got != c.typ {
			t.Fatalf("%s: want type %s, got %s", c.src, c.typ, got)
		}
	}
}

func Test_StringMethods_Type_Errors(t *testing.T) {
	wantTypeErr(t, `"x".walk()`, "STRING has no method .walk")
	wantTypeErr(t, `"x".map($c $c)`, "STRING has no method .map")
	wantTypeErr(t, `"x".sum()`, "STRING has no method .sum")
	wantTypeErr(t, `"x".take("y")`, ".take() expects NUMBER, got STRING")
	wantTypeErr(t, `"x".contains(1)`, ".contains() expects STRING, got NUMBER")
	wantTypeErr(t, `"x".length(1)`, ".length() takes no argument")
}
