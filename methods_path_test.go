package findit

import "testing"

// Quoted path literals throughout: a bare path would swallow the method dot.

func Test_PathMethods_Length(t *testing.T) {
	fs := newFakeFS()
	fs.addFile("notes.txt", "hello")
	fs.addLink("ln", "notes.txt")

	wantNumber(t, evalOn(t, fs, ".", `@"notes.txt".length()`), 5)
	// Length follows links to the target's size.
	wantNumber(t, evalOn(t, fs, ".", `@"ln".length()`), 5)
	wantEmpty(t, evalOn(t, fs, ".", `@"missing.txt".length()`))
}

func Test_PathMethods_Lines_Words(t *testing.T) {
	fs := newFakeFS()
	fs.addFile("doc.txt", "alpha beta\ngamma\n")
	fs.addOpaque("blob.bin", 9)

	wantDisplay(t, evalOn(t, fs, ".", `@"doc.txt".lines()`), "[alpha beta, gamma]")
	wantStr(t, evalOn(t, fs, ".", `@"doc.txt".lines().first()`), "alpha beta")
	wantDisplay(t, evalOn(t, fs, ".", `@"doc.txt".words()`), "[alpha, beta, gamma]")

	// Unreadable or binary content is absent, not empty.
	wantEmpty(t, evalOn(t, fs, ".", `@"blob.bin".lines()`))
	wantEmpty(t, evalOn(t, fs, ".", `@"missing.txt".lines().first()`))
	wantEmpty(t, evalOn(t, fs, ".", `@"missing.txt".words()`))
}

func Test_PathMethods_Walk_Breadth_First(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("proj")
	fs.addFile("proj/notes.txt", "n")
	fs.addDir("proj/sub")
	fs.addFile("proj/sub/deep.txt", "d")
	fs.addFile("proj/zz.txt", "z")

	v := evalOn(t, fs, ".", `@"proj".walk()`)
	wantDisplay(t, v, "[proj/notes.txt, proj/sub, proj/zz.txt, proj/sub/deep.txt]")
}

func Test_PathMethods_Walk_Composes_With_List_Methods(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("proj")
	fs.addFile("proj/a.txt", "a")
	fs.addDir("proj/sub")
	fs.addFile("proj/sub/deep.txt", "d")

	v := evalOn(t, fs, ".", `@"proj".walk().filter($p (NAME OF $p) == "deep.txt").first()`)
	wantPath(t, v, "proj/sub/deep.txt")

	n := evalOn(t, fs, ".", `@"proj".walk().length()`)
	wantNumber(t, n, 3)
}

func Test_PathMethods_Walk_Does_Not_Follow_Links(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("proj")
	fs.addDir("other")
	fs.addFile("other/o.txt", "o")
	fs.addLink("proj/ln", "other")

	// The link itself is listed; what it points to is not descended into.
	wantDisplay(t, evalOn(t, fs, ".", `@"proj".walk()`), "[proj/ln]")
}

func Test_PathMethods_Walk_Skips_Unreadable_Subdirs(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("proj")
	fs.addDir("proj/locked")
	fs.addFile("proj/locked/secret.txt", "s")
	fs.addFile("proj/open.txt", "o")
	fs.deny["proj/locked"] = true

	wantDisplay(t, evalOn(t, fs, ".", `@"proj".walk()`), "[proj/locked, proj/open.txt]")
}

func Test_PathMethods_Walk_Unwalkable_Root(t *testing.T) {
	fs := newFakeFS()
	fs.addFile("plain.txt", "p")

	wantEmpty(t, evalOn(t, fs, ".", `@"missing".walk()`))
	wantEmpty(t, evalOn(t, fs, ".", `@"plain.txt".walk()`))
}

func Test_PathMethods_Static_Types(t *testing.T) {
	cases := []struct {
		src, typ string
	}{
		{`@"x".length()`, "NUMBER"},
		{`@"x".lines()`, "LIST OF STRING"},
		{`@"x".words()`, "LIST OF STRING"},
		{`@"x".walk()`, "LIST OF PATH"},
	}
	for _, c := range cases {
		ev := mustBuild(t, c.src)
		if got := ev.Type().String(); got != c.typ {
			t.Fatalf("%s: want type %s, got %s", c.src, c.typ, got)
		}
	}
}

func Test_PathMethods_Type_Errors(t *testing.T) {
	wantTypeErr(t, `@"x".map($p $p)`, "PATH has no method .map")
	wantTypeErr(t, `@"x".take(1)`, "PATH has no method .take")
	wantTypeErr(t, `@"x".reverse()`, "PATH has no method .reverse")
	wantTypeErr(t, `@"x".walk(1)`, ".walk() takes no argument")
}
