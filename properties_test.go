package findit

import (
	"testing"
	"time"
)

func Test_Properties_Textual(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("docs")
	fs.addFile("docs/report.txt", "hello world\nsecond line\n")

	ctx := NewContext("docs/report.txt", 2)
	ctx.FS = fs
	eval := func(src string) Value { return mustBuild(t, src).Eval(ctx) }

	wantStr(t, eval("NAME"), "report.txt")
	wantPath(t, eval("PATH"), "docs/report.txt")
	wantPath(t, eval("ABSOLUTE_PATH"), "/fake/docs/report.txt")
	wantPath(t, eval("PARENT"), "docs")
	wantStr(t, eval("EXTENSION"), "txt")
	wantStr(t, eval("STEM"), "report")
	wantNumber(t, eval("DEPTH"), 2)
}

func Test_Properties_Extension_Absent_Without_Dot(t *testing.T) {
	wantEmpty(t, evalOn(t, newFakeFS(), "src/Makefile", "EXTENSION"))
	wantStr(t, evalOn(t, newFakeFS(), "src/Makefile", "STEM"), "Makefile")
	// A leading dot marks a hidden name, not an extension.
	wantEmpty(t, evalOn(t, newFakeFS(), ".profile", "EXTENSION"))
	wantStr(t, evalOn(t, newFakeFS(), ".profile", "STEM"), ".profile")
}

func Test_Properties_Stat_Backed(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("docs")
	m := fs.addFile("docs/report.txt", "hello world\nsecond line\n")
	m.Accessed = time.Date(2024, 5, 21, 8, 30, 0, 0, time.Local)

	path := "docs/report.txt"
	wantNumber(t, evalOn(t, fs, path, "SIZE"), 24)
	wantDisplay(t, evalOn(t, fs, path, "MODIFIED"), "2024-05-20 12:00:00")
	wantDisplay(t, evalOn(t, fs, path, "ACCESSED"), "2024-05-21 08:30:00")
	// The fake leaves creation time unset, as filesystems without birth
	// times do.
	wantEmpty(t, evalOn(t, fs, path, "CREATED"))
	wantStr(t, evalOn(t, fs, path, "OWNER"), "tester")
	wantStr(t, evalOn(t, fs, path, "GROUP"), "testers")
	wantStr(t, evalOn(t, fs, path, "PERMISSIONS"), "-rw-r--r--")
	wantStr(t, evalOn(t, fs, path, "KIND"), "file")

	wantStr(t, evalOn(t, fs, "docs", "KIND"), "dir")
	wantStr(t, evalOn(t, fs, "docs", "PERMISSIONS"), "-rwxr-xr-x")
}

func Test_Properties_Content(t *testing.T) {
	fs := newFakeFS()
	fs.addFile("notes.txt", "alpha\nbeta\n")
	fs.addOpaque("blob.bin", 12)

	wantStr(t, evalOn(t, fs, "notes.txt", "CONTENT"), "alpha\nbeta\n")
	wantStr(t, evalOn(t, fs, "notes.txt", "CONTENT.lines().first()"), "alpha")
	wantEmpty(t, evalOn(t, fs, "blob.bin", "CONTENT"))
	wantEmpty(t, evalOn(t, fs, "missing.txt", "CONTENT"))
	wantEmpty(t, evalOn(t, fs, "missing.txt", "CONTENT.lines().first()"))
}

func Test_Properties_Missing_File(t *testing.T) {
	fs := newFakeFS()
	path := "gone/away.txt"

	// Textual properties answer from the path alone.
	wantStr(t, evalOn(t, fs, path, "NAME"), "away.txt")
	wantStr(t, evalOn(t, fs, path, "EXTENSION"), "txt")
	wantPath(t, evalOn(t, fs, path, "PARENT"), "gone")

	// Stat-backed ones are absent.
	wantEmpty(t, evalOn(t, fs, path, "SIZE"))
	wantEmpty(t, evalOn(t, fs, path, "MODIFIED"))
	wantEmpty(t, evalOn(t, fs, path, "OWNER"))
	wantEmpty(t, evalOn(t, fs, path, "KIND"))
}

func Test_Properties_Of_Link_Use_The_Link_Itself(t *testing.T) {
	fs := newFakeFS()
	fs.addFile("real.txt", "content")
	fs.addLink("ln.txt", "real.txt")

	wantStr(t, evalOn(t, fs, "ln.txt", "KIND"), "link")
	wantNumber(t, evalOn(t, fs, "ln.txt", "SIZE"), 0)
	// Content reads through the link.
	wantStr(t, evalOn(t, fs, "ln.txt", "CONTENT"), "content")
}

func Test_Properties_OF_Rebinds_The_Path(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("a")
	fs.addDir("a/b")
	fs.addFile("a/b/c.txt", "ccc")
	fs.addFile("a/b/sibling.txt", "sssss")

	path := "a/b/c.txt"
	wantStr(t, evalOn(t, fs, path, "NAME OF PARENT"), "b")
	wantStr(t, evalOn(t, fs, path, "NAME OF (PARENT OF PARENT)"), "a")
	wantNumber(t, evalOn(t, fs, path, `SIZE OF @"a/b/sibling.txt"`), 5)
	wantStr(t, evalOn(t, fs, path, "KIND OF PARENT"), "dir")
	// An absent path on the right makes the whole OF absent.
	wantEmpty(t, evalOn(t, fs, path, `SIZE OF (IF FALSE THEN @"x" END)`))
}

func Test_Properties_Stat_Once_Per_File(t *testing.T) {
	fs := newFakeFS()
	fs.addFile("one.txt", "hello")

	ctx := NewContext("one.txt", 0)
	ctx.FS = fs
	wantNumber(t, mustBuild(t, "SIZE + SIZE * 2").Eval(ctx), 15)
	if fs.stats != 1 {
		t.Fatalf("two SIZE reads should stat once, got %d stats", fs.stats)
	}

	// Lambda scopes share the cache of the context they derive from.
	fs.stats = 0
	ctx = NewContext("one.txt", 0)
	ctx.FS = fs
	wantNumber(t, mustBuild(t, ":[1, 2].map($n SIZE).sum() + SIZE").Eval(ctx), 15)
	if fs.stats != 1 {
		t.Fatalf("lambda bodies should reuse the outer stat, got %d stats", fs.stats)
	}

	// OF points elsewhere and stats the other file separately.
	fs.addFile("two.txt", "hi")
	fs.stats = 0
	ctx = NewContext("one.txt", 0)
	ctx.FS = fs
	wantNumber(t, mustBuild(t, `SIZE + (SIZE OF @"two.txt")`).Eval(ctx), 7)
	if fs.stats != 2 {
		t.Fatalf("OF should stat the rebound path on its own, got %d stats", fs.stats)
	}
}
