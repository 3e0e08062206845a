package findit

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// --- helpers -------------------------------------------------------------

// collectWalk runs a walk and flattens it into "path depth" lines.
func collectWalk(t *testing.T, w *Walker, root string) []string {
	t.Helper()
	var got []string
	err := w.Walk(root, func(path string, depth int) error {
		got = append(got, fmt.Sprintf("%s %d", path, depth))
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return got
}

func wantWalk(t *testing.T, got, want []string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("walk order mismatch\n got: %v\nwant: %v", got, want)
	}
}

func ignoringWalker(fs FileSystem) *Walker {
	w := NewWalker()
	w.FS = fs
	return w
}

// --- order and depth -------------------------------------------------------

func Test_Walker_Lexical_Depth_First(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("root")
	fs.addFile("root/a.txt", "a")
	fs.addDir("root/b")
	fs.addFile("root/b/b1.txt", "b1")
	fs.addDir("root/b/c")
	fs.addFile("root/b/c/c1.txt", "c1")
	fs.addFile("root/z.txt", "z")

	wantWalk(t, collectWalk(t, ignoringWalker(fs), "root"), []string{
		"root/a.txt 0",
		"root/b 0",
		"root/b/b1.txt 1",
		"root/b/c 1",
		"root/b/c/c1.txt 2",
		"root/z.txt 0",
	})
}

func Test_Walker_MaxDepth(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("root")
	fs.addDir("root/a")
	fs.addDir("root/a/b")
	fs.addFile("root/a/b/deep.txt", "d")
	fs.addFile("root/top.txt", "t")

	w := ignoringWalker(fs)
	w.MaxDepth = 0
	wantWalk(t, collectWalk(t, w, "root"), []string{"root/a 0", "root/top.txt 0"})

	w.MaxDepth = 1
	wantWalk(t, collectWalk(t, w, "root"), []string{"root/a 0", "root/a/b 1", "root/top.txt 0"})
}

// --- roots -------------------------------------------------------------------

func Test_Walker_Roots(t *testing.T) {
	fs := newFakeFS()
	fs.addFile("plain.txt", "p")
	fs.addLink("dangling", "nowhere")

	// A file root is reported once; the root directory itself never is.
	wantWalk(t, collectWalk(t, ignoringWalker(fs), "plain.txt"), []string{"plain.txt 0"})
	// A dangling link is still an entry.
	wantWalk(t, collectWalk(t, ignoringWalker(fs), "dangling"), []string{"dangling 0"})

	err := ignoringWalker(fs).Walk("missing", func(string, int) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "cannot access missing") {
		t.Fatalf("missing root should fail with cannot access, got %v", err)
	}
}

func Test_Walker_Stop(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("root")
	fs.addFile("root/a.txt", "a")
	fs.addFile("root/b.txt", "b")

	var seen int
	err := ignoringWalker(fs).Walk("root", func(string, int) error {
		seen++
		return ErrStopWalk
	})
	if !errors.Is(err, ErrStopWalk) {
		t.Fatalf("want ErrStopWalk, got %v", err)
	}
	if seen != 1 {
		t.Fatalf("the walk should stop after the first entry, saw %d", seen)
	}
}

func Test_Walker_Skips_Unreadable_Subdirs(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("root")
	fs.addDir("root/locked")
	fs.addFile("root/locked/hidden.txt", "h")
	fs.addFile("root/ok.txt", "o")
	fs.deny["root/locked"] = true

	wantWalk(t, collectWalk(t, ignoringWalker(fs), "root"), []string{
		"root/locked 0",
		"root/ok.txt 0",
	})
}

// --- ignore rules --------------------------------------------------------------

func Test_Walker_Prunes_Git_Dirs(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("root")
	fs.addDir("root/.git")
	fs.addFile("root/.git/config", "c")
	fs.addFile("root/main.go", "m")

	wantWalk(t, collectWalk(t, ignoringWalker(fs), "root"), []string{"root/main.go 0"})
}

func Test_Walker_Gitignore(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("root")
	fs.addFile("root/.gitignore", "*.log\n# comment\n\nbuild/\n")
	fs.addFile("root/app.log", "x")
	fs.addDir("root/build")
	fs.addFile("root/build/out.txt", "o")
	fs.addFile("root/keep.txt", "k")
	fs.addFile("root/local.txt", "l")
	fs.addDir("root/sub")
	fs.addFile("root/sub/.gitignore", "local.txt\n")
	fs.addFile("root/sub/deep.log", "d")
	fs.addFile("root/sub/local.txt", "l")

	wantWalk(t, collectWalk(t, ignoringWalker(fs), "root"), []string{
		"root/.gitignore 0",
		"root/keep.txt 0",
		"root/local.txt 0",
		"root/sub 0",
		"root/sub/.gitignore 1",
	})

	w := ignoringWalker(fs)
	w.NoIgnore = true
	wantWalk(t, collectWalk(t, w, "root"), []string{
		"root/.gitignore 0",
		"root/app.log 0",
		"root/build 0",
		"root/build/out.txt 1",
		"root/keep.txt 0",
		"root/local.txt 0",
		"root/sub 0",
		"root/sub/.gitignore 1",
		"root/sub/deep.log 1",
		"root/sub/local.txt 1",
	})
}

func Test_Walker_Gitignore_Negation(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("root")
	fs.addFile("root/.gitignore", "*.log\n!keep.log\n")
	fs.addFile("root/drop.log", "d")
	fs.addFile("root/keep.log", "k")

	wantWalk(t, collectWalk(t, ignoringWalker(fs), "root"), []string{
		"root/.gitignore 0",
		"root/keep.log 0",
	})
}

// --- links ---------------------------------------------------------------------

func Test_Walker_Links_Stay_Shallow_By_Default(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("root")
	fs.addDir("root/data")
	fs.addFile("root/data/d.txt", "d")
	fs.addLink("root/ln", "root/data")

	wantWalk(t, collectWalk(t, ignoringWalker(fs), "root"), []string{
		"root/data 0",
		"root/data/d.txt 1",
		"root/ln 0",
	})
}

func Test_Walker_FollowLinks_Descends_Once(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("root")
	fs.addLink("root/aln", "root/zdir")
	fs.addDir("root/zdir")
	fs.addFile("root/zdir/z.txt", "z")

	// The link is reached first and claims the directory; the directory's
	// own entry is still reported but not descended a second time.
	w := ignoringWalker(fs)
	w.FollowLinks = true
	wantWalk(t, collectWalk(t, w, "root"), []string{
		"root/aln 0",
		"root/aln/z.txt 1",
		"root/zdir 0",
	})
}

func Test_Walker_FollowLinks_Terminates_Cycles(t *testing.T) {
	fs := newFakeFS()
	fs.addDir("loop")
	fs.addLink("loop/self", "loop")

	w := ignoringWalker(fs)
	w.FollowLinks = true
	wantWalk(t, collectWalk(t, w, "loop"), []string{"loop/self 0"})
}
