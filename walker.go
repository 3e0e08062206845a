// walker.go — streaming the files a query runs over.
//
// The walk is depth-first in lexical order: each directory's entries come
// back sorted from the filesystem service, every surviving entry is
// reported before its children. Entries directly inside a root are depth 0.
// Unreadable subdirectories are skipped; only a root that cannot be
// accessed at all fails the walk.
//
// .gitignore files compound root-down: patterns parsed in a directory are
// scoped to it through their domain and stay in force below it, and a
// nested .gitignore adds its own. .git directories are pruned outright.
package findit

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ErrStopWalk ends a walk cleanly when returned by the callback.
var ErrStopWalk = errors.New("stop walking")

// WalkFunc receives each surviving entry and its depth.
type WalkFunc func(path string, depth int) error

// Walker streams directory entries. The zero value is unusable; NewWalker
// fills in the real filesystem and no depth bound.
type Walker struct {
	FS          FileSystem
	MaxDepth    int // entries deeper than this are not visited; negative = unlimited
	FollowLinks bool
	NoIgnore    bool
}

func NewWalker() *Walker {
	return &Walker{FS: osFS{}, MaxDepth: -1}
}

// Walk streams everything under root. A root that is itself a file is
// reported once at depth 0; the root directory itself is never reported.
func (w *Walker) Walk(root string, fn WalkFunc) error {
	m, err := w.FS.Target(root)
	if err != nil {
		// A dangling symlink is still a reportable entry.
		if _, lerr := w.FS.Meta(root); lerr == nil {
			return fn(root, 0)
		}
		return fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !m.IsDir() {
		return fn(root, 0)
	}
	r := &walkRun{w: w, root: root, fn: fn}
	if w.FollowLinks {
		r.visited = map[string]bool{}
		r.markVisited(root, m)
	}
	return r.dir(root, 0, nil)
}

type walkRun struct {
	w       *Walker
	root    string
	fn      WalkFunc
	visited map[string]bool // only while following links
}

// markVisited records a directory about to be descended into. Reports false
// when it was already seen, which is how link cycles terminate.
func (r *walkRun) markVisited(path string, m *FileMeta) bool {
	key := r.w.FS.Abs(path)
	if dev, ino, ok := m.Ident(); ok {
		key = fmt.Sprintf("%d:%d", dev, ino)
	}
	if r.visited[key] {
		return false
	}
	r.visited[key] = true
	return true
}

// rel returns path's components relative to the walk root.
func (r *walkRun) rel(path string) []string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == "." {
		return nil
	}
	return strings.Split(rel, string(filepath.Separator))
}

func (r *walkRun) dir(dir string, depth int, patterns []gitignore.Pattern) error {
	names, err := r.w.FS.List(dir)
	if err != nil {
		return nil
	}
	if !r.w.NoIgnore {
		if extra := r.loadIgnore(dir); len(extra) > 0 {
			// Full-capacity append so sibling directories never share growth.
			patterns = append(patterns[:len(patterns):len(patterns)], extra...)
		}
	}
	var matcher gitignore.Matcher
	if len(patterns) > 0 {
		matcher = gitignore.NewMatcher(patterns)
	}

	for _, name := range names {
		path := filepath.Join(dir, name)
		m, err := r.w.FS.Meta(path)
		if err != nil {
			continue
		}
		descend := m.IsDir()
		target := m
		if !descend && m.Kind == "link" && r.w.FollowLinks {
			if tm, terr := r.w.FS.Target(path); terr == nil && tm.IsDir() {
				descend = true
				target = tm
			}
		}
		if name == ".git" && descend {
			continue
		}
		if matcher != nil && matcher.Match(r.rel(path), descend) {
			continue
		}
		if err := r.fn(path, depth); err != nil {
			return err
		}
		if !descend {
			continue
		}
		if r.w.MaxDepth >= 0 && depth+1 > r.w.MaxDepth {
			continue
		}
		if r.visited != nil && !r.markVisited(path, target) {
			continue
		}
		if err := r.dir(path, depth+1, patterns); err != nil {
			return err
		}
	}
	return nil
}

// loadIgnore parses dir/.gitignore, scoping its patterns to dir.
func (r *walkRun) loadIgnore(dir string) []gitignore.Pattern {
	text, ok := r.w.FS.Content(filepath.Join(dir, ".gitignore"))
	if !ok {
		return nil
	}
	domain := r.rel(dir)
	var ps []gitignore.Pattern
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, domain))
	}
	return ps
}
