// context.go — the per-file evaluation context.
//
// A Context carries everything an evaluator tree reads: the current path and
// walk depth, the binding stack filled by WITH and lambda evaluation, the
// debug sink, and the filesystem / process services. Evaluators never mutate
// a context they were given; nested evaluation derives a new one with
// withBinding or withPath. File metadata is fetched lazily once per path and
// the cache is shared with binding-derived contexts, so a lambda body that
// reads SIZE on every item still stats the file a single time.
package findit

import (
	"fmt"
	"io"
)

// metaCache memoizes one stat result. Shared by pointer between a context
// and everything derived from it with withBinding.
type metaCache struct {
	meta   *FileMeta
	filled bool
}

// Context is the environment one evaluation runs against.
type Context struct {
	Path  string
	Depth int
	Debug io.Writer
	FS    FileSystem
	Proc  Runner

	bindings []Value
	cache    *metaCache
}

// NewContext builds a context for path with the default OS-backed services.
func NewContext(path string, depth int) *Context {
	return &Context{Path: path, Depth: depth, FS: osFS{}, Proc: osRunner{}, cache: &metaCache{}}
}

// withBinding derives a context with one more binding pushed. The stack is
// copied, never shared, because sibling scopes may extend the same base.
func (c *Context) withBinding(v Value) *Context {
	d := *c
	nb := make([]Value, len(c.bindings)+1)
	copy(nb, c.bindings)
	nb[len(c.bindings)] = v
	d.bindings = nb
	return &d
}

// withPath derives a context rooted at a different path, with a fresh
// metadata cache.
func (c *Context) withPath(p string) *Context {
	d := *c
	d.Path = p
	d.cache = &metaCache{}
	return &d
}

// binding reads the value stored in a slot.
func (c *Context) binding(slot int) Value {
	if slot < 0 || slot >= len(c.bindings) {
		return Empty
	}
	return c.bindings[slot]
}

// fileMeta returns the current file's metadata, fetching it on first use.
// ok=false when the path cannot be stat'ed.
func (c *Context) fileMeta() (*FileMeta, bool) {
	if !c.cache.filled {
		c.cache.filled = true
		if m, err := c.FS.Meta(c.Path); err == nil {
			c.cache.meta = m
		}
	}
	return c.cache.meta, c.cache.meta != nil
}

// debugln writes one line to the debug sink, if any.
func (c *Context) debugln(s string) {
	if c.Debug != nil {
		fmt.Fprintln(c.Debug, s)
	}
}
