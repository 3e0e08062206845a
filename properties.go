// properties.go — evaluation of the file access properties.
//
// A property reads the file the context currently points at. The textual
// ones (NAME, PATH, PARENT, ...) never touch the disk; the rest go through
// the context's metadata cache, so a query that reads SIZE and MODIFIED
// stats the file once. Anything the filesystem cannot answer is Empty.
package findit

import (
	"path/filepath"
	"time"
)

type propEval struct {
	name string
	typ  ValueType
}

func (e *propEval) Eval(ctx *Context) Value { return evalProperty(ctx, e.name) }
func (e *propEval) Type() ValueType         { return e.typ }

func evalProperty(ctx *Context, name string) Value {
	switch name {
	case "NAME":
		return Str(filepath.Base(ctx.Path))
	case "PATH":
		return Path(ctx.Path)
	case "ABSOLUTE_PATH":
		return Path(ctx.FS.Abs(ctx.Path))
	case "PARENT":
		return Path(filepath.Dir(ctx.Path))
	case "EXTENSION":
		_, ext := splitName(filepath.Base(ctx.Path))
		if ext == "" {
			return Empty
		}
		return Str(ext)
	case "STEM":
		stem, _ := splitName(filepath.Base(ctx.Path))
		return Str(stem)
	case "DEPTH":
		return Number(uint64(ctx.Depth))
	case "CONTENT":
		if text, ok := ctx.FS.Content(ctx.Path); ok {
			return Str(text)
		}
		return Empty
	}

	m, ok := ctx.fileMeta()
	if !ok {
		return Empty
	}
	switch name {
	case "SIZE":
		return Number(m.Size)
	case "CREATED":
		return dateOrEmpty(m.Created)
	case "MODIFIED":
		return dateOrEmpty(m.Modified)
	case "ACCESSED":
		return dateOrEmpty(m.Accessed)
	case "OWNER":
		return strOrEmpty(m.Owner)
	case "GROUP":
		return strOrEmpty(m.Group)
	case "PERMISSIONS":
		return Str(m.Perm)
	case "KIND":
		return Str(m.Kind)
	default:
		return Empty
	}
}

func dateOrEmpty(t time.Time) Value {
	if t.IsZero() {
		return Empty
	}
	return Date(t)
}

func strOrEmpty(s string) Value {
	if s == "" {
		return Empty
	}
	return Str(s)
}

// pathState answers the IS checks that interrogate the filesystem. A path
// that is not there is simply not a directory, not a file and not a link;
// EXISTS is the check that asks about presence itself.
func pathState(ctx *Context, p string, check TokenType) bool {
	switch check {
	case EXISTS:
		_, err := ctx.FS.Meta(p)
		return err == nil
	case DIR, DIRECTORY:
		m, err := ctx.FS.Target(p)
		return err == nil && m.IsDir()
	case FILE:
		m, err := ctx.FS.Target(p)
		return err == nil && m.Kind == "file"
	case LINK, SYMLINK:
		m, err := ctx.FS.Meta(p)
		return err == nil && m.Kind == "link"
	case HIDDEN:
		return isHiddenName(filepath.Base(p))
	case ABSOLUTE:
		return filepath.IsAbs(p)
	case RELATIVE:
		return !filepath.IsAbs(p)
	default:
		return false
	}
}
