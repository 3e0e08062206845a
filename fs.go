// fs.go — the filesystem service behind properties and path methods.
//
// The evaluator consumes file metadata and content through the FileSystem
// interface; osFS is the real implementation. Lookups that fail (missing
// file, permission, binary content) are reported through errors or ok=false
// and always surface as Empty in expressions, never as hard failures.
package findit

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// maxContentBytes bounds how much of a file the CONTENT property reads.
const maxContentBytes = 8 << 20

// binarySniffLen is how many leading bytes are checked for NUL when deciding
// whether content is text.
const binarySniffLen = 8000

// FileMeta is the metadata snapshot of one directory entry, taken without
// following symlinks.
type FileMeta struct {
	Name     string
	Size     uint64
	Kind     string // "file", "dir", "link" or "other"
	Perm     string
	Modified time.Time
	Created  time.Time // zero when the platform cannot say
	Accessed time.Time // zero when the platform cannot say
	Owner    string
	Group    string

	dev, ino uint64
	hasIdent bool
}

// IsDir reports whether the entry itself is a directory.
func (m *FileMeta) IsDir() bool { return m.Kind == "dir" }

// Ident returns the device/inode pair identifying the file, for symlink
// cycle detection. ok=false on platforms without one.
func (m *FileMeta) Ident() (dev, ino uint64, ok bool) {
	return m.dev, m.ino, m.hasIdent
}

// FileSystem is the service the evaluator reads files through.
type FileSystem interface {
	// Meta stats path without following symlinks.
	Meta(path string) (*FileMeta, error)
	// Target stats path following symlinks.
	Target(path string) (*FileMeta, error)
	// Content reads path as text. ok=false for missing, unreadable,
	// oversized or binary files.
	Content(path string) (string, bool)
	// List returns the sorted entry names of a directory.
	List(dir string) ([]string, error)
	// Abs resolves path to an absolute form.
	Abs(path string) string
}

// osFS is the real filesystem.
type osFS struct{}

func (osFS) Meta(path string) (*FileMeta, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	return metaFromInfo(path, fi), nil
}

func (osFS) Target(path string) (*FileMeta, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return metaFromInfo(path, fi), nil
}

func metaFromInfo(path string, fi os.FileInfo) *FileMeta {
	m := &FileMeta{
		Name:     filepath.Base(path),
		Size:     uint64(fi.Size()),
		Perm:     fi.Mode().Perm().String(),
		Modified: fi.ModTime(),
	}
	mode := fi.Mode()
	switch {
	case mode.IsRegular():
		m.Kind = "file"
	case mode.IsDir():
		m.Kind = "dir"
	case mode&os.ModeSymlink != 0:
		m.Kind = "link"
	default:
		m.Kind = "other"
	}
	m.Accessed, m.Created = sysTimes(fi)
	m.Owner, m.Group = sysOwner(fi)
	m.dev, m.ino, m.hasIdent = sysDevIno(fi)
	return m
}

func (osFS) Content(path string) (string, bool) {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() || fi.Size() > maxContentBytes {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return "", false
	}
	return string(data), true
}

func (osFS) List(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (osFS) Abs(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// splitName cuts a base name at its last dot: "archive.tar.gz" has stem
// "archive.tar" and extension "gz". A leading dot hides a name rather than
// starting an extension, so ".profile" is all stem.
func splitName(name string) (stem, ext string) {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

// isHiddenName reports whether a base name is dot-hidden.
func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
