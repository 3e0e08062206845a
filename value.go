// value.go — the runtime value model.
//
// Value is a tagged union covering every kind an expression can produce:
// the empty sentinel, booleans, unsigned 64-bit numbers, strings, paths,
// dates, lazy lists and record instances. The tag determines which shape
// Value.Data holds (see ValueTag). Empty stands for "no such value" and is
// allowed wherever any other kind is expected; it is how run-time absence
// (missing file, failed cast, overflow) flows through an expression without
// aborting it.
package findit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	TagEmpty  ValueTag = iota // no payload
	TagBool                   // bool
	TagNumber                 // uint64
	TagString                 // string
	TagPath                   // string (path text)
	TagDate                   // time.Time
	TagList                   // *LazyList
	TagClass                  // *Instance
)

func (t ValueTag) String() string {
	switch t {
	case TagEmpty:
		return "EMPTY"
	case TagBool:
		return "BOOL"
	case TagNumber:
		return "NUMBER"
	case TagString:
		return "STRING"
	case TagPath:
		return "PATH"
	case TagDate:
		return "DATE"
	case TagList:
		return "LIST"
	case TagClass:
		return "CLASS"
	default:
		return "<unknown>"
	}
}

// Value is the universal runtime carrier.
//
// Invariants:
//   - When Tag==TagEmpty, Data is nil.
//   - A well-typed evaluator only ever produces values whose tag matches its
//     declared type, or Empty.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Empty is the singleton absent value.
var Empty = Value{Tag: TagEmpty}

// Primitive constructors.
func Bool(b bool) Value        { return Value{Tag: TagBool, Data: b} }
func Number(n uint64) Value    { return Value{Tag: TagNumber, Data: n} }
func Str(s string) Value       { return Value{Tag: TagString, Data: s} }
func Path(p string) Value      { return Value{Tag: TagPath, Data: p} }
func Date(t time.Time) Value   { return Value{Tag: TagDate, Data: t} }
func List(l *LazyList) Value   { return Value{Tag: TagList, Data: l} }
func Record(i *Instance) Value { return Value{Tag: TagClass, Data: i} }

// IsEmpty reports whether v is the absent sentinel.
func (v Value) IsEmpty() bool { return v.Tag == TagEmpty }

func (v Value) asBool() bool        { return v.Data.(bool) }
func (v Value) asNumber() uint64    { return v.Data.(uint64) }
func (v Value) asString() string    { return v.Data.(string) }
func (v Value) asPath() string      { return v.Data.(string) }
func (v Value) asDate() time.Time   { return v.Data.(time.Time) }
func (v Value) asList() *LazyList   { return v.Data.(*LazyList) }
func (v Value) asRecord() *Instance { return v.Data.(*Instance) }

// dateDisplayLayout is the layout used whenever a date is turned into text.
const dateDisplayLayout = "2006-01-02 15:04:05"

// Display renders the user-facing text form of a value. Empty renders as the
// empty string, which is what makes absent cells blank in tabular output.
// Displaying a list forces it.
func (v Value) Display() string {
	switch v.Tag {
	case TagEmpty:
		return ""
	case TagBool:
		return strconv.FormatBool(v.asBool())
	case TagNumber:
		return strconv.FormatUint(v.asNumber(), 10)
	case TagString:
		return v.asString()
	case TagPath:
		return v.asPath()
	case TagDate:
		return v.asDate().Format(dateDisplayLayout)
	case TagList:
		items := v.asList().Force()
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = it.Display()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TagClass:
		inst := v.asRecord()
		var b strings.Builder
		b.WriteByte('{')
		for i, f := range inst.Class.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			b.WriteString(inst.Fields[i].Display())
		}
		b.WriteByte('}')
		return b.String()
	default:
		return "<unknown>"
	}
}

// String renders a debug representation. Unlike Display it quotes strings and
// marks the empty sentinel, so test failures stay readable.
func (v Value) String() string {
	switch v.Tag {
	case TagEmpty:
		return "<empty>"
	case TagString:
		return fmt.Sprintf("%q", v.asString())
	case TagPath:
		return "@" + v.asPath()
	default:
		return v.Display()
	}
}

// Compare imposes a total order over all values. Within one tag the order is
// the natural one (false before true, numeric, bytewise, chronological,
// element-wise for lists, field-wise for records of one class). Across tags
// the tag rank decides, with Empty ranked before everything; that rank is
// arbitrary but stable, and it is what makes absent values sort first.
// Comparing lists forces both.
func Compare(a, b Value) int {
	if a.Tag != b.Tag {
		return cmpInt(int(a.Tag), int(b.Tag))
	}
	switch a.Tag {
	case TagEmpty:
		return 0
	case TagBool:
		return cmpBool(a.asBool(), b.asBool())
	case TagNumber:
		return cmpUint(a.asNumber(), b.asNumber())
	case TagString:
		return strings.Compare(a.asString(), b.asString())
	case TagPath:
		return strings.Compare(a.asPath(), b.asPath())
	case TagDate:
		ta, tb := a.asDate(), b.asDate()
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		default:
			return 0
		}
	case TagList:
		return compareLists(a.asList(), b.asList())
	case TagClass:
		return compareRecords(a.asRecord(), b.asRecord())
	default:
		return 0
	}
}

// Equal reports value equality. Records of different class types are never
// equal even when every field matches.
func Equal(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	if a.Tag == TagClass && !a.asRecord().Class.Same(b.asRecord().Class) {
		return false
	}
	return Compare(a, b) == 0
}

func compareLists(a, b *LazyList) int {
	av, bv := a.Force(), b.Force()
	n := len(av)
	if len(bv) < n {
		n = len(bv)
	}
	for i := 0; i < n; i++ {
		if c := Compare(av[i], bv[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(av), len(bv))
}

func compareRecords(a, b *Instance) int {
	if !a.Class.Same(b.Class) {
		return strings.Compare(a.Class.signature(), b.Class.signature())
	}
	for i := range a.Fields {
		if c := Compare(a.Fields[i], b.Fields[i]); c != 0 {
			return c
		}
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Checked unsigned arithmetic. The boolean result is false on overflow,
// underflow or division by zero; callers turn that into Empty.

func addChecked(a, b uint64) (uint64, bool) {
	c := a + b
	return c, c >= a
}

func subChecked(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

func mulChecked(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	return c, c/a == b
}

func divChecked(a, b uint64) (uint64, bool) {
	if b == 0 {
		return 0, false
	}
	return a / b, true
}

func modChecked(a, b uint64) (uint64, bool) {
	if b == 0 {
		return 0, false
	}
	return a % b, true
}
