// types.go
//
// The static type model. Every evaluator node carries exactly one ValueType,
// fixed while the expression is built; evaluation never re-derives types.
// Structural equality is the only notion of type identity: two list types
// match when their item types match, two class types match when their ordered
// field lists match (see ClassType.Same in class.go).
package findit

import "strings"

// ValueType is the closed static type of an expression.
//
//   - Tag is the kind, mirroring ValueTag.
//   - Item is set only when Tag==TagList.
//   - Class is set only when Tag==TagClass.
type ValueType struct {
	Tag   ValueTag
	Item  *ValueType
	Class *ClassType
}

// The scalar types, predeclared for convenience.
var (
	TypeEmpty  = ValueType{Tag: TagEmpty}
	TypeBool   = ValueType{Tag: TagBool}
	TypeNumber = ValueType{Tag: TagNumber}
	TypeString = ValueType{Tag: TagString}
	TypePath   = ValueType{Tag: TagPath}
	TypeDate   = ValueType{Tag: TagDate}
)

// ListOf builds the type of a list whose items have type item.
func ListOf(item ValueType) ValueType {
	it := item
	return ValueType{Tag: TagList, Item: &it}
}

// ClassOf builds the type of records of the given class.
func ClassOf(ct *ClassType) ValueType {
	return ValueType{Tag: TagClass, Class: ct}
}

// ItemType returns the item type of a list type, and TypeEmpty otherwise.
func (t ValueType) ItemType() ValueType {
	if t.Tag == TagList && t.Item != nil {
		return *t.Item
	}
	return TypeEmpty
}

// Same reports structural equality.
func (t ValueType) Same(o ValueType) bool {
	if t.Tag != o.Tag {
		return false
	}
	switch t.Tag {
	case TagList:
		return t.ItemType().Same(o.ItemType())
	case TagClass:
		return t.Class.Same(o.Class)
	default:
		return true
	}
}

// String renders the type the way error messages spell it, e.g.
// "LIST OF NUMBER" or "CLASS {key: STRING, items: LIST OF NUMBER}".
func (t ValueType) String() string {
	switch t.Tag {
	case TagList:
		return "LIST OF " + t.ItemType().String()
	case TagClass:
		if t.Class == nil {
			return "CLASS {}"
		}
		var b strings.Builder
		b.WriteString("CLASS {")
		for i, f := range t.Class.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			b.WriteString(f.Type.String())
		}
		b.WriteByte('}')
		return b.String()
	default:
		return t.Tag.String()
	}
}
