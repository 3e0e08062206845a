// class.go — anonymous record types and their instances.
//
// A ClassType is an ordered list of named, typed fields. It is created once
// while an expression is built (record literals, enumerate, groupBy) and then
// shared by pointer between the evaluator node and every instance it makes,
// so the field-name table is never copied per row.
package findit

import "strings"

// ClassField is one named field of a class.
type ClassField struct {
	Name string
	Type ValueType
}

// ClassType is an immutable ordered field table. Field order is declaration
// order and doubles as the storage index of each field in an Instance.
type ClassType struct {
	Fields []ClassField
	byName map[string]int
}

// NewClassType builds a class from its ordered fields.
func NewClassType(fields []ClassField) *ClassType {
	ct := &ClassType{Fields: fields, byName: make(map[string]int, len(fields))}
	for i, f := range fields {
		ct.byName[f.Name] = i
	}
	return ct
}

// FieldIndex resolves a field name to its storage index.
func (ct *ClassType) FieldIndex(name string) (int, bool) {
	i, ok := ct.byName[name]
	return i, ok
}

// Same reports structural equality: same field names, same field types, in
// the same order.
func (ct *ClassType) Same(o *ClassType) bool {
	if ct == o {
		return true
	}
	if ct == nil || o == nil || len(ct.Fields) != len(o.Fields) {
		return false
	}
	for i, f := range ct.Fields {
		if f.Name != o.Fields[i].Name || !f.Type.Same(o.Fields[i].Type) {
			return false
		}
	}
	return true
}

// signature is a stable text form used to order instances of structurally
// different classes against each other.
func (ct *ClassType) signature() string {
	var b strings.Builder
	for i, f := range ct.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Name)
		b.WriteByte(':')
		b.WriteString(f.Type.String())
	}
	return b.String()
}

// Instance is one record value: a shared class handle plus the field values,
// positionally aligned with the class's field table.
type Instance struct {
	Class  *ClassType
	Fields []Value
}

// NewInstance pairs a class with its field values.
func NewInstance(ct *ClassType, fields []Value) *Instance {
	return &Instance{Class: ct, Fields: fields}
}

// Field returns the value stored at index i.
func (in *Instance) Field(i int) Value {
	if i < 0 || i >= len(in.Fields) {
		return Empty
	}
	return in.Fields[i]
}
