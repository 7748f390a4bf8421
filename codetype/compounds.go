package codetype

import (
	"github.com/teranos/javabind/ir"
)

type optionalType struct {
	typ   ir.Optional
	inner CodeType
}

func (o *optionalType) Type() ir.Type            { return o.typ }
func (o *optionalType) Inner() CodeType          { return o.inner }
func (o *optionalType) TypeLabel() string        { return o.inner.TypeLabel() }
func (o *optionalType) CanonicalName() string    { return "Optional" + o.inner.CanonicalName() }
func (o *optionalType) FfiConverterName() string { return "FfiConverter" + o.CanonicalName() }
func (o *optionalType) Imports() []Import        { return o.inner.Imports() }
func (o *optionalType) InitializationFn() string { return "" }
func (o *optionalType) FfiConverterInstance() string {
	return o.FfiConverterName() + ".INSTANCE"
}

func (o *optionalType) Literal(lit ir.Literal) (string, error) {
	switch l := lit.(type) {
	case ir.LitNone:
		return "null", nil
	case ir.LitSome:
		return o.inner.Literal(l.Inner)
	}
	return "", literalMismatch(lit, o.typ)
}

type sequenceType struct {
	typ   ir.Sequence
	inner CodeType
}

func (s *sequenceType) Type() ir.Type            { return s.typ }
func (s *sequenceType) Inner() CodeType          { return s.inner }
func (s *sequenceType) TypeLabel() string        { return "List<" + s.inner.TypeLabel() + ">" }
func (s *sequenceType) CanonicalName() string    { return "Sequence" + s.inner.CanonicalName() }
func (s *sequenceType) FfiConverterName() string { return "FfiConverter" + s.CanonicalName() }
func (s *sequenceType) InitializationFn() string { return "" }
func (s *sequenceType) FfiConverterInstance() string {
	return s.FfiConverterName() + ".INSTANCE"
}

func (s *sequenceType) Imports() []Import {
	return append([]Import{{Name: "java.util.List"}}, s.inner.Imports()...)
}

func (s *sequenceType) Literal(lit ir.Literal) (string, error) {
	if _, ok := lit.(ir.LitEmptySequence); ok {
		return "List.of()", nil
	}
	return "", literalMismatch(lit, s.typ)
}

type mapType struct {
	typ   ir.Map
	key   CodeType
	value CodeType
}

func (m *mapType) Type() ir.Type   { return m.typ }
func (m *mapType) Key() CodeType   { return m.key }
func (m *mapType) Value() CodeType { return m.value }

// CanonicalName separates key and value with "$", which no interface
// identifier contains, so Map<A, BC> and Map<AB, C> stay distinct.
func (m *mapType) CanonicalName() string {
	return "Map" + m.key.CanonicalName() + "$" + m.value.CanonicalName()
}
func (m *mapType) FfiConverterName() string { return "FfiConverter" + m.CanonicalName() }
func (m *mapType) InitializationFn() string { return "" }
func (m *mapType) FfiConverterInstance() string {
	return m.FfiConverterName() + ".INSTANCE"
}

func (m *mapType) TypeLabel() string {
	return "Map<" + m.key.TypeLabel() + ", " + m.value.TypeLabel() + ">"
}

func (m *mapType) Imports() []Import {
	imports := []Import{{Name: "java.util.Map"}}
	imports = append(imports, m.key.Imports()...)
	return append(imports, m.value.Imports()...)
}

func (m *mapType) Literal(lit ir.Literal) (string, error) {
	if _, ok := lit.(ir.LitEmptyMap); ok {
		return "Map.of()", nil
	}
	return "", literalMismatch(lit, m.typ)
}
