package codetype

import (
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
)

var primitiveLabels = map[ir.PrimitiveKind]string{
	ir.Int8:      "Byte",
	ir.UInt8:     "Byte",
	ir.Int16:     "Short",
	ir.UInt16:    "Short",
	ir.Int32:     "Integer",
	ir.UInt32:    "Integer",
	ir.Int64:     "Long",
	ir.UInt64:    "Long",
	ir.Float32:   "Float",
	ir.Float64:   "Double",
	ir.Boolean:   "Boolean",
	ir.String:    "String",
	ir.Bytes:     "byte[]",
	ir.Timestamp: "java.time.Instant",
	ir.Duration:  "java.time.Duration",
}

// Unsigned kinds share the signed label but need their own converters.
var primitiveCanonical = map[ir.PrimitiveKind]string{
	ir.Int8:      "Byte",
	ir.UInt8:     "UByte",
	ir.Int16:     "Short",
	ir.UInt16:    "UShort",
	ir.Int32:     "Integer",
	ir.UInt32:    "UInteger",
	ir.Int64:     "Long",
	ir.UInt64:    "ULong",
	ir.Float32:   "Float",
	ir.Float64:   "Double",
	ir.Boolean:   "Boolean",
	ir.String:    "String",
	ir.Bytes:     "ByteArray",
	ir.Timestamp: "Timestamp",
	ir.Duration:  "Duration",
}

type primitiveType struct {
	typ ir.Primitive
}

func newPrimitive(t ir.Primitive) (CodeType, error) {
	if _, ok := primitiveLabels[t.Prim]; !ok {
		return nil, errors.MarkUnmappedType("no generation strategy for primitive %s", t.Prim)
	}
	return primitiveType{typ: t}, nil
}

func (p primitiveType) Type() ir.Type            { return p.typ }
func (p primitiveType) TypeLabel() string        { return primitiveLabels[p.typ.Prim] }
func (p primitiveType) CanonicalName() string    { return primitiveCanonical[p.typ.Prim] }
func (p primitiveType) FfiConverterName() string { return "FfiConverter" + p.CanonicalName() }
func (p primitiveType) Imports() []Import        { return nil }
func (p primitiveType) InitializationFn() string { return "" }
func (p primitiveType) FfiConverterInstance() string {
	return p.FfiConverterName() + ".INSTANCE"
}

func (p primitiveType) Literal(lit ir.Literal) (string, error) {
	switch l := lit.(type) {
	case ir.LitBoolean:
		if p.typ.Prim == ir.Boolean {
			if l.Value {
				return "true", nil
			}
			return "false", nil
		}
	case ir.LitString:
		if p.typ.Prim == ir.String {
			return QuoteJava(l.Value), nil
		}
	case ir.LitInt:
		if kind, ok := numberKind(l.Type, p.typ.Prim); ok {
			return renderSigned(l, kind)
		}
	case ir.LitUInt:
		if kind, ok := numberKind(l.Type, p.typ.Prim); ok {
			return renderUnsigned(l, kind), nil
		}
	case ir.LitFloat:
		if kind, ok := numberKind(l.Type, p.typ.Prim); ok && isFloat(kind) {
			return renderFloat(l.Text, kind), nil
		}
	}
	return "", literalMismatch(lit, p.typ)
}

// numberKind picks the kind a numeric literal is rendered as: its own type
// (through Optional and Custom wrappers) when it has one, else the target.
// The target itself must be numeric.
func numberKind(litType ir.Type, target ir.PrimitiveKind) (ir.PrimitiveKind, bool) {
	if !target.IsInteger() && !isFloat(target) {
		return 0, false
	}
	for litType != nil {
		switch t := litType.(type) {
		case ir.Optional:
			litType = t.Inner
		case ir.Custom:
			litType = t.Builtin
		case ir.Primitive:
			if t.Prim.IsInteger() || isFloat(t.Prim) {
				return t.Prim, true
			}
			return target, true
		default:
			return target, true
		}
	}
	return target, true
}

func isFloat(k ir.PrimitiveKind) bool {
	return k == ir.Float32 || k == ir.Float64
}
