package ir

import "strconv"

// Radix is the base an integer literal was written in.
type Radix int

const (
	Decimal Radix = iota
	Octal
	Hexadecimal
)

func (r Radix) String() string {
	switch r {
	case Octal:
		return "octal"
	case Hexadecimal:
		return "hex"
	default:
		return "decimal"
	}
}

// Literal is a default value attached to a field or argument.
type Literal interface {
	// Tag names the literal variant for diagnostics.
	Tag() string
	literal()
}

type LitBoolean struct{ Value bool }

func (LitBoolean) Tag() string { return "boolean" }
func (LitBoolean) literal()    {}

type LitString struct{ Value string }

func (LitString) Tag() string { return "string" }
func (LitString) literal()    {}

// LitInt is a signed integer literal typed against Type.
type LitInt struct {
	Value int64
	Radix Radix
	Type  Type
}

func (LitInt) Tag() string { return "int" }
func (LitInt) literal()    {}

// LitUInt is an unsigned integer literal typed against Type.
type LitUInt struct {
	Value uint64
	Radix Radix
	Type  Type
}

func (LitUInt) Tag() string { return "uint" }
func (LitUInt) literal()    {}

// LitFloat keeps the source text so no precision is lost.
type LitFloat struct {
	Text string
	Type Type
}

func (LitFloat) Tag() string { return "float" }
func (LitFloat) literal()    {}

// LitEnum names a variant of the enum Type.
type LitEnum struct {
	Variant string
	Type    Type
}

func (LitEnum) Tag() string { return "enum" }
func (LitEnum) literal()    {}

type LitEmptySequence struct{}

func (LitEmptySequence) Tag() string { return "empty_sequence" }
func (LitEmptySequence) literal()    {}

type LitEmptyMap struct{}

func (LitEmptyMap) Tag() string { return "empty_map" }
func (LitEmptyMap) literal()    {}

type LitNone struct{}

func (LitNone) Tag() string { return "none" }
func (LitNone) literal()    {}

type LitSome struct{ Inner Literal }

func (LitSome) Tag() string { return "some" }
func (LitSome) literal()    {}

// LiteralString renders a literal for diagnostics and repr output.
func LiteralString(l Literal) string {
	switch l := l.(type) {
	case LitBoolean:
		return strconv.FormatBool(l.Value)
	case LitString:
		return strconv.Quote(l.Value)
	case LitInt:
		return strconv.FormatInt(l.Value, 10) + ":" + typeString(l.Type)
	case LitUInt:
		return strconv.FormatUint(l.Value, 10) + ":" + typeString(l.Type)
	case LitFloat:
		return l.Text + ":" + typeString(l.Type)
	case LitEnum:
		return typeString(l.Type) + "." + l.Variant
	case LitEmptySequence:
		return "[]"
	case LitEmptyMap:
		return "{}"
	case LitNone:
		return "none"
	case LitSome:
		return "some(" + LiteralString(l.Inner) + ")"
	case nil:
		return "<nil>"
	default:
		return l.Tag()
	}
}
