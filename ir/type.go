// Package ir defines the interface model consumed by the generator: the closed
// set of interface types, literal values, low-level FFI types and the
// component interface that ties them to definitions.
//
// All unions are sealed. Consumers switch over the concrete types and the
// compiler-visible set of cases is the whole model.
package ir

import (
	"fmt"
	"strings"
)

// TypeKind discriminates Type variants.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindEnum
	KindRecord
	KindObject
	KindCallbackInterface
	KindOptional
	KindSequence
	KindMap
	KindExternal
	KindCustom
)

func (k TypeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindObject:
		return "object"
	case KindCallbackInterface:
		return "callback_interface"
	case KindOptional:
		return "optional"
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	case KindExternal:
		return "external"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
}

// Type is an interface type. The set of implementations is closed.
type Type interface {
	Kind() TypeKind
	// String renders the type for diagnostics. Distinct types render
	// distinctly, so it doubles as a stable identity key.
	String() string
	sealed()
}

// PrimitiveKind enumerates builtin scalar and value types.
type PrimitiveKind int

const (
	Int8 PrimitiveKind = iota + 1
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float32
	Float64
	Boolean
	String
	Bytes
	Timestamp
	Duration
)

var primitiveNames = map[PrimitiveKind]string{
	Int8:      "i8",
	UInt8:     "u8",
	Int16:     "i16",
	UInt16:    "u16",
	Int32:     "i32",
	UInt32:    "u32",
	Int64:     "i64",
	UInt64:    "u64",
	Float32:   "f32",
	Float64:   "f64",
	Boolean:   "bool",
	String:    "string",
	Bytes:     "bytes",
	Timestamp: "timestamp",
	Duration:  "duration",
}

func (k PrimitiveKind) String() string {
	if name, ok := primitiveNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PrimitiveKind(%d)", int(k))
}

// PrimitiveKindByName looks up a primitive by its description name ("u32", "string").
func PrimitiveKindByName(name string) (PrimitiveKind, bool) {
	for k, n := range primitiveNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// IsInteger reports whether the kind is a fixed-width integer.
func (k PrimitiveKind) IsInteger() bool {
	return k >= Int8 && k <= UInt64
}

// IsUnsigned reports whether the kind is an unsigned integer.
func (k PrimitiveKind) IsUnsigned() bool {
	return k == UInt8 || k == UInt16 || k == UInt32 || k == UInt64
}

// Primitive is a builtin type.
type Primitive struct {
	Prim PrimitiveKind
}

// Prim returns the primitive type of kind k.
func Prim(k PrimitiveKind) Primitive { return Primitive{Prim: k} }

func (Primitive) Kind() TypeKind   { return KindPrimitive }
func (t Primitive) String() string { return t.Prim.String() }
func (Primitive) sealed()          {}

// Enum references an enum (or error enum) definition by name.
type Enum struct {
	Name string
	// ModulePath is the owning crate's module path, "crate::module".
	// Empty means the type belongs to the component being generated.
	ModulePath string
}

func (Enum) Kind() TypeKind   { return KindEnum }
func (t Enum) String() string { return qualified("enum", t.ModulePath, t.Name) }
func (Enum) sealed()          {}

// Record references a record definition by name.
type Record struct {
	Name       string
	ModulePath string
}

func (Record) Kind() TypeKind   { return KindRecord }
func (t Record) String() string { return qualified("record", t.ModulePath, t.Name) }
func (Record) sealed()          {}

// ObjectImpl describes how an object is implemented.
type ObjectImpl int

const (
	// ImplStruct is a concrete native struct.
	ImplStruct ObjectImpl = iota
	// ImplTrait is a native trait object.
	ImplTrait
	// ImplCallbackTrait is a trait that foreign code may also implement.
	ImplCallbackTrait
)

func (i ObjectImpl) String() string {
	switch i {
	case ImplTrait:
		return "trait"
	case ImplCallbackTrait:
		return "callback_trait"
	default:
		return "struct"
	}
}

// HasCallbackInterface reports whether foreign code can implement the object.
func (i ObjectImpl) HasCallbackInterface() bool { return i == ImplCallbackTrait }

// Object references an object (interface) definition by name.
type Object struct {
	Name       string
	ModulePath string
	Impl       ObjectImpl
}

func (Object) Kind() TypeKind { return KindObject }
func (t Object) String() string {
	return qualified("object", t.ModulePath, t.Name) + "@" + t.Impl.String()
}
func (Object) sealed() {}

// CallbackInterface references a callback interface definition by name.
type CallbackInterface struct {
	Name       string
	ModulePath string
}

func (CallbackInterface) Kind() TypeKind   { return KindCallbackInterface }
func (t CallbackInterface) String() string { return qualified("callback", t.ModulePath, t.Name) }
func (CallbackInterface) sealed()          {}

// Optional is a nullable wrapper.
type Optional struct {
	Inner Type
}

func (Optional) Kind() TypeKind   { return KindOptional }
func (t Optional) String() string { return "optional<" + typeString(t.Inner) + ">" }
func (Optional) sealed()          {}

// Sequence is an ordered list.
type Sequence struct {
	Inner Type
}

func (Sequence) Kind() TypeKind   { return KindSequence }
func (t Sequence) String() string { return "sequence<" + typeString(t.Inner) + ">" }
func (Sequence) sealed()          {}

// Map is a key/value map.
type Map struct {
	Key   Type
	Value Type
}

func (Map) Kind() TypeKind { return KindMap }
func (t Map) String() string {
	return "map<" + typeString(t.Key) + ", " + typeString(t.Value) + ">"
}
func (Map) sealed() {}

// ExternalKind says what an external type is on its owning side.
type ExternalKind int

const (
	ExternalDataClass ExternalKind = iota
	ExternalInterface
	ExternalTrait
)

func (k ExternalKind) String() string {
	switch k {
	case ExternalInterface:
		return "interface"
	case ExternalTrait:
		return "trait"
	default:
		return "data"
	}
}

// External is a type defined by another component.
type External struct {
	Name string
	// ModulePath of the owning component, "crate::module".
	ModulePath string
	// Namespace of the owning component.
	Namespace string
	ExtKind   ExternalKind
}

func (External) Kind() TypeKind { return KindExternal }
func (t External) String() string {
	return qualified("external", t.ModulePath, t.Name) + "/" + t.Namespace
}
func (External) sealed() {}

// Crate returns the crate segment of the owning module path.
func (t External) Crate() string { return CrateOf(t.ModulePath) }

// Custom is a newtype over a builtin type with optional conversion code.
type Custom struct {
	Name       string
	ModulePath string
	Builtin    Type
}

func (Custom) Kind() TypeKind { return KindCustom }
func (t Custom) String() string {
	return qualified("custom", t.ModulePath, t.Name) + "<" + typeString(t.Builtin) + ">"
}
func (Custom) sealed() {}

// CrateOf returns the crate part of a "crate::module" path.
func CrateOf(modulePath string) string {
	crate, _, _ := strings.Cut(modulePath, "::")
	return crate
}

// NameOf returns the declared name of a named type, or "" for builtins and compounds.
func NameOf(t Type) string {
	switch t := t.(type) {
	case Enum:
		return t.Name
	case Record:
		return t.Name
	case Object:
		return t.Name
	case CallbackInterface:
		return t.Name
	case External:
		return t.Name
	case Custom:
		return t.Name
	default:
		return ""
	}
}

// ModulePathOf returns the module path of a named type, or "".
func ModulePathOf(t Type) string {
	switch t := t.(type) {
	case Enum:
		return t.ModulePath
	case Record:
		return t.ModulePath
	case Object:
		return t.ModulePath
	case CallbackInterface:
		return t.ModulePath
	case External:
		return t.ModulePath
	case Custom:
		return t.ModulePath
	default:
		return ""
	}
}

// typeString renders a nested type, tolerating a missing one so that a
// malformed model reaches the oracle's error instead of panicking here.
func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func qualified(tag, modulePath, name string) string {
	if modulePath == "" {
		return tag + ":" + name
	}
	return tag + ":" + modulePath + "::" + name
}
