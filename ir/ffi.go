package ir

import "fmt"

// FfiKind enumerates the FFI types that carry no payload.
type FfiKind int

const (
	FfiInt8 FfiKind = iota + 1
	FfiUInt8
	FfiInt16
	FfiUInt16
	FfiInt32
	FfiUInt32
	FfiInt64
	FfiUInt64
	FfiFloat32
	FfiFloat64
	FfiHandle
	FfiForeignBytes
	FfiRustCallStatus
	FfiVoidPointer
)

var ffiKindNames = map[FfiKind]string{
	FfiInt8:           "i8",
	FfiUInt8:          "u8",
	FfiInt16:          "i16",
	FfiUInt16:         "u16",
	FfiInt32:          "i32",
	FfiUInt32:         "u32",
	FfiInt64:          "i64",
	FfiUInt64:         "u64",
	FfiFloat32:        "f32",
	FfiFloat64:        "f64",
	FfiHandle:         "handle",
	FfiForeignBytes:   "foreign_bytes",
	FfiRustCallStatus: "rust_call_status",
	FfiVoidPointer:    "void_pointer",
}

func (k FfiKind) String() string {
	if name, ok := ffiKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FfiKind(%d)", int(k))
}

// FfiKindByName looks up a payload-free FFI type by description name.
func FfiKindByName(name string) (FfiKind, bool) {
	for k, n := range ffiKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// IsNumeric reports whether the kind is an integer or float.
func (k FfiKind) IsNumeric() bool { return k >= FfiInt8 && k <= FfiFloat64 }

// FfiType is a low-level type crossing the native boundary.
type FfiType interface {
	String() string
	ffiType()
}

// FfiBasic is a payload-free FFI type.
type FfiBasic struct{ Kind FfiKind }

func (t FfiBasic) String() string { return t.Kind.String() }
func (FfiBasic) ffiType()         {}

// FfiRustArcPtr is an opaque pointer to a native object.
type FfiRustArcPtr struct{ Object string }

func (t FfiRustArcPtr) String() string { return "rust_arc_ptr(" + t.Object + ")" }
func (FfiRustArcPtr) ffiType()         {}

// FfiRustBuffer is a native-owned byte buffer. Suffix distinguishes the
// buffer types of external components.
type FfiRustBuffer struct{ Suffix string }

func (t FfiRustBuffer) String() string {
	if t.Suffix == "" {
		return "rust_buffer"
	}
	return "rust_buffer(" + t.Suffix + ")"
}
func (FfiRustBuffer) ffiType() {}

// FfiCallback is a function pointer to a named FFI callback.
type FfiCallback struct{ Name string }

func (t FfiCallback) String() string { return "callback(" + t.Name + ")" }
func (FfiCallback) ffiType()         {}

// FfiStruct is a named FFI struct passed by value.
type FfiStruct struct{ Name string }

func (t FfiStruct) String() string { return "struct(" + t.Name + ")" }
func (FfiStruct) ffiType()         {}

// FfiReference is a pointer to Inner.
type FfiReference struct{ Inner FfiType }

func (t FfiReference) String() string { return "reference(" + t.Inner.String() + ")" }
func (FfiReference) ffiType()         {}

// FfiArgument is a named FFI parameter or struct field.
type FfiArgument struct {
	Name string
	Type FfiType
}

// FfiFunction is a native function exported by the component library.
type FfiFunction struct {
	Name      string
	Arguments []FfiArgument
	// ReturnType is nil for void functions.
	ReturnType FfiType
	// HasRustCallStatus adds a trailing out-parameter for the call status.
	HasRustCallStatus bool
}

// FfiCallbackDef is a function pointer signature native code calls into.
type FfiCallbackDef struct {
	Name              string
	Arguments         []FfiArgument
	ReturnType        FfiType
	HasRustCallStatus bool
}

// FfiStructDef is a C struct layout, typically a callback vtable.
type FfiStructDef struct {
	Name   string
	Fields []FfiArgument
}

// FfiDefinition is either an *FfiCallbackDef or an *FfiStructDef, kept in
// declaration order since later definitions refer to earlier ones.
type FfiDefinition interface {
	DefinitionName() string
}

func (d *FfiCallbackDef) DefinitionName() string { return d.Name }
func (d *FfiStructDef) DefinitionName() string   { return d.Name }

var primitiveFfi = map[PrimitiveKind]FfiKind{
	Int8:    FfiInt8,
	UInt8:   FfiUInt8,
	Int16:   FfiInt16,
	UInt16:  FfiUInt16,
	Int32:   FfiInt32,
	UInt32:  FfiUInt32,
	Int64:   FfiInt64,
	UInt64:  FfiUInt64,
	Float32: FfiFloat32,
	Float64: FfiFloat64,
	Boolean: FfiInt8,
}

// FfiTypeOf returns the FFI type values of t are lowered to. Everything
// without a scalar or pointer form travels in a RustBuffer.
func FfiTypeOf(t Type) FfiType {
	switch t := t.(type) {
	case Primitive:
		if k, ok := primitiveFfi[t.Prim]; ok {
			return FfiBasic{Kind: k}
		}
		return FfiRustBuffer{}
	case Object:
		return FfiRustArcPtr{Object: t.Name}
	case CallbackInterface:
		return FfiBasic{Kind: FfiUInt64}
	case External:
		if t.ExtKind == ExternalDataClass {
			return FfiRustBuffer{Suffix: t.Name}
		}
		return FfiRustArcPtr{Object: t.Name}
	case Custom:
		return FfiTypeOf(t.Builtin)
	default:
		return FfiRustBuffer{}
	}
}
