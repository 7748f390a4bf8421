package ir

import "sort"

// DefaultContractVersion is the native contract version generated bindings check against.
const DefaultContractVersion = 26

// Argument is a callable parameter.
type Argument struct {
	Name string
	Type Type
	// Default is nil when the argument has no default value.
	Default Literal
}

// Field is a record field or an enum variant field.
type Field struct {
	Name      string
	Type      Type
	Default   Literal
	Docstring string
}

// Callable is a function, constructor or method signature.
type Callable struct {
	Name      string
	Arguments []Argument
	// ReturnType is nil for void callables.
	ReturnType Type
	// ThrowsType is nil when the callable cannot fail.
	ThrowsType Type
	IsAsync    bool
	// FfiFunc is the native symbol invoked for exported callables. For
	// callback interface methods it names the FFI callback definition.
	FfiFunc   string
	Docstring string
}

// Constructor names an object constructor. The one named "new" is primary.
type Constructor = Callable

// IsPrimaryConstructor reports whether c is the object's default constructor.
func IsPrimaryConstructor(c *Callable) bool { return c.Name == "new" }

// Variant is an enum variant.
type Variant struct {
	Name   string
	Fields []Field
	// Discr is the explicit discriminant, nil when implied by position.
	Discr     Literal
	Docstring string
}

// HasFields reports whether the variant carries data.
func (v *Variant) HasFields() bool { return len(v.Fields) > 0 }

// EnumDef is an enum or error enum.
type EnumDef struct {
	Name       string
	ModulePath string
	Variants   []Variant
	// Flat enums carry no variant data (errors: variants lift as messages).
	Flat bool
	// DiscrType is the declared discriminant type, nil for the default.
	DiscrType Type
	Docstring string
}

// IsFlat reports whether the enum renders as a plain Java enum (or, for
// errors, as message-only exceptions).
func (e *EnumDef) IsFlat() bool {
	if e.Flat {
		return true
	}
	for i := range e.Variants {
		if e.Variants[i].HasFields() {
			return false
		}
	}
	return true
}

// RecordDef is a plain data record.
type RecordDef struct {
	Name       string
	ModulePath string
	Fields     []Field
	Docstring  string
}

// TraitKind enumerates the native traits an object may expose.
type TraitKind int

const (
	TraitDisplay TraitKind = iota
	TraitDebug
	TraitEq
	TraitHash
)

func (k TraitKind) String() string {
	switch k {
	case TraitDebug:
		return "debug"
	case TraitEq:
		return "eq"
	case TraitHash:
		return "hash"
	default:
		return "display"
	}
}

// UniffiTrait is a native trait implementation surfaced on an object.
// Eq carries both Method (eq) and Ne; the others carry only Method.
type UniffiTrait struct {
	Kind   TraitKind
	Method Callable
	Ne     *Callable
}

// ObjectDef is a native object exposed through an opaque pointer.
type ObjectDef struct {
	Name         string
	ModulePath   string
	Impl         ObjectImpl
	Constructors []Callable
	Methods      []Callable
	Traits       []UniffiTrait
	FfiFree      string
	FfiClone     string
	// VTable and FfiInitCallback are set for callback traits.
	VTable          string
	FfiInitCallback string
	Docstring       string
}

// PrimaryConstructor returns the "new" constructor, or nil.
func (o *ObjectDef) PrimaryConstructor() *Callable {
	for i := range o.Constructors {
		if IsPrimaryConstructor(&o.Constructors[i]) {
			return &o.Constructors[i]
		}
	}
	return nil
}

// AlternateConstructors returns every constructor except the primary one.
func (o *ObjectDef) AlternateConstructors() []*Callable {
	var out []*Callable
	for i := range o.Constructors {
		if !IsPrimaryConstructor(&o.Constructors[i]) {
			out = append(out, &o.Constructors[i])
		}
	}
	return out
}

// Trait returns the trait of kind k, or nil.
func (o *ObjectDef) Trait(k TraitKind) *UniffiTrait {
	for i := range o.Traits {
		if o.Traits[i].Kind == k {
			return &o.Traits[i]
		}
	}
	return nil
}

// HasCallbackInterface reports whether foreign code may implement the object.
func (o *ObjectDef) HasCallbackInterface() bool { return o.Impl.HasCallbackInterface() }

// AsType returns the Type that references this object.
func (o *ObjectDef) AsType() Object {
	return Object{Name: o.Name, ModulePath: o.ModulePath, Impl: o.Impl}
}

// CallbackInterfaceDef is an interface implemented by foreign code.
type CallbackInterfaceDef struct {
	Name       string
	ModulePath string
	// Methods carry the FFI callback definition name in FfiFunc.
	Methods         []Callable
	VTable          string
	FfiInitCallback string
	Docstring       string
}

// Checksum pairs a checksum function with its expected value.
type Checksum struct {
	Function string
	Value    uint16
}

// ComponentInterface is the full public surface of one component.
type ComponentInterface struct {
	Namespace          string
	CrateName          string
	Docstring          string
	ContractVersion    int
	Enums              []EnumDef
	Records            []RecordDef
	Objects            []ObjectDef
	CallbackInterfaces []CallbackInterfaceDef
	Functions          []Callable
	// Errors lists the type names thrown by any callable.
	Errors         []string
	FfiFunctions   []FfiFunction
	FfiDefinitions []FfiDefinition
	Checksums      []Checksum

	// Optional overrides of the derived FFI symbol names.
	FfiContractVersionFn string
	FfiRustBufferAlloc   string
	FfiRustBufferFree    string
}

// Crate returns the crate identity, falling back to the namespace.
func (ci *ComponentInterface) Crate() string {
	if ci.CrateName != "" {
		return ci.CrateName
	}
	return ci.Namespace
}

// UniffiContractVersion returns the contract version bindings are built for.
func (ci *ComponentInterface) UniffiContractVersion() int {
	if ci.ContractVersion > 0 {
		return ci.ContractVersion
	}
	return DefaultContractVersion
}

func (ci *ComponentInterface) ContractVersionFn() string {
	if ci.FfiContractVersionFn != "" {
		return ci.FfiContractVersionFn
	}
	return "ffi_" + ci.Crate() + "_uniffi_contract_version"
}

func (ci *ComponentInterface) RustBufferAllocFn() string {
	if ci.FfiRustBufferAlloc != "" {
		return ci.FfiRustBufferAlloc
	}
	return "ffi_" + ci.Crate() + "_rustbuffer_alloc"
}

func (ci *ComponentInterface) RustBufferFreeFn() string {
	if ci.FfiRustBufferFree != "" {
		return ci.FfiRustBufferFree
	}
	return "ffi_" + ci.Crate() + "_rustbuffer_free"
}

// IsNameUsedAsError reports whether name is thrown by some callable.
func (ci *ComponentInterface) IsNameUsedAsError(name string) bool {
	for _, e := range ci.Errors {
		if e == name {
			return true
		}
	}
	return false
}

// EnumDefinition looks up an enum by name.
func (ci *ComponentInterface) EnumDefinition(name string) *EnumDef {
	for i := range ci.Enums {
		if ci.Enums[i].Name == name {
			return &ci.Enums[i]
		}
	}
	return nil
}

// RecordDefinition looks up a record by name.
func (ci *ComponentInterface) RecordDefinition(name string) *RecordDef {
	for i := range ci.Records {
		if ci.Records[i].Name == name {
			return &ci.Records[i]
		}
	}
	return nil
}

// ObjectDefinition looks up an object by name.
func (ci *ComponentInterface) ObjectDefinition(name string) *ObjectDef {
	for i := range ci.Objects {
		if ci.Objects[i].Name == name {
			return &ci.Objects[i]
		}
	}
	return nil
}

// CallbackInterfaceDefinition looks up a callback interface by name.
func (ci *ComponentInterface) CallbackInterfaceDefinition(name string) *CallbackInterfaceDef {
	for i := range ci.CallbackInterfaces {
		if ci.CallbackInterfaces[i].Name == name {
			return &ci.CallbackInterfaces[i]
		}
	}
	return nil
}

// ContainsObjectTypes reports whether the component defines any objects.
func (ci *ComponentInterface) ContainsObjectTypes() bool { return len(ci.Objects) > 0 }

// HasAsyncCallables reports whether any callable is async.
func (ci *ComponentInterface) HasAsyncCallables() bool {
	for _, c := range ci.AllCallables() {
		if c.IsAsync {
			return true
		}
	}
	return false
}

// AllCallables returns every function, constructor and method, in declaration order.
func (ci *ComponentInterface) AllCallables() []*Callable {
	var out []*Callable
	for i := range ci.Functions {
		out = append(out, &ci.Functions[i])
	}
	for i := range ci.Objects {
		o := &ci.Objects[i]
		for j := range o.Constructors {
			out = append(out, &o.Constructors[j])
		}
		for j := range o.Methods {
			out = append(out, &o.Methods[j])
		}
		for j := range o.Traits {
			out = append(out, &o.Traits[j].Method)
			if o.Traits[j].Ne != nil {
				out = append(out, o.Traits[j].Ne)
			}
		}
	}
	for i := range ci.CallbackInterfaces {
		cb := &ci.CallbackInterfaces[i]
		for j := range cb.Methods {
			out = append(out, &cb.Methods[j])
		}
	}
	return out
}

// FfiCallbacks returns the FFI callback definitions in declaration order.
func (ci *ComponentInterface) FfiCallbacks() []*FfiCallbackDef {
	var out []*FfiCallbackDef
	for _, d := range ci.FfiDefinitions {
		if cb, ok := d.(*FfiCallbackDef); ok {
			out = append(out, cb)
		}
	}
	return out
}

// FfiStructs returns the FFI struct definitions in declaration order.
func (ci *ComponentInterface) FfiStructs() []*FfiStructDef {
	var out []*FfiStructDef
	for _, d := range ci.FfiDefinitions {
		if st, ok := d.(*FfiStructDef); ok {
			out = append(out, st)
		}
	}
	return out
}

// SortedChecksums returns checksums ordered by function name.
func (ci *ComponentInterface) SortedChecksums() []Checksum {
	out := append([]Checksum(nil), ci.Checksums...)
	sort.Slice(out, func(i, j int) bool { return out[i].Function < out[j].Function })
	return out
}

// OwnsType reports whether t is defined by this component rather than
// referenced from another crate.
func (ci *ComponentInterface) OwnsType(t Type) bool {
	if _, ok := t.(External); ok {
		return false
	}
	mp := ModulePathOf(t)
	if mp == "" {
		return true
	}
	return CrateOf(mp) == ci.Crate()
}
