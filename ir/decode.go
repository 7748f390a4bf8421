package ir

import (
	"io"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/teranos/javabind/errors"
)

// FormatConstraint is the range of description format versions this build reads.
const FormatConstraint = "^1.0"

// Decode reads a YAML (or JSON) stream of interface descriptions, one
// component per document.
func Decode(r io.Reader) ([]*ComponentInterface, error) {
	constraint, err := semver.NewConstraint(FormatConstraint)
	if err != nil {
		return nil, errors.Wrap(err, "invalid format constraint")
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out []*ComponentInterface
	for index := 0; ; index++ {
		var doc docComponent
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.MarkInvalidDescription(err, "document "+strconv.Itoa(index))
		}
		if err := checkFormatVersion(constraint, doc.FormatVersion); err != nil {
			return nil, errors.MarkInvalidDescription(err, "document "+strconv.Itoa(index))
		}
		ci, err := doc.build()
		if err != nil {
			return nil, errors.MarkInvalidDescription(err, "component "+doc.Namespace)
		}
		out = append(out, ci)
	}
	if len(out) == 0 {
		return nil, errors.MarkInvalidDescription(errors.New("no component in description"), "stream")
	}
	return out, nil
}

func checkFormatVersion(constraint *semver.Constraints, raw string) error {
	if raw == "" {
		return errors.WithHint(
			errors.New("missing format_version"),
			"add format_version: \"1.0\" at the top of the description",
		)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid format_version %q", raw)
	}
	if !constraint.Check(v) {
		return errors.Newf("format_version %s is not supported (want %s)", raw, FormatConstraint)
	}
	return nil
}

type docComponent struct {
	FormatVersion      string          `yaml:"format_version"`
	Namespace          string          `yaml:"namespace"`
	Crate              string          `yaml:"crate"`
	Docstring          string          `yaml:"docstring"`
	ContractVersion    int             `yaml:"contract_version"`
	Errors             []string        `yaml:"errors"`
	Enums              []docEnum       `yaml:"enums"`
	Records            []docRecord     `yaml:"records"`
	Objects            []docObject     `yaml:"objects"`
	CallbackInterfaces []docCallbackIf `yaml:"callback_interfaces"`
	Functions          []docCallable   `yaml:"functions"`
	Ffi                docFfi          `yaml:"ffi"`
	Checksums          []docChecksum   `yaml:"checksums"`
}

type docFfi struct {
	ContractVersionFn string           `yaml:"contract_version_fn"`
	RustBufferAlloc   string           `yaml:"rustbuffer_alloc"`
	RustBufferFree    string           `yaml:"rustbuffer_free"`
	Functions         []docFfiFunction `yaml:"functions"`
	Definitions       []docFfiDef      `yaml:"definitions"`
}

type docChecksum struct {
	Function string `yaml:"function"`
	Value    uint16 `yaml:"value"`
}

type docField struct {
	Name      string      `yaml:"name"`
	Type      *typeNode   `yaml:"type"`
	Default   *literalDoc `yaml:"default"`
	Docstring string      `yaml:"docstring"`
}

type docVariant struct {
	Name      string      `yaml:"name"`
	Fields    []docField  `yaml:"fields"`
	Discr     *literalDoc `yaml:"discr"`
	Docstring string      `yaml:"docstring"`
}

type docEnum struct {
	Name       string       `yaml:"name"`
	ModulePath string       `yaml:"module_path"`
	Flat       bool         `yaml:"flat"`
	DiscrType  *typeNode    `yaml:"discr_type"`
	Variants   []docVariant `yaml:"variants"`
	Docstring  string       `yaml:"docstring"`
}

type docRecord struct {
	Name       string     `yaml:"name"`
	ModulePath string     `yaml:"module_path"`
	Fields     []docField `yaml:"fields"`
	Docstring  string     `yaml:"docstring"`
}

type docCallable struct {
	Name      string     `yaml:"name"`
	Args      []docField `yaml:"args"`
	Returns   *typeNode  `yaml:"returns"`
	Throws    *typeNode  `yaml:"throws"`
	Async     bool       `yaml:"async"`
	FfiFunc   string     `yaml:"ffi_func"`
	Docstring string     `yaml:"docstring"`
}

type docTrait struct {
	Kind   string       `yaml:"kind"`
	Method docCallable  `yaml:"method"`
	Ne     *docCallable `yaml:"ne"`
}

type docObject struct {
	Name            string        `yaml:"name"`
	ModulePath      string        `yaml:"module_path"`
	Impl            string        `yaml:"impl"`
	Constructors    []docCallable `yaml:"constructors"`
	Methods         []docCallable `yaml:"methods"`
	Traits          []docTrait    `yaml:"traits"`
	FfiFree         string        `yaml:"ffi_free"`
	FfiClone        string        `yaml:"ffi_clone"`
	VTable          string        `yaml:"vtable"`
	FfiInitCallback string        `yaml:"ffi_init_callback"`
	Docstring       string        `yaml:"docstring"`
}

type docCallbackIf struct {
	Name            string        `yaml:"name"`
	ModulePath      string        `yaml:"module_path"`
	Methods         []docCallable `yaml:"methods"`
	VTable          string        `yaml:"vtable"`
	FfiInitCallback string        `yaml:"ffi_init_callback"`
	Docstring       string        `yaml:"docstring"`
}

type docFfiArg struct {
	Name string   `yaml:"name"`
	Type *ffiNode `yaml:"type"`
}

type docFfiFunction struct {
	Name       string      `yaml:"name"`
	Args       []docFfiArg `yaml:"args"`
	Returns    *ffiNode    `yaml:"returns"`
	CallStatus *bool       `yaml:"call_status"`
}

type docFfiDef struct {
	Callback *docFfiFunction `yaml:"callback"`
	Struct   *struct {
		Name   string      `yaml:"name"`
		Fields []docFfiArg `yaml:"fields"`
	} `yaml:"struct"`
}

func (d *docComponent) build() (*ComponentInterface, error) {
	if d.Namespace == "" {
		return nil, errors.New("missing namespace")
	}
	ci := &ComponentInterface{
		Namespace:            d.Namespace,
		CrateName:            d.Crate,
		Docstring:            d.Docstring,
		ContractVersion:      d.ContractVersion,
		Errors:               d.Errors,
		FfiContractVersionFn: d.Ffi.ContractVersionFn,
		FfiRustBufferAlloc:   d.Ffi.RustBufferAlloc,
		FfiRustBufferFree:    d.Ffi.RustBufferFree,
	}

	for _, e := range d.Enums {
		def := EnumDef{Name: e.Name, ModulePath: e.ModulePath, Flat: e.Flat, Docstring: e.Docstring}
		if e.DiscrType != nil {
			t, err := e.DiscrType.toType()
			if err != nil {
				return nil, errors.Wrapf(err, "enum %s discr_type", e.Name)
			}
			def.DiscrType = t
		}
		for _, v := range e.Variants {
			variant := Variant{Name: v.Name, Docstring: v.Docstring}
			fields, err := buildFields(v.Fields)
			if err != nil {
				return nil, errors.Wrapf(err, "enum %s variant %s", e.Name, v.Name)
			}
			variant.Fields = fields
			if v.Discr != nil {
				discrType := def.DiscrType
				if discrType == nil {
					discrType = Prim(UInt64)
				}
				lit, err := v.Discr.toLiteral(discrType)
				if err != nil {
					return nil, errors.Wrapf(err, "enum %s variant %s discr", e.Name, v.Name)
				}
				variant.Discr = lit
			}
			def.Variants = append(def.Variants, variant)
		}
		ci.Enums = append(ci.Enums, def)
	}

	for _, r := range d.Records {
		fields, err := buildFields(r.Fields)
		if err != nil {
			return nil, errors.Wrapf(err, "record %s", r.Name)
		}
		ci.Records = append(ci.Records, RecordDef{Name: r.Name, ModulePath: r.ModulePath, Fields: fields, Docstring: r.Docstring})
	}

	for _, o := range d.Objects {
		impl, err := parseImpl(o.Impl)
		if err != nil {
			return nil, errors.Wrapf(err, "object %s", o.Name)
		}
		def := ObjectDef{
			Name:            o.Name,
			ModulePath:      o.ModulePath,
			Impl:            impl,
			FfiFree:         o.FfiFree,
			FfiClone:        o.FfiClone,
			VTable:          o.VTable,
			FfiInitCallback: o.FfiInitCallback,
			Docstring:       o.Docstring,
		}
		if def.Constructors, err = buildCallables(o.Constructors); err != nil {
			return nil, errors.Wrapf(err, "object %s constructors", o.Name)
		}
		if def.Methods, err = buildCallables(o.Methods); err != nil {
			return nil, errors.Wrapf(err, "object %s methods", o.Name)
		}
		for _, tr := range o.Traits {
			trait, err := buildTrait(tr)
			if err != nil {
				return nil, errors.Wrapf(err, "object %s traits", o.Name)
			}
			def.Traits = append(def.Traits, trait)
		}
		ci.Objects = append(ci.Objects, def)
	}

	for _, cb := range d.CallbackInterfaces {
		methods, err := buildCallables(cb.Methods)
		if err != nil {
			return nil, errors.Wrapf(err, "callback interface %s", cb.Name)
		}
		ci.CallbackInterfaces = append(ci.CallbackInterfaces, CallbackInterfaceDef{
			Name:            cb.Name,
			ModulePath:      cb.ModulePath,
			Methods:         methods,
			VTable:          cb.VTable,
			FfiInitCallback: cb.FfiInitCallback,
			Docstring:       cb.Docstring,
		})
	}

	functions, err := buildCallables(d.Functions)
	if err != nil {
		return nil, errors.Wrap(err, "functions")
	}
	ci.Functions = functions

	for _, f := range d.Ffi.Functions {
		fn, err := buildFfiFunction(f)
		if err != nil {
			return nil, errors.Wrapf(err, "ffi function %s", f.Name)
		}
		ci.FfiFunctions = append(ci.FfiFunctions, fn)
	}
	for i, def := range d.Ffi.Definitions {
		switch {
		case def.Callback != nil:
			fn, err := buildFfiFunction(*def.Callback)
			if err != nil {
				return nil, errors.Wrapf(err, "ffi callback %s", def.Callback.Name)
			}
			cb := FfiCallbackDef(fn)
			ci.FfiDefinitions = append(ci.FfiDefinitions, &cb)
		case def.Struct != nil:
			fields, err := buildFfiArgs(def.Struct.Fields)
			if err != nil {
				return nil, errors.Wrapf(err, "ffi struct %s", def.Struct.Name)
			}
			ci.FfiDefinitions = append(ci.FfiDefinitions, &FfiStructDef{Name: def.Struct.Name, Fields: fields})
		default:
			return nil, errors.Newf("ffi definition %d is neither a callback nor a struct", i)
		}
	}

	for _, c := range d.Checksums {
		ci.Checksums = append(ci.Checksums, Checksum{Function: c.Function, Value: c.Value})
	}
	return ci, nil
}

func buildFields(docs []docField) ([]Field, error) {
	var out []Field
	for _, f := range docs {
		if f.Type == nil {
			return nil, errors.Newf("field %s has no type", f.Name)
		}
		t, err := f.Type.toType()
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name)
		}
		field := Field{Name: f.Name, Type: t, Docstring: f.Docstring}
		if f.Default != nil {
			if field.Default, err = f.Default.toLiteral(t); err != nil {
				return nil, errors.Wrapf(err, "field %s default", f.Name)
			}
		}
		out = append(out, field)
	}
	return out, nil
}

func buildCallables(docs []docCallable) ([]Callable, error) {
	var out []Callable
	for _, d := range docs {
		c, err := buildCallable(d)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func buildCallable(d docCallable) (Callable, error) {
	c := Callable{Name: d.Name, IsAsync: d.Async, FfiFunc: d.FfiFunc, Docstring: d.Docstring}
	fields, err := buildFields(d.Args)
	if err != nil {
		return c, errors.Wrapf(err, "callable %s", d.Name)
	}
	for _, f := range fields {
		c.Arguments = append(c.Arguments, Argument{Name: f.Name, Type: f.Type, Default: f.Default})
	}
	if d.Returns != nil {
		if c.ReturnType, err = d.Returns.toType(); err != nil {
			return c, errors.Wrapf(err, "callable %s return", d.Name)
		}
	}
	if d.Throws != nil {
		if c.ThrowsType, err = d.Throws.toType(); err != nil {
			return c, errors.Wrapf(err, "callable %s throws", d.Name)
		}
	}
	return c, nil
}

func buildTrait(d docTrait) (UniffiTrait, error) {
	var kind TraitKind
	switch d.Kind {
	case "display":
		kind = TraitDisplay
	case "debug":
		kind = TraitDebug
	case "eq":
		kind = TraitEq
	case "hash":
		kind = TraitHash
	default:
		return UniffiTrait{}, errors.Newf("unknown trait %q", d.Kind)
	}
	method, err := buildCallable(d.Method)
	if err != nil {
		return UniffiTrait{}, err
	}
	trait := UniffiTrait{Kind: kind, Method: method}
	if d.Ne != nil {
		ne, err := buildCallable(*d.Ne)
		if err != nil {
			return UniffiTrait{}, err
		}
		trait.Ne = &ne
	}
	return trait, nil
}

func buildFfiFunction(d docFfiFunction) (FfiFunction, error) {
	fn := FfiFunction{Name: d.Name, HasRustCallStatus: d.CallStatus == nil || *d.CallStatus}
	args, err := buildFfiArgs(d.Args)
	if err != nil {
		return fn, err
	}
	fn.Arguments = args
	if d.Returns != nil {
		if fn.ReturnType, err = d.Returns.toFfiType(); err != nil {
			return fn, errors.Wrap(err, "return")
		}
	}
	return fn, nil
}

func buildFfiArgs(docs []docFfiArg) ([]FfiArgument, error) {
	var out []FfiArgument
	for _, a := range docs {
		if a.Type == nil {
			return nil, errors.Newf("argument %s has no type", a.Name)
		}
		t, err := a.Type.toFfiType()
		if err != nil {
			return nil, errors.Wrapf(err, "argument %s", a.Name)
		}
		out = append(out, FfiArgument{Name: a.Name, Type: t})
	}
	return out, nil
}

func parseImpl(s string) (ObjectImpl, error) {
	switch s {
	case "", "struct":
		return ImplStruct, nil
	case "trait":
		return ImplTrait, nil
	case "callback_trait":
		return ImplCallbackTrait, nil
	default:
		return 0, errors.Newf("unknown object impl %q", s)
	}
}

// typeNode is the wire form of a Type: a scalar primitive name ("u32") or
// a mapping with a kind discriminator.
type typeNode struct {
	Kind       string    `yaml:"kind"`
	Name       string    `yaml:"name"`
	ModulePath string    `yaml:"module_path"`
	Namespace  string    `yaml:"namespace"`
	Impl       string    `yaml:"impl"`
	ExtKind    string    `yaml:"ext_kind"`
	Inner      *typeNode `yaml:"inner"`
	Key        *typeNode `yaml:"key"`
	Value      *typeNode `yaml:"value"`
	Builtin    *typeNode `yaml:"builtin"`
	line       int
}

func (n *typeNode) UnmarshalYAML(value *yaml.Node) error {
	n.line = value.Line
	if value.Kind == yaml.ScalarNode {
		n.Kind = value.Value
		return nil
	}
	type plain typeNode
	return value.Decode((*plain)(n))
}

func (n *typeNode) toType() (Type, error) {
	if n == nil {
		return nil, errors.New("missing type")
	}
	if k, ok := PrimitiveKindByName(n.Kind); ok {
		return Prim(k), nil
	}
	switch n.Kind {
	case "enum":
		return Enum{Name: n.Name, ModulePath: n.ModulePath}, n.requireName()
	case "record":
		return Record{Name: n.Name, ModulePath: n.ModulePath}, n.requireName()
	case "object":
		impl, err := parseImpl(n.Impl)
		if err != nil {
			return nil, err
		}
		return Object{Name: n.Name, ModulePath: n.ModulePath, Impl: impl}, n.requireName()
	case "callback", "callback_interface":
		return CallbackInterface{Name: n.Name, ModulePath: n.ModulePath}, n.requireName()
	case "optional":
		inner, err := n.Inner.toType()
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: optional", n.line)
		}
		return Optional{Inner: inner}, nil
	case "sequence":
		inner, err := n.Inner.toType()
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: sequence", n.line)
		}
		return Sequence{Inner: inner}, nil
	case "map":
		key, err := n.Key.toType()
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: map key", n.line)
		}
		val, err := n.Value.toType()
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: map value", n.line)
		}
		return Map{Key: key, Value: val}, nil
	case "external":
		if n.ModulePath == "" && n.Namespace == "" {
			return nil, errors.Newf("line %d: external type %s needs module_path or namespace", n.line, n.Name)
		}
		var kind ExternalKind
		switch n.ExtKind {
		case "", "data":
			kind = ExternalDataClass
		case "interface":
			kind = ExternalInterface
		case "trait":
			kind = ExternalTrait
		default:
			return nil, errors.Newf("line %d: unknown external kind %q", n.line, n.ExtKind)
		}
		return External{Name: n.Name, ModulePath: n.ModulePath, Namespace: n.Namespace, ExtKind: kind}, n.requireName()
	case "custom":
		builtin, err := n.Builtin.toType()
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: custom %s builtin", n.line, n.Name)
		}
		return Custom{Name: n.Name, ModulePath: n.ModulePath, Builtin: builtin}, n.requireName()
	default:
		return nil, errors.Newf("line %d: unknown type kind %q", n.line, n.Kind)
	}
}

func (n *typeNode) requireName() error {
	if n.Name == "" {
		return errors.Newf("line %d: %s type needs a name", n.line, n.Kind)
	}
	return nil
}

// ffiNode is the wire form of an FfiType.
type ffiNode struct {
	Kind   string   `yaml:"kind"`
	Name   string   `yaml:"name"`
	Suffix string   `yaml:"suffix"`
	Inner  *ffiNode `yaml:"inner"`
}

func (n *ffiNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		n.Kind = value.Value
		return nil
	}
	type plain ffiNode
	return value.Decode((*plain)(n))
}

func (n *ffiNode) toFfiType() (FfiType, error) {
	if n == nil {
		return nil, errors.New("missing ffi type")
	}
	if k, ok := FfiKindByName(n.Kind); ok {
		return FfiBasic{Kind: k}, nil
	}
	switch n.Kind {
	case "rust_arc_ptr":
		return FfiRustArcPtr{Object: n.Name}, nil
	case "rust_buffer":
		return FfiRustBuffer{Suffix: n.Suffix}, nil
	case "callback":
		return FfiCallback{Name: n.Name}, nil
	case "struct":
		return FfiStruct{Name: n.Name}, nil
	case "reference":
		inner, err := n.Inner.toFfiType()
		if err != nil {
			return nil, errors.Wrap(err, "reference")
		}
		return FfiReference{Inner: inner}, nil
	default:
		return nil, errors.Newf("unknown ffi type %q", n.Kind)
	}
}

// literalDoc is the wire form of a Literal. Scalars are shorthand for
// booleans, strings and numbers typed against the owning field.
type literalDoc struct {
	Kind    string      `yaml:"kind"`
	Value   string      `yaml:"value"`
	Radix   string      `yaml:"radix"`
	Variant string      `yaml:"variant"`
	Inner   *literalDoc `yaml:"inner"`
	scalar  *yaml.Node
}

func (l *literalDoc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		l.scalar = value
		return nil
	}
	type plain literalDoc
	return value.Decode((*plain)(l))
}

// toLiteral resolves the literal against the type of the field it defaults.
func (l *literalDoc) toLiteral(t Type) (Literal, error) {
	if l.scalar != nil {
		return scalarLiteral(l.scalar, t)
	}
	switch l.Kind {
	case "boolean":
		b, err := strconv.ParseBool(l.Value)
		if err != nil {
			return nil, errors.Wrap(err, "boolean literal")
		}
		return LitBoolean{Value: b}, nil
	case "string":
		return LitString{Value: l.Value}, nil
	case "int", "uint":
		return intLiteral(l.Kind == "uint", l.Value, l.Radix, t)
	case "float":
		if _, err := strconv.ParseFloat(l.Value, 64); err != nil {
			return nil, errors.Wrap(err, "float literal")
		}
		return LitFloat{Text: l.Value, Type: t}, nil
	case "enum":
		return LitEnum{Variant: l.Variant, Type: t}, nil
	case "empty_sequence":
		return LitEmptySequence{}, nil
	case "empty_map":
		return LitEmptyMap{}, nil
	case "none", "null":
		return LitNone{}, nil
	case "some":
		innerType := t
		if opt, ok := t.(Optional); ok {
			innerType = opt.Inner
		}
		inner, err := l.Inner.toLiteral(innerType)
		if err != nil {
			return nil, errors.Wrap(err, "some")
		}
		return LitSome{Inner: inner}, nil
	default:
		return nil, errors.Newf("unknown literal kind %q", l.Kind)
	}
}

func scalarLiteral(n *yaml.Node, t Type) (Literal, error) {
	base := t
	if opt, ok := t.(Optional); ok {
		if n.Tag == "!!null" {
			return LitNone{}, nil
		}
		base = opt.Inner
	}
	switch n.Tag {
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, errors.Wrap(err, "boolean literal")
		}
		return LitBoolean{Value: b}, nil
	case "!!null":
		return LitNone{}, nil
	case "!!int":
		p, ok := base.(Primitive)
		if ok && (p.Prim == Float32 || p.Prim == Float64) {
			return LitFloat{Text: n.Value, Type: t}, nil
		}
		unsigned := ok && p.Prim.IsUnsigned()
		text, radix := n.Value, ""
		switch {
		case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
			text, radix = text[2:], "hex"
		case strings.HasPrefix(text, "0o"):
			text, radix = text[2:], "octal"
		}
		return intLiteral(unsigned, text, radix, t)
	case "!!float":
		return LitFloat{Text: n.Value, Type: t}, nil
	default:
		if _, ok := base.(Enum); ok {
			return LitEnum{Variant: n.Value, Type: t}, nil
		}
		return LitString{Value: n.Value}, nil
	}
}

func intLiteral(unsigned bool, text, radixName string, t Type) (Literal, error) {
	radix, base := Decimal, 10
	switch radixName {
	case "", "decimal":
	case "hex":
		radix, base = Hexadecimal, 16
	case "octal":
		radix, base = Octal, 8
	default:
		return nil, errors.Newf("unknown radix %q", radixName)
	}
	if unsigned {
		v, err := strconv.ParseUint(text, base, 64)
		if err != nil {
			return nil, errors.Wrap(err, "unsigned literal")
		}
		return LitUInt{Value: v, Radix: radix, Type: t}, nil
	}
	v, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return nil, errors.Wrap(err, "integer literal")
	}
	return LitInt{Value: v, Radix: radix, Type: t}, nil
}
