// Package codetype maps interface types to the Java code generation strategy
// for each of them.
//
// Every ir.Type variant has exactly one strategy. Oracle.Resolve is an
// exhaustive switch over the sealed union, so a new variant fails loudly
// with ErrUnmappedType instead of producing half-generated code.
package codetype

import (
	"github.com/teranos/javabind/config"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
	"github.com/teranos/javabind/naming"
)

// CodeType is the generation strategy bound to one interface type.
type CodeType interface {
	// Type is the interface type this strategy was resolved for.
	Type() ir.Type
	// TypeLabel is the Java type used in declarations.
	TypeLabel() string
	// CanonicalName is unique per distinct type within one component and
	// seeds helper class names.
	CanonicalName() string
	// Literal renders a default value of this type.
	Literal(lit ir.Literal) (string, error)
	FfiConverterName() string
	FfiConverterInstance() string
	// Imports lists what declarations of this type need imported.
	Imports() []Import
	// InitializationFn names a hook to run once at library load, or "".
	InitializationFn() string
}

// Import is a required import. A non-empty Alias means the name is referred
// to by Alias in generated code.
type Import struct {
	Name  string
	Alias string
}

// Oracle resolves types for one component under its resolved configuration.
type Oracle struct {
	ci  *ir.ComponentInterface
	cfg config.JavaConfig
}

// New returns an oracle for ci. cfg must already carry the external package
// map filled in by the resolver.
func New(ci *ir.ComponentInterface, cfg config.JavaConfig) *Oracle {
	return &Oracle{ci: ci, cfg: cfg}
}

// Component returns the component this oracle resolves for.
func (o *Oracle) Component() *ir.ComponentInterface { return o.ci }

// Config returns the resolved Java configuration.
func (o *Oracle) Config() config.JavaConfig { return o.cfg }

// Resolve returns the strategy for t.
func (o *Oracle) Resolve(t ir.Type) (CodeType, error) {
	switch t := t.(type) {
	case ir.Primitive:
		return newPrimitive(t)
	case ir.Enum:
		return &enumType{named: o.named(t, t.Name), flat: o.enumIsFlat(t.Name)}, nil
	case ir.Record:
		return &recordType{named: o.named(t, t.Name)}, nil
	case ir.Object:
		ct := &objectType{named: o.named(t, t.Name)}
		if t.Impl.HasCallbackInterface() {
			ct.initFn = o.initFn(t.Name)
		}
		return ct, nil
	case ir.CallbackInterface:
		return &callbackType{named: o.named(t, t.Name), initFn: o.initFn(t.Name)}, nil
	case ir.Optional:
		inner, err := o.Resolve(t.Inner)
		if err != nil {
			return nil, err
		}
		return &optionalType{typ: t, inner: inner}, nil
	case ir.Sequence:
		inner, err := o.Resolve(t.Inner)
		if err != nil {
			return nil, err
		}
		return &sequenceType{typ: t, inner: inner}, nil
	case ir.Map:
		key, err := o.Resolve(t.Key)
		if err != nil {
			return nil, err
		}
		value, err := o.Resolve(t.Value)
		if err != nil {
			return nil, err
		}
		return &mapType{typ: t, key: key, value: value}, nil
	case ir.External:
		return o.external(t), nil
	case ir.Custom:
		return o.custom(t)
	case nil:
		return nil, errors.MarkUnmappedType("no type given")
	default:
		return nil, errors.MarkUnmappedType("no generation strategy for %s (%T)", t, t)
	}
}

// ClassName is the Java class name for a raw identifier of this component.
func (o *Oracle) ClassName(raw string) string {
	return naming.ClassName(raw, o.ci)
}

// PackageFor returns the Java package owning crate. Crates missing from the
// resolved map fall back to the default prefix plus namespace.
func (o *Oracle) PackageFor(crate, namespace string) string {
	if pkg, ok := o.cfg.ExternalPackage(crate); ok {
		return pkg
	}
	return config.DefaultPackageName + "." + namespace
}

// named builds the shared part of Enum/Record/Object/CallbackInterface/Custom
// strategies, qualifying types owned by another component.
func (o *Oracle) named(t ir.Type, name string) named {
	n := named{
		typ:       t,
		label:     o.ClassName(name),
		canonical: "Type" + name,
	}
	if !o.ci.OwnsType(t) {
		// only the crate is known here, it stands in for the namespace
		crate := ir.CrateOf(ir.ModulePathOf(t))
		n.pkg = o.PackageFor(crate, crate)
	}
	return n
}

func (o *Oracle) initFn(name string) string {
	return "UniffiCallbackInterface" + o.ClassName(name) + ".INSTANCE.register"
}

func (o *Oracle) enumIsFlat(name string) bool {
	def := o.ci.EnumDefinition(name)
	if def == nil {
		return true
	}
	return def.IsFlat()
}

func (o *Oracle) external(t ir.External) *externalType {
	class := o.ClassName(t.Name)
	pkg := o.PackageFor(t.Crate(), t.Namespace)
	return &externalType{
		named: named{
			typ:       t,
			label:     class,
			canonical: "Type" + t.Name,
			pkg:       pkg,
		},
		class: class,
	}
}

func (o *Oracle) custom(t ir.Custom) (CodeType, error) {
	if t.Builtin == nil {
		return nil, errors.MarkUnmappedType("custom type %s has no builtin type", t.Name)
	}
	builtin, err := o.Resolve(t.Builtin)
	if err != nil {
		return nil, errors.Wrapf(err, "custom type %s", t.Name)
	}
	ct := &customType{named: o.named(t, t.Name), builtin: builtin}
	if cfg, ok := o.cfg.CustomType(t.Name); ok {
		ct.cfg = &cfg
		if cfg.TypeName != "" {
			ct.label = cfg.TypeName
		}
	}
	return ct, nil
}

// Converter method expressions, e.g. "FfiConverterString.INSTANCE.lower".

func LowerFn(ct CodeType) string          { return ct.FfiConverterInstance() + ".lower" }
func LiftFn(ct CodeType) string           { return ct.FfiConverterInstance() + ".lift" }
func ReadFn(ct CodeType) string           { return ct.FfiConverterInstance() + ".read" }
func WriteFn(ct CodeType) string          { return ct.FfiConverterInstance() + ".write" }
func AllocationSizeFn(ct CodeType) string { return ct.FfiConverterInstance() + ".allocationSize" }
