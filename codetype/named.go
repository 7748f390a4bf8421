package codetype

import (
	"strings"

	"github.com/teranos/javabind/config"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
	"github.com/teranos/javabind/naming"
)

// named is shared by user-declared types. pkg is set when the type lives in
// another component's package.
type named struct {
	typ       ir.Type
	label     string
	canonical string
	pkg       string
}

func (n *named) Type() ir.Type            { return n.typ }
func (n *named) CanonicalName() string    { return n.canonical }
func (n *named) Imports() []Import        { return nil }
func (n *named) InitializationFn() string { return "" }

func (n *named) TypeLabel() string {
	return n.qualify(n.label)
}

func (n *named) FfiConverterName() string {
	return "FfiConverter" + n.canonical
}

func (n *named) FfiConverterInstance() string {
	return n.qualify(n.FfiConverterName() + ".INSTANCE")
}

func (n *named) qualify(s string) string {
	if n.pkg == "" {
		return s
	}
	return n.pkg + "." + s
}

func (n *named) mismatch(lit ir.Literal) error {
	return literalMismatch(lit, n.typ)
}

type enumType struct {
	named
	flat bool
}

func (e *enumType) Literal(lit ir.Literal) (string, error) {
	v, ok := lit.(ir.LitEnum)
	if !ok {
		return "", e.mismatch(lit)
	}
	if e.flat {
		return e.TypeLabel() + "." + naming.EnumVariantName(v.Variant), nil
	}
	// data enums are sealed interfaces with one record per variant
	return "new " + e.TypeLabel() + "." + naming.ClassName(v.Variant, nil) + "()", nil
}

type recordType struct{ named }

func (r *recordType) Literal(lit ir.Literal) (string, error) { return "", r.mismatch(lit) }

type objectType struct {
	named
	initFn string
}

func (o *objectType) Literal(lit ir.Literal) (string, error) { return "", o.mismatch(lit) }
func (o *objectType) InitializationFn() string               { return o.initFn }

type callbackType struct {
	named
	initFn string
}

func (c *callbackType) Literal(lit ir.Literal) (string, error) { return "", c.mismatch(lit) }
func (c *callbackType) InitializationFn() string               { return c.initFn }

// customType wraps a builtin. Without configuration the Java side gets a
// record holding the builtin value; with configuration it maps onto an
// existing Java class through the into/from expressions.
type customType struct {
	named
	builtin CodeType
	cfg     *config.CustomTypeConfig
}

// Builtin returns the strategy of the wrapped builtin type.
func (c *customType) Builtin() CodeType { return c.builtin }

// Config returns the custom type configuration, nil when unconfigured.
func (c *customType) Config() *config.CustomTypeConfig { return c.cfg }

func (c *customType) Imports() []Import {
	if c.cfg == nil {
		return nil
	}
	imports := make([]Import, 0, len(c.cfg.Imports))
	for _, name := range c.cfg.Imports {
		imports = append(imports, Import{Name: name})
	}
	return imports
}

func (c *customType) TypeLabel() string {
	if c.cfg != nil && c.cfg.TypeName != "" {
		return c.cfg.TypeName
	}
	return c.named.TypeLabel()
}

func (c *customType) Literal(lit ir.Literal) (string, error) {
	inner, err := c.builtin.Literal(lit)
	if err != nil {
		return "", errors.Wrapf(err, "custom type %s", ir.NameOf(c.typ))
	}
	if c.cfg != nil && c.cfg.IntoCustom != "" {
		return strings.ReplaceAll(c.cfg.IntoCustom, "{}", inner), nil
	}
	return "new " + c.TypeLabel() + "(" + inner + ")", nil
}

// externalType is a type declared by another component. Its label and
// converter are always fully qualified.
type externalType struct {
	named
	class string
}

// Package returns the Java package of the owning component.
func (e *externalType) Package() string { return e.pkg }

// RustBufferAlias is the name this component uses for the owning
// component's RustBuffer class.
func (e *externalType) RustBufferAlias() string { return "RustBuffer" + e.class }

func (e *externalType) Literal(lit ir.Literal) (string, error) { return "", e.mismatch(lit) }

func (e *externalType) Imports() []Import {
	return []Import{
		{Name: e.pkg + "." + e.class},
		{Name: e.pkg + "." + e.FfiConverterName()},
		{Name: e.pkg + ".RustBuffer", Alias: e.RustBufferAlias()},
	}
}
