package render

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/teranos/javabind/codetype"
	"github.com/teranos/javabind/config"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ffi"
	"github.com/teranos/javabind/ir"
	"github.com/teranos/javabind/naming"
)

// statusVar is the call status parameter of every native declaration.
const statusVar = "uniffiOutErr"

func (r *renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"include":     r.include,
		"includeOnce": func(name string) bool { return r.state.IncludeOnce(name) },
		"addImport":   func(name string) string { return r.state.AddImport(name) },
		"pkg":         func() string { return r.cfg.PackageName() },

		// names
		"fnName":           r.namer.FnName,
		"varName":          r.namer.VarName,
		"getterName":       naming.GetterName,
		"setterName":       naming.SetterName,
		"variantName":      naming.EnumVariantName,
		"variantClass":     func(raw string) string { return naming.ClassName(raw, nil) },
		"errorVariantName": naming.ErrorVariantName,
		"ffiCallbackName":  naming.FfiCallbackName,
		"ffiStructName":    naming.FfiStructName,
		"objectNames":      r.objectNames,
		"fieldName":        r.fieldName,
		"doc":              doc,
		"quote":            codetype.QuoteJava,

		// types
		"typeName":     r.typeName,
		"lift":         r.convFn(codetype.LiftFn),
		"lower":        r.convFn(codetype.LowerFn),
		"read":         r.convFn(codetype.ReadFn),
		"write":        r.convFn(codetype.WriteFn),
		"allocSize":    r.convFn(codetype.AllocationSizeFn),
		"isError":      r.ci.IsNameUsedAsError,
		"innerType":    innerType,
		"customView":   r.customView,
		"enumDiscr":    r.discriminants,
		"errorMessage": r.errorMessage,
		"trait":        r.trait,
		"immutable":    r.cfg.GenerateImmutableRecords,

		// ffi
		"ffiOf":      ir.FfiTypeOf,
		"ffiValue":   r.ffiValue,
		"ffiField":   r.ffiField,
		"ffiDefault": ffi.DefaultValue,
		"ffiReturn":  r.ffiReturn,
		"ffiParams":  r.ffiParams,
		"fieldOrder": r.fieldOrder,
		"vtable":     r.vtable,
		"imports":    func() string { return r.state.Imports().Render() },

		// callables
		"params":        r.params,
		"returnType":    r.returnType,
		"throws":        r.throws,
		"invoke":        r.invoke,
		"liftedCall":    r.liftedCall,
		"ctorCall":      r.ctorCall,
		"overloads":     r.overloads,
		"fieldParams":   r.fieldParams,
		"fieldArgs":     r.fieldArgs,
		"defaultCtor":   r.defaultCtor,
		"hasResult":     hasResult,
		"asyncCtor":     r.asyncCtorCall,
		"asyncCtorType": r.asyncCtorType,

		"add": func(a, b int) int { return a + b },
	}
}

// doc renders a javadoc block followed by a newline, or nothing.
func doc(text string, indent int) string {
	if text == "" {
		return ""
	}
	return naming.Docstring(text, indent) + "\n"
}

func (r *renderer) resolve(t ir.Type) (codetype.CodeType, error) {
	return r.oracle.Resolve(t)
}

func (r *renderer) typeName(t ir.Type) (string, error) {
	ct, err := r.resolve(t)
	if err != nil {
		return "", err
	}
	return ct.TypeLabel(), nil
}

func (r *renderer) convFn(fn func(codetype.CodeType) string) func(ir.Type) (string, error) {
	return func(t ir.Type) (string, error) {
		ct, err := r.resolve(t)
		if err != nil {
			return "", err
		}
		return fn(ct), nil
	}
}

func (r *renderer) literal(lit ir.Literal, t ir.Type) (string, error) {
	ct, err := r.resolve(t)
	if err != nil {
		return "", err
	}
	return ct.Literal(lit)
}

func innerType(t ir.Type) ir.Type {
	switch t := t.(type) {
	case ir.Optional:
		return t.Inner
	case ir.Sequence:
		return t.Inner
	}
	return nil
}

// fieldName names record and variant fields. Tuple-style fields have no
// name and are numbered from v1.
func (r *renderer) fieldName(f ir.Field, i int) (string, error) {
	if f.Name == "" {
		return "v" + strconv.Itoa(i+1), nil
	}
	return r.namer.VarName(f.Name)
}

type objectNames struct {
	Interface string
	Impl      string
}

func (r *renderer) objectNames(o *ir.ObjectDef) objectNames {
	iface, impl := naming.ObjectNames(o.Name, o.HasCallbackInterface(), r.ci)
	return objectNames{Interface: iface, Impl: impl}
}

type customView struct {
	Builtin    ir.Type
	Label      string
	Configured bool
	// IntoCustom converts builtinValue, FromCustom converts value.
	IntoCustom string
	FromCustom string
}

// customConfigured is implemented by custom code types with a
// [bindings.java.custom_types] entry.
type customConfigured interface {
	Config() *config.CustomTypeConfig
}

func (r *renderer) customView(t ir.Type) (*customView, error) {
	c, ok := t.(ir.Custom)
	if !ok {
		return nil, errors.MarkUnmappedType("%s is not a custom type", t)
	}
	ct, err := r.resolve(c)
	if err != nil {
		return nil, err
	}
	v := &customView{Builtin: c.Builtin, Label: ct.TypeLabel()}
	if cc, ok := ct.(customConfigured); ok && cc.Config() != nil {
		cfg := cc.Config()
		v.Configured = true
		v.IntoCustom = strings.ReplaceAll(orDefault(cfg.IntoCustom, "{}"), "{}", "builtinValue")
		v.FromCustom = strings.ReplaceAll(orDefault(cfg.FromCustom, "{}"), "{}", "value")
	}
	return v, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

type discriminant struct {
	Variant *ir.Variant
	Value   string
}

type discriminants struct {
	Type   string
	Values []discriminant
}

// discriminants returns flat enum values. An explicit value wins; otherwise
// a variant takes the previous value plus one, starting at zero. Enums
// without a declared discriminant type use i64.
func (r *renderer) discriminants(e *ir.EnumDef) (*discriminants, error) {
	dt := e.DiscrType
	if dt == nil {
		dt = ir.Prim(ir.Int64)
	}
	ct, err := r.resolve(dt)
	if err != nil {
		return nil, err
	}
	prim, ok := dt.(ir.Primitive)
	if !ok || !prim.Prim.IsInteger() {
		return nil, errors.MarkLiteralMismatch("enum %s: discriminant type %s is not an integer", e.Name, dt)
	}

	out := &discriminants{Type: ct.TypeLabel()}
	var next ir.Literal
	for i := range e.Variants {
		v := &e.Variants[i]
		lit := v.Discr
		if lit == nil {
			lit = next
		}
		if lit == nil {
			lit = zeroOf(prim.Prim)
		}
		text, err := ct.Literal(lit)
		if err != nil {
			return nil, errors.Wrapf(err, "enum %s variant %s", e.Name, v.Name)
		}
		out.Values = append(out.Values, discriminant{Variant: v, Value: text})
		next = successor(lit, prim.Prim)
	}
	return out, nil
}

func zeroOf(k ir.PrimitiveKind) ir.Literal {
	if k.IsUnsigned() {
		return ir.LitUInt{Value: 0, Radix: ir.Decimal, Type: ir.Prim(k)}
	}
	return ir.LitInt{Value: 0, Radix: ir.Decimal, Type: ir.Prim(k)}
}

func successor(lit ir.Literal, k ir.PrimitiveKind) ir.Literal {
	switch l := lit.(type) {
	case ir.LitInt:
		return ir.LitInt{Value: l.Value + 1, Radix: ir.Decimal, Type: ir.Prim(k)}
	case ir.LitUInt:
		return ir.LitUInt{Value: l.Value + 1, Radix: ir.Decimal, Type: ir.Prim(k)}
	}
	return nil
}

// errorMessage builds the Java expression describing a data error variant,
// e.g. "code=" + code + ", reason=" + reason.
func (r *renderer) errorMessage(fields []ir.Field) (string, error) {
	if len(fields) == 0 {
		return `""`, nil
	}
	parts := make([]string, 0, len(fields))
	for i, f := range fields {
		name, err := r.fieldName(f, i)
		if err != nil {
			return "", err
		}
		sep := ", "
		if i == 0 {
			sep = ""
		}
		parts = append(parts, codetype.QuoteJava(sep+strings.TrimSuffix(name, "_")+"=")+" + "+name)
	}
	return strings.Join(parts, " + "), nil
}

func (r *renderer) trait(o *ir.ObjectDef, kind string) *ir.UniffiTrait {
	for i := range o.Traits {
		if o.Traits[i].Kind.String() == kind {
			return &o.Traits[i]
		}
	}
	return nil
}

// ffi

func (r *renderer) ffiValue(t ir.FfiType) (string, error) {
	s, err := ffi.ByValue(t)
	if err != nil {
		return "", err
	}
	return r.state.Imports().Qualify(s), nil
}

func (r *renderer) ffiField(t ir.FfiType) (string, error) {
	s, err := ffi.ForStructField(t)
	if err != nil {
		return "", err
	}
	return r.state.Imports().Qualify(s), nil
}

func (r *renderer) ffiReturn(t ir.FfiType) (string, error) {
	if t == nil {
		return "void", nil
	}
	return r.ffiValue(t)
}

// ffiParams renders a native parameter list, with the trailing call
// status when the declaration has one.
func (r *renderer) ffiParams(args []ir.FfiArgument, status bool) (string, error) {
	parts := make([]string, 0, len(args)+1)
	for _, a := range args {
		label, err := r.ffiValue(a.Type)
		if err != nil {
			return "", errors.Wrapf(err, "argument %s", a.Name)
		}
		name, err := r.namer.VarName(a.Name)
		if err != nil {
			return "", err
		}
		parts = append(parts, label+" "+name)
	}
	if status {
		parts = append(parts, "UniffiRustCallStatus "+statusVar)
	}
	return strings.Join(parts, ", "), nil
}

// fieldOrder renders the quoted field list of @Structure.FieldOrder.
func (r *renderer) fieldOrder(fields []ir.FfiArgument) (string, error) {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		name, err := r.namer.VarName(f.Name)
		if err != nil {
			return "", err
		}
		names = append(names, strconv.Quote(name))
	}
	return strings.Join(names, ", "), nil
}

func (r *renderer) ffiCallbackDef(name string) *ir.FfiCallbackDef {
	for _, cb := range r.ci.FfiCallbacks() {
		if cb.Name == name {
			return cb
		}
	}
	return nil
}

func (r *renderer) ffiStructDef(name string) *ir.FfiStructDef {
	for _, st := range r.ci.FfiStructs() {
		if st.Name == name {
			return st
		}
	}
	return nil
}

type vtableMethod struct {
	Method   *ir.Callable
	Future   *futureView
	Class    string
	Field    string
	Callback string
	Return   string
	Params   string
	Handle   string
	Out      string
	Status   string
}

type vtableView struct {
	// Class is the Java name of the interface foreign code implements.
	Class    string
	Instance string
	Struct   string
	Init     string
	Methods  []vtableMethod
	Free     vtableMethod
}

// vtable matches the methods of a foreign-implemented interface with the
// fields of its vtable struct. Field i carries method i; the last field
// carries the free callback.
func (r *renderer) vtable(td *typeData) (*vtableView, error) {
	var name, structName, initFn string
	var methods []ir.Callable
	switch {
	case td.Callback != nil:
		name, structName, initFn, methods = td.Callback.Name, td.Callback.VTable, td.Callback.FfiInitCallback, td.Callback.Methods
	case td.Object != nil && td.Object.HasCallbackInterface():
		name, structName, initFn, methods = td.Object.Name, td.Object.VTable, td.Object.FfiInitCallback, td.Object.Methods
	default:
		return nil, errors.MarkUnmappedType("%s has no vtable", td.Type)
	}

	st := r.ffiStructDef(structName)
	if st == nil {
		return nil, errors.MarkInvalidDescription(errors.Newf("vtable struct %q is not defined", structName), name)
	}
	if len(st.Fields) != len(methods)+1 {
		return nil, errors.MarkInvalidDescription(
			errors.Newf("vtable %s has %d fields for %d methods", structName, len(st.Fields), len(methods)), name)
	}
	if initFn == "" {
		return nil, errors.MarkInvalidDescription(errors.New("no vtable init function"), name)
	}

	v := &vtableView{
		Class:    td.Name,
		Instance: td.Instance,
		Struct:   naming.FfiStructName(structName),
		Init:     initFn,
	}
	for i, f := range st.Fields {
		cbType, ok := f.Type.(ir.FfiCallback)
		if !ok {
			return nil, errors.MarkInvalidDescription(errors.Newf("vtable field %s is not a callback", f.Name), name)
		}
		def := r.ffiCallbackDef(cbType.Name)
		if def == nil {
			return nil, errors.MarkInvalidDescription(errors.Newf("callback %q is not defined", cbType.Name), name)
		}
		m, err := r.vtableMethod(def)
		if err != nil {
			return nil, errors.Wrapf(err, "vtable %s", structName)
		}
		if m.Field, err = r.namer.VarName(f.Name); err != nil {
			return nil, err
		}
		if i == len(methods) {
			v.Free = m
			continue
		}
		m.Method = &methods[i]
		m.Class = naming.ClassName(methods[i].Name, nil)
		if (m.Method.ReturnType != nil || m.Method.IsAsync) && m.Out == "" {
			return nil, errors.MarkInvalidDescription(
				errors.Newf("callback %s has no uniffi_out_return argument", def.Name), name)
		}
		if m.Method.IsAsync {
			if m.Future, err = r.future(def, m.Method); err != nil {
				return nil, err
			}
		}
		v.Methods = append(v.Methods, m)
	}
	return v, nil
}

// vtableMethod describes the Java callback implementing def. The first
// argument is the handle, an argument named uniffi_out_return receives
// the result.
func (r *renderer) vtableMethod(def *ir.FfiCallbackDef) (vtableMethod, error) {
	m := vtableMethod{Callback: naming.FfiCallbackName(def.Name)}
	var err error
	if m.Return, err = r.ffiReturn(def.ReturnType); err != nil {
		return m, err
	}
	parts := make([]string, 0, len(def.Arguments)+1)
	for i, a := range def.Arguments {
		label, err := r.ffiValue(a.Type)
		if err != nil {
			return m, errors.Wrapf(err, "callback %s argument %s", def.Name, a.Name)
		}
		name, err := r.namer.VarName(a.Name)
		if err != nil {
			return m, err
		}
		switch {
		case i == 0:
			m.Handle = name
		case a.Name == "uniffi_out_return":
			m.Out = name
		}
		parts = append(parts, label+" "+name)
	}
	if def.HasRustCallStatus {
		m.Status = "uniffiCallStatus"
		parts = append(parts, "UniffiRustCallStatus "+m.Status)
	}
	m.Params = strings.Join(parts, ", ")
	return m, nil
}

// callables

func (r *renderer) params(args []ir.Argument) (string, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		label, err := r.typeName(a.Type)
		if err != nil {
			return "", err
		}
		name, err := r.namer.VarName(a.Name)
		if err != nil {
			return "", err
		}
		parts = append(parts, label+" "+name)
	}
	return strings.Join(parts, ", "), nil
}

func (r *renderer) returnType(c *ir.Callable) (string, error) {
	if c.IsAsync {
		return r.futureLabel(c.ReturnType)
	}
	if c.ReturnType == nil {
		return "void", nil
	}
	return r.typeName(c.ReturnType)
}

// throws is the throws clause of c. Async callables fail through their
// future instead.
func (r *renderer) throws(c *ir.Callable) (string, error) {
	if c.ThrowsType == nil || c.IsAsync {
		return "", nil
	}
	label, err := r.typeName(c.ThrowsType)
	if err != nil {
		return "", err
	}
	return " throws " + label, nil
}

// rustCall renders the status-checked native call of c. self adds the
// object pointer, named it, as first argument.
func (r *renderer) rustCall(c *ir.Callable, self bool) (string, error) {
	return r.nativeCall(c, self, c.ReturnType != nil)
}

// nativeCall is rustCall with the result kind given explicitly. Without a
// result the lambda returns null.
func (r *renderer) nativeCall(c *ir.Callable, self, result bool) (string, error) {
	if c.FfiFunc == "" {
		return "", errors.MarkInvalidDescription(errors.New("no ffi function"), c.Name)
	}
	args := make([]string, 0, len(c.Arguments)+2)
	if self {
		args = append(args, "it")
	}
	for _, a := range c.Arguments {
		lower, err := r.convFn(codetype.LowerFn)(a.Type)
		if err != nil {
			return "", err
		}
		name, err := r.namer.VarName(a.Name)
		if err != nil {
			return "", err
		}
		args = append(args, lower+"("+name+")")
	}
	args = append(args, "_status")
	native := "UniffiLib.INSTANCE." + c.FfiFunc + "(" + strings.Join(args, ", ") + ")"

	body := "_status -> " + native
	if !result {
		body = "_status -> { " + native + "; return null; }"
	}

	if c.ThrowsType == nil {
		return "UniffiHelpers.uniffiRustCall(" + body + ")", nil
	}
	label, err := r.typeName(c.ThrowsType)
	if err != nil {
		return "", err
	}
	return "UniffiHelpers.uniffiRustCallWithError(new " + label + "ErrorHandler(), " + body + ")", nil
}

// liftedCall is the Java expression invoking c and lifting its result.
// For methods the call runs under callWithPointer.
func (r *renderer) liftedCall(c *ir.Callable, self bool) (string, error) {
	call, err := r.rustCall(c, self)
	if err != nil {
		return "", err
	}
	if self {
		call = "callWithPointer(it -> " + call + ")"
	}
	if c.ReturnType == nil {
		return call, nil
	}
	lift, err := r.convFn(codetype.LiftFn)(c.ReturnType)
	if err != nil {
		return "", err
	}
	return lift + "(" + call + ")", nil
}

// invoke is the statement body of a generated method.
func (r *renderer) invoke(c *ir.Callable, self bool) (string, error) {
	if c.IsAsync {
		call, err := r.asyncCall(c, self, c.ReturnType, ir.FfiReturnOf(c))
		if err != nil {
			return "", err
		}
		return "return " + call + ";", nil
	}
	call, err := r.liftedCall(c, self)
	if err != nil {
		return "", err
	}
	if c.ReturnType == nil {
		return call + ";", nil
	}
	return "return " + call + ";", nil
}

// ctorCall is the Pointer-producing expression of a constructor. The
// description gives constructors no return type; the native side always
// returns the new object's pointer.
func (r *renderer) ctorCall(c *ir.Callable) (string, error) {
	return r.nativeCall(c, false, true)
}

type overload struct {
	Params string
	Args   string
	// TypedArgs casts each filled-in default to its declared type, for
	// callers with overloaded targets such as constructors.
	TypedArgs string
}

// overloads returns one shorter signature per trailing defaulted argument.
// Each forwards to the full method with the omitted defaults filled in.
func (r *renderer) overloads(c *ir.Callable) ([]overload, error) {
	var out []overload
	for n := len(c.Arguments); n > 0 && c.Arguments[n-1].Default != nil; n-- {
		params, err := r.params(c.Arguments[:n-1])
		if err != nil {
			return nil, err
		}
		args := make([]string, 0, len(c.Arguments))
		typed := make([]string, 0, len(c.Arguments))
		for i, a := range c.Arguments {
			if i < n-1 {
				name, err := r.namer.VarName(a.Name)
				if err != nil {
					return nil, err
				}
				args = append(args, name)
				typed = append(typed, name)
				continue
			}
			lit, err := r.literal(a.Default, a.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "%s argument %s", c.Name, a.Name)
			}
			label, err := r.typeName(a.Type)
			if err != nil {
				return nil, err
			}
			args = append(args, lit)
			typed = append(typed, "("+label+") "+lit)
		}
		out = append(out, overload{
			Params:    params,
			Args:      strings.Join(args, ", "),
			TypedArgs: strings.Join(typed, ", "),
		})
	}
	return out, nil
}

func (r *renderer) fieldParams(fields []ir.Field) (string, error) {
	parts := make([]string, 0, len(fields))
	for i, f := range fields {
		label, err := r.typeName(f.Type)
		if err != nil {
			return "", err
		}
		name, err := r.fieldName(f, i)
		if err != nil {
			return "", err
		}
		parts = append(parts, label+" "+name)
	}
	return strings.Join(parts, ", "), nil
}

func (r *renderer) fieldArgs(fields []ir.Field) (string, error) {
	parts := make([]string, 0, len(fields))
	for i, f := range fields {
		name, err := r.fieldName(f, i)
		if err != nil {
			return "", err
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", "), nil
}

// defaultCtor returns the constructor that omits every defaulted
// field, or nil when no field has a default.
func (r *renderer) defaultCtor(fields []ir.Field) (*overload, error) {
	var kept []string
	args := make([]string, 0, len(fields))
	defaulted := false
	for i, f := range fields {
		name, err := r.fieldName(f, i)
		if err != nil {
			return nil, err
		}
		if f.Default == nil {
			label, err := r.typeName(f.Type)
			if err != nil {
				return nil, err
			}
			kept = append(kept, label+" "+name)
			args = append(args, name)
			continue
		}
		lit, err := r.literal(f.Default, f.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name)
		}
		defaulted = true
		args = append(args, lit)
	}
	if !defaulted {
		return nil, nil
	}
	joined := strings.Join(args, ", ")
	return &overload{Params: strings.Join(kept, ", "), Args: joined, TypedArgs: joined}, nil
}
