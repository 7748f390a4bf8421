// Package render turns one component into a single Java document.
//
// A pass walks the component top to bottom through the embedded templates.
// The only mutable state is the pass-owned RenderState (imports and
// include-once names); everything else is read from the component and its
// resolved configuration, so equal inputs give equal documents.
package render

import (
	"bytes"
	"embed"
	"sync"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/javabind/codetype"
	"github.com/teranos/javabind/config"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
	"github.com/teranos/javabind/logger"
	"github.com/teranos/javabind/naming"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	parseOnce sync.Once
	parsed    *template.Template
	parseErr  error
)

// templates parses the embedded set once. Function values bound here are
// placeholders; every pass clones the set and installs its own.
func templates() (*template.Template, error) {
	parseOnce.Do(func() {
		parsed, parseErr = template.New("javabind").
			Funcs((&renderer{}).funcs()).
			ParseFS(templateFS, "templates/*.tmpl")
		if parseErr != nil {
			parseErr = errors.Wrap(parseErr, "parse java templates")
		}
	})
	return parsed, parseErr
}

// Options tune a render pass.
type Options struct {
	// Reserved decides what happens to identifiers that are Java keywords.
	Reserved naming.ReservedPolicy
	// Logger defaults to the "render" component logger.
	Logger *zap.SugaredLogger
}

// Result is the output of one pass.
type Result struct {
	Namespace string
	Package   string
	// Document is the import header followed by every declaration, each
	// starting with the package line.
	Document string
	// InitFns are the hooks UniffiLib runs once after loading the native
	// library, in type order.
	InitFns []string
	Imports []codetype.Import
}

// PackageHeader is the line every declaration chunk of a document starts with.
func PackageHeader(pkg string) string { return "package " + pkg + ";" }

// Render runs one pass over the oracle's component.
func Render(o *codetype.Oracle, opts Options) (*Result, error) {
	ci := o.Component()
	if ci == nil {
		return nil, errors.MarkInvalidDescription(errors.New("no component"), "render")
	}
	if err := checkAsync(ci); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("render")
	}
	start := time.Now()

	r := &renderer{
		oracle: o,
		ci:     ci,
		cfg:    o.Config(),
		namer:  naming.Namer{Policy: opts.Reserved},
		state:  NewRenderState(),
		log:    log.With(logger.FieldNamespace, ci.Namespace),
	}

	doc, err := r.document()
	if err != nil {
		return nil, err
	}

	base, err := templates()
	if err != nil {
		return nil, err
	}
	tmpl, err := base.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "clone java templates")
	}
	r.tmpl = tmpl.Funcs(r.funcs())

	var body bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&body, "body", doc); err != nil {
		return nil, errors.Wrapf(err, "render component %s", ci.Namespace)
	}

	var out bytes.Buffer
	out.WriteString("// Generated by javabind. Do not edit.\n")
	if ci.Docstring != "" {
		out.WriteString(naming.Docstring(ci.Docstring, 0))
		out.WriteString("\n")
	}
	out.WriteString("\n")
	out.WriteString(r.state.Imports().Render())
	out.WriteString("\n")
	out.Write(body.Bytes())

	r.log.Debugw("Rendered component",
		logger.FieldPackage, doc.Package,
		logger.FieldCount, len(doc.Types),
		logger.FieldSize, out.Len(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return &Result{
		Namespace: ci.Namespace,
		Package:   doc.Package,
		Document:  out.String(),
		InitFns:   doc.InitFns,
		Imports:   r.state.Imports().Sorted(),
	}, nil
}

// renderer carries one pass. It is never shared between passes.
type renderer struct {
	oracle *codetype.Oracle
	ci     *ir.ComponentInterface
	cfg    config.JavaConfig
	namer  naming.Namer
	state  *RenderState
	tmpl   *template.Template
	log    *zap.SugaredLogger
}

// document is the data the "body" template walks.
type document struct {
	CI             *ir.ComponentInterface
	Package        string
	Cdylib         string
	Types          []*typeData
	InitFns        []string
	Library        []ir.FfiFunction
	FfiCallbacks   []*ir.FfiCallbackDef
	FfiStructs     []*ir.FfiStructDef
	Async          *asyncView
	FunctionsClass string
	AndroidCleaner bool
}

// typeData is what each per-type template receives.
type typeData struct {
	Type            ir.Type
	CT              codetype.CodeType
	Template        string
	Name            string
	Converter       string
	Instance        string
	ContainsObjects bool

	Number   *numberView
	Enum     *ir.EnumDef
	Record   *ir.RecordDef
	Object   *ir.ObjectDef
	Callback *ir.CallbackInterfaceDef
}

type numberView struct {
	Size     int
	Get, Put string
}

var numbers = map[ir.PrimitiveKind]numberView{
	ir.Int8:    {1, "get", "put"},
	ir.UInt8:   {1, "get", "put"},
	ir.Int16:   {2, "getShort", "putShort"},
	ir.UInt16:  {2, "getShort", "putShort"},
	ir.Int32:   {4, "getInt", "putInt"},
	ir.UInt32:  {4, "getInt", "putInt"},
	ir.Int64:   {8, "getLong", "putLong"},
	ir.UInt64:  {8, "getLong", "putLong"},
	ir.Float32: {4, "getFloat", "putFloat"},
	ir.Float64: {8, "getDouble", "putDouble"},
}

// document resolves every reachable type up front so that imports (and
// the aliases FFI signatures are qualified through) are known before any
// template runs.
func (r *renderer) document() (*document, error) {
	doc := &document{
		CI:             r.ci,
		Package:        r.cfg.PackageName(),
		Cdylib:         r.cfg.CdylibName(),
		Library:        r.libraryFunctions(),
		FunctionsClass: r.functionsClass(),
		AndroidCleaner: r.cfg.AndroidCleaner(),
	}
	doc.FfiCallbacks, doc.FfiStructs = r.ffiDefinitions()
	async, err := r.asyncSupport()
	if err != nil {
		return nil, err
	}
	doc.Async = async

	seenInit := make(map[string]bool)
	for _, t := range r.ci.IterTypes() {
		td, err := r.typeData(t)
		if err != nil {
			return nil, err
		}
		for _, imp := range td.CT.Imports() {
			r.state.Imports().Add(imp)
		}
		if td.Template == "" {
			continue
		}
		if fn := td.CT.InitializationFn(); fn != "" && !seenInit[fn] {
			seenInit[fn] = true
			doc.InitFns = append(doc.InitFns, fn)
		}
		doc.Types = append(doc.Types, td)
	}
	return doc, nil
}

func (r *renderer) typeData(t ir.Type) (*typeData, error) {
	ct, err := r.oracle.Resolve(t)
	if err != nil {
		return nil, err
	}
	td := &typeData{
		Type:            t,
		CT:              ct,
		Name:            ct.TypeLabel(),
		Converter:       ct.FfiConverterName(),
		Instance:        ct.FfiConverterInstance(),
		ContainsObjects: r.ci.ContainsObjectReferences(t),
	}
	if _, ext := t.(ir.External); !ext && !r.ci.OwnsType(t) {
		// declared and rendered by the component owning its crate; the
		// label and converter are already qualified with that package
		return td, nil
	}

	switch t := t.(type) {
	case ir.Primitive:
		switch t.Prim {
		case ir.Boolean:
			td.Template = "boolean"
		case ir.String:
			td.Template = "string"
		case ir.Bytes:
			td.Template = "bytes"
		case ir.Timestamp:
			td.Template = "timestamp"
		case ir.Duration:
			td.Template = "duration"
		default:
			n, ok := numbers[t.Prim]
			if !ok {
				return nil, errors.MarkUnmappedType("no template for primitive %s", t.Prim)
			}
			td.Template = "number"
			td.Number = &n
		}
	case ir.Enum:
		td.Enum = r.ci.EnumDefinition(t.Name)
		if td.Enum == nil {
			return nil, r.missing(t)
		}
		td.Template = "enum"
		if r.ci.IsNameUsedAsError(t.Name) {
			td.Template = "error"
		}
	case ir.Record:
		td.Record = r.ci.RecordDefinition(t.Name)
		if td.Record == nil {
			return nil, r.missing(t)
		}
		td.Template = "record"
	case ir.Object:
		td.Object = r.ci.ObjectDefinition(t.Name)
		if td.Object == nil {
			return nil, r.missing(t)
		}
		if td.Object.FfiFree == "" || td.Object.FfiClone == "" {
			return nil, errors.MarkInvalidDescription(errors.New("object needs ffi_free and ffi_clone"), t.Name)
		}
		td.Template = "object"
	case ir.CallbackInterface:
		td.Callback = r.ci.CallbackInterfaceDefinition(t.Name)
		if td.Callback == nil {
			return nil, r.missing(t)
		}
		td.Template = "callback_interface"
	case ir.Optional:
		td.Template = "optional"
	case ir.Sequence:
		td.Template = "sequence"
	case ir.Map:
		td.Template = "map"
	case ir.External:
		td.Template = "external"
	case ir.Custom:
		td.Template = "custom"
	default:
		return nil, errors.MarkUnmappedType("no template for %s", t)
	}
	return td, nil
}

// missing reports a reference to a type the component does not define.
// Types owned by another crate are rendered by that crate's component.
func (r *renderer) missing(t ir.Type) error {
	return errors.MarkInvalidDescription(
		errors.Newf("%s is referenced but not defined", t), r.ci.Namespace)
}

// headerNames are the simple names every chunk imports.
var headerNames = map[string]bool{
	"ByteBuffer":       true,
	"ByteOrder":        true,
	"StandardCharsets": true,
	"List":             true,
	"Map":              true,
	"Callable":         true,
	"AtomicBoolean":    true,
	"AtomicLong":       true,
	"Consumer":         true,
	"Function":         true,
}

// functionsClass names the class holding top-level functions.
func (r *renderer) functionsClass() string {
	name := naming.ClassName(r.ci.Namespace, nil)
	if headerNames[name] ||
		r.ci.EnumDefinition(r.ci.Namespace) != nil ||
		r.ci.RecordDefinition(r.ci.Namespace) != nil ||
		r.ci.ObjectDefinition(r.ci.Namespace) != nil ||
		r.ci.CallbackInterfaceDefinition(r.ci.Namespace) != nil {
		return name + "Functions"
	}
	return name
}

// libraryFunctions lists the native functions UniffiLib declares. Symbols
// the generated code calls but the description leaves out are derived from
// the callable or builtin they serve.
func (r *renderer) libraryFunctions() []ir.FfiFunction {
	fns := append([]ir.FfiFunction(nil), r.ci.FfiFunctions...)
	have := make(map[string]bool, len(fns))
	for _, fn := range fns {
		have[fn.Name] = true
	}
	add := func(fn ir.FfiFunction) {
		if fn.Name == "" || have[fn.Name] {
			return
		}
		have[fn.Name] = true
		fns = append(fns, fn)
	}

	add(ir.FfiFunction{
		Name:              r.ci.RustBufferAllocFn(),
		Arguments:         []ir.FfiArgument{{Name: "size", Type: ir.FfiBasic{Kind: ir.FfiUInt64}}},
		ReturnType:        ir.FfiRustBuffer{},
		HasRustCallStatus: true,
	})
	add(ir.FfiFunction{
		Name:              r.ci.RustBufferFreeFn(),
		Arguments:         []ir.FfiArgument{{Name: "buf", Type: ir.FfiRustBuffer{}}},
		HasRustCallStatus: true,
	})
	add(ir.FfiFunction{
		Name:       r.ci.ContractVersionFn(),
		ReturnType: ir.FfiBasic{Kind: ir.FfiUInt32},
	})
	for _, cs := range r.ci.SortedChecksums() {
		add(ir.FfiFunction{Name: cs.Function, ReturnType: ir.FfiBasic{Kind: ir.FfiUInt16}})
	}

	returns := func(c *ir.Callable) ir.FfiType {
		if c.ReturnType == nil {
			return nil
		}
		return ir.FfiTypeOf(c.ReturnType)
	}
	derive := func(c *ir.Callable, self, ret ir.FfiType) {
		if c.FfiFunc == "" {
			return
		}
		fn := ir.FfiFunction{Name: c.FfiFunc, ReturnType: ret, HasRustCallStatus: true}
		if self != nil {
			fn.Arguments = append(fn.Arguments, ir.FfiArgument{Name: "uniffi_ptr", Type: self})
		}
		for _, a := range c.Arguments {
			fn.Arguments = append(fn.Arguments, ir.FfiArgument{Name: a.Name, Type: ir.FfiTypeOf(a.Type)})
		}
		if c.IsAsync {
			for _, fn := range r.rustFutureFunctions(c, fn.Arguments, ret) {
				add(fn)
			}
			return
		}
		add(fn)
	}
	for i := range r.ci.Functions {
		f := &r.ci.Functions[i]
		derive(f, nil, returns(f))
	}
	for i := range r.ci.Objects {
		o := &r.ci.Objects[i]
		ptr := ir.FfiRustArcPtr{Object: o.Name}
		for j := range o.Constructors {
			derive(&o.Constructors[j], nil, ptr)
		}
		for j := range o.Methods {
			derive(&o.Methods[j], ptr, returns(&o.Methods[j]))
		}
		for j := range o.Traits {
			t := &o.Traits[j]
			derive(&t.Method, ptr, returns(&t.Method))
			if t.Ne != nil {
				derive(t.Ne, ptr, returns(t.Ne))
			}
		}
		self := []ir.FfiArgument{{Name: "uniffi_ptr", Type: ptr}}
		add(ir.FfiFunction{Name: o.FfiFree, Arguments: self, HasRustCallStatus: true})
		add(ir.FfiFunction{Name: o.FfiClone, Arguments: self, ReturnType: ptr, HasRustCallStatus: true})
	}

	initFn := func(name, vtable string) {
		if name == "" || vtable == "" {
			return
		}
		add(ir.FfiFunction{
			Name: name,
			Arguments: []ir.FfiArgument{{
				Name: "vtable",
				Type: ir.FfiReference{Inner: ir.FfiStruct{Name: vtable}},
			}},
		})
	}
	for i := range r.ci.CallbackInterfaces {
		cb := &r.ci.CallbackInterfaces[i]
		initFn(cb.FfiInitCallback, cb.VTable)
	}
	for i := range r.ci.Objects {
		o := &r.ci.Objects[i]
		if o.HasCallbackInterface() {
			initFn(o.FfiInitCallback, o.VTable)
		}
	}
	return fns
}

// include executes the named template into a string. Per-type templates
// are picked at run time, which {{template}} cannot do.
func (r *renderer) include(name string, data any) (string, error) {
	var b bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	r.log.Debugw("Rendered fragment", logger.FieldFragment, name, logger.FieldSize, b.Len())
	return b.String(), nil
}
