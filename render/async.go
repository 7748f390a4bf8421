package render

import (
	"strings"

	"github.com/teranos/javabind/codetype"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
	"github.com/teranos/javabind/naming"
)

// asyncImports are needed by every document with async callables.
var asyncImports = []string{
	"java.util.concurrent.CompletableFuture",
	"java.util.concurrent.ExecutionException",
	"java.util.function.BiConsumer",
	"java.util.function.BiFunction",
	"java.util.function.Supplier",
}

// asyncView feeds the UniffiAsyncHelpers template.
type asyncView struct {
	Continuation string
	// Callbacks is set when foreign code implements async methods; the
	// remaining fields describe the ForeignFuture handed back for them.
	Callbacks     bool
	ForeignFuture string
	FreeCallback  string
	HandleField   string
	FreeField     string
}

// futureView describes how an async callback method reports completion.
type futureView struct {
	// Callback and Data are the Java parameter names of the completion
	// callback and its opaque argument.
	Callback string
	Data     string
	// Struct is the result struct class, ReturnField is empty for void.
	Struct      string
	ReturnField string
	StatusField string
}

// checkAsync rejects async callables whose result has no future family.
// Async primary constructors are left out of the Java class instead.
func checkAsync(ci *ir.ComponentInterface) error {
	check := func(c *ir.Callable, ret ir.FfiType) error {
		if !c.IsAsync {
			return nil
		}
		if _, ok := ci.RustFuture(ret); !ok {
			return errors.MarkUnmappedType("%s: async result %s cannot be awaited", c.Name, ret)
		}
		return nil
	}
	for i := range ci.Functions {
		if err := check(&ci.Functions[i], ir.FfiReturnOf(&ci.Functions[i])); err != nil {
			return err
		}
	}
	for i := range ci.Objects {
		o := &ci.Objects[i]
		for j := range o.Constructors {
			if err := check(&o.Constructors[j], ir.FfiRustArcPtr{Object: o.Name}); err != nil {
				return err
			}
		}
		for j := range o.Methods {
			if err := check(&o.Methods[j], ir.FfiReturnOf(&o.Methods[j])); err != nil {
				return err
			}
		}
		for j := range o.Traits {
			if o.Traits[j].Method.IsAsync {
				return errors.MarkUnmappedType("%s: trait methods cannot be async", o.Traits[j].Method.Name)
			}
		}
	}
	return nil
}

// asyncSupport returns nil when nothing in the component is async.
func (r *renderer) asyncSupport() (*asyncView, error) {
	if !r.ci.HasAsyncCallables() {
		return nil, nil
	}
	for _, name := range asyncImports {
		r.state.Imports().Add(codetype.Import{Name: name})
	}
	v := &asyncView{Continuation: naming.FfiCallbackName(ir.RustFutureContinuationCallback)}
	if !r.ci.HasAsyncCallbackMethods() {
		return v, nil
	}

	st := r.ffiStructDef(ir.ForeignFuture)
	if st == nil {
		st = foreignFutureStruct()
	}
	if len(st.Fields) != 2 {
		return nil, errors.MarkInvalidDescription(
			errors.Newf("struct %s needs a handle and a free field, has %d fields", st.Name, len(st.Fields)), r.ci.Namespace)
	}
	free, ok := st.Fields[1].Type.(ir.FfiCallback)
	if !ok {
		return nil, errors.MarkInvalidDescription(
			errors.Newf("struct %s: field %s is not a callback", st.Name, st.Fields[1].Name), r.ci.Namespace)
	}
	v.Callbacks = true
	v.ForeignFuture = naming.FfiStructName(st.Name)
	v.FreeCallback = naming.FfiCallbackName(free.Name)
	var err error
	if v.HandleField, err = r.namer.VarName(st.Fields[0].Name); err != nil {
		return nil, err
	}
	if v.FreeField, err = r.namer.VarName(st.Fields[1].Name); err != nil {
		return nil, err
	}
	return v, nil
}

func foreignFutureStruct() *ir.FfiStructDef {
	return &ir.FfiStructDef{Name: ir.ForeignFuture, Fields: []ir.FfiArgument{
		{Name: "handle", Type: ir.FfiBasic{Kind: ir.FfiUInt64}},
		{Name: "free", Type: ir.FfiCallback{Name: ir.ForeignFutureFree}},
	}}
}

// ffiDefinitions returns the callback and struct definitions to declare:
// the description's, plus the async ones it leaves out.
func (r *renderer) ffiDefinitions() ([]*ir.FfiCallbackDef, []*ir.FfiStructDef) {
	callbacks := r.ci.FfiCallbacks()
	structs := r.ci.FfiStructs()
	if !r.ci.HasAsyncCallables() {
		return callbacks, structs
	}
	u64 := ir.FfiBasic{Kind: ir.FfiUInt64}
	if r.ci.FfiDefinition(ir.RustFutureContinuationCallback) == nil {
		callbacks = append(callbacks, &ir.FfiCallbackDef{
			Name: ir.RustFutureContinuationCallback,
			Arguments: []ir.FfiArgument{
				{Name: "data", Type: u64},
				{Name: "poll_result", Type: ir.FfiBasic{Kind: ir.FfiInt8}},
			},
		})
	}
	if r.ci.HasAsyncCallbackMethods() {
		if r.ci.FfiDefinition(ir.ForeignFutureFree) == nil {
			callbacks = append(callbacks, &ir.FfiCallbackDef{
				Name:      ir.ForeignFutureFree,
				Arguments: []ir.FfiArgument{{Name: "handle", Type: u64}},
			})
		}
		if r.ci.FfiDefinition(ir.ForeignFuture) == nil {
			structs = append(structs, foreignFutureStruct())
		}
	}
	return callbacks, structs
}

// rustFutureFunctions declares the handle-returning scaffolding function
// of c and the poll, complete and free functions of its future family.
func (r *renderer) rustFutureFunctions(c *ir.Callable, args []ir.FfiArgument, ret ir.FfiType) []ir.FfiFunction {
	fam, ok := r.ci.RustFuture(ret)
	if !ok {
		return nil
	}
	handle := ir.FfiArgument{Name: "handle", Type: ir.AsyncHandleType}
	return []ir.FfiFunction{
		{Name: c.FfiFunc, Arguments: args, ReturnType: ir.AsyncHandleType},
		{
			Name: fam.Poll,
			Arguments: []ir.FfiArgument{
				handle,
				{Name: "callback", Type: ir.FfiCallback{Name: ir.RustFutureContinuationCallback}},
				{Name: "callback_data", Type: ir.FfiBasic{Kind: ir.FfiUInt64}},
			},
		},
		{Name: fam.Complete, Arguments: []ir.FfiArgument{handle}, ReturnType: fam.Return, HasRustCallStatus: true},
		{Name: fam.Free, Arguments: []ir.FfiArgument{handle}},
	}
}

// hasResult reports whether the Java method returns a value. Async methods
// always return their future.
func hasResult(c *ir.Callable) bool { return c.ReturnType != nil || c.IsAsync }

// futureLabel is the CompletableFuture type an async callable returns.
func (r *renderer) futureLabel(t ir.Type) (string, error) {
	if t == nil {
		return "CompletableFuture<Void>", nil
	}
	label, err := r.typeName(t)
	if err != nil {
		return "", err
	}
	return "CompletableFuture<" + label + ">", nil
}

// asyncCall starts c and wraps its native future. Methods create the
// future under callWithPointer; result is the awaited type, nil for void.
func (r *renderer) asyncCall(c *ir.Callable, self bool, result ir.Type, ret ir.FfiType) (string, error) {
	if c.FfiFunc == "" {
		return "", errors.MarkInvalidDescription(errors.New("no ffi function"), c.Name)
	}
	fam, ok := r.ci.RustFuture(ret)
	if !ok {
		return "", errors.MarkUnmappedType("%s: async result %s cannot be awaited", c.Name, ret)
	}

	args := make([]string, 0, len(c.Arguments)+1)
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
	future := "UniffiLib.INSTANCE." + c.FfiFunc + "(" + strings.Join(args, ", ") + ")"
	if self {
		future = "callWithPointer(it -> " + future + ")"
	}

	lift := "() -> {}"
	if result != nil {
		fn, err := r.convFn(codetype.LiftFn)(result)
		if err != nil {
			return "", err
		}
		lift = "uniffiValue -> " + fn + "(uniffiValue)"
	}

	handler := "new UniffiNullRustCallStatusErrorHandler()"
	if c.ThrowsType != nil {
		label, err := r.typeName(c.ThrowsType)
		if err != nil {
			return "", err
		}
		handler = "new " + label + "ErrorHandler()"
	}

	indent := "\n            "
	return "UniffiAsyncHelpers.uniffiRustCallAsync(" + strings.Join([]string{
		future,
		"(uniffiFuture, uniffiCallback, uniffiContinuation) -> UniffiLib.INSTANCE." + fam.Poll + "(uniffiFuture, uniffiCallback, uniffiContinuation)",
		"(uniffiFuture, uniffiStatus) -> UniffiLib.INSTANCE." + fam.Complete + "(uniffiFuture, uniffiStatus)",
		"uniffiFuture -> UniffiLib.INSTANCE." + fam.Free + "(uniffiFuture)",
		lift,
		handler,
	}, ","+indent) + ")", nil
}

// asyncCtorCall is the future of an async alternate constructor.
func (r *renderer) asyncCtorCall(c *ir.Callable, o *ir.ObjectDef) (string, error) {
	return r.asyncCall(c, false, o.AsType(), ir.FfiRustArcPtr{Object: o.Name})
}

// asyncCtorType is the Java return type of an async alternate constructor.
func (r *renderer) asyncCtorType(o *ir.ObjectDef) (string, error) {
	return r.futureLabel(o.AsType())
}

// future matches an async callback method with the trailing arguments of
// its FFI callback: completion callback, callback data, out return.
func (r *renderer) future(def *ir.FfiCallbackDef, m *ir.Callable) (*futureView, error) {
	n := 1 + len(m.Arguments)
	if len(def.Arguments) != n+3 {
		return nil, errors.MarkInvalidDescription(
			errors.Newf("async callback %s has %d arguments, want %d", def.Name, len(def.Arguments), n+3), m.Name)
	}
	cbType, ok := def.Arguments[n].Type.(ir.FfiCallback)
	if !ok {
		return nil, errors.MarkInvalidDescription(
			errors.Newf("argument %s of %s is not a completion callback", def.Arguments[n].Name, def.Name), m.Name)
	}
	complete := r.ffiCallbackDef(cbType.Name)
	if complete == nil || len(complete.Arguments) != 2 {
		return nil, errors.MarkInvalidDescription(errors.Newf("completion callback %q is not defined", cbType.Name), m.Name)
	}
	resType, ok := complete.Arguments[1].Type.(ir.FfiStruct)
	if !ok {
		return nil, errors.MarkInvalidDescription(
			errors.Newf("completion callback %s does not take a result struct", complete.Name), m.Name)
	}
	st := r.ffiStructDef(resType.Name)
	if st == nil || len(st.Fields) == 0 {
		return nil, errors.MarkInvalidDescription(errors.Newf("result struct %q is not defined", resType.Name), m.Name)
	}
	if m.ReturnType != nil && len(st.Fields) != 2 {
		return nil, errors.MarkInvalidDescription(
			errors.Newf("result struct %s has no return value field", st.Name), m.Name)
	}

	v := &futureView{Struct: naming.FfiStructName(st.Name)}
	var err error
	if v.Callback, err = r.namer.VarName(def.Arguments[n].Name); err != nil {
		return nil, err
	}
	if v.Data, err = r.namer.VarName(def.Arguments[n+1].Name); err != nil {
		return nil, err
	}
	if m.ReturnType != nil {
		if v.ReturnField, err = r.namer.VarName(st.Fields[0].Name); err != nil {
			return nil, err
		}
	}
	if v.StatusField, err = r.namer.VarName(st.Fields[len(st.Fields)-1].Name); err != nil {
		return nil, err
	}
	return v, nil
}
