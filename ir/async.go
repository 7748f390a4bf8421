package ir

// Names of the FFI definitions async calls rely on. Descriptions may declare
// them; when they do not, the generator derives them with these layouts.
const (
	// RustFutureContinuationCallback(data: u64, poll_result: i8) wakes a
	// poll once the native future can make progress.
	RustFutureContinuationCallback = "RustFutureContinuationCallback"
	// ForeignFuture{handle: u64, free: ForeignFutureFree} is what an async
	// callback method hands back to native code.
	ForeignFuture     = "ForeignFuture"
	ForeignFutureFree = "ForeignFutureFree"
)

// Poll results delivered to the continuation callback.
const (
	RustFuturePollReady      = 0
	RustFuturePollMaybeReady = 1
)

// AsyncHandleType is what async scaffolding functions return: the handle of
// a native future.
var AsyncHandleType FfiType = FfiBasic{Kind: FfiUInt64}

// RustFutureSuffix names the rust_future_* function family serving values of
// ret. It returns "" when ret has no family.
func RustFutureSuffix(ret FfiType) string {
	switch t := ret.(type) {
	case nil:
		return "void"
	case FfiBasic:
		if t.Kind.IsNumeric() {
			return t.Kind.String()
		}
		if t.Kind == FfiHandle {
			return FfiUInt64.String()
		}
	case FfiRustArcPtr:
		return "pointer"
	case FfiRustBuffer:
		if t.Suffix == "" {
			return "rust_buffer"
		}
	}
	return ""
}

// RustFutureFns are the native functions that drive one future family.
type RustFutureFns struct {
	Suffix   string
	Poll     string
	Complete string
	Free     string
	// Return is what Complete yields, nil for void.
	Return FfiType
}

// RustFuture returns the future functions of the family serving ret, and
// false when values of ret cannot be awaited.
func (ci *ComponentInterface) RustFuture(ret FfiType) (RustFutureFns, bool) {
	suffix := RustFutureSuffix(ret)
	if suffix == "" {
		return RustFutureFns{}, false
	}
	prefix := "ffi_" + ci.Crate() + "_rust_future_"
	return RustFutureFns{
		Suffix:   suffix,
		Poll:     prefix + "poll_" + suffix,
		Complete: prefix + "complete_" + suffix,
		Free:     prefix + "free_" + suffix,
		Return:   ret,
	}, true
}

// FfiReturnOf is the FFI type a callable's result travels as, nil for void.
// Constructors carry no return type but yield their object's pointer.
func FfiReturnOf(c *Callable) FfiType {
	if c.ReturnType == nil {
		return nil
	}
	return FfiTypeOf(c.ReturnType)
}

// HasAsyncCallbackMethods reports whether foreign code implements any async
// method, through a callback interface or a callback trait object.
func (ci *ComponentInterface) HasAsyncCallbackMethods() bool {
	for i := range ci.CallbackInterfaces {
		for j := range ci.CallbackInterfaces[i].Methods {
			if ci.CallbackInterfaces[i].Methods[j].IsAsync {
				return true
			}
		}
	}
	for i := range ci.Objects {
		o := &ci.Objects[i]
		if !o.HasCallbackInterface() {
			continue
		}
		for j := range o.Methods {
			if o.Methods[j].IsAsync {
				return true
			}
		}
	}
	return false
}

// FfiDefinition looks up a callback or struct definition by name.
func (ci *ComponentInterface) FfiDefinition(name string) FfiDefinition {
	for _, d := range ci.FfiDefinitions {
		if d.DefinitionName() == name {
			return d
		}
	}
	return nil
}
