package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/javabind/errors"
)

type errorSet map[string]bool

func (s errorSet) IsNameUsedAsError(name string) bool { return s[name] }

func TestClassNameErrorSuffix(t *testing.T) {
	errs := errorSet{"ArithmeticError": true, "Failure": true, "io_error": true, "MyErrorCode": true}

	tests := []struct {
		raw  string
		want string
	}{
		{"ArithmeticError", "ArithmeticException"},
		{"io_error", "IoException"},
		// registered but not ending in Error: identity
		{"Failure", "Failure"},
		// exact suffix only
		{"MyErrorCode", "MyErrorCode"},
		// ends in Error but not registered
		{"ParseError", "ParseError"},
		{"coord_point", "CoordPoint"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassName(tt.raw, errs))
		})
	}
}

func TestClassNameWithoutRegistry(t *testing.T) {
	assert.Equal(t, "ArithmeticError", ClassName("ArithmeticError", nil))
}

func TestCaseConversions(t *testing.T) {
	assert.Equal(t, "coordX", VarName("coord_x"))
	assert.Equal(t, "uniffiHandle", VarName("uniffi_handle"))
	assert.Equal(t, "makeSettings", FnName("make_settings"))
	assert.Equal(t, "getCoordX", GetterName("coord_x"))
	assert.Equal(t, "setCoordX", SetterName("coord_x"))
	assert.Equal(t, "DARK_BLUE", EnumVariantName("dark_blue"))
	assert.Equal(t, "INTEGER_OVERFLOW", EnumVariantName("IntegerOverflow"))
	assert.Equal(t, "UniffiCallbackInterfaceFree", FfiCallbackName("CallbackInterfaceFree"))
	assert.Equal(t, "UniffiVtableCallbackInterfaceLogger", FfiStructName("vtable_callback_interface_logger"))
	assert.Equal(t, "NotFoundException", ErrorVariantName("not_found_error"))
}

func TestObjectNames(t *testing.T) {
	iface, class := ObjectNames("counter", false, nil)
	assert.Equal(t, "CounterInterface", iface)
	assert.Equal(t, "Counter", class)

	iface, class = ObjectNames("handler", true, nil)
	assert.Equal(t, "Handler", iface)
	assert.Equal(t, "HandlerImpl", class)

	iface, class = ObjectNames("ObjectError", false, errorSet{"ObjectError": true})
	assert.Equal(t, "ObjectExceptionInterface", iface)
	assert.Equal(t, "ObjectException", class)
}

func TestReservedWords(t *testing.T) {
	assert.Equal(t, "class_", VarName("class"))
	assert.Equal(t, "new_", FnName("new"))
	assert.Equal(t, "null_", VarName("null"))
	assert.Equal(t, "value", VarName("value"))

	escape := Namer{Policy: Escape}
	got, err := escape.VarName("int")
	require.NoError(t, err)
	assert.Equal(t, "int_", got)

	reject := Namer{Policy: Reject}
	_, err = reject.FnName("switch")
	require.Error(t, err)
	assert.True(t, errors.IsReservedWord(err))
	assert.NotEmpty(t, errors.GetAllHints(err))

	got, err = reject.FnName("switch_on")
	require.NoError(t, err)
	assert.Equal(t, "switchOn", got)
}

func TestParseReservedPolicy(t *testing.T) {
	p, err := ParseReservedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, Escape, p)

	p, err = ParseReservedPolicy("reject")
	require.NoError(t, err)
	assert.Equal(t, Reject, p)

	_, err = ParseReservedPolicy("quote")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestDocstring(t *testing.T) {
	assert.Equal(t, "", Docstring("", 4))
	assert.Equal(t, "/**\n * One line.\n */", Docstring("One line.", 0))
	assert.Equal(t,
		"    /**\n     * First.\n     *\n     *   indented\n     */",
		Docstring("  First.\n\n    indented\n", 4),
	)
}
