package ffi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
)

func basic(k ir.FfiKind) ir.FfiType { return ir.FfiBasic{Kind: k} }

func TestRepresentations(t *testing.T) {
	tests := []struct {
		name        string
		typ         ir.FfiType
		byValue     string
		byReference string
		field       string
		def         string
	}{
		{"i8", basic(ir.FfiInt8), "Byte", "ByteByReference", "Byte", "(byte)0"},
		{"u8", basic(ir.FfiUInt8), "Byte", "ByteByReference", "Byte", "(byte)0"},
		{"i16", basic(ir.FfiInt16), "Short", "ShortByReference", "Short", "(short)0"},
		{"u32", basic(ir.FfiUInt32), "Integer", "IntByReference", "Integer", "0"},
		{"i64", basic(ir.FfiInt64), "Long", "LongByReference", "Long", "0L"},
		{"u64", basic(ir.FfiUInt64), "Long", "LongByReference", "Long", "0L"},
		{"f32", basic(ir.FfiFloat32), "Float", "FloatByReference", "Float", "0.0f"},
		{"f64", basic(ir.FfiFloat64), "Double", "DoubleByReference", "Double", "0.0"},
		{"arc", ir.FfiRustArcPtr{Object: "Counter"}, "Pointer", "PointerByReference", "Pointer", "Pointer.NULL"},
		{"buffer", ir.FfiRustBuffer{}, "RustBuffer.ByValue", "RustBuffer", "RustBuffer.ByValue", "new RustBuffer.ByValue()"},
		{"external buffer", ir.FfiRustBuffer{Suffix: "Remote"}, "RustBufferRemote.ByValue", "RustBufferRemote", "RustBufferRemote.ByValue", "new RustBufferRemote.ByValue()"},
		{"struct", ir.FfiStruct{Name: "vtable_logger"}, "UniffiVtableLogger.UniffiByValue", "UniffiVtableLogger", "UniffiVtableLogger.UniffiByValue", "new UniffiVtableLogger.UniffiByValue()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByValue(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.byValue, got)

			got, err = ByReference(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.byReference, got)

			got, err = ForStructField(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.field, got)

			got, err = DefaultValue(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.def, got)
		})
	}
}

func TestCallbackRepresentations(t *testing.T) {
	cb := ir.FfiCallback{Name: "CallbackInterfaceFree"}

	got, err := ByValue(cb)
	require.NoError(t, err)
	assert.Equal(t, "UniffiCallbackInterfaceFree", got)

	got, err = ForStructField(cb)
	require.NoError(t, err)
	assert.Equal(t, "UniffiCallbackInterfaceFree", got)

	got, err = DefaultValue(cb)
	require.NoError(t, err)
	assert.Equal(t, "null", got)

	_, err = ByReference(cb)
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedFfi(err))
}

func TestSpecialLabels(t *testing.T) {
	tests := []struct {
		typ  ir.FfiType
		want string
	}{
		{basic(ir.FfiHandle), "Long"},
		{basic(ir.FfiVoidPointer), "Pointer"},
		{basic(ir.FfiRustCallStatus), "UniffiRustCallStatus.ByValue"},
		{basic(ir.FfiForeignBytes), "ForeignBytes.ByValue"},
		{ir.FfiReference{Inner: basic(ir.FfiInt32)}, "IntByReference"},
		{ir.FfiReference{Inner: ir.FfiStruct{Name: "vtable"}}, "UniffiVtable"},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got, err := ByValue(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnsupported(t *testing.T) {
	for _, typ := range []ir.FfiType{
		basic(ir.FfiVoidPointer),
		basic(ir.FfiHandle),
		basic(ir.FfiRustCallStatus),
		ir.FfiReference{Inner: basic(ir.FfiInt8)},
	} {
		t.Run(typ.String(), func(t *testing.T) {
			_, err := ByReference(typ)
			assert.True(t, errors.IsUnsupportedFfi(err))
		})
	}

	// reference to a callback has no representation at any level
	_, err := ByValue(ir.FfiReference{Inner: ir.FfiCallback{Name: "X"}})
	assert.True(t, errors.IsUnsupportedFfi(err))

	_, err = DefaultValue(ir.FfiReference{Inner: basic(ir.FfiInt8)})
	assert.True(t, errors.IsUnsupportedFfi(err))
}

// Every type that can appear as a struct field has a default value.
func TestStructFieldsDefaultConstructible(t *testing.T) {
	fields := []ir.FfiType{
		ir.FfiCallback{Name: "Cb"},
		ir.FfiRustBuffer{},
		ir.FfiRustArcPtr{},
		ir.FfiStruct{Name: "S"},
	}
	for k := ir.FfiInt8; k <= ir.FfiVoidPointer; k++ {
		fields = append(fields, basic(k))
	}

	for _, typ := range fields {
		_, err := ForStructField(typ)
		require.NoError(t, err, typ.String())
		_, err = DefaultValue(typ)
		require.NoError(t, err, typ.String())
	}
}
