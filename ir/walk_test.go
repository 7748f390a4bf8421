package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterTypesDeduplicatesAndSorts(t *testing.T) {
	ci := decodeFixture(t, "geometry.yaml")[0]

	var got []string
	for _, typ := range ci.IterTypes() {
		got = append(got, typ.String())
	}
	assert.Equal(t, []string{
		"f64",
		"optional<record:Point>",
		"record:Line",
		"record:Point",
	}, got)
}

func TestIterTypesMergesQualifiedDefinitions(t *testing.T) {
	ci := &ComponentInterface{
		Namespace: "geo",
		CrateName: "geo",
		Records: []RecordDef{{
			Name:       "Point",
			ModulePath: "geo::shapes",
			Fields:     []Field{{Name: "x", Type: Prim(Float64)}},
		}},
		Functions: []Callable{{
			Name:       "origin",
			ReturnType: Optional{Inner: Record{Name: "Point"}},
			FfiFunc:    "uniffi_geo_fn_func_origin",
		}},
	}

	var got []string
	for _, typ := range ci.IterTypes() {
		got = append(got, typ.String())
	}
	assert.Equal(t, []string{"f64", "optional<record:Point>", "record:Point"}, got)

	// other crates keep their path
	ci.Functions[0].ReturnType = Record{Name: "Point", ModulePath: "atlas::shapes"}
	got = got[:0]
	for _, typ := range ci.IterTypes() {
		got = append(got, typ.String())
	}
	assert.Contains(t, got, "record:atlas::shapes::Point")
	assert.Contains(t, got, "record:Point")
}

func TestStringToleratesMissingTypes(t *testing.T) {
	for _, typ := range []Type{
		Custom{Name: "Url"},
		Optional{},
		Sequence{},
		Map{Key: Prim(String)},
	} {
		assert.NotPanics(t, func() { _ = typ.String() })
	}
	assert.Equal(t, "custom:Url<<nil>>", Custom{Name: "Url"}.String())
}

func TestIterTypesReachesNestedTypes(t *testing.T) {
	ci := decodeFixture(t, "coverall.yaml")[0]

	seen := map[string]bool{}
	for _, typ := range ci.IterTypes() {
		seen[typ.String()] = true
	}

	for _, want := range []string{
		"u8", // enum discriminant type
		"string",
		"custom:Url<string>",
		"map<string, i32>",
		"map<string, bool>",
		"sequence<string>",
		"optional<enum:Color>",
		"callback:Logger",
		"object:Handler@callback_trait",
		"external:shared_types::records::RemoteRecord/shared",
		"timestamp",
		"duration",
		"bytes",
		"u64", // hash trait return
	} {
		assert.True(t, seen[want], "missing %s", want)
	}
}

func TestContainsObjectReferences(t *testing.T) {
	ci := decodeFixture(t, "coverall.yaml")[0]

	tests := []struct {
		typ  Type
		want bool
	}{
		{Object{Name: "Counter"}, true},
		{Record{Name: "Holder"}, true},
		{Optional{Inner: Record{Name: "Holder"}}, true},
		{Map{Key: Prim(String), Value: Object{Name: "Counter"}}, true},
		{Record{Name: "Settings"}, false},
		{Enum{Name: "Shape"}, false},
		{Sequence{Inner: Prim(Int32)}, false},
		{Record{Name: "Unknown"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ci.ContainsObjectReferences(tt.typ))
		})
	}
}

func TestOwnsType(t *testing.T) {
	ci := &ComponentInterface{Namespace: "geometry", CrateName: "geo"}

	assert.True(t, ci.OwnsType(Record{Name: "Point"}))
	assert.True(t, ci.OwnsType(Record{Name: "Point", ModulePath: "geo::shapes"}))
	assert.False(t, ci.OwnsType(Record{Name: "Point", ModulePath: "other::shapes"}))
	assert.False(t, ci.OwnsType(External{Name: "Point", ModulePath: "geo"}))
	assert.True(t, ci.OwnsType(Prim(String)))
}

func TestTypeStringsAreDistinct(t *testing.T) {
	types := []Type{
		Prim(Int64),
		Prim(UInt64),
		Enum{Name: "A"},
		Record{Name: "A"},
		Object{Name: "A"},
		Object{Name: "A", Impl: ImplTrait},
		CallbackInterface{Name: "A"},
		Custom{Name: "A", Builtin: Prim(String)},
		External{Name: "A", ModulePath: "x", Namespace: "x"},
		Optional{Inner: Prim(String)},
		Sequence{Inner: Prim(String)},
		Map{Key: Prim(String), Value: Prim(String)},
		Optional{Inner: Sequence{Inner: Prim(String)}},
		Sequence{Inner: Optional{Inner: Prim(String)}},
	}

	seen := map[string]Type{}
	for _, typ := range types {
		key := typ.String()
		prev, dup := seen[key]
		require.False(t, dup, "%v and %v share %q", prev, typ, key)
		seen[key] = typ
	}
}

func TestSignature(t *testing.T) {
	c := Callable{
		Name: "draw",
		Arguments: []Argument{
			{Name: "shape", Type: Enum{Name: "Shape"}},
			{Name: "size", Type: Prim(UInt32), Default: LitUInt{Value: 1, Type: Prim(UInt32)}},
		},
		ReturnType: Prim(Boolean),
		ThrowsType: Enum{Name: "DrawError"},
	}
	assert.Equal(t, "draw(shape: enum:Shape, size: u32 = 1:u32) -> bool throws enum:DrawError", Signature(&c))
}

func TestMarshalRepr(t *testing.T) {
	cis := decodeFixture(t, "arithmetic.yaml")
	out, err := MarshalRepr(cis)
	require.NoError(t, err)
	assert.Contains(t, string(out), "namespace: arithmetic")
	assert.Contains(t, string(out), "add(a: u64, b: u64) -> u64 throws enum:ArithmeticError")
}

func TestFfiTypeOf(t *testing.T) {
	tests := []struct {
		typ  Type
		want FfiType
	}{
		{Prim(Int32), FfiBasic{Kind: FfiInt32}},
		{Prim(UInt64), FfiBasic{Kind: FfiUInt64}},
		{Prim(Boolean), FfiBasic{Kind: FfiInt8}},
		{Prim(String), FfiRustBuffer{}},
		{Prim(Timestamp), FfiRustBuffer{}},
		{Record{Name: "Point"}, FfiRustBuffer{}},
		{Optional{Inner: Prim(Int32)}, FfiRustBuffer{}},
		{Object{Name: "Counter"}, FfiRustArcPtr{Object: "Counter"}},
		{CallbackInterface{Name: "Logger"}, FfiBasic{Kind: FfiUInt64}},
		{External{Name: "RemoteRecord"}, FfiRustBuffer{Suffix: "RemoteRecord"}},
		{External{Name: "Remote", ExtKind: ExternalInterface}, FfiRustArcPtr{Object: "Remote"}},
		{Custom{Name: "Handle", Builtin: Prim(Int64)}, FfiBasic{Kind: FfiInt64}},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FfiTypeOf(tt.typ))
		})
	}
}
