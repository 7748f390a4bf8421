package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRustFutureFamilies(t *testing.T) {
	ci := &ComponentInterface{Namespace: "futures", CrateName: "futures_crate"}

	tests := []struct {
		name   string
		ret    FfiType
		suffix string
	}{
		{"void", nil, "void"},
		{"integer", FfiBasic{Kind: FfiInt32}, "i32"},
		{"unsigned", FfiBasic{Kind: FfiUInt64}, "u64"},
		{"float", FfiBasic{Kind: FfiFloat64}, "f64"},
		{"handle", FfiBasic{Kind: FfiHandle}, "u64"},
		{"object", FfiRustArcPtr{Object: "Downloader"}, "pointer"},
		{"buffer", FfiRustBuffer{}, "rust_buffer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fam, ok := ci.RustFuture(tt.ret)
			require.True(t, ok)
			assert.Equal(t, tt.suffix, fam.Suffix)
			assert.Equal(t, "ffi_futures_crate_rust_future_poll_"+tt.suffix, fam.Poll)
			assert.Equal(t, "ffi_futures_crate_rust_future_complete_"+tt.suffix, fam.Complete)
			assert.Equal(t, "ffi_futures_crate_rust_future_free_"+tt.suffix, fam.Free)
		})
	}

	for _, ret := range []FfiType{
		FfiRustBuffer{Suffix: "RemoteRecord"},
		FfiBasic{Kind: FfiRustCallStatus},
		FfiStruct{Name: "ForeignFuture"},
	} {
		_, ok := ci.RustFuture(ret)
		assert.False(t, ok, "%s", ret)
	}
}

func TestDecodeAsync(t *testing.T) {
	ci := decodeFixture(t, "futures.yaml")[0]

	assert.True(t, ci.HasAsyncCallables())
	assert.True(t, ci.HasAsyncCallbackMethods())
	assert.True(t, ci.Functions[0].IsAsync)
	assert.False(t, ci.Functions[2].IsAsync)
	assert.Equal(t, "async fetch(url: string) -> string throws enum:FetchError", Signature(&ci.Functions[1]))
	assert.Nil(t, ci.FfiDefinition(ForeignFuture), "left to the generator")
	assert.NotNil(t, ci.FfiDefinition("ForeignFutureStructVoid"))

	coverall := decodeFixture(t, "coverall.yaml")[0]
	assert.False(t, coverall.HasAsyncCallables())
	assert.False(t, coverall.HasAsyncCallbackMethods())
}
