package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/javabind/codetype"
)

func TestImportSetDeduplicates(t *testing.T) {
	s := NewImportSet()
	s.Add(codetype.Import{Name: "java.net.URL"})
	s.Add(codetype.Import{Name: "java.net.URL"})
	s.Add(codetype.Import{Name: ""})
	s.Add(codetype.Import{Name: "java.math.BigDecimal"})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "import java.math.BigDecimal;\nimport java.net.URL;\n", s.Render())
}

func TestImportSetAliases(t *testing.T) {
	s := NewImportSet()
	s.Add(codetype.Import{Name: "com.example.shared.RustBuffer", Alias: "RustBufferRemoteRecord"})
	s.Add(codetype.Import{Name: "com.example.shared.RemoteRecord"})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "import com.example.shared.RemoteRecord;\n", s.Render(), "aliased imports render no line")

	tests := []struct {
		in   string
		want string
	}{
		{"RustBufferRemoteRecord.ByValue", "com.example.shared.RustBuffer.ByValue"},
		{"RustBufferRemoteRecord", "com.example.shared.RustBuffer"},
		{"RustBuffer.ByValue", "RustBuffer.ByValue"},
		{"Pointer", "Pointer"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Qualify(tt.in))
		})
	}
}

func TestImportSetSorted(t *testing.T) {
	s := NewImportSet()
	s.Add(codetype.Import{Name: "b.B"})
	s.Add(codetype.Import{Name: "a.A", Alias: "Z"})
	s.Add(codetype.Import{Name: "a.A"})

	assert.Equal(t, []codetype.Import{
		{Name: "a.A"},
		{Name: "a.A", Alias: "Z"},
		{Name: "b.B"},
	}, s.Sorted())
}

func TestRenderStateIncludeOnce(t *testing.T) {
	s := NewRenderState()

	assert.True(t, s.IncludeOnce("Timestamp"))
	assert.False(t, s.IncludeOnce("Timestamp"))
	assert.True(t, s.IncludeOnce("Duration"))

	other := NewRenderState()
	assert.True(t, other.IncludeOnce("Timestamp"), "state is per pass")
}

func TestRenderStateImports(t *testing.T) {
	s := NewRenderState()
	assert.Empty(t, s.AddImport("java.util.UUID"))
	assert.Empty(t, s.AddImportAs("com.example.RustBuffer", "RustBufferShared"))
	assert.Empty(t, s.AddImport("java.util.UUID"))

	assert.Equal(t, 2, s.Imports().Len())
	assert.Equal(t, "com.example.RustBuffer", s.Imports().Qualify("RustBufferShared"))
}
