package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/javabind/config"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
)

func component(ns, crate string, cfg config.JavaConfig) Component {
	return Component{CI: &ir.ComponentInterface{Namespace: ns, CrateName: crate}, Config: cfg}
}

func TestResolveDefaults(t *testing.T) {
	table, out, err := Resolve([]Component{
		component("geometry", "geometry_crate", config.JavaConfig{}),
		component("shared", "shared_types", config.JavaConfig{Package: "com.example.shared"}),
	})
	require.NoError(t, err)

	pkg, ok := table.Package("geometry_crate")
	require.True(t, ok)
	assert.Equal(t, "uniffi.geometry", pkg)
	assert.Equal(t, []string{"geometry_crate", "shared_types"}, table.Crates())
	assert.Equal(t, 2, table.Len())

	require.Len(t, out, 2)
	assert.Equal(t, "uniffi.geometry", out[0].Config.PackageName())
	assert.Equal(t, "uniffi_geometry", out[0].Config.CdylibName())
	assert.Equal(t, map[string]string{"shared_types": "com.example.shared"}, out[0].Config.ExternalPackages)
	assert.Equal(t, map[string]string{"geometry_crate": "uniffi.geometry"}, out[1].Config.ExternalPackages)
	assert.Equal(t, "geometry", out[0].Namespace())

	_, ok = table.Package("unknown")
	assert.False(t, ok)
}

func TestResolveExplicitOverrideWins(t *testing.T) {
	in := []Component{
		component("app", "app_crate", config.JavaConfig{
			ExternalPackages: map[string]string{"z_crate": "custom.pkg"},
		}),
		component("z", "z_crate", config.JavaConfig{Package: "com.example.z"}),
	}

	table, out, err := Resolve(in)
	require.NoError(t, err)

	zPkg, _ := table.Package("z_crate")
	assert.Equal(t, "com.example.z", zPkg)
	assert.Equal(t, "custom.pkg", out[0].Config.ExternalPackages["z_crate"])

	// inputs are left alone
	assert.Len(t, in[0].Config.ExternalPackages, 1)
	assert.Empty(t, in[1].Config.ExternalPackages)
	assert.Empty(t, in[1].Config.Package)
}

func TestResolveOwnCrateNotInjected(t *testing.T) {
	_, out, err := Resolve([]Component{component("solo", "", config.JavaConfig{})})
	require.NoError(t, err)
	assert.Empty(t, out[0].Config.ExternalPackages)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []Component
	}{
		{"same crate twice", []Component{
			component("a", "shared", config.JavaConfig{}),
			component("b", "shared", config.JavaConfig{}),
		}},
		{"same package twice", []Component{
			component("a", "a_crate", config.JavaConfig{Package: "com.example"}),
			component("b", "b_crate", config.JavaConfig{Package: "com.example"}),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Resolve(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}

	_, _, err := Resolve([]Component{{}})
	assert.True(t, errors.Is(err, errors.ErrInvalidDescription))
}

func TestResolveEmpty(t *testing.T) {
	table, out, err := Resolve(nil)
	require.NoError(t, err)
	assert.Zero(t, table.Len())
	assert.Empty(t, out)
}
