package partition

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/teranos/javabind/errors"
)

func TestSplitTwoDeclarations(t *testing.T) {
	doc := "package p;\nclass A {}\npackage p;\ninterface B {}\n"

	res, err := Split(doc, "p", Options{})
	require.NoError(t, err)
	require.Len(t, res.Units, 2)

	assert.Equal(t, "A", res.Units[0].Name)
	assert.Equal(t, "B", res.Units[1].Name)
	for _, u := range res.Units {
		assert.True(t, strings.HasPrefix(u.Content, "package p;\n"), u.Name)
	}
	assert.Equal(t, "package p;\n\nclass A {}\n", res.Units[0].Content)
	assert.Empty(t, res.Warnings)
}

func TestSplitHeaderOnly(t *testing.T) {
	res, err := Split("package p;\n", "p", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Units)
	assert.Empty(t, res.Warnings)
}

func TestSplitDeclarationSignatures(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want string
	}{
		{"class", "class A {}", "A"},
		{"public final class", "public final class Counter implements AutoCloseable {}", "Counter"},
		{"abstract class", "public abstract class FfiConverterCallbackInterface<T> {}", "FfiConverterCallbackInterface"},
		{"sealed interface", "public sealed interface Shape {}", "Shape"},
		{"non-sealed", "non-sealed class Leaf {}", "Leaf"},
		{"enum", "public enum Color {}", "Color"},
		{"record", "public record Point(Double x) {}", "Point"},
		{"annotation", "public @interface Marker {}", "Marker"},
		{"package private", "interface UniffiLib extends Library {}", "UniffiLib"},
		{"after javadoc", "/**\n * Doc.\n */\npublic class Documented {}", "Documented"},
		{"after imports", "import com.sun.jna.*;\n\nfinal class Helpers {}", "Helpers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Split("package p;\n"+tt.decl+"\n", "p", Options{})
			require.NoError(t, err)
			require.Len(t, res.Units, 1)
			assert.Equal(t, tt.want, res.Units[0].Name)
			assert.Equal(t, "p/"+tt.want+".java", res.Units[0].Path)
		})
	}
}

func TestSplitNestedDeclarationIsNotTopLevel(t *testing.T) {
	doc := "package p;\n/** doc */\n    static final class Inner {}\n"

	res, err := Split(doc, "p", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Units)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, CodePartitionMiss, res.Warnings[0].Code)
	assert.Equal(t, 1, res.Warnings[0].Index)
	assert.Equal(t, "/** doc */", res.Warnings[0].FirstLine)
}

func TestSplitMiss(t *testing.T) {
	doc := "// preamble\npackage p;\nclass A {}\npackage p;\nint x = 1;\n"

	t.Run("warns", func(t *testing.T) {
		res, err := Split(doc, "p", Options{})
		require.NoError(t, err)
		require.Len(t, res.Units, 1)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, Warning{Code: CodePartitionMiss, Index: 2, FirstLine: "int x = 1;"}, res.Warnings[0])
		assert.Equal(t, "partition-miss: chunk 2: int x = 1;", res.Warnings[0].String())
	})

	t.Run("fails", func(t *testing.T) {
		_, err := Split(doc, "p", Options{FailOnMiss: true})
		require.Error(t, err)
		assert.True(t, errors.IsPartitionMiss(err))
	})

	t.Run("preamble is silent", func(t *testing.T) {
		res, err := Split("// preamble\npackage p;\nclass A {}\n", "p", Options{FailOnMiss: true})
		require.NoError(t, err)
		assert.Empty(t, res.Warnings)
	})
}

func TestSplitDuplicateDeclaration(t *testing.T) {
	doc := "package p;\nclass A { int first; }\npackage p;\nclass A { int second; }\n"

	res, err := Split(doc, "p", Options{})
	require.NoError(t, err)
	require.Len(t, res.Units, 1)
	assert.Contains(t, res.Units[0].Content, "first")
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, CodeDuplicateDeclaration, res.Warnings[0].Code)
}

func TestSplitRejectsEmptyPackage(t *testing.T) {
	_, err := Split("class A {}", "", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestDir(t *testing.T) {
	assert.Equal(t, "com/example/coverall", Dir("com.example.coverall"))
	assert.Equal(t, "uniffi", Dir("uniffi"))
}

// TestSplitGolden runs every archive under testdata. The archive comment
// holds the package on its first line and "carry_imports" to enable that
// option; the "document" file is the input and every other file is an
// expected unit keyed by its path.
func TestSplitGolden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	for _, file := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(string(ar.Comment)), "\n")
			pkg := strings.TrimSpace(lines[0])
			opts := Options{}
			for _, flag := range lines[1:] {
				if strings.TrimSpace(flag) == "carry_imports" {
					opts.CarryImports = true
				}
			}

			var document string
			want := make(map[string]string)
			var order []string
			for _, f := range ar.Files {
				if f.Name == "document" {
					document = string(f.Data)
					continue
				}
				want[f.Name] = string(f.Data)
				order = append(order, f.Name)
			}

			res, err := Split(document, pkg, opts)
			require.NoError(t, err)
			assert.Empty(t, res.Warnings)

			got := make(map[string]string)
			var gotOrder []string
			for _, u := range res.Units {
				got[u.Path] = u.Content
				gotOrder = append(gotOrder, u.Path)
			}
			assert.Equal(t, order, gotOrder)
			for path, content := range want {
				assert.Equal(t, content, got[path], path)
			}
		})
	}
}
