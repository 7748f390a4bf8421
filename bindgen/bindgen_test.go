package bindgen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/javabind/config"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/ir"
	"github.com/teranos/javabind/sink"
)

func loadComponents(t *testing.T, names ...string) []Component {
	t.Helper()
	var out []Component
	for _, name := range names {
		f, err := os.Open(filepath.Join("..", "testdata", "descriptions", name))
		require.NoError(t, err)
		cis, err := ir.Decode(f)
		f.Close()
		require.NoError(t, err)
		for _, ci := range cis {
			out = append(out, Component{CI: ci})
		}
	}
	return out
}

func tool() config.ToolConfig {
	return config.Default().Javabind
}

func TestGenerateWritesEveryComponent(t *testing.T) {
	mem := sink.NewMemorySink()
	g, err := New(Options{Tool: tool(), Sink: mem})
	require.NoError(t, err)

	report, err := g.Generate(context.Background(), loadComponents(t, "arithmetic.yaml", "geometry.yaml", "imported.yaml"))
	require.NoError(t, err)
	require.NoError(t, report.Err())

	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Results, 4)
	assert.Equal(t, "uniffi.shared", report.Packages["shared_types"])
	assert.Equal(t, "uniffi.consumer", report.Packages["consumer_crate"])

	byNS := make(map[string]Result)
	for _, res := range report.Results {
		byNS[res.Namespace] = res
	}
	assert.Contains(t, byNS["geometry"].Files, "uniffi/geometry/Point.java")
	assert.Contains(t, byNS["geometry"].Files, "uniffi/geometry/Geometry.java")
	assert.Contains(t, byNS["shared"].Files, "uniffi/shared/RemoteRecord.java")
	assert.Contains(t, byNS["arithmetic"].Files, "uniffi/arithmetic/ArithmeticException.java")
	assert.Equal(t, mem.Len(), report.FileCount())

	point := string(mem.Get("uniffi/geometry/Point.java"))
	assert.True(t, strings.HasPrefix(point, "package uniffi.geometry;\n"))
	assert.Contains(t, point, "public class Point {")

	consumer := string(mem.Get("uniffi/consumer/ConsumerFunctions.java"))
	assert.Contains(t, consumer, "uniffi.shared.FfiConverterTypeRemoteRecord.INSTANCE.lower(remote)")
}

func TestGenerateIsolatesFailures(t *testing.T) {
	components := loadComponents(t, "arithmetic.yaml", "geometry.yaml")
	// a custom type without its builtin cannot be mapped
	components[0].CI.Functions[0].ReturnType = ir.Custom{Name: "Url"}

	mem := sink.NewMemorySink()
	g, err := New(Options{Tool: tool(), Sink: mem})
	require.NoError(t, err)

	report, err := g.Generate(context.Background(), components)
	require.NoError(t, err)

	failed, ok := report.Results[0], report.Results[1]
	assert.False(t, failed.OK())
	assert.True(t, errors.IsUnmappedType(failed.Err))
	assert.Empty(t, failed.Files)

	assert.True(t, ok.OK())
	assert.NotEmpty(t, ok.Files)
	for _, p := range mem.Paths() {
		assert.True(t, strings.HasPrefix(p, "uniffi/geometry/"), "nothing written for the failed component: %s", p)
	}

	require.Error(t, report.Err())
	assert.Contains(t, report.Err().Error(), "component arithmetic")
}

// faultySink fails the second file written below prefix, either with an
// error or with a panic.
type faultySink struct {
	*sink.MemorySink
	prefix string
	panics bool

	mu     sync.Mutex
	writes int
}

func (s *faultySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if strings.HasPrefix(path, s.prefix) {
		s.mu.Lock()
		s.writes++
		n := s.writes
		s.mu.Unlock()
		if n == 2 {
			if s.panics {
				panic("disk on fire")
			}
			return errors.New("disk full")
		}
	}
	return s.MemorySink.WriteFile(ctx, path, content)
}

func TestGenerateRemovesPartialOutput(t *testing.T) {
	tests := []struct {
		name    string
		panics  bool
		wantErr string
	}{
		{"write error", false, "disk full"},
		{"panic", true, "panicked: disk on fire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &faultySink{MemorySink: sink.NewMemorySink(), prefix: "uniffi/arithmetic/", panics: tt.panics}
			g, err := New(Options{Tool: tool(), Sink: fs})
			require.NoError(t, err)

			report, err := g.Generate(context.Background(), loadComponents(t, "arithmetic.yaml", "geometry.yaml"))
			require.NoError(t, err)

			failed, ok := report.Results[0], report.Results[1]
			require.Error(t, failed.Err)
			assert.Contains(t, failed.Err.Error(), tt.wantErr)
			assert.Empty(t, failed.Files)
			assert.Equal(t, 2, fs.writes, "stops at the failing file")

			assert.True(t, ok.OK())
			for _, p := range fs.Paths() {
				assert.True(t, strings.HasPrefix(p, "uniffi/geometry/"), "partial output left behind: %s", p)
			}
			assert.Len(t, fs.Paths(), len(ok.Files))
		})
	}
}

func TestGenerateRejectsDuplicatePackages(t *testing.T) {
	components := loadComponents(t, "arithmetic.yaml", "geometry.yaml")
	for i := range components {
		components[i].Config.Package = "com.example.same"
	}

	g, err := New(Options{Tool: tool(), Sink: sink.NewMemorySink()})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), components)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestGenerateSingleWorker(t *testing.T) {
	tc := tool()
	tc.Workers = 1
	g, err := New(Options{Tool: tc, Sink: sink.NewMemorySink()})
	require.NoError(t, err)

	report, err := g.Generate(context.Background(), loadComponents(t, "arithmetic.yaml", "geometry.yaml", "coverall.yaml", "imported.yaml"))
	require.NoError(t, err)
	require.NoError(t, report.Err())

	for _, res := range report.Results {
		if res.Namespace == "coverall" {
			assert.Contains(t, res.InitFns, "UniffiCallbackInterfaceLogger.INSTANCE.register")
		}
	}
}

func TestGenerateCancelled(t *testing.T) {
	g, err := New(Options{Tool: tool(), Sink: sink.NewMemorySink()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Generate(ctx, loadComponents(t, "arithmetic.yaml"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateRunsFormatPerDirectory(t *testing.T) {
	root := t.TempDir()
	tc := tool()
	tc.FormatCommand = `google-java-format --replace`

	var mu sync.Mutex
	var calls [][]string
	runner := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, append([]string{name}, args...))
		if strings.HasSuffix(args[len(args)-1], "geometry") {
			return []byte("boom"), errors.New("exit status 1")
		}
		return nil, nil
	}

	g, err := New(Options{Tool: tc, Sink: sink.NewFilesystemSink(root), Runner: runner})
	require.NoError(t, err)

	report, err := g.Generate(context.Background(), loadComponents(t, "arithmetic.yaml", "geometry.yaml"))
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, []string{"google-java-format", "--replace", filepath.Join(root, "uniffi", "arithmetic")}, calls[0])
	require.Len(t, report.FormatWarnings, 1)
	assert.Contains(t, report.FormatWarnings[0], "boom")

	_, err = os.Stat(filepath.Join(root, "uniffi", "geometry", "Point.java"))
	assert.NoError(t, err)
}

func TestGenerateNoFormat(t *testing.T) {
	tc := tool()
	tc.FormatCommand = "false"
	called := false
	runner := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		called = true
		return nil, nil
	}

	g, err := New(Options{Tool: tc, Sink: sink.NewFilesystemSink(t.TempDir()), Runner: runner, NoFormat: true})
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), loadComponents(t, "arithmetic.yaml"))
	require.NoError(t, err)
	assert.False(t, called)
}

func TestNewValidatesTool(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.ToolConfig)
	}{
		{"reserved words", func(tc *config.ToolConfig) { tc.ReservedWords = "ignore" }},
		{"format command", func(tc *config.ToolConfig) { tc.FormatCommand = `fmt "unterminated` }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := tool()
			tt.mutate(&tc)
			_, err := New(Options{Tool: tc, Sink: sink.NewMemorySink()})
			require.Error(t, err)
		})
	}

	_, err := New(Options{Tool: tool()})
	assert.Error(t, err, "sink is required")
}
