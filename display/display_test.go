package display

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/javabind/bindgen"
	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/logger"
	"github.com/teranos/javabind/partition"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func sampleReport() *bindgen.Report {
	return &bindgen.Report{
		RunID:    "run-1",
		Packages: map[string]string{"geometry": "uniffi.geometry", "arithmetical": "uniffi.arithmetic"},
		Results: []bindgen.Result{
			{
				Namespace: "geometry",
				Package:   "uniffi.geometry",
				Files:     []string{"uniffi/geometry/Point.java", "uniffi/geometry/Geometry.java"},
				Warnings:  []partition.Warning{{Code: partition.CodePartitionMiss, Index: 3, FirstLine: "// stray"}},
				Duration:  12 * time.Millisecond,
			},
			{
				Namespace: "arithmetic",
				Package:   "uniffi.arithmetic",
				Err:       errors.WithHint(errors.New("async functions are not supported"), "drop async"),
			},
		},
		FormatWarnings: []string{"google-java-format: exit status 1"},
	}
}

func TestNewReportView(t *testing.T) {
	view := NewReportView(sampleReport(), true)

	assert.Equal(t, "run-1", view.RunID)
	assert.True(t, view.DryRun)
	assert.Equal(t, 2, view.Files)
	assert.Equal(t, 1, view.Failed)
	require.Len(t, view.Components, 2)

	assert.Equal(t, int64(12), view.Components[0].DurationMS)
	assert.Empty(t, view.Components[0].Error)
	assert.Equal(t, []string{}, view.Components[1].Files)
	assert.Equal(t, "async functions are not supported", view.Components[1].Error)
	assert.Equal(t, []string{"drop async"}, view.Components[1].Hints)
}

func TestWriteJSON(t *testing.T) {
	t.Setenv("JAVABIND_OUTPUT", "")
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewReportView(sampleReport(), false)))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.NotContains(t, decoded, "dry_run")
	assert.Contains(t, buf.String(), "\n  \"run_id\"")

	t.Setenv("JAVABIND_OUTPUT", "json-compact")
	buf.Reset()
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\"a\":1}\n", buf.String())
}

func TestWriteReport(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		want      []string
		wantNot   []string
	}{
		{
			name:      "default",
			verbosity: logger.VerbosityUser,
			want:      []string{"geometry", "uniffi.arithmetic", "failed", "partition-miss", "hint: drop async", "1 of 2 components failed", "format: google-java-format"},
			wantNot:   []string{"Resolved packages", "uniffi/geometry/Point.java", "12ms"},
		},
		{
			name:      "debug",
			verbosity: logger.VerbosityDebug,
			want:      []string{"Resolved packages", "arithmetical → uniffi.arithmetic", "12ms"},
			wantNot:   []string{"uniffi/geometry/Point.java"},
		},
		{
			name:      "trace",
			verbosity: logger.VerbosityTrace,
			want:      []string{"uniffi/geometry/Point.java", "uniffi/geometry/Geometry.java"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			WriteReport(&buf, sampleReport(), tt.verbosity, false)
			out := buf.String()
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.wantNot {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestWriteReportSuccessAndDryRun(t *testing.T) {
	report := sampleReport()
	report.Results = report.Results[:1]

	var buf bytes.Buffer
	WriteReport(&buf, report, logger.VerbosityUser, true)
	out := buf.String()
	assert.Contains(t, out, "DRY RUN")
	assert.Contains(t, out, "Generated 2 files for 1 components")
}

func TestShouldOutputJSON(t *testing.T) {
	t.Setenv("JAVABIND_OUTPUT", "")

	root := &cobra.Command{Use: "javabind"}
	root.PersistentFlags().Bool("json", false, "")
	child := &cobra.Command{Use: "generate"}
	root.AddCommand(child)

	assert.False(t, ShouldOutputJSON(child))

	require.NoError(t, root.PersistentFlags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(child))

	local := &cobra.Command{Use: "version"}
	local.Flags().Bool("json", false, "")
	require.NoError(t, local.Flags().Set("json", "false"))
	t.Setenv("JAVABIND_OUTPUT", "json")
	assert.False(t, ShouldOutputJSON(local), "explicit flag wins over the environment")

	assert.True(t, ShouldOutputJSON(nil))
}
