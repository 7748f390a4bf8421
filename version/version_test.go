package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"dev build", Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"}, "javabind dev (commit dev, built unknown)"},
		{"tagged", Info{Version: "v0.4.1", CommitHash: "0123456789abcdef", BuildTime: "2026-01-02"}, "javabind v0.4.1 (commit 0123456, built 2026-01-02)"},
		{"untagged name", Info{Version: "main", CommitHash: "abc", BuildTime: "x"}, "javabind dev (commit abc, built x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, "^1.0", info.DescriptionFormat)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
	assert.False(t, info.Tagged())
}
