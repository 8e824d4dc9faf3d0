package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "pass", cfg.PassCommand)
	assert.Equal(t, "personal", cfg.Group)
	assert.True(t, cfg.Notes)
	assert.False(t, cfg.Force)
	assert.Zero(t, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.LogFormat)
}

func TestLoad_NoPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, "fsk2pass.yaml", `
pass_command: /usr/local/bin/pass
group: imported/fsecure
notes: false
timeout: 30s
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/pass", cfg.PassCommand)
	assert.Equal(t, "imported/fsecure", cfg.Group)
	assert.False(t, cfg.Notes)
	assert.False(t, cfg.Force)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.LogFormat)
}

func TestLoad_FileWithoutExtension(t *testing.T) {
	path := writeConfig(t, ".fsk2passrc", "force: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Force)
	assert.Equal(t, "personal", cfg.Group)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"Missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") }},
		{"Directory", func(t *testing.T) string { return t.TempDir() }},
		{"Invalid YAML", func(t *testing.T) string { return writeConfig(t, "bad.yaml", "group: [unterminated\n") }},
		{"Invalid timeout", func(t *testing.T) string { return writeConfig(t, "bad.yaml", "timeout: soon\n") }},
		{"Negative timeout", func(t *testing.T) string { return writeConfig(t, "bad.yaml", "timeout: -5s\n") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			var cfgErr *ErrConfig
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}
