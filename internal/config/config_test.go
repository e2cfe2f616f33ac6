package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points Load at a missing .env file and clears variables it reads.
func isolate(t *testing.T) Overrides {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "DATA_PATH", "REMOTE_URL", "REMOTE_TIMEOUT", "REMOTE_RPS", "REMOTE_BURST",
		"SERVER_PORT", "SERVER_RPS", "SERVER_BURST", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
		"DUPLICATE_POLICY", "CASCADE_DELETES",
	} {
		t.Setenv(key, "")
	}
	return Overrides{EnvFile: filepath.Join(t.TempDir(), "missing.env")}
}

func TestLoad_Defaults(t *testing.T) {
	o := isolate(t)

	cfg, err := Load(o)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, filepath.Join(home, ".grocerylist", "data"), cfg.Store.DataPath)
	assert.Equal(t, "http://localhost:5000/api", cfg.Remote.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "7420", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:7420", cfg.Server.Addr())
	assert.Equal(t, DuplicatesReject, cfg.List.DuplicatePolicy)
	assert.True(t, cfg.List.CascadeDeletes)
}

func TestLoad_Precedence(t *testing.T) {
	o := isolate(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"# local settings\n"+
			"LOG_LEVEL=debug\n"+
			"export SERVER_PORT=\"9000\"\n"+
			"REMOTE_TIMEOUT=3s\n"+
			"DUPLICATE_POLICY=allow\n",
	), 0o600))
	o.EnvFile = envFile

	t.Setenv("SERVER_PORT", "8000")
	o.DuplicatePolicy = "reject"

	cfg, err := Load(o)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level, ".env applies when nothing else is set")
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "8000", cfg.Server.Port, "environment beats .env")
	assert.Equal(t, DuplicatesReject, cfg.List.DuplicatePolicy, "flags beat everything")
}

func TestLoad_InMemoryStore(t *testing.T) {
	o := isolate(t)
	o.DataPath = "memory"

	cfg, err := Load(o)
	require.NoError(t, err)
	assert.True(t, cfg.Store.InMemory())
}

func TestLoad_CascadeFlag(t *testing.T) {
	o := isolate(t)
	o.CascadeDeletes = "no"

	cfg, err := Load(o)
	require.NoError(t, err)
	assert.False(t, cfg.List.CascadeDeletes)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		edit func(o *Overrides)
	}{
		{"environment", func(o *Overrides) { o.Environment = "test" }},
		{"log level", func(o *Overrides) { o.LogLevel = "loud" }},
		{"remote url", func(o *Overrides) { o.RemoteURL = "ftp://example.com" }},
		{"remote timeout", func(o *Overrides) { o.RemoteTimeout = "soon" }},
		{"port", func(o *Overrides) { o.Port = "99999" }},
		{"duplicate policy", func(o *Overrides) { o.DuplicatePolicy = "merge" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := isolate(t)
			o.DataPath = "memory"
			tt.edit(&o)

			_, err := Load(o)
			assert.Error(t, err)
		})
	}
}

func TestExpandDataPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandDataPath("~/lists")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "lists"), got)

	got, err = expandDataPath("/tmp/../tmp/x")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", got)
}

func TestLoadEnvFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT A PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(path))
}
