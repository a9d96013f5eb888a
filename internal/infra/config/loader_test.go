package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runoshun/mfnd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir(), "/home/me", nil)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/me", ".local", "share", "mfnd", "todo_list.sqlite"), cfg.Store.Path)
	assert.Equal(t, "0400", cfg.Reset.Pumpkin)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.UI.Plain)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_GlobalConfigOnly(t *testing.T) {
	// Setup
	globalDir := t.TempDir()
	writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), `
[store]
path = "/data/todo.json"
backend = "json"

[reset]
pumpkin = "0530"

[labels]
encodings = ["alpha", "decimal"]
`)
	loader := NewLoaderWithGlobalDir(t.TempDir(), globalDir, "/home/me", nil)

	// Execute
	cfg, err := loader.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/data/todo.json", cfg.Store.Path)
	assert.Equal(t, domain.BackendJSON, cfg.Store.Backend)
	assert.Equal(t, "0530", cfg.Reset.Pumpkin)
	assert.Equal(t, []string{"alpha", "decimal"}, cfg.Labels.Encodings)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoader_Load_LocalOverridesGlobal(t *testing.T) {
	// Setup
	globalDir := t.TempDir()
	workDir := t.TempDir()
	writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), `
[log]
level = "debug"

[ui]
plain = true
`)
	writeFile(t, domain.LocalConfigPath(workDir), `
[log]
level = "warn"

[store]
path = "~/work/todo.sqlite"
`)
	loader := NewLoaderWithGlobalDir(workDir, globalDir, "/home/me", nil)

	// Execute
	cfg, err := loader.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.UI.Plain, "keys missing locally keep the global value")
	assert.Equal(t, filepath.Join("/home/me", "work", "todo.sqlite"), cfg.Store.Path)
}

func TestLoader_Load_EnvOverridesStorePath(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, domain.LocalConfigPath(workDir), `
[store]
path = "/from/file.sqlite"
`)
	env := map[string]string{domain.StorePathEnv: "/from/env.sqlite"}
	loader := NewLoaderWithGlobalDir(workDir, "", "/home/me", func(k string) string { return env[k] })

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "/from/env.sqlite", cfg.Store.Path)
}

func TestLoader_Load_UnknownKeysAreWarnings(t *testing.T) {
	workDir := t.TempDir()
	writeFile(t, domain.LocalConfigPath(workDir), `
[log]
level = "debug"
colour = "red"

[extras]
x = 1
`)
	loader := NewLoaderWithGlobalDir(workDir, "", "/home/me", nil)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.NotEmpty(t, cfg.Warnings)
	joined := strings.Join(cfg.Warnings, "\n")
	assert.Contains(t, joined, "extras")
	assert.Contains(t, joined, "colour")
}

func TestLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad pumpkin", "[reset]\npumpkin = \"2500\"\n", "reset.pumpkin"},
		{"bad backend", "[store]\nbackend = \"bolt\"\n", "store.backend"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"bad encoding", "[labels]\nencodings = [\"roman\"]\n", "labels.encodings"},
		{"bad toml", "[store\npath = 1\n", "load"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workDir := t.TempDir()
			writeFile(t, domain.LocalConfigPath(workDir), tt.content)
			loader := NewLoaderWithGlobalDir(workDir, "", "/home/me", nil)

			_, err := loader.Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoader_Sources(t *testing.T) {
	globalDir := t.TempDir()
	workDir := t.TempDir()
	writeFile(t, domain.LocalConfigPath(workDir), "[log]\nlevel = \"debug\"\n")
	loader := NewLoaderWithGlobalDir(workDir, globalDir, "/home/me", nil)

	sources := loader.Sources()

	require.Len(t, sources, 2)
	assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), sources[0].Path)
	assert.False(t, sources[0].Exists)
	assert.Equal(t, domain.LocalConfigPath(workDir), sources[1].Path)
	assert.True(t, sources[1].Exists)
	assert.Contains(t, sources[1].Content, "debug")
}

func TestManager_InitGlobalConfig(t *testing.T) {
	// Setup
	globalDir := filepath.Join(t.TempDir(), "mfnd")
	m := NewManagerWithGlobalDir(globalDir)
	cfg := domain.NewDefaultConfig()
	cfg.Reset.Pumpkin = "0300"

	// Execute
	path, err := m.InitGlobalConfig(cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), path)

	loaded, err := NewLoaderWithGlobalDir("", globalDir, "/home/me", nil).Load()
	require.NoError(t, err)
	assert.Equal(t, "0300", loaded.Reset.Pumpkin)
	assert.Empty(t, loaded.Warnings)

	_, err = m.InitGlobalConfig(cfg)
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}

func TestManager_NoGlobalDir(t *testing.T) {
	m := NewManagerWithGlobalDir("")

	_, err := m.InitGlobalConfig(domain.NewDefaultConfig())

	assert.Error(t, err)
	assert.Equal(t, "", m.GlobalConfigPath())
}

func TestRenderTemplate_HasComments(t *testing.T) {
	out, err := RenderTemplate(domain.NewDefaultConfig())

	require.NoError(t, err)
	assert.Contains(t, string(out), "[reset]")
	assert.Contains(t, string(out), "# Daily reset time")
	assert.Contains(t, string(out), "pumpkin = ")
	assert.Contains(t, string(out), "0400")
	assert.Contains(t, string(out), "backend = 'sqlite'")
}
