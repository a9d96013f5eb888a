package cli

import (
	"testing"

	"github.com/runoshun/mfnd/internal/domain"
	"github.com/runoshun/mfnd/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand_Show(t *testing.T) {
	// Setup
	c, _ := newTestContainer(t)
	loader := testutil.NewMockConfigLoader()
	loader.Infos = []domain.ConfigInfo{
		{Path: "/home/me/.config/mfnd/config.toml"},
		{Path: "/work/.mfnd.toml", Exists: true},
	}
	c.ConfigLoader = loader

	// Execute
	out, err := runRoot(t, c, "", "config")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "- /home/me/.config/mfnd/config.toml (not found)\n")
	assert.Contains(t, out, "- /work/.mfnd.toml\n")
	assert.Contains(t, out, "[Effective Config]")
	assert.Contains(t, out, "[reset]")
}

func TestConfigCommand_Init(t *testing.T) {
	c, _ := newTestContainer(t)
	manager := testutil.NewMockConfigManager()
	c.ConfigManager = manager

	out, err := runRoot(t, c, "", "config", "init")

	require.NoError(t, err)
	assert.Equal(t, "Created "+manager.Path+"\n", out)
	assert.Same(t, c.Config, manager.Written)
}

func TestConfigCommand_InitExists(t *testing.T) {
	c, _ := newTestContainer(t)
	manager := testutil.NewMockConfigManager()
	manager.InitErr = domain.ErrConfigExists
	c.ConfigManager = manager

	_, err := runRoot(t, c, "", "config", "init")

	require.ErrorIs(t, err, domain.ErrConfigExists)
	assert.Contains(t, err.Error(), manager.Path)
}
