package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"browser-mcp/internal/application/catalog"
	"browser-mcp/internal/domain/entity"
	"browser-mcp/internal/infrastructure/browser/rod"
	"browser-mcp/internal/infrastructure/logger"
)

func testConfig() Config {
	return Config{
		Name:    "browser-mcp",
		Version: "test",
		Browser: rod.DefaultConfig(),
		Log:     logger.Config{Level: "error"},
	}
}

func TestNewContainer_WiresCatalog(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig())
	require.NoError(t, err)
	defer c.Close(context.Background())

	defs := c.Dispatcher.Definitions()
	require.Len(t, defs, len(catalog.Order))
	for i, d := range defs {
		assert.Equal(t, catalog.Order[i], d.Name)
	}
	assert.False(t, c.Session.IsOpen())

	res := c.Dispatcher.Call(context.Background(), entity.ToolCall{Name: entity.ToolNavigate, Arguments: entity.Arguments{"url": "about:blank"}})
	assert.True(t, res.IsError)
	assert.Equal(t, entity.KindNotLaunched, res.Kind)

	res = c.Dispatcher.Call(context.Background(), entity.ToolCall{Name: entity.ToolClose})
	assert.False(t, res.IsError)
	assert.Equal(t, "Closed", res.Text)
}

func TestNewContainer_ProfileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("click_timeout_ms: 5000\n"), 0o600))

	cfg := testConfig()
	cfg.Profile = catalog.ProfileExtended
	cfg.DefaultsFile = path
	cfg.BlockLevel = string(entity.BlockAggressive)
	cfg.UserAgent = "custom-agent"
	cfg.InspectMode = InspectSnapshot

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close(context.Background())

	assert.Equal(t, 5000, c.Defaults.ClickTimeoutMS)
	assert.Equal(t, "load", c.Defaults.NavigateWaitUntil)
	assert.Equal(t, entity.BlockAggressive, c.Defaults.BlockLevel)
	assert.Equal(t, "custom-agent", c.Defaults.UserAgent)
}

func TestNewContainer_RejectsBadConfig(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"profile":      func(c *Config) { c.Profile = "turbo" },
		"inspect mode": func(c *Config) { c.InspectMode = "psychic" },
		"block level":  func(c *Config) { c.BlockLevel = "everything" },
		"log level":    func(c *Config) { c.Log.Level = "loud" },
		"defaults":     func(c *Config) { c.DefaultsFile = filepath.Join(t.TempDir(), "missing.yaml") },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(&cfg)
			_, err := NewContainer(context.Background(), cfg)
			assert.Error(t, err)
		})
	}
}

func TestContainer_CloseWithoutSession(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig())
	require.NoError(t, err)

	assert.NoError(t, c.Close(context.Background()))
	assert.False(t, c.Session.IsOpen())
}
