package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"API_KEY", "GEMINI_API_KEY", "GEMINI_MODEL", "STOREFRONT_DB", "STOREFRONT_PORT"} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8011, cfg.Server.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, ":memory:", cfg.Storage.DBPath)
	assert.Equal(t, 2*time.Second, cfg.CheckoutDelay())
	assert.Equal(t, 30*time.Second, cfg.GeminiTimeout())
	assert.Equal(t, "0.0.0.0:8011", cfg.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "storefront.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9090
	cfg.Gemini.APIKey = "key-from-file"
	cfg.Checkout.Delay = "150ms"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, loaded.Server.Port)
	assert.Equal(t, "key-from-file", loaded.Gemini.APIKey)
	assert.Equal(t, 150*time.Millisecond, loaded.CheckoutDelay())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tests := map[string]string{
		"bad yaml":     "server: [",
		"bad port":     "server:\n  port: 70000\n",
		"bad delay":    "checkout:\n  delay: soon\n",
		"neg timeout":  "gemini:\n  timeout: -1s\n",
		"empty dbpath": "storage:\n  db_path: \"\"\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Run("API_KEY sets gemini key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "generic")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "generic", cfg.Gemini.APIKey)
	})

	t.Run("GEMINI_API_KEY wins over API_KEY", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("API_KEY", "generic")
		t.Setenv("GEMINI_API_KEY", "specific")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "specific", cfg.Gemini.APIKey)
	})

	t.Run("storage, port and model", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STOREFRONT_DB", "/tmp/orders.db")
		t.Setenv("STOREFRONT_PORT", "9999")
		t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/orders.db", cfg.Storage.DBPath)
		assert.Equal(t, 9999, cfg.Server.Port)
		assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	})

	t.Run("unparseable port ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STOREFRONT_PORT", "eighty")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, 8011, cfg.Server.Port)
	})
}
