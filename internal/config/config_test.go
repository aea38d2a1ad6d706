package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		t.Setenv("DATA_PATH", "/var/lib/sanatory/data")
		t.Setenv("LISTEN_ADDR", ":9090")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/sanatory/data", cfg.DataPath)
		assert.Equal(t, ":9090", cfg.ListenAddr)
	})

	t.Run("listen addr defaults when empty", func(t *testing.T) {
		t.Setenv("DATA_PATH", "/var/lib/sanatory/data")
		t.Setenv("LISTEN_ADDR", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.ListenAddr)
	})

	t.Run("missing DATA_PATH", func(t *testing.T) {
		t.Setenv("DATA_PATH", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATA_PATH is required")
	})

	t.Run("smtp from falls back to username", func(t *testing.T) {
		t.Setenv("DATA_PATH", "/var/lib/sanatory/data")
		t.Setenv("SMTP_USERNAME", "front-desk@example.com")
		t.Setenv("SMTP_PASSWORD", "secret")
		t.Setenv("SMTP_FROM", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "front-desk@example.com", cfg.SMTPFrom)
		assert.True(t, cfg.SMTPConfigured())
	})

	t.Run("smtp not configured without credentials", func(t *testing.T) {
		t.Setenv("DATA_PATH", "/var/lib/sanatory/data")
		t.Setenv("SMTP_USERNAME", "")
		t.Setenv("SMTP_PASSWORD", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.SMTPConfigured())
	})
}

func TestLoadWithFile(t *testing.T) {
	t.Run("nonexistent env file is not an error", func(t *testing.T) {
		t.Setenv("DATA_PATH", "/var/lib/sanatory/data")

		_, err := LoadWithFile("does-not-exist.env")
		require.NoError(t, err)
	})

	t.Run("env file values are loaded", func(t *testing.T) {
		f, err := os.CreateTemp(t.TempDir(), "*.env")
		require.NoError(t, err)
		_, err = f.WriteString("DATA_PATH=/from/env/file\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		t.Setenv("DATA_PATH", "placeholder") // register restore, then clear
		os.Unsetenv("DATA_PATH")

		cfg, err := LoadWithFile(f.Name())
		require.NoError(t, err)
		assert.Equal(t, "/from/env/file", cfg.DataPath)
	})
}
