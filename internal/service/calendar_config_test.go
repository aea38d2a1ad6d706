package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarConfig_Enabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  CalendarConfig
		want bool
	}{
		{"both set", CalendarConfig{CalendarID: "id", ServiceAccountPath: "/tmp/sa.json"}, true},
		{"missing calendar id", CalendarConfig{ServiceAccountPath: "/tmp/sa.json"}, false},
		{"missing service account", CalendarConfig{CalendarID: "id"}, false},
		{"empty", CalendarConfig{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Enabled())
		})
	}
}

func TestLoadFeatureConfig(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `[calendar]
calendar_id = "bookings@group.calendar.google.com"
service_account_path = "/etc/sanatory/sa.json"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadFeatureConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "bookings@group.calendar.google.com", cfg.Calendar.CalendarID)
		assert.True(t, cfg.Calendar.Enabled())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFeatureConfig(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestLoadServiceAccountToken(t *testing.T) {
	t.Run("reads configured file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sa.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600))

		cfg := CalendarConfig{ServiceAccountPath: path}
		token, err := cfg.LoadServiceAccountToken()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"service_account"}`, string(token))
	})

	t.Run("unconfigured path", func(t *testing.T) {
		cfg := CalendarConfig{}
		_, err := cfg.LoadServiceAccountToken()
		assert.Error(t, err)
	})
}
