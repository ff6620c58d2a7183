package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Neutralize anything the surrounding environment may define.
	t.Setenv("PORT", "")
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("DB_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 55, cfg.GridX)
	assert.Equal(t, 127, cfg.GridY)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 0, cfg.RetentionDays)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "weather_forecasts.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Len(t, cfg.VideoIDs, 3)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KMA_SERVICE_KEY", "secret")
	t.Setenv("KMA_GRID_X", "62")
	t.Setenv("KMA_GRID_Y", "128")
	t.Setenv("REFRESH_INTERVAL", "90s")
	t.Setenv("RETENTION_DAYS", "14")
	t.Setenv("VIDEO_IDS", "one, two,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.KMAServiceKey)
	assert.Equal(t, 62, cfg.GridX)
	assert.Equal(t, 128, cfg.GridY)
	assert.Equal(t, 90*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 14, cfg.RetentionDays)
	assert.Equal(t, []string{"one", "two"}, cfg.VideoIDs)
}

func TestLoadRejectsBadInterval(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
