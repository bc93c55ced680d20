package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/rumblemix/internal/resolve"
)

// isolate points the config dir and working directory at empty temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RUMBLEMIX_CONFIG_DIR", dir)
	t.Chdir(t.TempDir())
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, filepath.Join(dir, "settings.json"), cfg.SettingsPath)
	assert.Equal(t, resolve.HighestAuto, cfg.Playback)
	assert.Equal(t, "0", cfg.DateFormat)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, dir, cfg.LetterDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.UseHTTP)
	assert.False(t, cfg.OneLineTitles)
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("RUMBLEMIX_BASE_URL", "http://127.0.0.1:9999/")
	t.Setenv("RUMBLEMIX_PLAYBACK_METHOD", "2")
	t.Setenv("RUMBLEMIX_DATE_FORMAT", "1")
	t.Setenv("RUMBLEMIX_USE_HTTP", "true")
	t.Setenv("RUMBLEMIX_ONE_LINE_TITLES", "1")
	t.Setenv("RUMBLEMIX_TIMEOUT", "3")
	t.Setenv("RUMBLEMIX_SETTINGS", "/tmp/r.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9999", cfg.BaseURL)
	assert.Equal(t, resolve.InteractiveSelect, cfg.Playback)
	assert.Equal(t, "1", cfg.DateFormat)
	assert.True(t, cfg.UseHTTP)
	assert.True(t, cfg.OneLineTitles)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/r.db", cfg.SettingsPath)
}

func TestLoad_DotenvPrecedence(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("RUMBLEMIX_USERNAME=fromconfig\nRUMBLEMIX_PASSWORD=secret\nRUMBLEMIX_PLAYER=vlc\n"), 0o600))
	require.NoError(t, os.WriteFile(".env", []byte("RUMBLEMIX_USERNAME=fromcwd\n"), 0o600))
	t.Setenv("RUMBLEMIX_PLAYER", "mpv --fs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fromcwd", cfg.Username, "working directory .env should win over config dir")
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "mpv --fs", cfg.Player, "environment should win over .env files")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"RUMBLEMIX_PLAYBACK_METHOD": "best",
		"RUMBLEMIX_DATE_FORMAT":     "3",
		"RUMBLEMIX_USE_HTTP":        "maybe",
		"RUMBLEMIX_ONE_LINE_TITLES": "sometimes",
		"RUMBLEMIX_TIMEOUT":         "-5",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)

			_, err := Load()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseTimeout(t *testing.T) {
	d, err := parseTimeout("1500ms")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	_, err = parseTimeout("0")
	assert.Error(t, err)
	_, err = parseTimeout("soon")
	assert.Error(t, err)
}
