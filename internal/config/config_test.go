package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/freedom/internal/speech"
)

func TestDefaultRuntimeConfig(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.VoiceEnabled)
	assert.Equal(t, speech.BackendAuto, cfg.SpeechBackend)
	assert.False(t, cfg.DesktopNotifications)
	assert.Equal(t, 64, cfg.EventBuffer)
	assert.Equal(t, "freedom.log", filepath.Base(cfg.LogFile))
	require.NoError(t, cfg.Validate())
}

func TestLoadWithoutFilesUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(dir, ".env"), dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultRuntimeConfig(), cfg)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "env: production\nlog_level: debug\nvoice_enabled: false\nspeech_backend: spd-say\nevent_buffer: 8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "freedom.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadFrom("", dir)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.VoiceEnabled)
	assert.Equal(t, speech.BackendSpdSay, cfg.SpeechBackend)
	assert.Equal(t, 8, cfg.EventBuffer)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "freedom.yaml"), []byte("event_buffer: 8\n"), 0o644))
	t.Setenv("FREEDOM_EVENT_BUFFER", "128")
	t.Setenv("FREEDOM_DESKTOP_NOTIFICATIONS", "true")
	t.Setenv("FREEDOM_SPEECH_BACKEND", "NONE")
	t.Setenv("FREEDOM_LOG_FILE", "-")

	cfg, err := LoadFrom("", dir)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.EventBuffer)
	assert.True(t, cfg.DesktopNotifications)
	assert.Equal(t, speech.BackendNone, cfg.SpeechBackend)
	assert.Equal(t, "-", cfg.LogFile)
}

func TestDotEnvFileIsLoaded(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FREEDOM_ENV=production\n"), 0o644))
	// Register cleanup for the variable godotenv is about to set.
	t.Setenv("FREEDOM_ENV", "")
	require.NoError(t, os.Unsetenv("FREEDOM_ENV"))

	cfg, err := LoadFrom(envFile, dir)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*RuntimeConfig){
		"log level": func(c *RuntimeConfig) { c.LogLevel = "loud" },
		"backend":   func(c *RuntimeConfig) { c.SpeechBackend = "festival" },
		"buffer":    func(c *RuntimeConfig) { c.EventBuffer = 0 },
		"log file":  func(c *RuntimeConfig) { c.LogFile = " " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultRuntimeConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FREEDOM_EVENT_BUFFER", "-1")
	_, err := LoadFrom("", dir)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
