package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/sandeepkv93/freedom/internal/speech"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const envPrefix = "FREEDOM"

type RuntimeConfig struct {
	Env                  string         `mapstructure:"env"`                   // local or production
	LogFile              string         `mapstructure:"log_file"`              // "-" discards logs
	LogLevel             string         `mapstructure:"log_level"`             // zap level name
	VoiceEnabled         bool           `mapstructure:"voice_enabled"`         // false starts muted
	SpeechBackend        speech.Backend `mapstructure:"speech_backend"`        // auto, espeak-ng, espeak, spd-say, say, none
	DesktopNotifications bool           `mapstructure:"desktop_notifications"` // notify-send/osascript on finish
	EventBuffer          int            `mapstructure:"event_buffer"`          // subscriber channel size
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Env:                  "local",
		LogFile:              filepath.Join(os.TempDir(), "freedom.log"),
		LogLevel:             "info",
		VoiceEnabled:         true,
		SpeechBackend:        speech.BackendAuto,
		DesktopNotifications: false,
		EventBuffer:          64,
	}
}

func Load() (RuntimeConfig, error) {
	return LoadFrom(".env", "./config")
}

func LoadFrom(envFile string, configDirs ...string) (RuntimeConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return RuntimeConfig{}, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	def := DefaultRuntimeConfig()
	v := viper.New()
	v.SetConfigName("freedom")
	v.SetConfigType("yaml")
	for _, dir := range configDirs {
		v.AddConfigPath(dir)
	}

	v.SetDefault("env", def.Env)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("voice_enabled", def.VoiceEnabled)
	v.SetDefault("speech_backend", string(def.SpeechBackend))
	v.SetDefault("desktop_notifications", def.DesktopNotifications)
	v.SetDefault("event_buffer", def.EventBuffer)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(configDirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var fileLookupErr viper.ConfigFileNotFoundError
			if !errors.As(err, &fileLookupErr) {
				return RuntimeConfig{}, fmt.Errorf("error loading config file: %w", err)
			}
		}
	}

	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.SpeechBackend = speech.Backend(strings.ToLower(strings.TrimSpace(string(cfg.SpeechBackend))))

	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func (c RuntimeConfig) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if !c.SpeechBackend.IsValid() {
		return fmt.Errorf("%w: speech_backend %q", ErrInvalidConfig, c.SpeechBackend)
	}
	if c.EventBuffer <= 0 {
		return fmt.Errorf("%w: event_buffer must be positive, got %d", ErrInvalidConfig, c.EventBuffer)
	}
	if strings.TrimSpace(c.LogFile) == "" {
		return fmt.Errorf("%w: log_file is empty", ErrInvalidConfig)
	}
	return nil
}

func (c RuntimeConfig) IsProduction() bool {
	return c.Env == "production"
}
