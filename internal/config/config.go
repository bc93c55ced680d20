// Package config loads rumblemix settings from the environment and optional
// .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gauthierbraillon/rumblemix/internal/resolve"
)

const (
	envPrefix = "RUMBLEMIX_"

	DefaultBaseURL  = "https://rumble.com"
	DefaultTimeout  = 10 * time.Second
	settingsFile    = "settings.json"
	dotenvFile      = ".env"
	defaultLogLevel = "warn"
)

// ErrInvalid wraps every rejected value.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Dir           string
	BaseURL       string
	SettingsPath  string
	Username      string
	Password      string
	Playback      resolve.Policy
	Player        string
	DateFormat    string
	UseHTTP       bool
	OneLineTitles bool
	LetterDir     string
	LogLevel      string
	Timeout       time.Duration
}

// Dir returns the configuration directory path.
func Dir() string {
	if dir := os.Getenv(envPrefix + "CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "rumblemix")
}

// Load reads the environment. Values from .env in the config directory are
// overridden by .env in the working directory, and both by real environment
// variables.
func Load() (Config, error) {
	dir := Dir()
	file := map[string]string{}
	for _, path := range []string{filepath.Join(dir, dotenvFile), dotenvFile} {
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		for k, v := range values {
			file[k] = v
		}
	}

	get := func(name string) string {
		key := envPrefix + name
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return file[key]
	}
	return build(dir, get)
}

func build(dir string, get func(string) string) (Config, error) {
	cfg := Config{
		Dir:        dir,
		BaseURL:    strings.TrimRight(or(get("BASE_URL"), DefaultBaseURL), "/"),
		Username:   get("USERNAME"),
		Password:   get("PASSWORD"),
		Player:     get("PLAYER"),
		DateFormat: or(get("DATE_FORMAT"), "0"),
		LetterDir:  or(get("LETTER_DIR"), dir),
		LogLevel:   or(get("LOG_LEVEL"), defaultLogLevel),
		Timeout:    DefaultTimeout,
	}
	cfg.SettingsPath = or(get("SETTINGS"), filepath.Join(dir, settingsFile))

	var err error
	if cfg.Playback, err = resolve.ParsePolicy(get("PLAYBACK_METHOD")); err != nil {
		return Config{}, fmt.Errorf("%w: PLAYBACK_METHOD: %v", ErrInvalid, err)
	}
	switch cfg.DateFormat {
	case "0", "1", "2":
	default:
		return Config{}, fmt.Errorf("%w: DATE_FORMAT %q (want 0, 1 or 2)", ErrInvalid, cfg.DateFormat)
	}
	if cfg.UseHTTP, err = parseBool(get("USE_HTTP")); err != nil {
		return Config{}, fmt.Errorf("%w: USE_HTTP: %v", ErrInvalid, err)
	}
	if cfg.OneLineTitles, err = parseBool(get("ONE_LINE_TITLES")); err != nil {
		return Config{}, fmt.Errorf("%w: ONE_LINE_TITLES: %v", ErrInvalid, err)
	}
	if raw := get("TIMEOUT"); raw != "" {
		if cfg.Timeout, err = parseTimeout(raw); err != nil {
			return Config{}, fmt.Errorf("%w: TIMEOUT: %v", ErrInvalid, err)
		}
	}

	return cfg, nil
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

// parseTimeout accepts a Go duration ("15s") or whole seconds ("15").
func parseTimeout(raw string) (time.Duration, error) {
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("must be positive, got %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}
