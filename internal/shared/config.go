package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Daylist     DaylistConfig     `toml:"daylist"`
	Schedule    ScheduleConfig    `toml:"schedule"`
	Extract     ExtractConfig     `toml:"extract"`
	Sync        SyncConfig        `toml:"sync"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and endpoints.
type SpotifyConfig struct {
	ClientID     string  `toml:"client_id"`
	ClientSecret string  `toml:"client_secret"`
	RefreshToken string  `toml:"refresh_token"`
	TokenURL     string  `toml:"token_url"`
	APIURL       string  `toml:"api_url"`
	RateLimit    float64 `toml:"rate_limit"` // requests per second
}

// DaylistConfig describes where the Daylist is scraped from and how it is recognized in a library.
type DaylistConfig struct {
	EmbedID             string `toml:"embed_id"`
	EmbedHost           string `toml:"embed_host"`
	SignatureTrackCount int    `toml:"signature_track_count"`
	ArchiveMarker       string `toml:"archive_marker"`
	MaxScan             int    `toml:"max_scan"`
}

// ScheduleConfig controls how the current moment is classified and matched.
type ScheduleConfig struct {
	Timezone      string `toml:"timezone"`
	DebugWeekdays bool   `toml:"debug_weekdays"`
}

// ExtractConfig overrides the embed field patterns.
type ExtractConfig struct {
	NamePattern        string `toml:"name_pattern"`
	DescriptionPattern string `toml:"description_pattern"`
	TrackPattern       string `toml:"track_pattern"`
}

// SyncConfig holds the raw rule list.
type SyncConfig struct {
	Playlists string `toml:"playlists"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Resolve loads the config file at path when it exists (defaults otherwise), reads the optional
// dotenv file into the process environment and applies environment overrides.
func Resolve(path, dotenv string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := godotenv.Load(dotenv); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", dotenv, err)
			}
		}
	}

	config.ApplyEnv(os.LookupEnv)
	return config, nil
}

// ApplyEnv overrides config values from environment variables.
//
// Values are trimmed; empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("CLIENT_ID"); ok {
		c.Credentials.Spotify.ClientID = v
	}
	if v, ok := get("CLIENT_SECRET"); ok {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v, ok := get("REFRESH_TOKEN"); ok {
		c.Credentials.Spotify.RefreshToken = v
	}
	if v, ok := get("PLAYLISTS_CONFIG"); ok {
		c.Sync.Playlists = v
	}
	if v, ok := get("DAYLIST_EMBED_ID"); ok {
		c.Daylist.EmbedID = v
	}
	if v, ok := get("DAYSYNC_TIMEZONE"); ok {
		c.Schedule.Timezone = v
	}
	if v, ok := get("DAYSYNC_DEBUG_WEEKDAYS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Schedule.DebugWeekdays = b
		}
	}
	if v, ok := get("DAYSYNC_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
}

// Location returns the configured time zone, or [time.Local] when none is set.
func (c *ScheduleConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfig, c.Timezone)
	}
	return loc, nil
}

// HasCredentials reports whether enough is configured to obtain a bearer token.
func (c *SpotifyConfig) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Credentials.Spotify.RateLimit < 0 {
		errs = append(errs, errors.New("spotify: rate_limit must be non-negative"))
	}
	if c.Daylist.SignatureTrackCount <= 0 {
		errs = append(errs, errors.New("daylist: signature_track_count must be positive"))
	}
	if c.Daylist.MaxScan <= 0 {
		errs = append(errs, errors.New("daylist: max_scan must be positive"))
	}
	if _, err := c.Schedule.Location(); err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}

	for name, pattern := range map[string]string{
		"name_pattern":        c.Extract.NamePattern,
		"description_pattern": c.Extract.DescriptionPattern,
		"track_pattern":       c.Extract.TrackPattern,
	} {
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("extract: invalid %s: %w", name, err))
			continue
		}
		if re.NumSubexp() < 1 {
			errs = append(errs, fmt.Errorf("extract: %s needs a capture group", name))
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log: invalid level %q", c.Log.Level))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
