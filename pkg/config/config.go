// Package config loads deckforge configuration from TOML files.
//
// Configuration is optional: every field has a usable default, and a
// missing config file is not an error. The default search path is
// ~/.config/deckforge/config.toml, overridable per command with --config.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full deckforge configuration.
type Config struct {
	Generation Generation `toml:"generation"`
	Storage    Storage    `toml:"storage"`
	Cache      Cache      `toml:"cache"`
	DeckStore  DeckStore  `toml:"deckstore"`
	Server     Server     `toml:"server"`
	Render     Render     `toml:"render"`
}

// Generation configures the slide generation service client.
type Generation struct {
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"`
}

// Storage configures the object storage backend for uploaded assets.
// An empty endpoint selects inline (data URL) storage.
type Storage struct {
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"`
}

// Cache configures the asset and response caches.
// Backend is "file" (default), "redis", or "none".
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	TTLHours      int    `toml:"ttl_hours"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// TTL returns the configured cache TTL as a duration.
func (c Cache) TTL() time.Duration { return time.Duration(c.TTLHours) * time.Hour }

// DeckStore configures deck persistence.
// Backend is "file" (default), "memory", or "mongo".
type DeckStore struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Render configures the render pipeline. Font names a system font to
// use for slide text; empty selects the embedded Go family.
type Render struct {
	Font string `toml:"font"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Cache:     Cache{Backend: "file", TTLHours: 24},
		DeckStore: DeckStore{Backend: "file"},
		Server:    Server{Addr: ":8080"},
	}
}

// DefaultPath returns the default config file location,
// ~/.config/deckforge/config.toml. It returns "" when the home directory
// cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "deckforge", "config.toml")
}

// Load reads a TOML config file, applying defaults for unset fields.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault reads the config at path, or the default path when path
// is empty. A missing file yields the defaults without error; a present
// but malformed file is an error.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}
