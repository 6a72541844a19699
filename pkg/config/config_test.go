package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[generation]
endpoint = "https://gen.example.com/v1/slides"
api_key = "secret"

[storage]
endpoint = "https://store.example.com/upload"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl_hours = 6

[deckstore]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"
mongo_db = "deckforge"

[server]
addr = ":9000"

[render]
font = "DejaVuSans"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generation.Endpoint != "https://gen.example.com/v1/slides" {
		t.Errorf("generation endpoint = %s", cfg.Generation.Endpoint)
	}
	if cfg.Generation.APIKey != "secret" {
		t.Errorf("api key = %s", cfg.Generation.APIKey)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL() != 6*time.Hour {
		t.Errorf("TTL = %v", cfg.Cache.TTL())
	}
	if cfg.DeckStore.Backend != "mongo" {
		t.Errorf("deckstore = %+v", cfg.DeckStore)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("server addr = %s", cfg.Server.Addr)
	}
	if cfg.Render.Font != "DejaVuSans" {
		t.Errorf("render font = %s", cfg.Render.Font)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[generation]\nendpoint = \"https://g\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != "file" || cfg.Cache.TTLHours != 24 {
		t.Errorf("cache defaults not applied: %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server default not applied: %s", cfg.Server.Addr)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.DeckStore.Backend != "file" {
		t.Errorf("defaults not returned: %+v", cfg.DeckStore)
	}
}

func TestLoadOrDefaultMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Error("malformed file should error")
	}
}
