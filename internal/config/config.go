package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/ndefkit/internal/logging"
)

type Config struct {
	Server ServerConfig `toml:"server"`
	Limits LimitsConfig `toml:"limits"`
	Store  StoreConfig  `toml:"store"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	Name        string   `toml:"name"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
}

// LimitsConfig selects the message bounds. Fixed starts from the
// constrained-target profile; explicit max_* keys override either profile.
type LimitsConfig struct {
	Fixed           bool `toml:"fixed"`
	MaxRecords      int  `toml:"max_records"`
	MaxMessageBytes int  `toml:"max_message_bytes"`
	MaxPayloadBytes int  `toml:"max_payload_bytes"`
}

type StoreConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Name:        "ndefd",
			Addr:        ":9300",
			CorsOrigins: []string{},
		},
		Store: StoreConfig{
			Enabled: false,
			Path:    "local/messages",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over Default. Keys absent from the file keep their
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("server", "name") {
		cfg.Server.Name = strings.TrimSpace(raw.Server.Name)
	}
	if meta.IsDefined("server", "addr") {
		cfg.Server.Addr = strings.TrimSpace(raw.Server.Addr)
	}
	if meta.IsDefined("server", "cors_origins") {
		cfg.Server.CorsOrigins = normalizeList(raw.Server.CorsOrigins)
	}

	if meta.IsDefined("limits", "fixed") {
		cfg.Limits.Fixed = raw.Limits.Fixed
	}
	if meta.IsDefined("limits", "max_records") {
		cfg.Limits.MaxRecords = raw.Limits.MaxRecords
	}
	if meta.IsDefined("limits", "max_message_bytes") {
		cfg.Limits.MaxMessageBytes = raw.Limits.MaxMessageBytes
	}
	if meta.IsDefined("limits", "max_payload_bytes") {
		cfg.Limits.MaxPayloadBytes = raw.Limits.MaxPayloadBytes
	}

	if meta.IsDefined("store", "enabled") {
		cfg.Store.Enabled = raw.Store.Enabled
	}
	if meta.IsDefined("store", "path") {
		cfg.Store.Path = strings.TrimSpace(raw.Store.Path)
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Server.Name) == "" {
		return fmt.Errorf("server config missing name")
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if cfg.Limits.MaxRecords < 0 || cfg.Limits.MaxMessageBytes < 0 || cfg.Limits.MaxPayloadBytes < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	if cfg.Store.Enabled && strings.TrimSpace(cfg.Store.Path) == "" {
		return fmt.Errorf("store path required when store is enabled")
	}
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	return nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
