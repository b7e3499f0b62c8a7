package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFile is the optional tool settings file looked up at the repository
// root.
const ConfigFile = ".gitvet.toml"

// Config stores tool settings. Missing file or fields fall back to
// defaults.
type Config struct {
	LogLevel        string `toml:"log_level"`
	NoColor         bool   `toml:"no_color"`
	RecordCacheSize int    `toml:"record_cache_size"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{LogLevel: "warn"}
}

// LoadConfig reads .gitvet.toml from a directory.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(dir, ConfigFile)
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultConfig().LogLevel
	}
	return cfg, nil
}
