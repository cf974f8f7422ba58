package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from, in priority order:
//  1. built-in defaults
//  2. a TOML config file, if present
//  3. TREECHUNKD_-prefixed environment variables
func LoadConfig(paths ConfigPaths) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if paths.Main != "" {
		if err := loadMainConfig(v, paths.Main); err != nil {
			return nil, fmt.Errorf("failed to load main config: %w", err)
		}
	}

	v.SetEnvPrefix("TREECHUNKD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.configPath = paths.Main

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigFromDir loads a treechunkd.toml from the given directory, if
// one exists there, falling back to defaults otherwise.
func LoadConfigFromDir(configDir string) (*Config, error) {
	return LoadConfig(ConfigPathsFromDir(configDir))
}

// LoadDefaultConfig loads from the default config path in the current
// working directory.
func LoadDefaultConfig() (*Config, error) {
	return LoadConfig(DefaultConfigPaths())
}

func loadMainConfig(v *viper.Viper, configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// No config file is not an error: defaults + env vars are enough
		// to run treechunkd.
		return nil
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.dir", d.Store.Dir)
	v.SetDefault("store.compression", d.Store.Compression)

	v.SetDefault("cache.chunk_cache_size", d.Cache.ChunkCacheSize)
	v.SetDefault("cache.decode_cache_size", d.Cache.DecodeCacheSize)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Validate checks that a loaded Config describes a runnable engine.
func Validate(c *Config) error {
	switch c.Store.Backend {
	case "pebble", "memory":
	default:
		return fmt.Errorf("store.backend must be \"pebble\" or \"memory\", got %q", c.Store.Backend)
	}

	if c.Store.Backend == "pebble" && c.Store.Dir == "" {
		return fmt.Errorf("store.dir must be set when store.backend is \"pebble\"")
	}

	switch c.Store.Compression {
	case "none", "lz4":
	default:
		return fmt.Errorf("store.compression must be \"none\" or \"lz4\", got %q", c.Store.Compression)
	}

	if c.Cache.ChunkCacheSize < 0 || c.Cache.DecodeCacheSize < 0 {
		return fmt.Errorf("cache sizes must be non-negative")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}

	return nil
}
