// Package config loads the tree-chunk engine's configuration: the knobs
// an operator of treechunkd actually has, patterned after the teacher's
// internal/config loading pipeline (defaults, then a TOML file, then
// TREECHUNKD_-prefixed environment overrides, via viper) but scoped to
// this engine's own surface rather than rippled.cfg's.
package config

import "path/filepath"

// Config is the complete, validated configuration for a treechunkd
// process.
type Config struct {
	Store   StoreConfig   `toml:"store" mapstructure:"store"`
	Cache   CacheConfig   `toml:"cache" mapstructure:"cache"`
	Logging LoggingConfig `toml:"logging" mapstructure:"logging"`

	configPath string `toml:"-" mapstructure:"-"`
}

// StoreConfig selects and configures the persistent KVStore backend.
type StoreConfig struct {
	// Backend is "pebble" or "memory". "memory" is intended for tests and
	// ephemeral tooling, never for a long-lived daemon.
	Backend string `toml:"backend" mapstructure:"backend"`
	// Dir is the pebble data directory. Ignored for the memory backend.
	Dir string `toml:"dir" mapstructure:"dir"`
	// Compression names a registered compression.Compressor ("none" or
	// "lz4").
	Compression string `toml:"compression" mapstructure:"compression"`
}

// CacheConfig bounds the in-memory caches the engine keeps in front of
// the KVStore.
type CacheConfig struct {
	// ChunkCacheSize bounds chunkstore.Store's live-chunk LRU.
	ChunkCacheSize int `toml:"chunk_cache_size" mapstructure:"chunk_cache_size"`
	// DecodeCacheSize bounds kvpebble's raw decoded-blob LRU.
	DecodeCacheSize int `toml:"decode_cache_size" mapstructure:"decode_cache_size"`
}

// LoggingConfig configures the zap logger shared by chunkstore and
// cmd/treechunkd.
type LoggingConfig struct {
	// Level is one of zapcore's level names: debug, info, warn, error.
	Level string `toml:"level" mapstructure:"level"`
	// Format is "console" or "json".
	Format string `toml:"format" mapstructure:"format"`
}

// ConfigPaths holds the path to the configuration file.
type ConfigPaths struct {
	Main string
}

// DefaultConfigPaths returns the default configuration file location.
func DefaultConfigPaths() ConfigPaths {
	return ConfigPaths{Main: "treechunkd.toml"}
}

// ConfigPathsFromDir returns the configuration file location rooted at
// configDir.
func ConfigPathsFromDir(configDir string) ConfigPaths {
	return ConfigPaths{Main: filepath.Join(configDir, "treechunkd.toml")}
}

// GetConfigPath returns the file this Config was loaded from, empty if it
// was built from defaults only.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Default returns the configuration treechunkd runs with when no config
// file and no environment overrides are present.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:     "pebble",
			Dir:         "treechunk-data",
			Compression: "lz4",
		},
		Cache: CacheConfig{
			ChunkCacheSize:  4096,
			DecodeCacheSize: 4096,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
