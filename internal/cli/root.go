// Package cli implements treechunkd's command tree: a cobra root command
// plus subcommands for inspecting and exercising a tree-chunk store,
// grounded in the teacher's own internal/cli package (the same
// persistent-flags-plus-cobra.OnInitialize pattern, narrowed from an XRPL
// node's server/rpc/replay commands to this engine's storage-inspection
// surface).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zkprover/treechunk64/internal/chunkstore"
	"github.com/zkprover/treechunk64/internal/config"
	"github.com/zkprover/treechunk64/internal/storage/kvmemory"
	"github.com/zkprover/treechunk64/internal/storage/kvpebble"
	"github.com/zkprover/treechunk64/internal/treechunk"
)

var (
	configFile string
	debug      bool
	verbose    bool
	quiet      bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "treechunkd",
	Short: "treechunkd - tree-chunk engine inspection and storage tooling",
	Long: `treechunkd operates a digest-addressed tree-chunk store: a Go
implementation of the SMT64 tree-chunk engine, backed by a pluggable
KVStore (pebble on disk, or an in-memory store for scratch use). This is
a storage and diagnostics tool, not a network node.`,
}

// Execute runs the root command. Called once from cmd/treechunkd/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug-level logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
}

func initConfig() {
	var err error
	if configFile != "" {
		cfg, err = config.LoadConfig(config.ConfigPaths{Main: configFile})
	} else {
		cfg, err = config.LoadDefaultConfig()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		os.Exit(1)
	}

	level := zap.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = zap.InfoLevel
	}
	switch {
	case debug:
		level = zap.DebugLevel
	case quiet:
		level = zap.ErrorLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Logging.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err = zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: building logger: %v\n", err)
		os.Exit(1)
	}
}

// closableStore pairs a chunkstore.Store with the underlying KVStore's
// Close method, when the backend has one (kvpebble does; kvmemory
// doesn't).
type closableStore struct {
	*chunkstore.Store
	closer func() error
}

func (c *closableStore) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}

// openChunkStore wires the configured KVStore backend into a
// chunkstore.Store, the way every inspection subcommand needs.
func openChunkStore() (*closableStore, error) {
	var kv treechunk.KVStore
	var closer func() error

	switch cfg.Store.Backend {
	case "pebble":
		store, err := kvpebble.Open(kvpebble.Options{
			Dir:         cfg.Store.Dir,
			Compression: cfg.Store.Compression,
			CacheSize:   cfg.Cache.DecodeCacheSize,
		})
		if err != nil {
			return nil, fmt.Errorf("opening pebble store: %w", err)
		}
		kv = store
		closer = store.Close
	case "memory":
		kv = kvmemory.New()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	cs, err := chunkstore.New(kv, chunkstore.Options{
		CacheSize: cfg.Cache.ChunkCacheSize,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("wiring chunk store: %w", err)
	}

	return &closableStore{Store: cs, closer: closer}, nil
}
