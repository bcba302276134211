package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/strataworks/layerd/internal/config"
	"github.com/strataworks/layerd/internal/store"
)

var (
	configPath string
	dbPath     string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to layerd.hcl")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the SQLite database (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

var rootCmd = &cobra.Command{
	Use:           "layerd",
	Short:         "Layerd: metadata and configuration store for map layers",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfig resolves the effective configuration: built-in defaults,
// then the config file, then flags.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = filepath.Join(config.DefaultDir(), "layerd.hcl")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// newLogger writes to stderr only; stdout is reserved for the MCP
// transport.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), lvl)
	return zap.New(core), nil
}

// openStore wires configuration, logger, and store for a command. The
// caller owns both Close calls.
func openStore() (*store.Store, *zap.Logger, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := store.Open(cfg.Storage.Path, store.Options{Logger: log})
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}
	return st, log, cfg, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
