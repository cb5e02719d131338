// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the knowledge-hub CLI: clause
// extraction, the clause cache and library, risk scoring, and the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/knowledge-hub/internal/container"
	"github.com/pdiddy/knowledge-hub/internal/content"
	"github.com/pdiddy/knowledge-hub/internal/ingest"
	"github.com/pdiddy/knowledge-hub/internal/logging"
	"github.com/pdiddy/knowledge-hub/internal/secrets"
	"github.com/pdiddy/knowledge-hub/internal/store"
	"github.com/pdiddy/knowledge-hub/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets secrets.Set

// logger is built from the log config before any command runs.
var logger = zap.NewNop()

// rootCmd is the base command for the knowledge-hub CLI.
var rootCmd = &cobra.Command{
	Use:   "knowledge-hub",
	Short: "Contract clause extraction and risk scoring",
	Long: `knowledge-hub segments contracts into numbered, titled clauses, caches
them per document, keeps a shared library of reference clauses, and scores
contracts against a checklist of required legal clauses.

Documents are read from plain text, Markdown, JSON or YAML block files, URLs,
and (through a markitdown container) PDF and DOCX files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		log, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger = log

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", zap.Strings("keys", s.Keys()))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./knowledge-hub.yaml or ~/.config/knowledge-hub/knowledge-hub.yaml)")
	pf.String("secrets-dir", ".secrets/", "directory of secret files (api-token)")
	pf.String("data-dir", "", "base directory for the clause database and exports")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: json or console")

	_ = viper.BindPFlag("store.data_dir", pf.Lookup("data-dir"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))

	setDefaults()
}

// setDefaults registers every config key so environment overrides apply
// to all of them (KNOWLEDGE_HUB_STORE_DATA_DIR, KNOWLEDGE_HUB_SERVER_ADDR, ...).
func setDefaults() {
	viper.SetDefault("content.timeout", 30*time.Second)
	viper.SetDefault("content.user_agent", "knowledge-hub/"+version)
	viper.SetDefault("content.max_retries", 5)
	viper.SetDefault("content.max_bytes", int64(10<<20))
	viper.SetDefault("content.convert_image", content.DefaultImage)

	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.max_results", 20)

	viper.SetDefault("scan.documents_dir", "documents")
	viper.SetDefault("scan.schedule", "")

	viper.SetDefault("server.addr", ":8081")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.api_token", "")
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("knowledge-hub")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "knowledge-hub"))
		}
	}

	viper.SetEnvPrefix("KNOWLEDGE_HUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged configuration. Decoding only fails on
// malformed values, which fall back to defaults.
func loadConfig() types.HubConfig {
	var cfg types.HubConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: invalid configuration: %v\n", err)
	}
	return cfg
}

func openStore(cfg types.HubConfig) (*store.Store, error) {
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening clause store in %s: %w", cfg.Store.DataDir, err)
	}
	return st, nil
}

// newLoader builds the content loader. PDF and DOCX conversion is enabled
// only when a container runtime with the markitdown image is available.
func newLoader(ctx context.Context, cfg types.HubConfig) *content.Loader {
	var conv content.Converter
	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		logger.Debug("document conversion disabled", zap.Error(err))
	} else if m, err := content.NewMarkitdownConverter(ctx, rt, cfg.Content.ConvertImage); err != nil {
		logger.Debug("document conversion disabled", zap.Error(err))
	} else {
		conv = m
	}
	l := content.NewLoader(cfg.Content, conv)
	l.Log = logger
	return l
}

// newService opens the store and wires the ingestion service. The caller
// closes the returned store.
func newService(ctx context.Context, cfg types.HubConfig) (*ingest.Service, *store.Store, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return ingest.NewService(st, newLoader(ctx, cfg), logger), st, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
