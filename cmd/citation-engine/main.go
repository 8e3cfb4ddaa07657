// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citation-engine CLI.
// Subcommands cover batch updates, one-shot resolution, record store
// management, and provider introspection.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/internal/locale"
	"github.com/pdiddy/citation-engine/internal/observe"
	"github.com/pdiddy/citation-engine/internal/secrets"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir is the directory of plain-text key files read at startup and,
// for the NASA ADS token, on every request.
const secretsDir = ".secrets/"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the process-wide diagnostic logger, configured in the root
// command's PersistentPreRunE.
var logger zerolog.Logger

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the citation-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "citation-engine",
	Short: "Resolve citation counts for bibliographic records",
	Long: `citation-engine resolves citation counts for bibliographic records from
Crossref, INSPIRE-HEP, Semantic Scholar, and NASA ADS. Records live in a
local SQLite store; update merges resolved counts into each record's
extra field, and resolve answers one-shot lookups without writing
anything back.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		cfg := loadConfig()
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		logger = observe.NewLogger(cfg.Logging, os.Stderr)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citation-engine.yaml or ~/.config/citation-engine/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error, or disabled")
}

func initConfig() {
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citation-engine"))
		}
	}

	viper.SetEnvPrefix("CITATION_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the effective configuration: built-in defaults,
// overlaid with the viper config file, overlaid with loaded secrets for
// the Semantic Scholar key.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()

	if v := viper.GetDuration("lookup.timeout"); v > 0 {
		cfg.Lookup.Timeout = v
	}
	if v := viper.GetString("lookup.user_agent"); v != "" {
		cfg.Lookup.UserAgent = v
	}
	if viper.IsSet("lookup.max_retries") {
		cfg.Lookup.MaxRetries = viper.GetInt("lookup.max_retries")
	}
	if v := viper.GetString("lookup.default_provider"); v != "" {
		cfg.Lookup.DefaultProvider = v
	}
	cfg.Lookup.ADSAPIKey = viper.GetString("lookup.ads_api_key")
	cfg.Lookup.SemanticScholarAPIKey = secretDefault("semantic-scholar-api-key", viper.GetString("lookup.semantic_scholar_api_key"))
	if v := viper.GetDuration("lookup.semantic_scholar_delay"); v > 0 {
		cfg.Lookup.SemanticScholarDelay = v
	}
	if v := viper.GetDuration("batch.record_delay"); v > 0 {
		cfg.Batch.RecordDelay = v
	}
	if viper.GetBool("batch.dry_run") {
		cfg.Batch.DryRun = true
	}
	if v := viper.GetString("store.path"); v != "" {
		cfg.Store.Path = v
	}
	if v := viper.GetString("logging.level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := viper.GetString("logging.format"); v != "" {
		cfg.Logging.Format = v
	}

	return cfg
}

// adsKeyFunc builds the per-request NASA ADS token reader. The key file is
// consulted on every call, so a token set while a batch runs is picked up
// by the next request.
func adsKeyFunc(cfg types.LookupConfig) func() string {
	return func() string {
		return secrets.Resolve(cfg.ADSAPIKey, "CITATION_ENGINE_ADS_API_KEY", secretsDir, "ads-api-key")
	}
}

// loadCatalog builds the failure-message catalog, merging an override file
// named by --messages or the "messages" config key over the built-ins.
func loadCatalog(cmd *cobra.Command) (*locale.Catalog, error) {
	path, _ := cmd.Flags().GetString("messages")
	if path == "" {
		path = viper.GetString("messages")
	}
	if path == "" {
		return locale.New(), nil
	}
	return locale.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
