// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the mashup CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mashup-engine/internal/logging"
	"github.com/pdiddy/mashup-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// logger is configured from --log-level and --log-format before any subcommand runs.
var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "mashup",
	Short: "Build an audio mashup of an artist and mail it",
	Long: `mashup searches for videos of an artist, downloads their audio, trims each
to a fixed length, concatenates the clips into one track, zips it, and mails
the archive to a recipient.

Configuration comes from mashup.yaml, MASHUP_* environment variables (a .env
file is loaded first), and credential files in .secrets/
(smtp-username, smtp-password, youtube-api-key).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		logger = logging.NewLogger(level, format, os.Stderr)
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}

		s, err := secrets.Load(secrets.DefaultDir, logger)
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
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./mashup.yaml or ~/.config/mashup/mashup.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mashup")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mashup"))
		}
	}

	setDefaults()
	viper.SetEnvPrefix("MASHUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
