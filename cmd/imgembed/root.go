// Package main implements the imgembed command-line interface.
//
// imgembed turns links to media-hosting pages into directly embeddable image
// URLs and renders them as <img> markup with a one-shot failure placeholder.
//
// The main CLI commands are:
//   - resolve: Print the embeddable URL for each input URL
//   - render: Print image or preview markup for a URL
//   - rules: List the effective URL rule table
//   - serve: Serve resolution and rendering over HTTP
//
// Each command has various flags for configuration. See the help output for details.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/imgembed/pkg/debug"
	"github.com/lucas-albers-lz4/imgembed/pkg/embed"
	"github.com/lucas-albers-lz4/imgembed/pkg/exitcodes"
	"github.com/lucas-albers-lz4/imgembed/pkg/log"
	"github.com/lucas-albers-lz4/imgembed/pkg/resolver"
	"github.com/lucas-albers-lz4/imgembed/pkg/rulesfile"
	"github.com/lucas-albers-lz4/imgembed/pkg/version"
)

// Global flag variables
var (
	cfgFile      string
	debugEnabled bool
	logLevel     string
	rulesFile    string
)

// cfg holds the merged configuration of the running command.
var cfg = viper.New()

// AppFs defines the filesystem interface to use, allows mocking in tests.
var AppFs = afero.NewOsFs()

// SetFs replaces the current filesystem with the provided one and returns a function to restore it.
// This is primarily used for testing.
func SetFs(newFs afero.Fs) func() {
	oldFs := AppFs
	AppFs = newFs
	return func() { AppFs = oldFs }
}

// newRootCmd builds the command tree. Flag variables are rebound on every
// call so tests start from defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imgembed",
		Short: "Resolve media-hosting links to embeddable images",
		Long: `imgembed resolves links to media-hosting pages (imgur, giphy, reddit, discord,
twitter, instagram, ...) into directly embeddable image URLs and renders them as
<img> markup that swaps itself for a placeholder when the image fails to load.

Rules are evaluated in order and the first match wins. Extra rules can be
loaded from a YAML file with --rules-file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cmd); err != nil {
				return err
			}
			setupLogging()
			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &exitcodes.ExitCodeError{
					Code: exitcodes.ExitMissingRequiredArg,
					Err:  errors.New("a subcommand is required. Use 'imgembed --help' for available commands"),
				}
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.imgembed.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugEnabled, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, keyLogLevel, "info", "set log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, keyRulesFile, "", "YAML file with extra URL rules")

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command with a background context.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

// initConfig reads the config file and IMGEMBED_* environment variables into
// cfg. Without --config, .imgembed.yaml is searched in $HOME and then in
// $XDG_CONFIG_HOME/imgembed. A missing default config file is not an error;
// a missing --config file is.
func initConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetFs(AppFs)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "imgembed"))
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return &exitcodes.ExitCodeError{
				Code: exitcodes.ExitInputConfigurationError,
				Err:  pkgerrors.Wrap(err, "failed to read config file"),
			}
		}
		debug.Printf("No config file found, using flags and environment only")
	} else {
		debug.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	flags := cmd.Root().PersistentFlags()
	for _, key := range []string{keyRulesFile, keyLogLevel} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return &exitcodes.ExitCodeError{
				Code: exitcodes.ExitInputConfigurationError,
				Err:  fmt.Errorf("failed to bind flag %s: %w", key, err),
			}
		}
	}

	cfg = v
	return nil
}

// setupLogging applies --debug, --log-level and IMGEMBED_DEBUG. --debug wins
// over --log-level.
func setupLogging() {
	debug.Init(debugEnabled)

	level := log.LevelInfo
	if debugEnabled || debug.Enabled {
		level = log.LevelDebug
	} else if levelStr := cfg.GetString(keyLogLevel); levelStr != "" {
		parsed, err := log.ParseLevel(levelStr)
		if err != nil {
			log.Warnf("Invalid log level specified: '%s'. Using default: %s. Error: %v", levelStr, level, err)
		} else {
			level = parsed
		}
	}
	log.SetLevel(level)

	debug.Printf("Effective log level set to %s", level)
	debug.Printf("imgembed %s", version.Get().Version)
}

// loadEmbedder builds the embedder from the rules file and the embed section
// of the config.
func loadEmbedder() (*embed.Embedder, error) {
	path := cfg.GetString(keyRulesFile)
	table, err := rulesfile.LoadTable(AppFs, path)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitRulesFileError, Err: err}
	}
	r, err := resolver.New(table)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitRulesFileError,
			Err:  pkgerrors.Wrap(err, "invalid rule table"),
		}
	}
	if path != "" {
		log.Info("Using rules file", "path", path, "rules", len(table))
	}

	var opts embed.Options
	if err := cfg.UnmarshalKey(keyEmbed, &opts); err != nil {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  pkgerrors.Wrap(err, "invalid embed section in config"),
		}
	}
	return embed.New(r, opts), nil
}
