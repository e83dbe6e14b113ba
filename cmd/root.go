// Package cmd provides the command-line interface for renderstatic with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --dest, etc.) - highest priority
//	2. RENDERSTATIC_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (RENDERSTATIC_STATIC_ROOT, etc.)
//	4. Configuration files (.renderstatic.yml) - lowest priority
//
// Environment Variables:
//
//	RENDERSTATIC_CONFIG_FILE: Path to custom configuration file
//	RENDERSTATIC_STATIC_ROOT: Override the global static root
//	And more following the RENDERSTATIC_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/renderstatic/renderstatic/internal/config"
	"github.com/renderstatic/renderstatic/internal/engine"
	"github.com/renderstatic/renderstatic/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "renderstatic",
	Short: "Render static files from templates at deploy time",
	Long: `renderstatic renders configured templates (JavaScript, CSS, config files)
once at build/deploy time, with the same template syntax and URL reversal a
web application uses for dynamic responses. The application's named route
table is translated to client-side JavaScript so frontend code never
hardcodes a URL.

Quick Start:
  renderstatic init               Scaffold .renderstatic.yml
  renderstatic render             Render every configured template
  renderstatic list               List selectable templates
  renderstatic urls               Emit the URL reversal JavaScript
  renderstatic watch              Re-render on template changes

Command Aliases (for faster typing):
  render (r), list (l), watch (w)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .renderstatic.yml, can also use RENDERSTATIC_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = config.V.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. RENDERSTATIC_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .renderstatic.yml in current directory
func initConfig() {
	if cfgFile != "" {
		config.V.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("RENDERSTATIC_CONFIG_FILE"); envConfigFile != "" {
		config.V.SetConfigFile(envConfigFile)
	} else {
		config.V.AddConfigPath(".")
		config.V.SetConfigType("yaml")
		config.V.SetConfigName(".renderstatic")
	}

	config.V.SetEnvPrefix("RENDERSTATIC")
	config.V.AutomaticEnv()
	config.V.SetEnvKeyReplacer(strings.NewReplacer("::", "_"))

	if err := config.V.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", config.V.ConfigFileUsed())
	}
}

// newLogger builds the CLI logger from the resolved log level.
func newLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(config.V.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	})
}

// buildEngine loads configuration and assembles the engine every command
// shares.
func buildEngine() (*engine.Engine, *config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger()
	eng, err := engine.New(cfg, afero.NewOsFs(), logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return eng, cfg, logger, nil
}
