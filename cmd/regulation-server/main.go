// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the regulation-server CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/regulation-server/internal/envfile"
	"github.com/pdiddy/regulation-server/internal/query"
	"github.com/pdiddy/regulation-server/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE; it writes to stderr because stdout
// carries MCP traffic and command output.
var logger = zap.NewNop()

// rootCmd is the base command for the regulation-server CLI.
var rootCmd = &cobra.Command{
	Use:   "regulation-server",
	Short: "Serve regulation and region records to AI coding assistants",
	Long: `regulation-server loads a directory of regulation records and a region
manifest into memory and answers three queries: get a regulation, get a
region with its regulations, and search regulations by keyword.

Use serve to expose the queries over MCP (stdio) or HTTP. The regulation,
region, and search commands run a single query and print JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./regulation-server.yaml or ~/.config/regulation-server/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "root of the regulation data tree (env REGULATION_DATA_DIR)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")

	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initConfig() {
	if set, err := envfile.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	} else if len(set) > 0 {
		fmt.Fprintf(os.Stderr, "Loaded .env: %v\n", set)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("regulation-server")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "regulation-server"))
		}
	}

	viper.SetEnvPrefix("REGULATION")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}

// serverConfig collects the resolved settings for the query commands.
func serverConfig() types.ServerConfig {
	cfg := types.DefaultServerConfig()
	cfg.DataDir = viper.GetString("data_dir")
	if t := viper.GetString("transport"); t != "" {
		cfg.Transport = types.Transport(t)
	}
	if addr := viper.GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if d := viper.GetDuration("shutdown_timeout"); d > 0 {
		cfg.ShutdownTimeout = d
	}
	return cfg
}

// loadApp builds the query application from the configured data directory.
func loadApp() (*query.App, error) {
	return query.NewApp(serverConfig().DataDir, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
