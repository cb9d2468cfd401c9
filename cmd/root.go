package cmd

import (
	"errors"
	"fmt"
	"os"

	"drive-file-upload/infrastructure/config"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yaml"

var (
	cfgFile   string
	cfg       *config.Config
	cfgErr    error
	cfgLoaded bool
)

var rootCmd = &cobra.Command{
	Use:   "drive-file-upload",
	Short: "Upload a file to a Google Drive folder",
	Long: `drive-file-upload signs in to Google with OAuth 2.0 and uploads a single
local file into a Google Drive folder, printing the new file's ID.

The first run opens a browser for consent; the token is cached in the
token directory (default ./tokens) so later runs skip that step.

Example:
  drive-file-upload run ./out/export.csv "1AbCdEfGhIjKlMnOpQrStUvWxYz"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = defaultConfigPath
	}

	cfg, cfgErr = config.Load(path)
	if cfgErr != nil && cfgFile == "" && errors.Is(cfgErr, os.ErrNotExist) {
		// The default config file is optional
		cfg, cfgErr = config.Default(), nil
	}
	cfgLoaded = true
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if !cfgLoaded {
		initConfig()
	}
	if cfgErr != nil {
		return nil, fmt.Errorf("configuration not loaded: %w", cfgErr)
	}
	return cfg, nil
}

// ConfigPath returns the path configuration is read from and written to
func ConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return defaultConfigPath
}
