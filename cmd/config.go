package cmd

import (
	"fmt"
	"io"

	"drive-file-upload/infrastructure/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long: `Inspect the configuration drive-file-upload runs with.

Examples:
  drive-file-upload config show
  drive-file-upload --config other.yaml config show`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	return RunConfigShowWithDependencies(cfg, ConfigPath(), cmd.OutOrStdout())
}

// RunConfigShowWithDependencies prints cfg with the path it was read from
func RunConfigShowWithDependencies(cfg *config.Config, configPath string, out io.Writer) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	fmt.Fprintf(out, "# %s\n", configPath)
	_, err = out.Write(data)
	return err
}
