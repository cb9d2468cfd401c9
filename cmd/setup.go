package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"drive-file-upload/infrastructure/config"
	"drive-file-upload/infrastructure/filesystem"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command asks where the OAuth client credentials live, where tokens
are cached, which port receives the OAuth callback and how the uploaded
file is named.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, ConfigPath(), cmd.OutOrStdout())
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out io.Writer) error {
	// Check if config already exists
	if filesystem.NewChecker().Exists(configPath) {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", filepath.Base(configPath)), false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to drive-file-upload setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	// Google section
	if err := promptGoogle(prompter, cfg); err != nil {
		return err
	}

	// Upload section
	if err := promptUpload(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	credentials, err := prompter.Input("Path to Google OAuth client credentials file?", cfg.Google.CredentialsFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if credentials != "" {
		cfg.Google.CredentialsFile = credentials
	}

	tokens, err := prompter.Input("Directory to cache OAuth tokens in?", cfg.Google.TokenDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if tokens != "" {
		cfg.Google.TokenDirectory = tokens
	}

	port, err := prompter.Input("Local port for the OAuth callback?", strconv.Itoa(cfg.Google.RedirectPort))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return fmt.Errorf("invalid port %q", port)
		}
		cfg.Google.RedirectPort = n
	}

	return nil
}

func promptUpload(prompter Prompter, cfg *config.Config) error {
	name, err := prompter.Input("File name to give uploads in Drive?", cfg.Upload.FileName)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if name != "" {
		cfg.Upload.FileName = name
	}

	mimeType, err := prompter.Input("Content type of uploads?", cfg.Upload.MimeType)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if mimeType != "" {
		cfg.Upload.MimeType = mimeType
	}

	return nil
}
