package config

import (
	"fmt"
	"os"
	"time"

	"drive-file-upload/domain/distribution"
	"drive-file-upload/infrastructure/drive"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Google GoogleConfig `yaml:"google"`
	Upload UploadConfig `yaml:"upload"`
}

// GoogleConfig contains Google API settings
type GoogleConfig struct {
	CredentialsFile       string   `yaml:"credentials_file"`
	TokenDirectory        string   `yaml:"token_directory"`
	User                  string   `yaml:"user"`
	Scopes                []string `yaml:"scopes"`
	RedirectPort          int      `yaml:"redirect_port"`
	RefreshHorizonSeconds int64    `yaml:"refresh_horizon_seconds"`
	ApplicationName       string   `yaml:"application_name"`
}

// UploadConfig contains settings for the uploaded file
type UploadConfig struct {
	FileName string `yaml:"file_name"`
	MimeType string `yaml:"mime_type"`
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		Google: GoogleConfig{
			CredentialsFile:       "credentials.json",
			TokenDirectory:        "tokens",
			User:                  drive.DefaultUser,
			Scopes:                append([]string(nil), drive.DefaultScopes...),
			RedirectPort:          drive.DefaultRedirectPort,
			RefreshHorizonSeconds: int64(drive.DefaultRefreshHorizon / time.Second),
			ApplicationName:       "Drive File Upload",
		},
		Upload: UploadConfig{
			FileName: distribution.DefaultFileName,
			MimeType: distribution.MimeTypeCSV,
		},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the values that have no sensible fallback
func (c *Config) Validate() error {
	if c.Google.CredentialsFile == "" {
		return fmt.Errorf("google.credentials_file is required")
	}
	if c.Google.TokenDirectory == "" {
		return fmt.Errorf("google.token_directory is required")
	}
	if c.Google.RedirectPort < 0 || c.Google.RedirectPort > 65535 {
		return fmt.Errorf("google.redirect_port %d is out of range", c.Google.RedirectPort)
	}
	if c.Google.RefreshHorizonSeconds <= 0 {
		return fmt.Errorf("google.refresh_horizon_seconds must be positive, got %d", c.Google.RefreshHorizonSeconds)
	}
	if c.Upload.FileName == "" {
		return fmt.Errorf("upload.file_name is required")
	}
	return nil
}

// OAuth converts the Google settings into the drive package's OAuth configuration
func (c *Config) OAuth() drive.OAuthConfig {
	user := c.Google.User
	if user == "" {
		user = drive.DefaultUser
	}
	return drive.OAuthConfig{
		CredentialsFile: c.Google.CredentialsFile,
		TokenDirectory:  c.Google.TokenDirectory,
		User:            user,
		Scopes:          c.Google.Scopes,
		RedirectPort:    c.Google.RedirectPort,
		RefreshHorizon:  time.Duration(c.Google.RefreshHorizonSeconds) * time.Second,
	}
}
