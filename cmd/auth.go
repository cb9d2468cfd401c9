package cmd

import (
	"context"
	"fmt"
	"io"

	"drive-file-upload/infrastructure/drive"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in to Google and cache the OAuth token",
	Long: `Run the OAuth 2.0 consent flow without uploading anything.

A cached token that is still valid is reused; one expiring within the
refresh horizon is refreshed. Otherwise a browser is opened for consent.`,
	Args: cobra.NoArgs,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	oauth := cfg.OAuth()
	clientConfig, err := drive.LoadClientSecret(oauth.CredentialsFile, oauth.Scopes...)
	if err != nil {
		return err
	}

	store := drive.NewFileTokenStore(oauth.TokenDirectory)
	authorizer := drive.NewAuthorizer(clientConfig, store, oauth, drive.WithOutput(cmd.OutOrStdout()))
	return RunAuthWithAuthorizer(cmd.Context(), authorizer, store.Path(oauth.User), cmd.OutOrStdout())
}

// RunAuthWithAuthorizer authorizes and reports where the token lives (for testing)
func RunAuthWithAuthorizer(ctx context.Context, authorizer *drive.Authorizer, tokenPath string, out io.Writer) error {
	token, err := authorizer.Authorize(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Token cached in %s\n", tokenPath)
	if !token.Expiry.IsZero() {
		fmt.Fprintf(out, "  Expires: %s\n", token.Expiry.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
