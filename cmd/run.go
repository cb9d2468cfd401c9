package cmd

import (
	"context"
	"fmt"
	"io"

	appdist "drive-file-upload/application/distribution"
	"drive-file-upload/domain/distribution"
	"drive-file-upload/infrastructure/config"
	"drive-file-upload/infrastructure/drive"
	"drive-file-upload/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file_path> <folder_id>",
	Short: "Upload a file into a Google Drive folder",
	Long: `Upload the file at <file_path> into the Google Drive folder <folder_id>.

The file is stored as export.csv with content type text/csv unless the
upload section of the config says otherwise. Shared drives are supported.
Every run creates a new file, even if one with the same name exists.

Example:
  drive-file-upload run ./out/export.csv "1AbCdEfGhIjKlMnOpQrStUvWxYz"`,
	Args: uploadArgs,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// uploadArgs requires exactly the file path and the folder ID
func uploadArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s run <file_path> <folder_id> (got %d arguments)", rootCmd.Name(), len(args))
	}
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	filePath, folderID := args[0], args[1]
	checker := filesystem.NewChecker()

	// Fail on a bad path before the browser flow starts
	if err := checker.Readable(filePath); err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := drive.NewClientWithOAuth(ctx, cfg.OAuth(), cfg.Google.ApplicationName, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to create Google Drive client: %w", err)
	}

	_, err = RunUploadWithDependencies(
		ctx,
		client,
		checker,
		cfg.Upload,
		filePath,
		folderID,
		cmd.OutOrStdout(),
		cmd.ErrOrStderr(),
	)
	return err
}

// RunUploadWithDependencies runs the upload with injected dependencies (for testing)
func RunUploadWithDependencies(
	ctx context.Context,
	driveClient distribution.DriveClient,
	checker distribution.FileChecker,
	uploadCfg config.UploadConfig,
	filePath string,
	folderID string,
	output io.Writer,
	errOutput io.Writer,
) (string, error) {
	service := appdist.NewUploadService(driveClient, checker, output,
		appdist.WithFileName(uploadCfg.FileName),
		appdist.WithMimeType(uploadCfg.MimeType),
		appdist.WithErrorOutput(errOutput),
	)
	return service.Upload(ctx, filePath, folderID)
}
