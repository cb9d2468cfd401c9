//go:build manual

package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"drive-file-upload/domain/distribution"
)

// TestRealDriveUpload uploads a small CSV to a real Google Drive folder
// Run with: DRIVE_TEST_FOLDER_ID=<id> go test -tags=manual -v ./infrastructure/drive/... -run TestRealDriveUpload
func TestRealDriveUpload(t *testing.T) {
	credentialsPath := "../../credentials.json"
	folderID := os.Getenv("DRIVE_TEST_FOLDER_ID")

	// Check credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		t.Skip("credentials.json not found - skipping real Drive test")
	}
	if folderID == "" {
		t.Skip("DRIVE_TEST_FOLDER_ID not set - skipping real Drive test")
	}

	ctx := context.Background()

	client, err := NewClientWithOAuth(ctx, OAuthConfig{
		CredentialsFile: credentialsPath,
		TokenDirectory:  "../../tokens",
	}, "Drive File Upload", os.Stdout)
	if err != nil {
		t.Fatalf("Failed to create Drive client: %v", err)
	}

	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte("id,value\n1,manual\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	result, err := client.Upload(ctx, distribution.NewUploadRequest(path, folderID))
	if err != nil {
		t.Fatalf("Failed to upload file: %v", err)
	}

	fmt.Printf("\n=== Google Drive Upload Test ===\n")
	fmt.Printf("Uploaded %s as %s into folder %s\n\n", path, result.FileID, result.FolderID)
}
