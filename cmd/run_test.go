package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"drive-file-upload/domain/distribution"
	"drive-file-upload/infrastructure/config"
	"drive-file-upload/infrastructure/filesystem"
)

// mockDriveClient implements distribution.DriveClient for command tests
type mockDriveClient struct {
	requests []distribution.UploadRequest
	failErr  error
}

func (m *mockDriveClient) Upload(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	m.requests = append(m.requests, req)
	if m.failErr != nil {
		return nil, m.failErr
	}
	return &distribution.UploadResult{
		FileID:   fmt.Sprintf("file-%d", len(m.requests)),
		FolderID: req.FolderID,
	}, nil
}

func TestUploadArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"no arguments", nil, true},
		{"only file path", []string{"export.csv"}, true},
		{"file path and folder", []string{"export.csv", "folder-123"}, false},
		{"extra argument", []string{"export.csv", "folder-123", "more"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := uploadArgs(runCmd, tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !strings.Contains(err.Error(), "usage:") {
					t.Errorf("expected usage message, got %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRunUploadWithDependencies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	if err := os.WriteFile(path, []byte("a,b\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	client := &mockDriveClient{}
	var out, errOut bytes.Buffer

	id, err := RunUploadWithDependencies(
		context.Background(),
		client,
		filesystem.NewChecker(),
		config.Default().Upload,
		path,
		"folder-123",
		&out,
		&errOut,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != "file-1" {
		t.Errorf("expected ID 'file-1', got %q", id)
	}
	if !strings.Contains(out.String(), "File ID: file-1, is now located in folder w/ id: folder-123") {
		t.Errorf("unexpected output %q", out.String())
	}
	if client.requests[0].FileName != "export.csv" {
		t.Errorf("expected export.csv, got %q", client.requests[0].FileName)
	}
}

func TestRunUploadWithDependencies_MissingFile(t *testing.T) {
	client := &mockDriveClient{}

	_, err := RunUploadWithDependencies(
		context.Background(),
		client,
		filesystem.NewChecker(),
		config.Default().Upload,
		filepath.Join(t.TempDir(), "missing.csv"),
		"folder-123",
		nil,
		nil,
	)

	if !errors.Is(err, distribution.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
	if len(client.requests) != 0 {
		t.Errorf("expected no upload requests, got %d", len(client.requests))
	}
}

func TestRunUploadWithDependencies_Rejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	if err := os.WriteFile(path, []byte("a,b\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	client := &mockDriveClient{failErr: &distribution.RemoteError{Code: 404, Message: "File not found: nope."}}
	var out, errOut bytes.Buffer

	_, err := RunUploadWithDependencies(context.Background(), client, filesystem.NewChecker(),
		config.Default().Upload, path, "nope", &out, &errOut)

	if !errors.Is(err, distribution.ErrRemoteRejected) {
		t.Errorf("expected ErrRemoteRejected, got %v", err)
	}
	if !strings.Contains(errOut.String(), "Unable to upload file") {
		t.Errorf("expected rejection on error output, got %q", errOut.String())
	}
}

func TestRunCommand_MissingFileFailsBeforeAuth(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.csv")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"run", missing, "folder-123"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	if !errors.Is(err, distribution.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if strings.Contains(out.String(), "Opening browser") {
		t.Error("OAuth flow must not start for a missing file")
	}
}
