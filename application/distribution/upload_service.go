package distribution

import (
	"context"
	"errors"
	"fmt"
	"io"

	"drive-file-upload/domain/distribution"
)

// UploadService handles file upload operations to Google Drive
type UploadService struct {
	driveClient distribution.DriveClient
	checker     distribution.FileChecker
	fileName    string
	mimeType    string
	output      io.Writer
	errOutput   io.Writer
}

// ServiceOption is a functional option for configuring UploadService
type ServiceOption func(*UploadService)

// WithFileName overrides the name the uploaded file gets in Drive
func WithFileName(name string) ServiceOption {
	return func(s *UploadService) {
		if name != "" {
			s.fileName = name
		}
	}
}

// WithMimeType overrides the content type sent with the upload
func WithMimeType(mimeType string) ServiceOption {
	return func(s *UploadService) {
		if mimeType != "" {
			s.mimeType = mimeType
		}
	}
}

// WithErrorOutput sets where rejection details are written
func WithErrorOutput(w io.Writer) ServiceOption {
	return func(s *UploadService) {
		if w != nil {
			s.errOutput = w
		}
	}
}

// NewUploadService creates a new upload service
func NewUploadService(client distribution.DriveClient, checker distribution.FileChecker, output io.Writer, opts ...ServiceOption) *UploadService {
	if output == nil {
		output = io.Discard
	}
	s := &UploadService{
		driveClient: client,
		checker:     checker,
		fileName:    distribution.DefaultFileName,
		mimeType:    distribution.MimeTypeCSV,
		output:      output,
		errOutput:   io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload uploads the file at localPath into folderID and returns the new file ID.
// The local file is checked before any request is made.
func (s *UploadService) Upload(ctx context.Context, localPath, folderID string) (string, error) {
	req := distribution.UploadRequest{
		LocalPath: localPath,
		FileName:  s.fileName,
		FolderID:  folderID,
		MimeType:  s.mimeType,
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	if err := s.checker.Readable(localPath); err != nil {
		return "", err
	}

	result, err := s.driveClient.Upload(ctx, req)
	if err != nil {
		var remote *distribution.RemoteError
		if errors.As(err, &remote) {
			fmt.Fprintf(s.errOutput, "Unable to upload file: %s\n", remote.Detail())
		}
		return "", fmt.Errorf("failed to upload %s: %w", localPath, err)
	}

	fmt.Fprintf(s.output, "File ID: %s, is now located in folder w/ id: %s\n", result.FileID, folderID)
	return result.FileID, nil
}
