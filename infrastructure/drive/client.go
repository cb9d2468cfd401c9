package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"drive-file-upload/domain/distribution"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveService defines the interface for Google Drive API operations
// This allows mocking the Google Drive API in tests
type DriveService interface {
	CreateFile(ctx context.Context, file *drive.File, media io.Reader, contentType string) (*drive.File, error)
}

// GoogleDriveService is the production implementation using the Google Drive API
type GoogleDriveService struct {
	service *drive.Service
}

// CreateFile uploads media as a new file, asking only for the id in the response
func (s *GoogleDriveService) CreateFile(ctx context.Context, file *drive.File, media io.Reader, contentType string) (*drive.File, error) {
	return s.service.Files.Create(file).
		Media(media, googleapi.ContentType(contentType)).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
}

// Client implements distribution.DriveClient using Google Drive API
type Client struct {
	driveService   DriveService
	serviceOptions []option.ClientOption
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithDriveService sets a custom drive service (for testing)
func WithDriveService(svc DriveService) ClientOption {
	return func(c *Client) {
		c.driveService = svc
	}
}

// WithServiceOptions appends options used when building the real Drive service,
// such as option.WithEndpoint
func WithServiceOptions(opts ...option.ClientOption) ClientOption {
	return func(c *Client) {
		c.serviceOptions = append(c.serviceOptions, opts...)
	}
}

// NewClient creates a new Google Drive client on top of an authorized HTTP client
// If no options are provided, it initializes a real Google Drive service
func NewClient(ctx context.Context, httpClient *http.Client, applicationName string, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	// If no custom drive service was provided, create a real one
	if c.driveService == nil {
		svc, err := newGoogleDriveService(ctx, httpClient, applicationName, c.serviceOptions...)
		if err != nil {
			return nil, err
		}
		c.driveService = svc
	}

	return c, nil
}

// newGoogleDriveService creates a production Google Drive service
func newGoogleDriveService(ctx context.Context, httpClient *http.Client, applicationName string, extra ...option.ClientOption) (*GoogleDriveService, error) {
	if httpClient == nil {
		return nil, distribution.NewError(distribution.SecurityFailure, "drive service", fmt.Errorf("no authorized HTTP client"))
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if applicationName != "" {
		opts = append(opts, option.WithUserAgent(applicationName))
	}
	opts = append(opts, extra...)

	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, distribution.NewError(distribution.SecurityFailure, "drive service", err)
	}

	return &GoogleDriveService{service: srv}, nil
}

// Upload implements distribution.DriveClient
func (c *Client) Upload(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	f, err := os.Open(req.LocalPath)
	if err != nil {
		return nil, distribution.NewError(distribution.FileNotFound, req.LocalPath, err)
	}
	defer f.Close()

	file := &drive.File{
		Name:    req.FileName,
		Parents: []string{req.FolderID},
	}

	created, err := c.driveService.CreateFile(ctx, file, f, req.MimeType)
	if err != nil {
		return nil, translateError("create file", err)
	}

	return &distribution.UploadResult{
		FileID:   created.Id,
		FolderID: req.FolderID,
	}, nil
}

// Ensure Client implements distribution.DriveClient
var _ distribution.DriveClient = (*Client)(nil)
