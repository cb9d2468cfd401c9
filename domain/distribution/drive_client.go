package distribution

import "context"

// DriveClient defines the interface for Google Drive operations
// This is a port that can be implemented by different infrastructure adapters
type DriveClient interface {
	// Upload creates a new file from the request's local content.
	// Every call creates a new remote file; there is no dedup by name.
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

// FileChecker verifies local files before anything goes over the network
type FileChecker interface {
	// Readable returns an error if path is missing, a directory or cannot be opened
	Readable(path string) error
}
