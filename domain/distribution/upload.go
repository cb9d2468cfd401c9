package distribution

import "strings"

// UploadRequest contains the parameters needed to upload a file to Google Drive
type UploadRequest struct {
	LocalPath string // Full path to the local file
	FileName  string // Target filename in Google Drive
	FolderID  string // Target folder ID in Google Drive
	MimeType  string // MIME type of the file
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	FileID   string // Google Drive file ID
	FolderID string // Folder the file was created in
}

// Defaults for uploaded files
const (
	DefaultFileName = "export.csv"
	MimeTypeCSV     = "text/csv"
)

// NewUploadRequest builds a request with the default name and content type
func NewUploadRequest(localPath, folderID string) UploadRequest {
	return UploadRequest{
		LocalPath: localPath,
		FileName:  DefaultFileName,
		FolderID:  folderID,
		MimeType:  MimeTypeCSV,
	}
}

// Validate checks that all required fields are set
func (r UploadRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.LocalPath) == "":
		return &Error{Kind: InvalidArgument, Err: ErrNoLocalPath}
	case strings.TrimSpace(r.FolderID) == "":
		return &Error{Kind: InvalidArgument, Err: ErrNoFolderID}
	case r.FileName == "":
		return &Error{Kind: InvalidArgument, Err: ErrNoFileName}
	}
	return nil
}
