//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	appdist "drive-file-upload/application/distribution"
	"drive-file-upload/domain/distribution"
	"drive-file-upload/infrastructure/drive"
	"drive-file-upload/infrastructure/filesystem"

	googledrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/cucumber/godog"
)

// uploadMockDriveService is an in-memory Drive that only knows the configured folders
type uploadMockDriveService struct {
	folders    map[string]bool
	files      map[string][]*googledrive.File
	calls      int
	nextFileID int
}

func newUploadMockDriveService() *uploadMockDriveService {
	return &uploadMockDriveService{
		folders:    make(map[string]bool),
		files:      make(map[string][]*googledrive.File),
		nextFileID: 1,
	}
}

func (m *uploadMockDriveService) CreateFile(ctx context.Context, file *googledrive.File, media io.Reader, contentType string) (*googledrive.File, error) {
	m.calls++

	if len(file.Parents) != 1 || !m.folders[file.Parents[0]] {
		return nil, &googleapi.Error{
			Code:    404,
			Message: fmt.Sprintf("File not found: %s.", strings.Join(file.Parents, ",")),
			Errors:  []googleapi.ErrorItem{{Reason: "notFound"}},
		}
	}
	if _, err := io.Copy(io.Discard, media); err != nil {
		return nil, err
	}

	created := &googledrive.File{
		Id:       fmt.Sprintf("uploaded-file-%d", m.nextFileID),
		Name:     file.Name,
		MimeType: contentType,
		Parents:  file.Parents,
	}
	m.nextFileID++

	m.files[file.Parents[0]] = append(m.files[file.Parents[0]], created)
	return &googledrive.File{Id: created.Id}, nil
}

// uploadContext holds test state for upload scenarios
type uploadContext struct {
	mockService  *uploadMockDriveService
	service      *appdist.UploadService
	filePath     string
	fileIDs      []string
	err          error
	outputBuffer *bytes.Buffer
	errorBuffer  *bytes.Buffer
}

// SharedUploadContext is reset before each scenario via Before hook
var SharedUploadContext *uploadContext

func getUploadContext() *uploadContext {
	return SharedUploadContext
}

func InitializeUploadScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedUploadContext = &uploadContext{
			mockService:  newUploadMockDriveService(),
			outputBuffer: &bytes.Buffer{},
			errorBuffer:  &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		// Clean up test files if created
		if SharedUploadContext != nil && SharedUploadContext.filePath != "" {
			os.Remove(SharedUploadContext.filePath)
		}
		SharedUploadContext = nil
		return c, nil
	})

	ctx.Step(`^the Drive folder "([^"]*)" exists$`, theDriveFolderExists)
	ctx.Step(`^valid Google Drive upload credentials$`, validGoogleDriveUploadCredentials)
	ctx.Step(`^I have a file at "([^"]*)"$`, iHaveAFileAt)
	ctx.Step(`^I upload the file to folder "([^"]*)"(?: again)?$`, iUploadTheFileToFolder)
	ctx.Step(`^the upload should succeed$`, theUploadShouldSucceed)
	ctx.Step(`^I should receive a file ID$`, iShouldReceiveAFileID)
	ctx.Step(`^folder "([^"]*)" should contain (\d+) files? named "([^"]*)"$`, folderShouldContainFilesNamed)
	ctx.Step(`^the upload output should contain "([^"]*)"$`, theUploadOutputShouldContain)
	ctx.Step(`^the error output should contain "([^"]*)"$`, theErrorOutputShouldContain)
	ctx.Step(`^I should receive a file not found error$`, iShouldReceiveAFileNotFoundError)
	ctx.Step(`^no request should reach Google Drive$`, noRequestShouldReachGoogleDrive)
	ctx.Step(`^I should receive a remote rejected error$`, iShouldReceiveARemoteRejectedError)
	ctx.Step(`^the two uploads should have different file IDs$`, theTwoUploadsShouldHaveDifferentFileIDs)
}

func theDriveFolderExists(folderID string) error {
	u := getUploadContext()
	u.mockService.folders[folderID] = true
	return nil
}

func validGoogleDriveUploadCredentials() error {
	u := getUploadContext()

	// Initialize client with mock service
	client, err := drive.NewClient(
		context.Background(),
		nil,
		"",
		drive.WithDriveService(u.mockService),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize client: %v", err)
	}
	u.service = appdist.NewUploadService(client, filesystem.NewChecker(), u.outputBuffer,
		appdist.WithErrorOutput(u.errorBuffer))
	return nil
}

func iHaveAFileAt(path string) error {
	u := getUploadContext()
	// Create a test file for the client to read
	if !strings.Contains(path, "nonexistent") {
		if err := os.WriteFile(path, []byte("id,name\n1,alpha\n"), 0644); err != nil {
			return fmt.Errorf("failed to create test file: %v", err)
		}
	}
	u.filePath = path
	return nil
}

func iUploadTheFileToFolder(folderID string) error {
	u := getUploadContext()

	id, err := u.service.Upload(context.Background(), u.filePath, folderID)
	if err == nil {
		u.fileIDs = append(u.fileIDs, id)
	}
	u.err = err
	return nil
}

func theUploadShouldSucceed() error {
	u := getUploadContext()
	if u.err != nil {
		return fmt.Errorf("expected upload to succeed, but got error: %v", u.err)
	}
	return nil
}

func iShouldReceiveAFileID() error {
	u := getUploadContext()
	if len(u.fileIDs) == 0 || u.fileIDs[len(u.fileIDs)-1] == "" {
		return fmt.Errorf("expected file ID, got none")
	}
	return nil
}

func folderShouldContainFilesNamed(folderID string, count int, name string) error {
	u := getUploadContext()
	files := u.mockService.files[folderID]
	if len(files) != count {
		return fmt.Errorf("expected %d files in %s, got %d", count, folderID, len(files))
	}
	for _, f := range files {
		if f.Name != name {
			return fmt.Errorf("expected file named %q, got %q", name, f.Name)
		}
		if f.MimeType != distribution.MimeTypeCSV {
			return fmt.Errorf("expected content type %q, got %q", distribution.MimeTypeCSV, f.MimeType)
		}
	}
	return nil
}

func theUploadOutputShouldContain(expected string) error {
	u := getUploadContext()
	if !strings.Contains(u.outputBuffer.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got: %s", expected, u.outputBuffer.String())
	}
	return nil
}

func theErrorOutputShouldContain(expected string) error {
	u := getUploadContext()
	if !strings.Contains(u.errorBuffer.String(), expected) {
		return fmt.Errorf("expected error output to contain %q, got: %s", expected, u.errorBuffer.String())
	}
	return nil
}

func iShouldReceiveAFileNotFoundError() error {
	u := getUploadContext()
	if !errors.Is(u.err, distribution.ErrFileNotFound) {
		return fmt.Errorf("expected file not found error, got: %v", u.err)
	}
	return nil
}

func noRequestShouldReachGoogleDrive() error {
	u := getUploadContext()
	if u.mockService.calls != 0 {
		return fmt.Errorf("expected no Drive requests, got %d", u.mockService.calls)
	}
	return nil
}

func iShouldReceiveARemoteRejectedError() error {
	u := getUploadContext()
	if distribution.KindOf(u.err) != distribution.RemoteRejected {
		return fmt.Errorf("expected remote rejected error, got: %v", u.err)
	}
	return nil
}

func theTwoUploadsShouldHaveDifferentFileIDs() error {
	u := getUploadContext()
	if len(u.fileIDs) != 2 {
		return fmt.Errorf("expected 2 uploads, got %d", len(u.fileIDs))
	}
	if u.fileIDs[0] == u.fileIDs[1] {
		return fmt.Errorf("expected different file IDs, both were %q", u.fileIDs[0])
	}
	return nil
}
