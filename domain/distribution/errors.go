package distribution

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure of the upload flow
type Kind int

const (
	// Unknown is used for errors that did not originate in this program
	Unknown Kind = iota
	// ResourceNotFound means the client secret file is missing
	ResourceNotFound
	// FileNotFound means the local source file is missing or unreadable
	FileNotFound
	// AuthFailure covers consent denial and failed code or refresh exchanges
	AuthFailure
	// RemoteRejected means Drive answered the create request with an error
	RemoteRejected
	// SecurityFailure is a TLS or certificate verification failure
	SecurityFailure
	// InvalidArgument is an empty path, folder id or file name
	InvalidArgument
)

func (k Kind) String() string {
	switch k {
	case ResourceNotFound:
		return "resource not found"
	case FileNotFound:
		return "file not found"
	case AuthFailure:
		return "authorization failed"
	case RemoteRejected:
		return "remote rejected"
	case SecurityFailure:
		return "security failure"
	case InvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

var (
	// ErrResourceNotFound is returned when the client secret file cannot be located
	ErrResourceNotFound = errors.New("resource could not be found")

	// ErrFileNotFound is returned when the local upload source is missing or unreadable
	ErrFileNotFound = errors.New("file not found")

	// ErrAuthFailure is returned when the OAuth flow fails or is denied
	ErrAuthFailure = errors.New("authorization failed")

	// ErrRemoteRejected is returned when Google Drive rejects a request
	ErrRemoteRejected = errors.New("request rejected by Google Drive")

	// ErrSecurityFailure is returned when the secure transport cannot be set up
	ErrSecurityFailure = errors.New("transport security failure")

	// ErrNoLocalPath is returned when the file path argument is empty
	ErrNoLocalPath = errors.New("file path is required")

	// ErrNoFolderID is returned when the folder ID argument is empty
	ErrNoFolderID = errors.New("folder ID is required")

	// ErrNoFileName is returned when the target file name is empty
	ErrNoFileName = errors.New("file name is required")
)

var kindSentinels = map[Kind]error{
	ResourceNotFound: ErrResourceNotFound,
	FileNotFound:     ErrFileNotFound,
	AuthFailure:      ErrAuthFailure,
	RemoteRejected:   ErrRemoteRejected,
	SecurityFailure:  ErrSecurityFailure,
}

// Error carries a Kind together with the underlying cause
type Error struct {
	Kind Kind
	Op   string // what was being done, e.g. a path or an endpoint
	Err  error
}

// NewError wraps err with the given kind and operation
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// RemoteError is a rejection reported by Google Drive
type RemoteError struct {
	Code    int      // HTTP status code
	Message string   // Top-level error message
	Reasons []string // Per-item reasons, e.g. "notFound", "storageQuotaExceeded"
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRemoteRejected, e.Detail())
}

// Detail formats the provider's structured error detail
func (e *RemoteError) Detail() string {
	detail := fmt.Sprintf("code %d", e.Code)
	if e.Message != "" {
		detail += ", " + e.Message
	}
	if len(e.Reasons) > 0 {
		detail += " (" + strings.Join(e.Reasons, ", ") + ")"
	}
	return detail
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is matches ErrRemoteRejected
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteRejected
}

// KindOf reports the Kind of err, or Unknown if it carries none
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return RemoteRejected
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
