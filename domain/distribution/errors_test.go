package distribution

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "nil error",
			err:  nil,
			want: Unknown,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: Unknown,
		},
		{
			name: "typed error",
			err:  NewError(FileNotFound, "/tmp/missing.csv", errors.New("no such file")),
			want: FileNotFound,
		},
		{
			name: "wrapped typed error",
			err:  fmt.Errorf("failed to authorize: %w", NewError(AuthFailure, "", errors.New("access_denied"))),
			want: AuthFailure,
		},
		{
			name: "remote error",
			err:  fmt.Errorf("upload: %w", &RemoteError{Code: 404, Message: "File not found"}),
			want: RemoteRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_IsSentinel(t *testing.T) {
	tests := []struct {
		kind     Kind
		sentinel error
	}{
		{ResourceNotFound, ErrResourceNotFound},
		{FileNotFound, ErrFileNotFound},
		{AuthFailure, ErrAuthFailure},
		{RemoteRejected, ErrRemoteRejected},
		{SecurityFailure, ErrSecurityFailure},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewError(tt.kind, "op", errors.New("cause")))
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("expected errors.Is(%v, %v) to be true", err, tt.sentinel)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := NewError(ResourceNotFound, "credentials.json", errors.New("open credentials.json: no such file or directory"))
	want := "resource not found: credentials.json: open credentials.json: no such file or directory"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRemoteError_Detail(t *testing.T) {
	err := &RemoteError{
		Code:    403,
		Message: "The user does not have sufficient permissions for this file.",
		Reasons: []string{"insufficientFilePermissions"},
	}

	if !errors.Is(err, ErrRemoteRejected) {
		t.Error("expected RemoteError to match ErrRemoteRejected")
	}
	if errors.Is(err, ErrAuthFailure) {
		t.Error("RemoteError should not match ErrAuthFailure")
	}

	detail := err.Detail()
	for _, part := range []string{"code 403", "sufficient permissions", "insufficientFilePermissions"} {
		if !strings.Contains(detail, part) {
			t.Errorf("expected detail to contain %q, got %q", part, detail)
		}
	}
}
