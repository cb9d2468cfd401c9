package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"drive-file-upload/domain/distribution"
)

func TestChecker_Readable(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "report.csv")
	if err := os.WriteFile(csvPath, []byte("a,b\n1,2\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing file", csvPath, false},
		{"missing file", filepath.Join(dir, "missing.csv"), true},
		{"directory", dir, true},
	}

	checker := NewChecker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checker.Readable(tt.path)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, distribution.ErrFileNotFound) {
				t.Errorf("expected ErrFileNotFound, got %v", err)
			}
		})
	}
}

func TestChecker_Exists(t *testing.T) {
	dir := t.TempDir()
	checker := NewChecker()

	if !checker.Exists(dir) {
		t.Error("expected temp dir to exist")
	}
	if checker.Exists(filepath.Join(dir, "nope")) {
		t.Error("expected missing path to not exist")
	}
}
