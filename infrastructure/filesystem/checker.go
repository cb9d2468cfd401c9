package filesystem

import (
	"fmt"
	"os"

	"drive-file-upload/domain/distribution"
)

// Checker implements distribution.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Readable returns a FileNotFound error unless path is a regular file that can be opened
func (c *Checker) Readable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return distribution.NewError(distribution.FileNotFound, path, err)
	}
	if info.IsDir() {
		return distribution.NewError(distribution.FileNotFound, path, fmt.Errorf("is a directory"))
	}

	f, err := os.Open(path)
	if err != nil {
		return distribution.NewError(distribution.FileNotFound, path, err)
	}
	return f.Close()
}

// Ensure Checker implements distribution.FileChecker
var _ distribution.FileChecker = (*Checker)(nil)
