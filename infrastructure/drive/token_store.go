package drive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// ErrTokenNotFound is returned when no token has been cached for a user
var ErrTokenNotFound = errors.New("no cached token")

// TokenStore persists OAuth tokens between runs
type TokenStore interface {
	Load(user string) (*oauth2.Token, error)
	Save(user string, token *oauth2.Token) error
}

// FileTokenStore keeps one JSON token file per user in a directory
type FileTokenStore struct {
	dir string
}

// NewFileTokenStore creates a token store rooted at dir
func NewFileTokenStore(dir string) *FileTokenStore {
	return &FileTokenStore{dir: dir}
}

// Path returns the file the token for user is stored in
func (s *FileTokenStore) Path(user string) string {
	return filepath.Join(s.dir, user+".json")
}

// Load loads a token from the store
func (s *FileTokenStore) Load(user string) (*oauth2.Token, error) {
	f, err := os.Open(s.Path(user))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w for %q", ErrTokenNotFound, user)
		}
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("unable to decode token file %s: %w", s.Path(user), err)
	}
	return token, nil
}

// Save writes the token to the store, replacing any previous one
func (s *FileTokenStore) Save(user string, token *oauth2.Token) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("unable to create token directory: %w", err)
	}

	// Write next to the target and rename so readers never see a partial file
	f, err := os.CreateTemp(s.dir, user+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := f.Name()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		f.Close()
		os.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, s.Path(user))
}

// Ensure FileTokenStore implements TokenStore
var _ TokenStore = (*FileTokenStore)(nil)
