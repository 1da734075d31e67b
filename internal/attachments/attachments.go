// Package attachments stores uploaded receipt files on local disk.
// Stored files are served back under the /uploads/ URL prefix, so the
// reference returned by Save is stable across restarts.
package attachments

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/hisab-io/hisab/internal/apperr"
)

// MaxSize is the largest accepted upload in bytes.
const MaxSize = 5 << 20

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".pdf":  {},
}

// Store writes attachment files into a single directory.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed and returns a store over it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory files are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the upload to disk under a random name that keeps the original
// extension, and returns the URL path the file is served from.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", apperr.Validation("unsupported attachment type %q", ext)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, MaxSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	if n > MaxSize {
		os.Remove(path)
		return "", apperr.Validation("attachment exceeds the %d byte limit", MaxSize)
	}

	return "/uploads/" + name, nil
}

// Remove deletes a previously saved attachment given its URL path.
// A missing file is not an error.
func (s *Store) Remove(ref string) error {
	name := strings.TrimPrefix(ref, "/uploads/")
	if name == "" || name != filepath.Base(name) {
		return apperr.Validation("invalid attachment reference %q", ref)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove attachment: %w", err)
	}
	return nil
}
