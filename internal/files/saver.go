package files

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidName is returned for empty names or names that would escape the download directory.
	ErrInvalidName = errors.New("invalid file name")
)

// Saver stores a downloaded file under the given name.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// DirSaver writes downloads into a directory, creating it when needed.
type DirSaver struct {
	Dir string
}

// NewDirSaver returns a saver for dir. An empty dir means the current working directory.
func NewDirSaver(dir string) *DirSaver {
	if dir == "" {
		dir = "."
	}
	return &DirSaver{Dir: dir}
}

// Save writes data to Dir/name and returns the written path.
func (s *DirSaver) Save(name string, data []byte) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", errors.Wrapf(ErrInvalidName, "%q", name)
	}
	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return "", errors.Wrap(err, "failed to create download directory")
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", errors.Wrap(err, "failed to write download")
	}
	return path, nil
}
