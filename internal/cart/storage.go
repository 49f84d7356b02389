package cart

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
)

// Storage is the durable backing for a cart: one opaque slot holding the
// full serialized cart, overwritten on every mutation and read once when the
// store is created.
type Storage interface {
	Load() ([]Line, error)
	Save(lines []Line) error
}

// FileStorage keeps the cart as a single JSON file on disk.
type FileStorage struct {
	path string
}

// NewFileStorage returns a FileStorage writing to path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads and parses the stored cart. A missing file means no prior
// state and returns an empty cart with no error.
func (fs *FileStorage) Load() ([]Line, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read cart file")
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, errors.Wrap(err, "parse cart file")
	}
	return lines, nil
}

// Save overwrites the stored cart with the given snapshot.
func (fs *FileStorage) Save(lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return errors.Wrap(err, "marshal cart")
	}

	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create cart dir")
		}
	}
	if err := os.WriteFile(fs.path, data, 0o644); err != nil {
		return errors.Wrap(err, "write cart file")
	}
	return nil
}
