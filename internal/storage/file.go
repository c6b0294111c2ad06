package storage

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"storefront/internal/models"
)

// FileStore persists one JSON snapshot file per session key under a data
// directory. It is the durable-storage backend used when no MongoDB is
// configured.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	// Session keys are uuids; strip anything else so a hostile key cannot
	// escape the data directory.
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return -1
	}, key)
	return filepath.Join(f.dir, "cart-"+clean+".json")
}

func (f *FileStore) Save(ctx context.Context, key string, lines []models.CartLine) error {
	if lines == nil {
		lines = []models.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path(key), data, 0o644)
}

// Load returns the persisted snapshot for key. A missing or unreadable file
// yields an empty cart; malformed JSON is logged and also degrades to empty.
func (f *FileStore) Load(ctx context.Context, key string) ([]models.CartLine, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		log.Printf("[STORAGE] [WARN] corrupt cart snapshot for %s: %v", key, err)
		return nil, nil
	}
	return lines, nil
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
