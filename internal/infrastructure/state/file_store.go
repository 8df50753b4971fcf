package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/core/ports"
)

// FileStore persists the session record as a single JSON file, the durable
// analogue of a namespaced local-storage key.
type FileStore struct {
	path string
	log  zerolog.Logger
}

func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads and decodes the record, applying any pending layout migration.
// A migrated record is rewritten immediately so the legacy layout is gone
// after the first load.
func (s *FileStore) Load(_ context.Context) (*ports.PersistedSession, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("state: read %s: %w", s.path, err)
	}

	rec, migrated, err := decodeRecord(data)
	if err != nil {
		return nil, err
	}
	if migrated {
		if err := s.write(rec); err != nil {
			s.log.Warn().Err(err).Msg("failed to rewrite migrated session record")
		} else {
			s.log.Info().Str("path", s.path).Msg("migrated legacy session record")
		}
	}
	return rec, nil
}

func (s *FileStore) Save(_ context.Context, rec *ports.PersistedSession) error {
	return s.write(rec)
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("state: remove %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) write(rec *ports.PersistedSession) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("state: encode session record: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("state: create %s: %w", dir, err)
		}
	}
	// 0600: the record holds live credentials.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("state: write %s: %w", s.path, err)
	}
	return nil
}
