package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
)

// claimsFile is the on-disk layout of a claims YAML file.
type claimsFile struct {
	Claims []claims.Record `yaml:"claims"`
}

// ReadClaimsFile parses a claims YAML file.
func ReadClaimsFile(path string) ([]claims.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f claimsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f.Claims, nil
}

// WriteClaimsFile writes recs to path atomically.
func WriteClaimsFile(path string, recs []claims.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := yaml.Marshal(claimsFile{Claims: recs})
	if err != nil {
		return fmt.Errorf("failed to marshal claims: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".claims-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// FileStore keeps claims in a YAML file. Every List re-reads the file, so
// edits made outside the desk show up on the next render.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore uses path, creating an empty claims file if none exists.
func NewFileStore(path string) (*FileStore, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := WriteClaimsFile(path, []claims.Record{}); err != nil {
			return nil, fmt.Errorf("failed to create claims file: %w", err)
		}
		logging.Store("Created empty claims file at %s", path)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) List(ctx context.Context) ([]claims.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return ReadClaimsFile(s.path)
}

func (s *FileStore) Put(ctx context.Context, rec claims.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("put claim: empty id")
	}
	return s.update(ctx, func(recs []claims.Record) ([]claims.Record, error) {
		for i := range recs {
			if recs[i].ID == rec.ID {
				recs[i] = rec
				return recs, nil
			}
		}
		return append(recs, rec), nil
	})
}

func (s *FileStore) SetStatus(ctx context.Context, id string, status claims.Status, date string) error {
	return s.update(ctx, func(recs []claims.Record) ([]claims.Record, error) {
		for i := range recs {
			if recs[i].ID != id {
				continue
			}
			if err := claims.CheckTransition(id, recs[i].Status, status); err != nil {
				return nil, err
			}
			recs[i].Status = status
			if date != "" {
				recs[i].Date = date
			}
			return recs, nil
		}
		return nil, fmt.Errorf("%w: %s", claims.ErrNotFound, id)
	})
}

func (s *FileStore) update(ctx context.Context, fn func([]claims.Record) ([]claims.Record, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := ReadClaimsFile(s.path)
	if err != nil {
		return err
	}
	recs, err = fn(recs)
	if err != nil {
		return err
	}
	return WriteClaimsFile(s.path, recs)
}

func (s *FileStore) Close() error { return nil }
