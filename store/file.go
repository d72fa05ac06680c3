package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/rebalance"
	"github.com/rs/zerolog"
)

// FileStore keeps the snapshot as a JSON document in a single file.
type FileStore struct {
	path string
	log  zerolog.Logger
}

// NewFileStore returns a store writing to 'path'. The file is only created on
// the first Save.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  log.With().Str("store", "file").Str("path", path).Logger(),
	}
}

// Load reads the snapshot file.
func (f *FileStore) Load(ctx context.Context) (rebalance.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return rebalance.Snapshot{}, err
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return rebalance.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return rebalance.Snapshot{}, fmt.Errorf("cannot read %q: %w", f.path, err)
	}
	s, err := rebalance.DecodeSnapshot(bytes.NewReader(data))
	if err != nil {
		return rebalance.Snapshot{}, fmt.Errorf("format error in %q: %w", f.path, err)
	}
	f.log.Debug().Int("assets", len(s.Assets)).Time("date", s.Date).Msg("snapshot loaded")
	return s, nil
}

// Save writes the snapshot to a temporary file then renames it over the
// previous one, so that a reader never sees a partial document.
func (f *FileStore) Save(ctx context.Context, s rebalance.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("cannot create temporary file in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := rebalance.EncodeSnapshot(tmp, s); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write %q: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("cannot replace %q: %w", f.path, err)
	}
	f.log.Debug().Int("assets", len(s.Assets)).Msg("snapshot saved")
	return nil
}

// Close is a no-op, files are not kept open.
func (f *FileStore) Close() error { return nil }
