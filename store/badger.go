package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/etnz/rebalance"
	"github.com/rs/zerolog"
)

// BadgerStore keeps the snapshot under Key in an embedded Badger database.
type BadgerStore struct {
	db  *badger.DB
	log zerolog.Logger
}

// OpenBadger opens (or creates) the Badger database in 'dir'.
func OpenBadger(dir string, log zerolog.Logger) (*BadgerStore, error) {
	log = log.With().Str("store", "badger").Str("dir", dir).Logger()
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cannot open badger database %q: %w", dir, err)
	}
	return &BadgerStore{db: db, log: log}, nil
}

// Load reads the snapshot document stored under Key.
func (b *BadgerStore) Load(ctx context.Context) (rebalance.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return rebalance.Snapshot{}, err
	}
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return rebalance.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return rebalance.Snapshot{}, fmt.Errorf("cannot read %q: %w", Key, err)
	}
	s, err := rebalance.DecodeSnapshot(bytes.NewReader(data))
	if err != nil {
		return rebalance.Snapshot{}, fmt.Errorf("format error in %q: %w", Key, err)
	}
	b.log.Debug().Int("assets", len(s.Assets)).Time("date", s.Date).Msg("snapshot loaded")
	return s, nil
}

// Save replaces the document stored under Key in a single transaction.
func (b *BadgerStore) Save(ctx context.Context, s rebalance.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := rebalance.EncodeSnapshot(&buf, s); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(Key), buf.Bytes())
	})
	if err != nil {
		return fmt.Errorf("cannot write %q: %w", Key, err)
	}
	b.log.Debug().Int("assets", len(s.Assets)).Msg("snapshot saved")
	return nil
}

// Close closes the database.
func (b *BadgerStore) Close() error { return b.db.Close() }

// badgerLogger routes badger's own logs to zerolog, one level down: badger is
// chatty at info level.
type badgerLogger struct{ log zerolog.Logger }

func (l badgerLogger) Errorf(f string, v ...any)   { l.log.Error().Msgf(f, v...) }
func (l badgerLogger) Warningf(f string, v ...any) { l.log.Warn().Msgf(f, v...) }
func (l badgerLogger) Infof(f string, v ...any)    { l.log.Debug().Msgf(f, v...) }
func (l badgerLogger) Debugf(f string, v ...any)   { l.log.Trace().Msgf(f, v...) }
