package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/etnz/rebalance"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

// put stores raw bytes under Key to plant broken documents.
func (b *BadgerStore) put(data []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(Key), data)
	})
}

func snapshot(date int64, names ...string) rebalance.Snapshot {
	s := rebalance.Snapshot{Date: time.UnixMilli(date)}
	for _, n := range names {
		s.Assets = append(s.Assets, rebalance.Asset{
			ID: rebalance.ID("id-" + n), Name: n, Price: 10, Quantity: 2, TargetPercentage: 100 / float64(len(names)),
		})
	}
	return s
}

// stores returns each implementation, opened in a fresh directory.
func stores(t *testing.T) map[string]func() Store {
	t.Helper()
	return map[string]func() Store{
		"file": func() Store {
			return NewFileStore(filepath.Join(t.TempDir(), "portfolio.json"), zerolog.Nop())
		},
		"badger": func() Store {
			b, err := OpenBadger(t.TempDir(), zerolog.Nop())
			if err != nil {
				t.Fatalf("OpenBadger() unexpected error: %v", err)
			}
			t.Cleanup(func() { b.Close() })
			return b
		},
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := open().Load(context.Background())
			if !errors.Is(err, ErrNoSnapshot) {
				t.Errorf("Load() error = %v, want ErrNoSnapshot", err)
			}
		})
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			if err := s.Save(ctx, snapshot(1000, "A", "B")); err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}
			want := snapshot(2000, "C")
			if err := s.Save(ctx, want); err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}
			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if !got.Date.Equal(want.Date) {
				t.Errorf("date = %v, want %v", got.Date, want.Date)
			}
			if diff := cmp.Diff(want.Assets, got.Assets); diff != "" {
				t.Errorf("assets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := open().Save(ctx, snapshot(1, "A")); !errors.Is(err, context.Canceled) {
				t.Errorf("Save() error = %v, want context.Canceled", err)
			}
		})
	}
}

func TestFileStore_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	if err := os.WriteFile(path, []byte(`{"date": "soon"}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileStore(path, zerolog.Nop()).Load(context.Background())
	if !errors.Is(err, rebalance.ErrMalformedSnapshot) {
		t.Errorf("Load() error = %v, want ErrMalformedSnapshot", err)
	}
}

func TestFileStore_NoTemporaryFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "portfolio.json"), zerolog.Nop())
	for i := range 3 {
		if err := s.Save(context.Background(), snapshot(int64(i), "A")); err != nil {
			t.Fatalf("Save() unexpected error: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "portfolio.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory content = %v, want only portfolio.json", names)
	}
}

func TestBadgerStore_Malformed(t *testing.T) {
	b, err := OpenBadger(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenBadger() unexpected error: %v", err)
	}
	defer b.Close()
	if err := b.put([]byte("not json")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Load(context.Background()); !errors.Is(err, rebalance.ErrMalformedSnapshot) {
		t.Errorf("Load() error = %v, want ErrMalformedSnapshot", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	testCases := []struct {
		location string
		want     string
	}{
		{location: filepath.Join(dir, "a.json"), want: "*store.FileStore"},
		{location: "file:" + filepath.Join(dir, "b.json"), want: "*store.FileStore"},
		{location: "badger:" + filepath.Join(dir, "kv"), want: "*store.BadgerStore"},
	}
	for _, tc := range testCases {
		s, err := Open(tc.location, zerolog.Nop())
		if err != nil {
			t.Fatalf("Open(%q) unexpected error: %v", tc.location, err)
		}
		var got string
		switch s.(type) {
		case *FileStore:
			got = "*store.FileStore"
		case *BadgerStore:
			got = "*store.BadgerStore"
		}
		if got != tc.want {
			t.Errorf("Open(%q) = %s, want %s", tc.location, got, tc.want)
		}
		s.Close()
	}
}
