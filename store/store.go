// Package store persists the single saved portfolio snapshot.
//
// A store holds at most one snapshot. Save replaces it as a whole, Load
// returns it as a whole; there is no versioning and no partial update.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/etnz/rebalance"
	"github.com/rs/zerolog"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no saved snapshot")

// Key is the name under which the snapshot is stored in key-value stores.
const Key = "portfolioAssets"

// Store reads and writes the saved snapshot.
type Store interface {
	// Load returns the saved snapshot, ErrNoSnapshot if there is none, or an
	// error wrapping rebalance.ErrMalformedSnapshot if it cannot be parsed.
	Load(ctx context.Context) (rebalance.Snapshot, error)
	// Save replaces the saved snapshot.
	Save(ctx context.Context, s rebalance.Snapshot) error
	Close() error
}

// Open returns the store for 'location':
//
//	badger:<dir>   an embedded Badger key-value database in <dir>
//	file:<path>    a JSON document at <path>
//	<path>         same as file:<path>
func Open(location string, log zerolog.Logger) (Store, error) {
	scheme, path, found := strings.Cut(location, ":")
	if !found {
		return NewFileStore(location, log), nil
	}
	switch scheme {
	case "badger":
		return OpenBadger(path, log)
	case "file":
		return NewFileStore(path, log), nil
	default:
		// a windows drive letter, or a file name with a colon.
		return NewFileStore(location, log), nil
	}
}
