// Package store persists cruxlog's durable records (users, routes,
// characteristics, videos, job history, revoked tokens) in a single Pebble
// database. Values are JSON; keys are "<kind>:<id>" with zero-padded ids so
// iteration order matches insertion order.
package store

import (
	"encoding/binary"
	"fmt"
	"sync"

	pebble "github.com/cockroachdb/pebble"
)

var (
	db    *pebble.DB
	seqMu sync.Mutex
)

// Init opens (or creates) the record database at the given path
func Init(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	return nil
}

// Close closes the record database
func Close() error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

func errNotInitialized() error {
	return fmt.Errorf("record store not initialized")
}

// nextID allocates the next integer id for the named sequence. The mutex
// serializes the read-increment-write on the sequence key.
func nextID(name string) (int64, error) {
	if db == nil {
		return 0, errNotInitialized()
	}

	seqMu.Lock()
	defer seqMu.Unlock()

	key := []byte("seq:" + name)
	var current uint64
	value, closer, err := db.Get(key)
	if err == nil {
		current = binary.BigEndian.Uint64(value)
		closer.Close()
	} else if err != pebble.ErrNotFound {
		return 0, fmt.Errorf("failed to read sequence %s: %w", name, err)
	}

	next := current + 1
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := db.Set(key, buf, pebble.Sync); err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}
	return int64(next), nil
}

// recordKey builds the storage key for one record of the given kind
func recordKey(kind string, id int64) []byte {
	return []byte(fmt.Sprintf("%s:%020d", kind, id))
}

// kindBounds returns iterator bounds covering every record of one kind.
// ';' is the byte after ':', so the upper bound excludes other kinds.
func kindBounds(kind string) *pebble.IterOptions {
	return &pebble.IterOptions{
		LowerBound: []byte(kind + ":"),
		UpperBound: []byte(kind + ";"),
	}
}
