// Package database adapts the embedded key-value store backing the
// four persistent cross-reference databases. Keys and values are
// opaque byte strings; the store supports point reads and atomic
// batched writes.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger"
)

// Type identifies one of the persistent cross-reference databases.
type Type int

const (
	Include Type = iota
	Definition
	Reference
	Symbol
)

// Name returns the on-disk directory name for a database type. An
// unknown type yields the empty string, which callers treat as "no
// database" and skip.
func Name(t Type) string {
	switch t {
	case Include:
		return "Include"
	case Definition:
		return "Definition"
	case Reference:
		return "Reference"
	case Symbol:
		return "Symbol"
	}
	return ""
}

// Types lists every database in sync order.
var Types = []Type{Include, Definition, Reference, Symbol}

// DB is a handle to one named ordered byte-string key-value store.
// Keys and values are opaque; set semantics live in the sync layer.
type DB struct {
	backing *badger.DB
}

// Open opens (creating if missing) the store for t under root.
func Open(root string, t Type) (*DB, error) {
	name := Name(t)
	if name == "" {
		return nil, fmt.Errorf("database: unknown type %d", t)
	}

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("database: create %s: %w", dir, err)
	}

	opts := badger.DefaultOptions(dir)
	opts.SyncWrites = false
	opts.Logger = nil

	backing, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", dir, err)
	}
	return &DB{backing: backing}, nil
}

func (db *DB) Close() error {
	return db.backing.Close()
}

// Get point-reads a key. A missing key is not an error; it returns a
// nil value.
func (db *DB) Get(key []byte) ([]byte, error) {
	var value []byte
	err := db.backing.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("database: get: %w", err)
	}
	return value, nil
}

// Batch accumulates puts to be committed in one atomic write.
type Batch struct {
	puts []kv
}

type kv struct {
	key, value []byte
}

// Put queues a write. Key and value are retained until commit.
func (b *Batch) Put(key, value []byte) {
	b.puts = append(b.puts, kv{key: key, value: value})
}

// Len reports the number of queued writes.
func (b *Batch) Len() int {
	return len(b.puts)
}

// Write commits the batch atomically. An empty batch is a no-op.
func (db *DB) Write(b *Batch) error {
	if len(b.puts) == 0 {
		return nil
	}
	err := db.backing.Update(func(txn *badger.Txn) error {
		for _, p := range b.puts {
			if err := txn.Set(p.key, p.value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("database: write batch: %w", err)
	}
	return nil
}
