// Package unitcache caches parsed translation units so that repeated
// index requests for the same input can reuse the AST instead of
// paying for another parse.
package unitcache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/JamieCunliffe/rtags/internal/parser"
)

// Flags select how a unit may be produced.
type Flags uint8

const (
	// Source allows parsing the input from source.
	Source Flags = 1 << iota
	// AST allows reusing a previously parsed unit.
	AST
	// Force discards any cached unit and reparses.
	Force
)

// Origin records how a unit was produced. Extraction only runs on
// units that came from source; AST units are assumed already indexed.
type Origin int

const (
	OriginSource Origin = iota
	OriginAST
)

// Unit is a leased translation unit. Callers must Release it when
// done; the underlying parser unit is disposed once every lease is
// returned and the cache has let go of it.
type Unit struct {
	Filename string
	Origin   Origin
	TU       parser.TranslationUnit

	entry *entry
}

// Release returns the lease. The Unit must not be used afterwards.
func (u *Unit) Release() {
	if u.entry != nil {
		u.entry.release()
		u.entry = nil
	}
}

type entry struct {
	mu      sync.Mutex
	refs    int
	evicted bool
	tu      parser.TranslationUnit
}

// tryAcquire takes a lease. It fails only when the entry was evicted
// and its unit already disposed.
func (e *entry) tryAcquire() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.evicted && e.refs == 0 {
		return false
	}
	e.refs++
	return true
}

func (e *entry) release() {
	e.mu.Lock()
	e.refs--
	dispose := e.refs == 0 && e.evicted
	e.mu.Unlock()
	if dispose {
		e.tu.Dispose()
	}
}

func (e *entry) evict() {
	e.mu.Lock()
	e.evicted = true
	dispose := e.refs == 0
	e.mu.Unlock()
	if dispose {
		e.tu.Dispose()
	}
}

// Cache holds parsed units keyed by input path, bounded by an LRU.
type Cache struct {
	parser parser.Parser
	units  *lru.Cache[string, *entry]
	group  singleflight.Group
	mu     sync.Mutex
}

// New creates a cache that parses with p and retains at most capacity
// units. Capacity should exceed the worker count so that in-flight
// units are not evicted under load.
func New(p parser.Parser, capacity int) (*Cache, error) {
	c := &Cache{parser: p}
	units, err := lru.NewWithEvict[string, *entry](capacity, func(_ string, e *entry) {
		e.evict()
	})
	if err != nil {
		return nil, fmt.Errorf("unitcache: %w", err)
	}
	c.units = units
	return c, nil
}

// Open produces a unit for input according to flags, or (nil, nil)
// when the flags permit no way of producing one. Concurrent opens of
// the same input share a single parse.
func (c *Cache) Open(input string, args []string, flags Flags) (*Unit, error) {
	if flags&Force == 0 && flags&AST != 0 {
		c.mu.Lock()
		if e, ok := c.units.Get(input); ok && e.tryAcquire() {
			c.mu.Unlock()
			return &Unit{Filename: e.tu.Spelling(), Origin: OriginAST, TU: e.tu, entry: e}, nil
		}
		c.mu.Unlock()
	}

	if flags&Source == 0 {
		return nil, nil
	}

	for {
		v, err, _ := c.group.Do(input, func() (interface{}, error) {
			tu, err := c.parser.Parse(input, args)
			if err != nil {
				return nil, err
			}
			e := &entry{tu: tu}
			c.mu.Lock()
			// Replacing a key does not run the eviction callback, so
			// drop any superseded unit explicitly.
			c.units.Remove(input)
			c.units.Add(input, e)
			c.mu.Unlock()
			return e, nil
		})
		if err != nil {
			return nil, fmt.Errorf("unitcache: parse %s: %w", input, err)
		}

		// The entry can be evicted and disposed between the shared
		// parse returning and the lease being taken; reparse then.
		if e := v.(*entry); e.tryAcquire() {
			return &Unit{Filename: e.tu.Spelling(), Origin: OriginSource, TU: e.tu, entry: e}, nil
		}
		c.group.Forget(input)
	}
}

// Close drops every cached unit. Outstanding leases stay valid until
// released.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.units.Purge()
}
