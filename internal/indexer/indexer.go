package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/JamieCunliffe/rtags/internal/unitcache"
)

// SyncInterval is the number of job completions between periodic syncs
// of the staging maps into the persistent databases.
const SyncInterval = 10

// Mode selects how a job acquires its translation unit.
type Mode int

const (
	// Normal reuses a cached AST when one is available.
	Normal Mode = iota
	// Force reparses the input from source.
	Force
)

// UnitSource produces translation units for jobs. Satisfied by
// *unitcache.Cache.
type UnitSource interface {
	Open(input string, args []string, flags unitcache.Flags) (*unitcache.Unit, error)
}

// InformationStore persists the per-file record reindexing replays:
// the original input path and its compile arguments. Satisfied by
// *resource.Store.
type InformationStore interface {
	WriteInformation(filename, input string, args []string) error
	ReadInformation(filename string) (input string, args []string, err error)
}

// Options configures an Indexer.
type Options struct {
	// Workers caps the pool; defaults to the CPU count.
	Workers int
	// Resources, when set, is written on every admitted job and read
	// by Reindex. Without it Reindex always rejects.
	Resources InformationStore
	// OnIndexingDone, when set, is called from the completion handler
	// after each job's completion has been processed.
	OnIndexingDone func(id int)
	Logger         zerolog.Logger
}

type completion struct {
	id    int
	input string
}

// Indexer admits index requests, dispatches extraction jobs onto a
// worker pool and periodically merges the staged results into the four
// persistent databases. Completions are handled on a single goroutine
// so the coordinator lock is never contended by more than one worker
// at a time.
type Indexer struct {
	root      string
	units     UnitSource
	resources InformationStore
	onDone    func(int)
	log       zerolog.Logger

	mu         sync.Mutex
	cond       *sync.Cond
	indexing   map[string]struct{}
	jobs       map[int]*job
	lastJobID  int
	jobCounter int
	closed     bool

	incs *stagingMap
	defs *stagingMap
	refs *stagingMap
	syms *stagingMap

	pool        *pool.Pool
	completions chan completion
	drained     chan struct{}

	lastSyncPuts atomic.Int64
}

// New creates an Indexer rooted at root, which must be an absolute
// path; the four databases live in subdirectories of it.
func New(root string, units UnitSource, opts Options) (*Indexer, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("indexer: root %q is not absolute", root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("indexer: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ix := &Indexer{
		root:      root,
		units:     units,
		resources: opts.Resources,
		onDone:    opts.OnIndexingDone,
		log:       opts.Logger,
		indexing:  make(map[string]struct{}),
		jobs:      make(map[int]*job),
		incs:      newStagingMap(),
		defs:      newStagingMap(),
		refs:      newStagingMap(),
		syms:      newStagingMap(),
		pool:      pool.New().WithMaxGoroutines(workers),
		// Buffered with one slot per worker, so a worker emitting its
		// completion waits on a sync in progress only once the buffer
		// is full.
		completions: make(chan completion, workers),
		drained:     make(chan struct{}),
	}
	ix.cond = sync.NewCond(&ix.mu)

	go ix.handleCompletions()

	return ix, nil
}

// Index submits input for indexing and returns the job id, or -1 when
// input is already being indexed or the indexer is closed.
func (ix *Indexer) Index(input string, args []string, mode Mode) int {
	ix.mu.Lock()
	if ix.closed {
		ix.mu.Unlock()
		return -1
	}
	if _, busy := ix.indexing[input]; busy {
		ix.mu.Unlock()
		return -1
	}

	var id int
	for {
		id = ix.lastJobID
		ix.lastJobID++
		if _, used := ix.jobs[id]; !used {
			break
		}
	}

	ix.indexing[input] = struct{}{}
	j := newJob(ix, mode, id, input, args)
	ix.jobs[id] = j
	ix.mu.Unlock()

	if ix.resources != nil {
		if err := ix.resources.WriteInformation(input, input, args); err != nil {
			ix.log.Error().Err(err).Str("input", input).Msg("information record not written")
		}
	}

	ix.pool.Go(j.run)
	return id
}

// Reindex resubmits a previously indexed file with its stored compile
// arguments. Returns -1 when no usable record exists.
func (ix *Indexer) Reindex(filename string, mode Mode) int {
	if ix.resources == nil {
		return -1
	}
	input, args, err := ix.resources.ReadInformation(filename)
	if err != nil || input == "" {
		ix.log.Debug().Err(err).Str("filename", filename).Msg("reindex: no information record")
		return -1
	}
	ix.log.Debug().Str("input", input).Strs("args", args).Msg("reindexing")
	return ix.Index(input, args, mode)
}

func (ix *Indexer) handleCompletions() {
	for c := range ix.completions {
		ix.jobDone(c)
	}
	close(ix.drained)
}

func (ix *Indexer) jobDone(c completion) {
	ix.mu.Lock()
	delete(ix.jobs, c.id)
	delete(ix.indexing, c.input)
	ix.jobCounter++
	syncNow := len(ix.jobs) == 0 || ix.jobCounter == SyncInterval
	if syncNow {
		ix.jobCounter = 0
	}
	ix.mu.Unlock()

	if syncNow {
		ix.Sync()
	}

	if ix.onDone != nil {
		ix.onDone(c.id)
	}

	ix.mu.Lock()
	ix.cond.Broadcast()
	ix.mu.Unlock()
}

// Active returns the input paths currently being indexed.
func (ix *Indexer) Active() []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	inputs := make([]string, 0, len(ix.indexing))
	for input := range ix.indexing {
		inputs = append(inputs, input)
	}
	sort.Strings(inputs)
	return inputs
}

// Root returns the directory the databases live under.
func (ix *Indexer) Root() string {
	return ix.root
}

// Wait blocks until every outstanding job has completed and its
// completion has been handled.
func (ix *Indexer) Wait() {
	ix.mu.Lock()
	for len(ix.jobs) > 0 {
		ix.cond.Wait()
	}
	ix.mu.Unlock()
}

// Close drains the pool, stops the completion handler and runs a final
// sync so no staged data is lost. The indexer rejects new requests
// from the moment Close begins.
func (ix *Indexer) Close() {
	ix.mu.Lock()
	if ix.closed {
		ix.mu.Unlock()
		return
	}
	ix.closed = true
	ix.mu.Unlock()

	// Any job admitted before closed was set already has its jobs
	// entry, so Wait covers every submission; the pool is idle after.
	ix.Wait()
	ix.pool.Wait()
	close(ix.completions)
	<-ix.drained

	ix.Sync()
}
