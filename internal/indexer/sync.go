package indexer

import (
	"strings"

	"github.com/JamieCunliffe/rtags/internal/database"
)

// Values are stored as the LF-joined elements of the set, each element
// followed by a trailing LF. Readers accept values with or without the
// final LF and never rely on element order.

func splitValue(value []byte) map[string]struct{} {
	set := make(map[string]struct{})
	for _, elem := range strings.Split(string(value), "\n") {
		if elem == "" {
			continue
		}
		set[elem] = struct{}{}
	}
	return set
}

func joinValue(set map[string]struct{}) []byte {
	var b strings.Builder
	for elem := range set {
		b.WriteString(elem)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// syncCategory merges one staging map into its persistent store: for
// every staged key the stored set is read, unioned with the staged set
// and written back, skipping keys whose stored set already contains
// everything staged. The staging map is cleared; stored sets only grow.
func (ix *Indexer) syncCategory(s *stagingMap, t database.Type) int {
	if database.Name(t) == "" {
		return 0
	}
	if s.empty() {
		return 0
	}

	db, err := database.Open(ix.root, t)
	if err != nil {
		// Staged data stays put; the next sync retries.
		ix.log.Error().Err(err).Str("database", database.Name(t)).Msg("sync: open failed")
		return 0
	}
	defer db.Close()

	s.mu.Lock()
	defer s.mu.Unlock()

	var batch database.Batch
	for key, staged := range s.data {
		value, err := db.Get([]byte(key))
		if err != nil {
			// Treated as an empty stored set; the union below still
			// preserves whatever the store really holds on a later
			// successful read.
			ix.log.Warn().Err(err).Str("database", database.Name(t)).Msg("sync: read failed")
			value = nil
		}
		stored := splitValue(value)

		common := 0
		for elem := range staged {
			if _, ok := stored[elem]; ok {
				common++
			}
		}
		if common == len(staged) {
			continue
		}

		for elem := range staged {
			stored[elem] = struct{}{}
		}
		batch.Put([]byte(key), joinValue(stored))
	}
	s.data = make(setMap)

	if err := db.Write(&batch); err != nil {
		ix.log.Error().Err(err).Str("database", database.Name(t)).Msg("sync: write failed")
	}
	return batch.Len()
}

// Sync runs the merge for all four categories. Each category's lock is
// held only while that category merges.
func (ix *Indexer) Sync() {
	puts := ix.syncCategory(ix.incs, database.Include)
	puts += ix.syncCategory(ix.defs, database.Definition)
	puts += ix.syncCategory(ix.refs, database.Reference)
	puts += ix.syncCategory(ix.syms, database.Symbol)
	ix.lastSyncPuts.Store(int64(puts))
	ix.log.Debug().Int("puts", puts).Msg("synced")
}
