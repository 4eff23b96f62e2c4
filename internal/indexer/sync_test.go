package indexer

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamieCunliffe/rtags/internal/database"
)

func TestSplitValueDropsEmptyElements(t *testing.T) {
	assert.Empty(t, splitValue(nil))
	assert.Empty(t, splitValue([]byte("")))
	assert.Empty(t, splitValue([]byte("\n\n")))

	// Values are accepted with or without the trailing LF.
	withLF := splitValue([]byte("a\nb\n"))
	withoutLF := splitValue([]byte("a\nb"))
	assert.Equal(t, withLF, withoutLF)
	assert.Len(t, withLF, 2)
}

func TestJoinValueRoundTrips(t *testing.T) {
	set := map[string]struct{}{
		"/abs/a.c:1:5": {},
		"/abs/a.c:2:9": {},
	}
	assert.Equal(t, set, splitValue(joinValue(set)))
}

func newSyncIndexer(t *testing.T) *Indexer {
	t.Helper()
	ix, err := New(t.TempDir(), nil, Options{Workers: 1, Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(ix.Close)
	return ix
}

func TestSyncMergesWithStoredSet(t *testing.T) {
	ix := newSyncIndexer(t)

	ix.defs.insert("usr", "loc1")
	assert.Equal(t, 1, ix.syncCategory(ix.defs, database.Definition))
	assert.True(t, ix.defs.empty())

	// A disjoint element unions with what is already stored.
	ix.defs.insert("usr", "loc2")
	assert.Equal(t, 1, ix.syncCategory(ix.defs, database.Definition))

	stored := readSet(t, ix.root, database.Definition, "usr")
	assert.Equal(t, map[string]struct{}{"loc1": {}, "loc2": {}}, stored)
}

func TestSyncSkipsWhenStagedIsSubset(t *testing.T) {
	ix := newSyncIndexer(t)

	ix.refs.insert("usr", "loc1")
	ix.refs.insert("usr", "loc2")
	require.Equal(t, 1, ix.syncCategory(ix.refs, database.Reference))

	// Staging a subset of the stored set writes nothing.
	ix.refs.insert("usr", "loc2")
	assert.Equal(t, 0, ix.syncCategory(ix.refs, database.Reference))
	assert.True(t, ix.refs.empty())
}

func TestSyncEmptyStagingIsNoOp(t *testing.T) {
	ix := newSyncIndexer(t)
	assert.Equal(t, 0, ix.syncCategory(ix.syms, database.Symbol))
}

func TestSyncHandlesMultipleKeys(t *testing.T) {
	ix := newSyncIndexer(t)

	ix.syms.insert("foo", "usr1")
	ix.syms.insert("bar", "usr2")
	ix.syms.insert("bar", "usr3")
	assert.Equal(t, 2, ix.syncCategory(ix.syms, database.Symbol))

	assert.Equal(t, map[string]struct{}{"usr1": {}}, readSet(t, ix.root, database.Symbol, "foo"))
	assert.Equal(t, map[string]struct{}{"usr2": {}, "usr3": {}}, readSet(t, ix.root, database.Symbol, "bar"))
}

func TestStagingFoldReleasesSource(t *testing.T) {
	local := make(setMap)
	local.insert("k", "v1")
	local.insert("k", "v2")

	s := newStagingMap()
	s.fold(local)

	assert.Empty(t, local)
	assert.False(t, s.empty())
	s.mu.Lock()
	assert.Equal(t, map[string]struct{}{"v1": {}, "v2": {}}, s.data["k"])
	s.mu.Unlock()
}
