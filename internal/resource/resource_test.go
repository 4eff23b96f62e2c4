package resource

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "resources.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInformationRoundTrip(t *testing.T) {
	s := newStore(t)

	args := []string{"-std=c++17", "-I/abs/include", "-DNDEBUG"}
	require.NoError(t, s.WriteInformation("/abs/a.cc", "/abs/a.cc", args))

	input, got, err := s.ReadInformation("/abs/a.cc")
	require.NoError(t, err)
	assert.Equal(t, "/abs/a.cc", input)
	assert.Equal(t, args, got)
}

func TestMissingRecord(t *testing.T) {
	s := newStore(t)

	_, _, err := s.ReadInformation("/abs/never.c")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestWriteReplacesRecord(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.WriteInformation("/abs/a.c", "/abs/a.c", []string{"-O0"}))
	require.NoError(t, s.WriteInformation("/abs/a.c", "/abs/a.c", []string{"-O2", "-g"}))

	_, args, err := s.ReadInformation("/abs/a.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"-O2", "-g"}, args)
}

func TestEmptyArgsRoundTrip(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.WriteInformation("/abs/bare.c", "/abs/bare.c", nil))

	input, args, err := s.ReadInformation("/abs/bare.c")
	require.NoError(t, err)
	assert.Equal(t, "/abs/bare.c", input)
	assert.Empty(t, args)
}

func TestRecordsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteInformation("/abs/a.c", "/abs/a.c", []string{"-Wall"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	input, args, err := s.ReadInformation("/abs/a.c")
	require.NoError(t, err)
	assert.Equal(t, "/abs/a.c", input)
	assert.Equal(t, []string{"-Wall"}, args)
}
