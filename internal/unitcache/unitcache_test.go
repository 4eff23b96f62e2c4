package unitcache

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamieCunliffe/rtags/internal/parser"
)

type stubUnit struct {
	name     string
	mu       sync.Mutex
	disposed bool
}

func (u *stubUnit) Spelling() string                 { return u.name }
func (u *stubUnit) Cursor() parser.Cursor            { return nil }
func (u *stubUnit) Diagnostics() []parser.Diagnostic { return nil }
func (u *stubUnit) Inclusions() []parser.Inclusion   { return nil }

func (u *stubUnit) Dispose() {
	u.mu.Lock()
	u.disposed = true
	u.mu.Unlock()
}

func (u *stubUnit) isDisposed() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.disposed
}

type stubParser struct {
	mu     sync.Mutex
	parses int
	fail   bool
}

func (p *stubParser) Parse(input string, args []string) (parser.TranslationUnit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return nil, errors.New("parse failed")
	}
	p.parses++
	return &stubUnit{name: input}, nil
}

func (p *stubParser) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parses
}

func TestOpenParsesFromSource(t *testing.T) {
	sp := &stubParser{}
	c, err := New(sp, 4)
	require.NoError(t, err)

	unit, err := c.Open("/abs/a.c", nil, Source|AST)
	require.NoError(t, err)
	require.NotNil(t, unit)
	defer unit.Release()

	assert.Equal(t, OriginSource, unit.Origin)
	assert.Equal(t, "/abs/a.c", unit.Filename)
	assert.Equal(t, 1, sp.count())
}

func TestOpenReusesAST(t *testing.T) {
	sp := &stubParser{}
	c, err := New(sp, 4)
	require.NoError(t, err)

	first, err := c.Open("/abs/a.c", nil, Source|AST)
	require.NoError(t, err)
	first.Release()

	second, err := c.Open("/abs/a.c", nil, Source|AST)
	require.NoError(t, err)
	defer second.Release()

	assert.Equal(t, OriginAST, second.Origin)
	assert.Equal(t, 1, sp.count())
}

func TestForceReparses(t *testing.T) {
	sp := &stubParser{}
	c, err := New(sp, 4)
	require.NoError(t, err)

	first, err := c.Open("/abs/a.c", nil, Source|AST)
	require.NoError(t, err)
	first.Release()

	second, err := c.Open("/abs/a.c", nil, Source|AST|Force)
	require.NoError(t, err)
	defer second.Release()

	assert.Equal(t, OriginSource, second.Origin)
	assert.Equal(t, 2, sp.count())
}

func TestASTOnlyMissReturnsNoUnit(t *testing.T) {
	sp := &stubParser{}
	c, err := New(sp, 4)
	require.NoError(t, err)

	unit, err := c.Open("/abs/never-parsed.c", nil, AST)
	require.NoError(t, err)
	assert.Nil(t, unit)
	assert.Equal(t, 0, sp.count())
}

func TestParseErrorPropagates(t *testing.T) {
	sp := &stubParser{fail: true}
	c, err := New(sp, 4)
	require.NoError(t, err)

	unit, err := c.Open("/abs/bad.c", nil, Source|AST)
	assert.Error(t, err)
	assert.Nil(t, unit)
}

func TestEvictionWaitsForLeases(t *testing.T) {
	sp := &stubParser{}
	c, err := New(sp, 1)
	require.NoError(t, err)

	held, err := c.Open("/abs/a.c", nil, Source|AST)
	require.NoError(t, err)
	a := held.TU.(*stubUnit)

	// Filling the cache evicts a.c, but the outstanding lease keeps
	// the unit alive until released.
	other, err := c.Open("/abs/b.c", nil, Source|AST)
	require.NoError(t, err)
	other.Release()

	assert.False(t, a.isDisposed())
	held.Release()
	assert.True(t, a.isDisposed())
}

func TestReplacedUnitIsDisposed(t *testing.T) {
	sp := &stubParser{}
	c, err := New(sp, 4)
	require.NoError(t, err)

	first, err := c.Open("/abs/a.c", nil, Source|AST)
	require.NoError(t, err)
	a := first.TU.(*stubUnit)
	first.Release()

	second, err := c.Open("/abs/a.c", nil, Source|AST|Force)
	require.NoError(t, err)
	defer second.Release()

	assert.True(t, a.isDisposed())
	assert.False(t, second.TU.(*stubUnit).isDisposed())
}

func TestConcurrentOpensShareOneParse(t *testing.T) {
	sp := &stubParser{}
	c, err := New(sp, 8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unit, err := c.Open("/abs/shared.c", nil, Source|AST)
			if assert.NoError(t, err) && assert.NotNil(t, unit) {
				unit.Release()
			}
		}()
	}
	wg.Wait()

	// Concurrent misses share a parse; once cached, opens reuse the
	// AST and the count stays put.
	after := sp.count()
	assert.GreaterOrEqual(t, after, 1)

	unit, err := c.Open("/abs/shared.c", nil, Source|AST)
	require.NoError(t, err)
	unit.Release()
	assert.Equal(t, after, sp.count())

	for i := 0; i < 4; i++ {
		u, err := c.Open(fmt.Sprintf("/abs/u%d.c", i), nil, Source)
		require.NoError(t, err)
		u.Release()
	}
	assert.Equal(t, after+4, sp.count())
}
