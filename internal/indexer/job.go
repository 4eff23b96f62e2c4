package indexer

import (
	"fmt"

	"github.com/JamieCunliffe/rtags/internal/parser"
	"github.com/JamieCunliffe/rtags/internal/pathutil"
	"github.com/JamieCunliffe/rtags/internal/unitcache"
)

// job extracts one translation unit. Definitions, references and
// symbols accumulate in job-private maps and are folded into the
// shared staging maps one category lock at a time when the walk is
// done; inclusions go to the shared map directly, they produce too
// little data to be worth a private buffer.
type job struct {
	ix    *Indexer
	mode  Mode
	id    int
	input string
	args  []string

	defs setMap
	refs setMap
	syms setMap
}

func newJob(ix *Indexer, mode Mode, id int, input string, args []string) *job {
	return &job{
		ix:    ix,
		mode:  mode,
		id:    id,
		input: input,
		args:  args,
		defs:  make(setMap),
		refs:  make(setMap),
		syms:  make(setMap),
	}
}

// run executes the job on a pool worker. It always emits exactly one
// completion, whether or not a unit was produced.
func (j *job) run() {
	defer func() {
		j.ix.completions <- completion{id: j.id, input: j.input}
	}()

	flags := unitcache.Source | unitcache.AST
	if j.mode == Force {
		flags |= unitcache.Force
	}

	unit, err := j.ix.units.Open(j.input, j.args, flags)
	if err != nil || unit == nil {
		j.ix.log.Error().Err(err).Str("input", j.input).Msg("no unit produced")
		return
	}
	defer unit.Release()

	j.ix.log.Debug().Str("input", j.input).Str("filename", unit.Filename).Msg("parsing")

	for _, diag := range unit.TU.Diagnostics() {
		if diag.Severity() >= parser.SeverityWarning {
			j.ix.log.Warn().Str("input", j.input).Msg(diag.String())
		}
	}

	// A unit reused from a cached AST was extracted when it was first
	// parsed; walking it again would only stage duplicates.
	if unit.Origin != unitcache.OriginSource {
		return
	}

	for _, inc := range unit.TU.Inclusions() {
		j.addInclusion(inc.File)
		for _, frame := range inc.Stack {
			j.addInclusion(frame)
		}
	}

	j.visit(unit.TU.Cursor())
	j.addFilenameSymbol(unit.Filename)

	j.ix.defs.fold(j.defs)
	j.ix.refs.fold(j.refs)
	j.ix.syms.fold(j.syms)
}

// addInclusion records the current input as an includer of file. The
// input never includes itself.
func (j *job) addInclusion(file string) {
	if file == "" {
		return
	}
	resolved := pathutil.Resolve(file)
	if resolved == j.input {
		return
	}
	j.ix.incs.insert(resolved, j.input)
}

func (j *job) visit(c parser.Cursor) {
	j.record(c)
	for _, child := range c.Children() {
		j.visit(child)
	}
}

func (j *job) record(c parser.Cursor) {
	if c.IsAccessSpecifier() {
		return
	}

	usr := c.USR()
	if !parser.HasUSR(usr) {
		// A reference cursor may have no USR of its own; fall back to
		// the entity it refers to.
		usr = c.Referenced().USR()
		if !parser.HasUSR(usr) {
			return
		}
	}

	file, line, col := c.SpellingLocation()
	if file == "" {
		return
	}
	loc := fmt.Sprintf("%s:%d:%d", pathutil.Resolve(file), line, col)

	if c.IsDefinition() {
		j.defs.insert(usr, loc)
		j.addNamePermutations(c, usr)
	}
	j.refs.insert(usr, loc)
}
