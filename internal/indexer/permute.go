package indexer

import (
	"strings"

	"github.com/JamieCunliffe/rtags/internal/parser"
)

// addNamePermutations stages every progressively qualified name of a
// defined symbol, with and without the parameter list, so queries can
// use "x", "N::x" or "f(int)" alike. Walks the semantic parent chain
// up to the translation unit.
func (j *job) addNamePermutations(c parser.Cursor, usr string) {
	var qparam, qnoparam string

	for cur := c; !cur.IsNull() && !cur.IsTranslationUnit(); cur = cur.SemanticParent() {
		name := cur.DisplayName()
		if name == "" {
			break
		}

		if qparam == "" {
			qparam = name
			qnoparam = name
			// Only the leaf loses its parameter list.
			if sp := strings.IndexByte(qnoparam, '('); sp != -1 {
				qnoparam = qnoparam[:sp]
			}
		} else {
			qparam = name + "::" + qparam
			qnoparam = name + "::" + qnoparam
		}

		j.syms.insert(qparam, usr)
		if qparam != qnoparam {
			j.syms.insert(qnoparam, usr)
		}
	}
}

// addFilenameSymbol stages the unit's basename as a symbol mapping to
// the full filename. The split walks back from the end and treats a
// slash preceded by an odd number of backslashes as escaped.
func (j *job) addFilenameSymbol(filename string) {
	idx := lastUnescapedSlash(filename)
	if idx == -1 {
		return
	}
	j.syms.insert(filename[idx+1:], filename)
}

func lastUnescapedSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != '/' {
			continue
		}
		backslashes := 0
		for k := i - 1; k >= 0 && s[k] == '\\'; k-- {
			backslashes++
		}
		if backslashes%2 == 1 {
			i -= backslashes
			continue
		}
		return i
	}
	return -1
}
