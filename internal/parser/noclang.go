//go:build !libclang
// +build !libclang

package parser

import "errors"

// This file is compiled when building without the libclang tag. The
// daemon still links, which keeps tests and tooling free of the C
// dependency, but parsing is unavailable at runtime.

var errNoLibclang = errors.New("parser: built without libclang support (rebuild with -tags libclang)")

type ClangParser struct{}

func New() (*ClangParser, error) {
	return nil, errNoLibclang
}

func (p *ClangParser) Dispose() {}

func (p *ClangParser) Parse(input string, args []string) (TranslationUnit, error) {
	return nil, errNoLibclang
}
