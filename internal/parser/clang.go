//go:build libclang
// +build libclang

package parser

// This file is compiled when building with the libclang tag and a
// libclang development install:
//
//   CGO_ENABLED=1 go build -tags libclang ./...
//
// It binds the clang C API through go-clang. Translation units carry
// detailed preprocessing records so that macro expansions and
// inclusion directives are visible to the walk.

import (
	"fmt"

	"github.com/go-clang/v3.6/clang"
)

// ClangParser parses translation units with libclang. One ClangParser
// owns one clang index; it is safe for concurrent Parse calls.
type ClangParser struct {
	index clang.Index
}

func New() (*ClangParser, error) {
	return &ClangParser{index: clang.NewIndex(0, 0)}, nil
}

func (p *ClangParser) Dispose() {
	p.index.Dispose()
}

func (p *ClangParser) Parse(input string, args []string) (TranslationUnit, error) {
	tu := p.index.ParseTranslationUnit(input, args, nil,
		uint32(clang.TranslationUnit_DetailedPreprocessingRecord))
	if !tu.IsValid() {
		return nil, fmt.Errorf("parser: no translation unit for %s", input)
	}
	return &clangUnit{tu: tu, input: input}, nil
}

type clangUnit struct {
	tu    clang.TranslationUnit
	input string
}

func (u *clangUnit) Spelling() string {
	if s := u.tu.Spelling(); s != "" {
		return s
	}
	return u.input
}

func (u *clangUnit) Cursor() Cursor {
	return clangCursor{c: u.tu.TranslationUnitCursor()}
}

func (u *clangUnit) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, d := range u.tu.Diagnostics() {
		out = append(out, clangDiagnostic{d: d})
	}
	return out
}

func (u *clangUnit) Inclusions() []Inclusion {
	var out []Inclusion
	u.tu.Inclusions(func(file clang.File, stack []clang.SourceLocation) {
		inc := Inclusion{File: file.Name()}
		for _, loc := range stack {
			f, _, _, _ := loc.SpellingLocation()
			inc.Stack = append(inc.Stack, f.Name())
		}
		out = append(out, inc)
	})
	return out
}

func (u *clangUnit) Dispose() {
	u.tu.Dispose()
}

type clangDiagnostic struct {
	d clang.Diagnostic
}

func (d clangDiagnostic) Severity() Severity {
	switch d.d.Severity() {
	case clang.Diagnostic_Note:
		return SeverityNote
	case clang.Diagnostic_Warning:
		return SeverityWarning
	case clang.Diagnostic_Error:
		return SeverityError
	case clang.Diagnostic_Fatal:
		return SeverityFatal
	}
	return SeverityIgnored
}

func (d clangDiagnostic) String() string {
	return d.d.FormatDiagnostic(uint32(clang.Diagnostic_DisplaySourceLocation |
		clang.Diagnostic_DisplayColumn |
		clang.Diagnostic_DisplayOption |
		clang.Diagnostic_DisplayCategoryName))
}

type clangCursor struct {
	c clang.Cursor
}

func (c clangCursor) IsNull() bool {
	return c.c.IsNull()
}

func (c clangCursor) IsAccessSpecifier() bool {
	return c.c.Kind() == clang.Cursor_CXXAccessSpecifier
}

func (c clangCursor) IsTranslationUnit() bool {
	return c.c.Kind().IsTranslationUnit()
}

func (c clangCursor) USR() string {
	return c.c.USR()
}

func (c clangCursor) Referenced() Cursor {
	return clangCursor{c: c.c.Referenced()}
}

func (c clangCursor) SpellingLocation() (string, uint32, uint32) {
	file, line, col, _ := c.c.Location().SpellingLocation()
	return file.Name(), line, col
}

func (c clangCursor) IsDefinition() bool {
	return c.c.IsCursorDefinition()
}

func (c clangCursor) DisplayName() string {
	return c.c.DisplayName()
}

func (c clangCursor) SemanticParent() Cursor {
	return clangCursor{c: c.c.SemanticParent()}
}

func (c clangCursor) Children() []Cursor {
	var out []Cursor
	c.c.Visit(func(cursor, parent clang.Cursor) clang.ChildVisitResult {
		out = append(out, clangCursor{c: cursor})
		return clang.ChildVisit_Continue
	})
	return out
}
