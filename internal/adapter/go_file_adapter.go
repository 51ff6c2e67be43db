package adapter

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"

	m "gooze.dev/pkg/mutest/internal/model"
)

// SourceTree is a parsed Go file together with the bytes it was parsed from.
// Offsets stored in model.LocIndex refer to Content.
type SourceTree struct {
	Path    m.Path
	Content []byte
	FileSet *token.FileSet
	File    *ast.File
}

// GoFileAdapter encapsulates Go-specific parsing so the domain layer can focus
// on mutation rules.
type GoFileAdapter interface {
	// Parse builds an AST for the provided filename/source pair.
	Parse(ctx context.Context, fileSet *token.FileSet, path m.Path, src []byte) (*SourceTree, error)
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair. fileSet may be
// shared between goroutines; token.FileSet is safe for concurrent use.
func (a *LocalGoFileAdapter) Parse(ctx context.Context, fileSet *token.FileSet, path m.Path, src []byte) (*SourceTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := parser.ParseFile(fileSet, string(path), src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	return &SourceTree{
		Path:    path,
		Content: src,
		FileSet: fileSet,
		File:    file,
	}, nil
}
