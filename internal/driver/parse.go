package driver

import (
	"context"
	"fmt"
	"io"

	"mmdfmt/internal/ast"
	"mmdfmt/internal/diag"
	"mmdfmt/internal/parser"
	"mmdfmt/internal/source"
	"mmdfmt/internal/trace"
)

// ParseResult holds the statement stream of one input.
type ParseResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Diagram *ast.Diagram
	Bag     *diag.Bag
}

// Parse loads path (or reads r when it is non-nil, naming the input path)
// and builds its diagram. Parse failures are returned as the error and
// mirrored into the result bag; the result is non-nil whenever the input
// could be read.
func Parse(ctx context.Context, path string, r io.Reader, maxDiagnostics int) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, "parse")
	defer span.End("")

	fileSet := source.NewFileSet()
	var (
		fileID source.FileID
		err    error
	)
	if r != nil {
		if path == "" {
			path = StdinName
		}
		fileID, err = fileSet.LoadReader(path, r)
	} else {
		fileID, err = fileSet.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	span.WithExtra("path", path)

	res := &ParseResult{FileSet: fileSet, FileID: fileID, Bag: diag.NewBag(maxDiagnostics)}
	d, err := parser.ParseFile(fileSet, fileID, parser.Options{Reporter: diag.BagReporter{Bag: res.Bag}})
	if err != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeError, "parse-failed", err.Error(), span.ID())
		return res, err
	}
	res.Diagram = d
	return res, nil
}
