package parse

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/andrewchambers/cparse/ast"
)

// Unit is one translation unit for ParseAll.
type Unit struct {
	Filename string
	Src      string
}

// ParseAll parses independent translation units concurrently, at most
// limit at a time (no limit when limit <= 0). Results are in the order of
// units. The first error stops units that have not started yet and is
// returned alone.
func ParseAll(ctx context.Context, units []Unit, limit int) ([]*ast.FileAST, error) {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	results := make([]*ast.FileAST, len(units))
	for i, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := New().Parse(u.Src, u.Filename)
			if err != nil {
				return err
			}
			results[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
