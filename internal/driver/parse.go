package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Feiyang1/tsickle/internal/source"
	"github.com/Feiyang1/tsickle/internal/syntax"
)

func jobCount(jobs, work int) int {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, work))
}

// parseAll parses the files in parallel. The result is indexed like ids.
func parseAll(ctx context.Context, fileSet *source.FileSet, ids []source.FileID, jobs int) ([]*syntax.File, error) {
	parsed := make([]*syntax.File, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobCount(jobs, len(ids)))
	for i, id := range ids {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := syntax.Parse(gctx, fileSet.Get(id))
			if err != nil {
				return err
			}
			// индекс i уникален, мьютекс не нужен
			parsed[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}
