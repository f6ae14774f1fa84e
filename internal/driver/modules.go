package driver

import (
	"context"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/gmodule"
	"github.com/Feiyang1/tsickle/internal/observ"
	"github.com/Feiyang1/tsickle/internal/source"
)

// ModuleOptions configure a module rewrite run.
type ModuleOptions struct {
	ES5             bool
	Prelude         string
	NamespacePrefix string
	// Root anchors module names: a/b.js under Root is goog.module('a.b').
	Root string
	// Resolve overrides the path-based resolver. It receives paths
	// relative to Root.
	Resolve gmodule.Resolver

	Jobs           int
	MaxDiagnostics int
	Timer          *observ.Timer
}

// ModuleResult is the rewrite of one compiled file.
type ModuleResult struct {
	Path              string
	FileID            source.FileID
	ModuleName        string
	Output            string
	ReferencedModules []string
	Bag               *diag.Bag
	Loaded            bool
}

// RewriteModules converts compiled CommonJS files to goog.module in parallel.
func RewriteModules(ctx context.Context, paths []string, opts ModuleOptions) (*source.FileSet, []ModuleResult, error) {
	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}
	root := opts.Root
	if root == "" {
		root = "."
	}
	resolve := opts.Resolve
	if resolve == nil {
		resolve = gmodule.PathToModuleName
	}

	fileSet := source.NewFileSet()
	results := make([]ModuleResult, len(paths))
	_ = timer.Measure("load", func() error {
		for i, p := range paths {
			results[i] = ModuleResult{Path: p, Bag: diag.NewBag(opts.MaxDiagnostics)}
			id, err := fileSet.Load(p)
			if err != nil {
				results[i].Bag.Add(diag.NewError(diag.IOLoadFileError, source.NoSpan, "failed to load file: "+err.Error()))
				continue
			}
			results[i].FileID = id
			results[i].Loaded = true
		}
		return nil
	})

	err := timer.Measure("rewrite", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(jobCount(opts.Jobs, len(paths)))
		for i := range results {
			r := &results[i]
			if !r.Loaded {
				continue
			}
			g.Go(func() error {
				src := fileSet.Get(r.FileID)
				rel := relativeTo(src.Path, root)
				r.ModuleName = gmodule.PathToModuleName("", rel)
				out, err := gmodule.Process(gctx, src, gmodule.Options{
					ModuleName:      r.ModuleName,
					ModuleID:        rel,
					ES5:             opts.ES5,
					Prelude:         opts.Prelude,
					NamespacePrefix: opts.NamespacePrefix,
					Resolve: func(_, specifier string) string {
						return resolve(rel, specifier)
					},
				})
				if err != nil {
					return err
				}
				r.Output = out.Output
				r.ReferencedModules = out.ReferencedModules
				r.Bag.AddAll(out.Diagnostics)
				return nil
			})
		}
		return g.Wait()
	})
	return fileSet, results, err
}

func relativeTo(p, root string) string {
	rel, err := source.RelativePath(p, root)
	if err != nil {
		return path.Clean(p)
	}
	return rel
}
