// Package driver runs the rewriters over sets of files: loading, parallel
// parsing and annotation, the disk cache and result aggregation.
package driver

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Feiyang1/tsickle/internal/annotate"
	"github.com/Feiyang1/tsickle/internal/checker"
	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/observ"
	"github.com/Feiyang1/tsickle/internal/source"
	"github.com/Feiyang1/tsickle/internal/syntax"
)

// Options configure an annotation run.
type Options struct {
	Untyped   bool
	Blacklist []string

	Jobs           int
	MaxDiagnostics int

	// Cache may be nil.
	Cache *DiskCache
	// Logger receives type-rendering warnings; nil discards them.
	Logger *zap.Logger
	// Timer may be nil.
	Timer *observ.Timer
}

// FileResult is the annotation of one input file.
type FileResult struct {
	Path       string
	FileID     source.FileID
	Output     string
	Externs    string
	HasExterns bool
	Bag        *diag.Bag
	// Cached is set when the result came from the disk cache.
	Cached bool
	// Loaded is false when the file could not be read.
	Loaded bool
}

// Result of an annotation run, in input order.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// HasErrors reports whether any file has an error diagnostic.
func (r *Result) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Externs joins the externs of all files under one header. Empty when no
// file declared anything ambient.
func (r *Result) Externs() string {
	var sb strings.Builder
	for _, f := range r.Files {
		if !f.HasExterns {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteString(annotate.ExternsHeader)
		}
		sb.WriteString("// externs from " + f.Path + ":\n")
		sb.WriteString(strings.TrimPrefix(f.Externs, annotate.ExternsHeader))
	}
	return sb.String()
}

// Annotate annotates paths as one program.
func Annotate(ctx context.Context, paths []string, opts Options) (*Result, error) {
	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res := &Result{FileSet: source.NewFileSet(), Files: make([]FileResult, len(paths))}
	var loaded []int
	_ = timer.Measure("load", func() error {
		for i, path := range paths {
			fr := &res.Files[i]
			fr.Path = path
			fr.Bag = diag.NewBag(opts.MaxDiagnostics)
			id, err := res.FileSet.Load(path)
			if err != nil {
				fr.Bag.Add(diag.NewError(diag.IOLoadFileError, source.NoSpan, "failed to load file: "+err.Error()))
				continue
			}
			fr.FileID = id
			fr.Loaded = true
			loaded = append(loaded, i)
		}
		return nil
	})

	// ключ файла зависит от всей программы: типы приходят из импортов
	hashes := make([]Digest, 0, len(loaded))
	for _, i := range loaded {
		hashes = append(hashes, res.FileSet.Get(res.Files[i].FileID).Hash)
	}
	program := combineDigest(optionsDigest(opts), hashes...)
	keys := make(map[int]Digest, len(loaded))

	var pending []int
	_ = timer.Measure("cache", func() error {
		for _, i := range loaded {
			fr := &res.Files[i]
			key := combineDigest(res.FileSet.Get(fr.FileID).Hash, program)
			keys[i] = key
			var payload DiskPayload
			hit, err := opts.Cache.Get(key, &payload)
			if err != nil {
				logger.Warn("cache read failed", zap.String("file", fr.Path), zap.Error(err))
			}
			if hit && err == nil {
				fromPayload(fr, &payload)
				continue
			}
			pending = append(pending, i)
		}
		return nil
	})
	if len(pending) == 0 {
		return res, nil
	}

	ids := make([]source.FileID, len(loaded))
	for j, i := range loaded {
		ids[j] = res.Files[i].FileID
	}
	var parsed []*syntax.File
	err := timer.Measure("parse", func() error {
		var err error
		parsed, err = parseAll(ctx, res.FileSet, ids, opts.Jobs)
		return err
	})
	if err != nil {
		return res, err
	}
	byResult := make(map[int]*syntax.File, len(loaded))
	for j, i := range loaded {
		byResult[i] = parsed[j]
	}

	prog := checker.NewProgram(parsed)
	err = timer.Measure("annotate", func() error {
		return forEachWithChecker(ctx, prog, pending, opts.Jobs, func(chk *checker.Checker, i int) {
			annotateOne(chk, byResult[i], &res.Files[i], opts, logger)
		})
	})
	if err != nil {
		return res, err
	}

	if opts.Cache != nil {
		_ = timer.Measure("cache write", func() error {
			for _, i := range pending {
				if err := opts.Cache.Put(keys[i], toPayload(&res.Files[i])); err != nil {
					logger.Warn("cache write failed", zap.String("file", res.Files[i].Path), zap.Error(err))
				}
			}
			return nil
		})
	}
	return res, nil
}

func annotateOne(chk *checker.Checker, file *syntax.File, fr *FileResult, opts Options, logger *zap.Logger) {
	sugar := logger.Sugar()
	out := annotate.Annotate(chk, file, annotate.Options{
		Untyped:   opts.Untyped,
		Blacklist: opts.Blacklist,
		LogWarning: func(d diag.Diagnostic) {
			pos := file.Source.Position(d.Primary.Start)
			sugar.Warnw(d.Message, "file", fr.Path, "line", pos.Line, "col", pos.Col, "code", d.Code.ID())
		},
	})
	fr.Bag.AddAll(file.Diagnostics)
	fr.Bag.AddAll(out.Diagnostics)
	fr.Output = out.Output
	fr.Externs = out.Externs
	fr.HasExterns = out.HasExterns
}

// forEachWithChecker runs fn over items on a bounded pool of workers.
// Each worker owns one Checker; the Program is shared read-only.
func forEachWithChecker(ctx context.Context, prog *checker.Program, items []int, jobs int, fn func(*checker.Checker, int)) error {
	g, gctx := errgroup.WithContext(ctx)
	work := make(chan int)
	g.Go(func() error {
		defer close(work)
		for _, i := range items {
			select {
			case work <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for range jobCount(jobs, len(items)) {
		g.Go(func() error {
			chk := checker.New(prog)
			for i := range work {
				if err := gctx.Err(); err != nil {
					return err
				}
				fn(chk, i)
			}
			return nil
		})
	}
	return g.Wait()
}
