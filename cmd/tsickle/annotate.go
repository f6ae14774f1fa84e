package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Feiyang1/tsickle/internal/config"
	"github.com/Feiyang1/tsickle/internal/driver"
	"github.com/Feiyang1/tsickle/internal/observ"
	"github.com/Feiyang1/tsickle/internal/source"
)

type annotateFlags struct {
	untyped     bool
	outDir      string
	externsFile string
	blacklist   []string
	stdout      bool
	cache       bool
	clearCache  bool
	failOnError bool
}

func newAnnotateCmd() *cobra.Command {
	var flags annotateFlags
	cmd := &cobra.Command{
		Use:   "annotate [flags] <file.ts|directory>...",
		Short: "Annotate TypeScript sources with Closure JSDoc",
		Long:  `Annotate writes <name>.closure.ts next to every source (or under --out-dir) and collects ambient declarations into one externs file`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobals(cmd)
			if err != nil {
				return err
			}
			logger, err := g.logger()
			if err != nil {
				return errors.Wrap(err, "logger")
			}
			defer func() { _ = logger.Sync() }()

			cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}
			flags.apply(cmd, &cfg)
			return runAnnotate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, cfg, flags, g, logger)
		},
	}
	flags.register(cmd)
	return cmd
}

func (f *annotateFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.untyped, "untyped", false, "emit {?} for every type")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "directory for annotated output (default: next to the source)")
	cmd.Flags().StringVar(&f.externsFile, "externs", "", "externs output file")
	cmd.Flags().StringSliceVar(&f.blacklist, "blacklist", nil, "extra global names never declared in externs")
	cmd.Flags().BoolVar(&f.stdout, "stdout", false, "print output instead of writing files")
	cmd.Flags().BoolVar(&f.cache, "cache", false, "reuse results of unchanged programs from the disk cache")
	cmd.Flags().BoolVar(&f.clearCache, "clear-cache", false, "drop the disk cache before running")
	cmd.Flags().BoolVar(&f.failOnError, "fail-on-error", true, "exit non-zero when an error diagnostic is reported")
}

// apply lets explicitly set flags win over tsickle.toml.
func (f annotateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("untyped") {
		cfg.Annotate.Untyped = f.untyped
	}
	if cmd.Flags().Changed("out-dir") {
		cfg.Annotate.OutDir = f.outDir
	}
	if cmd.Flags().Changed("externs") {
		cfg.Annotate.ExternsFile = f.externsFile
	}
	cfg.Annotate.ExternsBlacklist = append(cfg.Annotate.ExternsBlacklist, f.blacklist...)
}

func runAnnotate(ctx context.Context, stdout, stderr io.Writer, roots []string, cfg config.Config, flags annotateFlags, g globalOptions, logger *zap.Logger) error {
	paths, err := driver.ListSources(roots, driver.IsAnnotateInput)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.WithHint(errors.Newf("no TypeScript sources in %s", strings.Join(roots, ", ")),
			"annotate reads .ts and .tsx files")
	}

	var cache *driver.DiskCache
	if flags.cache || flags.clearCache {
		if cache, err = driver.OpenDiskCache("tsickle"); err != nil {
			return err
		}
		if flags.clearCache {
			if err = cache.DropAll(); err != nil {
				return err
			}
		}
		if !flags.cache {
			cache = nil
		}
	}

	timer := observ.NewTimer()
	res, err := driver.Annotate(ctx, paths, driver.Options{
		Untyped:        cfg.Annotate.Untyped,
		Blacklist:      cfg.Annotate.ExternsBlacklist,
		Jobs:           g.jobs,
		MaxDiagnostics: g.maxDiagnostics,
		Cache:          cache,
		Logger:         logger,
		Timer:          timer,
	})
	if err != nil {
		return err
	}

	report := make([]fileDiagnostics, 0, len(res.Files))
	for _, f := range res.Files {
		report = append(report, fileDiagnostics{path: f.Path, loaded: f.Loaded, bag: f.Bag})
	}
	if err = reportDiagnostics(stderr, res.FileSet, report, timer, g); err != nil {
		return err
	}

	if err = writeAnnotated(stdout, res, cfg.Annotate, flags.stdout, logger); err != nil {
		return err
	}
	if flags.failOnError && res.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func writeAnnotated(stdout io.Writer, res *driver.Result, cfg config.AnnotateConfig, toStdout bool, logger *zap.Logger) error {
	for _, f := range res.Files {
		// .d.ts вносит вклад только в externs
		if !f.Loaded || source.IsDeclarationFile(f.Path) {
			continue
		}
		if toStdout {
			if _, err := io.WriteString(stdout, f.Output); err != nil {
				return errors.Wrap(err, "stdout")
			}
			continue
		}
		dest := closurePath(f.Path, cfg.OutDir)
		if err := writeFile(dest, f.Output); err != nil {
			return err
		}
		logger.Debug("wrote annotated source", zap.String("path", dest), zap.Bool("cached", f.Cached))
	}

	externs := res.Externs()
	if externs == "" {
		return nil
	}
	if toStdout {
		_, err := io.WriteString(stdout, externs)
		return errors.Wrap(err, "stdout")
	}
	dest := cfg.ExternsFile
	if cfg.OutDir != "" && !filepath.IsAbs(dest) {
		dest = filepath.Join(cfg.OutDir, dest)
	}
	if err := writeFile(dest, externs); err != nil {
		return err
	}
	logger.Debug("wrote externs", zap.String("path", dest))
	return nil
}

// closurePath maps a/b.ts to a/b.closure.ts, under outDir when set.
func closurePath(path, outDir string) string {
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(path, ext) + ".closure" + ext
	if outDir == "" {
		return name
	}
	if !filepath.IsAbs(name) {
		return filepath.Join(outDir, name)
	}
	if rel, err := source.RelativePath(name, "."); err == nil && !filepath.IsAbs(rel) {
		return filepath.Join(outDir, rel)
	}
	return filepath.Join(outDir, filepath.Base(name))
}

func writeFile(dest, content string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", dest)
	}
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", dest)
	}
	return nil
}
