package main

import (
	"context"
	"fmt"
	"io"
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

type moduleFlags struct {
	es5             bool
	prelude         string
	namespacePrefix string
	root            string
	outDir          string
	list            bool
	failOnError     bool
}

func newModuleCmd() *cobra.Command {
	var flags moduleFlags
	cmd := &cobra.Command{
		Use:   "module [flags] <file.js|directory>...",
		Short: "Convert compiled CommonJS into goog.module",
		Long:  `Module rewrites top-level require calls of compiled JavaScript into goog.require and prepends the goog.module header. Files are rewritten in place unless --out-dir is given`,
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
			return runModule(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, cfg.Module, flags, g, logger)
		},
	}
	cmd.Flags().BoolVar(&flags.es5, "es5", true, "emit the ES5 module header")
	cmd.Flags().StringVar(&flags.prelude, "prelude", "", "text inserted after the goog.module call")
	cmd.Flags().StringVar(&flags.namespacePrefix, "namespace-prefix", "", "specifier prefix naming a Closure namespace")
	cmd.Flags().StringVar(&flags.root, "root", ".", "directory module names are relative to")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "directory for rewritten files (default: in place)")
	cmd.Flags().BoolVar(&flags.list, "list", false, "print the modules each file references")
	cmd.Flags().BoolVar(&flags.failOnError, "fail-on-error", true, "exit non-zero when an error diagnostic is reported")
	return cmd
}

func (f moduleFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("es5") {
		cfg.Module.ES5 = f.es5
	}
	if cmd.Flags().Changed("prelude") {
		cfg.Module.Prelude = f.prelude
	}
	if cmd.Flags().Changed("namespace-prefix") {
		cfg.Module.NamespacePrefix = f.namespacePrefix
	}
}

func runModule(ctx context.Context, stdout, stderr io.Writer, roots []string, cfg config.ModuleConfig, flags moduleFlags, g globalOptions, logger *zap.Logger) error {
	paths, err := driver.ListSources(roots, driver.IsModuleInput)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.Newf("no JavaScript files in %s", strings.Join(roots, ", "))
	}

	timer := observ.NewTimer()
	fs, results, err := driver.RewriteModules(ctx, paths, driver.ModuleOptions{
		ES5:             cfg.ES5,
		Prelude:         cfg.Prelude,
		NamespacePrefix: cfg.NamespacePrefix,
		Root:            flags.root,
		Jobs:            g.jobs,
		MaxDiagnostics:  g.maxDiagnostics,
		Timer:           timer,
	})
	if err != nil {
		return err
	}

	report := make([]fileDiagnostics, 0, len(results))
	failed := false
	for _, r := range results {
		report = append(report, fileDiagnostics{path: r.Path, loaded: r.Loaded, bag: r.Bag})
		failed = failed || r.Bag.HasErrors()
	}
	if err = reportDiagnostics(stderr, fs, report, timer, g); err != nil {
		return err
	}

	for _, r := range results {
		if !r.Loaded {
			continue
		}
		if flags.list {
			fmt.Fprintf(stdout, "%s: %s\n", r.ModuleName, strings.Join(r.ReferencedModules, " "))
		}
		dest := moduleDest(r.Path, flags.root, flags.outDir)
		if err = writeFile(dest, r.Output); err != nil {
			return err
		}
		logger.Debug("wrote goog.module", zap.String("path", dest), zap.String("module", r.ModuleName))
	}
	if flags.failOnError && failed {
		return errDiagnostics
	}
	return nil
}

// moduleDest keeps the layout under root when writing to outDir.
func moduleDest(path, root, outDir string) string {
	if outDir == "" {
		return path
	}
	rel, err := source.RelativePath(path, root)
	if err != nil || filepath.IsAbs(rel) {
		rel = filepath.Base(path)
	}
	return filepath.Join(outDir, rel)
}
