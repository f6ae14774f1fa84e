package main

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Feiyang1/tsickle/internal/driver"
)

const watchDebounce = 200 * time.Millisecond

func newWatchCmd() *cobra.Command {
	var flags annotateFlags
	cmd := &cobra.Command{
		Use:   "watch [flags] <directory>...",
		Short: "Re-annotate whenever a TypeScript source changes",
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
			// ошибки в исходниках не должны останавливать наблюдение
			flags.failOnError = false

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return errors.Wrap(err, "failed to create fsnotify watcher")
			}
			defer watcher.Close()
			for _, root := range args {
				if err = watchTree(watcher, root); err != nil {
					return err
				}
			}

			rebuild := func() {
				if err := runAnnotate(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), args, cfg, flags, g, logger); err != nil {
					logger.Error("annotate failed", zap.Error(err))
				}
				flags.clearCache = false
			}
			rebuild()
			logger.Info("watching for changes", zap.Strings("roots", args))
			return watchLoop(ctx, watcher, watchDebounce, logger, rebuild)
		},
	}
	flags.register(cmd)
	return cmd
}

// watchTree adds root and every searchable directory below it. A file root
// watches its directory.
func watchTree(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, "watch %s", root)
	}
	if !info.IsDir() {
		return errors.Wrapf(w.Add(filepath.Dir(root)), "watch %s", root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && driver.IsSkippedDir(d.Name()) {
			return filepath.SkipDir
		}
		return errors.Wrapf(w.Add(path), "watch %s", path)
	})
}

// watchLoop calls rebuild once a burst of source changes has settled.
// It returns when ctx is done or the watcher is closed.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, logger *zap.Logger, rebuild func()) error {
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !driver.IsSkippedDir(info.Name()) {
					if err := watchTree(w, event.Name); err != nil {
						logger.Warn("cannot watch new directory", zap.String("path", event.Name), zap.Error(err))
					}
					continue
				}
			}
			if !driver.IsAnnotateInput(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			logger.Debug("source changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			pending = time.After(debounce)
		case <-pending:
			pending = nil
			rebuild()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}
