package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Feiyang1/tsickle/internal/prof"
	"github.com/Feiyang1/tsickle/internal/version"
)

// errDiagnostics signals that error diagnostics were already printed.
var errDiagnostics = errors.New("errors reported")

// profiling owns the profilers started for one invocation.
type profiling struct {
	session *prof.Session
}

func (p *profiling) start(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return errors.Wrap(err, "failed to get cpu-profile flag")
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return errors.Wrap(err, "failed to get mem-profile flag")
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return errors.Wrap(err, "failed to get runtime-trace flag")
	}
	p.session, err = prof.Start(opts)
	return err
}

// stop is called after Execute so profiles are flushed on failed runs too.
func (p *profiling) stop() {
	if err := p.session.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to write profile:", err)
	}
}

func newRootCmd() (*cobra.Command, *profiling) {
	profiler := &profiling{}
	rootCmd := &cobra.Command{
		Use:               "tsickle",
		Short:             "Annotate TypeScript with Closure Compiler JSDoc",
		Long:              `tsickle rewrites TypeScript sources with Closure JSDoc types, emits externs for ambient declarations and converts compiled CommonJS into goog.module form`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: profiler.start,
	}

	rootCmd.AddCommand(newAnnotateCmd())
	rootCmd.AddCommand(newModuleCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers (0=auto)")
	rootCmd.PersistentFlags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to file")
	return rootCmd, profiler
}

func main() {
	rootCmd, profiler := newRootCmd()
	err := rootCmd.Execute()
	profiler.stop()
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "error:", err)
			for _, hint := range errors.GetAllHints(err) {
				fmt.Fprintln(os.Stderr, "hint:", hint)
			}
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
