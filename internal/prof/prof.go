// Package prof wraps the runtime profilers behind one session so the CLI
// can start them before a run and flush them after it.
package prof

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/cockroachdb/errors"
)

// Options name the output files; an empty path disables that profiler.
type Options struct {
	CPU   string
	Mem   string
	Trace string
}

// Session is a set of running profilers.
type Session struct {
	opts      Options
	cpuFile   *os.File
	traceFile *os.File
	stopped   bool
}

// Start enables the profilers requested by opts. On error nothing is left
// running.
func Start(opts Options) (*Session, error) {
	s := &Session{opts: opts}
	if opts.CPU != "" {
		f, err := os.Create(opts.CPU)
		if err != nil {
			return nil, errors.Wrap(err, "cpu profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "cpu profile")
		}
		s.cpuFile = f
	}
	if opts.Trace != "" {
		f, err := os.Create(opts.Trace)
		if err == nil {
			err = trace.Start(f)
			if err != nil {
				_ = f.Close()
			}
		}
		if err != nil {
			s.stopCPU()
			return nil, errors.Wrap(err, "runtime trace")
		}
		s.traceFile = f
	}
	return s, nil
}

// Active reports whether any profiler was requested.
func (s *Session) Active() bool {
	return s.opts != Options{}
}

// Stop flushes every profiler. Safe to call more than once.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true
	if s.traceFile != nil {
		trace.Stop()
		_ = s.traceFile.Close()
		s.traceFile = nil
	}
	s.stopCPU()
	if s.opts.Mem != "" {
		return writeMem(s.opts.Mem)
	}
	return nil
}

func (s *Session) stopCPU() {
	if s.cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	_ = s.cpuFile.Close()
	s.cpuFile = nil
}

func writeMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "heap profile")
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = errors.Wrap(closeErr, "heap profile")
		}
	}()
	runtime.GC()
	return errors.Wrap(pprof.WriteHeapProfile(f), "heap profile")
}
