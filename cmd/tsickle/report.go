package main

import (
	"fmt"
	"io"

	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/diagfmt"
	"github.com/Feiyang1/tsickle/internal/driver"
	"github.com/Feiyang1/tsickle/internal/observ"
	"github.com/Feiyang1/tsickle/internal/source"
)

// fileDiagnostics is the per-file view shared by annotate and module runs.
type fileDiagnostics struct {
	path   string
	loaded bool
	bag    *diag.Bag
}

// reportDiagnostics prints every file's diagnostics and the timings. Quiet
// mode keeps only errors.
func reportDiagnostics(w io.Writer, fs *source.FileSet, files []fileDiagnostics, timer *observ.Timer, g globalOptions) error {
	merged := diag.NewBag(0)
	prettyOpts := diagfmt.PrettyOpts{Color: g.color, Context: 0, PathMode: diagfmt.PathModeRelative}
	for _, f := range files {
		for _, d := range f.bag.Items() {
			if g.quiet && d.Severity < diag.SevError {
				continue
			}
			if !f.loaded && g.format != "json" {
				diagfmt.Detached(w, f.path, d, prettyOpts)
				continue
			}
			merged.Add(d)
		}
	}
	merged.Sort()
	merged.Dedup()

	if g.format == "json" {
		if g.timings && timer != nil {
			merged.Add(driver.TimingDiagnostic("", len(files), timer.Report()))
		}
		return diagfmt.JSON(w, merged, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
		})
	}

	if g.format == "short" {
		if short := diag.FormatShort(merged.Items(), fs, false); short != "" {
			fmt.Fprintln(w, short)
		}
	} else {
		diagfmt.Pretty(w, merged, fs, prettyOpts)
	}
	if g.timings && timer != nil {
		fmt.Fprint(w, timer.Summary())
	}
	return nil
}
