package driver

import (
	"encoding/json"
	"fmt"

	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/observ"
	"github.com/Feiyang1/tsickle/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Files   int                  `json:"files"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic packs a timer report into an info diagnostic whose note
// carries the JSON form, for machine-readable output.
func TimingDiagnostic(kind string, files int, report observ.Report) diag.Diagnostic {
	if kind == "" {
		kind = "pipeline"
	}
	payload := timingPayload{Kind: kind, Files: files, TotalMS: report.TotalMS, Phases: report.Phases}
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.NoSpan,
		fmt.Sprintf("timings (%s): total %.2f ms, %d files", kind, report.TotalMS, files))
	if data, err := json.Marshal(payload); err == nil {
		d = d.WithNote(source.NoSpan, string(data))
	}
	return d
}
