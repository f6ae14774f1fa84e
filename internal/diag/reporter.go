package diag

import "github.com/Feiyang1/tsickle/internal/source"

// Reporter: минимальный контракт получения диагностик от проходов.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// SliceReporter appends into a caller-owned slice; used by single-threaded passes.
type SliceReporter struct{ Items *[]Diagnostic }

func (r SliceReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Items == nil {
		return
	}
	*r.Items = append(*r.Items, Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}
