package rewrite

import (
	"fortio.org/safecast"

	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/source"
)

// Mapping ties a range of the main output to the source bytes it was copied from.
type Mapping struct {
	OutStart uint32
	OutEnd   uint32
	Source   source.Span
}

type sink struct {
	buf      []byte
	mappings []Mapping
}

// Mark is a rollback point in the current sink.
type Mark struct {
	depth    int
	size     int
	mappings int
	diags    int
}

// Writer accumulates output for one source file.
type Writer struct {
	sf    *source.File
	sinks []*sink
	diags []diag.Diagnostic
}

// NewWriter creates a writer whose main sink starts empty.
func NewWriter(sf *source.File) *Writer {
	return &Writer{
		sf:    sf,
		sinks: []*sink{{buf: make([]byte, 0, len(sf.Content))}},
	}
}

// File returns the source being rewritten.
func (w *Writer) File() *source.File { return w.sf }

func (w *Writer) top() *sink { return w.sinks[len(w.sinks)-1] }

// String returns the contents of the current sink.
func (w *Writer) String() string { return string(w.top().buf) }

// Len is the size of the current sink.
func (w *Writer) Len() int { return len(w.top().buf) }

// WriteString emits synthesized text.
func (w *Writer) WriteString(s string) {
	s0 := w.top()
	s0.buf = append(s0.buf, s...)
}

// CopyRange copies source bytes [start, end) verbatim.
func (w *Writer) CopyRange(start, end uint32) {
	if end > w.sf.Len() {
		end = w.sf.Len()
	}
	if start >= end {
		return
	}
	s0 := w.top()
	outStart := outOffset(len(s0.buf))
	s0.buf = append(s0.buf, w.sf.Content[start:end]...)
	s0.mappings = append(s0.mappings, Mapping{
		OutStart: outStart,
		OutEnd:   outOffset(len(s0.buf)),
		Source:   source.Span{File: w.sf.ID, Start: start, End: end},
	})
}

// CopySpan copies the bytes of sp.
func (w *Writer) CopySpan(sp source.Span) {
	if sp.File != w.sf.ID {
		return
	}
	w.CopyRange(sp.Start, sp.End)
}

func outOffset(n int) uint32 {
	off, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(err)
	}
	return off
}

// Push starts a fresh sink and returns the function that pops it and hands
// back what was written. Callers defer the pop so the previous sink is
// restored on every path.
func (w *Writer) Push() (pop func() string) {
	w.sinks = append(w.sinks, &sink{})
	depth := len(w.sinks)
	popped := false
	var out string
	return func() string {
		if popped {
			return out
		}
		popped = true
		if len(w.sinks) < depth {
			return out
		}
		// вложенные синки, не снятые вовремя, снимаются вместе с этим
		s := w.sinks[depth-1]
		w.sinks = w.sinks[:depth-1]
		out = string(s.buf)
		return out
	}
}

// Mark records the current sink position.
func (w *Writer) Mark() Mark {
	s0 := w.top()
	return Mark{depth: len(w.sinks), size: len(s0.buf), mappings: len(s0.mappings), diags: len(w.diags)}
}

// Rollback discards output and diagnostics produced after m. Marks taken in
// a sink that has since been popped are ignored.
func (w *Writer) Rollback(m Mark) {
	if m.depth != len(w.sinks) {
		return
	}
	s0 := w.top()
	if m.size <= len(s0.buf) {
		s0.buf = s0.buf[:m.size]
	}
	if m.mappings <= len(s0.mappings) {
		s0.mappings = s0.mappings[:m.mappings]
	}
	if m.diags <= len(w.diags) {
		w.diags = w.diags[:m.diags]
	}
}

// Mappings returns the copy mappings of the main sink, in output order.
func (w *Writer) Mappings() []Mapping {
	return append([]Mapping(nil), w.sinks[0].mappings...)
}

// Report implements diag.Reporter.
func (w *Writer) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	d := diag.New(sev, code, primary, msg)
	d.Notes = append(d.Notes, notes...)
	w.diags = append(w.diags, d)
}

// Diagnostics returns what was reported so far.
func (w *Writer) Diagnostics() []diag.Diagnostic {
	return append([]diag.Diagnostic(nil), w.diags...)
}

// SourceOffset maps an offset of the main output back to the source, when
// it falls inside copied text.
func (w *Writer) SourceOffset(out uint32) (uint32, bool) {
	maps := w.sinks[0].mappings
	lo, hi := 0, len(maps)
	for lo < hi {
		mid := (lo + hi) / 2
		switch m := maps[mid]; {
		case out < m.OutStart:
			hi = mid
		case out >= m.OutEnd:
			lo = mid + 1
		default:
			return m.Source.Start + (out - m.OutStart), true
		}
	}
	return 0, false
}
