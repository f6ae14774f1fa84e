package rewrite

import (
	"testing"

	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/source"
)

func newWriter(t *testing.T, text string) *Writer {
	t.Helper()
	fs := source.NewFileSet()
	return NewWriter(fs.Get(fs.AddVirtual("a.ts", []byte(text))))
}

func TestCopyAndEmit(t *testing.T) {
	w := newWriter(t, "let x = 1;")
	w.CopyRange(0, 4)
	w.WriteString("/** @type {number} */ ")
	w.CopyRange(4, 100)
	if got, want := w.String(), "let /** @type {number} */ x = 1;"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}

	maps := w.Mappings()
	if len(maps) != 2 {
		t.Fatalf("mappings = %+v", maps)
	}
	if maps[1].OutStart != 26 || maps[1].Source.Start != 4 || maps[1].Source.End != 10 {
		t.Errorf("second mapping = %+v", maps[1])
	}
	if off, ok := w.SourceOffset(26); !ok || off != 4 {
		t.Errorf("SourceOffset(26) = %d, %v", off, ok)
	}
	if _, ok := w.SourceOffset(10); ok {
		t.Error("synthesized text mapped to source")
	}
}

func TestPushRestoresSink(t *testing.T) {
	w := newWriter(t, "abc")
	w.WriteString("main ")
	pop := w.Push()
	w.WriteString("side")
	func() {
		inner := w.Push()
		defer inner()
		w.WriteString("nested")
	}()
	if got := pop(); got != "side" {
		t.Errorf("side sink = %q", got)
	}
	if got := pop(); got != "side" {
		t.Errorf("second pop = %q", got)
	}
	w.CopyRange(0, 3)
	if got := w.String(); got != "main abc" {
		t.Errorf("main sink = %q", got)
	}
}

func TestPopUnwindsForgottenNestedSinks(t *testing.T) {
	w := newWriter(t, "")
	pop := w.Push()
	w.Push()
	w.WriteString("lost")
	pop()
	w.WriteString("main")
	if got := w.String(); got != "main" {
		t.Errorf("main sink = %q", got)
	}
}

func TestRollback(t *testing.T) {
	w := newWriter(t, "0123456789")
	w.CopyRange(0, 2)
	m := w.Mark()
	w.CopyRange(2, 5)
	w.WriteString("junk")
	w.Report(diag.AnnNodeFault, diag.SevError, source.Span{}, "boom", nil)
	w.Rollback(m)
	if got := w.String(); got != "01" {
		t.Errorf("output after rollback = %q", got)
	}
	if n := len(w.Mappings()); n != 1 {
		t.Errorf("mappings after rollback = %d", n)
	}
	if n := len(w.Diagnostics()); n != 0 {
		t.Errorf("diagnostics after rollback = %d", n)
	}
}

func TestRollbackIgnoresForeignSink(t *testing.T) {
	w := newWriter(t, "")
	w.WriteString("keep")
	pop := w.Push()
	m := w.Mark()
	pop()
	w.Rollback(m)
	if got := w.String(); got != "keep" {
		t.Errorf("output = %q", got)
	}
}
