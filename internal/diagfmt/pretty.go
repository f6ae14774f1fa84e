package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/source"
)

type palette struct {
	sev   map[diag.Severity]*color.Color
	path  *color.Color
	caret *color.Color
	gut   *color.Color
	note  *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan, color.Bold),
		},
		path:  mk(color.Bold),
		caret: mk(color.FgGreen, color.Bold),
		gut:   mk(color.FgBlue),
		note:  mk(color.FgCyan),
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

// Detached prints a diagnostic that is not tied to a loaded file, such as
// an I/O failure, against path.
func Detached(w io.Writer, path string, d diag.Diagnostic, opts PrettyOpts) {
	p := newPalette(opts.Color)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(formatPath(path, opts.PathMode, opts.BaseDir)),
		p.sev[d.Severity].Sprint(d.Severity.String()), d.Code.ID(), d.Message)
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", p.sev[d.Severity].Sprint(d.Severity.String()), d.Code.ID(), d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprintf("%s:%d:%d", formatPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col),
		p.sev[d.Severity].Sprint(d.Severity.String()), d.Code.ID(), d.Message)

	writeSnippet(w, f, start, end, opts, p)

	if !opts.ShowNotes && d.Code != diag.ObsTimings {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		if nf == nil || n.Span.Empty() {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
			continue
		}
		pos := nf.Position(n.Span.Start)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
			formatPath(nf.Path, opts.PathMode, opts.BaseDir), pos.Line, pos.Col, n.Msg)
	}
}

func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, p palette) {
	if start.Line == 0 {
		return
	}
	first := start.Line
	if opts.Context > 0 && uint32(opts.Context) < first {
		first -= uint32(opts.Context)
	} else if opts.Context > 0 {
		first = 1
	}
	gutter := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		line := clip(f.GetLine(ln), opts.Width)
		fmt.Fprintf(w, "%s %s\n", p.gut.Sprintf("%*d |", gutter, ln), line)
	}

	line := f.GetLine(start.Line)
	col := int(start.Col) - 1
	col = max(0, min(col, len(line)))
	stop := len(line)
	if end.Line == start.Line {
		stop = max(col, min(int(end.Col)-1, len(line)))
	}
	width := max(1, runewidth.StringWidth(line[col:stop]))
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gut.Sprintf("%*s |", gutter, ""), indentFor(line[:col]), p.caret.Sprint(marker))
}

// indentFor keeps tabs so the caret lines up with the printed source.
func indentFor(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	if width <= 3 {
		return runewidth.Truncate(line, int(width), "")
	}
	return runewidth.Truncate(line, int(width), "...")
}
