package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("a.ts", []byte("let a = 1;"), 0)
	id2 := fs.Add("a.ts", []byte("let a = 2;"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	f, ok := fs.GetByPath("a.ts")
	if !ok || f.ID != id2 {
		t.Fatalf("GetByPath should return latest version, got %+v", f)
	}
	if got := string(fs.Get(id1).Content); got != "let a = 1;" {
		t.Fatalf("old version lost: %q", got)
	}
	if files := fs.Files(); len(files) != 1 || files[0].ID != id2 {
		t.Fatalf("Files() should list only latest versions, got %d", len(files))
	}
}

func TestAddNormalized(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		flags FileFlags
	}{
		{"plain", "a\nb", "a\nb", 0},
		{"crlf", "a\r\nb\r\n", "a\nb\n", FileNormalizedCRLF},
		{"lone cr kept", "a\rb", "a\rb", 0},
		{"bom", "\xEF\xBB\xBFx", "x", FileHadBOM},
		{"bom and crlf", "\xEF\xBB\xBFx\r\n", "x\n", FileHadBOM | FileNormalizedCRLF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFileSet()
			f := fs.Get(fs.AddNormalized("x.ts", []byte(tt.in)))
			if string(f.Content) != tt.want {
				t.Fatalf("content: want %q got %q", tt.want, f.Content)
			}
			if f.Flags != tt.flags {
				t.Fatalf("flags: want %b got %b", tt.flags, f.Flags)
			}
		})
	}
}

func TestPositionAndLines(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x.ts", []byte("ab\ncd\n\nef")))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, c := range cases {
		if got := f.Position(c.off); got != c.want {
			t.Errorf("Position(%d): want %+v got %+v", c.off, c.want, got)
		}
	}

	lines := []string{"", "ab", "cd", "", "ef", ""}
	for i, want := range lines {
		if got := f.GetLine(uint32(i)); got != want {
			t.Errorf("GetLine(%d): want %q got %q", i, want, got)
		}
	}
	if got := f.Text(Span{Start: 3, End: 5}); got != "cd" {
		t.Errorf("Text: want %q got %q", "cd", got)
	}
	if got := f.Text(Span{Start: 8, End: 100}); got != "f" {
		t.Errorf("Text past end: want %q got %q", "f", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.ts")
	if err := os.WriteFile(path, []byte("x\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := string(fs.Get(id).Content); got != "x\n" {
		t.Fatalf("want normalized content, got %q", got)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.ts")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
