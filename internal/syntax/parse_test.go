package syntax

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Feiyang1/tsickle/internal/source"
)

func parseString(t *testing.T, path, text string) *File {
	t.Helper()
	fs := source.NewFileSet()
	f, err := Parse(context.Background(), fs.Get(fs.AddVirtual(path, []byte(text))))
	if err != nil {
		t.Fatalf("Parse(%s): %v", path, err)
	}
	return f
}

func TestParseInterface(t *testing.T) {
	f := parseString(t, "a.ts", "/** doc */\nexport interface Foo { x: number; }\n")
	if f.Root.Kind != KindProgram {
		t.Fatalf("root kind: want program got %s", f.Root.Kind)
	}
	stmts := f.Root.NamedChildren()
	if len(stmts) != 1 || stmts[0].Kind != KindExportStatement {
		t.Fatalf("want a single export statement, got %d", len(stmts))
	}
	decl := stmts[0].ChildByField("declaration")
	if !decl.Is(KindInterfaceDeclaration) {
		t.Fatalf("declaration kind: got %v", decl)
	}
	if got := f.NameOf(decl); got != "Foo" {
		t.Fatalf("NameOf: want Foo got %q", got)
	}
	if prev := stmts[0].PrevSibling(); !prev.Is(KindComment) || f.Text(prev) != "/** doc */" {
		t.Fatalf("comment sibling missing: %v", prev)
	}
	if len(f.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", f.Diagnostics)
	}
}

func TestSpansNestAndOrder(t *testing.T) {
	f := parseString(t, "a.ts", "class A { constructor(public x: number) {} m(a?: string): void {} }\nenum E { A, B = 5 }\n")
	f.Root.Walk(func(n *Node) bool {
		prev := n.Start()
		for _, c := range n.Children {
			if c.Start() < prev || c.End() > n.End() {
				t.Errorf("child %s [%d,%d) escapes parent %s [%d,%d)", c.Symbol, c.Start(), c.End(), n.Symbol, n.Start(), n.End())
			}
			if c.Parent != n {
				t.Errorf("child %s has wrong parent", c.Symbol)
			}
			prev = c.End()
		}
		return true
	})
}

func TestParseErrorsBecomeDiagnostics(t *testing.T) {
	f := parseString(t, "bad.ts", "class {\n")
	if len(f.Diagnostics) == 0 {
		t.Fatal("expected syntax diagnostics for broken input")
	}
}

func TestParseCancelledKeepsCause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := source.NewFileSet()
	text := strings.Repeat("let x = [1, 2, 3].map(v => v * 2);\n", 200000)
	_, err := Parse(ctx, fs.Get(fs.AddVirtual("big.ts", []byte(text))))
	if err == nil {
		t.Skip("parse finished before cancellation was observed")
	}
	if !errors.Is(err, sitter.ErrOperationLimit) {
		t.Fatalf("err = %v, want wrapped ErrOperationLimit", err)
	}
	if !strings.HasPrefix(err.Error(), "parse big.ts: ") {
		t.Fatalf("err = %q, want path prefix", err)
	}
}

func TestDialectFor(t *testing.T) {
	tests := map[string]Dialect{
		"a.ts":    DialectTS,
		"a.d.ts":  DialectTS,
		"a.tsx":   DialectTSX,
		"out.js":  DialectJS,
		"out.mjs": DialectJS,
	}
	for path, want := range tests {
		if got := DialectFor(path); got != want {
			t.Errorf("DialectFor(%q) = %s, want %s", path, got, want)
		}
	}
	if f := parseString(t, "lib.d.ts", "declare var x: number;\n"); !f.Declaration {
		t.Error("lib.d.ts should be marked as a declaration file")
	}
}

func TestKindOf(t *testing.T) {
	if KindOf("this", true) != KindThis {
		t.Error("named this should map to KindThis")
	}
	if KindOf("class", false) != KindToken {
		t.Error("anonymous class keyword should be a token")
	}
	if KindOf("comment", true) != KindComment {
		t.Error("comment should map to KindComment")
	}
	if KindOf("some_future_node", true) != KindOther {
		t.Error("unknown named symbol should map to KindOther")
	}
	if KindInterfaceDeclaration.String() != "interface_declaration" {
		t.Errorf("String: got %q", KindInterfaceDeclaration.String())
	}
}
