package checker_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/Feiyang1/tsickle/internal/checker"
	"github.com/Feiyang1/tsickle/internal/source"
	"github.com/Feiyang1/tsickle/internal/syntax"
	"github.com/Feiyang1/tsickle/internal/typerender"
)

func program(t *testing.T, files map[string]string, order ...string) (*checker.Checker, map[string]*syntax.File) {
	t.Helper()
	fs := source.NewFileSet()
	parsed := make(map[string]*syntax.File, len(order))
	var list []*syntax.File
	for _, name := range order {
		f, err := syntax.Parse(context.Background(), fs.Get(fs.AddVirtual(name, []byte(files[name]))))
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		parsed[name] = f
		list = append(list, f)
	}
	return checker.New(checker.NewProgram(list)), parsed
}

// find returns the first node of kind whose name field reads name.
func find(f *syntax.File, kind syntax.Kind, name string) *syntax.Node {
	var hit *syntax.Node
	f.Root.Walk(func(n *syntax.Node) bool {
		if hit != nil {
			return false
		}
		if n.Kind == kind && f.Text(n.ChildByField("name")) == name {
			hit = n
			return false
		}
		return true
	})
	return hit
}

func TestTypeOfDeclarations(t *testing.T) {
	src := `
interface Point { x: number; y?: string; }
class Box<T> { value: T; }
enum Color { Red, Green }
type Pair = [string, number];
let a: string[] = [];
let b = 42;
let c = "s" + 1;
let d: Point | null = null;
let e = new Box<number>();
let f: Color = Color.Red;
let g = (x: number, ...rest: string[]): boolean => x > 0;
let h: Pair;
let i = {k: 1, m: "two"};
let j: {[key: string]: number};
let k = d!;
let l = e.value;
let m = a.length;
async function load(): Promise<Point> { return null as any; }
let n = load();
let o: Array<Box<string>>;
let p = i.m;
function q(this: Point, flag?: boolean) { if (flag) { return 1; } return "x"; }
`
	c, files := program(t, map[string]string{"a.ts": src}, "a.ts")
	f := files["a.ts"]
	r := typerender.New(c.Types(), false, nil)

	tests := []struct {
		name string
		want string
	}{
		{"a", "!Array<string>"},
		{"b", "number"},
		{"c", "string"},
		{"d", "(Point|null)"},
		{"e", "Box<number>"},
		{"f", "number"},
		{"g", "function(number, ...string): boolean"},
		{"h", "!Array<?>"},
		{"i", "{k: number, m: string}"},
		{"j", "!Object<string,number>"},
		{"k", "Point"},
		{"l", "?"},
		{"m", "number"},
		{"n", "Promise<Point>"},
		{"o", "!Array<Box<string>>"},
		{"p", "string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := find(f, syntax.KindVariableDeclarator, tt.name)
			if decl == nil {
				t.Fatalf("no declarator %s", tt.name)
			}
			if got := r.Render(c.TypeOf(f, decl), decl, false); got != tt.want {
				t.Errorf("TypeOf(%s) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	fn := find(f, syntax.KindFunctionDeclaration, "q")
	if got := r.Render(c.TypeOf(f, fn), fn, false); got != "function(this:Point, boolean=): (number|string)" {
		t.Errorf("TypeOf(q) = %q", got)
	}
}

func TestOptionalPropertyIncludesUndefined(t *testing.T) {
	c, files := program(t, map[string]string{"a.ts": "interface P { y?: string; z: number }"}, "a.ts")
	f := files["a.ts"]
	r := typerender.New(c.Types(), false, nil)
	y := find(f, syntax.KindPropertySignature, "y")
	if got := r.Render(c.TypeOf(f, y), y, false); got != "(string|undefined)" {
		t.Errorf("y = %q", got)
	}
}

func TestSignature(t *testing.T) {
	src := `function f(a: string, {x, y}: {x: number, y: number}, b = 3, c?: boolean, ...rest: number[]): void {}`
	c, files := program(t, map[string]string{"a.ts": src}, "a.ts")
	f := files["a.ts"]
	sig := c.Signature(f, find(f, syntax.KindFunctionDeclaration, "f"))

	type shape struct {
		Name          string
		Optional      bool
		Rest          bool
		Destructuring bool
	}
	var got []shape
	for _, p := range sig.Params {
		got = append(got, shape{p.Name, p.Optional, p.Rest, p.Destructuring})
	}
	want := []shape{
		{"a", false, false, false},
		{"__1", false, false, true},
		{"b", true, false, false},
		{"c", true, false, false},
		{"rest", false, true, false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("params = %+v, want %+v", got, want)
	}
	if sig.Constructor {
		t.Error("plain function reported as constructor")
	}
}

func TestConstructorSignature(t *testing.T) {
	c, files := program(t, map[string]string{"a.ts": "class A { constructor(private x: number) {} }"}, "a.ts")
	f := files["a.ts"]
	var ctor *syntax.Node
	f.Root.Walk(func(n *syntax.Node) bool {
		if checker.IsConstructor(f, n) {
			ctor = n
		}
		return true
	})
	if ctor == nil {
		t.Fatal("constructor not found")
	}
	sig := c.Signature(f, ctor)
	if !sig.Constructor || len(sig.Params) != 1 || sig.Params[0].Name != "x" {
		t.Errorf("signature = %+v", sig)
	}
}

func TestEnumMembers(t *testing.T) {
	src := `enum E { A, B = 5, C, D = 1 << 3, E = D | 1, F = "x".length, G, H = E.B * 2, I = -1, J = 0x10 }`
	c, files := program(t, map[string]string{"a.ts": src}, "a.ts")
	f := files["a.ts"]
	members := c.EnumMembers(f, find(f, syntax.KindEnumDeclaration, "E"))

	type want struct {
		name     string
		value    float64
		constant bool
	}
	wants := []want{
		{"A", 0, true}, {"B", 5, true}, {"C", 6, true}, {"D", 8, true}, {"E", 9, true},
		{"F", 0, false}, {"G", 11, true}, {"H", 10, true}, {"I", -1, true}, {"J", 16, true},
	}
	if len(members) != len(wants) {
		t.Fatalf("got %d members, want %d", len(members), len(wants))
	}
	for i, w := range wants {
		m := members[i]
		if m.Name != w.name || m.Constant != w.constant || (w.constant && m.Value != w.value) {
			t.Errorf("member %d = {%s %v %v}, want %+v", i, m.Name, m.Value, m.Constant, w)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{0: "0", 5: "5", -1: "-1", 0.5: "0.5", 1e21: "1e+21"}
	for in, want := range tests {
		if got := checker.FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestModuleExports(t *testing.T) {
	files := map[string]string{
		"main.ts": `export * from "./m";`,
		"m.ts": `export const x = 1;
export function y() {}
export interface I {}
export default class D {}
export {z as w} from "./n";
export * from "./n";
export * as ns from "./n";`,
		"n.ts": `export let z = 1, q = 2;
export default 3;`,
	}
	c, parsed := program(t, files, "main.ts", "m.ts", "n.ts")
	got, ok := c.ModuleExports(parsed["main.ts"], "./m")
	if !ok {
		t.Fatal("./m did not resolve")
	}
	want := []string{"x", "y", "I", "default", "w", "z", "q", "ns"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("exports = %v, want %v", got, want)
	}
	if _, ok := c.ModuleExports(parsed["main.ts"], "lodash"); ok {
		t.Error("bare specifier resolved")
	}
}

func TestModuleExportsCycle(t *testing.T) {
	files := map[string]string{
		"a.ts": `export * from "./b"; export const a = 1;`,
		"b.ts": `export * from "./a"; export const b = 1;`,
	}
	c, parsed := program(t, files, "a.ts", "b.ts")
	got, _ := c.ModuleExports(parsed["a.ts"], "./b")
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("exports = %v, want %v", got, want)
	}
}

func TestLocalExportNames(t *testing.T) {
	src := `import D from "./d";
import * as NS from "./ns";
import {named} from "./n";
export const x = 1;
export {named as alias};
class Hidden {}`
	_, files := program(t, map[string]string{"a.ts": src}, "a.ts")
	got := checker.LocalExportNames(files["a.ts"])
	want := map[string]bool{"D": true, "NS": true, "x": true, "alias": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LocalExportNames = %v, want %v", got, want)
	}
}

func TestImportedTypeResolves(t *testing.T) {
	files := map[string]string{
		"a.ts":      `import {Shape} from "./shapes"; let s: Shape; let k: Shape["kind"];`,
		"shapes.ts": `export enum Shape { Circle }`,
	}
	c, parsed := program(t, files, "a.ts", "shapes.ts")
	f := parsed["a.ts"]
	r := typerender.New(c.Types(), false, nil)
	s := find(f, syntax.KindVariableDeclarator, "s")
	if got := r.Render(c.TypeOf(f, s), s, false); got != "number" {
		t.Errorf("s = %q", got)
	}
	k := find(f, syntax.KindVariableDeclarator, "k")
	if got := r.Render(c.TypeOf(f, k), k, false); got != "?" {
		t.Errorf("k = %q", got)
	}
}

func TestRecursiveAliasDegrades(t *testing.T) {
	src := `type A = B; type B = A; let v: A;`
	c, files := program(t, map[string]string{"a.ts": src}, "a.ts")
	f := files["a.ts"]
	var warned bool
	r := typerender.New(c.Types(), false, func(*syntax.Node, string) { warned = true })
	v := find(f, syntax.KindVariableDeclarator, "v")
	if got := r.Render(c.TypeOf(f, v), v, false); got != "?" {
		t.Errorf("v = %q", got)
	}
	if !warned {
		t.Error("expected a warning")
	}
}
