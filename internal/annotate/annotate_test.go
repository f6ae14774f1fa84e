package annotate_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Feiyang1/tsickle/internal/annotate"
	"github.com/Feiyang1/tsickle/internal/checker"
	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/source"
	"github.com/Feiyang1/tsickle/internal/syntax"
)

// run annotates the first file of order in a program made of all of them.
func run(t *testing.T, opts annotate.Options, files map[string]string, order ...string) *annotate.Result {
	t.Helper()
	fs := source.NewFileSet()
	var list []*syntax.File
	for _, name := range order {
		f, err := syntax.Parse(context.Background(), fs.Get(fs.AddVirtual(name, []byte(files[name]))))
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		list = append(list, f)
	}
	chk := checker.New(checker.NewProgram(list))
	return annotate.Annotate(chk, list[0], opts)
}

func runOne(t *testing.T, src string) *annotate.Result {
	t.Helper()
	return run(t, annotate.Options{}, map[string]string{"a.ts": src}, "a.ts")
}

func hasCode(ds []diag.Diagnostic, code diag.Code) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestAnnotateOutput(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "pass-through",
			src:  "foo(1);\nif (x) { y(); }\n",
			want: "foo(1);\nif (x) { y(); }\n",
		},
		{
			name: "variables",
			src:  "let x = 1;\nconst s: string = 'a';\nlet {a, b} = obj;\n",
			want: "let /** @type {number} */ x = 1;\nconst /** @type {string} */ s: string = 'a';\nlet {a, b} = obj;\n",
		},
		{
			name: "function with merged doc",
			src: "/**\n * Adds.\n * @param a first\n * @return sum\n */\n" +
				"function add(a: number, b?: number, ...rest: number[]): number {\n  return a;\n}\n",
			want: "\n/**\n * Adds.\n * @param {number} a first\n * @param {number=} b\n * @param {...number} rest\n * @return {number} sum\n */\n" +
				"function add(a: number, b?: number, ...rest: number[]): number {\n  return a;\n}\n",
		},
		{
			name: "exported function",
			src:  "export function g(x: string) { return x; }\n",
			want: "\n/**\n * @param {string} x\n * @return {string}\n */\nexport function g(x: string) { return x; }\n",
		},
		{
			name: "type alias",
			src:  "type Id = string | number;\n",
			want: "\n/** @typedef {(string|number)} */\nvar Id: void;\ntype Id = string | number;\n",
		},
		{
			name: "exported type alias",
			src:  "export type Id = string;\n",
			want: "\n/** @typedef {string} */\nexport var Id: void;\nexport type Id = string;\n",
		},
		{
			name: "exported single-line interface",
			src:  "export interface P { x: number; }\n",
			want: "\n/** @record */\nexport function P() {}\n" +
				"/** @type {number} */\nP.prototype.x;\n" +
				"export interface P { x: number; }\n",
		},
		{
			name: "export default anonymous function",
			src:  "export default function (a: number) { return a; }\n",
			want: "\n/**\n * @param {number} a\n * @return {number}\n */\nexport default function (a: number) { return a; }\n",
		},
		{
			name: "type assertions",
			src:  "let v = <any>x;\nlet w = y as string;\nlet c = [1] as const;\n",
			want: "let /** @type {?} */ v = /** @type {?} */ ((<any>x));\n" +
				"let /** @type {string} */ w = /** @type {string} */ ((y as string));\n" +
				"let /** @type {!Array<number>} */ c = [1] as const;\n",
		},
		{
			name: "enum",
			src:  "enum Color { Red, Green = 5, Blue }\n",
			want: "\ntype Color = number;\nlet Color: any = {};\n" +
				"/** @type {number} */\nColor.Red = 0;\n" +
				"/** @type {number} */\nColor.Green = 5;\n" +
				"/** @type {number} */\nColor.Blue = 6;\n" +
				"Color[Color.Red] = \"Red\";\nColor[Color.Green] = \"Green\";\nColor[Color.Blue] = \"Blue\";\n\n",
		},
		{
			name: "const enum",
			src:  "const enum K { A }\n",
			want: "const enum K { A }\n",
		},
		{
			name: "interface",
			src:  "export interface Point {\n  x: number;\n  y?: string;\n  [k: string]: any;\n}\n",
			want: "\n/** @record */\nexport function Point() {}\n" +
				"/** @type {number} */\nPoint.prototype.x;\n" +
				"/** @type {(string|undefined)} */\nPoint.prototype.y;\n" +
				"/* TODO: handle strange member:\n[k: string]: any\n*/\n" +
				"export interface Point {\n  x: number;\n  y?: string;\n  [k: string]: any;\n}\n",
		},
		{
			name: "class without fields has no helper",
			src:  "class E {\n  m() {}\n}\n",
			want: "class E {\n  \n/**\n * @return {void}\n */\nm() {}\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runOne(t, tt.src)
			if res.Output != tt.want {
				t.Fatalf("output:\n%s\nwant:\n%s", res.Output, tt.want)
			}
			if res.HasExterns || res.Externs != "" {
				t.Fatalf("unexpected externs %q", res.Externs)
			}
		})
	}
}

func TestClassHelper(t *testing.T) {
	src := "class Foo {\n" +
		"  static count: number;\n" +
		"  /** @export */ private name: string;\n" +
		"  constructor(/** @export */ public x: number, y: string) {\n" +
		"    this.name = y;\n" +
		"  }\n" +
		"  greet(): string { return this.name; }\n" +
		"}\n"
	want := "class Foo {\n" +
		"  static count: number;\n" +
		"  private name: string;\n" +
		"  \n/**\n * @param {number} x\n * @param {string} y\n */\n" +
		"constructor(public x: number, y: string) {\n" +
		"    this.name = y;\n" +
		"  }\n" +
		"  \n/**\n * @return {string}\n */\n" +
		"greet(): string { return this.name; }" +
		"\n\n  static _tsickle_typeAnnotationsHelper() {\n" +
		"    /** @type {number} */\n    Foo.count;\n" +
		"    /** @export\n@type {string} */\n    Foo.prototype.name;\n" +
		"    /** @export\n@type {number} */\n    Foo.prototype.x;\n" +
		"  }\n" +
		"\n}\n"
	res := runOne(t, src)
	if res.Output != want {
		t.Fatalf("output:\n%s\nwant:\n%s", res.Output, want)
	}
}

func TestExportDefaultClass(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		want     string
		wantDiag bool
	}{
		{
			name: "named",
			src:  "export default class K {\n  x: number;\n}\n",
			want: "export default class K {\n  x: number;" +
				"\n\n  static _tsickle_typeAnnotationsHelper() {\n" +
				"    /** @type {number} */\n    K.prototype.x;\n" +
				"  }\n\n}\n",
		},
		{
			name: "anonymous without fields",
			src:  "export default class {\n}\n",
			want: "export default class {\n}\n",
		},
		{
			name: "anonymous with fields",
			src:  "export default class {\n  x: number;\n}\n",
			want: "export default class {\n  x: number;" +
				"\n\n  static _tsickle_typeAnnotationsHelper() {\n" +
				"    /* TODO: declare property types of anonymous class */\n" +
				"  }\n\n}\n",
			wantDiag: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runOne(t, tt.src)
			if res.Output != tt.want {
				t.Fatalf("output:\n%s\nwant:\n%s", res.Output, tt.want)
			}
			if got := hasCode(res.Diagnostics, diag.AnnUnsupportedType); got != tt.wantDiag {
				t.Fatalf("AnnUnsupportedType reported = %v, want %v", got, tt.wantDiag)
			}
		})
	}
}

func TestUntypedRendersUnknown(t *testing.T) {
	src := "let x: string = 'a';\nfunction f(a: number): string { return ''; }\ninterface I { a: number }\n"
	want := "let /** @type {?} */ x: string = 'a';\n" +
		"\n/**\n * @param {?} a\n * @return {?}\n */\nfunction f(a: number): string { return ''; }\n" +
		"interface I { a: number }\n"
	res := run(t, annotate.Options{Untyped: true}, map[string]string{"a.ts": src}, "a.ts")
	if res.Output != want {
		t.Fatalf("output:\n%s\nwant:\n%s", res.Output, want)
	}
}

func TestEnumNonConstantInitializer(t *testing.T) {
	res := runOne(t, "enum E { A = 1, B = A + f(), C }\n")
	for _, want := range []string{
		"E.A = 1;\n",
		"/** @type {number} */\nE.B = A + f();\n",
		"E.C = 2;\n",
		"E[E.B] = \"B\";\n",
	} {
		if !strings.Contains(res.Output, want) {
			t.Errorf("output lacks %q:\n%s", want, res.Output)
		}
	}
}

func TestExportStar(t *testing.T) {
	files := map[string]string{
		"main.ts": "export const x = 1;\nexport * from './m';\nexport * from './n';\n",
		"m.ts":    "export const x = 2, y = 3;\nexport default 1;\n",
		"n.ts":    "export const y = 4, z = 5;\n",
	}
	res := run(t, annotate.Options{}, files, "main.ts", "m.ts", "n.ts")
	want := "export const /** @type {number} */ x = 1;\n" +
		"export {y} from './m';\n" +
		"export {z} from './n';\n"
	if res.Output != want {
		t.Fatalf("output:\n%s\nwant:\n%s", res.Output, want)
	}
}

func TestExportStarUnresolved(t *testing.T) {
	res := runOne(t, "export * from './missing';\n")
	if res.Output != "export * from './missing';\n" {
		t.Fatalf("output %q", res.Output)
	}
	if !hasCode(res.Diagnostics, diag.AnnExportStarUnresolved) {
		t.Fatalf("diagnostics %v", res.Diagnostics)
	}
}

func TestHandwrittenTypeDegrades(t *testing.T) {
	res := runOne(t, "/** @param {number} a */\nfunction f(a) {}\n")
	want := "/** @param {number} a */\n/* TODO: type annotations (using {...}) are not allowed */ function f(a) {}\n"
	if res.Output != want {
		t.Fatalf("output:\n%s\nwant:\n%s", res.Output, want)
	}
	if !hasCode(res.Diagnostics, diag.AnnHandwrittenType) {
		t.Fatalf("diagnostics %v", res.Diagnostics)
	}
}

func TestTypeParameterWarns(t *testing.T) {
	var warnings []diag.Diagnostic
	opts := annotate.Options{LogWarning: func(d diag.Diagnostic) { warnings = append(warnings, d) }}
	res := run(t, opts, map[string]string{"a.ts": "function id<T>(x: T): T { return x; }\n"}, "a.ts")
	if !strings.Contains(res.Output, "@param {?} x") {
		t.Fatalf("output:\n%s", res.Output)
	}
	if len(warnings) == 0 {
		t.Fatal("no warning for a type parameter")
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("warnings leaked into diagnostics: %v", res.Diagnostics)
	}
}

func TestExterns(t *testing.T) {
	src := "declare namespace foo.bar {\n" +
		"  function f(a: number): string;\n" +
		"  var v: boolean;\n" +
		"}\n" +
		"declare namespace foo {\n" +
		"  class C {\n" +
		"    constructor(x: number);\n" +
		"    p: string;\n" +
		"    static s: number;\n" +
		"    m(a: string): void;\n" +
		"  }\n" +
		"}\n" +
		"let z = 1;\n"
	res := runOne(t, src)
	if !res.HasExterns {
		t.Fatal("HasExterns is false")
	}
	wantOut := strings.Replace(src, "let z = 1;", "let /** @type {number} */ z = 1;", 1)
	if res.Output != wantOut {
		t.Fatalf("output:\n%s\nwant:\n%s", res.Output, wantOut)
	}
	want := annotate.ExternsHeader +
		"/** @const */\nvar foo = {};\n" +
		"/** @const */\nfoo.bar = {};\n" +
		"\n/**\n * @param {number} a\n * @return {string}\n */\nfoo.bar.f = function(a) {};\n" +
		"/** @type {boolean} */\nfoo.bar.v;\n" +
		"\n/**\n * @constructor\n * @struct\n * @param {number} x\n */\nfoo.C = function(x) {};\n" +
		"/** @type {string} */\nfoo.C.prototype.p;\n" +
		"/** @type {number} */\nfoo.C.s;\n" +
		"\n/**\n * @param {string} a\n * @return {void}\n */\nfoo.C.prototype.m = function(a) {};\n"
	if res.Externs != want {
		t.Fatalf("externs:\n%s\nwant:\n%s", res.Externs, want)
	}
}

func TestExternsNamespaceOnce(t *testing.T) {
	res := runOne(t, "declare namespace a { var x: number; }\ndeclare namespace a { var y: number; }\n")
	if n := strings.Count(res.Externs, "var a = {};"); n != 1 {
		t.Fatalf("namespace skeleton written %d times:\n%s", n, res.Externs)
	}
	for _, want := range []string{"a.x;\n", "a.y;\n"} {
		if !strings.Contains(res.Externs, want) {
			t.Errorf("externs lack %q:\n%s", want, res.Externs)
		}
	}
}

func TestExternsDuplicateConstructor(t *testing.T) {
	res := runOne(t, "declare class D {\n  constructor(a: number);\n  constructor(a: string, b: string);\n}\n")
	if !hasCode(res.Diagnostics, diag.ExtDuplicateCtor) {
		t.Fatalf("diagnostics %v", res.Diagnostics)
	}
	if n := strings.Count(res.Externs, "function D("); n != 1 {
		t.Fatalf("constructor written %d times:\n%s", n, res.Externs)
	}
	if !strings.Contains(res.Externs, "function D(a) {}\n") {
		t.Fatalf("externs:\n%s", res.Externs)
	}
}

func TestExternsSkipped(t *testing.T) {
	tests := []struct {
		name  string
		opts  annotate.Options
		src   string
		lacks string
	}{
		{"blacklisted variable", annotate.Options{}, "declare var window: any;\n", "window"},
		{"blacklisted by option", annotate.Options{Blacklist: []string{"jQuery"}}, "declare var jQuery: any;\n", "jQuery"},
		{"string module", annotate.Options{}, "declare module \"fs\" {\n  function read(): string;\n}\n", "read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.opts, map[string]string{"a.ts": tt.src}, "a.ts")
			if res.Output != tt.src {
				t.Fatalf("output %q", res.Output)
			}
			if !res.HasExterns {
				t.Fatal("HasExterns is false")
			}
			if strings.Contains(res.Externs, tt.lacks) {
				t.Fatalf("externs mention %s:\n%s", tt.lacks, res.Externs)
			}
		})
	}
}

func TestExternsGlobal(t *testing.T) {
	res := runOne(t, "export {};\ndeclare global {\n  var counter: number;\n}\n")
	if !strings.Contains(res.Externs, "/** @type {number} */\nvar counter;\n") {
		t.Fatalf("externs:\n%s", res.Externs)
	}
}

func TestDeclarationFile(t *testing.T) {
	src := "declare function h(s: string): void;\ninterface Opts { debug: boolean; }\n"
	res := run(t, annotate.Options{}, map[string]string{"lib.d.ts": src}, "lib.d.ts")
	if res.Output != src {
		t.Fatalf("output %q", res.Output)
	}
	for _, want := range []string{
		"\n/**\n * @param {string} s\n * @return {void}\n */\nfunction h(s) {}\n",
		"\n/** @record @struct */\nfunction Opts() {}\n/** @type {boolean} */\nOpts.prototype.debug;\n",
	} {
		if !strings.Contains(res.Externs, want) {
			t.Errorf("externs lack %q:\n%s", want, res.Externs)
		}
	}
}

func TestMappingsCoverCopiedText(t *testing.T) {
	res := runOne(t, "let x = 1;\n")
	if len(res.Mappings) == 0 {
		t.Fatal("no mappings")
	}
	for _, m := range res.Mappings {
		if m.OutEnd < m.OutStart || int(m.OutEnd) > len(res.Output) {
			t.Fatalf("bad mapping %+v", m)
		}
	}
}
