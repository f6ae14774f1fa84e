package gmodule

import (
	"context"
	"reflect"
	"testing"

	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/source"
)

func process(t *testing.T, path, src string, opts Options) *Result {
	t.Helper()
	fs := source.NewFileSet()
	res, err := Process(context.Background(), fs.Get(fs.AddVirtual(path, []byte(src))), opts)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	return res
}

func hasCode(ds []diag.Diagnostic, code diag.Code) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name string
		path string
		src  string
		opts Options
		want string
		refs []string
	}{
		{
			name: "dedupe and namespace import",
			path: "a/b.js",
			src:  "\"use strict\";\nvar x = require(\"./c\");\nvar y = require(\"./c\");\nrequire(\"goog:foo.bar\");\nx.f();\n",
			opts: Options{ES5: true},
			want: "goog.module('a.b');var module = module || {id: 'a/b.js'};\n" +
				"var x = goog.require('a.c');\n" +
				"var y = x;\n" +
				"var tsickle_module_0_ = goog.require('foo.bar');\n" +
				"x.f();\n",
			refs: []string{"a.c", "foo.bar"},
		},
		{
			name: "default access on namespace import",
			path: "m.js",
			src:  "var ns = require('goog:foo.bar');\nconsole.log(ns.default);\nfunction g() { return other.default; }\n",
			opts: Options{ModuleName: "m", ModuleID: "m.js"},
			want: "goog.module('m'); exports = {}; var module = {id: 'm.js'};" +
				"var ns = goog.require('foo.bar');\n" +
				"console.log(ns        );\n" +
				"function g() { return other.default; }\n",
			refs: []string{"foo.bar"},
		},
		{
			name: "export star",
			path: "x.js",
			src:  "__export(require('./dep'));\nrequire('./dep');\n__export(require('./dep'));\n",
			opts: Options{ES5: true},
			want: "goog.module('x');var module = module || {id: 'x.js'};" +
				"var tsickle_module_0_ = goog.require('dep');__export(tsickle_module_0_);\n" +
				"\n" +
				"__export(tsickle_module_0_);\n",
			refs: []string{"dep"},
		},
		{
			name: "use strict kept when not first",
			path: "s.js",
			src:  "foo();\n\"use strict\";\n",
			opts: Options{ES5: true},
			want: "goog.module('s');var module = module || {id: 's.js'};foo();\n\"use strict\";\n",
		},
		{
			name: "nested require untouched",
			path: "n.js",
			src:  "function f() { var z = require('./z'); }\n",
			opts: Options{ES5: true, Prelude: "goog.require('tsickle');"},
			want: "goog.module('n');goog.require('tsickle');var module = module || {id: 'n.js'};" +
				"function f() { var z = require('./z'); }\n",
		},
		{
			name: "custom prefix and resolver",
			path: "r.js",
			src:  "var a = require('ns!app.core');\nvar b = require('lodash');\n",
			opts: Options{
				ES5:             true,
				NamespacePrefix: "ns!",
				Resolve:         func(from, spec string) string { return "third_party." + spec },
			},
			want: "goog.module('r');var module = module || {id: 'r.js'};" +
				"var a = goog.require('app.core');\n" +
				"var b = goog.require('third_party.lodash');\n",
			refs: []string{"app.core", "third_party.lodash"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := process(t, tt.path, tt.src, tt.opts)
			if res.Output != tt.want {
				t.Fatalf("output:\n%q\nwant:\n%q", res.Output, tt.want)
			}
			if len(res.ReferencedModules) != 0 || len(tt.refs) != 0 {
				if !reflect.DeepEqual(res.ReferencedModules, tt.refs) {
					t.Fatalf("referenced = %v, want %v", res.ReferencedModules, tt.refs)
				}
			}
		})
	}
}

func TestProcessLeavesUnresolvedRequires(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		code diag.Code
	}{
		{"non-literal", "var a = require(name);\n", Options{ES5: true}, diag.ModNonLiteralRequire},
		{"unresolved", "var a = require('x');\n", Options{ES5: true, Resolve: func(string, string) string { return "" }}, diag.ModUnresolvedSpecifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := process(t, "u.js", tt.src, tt.opts)
			want := "goog.module('u');var module = module || {id: 'u.js'};" + tt.src
			if res.Output != want {
				t.Fatalf("output %q, want %q", res.Output, want)
			}
			if len(res.ReferencedModules) != 0 {
				t.Fatalf("referenced = %v", res.ReferencedModules)
			}
			if !hasCode(res.Diagnostics, tt.code) {
				t.Fatalf("diagnostics %v", res.Diagnostics)
			}
		})
	}
}

func TestPathToModuleName(t *testing.T) {
	tests := []struct {
		context, file, want string
	}{
		{"", "foo/bar.js", "foo.bar"},
		{"src/app/main.js", "./util", "src.app.util"},
		{"src/app/main.js", "../lib/x.js", "src.lib.x"},
		{"", "@angular/core", "_angular.core"},
		{"", "my-lib/a b", "my_lib.a_b"},
		{"", "1st", "_st"},
		{`src\win\main.js`, "./dep", "src.win.dep"},
	}
	for _, tt := range tests {
		if got := PathToModuleName(tt.context, tt.file); got != tt.want {
			t.Errorf("PathToModuleName(%q, %q) = %q, want %q", tt.context, tt.file, got, tt.want)
		}
	}
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		lit  string
		want string
		ok   bool
	}{
		{`"a"`, "a", true},
		{`'b/c'`, "b/c", true},
		{`'it\'s'`, "it's", true},
		{`"x\ty"`, "x\ty", true},
		{`"open`, "", false},
		{"`t`", "", false},
	}
	for _, tt := range tests {
		got, ok := stringValue(tt.lit)
		if got != tt.want || ok != tt.ok {
			t.Errorf("stringValue(%s) = %q, %v", tt.lit, got, ok)
		}
	}
}
