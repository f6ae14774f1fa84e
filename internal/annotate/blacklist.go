package annotate

import (
	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/syntax"
)

// defaultBlacklist names that the Closure externs already define; declaring
// them again breaks compilation.
var defaultBlacklist = []string{
	"exports",
	"global",
	"module",
	"window",
	"self",
	"globalThis",
	"WorkerGlobalScope",
	"ErrorConstructor",
	"Symbol",
}

func newBlacklist(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(defaultBlacklist)+len(extra))
	for _, name := range defaultBlacklist {
		set[name] = struct{}{}
	}
	for _, name := range extra {
		set[name] = struct{}{}
	}
	return set
}

// blacklisted reports whether one of names must not be declared and notes
// the skipped declaration at n.
func (a *annotator) blacklisted(n *syntax.Node, names ...string) bool {
	for _, name := range names {
		if _, ok := a.blacklist[name]; ok {
			a.w.Report(diag.ExtBlacklistedSymbol, diag.SevInfo, n.Span, name+" is blacklisted; not declared in externs", nil)
			return true
		}
	}
	return false
}
