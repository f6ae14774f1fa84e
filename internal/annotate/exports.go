package annotate

import (
	"strings"

	"github.com/Feiyang1/tsickle/internal/checker"
	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/syntax"
)

// isExportStar matches `export * from "m"` (not `export * as ns from`).
func isExportStar(n *syntax.Node) bool {
	return n.HasToken("*") && n.ChildByField("source") != nil && n.FirstChild(syntax.KindNamespaceExport) == nil
}

// exportStar expands `export * from "m"` into an explicit list of the names
// m exports that this file neither exports itself nor re-exported already.
func (a *annotator) exportStar(n *syntax.Node) error {
	src := n.ChildByField("source")
	spec := strings.Trim(a.text(src), "\"'`")
	names, ok := a.chk.ModuleExports(a.file, spec)
	if !ok {
		a.w.Report(diag.AnnExportStarUnresolved, diag.SevWarning, src.Span,
			"cannot resolve module "+spec+"; export * left as is", nil)
		a.emitNode(n)
		return nil
	}
	if a.localExports == nil {
		a.localExports = checker.LocalExportNames(a.file)
	}
	var list []string
	for _, name := range names {
		if name == "default" || a.localExports[name] || a.generatedExports[name] {
			continue
		}
		a.generatedExports[name] = true
		list = append(list, name)
	}
	a.w.WriteString("export {" + strings.Join(list, ",") + "} from ")
	a.w.CopyRange(src.Start(), n.End())
	return nil
}
