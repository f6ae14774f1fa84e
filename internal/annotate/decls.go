package annotate

import (
	"github.com/Feiyang1/tsickle/internal/syntax"
)

// variable prefixes a declarator with its type. Binding patterns are left alone.
func (a *annotator) variable(n *syntax.Node) {
	name := n.ChildByField("name")
	if !name.Is(syntax.KindIdentifier) || !n.Parent.Is(syntax.KindLexicalDeclaration, syntax.KindVariableDeclaration) {
		a.emitNode(n)
		return
	}
	a.w.WriteString("/** @type {" + a.render(n) + "} */ ")
	a.emitNode(n)
}

// typeAlias writes a typedef in front of the alias, which stays verbatim.
func (a *annotator) typeAlias(n, outer *syntax.Node) error {
	if !a.opts.Untyped {
		t := a.r.Render(a.chk.TypeOf(a.file, n), n, false)
		a.w.WriteString("\n/** @typedef {" + t + "} */\n")
		if outer != n {
			a.w.WriteString("export ")
		}
		a.w.WriteString("var " + a.file.NameOf(n) + ": void;\n")
	}
	a.emitDeclaration(n, outer)
	return nil
}

// assertion writes `/** @type {T} */ ((expr))` for `<T>expr` and `expr as T`.
func (a *annotator) assertion(n *syntax.Node) {
	typ := assertedType(n)
	if typ == nil {
		a.emitNode(n)
		return
	}
	t := a.r.Render(a.chk.TypeOfTypeNode(a.file, typ), n, false)
	a.w.WriteString("/** @type {" + t + "} */ ((")
	a.emitNode(n)
	a.w.WriteString("))")
}

func assertedType(n *syntax.Node) *syntax.Node {
	switch n.Kind {
	case syntax.KindTypeAssertion:
		ta := n.FirstChild(syntax.KindTypeArguments)
		if args := ta.NamedChildren(); len(args) > 0 {
			return args[0]
		}
	case syntax.KindAsExpression:
		if n.HasToken("const") {
			return nil
		}
		if parts := n.NamedChildren(); len(parts) == 2 {
			return parts[1]
		}
	}
	return nil
}
