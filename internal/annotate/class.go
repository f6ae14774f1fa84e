package annotate

import (
	"strings"

	"github.com/Feiyang1/tsickle/internal/checker"
	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/syntax"
)

const helperIndent = "    "

// classDecl copies the class header, visits each member and declares the
// class properties in a static helper method placed before the closing brace.
func (a *annotator) classDecl(n, outer *syntax.Node) error {
	body := n.ChildByField("body")
	if body == nil || len(body.Children) == 0 {
		a.emitNode(outer)
		return nil
	}
	helper, err := a.typeAnnotationsHelper(n, body)
	if err != nil {
		return err
	}
	if helper != "" && a.file.NameOf(n) == "" {
		// анонимный класс: свойствам не к чему прицепиться
		diag.ReportWarning(a.w, diag.AnnUnsupportedType, n.Span,
			"property types of an anonymous class are not declared").Emit()
		helper = helperIndent + "/* TODO: declare property types of anonymous class */\n"
	}

	a.w.CopyRange(outer.Start(), body.Start())
	members := body.Children
	last := members[len(members)-1]
	if last.Symbol == "}" {
		members = members[:len(members)-1]
	}
	pos := a.emitChildren(members, body.Start())
	if helper != "" {
		a.w.WriteString("\n\n  static _tsickle_typeAnnotationsHelper() {\n")
		a.w.WriteString(helper)
		a.w.WriteString("  }\n")
	}
	a.w.CopyRange(pos, outer.End())
	return nil
}

// typeAnnotationsHelper declares static fields, instance fields and
// parameter properties, in that order.
func (a *annotator) typeAnnotationsHelper(class, body *syntax.Node) (string, error) {
	name := a.file.NameOf(class)
	var static, instance []*syntax.Node
	var params []*syntax.Node
	for _, m := range body.NamedChildren() {
		switch {
		case m.Is(syntax.KindPublicFieldDefinition, syntax.KindFieldDefinition):
			if m.HasToken("static") {
				static = append(static, m)
			} else {
				instance = append(instance, m)
			}
		case checker.IsConstructor(a.file, m) && m.ChildByField("body") != nil:
			for _, p := range checker.Parameters(m) {
				if isParameterProperty(p) {
					params = append(params, p)
				}
			}
		}
	}

	var sb strings.Builder
	for _, group := range []struct {
		ns    string
		props []*syntax.Node
	}{
		{name, static},
		{name + ".prototype", instance},
		{name + ".prototype", params},
	} {
		for _, p := range group.props {
			decl, err := a.propertyDecl(helperIndent, group.ns, p)
			if err != nil {
				return "", err
			}
			sb.WriteString(decl)
		}
	}
	return sb.String(), nil
}

// isParameterProperty reports a constructor parameter that declares a field.
func isParameterProperty(p *syntax.Node) bool {
	if !p.Is(syntax.KindRequiredParameter, syntax.KindOptionalParameter) {
		return false
	}
	return p.FirstChild(syntax.KindAccessibilityModifier) != nil || p.HasToken("readonly") ||
		p.FirstChild(syntax.KindOverrideModifier) != nil
}

// propertyDecl writes one `/** @type {T} */ ns.name;` statement. Tag names of
// a hand-written comment on the member are kept.
func (a *annotator) propertyDecl(indent, ns string, p *syntax.Node) (string, error) {
	name := memberName(a.file, p)
	if name == "" {
		return indent + "/* TODO: handle strange member:\n" + escapeComment(a.text(p)) + "\n*/\n", nil
	}
	doc, err := a.docTags(p)
	if err != nil {
		return "", err
	}
	var existing strings.Builder
	for _, t := range doc {
		if t.TagName != "" {
			existing.WriteString("@" + t.TagName + "\n")
		}
	}
	return indent + "/** " + existing.String() + "@type {" + a.render(p) + "} */\n" +
		indent + ns + "." + name + ";\n", nil
}

// memberName returns the identifier a member or parameter property declares,
// or "" when it cannot be written as a dotted property.
func memberName(f *syntax.File, n *syntax.Node) string {
	if n.Is(syntax.KindRequiredParameter, syntax.KindOptionalParameter) {
		if pat := n.ChildByField("pattern"); pat.Is(syntax.KindIdentifier) {
			return f.Text(pat)
		}
		return ""
	}
	name := n.ChildByField("name")
	if !name.Is(syntax.KindPropertyIdentifier, syntax.KindIdentifier) {
		return ""
	}
	return f.Text(name)
}
