package annotate

import (
	"strconv"

	"github.com/Feiyang1/tsickle/internal/checker"
	"github.com/Feiyang1/tsickle/internal/syntax"
)

// enumDecl replaces a non-const enum by a numeric type alias, a loose
// object, one assignment per member and the reverse name lookups.
//
// A non-constant initializer is copied as written, so a bare reference to
// a sibling member (`B = A + f()`) keeps pointing at the unqualified name.
func (a *annotator) enumDecl(n, outer *syntax.Node) error {
	if n.HasToken("const") {
		a.emitNode(outer)
		return nil
	}
	name := a.file.NameOf(n)
	export := ""
	if outer != n {
		export = "export "
	}
	a.w.WriteString("\n" + export + "type " + name + " = number;\n")
	a.w.WriteString(export + "let " + name + ": any = {};\n")

	members := a.chk.EnumMembers(a.file, n)
	counter := 0.0
	for _, m := range members {
		ref := memberRef(name, m.Name)
		if m.Init != nil {
			if !m.Constant {
				a.w.WriteString("/** @type {number} */\n" + ref + " = ")
				a.visit(m.Init)
				a.w.WriteString(";\n")
				continue
			}
			counter = m.Value
		}
		a.w.WriteString("/** @type {number} */\n" + ref + " = " + checker.FormatNumber(counter) + ";\n")
		counter++
	}
	for _, m := range members {
		a.w.WriteString(name + "[" + memberRef(name, m.Name) + "] = " + strconv.Quote(m.Name) + ";\n")
	}
	return nil
}

// memberRef writes E.M, or E["m-n"] for names that are not identifiers.
func memberRef(enum, member string) string {
	if isIdentifier(member) {
		return enum + "." + member
	}
	return enum + "[" + strconv.Quote(member) + "]"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
