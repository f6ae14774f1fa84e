package checker

import (
	"github.com/Feiyang1/tsickle/internal/syntax"
	"github.com/Feiyang1/tsickle/internal/types"
)

// inferExpr approximates the type of an expression. Anything it cannot
// follow is `any`.
func (c *Checker) inferExpr(f *syntax.File, n *syntax.Node) types.TypeID {
	if n == nil {
		return c.b.Any
	}
	switch n.Kind {
	case syntax.KindNumber:
		return c.types.Literal(c.b.Number, f.Text(n))
	case syntax.KindString:
		return c.types.Literal(c.b.String, f.Text(n))
	case syntax.KindTemplateString:
		return c.b.String
	case syntax.KindTrue, syntax.KindFalse:
		return c.types.Literal(c.b.Boolean, f.Text(n))
	case syntax.KindNull:
		return c.b.Null
	case syntax.KindUndefined:
		return c.b.Undefined
	case syntax.KindRegex:
		return c.types.RegisterNamed("RegExp", types.DeclExternal, nil)
	case syntax.KindThis:
		return c.b.This

	case syntax.KindIdentifier:
		return c.identType(f, n)

	case syntax.KindArray:
		var elems []types.TypeID
		for _, e := range n.NamedChildren() {
			if e.Kind == syntax.KindSpreadElement {
				elems = append(elems, c.b.Any)
				continue
			}
			elems = append(elems, c.inferExpr(f, e))
		}
		if len(elems) == 0 {
			return c.types.Intern(types.MakeArray(c.b.Any))
		}
		return c.types.Intern(types.MakeArray(c.types.RegisterUnion(elems)))

	case syntax.KindObject:
		return c.objectLiteral(f, n)

	case syntax.KindFunctionExpression, syntax.KindFunction, syntax.KindGeneratorFunction, syntax.KindArrowFunction:
		return c.typeOfDecl(declRef{f, n})

	case syntax.KindClass:
		return c.types.Intern(types.MakeUnsupported("class expression"))

	case syntax.KindNewExpression:
		return c.newType(f, n)

	case syntax.KindCallExpression:
		callee := c.inferExpr(f, n.ChildByField("function"))
		return c.callResult(callee)

	case syntax.KindParenthesizedExpression:
		inner := n.NamedChildren()
		if len(inner) == 0 {
			return c.b.Any
		}
		return c.inferExpr(f, inner[len(inner)-1])

	case syntax.KindAsExpression, syntax.KindSatisfiesExpression:
		parts := n.NamedChildren()
		if len(parts) < 2 || n.Kind == syntax.KindSatisfiesExpression || n.HasToken("const") {
			if len(parts) == 0 {
				return c.b.Any
			}
			return c.inferExpr(f, parts[0])
		}
		return c.typeFromNode(f, parts[1])

	case syntax.KindTypeAssertion:
		if ta := n.FirstChild(syntax.KindTypeArguments); ta != nil {
			if args := ta.NamedChildren(); len(args) > 0 {
				return c.typeFromNode(f, args[0])
			}
		}
		return c.b.Any

	case syntax.KindNonNullExpression:
		inner := n.NamedChildren()
		if len(inner) == 0 {
			return c.b.Any
		}
		return c.nonNullable(c.inferExpr(f, inner[0]))

	case syntax.KindAwaitExpression:
		inner := n.NamedChildren()
		if len(inner) == 0 {
			return c.b.Any
		}
		t := c.inferExpr(f, inner[0])
		if info, ok := c.types.NamedInfo(t); ok && info.Name == "Promise" && len(info.Args) == 1 {
			return info.Args[0]
		}
		return t

	case syntax.KindBinaryExpression:
		return c.binaryType(f, n)

	case syntax.KindUnaryExpression:
		switch op := n.ChildByField("operator"); {
		case op == nil:
			return c.b.Any
		case op.Symbol == "!" || op.Symbol == "delete":
			return c.b.Boolean
		case op.Symbol == "typeof":
			return c.b.String
		case op.Symbol == "void":
			return c.b.Undefined
		}
		return c.b.Number

	case syntax.KindUpdateExpression:
		return c.b.Number

	case syntax.KindTernaryExpression:
		return c.types.RegisterUnion([]types.TypeID{
			c.inferExpr(f, n.ChildByField("consequence")),
			c.inferExpr(f, n.ChildByField("alternative")),
		})

	case syntax.KindAssignmentExpression:
		return c.inferExpr(f, n.ChildByField("right"))

	case syntax.KindSequenceExpression:
		parts := n.NamedChildren()
		if len(parts) == 0 {
			return c.b.Any
		}
		return c.inferExpr(f, parts[len(parts)-1])

	case syntax.KindMemberExpression:
		return c.memberAccessType(f, n)

	case syntax.KindSubscriptExpression:
		obj := c.inferExpr(f, n.ChildByField("object"))
		t, ok := c.types.Lookup(obj)
		if !ok {
			return c.b.Any
		}
		switch t.Kind {
		case types.KindArray:
			return t.Elem
		case types.KindRecord:
			info, _ := c.types.RecordInfo(obj)
			if info.NumberIndex != types.NoTypeID {
				return info.NumberIndex
			}
			if info.StringIndex != types.NoTypeID {
				return info.StringIndex
			}
		}
		return c.b.Any
	}
	return c.b.Any
}

func (c *Checker) identType(f *syntax.File, n *syntax.Node) types.TypeID {
	switch f.Text(n) {
	case "undefined":
		return c.b.Undefined
	case "NaN", "Infinity":
		return c.b.Number
	}
	d := c.lookup(f, n, f.Text(n), false)
	if !d.valid() {
		return c.b.Any
	}
	return c.typeOfDecl(d)
}

func (c *Checker) objectLiteral(f *syntax.File, n *syntax.Node) types.TypeID {
	var info types.RecordInfo
	for _, m := range n.NamedChildren() {
		switch m.Kind {
		case syntax.KindPair:
			key := m.ChildByField("key")
			name := ""
			switch key.Kind {
			case syntax.KindPropertyIdentifier, syntax.KindIdentifier:
				name = f.Text(key)
			case syntax.KindString:
				name = unquote(f.Text(key))
			case syntax.KindNumber:
				name = f.Text(key)
			}
			if name == "" {
				return c.b.Any
			}
			info.Props = append(info.Props, types.Prop{Name: name, Type: c.inferExpr(f, m.ChildByField("value"))})
		case syntax.KindShorthandPropertyIdentifier:
			info.Props = append(info.Props, types.Prop{Name: f.Text(m), Type: c.identType(f, m)})
		case syntax.KindMethodDefinition:
			name := PropertyName(f, m)
			if name == "" {
				return c.b.Any
			}
			info.Props = append(info.Props, types.Prop{Name: name, Type: c.typeOfDecl(declRef{f, m})})
		default:
			// spreads and computed keys
			return c.b.Any
		}
	}
	return c.types.RegisterRecord(info)
}

func (c *Checker) newType(f *syntax.File, n *syntax.Node) types.TypeID {
	ctor := n.ChildByField("constructor")
	if ctor == nil {
		return c.b.Any
	}
	var args []types.TypeID
	if ta := n.ChildByField("type_arguments"); ta != nil {
		for _, a := range ta.NamedChildren() {
			args = append(args, c.typeFromNode(f, a))
		}
	}
	switch ctor.Kind {
	case syntax.KindIdentifier, syntax.KindMemberExpression:
		name := f.Text(ctor)
		d := c.lookupQualified(f, n, name, false)
		if d.valid() && d.node.Is(syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration) {
			return c.registerNamed(name, types.DeclClass, args, d)
		}
		if ctor.Kind == syntax.KindIdentifier {
			return c.types.RegisterNamed(name, types.DeclExternal, args)
		}
	}
	return c.b.Any
}

func (c *Checker) callResult(callee types.TypeID) types.TypeID {
	if fn, ok := c.types.FnInfo(callee); ok && !fn.Construct {
		return fn.Result
	}
	if rec, ok := c.types.RecordInfo(callee); ok && len(rec.Calls) > 0 {
		return c.callResult(rec.Calls[0])
	}
	return c.b.Any
}

// nonNullable drops null and undefined from a union.
func (c *Checker) nonNullable(id types.TypeID) types.TypeID {
	info, ok := c.types.UnionInfo(id)
	if !ok {
		return id
	}
	var keep []types.TypeID
	for _, m := range info.Members {
		if m != c.b.Null && m != c.b.Undefined {
			keep = append(keep, m)
		}
	}
	if len(keep) == 0 {
		return c.b.Never
	}
	return c.types.RegisterUnion(keep)
}

func (c *Checker) binaryType(f *syntax.File, n *syntax.Node) types.TypeID {
	op := n.ChildByField("operator")
	if op == nil {
		return c.b.Any
	}
	switch op.Symbol {
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "instanceof", "in":
		return c.b.Boolean
	case "-", "*", "/", "%", "**", "&", "|", "^", "<<", ">>", ">>>":
		return c.b.Number
	case "&&", "||", "??":
		return c.types.RegisterUnion([]types.TypeID{
			c.inferExpr(f, n.ChildByField("left")),
			c.inferExpr(f, n.ChildByField("right")),
		})
	case "+":
		left := c.widen(c.inferExpr(f, n.ChildByField("left")))
		right := c.widen(c.inferExpr(f, n.ChildByField("right")))
		switch {
		case left == c.b.String || right == c.b.String:
			return c.b.String
		case left == c.b.Number && right == c.b.Number:
			return c.b.Number
		}
	}
	return c.b.Any
}

func (c *Checker) widen(id types.TypeID) types.TypeID {
	if t, ok := c.types.Lookup(id); ok && t.Kind == types.KindLiteral {
		return t.Elem
	}
	return id
}

func (c *Checker) memberAccessType(f *syntax.File, n *syntax.Node) types.TypeID {
	obj := n.ChildByField("object")
	prop := n.ChildByField("property")
	if obj == nil || prop == nil {
		return c.b.Any
	}
	name := f.Text(prop)

	if obj.Kind == syntax.KindIdentifier {
		if d := c.lookup(f, obj, f.Text(obj), false); d.valid() && d.node.Kind == syntax.KindEnumDeclaration {
			return c.b.Number
		}
	}

	objType := c.nonNullable(c.inferExpr(f, obj))
	t, ok := c.types.Lookup(objType)
	if !ok {
		return c.b.Any
	}
	switch t.Kind {
	case types.KindArray, types.KindTuple, types.KindString:
		if name == "length" {
			return c.b.Number
		}
	case types.KindLiteral:
		if t.Elem == c.b.String && name == "length" {
			return c.b.Number
		}
	case types.KindRecord:
		info, _ := c.types.RecordInfo(objType)
		for _, p := range info.Props {
			if p.Name == name {
				return p.Type
			}
		}
		if info.StringIndex != types.NoTypeID {
			return info.StringIndex
		}
	case types.KindNamed:
		if d, ok := c.namedDecls[objType]; ok {
			return c.memberType(d, name, 0)
		}
	}
	return c.b.Any
}

// memberType finds a member declared by a class or interface, following
// `extends` clauses within the program.
func (c *Checker) memberType(d declRef, name string, depth int) types.TypeID {
	if depth > 8 {
		return c.b.Any
	}
	body := d.node.ChildByField("body")
	for _, m := range body.NamedChildren() {
		if m.Is(syntax.KindMethodDefinition, syntax.KindMethodSignature, syntax.KindAbstractMethodSignature,
			syntax.KindPublicFieldDefinition, syntax.KindFieldDefinition, syntax.KindPropertySignature) &&
			!m.HasToken("static") && PropertyName(d.file, m) == name {
			return c.typeOfDecl(declRef{d.file, m})
		}
	}
	for _, base := range heritage(d.node) {
		text := d.file.Text(base)
		if base.Kind == syntax.KindGenericType {
			text = d.file.Text(base.ChildByField("name"))
		}
		if bd := c.lookupQualified(d.file, d.node, text, true); bd.valid() &&
			bd.node.Is(syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration, syntax.KindInterfaceDeclaration) {
			if t := c.memberType(bd, name, depth+1); t != c.b.Any {
				return t
			}
		}
	}
	return c.b.Any
}

// heritage returns the base type expressions named by extends clauses.
func heritage(decl *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	collect := func(clause *syntax.Node) {
		for _, b := range clause.NamedChildren() {
			if b.Is(syntax.KindIdentifier, syntax.KindTypeIdentifier, syntax.KindGenericType,
				syntax.KindNestedTypeIdentifier, syntax.KindMemberExpression) {
				out = append(out, b)
			}
		}
	}
	for _, ch := range decl.Children {
		switch ch.Kind {
		case syntax.KindClassHeritage:
			if ext := ch.FirstChild(syntax.KindExtendsClause); ext != nil {
				collect(ext)
			}
		case syntax.KindExtendsTypeClause:
			collect(ch)
		}
	}
	return out
}
