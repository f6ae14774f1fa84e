package checker

import (
	"strings"

	"github.com/Feiyang1/tsickle/internal/syntax"
	"github.com/Feiyang1/tsickle/internal/types"
)

func (c *Checker) typeFromNode(f *syntax.File, n *syntax.Node) types.TypeID {
	switch n.Kind {
	case syntax.KindTypeAnnotation, syntax.KindOptionalTypeAnnotation, syntax.KindParenthesizedType,
		syntax.KindRestType, syntax.KindReadonlyType:
		inner := n.NamedChildren()
		if len(inner) == 0 {
			return c.b.Any
		}
		return c.typeFromNode(f, inner[len(inner)-1])

	case syntax.KindPredefinedType:
		return c.predefined(f.Text(n))

	case syntax.KindLiteralType:
		return c.literalType(f, n)

	case syntax.KindTypeIdentifier, syntax.KindIdentifier:
		return c.resolveTypeName(f, n, f.Text(n), nil)

	case syntax.KindNestedTypeIdentifier:
		return c.resolveTypeName(f, n, strings.Join(strings.Fields(f.Text(n)), ""), nil)

	case syntax.KindGenericType:
		name := n.ChildByField("name")
		if name == nil {
			return c.b.Any
		}
		var args []types.TypeID
		if ta := n.FirstChild(syntax.KindTypeArguments); ta != nil {
			for _, a := range ta.NamedChildren() {
				args = append(args, c.typeFromNode(f, a))
			}
		}
		return c.resolveTypeName(f, n, strings.Join(strings.Fields(f.Text(name)), ""), args)

	case syntax.KindArrayType:
		inner := n.NamedChildren()
		if len(inner) == 0 {
			return c.types.Intern(types.MakeArray(c.b.Any))
		}
		return c.types.Intern(types.MakeArray(c.typeFromNode(f, inner[0])))

	case syntax.KindTupleType:
		var elems []types.TypeID
		for _, e := range n.NamedChildren() {
			elems = append(elems, c.typeFromNode(f, e))
		}
		return c.types.RegisterTuple(elems)

	case syntax.KindTupleParameter, syntax.KindOptionalTupleParameter:
		if t := n.ChildByField("type"); t != nil {
			return c.typeFromNode(f, t)
		}
		return c.b.Any

	case syntax.KindOptionalType:
		inner := n.NamedChildren()
		if len(inner) == 0 {
			return c.b.Any
		}
		return c.types.RegisterUnion([]types.TypeID{c.typeFromNode(f, inner[0]), c.b.Undefined})

	case syntax.KindUnionType, syntax.KindIntersectionType:
		var members []types.TypeID
		for _, m := range n.NamedChildren() {
			members = append(members, c.typeFromNode(f, m))
		}
		if n.Kind == syntax.KindIntersectionType {
			return c.types.RegisterIntersection(members)
		}
		return c.types.RegisterUnion(members)

	case syntax.KindFunctionType, syntax.KindConstructorType:
		sig := c.Signature(f, n)
		info := types.FnInfo{Result: sig.Result, This: sig.This, Construct: n.Kind == syntax.KindConstructorType}
		if n.Kind == syntax.KindConstructorType {
			if t := n.ChildByField("type"); t != nil {
				info.Result = c.typeFromNode(f, t)
			}
		}
		for _, p := range sig.Params {
			info.Params = append(info.Params, types.Param{Name: p.Name, Type: p.Type, Optional: p.Optional, Rest: p.Rest})
		}
		return c.types.RegisterFn(info)

	case syntax.KindObjectType, syntax.KindInterfaceBody:
		return c.recordType(f, n)

	case syntax.KindThisType, syntax.KindThis:
		return c.b.This

	case syntax.KindTypePredicate:
		return c.b.Boolean
	}
	return c.types.Intern(types.MakeUnsupported(n.Symbol))
}

func (c *Checker) predefined(text string) types.TypeID {
	switch text {
	case "any":
		return c.b.Any
	case "unknown":
		return c.b.Unknown
	case "never":
		return c.b.Never
	case "void":
		return c.b.Void
	case "undefined":
		return c.b.Undefined
	case "null":
		return c.b.Null
	case "string":
		return c.b.String
	case "number":
		return c.b.Number
	case "boolean":
		return c.b.Boolean
	case "bigint":
		return c.b.BigInt
	case "symbol":
		return c.b.Symbol
	case "object":
		return c.b.Object
	}
	return c.types.Intern(types.MakeUnsupported("predefined " + text))
}

func (c *Checker) literalType(f *syntax.File, n *syntax.Node) types.TypeID {
	inner := n.NamedChildren()
	if len(inner) == 0 {
		return c.b.Any
	}
	lit := inner[0]
	text := f.Text(lit)
	switch lit.Kind {
	case syntax.KindNumber, syntax.KindUnaryExpression:
		return c.types.Literal(c.b.Number, text)
	case syntax.KindString, syntax.KindTemplateString:
		return c.types.Literal(c.b.String, text)
	case syntax.KindTrue, syntax.KindFalse:
		return c.types.Literal(c.b.Boolean, text)
	case syntax.KindNull:
		return c.b.Null
	case syntax.KindUndefined:
		return c.b.Undefined
	}
	return c.types.Intern(types.MakeUnsupported("literal " + lit.Symbol))
}

func (c *Checker) recordType(f *syntax.File, body *syntax.Node) types.TypeID {
	var info types.RecordInfo
	for _, m := range body.NamedChildren() {
		switch m.Kind {
		case syntax.KindPropertySignature:
			name := PropertyName(f, m)
			if name == "" {
				continue
			}
			info.Props = append(info.Props, types.Prop{Name: name, Type: c.typeOfDecl(declRef{f, m}), Optional: m.HasToken("?")})
		case syntax.KindMethodSignature:
			name := PropertyName(f, m)
			if name == "" {
				continue
			}
			info.Props = append(info.Props, types.Prop{Name: name, Type: c.typeOfDecl(declRef{f, m}), Optional: m.HasToken("?")})
		case syntax.KindCallSignature:
			info.Calls = append(info.Calls, c.typeOfDecl(declRef{f, m}))
		case syntax.KindConstructSignature:
			info.Constructs = append(info.Constructs, c.typeOfDecl(declRef{f, m}))
		case syntax.KindIndexSignature:
			if m.FirstChild(syntax.KindMappedTypeClause) != nil {
				return c.types.Intern(types.MakeUnsupported("mapped type"))
			}
			value := c.typeOfDecl(declRef{f, m})
			key := m.ChildByField("index_type")
			if key == nil {
				// `[key: string]: T`: the key type is the second named child
				for _, ch := range m.NamedChildren() {
					if ch.Is(syntax.KindPredefinedType) {
						key = ch
						break
					}
				}
			}
			if key != nil && f.Text(key) == "number" {
				info.NumberIndex = value
			} else {
				info.StringIndex = value
			}
		}
	}
	return c.types.RegisterRecord(info)
}

// resolveTypeName resolves a written type reference.
func (c *Checker) resolveTypeName(f *syntax.File, at *syntax.Node, name string, args []types.TypeID) types.TypeID {
	if !strings.Contains(name, ".") && typeParamInScope(f, at, name) {
		return c.types.Intern(types.MakeTypeParam(name))
	}
	switch name {
	case "Array", "ReadonlyArray":
		elem := c.b.Any
		if len(args) > 0 {
			elem = args[0]
		}
		return c.types.Intern(types.MakeArray(elem))
	}

	d := c.lookupQualified(f, at, name, true)
	if !d.valid() {
		return c.types.RegisterNamed(name, types.DeclExternal, args)
	}
	switch d.node.Kind {
	case syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration:
		return c.registerNamed(name, types.DeclClass, args, d)
	case syntax.KindInterfaceDeclaration:
		return c.registerNamed(name, types.DeclInterface, args, d)
	case syntax.KindEnumDeclaration:
		return c.registerNamed(name, types.DeclEnum, nil, d)
	case syntax.KindTypeAliasDeclaration:
		return c.aliasTarget(d)
	}
	return c.types.RegisterNamed(name, types.DeclExternal, args)
}

func (c *Checker) registerNamed(name string, kind types.DeclKind, args []types.TypeID, d declRef) types.TypeID {
	id := c.types.RegisterNamed(name, kind, args)
	c.namedDecls[id] = d
	return id
}

// aliasTarget resolves `type A = ...`; alias cycles resolve to an unsupported type.
func (c *Checker) aliasTarget(d declRef) types.TypeID {
	if id, ok := c.declTypes[d.node]; ok {
		return id
	}
	if c.inProgress[d.node] {
		return c.types.Intern(types.MakeUnsupported("recursive type alias " + d.file.NameOf(d.node)))
	}
	c.inProgress[d.node] = true
	id := c.TypeOfTypeNode(d.file, d.node.ChildByField("value"))
	delete(c.inProgress, d.node)
	c.declTypes[d.node] = id
	return id
}

// NamedDecl returns the class or interface declaration behind a named type.
func (c *Checker) NamedDecl(id types.TypeID) (*syntax.File, *syntax.Node, bool) {
	d, ok := c.namedDecls[id]
	if !ok {
		return nil, nil, false
	}
	return d.file, d.node, true
}
