// Package checker answers the type questions the rewriters ask about a
// parsed program: declared and inferred types, call signatures, enum
// constants and module export tables. It does not validate programs.
package checker

import (
	"github.com/Feiyang1/tsickle/internal/syntax"
	"github.com/Feiyang1/tsickle/internal/types"
)

// declRef pins a declaration node to the file it came from.
type declRef struct {
	file *syntax.File
	node *syntax.Node
}

func (d declRef) valid() bool { return d.file != nil && d.node != nil }

type enumValue struct {
	value float64
	ok    bool
}

// Checker resolves types lazily and caches the results.
// One Checker serves one goroutine; Program may be shared.
type Checker struct {
	prog  *Program
	types *types.Interner
	b     types.Builtins

	declTypes  map[*syntax.Node]types.TypeID
	inProgress map[*syntax.Node]bool
	namedDecls map[types.TypeID]declRef
	enums      map[*syntax.Node]map[*syntax.Node]enumValue
	exports    map[*syntax.File][]string
	exporting  map[*syntax.File]bool
}

// New creates a checker over prog.
func New(prog *Program) *Checker {
	in := types.NewInterner()
	return &Checker{
		prog:       prog,
		types:      in,
		b:          in.Builtins(),
		declTypes:  make(map[*syntax.Node]types.TypeID),
		inProgress: make(map[*syntax.Node]bool),
		namedDecls: make(map[types.TypeID]declRef),
		enums:      make(map[*syntax.Node]map[*syntax.Node]enumValue),
		exports:    make(map[*syntax.File][]string),
		exporting:  make(map[*syntax.File]bool),
	}
}

// Program returns the program the checker resolves against.
func (c *Checker) Program() *Program { return c.prog }

// Types returns the interner that owns every TypeID handed out.
func (c *Checker) Types() *types.Interner { return c.types }

// TypeOf returns the type of a declaration (variable, parameter, property,
// function) or of an expression.
func (c *Checker) TypeOf(f *syntax.File, n *syntax.Node) types.TypeID {
	if n == nil {
		return c.b.Any
	}
	switch n.Kind {
	case syntax.KindVariableDeclarator, syntax.KindRequiredParameter, syntax.KindOptionalParameter,
		syntax.KindPublicFieldDefinition, syntax.KindFieldDefinition, syntax.KindPropertySignature,
		syntax.KindMethodSignature, syntax.KindMethodDefinition, syntax.KindAbstractMethodSignature,
		syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration, syntax.KindFunctionSignature,
		syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration, syntax.KindEnumDeclaration,
		syntax.KindEnumAssignment, syntax.KindIndexSignature, syntax.KindCallSignature, syntax.KindConstructSignature:
		return c.typeOfDecl(declRef{f, n})
	case syntax.KindTypeAliasDeclaration:
		return c.TypeOfTypeNode(f, n.ChildByField("value"))
	}
	return c.inferExpr(f, n)
}

// TypeOfTypeNode resolves a written type.
func (c *Checker) TypeOfTypeNode(f *syntax.File, n *syntax.Node) types.TypeID {
	if n == nil {
		return c.b.Any
	}
	return c.typeFromNode(f, n)
}

func (c *Checker) typeOfDecl(d declRef) types.TypeID {
	if id, ok := c.declTypes[d.node]; ok {
		return id
	}
	if c.inProgress[d.node] {
		return c.b.Any
	}
	c.inProgress[d.node] = true
	id := c.computeDeclType(d)
	delete(c.inProgress, d.node)
	c.declTypes[d.node] = id
	return id
}

func (c *Checker) computeDeclType(d declRef) types.TypeID {
	f, n := d.file, d.node
	switch n.Kind {
	case syntax.KindVariableDeclarator:
		if t := n.ChildByField("type"); t != nil {
			return c.typeFromNode(f, t)
		}
		if v := n.ChildByField("value"); v != nil {
			return c.inferExpr(f, v)
		}
		return c.b.Any

	case syntax.KindRequiredParameter, syntax.KindOptionalParameter:
		if t := n.ChildByField("type"); t != nil {
			return c.typeFromNode(f, t)
		}
		if v := n.ChildByField("value"); v != nil {
			return c.inferExpr(f, v)
		}
		if n.ChildByField("pattern").Is(syntax.KindRestPattern) {
			return c.types.Intern(types.MakeArray(c.b.Any))
		}
		return c.b.Any

	case syntax.KindPublicFieldDefinition, syntax.KindFieldDefinition, syntax.KindPropertySignature:
		var id types.TypeID
		switch {
		case n.ChildByField("type") != nil:
			id = c.typeFromNode(f, n.ChildByField("type"))
		case n.ChildByField("value") != nil:
			id = c.inferExpr(f, n.ChildByField("value"))
		default:
			id = c.b.Any
		}
		if n.HasToken("?") {
			id = c.types.RegisterUnion([]types.TypeID{id, c.b.Undefined})
		}
		return id

	case syntax.KindMethodSignature, syntax.KindMethodDefinition, syntax.KindAbstractMethodSignature,
		syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration, syntax.KindFunctionSignature,
		syntax.KindFunctionExpression, syntax.KindFunction, syntax.KindGeneratorFunction, syntax.KindArrowFunction,
		syntax.KindCallSignature, syntax.KindConstructSignature:
		return c.fnType(f, n)

	case syntax.KindIndexSignature:
		if t := n.ChildByField("type"); t != nil {
			return c.typeFromNode(f, t)
		}
		return c.b.Any

	case syntax.KindEnumAssignment, syntax.KindPropertyIdentifier:
		if n.Parent.Is(syntax.KindEnumBody) || n.Kind == syntax.KindEnumAssignment {
			return c.b.Number
		}

	case syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration, syntax.KindClass:
		return c.types.Intern(types.MakeUnsupported("typeof class"))

	case syntax.KindEnumDeclaration:
		return c.types.Intern(types.MakeUnsupported("typeof enum"))

	case syntax.KindInternalModule, syntax.KindModule:
		return c.types.Intern(types.MakeUnsupported("typeof namespace"))
	}
	return c.b.Any
}

func (c *Checker) fnType(f *syntax.File, n *syntax.Node) types.TypeID {
	sig := c.Signature(f, n)
	info := types.FnInfo{
		Result:    sig.Result,
		This:      sig.This,
		Construct: n.Kind == syntax.KindConstructSignature,
	}
	for _, p := range sig.Params {
		info.Params = append(info.Params, types.Param{Name: p.Name, Type: p.Type, Optional: p.Optional, Rest: p.Rest})
	}
	return c.types.RegisterFn(info)
}

func unquote(s string) string {
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// PropertyName returns the name a member is declared under: identifiers
// verbatim, string literal names unquoted. Computed names give "".
func PropertyName(f *syntax.File, n *syntax.Node) string {
	name := n.ChildByField("name")
	if name == nil {
		return ""
	}
	switch name.Kind {
	case syntax.KindPropertyIdentifier, syntax.KindIdentifier, syntax.KindTypeIdentifier,
		syntax.KindPrivatePropertyIdentifier:
		return f.Text(name)
	case syntax.KindString:
		return unquote(f.Text(name))
	}
	return ""
}
