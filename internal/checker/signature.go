package checker

import (
	"strconv"

	"github.com/Feiyang1/tsickle/internal/syntax"
	"github.com/Feiyang1/tsickle/internal/types"
)

// Param is one declared parameter of a callable, in declaration order.
type Param struct {
	Node          *syntax.Node
	Name          string
	Type          types.TypeID // declared type; for rest parameters the container
	Optional      bool
	Rest          bool
	Destructuring bool
}

// Signature is the resolved call signature of a function-like declaration.
type Signature struct {
	Params      []Param
	This        types.TypeID // NoTypeID without an explicit `this` parameter
	Result      types.TypeID
	Constructor bool
}

// IsConstructor reports whether a class member declares the constructor.
func IsConstructor(f *syntax.File, n *syntax.Node) bool {
	if !n.Is(syntax.KindMethodDefinition, syntax.KindMethodSignature) {
		return false
	}
	name := n.ChildByField("name")
	if name == nil {
		return false
	}
	text := f.Text(name)
	return text == "constructor" || text == `"constructor"` || text == "'constructor'"
}

// Parameters returns the parameter nodes of a callable, comments excluded.
func Parameters(n *syntax.Node) []*syntax.Node {
	if single := n.ChildByField("parameter"); single != nil {
		return []*syntax.Node{single}
	}
	params := n.ChildByField("parameters")
	if params == nil {
		return nil
	}
	return params.NamedChildren()
}

// Signature resolves the call signature declared by fn.
func (c *Checker) Signature(f *syntax.File, fn *syntax.Node) Signature {
	sig := Signature{Constructor: IsConstructor(f, fn)}

	index := 0
	for _, p := range Parameters(fn) {
		switch p.Kind {
		case syntax.KindRequiredParameter, syntax.KindOptionalParameter:
		case syntax.KindIdentifier:
			// `x => ...`
			sig.Params = append(sig.Params, Param{Node: p, Name: f.Text(p), Type: c.b.Any})
			index++
			continue
		default:
			continue
		}
		pattern := p.ChildByField("pattern")
		if pattern.Is(syntax.KindThis) {
			sig.This = c.typeOfDecl(declRef{f, p})
			continue
		}
		param := Param{
			Node:     p,
			Type:     c.typeOfDecl(declRef{f, p}),
			Optional: p.Kind == syntax.KindOptionalParameter || p.ChildByField("value") != nil,
		}
		switch {
		case pattern.Is(syntax.KindRestPattern):
			param.Rest = true
			param.Name = restName(f, pattern)
		case pattern.Is(syntax.KindObjectPattern, syntax.KindArrayPattern):
			param.Destructuring = true
			param.Name = "__" + strconv.Itoa(index)
		default:
			param.Name = f.Text(pattern)
		}
		sig.Params = append(sig.Params, param)
		index++
	}

	if sig.Constructor {
		sig.Result = c.b.Void
		return sig
	}
	sig.Result = c.returnType(f, fn)
	return sig
}

func restName(f *syntax.File, rest *syntax.Node) string {
	for _, c := range rest.NamedChildren() {
		if c.Kind == syntax.KindIdentifier {
			return f.Text(c)
		}
	}
	return "args"
}

func (c *Checker) returnType(f *syntax.File, fn *syntax.Node) types.TypeID {
	if rt := fn.ChildByField("return_type"); rt != nil {
		switch rt.Kind {
		case syntax.KindTypePredicateAnnotation:
			return c.b.Boolean
		case syntax.KindAssertsAnnotation:
			return c.b.Void
		}
		return c.typeFromNode(f, rt)
	}
	if fn.Kind == syntax.KindConstructSignature {
		if t := fn.ChildByField("type"); t != nil {
			return c.typeFromNode(f, t)
		}
	}

	body := fn.ChildByField("body")
	if body == nil {
		return c.b.Any
	}
	if fn.HasToken("*") || fn.Is(syntax.KindGeneratorFunctionDeclaration, syntax.KindGeneratorFunction) {
		return c.types.Intern(types.MakeUnsupported("generator"))
	}

	var result types.TypeID
	if body.Kind != syntax.KindStatementBlock {
		result = c.inferExpr(f, body)
	} else {
		result = c.inferReturns(f, body)
	}
	if fn.HasToken("async") {
		result = c.types.RegisterNamed("Promise", types.DeclExternal, []types.TypeID{result})
	}
	return result
}

// inferReturns unions the types of every `return` in body, skipping nested functions.
func (c *Checker) inferReturns(f *syntax.File, body *syntax.Node) types.TypeID {
	var results []types.TypeID
	bare := false
	body.Walk(func(n *syntax.Node) bool {
		if n != body && isFunctionLike(n) {
			return false
		}
		if n.Kind != syntax.KindReturnStatement {
			return true
		}
		values := n.NamedChildren()
		if len(values) == 0 {
			bare = true
			return false
		}
		results = append(results, c.inferExpr(f, values[0]))
		return false
	})
	if len(results) == 0 {
		return c.b.Void
	}
	if bare {
		results = append(results, c.b.Undefined)
	}
	return c.types.RegisterUnion(results)
}

func isFunctionLike(n *syntax.Node) bool {
	return n.Is(syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDeclaration, syntax.KindFunctionExpression,
		syntax.KindFunction, syntax.KindGeneratorFunction, syntax.KindArrowFunction, syntax.KindMethodDefinition,
		syntax.KindClass, syntax.KindClassDeclaration, syntax.KindAbstractClassDeclaration)
}
