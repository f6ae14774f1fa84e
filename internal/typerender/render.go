// Package typerender prints resolved types in the Closure type grammar.
package typerender

import (
	"regexp"
	"strings"

	"github.com/Feiyang1/tsickle/internal/syntax"
	"github.com/Feiyang1/tsickle/internal/types"
)

// Unknown is the marker rendered for any type that cannot be expressed.
const Unknown = "?"

// Renderer turns TypeIDs into annotation text.
type Renderer struct {
	Types   *types.Interner
	Untyped bool
	// Warn receives advisory messages when a type degrades to Unknown.
	Warn func(at *syntax.Node, msg string)

	visiting map[types.TypeID]bool
}

// New creates a renderer over in.
func New(in *types.Interner, untyped bool, warn func(at *syntax.Node, msg string)) *Renderer {
	return &Renderer{Types: in, Untyped: untyped, Warn: warn}
}

// Render prints t. destructuring forces a non-null rendering of named and
// record types. The result is never empty.
func (r *Renderer) Render(t types.TypeID, at *syntax.Node, destructuring bool) string {
	if r.Untyped {
		return Unknown
	}
	if r.visiting == nil {
		r.visiting = make(map[types.TypeID]bool)
	}
	out := r.render(t, at)
	if destructuring && (strings.HasPrefix(out, "{") || isName(out)) {
		out = "!" + out
	}
	if out == "" {
		return Unknown
	}
	return out
}

var identRe = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

func isName(s string) bool {
	if s == Unknown || strings.HasPrefix(s, "!") || strings.HasPrefix(s, "(") || strings.HasPrefix(s, "function(") {
		return false
	}
	switch s {
	case "string", "number", "boolean", "symbol", "void", "undefined", "null":
		return false
	}
	head, _, _ := strings.Cut(s, "<")
	for _, part := range strings.Split(head, ".") {
		if !identRe.MatchString(part) {
			return false
		}
	}
	return true
}

func (r *Renderer) warn(at *syntax.Node, msg string) {
	if r.Warn != nil {
		r.Warn(at, msg)
	}
}

func (r *Renderer) render(id types.TypeID, at *syntax.Node) string {
	t, ok := r.Types.Lookup(id)
	if !ok {
		return Unknown
	}
	if r.visiting[id] {
		r.warn(at, "circular type")
		return Unknown
	}
	r.visiting[id] = true
	defer delete(r.visiting, id)

	switch t.Kind {
	case types.KindAny, types.KindUnknown, types.KindNever, types.KindThis:
		return Unknown
	case types.KindTypeParam:
		r.warn(at, "type parameter "+t.Text+" rendered as ?")
		return Unknown
	case types.KindBigInt:
		r.warn(at, "bigint has no annotation form")
		return Unknown
	case types.KindUnsupported:
		r.warn(at, "unhandled type: "+t.Text)
		return Unknown
	case types.KindVoid:
		return "void"
	case types.KindUndefined:
		return "undefined"
	case types.KindNull:
		return "null"
	case types.KindString:
		return "string"
	case types.KindNumber:
		return "number"
	case types.KindBoolean:
		return "boolean"
	case types.KindSymbol:
		return "symbol"
	case types.KindObject:
		return "!Object"
	case types.KindLiteral:
		return r.render(t.Elem, at)
	case types.KindArray:
		return "!Array<" + r.render(t.Elem, at) + ">"
	case types.KindTuple:
		return r.tuple(id, at)
	case types.KindUnion:
		return r.union(id, at)
	case types.KindIntersection:
		r.warn(at, "intersection type rendered as ?")
		return Unknown
	case types.KindFn:
		return r.fn(id, at)
	case types.KindRecord:
		return r.record(id, at)
	case types.KindNamed:
		return r.named(id, at)
	}
	return Unknown
}

// tuple renders [T, T] as !Array<T>; mixed element types give !Array<?>.
func (r *Renderer) tuple(id types.TypeID, at *syntax.Node) string {
	info, ok := r.Types.TupleInfo(id)
	if !ok || len(info.Elems) == 0 {
		return "!Array<?>"
	}
	for _, e := range info.Elems[1:] {
		if e != info.Elems[0] {
			return "!Array<?>"
		}
	}
	return "!Array<" + r.render(info.Elems[0], at) + ">"
}

func (r *Renderer) union(id types.TypeID, at *syntax.Node) string {
	info, _ := r.Types.UnionInfo(id)
	var parts []string
	seen := make(map[string]bool, len(info.Members))
	for _, m := range info.Members {
		s := r.render(m, at)
		if seen[s] {
			continue
		}
		seen[s] = true
		parts = append(parts, s)
	}
	switch len(parts) {
	case 0:
		return Unknown
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, "|") + ")"
}

func (r *Renderer) fn(id types.TypeID, at *syntax.Node) string {
	info, _ := r.Types.FnInfo(id)
	var params []string
	if info.Construct {
		params = append(params, "new:"+r.render(info.Result, at))
	} else if info.This != types.NoTypeID {
		params = append(params, "this:"+r.render(info.This, at))
	}
	for _, p := range info.Params {
		switch {
		case p.Rest:
			params = append(params, "..."+r.render(r.RestElement(p.Type), at))
		case p.Optional:
			params = append(params, r.render(p.Type, at)+"=")
		default:
			params = append(params, r.render(p.Type, at))
		}
	}
	result := Unknown
	if !info.Construct {
		result = r.render(info.Result, at)
	}
	return "function(" + strings.Join(params, ", ") + "): " + result
}

// RestElement unwraps the container type of a rest parameter.
func (r *Renderer) RestElement(id types.TypeID) types.TypeID {
	if t, ok := r.Types.Lookup(id); ok && t.Kind == types.KindArray {
		return t.Elem
	}
	return r.Types.Builtins().Any
}

func (r *Renderer) record(id types.TypeID, at *syntax.Node) string {
	info, _ := r.Types.RecordInfo(id)
	if len(info.Calls) > 0 || len(info.Constructs) > 0 {
		return Unknown
	}
	if len(info.Props) == 0 {
		switch {
		case info.StringIndex != types.NoTypeID:
			return "!Object<string," + r.render(info.StringIndex, at) + ">"
		case info.NumberIndex != types.NoTypeID:
			return "!Object<number," + r.render(info.NumberIndex, at) + ">"
		}
		return "!Object"
	}
	fields := make([]string, 0, len(info.Props))
	for _, p := range info.Props {
		if !identRe.MatchString(p.Name) {
			r.warn(at, "property name "+p.Name+" has no annotation form")
			return Unknown
		}
		fields = append(fields, p.Name+": "+r.render(p.Type, at))
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

func (r *Renderer) named(id types.TypeID, at *syntax.Node) string {
	info, _ := r.Types.NamedInfo(id)
	if info.Decl == types.DeclEnum {
		return "number"
	}
	if len(info.Args) == 0 {
		return info.Name
	}
	args := make([]string, 0, len(info.Args))
	for _, a := range info.Args {
		args = append(args, r.render(a, at))
	}
	return info.Name + "<" + strings.Join(args, ", ") + ">"
}
