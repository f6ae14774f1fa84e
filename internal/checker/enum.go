package checker

import (
	"math"
	"strconv"
	"strings"

	"github.com/Feiyang1/tsickle/internal/syntax"
)

// EnumMember is one member of an enum body, in declaration order.
type EnumMember struct {
	Node *syntax.Node
	Name string
	Init *syntax.Node // nil without an initializer
	// Value is the compile-time numeric value; Constant is false when the
	// initializer cannot be evaluated.
	Value    float64
	Constant bool
}

// EnumMembers lists the members of decl with their computed values.
func (c *Checker) EnumMembers(f *syntax.File, decl *syntax.Node) []EnumMember {
	body := decl.ChildByField("body")
	var out []EnumMember
	for _, m := range body.NamedChildren() {
		em := EnumMember{Node: m}
		switch m.Kind {
		case syntax.KindEnumAssignment:
			em.Name = enumMemberName(f, m.ChildByField("name"))
			em.Init = m.ChildByField("value")
		case syntax.KindPropertyIdentifier, syntax.KindIdentifier, syntax.KindString:
			em.Name = enumMemberName(f, m)
		default:
			continue
		}
		em.Value, em.Constant = c.ConstantValue(f, m)
		out = append(out, em)
	}
	return out
}

func enumMemberName(f *syntax.File, n *syntax.Node) string {
	if n.Is(syntax.KindString) {
		return unquote(f.Text(n))
	}
	return f.Text(n)
}

// ConstantValue returns the numeric value of an enum member. Members
// without an initializer take the previous value plus one.
func (c *Checker) ConstantValue(f *syntax.File, member *syntax.Node) (float64, bool) {
	decl := member.Ancestor(syntax.KindEnumDeclaration)
	if decl == nil {
		return 0, false
	}
	table, ok := c.enums[decl]
	if !ok {
		table = c.buildEnumTable(f, decl)
		c.enums[decl] = table
	}
	v, ok := table[member]
	return v.value, ok && v.ok
}

func (c *Checker) buildEnumTable(f *syntax.File, decl *syntax.Node) map[*syntax.Node]enumValue {
	table := make(map[*syntax.Node]enumValue)
	byName := make(map[string]enumValue)
	enumName := f.NameOf(decl)
	next := enumValue{value: 0, ok: true}
	for _, m := range decl.ChildByField("body").NamedChildren() {
		var v enumValue
		switch m.Kind {
		case syntax.KindEnumAssignment:
			val, ok := evalConst(f, m.ChildByField("value"), enumName, byName)
			v = enumValue{value: val, ok: ok}
			if ok {
				next = enumValue{value: val + 1, ok: true}
			} else {
				next = enumValue{value: next.value + 1, ok: next.ok}
			}
			byName[enumMemberName(f, m.ChildByField("name"))] = v
		case syntax.KindPropertyIdentifier, syntax.KindIdentifier, syntax.KindString:
			v = next
			next = enumValue{value: next.value + 1, ok: next.ok}
			byName[enumMemberName(f, m)] = v
		default:
			continue
		}
		table[m] = v
	}
	return table
}

// evalConst folds a numeric constant expression. References to earlier
// members of the same enum are allowed, bare or qualified.
func evalConst(f *syntax.File, n *syntax.Node, enumName string, members map[string]enumValue) (float64, bool) {
	if n == nil {
		return 0, false
	}
	switch n.Kind {
	case syntax.KindNumber:
		return parseNumber(f.Text(n))

	case syntax.KindParenthesizedExpression:
		inner := n.NamedChildren()
		if len(inner) != 1 {
			return 0, false
		}
		return evalConst(f, inner[0], enumName, members)

	case syntax.KindIdentifier:
		v, ok := members[f.Text(n)]
		return v.value, ok && v.ok

	case syntax.KindMemberExpression:
		obj := n.ChildByField("object")
		if !obj.Is(syntax.KindIdentifier) || f.Text(obj) != enumName {
			return 0, false
		}
		v, ok := members[f.Text(n.ChildByField("property"))]
		return v.value, ok && v.ok

	case syntax.KindUnaryExpression:
		x, ok := evalConst(f, n.ChildByField("argument"), enumName, members)
		op := n.ChildByField("operator")
		if !ok || op == nil {
			return 0, false
		}
		switch op.Symbol {
		case "-":
			return -x, true
		case "+":
			return x, true
		case "~":
			return float64(^toInt32(x)), true
		}
		return 0, false

	case syntax.KindBinaryExpression:
		l, lok := evalConst(f, n.ChildByField("left"), enumName, members)
		r, rok := evalConst(f, n.ChildByField("right"), enumName, members)
		op := n.ChildByField("operator")
		if !lok || !rok || op == nil {
			return 0, false
		}
		return foldBinary(op.Symbol, l, r)
	}
	return 0, false
}

func foldBinary(op string, l, r float64) (float64, bool) {
	switch op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		return l / r, true
	case "%":
		return math.Mod(l, r), true
	case "**":
		return math.Pow(l, r), true
	case "|":
		return float64(toInt32(l) | toInt32(r)), true
	case "&":
		return float64(toInt32(l) & toInt32(r)), true
	case "^":
		return float64(toInt32(l) ^ toInt32(r)), true
	case "<<":
		return float64(toInt32(l) << (uint32(toInt32(r)) & 31)), true
	case ">>":
		return float64(toInt32(l) >> (uint32(toInt32(r)) & 31)), true
	case ">>>":
		return float64(uint32(toInt32(l)) >> (uint32(toInt32(r)) & 31)), true
	}
	return 0, false
}

// toInt32 applies the ECMAScript ToInt32 conversion.
func toInt32(x float64) int32 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int32(uint32(int64(math.Trunc(math.Mod(x, 1<<32)))))
}

func parseNumber(text string) (float64, bool) {
	text = strings.ReplaceAll(text, "_", "")
	lower := strings.ToLower(text)
	for _, p := range []struct {
		prefix string
		base   int
	}{{"0x", 16}, {"0o", 8}, {"0b", 2}} {
		if strings.HasPrefix(lower, p.prefix) {
			v, err := strconv.ParseUint(lower[2:], p.base, 64)
			if err != nil {
				return 0, false
			}
			return float64(v), true
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatNumber prints an enum value the way a JavaScript engine would.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
