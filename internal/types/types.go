package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindAny
	KindUnknown
	KindNever
	KindVoid
	KindUndefined
	KindNull
	KindString
	KindNumber
	KindBoolean
	KindBigInt
	KindSymbol
	KindObject // the `object` keyword
	KindLiteral
	KindArray
	KindTuple
	KindUnion
	KindIntersection
	KindFn
	KindRecord
	KindNamed
	KindTypeParam
	KindThis
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindAny:
		return "any"
	case KindUnknown:
		return "unknown"
	case KindNever:
		return "never"
	case KindVoid:
		return "void"
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindBigInt:
		return "bigint"
	case KindSymbol:
		return "symbol"
	case KindObject:
		return "object"
	case KindLiteral:
		return "literal"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	case KindFn:
		return "fn"
	case KindRecord:
		return "record"
	case KindNamed:
		return "named"
	case KindTypeParam:
		return "type parameter"
	case KindThis:
		return "this"
	case KindUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // array element; widened primitive of a literal
	Payload uint32 // slot in the kind-specific side table
	Text    string // literal spelling, type parameter name, unsupported reason
}

// MakeArray describes T[].
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}

// MakeTypeParam describes a reference to a type parameter in scope.
func MakeTypeParam(name string) Type {
	return Type{Kind: KindTypeParam, Text: name}
}

// MakeUnsupported describes a construct the resolver cannot model.
func MakeUnsupported(reason string) Type {
	return Type{Kind: KindUnsupported, Text: reason}
}
