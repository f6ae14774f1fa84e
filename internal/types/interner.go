package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid   TypeID
	Any       TypeID
	Unknown   TypeID
	Never     TypeID
	Void      TypeID
	Undefined TypeID
	Null      TypeID
	String    TypeID
	Number    TypeID
	Boolean   TypeID
	BigInt    TypeID
	Symbol    TypeID
	Object    TypeID
	This      TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Not safe for concurrent use; each checker owns one.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
	fns      []FnInfo
	unions   []UnionInfo
	tuples   []TupleInfo
	records  []RecordInfo
	nameds   []NamedInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 64),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Any = in.Intern(Type{Kind: KindAny})
	in.builtins.Unknown = in.Intern(Type{Kind: KindUnknown})
	in.builtins.Never = in.Intern(Type{Kind: KindNever})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Undefined = in.Intern(Type{Kind: KindUndefined})
	in.builtins.Null = in.Intern(Type{Kind: KindNull})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Number = in.Intern(Type{Kind: KindNumber})
	in.builtins.Boolean = in.Intern(Type{Kind: KindBoolean})
	in.builtins.BigInt = in.Intern(Type{Kind: KindBigInt})
	in.builtins.Symbol = in.Intern(Type{Kind: KindSymbol})
	in.builtins.Object = in.Intern(Type{Kind: KindObject})
	in.builtins.This = in.Intern(Type{Kind: KindThis})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// Literal interns a literal type whose widened form is base.
func (in *Interner) Literal(base TypeID, spelling string) TypeID {
	return in.Intern(Type{Kind: KindLiteral, Elem: base, Text: spelling})
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

func slotOf(n int) uint32 {
	slot, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("type side table overflow: %w", err))
	}
	return slot
}

func cloneTypeArgs(args []TypeID) []TypeID {
	if len(args) == 0 {
		return nil
	}
	out := make([]TypeID, len(args))
	copy(out, args)
	return out
}
