package types

import "slices"

// DeclKind tells what a named type refers to.
type DeclKind uint8

const (
	// DeclExternal is a name with no declaration in the program (lib types, globals).
	DeclExternal DeclKind = iota
	DeclClass
	DeclInterface
	DeclEnum
)

func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclInterface:
		return "interface"
	case DeclEnum:
		return "enum"
	}
	return "external"
}

// NamedInfo describes a nominal reference such as `Foo` or `ns.Bar<T>`.
type NamedInfo struct {
	Name string
	Decl DeclKind
	Args []TypeID
}

// RegisterNamed creates or finds a named type reference.
func (in *Interner) RegisterNamed(name string, decl DeclKind, args []TypeID) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindNamed {
			continue
		}
		info := in.nameds[tt.Payload]
		if info.Name == name && info.Decl == decl && slices.Equal(info.Args, args) {
			return id
		}
	}
	in.nameds = append(in.nameds, NamedInfo{Name: name, Decl: decl, Args: cloneTypeArgs(args)})
	return in.internRaw(Type{Kind: KindNamed, Payload: slotOf(len(in.nameds) - 1)})
}

// NamedInfo returns metadata for a named TypeID.
func (in *Interner) NamedInfo(id TypeID) (*NamedInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNamed || int(tt.Payload) >= len(in.nameds) {
		return nil, false
	}
	return &in.nameds[tt.Payload], true
}
