package types

// Param is one declared parameter of a function type.
type Param struct {
	Name     string
	Type     TypeID // for rest parameters, the declared container type
	Optional bool
	Rest     bool
}

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params    []Param
	Result    TypeID
	Construct bool   // `new (...) => T`
	This      TypeID // explicit `this:` parameter, NoTypeID when absent
}

// RegisterFn allocates a function type.
func (in *Interner) RegisterFn(info FnInfo) TypeID {
	params := make([]Param, len(info.Params))
	copy(params, info.Params)
	info.Params = params
	in.fns = append(in.fns, info)
	return in.internRaw(Type{Kind: KindFn, Payload: slotOf(len(in.fns) - 1)})
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}
