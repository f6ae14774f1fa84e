package types

// TupleInfo stores the element types for a tuple type.
type TupleInfo struct {
	Elems []TypeID
}

// RegisterTuple creates a tuple type with the given elements.
func (in *Interner) RegisterTuple(elems []TypeID) TypeID {
	in.tuples = append(in.tuples, TupleInfo{Elems: cloneTypeArgs(elems)})
	return in.internRaw(Type{Kind: KindTuple, Payload: slotOf(len(in.tuples) - 1)})
}

// TupleInfo returns the element types for a tuple TypeID.
func (in *Interner) TupleInfo(id TypeID) (*TupleInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTuple || int(tt.Payload) >= len(in.tuples) {
		return nil, false
	}
	return &in.tuples[tt.Payload], true
}
