package types

// Prop is one named member of an object type.
type Prop struct {
	Name     string
	Type     TypeID
	Optional bool
}

// RecordInfo describes an anonymous object type (`{a: T}`).
type RecordInfo struct {
	Props       []Prop
	StringIndex TypeID
	NumberIndex TypeID
	Calls       []TypeID // call signatures, as KindFn types
	Constructs  []TypeID // construct signatures, as KindFn types
}

// RegisterRecord allocates an object type.
func (in *Interner) RegisterRecord(info RecordInfo) TypeID {
	props := make([]Prop, len(info.Props))
	copy(props, info.Props)
	info.Props = props
	info.Calls = cloneTypeArgs(info.Calls)
	info.Constructs = cloneTypeArgs(info.Constructs)
	in.records = append(in.records, info)
	return in.internRaw(Type{Kind: KindRecord, Payload: slotOf(len(in.records) - 1)})
}

// RecordInfo returns metadata for a record TypeID.
func (in *Interner) RecordInfo(id TypeID) (*RecordInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindRecord || int(tt.Payload) >= len(in.records) {
		return nil, false
	}
	return &in.records[tt.Payload], true
}
