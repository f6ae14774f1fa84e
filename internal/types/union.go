package types

// UnionInfo stores the members of a union or intersection type.
type UnionInfo struct {
	Members []TypeID
}

// RegisterUnion returns a union of members. Nested unions are flattened and
// duplicate member ids dropped; a single member is returned as-is.
func (in *Interner) RegisterUnion(members []TypeID) TypeID {
	return in.registerComposite(KindUnion, members)
}

// RegisterIntersection returns an intersection of members.
func (in *Interner) RegisterIntersection(members []TypeID) TypeID {
	return in.registerComposite(KindIntersection, members)
}

func (in *Interner) registerComposite(kind Kind, members []TypeID) TypeID {
	flat := make([]TypeID, 0, len(members))
	seen := make(map[TypeID]struct{}, len(members))
	var add func(id TypeID)
	add = func(id TypeID) {
		if id == NoTypeID {
			return
		}
		if tt, ok := in.Lookup(id); ok && tt.Kind == kind {
			for _, m := range in.unions[tt.Payload].Members {
				add(m)
			}
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		flat = append(flat, id)
	}
	for _, m := range members {
		add(m)
	}
	switch len(flat) {
	case 0:
		return in.builtins.Never
	case 1:
		return flat[0]
	}
	in.unions = append(in.unions, UnionInfo{Members: flat})
	return in.internRaw(Type{Kind: kind, Payload: slotOf(len(in.unions) - 1)})
}

// UnionInfo returns metadata for a union or intersection TypeID.
func (in *Interner) UnionInfo(id TypeID) (*UnionInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || (tt.Kind != KindUnion && tt.Kind != KindIntersection) || int(tt.Payload) >= len(in.unions) {
		return nil, false
	}
	return &in.unions[tt.Payload], true
}
