package domain

// BlockingLookup is the capability the occupancy grid and the pathfinder
// use to ask the entity store about an occupant's collidable attribute.
// ok is false when the occupant has none, in which case it never blocks.
type BlockingLookup interface {
	BlockingCost(id EntityID) (cost int, ok bool)
}

// BlockingFunc adapts a plain function to BlockingLookup.
type BlockingFunc func(id EntityID) (int, bool)

func (f BlockingFunc) BlockingCost(id EntityID) (int, bool) {
	return f(id)
}

// NoBlocking reports no collidable attribute for any occupant.
var NoBlocking BlockingLookup = BlockingFunc(func(EntityID) (int, bool) { return 0, false })

// IsImpassable applies the sentinel check to a single occupant.
func IsImpassable(lookup BlockingLookup, id EntityID) bool {
	if lookup == nil {
		return false
	}
	cost, ok := lookup.BlockingCost(id)
	return ok && cost == Impassable
}
