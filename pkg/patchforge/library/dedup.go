package library

import (
	"context"

	"patchforge/pkg/patchforge/identity"
)

// RemoveDuplicates scans for patches sharing a content identity and removes
// the extras, keeping the earliest-inserted of each group. Returns the
// number of patches removed. Cancellation is checked between identity
// groups; already removed extras stay removed.
func (db *Database) RemoveDuplicates(ctx context.Context) (int, error) {
	groups := make(map[identity.ID][]*Patch)
	for _, p := range db.patches {
		groups[p.Identity] = append(groups[p.Identity], p)
	}

	removed := 0
	for id, group := range groups {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if len(group) < 2 {
			continue
		}

		keep := group[0]
		for _, p := range group[1:] {
			if p.seq < keep.seq {
				keep = p
			}
		}
		for _, p := range group {
			if p != keep {
				db.remove(p)
				removed++
			}
		}
		// remove() drops the identity index entry when it points at the
		// removed key; repoint it at the keeper.
		db.byIdentity[id] = keep.Key
	}
	return removed, nil
}
