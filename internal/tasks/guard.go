package tasks

// DuplicateGuard tracks which remote track ids are already present in one
// playlist during the current run: the remote pre-existing ids plus ids
// successfully added so far. Attempted or failed adds never enter the set.
//
// Scoped to a single playlist's processing and discarded after.
type DuplicateGuard struct {
	known           map[string]struct{}
	allowDuplicates bool
}

// NewDuplicateGuard creates a guard seeded with the playlist's current
// remote track ids. Seed is empty for a newly created playlist.
func NewDuplicateGuard(seed []string, allowDuplicates bool) *DuplicateGuard {
	known := make(map[string]struct{}, len(seed))
	for _, id := range seed {
		known[id] = struct{}{}
	}
	return &DuplicateGuard{known: known, allowDuplicates: allowDuplicates}
}

// IsDuplicate reports whether the id is already known to the playlist.
// Always false when duplicates are allowed: the flag disables filtering,
// not bookkeeping.
func (g *DuplicateGuard) IsDuplicate(id string) bool {
	if g.allowDuplicates {
		return false
	}
	_, ok := g.known[id]
	return ok
}

// RecordAdded marks an id as present after a successful add. Updates the
// set even when duplicates are allowed.
func (g *DuplicateGuard) RecordAdded(id string) {
	g.known[id] = struct{}{}
}

// Known returns the number of ids currently tracked.
func (g *DuplicateGuard) Known() int {
	return len(g.known)
}
