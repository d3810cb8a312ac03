package externalapi

// DifficultyWindowEntry is a single sample in a difficulty window: the
// timestamp of a block, the difficulty it was mined at and the
// proof-of-work algorithm it was mined with. Entries are ordered
// oldest-first.
type DifficultyWindowEntry struct {
	Timestamp    int64
	Difficulty   uint64
	PowAlgorithm PowAlgorithm
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = DifficultyWindowEntry{0, 0, PowSha3}

// Equal returns whether entry equals to other
func (entry *DifficultyWindowEntry) Equal(other *DifficultyWindowEntry) bool {
	if entry == nil || other == nil {
		return entry == other
	}

	if entry.Timestamp != other.Timestamp {
		return false
	}

	if entry.Difficulty != other.Difficulty {
		return false
	}

	if entry.PowAlgorithm != other.PowAlgorithm {
		return false
	}

	return true
}

// Clone returns a clone of DifficultyWindowEntry
func (entry *DifficultyWindowEntry) Clone() *DifficultyWindowEntry {
	return &DifficultyWindowEntry{
		Timestamp:    entry.Timestamp,
		Difficulty:   entry.Difficulty,
		PowAlgorithm: entry.PowAlgorithm,
	}
}

// DifficultyWindow is a bounded, oldest-first sequence of recent-chain
// samples. The chain maintains the window; the difficulty engine only
// ever reads it, filtering by algorithm where it needs to.
type DifficultyWindow []*DifficultyWindowEntry

// Clone returns a clone of DifficultyWindow
func (dw DifficultyWindow) Clone() DifficultyWindow {
	clone := make(DifficultyWindow, len(dw))
	for i, entry := range dw {
		clone[i] = entry.Clone()
	}
	return clone
}

// Equal returns whether dw equals to other
func (dw DifficultyWindow) Equal(other DifficultyWindow) bool {
	if len(dw) != len(other) {
		return false
	}

	for i, entry := range dw {
		if !entry.Equal(other[i]) {
			return false
		}
	}
	return true
}
