package mmr

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
)

// Snapshot is an immutable copy-on-write view of an accumulator at the
// moment it was taken. Taking one copies only the peak list, so it is
// cheap regardless of the accumulator's size, and later appends or
// prunes to the live accumulator never show through it.
type Snapshot struct {
	peaks     []*externalapi.DomainHash
	leafCount uint64
}

// Snapshot returns a point-in-time view of the accumulator.
func (a *Accumulator) Snapshot() *Snapshot {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return &Snapshot{
		peaks:     a.peaksNoLock(),
		leafCount: a.leafCount,
	}
}

// Root returns the accumulator root at the time the snapshot was taken.
func (s *Snapshot) Root() *externalapi.DomainHash {
	return BagPeaks(s.peaks)
}

// LeafCount returns the leaf count at the time the snapshot was taken.
func (s *Snapshot) LeafCount() uint64 {
	return s.leafCount
}

// Peaks returns a copy of the snapshot's peak list, highest peak first.
func (s *Snapshot) Peaks() []*externalapi.DomainHash {
	return externalapi.CloneHashes(s.peaks)
}
