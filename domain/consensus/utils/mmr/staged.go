package mmr

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
)

type stagedPeak struct {
	height uint64
	hash   *externalapi.DomainHash
}

// StagedAccumulator stages speculative appends on top of a snapshot
// without touching the accumulator the snapshot was taken from. It
// keeps only the peak stack, so staging is cheap no matter how large
// the underlying accumulator is. Validation stages a candidate block's
// outputs, compares the staged root against the one the block declares,
// and either discards the staging or commits it.
//
// A StagedAccumulator is not safe for concurrent use.
type StagedAccumulator struct {
	// peaks is ordered leftmost (highest) first, like a peak list.
	peaks          []stagedPeak
	leafCount      uint64
	baseLeafCount  uint64
	stagedContents [][]byte
}

// NewStaged returns a staged accumulator on top of the given snapshot.
func NewStaged(snapshot *Snapshot) *StagedAccumulator {
	// The peak heights are the set bits of the leaf count, highest
	// first, matching the order of the snapshot's peak list.
	peaks := make([]stagedPeak, 0, len(snapshot.peaks))
	peakIndex := 0
	for height := 63; height >= 0; height-- {
		if snapshot.leafCount&(1<<uint(height)) == 0 {
			continue
		}
		peaks = append(peaks, stagedPeak{height: uint64(height), hash: snapshot.peaks[peakIndex]})
		peakIndex++
	}

	return &StagedAccumulator{
		peaks:         peaks,
		leafCount:     snapshot.leafCount,
		baseLeafCount: snapshot.leafCount,
	}
}

// Append stages a leaf committing to leafContent and returns the index
// it would be assigned on commit.
func (sa *StagedAccumulator) Append(leafContent []byte) uint64 {
	sa.pushLeaf(hashLeaf(leafContent))

	contentClone := make([]byte, len(leafContent))
	copy(contentClone, leafContent)
	sa.stagedContents = append(sa.stagedContents, contentClone)

	leafIndex := sa.leafCount
	sa.leafCount++
	return leafIndex
}

func (sa *StagedAccumulator) pushLeaf(leafHash *externalapi.DomainHash) {
	sa.peaks = append(sa.peaks, stagedPeak{height: 0, hash: leafHash})

	// Merge while the two rightmost peaks are of equal height, exactly
	// like binary increment carries.
	for len(sa.peaks) >= 2 {
		left := sa.peaks[len(sa.peaks)-2]
		right := sa.peaks[len(sa.peaks)-1]
		if left.height != right.height {
			break
		}
		sa.peaks = sa.peaks[:len(sa.peaks)-2]
		sa.peaks = append(sa.peaks, stagedPeak{
			height: left.height + 1,
			hash:   hashInternalNode(left.hash, right.hash),
		})
	}
}

// Root returns the root the accumulator would have after committing the
// staged appends.
func (sa *StagedAccumulator) Root() *externalapi.DomainHash {
	peaks := make([]*externalapi.DomainHash, len(sa.peaks))
	for i, peak := range sa.peaks {
		peaks[i] = peak.hash
	}
	return BagPeaks(peaks)
}

// LeafCount returns the leaf count the accumulator would have after
// committing the staged appends.
func (sa *StagedAccumulator) LeafCount() uint64 {
	return sa.leafCount
}

// StagedLeafCount returns the number of staged appends.
func (sa *StagedAccumulator) StagedLeafCount() int {
	return len(sa.stagedContents)
}

// Commit replays the staged appends onto the given accumulator. It
// fails without modifying anything if the accumulator has advanced
// since the snapshot this staging was built on was taken.
func (sa *StagedAccumulator) Commit(accumulator *Accumulator) error {
	return accumulator.commitStaged(sa)
}
