// Package mmr implements the prunable output accumulator. The
// accumulator is a merkle mountain range: an append-only forest of
// complete binary trees over the chain's output commitments, stored as
// a flat arena of hashes indexed by position. Appending is O(log n),
// a single root commits to the whole history, and any leaf can be
// proven against that root with a logarithmic path. Spent leaves are
// pruned: their content is forgotten while their position keeps
// supporting the proofs of every other leaf.
package mmr

import (
	"sync"

	"github.com/RoaringBitmap/roaring/roaring64"
	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/hashes"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/multiset"
	"github.com/pkg/errors"
)

// Accumulator is the mutable accumulator. It is safe for concurrent
// use: reads take a shared lock and Append, Prune and staged commits
// take an exclusive one. Writers are expected to be serialized by the
// consensus facade on top of that.
type Accumulator struct {
	mutex sync.RWMutex

	// nodes is the arena. A nil entry is a node whose hash was not
	// restored, which only happens when the accumulator is rebuilt
	// from a peaks-only state.
	nodes        []*externalapi.DomainHash
	leafCount    uint64
	deleted      *roaring64.Bitmap
	prunedLeaves model.Multiset
}

// New returns an empty accumulator.
func New() *Accumulator {
	return &Accumulator{
		deleted:      roaring64.New(),
		prunedLeaves: multiset.New(),
	}
}

func hashLeaf(leafContent []byte) *externalapi.DomainHash {
	writer := hashes.NewLeafHashWriter()
	writer.InfallibleWrite(leafContent)
	return writer.Finalize()
}

func hashInternalNode(left, right *externalapi.DomainHash) *externalapi.DomainHash {
	writer := hashes.NewInternalNodeHashWriter()
	writer.InfallibleWrite(left.ByteSlice())
	writer.InfallibleWrite(right.ByteSlice())
	return writer.Finalize()
}

// Append adds a leaf committing to leafContent and returns the index
// the leaf was assigned. Leaf indexes are dense and never reused.
func (a *Accumulator) Append(leafContent []byte) uint64 {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.appendNoLock(leafContent)
}

func (a *Accumulator) appendNoLock(leafContent []byte) uint64 {
	leafIndex := a.leafCount
	a.nodes = append(a.nodes, hashLeaf(leafContent))
	a.leafCount++

	// Close every subtree the new leaf completes. The next index
	// belongs to a parent exactly while its height exceeds the height
	// we already merged to.
	i := uint64(len(a.nodes))
	height := uint64(0)
	for IndexHeight(i) > height {
		iLeft := i - (2 << height)
		iRight := i - 1
		a.nodes = append(a.nodes, hashInternalNode(a.nodes[iLeft], a.nodes[iRight]))
		i++
		height++
	}
	return leafIndex
}

// LeafCount returns the number of leaves ever appended, including
// pruned ones.
func (a *Accumulator) LeafCount() uint64 {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.leafCount
}

// PrunedLeafCount returns the number of leaves that were pruned.
func (a *Accumulator) PrunedLeafCount() uint64 {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.deleted.GetCardinality()
}

// Root returns the single hash committing to the entire accumulator.
// An empty accumulator has a fixed, well-known root.
func (a *Accumulator) Root() *externalapi.DomainHash {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return BagPeaks(a.peaksNoLock())
}

func (a *Accumulator) peaksNoLock() []*externalapi.DomainHash {
	positions := PosPeaks(uint64(len(a.nodes)))
	peaks := make([]*externalapi.DomainHash, len(positions))
	for i, position := range positions {
		peaks[i] = a.nodes[position-1]
	}
	return peaks
}

// Nodes returns a copy of the node arena.
func (a *Accumulator) Nodes() []*externalapi.DomainHash {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	nodes := make([]*externalapi.DomainHash, len(a.nodes))
	copy(nodes, a.nodes)
	return nodes
}

// Prove returns an inclusion proof for the given leaf. It returns
// ErrLeafOutOfRange if the leaf was never appended and ErrLeafPruned
// if it was pruned.
func (a *Accumulator) Prove(leafIndex uint64) (*externalapi.InclusionProof, error) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	if leafIndex >= a.leafCount {
		return nil, errors.Wrapf(ErrLeafOutOfRange, "leaf index %d is not below the leaf count %d",
			leafIndex, a.leafCount)
	}
	if a.deleted.Contains(leafIndex) {
		return nil, errors.Wrapf(ErrLeafPruned, "leaf %d was pruned and can no longer be proven",
			leafIndex)
	}

	mmrSize := uint64(len(a.nodes))
	i := MMRIndex(leafIndex)
	heightIndex := uint64(0)
	var path []*externalapi.DomainHash
	for {
		var iSibling uint64
		if IndexHeight(i+1) > heightIndex {
			// i is a right child, so its sibling is behind it and its
			// parent is next.
			iSibling = i - SiblingOffset(heightIndex)
			i++
		} else {
			iSibling = i + SiblingOffset(heightIndex)
			i += 2 << heightIndex
		}
		if iSibling >= mmrSize {
			// i settled on the local peak.
			break
		}
		if a.nodes[iSibling] == nil {
			return nil, errors.Errorf("node %d of leaf %d's path was not restored, "+
				"so the proof cannot be assembled", iSibling, leafIndex)
		}
		path = append(path, a.nodes[iSibling])
		heightIndex++
	}

	return &externalapi.InclusionProof{
		Path:      path,
		Peaks:     a.peaksNoLock(),
		LeafCount: a.leafCount,
	}, nil
}

// Prune forgets the content of the given leaf. The leaf's node keeps
// its place in the arena, so the root and the proofs of all other
// leaves are unaffected.
func (a *Accumulator) Prune(leafIndex uint64) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if leafIndex >= a.leafCount {
		return errors.Wrapf(ErrLeafOutOfRange, "leaf index %d is not below the leaf count %d",
			leafIndex, a.leafCount)
	}
	if a.deleted.Contains(leafIndex) {
		return errors.Wrapf(ErrLeafAlreadyPruned, "leaf %d was already pruned", leafIndex)
	}
	leafNode := a.nodes[MMRIndex(leafIndex)]
	if leafNode == nil {
		return errors.Errorf("leaf %d's node was not restored, so it cannot be pruned", leafIndex)
	}

	a.deleted.Add(leafIndex)
	a.prunedLeaves.Add(leafNode.ByteSlice())
	return nil
}

// IsPruned returns whether the given leaf was pruned. It returns
// ErrLeafOutOfRange if the leaf was never appended.
func (a *Accumulator) IsPruned(leafIndex uint64) (bool, error) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	if leafIndex >= a.leafCount {
		return false, errors.Wrapf(ErrLeafOutOfRange, "leaf index %d is not below the leaf count %d",
			leafIndex, a.leafCount)
	}
	return a.deleted.Contains(leafIndex), nil
}

// PrunedLeavesHash returns the hash of the multiset of all pruned leaf
// hashes. Two accumulators that witnessed the same prunes in any order
// agree on this hash.
func (a *Accumulator) PrunedLeavesHash() *externalapi.DomainHash {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.prunedLeaves.Hash()
}

func (a *Accumulator) commitStaged(staged *StagedAccumulator) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.leafCount != staged.baseLeafCount {
		return errors.Errorf("the accumulator advanced from %d to %d leaves since this "+
			"staging was created", staged.baseLeafCount, a.leafCount)
	}
	for _, leafContent := range staged.stagedContents {
		a.appendNoLock(leafContent)
	}
	return nil
}
