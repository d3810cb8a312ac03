package mmr

import (
	"math/bits"

	"github.com/RoaringBitmap/roaring/roaring64"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/multiset"
	"github.com/pkg/errors"
)

// State returns the compact serializable state of the accumulator: the
// peak list, the leaf count, the pruned-leaf bitmap and the pruned-leaf
// multiset. The state is enough to restore an accumulator that can
// append, prune and compute roots; serving proofs additionally needs
// the node arena.
func (a *Accumulator) State() *externalapi.AccumulatorState {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	bitmapBytes, err := a.deleted.ToBytes()
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Serializing an in-memory bitmap cannot fail"))
	}
	return &externalapi.AccumulatorState{
		Peaks:                a.peaksNoLock(),
		LeafCount:            a.leafCount,
		DeletedLeavesBitmap:  bitmapBytes,
		PrunedLeavesMultiset: a.prunedLeaves.Serialize(),
	}
}

// FromState restores an accumulator from a state previously returned by
// State. nodes may carry the full node arena to restore proof serving;
// passing nil restores a peaks-only accumulator that can still append
// and compute roots. It returns ErrMalformedAccumulatorState if the
// state's parts contradict each other.
func FromState(state *externalapi.AccumulatorState,
	nodes []*externalapi.DomainHash) (*Accumulator, error) {

	expectedPeaks := bits.OnesCount64(state.LeafCount)
	if len(state.Peaks) != expectedPeaks {
		return nil, errors.Wrapf(ErrMalformedAccumulatorState,
			"an accumulator with %d leaves has exactly %d peaks, but the state lists %d",
			state.LeafCount, expectedPeaks, len(state.Peaks))
	}
	for i, peak := range state.Peaks {
		if peak == nil {
			return nil, errors.Wrapf(ErrMalformedAccumulatorState, "peak %d is nil", i)
		}
	}

	mmrSize := SizeFromLeafCount(state.LeafCount)
	arena := make([]*externalapi.DomainHash, mmrSize)
	if nodes != nil {
		if uint64(len(nodes)) != mmrSize {
			return nil, errors.Wrapf(ErrMalformedAccumulatorState,
				"an accumulator with %d leaves spans %d nodes, but %d were provided",
				state.LeafCount, mmrSize, len(nodes))
		}
		copy(arena, nodes)
	}
	for i, position := range PosPeaks(mmrSize) {
		if arena[position-1] == nil {
			arena[position-1] = state.Peaks[i]
			continue
		}
		if !arena[position-1].Equal(state.Peaks[i]) {
			return nil, errors.Wrapf(ErrMalformedAccumulatorState,
				"the provided nodes disagree with the state on peak %d", i)
		}
	}

	deleted := roaring64.New()
	if len(state.DeletedLeavesBitmap) > 0 {
		err := deleted.UnmarshalBinary(state.DeletedLeavesBitmap)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedAccumulatorState,
				"the pruned-leaf bitmap failed to deserialize: %s", err)
		}
	}
	if !deleted.IsEmpty() && deleted.Maximum() >= state.LeafCount {
		return nil, errors.Wrapf(ErrMalformedAccumulatorState,
			"the pruned-leaf bitmap marks leaf %d, which is not below the leaf count %d",
			deleted.Maximum(), state.LeafCount)
	}

	prunedLeaves := multiset.New()
	if len(state.PrunedLeavesMultiset) > 0 {
		var err error
		prunedLeaves, err = multiset.FromBytes(state.PrunedLeavesMultiset)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedAccumulatorState,
				"the pruned-leaf multiset failed to deserialize: %s", err)
		}
	}

	return &Accumulator{
		nodes:        arena,
		leafCount:    state.LeafCount,
		deleted:      deleted,
		prunedLeaves: prunedLeaves,
	}, nil
}
