package externalapi

// AccumulatorState is the portable form of the accumulator: everything a
// node must persist after a block commit to resume with an identical
// commitment root. Peaks are ordered left to right. DeletedLeavesBitmap and
// PrunedLeavesMultiset are opaque serialized forms produced and consumed by
// the accumulator itself.
type AccumulatorState struct {
	Peaks                []*DomainHash
	LeafCount            uint64
	DeletedLeavesBitmap  []byte
	PrunedLeavesMultiset []byte
}

// Equal returns whether state equals to other
func (state *AccumulatorState) Equal(other *AccumulatorState) bool {
	if state == nil || other == nil {
		return state == other
	}

	if state.LeafCount != other.LeafCount {
		return false
	}
	if !HashesEqual(state.Peaks, other.Peaks) {
		return false
	}
	if !bytesEqual(state.DeletedLeavesBitmap, other.DeletedLeavesBitmap) {
		return false
	}
	return bytesEqual(state.PrunedLeavesMultiset, other.PrunedLeavesMultiset)
}

// Clone returns a clone of AccumulatorState
func (state *AccumulatorState) Clone() *AccumulatorState {
	return &AccumulatorState{
		Peaks:                CloneHashes(state.Peaks),
		LeafCount:            state.LeafCount,
		DeletedLeavesBitmap:  cloneBytes(state.DeletedLeavesBitmap),
		PrunedLeavesMultiset: cloneBytes(state.PrunedLeavesMultiset),
	}
}

// InclusionProof shows that a leaf is committed to by an accumulator root.
// Path is the sibling chain from the leaf to its containing peak; Peaks is
// the full peak list at proof time; LeafCount fixes the accumulator shape
// the proof was generated against.
type InclusionProof struct {
	Path      []*DomainHash
	Peaks     []*DomainHash
	LeafCount uint64
}

// Equal returns whether proof equals to other
func (proof *InclusionProof) Equal(other *InclusionProof) bool {
	if proof == nil || other == nil {
		return proof == other
	}

	return proof.LeafCount == other.LeafCount &&
		HashesEqual(proof.Path, other.Path) &&
		HashesEqual(proof.Peaks, other.Peaks)
}

// Clone returns a clone of InclusionProof
func (proof *InclusionProof) Clone() *InclusionProof {
	return &InclusionProof{
		Path:      CloneHashes(proof.Path),
		Peaks:     CloneHashes(proof.Peaks),
		LeafCount: proof.LeafCount,
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i, value := range a {
		if value != b[i] {
			return false
		}
	}
	return true
}

func cloneBytes(bytes []byte) []byte {
	clone := make([]byte, len(bytes))
	copy(clone, bytes)
	return clone
}
