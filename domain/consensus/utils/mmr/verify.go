package mmr

import (
	"math/bits"

	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
)

// VerifyInclusionProof checks that leafContent sits at leafIndex in the
// accumulator committed to by root. It is a pure function over its
// arguments: verifiers need no accumulator, no node arena and no shared
// state. A malformed proof verifies to false, never to an error.
func VerifyInclusionProof(leafContent []byte, leafIndex uint64,
	proof *externalapi.InclusionProof, root *externalapi.DomainHash) bool {

	if proof == nil || root == nil {
		return false
	}
	if leafIndex >= proof.LeafCount {
		return false
	}
	if bits.OnesCount64(proof.LeafCount) != len(proof.Peaks) {
		return false
	}
	for _, hash := range proof.Path {
		if hash == nil {
			return false
		}
	}
	for _, peak := range proof.Peaks {
		if peak == nil {
			return false
		}
	}

	// Hash the path up from the leaf, mirroring the walk that built it.
	mmrSize := SizeFromLeafCount(proof.LeafCount)
	current := hashLeaf(leafContent)
	i := MMRIndex(leafIndex)
	heightIndex := uint64(0)
	for _, sibling := range proof.Path {
		if IndexHeight(i+1) > heightIndex {
			current = hashInternalNode(sibling, current)
			i++
		} else {
			current = hashInternalNode(current, sibling)
			i += 2 << heightIndex
		}
		heightIndex++
		if i >= mmrSize {
			return false
		}
	}

	peakIndex := PeakIndex(proof.LeafCount, len(proof.Path))
	if peakIndex < 0 || peakIndex >= len(proof.Peaks) {
		return false
	}
	if !proof.Peaks[peakIndex].Equal(current) {
		return false
	}
	return BagPeaks(proof.Peaks).Equal(root)
}
