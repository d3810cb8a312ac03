package mmr

import "math/bits"

// The functions in this file navigate the accumulator's node arena by
// index arithmetic alone. Nodes are laid out in insertion order, and an
// interior node directly follows the two subtrees it merges. The arena
// for an accumulator holding eleven leaves looks like this (the numbers
// are node indexes, leaves sit at height zero):
//
//	height 3              14
//	                    /    \
//	                   /      \
//	                  /        \
//	height 2        6           13
//	              /   \        /   \
//	height 1    2      5      9     12      17
//	           / \    / \    / \   /  \    /  \
//	height 0  0   1  3   4  7   8 10  11  15  16  18
//
// The peaks of this arena are nodes 14, 17 and 18, in that order. Any
// node's height, sibling and parent can be derived from its index, so
// neither the nodes nor the tree edges need to be materialized.

// allOnes returns whether every bit of pos up to its most significant
// set bit is set. Positions of this form sit on the right edge of a
// complete subtree.
func allOnes(pos uint64) bool {
	return pos != 0 && pos&(pos+1) == 0
}

// mostSigBit returns the value of the most significant set bit of pos.
func mostSigBit(pos uint64) uint64 {
	return uint64(1) << (bits.Len64(pos) - 1)
}

// IndexHeight returns the height of the node at index i. Leaves have
// height zero.
func IndexHeight(i uint64) uint64 {
	// Shift the one-based position left along the arena until it lands
	// on the right edge of a complete subtree, where the height is
	// just the bit length.
	pos := i + 1
	for !allOnes(pos) {
		pos -= mostSigBit(pos) - 1
	}
	return uint64(bits.Len64(pos)) - 1
}

// SiblingOffset returns the distance between the indexes of the two
// children merged by a node at height+1.
func SiblingOffset(height uint64) uint64 {
	return (2 << height) - 1
}

// topPeak returns the size of the largest complete subtree that fits
// into an arena of the given size.
func topPeak(mmrSize uint64) uint64 {
	return uint64(1)<<(bits.Len64(mmrSize+1)-1) - 1
}

// PosPeaks returns the one-based positions of the arena's peaks,
// highest peak first. The returned slice is nil if mmrSize is not a
// valid arena size, which happens when the size cuts a parent node off
// from its already-present children.
func PosPeaks(mmrSize uint64) []uint64 {
	if mmrSize == 0 {
		return nil
	}
	// In a whole arena the next appended node is always a leaf.
	if IndexHeight(mmrSize) != 0 {
		return nil
	}

	peaks := []uint64{}
	peak := uint64(0)
	for mmrSize > 0 {
		peakSize := topPeak(mmrSize)
		peak += peakSize
		peaks = append(peaks, peak)
		mmrSize -= peakSize
	}
	return peaks
}

// PeaksBitmap returns a bitmap whose set bits are the heights of the
// arena's peaks. The bitmap doubles as the leaf count of the arena.
func PeaksBitmap(mmrSize uint64) uint64 {
	if mmrSize == 0 {
		return 0
	}
	pos := mmrSize
	peakSize := uint64(1)<<bits.Len64(mmrSize) - 1
	peakMap := uint64(0)
	for peakSize > 0 {
		peakMap <<= 1
		if pos >= peakSize {
			pos -= peakSize
			peakMap |= 1
		}
		peakSize >>= 1
	}
	return peakMap
}

// LeafCountFromSize returns the number of leaves in an arena of the
// given size.
func LeafCountFromSize(mmrSize uint64) uint64 {
	return PeaksBitmap(mmrSize)
}

// SizeFromLeafCount returns the arena size required to hold the given
// number of leaves. Appending a leaf closes zero or more interior
// nodes, and across the whole arena the interior count works out to
// leafCount minus the number of peaks.
func SizeFromLeafCount(leafCount uint64) uint64 {
	return 2*leafCount - uint64(bits.OnesCount64(leafCount))
}

// MMRIndex returns the arena index of the given leaf.
func MMRIndex(leafIndex uint64) uint64 {
	return 2*leafIndex - uint64(bits.OnesCount64(leafIndex))
}

// PeakIndex returns the index into the peak list (highest peak first)
// of the peak that commits to a leaf whose inclusion path has
// proofLength nodes, in an accumulator with leafCount leaves.
func PeakIndex(leafCount uint64, proofLength int) int {
	peaksBelow := bits.OnesCount64(leafCount & (uint64(1)<<(proofLength+1) - 1))
	return bits.OnesCount64(leafCount) - peaksBelow
}
