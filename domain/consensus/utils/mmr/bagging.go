package mmr

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/hashes"
)

var emptyAccumulatorRoot = hashes.NewPeakBagHashWriter().Finalize()

// EmptyAccumulatorRoot returns the root of an accumulator holding no
// leaves. It is a fixed sentinel rather than a zero hash so that an
// empty accumulator is distinguishable from an absent one.
func EmptyAccumulatorRoot() *externalapi.DomainHash {
	return emptyAccumulatorRoot
}

// BagPeaks folds the peak list into the single accumulator root. The
// fold runs left to right, wrapping the running result under each next
// peak, so that the root of [p0] is p0 itself and the root of
// [p0, p1, p2] is H(p2, H(p1, p0)).
func BagPeaks(peaks []*externalapi.DomainHash) *externalapi.DomainHash {
	if len(peaks) == 0 {
		return EmptyAccumulatorRoot()
	}

	root := peaks[0]
	for _, peak := range peaks[1:] {
		writer := hashes.NewPeakBagHashWriter()
		writer.InfallibleWrite(peak.ByteSlice())
		writer.InfallibleWrite(root.ByteSlice())
		root = writer.Finalize()
	}
	return root
}
