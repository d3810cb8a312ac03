package externalapi

// RangeProofType classifies the proof attached to an output's commitment.
// Like output types, the permitted set is drawn from the consensus constants
// active at the block's height.
type RangeProofType byte

const (
	// RangeProofBulletproofPlus is an aggregated BP+ range proof.
	RangeProofBulletproofPlus RangeProofType = iota

	// RangeProofRevealedValue is a minimal proof for outputs whose value is
	// public, such as coinbase and burn outputs.
	RangeProofRevealedValue
)

// Clone returns a clone of RangeProofType
func (rpt RangeProofType) Clone() RangeProofType {
	return rpt
}

var rangeProofTypeStrings = map[RangeProofType]string{
	RangeProofBulletproofPlus: "BulletproofPlus",
	RangeProofRevealedValue:   "RevealedValue",
}

func (rpt RangeProofType) String() string {
	rangeProofTypeString, ok := rangeProofTypeStrings[rpt]
	if !ok {
		return "Unknown"
	}
	return rangeProofTypeString
}
