package externalapi

// PowAlgorithm identifies which proof-of-work scheme a block was mined with.
// Each algorithm keeps its own difficulty window and its own required
// difficulty; a block is always judged against the window of the algorithm
// it declares.
type PowAlgorithm byte

const (
	// PowSha3 is the CPU-friendly sha3-based proof-of-work algorithm.
	PowSha3 PowAlgorithm = iota

	// PowHeavyHash is the matrix-multiplication heavy-hash proof-of-work algorithm.
	PowHeavyHash
)

// Clone returns a clone of PowAlgorithm
func (pa PowAlgorithm) Clone() PowAlgorithm {
	return pa
}

var powAlgorithmStrings = map[PowAlgorithm]string{
	PowSha3:      "Sha3",
	PowHeavyHash: "HeavyHash",
}

func (pa PowAlgorithm) String() string {
	algorithmString, ok := powAlgorithmStrings[pa]
	if !ok {
		return "Unknown"
	}
	return algorithmString
}

// AllPowAlgorithms holds every proof-of-work algorithm this chain recognizes.
var AllPowAlgorithms = []PowAlgorithm{PowSha3, PowHeavyHash}
