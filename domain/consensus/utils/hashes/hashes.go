package hashes

import (
	"golang.org/x/crypto/blake2b"

	"github.com/pkg/errors"
)

const (
	leafHashDomain         = "AccumulatorLeaf"
	internalNodeHashDomain = "AccumulatorNode"
	peakBagHashDomain      = "AccumulatorBag"
	constantsHashDomain    = "ConsensusConstants"
)

// NewLeafHashWriter returns a new HashWriter used for hashing leaf contents
// before they enter the accumulator. Leaves and internal nodes hash under
// different domains so a leaf image can never double as an internal node
// image.
func NewLeafHashWriter() HashWriter {
	return newKeyedHashWriter(leafHashDomain)
}

// NewInternalNodeHashWriter returns a new HashWriter used for hashing a pair
// of accumulator children into their parent.
func NewInternalNodeHashWriter() HashWriter {
	return newKeyedHashWriter(internalNodeHashDomain)
}

// NewPeakBagHashWriter returns a new HashWriter used for bagging
// accumulator peaks into the single commitment root.
func NewPeakBagHashWriter() HashWriter {
	return newKeyedHashWriter(peakBagHashDomain)
}

// NewConstantsHashWriter returns a new HashWriter used for hashing a
// serialized consensus constants snapshot.
func NewConstantsHashWriter() HashWriter {
	return newKeyedHashWriter(constantsHashDomain)
}

func newKeyedHashWriter(domain string) HashWriter {
	blake, err := blake2b.New256([]byte(domain))
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %s is less than 64 bytes", domain))
	}
	return HashWriter{blake}
}
