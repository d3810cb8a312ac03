package externalapi

// CandidateBlock is a parsed block proposed for acceptance at a given
// height. Difficulty is the difficulty the block claims it was mined at;
// AccumulatorRoot is the output-accumulator root the block header commits
// to, which must match the root obtained by replaying the block's outputs
// and spends on top of the current state.
type CandidateBlock struct {
	Height          uint64
	Version         uint16
	PowAlgorithm    PowAlgorithm
	Timestamp       int64
	Difficulty      uint64
	AccumulatorRoot *DomainHash
	Transactions    []*DomainTransaction
}

// Clone returns a clone of CandidateBlock
func (block *CandidateBlock) Clone() *CandidateBlock {
	transactionsClone := make([]*DomainTransaction, len(block.Transactions))
	for i, tx := range block.Transactions {
		transactionsClone[i] = tx.Clone()
	}

	return &CandidateBlock{
		Height:          block.Height,
		Version:         block.Version,
		PowAlgorithm:    block.PowAlgorithm,
		Timestamp:       block.Timestamp,
		Difficulty:      block.Difficulty,
		AccumulatorRoot: block.AccumulatorRoot,
		Transactions:    transactionsClone,
	}
}

// Equal returns whether block equals to other
func (block *CandidateBlock) Equal(other *CandidateBlock) bool {
	if block == nil || other == nil {
		return block == other
	}

	if block.Height != other.Height ||
		block.Version != other.Version ||
		block.PowAlgorithm != other.PowAlgorithm ||
		block.Timestamp != other.Timestamp ||
		block.Difficulty != other.Difficulty ||
		!block.AccumulatorRoot.Equal(other.AccumulatorRoot) ||
		len(block.Transactions) != len(other.Transactions) {

		return false
	}
	for i, tx := range block.Transactions {
		if !tx.Equal(other.Transactions[i]) {
			return false
		}
	}
	return true
}
