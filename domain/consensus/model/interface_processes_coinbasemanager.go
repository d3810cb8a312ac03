package model

// CoinbaseManager exposes the emission schedule
type CoinbaseManager interface {
	// BlockReward returns the base subsidy of a block at the given
	// height, in grains.
	BlockReward(height uint64) uint64

	// CumulativeSupply returns the total number of grains emitted by
	// all blocks up to and including the given height.
	CumulativeSupply(height uint64) uint64

	// TailEmissionStartHeight returns the first height at which the
	// decaying reward falls to the constant tail reward.
	TailEmissionStartHeight() uint64

	// ExpectedCoinbaseValue returns the exact value the coinbase output
	// of a block at the given height must carry.
	ExpectedCoinbaseValue(height uint64, totalFees uint64) (uint64, error)
}
