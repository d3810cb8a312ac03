package constants

import "math"

const (
	// BlockVersion represents the current version of blocks mined and the maximum block version
	// this node is able to validate
	BlockVersion uint16 = 1

	// TransactionVersion is the current latest supported transaction version.
	TransactionVersion uint16 = 1

	// GrainsPerShard is the number of grains in one shard (1 OBN).
	GrainsPerShard = 100_000_000

	// MaxGrains is the maximum transaction amount allowed in grains.
	MaxGrains = 21_000_000_000 * uint64(GrainsPerShard)

	// MaxDifficulty is the difficulty ceiling used by networks that do
	// not declare a tighter one.
	MaxDifficulty uint64 = math.MaxUint64

	// MinDifficultyFloor is the lowest difficulty any network is
	// allowed to declare. A difficulty of zero would make the weighted
	// average in the difficulty engine meaningless.
	MinDifficultyFloor uint64 = 1
)
