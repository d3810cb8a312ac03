package model

import "github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"

// BlockValidator validates candidate blocks
type BlockValidator interface {
	// ValidateCandidateInIsolation validates everything that can be
	// checked with the candidate block alone.
	ValidateCandidateInIsolation(candidate *externalapi.CandidateBlock) error

	// ValidateCandidateInContext validates the candidate block against
	// the recent chain the given window describes.
	ValidateCandidateInContext(candidate *externalapi.CandidateBlock,
		window externalapi.DifficultyWindow) error

	// ValidateBlockVersion checks a block version against the validity
	// range of the constants that govern the given height.
	ValidateBlockVersion(version uint16, height uint64) error

	// ValidateBlockWeight checks the total transaction weight of a block
	// against the weight budget of the constants that govern the given
	// height.
	ValidateBlockWeight(totalWeight uint64, height uint64) error
}
