package blockvalidator

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// blockValidator validates candidate blocks
type blockValidator struct {
	constantsManager     model.ConstantsManager
	difficultyManager    model.DifficultyManager
	transactionValidator model.TransactionValidator
}

// New instantiates a new BlockValidator
func New(constantsManager model.ConstantsManager,
	difficultyManager model.DifficultyManager,
	transactionValidator model.TransactionValidator) model.BlockValidator {

	return &blockValidator{
		constantsManager:     constantsManager,
		difficultyManager:    difficultyManager,
		transactionValidator: transactionValidator,
	}
}

// ValidateBlockVersion checks a block version against the validity range
// of the constants that govern the given height.
func (v *blockValidator) ValidateBlockVersion(version uint16, height uint64) error {
	constants, err := v.constantsManager.ConstantsForHeight(height)
	if err != nil {
		return err
	}
	if !constants.BlockchainVersionRange.Contains(version) {
		return errors.Wrapf(ruleerrors.ErrVersionOutOfRange,
			"block version %d is outside the range [%d, %d] active at height %d",
			version, constants.BlockchainVersionRange.Min,
			constants.BlockchainVersionRange.Max, height)
	}
	return nil
}

// ValidateBlockWeight checks a block's total transaction weight, not
// counting the coinbase, against the weight budget of the constants that
// govern the given height.
func (v *blockValidator) ValidateBlockWeight(totalWeight uint64, height uint64) error {
	constants, err := v.constantsManager.ConstantsForHeight(height)
	if err != nil {
		return err
	}
	if totalWeight > constants.MaxBlockTransactionWeight {
		return errors.Wrapf(ruleerrors.ErrBlockWeightExceeded,
			"block weight %d is above the budget of %d grams active at height %d",
			totalWeight, constants.MaxBlockTransactionWeight, height)
	}
	return nil
}
