package transactionvalidator

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/txweight"
)

// transactionValidator exposes a set of validation classes. A class
// is a group of validations that are a unit of togetherness: they
// depend on each other's data, or are otherwise meaningless to check
// apart
type transactionValidator struct {
	constantsManager model.ConstantsManager
}

// New instantiates a new TransactionValidator
func New(constantsManager model.ConstantsManager) model.TransactionValidator {
	return &transactionValidator{constantsManager: constantsManager}
}

// TransactionWeight returns the weight of the transaction in grams under
// the constants that govern the given height.
func (v *transactionValidator) TransactionWeight(
	transaction *externalapi.DomainTransaction, height uint64) (uint64, error) {

	constants, err := v.constantsManager.ConstantsForHeight(height)
	if err != nil {
		return 0, err
	}
	calculator := txweight.NewCalculator(&constants.WeightParams)
	return calculator.CalculateTransactionWeight(transaction), nil
}
