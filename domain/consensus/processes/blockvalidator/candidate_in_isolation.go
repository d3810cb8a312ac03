package blockvalidator

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// ValidateCandidateInIsolation validates everything that can be checked
// with the candidate block alone.
func (v *blockValidator) ValidateCandidateInIsolation(candidate *externalapi.CandidateBlock) error {
	err := v.ValidateBlockVersion(candidate.Version, candidate.Height)
	if err != nil {
		return err
	}
	err = v.checkPowAlgorithm(candidate)
	if err != nil {
		return err
	}
	err = v.checkCoinbaseStructure(candidate)
	if err != nil {
		return err
	}
	err = v.checkTransactionsInIsolation(candidate)
	if err != nil {
		return err
	}
	return v.checkTransactionWeights(candidate)
}

func (v *blockValidator) checkPowAlgorithm(candidate *externalapi.CandidateBlock) error {
	constants, err := v.constantsManager.ConstantsForHeight(candidate.Height)
	if err != nil {
		return err
	}
	_, ok := constants.AlgorithmConstants(candidate.PowAlgorithm)
	if !ok {
		return errors.Wrapf(ruleerrors.ErrUnknownPowAlgorithm,
			"the constants governing height %d do not permit mining with %s",
			candidate.Height, candidate.PowAlgorithm)
	}
	return nil
}

func (v *blockValidator) checkCoinbaseStructure(candidate *externalapi.CandidateBlock) error {
	if len(candidate.Transactions) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTransactions,
			"block does not contain any transactions")
	}
	firstTransaction := candidate.Transactions[0]
	if len(firstTransaction.Outputs) == 0 ||
		firstTransaction.Outputs[0].Type != externalapi.OutputTypeCoinbase {

		return errors.Wrapf(ruleerrors.ErrFirstOutputNotCoinbase,
			"the first output of the block's first transaction is not a coinbase output")
	}
	return nil
}

func (v *blockValidator) checkTransactionsInIsolation(candidate *externalapi.CandidateBlock) error {
	var invalidTransactions []ruleerrors.InvalidTransaction
	for i, transaction := range candidate.Transactions {
		err := v.transactionValidator.ValidateTransactionInIsolation(transaction, candidate.Height)
		if err != nil {
			var ruleError ruleerrors.RuleError
			if !errors.As(err, &ruleError) {
				return err
			}
			invalidTransactions = append(invalidTransactions,
				ruleerrors.InvalidTransaction{Index: i, Error: err})
		}
	}
	if len(invalidTransactions) > 0 {
		return ruleerrors.NewErrInvalidTransactionsInNewBlock(invalidTransactions)
	}
	return nil
}

// checkTransactionWeights sums the weights of all transactions but the
// coinbase and checks the sum against the block budget. The sum is
// guarded against wrapping, since script sizes come straight off the
// wire.
func (v *blockValidator) checkTransactionWeights(candidate *externalapi.CandidateBlock) error {
	totalWeight := uint64(0)
	for _, transaction := range candidate.Transactions[1:] {
		weight, err := v.transactionValidator.TransactionWeight(transaction, candidate.Height)
		if err != nil {
			return err
		}
		if totalWeight+weight < totalWeight {
			return errors.Wrapf(ruleerrors.ErrBlockWeightExceeded,
				"the block's total transaction weight overflows")
		}
		totalWeight += weight
	}
	return v.ValidateBlockWeight(totalWeight, candidate.Height)
}
