package transactionvalidator

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/constants"
	"github.com/pkg/errors"
)

// ValidateTransactionInIsolation validates everything that can be checked
// with the transaction and the constants that govern the given height
// alone.
func (v *transactionValidator) ValidateTransactionInIsolation(
	transaction *externalapi.DomainTransaction, height uint64) error {

	err := v.checkTransactionVersion(transaction)
	if err != nil {
		return err
	}
	err = v.checkComponentVersions(transaction, height)
	if err != nil {
		return err
	}
	err = v.checkOutputTypes(transaction, height)
	if err != nil {
		return err
	}
	return v.checkDuplicateTransactionInputs(transaction)
}

func (v *transactionValidator) checkTransactionVersion(
	transaction *externalapi.DomainTransaction) error {

	if transaction.Version > constants.TransactionVersion {
		return errors.Wrapf(ruleerrors.ErrVersionOutOfRange,
			"transaction version %d is newer than the latest supported version %d",
			transaction.Version, constants.TransactionVersion)
	}
	return nil
}

func (v *transactionValidator) checkComponentVersions(
	transaction *externalapi.DomainTransaction, height uint64) error {

	for _, kernel := range transaction.Kernels {
		err := v.ValidateKernelVersion(kernel.Version, height)
		if err != nil {
			return err
		}
	}
	for _, input := range transaction.Inputs {
		err := v.ValidateInputVersion(input.Version, height)
		if err != nil {
			return err
		}
	}
	for _, output := range transaction.Outputs {
		err := v.ValidateOutputVersion(output.Version, height)
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *transactionValidator) checkOutputTypes(
	transaction *externalapi.DomainTransaction, height uint64) error {

	for _, output := range transaction.Outputs {
		err := v.ValidateOutputType(output.Type, height)
		if err != nil {
			return err
		}
		err = v.ValidateRangeProofType(output.RangeProofType, height)
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *transactionValidator) checkDuplicateTransactionInputs(
	transaction *externalapi.DomainTransaction) error {

	existingLeafIndexes := make(map[uint64]struct{}, len(transaction.Inputs))
	for _, input := range transaction.Inputs {
		if _, exists := existingLeafIndexes[input.SpentLeafIndex]; exists {
			return errors.Wrapf(ruleerrors.ErrDoubleSpend,
				"transaction spends leaf %d more than once", input.SpentLeafIndex)
		}
		existingLeafIndexes[input.SpentLeafIndex] = struct{}{}
	}
	return nil
}
