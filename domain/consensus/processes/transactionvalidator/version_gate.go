package transactionvalidator

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// ValidateKernelVersion checks a kernel version against the validity
// range of the constants that govern the given height.
func (v *transactionValidator) ValidateKernelVersion(version uint16, height uint64) error {
	constants, err := v.constantsManager.ConstantsForHeight(height)
	if err != nil {
		return err
	}
	if !constants.KernelVersionRange.Contains(version) {
		return errors.Wrapf(ruleerrors.ErrVersionOutOfRange,
			"kernel version %d is outside the range [%d, %d] active at height %d",
			version, constants.KernelVersionRange.Min, constants.KernelVersionRange.Max, height)
	}
	return nil
}

// ValidateInputVersion checks an input version against the validity
// range of the constants that govern the given height.
func (v *transactionValidator) ValidateInputVersion(version uint16, height uint64) error {
	constants, err := v.constantsManager.ConstantsForHeight(height)
	if err != nil {
		return err
	}
	if !constants.InputVersionRange.Contains(version) {
		return errors.Wrapf(ruleerrors.ErrVersionOutOfRange,
			"input version %d is outside the range [%d, %d] active at height %d",
			version, constants.InputVersionRange.Min, constants.InputVersionRange.Max, height)
	}
	return nil
}

// ValidateOutputVersion checks an output version against the validity
// range of the constants that govern the given height.
func (v *transactionValidator) ValidateOutputVersion(version uint16, height uint64) error {
	constants, err := v.constantsManager.ConstantsForHeight(height)
	if err != nil {
		return err
	}
	if !constants.OutputVersionRange.Contains(version) {
		return errors.Wrapf(ruleerrors.ErrVersionOutOfRange,
			"output version %d is outside the range [%d, %d] active at height %d",
			version, constants.OutputVersionRange.Min, constants.OutputVersionRange.Max, height)
	}
	return nil
}

// ValidateOutputType checks an output type against the allowlist of the
// constants that govern the given height.
func (v *transactionValidator) ValidateOutputType(
	outputType externalapi.OutputType, height uint64) error {

	constants, err := v.constantsManager.ConstantsForHeight(height)
	if err != nil {
		return err
	}
	if !constants.PermitsOutputType(outputType) {
		return errors.Wrapf(ruleerrors.ErrTypeNotPermitted,
			"output type %s is not permitted at height %d", outputType, height)
	}
	return nil
}

// ValidateRangeProofType checks a range proof type against the allowlist
// of the constants that govern the given height.
func (v *transactionValidator) ValidateRangeProofType(
	rangeProofType externalapi.RangeProofType, height uint64) error {

	constants, err := v.constantsManager.ConstantsForHeight(height)
	if err != nil {
		return err
	}
	if !constants.PermitsRangeProofType(rangeProofType) {
		return errors.Wrapf(ruleerrors.ErrTypeNotPermitted,
			"range proof type %s is not permitted at height %d", rangeProofType, height)
	}
	return nil
}
