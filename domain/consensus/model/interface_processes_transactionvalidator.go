package model

import "github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"

// TransactionValidator exposes a set of validation classes. A class
// is a group of validations that are a unit of togetherness: they
// depend on each other's data, or are otherwise meaningless to check
// apart
type TransactionValidator interface {
	// ValidateTransactionInIsolation validates everything that can be
	// checked with the transaction and the constants that govern the
	// given height alone.
	ValidateTransactionInIsolation(transaction *externalapi.DomainTransaction, height uint64) error

	// TransactionWeight returns the weight of the transaction in grams
	// under the constants that govern the given height.
	TransactionWeight(transaction *externalapi.DomainTransaction, height uint64) (uint64, error)

	// ValidateKernelVersion, ValidateInputVersion and ValidateOutputVersion
	// check one component version against the validity range of the
	// constants that govern the given height.
	ValidateKernelVersion(version uint16, height uint64) error
	ValidateInputVersion(version uint16, height uint64) error
	ValidateOutputVersion(version uint16, height uint64) error

	// ValidateOutputType and ValidateRangeProofType check one type tag
	// against the allowlist of the constants that govern the given height.
	ValidateOutputType(outputType externalapi.OutputType, height uint64) error
	ValidateRangeProofType(rangeProofType externalapi.RangeProofType, height uint64) error
}
