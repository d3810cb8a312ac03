package ruleerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrTimeTooOld indicates the block timestamp is not greater than
	// the median of the last several window timestamps.
	ErrTimeTooOld = newRuleError("ErrTimeTooOld")

	// ErrTimeTooMuchInTheFuture indicates that the block timestamp is too much in the future.
	ErrTimeTooMuchInTheFuture = newRuleError("ErrTimeTooMuchInTheFuture")

	// ErrUnexpectedDifficulty indicates the difficulty a block declares does
	// not match the value calculated from its algorithm's window.
	ErrUnexpectedDifficulty = newRuleError("ErrUnexpectedDifficulty")

	// ErrUnknownPowAlgorithm indicates a block declares a proof-of-work
	// algorithm the active constants do not permit.
	ErrUnknownPowAlgorithm = newRuleError("ErrUnknownPowAlgorithm")

	// ErrBlockWeightExceeded indicates the total transaction weight of a
	// block is above the active weight budget.
	ErrBlockWeightExceeded = newRuleError("ErrBlockWeightExceeded")

	// ErrVersionOutOfRange indicates a block, kernel, input or output
	// version outside the validity range of the active constants.
	ErrVersionOutOfRange = newRuleError("ErrVersionOutOfRange")

	// ErrTypeNotPermitted indicates an output type or range proof type
	// absent from the active allowlist.
	ErrTypeNotPermitted = newRuleError("ErrTypeNotPermitted")

	// ErrBadAccumulatorRoot indicates the accumulator root a block header
	// commits to does not match the root obtained by replaying the block.
	ErrBadAccumulatorRoot = newRuleError("ErrBadAccumulatorRoot")

	// ErrDoubleSpend indicates the same accumulator leaf is spent twice,
	// either within one transaction or block, or against a leaf an earlier
	// block already pruned.
	ErrDoubleSpend = newRuleError("ErrDoubleSpend")

	// ErrNoTransactions indicates the block does not have at least one
	// transaction. A valid block must have at least the coinbase
	// transaction.
	ErrNoTransactions = newRuleError("ErrNoTransactions")

	// ErrFirstOutputNotCoinbase indicates the first output of a block's
	// first transaction is not a coinbase output.
	ErrFirstOutputNotCoinbase = newRuleError("ErrFirstOutputNotCoinbase")

	// ErrNoConstantsDefined indicates a height was resolved against an
	// empty consensus constants table. This is a configuration error
	// rather than anything a peer did wrong, but it surfaces during
	// validation so it is classified with the rule errors.
	ErrNoConstantsDefined = newRuleError("ErrNoConstantsDefined")

	// ErrBadCoinbaseValue indicates the claimed coinbase value does not fit
	// the emission schedule plus the collected fees.
	ErrBadCoinbaseValue = newRuleError("ErrBadCoinbaseValue")
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block or transaction failed due to one of the many validation
// rules. The caller can use type assertions to determine if a failure was
// specifically due to a rule violation.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// ErrMissingSpentLeaves indicates a block spends accumulator leaves that
// do not exist.
type ErrMissingSpentLeaves struct {
	MissingLeafIndexes []uint64
}

func (e ErrMissingSpentLeaves) Error() string {
	return fmt.Sprintf("missing the following leaf indexes: %v", e.MissingLeafIndexes)
}

// NewErrMissingSpentLeaves creates a new ErrMissingSpentLeaves error wrapped in a RuleError
func NewErrMissingSpentLeaves(missingLeafIndexes []uint64) error {
	return errors.WithStack(RuleError{
		message: "ErrMissingSpentLeaves",
		inner:   ErrMissingSpentLeaves{missingLeafIndexes},
	})
}

// InvalidTransaction is a struct containing an invalid transaction, and the error explaining why it's invalid.
type InvalidTransaction struct {
	Index int
	Error error
}

func (invalid InvalidTransaction) String() string {
	return fmt.Sprintf("(%d: %s)", invalid.Index, invalid.Error)
}

// ErrInvalidTransactionsInNewBlock indicates that some transactions in a new block are invalid
type ErrInvalidTransactionsInNewBlock struct {
	InvalidTransactions []InvalidTransaction
}

func (e ErrInvalidTransactionsInNewBlock) Error() string {
	return fmt.Sprint(e.InvalidTransactions)
}

// NewErrInvalidTransactionsInNewBlock Creates a new ErrInvalidTransactionsInNewBlock error wrapped in a RuleError
func NewErrInvalidTransactionsInNewBlock(invalidTransactions []InvalidTransaction) error {
	return errors.WithStack(RuleError{
		message: "ErrInvalidTransactionsInNewBlock",
		inner:   ErrInvalidTransactionsInNewBlock{invalidTransactions},
	})
}
