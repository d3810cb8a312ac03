package transactionvalidator

import (
	"math"
	"testing"

	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/constantsmanager"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

const forkHeight = 10_000

// validatorForTest builds a validator over two snapshots: the genesis
// rules permit only standard and coinbase outputs with BP+ proofs, and
// the fork at forkHeight adds burn and validator registration outputs,
// revealed-value proofs, output version 2 and a cheaper script gram.
func validatorForTest(t *testing.T) model.TransactionValidator {
	genesisConstants := &externalapi.ConsensusConstants{
		EffectiveFromHeight:    0,
		CoinbaseMaturity:       360,
		BlockchainVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		DifficultyBlockWindow:  90,
		PowAlgorithms: map[externalapi.PowAlgorithm]*externalapi.PowAlgorithmConstants{
			externalapi.PowSha3: {
				TargetTimePerBlock: 300,
				MinDifficulty:      1_000,
				MaxDifficulty:      math.MaxUint64,
				MaxTargetTime:      1800,
			},
		},
		MedianTimestampCount: 11,
		FutureTimeLimit:      540,
		WeightParams: externalapi.TransactionWeightParams{
			InputWeight:                    1,
			OutputWeight:                   2,
			KernelWeight:                   3,
			FeaturesAndScriptsBytesPerGram: 50,
		},
		MaxBlockTransactionWeight: 10_000,
		Emission: externalapi.EmissionSchedule{
			InitialReward:    1_000_000,
			DecayNumerator:   1,
			DecayDenominator: 2,
			TailReward:       100,
		},
		PermittedOutputTypes: []externalapi.OutputType{
			externalapi.OutputTypeStandard, externalapi.OutputTypeCoinbase,
		},
		PermittedRangeProofTypes: []externalapi.RangeProofType{
			externalapi.RangeProofBulletproofPlus,
		},
		KernelVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		InputVersionRange:  externalapi.VersionRange{Min: 1, Max: 1},
		OutputVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
	}

	forkConstants := genesisConstants.Clone()
	forkConstants.EffectiveFromHeight = forkHeight
	forkConstants.PermittedOutputTypes = append(forkConstants.PermittedOutputTypes,
		externalapi.OutputTypeBurn, externalapi.OutputTypeValidatorNodeRegistration)
	forkConstants.PermittedRangeProofTypes = append(forkConstants.PermittedRangeProofTypes,
		externalapi.RangeProofRevealedValue)
	forkConstants.OutputVersionRange = externalapi.VersionRange{Min: 1, Max: 2}
	forkConstants.WeightParams.FeaturesAndScriptsBytesPerGram = 25

	constantsManager, err := constantsmanager.New(
		[]*externalapi.ConsensusConstants{genesisConstants, forkConstants})
	if err != nil {
		t.Fatalf("validatorForTest: constantsmanager.New unexpectedly failed: %s", err)
	}
	return New(constantsManager)
}

// validTransaction spends two leaves and creates three outputs whose
// features and scripts total 500 bytes, carried by a single kernel.
func validTransaction() *externalapi.DomainTransaction {
	commitment := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{1})
	return &externalapi.DomainTransaction{
		Version: 1,
		Inputs: []*externalapi.DomainTransactionInput{
			{Version: 1, SpentLeafIndex: 7},
			{Version: 1, SpentLeafIndex: 12},
		},
		Outputs: []*externalapi.DomainTransactionOutput{
			{Version: 1, Type: externalapi.OutputTypeStandard,
				RangeProofType: externalapi.RangeProofBulletproofPlus,
				Commitment:     commitment, FeaturesAndScriptsSize: 200},
			{Version: 1, Type: externalapi.OutputTypeStandard,
				RangeProofType: externalapi.RangeProofBulletproofPlus,
				Commitment:     commitment, FeaturesAndScriptsSize: 200},
			{Version: 1, Type: externalapi.OutputTypeCoinbase,
				RangeProofType: externalapi.RangeProofBulletproofPlus,
				Commitment:     commitment, FeaturesAndScriptsSize: 100},
		},
		Kernels: []*externalapi.DomainTransactionKernel{
			{Version: 1, Fee: 1_000},
		},
	}
}

func TestValidateTransactionInIsolation(t *testing.T) {
	validator := validatorForTest(t)

	err := validator.ValidateTransactionInIsolation(validTransaction(), 500)
	if err != nil {
		t.Fatalf("TestValidateTransactionInIsolation: a valid transaction was "+
			"unexpectedly rejected: %s", err)
	}

	tests := []struct {
		name          string
		mutate        func(tx *externalapi.DomainTransaction)
		height        uint64
		expectedError error
	}{
		{"unknown transaction version", func(tx *externalapi.DomainTransaction) {
			tx.Version = 2
		}, 500, ruleerrors.ErrVersionOutOfRange},
		{"kernel version below the range", func(tx *externalapi.DomainTransaction) {
			tx.Kernels[0].Version = 0
		}, 500, ruleerrors.ErrVersionOutOfRange},
		{"kernel version above the range", func(tx *externalapi.DomainTransaction) {
			tx.Kernels[0].Version = 2
		}, 500, ruleerrors.ErrVersionOutOfRange},
		{"input version above the range", func(tx *externalapi.DomainTransaction) {
			tx.Inputs[1].Version = 9
		}, 500, ruleerrors.ErrVersionOutOfRange},
		{"output version 2 before the fork", func(tx *externalapi.DomainTransaction) {
			tx.Outputs[0].Version = 2
		}, 500, ruleerrors.ErrVersionOutOfRange},
		{"output version 2 after the fork", func(tx *externalapi.DomainTransaction) {
			tx.Outputs[0].Version = 2
		}, forkHeight, nil},
		{"burn output before the fork", func(tx *externalapi.DomainTransaction) {
			tx.Outputs[0].Type = externalapi.OutputTypeBurn
		}, 500, ruleerrors.ErrTypeNotPermitted},
		{"burn output after the fork", func(tx *externalapi.DomainTransaction) {
			tx.Outputs[0].Type = externalapi.OutputTypeBurn
		}, forkHeight + 5_000, nil},
		{"revealed-value proof before the fork", func(tx *externalapi.DomainTransaction) {
			tx.Outputs[2].RangeProofType = externalapi.RangeProofRevealedValue
		}, 500, ruleerrors.ErrTypeNotPermitted},
		{"revealed-value proof after the fork", func(tx *externalapi.DomainTransaction) {
			tx.Outputs[2].RangeProofType = externalapi.RangeProofRevealedValue
		}, forkHeight, nil},
		{"duplicate spent leaf", func(tx *externalapi.DomainTransaction) {
			tx.Inputs[1].SpentLeafIndex = tx.Inputs[0].SpentLeafIndex
		}, 500, ruleerrors.ErrDoubleSpend},
	}

	for _, test := range tests {
		transaction := validTransaction()
		test.mutate(transaction)
		err := validator.ValidateTransactionInIsolation(transaction, test.height)
		if test.expectedError == nil {
			if err != nil {
				t.Errorf("TestValidateTransactionInIsolation: %s: unexpected error: %s",
					test.name, err)
			}
			continue
		}
		if !errors.Is(err, test.expectedError) {
			t.Errorf("TestValidateTransactionInIsolation: %s: expected %s, got %+v",
				test.name, test.expectedError, err)
		}
	}
}

func TestTransactionWeight(t *testing.T) {
	validator := validatorForTest(t)
	transaction := validTransaction()

	// 2 inputs + 3 outputs at weight 2 + 1 kernel at weight 3 +
	// ceil(500/50) script grams.
	weight, err := validator.TransactionWeight(transaction, 500)
	if err != nil {
		t.Fatalf("TestTransactionWeight: TransactionWeight unexpectedly failed: %s", err)
	}
	if weight != 21 {
		t.Errorf("TestTransactionWeight: expected a weight of 21 before the fork, "+
			"got %d", weight)
	}

	// The fork halves the bytes-per-gram, so the same 500 script bytes
	// now cost 20 grams.
	weight, err = validator.TransactionWeight(transaction, forkHeight)
	if err != nil {
		t.Fatalf("TestTransactionWeight: TransactionWeight unexpectedly failed "+
			"after the fork: %s", err)
	}
	if weight != 31 {
		t.Errorf("TestTransactionWeight: expected a weight of 31 after the fork, "+
			"got %d", weight)
	}
}

func TestVersionGateSingleValues(t *testing.T) {
	validator := validatorForTest(t)

	err := validator.ValidateKernelVersion(1, 500)
	if err != nil {
		t.Errorf("TestVersionGateSingleValues: kernel version 1 was unexpectedly "+
			"rejected: %s", err)
	}
	err = validator.ValidateKernelVersion(3, 500)
	if !errors.Is(err, ruleerrors.ErrVersionOutOfRange) {
		t.Errorf("TestVersionGateSingleValues: expected ErrVersionOutOfRange for "+
			"kernel version 3, got %+v", err)
	}
	err = validator.ValidateOutputType(externalapi.OutputTypeValidatorNodeRegistration, 500)
	if !errors.Is(err, ruleerrors.ErrTypeNotPermitted) {
		t.Errorf("TestVersionGateSingleValues: expected ErrTypeNotPermitted for a "+
			"validator registration output before the fork, got %+v", err)
	}
	err = validator.ValidateOutputType(externalapi.OutputTypeValidatorNodeRegistration, forkHeight)
	if err != nil {
		t.Errorf("TestVersionGateSingleValues: a validator registration output "+
			"after the fork was unexpectedly rejected: %s", err)
	}
	err = validator.ValidateRangeProofType(externalapi.RangeProofType(9), forkHeight)
	if !errors.Is(err, ruleerrors.ErrTypeNotPermitted) {
		t.Errorf("TestVersionGateSingleValues: expected ErrTypeNotPermitted for an "+
			"unknown range proof type, got %+v", err)
	}
}
