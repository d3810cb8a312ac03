// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainconfig

import (
	"math"

	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/constants"
)

// mainnetValidatorForkHeight is the activation height of the validator
// fork on mainnet. The fork enables burn and validator node registration
// outputs, output version 2 and a larger block budget.
const mainnetValidatorForkHeight = 500_000

// mainnetConstantsTable holds mainnet's consensus constants. Snapshots
// never change the emission schedule; the supply curve is fixed at
// genesis.
var mainnetConstantsTable = []*externalapi.ConsensusConstants{
	{
		EffectiveFromHeight:    0,
		CoinbaseMaturity:       120,
		BlockchainVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		DifficultyBlockWindow:  90,
		PowAlgorithms: map[externalapi.PowAlgorithm]*externalapi.PowAlgorithmConstants{
			externalapi.PowSha3: {
				TargetTimePerBlock: 600,
				MinDifficulty:      10_000,
				MaxDifficulty:      math.MaxUint64,
				MaxTargetTime:      3600,
			},
			externalapi.PowHeavyHash: {
				TargetTimePerBlock: 600,
				MinDifficulty:      100_000,
				MaxDifficulty:      math.MaxUint64,
				MaxTargetTime:      3600,
			},
		},
		MedianTimestampCount: 11,
		FutureTimeLimit:      600,
		WeightParams: externalapi.TransactionWeightParams{
			InputWeight:                    1,
			OutputWeight:                   21,
			KernelWeight:                   3,
			FeaturesAndScriptsBytesPerGram: 32,
		},
		MaxBlockTransactionWeight: 40_000,
		Emission: externalapi.EmissionSchedule{
			InitialReward:    50 * constants.GrainsPerShard,
			DecayNumerator:   999_989,
			DecayDenominator: 1_000_000,
			TailReward:       2 * constants.GrainsPerShard,
		},
		PermittedOutputTypes: []externalapi.OutputType{
			externalapi.OutputTypeStandard,
			externalapi.OutputTypeCoinbase,
		},
		PermittedRangeProofTypes: []externalapi.RangeProofType{
			externalapi.RangeProofBulletproofPlus,
			externalapi.RangeProofRevealedValue,
		},
		KernelVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		InputVersionRange:  externalapi.VersionRange{Min: 1, Max: 1},
		OutputVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
	},
	{
		EffectiveFromHeight:    mainnetValidatorForkHeight,
		CoinbaseMaturity:       120,
		BlockchainVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		DifficultyBlockWindow:  90,
		PowAlgorithms: map[externalapi.PowAlgorithm]*externalapi.PowAlgorithmConstants{
			externalapi.PowSha3: {
				TargetTimePerBlock: 600,
				MinDifficulty:      10_000,
				MaxDifficulty:      math.MaxUint64,
				MaxTargetTime:      3600,
			},
			externalapi.PowHeavyHash: {
				TargetTimePerBlock: 600,
				MinDifficulty:      100_000,
				MaxDifficulty:      math.MaxUint64,
				MaxTargetTime:      3600,
			},
		},
		MedianTimestampCount: 11,
		FutureTimeLimit:      600,
		WeightParams: externalapi.TransactionWeightParams{
			InputWeight:                    1,
			OutputWeight:                   21,
			KernelWeight:                   3,
			FeaturesAndScriptsBytesPerGram: 32,
		},
		MaxBlockTransactionWeight: 60_000,
		Emission: externalapi.EmissionSchedule{
			InitialReward:    50 * constants.GrainsPerShard,
			DecayNumerator:   999_989,
			DecayDenominator: 1_000_000,
			TailReward:       2 * constants.GrainsPerShard,
		},
		PermittedOutputTypes: []externalapi.OutputType{
			externalapi.OutputTypeStandard,
			externalapi.OutputTypeCoinbase,
			externalapi.OutputTypeBurn,
			externalapi.OutputTypeValidatorNodeRegistration,
		},
		PermittedRangeProofTypes: []externalapi.RangeProofType{
			externalapi.RangeProofBulletproofPlus,
			externalapi.RangeProofRevealedValue,
		},
		KernelVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		InputVersionRange:  externalapi.VersionRange{Min: 1, Max: 1},
		OutputVersionRange: externalapi.VersionRange{Min: 1, Max: 2},
		ValidatorNode: externalapi.ValidatorNodeParams{
			RegistrationDeposit:        10_000 * constants.GrainsPerShard,
			RegistrationValidityPeriod: 12,
			EpochLength:                10_080,
		},
	},
}

// testnetConstantsTable enables everything from genesis so fork features
// can be exercised without waiting half a million blocks.
var testnetConstantsTable = []*externalapi.ConsensusConstants{
	{
		EffectiveFromHeight:    0,
		CoinbaseMaturity:       30,
		BlockchainVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		DifficultyBlockWindow:  90,
		PowAlgorithms: map[externalapi.PowAlgorithm]*externalapi.PowAlgorithmConstants{
			externalapi.PowSha3: {
				TargetTimePerBlock: 600,
				MinDifficulty:      1_000,
				MaxDifficulty:      math.MaxUint64,
				MaxTargetTime:      3600,
			},
			externalapi.PowHeavyHash: {
				TargetTimePerBlock: 600,
				MinDifficulty:      1_000,
				MaxDifficulty:      math.MaxUint64,
				MaxTargetTime:      3600,
			},
		},
		MedianTimestampCount: 11,
		FutureTimeLimit:      600,
		WeightParams: externalapi.TransactionWeightParams{
			InputWeight:                    1,
			OutputWeight:                   21,
			KernelWeight:                   3,
			FeaturesAndScriptsBytesPerGram: 32,
		},
		MaxBlockTransactionWeight: 60_000,
		Emission: externalapi.EmissionSchedule{
			InitialReward:    50 * constants.GrainsPerShard,
			DecayNumerator:   999_989,
			DecayDenominator: 1_000_000,
			TailReward:       2 * constants.GrainsPerShard,
		},
		PermittedOutputTypes: []externalapi.OutputType{
			externalapi.OutputTypeStandard,
			externalapi.OutputTypeCoinbase,
			externalapi.OutputTypeBurn,
			externalapi.OutputTypeValidatorNodeRegistration,
		},
		PermittedRangeProofTypes: []externalapi.RangeProofType{
			externalapi.RangeProofBulletproofPlus,
			externalapi.RangeProofRevealedValue,
		},
		KernelVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		InputVersionRange:  externalapi.VersionRange{Min: 1, Max: 1},
		OutputVersionRange: externalapi.VersionRange{Min: 1, Max: 2},
		ValidatorNode: externalapi.ValidatorNodeParams{
			RegistrationDeposit:        1_000 * constants.GrainsPerShard,
			RegistrationValidityPeriod: 12,
			EpochLength:                10_080,
		},
	},
}

// simnetConstantsTable targets one-second blocks at difficulty one and
// reaches tail emission within a dozen blocks, so simulation runs cover
// the whole emission curve quickly.
var simnetConstantsTable = []*externalapi.ConsensusConstants{
	{
		EffectiveFromHeight:    0,
		CoinbaseMaturity:       10,
		BlockchainVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		DifficultyBlockWindow:  90,
		PowAlgorithms: map[externalapi.PowAlgorithm]*externalapi.PowAlgorithmConstants{
			externalapi.PowSha3: {
				TargetTimePerBlock: 1,
				MinDifficulty:      1,
				MaxDifficulty:      math.MaxUint64,
				MaxTargetTime:      6,
			},
			externalapi.PowHeavyHash: {
				TargetTimePerBlock: 1,
				MinDifficulty:      1,
				MaxDifficulty:      math.MaxUint64,
				MaxTargetTime:      6,
			},
		},
		MedianTimestampCount: 11,
		FutureTimeLimit:      60,
		WeightParams: externalapi.TransactionWeightParams{
			InputWeight:                    1,
			OutputWeight:                   21,
			KernelWeight:                   3,
			FeaturesAndScriptsBytesPerGram: 32,
		},
		MaxBlockTransactionWeight: 60_000,
		Emission: externalapi.EmissionSchedule{
			InitialReward:    1_000 * constants.GrainsPerShard,
			DecayNumerator:   1,
			DecayDenominator: 2,
			TailReward:       1 * constants.GrainsPerShard,
		},
		PermittedOutputTypes: []externalapi.OutputType{
			externalapi.OutputTypeStandard,
			externalapi.OutputTypeCoinbase,
			externalapi.OutputTypeBurn,
			externalapi.OutputTypeValidatorNodeRegistration,
		},
		PermittedRangeProofTypes: []externalapi.RangeProofType{
			externalapi.RangeProofBulletproofPlus,
			externalapi.RangeProofRevealedValue,
		},
		KernelVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		InputVersionRange:  externalapi.VersionRange{Min: 1, Max: 1},
		OutputVersionRange: externalapi.VersionRange{Min: 1, Max: 2},
		ValidatorNode: externalapi.ValidatorNodeParams{
			RegistrationDeposit:        100 * constants.GrainsPerShard,
			RegistrationValidityPeriod: 2,
			EpochLength:                100,
		},
	},
}

// devnetConstantsTable mirrors testnet with difficulty floors low enough
// to mine on a development machine.
var devnetConstantsTable = []*externalapi.ConsensusConstants{
	{
		EffectiveFromHeight:    0,
		CoinbaseMaturity:       10,
		BlockchainVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		DifficultyBlockWindow:  90,
		PowAlgorithms: map[externalapi.PowAlgorithm]*externalapi.PowAlgorithmConstants{
			externalapi.PowSha3: {
				TargetTimePerBlock: 600,
				MinDifficulty:      1,
				MaxDifficulty:      math.MaxUint64,
				MaxTargetTime:      3600,
			},
			externalapi.PowHeavyHash: {
				TargetTimePerBlock: 600,
				MinDifficulty:      1,
				MaxDifficulty:      math.MaxUint64,
				MaxTargetTime:      3600,
			},
		},
		MedianTimestampCount: 11,
		FutureTimeLimit:      600,
		WeightParams: externalapi.TransactionWeightParams{
			InputWeight:                    1,
			OutputWeight:                   21,
			KernelWeight:                   3,
			FeaturesAndScriptsBytesPerGram: 32,
		},
		MaxBlockTransactionWeight: 60_000,
		Emission: externalapi.EmissionSchedule{
			InitialReward:    50 * constants.GrainsPerShard,
			DecayNumerator:   999_989,
			DecayDenominator: 1_000_000,
			TailReward:       2 * constants.GrainsPerShard,
		},
		PermittedOutputTypes: []externalapi.OutputType{
			externalapi.OutputTypeStandard,
			externalapi.OutputTypeCoinbase,
			externalapi.OutputTypeBurn,
			externalapi.OutputTypeValidatorNodeRegistration,
		},
		PermittedRangeProofTypes: []externalapi.RangeProofType{
			externalapi.RangeProofBulletproofPlus,
			externalapi.RangeProofRevealedValue,
		},
		KernelVersionRange: externalapi.VersionRange{Min: 1, Max: 1},
		InputVersionRange:  externalapi.VersionRange{Min: 1, Max: 1},
		OutputVersionRange: externalapi.VersionRange{Min: 1, Max: 2},
		ValidatorNode: externalapi.ValidatorNodeParams{
			RegistrationDeposit:        1_000 * constants.GrainsPerShard,
			RegistrationValidityPeriod: 12,
			EpochLength:                10_080,
		},
	},
}
