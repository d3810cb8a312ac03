package externalapi

// VersionRange is an inclusive [Min, Max] range of acceptable version values.
type VersionRange struct {
	Min uint16
	Max uint16
}

// Contains returns whether version falls inside the range, inclusive on both
// ends.
func (vr VersionRange) Contains(version uint16) bool {
	return version >= vr.Min && version <= vr.Max
}

// Clone returns a clone of VersionRange
func (vr VersionRange) Clone() VersionRange {
	return vr
}

// PowAlgorithmConstants holds the difficulty parameters of a single
// proof-of-work algorithm.
type PowAlgorithmConstants struct {
	// TargetTimePerBlock is the desired solve time, in seconds, for blocks
	// of this algorithm.
	TargetTimePerBlock int64

	// MinDifficulty and MaxDifficulty bound the output of the difficulty
	// adjustment. MinDifficulty also serves as the bootstrap difficulty
	// while the window holds fewer than two samples.
	MinDifficulty uint64
	MaxDifficulty uint64

	// MaxTargetTime caps a single observed solve time, in seconds, before
	// it enters the weighted average. It blunts the effect of a single
	// wildly late block on the retarget.
	MaxTargetTime int64
}

// Clone returns a clone of PowAlgorithmConstants
func (pac *PowAlgorithmConstants) Clone() *PowAlgorithmConstants {
	constantsClone := *pac
	return &constantsClone
}

// TransactionWeightParams holds the per-resource weights, in grams, used to
// price a transaction's footprint. FeaturesAndScriptsBytesPerGram is a
// divisor: every started bucket of that many script bytes costs one gram.
type TransactionWeightParams struct {
	InputWeight                    uint64
	OutputWeight                   uint64
	KernelWeight                   uint64
	FeaturesAndScriptsBytesPerGram uint64
}

// Clone returns a clone of TransactionWeightParams
func (twp TransactionWeightParams) Clone() TransactionWeightParams {
	return twp
}

// EmissionSchedule describes the geometric decay of the block reward. Each
// height multiplies the previous reward by DecayNumerator/DecayDenominator
// until the result would fall below TailReward, from which point every block
// pays exactly TailReward.
type EmissionSchedule struct {
	InitialReward    uint64
	DecayNumerator   uint64
	DecayDenominator uint64
	TailReward       uint64
}

// Clone returns a clone of EmissionSchedule
func (es EmissionSchedule) Clone() EmissionSchedule {
	return es
}

// ValidatorNodeParams holds the registration rules for validator nodes.
type ValidatorNodeParams struct {
	// RegistrationDeposit is the amount, in grains, locked by a validator
	// node registration output.
	RegistrationDeposit uint64

	// RegistrationValidityPeriod is the number of epochs a registration
	// stays valid before it must be renewed.
	RegistrationValidityPeriod uint64

	// EpochLength is the number of blocks in a validator epoch.
	EpochLength uint64
}

// Clone returns a clone of ValidatorNodeParams
func (vnp ValidatorNodeParams) Clone() ValidatorNodeParams {
	return vnp
}

// ConsensusConstants is one immutable snapshot of every consensus parameter,
// active from EffectiveFromHeight until superseded by a later snapshot.
// Snapshots are constructed once, at startup, from the network's static
// table and are never mutated afterwards, so they may be shared freely
// between goroutines.
type ConsensusConstants struct {
	// EffectiveFromHeight is the first height this snapshot governs.
	EffectiveFromHeight uint64

	// CoinbaseMaturity is the number of blocks before a coinbase output
	// may be spent.
	CoinbaseMaturity uint64

	// BlockchainVersionRange bounds the block header version.
	BlockchainVersionRange VersionRange

	// DifficultyBlockWindow is the number of samples a difficulty window
	// holds per algorithm.
	DifficultyBlockWindow uint64

	// PowAlgorithms maps each permitted proof-of-work algorithm to its
	// difficulty parameters. An algorithm absent from this map is not
	// mineable under this snapshot.
	PowAlgorithms map[PowAlgorithm]*PowAlgorithmConstants

	// MedianTimestampCount is the number of trailing window timestamps
	// whose median a candidate block's timestamp must exceed.
	MedianTimestampCount int

	// FutureTimeLimit is how far, in seconds, a block timestamp may run
	// ahead of local time.
	FutureTimeLimit int64

	// WeightParams price a transaction's resource footprint in grams.
	WeightParams TransactionWeightParams

	// MaxBlockTransactionWeight is the block weight budget in grams,
	// excluding the coinbase.
	MaxBlockTransactionWeight uint64

	// Emission describes the reward schedule.
	Emission EmissionSchedule

	// PermittedOutputTypes and PermittedRangeProofTypes are allowlists.
	// Snapshots from before a fork simply omit types introduced at the
	// fork, which is how historical validity is preserved.
	PermittedOutputTypes     []OutputType
	PermittedRangeProofTypes []RangeProofType

	// KernelVersionRange, InputVersionRange and OutputVersionRange bound
	// the respective component versions.
	KernelVersionRange VersionRange
	InputVersionRange  VersionRange
	OutputVersionRange VersionRange

	// ValidatorNode holds validator node registration parameters.
	ValidatorNode ValidatorNodeParams
}

// AlgorithmConstants returns the difficulty parameters of the given
// proof-of-work algorithm, and whether the snapshot permits that algorithm
// at all.
func (cc *ConsensusConstants) AlgorithmConstants(powAlgorithm PowAlgorithm) (*PowAlgorithmConstants, bool) {
	algorithmConstants, ok := cc.PowAlgorithms[powAlgorithm]
	return algorithmConstants, ok
}

// PermitsOutputType returns whether the snapshot's allowlist contains the
// given output type.
func (cc *ConsensusConstants) PermitsOutputType(outputType OutputType) bool {
	for _, permitted := range cc.PermittedOutputTypes {
		if permitted == outputType {
			return true
		}
	}
	return false
}

// PermitsRangeProofType returns whether the snapshot's allowlist contains
// the given range proof type.
func (cc *ConsensusConstants) PermitsRangeProofType(rangeProofType RangeProofType) bool {
	for _, permitted := range cc.PermittedRangeProofTypes {
		if permitted == rangeProofType {
			return true
		}
	}
	return false
}

// Clone returns a deep clone of ConsensusConstants
func (cc *ConsensusConstants) Clone() *ConsensusConstants {
	constantsClone := *cc

	constantsClone.PowAlgorithms = make(map[PowAlgorithm]*PowAlgorithmConstants, len(cc.PowAlgorithms))
	for powAlgorithm, algorithmConstants := range cc.PowAlgorithms {
		constantsClone.PowAlgorithms[powAlgorithm] = algorithmConstants.Clone()
	}

	constantsClone.PermittedOutputTypes = make([]OutputType, len(cc.PermittedOutputTypes))
	copy(constantsClone.PermittedOutputTypes, cc.PermittedOutputTypes)

	constantsClone.PermittedRangeProofTypes = make([]RangeProofType, len(cc.PermittedRangeProofTypes))
	copy(constantsClone.PermittedRangeProofTypes, cc.PermittedRangeProofTypes)

	return &constantsClone
}

// Equal returns whether cc equals to other
func (cc *ConsensusConstants) Equal(other *ConsensusConstants) bool {
	if cc == nil || other == nil {
		return cc == other
	}

	if cc.EffectiveFromHeight != other.EffectiveFromHeight ||
		cc.CoinbaseMaturity != other.CoinbaseMaturity ||
		cc.BlockchainVersionRange != other.BlockchainVersionRange ||
		cc.DifficultyBlockWindow != other.DifficultyBlockWindow ||
		cc.MedianTimestampCount != other.MedianTimestampCount ||
		cc.FutureTimeLimit != other.FutureTimeLimit ||
		cc.WeightParams != other.WeightParams ||
		cc.MaxBlockTransactionWeight != other.MaxBlockTransactionWeight ||
		cc.Emission != other.Emission ||
		cc.KernelVersionRange != other.KernelVersionRange ||
		cc.InputVersionRange != other.InputVersionRange ||
		cc.OutputVersionRange != other.OutputVersionRange ||
		cc.ValidatorNode != other.ValidatorNode {

		return false
	}

	if len(cc.PowAlgorithms) != len(other.PowAlgorithms) {
		return false
	}
	for powAlgorithm, algorithmConstants := range cc.PowAlgorithms {
		otherConstants, ok := other.PowAlgorithms[powAlgorithm]
		if !ok || *algorithmConstants != *otherConstants {
			return false
		}
	}

	if len(cc.PermittedOutputTypes) != len(other.PermittedOutputTypes) {
		return false
	}
	for i, outputType := range cc.PermittedOutputTypes {
		if outputType != other.PermittedOutputTypes[i] {
			return false
		}
	}

	if len(cc.PermittedRangeProofTypes) != len(other.PermittedRangeProofTypes) {
		return false
	}
	for i, rangeProofType := range cc.PermittedRangeProofTypes {
		if rangeProofType != other.PermittedRangeProofTypes[i] {
			return false
		}
	}

	return true
}
