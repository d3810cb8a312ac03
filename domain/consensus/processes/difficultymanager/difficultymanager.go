package difficultymanager

import (
	"math/big"

	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/obsidiannet/obsidiand/util/timesource"
	"github.com/pkg/errors"
)

// difficultyManager provides methods to resolve the required difficulty
// of a candidate block and to validate its timestamp
type difficultyManager struct {
	constantsManager      model.ConstantsManager
	pastMedianTimeManager model.PastMedianTimeManager
	timeSource            timesource.TimeSource
}

// New instantiates a new DifficultyManager
func New(constantsManager model.ConstantsManager,
	pastMedianTimeManager model.PastMedianTimeManager,
	timeSource timesource.TimeSource) model.DifficultyManager {

	return &difficultyManager{
		constantsManager:      constantsManager,
		pastMedianTimeManager: pastMedianTimeManager,
		timeSource:            timeSource,
	}
}

// RequiredDifficulty returns the difficulty a block mined with the
// given algorithm at the given height is required to declare. The
// difficulty is a linearly weighted moving average over the window's
// blocks of that algorithm: recent solve times weigh more than old
// ones, so the difficulty tracks hash-rate changes with little lag
// while staying stable against single outliers.
func (dm *difficultyManager) RequiredDifficulty(window externalapi.DifficultyWindow,
	powAlgorithm externalapi.PowAlgorithm, height uint64) (uint64, error) {

	constants, err := dm.constantsManager.ConstantsForHeight(height)
	if err != nil {
		return 0, err
	}
	algorithmConstants, ok := constants.AlgorithmConstants(powAlgorithm)
	if !ok {
		return 0, errors.Wrapf(ruleerrors.ErrUnknownPowAlgorithm,
			"the constants governing height %d do not define the %s algorithm",
			height, powAlgorithm)
	}

	samples := sampleWindow(window, powAlgorithm, constants.DifficultyBlockWindow)

	// Until an algorithm has two blocks there are no solve times to
	// average, so mining bootstraps at the minimum difficulty.
	if len(samples) < 2 {
		return algorithmConstants.MinDifficulty, nil
	}

	intervalCount := int64(len(samples) - 1)
	weightedSolveTimeSum := int64(0)
	difficultySum := new(big.Int)
	for i := int64(1); i <= intervalCount; i++ {
		solveTime := samples[i].Timestamp - samples[i-1].Timestamp
		// A solve time is clamped on both sides: blocks with out-of-order
		// timestamps must not produce negative weights, and a single
		// stall must not crater the difficulty.
		if solveTime < 1 {
			solveTime = 1
		}
		if solveTime > algorithmConstants.MaxTargetTime {
			solveTime = algorithmConstants.MaxTargetTime
		}
		weightedSolveTimeSum += solveTime * i
		difficultySum.Add(difficultySum, new(big.Int).SetUint64(samples[i].Difficulty))
	}

	averageDifficulty := difficultySum.Div(difficultySum, big.NewInt(intervalCount))

	// k is the sum of the weights, so a chain solving every interval at
	// exactly the target time keeps its difficulty unchanged.
	k := intervalCount * (intervalCount + 1) / 2
	newDifficulty := new(big.Int).Mul(averageDifficulty,
		big.NewInt(algorithmConstants.TargetTimePerBlock))
	newDifficulty.Mul(newDifficulty, big.NewInt(k))
	newDifficulty.Div(newDifficulty, big.NewInt(weightedSolveTimeSum))

	return clampDifficulty(newDifficulty, algorithmConstants), nil
}

// sampleWindow picks the window entries mined with the given algorithm,
// keeping only the last windowSize+1 of them. windowSize intervals need
// windowSize+1 boundary blocks.
func sampleWindow(window externalapi.DifficultyWindow, powAlgorithm externalapi.PowAlgorithm,
	windowSize uint64) []*externalapi.DifficultyWindowEntry {

	samples := make([]*externalapi.DifficultyWindowEntry, 0, windowSize+1)
	for _, entry := range window {
		if entry.PowAlgorithm == powAlgorithm {
			samples = append(samples, entry)
		}
	}
	if uint64(len(samples)) > windowSize+1 {
		samples = samples[uint64(len(samples))-(windowSize+1):]
	}
	return samples
}

func clampDifficulty(difficulty *big.Int,
	algorithmConstants *externalapi.PowAlgorithmConstants) uint64 {

	minDifficulty := new(big.Int).SetUint64(algorithmConstants.MinDifficulty)
	if difficulty.Cmp(minDifficulty) < 0 {
		return algorithmConstants.MinDifficulty
	}
	maxDifficulty := new(big.Int).SetUint64(algorithmConstants.MaxDifficulty)
	if difficulty.Cmp(maxDifficulty) > 0 {
		return algorithmConstants.MaxDifficulty
	}
	return difficulty.Uint64()
}

// ValidateTimestamp validates a candidate block's timestamp against the
// recent chain: it must be strictly after the past median time and no
// further in the future than the node's clock allows.
func (dm *difficultyManager) ValidateTimestamp(candidateTimestamp int64,
	window externalapi.DifficultyWindow, height uint64) error {

	constants, err := dm.constantsManager.ConstantsForHeight(height)
	if err != nil {
		return err
	}

	if len(window) > 0 {
		pastMedianTime, err := dm.pastMedianTimeManager.PastMedianTime(window, height)
		if err != nil {
			return err
		}
		if candidateTimestamp <= pastMedianTime {
			return errors.Wrapf(ruleerrors.ErrTimeTooOld,
				"the candidate timestamp %d is not after the past median time %d",
				candidateTimestamp, pastMedianTime)
		}
	}

	maxCurrentTime := dm.timeSource.Now().Unix() + constants.FutureTimeLimit
	if candidateTimestamp > maxCurrentTime {
		return errors.Wrapf(ruleerrors.ErrTimeTooMuchInTheFuture,
			"the candidate timestamp %d is more than %d seconds after the current time",
			candidateTimestamp, constants.FutureTimeLimit)
	}

	return nil
}
