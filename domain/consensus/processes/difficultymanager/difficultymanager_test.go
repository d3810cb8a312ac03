package difficultymanager

import (
	"math"
	"testing"
	"time"

	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/constantsmanager"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/pastmediantimemanager"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

type fakeTimeSource struct {
	now int64
}

func (fts *fakeTimeSource) Now() time.Time {
	return time.Unix(fts.now, 0)
}

func managerForTest(t *testing.T, now int64) *difficultyManager {
	constantsManager, err := constantsmanager.New([]*externalapi.ConsensusConstants{{
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
			externalapi.PowHeavyHash: {
				TargetTimePerBlock: 60,
				MinDifficulty:      4_000,
				MaxDifficulty:      8_000,
				MaxTargetTime:      360,
			},
		},
		MedianTimestampCount: 11,
		FutureTimeLimit:      540,
		WeightParams: externalapi.TransactionWeightParams{
			InputWeight:                    1,
			OutputWeight:                   1,
			KernelWeight:                   1,
			FeaturesAndScriptsBytesPerGram: 16,
		},
		MaxBlockTransactionWeight: 10_000,
		Emission: externalapi.EmissionSchedule{
			InitialReward:    1_000_000,
			DecayNumerator:   1,
			DecayDenominator: 2,
			TailReward:       100,
		},
	}})
	if err != nil {
		t.Fatalf("managerForTest: constantsmanager.New unexpectedly failed: %s", err)
	}
	pastMedianTimeManager := pastmediantimemanager.New(constantsManager)
	return New(constantsManager, pastMedianTimeManager, &fakeTimeSource{now: now}).(*difficultyManager)
}

func uniformWindow(algorithm externalapi.PowAlgorithm, firstTimestamp int64,
	solveTime int64, difficulty uint64, count int) externalapi.DifficultyWindow {

	window := make(externalapi.DifficultyWindow, count)
	for i := 0; i < count; i++ {
		window[i] = &externalapi.DifficultyWindowEntry{
			Timestamp:    firstTimestamp + int64(i)*solveTime,
			Difficulty:   difficulty,
			PowAlgorithm: algorithm,
		}
	}
	return window
}

func TestRequiredDifficultyEquilibrium(t *testing.T) {
	manager := managerForTest(t, 100_000)

	// Solving every interval at exactly the target time must leave the
	// difficulty unchanged, whatever the window length.
	for _, count := range []int{2, 4, 10, 91} {
		window := uniformWindow(externalapi.PowSha3, 10_000, 300, 1_000_000, count)
		difficulty, err := manager.RequiredDifficulty(window, externalapi.PowSha3, 500)
		if err != nil {
			t.Fatalf("TestRequiredDifficultyEquilibrium: RequiredDifficulty "+
				"unexpectedly failed for %d entries: %s", count, err)
		}
		if difficulty != 1_000_000 {
			t.Errorf("TestRequiredDifficultyEquilibrium: for %d entries expected "+
				"the difficulty to stay at 1000000, got %d", count, difficulty)
		}
	}
}

func TestRequiredDifficultyTracksSolveTimes(t *testing.T) {
	manager := managerForTest(t, 100_000)

	tests := []struct {
		name               string
		solveTime          int64
		expectedDifficulty uint64
	}{
		{"blocks at half the target time double the difficulty", 150, 2_000_000},
		{"blocks at double the target time halve the difficulty", 600, 500_000},
		{"blocks at a third of the target time triple the difficulty", 100, 3_000_000},
	}

	for _, test := range tests {
		window := uniformWindow(externalapi.PowSha3, 10_000, test.solveTime, 1_000_000, 4)
		difficulty, err := manager.RequiredDifficulty(window, externalapi.PowSha3, 500)
		if err != nil {
			t.Fatalf("TestRequiredDifficultyTracksSolveTimes: RequiredDifficulty "+
				"unexpectedly failed for %s: %s", test.name, err)
		}
		if difficulty != test.expectedDifficulty {
			t.Errorf("TestRequiredDifficultyTracksSolveTimes: %s: expected %d, got %d",
				test.name, test.expectedDifficulty, difficulty)
		}
	}
}

func TestRequiredDifficultyBootstrap(t *testing.T) {
	manager := managerForTest(t, 100_000)

	tests := []struct {
		name   string
		window externalapi.DifficultyWindow
	}{
		{"empty window", nil},
		{"single block", uniformWindow(externalapi.PowSha3, 10_000, 300, 5_000_000, 1)},
		{"only blocks of another algorithm",
			uniformWindow(externalapi.PowHeavyHash, 10_000, 60, 5_000, 20)},
	}

	for _, test := range tests {
		difficulty, err := manager.RequiredDifficulty(test.window, externalapi.PowSha3, 500)
		if err != nil {
			t.Fatalf("TestRequiredDifficultyBootstrap: RequiredDifficulty "+
				"unexpectedly failed for %s: %s", test.name, err)
		}
		if difficulty != 1_000 {
			t.Errorf("TestRequiredDifficultyBootstrap: %s: expected the minimum "+
				"difficulty 1000, got %d", test.name, difficulty)
		}
	}
}

func TestRequiredDifficultyIgnoresOtherAlgorithms(t *testing.T) {
	manager := managerForTest(t, 100_000)

	// A sha3 window at equilibrium, shot through with heavy-hash blocks
	// carrying wild timestamps and difficulties. The heavy-hash entries
	// must not move the sha3 difficulty at all.
	sha3Window := uniformWindow(externalapi.PowSha3, 10_000, 300, 1_000_000, 6)
	mixedWindow := make(externalapi.DifficultyWindow, 0, len(sha3Window)*2)
	for i, entry := range sha3Window {
		mixedWindow = append(mixedWindow, entry)
		mixedWindow = append(mixedWindow, &externalapi.DifficultyWindowEntry{
			Timestamp:    entry.Timestamp + int64(i)*7_919,
			Difficulty:   999_999_999,
			PowAlgorithm: externalapi.PowHeavyHash,
		})
	}

	difficulty, err := manager.RequiredDifficulty(mixedWindow, externalapi.PowSha3, 500)
	if err != nil {
		t.Fatalf("TestRequiredDifficultyIgnoresOtherAlgorithms: RequiredDifficulty "+
			"unexpectedly failed: %s", err)
	}
	if difficulty != 1_000_000 {
		t.Errorf("TestRequiredDifficultyIgnoresOtherAlgorithms: expected the "+
			"heavy-hash entries to be ignored and the difficulty to stay at "+
			"1000000, got %d", difficulty)
	}
}

func TestRequiredDifficultyClamps(t *testing.T) {
	manager := managerForTest(t, 100_000)

	// Slow sha3 blocks at the minimum difficulty would halve it further.
	slowWindow := uniformWindow(externalapi.PowSha3, 10_000, 600, 1_000, 4)
	difficulty, err := manager.RequiredDifficulty(slowWindow, externalapi.PowSha3, 500)
	if err != nil {
		t.Fatalf("TestRequiredDifficultyClamps: RequiredDifficulty "+
			"unexpectedly failed for the slow window: %s", err)
	}
	if difficulty != 1_000 {
		t.Errorf("TestRequiredDifficultyClamps: expected the difficulty to be "+
			"clamped to the minimum 1000, got %d", difficulty)
	}

	// Fast heavy-hash blocks near the maximum difficulty would double it
	// past the cap.
	fastWindow := uniformWindow(externalapi.PowHeavyHash, 10_000, 30, 6_000, 4)
	difficulty, err = manager.RequiredDifficulty(fastWindow, externalapi.PowHeavyHash, 500)
	if err != nil {
		t.Fatalf("TestRequiredDifficultyClamps: RequiredDifficulty "+
			"unexpectedly failed for the fast window: %s", err)
	}
	if difficulty != 8_000 {
		t.Errorf("TestRequiredDifficultyClamps: expected the difficulty to be "+
			"clamped to the maximum 8000, got %d", difficulty)
	}
}

func TestRequiredDifficultySolveTimeClamping(t *testing.T) {
	manager := managerForTest(t, 100_000)

	// An out-of-order timestamp yields a negative solve time, which is
	// clamped to one second: intervals 1 and 300, weights 1 and 2, so
	// 1000000 * 300 * 3 / 601.
	outOfOrderWindow := externalapi.DifficultyWindow{
		{Timestamp: 10_000, Difficulty: 1_000_000, PowAlgorithm: externalapi.PowSha3},
		{Timestamp: 9_900, Difficulty: 1_000_000, PowAlgorithm: externalapi.PowSha3},
		{Timestamp: 10_200, Difficulty: 1_000_000, PowAlgorithm: externalapi.PowSha3},
	}
	difficulty, err := manager.RequiredDifficulty(outOfOrderWindow, externalapi.PowSha3, 500)
	if err != nil {
		t.Fatalf("TestRequiredDifficultySolveTimeClamping: RequiredDifficulty "+
			"unexpectedly failed for the out-of-order window: %s", err)
	}
	if difficulty != 1_497_504 {
		t.Errorf("TestRequiredDifficultySolveTimeClamping: expected the negative "+
			"solve time to be clamped to one second giving 1497504, got %d", difficulty)
	}

	// A long stall is capped at MaxTargetTime: intervals 300 and 1800,
	// weights 1 and 2, so 1000000 * 300 * 3 / 3900.
	stalledWindow := externalapi.DifficultyWindow{
		{Timestamp: 10_000, Difficulty: 1_000_000, PowAlgorithm: externalapi.PowSha3},
		{Timestamp: 10_300, Difficulty: 1_000_000, PowAlgorithm: externalapi.PowSha3},
		{Timestamp: 1_000_000, Difficulty: 1_000_000, PowAlgorithm: externalapi.PowSha3},
	}
	difficulty, err = manager.RequiredDifficulty(stalledWindow, externalapi.PowSha3, 500)
	if err != nil {
		t.Fatalf("TestRequiredDifficultySolveTimeClamping: RequiredDifficulty "+
			"unexpectedly failed for the stalled window: %s", err)
	}
	if difficulty != 230_769 {
		t.Errorf("TestRequiredDifficultySolveTimeClamping: expected the stall "+
			"to be capped at MaxTargetTime giving 230769, got %d", difficulty)
	}
}

func TestRequiredDifficultyWindowTruncation(t *testing.T) {
	manager := managerForTest(t, 100_000)

	// 92 sha3 entries: one ancient outlier followed by 91 equilibrium
	// entries. Only the last DifficultyBlockWindow+1 = 91 entries fit, so
	// the outlier must fall out and the difficulty must stay unchanged.
	window := externalapi.DifficultyWindow{{
		Timestamp:    0,
		Difficulty:   1_000_000_000_000,
		PowAlgorithm: externalapi.PowSha3,
	}}
	window = append(window, uniformWindow(externalapi.PowSha3, 10_000, 300, 1_000_000, 91)...)

	difficulty, err := manager.RequiredDifficulty(window, externalapi.PowSha3, 500)
	if err != nil {
		t.Fatalf("TestRequiredDifficultyWindowTruncation: RequiredDifficulty "+
			"unexpectedly failed: %s", err)
	}
	if difficulty != 1_000_000 {
		t.Errorf("TestRequiredDifficultyWindowTruncation: expected the entry "+
			"beyond the window to be dropped and the difficulty to stay at "+
			"1000000, got %d", difficulty)
	}
}

func TestRequiredDifficultyUnknownAlgorithm(t *testing.T) {
	manager := managerForTest(t, 100_000)

	window := uniformWindow(externalapi.PowSha3, 10_000, 300, 1_000_000, 4)
	_, err := manager.RequiredDifficulty(window, externalapi.PowAlgorithm(250), 500)
	if !errors.Is(err, ruleerrors.ErrUnknownPowAlgorithm) {
		t.Errorf("TestRequiredDifficultyUnknownAlgorithm: expected "+
			"ErrUnknownPowAlgorithm, got %+v", err)
	}
}

func TestValidateTimestamp(t *testing.T) {
	// The fake clock reads 100000 and FutureTimeLimit is 540, so the
	// ceiling is 100540. The window's past median time is 99600.
	manager := managerForTest(t, 100_000)
	window := externalapi.DifficultyWindow{
		{Timestamp: 99_000, Difficulty: 1_000_000, PowAlgorithm: externalapi.PowSha3},
		{Timestamp: 99_300, Difficulty: 1_000_000, PowAlgorithm: externalapi.PowSha3},
		{Timestamp: 99_600, Difficulty: 1_000_000, PowAlgorithm: externalapi.PowHeavyHash},
		{Timestamp: 99_900, Difficulty: 1_000_000, PowAlgorithm: externalapi.PowSha3},
		{Timestamp: 100_200, Difficulty: 1_000_000, PowAlgorithm: externalapi.PowSha3},
	}

	tests := []struct {
		name               string
		candidateTimestamp int64
		window             externalapi.DifficultyWindow
		expectedError      error
	}{
		{"just after the median", 99_601, window, nil},
		{"exactly at the future limit", 100_540, window, nil},
		{"equal to the median", 99_600, window, ruleerrors.ErrTimeTooOld},
		{"before the median", 99_500, window, ruleerrors.ErrTimeTooOld},
		{"beyond the future limit", 100_541, window, ruleerrors.ErrTimeTooMuchInTheFuture},
		{"ancient timestamp with an empty window", 1, nil, nil},
		{"beyond the future limit with an empty window", 100_541, nil,
			ruleerrors.ErrTimeTooMuchInTheFuture},
	}

	for _, test := range tests {
		err := manager.ValidateTimestamp(test.candidateTimestamp, test.window, 500)
		if test.expectedError == nil {
			if err != nil {
				t.Errorf("TestValidateTimestamp: %s: unexpected error: %s", test.name, err)
			}
			continue
		}
		if !errors.Is(err, test.expectedError) {
			t.Errorf("TestValidateTimestamp: %s: expected %s, got %+v",
				test.name, test.expectedError, err)
		}
	}
}
