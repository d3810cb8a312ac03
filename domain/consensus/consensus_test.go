package consensus_test

import (
	"encoding/binary"
	"errors"
	"io/ioutil"
	"testing"
	"time"

	"github.com/obsidiannet/obsidiand/domain/chainconfig"
	"github.com/obsidiannet/obsidiand/domain/consensus"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/mmr"
	"github.com/obsidiannet/obsidiand/infrastructure/db/database/ldb"
)

func prepareConsensusForTest(t *testing.T, testName string) (consensus.Consensus, func()) {
	path, err := ioutil.TempDir("", testName)
	if err != nil {
		t.Fatalf("%s: TempDir unexpectedly "+
			"failed: %s", testName, err)
	}
	db, err := ldb.NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("%s: NewLevelDB unexpectedly "+
			"failed: %s", testName, err)
	}
	csns, err := consensus.NewFactory().NewConsensus(&chainconfig.SimnetParams, db)
	if err != nil {
		t.Fatalf("%s: NewConsensus unexpectedly "+
			"failed: %s", testName, err)
	}
	teardownFunc := func() {
		err := db.Close()
		if err != nil {
			t.Fatalf("%s: Close unexpectedly "+
				"failed: %s", testName, err)
		}
	}
	return csns, teardownFunc
}

// testBaseTime leans to the past so candidate timestamps never run into
// the future time limit, no matter how many blocks a test commits.
func testBaseTime() int64 {
	return time.Now().Unix() - 1000
}

func commitmentForTest(height uint64, index int) *externalapi.DomainHash {
	var commitment [externalapi.DomainHashSize]byte
	binary.LittleEndian.PutUint64(commitment[:], height)
	binary.LittleEndian.PutUint64(commitment[8:], uint64(index))
	return externalapi.NewDomainHashFromByteArray(&commitment)
}

func coinbaseTransactionForTest(height uint64) *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		Version: 1,
		Outputs: []*externalapi.DomainTransactionOutput{{
			Version:        1,
			Type:           externalapi.OutputTypeCoinbase,
			RangeProofType: externalapi.RangeProofRevealedValue,
			Commitment:     commitmentForTest(height, 0),
		}},
	}
}

// buildCandidate assembles a valid candidate for the chain's next
// height: a coinbase transaction followed by the given transactions,
// declaring the difficulty the chain requires and the accumulator root
// obtained by replaying the candidate's outputs on top of the mirror.
func buildCandidate(t *testing.T, testName string, csns consensus.Consensus,
	mirror *mmr.Accumulator, baseTime int64,
	transactions []*externalapi.DomainTransaction) *externalapi.CandidateBlock {

	height := csns.NextBlockHeight()
	difficulty, err := csns.RequiredDifficulty(externalapi.PowSha3)
	if err != nil {
		t.Fatalf("%s: RequiredDifficulty unexpectedly failed: %s", testName, err)
	}

	blockTransactions := append(
		[]*externalapi.DomainTransaction{coinbaseTransactionForTest(height)}, transactions...)

	staged := mmr.NewStaged(mirror.Snapshot())
	for _, transaction := range blockTransactions {
		for _, output := range transaction.Outputs {
			staged.Append(output.Commitment.ByteSlice())
		}
	}

	return &externalapi.CandidateBlock{
		Height:          height,
		Version:         1,
		PowAlgorithm:    externalapi.PowSha3,
		Timestamp:       baseTime + int64(height),
		Difficulty:      difficulty,
		AccumulatorRoot: staged.Root(),
		Transactions:    blockTransactions,
	}
}

// commitCandidate commits the candidate and replays it on the mirror, so
// the mirror keeps tracking the state the chain is expected to hold.
func commitCandidate(t *testing.T, testName string, csns consensus.Consensus,
	mirror *mmr.Accumulator, candidate *externalapi.CandidateBlock) {

	err := csns.CommitBlock(candidate)
	if err != nil {
		t.Fatalf("%s: CommitBlock unexpectedly failed: %s", testName, err)
	}
	for _, transaction := range candidate.Transactions {
		for _, output := range transaction.Outputs {
			mirror.Append(output.Commitment.ByteSlice())
		}
	}
	for _, transaction := range candidate.Transactions {
		for _, input := range transaction.Inputs {
			err := mirror.Prune(input.SpentLeafIndex)
			if err != nil {
				t.Fatalf("%s: Prune unexpectedly failed: %s", testName, err)
			}
		}
	}
}

func spendingTransactionForTest(height uint64, spentLeafIndexes ...uint64) *externalapi.DomainTransaction {
	inputs := make([]*externalapi.DomainTransactionInput, len(spentLeafIndexes))
	for i, leafIndex := range spentLeafIndexes {
		inputs[i] = &externalapi.DomainTransactionInput{Version: 1, SpentLeafIndex: leafIndex}
	}
	return &externalapi.DomainTransaction{
		Version: 1,
		Inputs:  inputs,
		Outputs: []*externalapi.DomainTransactionOutput{{
			Version:        1,
			Type:           externalapi.OutputTypeStandard,
			RangeProofType: externalapi.RangeProofBulletproofPlus,
			Commitment:     commitmentForTest(height, 1),
		}},
		Kernels: []*externalapi.DomainTransactionKernel{{Version: 1, Fee: 1000}},
	}
}

func TestCommitBlockAdvancesChain(t *testing.T) {
	csns, teardownFunc := prepareConsensusForTest(t, "TestCommitBlockAdvancesChain")
	defer teardownFunc()

	mirror := mmr.New()
	baseTime := testBaseTime()

	if csns.NextBlockHeight() != 0 {
		t.Fatalf("TestCommitBlockAdvancesChain: a fresh chain is expected to grow at height 0, "+
			"found: %d", csns.NextBlockHeight())
	}
	if !csns.AccumulatorRoot().Equal(mmr.EmptyAccumulatorRoot()) {
		t.Fatalf("TestCommitBlockAdvancesChain: a fresh chain is expected to hold the empty "+
			"accumulator root, found: %s", csns.AccumulatorRoot())
	}

	// Block 0 mints the first leaf.
	candidate := buildCandidate(t, "TestCommitBlockAdvancesChain", csns, mirror, baseTime, nil)
	err := csns.ValidateCandidateBlock(candidate)
	if err != nil {
		t.Fatalf("TestCommitBlockAdvancesChain: ValidateCandidateBlock unexpectedly failed: %s", err)
	}
	commitCandidate(t, "TestCommitBlockAdvancesChain", csns, mirror, candidate)

	if csns.NextBlockHeight() != 1 {
		t.Fatalf("TestCommitBlockAdvancesChain: expected the chain to grow at height 1 after one "+
			"commit, found: %d", csns.NextBlockHeight())
	}
	if !csns.AccumulatorRoot().Equal(mirror.Root()) {
		t.Fatalf("TestCommitBlockAdvancesChain: the chain's accumulator root diverged from the "+
			"mirror after the first commit")
	}

	// Block 1 spends the first coinbase leaf and mints three more leaves.
	spendingTransaction := spendingTransactionForTest(1, 0)
	candidate = buildCandidate(t, "TestCommitBlockAdvancesChain", csns, mirror, baseTime,
		[]*externalapi.DomainTransaction{spendingTransaction})
	commitCandidate(t, "TestCommitBlockAdvancesChain", csns, mirror, candidate)

	if csns.NextBlockHeight() != 2 {
		t.Fatalf("TestCommitBlockAdvancesChain: expected the chain to grow at height 2 after two "+
			"commits, found: %d", csns.NextBlockHeight())
	}
	if !csns.AccumulatorRoot().Equal(mirror.Root()) {
		t.Fatalf("TestCommitBlockAdvancesChain: the chain's accumulator root diverged from the "+
			"mirror after the second commit")
	}

	// The spent leaf can no longer be proven, while the freshly minted
	// ones can.
	_, err = csns.ProveLeaf(0)
	if !errors.Is(err, mmr.ErrLeafPruned) {
		t.Fatalf("TestCommitBlockAdvancesChain: ProveLeaf on the spent leaf expected "+
			"ErrLeafPruned, found: %v", err)
	}
	proof, err := csns.ProveLeaf(1)
	if err != nil {
		t.Fatalf("TestCommitBlockAdvancesChain: ProveLeaf unexpectedly failed: %s", err)
	}
	leafContent := commitmentForTest(1, 0).ByteSlice()
	if !csns.VerifyLeaf(leafContent, 1, proof, csns.AccumulatorRoot()) {
		t.Fatalf("TestCommitBlockAdvancesChain: a proof for leaf 1 failed to verify against the "+
			"chain's accumulator root")
	}
	if csns.VerifyLeaf(leafContent, 2, proof, csns.AccumulatorRoot()) {
		t.Fatalf("TestCommitBlockAdvancesChain: a proof for leaf 1 unexpectedly verified " +
			"against leaf index 2")
	}
}

func TestValidateCandidateBlockDoesNotMutate(t *testing.T) {
	csns, teardownFunc := prepareConsensusForTest(t, "TestValidateCandidateBlockDoesNotMutate")
	defer teardownFunc()

	mirror := mmr.New()
	baseTime := testBaseTime()

	candidate := buildCandidate(t, "TestValidateCandidateBlockDoesNotMutate", csns, mirror,
		baseTime, nil)
	rootBefore := csns.AccumulatorRoot()

	// Validating the same candidate repeatedly must leave the chain
	// untouched: speculative validations never leak into live state.
	for i := 0; i < 3; i++ {
		err := csns.ValidateCandidateBlock(candidate)
		if err != nil {
			t.Fatalf("TestValidateCandidateBlockDoesNotMutate: ValidateCandidateBlock "+
				"unexpectedly failed on run %d: %s", i, err)
		}
	}
	if csns.NextBlockHeight() != 0 {
		t.Fatalf("TestValidateCandidateBlockDoesNotMutate: validation unexpectedly advanced the "+
			"chain to height %d", csns.NextBlockHeight())
	}
	if !csns.AccumulatorRoot().Equal(rootBefore) {
		t.Fatalf("TestValidateCandidateBlockDoesNotMutate: validation unexpectedly changed the " +
			"accumulator root")
	}

	commitCandidate(t, "TestValidateCandidateBlockDoesNotMutate", csns, mirror, candidate)
	if !csns.AccumulatorRoot().Equal(mirror.Root()) {
		t.Fatalf("TestValidateCandidateBlockDoesNotMutate: the committed root diverged from the " +
			"mirror")
	}
}

func TestValidateCandidateBlockRejectsWrongRoot(t *testing.T) {
	csns, teardownFunc := prepareConsensusForTest(t, "TestValidateCandidateBlockRejectsWrongRoot")
	defer teardownFunc()

	mirror := mmr.New()
	candidate := buildCandidate(t, "TestValidateCandidateBlockRejectsWrongRoot", csns, mirror,
		testBaseTime(), nil)
	candidate.AccumulatorRoot = commitmentForTest(999, 999)

	err := csns.ValidateCandidateBlock(candidate)
	if !errors.Is(err, ruleerrors.ErrBadAccumulatorRoot) {
		t.Fatalf("TestValidateCandidateBlockRejectsWrongRoot: expected ErrBadAccumulatorRoot, "+
			"found: %v", err)
	}
}

func TestValidateCandidateBlockRejectsWrongDifficulty(t *testing.T) {
	csns, teardownFunc := prepareConsensusForTest(t, "TestValidateCandidateBlockRejectsWrongDifficulty")
	defer teardownFunc()

	mirror := mmr.New()
	candidate := buildCandidate(t, "TestValidateCandidateBlockRejectsWrongDifficulty", csns,
		mirror, testBaseTime(), nil)
	candidate.Difficulty++

	err := csns.ValidateCandidateBlock(candidate)
	if !errors.Is(err, ruleerrors.ErrUnexpectedDifficulty) {
		t.Fatalf("TestValidateCandidateBlockRejectsWrongDifficulty: expected "+
			"ErrUnexpectedDifficulty, found: %v", err)
	}
}

func TestValidateCandidateBlockRejectsWrongHeight(t *testing.T) {
	csns, teardownFunc := prepareConsensusForTest(t, "TestValidateCandidateBlockRejectsWrongHeight")
	defer teardownFunc()

	mirror := mmr.New()
	candidate := buildCandidate(t, "TestValidateCandidateBlockRejectsWrongHeight", csns, mirror,
		testBaseTime(), nil)
	candidate.Height++

	err := csns.ValidateCandidateBlock(candidate)
	if err == nil {
		t.Fatalf("TestValidateCandidateBlockRejectsWrongHeight: expected an error for a " +
			"candidate building past the chain tip")
	}
	// A stale or premature candidate is a sequencing problem, not a rule
	// violation.
	var ruleError ruleerrors.RuleError
	if errors.As(err, &ruleError) {
		t.Fatalf("TestValidateCandidateBlockRejectsWrongHeight: a height mismatch is not "+
			"expected to be classified as a rule violation, found: %v", err)
	}
}

func TestCommitBlockRejectsDoubleSpend(t *testing.T) {
	csns, teardownFunc := prepareConsensusForTest(t, "TestCommitBlockRejectsDoubleSpend")
	defer teardownFunc()

	mirror := mmr.New()
	baseTime := testBaseTime()

	// Two blocks: the second spends the first's coinbase leaf.
	candidate := buildCandidate(t, "TestCommitBlockRejectsDoubleSpend", csns, mirror, baseTime, nil)
	commitCandidate(t, "TestCommitBlockRejectsDoubleSpend", csns, mirror, candidate)
	candidate = buildCandidate(t, "TestCommitBlockRejectsDoubleSpend", csns, mirror, baseTime,
		[]*externalapi.DomainTransaction{spendingTransactionForTest(1, 0)})
	commitCandidate(t, "TestCommitBlockRejectsDoubleSpend", csns, mirror, candidate)

	// Spending the already-pruned leaf again is a double spend.
	candidate = buildCandidate(t, "TestCommitBlockRejectsDoubleSpend", csns, mirror, baseTime,
		[]*externalapi.DomainTransaction{spendingTransactionForTest(2, 0)})
	err := csns.CommitBlock(candidate)
	if !errors.Is(err, ruleerrors.ErrDoubleSpend) {
		t.Fatalf("TestCommitBlockRejectsDoubleSpend: expected ErrDoubleSpend for a spent leaf, "+
			"found: %v", err)
	}

	// So is spending the same live leaf twice across two transactions of
	// one block.
	firstSpend := spendingTransactionForTest(2, 1)
	secondSpend := spendingTransactionForTest(3, 1)
	candidate = buildCandidate(t, "TestCommitBlockRejectsDoubleSpend", csns, mirror, baseTime,
		[]*externalapi.DomainTransaction{firstSpend, secondSpend})
	err = csns.CommitBlock(candidate)
	if !errors.Is(err, ruleerrors.ErrDoubleSpend) {
		t.Fatalf("TestCommitBlockRejectsDoubleSpend: expected ErrDoubleSpend for a leaf spent "+
			"twice within one block, found: %v", err)
	}

	// Nothing of the rejected candidates leaked into live state.
	if !csns.AccumulatorRoot().Equal(mirror.Root()) {
		t.Fatalf("TestCommitBlockRejectsDoubleSpend: a rejected commit changed the accumulator root")
	}
	if csns.NextBlockHeight() != 2 {
		t.Fatalf("TestCommitBlockRejectsDoubleSpend: a rejected commit advanced the chain to "+
			"height %d", csns.NextBlockHeight())
	}
}

func TestCommitBlockRejectsMissingLeaves(t *testing.T) {
	csns, teardownFunc := prepareConsensusForTest(t, "TestCommitBlockRejectsMissingLeaves")
	defer teardownFunc()

	mirror := mmr.New()
	baseTime := testBaseTime()

	candidate := buildCandidate(t, "TestCommitBlockRejectsMissingLeaves", csns, mirror, baseTime, nil)
	commitCandidate(t, "TestCommitBlockRejectsMissingLeaves", csns, mirror, candidate)

	candidate = buildCandidate(t, "TestCommitBlockRejectsMissingLeaves", csns, mirror, baseTime,
		[]*externalapi.DomainTransaction{spendingTransactionForTest(1, 999)})
	err := csns.CommitBlock(candidate)
	missingErr := &ruleerrors.ErrMissingSpentLeaves{}
	if !errors.As(err, missingErr) {
		t.Fatalf("TestCommitBlockRejectsMissingLeaves: expected ErrMissingSpentLeaves, "+
			"found: %v", err)
	}
	if len(missingErr.MissingLeafIndexes) != 1 || missingErr.MissingLeafIndexes[0] != 999 {
		t.Fatalf("TestCommitBlockRejectsMissingLeaves: expected leaf 999 to be reported "+
			"missing, found: %v", missingErr.MissingLeafIndexes)
	}
}

func TestConsensusRestoresPersistedState(t *testing.T) {
	path, err := ioutil.TempDir("", "TestConsensusRestoresPersistedState")
	if err != nil {
		t.Fatalf("TestConsensusRestoresPersistedState: TempDir unexpectedly failed: %s", err)
	}
	db, err := ldb.NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("TestConsensusRestoresPersistedState: NewLevelDB unexpectedly failed: %s", err)
	}
	csns, err := consensus.NewFactory().NewConsensus(&chainconfig.SimnetParams, db)
	if err != nil {
		t.Fatalf("TestConsensusRestoresPersistedState: NewConsensus unexpectedly failed: %s", err)
	}

	mirror := mmr.New()
	baseTime := testBaseTime()

	candidate := buildCandidate(t, "TestConsensusRestoresPersistedState", csns, mirror, baseTime, nil)
	commitCandidate(t, "TestConsensusRestoresPersistedState", csns, mirror, candidate)
	candidate = buildCandidate(t, "TestConsensusRestoresPersistedState", csns, mirror, baseTime,
		[]*externalapi.DomainTransaction{spendingTransactionForTest(1, 0)})
	commitCandidate(t, "TestConsensusRestoresPersistedState", csns, mirror, candidate)

	rootBeforeRestart := csns.AccumulatorRoot()
	heightBeforeRestart := csns.NextBlockHeight()
	difficultyBeforeRestart, err := csns.RequiredDifficulty(externalapi.PowSha3)
	if err != nil {
		t.Fatalf("TestConsensusRestoresPersistedState: RequiredDifficulty unexpectedly "+
			"failed: %s", err)
	}

	err = db.Close()
	if err != nil {
		t.Fatalf("TestConsensusRestoresPersistedState: Close unexpectedly failed: %s", err)
	}
	db, err = ldb.NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("TestConsensusRestoresPersistedState: reopening the database unexpectedly "+
			"failed: %s", err)
	}
	defer func() {
		err := db.Close()
		if err != nil {
			t.Fatalf("TestConsensusRestoresPersistedState: Close unexpectedly failed: %s", err)
		}
	}()
	restored, err := consensus.NewFactory().NewConsensus(&chainconfig.SimnetParams, db)
	if err != nil {
		t.Fatalf("TestConsensusRestoresPersistedState: NewConsensus unexpectedly failed after "+
			"the restart: %s", err)
	}

	if restored.NextBlockHeight() != heightBeforeRestart {
		t.Fatalf("TestConsensusRestoresPersistedState: expected the restored chain to grow at "+
			"height %d, found: %d", heightBeforeRestart, restored.NextBlockHeight())
	}
	if !restored.AccumulatorRoot().Equal(rootBeforeRestart) {
		t.Fatalf("TestConsensusRestoresPersistedState: the restored accumulator root %s is not "+
			"the one persisted before the restart %s", restored.AccumulatorRoot(), rootBeforeRestart)
	}
	restoredDifficulty, err := restored.RequiredDifficulty(externalapi.PowSha3)
	if err != nil {
		t.Fatalf("TestConsensusRestoresPersistedState: RequiredDifficulty unexpectedly failed "+
			"after the restart: %s", err)
	}
	if restoredDifficulty != difficultyBeforeRestart {
		t.Fatalf("TestConsensusRestoresPersistedState: expected the restored window to require "+
			"difficulty %d, found: %d", difficultyBeforeRestart, restoredDifficulty)
	}

	// The restored arena still proves live leaves and still refuses
	// pruned ones.
	proof, err := restored.ProveLeaf(1)
	if err != nil {
		t.Fatalf("TestConsensusRestoresPersistedState: ProveLeaf unexpectedly failed after the "+
			"restart: %s", err)
	}
	if !restored.VerifyLeaf(commitmentForTest(1, 0).ByteSlice(), 1, proof, restored.AccumulatorRoot()) {
		t.Fatalf("TestConsensusRestoresPersistedState: a proof from the restored accumulator " +
			"failed to verify")
	}
	_, err = restored.ProveLeaf(0)
	if !errors.Is(err, mmr.ErrLeafPruned) {
		t.Fatalf("TestConsensusRestoresPersistedState: ProveLeaf on the spent leaf expected "+
			"ErrLeafPruned after the restart, found: %v", err)
	}

	// The restored chain keeps growing.
	candidate = buildCandidate(t, "TestConsensusRestoresPersistedState", restored, mirror, baseTime, nil)
	commitCandidate(t, "TestConsensusRestoresPersistedState", restored, mirror, candidate)
	if !restored.AccumulatorRoot().Equal(mirror.Root()) {
		t.Fatalf("TestConsensusRestoresPersistedState: the accumulator root diverged from the "+
			"mirror after committing on the restored chain")
	}
}
