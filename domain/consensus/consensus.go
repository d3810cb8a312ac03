package consensus

import (
	"sync"

	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/mmr"
	"github.com/pkg/errors"
)

// Consensus maintains the current core state of the node
type Consensus interface {
	// ValidateCandidateBlock validates the given candidate block against
	// the current chain state without mutating it. The same candidate
	// may be validated concurrently with others; each validation runs
	// against its own snapshot.
	ValidateCandidateBlock(candidate *externalapi.CandidateBlock) error

	// CommitBlock re-validates the given candidate block and, if valid,
	// applies it to the current state. The new state is persisted before
	// CommitBlock returns.
	CommitBlock(candidate *externalapi.CandidateBlock) error

	// NextBlockHeight returns the height the next committed block must
	// build at.
	NextBlockHeight() uint64

	// RequiredDifficulty returns the difficulty the next block must
	// declare if mined with the given algorithm.
	RequiredDifficulty(powAlgorithm externalapi.PowAlgorithm) (uint64, error)

	// MaxBlockWeight returns the transaction weight budget of the next
	// block, in grams.
	MaxBlockWeight() (uint64, error)

	// BlockReward returns the base subsidy of the next block, in grains.
	BlockReward() uint64

	// ExpectedCoinbaseValue returns the exact value the next block's
	// coinbase output must carry given the fees it collects.
	ExpectedCoinbaseValue(totalFees uint64) (uint64, error)

	// AccumulatorRoot returns the root of the output accumulator.
	AccumulatorRoot() *externalapi.DomainHash

	// ProveLeaf returns an inclusion proof for the given accumulator
	// leaf.
	ProveLeaf(leafIndex uint64) (*externalapi.InclusionProof, error)

	// VerifyLeaf verifies an inclusion proof against the given root.
	VerifyLeaf(leafContent []byte, leafIndex uint64,
		proof *externalapi.InclusionProof, root *externalapi.DomainHash) bool
}

type consensus struct {
	// mutex serializes writers. There is exactly one writer at a time,
	// matching the node's single active best chain; readers work against
	// snapshots taken under a short hold of this mutex.
	mutex sync.Mutex

	databaseContext model.DBManager

	blockValidator    model.BlockValidator
	difficultyManager model.DifficultyManager
	coinbaseManager   model.CoinbaseManager
	constantsManager  model.ConstantsManager

	accumulatorStore model.AccumulatorStore
	windowStore      model.WindowStore

	accumulator *mmr.Accumulator

	// window holds the recent chain, oldest first. Its entries are never
	// mutated and the slice is only ever appended to or resliced, so a
	// slice value taken under the mutex stays consistent after release.
	window          externalapi.DifficultyWindow
	nextBlockHeight uint64
}

// chainState is the snapshot of everything a candidate block is judged
// against.
type chainState struct {
	nextBlockHeight uint64
	window          externalapi.DifficultyWindow
	accumulator     *mmr.Snapshot
}

func (s *consensus) currentState() *chainState {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.currentStateNoLock()
}

func (s *consensus) currentStateNoLock() *chainState {
	return &chainState{
		nextBlockHeight: s.nextBlockHeight,
		window:          s.window,
		accumulator:     s.accumulator.Snapshot(),
	}
}

// ValidateCandidateBlock validates the given candidate block against the
// current chain state without mutating it. A candidate that passes here
// may still be rejected by CommitBlock if the chain advanced in between.
func (s *consensus) ValidateCandidateBlock(candidate *externalapi.CandidateBlock) error {
	return s.validateCandidate(candidate, s.currentState())
}

func (s *consensus) validateCandidate(candidate *externalapi.CandidateBlock, state *chainState) error {
	if candidate.Height != state.nextBlockHeight {
		return errors.Errorf("the candidate builds at height %d but the chain grows at height %d",
			candidate.Height, state.nextBlockHeight)
	}

	err := s.blockValidator.ValidateCandidateInIsolation(candidate)
	if err != nil {
		return err
	}
	err = s.blockValidator.ValidateCandidateInContext(candidate, state.window)
	if err != nil {
		return err
	}
	err = s.checkSpentLeaves(candidate, state.accumulator.LeafCount())
	if err != nil {
		return err
	}
	return s.checkAccumulatorRoot(candidate, state.accumulator)
}

// checkSpentLeaves checks that every leaf the candidate spends exists
// and was not spent before, by this candidate or by an earlier block.
func (s *consensus) checkSpentLeaves(candidate *externalapi.CandidateBlock, leafCount uint64) error {
	spentLeaves := make(map[uint64]struct{})
	var missingLeafIndexes []uint64
	for _, transaction := range candidate.Transactions {
		for _, input := range transaction.Inputs {
			leafIndex := input.SpentLeafIndex
			if _, ok := spentLeaves[leafIndex]; ok {
				return errors.Wrapf(ruleerrors.ErrDoubleSpend,
					"the block spends leaf %d more than once", leafIndex)
			}
			spentLeaves[leafIndex] = struct{}{}

			if leafIndex >= leafCount {
				missingLeafIndexes = append(missingLeafIndexes, leafIndex)
				continue
			}
			isPruned, err := s.accumulator.IsPruned(leafIndex)
			if err != nil {
				return err
			}
			if isPruned {
				return errors.Wrapf(ruleerrors.ErrDoubleSpend,
					"leaf %d was already spent by an earlier block", leafIndex)
			}
		}
	}
	if len(missingLeafIndexes) > 0 {
		return ruleerrors.NewErrMissingSpentLeaves(missingLeafIndexes)
	}
	return nil
}

// checkAccumulatorRoot stages the candidate's outputs on top of the
// snapshot and compares the staged root against the root the candidate
// declares. Spends do not enter the comparison: pruning never moves the
// root, since peak hashes are fixed at append time.
func (s *consensus) checkAccumulatorRoot(candidate *externalapi.CandidateBlock,
	snapshot *mmr.Snapshot) error {

	staged := s.stageCandidateLeaves(candidate, snapshot)
	stagedRoot := staged.Root()
	if !candidate.AccumulatorRoot.Equal(stagedRoot) {
		return errors.Wrapf(ruleerrors.ErrBadAccumulatorRoot,
			"the candidate commits to accumulator root %s, but replaying its outputs yields %s",
			candidate.AccumulatorRoot, stagedRoot)
	}
	return nil
}

func (s *consensus) stageCandidateLeaves(candidate *externalapi.CandidateBlock,
	snapshot *mmr.Snapshot) *mmr.StagedAccumulator {

	staged := mmr.NewStaged(snapshot)
	for _, transaction := range candidate.Transactions {
		for _, output := range transaction.Outputs {
			staged.Append(output.Commitment.ByteSlice())
		}
	}
	return staged
}

// CommitBlock re-validates the given candidate block under the writer
// lock and, if valid, appends its outputs to the accumulator, prunes the
// leaves it spends, extends the difficulty window and persists the new
// state. A candidate another goroutine committed first fails
// re-validation here, which is what makes optimistic concurrent
// validation safe.
func (s *consensus) CommitBlock(candidate *externalapi.CandidateBlock) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state := s.currentStateNoLock()
	err := s.validateCandidate(candidate, state)
	if err != nil {
		return err
	}

	staged := s.stageCandidateLeaves(candidate, state.accumulator)
	appendedLeaves := staged.StagedLeafCount()
	err = staged.Commit(s.accumulator)
	if err != nil {
		return err
	}
	prunedLeaves := 0
	for _, transaction := range candidate.Transactions {
		for _, input := range transaction.Inputs {
			err := s.accumulator.Prune(input.SpentLeafIndex)
			if err != nil {
				return err
			}
			prunedLeaves++
		}
	}

	constants, err := s.constantsManager.ConstantsForHeight(candidate.Height)
	if err != nil {
		return err
	}
	s.window = append(s.window, &externalapi.DifficultyWindowEntry{
		Timestamp:    candidate.Timestamp,
		Difficulty:   candidate.Difficulty,
		PowAlgorithm: candidate.PowAlgorithm,
	})
	s.trimWindowNoLock(constants)
	s.nextBlockHeight = candidate.Height + 1

	err = s.persistStateNoLock()
	if err != nil {
		return err
	}

	log.Debugf("Committed block at height %d: %d leaves appended, %d pruned, accumulator root %s",
		candidate.Height, appendedLeaves, prunedLeaves, candidate.AccumulatorRoot)
	return nil
}

// trimWindowNoLock drops window entries that no consumer can reach
// anymore. The difficulty engine samples at most DifficultyBlockWindow+1
// entries per algorithm and the median timestamp rule reads the trailing
// MedianTimestampCount entries.
func (s *consensus) trimWindowNoLock(constants *externalapi.ConsensusConstants) {
	maxEntries := (constants.DifficultyBlockWindow+1)*uint64(len(constants.PowAlgorithms)) +
		uint64(constants.MedianTimestampCount)
	if uint64(len(s.window)) > maxEntries {
		s.window = s.window[uint64(len(s.window))-maxEntries:]
	}
}

// persistStateNoLock writes the accumulator and the window to the
// database in one transaction. A failure here leaves the in-memory
// state ahead of the persisted one, so callers must treat it as fatal.
func (s *consensus) persistStateNoLock() error {
	dbTransaction, err := s.databaseContext.Begin()
	if err != nil {
		return err
	}
	defer dbTransaction.RollbackUnlessClosed()

	err = s.accumulatorStore.StoreState(dbTransaction, s.accumulator.State())
	if err != nil {
		return err
	}
	err = s.accumulatorStore.StoreNodes(dbTransaction, s.accumulator.Nodes())
	if err != nil {
		return err
	}
	err = s.windowStore.StoreWindow(dbTransaction, s.window)
	if err != nil {
		return err
	}
	err = s.windowStore.StoreNextBlockHeight(dbTransaction, s.nextBlockHeight)
	if err != nil {
		return err
	}
	return dbTransaction.Commit()
}

// restoreState loads the persisted accumulator and window, if any. A
// fresh database yields the genesis state: an empty accumulator, an
// empty window and height 0.
func (s *consensus) restoreState() error {
	hasState, err := s.accumulatorStore.HasState(s.databaseContext)
	if err != nil {
		return err
	}
	if hasState {
		state, err := s.accumulatorStore.State(s.databaseContext)
		if err != nil {
			return err
		}
		nodes, err := s.accumulatorStore.Nodes(s.databaseContext, mmr.SizeFromLeafCount(state.LeafCount))
		if err != nil {
			return err
		}
		s.accumulator, err = mmr.FromState(state, nodes)
		if err != nil {
			return err
		}
	}

	hasWindow, err := s.windowStore.HasWindow(s.databaseContext)
	if err != nil {
		return err
	}
	if hasWindow {
		window, err := s.windowStore.Window(s.databaseContext)
		if err != nil {
			return err
		}
		nextBlockHeight, err := s.windowStore.NextBlockHeight(s.databaseContext)
		if err != nil {
			return err
		}
		s.window = window
		s.nextBlockHeight = nextBlockHeight
	}

	if hasState || hasWindow {
		log.Infof("Restored chain state: height %d, %d accumulator leaves (%d pruned)",
			s.nextBlockHeight, s.accumulator.LeafCount(), s.accumulator.PrunedLeafCount())
	}
	return nil
}

// NextBlockHeight returns the height the next committed block must
// build at.
func (s *consensus) NextBlockHeight() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.nextBlockHeight
}

// RequiredDifficulty returns the difficulty the next block must declare
// if mined with the given algorithm.
func (s *consensus) RequiredDifficulty(powAlgorithm externalapi.PowAlgorithm) (uint64, error) {
	state := s.currentState()
	return s.difficultyManager.RequiredDifficulty(state.window, powAlgorithm, state.nextBlockHeight)
}

// MaxBlockWeight returns the transaction weight budget of the next
// block, in grams.
func (s *consensus) MaxBlockWeight() (uint64, error) {
	constants, err := s.constantsManager.ConstantsForHeight(s.NextBlockHeight())
	if err != nil {
		return 0, err
	}
	return constants.MaxBlockTransactionWeight, nil
}

// BlockReward returns the base subsidy of the next block, in grains.
func (s *consensus) BlockReward() uint64 {
	return s.coinbaseManager.BlockReward(s.NextBlockHeight())
}

// ExpectedCoinbaseValue returns the exact value the next block's
// coinbase output must carry given the fees it collects.
func (s *consensus) ExpectedCoinbaseValue(totalFees uint64) (uint64, error) {
	return s.coinbaseManager.ExpectedCoinbaseValue(s.NextBlockHeight(), totalFees)
}

// AccumulatorRoot returns the root of the output accumulator.
func (s *consensus) AccumulatorRoot() *externalapi.DomainHash {
	return s.accumulator.Root()
}

// ProveLeaf returns an inclusion proof for the given accumulator leaf.
func (s *consensus) ProveLeaf(leafIndex uint64) (*externalapi.InclusionProof, error) {
	return s.accumulator.Prove(leafIndex)
}

// VerifyLeaf verifies an inclusion proof against the given root. It is
// a pure function and may be called from any goroutine.
func (s *consensus) VerifyLeaf(leafContent []byte, leafIndex uint64,
	proof *externalapi.InclusionProof, root *externalapi.DomainHash) bool {

	return mmr.VerifyInclusionProof(leafContent, leafIndex, proof, root)
}
