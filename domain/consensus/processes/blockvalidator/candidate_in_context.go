package blockvalidator

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// ValidateCandidateInContext validates the candidate block against the
// recent chain the given window describes: its timestamp must respect
// the window's median and the node's clock, and the difficulty it
// declares must be exactly the one its algorithm's window requires.
func (v *blockValidator) ValidateCandidateInContext(candidate *externalapi.CandidateBlock,
	window externalapi.DifficultyWindow) error {

	err := v.difficultyManager.ValidateTimestamp(candidate.Timestamp, window, candidate.Height)
	if err != nil {
		return err
	}

	requiredDifficulty, err := v.difficultyManager.RequiredDifficulty(
		window, candidate.PowAlgorithm, candidate.Height)
	if err != nil {
		return err
	}
	if candidate.Difficulty != requiredDifficulty {
		return errors.Wrapf(ruleerrors.ErrUnexpectedDifficulty,
			"the candidate declares difficulty %d but its %s window requires %d",
			candidate.Difficulty, candidate.PowAlgorithm, requiredDifficulty)
	}
	return nil
}
