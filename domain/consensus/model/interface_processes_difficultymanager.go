package model

import "github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"

// DifficultyManager provides methods to resolve the required difficulty
// of a candidate block and to validate its timestamp against the recent
// chain
type DifficultyManager interface {
	RequiredDifficulty(window externalapi.DifficultyWindow,
		powAlgorithm externalapi.PowAlgorithm, height uint64) (uint64, error)
	ValidateTimestamp(candidateTimestamp int64,
		window externalapi.DifficultyWindow, height uint64) error
}
