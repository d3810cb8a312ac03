package model

import "github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"

// PastMedianTimeManager provides a method to resolve the median
// timestamp of the recent chain
type PastMedianTimeManager interface {
	PastMedianTime(window externalapi.DifficultyWindow, height uint64) (int64, error)
}
