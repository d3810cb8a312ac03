package pastmediantimemanager

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/sorters"
)

// pastMedianTimeManager provides a method to resolve the median
// timestamp of the recent chain
type pastMedianTimeManager struct {
	constantsManager model.ConstantsManager
}

// New instantiates a new PastMedianTimeManager
func New(constantsManager model.ConstantsManager) model.PastMedianTimeManager {
	return &pastMedianTimeManager{
		constantsManager: constantsManager,
	}
}

// PastMedianTime returns the median timestamp of the last
// MedianTimestampCount blocks in the window, across all proof-of-work
// algorithms. A window with fewer blocks yields the median of what
// exists, and an empty window yields 0; only genesis has an empty past.
func (pmtm *pastMedianTimeManager) PastMedianTime(
	window externalapi.DifficultyWindow, height uint64) (int64, error) {

	if len(window) == 0 {
		return 0, nil
	}

	constants, err := pmtm.constantsManager.ConstantsForHeight(height)
	if err != nil {
		return 0, err
	}

	start := len(window) - constants.MedianTimestampCount
	if start < 0 {
		start = 0
	}
	timestamps := make(sorters.Int64Slice, 0, len(window)-start)
	for _, entry := range window[start:] {
		timestamps = append(timestamps, entry.Timestamp)
	}
	timestamps.Sort()

	// Networks declare an odd MedianTimestampCount. For an even number
	// of samples this takes the upper of the two middle ones rather
	// than averaging them.
	return timestamps[len(timestamps)/2], nil
}
