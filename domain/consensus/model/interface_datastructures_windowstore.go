package model

import "github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"

// WindowStore persists the recent-chain difficulty window and the height
// the chain grows at next, so a restarted node resumes difficulty and
// timestamp validation exactly where it left off.
type WindowStore interface {
	// StoreWindow stores the given difficulty window.
	StoreWindow(dbContext DBWriter, window externalapi.DifficultyWindow) error

	// Window gets the stored difficulty window. It returns ErrNotFound
	// if no window was ever stored.
	Window(dbContext DBReader) (externalapi.DifficultyWindow, error)

	// HasWindow returns whether a difficulty window was ever stored.
	HasWindow(dbContext DBReader) (bool, error)

	// StoreNextBlockHeight stores the height the next committed block
	// must build at.
	StoreNextBlockHeight(dbContext DBWriter, nextBlockHeight uint64) error

	// NextBlockHeight gets the stored next block height. It returns
	// ErrNotFound if no height was ever stored.
	NextBlockHeight(dbContext DBReader) (uint64, error)
}
