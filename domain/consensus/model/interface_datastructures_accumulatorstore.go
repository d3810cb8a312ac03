package model

import "github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"

// AccumulatorStore persists the output accumulator across restarts.
// The compact state is enough to restore appending and root
// computation; the node arena is additionally persisted so that
// inclusion proofs survive a restart.
type AccumulatorStore interface {
	StoreState(dbContext DBWriter, state *externalapi.AccumulatorState) error
	State(dbContext DBReader) (*externalapi.AccumulatorState, error)
	HasState(dbContext DBReader) (bool, error)

	// StoreNodes persists the tail of the given node arena that was
	// appended since the previous call.
	StoreNodes(dbContext DBWriter, nodes []*externalapi.DomainHash) error

	// Nodes restores the node arena for an accumulator of the given
	// size. It returns nil if fewer than mmrSize nodes were persisted.
	Nodes(dbContext DBReader, mmrSize uint64) ([]*externalapi.DomainHash, error)
}
