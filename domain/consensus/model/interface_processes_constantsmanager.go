package model

import "github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"

// ConstantsManager resolves the consensus constants snapshot that
// governs any given height
type ConstantsManager interface {
	// ConstantsForHeight returns the constants snapshot whose effective
	// range contains the given height. It returns
	// ruleerrors.ErrNoConstantsDefined if no snapshot covers the height.
	ConstantsForHeight(height uint64) (*externalapi.ConsensusConstants, error)

	// ConstantsHashForHeight returns the hash of the serialized snapshot
	// that governs the given height.
	ConstantsHashForHeight(height uint64) (*externalapi.DomainHash, error)

	// Snapshots returns all registered snapshots ordered by their
	// effective heights.
	Snapshots() []*externalapi.ConsensusConstants
}
