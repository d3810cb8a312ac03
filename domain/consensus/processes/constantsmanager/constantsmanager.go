package constantsmanager

import (
	"sort"

	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/constantsserialization"
	"github.com/pkg/errors"
)

// ErrMalformedConstantsTable signals a constants table that violates
// the structural rules checked by New.
var ErrMalformedConstantsTable = errors.New("malformed constants table")

// constantsManager resolves the constants snapshot that governs any
// given height. A snapshot governs from its effective height up to,
// but not including, the next snapshot's effective height; the last
// snapshot governs forever.
type constantsManager struct {
	snapshots      []*externalapi.ConsensusConstants
	snapshotHashes []*externalapi.DomainHash
}

// New instantiates a new ConstantsManager over the given snapshots.
// The snapshots must be ordered by strictly increasing effective
// heights and the first must take effect at height 0, so that every
// height is governed by exactly one snapshot.
func New(snapshots []*externalapi.ConsensusConstants) (model.ConstantsManager, error) {
	if len(snapshots) == 0 {
		return nil, errors.Wrap(ErrMalformedConstantsTable,
			"a consensus requires at least one constants snapshot")
	}
	if snapshots[0].EffectiveFromHeight != 0 {
		return nil, errors.Wrapf(ErrMalformedConstantsTable,
			"the first constants snapshot must take effect at height 0, "+
				"but it takes effect at height %d", snapshots[0].EffectiveFromHeight)
	}

	clonedSnapshots := make([]*externalapi.ConsensusConstants, len(snapshots))
	snapshotHashes := make([]*externalapi.DomainHash, len(snapshots))
	for i, snapshot := range snapshots {
		if i > 0 && snapshot.EffectiveFromHeight <= snapshots[i-1].EffectiveFromHeight {
			return nil, errors.Wrapf(ErrMalformedConstantsTable,
				"constants snapshots must be ordered by strictly "+
					"increasing effective heights, but snapshot %d takes effect at height %d "+
					"right after height %d", i, snapshot.EffectiveFromHeight,
				snapshots[i-1].EffectiveFromHeight)
		}

		err := validateSnapshot(i, snapshot)
		if err != nil {
			return nil, err
		}

		// Hashing also proves the snapshot serializes, so a snapshot
		// that cannot be committed to is rejected up front.
		snapshotHash, err := constantsserialization.ConstantsHash(snapshot)
		if err != nil {
			return nil, errors.Wrapf(err, "constants snapshot %d cannot be hashed", i)
		}

		clonedSnapshots[i] = snapshot.Clone()
		snapshotHashes[i] = snapshotHash
	}

	return &constantsManager{
		snapshots:      clonedSnapshots,
		snapshotHashes: snapshotHashes,
	}, nil
}

func validateSnapshot(index int, snapshot *externalapi.ConsensusConstants) error {
	if len(snapshot.PowAlgorithms) == 0 {
		return errors.Wrapf(ErrMalformedConstantsTable,
			"constants snapshot %d declares no proof-of-work algorithms", index)
	}
	for algorithm, algorithmConstants := range snapshot.PowAlgorithms {
		if algorithmConstants.TargetTimePerBlock <= 0 {
			return errors.Wrapf(ErrMalformedConstantsTable,
				"constants snapshot %d declares a non-positive target "+
					"time for %s", index, algorithm)
		}
		if algorithmConstants.MinDifficulty == 0 {
			return errors.Wrapf(ErrMalformedConstantsTable,
				"constants snapshot %d declares a zero minimum "+
					"difficulty for %s", index, algorithm)
		}
		if algorithmConstants.MinDifficulty > algorithmConstants.MaxDifficulty {
			return errors.Wrapf(ErrMalformedConstantsTable,
				"constants snapshot %d declares a minimum difficulty "+
					"above the maximum for %s", index, algorithm)
		}
		if algorithmConstants.MaxTargetTime <= 0 {
			return errors.Wrapf(ErrMalformedConstantsTable,
				"constants snapshot %d declares a non-positive maximum "+
					"target time for %s", index, algorithm)
		}
	}
	if snapshot.DifficultyBlockWindow == 0 {
		return errors.Wrapf(ErrMalformedConstantsTable,
			"constants snapshot %d declares an empty difficulty window", index)
	}
	if snapshot.MedianTimestampCount <= 0 {
		return errors.Wrapf(ErrMalformedConstantsTable,
			"constants snapshot %d declares a non-positive median "+
				"timestamp count", index)
	}
	if snapshot.FutureTimeLimit <= 0 {
		return errors.Wrapf(ErrMalformedConstantsTable,
			"constants snapshot %d declares a non-positive future "+
				"time limit", index)
	}
	if snapshot.WeightParams.FeaturesAndScriptsBytesPerGram == 0 {
		return errors.Wrapf(ErrMalformedConstantsTable,
			"constants snapshot %d declares zero features-and-scripts "+
				"bytes per gram", index)
	}
	if snapshot.MaxBlockTransactionWeight == 0 {
		return errors.Wrapf(ErrMalformedConstantsTable,
			"constants snapshot %d declares a zero block weight limit", index)
	}
	if snapshot.Emission.DecayDenominator == 0 {
		return errors.Wrapf(ErrMalformedConstantsTable,
			"constants snapshot %d declares a zero emission decay "+
				"denominator", index)
	}
	if snapshot.Emission.DecayNumerator >= snapshot.Emission.DecayDenominator {
		return errors.Wrapf(ErrMalformedConstantsTable,
			"constants snapshot %d declares an emission decay of at "+
				"least one, so the reward would never decay", index)
	}
	return nil
}

// ConstantsForHeight returns the snapshot that governs the given
// height. The returned snapshot is shared and must be treated as
// immutable.
func (c *constantsManager) ConstantsForHeight(height uint64) (*externalapi.ConsensusConstants, error) {
	index, err := c.snapshotIndexForHeight(height)
	if err != nil {
		return nil, err
	}
	return c.snapshots[index], nil
}

// ConstantsHashForHeight returns the hash of the canonical serialized
// form of the snapshot that governs the given height.
func (c *constantsManager) ConstantsHashForHeight(height uint64) (*externalapi.DomainHash, error) {
	index, err := c.snapshotIndexForHeight(height)
	if err != nil {
		return nil, err
	}
	return c.snapshotHashes[index], nil
}

func (c *constantsManager) snapshotIndexForHeight(height uint64) (int, error) {
	// Find the first snapshot that takes effect beyond the height; the
	// governing snapshot is the one right before it.
	index := sort.Search(len(c.snapshots), func(i int) bool {
		return c.snapshots[i].EffectiveFromHeight > height
	})
	if index == 0 {
		return 0, errors.Wrapf(ruleerrors.ErrNoConstantsDefined,
			"no constants snapshot covers height %d", height)
	}
	return index - 1, nil
}

// Snapshots returns a clone of all registered snapshots ordered by
// their effective heights.
func (c *constantsManager) Snapshots() []*externalapi.ConsensusConstants {
	snapshots := make([]*externalapi.ConsensusConstants, len(c.snapshots))
	for i, snapshot := range c.snapshots {
		snapshots[i] = snapshot.Clone()
	}
	return snapshots
}
