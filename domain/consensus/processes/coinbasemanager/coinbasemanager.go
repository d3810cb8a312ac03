package coinbasemanager

import (
	"math/bits"

	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// rewardCheckpointInterval is the spacing, in heights, of the precomputed
// emission checkpoints. A reward or supply query never replays more than
// this many decay steps.
const rewardCheckpointInterval = 1024

type rewardCheckpoint struct {
	// reward is the block reward at the checkpoint's own height.
	reward uint64

	// supplyBefore is the total number of grains emitted by all blocks
	// below the checkpoint's height.
	supplyBefore uint64
}

type coinbaseManager struct {
	emission externalapi.EmissionSchedule

	// checkpoints[i] captures the emission state at height
	// i*rewardCheckpointInterval. Checkpoints cover the decay phase only;
	// past tailStartHeight the schedule is flat and needs no replay.
	checkpoints      []rewardCheckpoint
	tailStartHeight  uint64
	supplyBeforeTail uint64
}

// New instantiates a new CoinbaseManager. The emission schedule is read
// from the genesis constants and is fixed for the life of the chain, so
// New rejects tables whose later snapshots try to change it.
func New(constantsManager model.ConstantsManager) (model.CoinbaseManager, error) {
	genesisConstants, err := constantsManager.ConstantsForHeight(0)
	if err != nil {
		return nil, err
	}
	emission := genesisConstants.Emission
	for _, snapshot := range constantsManager.Snapshots() {
		if snapshot.Emission != emission {
			return nil, errors.Errorf("the constants snapshot activating at height %d "+
				"changes the emission schedule, which is fixed at genesis",
				snapshot.EffectiveFromHeight)
		}
	}

	manager := &coinbaseManager{emission: emission}
	err = manager.buildCheckpoints()
	if err != nil {
		return nil, err
	}
	return manager, nil
}

// buildCheckpoints replays the decay from genesis until the reward sinks
// to the tail, recording the emission state every
// rewardCheckpointInterval heights along the way. The replay terminates
// because each step strictly shrinks a positive reward.
func (c *coinbaseManager) buildCheckpoints() error {
	reward := c.emission.InitialReward
	supply := uint64(0)
	height := uint64(0)
	for reward > c.emission.TailReward {
		if height%rewardCheckpointInterval == 0 {
			c.checkpoints = append(c.checkpoints, rewardCheckpoint{
				reward:       reward,
				supplyBefore: supply,
			})
		}
		if supply+reward < supply {
			return errors.Errorf("the emission schedule overflows a uint64 supply "+
				"at height %d", height)
		}
		supply += reward
		height++
		reward = decayReward(reward, c.emission)
	}
	c.tailStartHeight = height
	c.supplyBeforeTail = supply
	return nil
}

// decayReward applies one decay step. The 128-bit intermediate keeps
// reward*numerator exact, and the quotient always fits back in 64 bits
// because the numerator is smaller than the denominator.
func decayReward(reward uint64, emission externalapi.EmissionSchedule) uint64 {
	hi, lo := bits.Mul64(reward, emission.DecayNumerator)
	quotient, _ := bits.Div64(hi, lo, emission.DecayDenominator)
	return quotient
}

// BlockReward returns the base subsidy of a block at the given height,
// in grains.
func (c *coinbaseManager) BlockReward(height uint64) uint64 {
	if height >= c.tailStartHeight {
		return c.emission.TailReward
	}
	checkpoint := c.checkpoints[height/rewardCheckpointInterval]
	reward := checkpoint.reward
	for step := height % rewardCheckpointInterval; step > 0; step-- {
		reward = decayReward(reward, c.emission)
	}
	return reward
}

// CumulativeSupply returns the total number of grains emitted by all
// blocks up to and including the given height.
func (c *coinbaseManager) CumulativeSupply(height uint64) uint64 {
	if height >= c.tailStartHeight {
		tailBlocks := height - c.tailStartHeight + 1
		return c.supplyBeforeTail + tailBlocks*c.emission.TailReward
	}
	checkpoint := c.checkpoints[height/rewardCheckpointInterval]
	supply := checkpoint.supplyBefore
	reward := checkpoint.reward
	for remaining := height%rewardCheckpointInterval + 1; remaining > 0; remaining-- {
		supply += reward
		reward = decayReward(reward, c.emission)
	}
	return supply
}

// TailEmissionStartHeight returns the first height at which the decaying
// reward falls to the constant tail reward.
func (c *coinbaseManager) TailEmissionStartHeight() uint64 {
	return c.tailStartHeight
}

// ExpectedCoinbaseValue returns the exact value the coinbase output of a
// block at the given height must carry.
func (c *coinbaseManager) ExpectedCoinbaseValue(height uint64, totalFees uint64) (uint64, error) {
	reward := c.BlockReward(height)
	value := reward + totalFees
	if value < reward {
		return 0, errors.Wrapf(ruleerrors.ErrBadCoinbaseValue,
			"adding %d in fees to the block reward %d overflows", totalFees, reward)
	}
	return value, nil
}
