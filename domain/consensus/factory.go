package consensus

import (
	"github.com/obsidiannet/obsidiand/domain/chainconfig"
	consensusdatabase "github.com/obsidiannet/obsidiand/domain/consensus/database"
	"github.com/obsidiannet/obsidiand/domain/consensus/datastructures/accumulatorstore"
	"github.com/obsidiannet/obsidiand/domain/consensus/datastructures/windowstore"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/blockvalidator"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/coinbasemanager"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/constantsmanager"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/difficultymanager"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/pastmediantimemanager"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/transactionvalidator"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/mmr"
	"github.com/obsidiannet/obsidiand/infrastructure/db/database"
	"github.com/obsidiannet/obsidiand/util/timesource"
)

// Factory instantiates new Consensuses
type Factory interface {
	NewConsensus(params *chainconfig.Params, db database.Database) (Consensus, error)
}

type factory struct{}

// NewConsensus instantiates a new Consensus for the given network over
// the given database, restoring any state a previous run persisted.
func (f *factory) NewConsensus(params *chainconfig.Params, db database.Database) (Consensus, error) {
	dbManager := consensusdatabase.New(db)

	// Data Structures
	accumulatorStore := accumulatorstore.New()
	windowStore := windowstore.New()

	// Processes
	constantsManager, err := constantsmanager.New(params.ConstantsTable)
	if err != nil {
		return nil, err
	}
	pastMedianTimeManager := pastmediantimemanager.New(constantsManager)
	difficultyManager := difficultymanager.New(
		constantsManager,
		pastMedianTimeManager,
		timesource.NewTimeSource())
	coinbaseManager, err := coinbasemanager.New(constantsManager)
	if err != nil {
		return nil, err
	}
	transactionValidator := transactionvalidator.New(constantsManager)
	blockValidator := blockvalidator.New(
		constantsManager,
		difficultyManager,
		transactionValidator)

	c := &consensus{
		databaseContext: dbManager,

		blockValidator:    blockValidator,
		difficultyManager: difficultyManager,
		coinbaseManager:   coinbaseManager,
		constantsManager:  constantsManager,

		accumulatorStore: accumulatorStore,
		windowStore:      windowStore,

		accumulator: mmr.New(),
	}
	err = c.restoreState()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewFactory creates a new Consensus factory
func NewFactory() Factory {
	return &factory{}
}
