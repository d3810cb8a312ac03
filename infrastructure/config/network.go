package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/obsidiannet/obsidiand/domain/chainconfig"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Testnet               bool   `long:"testnet" description:"Use the test network"`
	Simnet                bool   `long:"simnet" description:"Use the simulation test network"`
	Devnet                bool   `long:"devnet" description:"Use the development test network"`
	OverrideConstantsFile string `long:"override-constants-file" description:"Overrides the latest consensus constants snapshot (allowed only on devnet)"`

	ActiveNetParams *chainconfig.Params
}

// overrideConstantsConfig is the JSON shape of --override-constants-file.
// Absent fields keep the devnet defaults; the proof-of-work fields apply
// to every algorithm the snapshot permits.
type overrideConstantsConfig struct {
	CoinbaseMaturity          *uint64 `json:"coinbaseMaturity"`
	DifficultyBlockWindow     *uint64 `json:"difficultyBlockWindow"`
	MedianTimestampCount      *int    `json:"medianTimestampCount"`
	FutureTimeLimit           *int64  `json:"futureTimeLimit"`
	MaxBlockTransactionWeight *uint64 `json:"maxBlockTransactionWeight"`
	TargetTimePerBlock        *int64  `json:"targetTimePerBlock"`
	MinDifficulty             *uint64 `json:"minDifficulty"`
	MaxDifficulty             *uint64 `json:"maxDifficulty"`
	MaxTargetTime             *int64  `json:"maxTargetTime"`
	InitialReward             *uint64 `json:"initialReward"`
	TailReward                *uint64 `json:"tailReward"`
}

// ResolveNetwork parses the network command line argument and sets NetParams accordingly.
// It returns error if more than one network was selected, nil otherwise.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	//NetParams holds the selected network parameters. Default value is main-net.
	networkFlags.ActiveNetParams = &chainconfig.MainnetParams
	// Multiple networks can't be selected simultaneously.
	numNets := 0
	// default net is main net
	// Count number of network flags passed; assign active network params
	// while we're at it
	if networkFlags.Testnet {
		numNets++
		networkFlags.ActiveNetParams = &chainconfig.TestnetParams
	}
	if networkFlags.Simnet {
		numNets++
		networkFlags.ActiveNetParams = &chainconfig.SimnetParams
	}
	if networkFlags.Devnet {
		numNets++
		networkFlags.ActiveNetParams = &chainconfig.DevnetParams
	}
	if numNets > 1 {
		message := "Multiple networks parameters (testnet, simnet, devnet, etc.) cannot be used " +
			"together. Please choose only one network"
		err := errors.Errorf(message)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return err
	}

	err := networkFlags.overrideConstants()
	if err != nil {
		return err
	}

	return nil
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *chainconfig.Params {
	return networkFlags.ActiveNetParams
}

func (networkFlags *NetworkFlags) overrideConstants() error {
	if networkFlags.OverrideConstantsFile == "" {
		return nil
	}

	if !networkFlags.Devnet {
		return errors.Errorf("override-constants-file is allowed only when using devnet")
	}

	overrideConstantsFile, err := os.Open(networkFlags.OverrideConstantsFile)
	if err != nil {
		return err
	}
	defer overrideConstantsFile.Close()

	decoder := json.NewDecoder(overrideConstantsFile)
	config := &overrideConstantsConfig{}
	err = decoder.Decode(config)
	if err != nil {
		return err
	}

	// Constants snapshots are shared immutable state, so the overrides go
	// into clones and the package-level devnet params stay untouched.
	overriddenParams := *networkFlags.ActiveNetParams
	overriddenTable := make([]*externalapi.ConsensusConstants, len(overriddenParams.ConstantsTable))
	copy(overriddenTable, overriddenParams.ConstantsTable)
	latest := overriddenTable[len(overriddenTable)-1].Clone()

	if config.CoinbaseMaturity != nil {
		latest.CoinbaseMaturity = *config.CoinbaseMaturity
	}

	if config.DifficultyBlockWindow != nil {
		latest.DifficultyBlockWindow = *config.DifficultyBlockWindow
	}

	if config.MedianTimestampCount != nil {
		latest.MedianTimestampCount = *config.MedianTimestampCount
	}

	if config.FutureTimeLimit != nil {
		latest.FutureTimeLimit = *config.FutureTimeLimit
	}

	if config.MaxBlockTransactionWeight != nil {
		latest.MaxBlockTransactionWeight = *config.MaxBlockTransactionWeight
	}

	for _, algorithmConstants := range latest.PowAlgorithms {
		if config.TargetTimePerBlock != nil {
			algorithmConstants.TargetTimePerBlock = *config.TargetTimePerBlock
		}

		if config.MinDifficulty != nil {
			algorithmConstants.MinDifficulty = *config.MinDifficulty
		}

		if config.MaxDifficulty != nil {
			algorithmConstants.MaxDifficulty = *config.MaxDifficulty
		}

		if config.MaxTargetTime != nil {
			algorithmConstants.MaxTargetTime = *config.MaxTargetTime
		}

		if algorithmConstants.MinDifficulty > algorithmConstants.MaxDifficulty {
			return errors.Errorf("minDifficulty (%d) is greater than maxDifficulty (%d)",
				algorithmConstants.MinDifficulty, algorithmConstants.MaxDifficulty)
		}
	}

	if config.InitialReward != nil {
		latest.Emission.InitialReward = *config.InitialReward
	}

	if config.TailReward != nil {
		latest.Emission.TailReward = *config.TailReward
	}

	overriddenTable[len(overriddenTable)-1] = latest
	overriddenParams.ConstantsTable = overriddenTable
	networkFlags.ActiveNetParams = &overriddenParams

	return nil
}
