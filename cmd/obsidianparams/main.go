// obsidianparams prints the resolved parameters of an Obsidian network:
// its constants snapshots, difficulty bounds and emission schedule. It is
// meant for eyeballing what a node on that network will actually enforce.
package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/coinbasemanager"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/constantsmanager"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/constants"
	"github.com/obsidiannet/obsidiand/infrastructure/logger"
	"github.com/obsidiannet/obsidiand/util/panics"
	"github.com/obsidiannet/obsidiand/version"
)

func main() {
	defer panics.HandlePanic(log, nil)

	logger.InitLogStdout(logger.LevelWarn)
	err := logger.SetLogLevels("warn")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting log levels: %s\n", err)
		os.Exit(1)
	}

	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}
	params := cfg.NetParams()

	constantsManager, err := constantsmanager.New(params.ConstantsTable)
	if err != nil {
		printErrorAndExit(err)
	}
	coinbaseManager, err := coinbasemanager.New(constantsManager)
	if err != nil {
		printErrorAndExit(err)
	}

	fmt.Printf("obsidianparams version %s\n\n", version.Version())
	fmt.Printf("Network: %s (magic 0x%08x)\n", params.Name, uint32(params.Net))
	fmt.Printf("Default port: %s, RPC port: %s\n", params.DefaultPort, params.RPCPort)
	if len(params.DNSSeeds) > 0 {
		fmt.Printf("DNS seeds: %s\n", strings.Join(params.DNSSeeds, ", "))
	}
	fmt.Println()

	for _, snapshot := range constantsManager.Snapshots() {
		printSnapshot(constantsManager, snapshot)
	}

	printEmissionSchedule(coinbaseManager)
}

func printSnapshot(constantsManager model.ConstantsManager, snapshot *externalapi.ConsensusConstants) {
	constantsHash, err := constantsManager.ConstantsHashForHeight(snapshot.EffectiveFromHeight)
	if err != nil {
		printErrorAndExit(err)
	}

	fmt.Printf("Constants snapshot effective from height %d\n", snapshot.EffectiveFromHeight)
	fmt.Printf("  Hash: %s\n", constantsHash)
	fmt.Printf("  Coinbase maturity: %d blocks\n", snapshot.CoinbaseMaturity)
	fmt.Printf("  Difficulty window: %d blocks per algorithm, timestamps must exceed the median of %d\n",
		snapshot.DifficultyBlockWindow, snapshot.MedianTimestampCount)
	fmt.Printf("  Future time limit: %d seconds\n", snapshot.FutureTimeLimit)
	fmt.Printf("  Max block transaction weight: %d grams\n", snapshot.MaxBlockTransactionWeight)
	for _, powAlgorithm := range externalapi.AllPowAlgorithms {
		algorithmConstants, ok := snapshot.AlgorithmConstants(powAlgorithm)
		if !ok {
			continue
		}
		fmt.Printf("  %s: %d second target, difficulty %s, solve times capped at %d seconds\n",
			powAlgorithm, algorithmConstants.TargetTimePerBlock,
			formatDifficultyBounds(algorithmConstants), algorithmConstants.MaxTargetTime)
	}
	fmt.Printf("  Permitted output types: %s\n", formatOutputTypes(snapshot.PermittedOutputTypes))
	fmt.Printf("  Permitted range proof types: %s\n", formatRangeProofTypes(snapshot.PermittedRangeProofTypes))
	fmt.Println()
}

func formatDifficultyBounds(algorithmConstants *externalapi.PowAlgorithmConstants) string {
	if algorithmConstants.MaxDifficulty == math.MaxUint64 {
		return fmt.Sprintf("%d and up", algorithmConstants.MinDifficulty)
	}
	return fmt.Sprintf("%d to %d", algorithmConstants.MinDifficulty, algorithmConstants.MaxDifficulty)
}

func formatOutputTypes(outputTypes []externalapi.OutputType) string {
	names := make([]string, len(outputTypes))
	for i, outputType := range outputTypes {
		names[i] = outputType.String()
	}
	return strings.Join(names, ", ")
}

func formatRangeProofTypes(rangeProofTypes []externalapi.RangeProofType) string {
	names := make([]string, len(rangeProofTypes))
	for i, rangeProofType := range rangeProofTypes {
		names[i] = rangeProofType.String()
	}
	return strings.Join(names, ", ")
}

func printEmissionSchedule(coinbaseManager model.CoinbaseManager) {
	tailStartHeight := coinbaseManager.TailEmissionStartHeight()
	fmt.Println("Emission schedule:")
	fmt.Printf("  Initial block reward: %s\n", formatAmount(coinbaseManager.BlockReward(0)))
	fmt.Printf("  Tail emission starts at height %d, paying %s per block\n",
		tailStartHeight, formatAmount(coinbaseManager.BlockReward(tailStartHeight)))
	fmt.Printf("  Supply at tail emission start: %s\n",
		formatAmount(coinbaseManager.CumulativeSupply(tailStartHeight)))
}

func formatAmount(grains uint64) string {
	return fmt.Sprintf("%d.%08d OBN", grains/constants.GrainsPerShard, grains%constants.GrainsPerShard)
}

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}
