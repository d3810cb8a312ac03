package txweight

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
)

// Calculator exposes methods to calculate the weight of a transaction,
// in grams
type Calculator struct {
	inputWeight                    uint64
	outputWeight                   uint64
	kernelWeight                   uint64
	featuresAndScriptsBytesPerGram uint64
}

// NewCalculator creates a new instance of Calculator
func NewCalculator(params *externalapi.TransactionWeightParams) *Calculator {
	return &Calculator{
		inputWeight:                    params.InputWeight,
		outputWeight:                   params.OutputWeight,
		kernelWeight:                   params.KernelWeight,
		featuresAndScriptsBytesPerGram: params.FeaturesAndScriptsBytesPerGram,
	}
}

// InputWeight returns the weight per input configured for this Calculator
func (c *Calculator) InputWeight() uint64 { return c.inputWeight }

// OutputWeight returns the weight per output configured for this Calculator
func (c *Calculator) OutputWeight() uint64 { return c.outputWeight }

// KernelWeight returns the weight per kernel configured for this Calculator
func (c *Calculator) KernelWeight() uint64 { return c.kernelWeight }

// FeaturesAndScriptsBytesPerGram returns how many bytes of output
// features and scripts weigh one gram under this Calculator
func (c *Calculator) FeaturesAndScriptsBytesPerGram() uint64 {
	return c.featuresAndScriptsBytesPerGram
}

// CalculateTransactionWeight calculates the weight of the given
// transaction
func (c *Calculator) CalculateTransactionWeight(transaction *externalapi.DomainTransaction) uint64 {
	return c.CalculateWeightedItemWeight(WeightedItemFromTransaction(transaction))
}

// CalculateWeightedItemWeight calculates the weight of a transaction
// summarized by the given counts
func (c *Calculator) CalculateWeightedItemWeight(item *externalapi.WeightedItem) uint64 {
	weightForInputs := item.InputCount * c.inputWeight
	weightForOutputs := item.OutputCount * c.outputWeight
	weightForKernels := item.KernelCount * c.kernelWeight

	// Script bytes are charged in whole grams, rounding the last
	// partial gram up.
	weightForScripts := uint64(0)
	if item.TotalScriptBytes > 0 {
		weightForScripts = (item.TotalScriptBytes + c.featuresAndScriptsBytesPerGram - 1) /
			c.featuresAndScriptsBytesPerGram
	}

	return weightForInputs + weightForOutputs + weightForKernels + weightForScripts
}

// WeightedItemFromTransaction summarizes the given transaction into the
// counts its weight is derived from
func WeightedItemFromTransaction(transaction *externalapi.DomainTransaction) *externalapi.WeightedItem {
	totalScriptBytes := uint64(0)
	for _, output := range transaction.Outputs {
		totalScriptBytes += output.FeaturesAndScriptsSize
	}
	return &externalapi.WeightedItem{
		InputCount:       uint64(len(transaction.Inputs)),
		OutputCount:      uint64(len(transaction.Outputs)),
		KernelCount:      uint64(len(transaction.Kernels)),
		TotalScriptBytes: totalScriptBytes,
	}
}
