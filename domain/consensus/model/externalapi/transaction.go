package externalapi

// DomainTransaction is the consensus-relevant footprint of a transaction as
// reported by the parser: component versions, type tags, the accumulator
// leaves it spends, the commitments it creates, and its kernels. Signature
// and proof contents are validated elsewhere; this core only judges
// versions, types and weight.
type DomainTransaction struct {
	Version uint16
	Inputs  []*DomainTransactionInput
	Outputs []*DomainTransactionOutput
	Kernels []*DomainTransactionKernel
}

// Clone returns a clone of DomainTransaction
func (tx *DomainTransaction) Clone() *DomainTransaction {
	inputsClone := make([]*DomainTransactionInput, len(tx.Inputs))
	for i, input := range tx.Inputs {
		inputsClone[i] = input.Clone()
	}
	outputsClone := make([]*DomainTransactionOutput, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputsClone[i] = output.Clone()
	}
	kernelsClone := make([]*DomainTransactionKernel, len(tx.Kernels))
	for i, kernel := range tx.Kernels {
		kernelsClone[i] = kernel.Clone()
	}

	return &DomainTransaction{
		Version: tx.Version,
		Inputs:  inputsClone,
		Outputs: outputsClone,
		Kernels: kernelsClone,
	}
}

// Equal returns whether tx equals to other
func (tx *DomainTransaction) Equal(other *DomainTransaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}

	if tx.Version != other.Version ||
		len(tx.Inputs) != len(other.Inputs) ||
		len(tx.Outputs) != len(other.Outputs) ||
		len(tx.Kernels) != len(other.Kernels) {

		return false
	}
	for i, input := range tx.Inputs {
		if !input.Equal(other.Inputs[i]) {
			return false
		}
	}
	for i, output := range tx.Outputs {
		if !output.Equal(other.Outputs[i]) {
			return false
		}
	}
	for i, kernel := range tx.Kernels {
		if !kernel.Equal(other.Kernels[i]) {
			return false
		}
	}
	return true
}

// DomainTransactionInput spends one accumulator leaf, identified by the
// index it was appended at.
type DomainTransactionInput struct {
	Version        uint16
	SpentLeafIndex uint64
}

// Clone returns a clone of DomainTransactionInput
func (input *DomainTransactionInput) Clone() *DomainTransactionInput {
	inputClone := *input
	return &inputClone
}

// Equal returns whether input equals to other
func (input *DomainTransactionInput) Equal(other *DomainTransactionInput) bool {
	if input == nil || other == nil {
		return input == other
	}

	return *input == *other
}

// DomainTransactionOutput creates one new accumulator leaf. Commitment is
// the leaf content; FeaturesAndScriptsSize is the serialized byte size of
// the output's features and scripts, which the weight calculator prices.
type DomainTransactionOutput struct {
	Version                uint16
	Type                   OutputType
	RangeProofType         RangeProofType
	Commitment             *DomainHash
	FeaturesAndScriptsSize uint64
}

// Clone returns a clone of DomainTransactionOutput
func (output *DomainTransactionOutput) Clone() *DomainTransactionOutput {
	outputClone := *output
	return &outputClone
}

// Equal returns whether output equals to other
func (output *DomainTransactionOutput) Equal(other *DomainTransactionOutput) bool {
	if output == nil || other == nil {
		return output == other
	}

	return output.Version == other.Version &&
		output.Type == other.Type &&
		output.RangeProofType == other.RangeProofType &&
		output.Commitment.Equal(other.Commitment) &&
		output.FeaturesAndScriptsSize == other.FeaturesAndScriptsSize
}

// DomainTransactionKernel is the excess-and-signature carrier of a
// transaction; for this core it contributes its version and its fee.
type DomainTransactionKernel struct {
	Version uint16
	Fee     uint64
}

// Clone returns a clone of DomainTransactionKernel
func (kernel *DomainTransactionKernel) Clone() *DomainTransactionKernel {
	kernelClone := *kernel
	return &kernelClone
}

// Equal returns whether kernel equals to other
func (kernel *DomainTransactionKernel) Equal(other *DomainTransactionKernel) bool {
	if kernel == nil || other == nil {
		return kernel == other
	}

	return *kernel == *other
}
