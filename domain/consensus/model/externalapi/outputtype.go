package externalapi

// OutputType classifies a transaction output. Networks permit a subset of
// output types per height through the consensus constants, which is how new
// kinds of outputs get enabled at a fork height without invalidating
// historical blocks.
type OutputType byte

const (
	// OutputTypeStandard is a plain commitment output.
	OutputTypeStandard OutputType = iota

	// OutputTypeCoinbase is an output minted by a coinbase transaction.
	OutputTypeCoinbase

	// OutputTypeBurn is a provably unspendable output.
	OutputTypeBurn

	// OutputTypeValidatorNodeRegistration is an output carrying a validator
	// node registration deposit.
	OutputTypeValidatorNodeRegistration
)

// Clone returns a clone of OutputType
func (ot OutputType) Clone() OutputType {
	return ot
}

var outputTypeStrings = map[OutputType]string{
	OutputTypeStandard:                  "Standard",
	OutputTypeCoinbase:                  "Coinbase",
	OutputTypeBurn:                      "Burn",
	OutputTypeValidatorNodeRegistration: "ValidatorNodeRegistration",
}

func (ot OutputType) String() string {
	outputTypeString, ok := outputTypeStrings[ot]
	if !ok {
		return "Unknown"
	}
	return outputTypeString
}
