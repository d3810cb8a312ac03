// Package constantsserialization encodes consensus constants snapshots
// into a stable, versioned byte form. The encoding is deterministic,
// so two nodes holding the same snapshot always serialize it to the
// same bytes and therefore agree on its hash.
package constantsserialization

import (
	"bytes"
	"io"
	"sort"

	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/hashes"
	"github.com/obsidiannet/obsidiand/util/binaryserializer"
	"github.com/pkg/errors"
)

// serializationVersion is bumped whenever the byte layout below
// changes. Old encodings are never reinterpreted silently.
const serializationVersion uint16 = 1

// SerializeConstants returns the canonical byte form of the given
// constants snapshot.
func SerializeConstants(constants *externalapi.ConsensusConstants) ([]byte, error) {
	w := &bytes.Buffer{}
	err := serializeConstants(w, constants)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DeserializeConstants parses a snapshot previously produced by
// SerializeConstants. It rejects unknown layout versions and trailing
// bytes.
func DeserializeConstants(constantsBytes []byte) (*externalapi.ConsensusConstants, error) {
	r := bytes.NewReader(constantsBytes)
	constants, err := deserializeConstants(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, errors.Errorf("found %d trailing bytes after the constants snapshot", r.Len())
	}
	return constants, nil
}

// ConstantsHash returns the hash of the canonical byte form of the
// given constants snapshot.
func ConstantsHash(constants *externalapi.ConsensusConstants) (*externalapi.DomainHash, error) {
	writer := hashes.NewConstantsHashWriter()
	err := serializeConstants(writer, constants)
	if err != nil {
		return nil, err
	}
	return writer.Finalize(), nil
}

func serializeConstants(w io.Writer, constants *externalapi.ConsensusConstants) error {
	err := binaryserializer.PutUint16(w, serializationVersion)
	if err != nil {
		return err
	}

	err = putUint64s(w,
		constants.EffectiveFromHeight,
		constants.CoinbaseMaturity,
		constants.DifficultyBlockWindow,
		uint64(constants.MedianTimestampCount),
		uint64(constants.FutureTimeLimit))
	if err != nil {
		return err
	}

	err = serializeVersionRange(w, &constants.BlockchainVersionRange)
	if err != nil {
		return err
	}

	err = serializePowAlgorithms(w, constants.PowAlgorithms)
	if err != nil {
		return err
	}

	err = putUint64s(w,
		constants.WeightParams.InputWeight,
		constants.WeightParams.OutputWeight,
		constants.WeightParams.KernelWeight,
		constants.WeightParams.FeaturesAndScriptsBytesPerGram,
		constants.MaxBlockTransactionWeight)
	if err != nil {
		return err
	}

	err = putUint64s(w,
		constants.Emission.InitialReward,
		constants.Emission.DecayNumerator,
		constants.Emission.DecayDenominator,
		constants.Emission.TailReward)
	if err != nil {
		return err
	}

	err = serializeOutputTypes(w, constants.PermittedOutputTypes)
	if err != nil {
		return err
	}
	err = serializeRangeProofTypes(w, constants.PermittedRangeProofTypes)
	if err != nil {
		return err
	}

	for _, versionRange := range []*externalapi.VersionRange{
		&constants.KernelVersionRange, &constants.InputVersionRange, &constants.OutputVersionRange} {

		err = serializeVersionRange(w, versionRange)
		if err != nil {
			return err
		}
	}

	return putUint64s(w,
		constants.ValidatorNode.RegistrationDeposit,
		constants.ValidatorNode.RegistrationValidityPeriod,
		constants.ValidatorNode.EpochLength)
}

func deserializeConstants(r io.Reader) (*externalapi.ConsensusConstants, error) {
	version, err := binaryserializer.Uint16(r)
	if err != nil {
		return nil, err
	}
	if version != serializationVersion {
		return nil, errors.Errorf("unknown constants serialization version %d, expected %d",
			version, serializationVersion)
	}

	constants := &externalapi.ConsensusConstants{}

	var medianTimestampCount, futureTimeLimit uint64
	err = readUint64s(r,
		&constants.EffectiveFromHeight,
		&constants.CoinbaseMaturity,
		&constants.DifficultyBlockWindow,
		&medianTimestampCount,
		&futureTimeLimit)
	if err != nil {
		return nil, err
	}
	constants.MedianTimestampCount = int(medianTimestampCount)
	constants.FutureTimeLimit = int64(futureTimeLimit)

	err = deserializeVersionRange(r, &constants.BlockchainVersionRange)
	if err != nil {
		return nil, err
	}

	constants.PowAlgorithms, err = deserializePowAlgorithms(r)
	if err != nil {
		return nil, err
	}

	err = readUint64s(r,
		&constants.WeightParams.InputWeight,
		&constants.WeightParams.OutputWeight,
		&constants.WeightParams.KernelWeight,
		&constants.WeightParams.FeaturesAndScriptsBytesPerGram,
		&constants.MaxBlockTransactionWeight)
	if err != nil {
		return nil, err
	}

	err = readUint64s(r,
		&constants.Emission.InitialReward,
		&constants.Emission.DecayNumerator,
		&constants.Emission.DecayDenominator,
		&constants.Emission.TailReward)
	if err != nil {
		return nil, err
	}

	constants.PermittedOutputTypes, err = deserializeOutputTypes(r)
	if err != nil {
		return nil, err
	}
	constants.PermittedRangeProofTypes, err = deserializeRangeProofTypes(r)
	if err != nil {
		return nil, err
	}

	for _, versionRange := range []*externalapi.VersionRange{
		&constants.KernelVersionRange, &constants.InputVersionRange, &constants.OutputVersionRange} {

		err = deserializeVersionRange(r, versionRange)
		if err != nil {
			return nil, err
		}
	}

	err = readUint64s(r,
		&constants.ValidatorNode.RegistrationDeposit,
		&constants.ValidatorNode.RegistrationValidityPeriod,
		&constants.ValidatorNode.EpochLength)
	if err != nil {
		return nil, err
	}

	return constants, nil
}

func serializeVersionRange(w io.Writer, versionRange *externalapi.VersionRange) error {
	err := binaryserializer.PutUint16(w, versionRange.Min)
	if err != nil {
		return err
	}
	return binaryserializer.PutUint16(w, versionRange.Max)
}

func deserializeVersionRange(r io.Reader, versionRange *externalapi.VersionRange) error {
	var err error
	versionRange.Min, err = binaryserializer.Uint16(r)
	if err != nil {
		return err
	}
	versionRange.Max, err = binaryserializer.Uint16(r)
	return err
}

func serializePowAlgorithms(w io.Writer,
	algorithms map[externalapi.PowAlgorithm]*externalapi.PowAlgorithmConstants) error {

	// Map iteration order is not deterministic, so the algorithms are
	// serialized in ascending order of their identifiers.
	sortedAlgorithms := make([]externalapi.PowAlgorithm, 0, len(algorithms))
	for algorithm := range algorithms {
		sortedAlgorithms = append(sortedAlgorithms, algorithm)
	}
	sort.Slice(sortedAlgorithms, func(i, j int) bool {
		return sortedAlgorithms[i] < sortedAlgorithms[j]
	})

	err := binaryserializer.PutUint8(w, uint8(len(sortedAlgorithms)))
	if err != nil {
		return err
	}
	for _, algorithm := range sortedAlgorithms {
		algorithmConstants := algorithms[algorithm]
		err = binaryserializer.PutUint8(w, uint8(algorithm))
		if err != nil {
			return err
		}
		err = putUint64s(w,
			uint64(algorithmConstants.TargetTimePerBlock),
			algorithmConstants.MinDifficulty,
			algorithmConstants.MaxDifficulty,
			uint64(algorithmConstants.MaxTargetTime))
		if err != nil {
			return err
		}
	}
	return nil
}

func deserializePowAlgorithms(r io.Reader) (
	map[externalapi.PowAlgorithm]*externalapi.PowAlgorithmConstants, error) {

	count, err := binaryserializer.Uint8(r)
	if err != nil {
		return nil, err
	}

	algorithms := make(map[externalapi.PowAlgorithm]*externalapi.PowAlgorithmConstants, count)
	for i := uint8(0); i < count; i++ {
		algorithmByte, err := binaryserializer.Uint8(r)
		if err != nil {
			return nil, err
		}
		algorithm := externalapi.PowAlgorithm(algorithmByte)
		if _, ok := algorithms[algorithm]; ok {
			return nil, errors.Errorf("proof-of-work algorithm %s appears twice", algorithm)
		}

		algorithmConstants := &externalapi.PowAlgorithmConstants{}
		var targetTimePerBlock, maxTargetTime uint64
		err = readUint64s(r,
			&targetTimePerBlock,
			&algorithmConstants.MinDifficulty,
			&algorithmConstants.MaxDifficulty,
			&maxTargetTime)
		if err != nil {
			return nil, err
		}
		algorithmConstants.TargetTimePerBlock = int64(targetTimePerBlock)
		algorithmConstants.MaxTargetTime = int64(maxTargetTime)
		algorithms[algorithm] = algorithmConstants
	}
	return algorithms, nil
}

func serializeOutputTypes(w io.Writer, outputTypes []externalapi.OutputType) error {
	sortedTypes := make([]externalapi.OutputType, len(outputTypes))
	copy(sortedTypes, outputTypes)
	sort.Slice(sortedTypes, func(i, j int) bool { return sortedTypes[i] < sortedTypes[j] })

	err := binaryserializer.PutUint8(w, uint8(len(sortedTypes)))
	if err != nil {
		return err
	}
	for _, outputType := range sortedTypes {
		err = binaryserializer.PutUint8(w, uint8(outputType))
		if err != nil {
			return err
		}
	}
	return nil
}

func deserializeOutputTypes(r io.Reader) ([]externalapi.OutputType, error) {
	count, err := binaryserializer.Uint8(r)
	if err != nil {
		return nil, err
	}
	outputTypes := make([]externalapi.OutputType, count)
	for i := range outputTypes {
		typeByte, err := binaryserializer.Uint8(r)
		if err != nil {
			return nil, err
		}
		outputTypes[i] = externalapi.OutputType(typeByte)
	}
	return outputTypes, nil
}

func serializeRangeProofTypes(w io.Writer, rangeProofTypes []externalapi.RangeProofType) error {
	sortedTypes := make([]externalapi.RangeProofType, len(rangeProofTypes))
	copy(sortedTypes, rangeProofTypes)
	sort.Slice(sortedTypes, func(i, j int) bool { return sortedTypes[i] < sortedTypes[j] })

	err := binaryserializer.PutUint8(w, uint8(len(sortedTypes)))
	if err != nil {
		return err
	}
	for _, rangeProofType := range sortedTypes {
		err = binaryserializer.PutUint8(w, uint8(rangeProofType))
		if err != nil {
			return err
		}
	}
	return nil
}

func deserializeRangeProofTypes(r io.Reader) ([]externalapi.RangeProofType, error) {
	count, err := binaryserializer.Uint8(r)
	if err != nil {
		return nil, err
	}
	rangeProofTypes := make([]externalapi.RangeProofType, count)
	for i := range rangeProofTypes {
		typeByte, err := binaryserializer.Uint8(r)
		if err != nil {
			return nil, err
		}
		rangeProofTypes[i] = externalapi.RangeProofType(typeByte)
	}
	return rangeProofTypes, nil
}

func putUint64s(w io.Writer, values ...uint64) error {
	for _, value := range values {
		err := binaryserializer.PutUint64(w, value)
		if err != nil {
			return err
		}
	}
	return nil
}

func readUint64s(r io.Reader, values ...*uint64) error {
	for _, value := range values {
		read, err := binaryserializer.Uint64(r)
		if err != nil {
			return err
		}
		*value = read
	}
	return nil
}
