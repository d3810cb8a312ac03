package mmr

import (
	"bytes"
	"io"

	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/hashes"
	"github.com/obsidiannet/obsidiand/util/binaryserializer"
	"github.com/pkg/errors"
)

// proofSerializationVersion is bumped whenever the proof byte layout
// below changes. Old encodings are never reinterpreted silently.
const proofSerializationVersion uint8 = 1

// SerializeProof returns the stable byte form of the given inclusion
// proof, for handing proofs to peers or light clients.
func SerializeProof(proof *externalapi.InclusionProof) ([]byte, error) {
	w := &bytes.Buffer{}
	err := binaryserializer.PutUint8(w, proofSerializationVersion)
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint64(w, proof.LeafCount)
	if err != nil {
		return nil, err
	}

	// A path climbs at most 63 levels and an accumulator has at most 64
	// peaks, so both counts fit a single byte.
	err = binaryserializer.PutUint8(w, uint8(len(proof.Path)))
	if err != nil {
		return nil, err
	}
	_, err = w.Write(hashes.SerializeHashSlice(proof.Path))
	if err != nil {
		return nil, err
	}

	err = binaryserializer.PutUint8(w, uint8(len(proof.Peaks)))
	if err != nil {
		return nil, err
	}
	_, err = w.Write(hashes.SerializeHashSlice(proof.Peaks))
	if err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// DeserializeProof parses a proof previously produced by SerializeProof.
// It rejects unknown layout versions and trailing bytes.
func DeserializeProof(proofBytes []byte) (*externalapi.InclusionProof, error) {
	r := bytes.NewReader(proofBytes)

	version, err := binaryserializer.Uint8(r)
	if err != nil {
		return nil, err
	}
	if version != proofSerializationVersion {
		return nil, errors.Errorf("unknown inclusion proof serialization version %d, expected %d",
			version, proofSerializationVersion)
	}

	proof := &externalapi.InclusionProof{}
	proof.LeafCount, err = binaryserializer.Uint64(r)
	if err != nil {
		return nil, err
	}

	proof.Path, err = readHashSlice(r)
	if err != nil {
		return nil, err
	}
	proof.Peaks, err = readHashSlice(r)
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, errors.Errorf("found %d trailing bytes after the inclusion proof", r.Len())
	}
	return proof, nil
}

func readHashSlice(r *bytes.Reader) ([]*externalapi.DomainHash, error) {
	count, err := binaryserializer.Uint8(r)
	if err != nil {
		return nil, err
	}
	hashesBytes := make([]byte, int(count)*externalapi.DomainHashSize)
	_, err = io.ReadFull(r, hashesBytes)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return hashes.DeserializeHashSlice(hashesBytes)
}
