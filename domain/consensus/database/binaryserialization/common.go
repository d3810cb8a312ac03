package binaryserialization

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// SerializeUint64 serializes a uint64
func SerializeUint64(value uint64) []byte {
	var keyBytes [8]byte
	binary.LittleEndian.PutUint64(keyBytes[:], value)
	return keyBytes[:]
}

// DeserializeUint64 deserializes bytes to uint64
func DeserializeUint64(valueBytes []byte) (uint64, error) {
	if len(valueBytes) != 8 {
		return 0, errors.Errorf("the given value is %d bytes, while uint64 takes 8 bytes",
			len(valueBytes))
	}
	return binary.LittleEndian.Uint64(valueBytes), nil
}
