package accumulatorstore

import (
	"bytes"
	"io"

	"github.com/obsidiannet/obsidiand/domain/consensus/database"
	"github.com/obsidiannet/obsidiand/domain/consensus/database/binaryserialization"
	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/utils/hashes"
	"github.com/obsidiannet/obsidiand/util/binaryserializer"
	"github.com/pkg/errors"
)

var accumulatorBucket = database.MakeBucket([]byte("accumulator"))
var stateKey = accumulatorBucket.Key([]byte("state"))
var nodeCountKey = accumulatorBucket.Key([]byte("node-count"))
var nodesBucket = accumulatorBucket.Bucket([]byte("nodes"))

// serializationVersion is bumped whenever the state byte layout below
// changes. Old encodings are never reinterpreted silently.
const serializationVersion uint8 = 1

// accumulatorStore persists the output accumulator. The compact state
// and the node arena are stored separately: the state is rewritten on
// every block commit, while the arena only grows, so StoreNodes writes
// just the nodes appended since the previous call.
type accumulatorStore struct {
}

// New instantiates a new AccumulatorStore
func New() model.AccumulatorStore {
	return &accumulatorStore{}
}

// StoreState stores the given accumulator state
func (as *accumulatorStore) StoreState(dbContext model.DBWriter, state *externalapi.AccumulatorState) error {
	stateBytes, err := as.serializeState(state)
	if err != nil {
		return err
	}
	return dbContext.Put(stateKey, stateBytes)
}

// State gets the stored accumulator state. It returns ErrNotFound
// if no state was ever stored.
func (as *accumulatorStore) State(dbContext model.DBReader) (*externalapi.AccumulatorState, error) {
	stateBytes, err := dbContext.Get(stateKey)
	if err != nil {
		return nil, err
	}
	return as.deserializeState(stateBytes)
}

// HasState returns whether an accumulator state was ever stored
func (as *accumulatorStore) HasState(dbContext model.DBReader) (bool, error) {
	return dbContext.Has(stateKey)
}

// StoreNodes persists the tail of the given node arena that was
// appended since the previous call.
func (as *accumulatorStore) StoreNodes(dbContext model.DBWriter, nodes []*externalapi.DomainHash) error {
	storedCount, err := as.storedNodeCount(dbContext)
	if err != nil {
		return err
	}
	if uint64(len(nodes)) < storedCount {
		return errors.Errorf("%d accumulator nodes were already persisted, but only %d were given",
			storedCount, len(nodes))
	}

	for i := storedCount; i < uint64(len(nodes)); i++ {
		if nodes[i] == nil {
			return errors.Errorf("accumulator node %d was not restored, so the arena cannot be persisted", i)
		}
		err := dbContext.Put(as.nodeKey(i), binaryserialization.SerializeHash(nodes[i]))
		if err != nil {
			return err
		}
	}

	return dbContext.Put(nodeCountKey, binaryserialization.SerializeUint64(uint64(len(nodes))))
}

// Nodes restores the node arena for an accumulator of the given size.
// It returns nil if fewer than mmrSize nodes were persisted.
func (as *accumulatorStore) Nodes(dbContext model.DBReader, mmrSize uint64) ([]*externalapi.DomainHash, error) {
	storedCount, err := as.storedNodeCount(dbContext)
	if err != nil {
		return nil, err
	}
	if storedCount < mmrSize {
		return nil, nil
	}

	nodes := make([]*externalapi.DomainHash, mmrSize)
	for i := uint64(0); i < mmrSize; i++ {
		nodeBytes, err := dbContext.Get(as.nodeKey(i))
		if err != nil {
			return nil, err
		}
		nodes[i], err = binaryserialization.DeserializeHash(nodeBytes)
		if err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

func (as *accumulatorStore) nodeKey(index uint64) model.DBKey {
	return nodesBucket.Key(binaryserialization.SerializeUint64(index))
}

func (as *accumulatorStore) storedNodeCount(dbContext model.DBReader) (uint64, error) {
	hasCount, err := dbContext.Has(nodeCountKey)
	if err != nil {
		return 0, err
	}
	if !hasCount {
		return 0, nil
	}
	countBytes, err := dbContext.Get(nodeCountKey)
	if err != nil {
		return 0, err
	}
	return binaryserialization.DeserializeUint64(countBytes)
}

func (as *accumulatorStore) serializeState(state *externalapi.AccumulatorState) ([]byte, error) {
	w := &bytes.Buffer{}
	err := binaryserializer.PutUint8(w, serializationVersion)
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint64(w, state.LeafCount)
	if err != nil {
		return nil, err
	}

	// An accumulator has at most 64 peaks, one per set bit of the
	// leaf count.
	err = binaryserializer.PutUint8(w, uint8(len(state.Peaks)))
	if err != nil {
		return nil, err
	}
	_, err = w.Write(hashes.SerializeHashSlice(state.Peaks))
	if err != nil {
		return nil, err
	}

	err = putVarBytes(w, state.DeletedLeavesBitmap)
	if err != nil {
		return nil, err
	}
	err = putVarBytes(w, state.PrunedLeavesMultiset)
	if err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

func (as *accumulatorStore) deserializeState(stateBytes []byte) (*externalapi.AccumulatorState, error) {
	r := bytes.NewReader(stateBytes)

	version, err := binaryserializer.Uint8(r)
	if err != nil {
		return nil, err
	}
	if version != serializationVersion {
		return nil, errors.Errorf("unknown accumulator state serialization version %d, expected %d",
			version, serializationVersion)
	}

	state := &externalapi.AccumulatorState{}
	state.LeafCount, err = binaryserializer.Uint64(r)
	if err != nil {
		return nil, err
	}

	peakCount, err := binaryserializer.Uint8(r)
	if err != nil {
		return nil, err
	}
	peaksBytes := make([]byte, int(peakCount)*externalapi.DomainHashSize)
	_, err = io.ReadFull(r, peaksBytes)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	state.Peaks, err = hashes.DeserializeHashSlice(peaksBytes)
	if err != nil {
		return nil, err
	}

	state.DeletedLeavesBitmap, err = readVarBytes(r)
	if err != nil {
		return nil, err
	}
	state.PrunedLeavesMultiset, err = readVarBytes(r)
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, errors.Errorf("found %d trailing bytes after the accumulator state", r.Len())
	}
	return state, nil
}

func putVarBytes(w io.Writer, data []byte) error {
	err := binaryserializer.PutUint64(w, uint64(len(data)))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func readVarBytes(r *bytes.Reader) ([]byte, error) {
	length, err := binaryserializer.Uint64(r)
	if err != nil {
		return nil, err
	}
	if length > uint64(r.Len()) {
		return nil, errors.Errorf("the length prefix %d exceeds the %d remaining bytes", length, r.Len())
	}
	data := make([]byte, length)
	_, err = io.ReadFull(r, data)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}
