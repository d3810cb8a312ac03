package windowstore

import (
	"bytes"

	"github.com/obsidiannet/obsidiand/domain/consensus/database"
	"github.com/obsidiannet/obsidiand/domain/consensus/database/binaryserialization"
	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/util/binaryserializer"
	"github.com/pkg/errors"
)

var windowBucket = database.MakeBucket([]byte("window"))
var windowKey = windowBucket.Key([]byte("entries"))
var nextBlockHeightKey = windowBucket.Key([]byte("next-block-height"))

// serializationVersion is bumped whenever the window byte layout below
// changes. Old encodings are never reinterpreted silently.
const serializationVersion uint8 = 1

// windowStore persists the recent-chain difficulty window and the next
// block height. The window is small and bounded, so it is rewritten
// whole on every block commit.
type windowStore struct {
}

// New instantiates a new WindowStore
func New() model.WindowStore {
	return &windowStore{}
}

// StoreWindow stores the given difficulty window
func (ws *windowStore) StoreWindow(dbContext model.DBWriter, window externalapi.DifficultyWindow) error {
	windowBytes, err := ws.serializeWindow(window)
	if err != nil {
		return err
	}
	return dbContext.Put(windowKey, windowBytes)
}

// Window gets the stored difficulty window. It returns ErrNotFound
// if no window was ever stored.
func (ws *windowStore) Window(dbContext model.DBReader) (externalapi.DifficultyWindow, error) {
	windowBytes, err := dbContext.Get(windowKey)
	if err != nil {
		return nil, err
	}
	return ws.deserializeWindow(windowBytes)
}

// HasWindow returns whether a difficulty window was ever stored
func (ws *windowStore) HasWindow(dbContext model.DBReader) (bool, error) {
	return dbContext.Has(windowKey)
}

// StoreNextBlockHeight stores the height the next committed block must
// build at
func (ws *windowStore) StoreNextBlockHeight(dbContext model.DBWriter, nextBlockHeight uint64) error {
	return dbContext.Put(nextBlockHeightKey, binaryserialization.SerializeUint64(nextBlockHeight))
}

// NextBlockHeight gets the stored next block height. It returns
// ErrNotFound if no height was ever stored.
func (ws *windowStore) NextBlockHeight(dbContext model.DBReader) (uint64, error) {
	heightBytes, err := dbContext.Get(nextBlockHeightKey)
	if err != nil {
		return 0, err
	}
	return binaryserialization.DeserializeUint64(heightBytes)
}

func (ws *windowStore) serializeWindow(window externalapi.DifficultyWindow) ([]byte, error) {
	writer := &bytes.Buffer{}
	err := binaryserializer.PutUint8(writer, serializationVersion)
	if err != nil {
		return nil, err
	}
	err = binaryserializer.PutUint64(writer, uint64(len(window)))
	if err != nil {
		return nil, err
	}
	for _, entry := range window {
		err = binaryserializer.PutUint64(writer, uint64(entry.Timestamp))
		if err != nil {
			return nil, err
		}
		err = binaryserializer.PutUint64(writer, entry.Difficulty)
		if err != nil {
			return nil, err
		}
		err = binaryserializer.PutUint8(writer, uint8(entry.PowAlgorithm))
		if err != nil {
			return nil, err
		}
	}
	return writer.Bytes(), nil
}

func (ws *windowStore) deserializeWindow(windowBytes []byte) (externalapi.DifficultyWindow, error) {
	reader := bytes.NewReader(windowBytes)

	version, err := binaryserializer.Uint8(reader)
	if err != nil {
		return nil, err
	}
	if version != serializationVersion {
		return nil, errors.Errorf("unsupported difficulty window serialization version %d", version)
	}

	entryCount, err := binaryserializer.Uint64(reader)
	if err != nil {
		return nil, err
	}
	window := make(externalapi.DifficultyWindow, 0)
	for i := uint64(0); i < entryCount; i++ {
		timestamp, err := binaryserializer.Uint64(reader)
		if err != nil {
			return nil, err
		}
		difficulty, err := binaryserializer.Uint64(reader)
		if err != nil {
			return nil, err
		}
		powAlgorithm, err := binaryserializer.Uint8(reader)
		if err != nil {
			return nil, err
		}
		window = append(window, &externalapi.DifficultyWindowEntry{
			Timestamp:    int64(timestamp),
			Difficulty:   difficulty,
			PowAlgorithm: externalapi.PowAlgorithm(powAlgorithm),
		})
	}

	if reader.Len() != 0 {
		return nil, errors.Errorf("found %d trailing bytes after the difficulty window", reader.Len())
	}
	return window, nil
}
