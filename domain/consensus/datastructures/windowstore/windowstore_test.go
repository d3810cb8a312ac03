package windowstore_test

import (
	"io/ioutil"
	"testing"

	"github.com/davecgh/go-spew/spew"
	consensusdatabase "github.com/obsidiannet/obsidiand/domain/consensus/database"
	"github.com/obsidiannet/obsidiand/domain/consensus/datastructures/windowstore"
	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/infrastructure/db/database/ldb"
)

func prepareDatabaseForTest(t *testing.T, testName string) (model.DBManager, func()) {
	path, err := ioutil.TempDir("", testName)
	if err != nil {
		t.Fatalf("%s: TempDir unexpectedly "+
			"failed: %s", testName, err)
	}
	db, err := ldb.NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("%s: NewLevelDB unexpectedly "+
			"failed: %s", testName, err)
	}
	teardownFunc := func() {
		err := db.Close()
		if err != nil {
			t.Fatalf("%s: Close unexpectedly "+
				"failed: %s", testName, err)
		}
	}
	return consensusdatabase.New(db), teardownFunc
}

func TestWindowRoundTrip(t *testing.T) {
	databaseContext, teardownFunc := prepareDatabaseForTest(t, "TestWindowRoundTrip")
	defer teardownFunc()

	store := windowstore.New()

	// Make sure that no window exists in an empty database
	hasWindow, err := store.HasWindow(databaseContext)
	if err != nil {
		t.Fatalf("TestWindowRoundTrip: HasWindow unexpectedly failed: %s", err)
	}
	if hasWindow {
		t.Fatalf("TestWindowRoundTrip: HasWindow unexpectedly returned true for an empty database")
	}
	_, err = store.Window(databaseContext)
	if !consensusdatabase.IsNotFoundError(err) {
		t.Fatalf("TestWindowRoundTrip: Window expected ErrNotFound for an empty database, found: %v", err)
	}
	_, err = store.NextBlockHeight(databaseContext)
	if !consensusdatabase.IsNotFoundError(err) {
		t.Fatalf("TestWindowRoundTrip: NextBlockHeight expected ErrNotFound for an empty database, "+
			"found: %v", err)
	}

	window := externalapi.DifficultyWindow{
		{Timestamp: 1000, Difficulty: 1, PowAlgorithm: externalapi.PowSha3},
		{Timestamp: 1001, Difficulty: 2, PowAlgorithm: externalapi.PowHeavyHash},
		{Timestamp: 1002, Difficulty: 3, PowAlgorithm: externalapi.PowSha3},
	}
	err = store.StoreWindow(databaseContext, window)
	if err != nil {
		t.Fatalf("TestWindowRoundTrip: StoreWindow unexpectedly failed: %s", err)
	}
	err = store.StoreNextBlockHeight(databaseContext, 3)
	if err != nil {
		t.Fatalf("TestWindowRoundTrip: StoreNextBlockHeight unexpectedly failed: %s", err)
	}

	hasWindow, err = store.HasWindow(databaseContext)
	if err != nil {
		t.Fatalf("TestWindowRoundTrip: HasWindow unexpectedly failed: %s", err)
	}
	if !hasWindow {
		t.Fatalf("TestWindowRoundTrip: HasWindow unexpectedly returned false after StoreWindow")
	}

	restoredWindow, err := store.Window(databaseContext)
	if err != nil {
		t.Fatalf("TestWindowRoundTrip: Window unexpectedly failed: %s", err)
	}
	if !restoredWindow.Equal(window) {
		t.Fatalf("TestWindowRoundTrip: the restored window is not equal to the stored one: "+
			"got %s, want %s", spew.Sdump(restoredWindow), spew.Sdump(window))
	}

	nextBlockHeight, err := store.NextBlockHeight(databaseContext)
	if err != nil {
		t.Fatalf("TestWindowRoundTrip: NextBlockHeight unexpectedly failed: %s", err)
	}
	if nextBlockHeight != 3 {
		t.Fatalf("TestWindowRoundTrip: expected next block height 3, found: %d", nextBlockHeight)
	}
}

func TestEmptyWindowRoundTrip(t *testing.T) {
	databaseContext, teardownFunc := prepareDatabaseForTest(t, "TestEmptyWindowRoundTrip")
	defer teardownFunc()

	store := windowstore.New()

	// A stored empty window is distinct from a never-stored one.
	err := store.StoreWindow(databaseContext, externalapi.DifficultyWindow{})
	if err != nil {
		t.Fatalf("TestEmptyWindowRoundTrip: StoreWindow unexpectedly failed: %s", err)
	}

	hasWindow, err := store.HasWindow(databaseContext)
	if err != nil {
		t.Fatalf("TestEmptyWindowRoundTrip: HasWindow unexpectedly failed: %s", err)
	}
	if !hasWindow {
		t.Fatalf("TestEmptyWindowRoundTrip: HasWindow unexpectedly returned false after StoreWindow")
	}

	restoredWindow, err := store.Window(databaseContext)
	if err != nil {
		t.Fatalf("TestEmptyWindowRoundTrip: Window unexpectedly failed: %s", err)
	}
	if len(restoredWindow) != 0 {
		t.Fatalf("TestEmptyWindowRoundTrip: expected an empty window, found %d entries",
			len(restoredWindow))
	}
}

func TestWindowOverwrite(t *testing.T) {
	databaseContext, teardownFunc := prepareDatabaseForTest(t, "TestWindowOverwrite")
	defer teardownFunc()

	store := windowstore.New()

	firstWindow := externalapi.DifficultyWindow{
		{Timestamp: 1000, Difficulty: 1, PowAlgorithm: externalapi.PowSha3},
	}
	err := store.StoreWindow(databaseContext, firstWindow)
	if err != nil {
		t.Fatalf("TestWindowOverwrite: StoreWindow unexpectedly failed: %s", err)
	}

	secondWindow := externalapi.DifficultyWindow{
		{Timestamp: 1000, Difficulty: 1, PowAlgorithm: externalapi.PowSha3},
		{Timestamp: 1001, Difficulty: 1, PowAlgorithm: externalapi.PowSha3},
	}
	err = store.StoreWindow(databaseContext, secondWindow)
	if err != nil {
		t.Fatalf("TestWindowOverwrite: StoreWindow unexpectedly failed: %s", err)
	}

	restoredWindow, err := store.Window(databaseContext)
	if err != nil {
		t.Fatalf("TestWindowOverwrite: Window unexpectedly failed: %s", err)
	}
	if !restoredWindow.Equal(secondWindow) {
		t.Fatalf("TestWindowOverwrite: the restored window is not equal to the last stored one: "+
			"got %s, want %s", spew.Sdump(restoredWindow), spew.Sdump(secondWindow))
	}
}
