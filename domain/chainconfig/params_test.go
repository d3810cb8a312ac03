// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainconfig

import (
	"testing"

	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/coinbasemanager"
	"github.com/obsidiannet/obsidiand/domain/consensus/processes/constantsmanager"
	"github.com/pkg/errors"
)

// TestMustRegisterPanic ensures the mustRegister function panics when
// used to register an invalid network.
func TestMustRegisterPanic(t *testing.T) {
	t.Parallel()

	// Setup a defer to catch the expected panic to ensure it actually
	// paniced.
	defer func() {
		if err := recover(); err == nil {
			t.Error("mustRegister did not panic as expected")
		}
	}()

	// Intentionally try to register duplicate params to force a panic.
	mustRegister(&MainnetParams)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name          string
		params        *Params
		expectedError error
	}{
		{"duplicate mainnet", &MainnetParams, ErrDuplicateNet},
		{"duplicate testnet", &TestnetParams, ErrDuplicateNet},
		{"duplicate simnet", &SimnetParams, ErrDuplicateNet},
		{"duplicate devnet", &DevnetParams, ErrDuplicateNet},
		{"new network", &Params{Name: "mocknet", Net: 1<<32 - 1}, nil},
		{"duplicate new network", &Params{Name: "mocknet", Net: 1<<32 - 1}, ErrDuplicateNet},
	}

	for _, test := range tests {
		err := Register(test.params)
		if !errors.Is(err, test.expectedError) {
			t.Errorf("TestRegister: %s: expected %v, got %v",
				test.name, test.expectedError, err)
		}
	}
}

// TestConstantsTables runs every default network's constants table
// through the managers that consume it, so a bad table fails here rather
// than at node startup.
func TestConstantsTables(t *testing.T) {
	for _, params := range []*Params{
		&MainnetParams, &TestnetParams, &SimnetParams, &DevnetParams,
	} {
		constantsManager, err := constantsmanager.New(params.ConstantsTable)
		if err != nil {
			t.Fatalf("TestConstantsTables: the %s constants table is invalid: %s",
				params.Name, err)
		}
		_, err = coinbasemanager.New(constantsManager)
		if err != nil {
			t.Fatalf("TestConstantsTables: the %s emission schedule is invalid: %s",
				params.Name, err)
		}
	}
}

func TestMainnetValidatorFork(t *testing.T) {
	constantsManager, err := constantsmanager.New(MainnetParams.ConstantsTable)
	if err != nil {
		t.Fatalf("TestMainnetValidatorFork: constantsmanager.New unexpectedly failed: %s", err)
	}

	beforeFork, err := constantsManager.ConstantsForHeight(mainnetValidatorForkHeight - 1)
	if err != nil {
		t.Fatalf("TestMainnetValidatorFork: ConstantsForHeight unexpectedly failed: %s", err)
	}
	afterFork, err := constantsManager.ConstantsForHeight(mainnetValidatorForkHeight)
	if err != nil {
		t.Fatalf("TestMainnetValidatorFork: ConstantsForHeight unexpectedly failed: %s", err)
	}

	if beforeFork.PermitsOutputType(externalapi.OutputTypeBurn) {
		t.Errorf("TestMainnetValidatorFork: burn outputs must not be permitted " +
			"before the fork")
	}
	if !afterFork.PermitsOutputType(externalapi.OutputTypeBurn) {
		t.Errorf("TestMainnetValidatorFork: burn outputs must be permitted " +
			"after the fork")
	}
	if beforeFork.MaxBlockTransactionWeight >= afterFork.MaxBlockTransactionWeight {
		t.Errorf("TestMainnetValidatorFork: the fork must raise the block budget, "+
			"got %d before and %d after",
			beforeFork.MaxBlockTransactionWeight, afterFork.MaxBlockTransactionWeight)
	}
	if afterFork.ValidatorNode.RegistrationDeposit == 0 {
		t.Errorf("TestMainnetValidatorFork: the fork must set a validator " +
			"registration deposit")
	}
}
