// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainconfig

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// ObsidianNet defines the magic bytes used to identify an Obsidian
// network.
type ObsidianNet uint32

// Constants used to indicate the Obsidian network.
const (
	// Mainnet represents the main Obsidian network.
	Mainnet ObsidianNet = 0x6fb2a51d

	// Testnet represents the public test network.
	Testnet ObsidianNet = 0x7cc3b61e

	// Simnet represents the simulation test network.
	Simnet ObsidianNet = 0x8dd4c72f

	// Devnet represents the development network.
	Devnet ObsidianNet = 0x9ee5d830
)

var obsidianNetStrings = map[ObsidianNet]string{
	Mainnet: "Mainnet",
	Testnet: "Testnet",
	Simnet:  "Simnet",
	Devnet:  "Devnet",
}

// String returns the ObsidianNet in human-readable form.
func (n ObsidianNet) String() string {
	if s, ok := obsidianNetStrings[n]; ok {
		return s
	}
	return "Unknown ObsidianNet"
}

// Params defines an Obsidian network by its parameters. These parameters
// may be used by Obsidian applications to differentiate networks as well
// as data intended for one network from that intended for use on another
// network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net ObsidianNet

	// RPCPort defines the rpc server port
	RPCPort string

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// DNSSeeds defines a list of DNS seeds for the network that are used
	// as one method to discover peers.
	DNSSeeds []string

	// ConstantsTable is the ordered table of consensus constants
	// snapshots for the network. The first snapshot takes effect at
	// height 0 and each later one supersedes it from its own activation
	// height; this is how the network schedules consensus forks.
	ConstantsTable []*externalapi.ConsensusConstants
}

// MainnetParams defines the network parameters for the main Obsidian
// network.
var MainnetParams = Params{
	Name:        "mainnet",
	Net:         Mainnet,
	RPCPort:     "17110",
	DefaultPort: "17111",
	DNSSeeds:    []string{"dnsseed.obsidiannet.io", "dnsseed-backup.obsidiannet.io"},

	ConstantsTable: mainnetConstantsTable,
}

// TestnetParams defines the network parameters for the test Obsidian
// network.
var TestnetParams = Params{
	Name:        "testnet",
	Net:         Testnet,
	RPCPort:     "17210",
	DefaultPort: "17211",
	DNSSeeds:    []string{"testnet-dnsseed.obsidiannet.io"},

	ConstantsTable: testnetConstantsTable,
}

// SimnetParams defines the network parameters for the simulation test
// Obsidian network. This network is similar to the normal test network
// except it is intended for private use within a group of individuals
// doing simulation testing.
var SimnetParams = Params{
	Name:        "simnet",
	Net:         Simnet,
	RPCPort:     "17510",
	DefaultPort: "17511",
	DNSSeeds:    []string{}, // NOTE: There must NOT be any seeds.

	ConstantsTable: simnetConstantsTable,
}

// DevnetParams defines the network parameters for the development
// Obsidian network.
var DevnetParams = Params{
	Name:        "devnet",
	Net:         Devnet,
	RPCPort:     "17610",
	DefaultPort: "17611",
	DNSSeeds:    []string{}, // NOTE: There must NOT be any seeds.

	ConstantsTable: devnetConstantsTable,
}

var (
	// ErrDuplicateNet describes an error where the parameters for an
	// Obsidian network could not be set due to the network already being
	// a standard network or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate Obsidian network")
)

var (
	registeredNets = make(map[ObsidianNet]struct{})
)

// Register registers the network parameters for an Obsidian network.
// This may error with ErrDuplicateNet if the network is already
// registered (either due to a previous Register call, or the network
// being one of the default networks).
//
// Network parameters should be registered into this package by a main
// package as early as possible. Then, library packages may lookup
// networks or network parameters based on inputs and work regardless of
// the network being standard or not.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = struct{}{}

	return nil
}

// mustRegister performs the same function as Register except it panics
// if there is an error. This should only be called from package init
// functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&MainnetParams)
	mustRegister(&TestnetParams)
	mustRegister(&SimnetParams)
	mustRegister(&DevnetParams)
}
