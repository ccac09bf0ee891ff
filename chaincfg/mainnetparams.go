// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/btcsuite/btcd/wire"
)

// mainGenesisHash is the hash of the genesis block shared by the main and test
// networks.
var mainGenesisHash = newHashFromStr("000000003d69a915e9da53348c5c272978bb743442e3a6341c11061c125811a2")

// mainCheckpoints are the checkpoints of the main network ordered from oldest
// to newest.
var mainCheckpoints = []Checkpoint{
	{1024, newHashFromStr("00000000fb559851169e0d915093533d31af0d963e06a7d80a20496f9cfd2b9f")},
	{2048, newHashFromStr("00000000a753b360bb5d54908378d999132fbeb415279ef530b397ae249cbef4")},
	{4096, newHashFromStr("00000000d7674ad1e7703e7ba02b7611c12fe74de27b6a414cf6e906cc3599e9")},
	{8192, newHashFromStr("000000007039ae6930925c9c6297835642ea5a4d6f32cef2f6b84867e049fff8")},
	{16384, newHashFromStr("00000000b6b20859ba118746cb4bbe4a52adbe504fceb2105092fd1b4234afc9")},
	{32768, newHashFromStr("00000000cc19cff47d676ad56594e695ac96a1d2781a83a5fd1a7702b98a9a65")},
	{65536, newHashFromStr("00000000c6814c6715cda6f76b08b967abc0ea70aa3f8db8e8c62206477cb749")},
	{131072, newHashFromStr("00000000dbff9cae44489b3c02bbd556b67db5e3d21318c35cca0b6c361e6944")},
}

// mainDeployments are the soft-fork deployment windows of the main and test
// networks.
var mainDeployments = [DefinedDeployments]ConsensusDeployment{
	DeploymentTestDummy: {
		BitNumber:  28,
		StartTime:  1498867200, // July 1st, 2017
		ExpireTime: 1530403200, // July 1st, 2018
	},
	DeploymentCSV: {
		BitNumber:  0,
		StartTime:  1501545600, // August 1st, 2017
		ExpireTime: 1533081600, // August 1st, 2018
	},
	DeploymentSegwit: {
		BitNumber:  1,
		StartTime:  1504224000, // September 1st, 2017
		ExpireTime: 1535760000, // September 1st, 2018
	},
}

// NewMainNetParams builds the network parameters for the main network.  It
// fails with ErrGenesisMismatch when the constructed genesis block does not
// hash to the well known value.
func NewMainNetParams() (*Params, error) {
	p := &Params{
		Name:        MainNetName,
		Net:         wire.MainNet,
		DefaultPort: "8343",
		DNSSeeds: []DNSSeed{
			{"127.0.0.1:43110/139H5wy8H3tgXwJ33mXpwmm4oCfjKUo7dY", true},
		},

		// Chain parameters
		PowLimit:                 mainPowLimit,
		PowLimitBits:             0x1d00ffff,
		BIP0016Height:            0,
		BIP0034Height:            227931,
		BIP0034Hash:              newHashFromStr("00000000ac6a39893714f4240301f40abff1afcdcaf51d2f40ce6675a73f0961"),
		BIP0065Height:            388381,
		BIP0066Height:            363725,
		SubsidyReductionInterval: 210000,
		TargetTimespan:           time.Second * 2 * 24 * 84,
		TargetTimePerBlock:       time.Second * 2,
		ReduceMinDifficulty:      false,
		NoRetargeting:            false,
		MinimumChainWork:         hexToBigInt("6550f67b8b239"),
		DefaultAssumeValid:       newHashFromStr("00000000764077b29d13e1cb2484f028a24ef2a44486b6e5d3cb17eb4716c465"),

		Checkpoints: append([]Checkpoint(nil), mainCheckpoints...),
		ChainTxData: ChainTxData{
			Time:    1530692464,
			TxCount: 262230,
			TxRate:  3.1,
		},
		PruneAfterHeight: 100000,

		// Consensus rule change deployments.
		//
		// The miner confirmation window is defined as:
		//   target proof of work timespan / target proof of work spacing
		RuleChangeActivationThreshold: 1916, // 95% of MinerConfirmationWindow
		MinerConfirmationWindow:       2016,
		Deployments:                   mainDeployments,

		DefaultConsistencyChecks: false,
		RequireStandard:          true,
		MineBlocksOnDemand:       false,

		// Human-readable part for Bech32 encoded segwit addresses, as defined in
		// BIP 173.
		Bech32HRPSegwit: "bc",

		// Address encoding magics
		PubKeyHashAddrID: 0x00, // starts with 1
		ScriptHashAddrID: 0x05, // starts with 3
		PrivateKeyID:     0x80, // starts with 5 (uncompressed) or K (compressed)

		// BIP32 hierarchical deterministic extended key magics
		HDPrivateKeyID: [4]byte{0x04, 0x88, 0xad, 0xe4}, // starts with xprv
		HDPublicKeyID:  [4]byte{0x04, 0x88, 0xb2, 0x1e}, // starts with xpub
	}

	return newParams(p, 1484870400, 2121032621, 0x1d00ffff, mainGenesisHash)
}
