// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// These variables are the chain proof-of-work limit parameters for each default
// network.
var (
	// bigOne is 1 represented as a big.Int.  It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// mainPowLimit is the highest proof of work value a block can have for
	// the main and test networks.  It is the value 2^224 - 1.
	mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 224), bigOne)

	// regressionPowLimit is the highest proof of work value a block can
	// have for the regression test network.  It is the value 2^255 - 1.
	regressionPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
)

const (
	// AlwaysActive is the deployment start time sentinel which marks a
	// deployment as active from the genesis block onwards.
	AlwaysActive int64 = -1

	// NoTimeout is the deployment expire time sentinel which marks a
	// deployment that never times out.
	NoTimeout int64 = math.MaxInt64

	// MaxDeploymentBit is the highest version bit a deployment may use.
	// The top three bits of the version are reserved for the versionbits
	// framing.
	MaxDeploymentBit = 28
)

// Checkpoint identifies a known good point in the block chain.  Using
// checkpoints allows a few optimizations for old blocks during initial download
// and also prevents forks from old blocks.
//
// Each checkpoint is selected based upon several factors: it is surrounded by
// blocks with reasonable timestamps and contains no strange transactions.
type Checkpoint struct {
	Height int32
	Hash   *chainhash.Hash
}

// CheckpointResult describes the outcome of comparing a block against the
// checkpoint table.
type CheckpointResult uint8

const (
	// CheckpointUnknown means there is no checkpoint at the height, so the
	// table has no opinion about the block.
	CheckpointUnknown CheckpointResult = iota

	// CheckpointMatches means the block hash equals the checkpoint hash.
	CheckpointMatches

	// CheckpointMismatches means there is a checkpoint at the height and
	// the block hash differs from it.
	CheckpointMismatches
)

// String returns the CheckpointResult as a human-readable name.
func (r CheckpointResult) String() string {
	switch r {
	case CheckpointUnknown:
		return "unknown"
	case CheckpointMatches:
		return "matches"
	case CheckpointMismatches:
		return "mismatches"
	}
	return fmt.Sprintf("Unknown CheckpointResult (%d)", uint8(r))
}

// DNSSeed identifies a DNS seed.
type DNSSeed struct {
	// Host defines the hostname of the seed.
	Host string

	// HasFiltering defines whether the seed supports filtering
	// by service flags (wire.ServiceFlag).
	HasFiltering bool
}

// String returns the hostname of the DNS seed in human-readable form.
func (d DNSSeed) String() string {
	return d.Host
}

// ChainTxData holds statistics about the number of transactions in the chain
// used to estimate verification progress.  It is a hint and is never used for
// consensus.
type ChainTxData struct {
	// Time is the UNIX timestamp of the last known number of transactions.
	Time int64

	// TxCount is the total number of transactions between genesis and
	// Time.
	TxCount int64

	// TxRate is the estimated number of transactions per second after
	// Time.
	TxRate float64
}

// DeploymentID identifies one of the defined soft-fork deployments.  It is the
// offset of the deployment in the Deployments field of the parameters.
type DeploymentID uint32

// Constants that define the deployment offset in the deployments field of the
// parameters for each deployment.  This is useful to be able to get the details
// of a specific deployment by name.
const (
	// DeploymentTestDummy defines the rule change deployment ID for testing
	// purposes.
	DeploymentTestDummy DeploymentID = iota

	// DeploymentCSV defines the rule change deployment ID for the CSV
	// soft-fork package. The CSV package includes the deployment of BIPS
	// 68, 112, and 113.
	DeploymentCSV

	// DeploymentSegwit defines the rule change deployment ID for the
	// Segregated Witness (segwit) soft-fork package. The segwit package
	// includes the deployment of BIPS 141, 143 and 147.
	DeploymentSegwit

	// NOTE: DefinedDeployments must always come last since it is used to
	// determine how many defined deployments there currently are.

	// DefinedDeployments is the number of currently defined deployments.
	DefinedDeployments
)

// deploymentNames maps each defined deployment to the name used for it on the
// command line and in log output.
var deploymentNames = [DefinedDeployments]string{
	DeploymentTestDummy: "testdummy",
	DeploymentCSV:       "csv",
	DeploymentSegwit:    "segwit",
}

// String returns the DeploymentID as a human-readable name.
func (id DeploymentID) String() string {
	if id < DefinedDeployments {
		return deploymentNames[id]
	}
	return fmt.Sprintf("Unknown DeploymentID (%d)", uint32(id))
}

// IsDefined returns whether the ID refers to one of the defined deployments.
func (id DeploymentID) IsDefined() bool {
	return id < DefinedDeployments
}

// DeploymentByName returns the deployment ID with the given name.
func DeploymentByName(name string) (DeploymentID, error) {
	for id, n := range deploymentNames {
		if n == name {
			return DeploymentID(id), nil
		}
	}
	str := fmt.Sprintf("unknown deployment %q", name)
	return 0, configError(ErrUnknownDeployment, str)
}

// ConsensusDeployment defines details related to a specific consensus rule
// change that is voted in.  This is part of BIP0009.
type ConsensusDeployment struct {
	// BitNumber defines the specific bit number within the block version
	// this particular soft-fork deployment refers to.
	BitNumber uint8

	// StartTime is the median block time after which voting on the
	// deployment starts.  AlwaysActive marks the deployment as active
	// from genesis.
	StartTime int64

	// ExpireTime is the median block time after which the attempted
	// deployment expires.  NoTimeout marks a deployment that never
	// expires.
	ExpireTime int64
}

// IsAlwaysActive returns whether the deployment is active from genesis.
func (d *ConsensusDeployment) IsAlwaysActive() bool {
	return d.StartTime == AlwaysActive
}

// NeverExpires returns whether the deployment has no timeout.
func (d *ConsensusDeployment) NeverExpires() bool {
	return d.ExpireTime == NoTimeout
}

// Params defines a network by its parameters.  These parameters may be used
// by applications to differentiate networks as well as addresses and keys for
// one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net wire.BitcoinNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// DNSSeeds defines a list of DNS seeds for the network that are used
	// as one method to discover peers.
	DNSSeeds []DNSSeed

	// FixedSeeds defines a list of host:port peers used when DNS seeding
	// is unavailable.
	FixedSeeds []string

	// GenesisBlock defines the first block of the chain.
	GenesisBlock *wire.MsgBlock

	// GenesisHash is the starting block hash.
	GenesisHash *chainhash.Hash

	// PowLimit defines the highest allowed proof of work value for a block
	// as a uint256.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// These fields define the block heights at which the specified softfork
	// BIP became active.  BIP0034Hash pins the block at BIP0034Height.
	BIP0016Height int32
	BIP0034Height int32
	BIP0034Hash   *chainhash.Hash
	BIP0065Height int32
	BIP0066Height int32

	// SubsidyReductionInterval is the interval of blocks before the subsidy
	// is reduced.
	SubsidyReductionInterval int32

	// TargetTimespan is the desired amount of time that should elapse
	// before the block difficulty requirement is examined to determine how
	// it should be changed in order to maintain the desired block
	// generation rate.
	TargetTimespan time.Duration

	// TargetTimePerBlock is the desired amount of time to generate each
	// block.
	TargetTimePerBlock time.Duration

	// ReduceMinDifficulty defines whether the network allows blocks at the
	// minimum difficulty.  This is really only useful for test networks
	// and should not be set on a main network.
	ReduceMinDifficulty bool

	// NoRetargeting disables difficulty retargeting altogether.
	NoRetargeting bool

	// MinimumChainWork is the cumulative work below which a chain is never
	// preferred.
	MinimumChainWork *big.Int

	// DefaultAssumeValid is a block on the canonical chain whose ancestors
	// may skip script verification.
	DefaultAssumeValid *chainhash.Hash

	// Checkpoints ordered from oldest to newest.
	Checkpoints []Checkpoint

	// ChainTxData is the transaction count hint for progress estimation.
	ChainTxData ChainTxData

	// PruneAfterHeight is the height below which blocks are never pruned.
	PruneAfterHeight uint64

	// These fields are related to voting on consensus rule changes as
	// defined by BIP0009.
	//
	// RuleChangeActivationThreshold is the number of blocks in a threshold
	// state retarget window for which a positive vote for a rule change
	// must be cast in order to lock in a rule change. It should typically
	// be 95% for the main network and 75% for test networks.
	//
	// MinerConfirmationWindow is the number of blocks in each threshold
	// state retarget window.
	//
	// Deployments define the specific consensus rule changes to be voted
	// on.
	RuleChangeActivationThreshold uint32
	MinerConfirmationWindow       uint32
	Deployments                   [DefinedDeployments]ConsensusDeployment

	// Policy and test harness switches.
	DefaultConsistencyChecks bool
	RequireStandard          bool
	MineBlocksOnDemand       bool

	// Human-readable part for Bech32 encoded segwit addresses, as defined
	// in BIP 173.
	Bech32HRPSegwit string

	// Address encoding magics
	PubKeyHashAddrID byte // First byte of a P2PKH address
	ScriptHashAddrID byte // First byte of a P2SH address
	PrivateKeyID     byte // First byte of a WIF private key

	// BIP32 hierarchical deterministic extended key magics
	HDPrivateKeyID [4]byte
	HDPublicKeyID  [4]byte
}

// RetargetInterval returns the number of blocks between difficulty
// retargets.
func (p *Params) RetargetInterval() int64 {
	return int64(p.TargetTimespan / p.TargetTimePerBlock)
}

// Deployment returns the deployment with the given ID.
func (p *Params) Deployment(id DeploymentID) (*ConsensusDeployment, error) {
	if !id.IsDefined() {
		str := fmt.Sprintf("deployment ID %d does not exist", uint32(id))
		return nil, configError(ErrUnknownDeployment, str)
	}
	return &p.Deployments[id], nil
}

// CheckCheckpoint compares the passed block hash against the checkpoint table.
// It returns CheckpointUnknown when there is no checkpoint at the height.
func (p *Params) CheckCheckpoint(height int32, hash *chainhash.Hash) CheckpointResult {
	checkpoints := p.Checkpoints
	i := sort.Search(len(checkpoints), func(i int) bool {
		return checkpoints[i].Height >= height
	})
	if i == len(checkpoints) || checkpoints[i].Height != height {
		return CheckpointUnknown
	}
	if !checkpoints[i].Hash.IsEqual(hash) {
		return CheckpointMismatches
	}
	return CheckpointMatches
}

// LatestCheckpoint returns the most recent checkpoint, or nil when the network
// has none.
func (p *Params) LatestCheckpoint() *Checkpoint {
	if len(p.Checkpoints) == 0 {
		return nil
	}
	return &p.Checkpoints[len(p.Checkpoints)-1]
}

// newHashFromStr converts the passed big-endian hex string into a
// chainhash.Hash.  It only differs from the one available in chainhash in that
// it panics on an error since it will only (and must only) be called with
// hard-coded, and therefore known good, hashes.
func newHashFromStr(hexStr string) *chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		// The only way this can panic is if there is an error in the
		// hard-coded hashes, so it is predictable.
		panic(err)
	}
	return hash
}

// hexToBigInt converts the passed big-endian hex string into a big.Int.  Like
// newHashFromStr it must only be called with hard-coded values.
func hexToBigInt(hexStr string) *big.Int {
	n, ok := new(big.Int).SetString(hexStr, 16)
	if !ok {
		panic("invalid hex in source file: " + hexStr)
	}
	return n
}
