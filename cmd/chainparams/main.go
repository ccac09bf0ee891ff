// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/starwels/starwelsd/blockchain"
	"github.com/starwels/starwelsd/chaincfg"
	"github.com/starwels/starwelsd/database/statedb"
	"github.com/starwels/starwelsd/internal/log"
	"github.com/starwels/starwelsd/netparams"
)

// mainLog is the logger of the command.
var mainLog = log.MainLog

// activeParams returns a copy of the selected network parameters with the
// command line checkpoints merged in.
func activeParams(cfg *config) (*chaincfg.Params, error) {
	if err := netparams.Select(cfg.chainName); err != nil {
		return nil, err
	}
	for _, window := range cfg.deployments {
		err := netparams.UpdateDeploymentWindow(window.id,
			window.startTime, window.expireTime)
		if err != nil {
			return nil, err
		}
	}

	params := *netparams.Params()
	if len(cfg.checkpoints) > 0 {
		params.Checkpoints = mergeCheckpoints(params.Checkpoints,
			cfg.checkpoints)
		if err := params.Validate(); err != nil {
			return nil, err
		}
	}
	return &params, nil
}

// printParams writes a human readable summary of the parameter set.
func printParams(w io.Writer, params *chaincfg.Params, base *chaincfg.BaseParams, dataDir string) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Network:\t%s\n", params.Name)
	fmt.Fprintf(tw, "Magic:\t%08x\n", uint32(params.Net))
	fmt.Fprintf(tw, "P2P port:\t%s\n", params.DefaultPort)
	fmt.Fprintf(tw, "RPC port:\t%s\n", base.RPCPort)
	fmt.Fprintf(tw, "Data directory:\t%s\n", dataDir)
	fmt.Fprintf(tw, "Genesis hash:\t%v\n", params.GenesisHash)
	fmt.Fprintf(tw, "Genesis merkle root:\t%v\n",
		params.GenesisBlock.Header.MerkleRoot)
	fmt.Fprintf(tw, "Proof of work limit:\t%08x\n", params.PowLimitBits)
	fmt.Fprintf(tw, "Retarget interval:\t%d\n", params.RetargetInterval())
	fmt.Fprintf(tw, "Subsidy halving interval:\t%d\n",
		params.SubsidyReductionInterval)
	fmt.Fprintf(tw, "BIP34/65/66 heights:\t%d / %d / %d\n",
		params.BIP0034Height, params.BIP0065Height, params.BIP0066Height)
	fmt.Fprintf(tw, "Activation threshold:\t%d of %d\n",
		params.RuleChangeActivationThreshold,
		params.MinerConfirmationWindow)

	for id := range params.Deployments {
		deployment := &params.Deployments[id]
		switch {
		case deployment.IsAlwaysActive():
			fmt.Fprintf(tw, "Deployment %v:\tbit %d, always active\n",
				chaincfg.DeploymentID(id), deployment.BitNumber)
		case deployment.NeverExpires():
			fmt.Fprintf(tw, "Deployment %v:\tbit %d, [%d, never)\n",
				chaincfg.DeploymentID(id), deployment.BitNumber,
				deployment.StartTime)
		default:
			fmt.Fprintf(tw, "Deployment %v:\tbit %d, [%d, %d)\n",
				chaincfg.DeploymentID(id), deployment.BitNumber,
				deployment.StartTime, deployment.ExpireTime)
		}
	}
	for _, checkpoint := range params.Checkpoints {
		fmt.Fprintf(tw, "Checkpoint %d:\t%v\n", checkpoint.Height,
			checkpoint.Hash)
	}
	return tw.Flush()
}

// printDeploymentStates writes the deployment states for the block after the
// tip of the chain.
func printDeploymentStates(w io.Writer, chain *blockchain.HeaderChain) error {
	statuses, err := chain.DeploymentStates()
	if err != nil {
		return err
	}
	version, err := chain.CalcNextBlockVersion()
	if err != nil {
		return err
	}

	best := chain.BestSnapshot()
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Best header:\t%v (height %d)\n", best.Hash, best.Height)
	fmt.Fprintf(tw, "Median time past:\t%d\n", best.MedianTime)
	fmt.Fprintf(tw, "Next block version:\t%08x\n", uint32(version))
	for _, status := range statuses {
		fmt.Fprintf(tw, "State of %v:\t%v\n", status.ID, status.State)
	}
	return tw.Flush()
}

// evaluateHeaders connects the headers in the configured file to a header
// chain, verifies the checkpoints and prints the resulting deployment states.
// The threshold state cache is primed from and flushed to the state database
// when one is configured.
func evaluateHeaders(w io.Writer, cfg *config, params *chaincfg.Params, netDataDir string) error {
	f, err := os.Open(cfg.Headers)
	if err != nil {
		return err
	}
	headers, err := readHeaders(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Headers, err)
	}

	chain, err := blockchain.New(params)
	if err != nil {
		return err
	}

	// The cache is primed before the headers are connected so the stored
	// states spare recomputing the windows they cover.
	if cfg.StateDB != "" {
		dbPath := cfg.StateDB
		if !filepath.IsAbs(dbPath) {
			dbPath = filepath.Join(netDataDir, dbPath)
		}
		db, err := statedb.Open(dbPath, params.Net, true)
		if err != nil {
			return err
		}
		defer db.Close()

		loaded, err := chain.LoadThresholdStates(db)
		if err != nil {
			return err
		}
		mainLog.Debugf("Loaded %d cached threshold %s", loaded,
			log.PickNoun(uint64(loaded), "state", "states"))
		defer func() {
			if err := chain.FlushThresholdStates(db); err != nil {
				mainLog.Errorf("Unable to flush threshold states: %v",
					err)
			}
		}()
	}

	rejected, err := connectHeaders(chain, headers)
	if err != nil {
		return err
	}
	mainLog.Infof("Processed %d %s, rejected %d", len(headers),
		log.PickNoun(uint64(len(headers)), "header", "headers"), rejected)

	if err := chain.VerifyCheckpoints(); err != nil {
		return err
	}
	return printDeploymentStates(w, chain)
}

// realMain is the real main function for the utility.  It is necessary to
// work around the fact that deferred functions do not run when os.Exit() is
// called.
func realMain() error {
	// Load configuration and parse command line.
	cfg, _, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	// Initialize log rotation.  After log rotation has been initialized,
	// the logger variables may be used.
	log.InitLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	defer func() {
		if log.LogRotator != nil {
			log.LogRotator.Close()
		}
	}()
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	params, err := activeParams(cfg)
	if err != nil {
		mainLog.Criticalf("Unable to load network parameters: %v", err)
		return err
	}
	base := netparams.BaseParams()
	netDataDir := filepath.Join(cfg.DataDir, base.DataDir)

	if err := printParams(os.Stdout, params, base, netDataDir); err != nil {
		return err
	}
	if cfg.Headers == "" {
		return nil
	}

	if err := evaluateHeaders(os.Stdout, cfg, params, netDataDir); err != nil {
		mainLog.Criticalf("Unable to evaluate headers: %v", err)
		return err
	}
	return nil
}

func main() {
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
