// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	flags "github.com/jessevdk/go-flags"
	"github.com/starwels/starwelsd/chaincfg"
	"github.com/starwels/starwelsd/internal/log"
	"github.com/starwels/starwelsd/internal/version"
	"github.com/starwels/starwelsd/netparams"
)

const (
	defaultLogLevel    = "info"
	defaultLogFilename = "chainparams.log"
)

var (
	starwelsdHomeDir = btcutil.AppDataDir("starwelsd", false)
	defaultDataDir   = filepath.Join(starwelsdHomeDir, "data")
	defaultLogDir    = filepath.Join(starwelsdHomeDir, "logs")
)

// config defines the configuration options for chainparams.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion    bool     `short:"V" long:"version" description:"Display version information and exit"`
	DataDir        string   `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir         string   `long:"logdir" description:"Directory to log output"`
	DebugLevel     string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	TestNet        bool     `long:"test" description:"Use the test network"`
	RegressionTest bool     `long:"regtest" description:"Use the regression test network"`
	Checkpoints    []string `long:"checkpoint" description:"Add a checkpoint <height>:<hash>, replacing a built-in checkpoint at the same height"`
	Deployments    []string `long:"deployment" description:"Move a deployment window <name>:<start>:<timeout>, a start of -1 makes it always active"`
	Headers        string   `long:"headers" description:"File of hex encoded serialized block headers, one per line, to evaluate the deployment states over"`
	StateDB        string   `long:"statedb" description:"Threshold state cache database, relative paths are resolved in the network data directory"`

	// The following fields are derived from the options above.
	chainName   string
	checkpoints []chaincfg.Checkpoint
	deployments []deploymentWindow
}

// deploymentWindow is a deployment window override given on the command line.
type deploymentWindow struct {
	id         chaincfg.DeploymentID
	startTime  int64
	expireTime int64
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(starwelsdHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !log.ValidLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}

		// Change the logging level for all subsystems.
		log.SetLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := log.SubsystemLoggers[subsysID]; !exists {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsytems %v"
			return fmt.Errorf(str, subsysID, log.SupportedSubsystems())
		}

		// Validate log level.
		if !log.ValidLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}

		log.SetLogLevel(subsysID, logLevel)
	}

	return nil
}

// newCheckpointFromStr parses checkpoints in the '<height>:<hash>' format.
func newCheckpointFromStr(checkpoint string) (chaincfg.Checkpoint, error) {
	parts := strings.Split(checkpoint, ":")
	if len(parts) != 2 {
		return chaincfg.Checkpoint{}, fmt.Errorf("unable to parse "+
			"checkpoint %q -- use the syntax <height>:<hash>",
			checkpoint)
	}

	height, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil || height < 0 {
		return chaincfg.Checkpoint{}, fmt.Errorf("unable to parse "+
			"checkpoint %q due to malformed height", checkpoint)
	}

	if len(parts[1]) == 0 {
		return chaincfg.Checkpoint{}, fmt.Errorf("unable to parse "+
			"checkpoint %q due to missing hash", checkpoint)
	}
	hash, err := chainhash.NewHashFromStr(parts[1])
	if err != nil {
		return chaincfg.Checkpoint{}, fmt.Errorf("unable to parse "+
			"checkpoint %q due to malformed hash", checkpoint)
	}

	return chaincfg.Checkpoint{
		Height: int32(height),
		Hash:   hash,
	}, nil
}

// parseCheckpoints checks the checkpoint strings for valid syntax
// ('<height>:<hash>') and parses them to chaincfg.Checkpoint instances.
func parseCheckpoints(checkpointStrings []string) ([]chaincfg.Checkpoint, error) {
	if len(checkpointStrings) == 0 {
		return nil, nil
	}
	checkpoints := make([]chaincfg.Checkpoint, len(checkpointStrings))
	for i, cpString := range checkpointStrings {
		checkpoint, err := newCheckpointFromStr(cpString)
		if err != nil {
			return nil, err
		}
		checkpoints[i] = checkpoint
	}
	return checkpoints, nil
}

// mergeCheckpoints returns the default checkpoints with the additional ones
// added, sorted by height.  An additional checkpoint replaces a default one at
// the same height.
func mergeCheckpoints(defaultCheckpoints, additional []chaincfg.Checkpoint) []chaincfg.Checkpoint {
	byHeight := make(map[int32]chaincfg.Checkpoint,
		len(defaultCheckpoints)+len(additional))
	for _, checkpoint := range defaultCheckpoints {
		byHeight[checkpoint.Height] = checkpoint
	}
	for _, checkpoint := range additional {
		byHeight[checkpoint.Height] = checkpoint
	}

	merged := make([]chaincfg.Checkpoint, 0, len(byHeight))
	for _, checkpoint := range byHeight {
		merged = append(merged, checkpoint)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Height < merged[j].Height
	})
	return merged
}

// newDeploymentFromStr parses deployment windows in the
// '<name>:<start>:<timeout>' format.
func newDeploymentFromStr(deployment string) (deploymentWindow, error) {
	parts := strings.Split(deployment, ":")
	if len(parts) != 3 {
		return deploymentWindow{}, fmt.Errorf("unable to parse "+
			"deployment %q -- use the syntax <name>:<start>:<timeout>",
			deployment)
	}

	id, err := chaincfg.DeploymentByName(parts[0])
	if err != nil {
		return deploymentWindow{}, err
	}
	startTime, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return deploymentWindow{}, fmt.Errorf("unable to parse "+
			"deployment %q due to malformed start time", deployment)
	}
	expireTime, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return deploymentWindow{}, fmt.Errorf("unable to parse "+
			"deployment %q due to malformed timeout", deployment)
	}

	return deploymentWindow{
		id:         id,
		startTime:  startTime,
		expireTime: expireTime,
	}, nil
}

// loadConfig initializes and parses the config using command line options.
func loadConfig(args []string) (*config, []string, error) {
	// Default config.
	cfg := config{
		DataDir:    defaultDataDir,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
	}

	// Parse command line options.
	parser := flags.NewParser(&cfg, flags.Default)
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		fmt.Println("chainparams version", version.String())
		os.Exit(0)
	}

	// Multiple networks can't be selected simultaneously.
	funcName := "loadConfig"
	cfg.chainName, err = netparams.ChainNameFromFlags(cfg.TestNet,
		cfg.RegressionTest)
	if err != nil {
		err := fmt.Errorf("%s: %w", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", log.SupportedSubsystems())
		os.Exit(0)
	}

	cfg.checkpoints, err = parseCheckpoints(cfg.Checkpoints)
	if err != nil {
		err := fmt.Errorf("%s: %w", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	for _, deployment := range cfg.Deployments {
		window, err := newDeploymentFromStr(deployment)
		if err != nil {
			err := fmt.Errorf("%s: %w", funcName, err)
			fmt.Fprintln(os.Stderr, err)
			parser.WriteHelp(os.Stderr)
			return nil, nil, err
		}
		cfg.deployments = append(cfg.deployments, window)
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	if cfg.Headers != "" {
		cfg.Headers = cleanAndExpandPath(cfg.Headers)
	}
	if cfg.StateDB != "" {
		cfg.StateDB = cleanAndExpandPath(cfg.StateDB)
	}

	return &cfg, remainingArgs, nil
}
