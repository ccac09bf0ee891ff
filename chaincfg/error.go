// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of network parameter configuration error.
type ErrorCode int

// These constants are used to identify a specific ConfigError.
const (
	// ErrUnknownChain indicates a network name token that does not
	// identify one of the supported networks.
	ErrUnknownChain ErrorCode = iota

	// ErrInvalidCombination indicates more than one mutually exclusive
	// network selection flag was provided.
	ErrInvalidCombination

	// ErrGenesisMismatch indicates the constructed genesis block does not
	// hash to the hard-coded genesis hash or merkle root.
	ErrGenesisMismatch

	// ErrAlreadySelected indicates an attempt to select a different
	// network after one has already been selected for the process.
	ErrAlreadySelected

	// ErrNotSelected indicates the active parameters were requested before
	// any network was selected.
	ErrNotSelected

	// ErrUnknownDeployment indicates a deployment ID that is not one of the
	// defined deployments.
	ErrUnknownDeployment

	// ErrInvalidDeployment indicates a deployment with an out of range bit
	// or a start time after its timeout.
	ErrInvalidDeployment

	// ErrDeploymentBitCollision indicates two deployments that can be
	// started at the same time share a version bit.
	ErrDeploymentBitCollision

	// ErrCheckpointOrder indicates the checkpoint table is not strictly
	// increasing in height.
	ErrCheckpointOrder

	// ErrInvalidThreshold indicates a rule change activation threshold
	// that is zero or larger than the miner confirmation window.
	ErrInvalidThreshold

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrUnknownChain:           "ErrUnknownChain",
	ErrInvalidCombination:     "ErrInvalidCombination",
	ErrGenesisMismatch:        "ErrGenesisMismatch",
	ErrAlreadySelected:        "ErrAlreadySelected",
	ErrNotSelected:            "ErrNotSelected",
	ErrUnknownDeployment:      "ErrUnknownDeployment",
	ErrInvalidDeployment:      "ErrInvalidDeployment",
	ErrDeploymentBitCollision: "ErrDeploymentBitCollision",
	ErrCheckpointOrder:        "ErrCheckpointOrder",
	ErrInvalidThreshold:       "ErrInvalidThreshold",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// ConfigError identifies a fault in the network parameter configuration.
// These are operator or programmer errors: the caller is expected to stop
// rather than continue with inconsistent parameters.
//
// The caller can use type assertions or IsErrorCode to determine the
// specific error code.
type ConfigError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e ConfigError) Error() string {
	return e.Description
}

// configError creates a ConfigError given a set of arguments.
func configError(c ErrorCode, desc string) ConfigError {
	return ConfigError{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a ConfigError
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var cerr ConfigError
	if errors.As(err, &cerr) {
		return cerr.ErrorCode == c
	}
	return false
}
