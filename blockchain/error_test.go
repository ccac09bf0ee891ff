// Copyright (c) 2014-2017 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	tests := []struct {
		in   ErrorCode
		want string
	}{
		{ErrBadCheckpoint, "ErrBadCheckpoint"},
		{ErrMissingParent, "ErrMissingParent"},
		{ErrDuplicateBlock, "ErrDuplicateBlock"},
		{ErrTimeTooOld, "ErrTimeTooOld"},
		{0xffff, "Unknown ErrorCode (65535)"},
	}

	// Detect additional error codes that don't have the stringer added.
	if len(tests)-1 != int(numErrorCodes) {
		t.Errorf("It appears an error code was added without adding an " +
			"associated stringer test")
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\n got: %s want: %s", i, result,
				test.want)
			continue
		}
	}
}

// TestRuleError tests the error output for the RuleError type.
func TestRuleError(t *testing.T) {
	tests := []struct {
		in   RuleError
		want string
	}{
		{
			RuleError{Description: "duplicate block"},
			"duplicate block",
		},
		{
			RuleError{Description: "human-readable error"},
			"human-readable error",
		},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("Error #%d\n got: %s want: %s", i, result,
				test.want)
			continue
		}
	}
}

// TestIsErrorCode ensures rule errors are recognized through wrapping and
// other error types are not.
func TestIsErrorCode(t *testing.T) {
	err := ruleError(ErrTimeTooOld, "too old")
	require.True(t, IsErrorCode(err, ErrTimeTooOld))
	require.False(t, IsErrorCode(err, ErrBadCheckpoint))

	wrapped := fmt.Errorf("processing header: %w", err)
	require.True(t, IsErrorCode(wrapped, ErrTimeTooOld))

	require.False(t, IsErrorCode(AssertError("boom"), ErrTimeTooOld))
	require.False(t, IsErrorCode(nil, ErrTimeTooOld))
}

// TestErrorTypes tests the error output for the plain error types.
func TestErrorTypes(t *testing.T) {
	require.Equal(t, "deployment ID 3 does not exist",
		DeploymentError(3).Error())
	require.Equal(t, "hash abc does not exist", HashError("abc").Error())
	require.Equal(t, "assertion failed: boom", AssertError("boom").Error())

	err := notInMainChainError(7)
	require.Equal(t, "no block at height 7 exists in the main chain",
		err.Error())
	require.True(t, IsNotInMainChainErr(err))
	require.True(t, IsNotInMainChainErr(fmt.Errorf("wrapped: %w", err)))
	require.False(t, IsNotInMainChainErr(AssertError("boom")))
}
