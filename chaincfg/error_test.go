// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"fmt"
	"testing"
)

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	tests := []struct {
		in   ErrorCode
		want string
	}{
		{ErrUnknownChain, "ErrUnknownChain"},
		{ErrInvalidCombination, "ErrInvalidCombination"},
		{ErrGenesisMismatch, "ErrGenesisMismatch"},
		{ErrAlreadySelected, "ErrAlreadySelected"},
		{ErrNotSelected, "ErrNotSelected"},
		{ErrUnknownDeployment, "ErrUnknownDeployment"},
		{ErrInvalidDeployment, "ErrInvalidDeployment"},
		{ErrDeploymentBitCollision, "ErrDeploymentBitCollision"},
		{ErrCheckpointOrder, "ErrCheckpointOrder"},
		{ErrInvalidThreshold, "ErrInvalidThreshold"},
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

// TestIsErrorCode ensures error codes are detected through wrapping.
func TestIsErrorCode(t *testing.T) {
	err := configError(ErrNotSelected, "not selected")
	if err.Error() != "not selected" {
		t.Fatalf("unexpected description %q", err.Error())
	}
	if !IsErrorCode(err, ErrNotSelected) {
		t.Fatal("IsErrorCode did not detect the error code")
	}
	if IsErrorCode(err, ErrAlreadySelected) {
		t.Fatal("IsErrorCode matched the wrong error code")
	}
	wrapped := fmt.Errorf("select: %w", err)
	if !IsErrorCode(wrapped, ErrNotSelected) {
		t.Fatal("IsErrorCode did not detect a wrapped error code")
	}
	if IsErrorCode(fmt.Errorf("plain"), ErrNotSelected) {
		t.Fatal("IsErrorCode matched an unrelated error")
	}
}
