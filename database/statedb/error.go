// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package statedb

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific database Error.
const (
	// ErrDbDoesNotExist is used when open is called for a database that
	// does not exist and creation was not requested.
	ErrDbDoesNotExist ErrorCode = iota

	// ErrDbNotOpen is used when a database instance is accessed after it
	// has been closed.
	ErrDbNotOpen

	// ErrNetworkMismatch is used when the database was created for a
	// different network than the one it is opened for.
	ErrNetworkMismatch

	// ErrCorruption indicates a checksum failure occurred or a stored
	// value could not be decoded.
	ErrCorruption

	// ErrDriverSpecific indicates a failure of the underlying leveldb
	// database that has no more specific code.
	ErrDriverSpecific

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrDbDoesNotExist:  "ErrDbDoesNotExist",
	ErrDbNotOpen:       "ErrDbNotOpen",
	ErrNetworkMismatch: "ErrNetworkMismatch",
	ErrCorruption:      "ErrCorruption",
	ErrDriverSpecific:  "ErrDriverSpecific",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error provides a single type for errors that can happen during database
// operation.  It is used to indicate several types of failures including
// errors with the underlying leveldb database and values that can not be
// decoded.
//
// The caller can use type assertions to determine if an error is an Error and
// access the ErrorCode field to ascertain the specific reason for the failure.
//
// The ErrDriverSpecific error code will also have the Err field set with the
// underlying error.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying error, if any.
func (e Error) Unwrap() error {
	return e.Err
}

// IsErrorCode returns whether or not the provided error is a database Error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var dbErr Error
	if errors.As(err, &dbErr) {
		return dbErr.ErrorCode == c
	}
	return false
}

// makeDbErr creates an Error given a set of arguments.
func makeDbErr(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// convertErr converts the passed leveldb error into a database error with an
// equivalent error code and the passed description.  It also sets the passed
// error as the underlying error.
func convertErr(desc string, ldbErr error) Error {
	// Use the driver-specific error code by default.  The code below will
	// update this with the converted error if it's recognized.
	var code = ErrDriverSpecific

	switch {
	// Database corruption errors.
	case ldberrors.IsCorrupted(ldbErr):
		code = ErrCorruption

	// Database open/create errors.
	case errors.Is(ldbErr, leveldb.ErrClosed):
		code = ErrDbNotOpen
	}

	return Error{ErrorCode: code, Description: desc, Err: ldbErr}
}
