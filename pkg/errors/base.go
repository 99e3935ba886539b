// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package errors

import "fmt"

// base is a struct that holds the common fields for error types
type base struct {
	message string
	err     error
}

// error is a method that returns the error message for the base struct
// any changes to the error message here will be reflected in all error types that embed base
func (b base) error() string {
	if b.err == nil {
		return b.message
	}
	return fmt.Sprintf("%s: %v", b.message, b.err)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As chains.
func (b base) Unwrap() error {
	return b.err
}
