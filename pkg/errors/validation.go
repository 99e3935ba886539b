// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"strings"
)

// Validation represents a request-validation error. Problems, when present,
// itemizes each offending parameter so callers can report them all at once.
type Validation struct {
	base
	Problems []string
}

// Error returns the error message for Validation.
func (v Validation) Error() string {
	if len(v.Problems) == 0 {
		return v.error()
	}
	return v.error() + ": " + strings.Join(v.Problems, "; ")
}

// Message returns the error message without the itemized problems.
func (v Validation) Message() string {
	return v.error()
}

// NewValidation creates a new Validation error with the provided message.
func NewValidation(message string, err ...error) Validation {
	return Validation{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// NewValidationProblems creates a Validation error carrying one entry per
// offending parameter.
func NewValidationProblems(message string, problems []string) Validation {
	return Validation{
		base:     base{message: message},
		Problems: problems,
	}
}
