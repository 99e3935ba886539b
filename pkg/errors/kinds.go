// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"fmt"
)

// NotFound represents a lookup that resolved to nothing, such as a search
// context cname unknown to the domain registry.
type NotFound struct {
	base
}

// Error returns the error message for NotFound.
func (n NotFound) Error() string {
	return n.error()
}

// NewNotFound creates a new NotFound error with the provided message.
func NewNotFound(message string, err ...error) NotFound {
	return NotFound{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// NewDomainNotFound creates a NotFound error for an unknown domain cname.
func NewDomainNotFound(cname string) NotFound {
	return NewNotFound(fmt.Sprintf("domain not found: %s", cname))
}

// ServiceUnavailable represents an external collaborator that failed or timed
// out. Distinct from NotFound so callers can retry instead of treating the
// condition as "no access".
type ServiceUnavailable struct {
	base
}

// Error returns the error message for ServiceUnavailable.
func (su ServiceUnavailable) Error() string {
	return su.error()
}

// NewServiceUnavailable creates a new ServiceUnavailable error with the provided message.
func NewServiceUnavailable(message string, err ...error) ServiceUnavailable {
	return ServiceUnavailable{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// Decode represents an index document that failed to parse into the expected
// shape. Logged with full detail at the decode site; surfaced without
// internal structure.
type Decode struct {
	base
}

// Error returns the error message for Decode.
func (d Decode) Error() string {
	return d.error()
}

// NewDecode creates a new Decode error with the provided message.
func NewDecode(message string, err ...error) Decode {
	return Decode{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// Unexpected represents an unexpected error in the application.
type Unexpected struct {
	base
}

// Error returns the error message for Unexpected.
func (u Unexpected) Error() string {
	return u.error()
}

// NewUnexpected creates a new Unexpected error with the provided message.
func NewUnexpected(message string, err ...error) Unexpected {
	return Unexpected{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}
