// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"

	"emperror.dev/errors"
)

const (
	ErrNotFound        = errors.Sentinel("poll not found")
	ErrOptionNotFound  = errors.Sentinel("option not found")
	ErrDuplicatePollID = errors.Sentinel("poll id already taken")
	ErrForbidden       = errors.Sentinel("requester is not the poll author")
	ErrAlreadyVoted    = errors.Sentinel("voter has already voted on this poll")
)

// ValidationError is a client error on a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PartialFailureError reports a fan-out where some sub-operations were
// applied and others were not. Applied work is not rolled back.
type PartialFailureError struct {
	Applied int
	Failed  int
	Err     error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure: %d applied, %d failed: %v", e.Applied, e.Failed, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
