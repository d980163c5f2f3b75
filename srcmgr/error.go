// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package srcmgr

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable is matched by every error returned when one of the
// views an Aggregator depends on could not be read.
var ErrSourceUnavailable = errors.New("source view unavailable")

// View names the provider call that failed.
type View string

const (
	// ViewConfirmed is the confirmed source index.
	ViewConfirmed View = "confirmed sources"

	// ViewPending is the pending operation history.
	ViewPending View = "pending operations"

	// ViewBlock is the reference block.
	ViewBlock View = "reference block"
)

// UnavailableError is returned when a provider view could not be read or
// returned unusable data.
type UnavailableError struct {
	View View
	Err  error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrSourceUnavailable, e.View, e.Err)
}

// Unwrap returns the provider error.
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrSourceUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}
