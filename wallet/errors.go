// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRecipients is returned for sends without recipients.
	ErrNoRecipients = errors.New("no recipients")

	// ErrUseAllRecipients is returned when a send of the whole balance
	// names more than one recipient.
	ErrUseAllRecipients = errors.New("sending the whole balance needs " +
		"exactly one recipient")

	// ErrRoundLimit is returned when a send needs more rounds than its
	// sources can justify.  It indicates a bug or a provider whose view
	// keeps changing under the send.
	ErrRoundLimit = errors.New("round limit exceeded")
)

// TransportError is returned when the node did not accept a document.
type TransportError struct {
	// Round is the zero based round whose document failed.
	Round int

	// Hash is the hash of the rejected document.
	Hash string

	// Committed is the number of rounds of the same send that were
	// accepted before the failure.
	Committed int

	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("submit round %d (%s): %v", e.Round, e.Hash, e.Err)
}

// Unwrap returns the submitter error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// PartialSendCancelledError is returned when a send is cancelled after at
// least one consolidation was accepted by the node.  Those documents stay
// valid: the account balance is unchanged but its sources are not.
type PartialSendCancelledError struct {
	// Committed is the number of accepted rounds.
	Committed int

	// Hashes are the accepted document hashes in submission order.
	Hashes []string

	Err error
}

// Error implements the error interface.
func (e *PartialSendCancelledError) Error() string {
	return fmt.Sprintf("send cancelled after %d committed %s (%s): %v",
		e.Committed, pickNoun(e.Committed, "round", "rounds"),
		strings.Join(e.Hashes, ", "), e.Err)
}

// Unwrap returns the context error.
func (e *PartialSendCancelledError) Unwrap() error {
	return e.Err
}

// IncompleteSendError is returned when a send fails after at least one of
// its rounds was accepted by the node.  Err is the failure itself.
type IncompleteSendError struct {
	// Round is the zero based round that failed.
	Round int

	// Committed is the number of accepted rounds.
	Committed int

	// Hashes are the accepted document hashes in submission order.
	Hashes []string

	Err error
}

// Error implements the error interface.
func (e *IncompleteSendError) Error() string {
	return fmt.Sprintf("send failed in round %d after %d committed %s "+
		"(%s): %v", e.Round, e.Committed,
		pickNoun(e.Committed, "round", "rounds"),
		strings.Join(e.Hashes, ", "), e.Err)
}

// Unwrap returns the failure.
func (e *IncompleteSendError) Unwrap() error {
	return e.Err
}
