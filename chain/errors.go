// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyKnown is returned when the node already holds the
	// submitted document.
	ErrAlreadyKnown = errors.New("document already processed")

	// ErrSourceConsumed is returned when a submitted document spends a
	// source the node considers spent.
	ErrSourceConsumed = errors.New("source already consumed")

	// ErrRejected is returned for any other document refusal.
	ErrRejected = errors.New("document rejected")

	// ErrUnexpectedStatus is returned for HTTP answers the client does not
	// understand.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)

// errorCodes maps node error codes onto the errors above.
var errorCodes = map[int]error{
	2015: ErrSourceConsumed,
	2030: ErrAlreadyKnown,
}

// errorMessages is consulted for nodes that answer with a message but an
// unknown code.
var errorMessages = map[string]error{
	"transaction already processed": ErrAlreadyKnown,
	"source already consumed":       ErrSourceConsumed,
}

// NodeError is an error answer of a node.
type NodeError struct {
	Status  int
	Code    int    `json:"ucode"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	return fmt.Sprintf("node error %d (HTTP %d): %s", e.Code, e.Status,
		e.Message)
}

// Unwrap maps the node error onto a sentinel error.
func (e *NodeError) Unwrap() error {
	if err, ok := errorCodes[e.Code]; ok {
		return err
	}
	for msg, err := range errorMessages {
		if matchErrStr(e.Message, msg) {
			return err
		}
	}
	return ErrRejected
}

// matchErrStr reports whether msg contains match, ignoring case and treating
// dashes and underscores as spaces.
func matchErrStr(msg, match string) bool {
	normalize := strings.NewReplacer("-", " ", "_", " ")
	msg = strings.ToLower(normalize.Replace(msg))
	match = strings.ToLower(normalize.Replace(match))

	return strings.Contains(msg, match)
}
