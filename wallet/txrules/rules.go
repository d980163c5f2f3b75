// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txrules

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// DefaultMaxInputs is the per-document input cap used when nothing
	// else is configured.
	DefaultMaxInputs = 40

	// MaxDocumentLines is the largest number of lines a signed
	// transaction document may have.
	MaxDocumentLines = 100

	// FixedDocumentLines is the number of lines every document carries
	// regardless of its inputs and outputs: the Version, Type, Currency,
	// Blockstamp, Locktime and Comment fields plus the Issuers, Inputs,
	// Unlocks and Outputs headers.
	FixedDocumentLines = 10

	// MaxCommentLength is the maximum number of characters in a comment.
	MaxCommentLength = 255
)

var (
	// ErrInvalidComment is returned for comments that are too long or
	// contain characters outside of the allowed set.
	ErrInvalidComment = errors.New("invalid comment")

	// ErrTooManyLines is returned when a document would exceed
	// MaxDocumentLines.
	ErrTooManyLines = errors.New("document exceeds line limit")

	// ErrInvalidInputCap is returned for input caps that can not make
	// progress when consolidating.
	ErrInvalidInputCap = errors.New("input cap must be at least 2")
)

// commentRegexp is the set of characters a node accepts in a comment.
var commentRegexp = regexp.MustCompile(
	`^[ a-zA-Z0-9\-_:/;*\[\]()?!^+=@&~#{}|\\<>%.]*$`,
)

// CheckComment validates a transaction comment.
func CheckComment(comment string) error {
	if len(comment) > MaxCommentLength {
		return fmt.Errorf("%w: %d characters, max %d", ErrInvalidComment,
			len(comment), MaxCommentLength)
	}
	if !commentRegexp.MatchString(comment) {
		return fmt.Errorf("%w: %q contains a forbidden character",
			ErrInvalidComment, comment)
	}
	return nil
}

// DocumentLines returns the number of lines of a signed document with the
// given number of issuers, inputs and outputs.
func DocumentLines(issuers, inputs, outputs int) int {
	return FixedDocumentLines + 2*issuers + 2*inputs + outputs
}

// MaxInputsForOutputs returns how many inputs fit in a single-issuer
// document that has the given number of outputs.
func MaxInputsForOutputs(outputs int) int {
	n := (MaxDocumentLines - DocumentLines(1, 0, outputs)) / 2
	if n < 0 {
		return 0
	}
	return n
}

// EffectiveInputCap combines a configured cap with the line budget of a
// document carrying up to maxOutputs outputs.
func EffectiveInputCap(configured, maxOutputs int) (int, error) {
	if configured == 0 {
		configured = DefaultMaxInputs
	}

	budget := MaxInputsForOutputs(maxOutputs)
	if budget < configured {
		configured = budget
	}
	if configured < 2 {
		return 0, fmt.Errorf("%w: got %d with %d outputs",
			ErrInvalidInputCap, configured, maxOutputs)
	}

	return configured, nil
}
