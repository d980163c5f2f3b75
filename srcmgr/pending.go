// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package srcmgr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultFreshnessWindow is the number of blocks a pending operation is
// trusted for, counted from the block it was built against.
const DefaultFreshnessWindow = 3

// ErrMalformedBlockstamp is returned when a blockstamp can not be parsed.
var ErrMalformedBlockstamp = errors.New("malformed blockstamp")

// Blockstamp identifies a block by height and hash.
type Blockstamp struct {
	Height uint32
	Hash   string
}

// String renders the blockstamp as height-HASH.
func (b Blockstamp) String() string {
	return fmt.Sprintf("%d-%s", b.Height, b.Hash)
}

// ParseBlockstamp parses a height-HASH blockstamp.
func ParseBlockstamp(s string) (Blockstamp, error) {
	height, hash, ok := strings.Cut(s, "-")
	if !ok || hash == "" {
		return Blockstamp{}, fmt.Errorf("%w: %q", ErrMalformedBlockstamp, s)
	}

	h, err := strconv.ParseUint(height, 10, 32)
	if err != nil {
		return Blockstamp{}, fmt.Errorf("%w: %q", ErrMalformedBlockstamp, s)
	}

	return Blockstamp{Height: uint32(h), Hash: hash}, nil
}

// ReferenceBlock is the block documents are built against.
type ReferenceBlock struct {
	Height uint32
	Hash   string

	// Currency is the currency name written in every document.
	Currency string

	// UnitBase is the current unit base of the currency.
	UnitBase uint32
}

// Blockstamp returns the height and hash of the block.
func (r *ReferenceBlock) Blockstamp() Blockstamp {
	return Blockstamp{Height: r.Height, Hash: r.Hash}
}

// PendingOperation is a transaction involving the account that a node
// accepted but has not written into a block yet.
type PendingOperation struct {
	// Hash is the transaction hash.
	Hash string

	// Blockstamp is the block the operation was built against.
	Blockstamp Blockstamp

	// Consumed lists the sources the operation spends.
	Consumed []Key

	// Produced lists the operation outputs locked to the account.
	Produced []Source
}

// Age returns how many blocks the operation is behind the given height.
func (p *PendingOperation) Age(height uint32) uint32 {
	if p.Blockstamp.Height >= height {
		return 0
	}
	return height - p.Blockstamp.Height
}

// IsFresh reports whether the operation is recent enough to be trusted.
func (p *PendingOperation) IsFresh(height, window uint32) bool {
	return p.Age(height) <= window
}
