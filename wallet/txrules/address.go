// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txrules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// PubKeySize is the size of a decoded ed25519 public key.
	PubKeySize = 32

	// ChecksumLength is the number of base58 characters in an address
	// checksum.
	ChecksumLength = 3
)

// ErrInvalidAddress is returned for addresses that do not decode to a
// public key or carry a wrong checksum.
var ErrInvalidAddress = errors.New("invalid address")

// Checksum returns the three character checksum of a base58 public key: the
// first characters of the base58 encoded double SHA-256 of the key bytes.
func Checksum(pubKey string) (string, error) {
	raw := base58.Decode(pubKey)
	if len(raw) != PubKeySize {
		return "", fmt.Errorf("%w: %q does not decode to %d bytes",
			ErrInvalidAddress, pubKey, PubKeySize)
	}

	sum := base58.Encode(chainhash.DoubleHashB(raw))
	return sum[:ChecksumLength], nil
}

// ParseAddress validates an address, given either as a bare base58 public
// key or as "pubkey:checksum", and returns the bare public key.
func ParseAddress(addr string) (string, error) {
	pubKey, checksum, hasChecksum := strings.Cut(addr, ":")

	if len(pubKey) == 0 || len(pubKey) > 44 {
		return "", fmt.Errorf("%w: %q has bad length", ErrInvalidAddress,
			addr)
	}

	want, err := Checksum(pubKey)
	if err != nil {
		return "", err
	}

	if hasChecksum && checksum != want {
		return "", fmt.Errorf("%w: checksum %q, expected %q",
			ErrInvalidAddress, checksum, want)
	}

	return pubKey, nil
}

// CheckAddress is ParseAddress for callers that only need validation.
func CheckAddress(addr string) error {
	_, err := ParseAddress(addr)
	return err
}
