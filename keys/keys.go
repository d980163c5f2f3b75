// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keys derives the ed25519 signing key of an account from its salt
// and password credentials and signs documents with it.
package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/dunitersuite/dunwallet/internal/zero"
	"golang.org/x/crypto/scrypt"
)

var (
	// ErrInvalidSeed is returned for seeds that are not 32 bytes.
	ErrInvalidSeed = errors.New("seed must be 32 bytes")

	// ErrKeyCleared is returned when signing with a zeroed key.
	ErrKeyCleared = errors.New("signing key was cleared")

	// ErrBadSignature is returned by Verify for signatures that do not
	// match.
	ErrBadSignature = errors.New("signature verification failed")
)

// ScryptParams are the scrypt cost parameters used to derive a seed.
type ScryptParams struct {
	N int
	R int
	P int
}

// DefaultScryptParams are the parameters every account key is derived with.
var DefaultScryptParams = ScryptParams{N: 4096, R: 16, P: 1}

// Key is an ed25519 signing key.
type Key struct {
	mtx    sync.Mutex
	priv   ed25519.PrivateKey
	pubKey string
}

// FromCredentials derives the account key from salt and password.  A nil
// params selects DefaultScryptParams.
func FromCredentials(salt, password []byte, params *ScryptParams) (*Key,
	error) {

	if params == nil {
		params = &DefaultScryptParams
	}

	derived, err := scrypt.Key(
		password, salt, params.N, params.R, params.P,
		ed25519.SeedSize,
	)
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}

	var seed [ed25519.SeedSize]byte
	copy(seed[:], derived)
	zero.Bytes(derived)
	defer zero.Bytea32(&seed)

	return FromSeed(seed[:])
}

// FromSeed returns the key of a 32 byte seed.  The seed is copied.
func FromSeed(seed []byte) (*Key, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSeed, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	return &Key{priv: priv, pubKey: base58.Encode(pub)}, nil
}

// PublicKey returns the base58 public key.
func (k *Key) PublicKey() string {
	return k.pubKey
}

// Sign returns the base64 ed25519 signature of msg.
func (k *Key) Sign(msg []byte) (string, error) {
	k.mtx.Lock()
	defer k.mtx.Unlock()

	if k.priv == nil {
		return "", ErrKeyCleared
	}

	return base64.StdEncoding.EncodeToString(ed25519.Sign(k.priv, msg)), nil
}

// Zero clears the private key.  The key can not sign afterwards.
func (k *Key) Zero() {
	k.mtx.Lock()
	defer k.mtx.Unlock()

	if k.priv == nil {
		return
	}
	zero.Bytea64((*[ed25519.PrivateKeySize]byte)(k.priv))
	k.priv = nil
}

// Verify checks a base64 signature of msg against a base58 public key.
func Verify(pubKey string, msg []byte, signature string) error {
	raw := base58.Decode(pubKey)
	if len(raw) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: bad public key", ErrBadSignature)
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if !ed25519.Verify(raw, msg, sig) {
		return ErrBadSignature
	}
	return nil
}
