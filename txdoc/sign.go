// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txdoc

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ErrIssuerMismatch is returned when a document is signed by a key other
// than its issuer.
var ErrIssuerMismatch = errors.New("signer is not the document issuer")

// Signer signs documents on behalf of an issuer.
type Signer interface {
	// Sign returns the base64 encoded signature of msg.
	Sign(msg []byte) (string, error)

	// PublicKey returns the base58 public key of the signer.
	PublicKey() string
}

// SignedDocument is a document together with its issuer signature.
type SignedDocument struct {
	*Document

	// Signature is the base64 signature, empty for parsed documents that
	// were not signed.
	Signature string
}

// Sign signs the document with s, which must hold the issuer key.
func (d *Document) Sign(s Signer) (*SignedDocument, error) {
	if pk := s.PublicKey(); pk != d.Issuer {
		return nil, fmt.Errorf("%w: %s signs for %s", ErrIssuerMismatch,
			pk, d.Issuer)
	}

	sig, err := s.Sign([]byte(d.Raw()))
	if err != nil {
		return nil, fmt.Errorf("sign document: %w", err)
	}

	return &SignedDocument{Document: d, Signature: sig}, nil
}

// IsSigned reports whether the document carries a signature.
func (s *SignedDocument) IsSigned() bool {
	return s.Signature != ""
}

// Raw renders the document followed by its signature line.
func (s *SignedDocument) Raw() string {
	if !s.IsSigned() {
		return s.Document.Raw()
	}
	return s.Document.Raw() + s.Signature + "\n"
}

// Hash returns the uppercase hex SHA-256 of the signed document, the
// identifier nodes index the transaction under.
func (s *SignedDocument) Hash() string {
	return strings.ToUpper(hex.EncodeToString(chainhash.HashB(
		[]byte(s.Raw()),
	)))
}
