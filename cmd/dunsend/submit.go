// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dunitersuite/dunwallet/journal"
	"github.com/dunitersuite/dunwallet/keys"
	"github.com/dunitersuite/dunwallet/txdoc"
	"github.com/dunitersuite/dunwallet/wallet"
)

// verifiedSubmitter checks the issuer signature of every document before
// handing it to the node.  A document that does not verify never leaves the
// process.
type verifiedSubmitter struct {
	wallet.Submitter
}

// Submit implements wallet.Submitter.
func (v *verifiedSubmitter) Submit(ctx context.Context, signed string) error {
	doc, err := txdoc.Parse(signed)
	if err != nil {
		return fmt.Errorf("reparse signed document: %w", err)
	}
	if !doc.IsSigned() {
		return fmt.Errorf("document %s is not signed", doc.Hash())
	}

	err = keys.Verify(doc.Issuer, []byte(doc.Document.Raw()), doc.Signature)
	if err != nil {
		return fmt.Errorf("document %s: %w", doc.Hash(), err)
	}

	log.Debugf("Signature of %s verified", doc.Hash())

	return v.Submitter.Submit(ctx, signed)
}

// writeSend prints every journaled document of one send with its inputs and
// outputs, in submission order.
func writeSend(w io.Writer, records []journal.Record) error {
	for _, r := range records {
		doc, err := txdoc.Parse(r.Document)
		if err != nil {
			return fmt.Errorf("journal record %s: %w", r.Hash, err)
		}

		fmt.Fprintf(w, "round %d %s %s %s\n", r.Round, r.Kind, r.Status,
			r.Hash)
		if r.Error != "" {
			fmt.Fprintf(w, "  error:  %s\n", r.Error)
		}
		for i := range doc.Inputs {
			fmt.Fprintf(w, "  input:  %s\n", doc.Inputs[i].Inline())
		}
		for i := range doc.Outputs {
			fmt.Fprintf(w, "  output: %s\n", doc.Outputs[i].Inline())
		}
		if doc.Comment != "" {
			fmt.Fprintf(w, "  comment: %s\n", doc.Comment)
		}
	}
	return nil
}
