// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txauthor provides input selection and document authoring for the
// rounds of a send.
package txauthor

import (
	"errors"
	"fmt"

	"github.com/dunitersuite/dunwallet/srcmgr"
	"github.com/dunitersuite/dunwallet/txdoc"
	"github.com/dunitersuite/dunwallet/wallet/txrules"
)

// ConsolidationComment is the comment of consolidation documents.
const ConsolidationComment = "Change operation"

// ErrOverspend is returned when the recipients are owed more than the
// inputs provide.
var ErrOverspend = errors.New("recipients exceed selected inputs")

// Recipient is an address paid by the final document of a send.
type Recipient struct {
	Address string
	Amount  int64
}

// AuthoredDoc holds a newly-built document and where its change starts.
type AuthoredDoc struct {
	Doc        *txdoc.Document
	TotalInput int64

	// Change is the value returned to the change address.
	Change int64

	// ChangeIndex is the index of the first change output, negative if
	// there is no change.
	ChangeIndex int
}

// Produced returns the outputs of the document that are locked to addr as
// sources identified by the given document hash.
func (a *AuthoredDoc) Produced(hash, addr string) []srcmgr.Source {
	var srcs []srcmgr.Source
	for i, o := range a.Doc.Outputs {
		if o.Address != addr {
			continue
		}
		srcs = append(srcs, srcmgr.Source{
			Amount: o.Amount,
			Base:   o.Base,
			Type:   srcmgr.TypeTransaction,
			Kind:   srcmgr.KindPendingReceived,
			Origin: hash,
			Index:  uint32(i),
		})
	}
	return srcs
}

// Consumed returns the keys of the document inputs.
func (a *AuthoredDoc) Consumed() []srcmgr.Key {
	keys := make([]srcmgr.Key, len(a.Doc.Inputs))
	for i := range a.Doc.Inputs {
		keys[i] = a.Doc.Inputs[i].Key()
	}
	return keys
}

// AuthorConsolidation builds a document spending all inputs into a single
// output back to the issuer.
func AuthorConsolidation(block *srcmgr.ReferenceBlock, issuer string,
	inputs []srcmgr.Source) (*AuthoredDoc, error) {

	total := srcmgr.TotalValue(inputs)
	denom, err := txrules.SingleDenomination(total, block.UnitBase)
	if err != nil {
		return nil, err
	}

	doc, err := txdoc.Build(&txdoc.Template{
		Currency: block.Currency,
		Block:    block.Blockstamp(),
		Issuer:   issuer,
		Inputs:   inputs,
		Outputs: []txdoc.Output{{
			Amount:  denom.Amount,
			Base:    denom.Base,
			Address: issuer,
		}},
		Comment: ConsolidationComment,
	})
	if err != nil {
		return nil, err
	}

	return &AuthoredDoc{
		Doc:         doc,
		TotalInput:  total,
		Change:      total,
		ChangeIndex: 0,
	}, nil
}

// AuthorPayment builds the final document of a send: the decomposed
// recipient amounts in order, then the change decomposed to changeAddr.
// The change is omitted when the inputs exactly cover the recipients.
func AuthorPayment(block *srcmgr.ReferenceBlock, issuer string,
	inputs []srcmgr.Source, recipients []Recipient, changeAddr string,
	comment string) (*AuthoredDoc, error) {

	total := srcmgr.TotalValue(inputs)

	var (
		outputs []txdoc.Output
		owed    int64
	)
	for _, r := range recipients {
		denoms, err := txrules.Decompose(r.Amount, block.UnitBase)
		if err != nil {
			return nil, fmt.Errorf("recipient %s: %w", r.Address, err)
		}
		outputs = appendOutputs(outputs, denoms, r.Address)
		owed += r.Amount
	}

	change := total - owed
	if change < 0 {
		return nil, fmt.Errorf("%w: owed %d, inputs %d", ErrOverspend,
			owed, total)
	}

	changeIndex := -1
	if change > 0 {
		denoms, err := txrules.Decompose(change, block.UnitBase)
		if err != nil {
			return nil, fmt.Errorf("change: %w", err)
		}
		changeIndex = len(outputs)
		outputs = appendOutputs(outputs, denoms, changeAddr)
	}

	doc, err := txdoc.Build(&txdoc.Template{
		Currency: block.Currency,
		Block:    block.Blockstamp(),
		Issuer:   issuer,
		Inputs:   inputs,
		Outputs:  outputs,
		Comment:  comment,
	})
	if err != nil {
		return nil, err
	}

	return &AuthoredDoc{
		Doc:         doc,
		TotalInput:  total,
		Change:      change,
		ChangeIndex: changeIndex,
	}, nil
}

func appendOutputs(outputs []txdoc.Output, denoms []txrules.Denomination,
	addr string) []txdoc.Output {

	for _, d := range denoms {
		outputs = append(outputs, txdoc.Output{
			Amount:  d.Amount,
			Base:    d.Base,
			Address: addr,
		})
	}
	return outputs
}
