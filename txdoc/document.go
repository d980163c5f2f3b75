// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txdoc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dunitersuite/dunwallet/srcmgr"
	"github.com/dunitersuite/dunwallet/wallet/txrules"
)

const (
	// Version is the document format version written by this package.
	Version = 10

	// DocumentType is the value of the Type header.
	DocumentType = "Transaction"
)

var (
	// ErrNoInputs is returned for documents without inputs.
	ErrNoInputs = errors.New("document has no inputs")

	// ErrNoOutputs is returned for documents without outputs.
	ErrNoOutputs = errors.New("document has no outputs")

	// ErrDuplicateInput is returned when a source is spent twice.
	ErrDuplicateInput = errors.New("source spent twice in document")

	// ErrInvalidOutput is returned for outputs with a non positive or
	// unrepresentable amount.
	ErrInvalidOutput = errors.New("invalid output")

	// ErrUnbalanced is returned when the inputs and outputs of a document
	// do not carry the same value.
	ErrUnbalanced = errors.New("inputs and outputs are unbalanced")

	// ErrMissingCurrency is returned when no currency name is given.
	ErrMissingCurrency = errors.New("missing currency")
)

// Output is a document output, always locked by the signature of Address.
type Output struct {
	Amount  int64
	Base    uint32
	Address string
}

// Value returns the face value of the output.
func (o *Output) Value() int64 {
	return txrules.Denomination{Amount: o.Amount, Base: o.Base}.Value()
}

// Inline renders the output line.
func (o *Output) Inline() string {
	return fmt.Sprintf("%d:%d:SIG(%s)", o.Amount, o.Base, o.Address)
}

// Template holds what a caller provides to build a document.
type Template struct {
	Currency string
	Block    srcmgr.Blockstamp
	Issuer   string
	Inputs   []srcmgr.Source
	Outputs  []Output
	Comment  string
}

// Document is a validated, unsigned transaction document.  It must not be
// modified after Build returned it.
type Document struct {
	Version    int
	Currency   string
	Blockstamp srcmgr.Blockstamp
	Locktime   uint64
	Issuer     string
	Inputs     []srcmgr.Source
	Outputs    []Output
	Comment    string
}

// Build validates the template and returns the document it describes.
// Addresses given with a checksum are stored without it.
func Build(t *Template) (*Document, error) {
	if t.Currency == "" {
		return nil, ErrMissingCurrency
	}
	if err := txrules.CheckComment(t.Comment); err != nil {
		return nil, err
	}

	issuer, err := txrules.ParseAddress(t.Issuer)
	if err != nil {
		return nil, fmt.Errorf("issuer: %w", err)
	}

	if len(t.Inputs) == 0 {
		return nil, ErrNoInputs
	}
	if len(t.Outputs) == 0 {
		return nil, ErrNoOutputs
	}
	lines := txrules.DocumentLines(1, len(t.Inputs), len(t.Outputs))
	if lines > txrules.MaxDocumentLines {
		return nil, fmt.Errorf("%w: %d lines, max %d",
			txrules.ErrTooManyLines, lines, txrules.MaxDocumentLines)
	}

	inputs := make([]srcmgr.Source, len(t.Inputs))
	seen := make(map[srcmgr.Key]struct{}, len(t.Inputs))
	var in int64
	for i, src := range t.Inputs {
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if _, ok := seen[src.Key()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateInput,
				src.Key())
		}
		seen[src.Key()] = struct{}{}

		if in, err = addValue(in, src.Value()); err != nil {
			return nil, fmt.Errorf("inputs: %w", err)
		}
		inputs[i] = src
	}

	outputs := make([]Output, len(t.Outputs))
	var out int64
	for i, o := range t.Outputs {
		if o.Amount <= 0 {
			return nil, fmt.Errorf("%w %d: amount %d", ErrInvalidOutput,
				i, o.Amount)
		}
		v, err := txrules.ScaleAmount(o.Amount, o.Base)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %v", ErrInvalidOutput, i,
				err)
		}
		addr, err := txrules.ParseAddress(o.Address)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		if out, err = addValue(out, v); err != nil {
			return nil, fmt.Errorf("outputs: %w", err)
		}
		outputs[i] = Output{Amount: o.Amount, Base: o.Base, Address: addr}
	}

	if in != out {
		return nil, fmt.Errorf("%w: inputs %d, outputs %d", ErrUnbalanced,
			in, out)
	}

	return &Document{
		Version:    Version,
		Currency:   t.Currency,
		Blockstamp: t.Block,
		Issuer:     issuer,
		Inputs:     inputs,
		Outputs:    outputs,
		Comment:    t.Comment,
	}, nil
}

func addValue(sum, v int64) (int64, error) {
	if v > math.MaxInt64-sum {
		return 0, txrules.ErrAmountOverflow
	}
	return sum + v, nil
}

// Unlocks returns the unlock lines, one per input.
func (d *Document) Unlocks() []string {
	unlocks := make([]string, len(d.Inputs))
	for i := range d.Inputs {
		unlocks[i] = strconv.Itoa(i) + ":SIG(0)"
	}
	return unlocks
}

// Total returns the value moved by the document.
func (d *Document) Total() int64 {
	return srcmgr.TotalValue(d.Inputs)
}

// Lines returns the number of lines of the signed document.
func (d *Document) Lines() int {
	return txrules.DocumentLines(1, len(d.Inputs), len(d.Outputs))
}

// Raw renders the unsigned document, which is also the message that is
// signed.
func (d *Document) Raw() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Version: %d\n", d.Version)
	fmt.Fprintf(&b, "Type: %s\n", DocumentType)
	fmt.Fprintf(&b, "Currency: %s\n", d.Currency)
	fmt.Fprintf(&b, "Blockstamp: %s\n", d.Blockstamp)
	fmt.Fprintf(&b, "Locktime: %d\n", d.Locktime)
	b.WriteString("Issuers:\n")
	b.WriteString(d.Issuer + "\n")
	b.WriteString("Inputs:\n")
	for i := range d.Inputs {
		b.WriteString(d.Inputs[i].Inline() + "\n")
	}
	b.WriteString("Unlocks:\n")
	for _, u := range d.Unlocks() {
		b.WriteString(u + "\n")
	}
	b.WriteString("Outputs:\n")
	for i := range d.Outputs {
		b.WriteString(d.Outputs[i].Inline() + "\n")
	}
	fmt.Fprintf(&b, "Comment: %s\n", d.Comment)

	return b.String()
}
