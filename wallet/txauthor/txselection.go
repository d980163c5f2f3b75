// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txauthor

import (
	"fmt"

	"github.com/dunitersuite/dunwallet/srcmgr"
	"github.com/dunitersuite/dunwallet/wallet/txrules"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// InputSourceError describes the failure to provide enough input value from
// the account sources to meet a target amount.
type InputSourceError interface {
	error
	InputSourceError()
}

// InsufficientFundsError is returned when all candidates were examined and
// their value stays below the target.
type InsufficientFundsError struct {
	Target    int64
	Available int64
}

// InputSourceError implements the InputSourceError interface.
func (*InsufficientFundsError) InputSourceError() {}

// Error implements the error interface.
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds available to construct "+
		"document: amount: %d, available amount: %d", e.Target,
		e.Available)
}

// Selection is the result of one round of input selection.
type Selection struct {
	// Inputs are the chosen sources in candidate order.
	Inputs []srcmgr.Source

	// Total is the summed value of Inputs.
	Total int64

	// CapExceeded is set when selection stopped because the input cap was
	// reached.  The inputs then have to be consolidated before the payment
	// can be made.
	CapExceeded bool
}

// inputState holds the inputs selected so far.
type inputState struct {
	// inputTotal is the total value of all selected inputs.
	inputTotal int64

	// targetAmount is the amount the selection has to fund.
	targetAmount int64

	// inputCap is the maximum number of inputs of one document.
	inputCap int

	// useAll keeps selecting after the target is met.
	useAll bool

	inputs []srcmgr.Source
	seen   fn.Set[srcmgr.Key]
}

// capReached reports whether no more inputs may be added.
func (t *inputState) capReached() bool {
	return len(t.inputs) >= t.inputCap
}

// enoughInput reports whether the target is funded and selection may stop.
func (t *inputState) enoughInput() bool {
	return !t.useAll && len(t.inputs) > 0 && t.inputTotal >= t.targetAmount
}

// add appends a candidate unless its key was already selected.
func (t *inputState) add(src srcmgr.Source) bool {
	if t.seen.Contains(src.Key()) {
		return false
	}
	t.seen.Add(src.Key())
	t.inputs = append(t.inputs, src)
	t.inputTotal += src.Value()
	return true
}

// SelectInputs picks candidates in order until the input cap is reached,
// the target is met (unless useAll is set) or the candidates run out.  The
// candidates slice is never modified.
//
// Reaching the cap sets CapExceeded even if the target happens to be met by
// the same input.  Running out of candidates below the target returns an
// *InsufficientFundsError.
func SelectInputs(candidates []srcmgr.Source, target int64, useAll bool,
	inputCap int) (*Selection, error) {

	if inputCap < 2 {
		return nil, fmt.Errorf("%w: got %d", txrules.ErrInvalidInputCap,
			inputCap)
	}
	if target < 0 {
		return nil, txrules.ErrAmountNegative
	}

	state := inputState{
		targetAmount: target,
		inputCap:     inputCap,
		useAll:       useAll,
		seen:         fn.NewSet[srcmgr.Key](),
	}

	for _, src := range candidates {
		if state.enoughInput() {
			break
		}
		if !state.add(src) {
			log.Tracef("Skipping duplicate candidate %s", src.Key())
			continue
		}
		if state.capReached() {
			return &Selection{
				Inputs:      state.inputs,
				Total:       state.inputTotal,
				CapExceeded: true,
			}, nil
		}
	}

	if state.inputTotal < target || len(state.inputs) == 0 {
		return nil, &InsufficientFundsError{
			Target:    target,
			Available: state.inputTotal,
		}
	}

	return &Selection{
		Inputs: state.inputs,
		Total:  state.inputTotal,
	}, nil
}
