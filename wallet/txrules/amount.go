// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txrules

import (
	"errors"
	"fmt"
	"math"
)

// MaxBase is the largest base whose power of ten fits in an int64.
const MaxBase = 18

// Amount rule violations.
var (
	ErrAmountNegative     = errors.New("amount is negative")
	ErrAmountOverflow     = errors.New("amount overflows 64 bits")
	ErrBaseTooLarge       = errors.New("unit base too large")
	ErrAmountBelowQuantum = errors.New("amount is below the smallest " +
		"amount allowed by the current unit base")
	ErrDecomposition = errors.New("decomposition does not reconstruct amount")
)

// Denomination is an amount written as a mantissa and a base.
type Denomination struct {
	Amount int64
	Base   uint32
}

// Value returns the face value of the denomination.  The caller must have
// validated the pair with ScaleAmount if it came from outside.
func (d Denomination) Value() int64 {
	p, _ := Pow10(d.Base)
	return d.Amount * p
}

// String returns the denomination as "amount:base".
func (d Denomination) String() string {
	return fmt.Sprintf("%d:%d", d.Amount, d.Base)
}

// Pow10 returns 10^base.
func Pow10(base uint32) (int64, error) {
	if base > MaxBase {
		return 0, fmt.Errorf("%w: %d", ErrBaseTooLarge, base)
	}

	p := int64(1)
	for i := uint32(0); i < base; i++ {
		p *= 10
	}
	return p, nil
}

// ScaleAmount returns amount × 10^base, failing instead of wrapping around.
func ScaleAmount(amount int64, base uint32) (int64, error) {
	if amount < 0 {
		return 0, ErrAmountNegative
	}
	p, err := Pow10(base)
	if err != nil {
		return 0, err
	}
	if amount > math.MaxInt64/p {
		return 0, fmt.Errorf("%w: %d×10^%d", ErrAmountOverflow, amount,
			base)
	}
	return amount * p, nil
}

// TruncBase truncates amount down to a multiple of 10^base.  Amounts smaller
// than 10^base truncate to zero.
func TruncBase(amount int64, base uint32) int64 {
	p, err := Pow10(base)
	if err != nil || amount < p {
		return 0
	}
	return amount / p * p
}

// Decompose splits amount into the minimal ordered list of denominations for
// the given unit base.  Everything at or above 10^unitBase goes into the
// first denomination; below it each decimal digit yields at most one
// denomination.  Zero digits produce nothing, so Decompose(0, b) is empty.
//
// The result always sums to amount; an error is returned instead of a
// partial decomposition.
func Decompose(amount int64, unitBase uint32) ([]Denomination, error) {
	if amount < 0 {
		return nil, ErrAmountNegative
	}
	if unitBase > MaxBase {
		return nil, fmt.Errorf("%w: %d", ErrBaseTooLarge, unitBase)
	}

	var (
		denoms []Denomination
		rest   = amount
	)
	for base := int64(unitBase); base >= 0; base-- {
		chunk := TruncBase(rest, uint32(base))
		if chunk == 0 {
			continue
		}

		p, _ := Pow10(uint32(base))
		denoms = append(denoms, Denomination{
			Amount: chunk / p,
			Base:   uint32(base),
		})
		rest -= chunk
	}

	if rest != 0 {
		return nil, fmt.Errorf("%w: %d left of %d", ErrDecomposition,
			rest, amount)
	}

	return denoms, nil
}

// SingleDenomination writes amount as exactly one denomination, using the
// largest base not above unitBase that represents it without loss.
func SingleDenomination(amount int64, unitBase uint32) (Denomination, error) {
	if amount <= 0 {
		return Denomination{}, fmt.Errorf("%w: %d", ErrAmountBelowQuantum,
			amount)
	}
	if unitBase > MaxBase {
		return Denomination{}, fmt.Errorf("%w: %d", ErrBaseTooLarge,
			unitBase)
	}

	for base := int64(unitBase); base > 0; base-- {
		p, _ := Pow10(uint32(base))
		if amount%p == 0 {
			return Denomination{Amount: amount / p, Base: uint32(base)},
				nil
		}
	}

	return Denomination{Amount: amount, Base: 0}, nil
}

// Quantize truncates a payment amount to the smallest amount the current
// unit base allows.  It returns the truncated amount and the residue.  A
// payment that truncates to nothing is an error.
func Quantize(amount int64, unitBase uint32) (int64, int64, error) {
	if amount < 0 {
		return 0, 0, ErrAmountNegative
	}

	q := TruncBase(amount, unitBase)
	if q == 0 {
		p, err := Pow10(unitBase)
		if err != nil {
			return 0, 0, err
		}
		return 0, 0, fmt.Errorf("%w: %d < %d", ErrAmountBelowQuantum,
			amount, p)
	}

	return q, amount - q, nil
}
