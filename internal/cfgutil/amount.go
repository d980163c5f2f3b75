// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// UnitsPerCoin is the number of integer units in one displayed coin.  Amounts
// on the wire are always integers in these units.
const UnitsPerCoin = 100

// ErrInvalidAmount is returned when an amount flag can not be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// AmountFlag holds an amount in integer units and implements the
// flags.Marshaler and Unmarshaler interfaces so it can be used as a config
// struct field.  Values are written as decimal coins with at most two
// fractional digits, e.g. "12.5" or "12.50 G1".
type AmountFlag struct {
	Units int64
}

// MarshalFlag satisfies the flags.Marshaler interface.
func (a *AmountFlag) MarshalFlag() (string, error) {
	return FormatUnits(a.Units), nil
}

// UnmarshalFlag satisfies the flags.Unmarshaler interface.
func (a *AmountFlag) UnmarshalFlag(value string) error {
	units, err := ParseUnits(value)
	if err != nil {
		return err
	}
	a.Units = units
	return nil
}

// ParseUnits parses a decimal coin amount into integer units.  The parse is
// exact: no floating point is involved and more than two fractional digits is
// an error rather than a rounding.
func ParseUnits(value string) (int64, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimSuffix(value, " G1")
	value = strings.TrimSuffix(value, " Ğ1")

	whole, frac, hasFrac := strings.Cut(value, ".")
	if whole == "" && !hasFrac {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than 2 decimals",
			ErrInvalidAmount, value)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	w, err := strconv.ParseUint(whole, 10, 56)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, value, err)
	}
	f, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, value, err)
	}

	return int64(w)*UnitsPerCoin + int64(f), nil
}

// FormatUnits renders integer units as a decimal coin amount.
func FormatUnits(units int64) string {
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	return fmt.Sprintf("%s%d.%02d", sign, units/UnitsPerCoin,
		units%UnitsPerCoin)
}
