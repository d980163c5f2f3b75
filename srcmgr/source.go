// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package srcmgr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dunitersuite/dunwallet/wallet/txrules"
)

// ErrMalformedSource is returned when an inline source can not be parsed.
var ErrMalformedSource = errors.New("malformed source")

// Type is the wire marker telling how a source was produced.
type Type byte

const (
	// TypeTransaction marks an output of a transaction.
	TypeTransaction Type = 'T'

	// TypeDividend marks a universal dividend.
	TypeDividend Type = 'D'
)

// String returns the wire marker.
func (t Type) String() string {
	return string(t)
}

// Kind tells whether a source is written in a block or only known from a
// pending operation.
type Kind uint8

const (
	// KindConfirmed is a source reported by the node's source index.
	KindConfirmed Kind = iota

	// KindPendingReceived is an output of a pending operation addressed
	// to the account.
	KindPendingReceived
)

// String returns a human readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindConfirmed:
		return "confirmed"
	case KindPendingReceived:
		return "pending"
	default:
		return "unknown"
	}
}

// Key identifies a source.  For transaction outputs Origin is the producing
// transaction hash and Index the output position; for dividends Origin is
// the receiving key and Index the block number.
type Key struct {
	Type   Type
	Origin string
	Index  uint32
}

// String returns the key as "type:origin:index".
func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%d", k.Type, k.Origin, k.Index)
}

// Source is a spendable unit of value.
type Source struct {
	// Amount is the mantissa and Base the exponent of the source value.
	Amount int64
	Base   uint32

	Type   Type
	Kind   Kind
	Origin string
	Index  uint32
}

// Key returns the identity of the source.
func (s *Source) Key() Key {
	return Key{Type: s.Type, Origin: s.Origin, Index: s.Index}
}

// Value returns the face value amount × 10^base.  Sources handed out by an
// Aggregator are validated so the multiplication can not overflow.
func (s *Source) Value() int64 {
	return txrules.Denomination{Amount: s.Amount, Base: s.Base}.Value()
}

// Validate checks that the source carries a representable value and a known
// type.
func (s *Source) Validate() error {
	if s.Type != TypeTransaction && s.Type != TypeDividend {
		return fmt.Errorf("%w: unknown type %q", ErrMalformedSource,
			byte(s.Type))
	}
	if s.Origin == "" {
		return fmt.Errorf("%w: empty origin", ErrMalformedSource)
	}
	if _, err := txrules.ScaleAmount(s.Amount, s.Base); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	return nil
}

// Inline renders the source the way a document lists it as an input:
// amount:base:type:origin:index.
func (s *Source) Inline() string {
	return fmt.Sprintf("%d:%d:%s:%s:%d", s.Amount, s.Base, s.Type,
		s.Origin, s.Index)
}

// String implements fmt.Stringer.
func (s Source) String() string {
	return s.Inline()
}

// ParseInput parses a source written as amount:base:type:origin:index.  The
// result is KindConfirmed; callers reading pending data set Kind
// themselves.
func ParseInput(inline string) (Source, error) {
	fields := strings.Split(inline, ":")
	if len(fields) != 5 {
		return Source{}, fmt.Errorf("%w: %q has %d fields",
			ErrMalformedSource, inline, len(fields))
	}

	amount, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Source{}, fmt.Errorf("%w: amount %q", ErrMalformedSource,
			fields[0])
	}
	base, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return Source{}, fmt.Errorf("%w: base %q", ErrMalformedSource,
			fields[1])
	}
	if len(fields[2]) != 1 {
		return Source{}, fmt.Errorf("%w: type %q", ErrMalformedSource,
			fields[2])
	}
	index, err := strconv.ParseUint(fields[4], 10, 32)
	if err != nil {
		return Source{}, fmt.Errorf("%w: index %q", ErrMalformedSource,
			fields[4])
	}

	src := Source{
		Amount: amount,
		Base:   uint32(base),
		Type:   Type(fields[2][0]),
		Kind:   KindConfirmed,
		Origin: fields[3],
		Index:  uint32(index),
	}
	if err := src.Validate(); err != nil {
		return Source{}, err
	}

	return src, nil
}

// TotalValue sums the face values of the sources.
func TotalValue(sources []Source) int64 {
	var total int64
	for i := range sources {
		total += sources[i].Value()
	}
	return total
}
