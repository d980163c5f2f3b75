// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txrules provides the non-consensus and consensus-mirroring rules a
transaction document must follow before it is handed to a node.

Amounts and unit bases

Every amount on the wire is a mantissa and a base; the face value is
mantissa × 10^base.  The currency's unit base only grows (it is bumped when
the dividend outgrows four digits), and outputs may be written in any base
up to the current one.  Decompose turns an integer face value into the
shortest list of (mantissa, base) pairs for the current unit base, collapsing
everything at or above the unit base into a single output:

    Decompose(123456, 2) = [(1234, 2), (5, 1), (6, 0)]

Document limits

A document may not exceed MaxDocumentLines lines.  Each input costs two lines
(the input and its unlock), each output one, each issuer two (the issuer key
and its signature).  MaxInputsForOutputs derives how many inputs still fit.

Addresses and comments

Addresses are base58 encoded ed25519 public keys, optionally followed by a
three character checksum.  Comments are limited to 255 characters from a
restricted set.
*/
package txrules
