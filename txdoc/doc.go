// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txdoc builds, renders, signs and parses version 10 transaction
documents.

A document is built from a Template.  Build checks everything a node would
reject before the document is ever signed: the comment character set and
length, the issuer and output addresses, positive output amounts, the line
limit, and that the inputs and outputs carry exactly the same value.  A built
Document is never mutated; signing it returns a SignedDocument holding the
signature and the hash the node will index it under.

The rendered form is line oriented and every line, the last one included, is
terminated by a newline:

	Version: 10
	Type: Transaction
	Currency: g1
	Blockstamp: 1022-00000B3C...
	Locktime: 0
	Issuers:
	<issuer public key>
	Inputs:
	<amount>:<base>:<T|D>:<origin>:<index>
	Unlocks:
	<input index>:SIG(0)
	Outputs:
	<amount>:<base>:SIG(<public key>)
	Comment: <comment>
	<base64 signature>
*/
package txdoc
