// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package srcmgr models the spendable sources of an account and merges the
// confirmed view of a node with the account's pending (not yet written)
// operations into one list of usable candidates.
//
// A source is either a transaction output (type T) or a universal dividend
// (type D).  Sources are identified by their Key, which deliberately ignores
// whether the source is confirmed or only pending: once a pending output is
// written into a block the node reports it as confirmed under the same key,
// and the aggregator must not list it twice.
//
// Pending operations are trusted only for a short window of blocks.  Mirror
// nodes may keep serving operations that were dropped long ago, and those
// must neither add nor remove candidates.
package srcmgr
