// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"

	"github.com/dunitersuite/dunwallet/chain"
)

// Submitter hands signed documents to a node.
type Submitter interface {
	// Submit sends the signed document text.  A nil error means the node
	// accepted the document into its pending pool.
	Submit(ctx context.Context, signed string) error
}

// A compile-time assertion to ensure that the node client implements the
// Submitter interface.
var _ Submitter = (*chain.Client)(nil)
