// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// This file contains mock implementations of the collaborators of a
// Sender.  They are used to isolate the round logic from the network, the
// keys and the journal database.

package wallet

import (
	"context"

	"github.com/dunitersuite/dunwallet/journal"
	"github.com/dunitersuite/dunwallet/srcmgr"
	"github.com/dunitersuite/dunwallet/txdoc"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/mock"
)

// mockProvider is a mock implementation of the srcmgr.Provider interface.
type mockProvider struct {
	mock.Mock
}

// A compile-time assertion to ensure that mockProvider implements the
// Provider interface.
var _ srcmgr.Provider = (*mockProvider)(nil)

// ConfirmedSources implements the srcmgr.Provider interface.
func (m *mockProvider) ConfirmedSources(ctx context.Context,
	account string) ([]srcmgr.Source, error) {

	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]srcmgr.Source), args.Error(1)
}

// PendingOperations implements the srcmgr.Provider interface.
func (m *mockProvider) PendingOperations(ctx context.Context,
	account string) ([]srcmgr.PendingOperation, error) {

	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]srcmgr.PendingOperation), args.Error(1)
}

// ReferenceBlock implements the srcmgr.Provider interface.
func (m *mockProvider) ReferenceBlock(
	ctx context.Context) (*srcmgr.ReferenceBlock, error) {

	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*srcmgr.ReferenceBlock), args.Error(1)
}

// mockSigner is a mock implementation of the txdoc.Signer interface.
type mockSigner struct {
	mock.Mock
}

// A compile-time assertion to ensure that mockSigner implements the Signer
// interface.
var _ txdoc.Signer = (*mockSigner)(nil)

// Sign implements the txdoc.Signer interface.
func (m *mockSigner) Sign(msg []byte) (string, error) {
	args := m.Called(msg)
	return args.String(0), args.Error(1)
}

// PublicKey implements the txdoc.Signer interface.
func (m *mockSigner) PublicKey() string {
	args := m.Called()
	return args.String(0)
}

// mockSubmitter is a mock implementation of the Submitter interface.
type mockSubmitter struct {
	mock.Mock
}

// A compile-time assertion to ensure that mockSubmitter implements the
// Submitter interface.
var _ Submitter = (*mockSubmitter)(nil)

// Submit implements the Submitter interface.
func (m *mockSubmitter) Submit(ctx context.Context, signed string) error {
	args := m.Called(ctx, signed)
	return args.Error(0)
}

// mockJournal is a mock implementation of the journal.Store interface.
type mockJournal struct {
	mock.Mock
}

// A compile-time assertion to ensure that mockJournal implements the Store
// interface.
var _ journal.Store = (*mockJournal)(nil)

// Record implements the journal.Store interface.
func (m *mockJournal) Record(ctx context.Context, r *journal.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// Lookup implements the journal.Store interface.
func (m *mockJournal) Lookup(ctx context.Context,
	hash string) (fn.Option[journal.Record], error) {

	args := m.Called(ctx, hash)
	return args.Get(0).(fn.Option[journal.Record]), args.Error(1)
}

// Send implements the journal.Store interface.
func (m *mockJournal) Send(ctx context.Context,
	sendID string) ([]journal.Record, error) {

	args := m.Called(ctx, sendID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]journal.Record), args.Error(1)
}

// List implements the journal.Store interface.
func (m *mockJournal) List(ctx context.Context,
	limit int) ([]journal.Record, error) {

	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]journal.Record), args.Error(1)
}

// Close implements the journal.Store interface.
func (m *mockJournal) Close() error {
	return m.Called().Error(0)
}
