// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package srcmgr

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// mockProvider is a mock implementation of the Provider interface.
type mockProvider struct {
	mock.Mock
}

// A compile-time assertion to ensure that mockProvider implements the
// Provider interface.
var _ Provider = (*mockProvider)(nil)

func (m *mockProvider) ConfirmedSources(ctx context.Context,
	account string) ([]Source, error) {

	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Source), args.Error(1)
}

func (m *mockProvider) PendingOperations(ctx context.Context,
	account string) ([]PendingOperation, error) {

	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PendingOperation), args.Error(1)
}

func (m *mockProvider) ReferenceBlock(
	ctx context.Context) (*ReferenceBlock, error) {

	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ReferenceBlock), args.Error(1)
}
