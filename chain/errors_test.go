// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMatchErrStr checks that matchErrStr ignores case and treats dashes
// and underscores as spaces.
func TestMatchErrStr(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		msg      string
		matchStr string
		matched  bool
	}{
		{
			name:     "plain",
			msg:      "Transaction already processed",
			matchStr: "transaction already processed",
			matched:  true,
		},
		{
			name:     "dashes",
			msg:      "source-already-consumed",
			matchStr: "source already consumed",
			matched:  true,
		},
		{
			name:     "underscores and case",
			msg:      "SOURCE_ALREADY_CONSUMED",
			matchStr: "Source-Already-Consumed",
			matched:  true,
		},
		{
			name:     "unmatched",
			msg:      "signature does not match",
			matchStr: "source already consumed",
			matched:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.matched, matchErrStr(tc.msg, tc.matchStr))
		})
	}
}

// TestNodeErrorUnwrap checks node errors map onto the sentinel errors.
func TestNodeErrorUnwrap(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		err      *NodeError
		expected error
	}{
		{
			err:      &NodeError{Code: 2030, Message: "whatever"},
			expected: ErrAlreadyKnown,
		},
		{
			err:      &NodeError{Code: 2015},
			expected: ErrSourceConsumed,
		},
		{
			err: &NodeError{
				Code:    9999,
				Message: "Transaction already processed",
			},
			expected: ErrAlreadyKnown,
		},
		{
			err:      &NodeError{Code: 1002, Message: "bad document"},
			expected: ErrRejected,
		},
	}

	for _, tc := range testCases {
		require.True(t, errors.Is(tc.err, tc.expected), tc.err.Error())
	}
}
