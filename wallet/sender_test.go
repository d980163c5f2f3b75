// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/davecgh/go-spew/spew"
	"github.com/dunitersuite/dunwallet/chain"
	"github.com/dunitersuite/dunwallet/journal"
	"github.com/dunitersuite/dunwallet/srcmgr"
	"github.com/dunitersuite/dunwallet/txdoc"
	"github.com/dunitersuite/dunwallet/wallet/txauthor"
	"github.com/dunitersuite/dunwallet/wallet/txrules"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	errNode = errors.New("node unreachable")

	issuer    = base58.Encode(bytes.Repeat([]byte{0x71}, 32))
	recipient = base58.Encode(bytes.Repeat([]byte{0x72}, 32))
	backAddr  = base58.Encode(bytes.Repeat([]byte{0x73}, 32))
)

// senderMocks holds the collaborators of a test sender.
type senderMocks struct {
	provider  *mockProvider
	signer    *mockSigner
	submitter *mockSubmitter
	journal   *mockJournal
}

func repeatSources(n int, value int64) []srcmgr.Source {
	srcs := make([]srcmgr.Source, n)
	for i := range srcs {
		srcs[i] = srcmgr.Source{
			Amount: value,
			Type:   srcmgr.TypeTransaction,
			Origin: fmt.Sprintf("TX%03d", i),
		}
	}
	return srcs
}

func testBlock(height, unitBase uint32) *srcmgr.ReferenceBlock {
	return &srcmgr.ReferenceBlock{
		Height:   height,
		Hash:     fmt.Sprintf("0000C0FFEE%04d", height),
		Currency: "g1-test",
		UnitBase: unitBase,
	}
}

// testSenderWithMocks returns a sender whose provider always reports the
// given confirmed sources and no pending operations.  The submitter has no
// expectations set.
func testSenderWithMocks(t *testing.T, sources []srcmgr.Source,
	unitBase uint32) (*Sender, *senderMocks) {

	t.Helper()

	return testSenderWithBlocks(t, sources, testBlock(100, unitBase))
}

// testSenderWithBlocks is testSenderWithMocks with a reference block per
// aggregation.  The last block is repeated once the others are used up.
func testSenderWithBlocks(t *testing.T, sources []srcmgr.Source,
	blocks ...*srcmgr.ReferenceBlock) (*Sender, *senderMocks) {

	t.Helper()

	m := &senderMocks{
		provider:  &mockProvider{},
		signer:    &mockSigner{},
		submitter: &mockSubmitter{},
		journal:   &mockJournal{},
	}

	m.provider.On("ConfirmedSources", mock.Anything, issuer).
		Return(sources, nil)
	m.provider.On("PendingOperations", mock.Anything, issuer).
		Return([]srcmgr.PendingOperation{}, nil)
	for _, block := range blocks[:len(blocks)-1] {
		m.provider.On("ReferenceBlock", mock.Anything).
			Return(block, nil).Once()
	}
	m.provider.On("ReferenceBlock", mock.Anything).
		Return(blocks[len(blocks)-1], nil)

	m.signer.On("PublicKey").Return(issuer)
	m.signer.On("Sign", mock.Anything).Return("c2lnbmF0dXJl", nil)

	m.journal.On("Record", mock.Anything, mock.Anything).Return(nil)
	m.journal.On("Lookup", mock.Anything, mock.Anything).
		Return(fn.None[journal.Record](), nil).Maybe()

	s, err := NewSender(&Config{
		Provider:  m.provider,
		Signer:    m.signer,
		Submitter: m.submitter,
		Journal:   m.journal,
		InputCap:  40,
	})
	require.NoError(t, err)

	return s, m
}

// submitted parses every document handed to the submitter.
func submitted(t *testing.T, m *senderMocks) []*txdoc.SignedDocument {
	t.Helper()

	var docs []*txdoc.SignedDocument
	for _, call := range m.submitter.Calls {
		if call.Method != "Submit" {
			continue
		}
		doc, err := txdoc.Parse(call.Arguments.String(1))
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	return docs
}

// TestSendSingleSource checks a payment covered by one source is one
// document with one output.
func TestSendSingleSource(t *testing.T) {
	t.Parallel()

	s, m := testSenderWithMocks(t, repeatSources(1, 14189), 0)
	m.submitter.On("Submit", mock.Anything, mock.Anything).Return(nil)

	result, err := s.Send(context.Background(), &SendRequest{
		Recipients: []txauthor.Recipient{
			{Address: recipient, Amount: 14189},
		},
		Comment: "invoice 42",
	})
	require.NoError(t, err)

	docs := submitted(t, m)
	require.Len(t, docs, 1)
	require.Len(t, docs[0].Inputs, 1)
	require.Equal(t, []txdoc.Output{
		{Amount: 14189, Address: recipient},
	}, docs[0].Outputs, spew.Sdump(docs[0]))
	require.Equal(t, "invoice 42", docs[0].Comment)

	require.Equal(t, []string{docs[0].Hash()}, result.Hashes)
	require.Zero(t, result.Consolidations)
	require.Equal(t, int64(14189), result.Amount)
	require.Zero(t, result.Change)
	require.Equal(t, docs[0].Raw(), result.Document.Raw())
}

// TestSendConsolidates checks that 53 sources with a cap of 40 take one
// consolidation and a final document spending the 13 remaining sources and
// the consolidated one.
func TestSendConsolidates(t *testing.T) {
	t.Parallel()

	sources := repeatSources(53, 100)
	s, m := testSenderWithMocks(t, sources, 0)
	m.submitter.On("Submit", mock.Anything, mock.Anything).Return(nil)

	result, err := s.Send(context.Background(), &SendRequest{
		Recipients: []txauthor.Recipient{{Address: recipient}},
		UseAll:     true,
	})
	require.NoError(t, err)

	docs := submitted(t, m)
	require.Len(t, docs, 2)

	consolidation := docs[0]
	require.Equal(t, sources[:40], consolidation.Inputs)
	require.Equal(t, []txdoc.Output{
		{Amount: 4000, Address: issuer},
	}, consolidation.Outputs)
	require.Equal(t, txauthor.ConsolidationComment, consolidation.Comment)

	final := docs[1]
	require.Len(t, final.Inputs, 14)
	require.Equal(t, sources[40:], final.Inputs[:13])
	require.Equal(t, srcmgr.Key{
		Type:   srcmgr.TypeTransaction,
		Origin: consolidation.Hash(),
	}, final.Inputs[13].Key())
	require.Equal(t, int64(5300), final.Total())
	require.Equal(t, []txdoc.Output{
		{Amount: 5300, Address: recipient},
	}, final.Outputs)

	require.Equal(t, 1, result.Consolidations)
	require.Equal(t, []string{consolidation.Hash(), final.Hash()},
		result.Hashes)
	require.Equal(t, int64(5300), result.Amount)

	m.journal.AssertNumberOfCalls(t, "Record", 2)
	m.journal.AssertCalled(t, "Record", mock.Anything,
		mock.MatchedBy(func(r *journal.Record) bool {
			return r.Round == 0 &&
				r.Kind == journal.KindConsolidation &&
				r.Status == journal.StatusCommitted &&
				r.SendID == result.SendID &&
				r.Amount == 4000
		}))
}

// TestSendConsolidatesAcrossBlocks checks that a consolidation of this send
// keeps its inputs out of later rounds when the chain moves on by more than
// the freshness window and the node does not report it yet.
func TestSendConsolidatesAcrossBlocks(t *testing.T) {
	t.Parallel()

	sources := repeatSources(53, 100)
	s, m := testSenderWithBlocks(
		t, sources, testBlock(100, 0), testBlock(104, 0),
	)
	m.submitter.On("Submit", mock.Anything, mock.Anything).Return(nil)

	result, err := s.Send(context.Background(), &SendRequest{
		Recipients: []txauthor.Recipient{{Address: recipient}},
		UseAll:     true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Consolidations)
	require.Equal(t, int64(5300), result.Amount)

	docs := submitted(t, m)
	require.Len(t, docs, 2)
	require.Equal(t, testBlock(100, 0).Blockstamp(), docs[0].Blockstamp)
	require.Equal(t, testBlock(104, 0).Blockstamp(),
		docs[1].Blockstamp)

	require.Equal(t, sources[40:], docs[1].Inputs[:13])
	require.Equal(t, docs[0].Hash(), docs[1].Inputs[13].Origin)

	spent := fn.NewSet[srcmgr.Key]()
	for _, doc := range docs {
		for _, in := range doc.Inputs {
			require.False(t, spent.Contains(in.Key()),
				"%v spent twice", in.Key())
			spent.Add(in.Key())
		}
	}
}

// TestSendUnspent checks sources consumed by an earlier round of the send
// are never candidates again, whatever the provider reports.
func TestSendUnspent(t *testing.T) {
	t.Parallel()

	sources := repeatSources(4, 100)

	run := &sendRun{id: "test", spent: fn.NewSet[srcmgr.Key]()}
	require.Equal(t, sources, run.unspent(sources))

	run.local = []srcmgr.PendingOperation{{
		Hash:     "CONSOLIDATION",
		Consumed: []srcmgr.Key{sources[0].Key(), sources[2].Key()},
	}}
	run.spent.Add(sources[0].Key())
	run.spent.Add(sources[2].Key())

	require.Equal(t, []srcmgr.Source{sources[1], sources[3]},
		run.unspent(sources))
}

// TestSendRoundBound checks the number of consolidations stays within
// ceil(N / (cap - 1)).
func TestSendRoundBound(t *testing.T) {
	t.Parallel()

	const n = 200

	s, m := testSenderWithMocks(t, repeatSources(n, 1), 0)
	m.submitter.On("Submit", mock.Anything, mock.Anything).Return(nil)

	result, err := s.Send(context.Background(), &SendRequest{
		Recipients: []txauthor.Recipient{{Address: recipient}},
		UseAll:     true,
	})
	require.NoError(t, err)

	require.Equal(t, 5, result.Consolidations)
	require.LessOrEqual(t, result.Consolidations, (n+38)/39)
	require.Equal(t, int64(n), result.Amount)

	docs := submitted(t, m)
	require.Len(t, docs, 6)
	for _, doc := range docs[:5] {
		require.Len(t, doc.Inputs, 40)
	}
	require.Len(t, docs[5].Inputs, 5)
}

// TestSendLineBudget checks the input cap shrinks when many outputs may be
// needed.
func TestSendLineBudget(t *testing.T) {
	t.Parallel()

	s, m := testSenderWithMocks(t, repeatSources(30, 100), 2)
	m.submitter.On("Submit", mock.Anything, mock.Anything).Return(nil)

	recipients := make([]txauthor.Recipient, 10)
	for i := range recipients {
		recipients[i] = txauthor.Recipient{
			Address: recipient, Amount: 300,
		}
	}

	result, err := s.Send(context.Background(), &SendRequest{
		Recipients: recipients,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Consolidations)

	docs := submitted(t, m)
	require.Len(t, docs, 2)

	// Up to 33 outputs leave room for 27 inputs.
	require.Len(t, docs[0].Inputs, 27)
	require.Equal(t, []txdoc.Output{
		{Amount: 27, Base: 2, Address: issuer},
	}, docs[0].Outputs)
	require.Len(t, docs[1].Inputs, 4)
	require.Len(t, docs[1].Outputs, 10)
	require.LessOrEqual(t, docs[1].Lines(), txrules.MaxDocumentLines)
}

// TestSendQuantization checks a payment to somebody else is decomposed
// exactly while a payment back to the issuer is truncated to the unit base.
func TestSendQuantization(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name              string
		address           string
		expectedAmount    int64
		expectedTruncated int64
		expectedOutputs   []txdoc.Output
	}{
		{
			name:           "recipient paid exactly",
			address:        recipient,
			expectedAmount: 12345,
			expectedOutputs: []txdoc.Output{
				{Amount: 123, Base: 2, Address: recipient},
				{Amount: 4, Base: 1, Address: recipient},
				{Amount: 5, Address: recipient},
				{Amount: 876, Base: 2, Address: backAddr},
				{Amount: 5, Base: 1, Address: backAddr},
				{Amount: 5, Address: backAddr},
			},
		},
		{
			name:              "self payment truncated",
			address:           issuer,
			expectedAmount:    12300,
			expectedTruncated: 45,
			expectedOutputs: []txdoc.Output{
				{Amount: 123, Base: 2, Address: issuer},
				{Amount: 877, Base: 2, Address: backAddr},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, m := testSenderWithMocks(
				t, repeatSources(1, 100000), 2,
			)
			m.submitter.On("Submit", mock.Anything, mock.Anything).
				Return(nil)

			result, err := s.Send(context.Background(), &SendRequest{
				Recipients: []txauthor.Recipient{
					{Address: tc.address, Amount: 12345},
				},
				BackChange: fn.Some(backAddr),
			})
			require.NoError(t, err)

			require.Equal(t, tc.expectedAmount, result.Amount)
			require.Equal(t, tc.expectedTruncated, result.Truncated)
			require.Equal(t, 100000-tc.expectedAmount, result.Change)

			docs := submitted(t, m)
			require.Len(t, docs, 1)
			require.Equal(t, tc.expectedOutputs, docs[0].Outputs,
				spew.Sdump(docs[0]))
		})
	}
}

// TestSendNothingSubmitted checks failures detected before the first
// submission leave the node untouched.
func TestSendNothingSubmitted(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		sources  []srcmgr.Source
		unitBase uint32
		req      *SendRequest
		check    func(t *testing.T, err error)
	}{
		{
			name:    "insufficient funds",
			sources: repeatSources(2, 100),
			req: &SendRequest{
				Recipients: []txauthor.Recipient{
					{Address: recipient, Amount: 1000},
				},
			},
			check: func(t *testing.T, err error) {
				var insufficient *txauthor.InsufficientFundsError
				require.ErrorAs(t, err, &insufficient)
				require.Equal(t, int64(1000), insufficient.Target)
				require.Equal(t, int64(200),
					insufficient.Available)
			},
		},
		{
			name:    "insufficient funds above cap",
			sources: repeatSources(100, 1),
			req: &SendRequest{
				Recipients: []txauthor.Recipient{
					{Address: recipient, Amount: 101},
				},
			},
			check: func(t *testing.T, err error) {
				var insufficient *txauthor.InsufficientFundsError
				require.ErrorAs(t, err, &insufficient)
			},
		},
		{
			name:     "self payment below quantum",
			sources:  repeatSources(1, 1000),
			unitBase: 2,
			req: &SendRequest{
				Recipients: []txauthor.Recipient{
					{Address: issuer, Amount: 50},
				},
			},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err,
					txrules.ErrAmountBelowQuantum)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, m := testSenderWithMocks(t, tc.sources, tc.unitBase)

			_, err := s.Send(context.Background(), tc.req)
			tc.check(t, err)
			m.submitter.AssertNotCalled(t, "Submit", mock.Anything,
				mock.Anything)
			m.journal.AssertNotCalled(t, "Record", mock.Anything,
				mock.Anything)
		})
	}
}

// TestSendInvalidRequest checks requests are validated before the node is
// contacted.
func TestSendInvalidRequest(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		req         *SendRequest
		expectedErr error
	}{
		{
			name: "forbidden comment",
			req: &SendRequest{
				Recipients: []txauthor.Recipient{
					{Address: recipient, Amount: 10},
				},
				Comment: "costs $10",
			},
			expectedErr: txrules.ErrInvalidComment,
		},
		{
			name: "bad recipient",
			req: &SendRequest{
				Recipients: []txauthor.Recipient{
					{Address: "0x1234", Amount: 10},
				},
			},
			expectedErr: txrules.ErrInvalidAddress,
		},
		{
			name: "bad back change",
			req: &SendRequest{
				Recipients: []txauthor.Recipient{
					{Address: recipient, Amount: 10},
				},
				BackChange: fn.Some("abc"),
			},
			expectedErr: txrules.ErrInvalidAddress,
		},
		{
			name:        "no recipients",
			req:         &SendRequest{},
			expectedErr: ErrNoRecipients,
		},
		{
			name: "use all with two recipients",
			req: &SendRequest{
				Recipients: []txauthor.Recipient{
					{Address: recipient},
					{Address: backAddr},
				},
				UseAll: true,
			},
			expectedErr: ErrUseAllRecipients,
		},
		{
			name: "zero amount",
			req: &SendRequest{
				Recipients: []txauthor.Recipient{
					{Address: recipient},
				},
			},
			expectedErr: txrules.ErrAmountBelowQuantum,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, m := testSenderWithMocks(t, repeatSources(1, 100), 0)

			_, err := s.Send(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.expectedErr)
			m.provider.AssertNotCalled(t, "ConfirmedSources",
				mock.Anything, mock.Anything)
		})
	}
}

// TestSendTransportError checks a refused document fails the send and is
// journaled as failed.
func TestSendTransportError(t *testing.T) {
	t.Parallel()

	s, m := testSenderWithMocks(t, repeatSources(3, 100), 0)
	m.submitter.On("Submit", mock.Anything, mock.Anything).Return(errNode)

	_, err := s.Send(context.Background(), &SendRequest{
		Recipients: []txauthor.Recipient{
			{Address: recipient, Amount: 150},
		},
	})
	require.ErrorIs(t, err, errNode)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, 0, transportErr.Round)
	require.Zero(t, transportErr.Committed)

	m.journal.AssertCalled(t, "Record", mock.Anything,
		mock.MatchedBy(func(r *journal.Record) bool {
			return r.Status == journal.StatusFailed &&
				r.Error == errNode.Error() &&
				r.Hash == transportErr.Hash
		}))
}

// TestSendAlreadyKnown checks a document the node already holds counts as
// submitted.
func TestSendAlreadyKnown(t *testing.T) {
	t.Parallel()

	s, m := testSenderWithMocks(t, repeatSources(1, 100), 0)
	m.submitter.On("Submit", mock.Anything, mock.Anything).
		Return(fmt.Errorf("wrapped: %w", chain.ErrAlreadyKnown))

	result, err := s.Send(context.Background(), &SendRequest{
		Recipients: []txauthor.Recipient{
			{Address: recipient, Amount: 100},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Hashes, 1)
}

// TestSendJournaled checks a document an earlier send already committed is
// not submitted again.
func TestSendJournaled(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{}
	provider.On("ConfirmedSources", mock.Anything, issuer).
		Return(repeatSources(1, 100), nil)
	provider.On("PendingOperations", mock.Anything, issuer).
		Return([]srcmgr.PendingOperation{}, nil)
	provider.On("ReferenceBlock", mock.Anything).
		Return(testBlock(100, 0), nil)

	signer := &mockSigner{}
	signer.On("PublicKey").Return(issuer)
	signer.On("Sign", mock.Anything).Return("c2lnbmF0dXJl", nil)

	j := &mockJournal{}
	j.On("Lookup", mock.Anything, mock.Anything).
		Return(fn.Some(journal.Record{
			SendID: "earlier",
			Status: journal.StatusCommitted,
		}), nil)
	j.On("Record", mock.Anything, mock.Anything).Return(nil)

	submitter := &mockSubmitter{}

	s, err := NewSender(&Config{
		Provider:  provider,
		Signer:    signer,
		Submitter: submitter,
		Journal:   j,
	})
	require.NoError(t, err)

	result, err := s.Send(context.Background(), &SendRequest{
		Recipients: []txauthor.Recipient{
			{Address: recipient, Amount: 100},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Hashes, 1)

	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	j.AssertCalled(t, "Lookup", mock.Anything, result.Hashes[0])
	j.AssertCalled(t, "Record", mock.Anything,
		mock.MatchedBy(func(r *journal.Record) bool {
			return r.SendID == result.SendID &&
				r.Status == journal.StatusCommitted
		}))
}

// TestSendIncomplete checks a failure after a committed consolidation
// reports the accepted hashes.
func TestSendIncomplete(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		setup func(m *senderMocks)
		check func(t *testing.T, err error)
	}{
		{
			name: "source unavailable",
			setup: func(m *senderMocks) {
				m.provider.On("ConfirmedSources", mock.Anything,
					issuer).Return(repeatSources(53, 100), nil).
					Once()
				m.provider.On("ConfirmedSources", mock.Anything,
					issuer).Return(nil, errNode)
				m.submitter.On("Submit", mock.Anything,
					mock.Anything).Return(nil)
			},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err,
					srcmgr.ErrSourceUnavailable)
			},
		},
		{
			name: "transport error",
			setup: func(m *senderMocks) {
				m.provider.On("ConfirmedSources", mock.Anything,
					issuer).Return(repeatSources(53, 100), nil)
				m.submitter.On("Submit", mock.Anything,
					mock.Anything).Return(nil).Once()
				m.submitter.On("Submit", mock.Anything,
					mock.Anything).Return(errNode)
			},
			check: func(t *testing.T, err error) {
				var transportErr *TransportError
				require.ErrorAs(t, err, &transportErr)
				require.Equal(t, 1, transportErr.Round)
				require.Equal(t, 1, transportErr.Committed)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := &senderMocks{
				provider:  &mockProvider{},
				signer:    &mockSigner{},
				submitter: &mockSubmitter{},
				journal:   &mockJournal{},
			}
			tc.setup(m)
			m.provider.On("PendingOperations", mock.Anything,
				issuer).Return([]srcmgr.PendingOperation{}, nil)
			m.provider.On("ReferenceBlock", mock.Anything).
				Return(testBlock(100, 0), nil)
			m.signer.On("PublicKey").Return(issuer)
			m.signer.On("Sign", mock.Anything).
				Return("c2lnbmF0dXJl", nil)
			m.journal.On("Lookup", mock.Anything, mock.Anything).
				Return(fn.None[journal.Record](), nil)
			m.journal.On("Record", mock.Anything, mock.Anything).
				Return(nil)

			s, err := NewSender(&Config{
				Provider:  m.provider,
				Signer:    m.signer,
				Submitter: m.submitter,
				Journal:   m.journal,
			})
			require.NoError(t, err)

			_, err = s.Send(context.Background(), &SendRequest{
				Recipients: []txauthor.Recipient{
					{Address: recipient},
				},
				UseAll: true,
			})
			tc.check(t, err)

			var incomplete *IncompleteSendError
			require.ErrorAs(t, err, &incomplete)
			require.Equal(t, 1, incomplete.Round)
			require.Equal(t, 1, incomplete.Committed)

			docs := submitted(t, m)
			require.Equal(t, []string{docs[0].Hash()},
				incomplete.Hashes)
		})
	}
}

// TestSendSourceUnavailable checks provider failures are surfaced.
func TestSendSourceUnavailable(t *testing.T) {
	t.Parallel()

	m := &mockProvider{}
	m.On("ConfirmedSources", mock.Anything, issuer).Return(nil, errNode)
	m.On("PendingOperations", mock.Anything, issuer).
		Return(nil, nil).Maybe()
	m.On("ReferenceBlock", mock.Anything).
		Return(&srcmgr.ReferenceBlock{}, nil).Maybe()

	signer := &mockSigner{}
	signer.On("PublicKey").Return(issuer)
	submitter := &mockSubmitter{}

	s, err := NewSender(&Config{
		Provider:  m,
		Signer:    signer,
		Submitter: submitter,
	})
	require.NoError(t, err)

	_, err = s.Send(context.Background(), &SendRequest{
		Recipients: []txauthor.Recipient{
			{Address: recipient, Amount: 100},
		},
	})
	require.ErrorIs(t, err, srcmgr.ErrSourceUnavailable)
	require.ErrorIs(t, err, errNode)
	submitter.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

// TestSendCancelledBeforeCommit checks a send cancelled before any
// submission reports the plain context error.
func TestSendCancelledBeforeCommit(t *testing.T) {
	t.Parallel()

	s, m := testSenderWithMocks(t, repeatSources(53, 100), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Send(ctx, &SendRequest{
		Recipients: []txauthor.Recipient{{Address: recipient}},
		UseAll:     true,
	})
	require.ErrorIs(t, err, context.Canceled)

	var partial *PartialSendCancelledError
	require.False(t, errors.As(err, &partial))
	m.provider.AssertNotCalled(t, "ConfirmedSources", mock.Anything,
		mock.Anything)
}

// TestSendPartialCancel checks a send cancelled after a consolidation was
// accepted reports the committed rounds.
func TestSendPartialCancel(t *testing.T) {
	t.Parallel()

	s, m := testSenderWithMocks(t, repeatSources(53, 100), 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.submitter.On("Submit", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil).Once()

	_, err := s.Send(ctx, &SendRequest{
		Recipients: []txauthor.Recipient{{Address: recipient}},
		UseAll:     true,
	})
	require.ErrorIs(t, err, context.Canceled)

	var partial *PartialSendCancelledError
	require.ErrorAs(t, err, &partial)
	require.Equal(t, 1, partial.Committed)

	docs := submitted(t, m)
	require.Len(t, docs, 1)
	require.Equal(t, []string{docs[0].Hash()}, partial.Hashes)

	// The accepted consolidation is journaled despite the cancellation.
	m.journal.AssertNumberOfCalls(t, "Record", 1)
}

// TestNewSender checks the constructor guards.
func TestNewSender(t *testing.T) {
	t.Parallel()

	_, err := NewSender(&Config{})
	require.Error(t, err)

	_, err = NewSender(&Config{
		Provider:  &mockProvider{},
		Signer:    &mockSigner{},
		Submitter: &mockSubmitter{},
		InputCap:  1,
	})
	require.ErrorIs(t, err, txrules.ErrInvalidInputCap)
}
