// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet sends payments from a single account.  A send is run as a
// sequence of rounds: while the sources needed for a payment do not fit in
// one document, the selected sources are consolidated into a single source
// paid back to the account, and the final round pays the recipients.
package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dunitersuite/dunwallet/chain"
	"github.com/dunitersuite/dunwallet/journal"
	"github.com/dunitersuite/dunwallet/srcmgr"
	"github.com/dunitersuite/dunwallet/txdoc"
	"github.com/dunitersuite/dunwallet/wallet/txauthor"
	"github.com/dunitersuite/dunwallet/wallet/txrules"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// sendState is the position of a send in its round sequence.
type sendState uint8

const (
	stateSelecting sendState = iota
	stateConsolidating
	stateFinalizing
	stateDone
	stateFailed
)

// String returns the state name.
func (s sendState) String() string {
	switch s {
	case stateSelecting:
		return "selecting"
	case stateConsolidating:
		return "consolidating"
	case stateFinalizing:
		return "finalizing"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config holds the collaborators and settings of a Sender.
type Config struct {
	// Provider serves the account sources and the reference block.
	Provider srcmgr.Provider

	// Signer holds the issuer key.  Its public key is the account that
	// is spent from.
	Signer txdoc.Signer

	// Submitter hands documents to the node.
	Submitter Submitter

	// Journal records every submission.  It is optional.
	Journal journal.Store

	// InputCap is the maximum number of inputs of one document.  Zero
	// selects txrules.DefaultMaxInputs.  The line limit of a document
	// may lower it further.
	InputCap int

	// FreshnessWindow is passed to the source aggregator.
	FreshnessWindow uint32
}

// SendRequest describes one payment.
type SendRequest struct {
	// Recipients are paid in order.  The amounts are in the smallest
	// currency unit and are paid exactly, except for a recipient that is
	// the issuer itself: its amount is truncated to the unit base of the
	// reference block.
	Recipients []txauthor.Recipient

	// UseAll sends the whole balance to the single recipient, whose
	// amount is ignored.
	UseAll bool

	// Comment is written in the final document.
	Comment string

	// BackChange receives the change.  It defaults to the issuer.
	BackChange fn.Option[string]
}

// SendResult describes a completed send.
type SendResult struct {
	// SendID groups the journal records of the send.
	SendID string

	// Hashes are the accepted document hashes, consolidations first.
	Hashes []string

	// Consolidations is the number of consolidation rounds.
	Consolidations int

	// Amount is the total paid to the recipients.
	Amount int64

	// Change is the value returned to the back change address.
	Change int64

	// Truncated is the part of the amounts paid to the issuer itself
	// that is below the current unit base and stayed unmoved.
	Truncated int64

	// Document is the final payment document.
	Document *txdoc.SignedDocument
}

// Sender runs sends for one account.  Sends for the same account must not
// run concurrently: both would spend from the same view of the sources.
type Sender struct {
	cfg        Config
	aggregator *srcmgr.Aggregator
}

// NewSender returns a sender using the given collaborators.
func NewSender(cfg *Config) (*Sender, error) {
	switch {
	case cfg.Provider == nil:
		return nil, errors.New("wallet: nil provider")
	case cfg.Signer == nil:
		return nil, errors.New("wallet: nil signer")
	case cfg.Submitter == nil:
		return nil, errors.New("wallet: nil submitter")
	case cfg.InputCap != 0 && cfg.InputCap < 2:
		return nil, fmt.Errorf("%w: got %d", txrules.ErrInvalidInputCap,
			cfg.InputCap)
	}

	aggregator, err := srcmgr.NewAggregator(&srcmgr.Config{
		Provider:        cfg.Provider,
		FreshnessWindow: cfg.FreshnessWindow,
	})
	if err != nil {
		return nil, err
	}

	return &Sender{cfg: *cfg, aggregator: aggregator}, nil
}

// sendRun holds the state of one Send call.
type sendRun struct {
	*Sender

	id         string
	issuer     string
	changeAddr string
	req        *SendRequest

	state sendState
	round int

	// recipients are the quantized amounts, set by the first round.
	recipients []txauthor.Recipient
	target     int64
	truncated  int64
	inputCap   int
	roundLimit int

	// local holds the consolidations of this send, overlaid on the
	// provider's pending view.
	local  []srcmgr.PendingOperation
	hashes []string

	// spent holds every source consumed by an accepted consolidation of
	// this send.  They are never candidates again.
	spent fn.Set[srcmgr.Key]
}

// Send pays the request recipients, consolidating sources first when
// needed.
//
// Nothing is submitted when the request is invalid or the balance does not
// cover it.  When ctx is cancelled after a consolidation was accepted a
// *PartialSendCancelledError is returned; any other failure after that
// point is an *IncompleteSendError.
func (s *Sender) Send(ctx context.Context, req *SendRequest) (*SendResult,
	error) {

	run := &sendRun{
		Sender: s,
		id:     newSendID(),
		issuer: s.cfg.Signer.PublicKey(),
		req:    req,
		spent:  fn.NewSet[srcmgr.Key](),
	}
	if err := run.validate(); err != nil {
		return nil, err
	}

	result, err := run.execute(ctx)
	if err != nil {
		run.transition(stateFailed)
		log.Errorf("Send %s failed in round %d: %v", run.id, run.round,
			err)
		return nil, run.incomplete(err)
	}

	return result, nil
}

func newSendID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// validate checks everything that can be checked without the network.
func (r *sendRun) validate() error {
	req := r.req

	if len(req.Recipients) == 0 {
		return ErrNoRecipients
	}
	if req.UseAll && len(req.Recipients) != 1 {
		return ErrUseAllRecipients
	}
	if err := txrules.CheckComment(req.Comment); err != nil {
		return err
	}
	if err := txrules.CheckAddress(r.issuer); err != nil {
		return fmt.Errorf("issuer: %w", err)
	}

	for i, rcpt := range req.Recipients {
		if _, err := txrules.ParseAddress(rcpt.Address); err != nil {
			return fmt.Errorf("recipient %d: %w", i, err)
		}
		if !req.UseAll && rcpt.Amount <= 0 {
			return fmt.Errorf("recipient %d: %w: %d", i,
				txrules.ErrAmountBelowQuantum, rcpt.Amount)
		}
	}

	changeAddr, err := txrules.ParseAddress(
		req.BackChange.UnwrapOr(r.issuer),
	)
	if err != nil {
		return fmt.Errorf("back change: %w", err)
	}
	r.changeAddr = changeAddr

	return nil
}

func (r *sendRun) transition(next sendState) {
	log.Debugf("Send %s round %d: %v -> %v", r.id, r.round, r.state, next)
	r.state = next
}

// incomplete attaches the committed rounds to a failure that does not
// carry them already.
func (r *sendRun) incomplete(err error) error {
	if len(r.hashes) == 0 {
		return err
	}

	var cancelErr *PartialSendCancelledError
	if errors.As(err, &cancelErr) {
		return err
	}

	hashes := make([]string, len(r.hashes))
	copy(hashes, r.hashes)

	return &IncompleteSendError{
		Round:     r.round,
		Committed: len(hashes),
		Hashes:    hashes,
		Err:       err,
	}
}

// cancelled maps a context error onto the result of the send so far.
func (r *sendRun) cancelled(err error) error {
	if len(r.hashes) == 0 {
		return fmt.Errorf("send cancelled: %w", err)
	}

	hashes := make([]string, len(r.hashes))
	copy(hashes, r.hashes)

	return &PartialSendCancelledError{
		Committed: len(hashes),
		Hashes:    hashes,
		Err:       err,
	}
}

func (r *sendRun) execute(ctx context.Context) (*SendResult, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, r.cancelled(err)
		}

		r.transition(stateSelecting)

		snap, err := r.aggregator.Aggregate(ctx, r.issuer, r.local...)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, r.cancelled(ctxErr)
			}
			return nil, err
		}

		if r.round == 0 {
			if err := r.prepare(snap); err != nil {
				return nil, err
			}
		}
		if r.round >= r.roundLimit {
			return nil, fmt.Errorf("%w: %d rounds for %d sources",
				ErrRoundLimit, r.round, len(snap.Sources))
		}

		sel, err := txauthor.SelectInputs(
			r.unspent(snap.Sources), r.target, r.req.UseAll,
			r.inputCap,
		)
		if err != nil {
			return nil, err
		}

		if sel.CapExceeded {
			r.transition(stateConsolidating)
			if err := r.consolidate(ctx, snap.Block, sel); err != nil {
				return nil, err
			}
			r.round++
			continue
		}

		r.transition(stateFinalizing)
		result, err := r.finalize(ctx, snap.Block, sel)
		if err != nil {
			return nil, err
		}
		r.transition(stateDone)

		return result, nil
	}
}

func (r *sendRun) isIssuer(addr string) bool {
	pubKey, err := txrules.ParseAddress(addr)
	return err == nil && pubKey == r.issuer
}

// unspent drops the sources this send already consumed, even when a
// provider view still reports them.
func (r *sendRun) unspent(sources []srcmgr.Source) []srcmgr.Source {
	if len(r.local) == 0 {
		return sources
	}

	kept := make([]srcmgr.Source, 0, len(sources))
	for _, src := range sources {
		if r.spent.Contains(src.Key()) {
			log.Warnf("Send %s: ignoring %v, already spent by this "+
				"send", r.id, src.Key())
			continue
		}
		kept = append(kept, src)
	}
	return kept
}

// prepare fixes the recipient amounts at the current unit base, checks the
// balance covers them, and fixes the input cap and round limit.
func (r *sendRun) prepare(snap *srcmgr.Snapshot) error {
	unitBase := snap.Block.UnitBase
	balance := snap.Total()

	r.recipients = make([]txauthor.Recipient, len(r.req.Recipients))
	for i, rcpt := range r.req.Recipients {
		amount := rcpt.Amount
		if r.req.UseAll {
			amount = balance
		}

		// Only a payment back to the issuer is truncated to the unit
		// base; everybody else is paid the exact amount.
		if r.isIssuer(rcpt.Address) {
			q, residue, err := txrules.Quantize(amount, unitBase)
			if err != nil {
				return fmt.Errorf("recipient %d: %w", i, err)
			}
			amount = q
			r.truncated += residue
		}

		r.recipients[i] = txauthor.Recipient{
			Address: rcpt.Address,
			Amount:  amount,
		}
		r.target += amount
	}
	if r.req.UseAll {
		r.target = balance
	}

	if r.truncated > 0 {
		log.Warnf("Send %s: %d units below the current unit base %d "+
			"stay with the account", r.id, r.truncated, unitBase)
	}

	if balance < r.target {
		return &txauthor.InsufficientFundsError{
			Target:    r.target,
			Available: balance,
		}
	}

	maxOutputs := (len(r.recipients) + 1) * (int(unitBase) + 1)
	inputCap, err := txrules.EffectiveInputCap(r.cfg.InputCap, maxOutputs)
	if err != nil {
		return err
	}
	r.inputCap = inputCap

	n := len(snap.Sources)
	r.roundLimit = (n+inputCap-2)/(inputCap-1) + 1

	log.Infof("Send %s: paying %d to %d %s from %d sources (input cap %d)",
		r.id, r.target, len(r.recipients),
		pickNoun(len(r.recipients), "recipient", "recipients"), n,
		inputCap)

	return nil
}

func (r *sendRun) consolidate(ctx context.Context,
	block *srcmgr.ReferenceBlock, sel *txauthor.Selection) error {

	authored, err := txauthor.AuthorConsolidation(
		block, r.issuer, sel.Inputs,
	)
	if err != nil {
		return err
	}

	signed, err := r.submit(ctx, journal.KindConsolidation, authored)
	if err != nil {
		return err
	}

	hash := signed.Hash()
	consumed := authored.Consumed()
	for _, key := range consumed {
		r.spent.Add(key)
	}
	r.local = append(r.local, srcmgr.PendingOperation{
		Hash:       hash,
		Blockstamp: block.Blockstamp(),
		Consumed:   consumed,
		Produced:   authored.Produced(hash, r.issuer),
	})

	log.Infof("Send %s: consolidated %d sources (%d units) in %s", r.id,
		len(sel.Inputs), sel.Total, hash)

	return nil
}

func (r *sendRun) finalize(ctx context.Context, block *srcmgr.ReferenceBlock,
	sel *txauthor.Selection) (*SendResult, error) {

	authored, err := txauthor.AuthorPayment(
		block, r.issuer, sel.Inputs, r.recipients, r.changeAddr,
		r.req.Comment,
	)
	if err != nil {
		return nil, err
	}

	signed, err := r.submit(ctx, journal.KindPayment, authored)
	if err != nil {
		return nil, err
	}

	var amount int64
	for _, rcpt := range r.recipients {
		amount += rcpt.Amount
	}

	log.Infof("Send %s: paid %d in %s after %d %s", r.id, amount,
		signed.Hash(), r.round, pickNoun(r.round, "consolidation",
			"consolidations"))

	return &SendResult{
		SendID:         r.id,
		Hashes:         r.hashes,
		Consolidations: r.round,
		Amount:         amount,
		Change:         authored.Change,
		Truncated:      r.truncated,
		Document:       signed,
	}, nil
}

// submit signs and submits a document and journals the outcome.
func (r *sendRun) submit(ctx context.Context, kind journal.Kind,
	authored *txauthor.AuthoredDoc) (*txdoc.SignedDocument, error) {

	signed, err := authored.Doc.Sign(r.cfg.Signer)
	if err != nil {
		return nil, err
	}
	hash := signed.Hash()

	if err := ctx.Err(); err != nil {
		return nil, r.cancelled(err)
	}

	if !r.journaled(ctx, hash) {
		err = r.cfg.Submitter.Submit(ctx, signed.Raw())
	}
	switch {
	case errors.Is(err, chain.ErrAlreadyKnown):
		log.Infof("Document %s already known by the node", hash)

	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, r.cancelled(ctxErr)
		}

		r.record(ctx, kind, signed, authored, err)
		return nil, &TransportError{
			Round:     r.round,
			Hash:      hash,
			Committed: len(r.hashes),
			Err:       err,
		}
	}

	r.hashes = append(r.hashes, hash)
	r.record(ctx, kind, signed, authored, nil)

	return signed, nil
}

// journaled reports whether an identical document was already committed by
// an earlier send.  Signing is deterministic, so a retried send in the same
// block reproduces the documents it submitted before.
func (r *sendRun) journaled(ctx context.Context, hash string) bool {
	if r.cfg.Journal == nil {
		return false
	}

	prev, err := r.cfg.Journal.Lookup(ctx, hash)
	if err != nil {
		log.Warnf("Unable to look up %s in the journal: %v", hash, err)
		return false
	}

	committed := fn.MapOptionZ(prev, func(rec journal.Record) bool {
		return rec.Status == journal.StatusCommitted
	})
	if committed {
		log.Infof("Document %s already committed by an earlier send, "+
			"not submitting it again", hash)
	}
	return committed
}

// record journals a submission.  The document outcome does not depend on
// the journal, so failures are only logged.
func (r *sendRun) record(ctx context.Context, kind journal.Kind,
	signed *txdoc.SignedDocument, authored *txauthor.AuthoredDoc,
	submitErr error) {

	if r.cfg.Journal == nil {
		return
	}

	rec := &journal.Record{
		SendID:   r.id,
		Round:    r.round,
		Kind:     kind,
		Hash:     signed.Hash(),
		Issuer:   r.issuer,
		Amount:   authored.TotalInput,
		Document: signed.Raw(),
		Status:   journal.StatusCommitted,
	}
	if submitErr != nil {
		rec.Status = journal.StatusFailed
		rec.Error = submitErr.Error()
	}

	// A cancelled send still has to journal what the node accepted.
	err := r.cfg.Journal.Record(context.WithoutCancel(ctx), rec)
	if err != nil {
		log.Errorf("Unable to journal %s of send %s: %v", rec.Hash,
			r.id, err)
	}
}
