// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain talks to a currency node over its basic merkled API: it
// serves the account sources, the pending operations and the current block,
// and submits signed documents.
package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dunitersuite/dunwallet/srcmgr"
)

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxAnswerSize bounds the size of a node answer.
const maxAnswerSize = 32 << 20

// Config holds the node client settings.
type Config struct {
	// URL is the node base URL, e.g. https://g1.duniter.org.
	URL string

	// Timeout bounds each request.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client.  Its timeout wins over
	// Timeout.
	HTTPClient *http.Client
}

// Client is a node client.  It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient returns a client for the node at cfg.URL.
func NewClient(cfg *Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse node url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported node url scheme %q",
			base.Scheme)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{base: base, http: httpClient}, nil
}

func (c *Client) endpoint(elems ...string) string {
	return c.base.JoinPath(elems...).String()
}

// do runs a request and decodes a JSON answer into v.
func (c *Client) do(req *http.Request, v interface{}) error {
	req.Header.Set("Accept", "application/json")

	log.Tracef("%s %s", req.Method, req.URL)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAnswerSize))
	if err != nil {
		return fmt.Errorf("read answer: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		nodeErr := &NodeError{Status: resp.StatusCode}
		if json.Unmarshal(body, nodeErr) == nil && nodeErr.Message != "" {
			return nodeErr
		}
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode answer: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, v interface{},
	elems ...string) error {

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.endpoint(elems...), nil,
	)
	if err != nil {
		return err
	}
	return c.do(req, v)
}

// ReferenceBlock implements srcmgr.Provider.
func (c *Client) ReferenceBlock(ctx context.Context) (*srcmgr.ReferenceBlock,
	error) {

	var block currentBlock
	if err := c.get(ctx, &block, "blockchain", "current"); err != nil {
		return nil, err
	}
	if block.Hash == "" || block.Currency == "" {
		return nil, errors.New("incomplete current block")
	}

	return &srcmgr.ReferenceBlock{
		Height:   block.Number,
		Hash:     block.Hash,
		Currency: block.Currency,
		UnitBase: block.UnitBase,
	}, nil
}

// ConfirmedSources implements srcmgr.Provider.  Sources not locked by the
// sole signature of account are left out.
func (c *Client) ConfirmedSources(ctx context.Context,
	account string) ([]srcmgr.Source, error) {

	var answer sourcesAnswer
	if err := c.get(ctx, &answer, "tx", "sources", account); err != nil {
		return nil, err
	}

	lock := sigCondition(account)
	sources := make([]srcmgr.Source, 0, len(answer.Sources))
	var skipped int
	for _, s := range answer.Sources {
		if s.Conditions != lock {
			skipped++
			continue
		}
		if len(s.Type) != 1 {
			return nil, fmt.Errorf("source %s: type %q",
				s.Identifier, s.Type)
		}
		sources = append(sources, srcmgr.Source{
			Amount: s.Amount,
			Base:   s.Base,
			Type:   srcmgr.Type(s.Type[0]),
			Kind:   srcmgr.KindConfirmed,
			Origin: s.Identifier,
			Index:  s.NOffset,
		})
	}

	if skipped > 0 {
		log.Debugf("Skipped %d sources of %s with other conditions",
			skipped, account)
	}

	return sources, nil
}

// PendingOperations implements srcmgr.Provider.  Operations listed in more
// than one history section are returned once.
func (c *Client) PendingOperations(ctx context.Context,
	account string) ([]srcmgr.PendingOperation, error) {

	var answer pendingAnswer
	err := c.get(ctx, &answer, "tx", "history", account, "pending")
	if err != nil {
		return nil, err
	}

	h := answer.History
	txs := make([]historyTx, 0, len(h.Sending)+len(h.Receiving)+
		len(h.Pending))
	txs = append(txs, h.Sending...)
	txs = append(txs, h.Receiving...)
	txs = append(txs, h.Pending...)

	seen := make(map[string]struct{}, len(txs))
	var ops []srcmgr.PendingOperation
	for _, tx := range txs {
		if _, ok := seen[tx.Hash]; ok {
			continue
		}
		seen[tx.Hash] = struct{}{}

		op, err := pendingOperation(account, &tx)
		if err != nil {
			return nil, fmt.Errorf("pending %s: %w", tx.Hash, err)
		}
		ops = append(ops, op)
	}

	return ops, nil
}

func sigCondition(account string) string {
	return "SIG(" + account + ")"
}

// pendingOperation keeps the inputs of a transaction and its outputs locked
// to account.
func pendingOperation(account string,
	tx *historyTx) (srcmgr.PendingOperation, error) {

	stamp, err := srcmgr.ParseBlockstamp(tx.Blockstamp)
	if err != nil {
		return srcmgr.PendingOperation{}, err
	}

	op := srcmgr.PendingOperation{Hash: tx.Hash, Blockstamp: stamp}
	for _, in := range tx.Inputs {
		src, err := srcmgr.ParseInput(in)
		if err != nil {
			return srcmgr.PendingOperation{}, err
		}
		op.Consumed = append(op.Consumed, src.Key())
	}

	lock := sigCondition(account)
	for i, out := range tx.Outputs {
		fields := strings.SplitN(out, ":", 3)
		if len(fields) != 3 {
			return srcmgr.PendingOperation{}, fmt.Errorf(
				"output %q", out)
		}
		if fields[2] != lock {
			continue
		}
		amount, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return srcmgr.PendingOperation{}, fmt.Errorf(
				"output amount %q", fields[0])
		}
		base, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return srcmgr.PendingOperation{}, fmt.Errorf(
				"output base %q", fields[1])
		}
		op.Produced = append(op.Produced, srcmgr.Source{
			Amount: amount,
			Base:   uint32(base),
			Type:   srcmgr.TypeTransaction,
			Kind:   srcmgr.KindPendingReceived,
			Origin: tx.Hash,
			Index:  uint32(i),
		})
	}

	return op, nil
}

// Submit hands a signed document to the node.
func (c *Client) Submit(ctx context.Context, signed string) error {
	form := url.Values{"transaction": {signed}}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint("tx", "process"),
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, nil)
}

// A compile-time assertion to ensure that Client implements the
// srcmgr.Provider interface.
var _ srcmgr.Provider = (*Client)(nil)
