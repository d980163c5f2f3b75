// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package srcmgr

import (
	"context"
	"errors"
	"sort"

	"github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/sync/errgroup"
)

// Provider is the read side of a currency node as seen by the aggregator.
type Provider interface {
	// ConfirmedSources returns the written sources locked to account.
	ConfirmedSources(ctx context.Context, account string) ([]Source, error)

	// PendingOperations returns the account's pending operations.
	PendingOperations(ctx context.Context,
		account string) ([]PendingOperation, error)

	// ReferenceBlock returns the node's current block.
	ReferenceBlock(ctx context.Context) (*ReferenceBlock, error)
}

// Config holds the aggregator settings.
type Config struct {
	// Provider serves the node views.
	Provider Provider

	// FreshnessWindow is the number of blocks a pending operation stays
	// trusted.  Zero selects DefaultFreshnessWindow.
	FreshnessWindow uint32
}

// Snapshot is the result of one aggregation.
type Snapshot struct {
	// Block is the reference block read together with the sources.
	Block *ReferenceBlock

	// Sources holds the usable candidates, confirmed first.
	Sources []Source
}

// Total returns the summed value of the snapshot sources.
func (s *Snapshot) Total() int64 {
	return TotalValue(s.Sources)
}

// Aggregator merges the confirmed and pending views of an account.
type Aggregator struct {
	provider Provider
	window   uint32
}

// NewAggregator returns an aggregator reading from cfg.Provider.
func NewAggregator(cfg *Config) (*Aggregator, error) {
	if cfg.Provider == nil {
		return nil, errors.New("srcmgr: nil provider")
	}

	window := cfg.FreshnessWindow
	if window == 0 {
		window = DefaultFreshnessWindow
	}

	return &Aggregator{provider: cfg.Provider, window: window}, nil
}

// FreshnessWindow returns the window in use.
func (a *Aggregator) FreshnessWindow() uint32 {
	return a.window
}

// Aggregate reads the three node views concurrently and merges them into a
// candidate list.  The local operations are the caller's own submissions;
// they are merged with the provider's pending operations so that a
// following round does not depend on how fast the node indexes them.  Local
// operations are never dropped as stale.
func (a *Aggregator) Aggregate(ctx context.Context, account string,
	local ...PendingOperation) (*Snapshot, error) {

	var (
		confirmed []Source
		pending   []PendingOperation
		block     *ReferenceBlock
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srcs, err := a.provider.ConfirmedSources(gctx, account)
		if err != nil {
			return &UnavailableError{View: ViewConfirmed, Err: err}
		}
		confirmed = srcs
		return nil
	})
	g.Go(func() error {
		ops, err := a.provider.PendingOperations(gctx, account)
		if err != nil {
			return &UnavailableError{View: ViewPending, Err: err}
		}
		pending = ops
		return nil
	})
	g.Go(func() error {
		b, err := a.provider.ReferenceBlock(gctx)
		if err != nil {
			return &UnavailableError{View: ViewBlock, Err: err}
		}
		if b == nil {
			return &UnavailableError{
				View: ViewBlock,
				Err:  errors.New("no block returned"),
			}
		}
		block = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ops, own := mergeOps(pending, local)
	sources, err := a.merge(block.Height, confirmed, ops, own)
	if err != nil {
		return nil, err
	}

	log.Debugf("Aggregated %d sources (%d confirmed, %d pending ops) for "+
		"%s at block %d", len(sources), len(confirmed), len(pending)+
		len(local), account, block.Height)

	return &Snapshot{Block: block, Sources: sources}, nil
}

// mergeOps appends the local operations the provider does not know yet.
// It also returns the hashes of all local operations.
func mergeOps(remote, local []PendingOperation) ([]PendingOperation,
	fn.Set[string]) {

	own := fn.NewSet[string]()
	if len(local) == 0 {
		return remote, own
	}

	known := make(map[string]struct{}, len(remote))
	for i := range remote {
		known[remote[i].Hash] = struct{}{}
	}

	ops := make([]PendingOperation, 0, len(remote)+len(local))
	ops = append(ops, remote...)
	for i := range local {
		own.Add(local[i].Hash)
		if _, ok := known[local[i].Hash]; ok {
			continue
		}
		known[local[i].Hash] = struct{}{}
		ops = append(ops, local[i])
	}

	return ops, own
}

// merge builds the candidate list: confirmed sources in provider order,
// then outputs of fresh pending operations, minus everything a fresh
// pending operation consumes.  Operations whose hash is in own are always
// applied.  The first arrival of a key wins.
func (a *Aggregator) merge(height uint32, confirmed []Source,
	ops []PendingOperation, own fn.Set[string]) ([]Source, error) {

	consumed := make(map[Key]struct{})
	var produced []Source
	for i := range ops {
		op := &ops[i]
		if !own.Contains(op.Hash) && !op.IsFresh(height, a.window) {
			log.Debugf("Ignoring stale pending operation %s "+
				"(age %d blocks)", op.Hash, op.Age(height))
			continue
		}
		for _, k := range op.Consumed {
			consumed[k] = struct{}{}
		}
		// Operations keep their arrival order; outputs of one
		// operation are ordered by origin then index.
		outs := make([]Source, len(op.Produced))
		copy(outs, op.Produced)
		sort.SliceStable(outs, func(i, j int) bool {
			if outs[i].Origin != outs[j].Origin {
				return outs[i].Origin < outs[j].Origin
			}
			return outs[i].Index < outs[j].Index
		})
		for _, src := range outs {
			src.Kind = KindPendingReceived
			produced = append(produced, src)
		}
	}

	seen := make(map[Key]struct{}, len(confirmed)+len(produced))
	sources := make([]Source, 0, len(confirmed)+len(produced))
	add := func(src Source) error {
		if err := src.Validate(); err != nil {
			return &UnavailableError{View: viewOf(src), Err: err}
		}
		k := src.Key()
		if _, ok := consumed[k]; ok {
			return nil
		}
		if _, ok := seen[k]; ok {
			return nil
		}
		seen[k] = struct{}{}
		sources = append(sources, src)
		return nil
	}

	for _, src := range confirmed {
		src.Kind = KindConfirmed
		if err := add(src); err != nil {
			return nil, err
		}
	}
	for _, src := range produced {
		if err := add(src); err != nil {
			return nil, err
		}
	}

	return sources, nil
}

func viewOf(src Source) View {
	if src.Kind == KindPendingReceived {
		return ViewPending
	}
	return ViewConfirmed
}
