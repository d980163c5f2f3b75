// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// dunsend pays one or more recipients from the account derived from a
// secret identifier and password.  When the payment needs more sources than
// one document can spend, the sources are first consolidated in documents
// paying the account itself.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dunitersuite/dunwallet/chain"
	"github.com/dunitersuite/dunwallet/internal/cfgutil"
	"github.com/dunitersuite/dunwallet/internal/prompt"
	"github.com/dunitersuite/dunwallet/internal/zero"
	"github.com/dunitersuite/dunwallet/journal"
	"github.com/dunitersuite/dunwallet/keys"
	"github.com/dunitersuite/dunwallet/srcmgr"
	"github.com/dunitersuite/dunwallet/wallet"
	"github.com/jessevdk/go-flags"
)

func main() {
	if err := dunsendMain(); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dunsendMain() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
	if err := initLogRotator(logFile); err != nil {
		return err
	}
	defer logRotator.Close()

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	store, err := openJournal(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	if cfg.JournalList || cfg.JournalSend != "" {
		return readJournal(ctx, os.Stdout, store, cfg)
	}

	client, err := chain.NewClient(&chain.Config{
		URL:     cfg.Node,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	key, err := promptKey(reader)
	if err != nil {
		return err
	}
	defer key.Zero()

	issuer := key.PublicKey()
	log.Infof("Issuer %s, node %s", issuer, cfg.Node)

	if cfg.DisplayOnly {
		return showBalance(ctx, os.Stdout, client, issuer, cfg)
	}

	sender, err := wallet.NewSender(&wallet.Config{
		Provider:        client,
		Signer:          key,
		Submitter:       &verifiedSubmitter{Submitter: client},
		Journal:         store,
		InputCap:        cfg.MaxInputs,
		FreshnessWindow: cfg.Freshness,
	})
	if err != nil {
		return err
	}

	result, err := sender.Send(ctx, &wallet.SendRequest{
		Recipients: cfg.recipients,
		UseAll:     cfg.AllSources,
		Comment:    cfg.Comment,
		BackChange: cfg.backChange(),
	})
	if err != nil {
		writeCommitted(os.Stderr, err)
		return err
	}

	writeResult(os.Stdout, result)

	return nil
}

// writeCommitted lists the documents a failed send left accepted by the
// node, if any.
func writeCommitted(w io.Writer, err error) {
	var hashes []string

	var (
		partial    *wallet.PartialSendCancelledError
		incomplete *wallet.IncompleteSendError
	)
	switch {
	case errors.As(err, &partial):
		hashes = partial.Hashes
	case errors.As(err, &incomplete):
		hashes = incomplete.Hashes
	}
	if len(hashes) == 0 {
		return
	}

	fmt.Fprintf(w, "Consolidations already accepted by the node:\n  %s\n",
		strings.Join(hashes, "\n  "))
}

// readJournal serves --journal-list and --journal-send.
func readJournal(ctx context.Context, w io.Writer, store journal.Store,
	cfg *config) error {

	if store == nil {
		return errors.New("the journal can not be read with --nojournal")
	}

	if cfg.JournalSend != "" {
		records, err := store.Send(ctx, cfg.JournalSend)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no journal records for send %s",
				cfg.JournalSend)
		}
		return writeSend(w, records)
	}

	records, err := store.List(ctx, cfg.JournalLimit)
	if err != nil {
		return err
	}
	return writeJournal(w, records)
}

// openJournal opens the configured journal.  It returns a nil store when
// journaling is disabled.
func openJournal(ctx context.Context, cfg *config) (journal.Store, error) {
	switch {
	case cfg.NoJournal:
		return nil, nil

	case cfg.JournalDSN != "":
		db, err := journal.OpenPostgres(ctx, cfg.JournalDSN)
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Journal), 0700); err != nil {
		return nil, err
	}
	db, err := journal.OpenSQLite(cfg.Journal)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// promptKey derives the signing key from the credentials typed by the user.
func promptKey(reader *bufio.Reader) (*keys.Key, error) {
	salt, password, err := prompt.Credentials(reader)
	if err != nil {
		return nil, err
	}
	defer zero.Bytes(salt)
	defer zero.Bytes(password)

	return keys.FromCredentials(salt, password, nil)
}

// showBalance prints the spendable view of the account without sending.
func showBalance(ctx context.Context, w io.Writer, provider srcmgr.Provider,
	issuer string, cfg *config) error {

	aggregator, err := srcmgr.NewAggregator(&srcmgr.Config{
		Provider:        provider,
		FreshnessWindow: cfg.Freshness,
	})
	if err != nil {
		return err
	}

	snap, err := aggregator.Aggregate(ctx, issuer)
	if err != nil {
		return err
	}

	var pending int
	for _, src := range snap.Sources {
		if src.Kind == srcmgr.KindPendingReceived {
			pending++
		}
	}

	fmt.Fprintf(w, "Block:     %s\n", snap.Block.Blockstamp())
	fmt.Fprintf(w, "Unit base: %d\n", snap.Block.UnitBase)
	fmt.Fprintf(w, "Sources:   %d (%d pending)\n", len(snap.Sources),
		pending)
	fmt.Fprintf(w, "Balance:   %s\n", cfgutil.FormatUnits(snap.Total()))

	return nil
}

func writeResult(w io.Writer, result *wallet.SendResult) {
	fmt.Fprintf(w, "Sent %s in %d documents (send %s)\n",
		cfgutil.FormatUnits(result.Amount), len(result.Hashes),
		result.SendID)
	for _, hash := range result.Hashes {
		fmt.Fprintf(w, "  %s\n", hash)
	}
	if result.Change > 0 {
		fmt.Fprintf(w, "Change:    %s\n",
			cfgutil.FormatUnits(result.Change))
	}
	if result.Truncated > 0 {
		fmt.Fprintf(w, "Not sent:  %s below the current unit base\n",
			cfgutil.FormatUnits(result.Truncated))
	}
}

// writeJournal prints one journal record per line, newest first.
func writeJournal(w io.Writer, records []journal.Record) error {
	for _, r := range records {
		_, err := fmt.Fprintf(w, "%s %s round %d %s %s %s %s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.SendID,
			r.Round, r.Kind, r.Status, cfgutil.FormatUnits(r.Amount),
			r.Hash)
		if err != nil {
			return err
		}
	}
	return nil
}
