// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/dunitersuite/dunwallet/build"
	"github.com/dunitersuite/dunwallet/chain"
	"github.com/dunitersuite/dunwallet/internal/cfgutil"
	"github.com/dunitersuite/dunwallet/srcmgr"
	"github.com/dunitersuite/dunwallet/wallet/txauthor"
	"github.com/dunitersuite/dunwallet/wallet/txrules"
	"github.com/jessevdk/go-flags"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	appVersion = "0.3.0"

	defaultConfigFilename  = "dunsend.conf"
	defaultJournalFilename = "journal.db"
	defaultLogFilename     = "dunsend.log"
	defaultLogDirname      = "logs"
	defaultLogLevel        = "info"
	defaultNode            = "g1.duniter.org:443"
	defaultNodePort        = "443"
	defaultJournalLimit    = 20
)

var (
	dunsendHomeDir    = btcutil.AppDataDir("dunsend", false)
	defaultConfigFile = filepath.Join(dunsendHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(dunsendHomeDir, defaultLogDirname)
	defaultJournal    = filepath.Join(dunsendHomeDir, defaultJournalFilename)

	errNoAmount = errors.New("an amount is required unless all " +
		"sources are sent")
)

type config struct {
	// General application behavior
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	AppDataDir  string `short:"A" long:"appdata" description:"Application data directory for journal and logs"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical} or SUBSYS=level,..."`

	// Node
	Node    string        `short:"n" long:"node" description:"Node address as host[:port] or URL"`
	Timeout time.Duration `long:"timeout" description:"Timeout of each node request"`

	// Payment
	Recipients  []string                `short:"r" long:"recipient" description:"Recipient public key, with an optional :checksum (may be repeated)"`
	Amounts     []*cfgutil.AmountFlag   `short:"a" long:"amount" description:"Amount in coins, one for all recipients or one per recipient"`
	AllSources  bool                    `long:"allsources" description:"Send the whole balance to the single recipient"`
	Comment     string                  `short:"c" long:"comment" description:"Comment written in the payment document"`
	BackChange  *cfgutil.ExplicitString `long:"outputbackchange" description:"Public key receiving the change (default: issuer)"`
	MaxInputs   int                     `long:"maxinputs" description:"Maximum number of inputs of one document"`
	Freshness   uint32                  `long:"freshness" description:"Blocks a pending operation stays in the source view"`
	DisplayOnly bool                    `long:"dryrun" description:"Show the account balance without sending"`

	// Journal
	Journal      string `long:"journal" description:"SQLite file recording submitted documents"`
	JournalDSN   string `long:"journaldsn" description:"Postgres DSN recording submitted documents instead of the SQLite file"`
	NoJournal    bool   `long:"nojournal" description:"Do not record submitted documents"`
	JournalList  bool   `long:"journal-list" description:"List the latest journal records and exit"`
	JournalLimit int    `long:"journal-limit" description:"Number of records shown by --journal-list"`
	JournalSend  string `long:"journal-send" description:"Show the documents journaled for one send ID and exit"`

	// recipients holds the parsed payment once loadConfig succeeds.
	recipients []txauthor.Recipient
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", homeDir, 1)
		}
	}

	return filepath.Clean(os.ExpandEnv(path))
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	switch logLevel {
	case "trace", "debug", "info", "warn", "error", "critical", "off":
		return true
	}
	return false
}

// supportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func supportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}

	// Sort the subsystems for stable display.
	sort.Strings(subsystems)
	return subsystems
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") &&
		!strings.Contains(debugLevel, "=") {

		if !validLogLevel(debugLevel) {
			return fmt.Errorf("the specified debug level [%v] is "+
				"invalid", debugLevel)
		}

		setLogLevels(debugLevel)
		return nil
	}

	// Split the specified string into subsystem/level pairs while
	// detecting issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		subsysID, logLevel, ok := strings.Cut(logLevelPair, "=")
		if !ok {
			return fmt.Errorf("the specified debug level contains "+
				"an invalid subsystem/level pair [%v]",
				logLevelPair)
		}

		if _, exists := subsystemLoggers[subsysID]; !exists {
			return fmt.Errorf("the specified subsystem [%v] is "+
				"invalid -- supported subsystems %v", subsysID,
				supportedSubsystems())
		}

		if !validLogLevel(logLevel) {
			return fmt.Errorf("the specified debug level [%v] is "+
				"invalid", logLevel)
		}

		setLogLevel(subsysID, logLevel)
	}

	return nil
}

func defaultConfig() config {
	return config{
		ConfigFile:   defaultConfigFile,
		AppDataDir:   dunsendHomeDir,
		LogDir:       defaultLogDir,
		DebugLevel:   defaultLogLevel,
		Node:         defaultNode,
		Timeout:      chain.DefaultTimeout,
		BackChange:   cfgutil.NewExplicitString(""),
		MaxInputs:    txrules.DefaultMaxInputs,
		Freshness:    srcmgr.DefaultFreshnessWindow,
		Journal:      defaultJournal,
		JournalLimit: defaultJournalLimit,
	}
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// Command line options always take precedence.
func loadConfig(args []string) (*config, error) {
	cfg := defaultConfig()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.Default)
	if _, err := preParser.ParseArgs(args); err != nil {
		return nil, err
	}

	if preCfg.ShowVersion {
		fmt.Printf("dunsend version %s (%v build)\n", appVersion,
			build.Deployment)
		os.Exit(0)
	}

	// If only the data directory moved, the files below it follow.
	if preCfg.AppDataDir != dunsendHomeDir {
		appData := cleanAndExpandPath(preCfg.AppDataDir)
		if preCfg.ConfigFile == defaultConfigFile {
			preCfg.ConfigFile = filepath.Join(appData,
				defaultConfigFilename)
		}
		cfg.LogDir = filepath.Join(appData, defaultLogDirname)
		cfg.Journal = filepath.Join(appData, defaultJournalFilename)
	}

	// Load additional config from file when there is one.
	configFile := cleanAndExpandPath(preCfg.ConfigFile)
	configFileExists, err := cfgutil.FileExists(configFile)
	if err != nil {
		return nil, err
	}
	parser := flags.NewParser(&cfg, flags.Default)
	if configFileExists {
		err := flags.NewIniParser(parser).ParseFile(configFile)
		if err != nil {
			return nil, err
		}
	}

	// Parse command line options again to ensure they take precedence.
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.Journal = cleanAndExpandPath(cfg.Journal)

	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, err
	}

	// Warn about a missing config file only after the final parse
	// succeeded, so help and bad options stay quiet.
	if !configFileExists && preCfg.ConfigFile != defaultConfigFile {
		log.Warnf("Config file %s does not exist", configFile)
	}

	cfg.Node, err = cfgutil.NormalizeNodeURL(cfg.Node, defaultNodePort)
	if err != nil {
		return nil, fmt.Errorf("invalid node address %q: %w", cfg.Node,
			err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %v",
			cfg.Timeout)
	}
	if cfg.JournalLimit <= 0 {
		return nil, fmt.Errorf("journal limit must be positive, got %d",
			cfg.JournalLimit)
	}

	// Reading the journal needs no payment.
	if cfg.JournalList || cfg.JournalSend != "" {
		return &cfg, nil
	}

	cfg.recipients, err = parseRecipients(
		cfg.Recipients, cfg.Amounts, cfg.AllSources,
	)
	if err != nil {
		return nil, err
	}
	if err := txrules.CheckComment(cfg.Comment); err != nil {
		return nil, err
	}
	if cfg.BackChange.ExplicitlySet() {
		err := txrules.CheckAddress(cfg.BackChange.Value)
		if err != nil {
			return nil, fmt.Errorf("back change: %w", err)
		}
	}

	return &cfg, nil
}

// parseRecipients pairs recipients with amounts.  A single amount applies to
// every recipient.
func parseRecipients(recipients []string, amounts []*cfgutil.AmountFlag,
	allSources bool) ([]txauthor.Recipient, error) {

	if len(recipients) == 0 {
		return nil, errors.New("at least one recipient is required")
	}

	switch {
	case allSources && len(amounts) > 0:
		return nil, errors.New("--amount can not be combined with " +
			"--allsources")

	case allSources && len(recipients) > 1:
		return nil, errors.New("--allsources needs exactly one " +
			"recipient")

	case !allSources && len(amounts) == 0:
		return nil, errNoAmount

	case len(amounts) > 1 && len(amounts) != len(recipients):
		return nil, fmt.Errorf("%d amounts given for %d recipients",
			len(amounts), len(recipients))
	}

	result := make([]txauthor.Recipient, len(recipients))
	for i, addr := range recipients {
		if err := txrules.CheckAddress(addr); err != nil {
			return nil, fmt.Errorf("recipient %q: %w", addr, err)
		}
		result[i].Address = addr

		if allSources {
			continue
		}

		amount := amounts[0]
		if len(amounts) > 1 {
			amount = amounts[i]
		}
		if amount.Units <= 0 {
			return nil, fmt.Errorf("amount %s must be positive",
				cfgutil.FormatUnits(amount.Units))
		}
		result[i].Amount = amount.Units
	}

	return result, nil
}

// backChange returns the configured change address, if any.
func (c *config) backChange() fn.Option[string] {
	if !c.BackChange.ExplicitlySet() {
		return fn.None[string]()
	}
	return fn.Some(c.BackChange.Value)
}
