// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package build

import (
	"io"
	"os"

	"github.com/btcsuite/btclog"
)

// LogType indicates the type of logging selected by the build flags.
type LogType byte

const (
	// LogTypeNone indicates no logging.
	LogTypeNone LogType = iota

	// LogTypeStdOut all logging is written directly to stdout.
	LogTypeStdOut

	// LogTypeDefault logs through the backend handed in by the caller,
	// which for dunsend writes to stdout and a rotated log file.
	LogTypeDefault
)

// String returns a human readable identifier for the logging type.
func (t LogType) String() string {
	switch t {
	case LogTypeNone:
		return "none"
	case LogTypeStdOut:
		return "stdout"
	case LogTypeDefault:
		return "default"
	default:
		return "unknown"
	}
}

// LogWriter fans log output out to stdout and an optional rotator pipe.
type LogWriter struct {
	// RotatorPipe receives every line written to stdout as well. It is
	// nil until the log rotator has been initialized.
	RotatorPipe io.Writer
}

// Write writes the data to stdout and, if set, to the rotator pipe.
func (w *LogWriter) Write(b []byte) (int, error) {
	os.Stdout.Write(b)
	if w.RotatorPipe != nil {
		w.RotatorPipe.Write(b)
	}
	return len(b), nil
}

// NewSubLogger constructs a new subsystem log from the current LogWriter
// implementation. The genSubLogger function is used for production and
// default development builds, while unit tests running with the stdout log
// type get a private backend.
func NewSubLogger(subsystem string,
	genSubLogger func(string) btclog.Logger) btclog.Logger {

	switch Deployment {

	// For production builds, generate a new subsystem logger from the
	// primary log backend. If no function is provided, logging will be
	// disabled.
	case Production:
		if genSubLogger != nil {
			return genSubLogger(subsystem)
		}

	// For development builds we must handle both unit tests and the
	// standalone binary.
	case Development:
		switch LoggingType {
		case LogTypeDefault:
			if genSubLogger != nil {
				return genSubLogger(subsystem)
			}

		// Logging to stdout is used in unit tests. The backend does
		// not need to be shared since all output ends up on stdout.
		case LogTypeStdOut:
			backend := btclog.NewBackend(os.Stdout)
			logger := backend.Logger(subsystem)

			level, _ := btclog.LevelFromString(LogLevel)
			logger.SetLevel(level)

			return logger
		}
	}

	return btclog.Disabled
}
