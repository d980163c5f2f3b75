// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build !info && !debug && !trace && !warn && !error && !critical && !off
// +build !info,!debug,!trace,!warn,!error,!critical,!off

package build

// LogLevel specifies the default log level.
var LogLevel = "info"
