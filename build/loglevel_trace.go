// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build trace
// +build trace

package build

// LogLevel specifies a trace log level.
var LogLevel = "trace"
