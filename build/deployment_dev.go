// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build dev
// +build dev

package build

// Deployment specifies a development build.
const Deployment = Development
