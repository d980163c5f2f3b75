// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build js

package prompt

import (
	"bufio"
	"fmt"
)

// PassPrompt is not supported in WebAssembly.
func PassPrompt(_ *bufio.Reader, _ string, _ bool) ([]byte, error) {
	return nil, fmt.Errorf("prompt not supported in WebAssembly")
}

// Credentials is not supported in WebAssembly.
func Credentials(_ *bufio.Reader) ([]byte, []byte, error) {
	return nil, nil, fmt.Errorf("prompt not supported in WebAssembly")
}
