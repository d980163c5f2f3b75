// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zero contains functions to clear key material from byte slices
// and arrays.
package zero

// Bytes sets all bytes in the passed slice to zero.  This is used to
// explicitly clear private key material from memory.
//
// In general, prefer to use the fixed-sized zeroing functions (Bytea*)
// when zeroing bytes as they are much more efficient than the variable
// sized zeroing func Bytes.
func Bytes(b []byte) {
	z := [32]byte{}
	n := uint(copy(b, z[:]))
	for n < uint(len(b)) {
		copy(b[n:], b[:n])
		n <<= 1
	}
}

// Bytea32 clears a 32-byte array, the size of an ed25519 seed.
func Bytea32(b *[32]byte) {
	*b = [32]byte{}
}

// Bytea64 clears a 64-byte array, the size of an ed25519 private key.
func Bytea64(b *[64]byte) {
	*b = [64]byte{}
}
