// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

// currentBlock is the answer of /blockchain/current.
type currentBlock struct {
	Currency string `json:"currency"`
	Number   uint32 `json:"number"`
	Hash     string `json:"hash"`
	UnitBase uint32 `json:"unitbase"`
}

// sourceEntry is one element of the /tx/sources answer.
type sourceEntry struct {
	Type       string `json:"type"`
	NOffset    uint32 `json:"noffset"`
	Identifier string `json:"identifier"`
	Amount     int64  `json:"amount"`
	Base       uint32 `json:"base"`
	Conditions string `json:"conditions"`
}

// sourcesAnswer is the answer of /tx/sources/{pubkey}.
type sourcesAnswer struct {
	Currency string        `json:"currency"`
	PubKey   string        `json:"pubkey"`
	Sources  []sourceEntry `json:"sources"`
}

// historyTx is a transaction as listed by the history endpoints.
type historyTx struct {
	Hash       string   `json:"hash"`
	Blockstamp string   `json:"blockstamp"`
	Issuers    []string `json:"issuers"`
	Inputs     []string `json:"inputs"`
	Outputs    []string `json:"outputs"`
	Comment    string   `json:"comment"`
}

// pendingAnswer is the answer of /tx/history/{pubkey}/pending.
type pendingAnswer struct {
	Currency string `json:"currency"`
	PubKey   string `json:"pubkey"`
	History  struct {
		Sending   []historyTx `json:"sending"`
		Receiving []historyTx `json:"receiving"`
		Pending   []historyTx `json:"pending"`
	} `json:"history"`
}
