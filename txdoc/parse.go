// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txdoc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dunitersuite/dunwallet/srcmgr"
)

// ErrMalformedDocument is returned by Parse for text that is not a well
// formed transaction document.
var ErrMalformedDocument = errors.New("malformed document")

// parser walks the lines of a raw document.
type parser struct {
	lines []string
	pos   int
}

func (p *parser) fail(format string, args ...interface{}) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedDocument, p.pos+1,
		fmt.Sprintf(format, args...))
}

func (p *parser) next() (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}
	line := p.lines[p.pos]
	p.pos++
	return line, true
}

func (p *parser) peek() string {
	if p.pos >= len(p.lines) {
		return ""
	}
	return p.lines[p.pos]
}

// field reads a "Name: value" line.
func (p *parser) field(name string) (string, error) {
	line, ok := p.next()
	if !ok {
		return "", p.fail("missing %s", name)
	}
	value, found := strings.CutPrefix(line, name+": ")
	if !found {
		return "", p.fail("expected %s, got %q", name, line)
	}
	return value, nil
}

func (p *parser) literal(want string) error {
	line, ok := p.next()
	if !ok || line != want {
		return p.fail("expected %q, got %q", want, line)
	}
	return nil
}

// section reads lines up to the next header.
func (p *parser) section(until string) []string {
	var lines []string
	for p.pos < len(p.lines) && !strings.HasPrefix(p.peek(), until) {
		line, _ := p.next()
		lines = append(lines, line)
	}
	return lines
}

// Parse reads a rendered document back, signed or not, and validates it
// as Build would.
func Parse(raw string) (*SignedDocument, error) {
	if !strings.HasSuffix(raw, "\n") {
		return nil, fmt.Errorf("%w: missing final newline",
			ErrMalformedDocument)
	}
	p := &parser{lines: strings.Split(strings.TrimSuffix(raw, "\n"), "\n")}

	version, err := p.field("Version")
	if err != nil {
		return nil, err
	}
	if version != strconv.Itoa(Version) {
		return nil, p.fail("unsupported version %q", version)
	}
	if err := p.literal("Type: " + DocumentType); err != nil {
		return nil, err
	}

	currency, err := p.field("Currency")
	if err != nil {
		return nil, err
	}
	stamp, err := p.field("Blockstamp")
	if err != nil {
		return nil, err
	}
	block, err := srcmgr.ParseBlockstamp(stamp)
	if err != nil {
		return nil, p.fail("%v", err)
	}
	if err := p.literal("Locktime: 0"); err != nil {
		return nil, err
	}

	if err := p.literal("Issuers:"); err != nil {
		return nil, err
	}
	issuers := p.section("Inputs:")
	if len(issuers) != 1 {
		return nil, p.fail("%d issuers, want 1", len(issuers))
	}

	if err := p.literal("Inputs:"); err != nil {
		return nil, err
	}
	inputLines := p.section("Unlocks:")
	inputs := make([]srcmgr.Source, 0, len(inputLines))
	for _, line := range inputLines {
		src, err := srcmgr.ParseInput(line)
		if err != nil {
			return nil, p.fail("%v", err)
		}
		inputs = append(inputs, src)
	}

	if err := p.literal("Unlocks:"); err != nil {
		return nil, err
	}
	unlocks := p.section("Outputs:")
	if len(unlocks) != len(inputs) {
		return nil, p.fail("%d unlocks for %d inputs", len(unlocks),
			len(inputs))
	}
	for i, u := range unlocks {
		if u != strconv.Itoa(i)+":SIG(0)" {
			return nil, p.fail("unsupported unlock %q", u)
		}
	}

	if err := p.literal("Outputs:"); err != nil {
		return nil, err
	}
	outputLines := p.section("Comment: ")
	outputs := make([]Output, 0, len(outputLines))
	for _, line := range outputLines {
		o, err := parseOutput(line)
		if err != nil {
			return nil, p.fail("%v", err)
		}
		outputs = append(outputs, o)
	}

	comment, err := p.field("Comment")
	if err != nil {
		return nil, err
	}

	var signature string
	if line, ok := p.next(); ok {
		signature = line
	}
	if p.pos != len(p.lines) {
		return nil, p.fail("trailing data")
	}

	doc, err := Build(&Template{
		Currency: currency,
		Block:    block,
		Issuer:   issuers[0],
		Inputs:   inputs,
		Outputs:  outputs,
		Comment:  comment,
	})
	if err != nil {
		return nil, err
	}

	return &SignedDocument{Document: doc, Signature: signature}, nil
}

// parseOutput reads amount:base:SIG(address).
func parseOutput(line string) (Output, error) {
	fields := strings.SplitN(line, ":", 3)
	if len(fields) != 3 {
		return Output{}, fmt.Errorf("output %q", line)
	}
	amount, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Output{}, fmt.Errorf("output amount %q", fields[0])
	}
	base, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return Output{}, fmt.Errorf("output base %q", fields[1])
	}
	addr, ok := strings.CutPrefix(fields[2], "SIG(")
	if !ok || !strings.HasSuffix(addr, ")") {
		return Output{}, fmt.Errorf("unsupported condition %q", fields[2])
	}

	return Output{
		Amount:  amount,
		Base:    uint32(base),
		Address: strings.TrimSuffix(addr, ")"),
	}, nil
}
