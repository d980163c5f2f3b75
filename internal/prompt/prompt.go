// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build !js

package prompt

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"golang.org/x/term"
)

// readSecret reads a line from the terminal without echo.  When stdin is not
// a terminal the line is read from reader instead, which lets scripts pipe
// credentials in.
func readSecret(reader *bufio.Reader) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := reader.ReadBytes('\n')
		if err != nil && len(line) == 0 {
			return nil, err
		}
		return bytes.TrimRight(line, "\r\n"), nil
	}

	secret, err := term.ReadPassword(fd)
	fmt.Print("\n")
	return secret, err
}

// PassPrompt prompts the user for a secret with the given prefix.  The
// prompt is repeated until a non-empty value is entered.  If confirm is set
// the secret must be typed twice.
func PassPrompt(reader *bufio.Reader, prefix string, confirm bool) ([]byte, error) {
	prompt := fmt.Sprintf("%s: ", prefix)
	for {
		fmt.Print(prompt)
		pass, err := readSecret(reader)
		if err != nil {
			return nil, err
		}
		pass = bytes.TrimSpace(pass)
		if len(pass) == 0 {
			continue
		}

		if !confirm {
			return pass, nil
		}

		fmt.Print("Confirm: ")
		again, err := readSecret(reader)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(pass, bytes.TrimSpace(again)) {
			fmt.Println("The entered values do not match")
			continue
		}

		return pass, nil
	}
}

// Credentials prompts for the salt (secret identifier) and password the
// signing key is derived from.
func Credentials(reader *bufio.Reader) (salt, password []byte, err error) {
	salt, err = PassPrompt(reader, "Secret identifier (salt)", false)
	if err != nil {
		return nil, nil, err
	}
	password, err = PassPrompt(reader, "Password", false)
	if err != nil {
		return nil, nil, err
	}
	return salt, password, nil
}
