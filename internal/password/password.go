// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-crypto-backend.
//
// go-crypto-backend is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package password reads passphrases for key derivation.
//
// When standard input is a terminal the passphrase is read with echo
// disabled; otherwise one line is read from the pipe, so scripts can
// feed passphrases non-interactively. Callers own the returned bytes
// and must wipe them after use.
package password

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrEmpty is returned when the user supplies an empty passphrase.
var ErrEmpty = errors.New("password: passphrase cannot be empty")

// Read obtains a passphrase from standard input, prompting on stderr
// when connected to a terminal.
func Read(prompt string) ([]byte, error) {
	return read(prompt, os.Stdin)
}

func read(prompt string, in *os.File) ([]byte, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		pass, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("password: reading passphrase: %w", err)
		}
		if len(pass) == 0 {
			return nil, ErrEmpty
		}
		return pass, nil
	}

	return readLine(in)
}

// readLine reads a single newline-terminated passphrase from a pipe.
func readLine(in io.Reader) ([]byte, error) {
	reader := bufio.NewReader(in)
	line, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("password: reading passphrase: %w", err)
	}

	// Strip the trailing newline, tolerating CRLF pipes.
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	if len(line) == 0 {
		return nil, ErrEmpty
	}
	return line, nil
}
