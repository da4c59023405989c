// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/Thermoquad/stencil/internal/config"
	"github.com/Thermoquad/stencil/pkg/link"
)

// Connection is the byte stream a command talks to, serial port or WebSocket.
type Connection interface {
	io.ReadWriteCloser
}

// passwordEnv holds the WebSocket password for non-interactive use.
const passwordEnv = "STENCIL_PASSWORD"

// dialTimeout bounds the whole WebSocket connect, handshake included.
const dialTimeout = 15 * time.Second

func openSerial(portName string, baud int) (Connection, error) {
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	return port, nil
}

// GetPassword returns $STENCIL_PASSWORD, or prompts on the terminal.
func GetPassword() (string, error) {
	if pw := os.Getenv(passwordEnv); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Not a terminal; take a plain line instead.
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(line), nil
	}
	fmt.Fprintln(os.Stderr)
	return string(pw), nil
}

// OpenConnection opens the link described by lc and returns it with a short
// description for log lines. A URL takes precedence over a serial port.
func OpenConnection(lc config.Link) (Connection, string, error) {
	switch {
	case lc.URL != "":
		opts := link.DialOptions{Username: lc.Username, InsecureSkipVerify: lc.NoSSLVerify}
		if lc.Username != "" {
			pw, err := GetPassword()
			if err != nil {
				return nil, "", err
			}
			opts.Password = pw
		}

		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()
		conn, err := link.DialWebSocket(ctx, lc.URL, opts)
		if err != nil {
			return nil, "", err
		}
		return conn, "WebSocket: " + lc.URL, nil

	case lc.Port != "":
		conn, err := openSerial(lc.Port, lc.Baud)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("Serial: %s @ %d baud", lc.Port, lc.Baud), nil
	}
	return nil, "", errors.New("either --port or --url must be specified")
}

// connectionEnded reports whether a read error means no more data will come.
func connectionEnded(err error) bool {
	return errors.Is(err, link.ErrClosed) || errors.Is(err, io.EOF)
}
