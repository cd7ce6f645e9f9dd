// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal reads interactive input: plain lines and passwords that
// are not echoed.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when a password prompt needs a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal; use --password-stdin")

// Prompter reads answers from in and writes prompts to out.
type Prompter struct {
	out    io.Writer
	fd     int
	isTerm bool
	reader *bufio.Reader
}

// New returns a Prompter on the process's stdin and stderr.
func New() *Prompter {
	fd := int(os.Stdin.Fd())
	return &Prompter{
		out:    os.Stderr,
		fd:     fd,
		isTerm: term.IsTerminal(fd),
		reader: bufio.NewReader(os.Stdin),
	}
}

// NewFrom returns a Prompter that never treats in as a terminal, for tests
// and piped input.
func NewFrom(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{out: out, fd: -1, reader: bufio.NewReader(in)}
}

// IsTerminal reports whether input comes from a terminal.
func (p *Prompter) IsTerminal() bool { return p.isTerm }

// Line prints prompt and returns the trimmed line typed. def is returned for
// an empty answer.
func (p *Prompter) Line(prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	s, err := p.readLine()
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

// Password prints prompt and reads a line without echo.
func (p *Prompter) Password(prompt string) (string, error) {
	if !p.isTerm {
		return "", ErrNotTerminal
	}
	fmt.Fprintf(p.out, "%s: ", prompt)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// Secret reads one line from input as a secret, for --password-stdin.
func (p *Prompter) Secret() (string, error) {
	s, err := p.readLine()
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", errors.New("empty password on stdin")
	}
	return s, nil
}

// Confirm asks a yes/no question; the default is no.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	ans, err := p.Line(prompt+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (p *Prompter) readLine() (string, error) {
	s, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// ClearPreviousLines clears textLength characters of previously printed
// prompt and answer, accounting for line wrapping at the terminal width.
func ClearPreviousLines(w io.Writer, textLength int) {
	termWidth := 80
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		termWidth = width
	}

	totalLines := int(math.Ceil(float64(textLength) / float64(termWidth)))
	if totalLines < 1 {
		totalLines = 1
	}
	// the cursor sits on the empty line left by Enter
	linesToClear := totalLines + 1

	for i := 0; i < linesToClear; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}
