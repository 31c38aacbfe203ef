// Package prompt asks the operator for a credential.
// On a terminal the input is masked; otherwise one line is read from the input stream
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	perr "qabundle/internal/platform/errors"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Prompter reads a credential from an operator
type Prompter struct {
	In  io.Reader
	Out io.Writer

	// Terminal reports whether In is an interactive terminal
	Terminal func() bool
}

// seams for tests
var (
	masked = runMasked
	isTerm = func(f *os.File) bool {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
)

// Stdio returns a prompter bound to the process streams; the hint goes to stderr
func Stdio() Prompter {
	return Prompter{
		In:       os.Stdin,
		Out:      os.Stderr,
		Terminal: func() bool { return isTerm(os.Stdin) },
	}
}

// Credential prints a hint naming the sink, then reads the credential.
// Surrounding whitespace is trimmed; an empty answer is returned as "" without error
func (p Prompter) Credential(ctx context.Context, sink string) (string, error) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, "Please enter your %s token when prompted.\n", sink)
	}
	title := fmt.Sprintf("%s token: ", sink)

	if p.Terminal != nil && p.Terminal() {
		v, err := masked(ctx, title)
		if err != nil {
			return "", perr.Wrap(err, perr.ErrorCodeUnauthorized, "credential prompt")
		}
		return strings.TrimSpace(v), nil
	}
	return p.readLine(ctx, title)
}

func (p Prompter) readLine(ctx context.Context, title string) (string, error) {
	if p.In == nil {
		return "", nil
	}
	if p.Out != nil {
		fmt.Fprint(p.Out, title)
	}

	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		done <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", perr.Wrap(ctx.Err(), perr.ErrorCodeUnauthorized, "credential prompt")
	case r := <-done:
		if r.err != nil {
			return "", perr.Wrap(r.err, perr.ErrorCodeIO, "read credential")
		}
		return strings.TrimSpace(r.line), nil
	}
}

func runMasked(ctx context.Context, title string) (string, error) {
	var v string
	in := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&v)
	if err := huh.NewForm(huh.NewGroup(in)).RunWithContext(ctx); err != nil {
		return "", err
	}
	return v, nil
}
