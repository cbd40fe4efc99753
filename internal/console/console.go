// Package console wraps line-oriented terminal input and styled output.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Console reads prompts from in and writes to out.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	styles Styles

	pending chan lineResult
}

// New builds a console. When in is a terminal, secrets are read without echo.
func New(in io.Reader, out io.Writer) *Console {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Console{
		in:     bufio.NewReader(in),
		out:    out,
		fd:     fd,
		styles: NewStyles(out),
	}
}

type lineResult struct {
	line string
	err  error
}

// nextLine starts a read unless one abandoned by a cancelled prompt is still pending.
func (c *Console) nextLine() <-chan lineResult {
	if c.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := c.in.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
		c.pending = ch
	}
	return c.pending
}

// ReadLine prints prompt and returns the next line without its line ending.
// io.EOF is returned only when no input at all remains; ctx.Err() is
// returned when ctx ends first.
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	var r lineResult
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case r = <-c.nextLine():
		c.pending = nil
	}

	if r.err != nil {
		if errors.Is(r.err, io.EOF) && r.line != "" {
			fmt.Fprintln(c.out)
			return strings.TrimRight(r.line, "\r\n"), nil
		}
		if errors.Is(r.err, io.EOF) {
			fmt.Fprintln(c.out)
		}
		return "", r.err
	}
	return strings.TrimRight(r.line, "\r\n"), nil
}

// ReadSecret prompts for a password without echoing it on a terminal.
func (c *Console) ReadSecret(ctx context.Context, prompt string) (string, error) {
	if c.fd < 0 {
		return c.ReadLine(ctx, prompt)
	}
	fmt.Fprint(c.out, prompt)
	state, err := term.GetState(c.fd)
	if err != nil {
		return "", err
	}
	done := make(chan lineResult, 1)
	go func() {
		secret, err := term.ReadPassword(c.fd)
		done <- lineResult{line: string(secret), err: err}
	}()

	select {
	case <-ctx.Done():
		_ = term.Restore(c.fd, state)
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case r := <-done:
		fmt.Fprintln(c.out)
		if r.err != nil {
			return "", r.err
		}
		return r.line, nil
	}
}

// Println writes a plain line.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Printf writes formatted text.
func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Title writes a heading line.
func (c *Console) Title(text string) {
	fmt.Fprintln(c.out, c.styles.Title.Render(text))
}

// Success reports a completed action.
func (c *Console) Success(format string, a ...any) {
	fmt.Fprintln(c.out, c.styles.Success.Render(fmt.Sprintf(format, a...)))
}

// Info reports an outcome that is not a fault, such as zero rows matched.
func (c *Console) Info(format string, a ...any) {
	fmt.Fprintln(c.out, c.styles.Info.Render(fmt.Sprintf(format, a...)))
}

// Warn reports rejected input.
func (c *Console) Warn(format string, a ...any) {
	fmt.Fprintln(c.out, c.styles.Warning.Render(fmt.Sprintf(format, a...)))
}

// Error reports a fault.
func (c *Console) Error(format string, a ...any) {
	fmt.Fprintln(c.out, c.styles.Error.Render(fmt.Sprintf(format, a...)))
}

// Table writes a width-aligned table.
func (c *Console) Table(t *Table) {
	fmt.Fprint(c.out, t.View(c.styles))
}
