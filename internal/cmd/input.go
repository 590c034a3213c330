package cmd

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// lineInput delivers stdin one line at a time and gives up as soon as the
// context is cancelled, so a blocked prompt never outlives an interrupt.
// It also implements io.Reader, one line per Read, so it can be shared by
// the menu, the confirmation prompt and the tool prompter without any of
// them buffering input that belongs to another.
type lineInput struct {
	ctx     context.Context
	lines   <-chan string
	errc    <-chan error
	pending []byte
}

func newLineInput(ctx context.Context, r io.Reader) *lineInput {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return &lineInput{ctx: ctx, lines: lines, errc: errc}
}

// ReadLine returns the next line without its terminator. It returns io.EOF
// at end of input and the context error after cancellation.
func (in *lineInput) ReadLine() (string, error) {
	select {
	case <-in.ctx.Done():
		return "", in.ctx.Err()
	case line, ok := <-in.lines:
		if ok {
			return line, nil
		}
	}
	select {
	case err := <-in.errc:
		if err != nil {
			return "", err
		}
	default:
	}
	return "", io.EOF
}

func (in *lineInput) Read(p []byte) (int, error) {
	if len(in.pending) == 0 {
		line, err := in.ReadLine()
		if err != nil {
			return 0, err
		}
		in.pending = append([]byte(line), '\n')
	}
	n := copy(p, in.pending)
	in.pending = in.pending[n:]
	return n, nil
}

// isInteractive reports whether r is a terminal a person can answer from.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
