package annotation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// TerminalPrompter asks questions on a terminal. When the input is not a
// terminal every question gets the default answer.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
	// Default answers questions when nobody can be asked.
	Default     bool
	Interactive bool
}

func NewTerminalPrompter(defaultAnswer bool) *TerminalPrompter {
	return &TerminalPrompter{
		In:          os.Stdin,
		Out:         os.Stderr,
		Default:     defaultAnswer,
		Interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
}

func (p *TerminalPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	if !p.Interactive {
		log.Printf("Prompter: %s (answering %v)", message, p.Default)
		return p.Default, nil
	}
	hint := "[y/N]"
	if p.Default {
		hint = "[Y/n]"
	}
	fmt.Fprintf(p.Out, "%s %s ", message, hint)

	answer := make(chan string, 1)
	errs := make(chan error, 1)
	go func() {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		if err != nil && line == "" {
			errs <- err
			return
		}
		answer <- line
	}()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errs:
		if err == io.EOF {
			return p.Default, nil
		}
		return false, err
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		return p.Default, nil
	}
}

func (p *TerminalPrompter) Info(message string) {
	fmt.Fprintf(p.Out, "ℹ %s\n", message)
}

func (p *TerminalPrompter) Error(message string) {
	fmt.Fprintf(p.Out, "✗ %s\n", message)
}
