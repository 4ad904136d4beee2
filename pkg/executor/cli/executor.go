// Package cli answers the capture pipeline's questions on a plain terminal,
// one line at a time. It backs headless runs that still want a human in the
// loop.
//
// Example usage:
//
//	p := cli.NewPrompter(cli.WithWriter(os.Stderr))
//	exec, _ := headless.NewExecutor(deps, page, cfg, headless.WithPrompter(p), headless.WithPicker(p))
//	if err := exec.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/entrhq/apptcapture/pkg/capture"
	"github.com/entrhq/apptcapture/pkg/persist"
)

// Prompter reads answers from a line-oriented reader.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

var (
	_ persist.Prompter = (*Prompter)(nil)
	_ persist.Picker   = (*Prompter)(nil)
)

// PrompterOption is a function that configures a Prompter.
type PrompterOption func(*Prompter)

// WithReader sets a custom input reader (default is os.Stdin).
func WithReader(r io.Reader) PrompterOption {
	return func(p *Prompter) {
		p.reader = bufio.NewReader(r)
	}
}

// WithWriter sets a custom output writer (default is os.Stdout).
func WithWriter(w io.Writer) PrompterOption {
	return func(p *Prompter) {
		p.writer = w
	}
}

// NewPrompter creates a prompter on stdin/stdout.
func NewPrompter(opts ...PrompterOption) *Prompter {
	p := &Prompter{
		reader: bufio.NewReader(os.Stdin),
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Confirm prints message and reads y/n. An empty line means yes.
func (p *Prompter) Confirm(ctx context.Context, message string) (bool, error) {
	for {
		fmt.Fprintf(p.writer, "%s [Y/n] ", message)
		line, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.writer, "Please answer y or n.")
	}
}

// PickDirectory reads a folder path until an existing directory is given.
// An empty line cancels.
func (p *Prompter) PickDirectory(ctx context.Context) (persist.Directory, error) {
	for {
		fmt.Fprint(p.writer, "Folder to save contact files in (empty to cancel): ")
		line, err := p.readLine(ctx)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, persist.ErrCancelled
		}
		dir, err := persist.OpenDirectory(line)
		if err != nil {
			fmt.Fprintf(p.writer, "❌ %v\n", err)
			continue
		}
		return dir, nil
	}
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil {
		// a final unterminated line still counts
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", persist.ErrCancelled
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// PrintReport writes the outcome of a save.
func PrintReport(w io.Writer, report capture.Report, err error) {
	if err != nil {
		fmt.Fprintf(w, "❌ %s\n", report.Message)
		return
	}
	fmt.Fprintf(w, "✅ %s\n", report.Message)
	if report.FileName != "" && !report.NeedsDirectory {
		fmt.Fprintf(w, "   %s (%d contacts)\n", report.FileName, report.LedgerLen)
	}
}
