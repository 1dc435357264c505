package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printer writes operator-facing command output.
type printer struct {
	out io.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

// Success prints a message in green
func (p *printer) Success(msg string, args ...any) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintln(p.out, green("✓ "+fmt.Sprintf(msg, args...)))
}

// Info prints a message in cyan
func (p *printer) Info(msg string, args ...any) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintln(p.out, cyan(fmt.Sprintf(msg, args...)))
}

// Warning prints a message in yellow
func (p *printer) Warning(msg string, args ...any) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintln(p.out, yellow("⚠ "+fmt.Sprintf(msg, args...)))
}

// Row prints one plain table line.
func (p *printer) Row(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}
