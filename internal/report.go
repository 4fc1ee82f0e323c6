package internal

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
)

// Reporter is the single place diagnostics and errors are routed through
type Reporter interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// ConsoleReporter writes diagnostics to a terminal, prefixed by a coloured
// severity tag
type ConsoleReporter struct {
	out     io.Writer
	verbose bool
	warn    *color.Color
	err     *color.Color
}

// NewConsoleReporter creates a reporter writing to stdout. Info messages are
// only written when verbose is set.
func NewConsoleReporter(verbose bool) *ConsoleReporter {
	return NewReporter(colorable.NewColorableStdout(), verbose)
}

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer, verbose bool) *ConsoleReporter {
	return &ConsoleReporter{
		out:     out,
		verbose: verbose,
		warn:    color.New(color.FgYellow, color.Bold),
		err:     color.New(color.FgRed, color.Bold),
	}
}

// Infof writes an informational message
func (r *ConsoleReporter) Infof(format string, args ...interface{}) {
	if !r.verbose {
		return
	}
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Warnf writes a warning
func (r *ConsoleReporter) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "%s %s\n", r.warn.Sprint("WARNING:"), fmt.Sprintf(format, args...))
}

// Errorf writes an error
func (r *ConsoleReporter) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "%s %s\n", r.err.Sprint("ERROR:"), fmt.Sprintf(format, args...))
}
