// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎯 FileOperation is one rename or copy, performed or planned
type FileOperation struct {
	Source      string
	Destination string
	Mode        string // "rename" or "copy"
	DryRun      bool
}

// 🎯 Logger writes human-readable progress to the console and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	errs    io.Writer
	verbose bool
	mu      sync.Mutex
}

// 🏭 New creates a new logger. Verbose-only lines are dropped unless verbose is set.
func New(console, errs io.Writer, zlog zerolog.Logger, verbose bool) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		errs:    errs,
		verbose: verbose,
	}
}

// Discard returns a logger that prints nothing
func Discard() *Logger {
	return New(io.Discard, io.Discard, zerolog.Nop(), false)
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding one if none was set
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return Discard()
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// Verbose reports whether verbose-only lines are printed
func (l *Logger) Verbose() bool {
	return l.verbose
}

// 📝 formatFileOperation formats "<source> → <destination>", prefixed by the
// action when the operation really happened
func (l *Logger) formatFileOperation(op FileOperation) string {
	arrow := color.New(color.Bold).Sprint("→")
	if op.DryRun {
		return fmt.Sprintf("%s %s %s", op.Source, arrow, op.Destination)
	}

	var symbol string
	switch op.Mode {
	case "copy":
		symbol = color.New(color.FgCyan).Sprint("⧉")
	default:
		symbol = color.New(color.FgGreen).Sprint("✓")
	}
	return fmt.Sprintf("%s %s %s %s", symbol, op.Source, arrow, op.Destination)
}

// 📝 LogFileOperation reports a file operation. Planned operations are always
// printed; performed ones only in verbose mode.
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if op.DryRun || l.verbose {
		fmt.Fprintln(l.console, l.formatFileOperation(op))
	}

	l.zlog.Debug().
		Str("source", op.Source).
		Str("destination", op.Destination).
		Str("mode", op.Mode).
		Bool("dry_run", op.DryRun).
		Msg("file operation")
}

// 📝 Settings prints the effective settings as a table, in verbose mode only
func (l *Logger) Settings(rows [][]string) {
	if !l.verbose {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data := append([][]string{{"setting", "value"}}, rows...)
	fmt.Fprintln(l.console, "Proceeding with settings:")
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(l.console).Render(); err != nil {
		l.zlog.Warn().Err(err).Msg("rendering settings table")
	}

	for _, row := range rows {
		l.zlog.Debug().Str("setting", row[0]).Str("value", row[1]).Msg("setting")
	}
}

// 📝 Verbosef prints a formatted line in verbose mode only
func (l *Logger) Verbosef(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.verbose {
		fmt.Fprintln(l.console, color.New(color.Faint).Sprint(msg))
	}
	l.zlog.Debug().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, msg)
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.errs, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Failure reports a fatal error with its description
func (l *Logger) Failure(description string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pterm.Error.WithWriter(l.errs).Println(description)
	if err != nil {
		fmt.Fprintln(l.errs, color.New(color.FgRed).Sprint(err.Error()))
	}
	l.zlog.Error().Err(err).Msg(description)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}
