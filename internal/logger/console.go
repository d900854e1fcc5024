package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for labelling and coloring, in the teacher's
// numeric-ordering style (higher means more severe).
const (
	levelDebug int = 0
	levelInfo  int = 1
	levelWarn  int = 2
)

// ConsoleLogger logs operational trace output to a writer with "[HH:MM:SS]"
// timestamps, satisfying report.Sink so it can double as the Walker/Planner/
// Executor's progress sink during a --verbose run. Color output is enabled
// automatically when writer is a TTY.
type ConsoleLogger struct {
	writer      io.Writer
	mutex       sync.Mutex
	colorOutput bool
	verbose     bool
}

// NewConsoleLogger creates a ConsoleLogger writing to writer. verbose gates
// Info() and Debug() calls; Warn() is always emitted.
func NewConsoleLogger(writer io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		colorOutput: isTerminalWriter(writer),
		verbose:     verbose,
	}
}

func isTerminalWriter(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// Warn implements report.Sink: always emitted, colored yellow on a TTY.
func (cl *ConsoleLogger) Warn(format string, args ...any) {
	cl.logWithLevel(levelWarn, "WARN", fmt.Sprintf(format, args...))
}

// Info implements report.Sink: only emitted when verbose is set, the way
// --verbose gates operational tracing distinct from the Report itself.
func (cl *ConsoleLogger) Info(format string, args ...any) {
	if !cl.verbose {
		return
	}
	cl.logWithLevel(levelInfo, "INFO", fmt.Sprintf(format, args...))
}

// Debug emits a message only when verbose is set, at the lowest severity.
func (cl *ConsoleLogger) Debug(format string, args ...any) {
	if !cl.verbose {
		return
	}
	cl.logWithLevel(levelDebug, "DEBUG", fmt.Sprintf(format, args...))
}

func (cl *ConsoleLogger) logWithLevel(level int, label, message string) {
	if cl.writer == nil {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var line string
	if cl.colorOutput {
		line = fmt.Sprintf("[%s] [%s] %s\n", ts, colorizeLevel(level, label), message)
	} else {
		line = fmt.Sprintf("[%s] [%s] %s\n", ts, label, message)
	}
	fmt.Fprint(cl.writer, line)
}

func colorizeLevel(level int, label string) string {
	switch level {
	case levelWarn:
		return color.New(color.FgYellow).Sprint(label)
	case levelInfo:
		return color.New(color.FgBlue).Sprint(label)
	default:
		return color.New(color.FgHiBlack).Sprint(label)
	}
}
