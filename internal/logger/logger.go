package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
)

const timestampLayout = "06.01.02 15:04:05"

var (
	warnPrefix  = color.New(color.FgYellow).SprintFunc()
	errorPrefix = color.New(color.FgRed, color.Bold).SprintFunc()
	debugPrefix = color.New(color.Faint).SprintFunc()
)

// Logger writes leveled messages to the console and, once SetLogDir is
// called, to errors.log and combined.log.
type Logger struct {
	Verbose bool

	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	errors   *os.File
	combined *os.File
	hasBar   bool
	now      func() time.Time
}

// New creates a new Logger instance
func New(verbose bool) *Logger {
	return NewWithWriters(verbose, os.Stdout, os.Stderr)
}

// NewWithWriters creates a Logger writing console output to out and errors to errOut.
func NewWithWriters(verbose bool, out, errOut io.Writer) *Logger {
	return &Logger{
		Verbose: verbose,
		out:     out,
		errOut:  errOut,
		now:     time.Now,
	}
}

// SetLogDir opens errors.log and combined.log inside dir, creating it if needed.
func (l *Logger) SetLogDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	errorsFile, err := openAppend(filepath.Join(dir, "errors.log"))
	if err != nil {
		return err
	}
	combinedFile, err := openAppend(filepath.Join(dir, "combined.log"))
	if err != nil {
		errorsFile.Close()
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeFiles()
	l.errors = errorsFile
	l.combined = combinedFile
	return nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// SetProgressBar indicates that a progress bar is active
func (l *Logger) SetProgressBar(active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hasBar = active
}

// Close closes the log files if open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeFiles()
}

func (l *Logger) closeFiles() error {
	var firstErr error
	for _, f := range []*os.File{l.errors, l.combined} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.errors, l.combined = nil, nil
	return firstErr
}

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.log("INFO", format, args...)
}

// Debug logs detailed messages. The console only sees them in verbose mode,
// combined.log always does.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log("DEBUG", format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("WARN", format, args...)
}

// Error logs error messages to stderr and errors.log
func (l *Logger) Error(format string, args ...interface{}) {
	l.log("ERROR", format, args...)
}

func (l *Logger) log(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	switch level {
	case "ERROR":
		fmt.Fprintf(l.errOut, "%s %s\n", errorPrefix("[ERROR]"), msg)
	case "DEBUG":
		if l.Verbose {
			fmt.Fprintf(l.out, "%s %s\n", debugPrefix("[DEBUG]"), msg)
		}
	default:
		if l.Verbose || !l.hasBar {
			if level == "WARN" {
				fmt.Fprintf(l.out, "%s %s\n", warnPrefix("[WARN]"), msg)
			} else {
				fmt.Fprintln(l.out, msg)
			}
		}
	}

	if l.combined == nil {
		return
	}
	line := fmt.Sprintf("%s %s: %s\n", l.now().Format(timestampLayout), level, msg)
	l.combined.WriteString(line)
	if level == "ERROR" {
		l.errors.WriteString(line)
	}
}
