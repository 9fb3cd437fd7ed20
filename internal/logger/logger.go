package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes every message to the run's log file and INFO+ to the console.
// Indexing workers log concurrently; log.Logger serializes the writes.
type Logger struct {
	consoleLogger *log.Logger
	fileLogger    *log.Logger
	logFile       *os.File
	verbose       bool
	minLevel      Level

	warnings atomic.Int64
	errors   atomic.Int64
}

var globalLogger *Logger

// Init initializes the global logger
// consoleOutput: where to write INFO logs (typically os.Stdout)
// logFilePath: path to the log file for DEBUG/ERROR logs
// verbose: if true, show DEBUG logs on console as well
func Init(consoleOutput io.Writer, logFilePath string, verbose bool) error {
	logDir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	minLevel := LevelInfo
	if verbose {
		minLevel = LevelDebug
	}

	globalLogger = &Logger{
		consoleLogger: log.New(consoleOutput, "", 0),
		fileLogger:    log.New(logFile, "", log.LstdFlags),
		logFile:       logFile,
		verbose:       verbose,
		minLevel:      minLevel,
	}
	return nil
}

// Close closes the log file
func Close() {
	if globalLogger != nil && globalLogger.logFile != nil {
		globalLogger.logFile.Close()
	}
}

// Debug logs a debug message (file only, unless verbose)
func Debug(format string, args ...any) {
	if globalLogger == nil {
		return
	}
	globalLogger.log(LevelDebug, format, args...)
}

// Info logs an info message (console + file)
func Info(format string, args ...any) {
	if globalLogger == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	globalLogger.log(LevelInfo, format, args...)
}

// Warn logs a warning message (console + file)
func Warn(format string, args ...any) {
	if globalLogger == nil {
		fmt.Printf("WARN: "+format+"\n", args...)
		return
	}
	globalLogger.warnings.Add(1)
	globalLogger.log(LevelWarn, format, args...)
}

// Error logs an error message (console + file)
func Error(format string, args ...any) {
	if globalLogger == nil {
		fmt.Printf("ERROR: "+format+"\n", args...)
		return
	}
	globalLogger.errors.Add(1)
	globalLogger.log(LevelError, format, args...)
}

func (l *Logger) log(level Level, format string, args ...any) {
	message := fmt.Sprintf(format, args...)

	// The file gets every level regardless of minLevel
	l.fileLogger.Printf("[%s] %s", level.String(), message)

	if level < l.minLevel {
		return
	}

	switch level {
	case LevelDebug:
		l.consoleLogger.Printf("[DEBUG] %s", message)
	case LevelInfo:
		l.consoleLogger.Printf("%s", message)
	case LevelWarn:
		l.consoleLogger.Printf("⚠️  %s", message)
	case LevelError:
		l.consoleLogger.Printf("❌ %s", message)
	}
}

// file writes a tagged record to the log file only
func (l *Logger) file(tag, format string, args ...any) {
	l.fileLogger.Printf("[%s] %s", tag, fmt.Sprintf(format, args...))
}

// LogAnalysisError logs a failed method analysis (file only, not console)
// This keeps the console clean while preserving the method context in the log file
func LogAnalysisError(owner, method, desc string, err error) {
	if globalLogger == nil {
		return
	}
	globalLogger.file("ANALYSIS_ERROR", "Class: %s, Method: %s%s, Error: %v", owner, method, desc, err)
	Debug("Analysis error in %s.%s%s: %v", owner, method, desc, err)
}

// LogDiscardedPass records a proposal pass that was rolled back because a proposer failed.
// The details go to the file; the console gets one error line.
func LogDiscardedPass(proposer, phase, trigger string, err error) {
	if globalLogger == nil {
		return
	}
	globalLogger.file("DISCARDED", "Proposer: %s, Phase: %s, Trigger: %s, Error: %v", proposer, phase, trigger, err)
	Error("%s pass discarded: proposer %s failed", phase, proposer)
}

// LogRename records a committed rename event and the number of entries it changed
func LogRename(entry, oldName, newName string, changed int) {
	if globalLogger == nil {
		return
	}
	if newName == "" {
		newName = "<cleared>"
	}
	if oldName == "" {
		oldName = "<unnamed>"
	}
	globalLogger.file("RENAME", "%s: %s -> %s (%d entries changed)", entry, oldName, newName, changed)
}

// StartPhase logs the start of a run phase; the returned func logs its duration
func StartPhase(name string) func() {
	start := time.Now()
	Debug("Phase %s started", name)
	return func() {
		Debug("Phase %s finished in %s", name, time.Since(start).Round(time.Millisecond))
	}
}

// Counts returns the number of warnings and errors logged since Init
func Counts() (warnings, errors int) {
	if globalLogger == nil {
		return 0, 0
	}
	return int(globalLogger.warnings.Load()), int(globalLogger.errors.Load())
}

// GetLogFilePath returns the path to the current log file
func GetLogFilePath() string {
	if globalLogger != nil && globalLogger.logFile != nil {
		return globalLogger.logFile.Name()
	}
	return ""
}

// IsVerbose returns whether verbose logging is enabled
func IsVerbose() bool {
	if globalLogger == nil {
		return false
	}
	return globalLogger.verbose
}
