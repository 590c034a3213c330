package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vermeil/vae/internal/display"
	"github.com/vermeil/vae/internal/models"
)

// LatestLink is the name of the symlink that points at the newest run log.
const LatestLink = "latest.log"

// FileLogger writes a plain-text record of a run to logDir/run-YYYYMMDD-HHMMSS.log
// and points logDir/latest.log at it. Unlike the console it records the full
// diagnostic output of failed tools. It is thread-safe and implements the
// executor.Logger interface.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates the log directory if needed and opens a fresh run log.
// A latest.log symlink is maintained where the platform allows it; failing to
// create it is not an error.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Generate timestamped filename: run-YYYYMMDD-HHMMSS.log
	stamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", stamp))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, LatestLink)
	if _, err := os.Lstat(symlinkPath); err == nil {
		_ = os.Remove(symlinkPath)
	}
	_ = os.Symlink(filepath.Base(runFile), symlinkPath)

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== Vermeil's Addon Extractor Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// Path returns the run log file path.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

// shouldLog checks if a message at the given level should be logged.
func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return enabled(fl.logLevel, messageLevel)
}

// LogTrace logs a trace-level message.
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogPhaseStart logs the number of files a phase discovered at INFO level.
func (fl *FileLogger) LogPhaseStart(name string, found int) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Starting %s: %d %s\n", timestamp(), name, found, phaseLabel(name)))
}

// LogJobResult records every processed job. Failures include the complete
// tool output, indented beneath the failure line.
func (fl *FileLogger) LogJobResult(result models.JobResult, done, total int) {
	switch result.Outcome {
	case models.OutcomeFailure:
		if !fl.shouldLog("error") {
			return
		}
		var b strings.Builder
		fmt.Fprintf(&b, "[%s] [ERROR] (%d/%d) %s\n", timestamp(), done, total, failureLine(result))
		if output := toolOutput(result.Err); output != "" {
			for _, line := range strings.Split(output, "\n") {
				fmt.Fprintf(&b, "    | %s\n", strings.TrimRight(line, "\r"))
			}
		}
		fl.writeRunLog(b.String())
	case models.OutcomeSuccess:
		if !fl.shouldLog("debug") {
			return
		}
		fl.writeRunLog(fmt.Sprintf("[%s] [DEBUG] (%d/%d) %s -> %s (%s)\n",
			timestamp(), done, total, result.Source, result.Destination, display.FormatDuration(result.Duration)))
	}
}

// LogPhaseComplete logs the completion of a phase at INFO level.
func (fl *FileLogger) LogPhaseComplete(result models.PhaseResult) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] %s complete: %d/%d extracted, %d failed, %d unreadable directories, duration %s\n",
		timestamp(), result.Name, result.Succeeded(), result.Found, len(result.Failed()),
		len(result.ScanErrors), display.FormatDuration(result.Duration)))
}

// LogSummary logs the run summary at INFO level, followed by any relocation
// and cleanup errors.
func (fl *FileLogger) LogSummary(summary models.RunSummary) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	var b strings.Builder
	b.WriteString("\n")
	for _, line := range summaryLines(summary) {
		fmt.Fprintf(&b, "[%s] %s\n", ts, line)
	}
	for _, err := range summary.RelocateFailures {
		fmt.Fprintf(&b, "[%s]   relocate: %v\n", ts, err)
	}
	for _, err := range summary.CleanupErrors {
		fmt.Fprintf(&b, "[%s]   cleanup: %v\n", ts, err)
	}
	fmt.Fprintf(&b, "[%s] Completed at: %s\n", ts, time.Now().Format(time.RFC3339))
	fl.writeRunLog(b.String())
}

// Close flushes and closes the run log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
