// Package logger provides the console and file loggers used during a run.
//
// Both loggers implement executor.Logger, are safe for concurrent use and
// filter messages by level (trace, debug, info, warn, error).
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/vermeil/vae/internal/display"
	"github.com/vermeil/vae/internal/models"
)

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is enabled when the writer is a terminal and NO_COLOR is unset.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	painter     display.Painter
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: writer != nil && display.IsTerminal(writer),
		painter:     display.NewPainter(writer),
	}
}

// Level returns the normalized minimum level.
func (cl *ConsoleLogger) Level() string {
	return cl.logLevel
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return cl.writer != nil && enabled(cl.logLevel, messageLevel)
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", timestamp(), cl.levelTag(level), message)
}

// levelTag colors the level name when color output is enabled.
func (cl *ConsoleLogger) levelTag(level string) string {
	switch level {
	case "TRACE":
		return cl.painter.Paint(level, color.FgHiBlack)
	case "DEBUG":
		return cl.painter.Paint(level, color.FgCyan)
	case "INFO":
		return cl.painter.Paint(level, color.FgBlue)
	case "WARN":
		return cl.painter.Paint(level, color.FgYellow)
	case "ERROR":
		return cl.painter.Paint(level, color.FgRed)
	default:
		return level
	}
}

// LogPhaseStart logs the number of files a phase discovered at INFO level.
// Format: "[HH:MM:SS] Searching: <n> .bin files"
func (cl *ConsoleLogger) LogPhaseStart(name string, found int) {
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	fmt.Fprintf(cl.writer, "[%s] Searching: %s %s\n",
		timestamp(), cl.painter.Paint(fmt.Sprint(found), color.Bold), phaseLabel(name))
}

// LogJobResult logs failures at ERROR level, successes at DEBUG level and a
// progress bar at INFO level every tenth of the batch.
func (cl *ConsoleLogger) LogJobResult(result models.JobResult, done, total int) {
	switch result.Outcome {
	case models.OutcomeFailure:
		cl.LogError(failureLine(result))
	case models.OutcomeSuccess:
		cl.LogDebug(fmt.Sprintf("Extracted %s -> %s (%s)",
			result.Source, result.Destination, display.FormatDuration(result.Duration)))
	}

	if !milestone(done, total) || !cl.shouldLog("info") {
		return
	}

	pb := NewProgressBar(total, 20, cl.colorOutput)
	pb.Update(done)

	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	fmt.Fprintf(cl.writer, "[%s] Progress: %s\n", timestamp(), pb.Render())
}

// LogPhaseComplete logs how a phase went at INFO level.
// Format: "[HH:MM:SS] bin complete: <ok>/<found> extracted (<duration>)"
func (cl *ConsoleLogger) LogPhaseComplete(result models.PhaseResult) {
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	status := cl.painter.Paint("complete", color.FgGreen)
	if len(result.Failed()) > 0 {
		status = cl.painter.Paint(fmt.Sprintf("complete with %d failed", len(result.Failed())), color.FgRed)
	}
	fmt.Fprintf(cl.writer, "[%s] %s %s: %d/%d extracted (%s)\n",
		timestamp(), cl.painter.Paint(result.Name, color.Bold), status,
		result.Succeeded(), result.Found, display.FormatDuration(result.Duration))
}

// LogSummary logs the run summary at INFO level. Failure details are
// repeated so they remain visible after the progress output scrolls away.
func (cl *ConsoleLogger) LogSummary(summary models.RunSummary) {
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var b strings.Builder
	for i, line := range summaryLines(summary) {
		switch {
		case i == 0:
			line = cl.painter.Paint(line, color.Bold)
		case strings.HasPrefix(line, "Failed: ") && line != "Failed: 0":
			line = cl.painter.Paint(line, color.FgRed)
		case strings.HasPrefix(line, "  - "):
			line = cl.painter.Paint(line, color.FgRed)
		case strings.HasPrefix(line, "Interrupted"):
			line = cl.painter.Paint(line, color.FgYellow)
		}
		fmt.Fprintf(&b, "[%s] %s\n", ts, line)
	}
	io.WriteString(cl.writer, b.String())
}
