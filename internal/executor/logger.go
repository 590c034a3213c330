package executor

import "github.com/vermeil/vae/internal/models"

// Logger receives progress from the pool and the pipeline. Implementations
// must be safe for concurrent use; a nil Logger disables logging.
type Logger interface {
	LogPhaseStart(name string, found int)
	LogJobResult(result models.JobResult, done, total int)
	LogPhaseComplete(result models.PhaseResult)
	LogSummary(summary models.RunSummary)
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}
