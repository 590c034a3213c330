package cmd

import (
	"github.com/vermeil/vae/internal/executor"
	"github.com/vermeil/vae/internal/models"
)

// multiLogger implements executor.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []executor.Logger
}

func (ml *multiLogger) LogPhaseStart(name string, found int) {
	for _, l := range ml.loggers {
		l.LogPhaseStart(name, found)
	}
}

func (ml *multiLogger) LogJobResult(result models.JobResult, done, total int) {
	for _, l := range ml.loggers {
		l.LogJobResult(result, done, total)
	}
}

func (ml *multiLogger) LogPhaseComplete(result models.PhaseResult) {
	for _, l := range ml.loggers {
		l.LogPhaseComplete(result)
	}
}

func (ml *multiLogger) LogSummary(summary models.RunSummary) {
	for _, l := range ml.loggers {
		l.LogSummary(summary)
	}
}

func (ml *multiLogger) LogTrace(message string) {
	for _, l := range ml.loggers {
		l.LogTrace(message)
	}
}

func (ml *multiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

func (ml *multiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

func (ml *multiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}
