package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vermeil/vae/internal/config"
	"github.com/vermeil/vae/internal/executor"
	"github.com/vermeil/vae/internal/extract"
	"github.com/vermeil/vae/internal/filelock"
	"github.com/vermeil/vae/internal/logger"
	"github.com/vermeil/vae/internal/naming"
	"github.com/vermeil/vae/internal/relocate"
	"github.com/vermeil/vae/internal/tools"
)

// session holds everything one run needs: the merged configuration, the
// root lock and the loggers. It is opened per run so that config edits made
// between menu selections take effect.
type session struct {
	root        string
	home        string
	cfg         *config.Config
	out         io.Writer
	in          *lineInput
	interactive bool
	dryRun      bool
	yes         bool

	console *logger.ConsoleLogger
	file    *logger.FileLogger
	log     executor.Logger
	lock    *filelock.FileLock
}

// openSession resolves the root, loads configuration (file, .env,
// environment, flags), takes the root lock and opens the loggers.
func openSession(cmd *cobra.Command, in *lineInput, interactive bool) (*session, error) {
	rootFlag, _ := cmd.Flags().GetString("root")
	root, err := filepath.Abs(rootFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", rootFlag, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	home, err := config.GetHome(root)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cmd, root, home)
	if err != nil {
		return nil, err
	}

	lock, err := filelock.Acquire(root)
	if err != nil {
		return nil, err
	}

	s := &session{
		root:        root,
		home:        home,
		cfg:         cfg,
		out:         cmd.OutOrStdout(),
		in:          in,
		interactive: interactive,
		lock:        lock,
	}
	s.dryRun, _ = cmd.Flags().GetBool("dry-run")
	s.yes, _ = cmd.Flags().GetBool("yes")

	s.console = logger.NewConsoleLogger(s.out, cfg.LogLevel)
	loggers := []executor.Logger{s.console}

	logDir := cfg.LogPath(root, home)
	s.file, err = logger.NewFileLogger(logDir, cfg.LogLevel)
	if err != nil {
		// The run can proceed without a log file.
		s.console.LogWarn(fmt.Sprintf("File logging disabled: %v", err))
		s.file = nil
	} else {
		loggers = append(loggers, s.file)
		s.console.LogDebug(fmt.Sprintf("Writing run log to %s", s.file.Path()))
	}
	s.log = &multiLogger{loggers: loggers}

	return s, nil
}

// loadConfig merges the config file, .env, environment and flags, in that
// order, and validates the result.
func loadConfig(cmd *cobra.Command, root, home string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.ConfigPath(home)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	if err := cfg.ApplyEnv(filepath.Join(root, ".env")); err != nil {
		return nil, err
	}

	var workersPtr *int
	if cmd.Flags().Changed("workers") {
		workers, _ := cmd.Flags().GetInt("workers")
		workersPtr = &workers
	}
	var logLevelPtr, logDirPtr, namingPtr *string
	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &level
	}
	if cmd.Flags().Changed("log-dir") {
		dir, _ := cmd.Flags().GetString("log-dir")
		logDirPtr = &dir
	}
	if cmd.Flags().Changed("naming") {
		strategy, _ := cmd.Flags().GetString("naming")
		namingPtr = &strategy
	}
	cfg.MergeWithFlags(workersPtr, logLevelPtr, logDirPtr, namingPtr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Close flushes the run log and releases the root lock.
func (s *session) Close() error {
	var errs []error
	if s.file != nil {
		errs = append(errs, s.file.Close())
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Release())
	}
	return errors.Join(errs...)
}

// pipeline builds the pipeline for the session's root and configuration.
func (s *session) pipeline() (*executor.Pipeline, error) {
	namer, err := naming.New(s.cfg.Naming)
	if err != nil {
		return nil, err
	}
	return &executor.Pipeline{
		Root:             s.root,
		Exclusions:       s.cfg.Exclusions(),
		OutputDir:        config.Resolve(s.root, s.cfg.OutputDir),
		LeftoverDir:      config.Resolve(s.root, s.cfg.LeftoverDir),
		Namer:            namer,
		Pool:             executor.NewPool(s.cfg.Workers, s.log),
		Relocator:        relocate.New(namer),
		Logger:           s.log,
		RelocateFailed:   s.cfg.RelocateFailed,
		TagExtensionless: s.cfg.TagExtensionless,
		TagSkip:          s.cfg.TagSkip,
		DryRun:           s.dryRun,
	}, nil
}

// addonRegistry resolves 7-Zip and fastgmad. Failing to find either one is
// fatal, except in a dry run where nothing is executed.
func (s *session) addonRegistry() (*extract.Registry, error) {
	resolver := &tools.Resolver{
		ToolsDir:  config.Resolve(s.root, s.cfg.ToolsDir),
		Overrides: s.cfg.Tools,
	}
	if s.interactive {
		resolver.Prompt = tools.LinePrompter(s.in, s.out)
	}

	paths := make(map[string]string, 2)
	for _, tool := range []string{tools.SevenZip, tools.FastGMAD} {
		path, err := resolver.Resolve(tool)
		if err != nil {
			if !s.dryRun {
				return nil, fmt.Errorf("cannot extract addons: %w", err)
			}
			s.log.LogWarn(fmt.Sprintf("%v (ignored in dry run)", err))
			path = tool
		}
		s.log.LogDebug(fmt.Sprintf("Using %s at %s", tool, path))
		paths[tool] = path
	}

	sevenZip := extract.SevenZip(paths[tools.SevenZip])
	fastgmad := extract.FastGMAD(paths[tools.FastGMAD])
	for _, c := range []*extract.CommandExtractor{sevenZip, fastgmad} {
		s.log.LogTrace(fmt.Sprintf("%s command: %s %s", c.Tool, c.Path, strings.Join(c.Args("<src>", "<dst>"), " ")))
	}
	return extract.AddonRegistry(sevenZip, fastgmad), nil
}

