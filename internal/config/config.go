// Package config loads run settings from YAML, .env files, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vermeil/vae/internal/fileutil"
	"github.com/vermeil/vae/internal/logger"
	"github.com/vermeil/vae/internal/tools"
	"gopkg.in/yaml.v3"
)

// Directory names that every run excludes from scanning and pruning.
const (
	DefaultOutputDir   = "Extracted-Addons"
	DefaultLeftoverDir = "Leftover"
	DefaultToolsDir    = "Bin"
	BundleDir          = "_internal"
	HomeDirName        = ".vae"
)

var validNaming = []string{"uuid", "counter"}

// Config represents vae configuration options
type Config struct {
	// OutputDir receives .gma extractions. Relative paths are resolved against the root.
	OutputDir string `yaml:"output_dir"`

	// LeftoverDir receives processed sources.
	LeftoverDir string `yaml:"leftover_dir"`

	// ToolsDir holds bundled extraction tools.
	ToolsDir string `yaml:"tools_dir"`

	// ExcludeDirs adds directory names to the built-in exclusions.
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Workers bounds concurrent extractions (0 = one per CPU)
	Workers int `yaml:"workers"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is where run logs and the last-run report are written.
	// Empty means <home>/logs.
	LogDir string `yaml:"log_dir"`

	// Naming selects the collision strategy (uuid or counter).
	Naming string `yaml:"naming"`

	// RelocateFailed moves sources to LeftoverDir even when extraction failed.
	RelocateFailed bool `yaml:"relocate_failed"`

	// TagExtensionless renames extensionless files to .gma before the .gma batch.
	TagExtensionless bool `yaml:"tag_extensionless"`

	// TagSkip lists extensionless names that are never tagged.
	TagSkip []string `yaml:"tag_skip"`

	// Tools maps a logical tool name (7z, fastgmad) to an executable path.
	Tools map[string]string `yaml:"tools"`

	// ArchivePassword is tried for encrypted archives in archives mode.
	ArchivePassword string `yaml:"archive_password"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		OutputDir:        DefaultOutputDir,
		LeftoverDir:      DefaultLeftoverDir,
		ToolsDir:         DefaultToolsDir,
		Workers:          0,
		LogLevel:         "info",
		Naming:           "uuid",
		RelocateFailed:   true,
		TagExtensionless: true,
		TagSkip:          []string{"VAE"},
		Tools:            map[string]string{},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Booleans and lists are applied only when present, so an explicit
	// false or empty list overrides a default.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	present := func(key string) bool {
		_, ok := rawMap[key]
		return ok
	}

	if fileCfg.OutputDir != "" {
		cfg.OutputDir = fileCfg.OutputDir
	}
	if fileCfg.LeftoverDir != "" {
		cfg.LeftoverDir = fileCfg.LeftoverDir
	}
	if fileCfg.ToolsDir != "" {
		cfg.ToolsDir = fileCfg.ToolsDir
	}
	if present("exclude_dirs") {
		cfg.ExcludeDirs = fileCfg.ExcludeDirs
	}
	if present("workers") {
		cfg.Workers = fileCfg.Workers
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.Naming != "" {
		cfg.Naming = fileCfg.Naming
	}
	if present("relocate_failed") {
		cfg.RelocateFailed = fileCfg.RelocateFailed
	}
	if present("tag_extensionless") {
		cfg.TagExtensionless = fileCfg.TagExtensionless
	}
	if present("tag_skip") {
		cfg.TagSkip = fileCfg.TagSkip
	}
	if fileCfg.ArchivePassword != "" {
		cfg.ArchivePassword = fileCfg.ArchivePassword
	}
	for name, p := range fileCfg.Tools {
		cfg.Tools[name] = p
	}

	return cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvWorkers  = "VAE_WORKERS"
	EnvLogLevel = "VAE_LOG_LEVEL"
	EnvLogDir   = "VAE_LOG_DIR"
	EnvNaming   = "VAE_NAMING"
	EnvToolsDir = "VAE_TOOLS_DIR"
	EnvSevenZip = "VAE_7Z"
	EnvFastGMAD = "VAE_FASTGMAD"

	EnvArchivePassword = "VAE_ARCHIVE_PASSWORD"
)

// ApplyEnv overlays VAE_* variables from dotenv (usually <root>/.env) and
// then from the process environment, which wins. A missing dotenv file is
// not an error.
func (c *Config) ApplyEnv(dotenv string) error {
	vars := map[string]string{}
	if dotenv != "" {
		fileVars, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			vars = fileVars
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("failed to read %s: %w", dotenv, err)
		}
	}
	for _, key := range []string{EnvWorkers, EnvLogLevel, EnvLogDir, EnvNaming, EnvToolsDir, EnvSevenZip, EnvFastGMAD, EnvArchivePassword} {
		if v, ok := os.LookupEnv(key); ok {
			vars[key] = v
		}
	}

	if v := vars[EnvWorkers]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	if v := vars[EnvLogLevel]; v != "" {
		c.LogLevel = v
	}
	if v := vars[EnvLogDir]; v != "" {
		c.LogDir = v
	}
	if v := vars[EnvNaming]; v != "" {
		c.Naming = v
	}
	if v := vars[EnvToolsDir]; v != "" {
		c.ToolsDir = v
	}
	if v := vars[EnvSevenZip]; v != "" {
		c.Tools[tools.SevenZip] = v
	}
	if v := vars[EnvFastGMAD]; v != "" {
		c.Tools[tools.FastGMAD] = v
	}
	if v := vars[EnvArchivePassword]; v != "" {
		c.ArchivePassword = v
	}
	return nil
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(workers *int, logLevel *string, logDir *string, naming *string) {
	if workers != nil {
		c.Workers = *workers
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if naming != nil {
		c.Naming = *naming
	}
}

// Validate validates the configuration values.
// It normalizes case in log_level and naming as a side effect.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: %s", c.LogLevel, strings.Join(logger.ValidLevels, ", "))
	}

	c.Naming = strings.ToLower(strings.TrimSpace(c.Naming))
	if !slices.Contains(validNaming, c.Naming) {
		return fmt.Errorf("invalid naming %q, must be one of: %s", c.Naming, strings.Join(validNaming, ", "))
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if strings.TrimSpace(c.LeftoverDir) == "" {
		return fmt.Errorf("leftover_dir cannot be empty")
	}
	if filepath.Clean(c.OutputDir) == filepath.Clean(c.LeftoverDir) {
		return fmt.Errorf("output_dir and leftover_dir must differ, both are %q", c.OutputDir)
	}

	return nil
}

// Resolve returns p unchanged when absolute, otherwise joined to root.
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Exclusions returns the directory names that scanning and pruning skip:
// the built-ins, the configured output, leftover and tools directories, and
// exclude_dirs.
func (c *Config) Exclusions() fileutil.ExclusionSet {
	names := []string{
		DefaultToolsDir, DefaultOutputDir, DefaultLeftoverDir, BundleDir, HomeDirName,
		filepath.Base(c.OutputDir), filepath.Base(c.LeftoverDir), filepath.Base(c.ToolsDir),
	}
	names = append(names, c.ExcludeDirs...)
	return fileutil.NewExclusionSet(names...)
}
