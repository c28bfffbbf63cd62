package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR} or ${VAR:-default}
var envVarPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// Loader handles configuration loading from YAML files
type Loader struct {
	// searchPaths are tried in order when no explicit path is given
	searchPaths []string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		searchPaths: []string{
			"code-analyzer.yaml",
			"config/code-analyzer.yaml",
			filepath.Join(os.Getenv("HOME"), ".code-analyzer", "config.yaml"),
		},
	}
}

// Load loads configuration from a YAML file with environment variable substitution.
// Environment variables can be referenced in the YAML using:
//   - ${VAR_NAME} - substitutes the value of VAR_NAME, empty string if not set
//   - ${VAR_NAME:-default} - substitutes VAR_NAME or "default" if not set
func (l *Loader) Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	filePath := l.resolveConfigPath(configPath)
	if filePath == "" {
		// No config file found, use defaults
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := l.expandEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filePath, err)
	}

	return cfg, nil
}

func (l *Loader) resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}

	for _, path := range l.searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// expandEnvVars expands environment variable references in the input string.
// Supports two formats:
//   - ${VAR_NAME} - replaced with the value of VAR_NAME (empty if not set)
//   - ${VAR_NAME:-default} - replaced with VAR_NAME value, or "default" if not set
func (l *Loader) expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultVal := ""
		if len(submatches) >= 3 {
			defaultVal = submatches[2]
		}

		if val, exists := os.LookupEnv(varName); exists {
			return val
		}

		return defaultVal
	})
}

// Validate checks the configuration for values the analyzer cannot work with
func (c *Config) Validate() error {
	if len(c.Discovery.Extensions) == 0 {
		return fmt.Errorf("discovery.extensions must not be empty")
	}
	for _, ext := range c.Discovery.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("discovery.extensions: %q must start with a dot", ext)
		}
	}
	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("concurrency.workers must be at least 1, got %d", c.Concurrency.Workers)
	}
	if c.Concurrency.MaxParallelDetectors < 1 {
		return fmt.Errorf("concurrency.max_parallel_detectors must be at least 1, got %d", c.Concurrency.MaxParallelDetectors)
	}
	switch c.Cache.Backend {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("cache.backend: unsupported backend %q (memory, sqlite)", c.Cache.Backend)
	}
	switch c.Severity.MinSeverity {
	case "", "low", "medium", "high", "critical":
	default:
		return fmt.Errorf("severity.min_severity: unknown severity %q", c.Severity.MinSeverity)
	}
	if c.Insights.Enabled && c.Insights.URL == "" {
		return fmt.Errorf("insights.url is required when insights are enabled")
	}
	return nil
}
