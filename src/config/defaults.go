package config

import "time"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:        "code-analyzer",
			Version:     "1.0.0",
			Description: "Multi-language static code analyzer",
		},
		Discovery: DiscoveryConfig{
			Extensions:  []string{".py", ".js", ".ts", ".java", ".html", ".css"},
			IgnoredDirs: []string{"__pycache__", "venv", ".git", "node_modules", "target", "build"},
		},
		Concurrency: ConcurrencyConfig{
			Workers:              8,
			QueueSize:            64,
			MaxParallelDetectors: 3,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			Path:    ".code-analyzer-cache.db",
			TTL:     24 * time.Hour,
		},
		Insights: InsightsConfig{
			Enabled: false,
			URL:     "http://localhost:8282/v1/insights",
			Model:   "default",
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:   2,
				BackoffFactor: 1.5,
				InitialDelay:  200 * time.Millisecond,
				MaxDelay:      5 * time.Second,
				RetryOnStatus: []int{502, 503, 504},
			},
		},
		Detectors: DetectorsConfig{
			FailFast: false,
			Complexity: ComplexityDetectorConfig{
				Enabled:            true,
				CyclomaticModerate: 10,
				CyclomaticHigh:     15,
				CyclomaticCritical: 20,
			},
			SizeAndStructure: SizeDetectorConfig{
				Enabled:          true,
				MaxFunctionLines: 50,
				MaxParameters:    5,
				MaxClassMethods:  20,
				MaxFileLines:     500,
				MaxFileFunctions: 20,
			},
			Duplication: DuplicationDetectorConfig{
				Enabled:  true,
				MinLines: 5,
			},
		},
		Exclusions: ExclusionsConfig{
			FilePatterns: []string{
				"**/test/**", "**/tests/**", "**/generated/**",
				"**/vendor/**",
			},
			ClassPatterns:    []string{"^Test", "Mock$", "Stub$"},
			FunctionPatterns: []string{"^test_"},
		},
		Severity: SeverityConfig{
			MinSeverity: "low",
			Overrides:   map[string]string{},
		},
		Output: OutputConfig{
			Formats:            []string{"markdown"},
			OutputDir:          ".",
			IncludeSuggestions: true,
			IncludeMetrics:     true,
			TopSecurityIssues:  5,
			MostComplexTopN:    10,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			IncludeTimestamp: true,
			IncludeCaller:    false,
		},
	}
}
