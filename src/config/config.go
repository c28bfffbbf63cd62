package config

import "time"

// Config is the root configuration structure
type Config struct {
	Agent       AgentConfig       `yaml:"agent"`
	Discovery   DiscoveryConfig   `yaml:"discovery"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	Insights    InsightsConfig    `yaml:"insights"`
	Detectors   DetectorsConfig   `yaml:"detectors"`
	Exclusions  ExclusionsConfig  `yaml:"exclusions"`
	Severity    SeverityConfig    `yaml:"severity"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// AgentConfig contains agent metadata
type AgentConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// DiscoveryConfig controls which files are picked up from the tree
type DiscoveryConfig struct {
	Extensions  []string `yaml:"extensions"`
	IgnoredDirs []string `yaml:"ignored_dirs"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	Workers              int `yaml:"workers"`
	QueueSize            int `yaml:"queue_size"`
	MaxParallelDetectors int `yaml:"max_parallel_detectors"`
}

// CacheConfig contains extraction cache settings
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend"` // memory, sqlite
	Path    string        `yaml:"path"`
	TTL     time.Duration `yaml:"ttl"`
}

// InsightsConfig contains settings for the optional AI insight service
type InsightsConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
	Retry   RetryConfig   `yaml:"retry"`
}

// RetryConfig contains retry settings for API calls
type RetryConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"`
	BackoffFactor float64       `yaml:"backoff_factor"`
	InitialDelay  time.Duration `yaml:"initial_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	RetryOnStatus []int         `yaml:"retry_on_status"`
}

// DetectorsConfig contains settings for all detectors
type DetectorsConfig struct {
	FailFast         bool                      `yaml:"fail_fast"`
	Complexity       ComplexityDetectorConfig  `yaml:"complexity"`
	SizeAndStructure SizeDetectorConfig        `yaml:"size_and_structure"`
	Duplication      DuplicationDetectorConfig `yaml:"duplication"`
}

// ComplexityDetectorConfig contains complexity detector settings
type ComplexityDetectorConfig struct {
	Enabled            bool `yaml:"enabled"`
	CyclomaticModerate int  `yaml:"cyclomatic_moderate"`
	CyclomaticHigh     int  `yaml:"cyclomatic_high"`
	CyclomaticCritical int  `yaml:"cyclomatic_critical"`
}

// SizeDetectorConfig contains size detector settings
type SizeDetectorConfig struct {
	Enabled          bool `yaml:"enabled"`
	MaxFunctionLines int  `yaml:"max_function_lines"`
	MaxParameters    int  `yaml:"max_parameters"`
	MaxClassMethods  int  `yaml:"max_class_methods"`
	MaxFileLines     int  `yaml:"max_file_lines"`
	MaxFileFunctions int  `yaml:"max_file_functions"`
}

// DuplicationDetectorConfig contains duplication detector settings
type DuplicationDetectorConfig struct {
	Enabled  bool `yaml:"enabled"`
	MinLines int  `yaml:"min_lines"`
}

// ExclusionsConfig contains exclusion patterns applied by the detectors
type ExclusionsConfig struct {
	FilePatterns     []string `yaml:"file_patterns"`
	Files            []string `yaml:"files"`
	ClassPatterns    []string `yaml:"class_patterns"`
	FunctionPatterns []string `yaml:"function_patterns"`
	Languages        []string `yaml:"languages"`
}

// SeverityConfig contains severity settings
type SeverityConfig struct {
	MinSeverity string            `yaml:"min_severity"`
	Overrides   map[string]string `yaml:"overrides"` // security rule id -> severity
}

// OutputConfig contains output settings
type OutputConfig struct {
	Formats            []string `yaml:"formats"`
	OutputDir          string   `yaml:"output_dir"`
	IncludeSuggestions bool     `yaml:"include_suggestions"`
	IncludeMetrics     bool     `yaml:"include_metrics"`
	TopSecurityIssues  int      `yaml:"top_security_issues"`
	MostComplexTopN    int      `yaml:"most_complex_top_n"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `yaml:"level"`
	Format           string `yaml:"format"` // text only
	File             string `yaml:"file"`
	IncludeTimestamp bool   `yaml:"include_timestamp"`
	IncludeCaller    bool   `yaml:"include_caller"`
}
