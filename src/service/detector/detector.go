package detector

import (
	"context"
	"strconv"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// Detector is the interface for all quality detectors
type Detector interface {
	// Name returns the detector name
	Name() string

	// IsEnabled returns whether the detector is enabled
	IsEnabled() bool

	// Detect inspects a finalized analysis and returns found issues
	Detect(ctx context.Context, ra *model.RepositoryAnalysis) ([]model.DebtIssue, error)
}

// BaseDetector provides common functionality for detectors
type BaseDetector struct {
	Cfg        *config.Config
	Exclusions *util.ExclusionMatcher
}

// NewBaseDetector creates a new base detector
func NewBaseDetector(cfg *config.Config) BaseDetector {
	return BaseDetector{
		Cfg:        cfg,
		Exclusions: util.NewExclusionMatcher(cfg.Exclusions),
	}
}

// ShouldExclude checks if an entity should be excluded
func (b *BaseDetector) ShouldExclude(idx *repoIndex, filePath, className, funcName string) bool {
	if b.Exclusions.MatchesLanguage(idx.languages[filePath]) {
		return true
	}
	return b.Exclusions.Matches(filePath, className, funcName)
}

// FilterBySeverity filters issues by minimum severity
func (b *BaseDetector) FilterBySeverity(issues []model.DebtIssue) []model.DebtIssue {
	minIdx := model.Severity(b.Cfg.Severity.MinSeverity).Rank()
	if minIdx < 0 {
		minIdx = 0
	}

	filtered := make([]model.DebtIssue, 0, len(issues))
	for _, issue := range issues {
		if issue.Severity.Rank() >= minIdx {
			filtered = append(filtered, issue)
		}
	}

	return filtered
}

// repoIndex holds lookups the detectors share for one analysis
type repoIndex struct {
	languages   map[string]string // file path -> language
	methodOwner map[string]string // file:line -> class name
}

func newRepoIndex(ra *model.RepositoryAnalysis) *repoIndex {
	idx := &repoIndex{
		languages:   make(map[string]string, len(ra.Files)),
		methodOwner: make(map[string]string),
	}
	for i := range ra.Files {
		idx.languages[ra.Files[i].Path] = ra.Files[i].Language
	}
	for _, cls := range ra.Classes {
		for _, m := range cls.Methods {
			idx.methodOwner[entityKey(m.FilePath, m.LineNumber)] = cls.Name
		}
	}
	return idx
}

// className returns the class declaring fn, or "" for free functions
func (idx *repoIndex) className(fn model.FunctionInfo) string {
	return idx.methodOwner[entityKey(fn.FilePath, fn.LineNumber)]
}

func entityKey(path string, line int) string {
	return path + ":" + strconv.Itoa(line)
}
