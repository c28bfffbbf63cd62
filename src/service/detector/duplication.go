package detector

import (
	"context"
	"fmt"
	"sort"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// DuplicationDetector finds files with byte-identical content
type DuplicationDetector struct {
	BaseDetector
	cfg config.DuplicationDetectorConfig
}

// NewDuplicationDetector creates a new duplication detector
func NewDuplicationDetector(base BaseDetector, cfg config.DuplicationDetectorConfig) *DuplicationDetector {
	return &DuplicationDetector{
		BaseDetector: base,
		cfg:          cfg,
	}
}

// Name returns the detector name
func (d *DuplicationDetector) Name() string {
	return "duplication"
}

// IsEnabled returns whether the detector is enabled
func (d *DuplicationDetector) IsEnabled() bool {
	return d.cfg.Enabled
}

// Detect groups files by content hash. In each group of two or more, the
// lexicographically first path is the original and every other file is
// reported as its copy.
func (d *DuplicationDetector) Detect(ctx context.Context, ra *model.RepositoryAnalysis) ([]model.DebtIssue, error) {
	idx := newRepoIndex(ra)

	groups := make(map[string][]*model.FileAnalysis)
	excluded, tooSmall := 0, 0
	for i := range ra.Files {
		file := &ra.Files[i]
		if d.ShouldExclude(idx, file.Path, "", "") {
			excluded++
			continue
		}
		if file.LineCount < d.cfg.MinLines || file.ContentHash == "" {
			tooSmall++
			continue
		}
		groups[file.ContentHash] = append(groups[file.ContentHash], file)
	}

	util.Debug("Duplication detector: %d content groups from %d files (excluded: %d, too small: %d)",
		len(groups), len(ra.Files), excluded, tooSmall)

	var issues []model.DebtIssue
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(group) < 2 {
			continue
		}

		sort.Slice(group, func(i, j int) bool { return group[i].Path < group[j].Path })
		original := group[0]
		for _, dup := range group[1:] {
			issues = append(issues, d.createDuplicationIssue(dup, original, len(group)))
		}
	}

	util.Debug("Duplication detector: found %d duplicate files", len(issues))
	return d.FilterBySeverity(issues), nil
}

func (d *DuplicationDetector) createDuplicationIssue(dup, original *model.FileAnalysis, groupSize int) model.DebtIssue {
	severity := model.SeverityMedium
	if groupSize > 2 {
		severity = model.SeverityHigh
	}

	return model.DebtIssue{
		Category:    model.CategoryDuplication,
		Subcategory: "duplicate_file",
		Severity:    severity,
		FilePath:    dup.Path,
		StartLine:   1,
		EndLine:     dup.LineCount,
		EntityName:  dup.Path,
		EntityType:  "file",
		Description: fmt.Sprintf("File is identical to %s (%d copies)", original.Path, groupSize),
		Metrics: map[string]any{
			"duplicate_file": original.Path,
			"group_size":     groupSize,
			"line_count":     dup.LineCount,
			"content_hash":   dup.ContentHash,
		},
		Suggestion: "Remove the copy or extract the shared code into a common module",
	}
}
