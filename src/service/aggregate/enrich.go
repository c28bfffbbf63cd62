package aggregate

import (
	"time"

	"code-analyzer/src/model"
)

// severityWeights drive the debt score
var severityWeights = map[model.Severity]int{
	model.SeverityLow:      1,
	model.SeverityMedium:   3,
	model.SeverityHigh:     7,
	model.SeverityCritical: 15,
}

// SetQualityIssues attaches detector issues and updates the summary
func SetQualityIssues(ra *model.RepositoryAnalysis, issues []model.DebtIssue) {
	if issues == nil {
		issues = []model.DebtIssue{}
	}
	ra.QualityIssues = issues
	ra.Summary.TotalQualityIssues = len(issues)
	ra.Summary.DebtScore = DebtScore(issues)
}

// SetInsights attaches insight text. Empty text leaves the field absent.
func SetInsights(ra *model.RepositoryAnalysis, text string, at time.Time) {
	if text == "" {
		return
	}
	ra.AIInsights = &model.AIInsights{Text: text, GeneratedAt: at}
	ra.Summary.HasAIInsights = true
}

// DebtScore is the weighted severity sum divided by 10, capped at 100
func DebtScore(issues []model.DebtIssue) float64 {
	if len(issues) == 0 {
		return 0
	}

	var total int
	for _, issue := range issues {
		total += severityWeights[issue.Severity]
	}

	score := float64(total) / 10.0
	if score > 100 {
		score = 100
	}
	return score
}
