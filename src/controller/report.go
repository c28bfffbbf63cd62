package controller

import (
	"os"
	"path/filepath"
	"strings"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/service/report"
	"code-analyzer/src/util"
)

// ReportController handles report generation
type ReportController struct {
	cfg *config.Config
}

// NewReportController creates a new report controller
func NewReportController(cfg *config.Config) *ReportController {
	return &ReportController{cfg: cfg}
}

// GenerateReports writes a report file for every configured format and
// returns the written paths
func (c *ReportController) GenerateReports(ra *model.RepositoryAnalysis) ([]string, error) {
	util.Debug("Generating reports for %d formats: %v", len(c.cfg.Output.Formats), c.cfg.Output.Formats)
	reportGenerator := report.NewGenerator(c.cfg.Output)
	var outputPaths []string

	for _, format := range c.cfg.Output.Formats {
		util.Debug("Generating %s report", format)
		output, err := reportGenerator.Generate(ra, format)
		if err != nil {
			util.Error("Failed to generate %s report: %v", format, err)
			return nil, err
		}

		outputPath := c.getOutputPath(ra.RepositoryPath, format)

		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			util.Error("Failed to create output directory: %v", err)
			return nil, err
		}

		if err := os.WriteFile(outputPath, []byte(output), 0644); err != nil {
			util.Error("Failed to write report to %s: %v", outputPath, err)
			return nil, err
		}

		util.Info("Report written: %s", outputPath)
		outputPaths = append(outputPaths, outputPath)
	}

	return outputPaths, nil
}

// GenerateToString generates a report to a string
func (c *ReportController) GenerateToString(ra *model.RepositoryAnalysis, format string) (string, error) {
	reportGenerator := report.NewGenerator(c.cfg.Output)
	return reportGenerator.Generate(ra, format)
}

func (c *ReportController) getOutputPath(repoPath, format string) string {
	name := strings.TrimLeft(filepath.Base(repoPath), ".")
	if name == "" || name == string(filepath.Separator) {
		name = "repository"
	}

	filename := name + "-analysis-report." + report.Extension(format)
	return filepath.Join(c.cfg.Output.OutputDir, filename)
}
