package controller

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/service/aggregate"
	"code-analyzer/src/service/analyzer"
	"code-analyzer/src/service/cache"
	"code-analyzer/src/service/detector"
	"code-analyzer/src/service/discovery"
	"code-analyzer/src/service/insight"
	"code-analyzer/src/util"
)

// AnalysisController orchestrates the repository analysis process
type AnalysisController struct {
	cfg *config.Config
}

// NewAnalysisController creates a new analysis controller
func NewAnalysisController(cfg *config.Config) *AnalysisController {
	return &AnalysisController{cfg: cfg}
}

// AnalyzeRequest represents a request to analyze a directory tree
type AnalyzeRequest struct {
	Path         string
	SkipInsights bool
}

// fileResult carries one worker outcome to the collector
type fileResult struct {
	path     string
	analysis *model.FileAnalysis
	err      error
}

// Analyze runs the full analysis pipeline. A missing or non-directory root is
// fatal; every per-file failure becomes a warning. When ctx is cancelled the
// files already analyzed are returned with Incomplete set.
func (c *AnalysisController) Analyze(ctx context.Context, req AnalyzeRequest) (*model.RepositoryAnalysis, error) {
	startTime := time.Now()
	root := filepath.Clean(req.Path)
	util.Info("Starting analysis for: %s", root)

	// Discover files
	disc := discovery.NewDiscoverer(c.cfg.Discovery)
	files, walkWarnings, err := disc.Discover(ctx, root)
	if err != nil && !isCancellation(err) {
		util.Error("Discovery failed: %v", err)
		return nil, err
	}

	acc := aggregate.NewAccumulator()
	for _, w := range walkWarnings {
		acc.AddWarning(w)
	}

	// Incomplete only when a discovered file was skipped or abandoned
	incomplete := err != nil
	if !incomplete {
		an, closeStore, err := c.newAnalyzer()
		if err != nil {
			return nil, err
		}
		defer closeStore()

		incomplete = c.analyzeFiles(ctx, an, root, files, acc)
	}

	if incomplete {
		util.Warn("Analysis interrupted: %d of %d files analyzed", acc.FilesAnalyzed(), len(files))
	}

	ra := acc.Finalize(aggregate.FinalizeOptions{
		RepositoryPath:  root,
		TotalFiles:      len(files),
		Incomplete:      incomplete,
		MostComplexTopN: c.cfg.Output.MostComplexTopN,
		Now:             time.Now().UTC(),
	})

	// Detectors inspect whatever was collected, even for interrupted runs
	issues, err := detector.NewRunner(c.cfg).RunAll(context.WithoutCancel(ctx), ra)
	if err != nil {
		util.Error("Detector run failed: %v", err)
		return nil, err
	}
	aggregate.SetQualityIssues(ra, issues)

	if c.cfg.Insights.Enabled && !req.SkipInsights && !incomplete {
		c.requestInsights(ctx, ra)
	}

	util.Info("Analysis complete: %d/%d files, %d findings, %d quality issues, debt score: %.1f (took %v)",
		ra.FilesAnalyzed, ra.TotalFiles, len(ra.SecurityIssues), len(ra.QualityIssues),
		ra.Summary.DebtScore, time.Since(startTime))

	return ra, nil
}

// newAnalyzer wires the language registry and the extraction cache. The
// returned func closes the cache store.
func (c *AnalysisController) newAnalyzer() (*analyzer.Analyzer, func(), error) {
	overrides, err := analyzer.ParseOverrides(c.cfg.Severity.Overrides)
	if err != nil {
		return nil, nil, fmt.Errorf("severity overrides: %w", err)
	}

	registry, err := analyzer.NewRegistry(overrides)
	if err != nil {
		return nil, nil, fmt.Errorf("building language registry: %w", err)
	}

	store, err := cache.New(c.cfg.Cache)
	if err != nil {
		util.Warn("Extraction cache unavailable, continuing without it: %v", err)
		store = nil
	}
	util.Debug("Extraction cache enabled: %v (backend: %s)", store != nil, c.cfg.Cache.Backend)

	closeStore := func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			util.Warn("Closing extraction cache: %v", err)
		}
	}

	return analyzer.NewAnalyzer(registry, store), closeStore, nil
}

// analyzeFiles fans files out to a bounded worker pool. Results flow through
// a bounded channel to a single collector that owns acc. It reports whether
// any file was left undispatched or abandoned on cancellation.
func (c *AnalysisController) analyzeFiles(ctx context.Context, an *analyzer.Analyzer, root string, files []string, acc *aggregate.Accumulator) bool {
	workers := c.cfg.Concurrency.Workers
	if workers < 1 {
		workers = 1
	}
	queueSize := c.cfg.Concurrency.QueueSize
	if queueSize < 1 {
		queueSize = workers
	}

	util.Debug("Analyzing %d files with %d workers (queue: %d)", len(files), workers, queueSize)

	results := make(chan fileResult, queueSize)
	collected := make(chan struct{})
	abandoned := false

	go func() {
		defer close(collected)
		for r := range results {
			if !c.collect(acc, root, r) {
				abandoned = true
			}
		}
	}()

	var g errgroup.Group
	g.SetLimit(workers)

	dispatched := 0
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		dispatched++
		path := path
		g.Go(func() error {
			fa, err := an.AnalyzeFile(ctx, root, path)
			results <- fileResult{path: path, analysis: fa, err: err}
			return nil
		})
	}

	_ = g.Wait()
	close(results)
	<-collected

	return abandoned || dispatched < len(files)
}

// collect folds one result into acc. It returns false when the file was
// abandoned on cancellation.
func (c *AnalysisController) collect(acc *aggregate.Accumulator, root string, r fileResult) bool {
	if r.err == nil {
		acc.Add(r.analysis)
		return true
	}

	// Work abandoned on cancellation is neither analyzed nor a warning
	if isCancellation(r.err) {
		return false
	}

	kind := model.WarningRead
	if errors.Is(r.err, analyzer.ErrUndecodable) {
		kind = model.WarningDecode
	}

	rel := discovery.RelPath(root, r.path)
	util.Warn("Skipping %s: %v", rel, r.err)
	acc.AddWarning(model.FileWarning{Path: rel, Kind: kind, Cause: r.err.Error()})
	return true
}

// requestInsights asks the insight service for commentary. Failures leave
// the field absent.
func (c *AnalysisController) requestInsights(ctx context.Context, ra *model.RepositoryAnalysis) {
	timeout := c.cfg.Insights.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ictx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := insight.NewClient(c.cfg.Insights)
	text, err := client.Generate(ictx, insight.SummaryFrom(ra))
	if err != nil {
		util.Debug("Insight request failed: %v", err)
		return
	}

	aggregate.SetInsights(ra, text, time.Now().UTC())
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
