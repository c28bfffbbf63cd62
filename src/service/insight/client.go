// Package insight requests free-form commentary on an analysis summary from an
// external text-generation service
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

const promptTemplate = `Analyze this code repository summary and provide insights on:
1. Code quality assessment
2. Security recommendations
3. Performance suggestions
4. Documentation improvements
5. Best practices recommendations`

// Client talks to the insight endpoint
type Client struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
	retryConf  config.RetryConfig
}

// NewClient creates a new insight client
func NewClient(cfg config.InsightsConfig) *Client {
	return &Client{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retryConf: cfg.Retry,
	}
}

// Generate returns insight text for summary
func (c *Client) Generate(ctx context.Context, summary Summary) (string, error) {
	util.Debug("Requesting insights for %d analyzed files", summary.FilesAnalyzed)

	req := GenerateRequest{
		Model:   c.model,
		Prompt:  promptTemplate,
		Summary: summary,
	}

	var resp GenerateResponse
	if err := c.post(ctx, req, &resp); err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("insight service returned no text")
	}
	util.Debug("Received %d bytes of insight text", len(text))
	return text, nil
}

// SummaryFrom builds the request summary from a finished analysis. It never
// includes source text.
func SummaryFrom(ra *model.RepositoryAnalysis) Summary {
	fileTypes := make(map[string]int, len(ra.FileTypes))
	for ext, n := range ra.FileTypes {
		fileTypes[ext] = n
	}
	return Summary{
		RepositoryPath:      ra.RepositoryPath,
		TotalFiles:          ra.TotalFiles,
		FilesAnalyzed:       ra.FilesAnalyzed,
		FileTypes:           fileTypes,
		TotalFunctions:      ra.Summary.TotalFunctions,
		TotalClasses:        ra.Summary.TotalClasses,
		SecurityIssuesCount: ra.Summary.TotalSecurityIssues,
		QualityIssuesCount:  ra.Summary.TotalQualityIssues,
		DebtScore:           ra.Summary.DebtScore,
		AvgComplexity:       ra.ComplexityAnalysis.AvgFunctionComplexity,
		FunctionDocCoverage: ra.DocumentationQuality.FunctionDocCoverage,
	}
}

func (c *Client) post(ctx context.Context, body any, result any) error {
	var lastErr error

	for attempt := 0; attempt <= c.retryConf.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			util.Warn("Retrying insight request (attempt %d/%d) after %v", attempt+1, c.retryConf.MaxAttempts+1, delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := c.doPost(ctx, body, result)
		if err == nil {
			return nil
		}

		lastErr = err
		if !c.shouldRetry(err) {
			break
		}
	}

	return lastErr
}

func (c *Client) doPost(ctx context.Context, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := float64(c.retryConf.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= c.retryConf.BackoffFactor
	}
	if c.retryConf.MaxDelay > 0 && delay > float64(c.retryConf.MaxDelay) {
		delay = float64(c.retryConf.MaxDelay)
	}
	return time.Duration(delay)
}

func (c *Client) shouldRetry(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range c.retryConf.RetryOnStatus {
		if apiErr.StatusCode == code {
			return true
		}
	}
	return false
}

// APIError represents an error response from the insight service
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("insight service error (status %d): %s", e.StatusCode, e.Body)
}
