package services

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

	"github.com/validately/startup-validator-backend/internal/logger"
	"github.com/validately/startup-validator-backend/internal/utils"
)

// Evaluation is the envelope the gateway returns. The analysis_results
// payload stays opaque here; it is stored verbatim and only projected into a
// typed view at the client boundary.
type Evaluation struct {
	Success bool           `json:"success"`
	Data    EvaluationData `json:"data"`
}

type EvaluationData struct {
	StartupIdea     string          `json:"startup_idea"`
	AnalysisResults json.RawMessage `json:"analysis_results"`
}

type EvaluatorClient interface {
	Validate(ctx context.Context, startupIdea string) (*Evaluation, error)
}

type EvaluatorOptions struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type evaluatorClient struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewEvaluatorClient(log *logger.Logger, opts EvaluatorOptions) (EvaluatorClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &evaluatorClient{
		log:        log.With("service", "EvaluatorClient"),
		baseURL:    baseURL,
		httpClient: hc,
	}, nil
}

func NewEvaluatorClientFromEnv(log *logger.Logger) (EvaluatorClient, error) {
	baseURL := utils.GetEnv("EVALUATOR_BASE_URL", "http://localhost:8000", log)
	// The gateway contract carries no timeout of its own; one is imposed here
	// so a hung evaluation cannot suspend a submission indefinitely.
	timeoutSec := utils.GetEnvAsInt("EVALUATOR_TIMEOUT_SECONDS", 120, log)
	return NewEvaluatorClient(log, EvaluatorOptions{
		BaseURL: baseURL,
		Timeout: time.Duration(timeoutSec) * time.Second,
	})
}

type evaluatorHTTPError struct {
	StatusCode int
	Body       string
}

func (e *evaluatorHTTPError) Error() string {
	return fmt.Sprintf("evaluator http %d: %s", e.StatusCode, e.Body)
}

type validateRequest struct {
	StartupIdea string `json:"startup_idea"`
}

// Validate is single-shot: one synchronous request, no retry, no backoff.
// A transport error or timeout is a hard failure for the submission attempt.
func (c *evaluatorClient) Validate(ctx context.Context, startupIdea string) (*Evaluation, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(validateRequest{StartupIdea: startupIdea}); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate-idea", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("Evaluator request failed", "error", err)
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &evaluatorHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var evaluation Evaluation
	if uErr := json.Unmarshal(raw, &evaluation); uErr != nil {
		return nil, fmt.Errorf("evaluator decode error: %w", uErr)
	}
	return &evaluation, nil
}
