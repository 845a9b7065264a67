// Package imagegen drives the Replicate predictions API to produce product
// catalog imagery and pushes the result into object storage.
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avilamfg/exhibit-backend/pkg/config"
)

const (
	predictionsURL  = "https://api.replicate.com/v1/predictions"
	requestTimeout  = 30 * time.Second
	maxResponseSize = 4 << 20
)

// Prediction statuses reported by the API. starting and processing are the
// non-terminal ones.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// PredictionInput mirrors the SDXL-style input block sent with each
// prediction request.
type PredictionInput struct {
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	NumOutputs        int     `json:"num_outputs,omitempty"`
	Scheduler         string  `json:"scheduler,omitempty"`
	NumInferenceSteps int     `json:"num_inference_steps,omitempty"`
	GuidanceScale     float64 `json:"guidance_scale,omitempty"`
}

// Prediction is the subset of the API response the generator needs.
type Prediction struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error,omitempty"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// IsTerminal reports whether the prediction has finished, in any outcome.
func (p *Prediction) IsTerminal() bool {
	switch p.Status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// Client is a thin Replicate predictions API client.
type Client struct {
	httpClient *http.Client
	token      string
	model      string
	baseURL    string
}

// NewClient builds a Replicate client from the config. The API token is
// mandatory; the binary should refuse to start without it.
func NewClient(cfg config.ReplicateConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, fmt.Errorf("replicate api token is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("replicate model is required")
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		token:      cfg.APIToken,
		model:      cfg.Model,
		baseURL:    predictionsURL,
	}, nil
}

// CreatePrediction starts a new prediction for the prompt.
func (c *Client) CreatePrediction(ctx context.Context, input PredictionInput) (*Prediction, error) {
	payload, err := json.Marshal(map[string]any{
		"version": c.model,
		"input":   input,
	})
	if err != nil {
		return nil, fmt.Errorf("encode prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build prediction request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// GetPrediction refreshes the prediction state from its polling URL.
func (c *Client) GetPrediction(ctx context.Context, getURL string) (*Prediction, error) {
	if strings.TrimSpace(getURL) == "" {
		return nil, fmt.Errorf("prediction url is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build prediction poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Prediction, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read replicate response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("replicate api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var prediction Prediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, fmt.Errorf("decode replicate response: %w", err)
	}
	return &prediction, nil
}

// DownloadOutput fetches the generated image bytes.
func (c *Client) DownloadOutput(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download image status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
