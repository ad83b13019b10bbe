package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/mesh-intelligence/blueprint/internal/logging"
)

// Gemini defaults.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-3-pro-preview"
	DefaultTimeout = 60 * time.Second
)

// maxResponseBytes bounds the response body read.
const maxResponseBytes = 8 << 20

// ErrMissingAPIKey is returned by Generate when no API key is configured.
var ErrMissingAPIKey = errors.New("gemini api key is not set")

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewGeminiClient returns a client for baseURL. An empty baseURL uses
// DefaultBaseURL and a non-positive timeout uses DefaultTimeout.
func NewGeminiClient(baseURL, apiKey string, timeout time.Duration, log logrus.FieldLogger) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GeminiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        logging.Component(log, "gemini"),
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

// Generate implements Generator. It issues exactly one request.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   req.Schema,
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	c.log.WithField("model", model).Debug("gemini request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("gemini: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(raw, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode, msg)
	}
	if !gjson.ValidBytes(raw) {
		return "", errors.New("gemini: response is not JSON")
	}

	if reason := gjson.GetBytes(raw, "promptFeedback.blockReason"); reason.Exists() {
		c.log.WithField("block_reason", reason.String()).Warn("gemini blocked the prompt")
	}
	return gjson.GetBytes(raw, "candidates.0.content.parts.0.text").String(), nil
}
