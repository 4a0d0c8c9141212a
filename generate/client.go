package generate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

const maxBodySize = 1 << 20

type Result struct {
	RequestID  string   `json:"request_id,omitempty"`
	StatusCode int      `json:"status_code,omitempty"`
	Message    string   `json:"message,omitempty"`
	Questions  []string `json:"questions,omitempty"`
}

type Generator interface {
	Generate(ctx context.Context, p Payload) (*Result, error)
}

// ResponseError is a failure reported by the backend. Message is never empty.
type ResponseError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *ResponseError) Error() string {
	return e.Message
}

type HTTPClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

type ClientOption func(*HTTPClient)

func WithClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		if client != nil {
			c.client = client
		}
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint: endpoint,
		client:   http.DefaultClient,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type responseEnvelope struct {
	Success   *bool    `json:"success"`
	Message   string   `json:"message"`
	Questions []string `json:"questions"`
}

func (c *HTTPClient) Generate(ctx context.Context, p Payload) (*Result, error) {
	if err := ValidatePayload(p); err != nil {
		return nil, err
	}
	body, err := sonic.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("Sending generation request", "request_id", requestID, "endpoint", c.endpoint)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.logger.Debug("Received generation response", "request_id", requestID, "status", resp.StatusCode)
	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	if err != nil {
		c.logger.Warn("Reading generation response failed", "request_id", requestID, "error", err)
		if success {
			return nil, fmt.Errorf("read response body: %w", err)
		}
	}

	if !success {
		return nil, &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    ExtractMessage(data, resp.StatusCode),
			RequestID:  requestID,
		}
	}

	result := &Result{RequestID: requestID, StatusCode: resp.StatusCode}
	var env responseEnvelope
	if len(bytes.TrimSpace(data)) == 0 || sonic.Unmarshal(data, &env) != nil {
		return result, nil
	}
	if env.Success != nil && !*env.Success {
		return nil, &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    ExtractMessage(data, resp.StatusCode),
			RequestID:  requestID,
		}
	}
	result.Message = env.Message
	result.Questions = env.Questions
	return result, nil
}

// ExtractMessage pulls a human readable reason out of an error body, preferring
// "message" over "error". It falls back to a status based message and never
// returns an empty string.
func ExtractMessage(body []byte, status int) string {
	var doc map[string]any
	if len(bytes.TrimSpace(body)) > 0 && sonic.Unmarshal(body, &doc) == nil {
		for _, key := range []string{"message", "error"} {
			switch v := doc[key].(type) {
			case string:
				if strings.TrimSpace(v) != "" {
					return v
				}
			case map[string]any:
				if m, ok := v["message"].(string); ok && strings.TrimSpace(m) != "" {
					return m
				}
			}
		}
	}
	return FallbackMessage(status)
}

func FallbackMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("request failed with status %d (%s)", status, text)
	}
	return fmt.Sprintf("request failed with status %d", status)
}
