// Package identity looks up the identifier of the signed-in user.
package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
)

var ErrNoIdentifier = errors.New("identity: response carries no user identifier")

type Source interface {
	FetchUserID(ctx context.Context) (string, error)
}

type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("identity: unexpected status %d", e.StatusCode)
}

// identifierKeys are tried in order when reading the response body.
var identifierKeys = []string{"userid", "userId", "user_id"}

const maxBodySize = 1 << 20

type HTTPSource struct {
	url    string
	token  string
	client *http.Client
}

type HTTPOption func(*HTTPSource)

func WithToken(token string) HTTPOption {
	return func(s *HTTPSource) {
		s.token = token
	}
}

func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{url: url, client: http.DefaultClient}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) FetchUserID(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("identity: read body: %w", err)
	}
	return parseIdentifier(body)
}

func parseIdentifier(body []byte) (string, error) {
	var doc map[string]any
	if err := sonic.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("identity: decode body: %w", err)
	}
	for _, key := range identifierKeys {
		if id, ok := doc[key].(string); ok && strings.TrimSpace(id) != "" {
			return id, nil
		}
	}
	return "", ErrNoIdentifier
}
