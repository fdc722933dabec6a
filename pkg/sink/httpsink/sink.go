// Package httpsink submits form values to an HTTP endpoint as JSON.
package httpsink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-dynform/pkg/form"
)

const maxResponseBody = 1 << 20

// Option configures a Sink.
type Option func(*Sink)

// WithMethod overrides the HTTP method, POST by default.
func WithMethod(method string) Option {
	return func(s *Sink) {
		if m := strings.ToUpper(strings.TrimSpace(method)); m != "" {
			s.method = m
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Sink) {
		if client != nil {
			s.client = client
		}
	}
}

// WithHeader adds a request header, e.g. an authorization token.
func WithHeader(key, value string) Option {
	return func(s *Sink) {
		s.headers.Set(key, value)
	}
}

// WithLogger sets the sink logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Sink is a form.Sink backed by an HTTP endpoint. A 2xx response succeeds and
// its {"message": ...} body, when present, becomes the success message. Any
// other status fails with a *form.SubmissionError carrying the body's message.
type Sink struct {
	url     string
	method  string
	client  *http.Client
	headers http.Header
	logger  *zap.Logger
}

var _ form.Sink = (*Sink)(nil)

// New constructs a Sink posting to url.
func New(url string, opts ...Option) (*Sink, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("httpsink: url is required")
	}
	s := &Sink{
		url:     url,
		method:  http.MethodPost,
		client:  &http.Client{Timeout: 30 * time.Second},
		headers: make(http.Header),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

type responseBody struct {
	Message string `json:"message"`
}

// Submit implements form.Sink.
func (s *Sink) Submit(ctx context.Context, values map[string]any) (string, error) {
	payload, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("httpsink: encode values: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, s.method, s.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("httpsink: build request: %w", err)
	}
	for key, values := range s.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("httpsink: %s %s: %w", s.method, s.url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("httpsink: read response: %w", err)
	}
	message := decodeMessage(body)

	s.logger.Debug("submission response",
		zap.String("method", s.method),
		zap.String("url", s.url),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &form.SubmissionError{
			Message: message,
			Err:     fmt.Errorf("httpsink: unexpected status %d", resp.StatusCode),
		}
	}
	return message, nil
}

func decodeMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var decoded responseBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ""
	}
	return strings.TrimSpace(decoded.Message)
}
