// Package backend is the HTTP client for the prediction backend: random
// health facts, stroke risk predictions, AI advice and dataset statistics.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/riskboard/internal/domain/model"
	"github.com/okian/riskboard/pkg/logger"
	"github.com/okian/riskboard/pkg/metrics"
)

// Endpoint names, used in errors, logs and metric labels.
const (
	EndpointFact    = "get_fact"
	EndpointPredict = "predict"
	EndpointAskAI   = "ask_ai"
	EndpointStats   = "stats_data"
)

// Request outcomes recorded in metrics.
const (
	outcomeOK        = "ok"
	outcomeAppError  = "app_error"
	outcomeStatus    = "status"
	outcomeDecode    = "decode"
	outcomeTransport = "transport"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	log     logger.Logger
}

// New creates a client for the backend at baseURL, which must be an absolute
// http or https URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
	}

	c := &Client{
		base: strings.TrimRight(u.String(), "/"),
		http: &http.Client{},
		log:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised backend root.
func (c *Client) BaseURL() string { return c.base }

// GetFact fetches a random health fact.
func (c *Client) GetFact(ctx context.Context) (model.FactResponse, error) {
	var out model.FactResponse
	err := c.do(ctx, EndpointFact, http.MethodGet, "/get_fact", nil, &out)
	return out, err
}

// Predict submits the form inputs verbatim. A body carrying a truthy error is
// returned without an error so the caller can show it.
func (c *Client) Predict(ctx context.Context, inputs model.FormInputs) (model.PredictionResponse, error) {
	var out model.PredictionResponse
	err := c.do(ctx, EndpointPredict, http.MethodPost, "/predict", nonNil(inputs), &out)
	return out, err
}

// AskAI asks for lifestyle advice about the form inputs.
func (c *Client) AskAI(ctx context.Context, inputs model.FormInputs) (model.AdviceResponse, error) {
	var out model.AdviceResponse
	err := c.do(ctx, EndpointAskAI, http.MethodPost, "/ask_ai", model.AdviceRequest{Inputs: nonNil(inputs)}, &out)
	return out, err
}

// StatsData fetches stroke counts grouped by a dataset attribute.
func (c *Client) StatsData(ctx context.Context, attribute string) (model.StatsResponse, error) {
	var out model.StatsResponse
	err := c.do(ctx, EndpointStats, http.MethodGet, "/stats_data/"+url.PathEscape(attribute), nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any) error {
	requestID := uuid.NewString()
	start := time.Now()
	outcome := outcomeOK

	metrics.IncInflight()
	defer func() {
		metrics.DecInflight()
		metrics.RecordBackendRequest(endpoint, outcome, float64(time.Since(start).Milliseconds()))
	}()

	fail := func(kind string, err error) error {
		outcome = kind
		c.log.Debug(ctx, "backend request failed",
			logger.String("endpoint", endpoint),
			logger.String("request_id", requestID),
			logger.Error(err))
		return &TransportError{Endpoint: endpoint, RequestID: requestID, Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail(outcomeTransport, fmt.Errorf("%w: marshal request: %w", ErrTransport, err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fail(outcomeTransport, fmt.Errorf("%w: build request: %w", ErrTransport, err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(outcomeTransport, fmt.Errorf("%w: %w", ErrTransport, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fail(outcomeTransport, fmt.Errorf("%w: read body: %w", ErrTransport, err))
	}

	ok2xx := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok2xx && !carriesError(raw) {
		return fail(outcomeStatus, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode))
	}
	if err := decodeBody(raw, out); err != nil {
		return fail(outcomeDecode, err)
	}

	if !ok2xx {
		outcome = outcomeAppError
	}
	c.log.Debug(ctx, "backend request completed",
		logger.String("endpoint", endpoint),
		logger.String("request_id", requestID),
		logger.Int("status", resp.StatusCode),
		logger.Int("bytes", len(raw)),
		logger.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000))
	return nil
}

// carriesError reports whether raw is a JSON object with a truthy "error".
func carriesError(raw []byte) bool {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	return model.Truthy(obj["error"])
}

// decodeBody decodes a JSON body into out. Empty, null and unparsable bodies
// are malformed; any other value decodes, non-objects to an empty response.
func decodeBody(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: empty or null body", ErrDecode)
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func nonNil(inputs model.FormInputs) model.FormInputs {
	if inputs == nil {
		return model.FormInputs{}
	}
	return inputs
}
