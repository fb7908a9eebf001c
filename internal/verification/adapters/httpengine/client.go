// Package httpengine calls a remote detection engine over HTTP.
package httpengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"txguard/internal/verification/metrics"
	"txguard/internal/verification/models"
	"txguard/internal/verification/ports"
	audit "txguard/pkg/platform/audit"
	"txguard/pkg/platform/circuit"
	"txguard/pkg/platform/middleware/requestid"
	"txguard/pkg/platform/sentinel"
	"txguard/pkg/requestcontext"
)

const (
	analyzePath             = "/v1/analyze"
	defaultTimeout          = 10 * time.Second
	defaultMaxResponseBytes = 1 << 20
)

// Client implements ports.DetectionEngine against POST {base}/v1/analyze.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	maxResponseBytes int64
	breaker          *circuit.Breaker
	metrics          *metrics.Metrics
	auditor          ports.AuditPublisher
	logger           *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client. Its Timeout wins over WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.httpClient.Timeout = d
		}
	}
}

func WithMaxResponseBytes(n int64) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxResponseBytes = n
		}
	}
}

// WithBreaker makes the client fail fast with sentinel.ErrUnavailable while
// the breaker is open.
func WithBreaker(b *circuit.Breaker) Option {
	return func(cl *Client) {
		cl.breaker = b
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

// WithAuditPublisher reports breaker transitions as audit events.
func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(cl *Client) {
		cl.auditor = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("detection engine base URL is required")
	}
	c := &Client{
		baseURL:          baseURL,
		httpClient:       &http.Client{Timeout: defaultTimeout},
		maxResponseBytes: defaultMaxResponseBytes,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type analyzeRequest struct {
	Transaction models.Descriptor   `json:"transaction"`
	DetectorIDs []models.DetectorID `json:"detector_ids"`
}

// Analyze sends one analysis request. Failures are *EngineError except for
// caller cancellation, which wraps context.Canceled.
func (c *Client) Analyze(ctx context.Context, descriptor models.Descriptor, detectors []models.DetectorID) (models.Verdict, error) {
	if c.breaker != nil && !c.breaker.Allow() {
		return nil, newEngineError(ErrorEngineOutage, 0, "circuit open", sentinel.ErrUnavailable)
	}

	verdict, err := c.do(ctx, descriptor, detectors)
	if err != nil {
		var ee *EngineError
		if errors.As(err, &ee) && ee.Category.countsAsFailure() {
			c.recordFailure(ctx)
		} else if c.breaker != nil {
			c.breaker.Release()
		}
		return nil, err
	}
	c.recordSuccess(ctx)
	return verdict, nil
}

func (c *Client) do(ctx context.Context, descriptor models.Descriptor, detectors []models.DetectorID) (models.Verdict, error) {
	if detectors == nil {
		detectors = []models.DetectorID{}
	}
	body, err := json.Marshal(analyzeRequest{Transaction: descriptor, DetectorIDs: detectors})
	if err != nil {
		return nil, newEngineError(ErrorInternal, 0, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, bytes.NewReader(body))
	if err != nil {
		return nil, newEngineError(ErrorInternal, 0, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := requestcontext.RequestID(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if int64(len(data)) > c.maxResponseBytes {
		return nil, newEngineError(ErrorBadData, resp.StatusCode,
			fmt.Sprintf("response exceeded %d bytes", c.maxResponseBytes), nil)
	}

	if resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, data)
	}
	return decodeVerdict(resp.StatusCode, data)
}

func transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("detection engine call: %w", context.Canceled)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newEngineError(ErrorTimeout, 0, "deadline exceeded", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newEngineError(ErrorTimeout, 0, "request timed out", err)
	}
	return newEngineError(ErrorEngineOutage, 0, "request failed", err)
}

func statusError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 256 {
		msg = msg[:256]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusTooManyRequests:
		return newEngineError(ErrorRateLimited, status, msg, nil)
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return newEngineError(ErrorTimeout, status, msg, nil)
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
		return newEngineError(ErrorEngineOutage, status, msg, nil)
	case status >= 500:
		return newEngineError(ErrorInternal, status, msg, nil)
	default:
		return newEngineError(ErrorContractMismatch, status, msg, nil)
	}
}

// decodeVerdict requires a single JSON object. Numbers keep their original
// text so opaque fields pass through unchanged.
func decodeVerdict(status int, data []byte) (models.Verdict, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, newEngineError(ErrorBadData, status, "decode verdict", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, newEngineError(ErrorBadData, status, "verdict is not a JSON object", nil)
	}
	return models.Verdict(obj), nil
}

// CircuitState reports the breaker position for health checks.
func (c *Client) CircuitState() string {
	if c.breaker == nil {
		return circuit.StateClosed.String()
	}
	return c.breaker.State().String()
}

func (c *Client) recordFailure(ctx context.Context) {
	if c.breaker == nil {
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.metrics.SetEngineCircuitOpen(true)
		c.logger.WarnContext(ctx, "detection engine circuit opened", "breaker", c.breaker.Name())
		c.emit(ctx, audit.EventEngineCircuitOpened)
	}
}

func (c *Client) recordSuccess(ctx context.Context) {
	if c.breaker == nil {
		return
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.metrics.SetEngineCircuitOpen(false)
		c.logger.InfoContext(ctx, "detection engine circuit closed", "breaker", c.breaker.Name())
		c.emit(ctx, audit.EventEngineCircuitClosed)
	}
}

func (c *Client) emit(ctx context.Context, event audit.AuditEvent) {
	if c.auditor == nil {
		return
	}
	err := c.auditor.Emit(ctx, audit.Event{
		Category:  event.Category(),
		Action:    string(event),
		Reason:    c.breaker.Name(),
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		c.logger.WarnContext(ctx, "audit emit failed", "action", event, "error", err)
	}
}
