package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkspire/inkspire-client/pkg/circuitbreaker"
	"github.com/inkspire/inkspire-client/pkg/errors"
	"github.com/inkspire/inkspire-client/pkg/httpclient"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"github.com/inkspire/inkspire-client/pkg/metrics"
	"github.com/inkspire/inkspire-client/pkg/tracing"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:8081"

	// maxErrorBody bounds how much of an error response is kept as the message
	maxErrorBody = 64 << 10
)

// TokenSource supplies the bearer token for authenticated calls.
// An empty token sends the request without Authorization.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to TokenSource
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Config configures the InkSpire API client
type Config struct {
	BaseURL    string
	Timeout    time.Duration // 0 leaves the transport defaults in charge
	HTTPClient httpclient.Client
	Breaker    *gobreaker.CircuitBreaker
}

// Client talks to the InkSpire REST API. It never retries: every failure
// is returned to the caller as-is.
type Client struct {
	baseURL string
	http    httpclient.Client
	breaker *gobreaker.CircuitBreaker

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized func(operation string)
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.NewStandardClient(cfg.Timeout)
	}

	breaker := cfg.Breaker
	if breaker == nil {
		cbConfig := circuitbreaker.DefaultConfig("inkspire-api")
		cbConfig.IsSuccessful = countsAsSuccess
		breaker = circuitbreaker.NewCircuitBreaker(cbConfig)
	}

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		breaker: breaker,
	}
}

// countsAsSuccess keeps client-side mistakes (4xx) from tripping the breaker
func countsAsSuccess(err error) bool {
	return err == nil || !(errors.Is(err, errors.ErrNetwork) || errors.Is(err, errors.ErrInternal))
}

// SetTokenSource installs the session as the bearer token provider
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// OnUnauthorized registers fn to run when an authenticated call is
// answered with 401
func (c *Client) OnUnauthorized(fn func(operation string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// BaseURL returns the API root, without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// MediaURL returns the public URL of an uploaded post attachment
func (c *Client) MediaURL(name string) string {
	return c.baseURL + "/uploads/" + url.PathEscape(name)
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func (c *Client) unauthorized(operation string) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(operation)
	}
}

// call describes one API request
type call struct {
	operation   string
	method      string
	path        string
	body        io.Reader
	contentType string
	accept      string

	// authenticated calls carry the session token and report 401s
	authenticated bool
	// bearer overrides the session token, used by token verification
	bearer string
}

func jsonCall(operation, method, path string, in interface{}) (call, error) {
	c := call{operation: operation, method: method, path: path, authenticated: true}
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return c, fmt.Errorf("failed to encode %s request: %w", operation, err)
		}
		c.body = bytes.NewReader(raw)
		c.contentType = "application/json"
	}
	return c, nil
}

// do sends the call through the circuit breaker. On success the caller
// owns the response body. Non-2xx responses are returned as *errors.APIError.
func (c *Client) do(ctx context.Context, cl call) (*http.Response, error) {
	ctx, span := tracing.StartSpan(ctx, "inkspire.api."+cl.operation)
	defer span.End()

	start := time.Now()
	requestID := uuid.NewString()
	span.SetAttributes(
		attribute.String("http.request.method", cl.method),
		attribute.String("inkspire.request_id", requestID),
	)

	resp, err := circuitbreaker.Execute(c.breaker, func() (*http.Response, error) {
		return c.send(ctx, cl, requestID)
	})

	duration := metrics.MeasureDuration(start)
	status := "success"
	fields := []zap.Field{zap.String("request_id", requestID), zap.String("path", cl.path)}
	if err != nil {
		status = "error"
		fields = append(fields, zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		fields = append(fields, zap.Int("http_status", resp.StatusCode))
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	}
	metrics.APIClientRequestDuration.WithLabelValues(cl.operation, status).Observe(duration)
	metrics.APIClientRequestTotal.WithLabelValues(cl.operation, status).Inc()
	logger.LogAPICall("inkspire", cl.operation, status, duration, fields...)

	if err != nil && cl.authenticated && errors.Is(err, errors.ErrUnauthorized) {
		c.unauthorized(cl.operation)
	}
	return resp, err
}

func (c *Client) send(ctx context.Context, cl call, requestID string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, cl.body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", cl.operation, err)
	}

	accept := cl.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-Request-ID", requestID)
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}

	bearer := cl.bearer
	if bearer == "" && cl.authenticated {
		bearer = c.token()
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	tracing.Inject(ctx, req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NetworkError(cl.operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, decodeError(cl.operation, resp)
	}
	return resp, nil
}

// decodeError turns a non-2xx response into an APIError. The message is
// the JSON "error" or "message" field, else the plain text body.
func decodeError(operation string, resp *http.Response) *errors.APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best effort
	return &errors.APIError{
		Operation: operation,
		Status:    resp.StatusCode,
		Message:   extractMessage(raw),
	}
}

// extractMessage reads a human-readable message out of a response body
func extractMessage(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if raw[0] == '{' && json.Unmarshal(raw, &payload) == nil {
		var text string
		if json.Unmarshal(payload.Error, &text) == nil && text != "" {
			return text
		}
		return payload.Message
	}

	var text string
	if raw[0] == '"' && json.Unmarshal(raw, &text) == nil {
		return strings.TrimSpace(text)
	}
	if raw[0] == '<' {
		// HTML error pages are not worth showing
		return ""
	}
	return string(raw)
}

// getJSON performs an authenticated GET and decodes the body into out
func (c *Client) getJSON(ctx context.Context, operation, path string, out interface{}) error {
	cl, _ := jsonCall(operation, http.MethodGet, path, nil) //nolint:errcheck // no body to encode
	return c.doJSON(ctx, cl, out)
}

// sendJSON performs an authenticated request with a JSON body
func (c *Client) sendJSON(ctx context.Context, operation, method, path string, in, out interface{}) error {
	cl, err := jsonCall(operation, method, path, in)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, cl, out)
}

func (c *Client) doJSON(ctx context.Context, cl call, out interface{}) error {
	resp, err := c.do(ctx, cl)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode %s response: %w", cl.operation, err)
	}
	return nil
}

// doText performs the call and returns the trimmed body as text.
// JSON string bodies and {"message": ...} objects are unwrapped.
func (c *Client) doText(ctx context.Context, cl call) (string, error) {
	resp, err := c.do(ctx, cl)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NetworkError(cl.operation, err)
	}
	return extractMessage(raw), nil
}
