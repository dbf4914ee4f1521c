// Package bridge talks to the browser-side helper over a JSON-RPC style
// HTTP endpoint and implements the collaborator contracts declared in
// internal/browser.
package bridge

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/downwatch/downwatch/internal/logctx"
	"github.com/downwatch/downwatch/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Client struct {
	BaseURL  string
	APIPath  string
	Token    string
	Insecure bool // skip TLS verification if true

	httpClient *http.Client
	telemetry  *telemetry.Telemetry

	nextID int64
}

type Option func(*Client)

// WithToken sets the bearer token sent on every call.
func WithToken(token string) Option {
	return func(c *Client) { c.Token = token }
}

// WithTimeout overrides the default 10s request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithInsecure skips TLS verification, for self-signed helper endpoints.
func WithInsecure() Option {
	return func(c *Client) {
		c.Insecure = true
		c.httpClient.Transport = otelhttp.NewTransport(&http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		})
	}
}

// WithTelemetry records per-method call metrics.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(c *Client) { c.telemetry = tel }
}

func NewClient(baseURL, apiPath string, opts ...Option) *Client {
	client := &Client{
		BaseURL: baseURL,
		APIPath: apiPath,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

type rpcRequest struct {
	ID     int64       `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("bridge rpc error %d: %s", e.Code, e.Message)
}

// call performs one RPC and decodes the result into out (which may be nil
// when the caller only cares about success).
func (c *Client) call(ctx context.Context, method string, params, out interface{}) error {
	logger := logctx.LoggerFromContext(ctx).With("method", method)

	body, err := json.Marshal(rpcRequest{ID: atomic.AddInt64(&c.nextID, 1), Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s%s", c.BaseURL, c.APIPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.telemetry.RecordBridgeOperation(method, "error")

		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		logger.Error("non-200 response", "status", resp.StatusCode, "body", string(b))
		c.telemetry.RecordBridgeOperation(method, "error")

		return fmt.Errorf("bridge returned status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		c.telemetry.RecordBridgeOperation(method, "error")

		return fmt.Errorf("failed to decode response: %w", err)
	}

	if rpcResp.Error != nil {
		c.telemetry.RecordBridgeOperation(method, "error")

		return rpcResp.Error
	}

	if out != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			c.telemetry.RecordBridgeOperation(method, "error")

			return fmt.Errorf("failed to decode result: %w", err)
		}
	}

	c.telemetry.RecordBridgeOperation(method, "success")

	return nil
}
