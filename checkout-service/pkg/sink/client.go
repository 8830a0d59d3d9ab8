// Package sink is the storefront's HTTP client for the api-gateway: catalog
// reads, order messages and card checkout sessions.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/blunfr84/Webly/product-service/pkg/catalog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrRejected = errors.New("request rejected by server")

// APIError is a non-2xx answer or a success:false envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return ErrRejected }

type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
}

// NewClient instruments the given client's transport; nil means a fresh client.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	instrumented := *httpClient
	base := instrumented.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	instrumented.Transport = otelhttp.NewTransport(base)

	return &Client{BaseURL: u, HTTP: &instrumented}, nil
}

func (c *Client) ListServices(ctx context.Context) ([]catalog.Service, error) {
	var env Envelope[[]catalog.Service]
	if err := c.do(ctx, http.MethodGet, "/api/services", nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) GetService(ctx context.Context, id int64) (*catalog.Service, error) {
	var env Envelope[*catalog.Service]
	if err := c.do(ctx, http.MethodGet, "/api/services/"+strconv.FormatInt(id, 10), nil, nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) PostMessage(ctx context.Context, req MessageRequest) (*MessageRecord, error) {
	var env Envelope[*MessageRecord]
	if err := c.do(ctx, http.MethodPost, "/api/messages", req, nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// CreateCheckoutSession sends idempotencyKey so the provider deduplicates a
// resent request. An empty key sends none.
func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest, idempotencyKey string) (*CheckoutSessionResponse, error) {
	headers := http.Header{}
	if idempotencyKey != "" {
		headers.Set(IdempotencyKeyHeader, idempotencyKey)
	}

	var resp CheckoutSessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/payments/checkout-session", req, headers, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.Message}
	}
	return &resp, nil
}

func (c *Client) StripeConfig(ctx context.Context) (*StripeConfig, error) {
	var cfg StripeConfig
	if err := c.do(ctx, http.MethodGet, "/api/config/stripe", nil, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) do(ctx context.Context, method, path string, in interface{}, headers http.Header, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	u := c.BaseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env Envelope[json.RawMessage]
		_ = json.Unmarshal(data, &env)
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	var probe struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.Success != nil && !*probe.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: probe.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
