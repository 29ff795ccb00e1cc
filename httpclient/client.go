package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/kbukum/ntfywatch/httpclient/sse"
)

// maxErrorBody caps how much of an error response body is kept.
const maxErrorBody = 4 << 10

// Client opens streaming HTTP requests.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New creates a new streaming client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext
	transport.TLSHandshakeTimeout = cfg.ConnectTimeout

	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
	}

	return &Client{
		// No Timeout: a stream lives until its context is cancelled.
		httpClient: &http.Client{Transport: transport},
		config:     cfg,
	}, nil
}

// DoStream issues a GET and returns the open event stream.
// The caller must close the returned StreamResponse when done.
func (c *Client) DoStream(ctx context.Context, req Request) (*StreamResponse, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		return nil, StatusError(resp.StatusCode, body)
	}

	return &StreamResponse{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Events:     sse.NewReader(resp.Body),
		rawResp:    resp,
	}, nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, http.NoBody)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")
	httpReq.Header.Set("User-Agent", c.config.UserAgent)

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
