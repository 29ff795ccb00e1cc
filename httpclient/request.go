package httpclient

import (
	"net/http"

	"github.com/kbukum/ntfywatch/httpclient/sse"
)

// Request describes an outbound streaming GET.
type Request struct {
	// URL is the absolute stream URL.
	URL string
	// Headers are request-specific headers (merged over client defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
}

// StreamResponse wraps an open streaming HTTP response.
type StreamResponse struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Events reads server-sent events from the response body.
	Events sse.Reader

	rawResp *http.Response
}

// ContentType returns the response Content-Type header.
func (r *StreamResponse) ContentType() string {
	return r.Headers["Content-Type"]
}

// Close releases the underlying connection.
func (r *StreamResponse) Close() error {
	if r.Events != nil {
		return r.Events.Close()
	}
	if r.rawResp != nil && r.rawResp.Body != nil {
		return r.rawResp.Body.Close()
	}
	return nil
}
