// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps how much of a response body Fetch reads. Citation
// lookups return small JSON documents; anything larger is misbehaving.
const maxBodyBytes = 4 << 20

// Response is the transport-level result of a lookup request: the HTTP
// status and the size-capped body. Interpreting either is the caller's job.
type Response struct {
	Status int
	Body   []byte
}

// Fetch performs a GET against rawURL with the given headers and returns
// the status and body. Non-2xx statuses are data, not errors: only
// transport-level failures (bad URL, DNS, connect, timeout, cancelled
// context) produce a non-nil error. 429 responses are retried first per
// DoWithRetry.
func Fetch(ctx context.Context, client *http.Client, rawURL string, headers map[string]string, maxRetries int) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := DoWithRetry(ctx, client, req, maxRetries)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return &Response{Status: resp.StatusCode, Body: body}, nil
}
