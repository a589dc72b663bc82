// Package fetch implements the bounded-concurrency download engine and the
// per-kind fetch strategies for emoji and sticker records.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	connectTimeout = 5 * time.Second
	requestTimeout = 15 * time.Second
)

// NewClient builds the shared HTTP client for one media kind's batch. The
// connection pool is sized relative to the concurrency limit: at most
// 2x limit pooled connections overall and limit per host. A request that
// exceeds the connect or overall timeout fails only its own item.
func NewClient(concurrencyLimit int) *http.Client {
	if concurrencyLimit < 1 {
		concurrencyLimit = 1
	}

	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        2 * concurrencyLimit,
		MaxIdleConnsPerHost: concurrencyLimit,
		MaxConnsPerHost:     concurrencyLimit,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   requestTimeout,
	}
}

// Teardown closes all pooled connections once a batch completes.
func Teardown(client *http.Client) {
	if client != nil {
		client.CloseIdleConnections()
	}
}

// get issues a GET and drains the body. The returned status is only valid
// when err is nil.
func get(ctx context.Context, client *http.Client, url, userAgent string) (status int, body []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set a user agent
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}
