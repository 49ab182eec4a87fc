package infrastructure

import (
	"context"
	"fmt"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

const (
	maxResponseBytes = 16 << 20
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"
)

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Body       []byte
}

// HTTPTransport performs GET requests
type HTTPTransport interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// TLSTransport sends requests with a Chrome TLS fingerprint, which affiliate
// APIs behind bot protection accept where the Go default handshake is rejected
type TLSTransport struct {
	client tls_client.HttpClient
}

// NewTLSTransport creates a transport whose requests time out after timeout
func NewTLSTransport(timeout time.Duration) (*TLSTransport, error) {
	seconds := int(timeout / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(seconds),
		tls_client.WithClientProfile(profiles.Chrome_133),
		tls_client.WithCookieJar(tls_client.NewCookieJar()),
	}
	client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create TLS client: %w", err)
	}
	return &TLSTransport{client: client}, nil
}

// Get fetches url and reads the whole body
func (t *TLSTransport) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header = http.Header{
		"Accept":          {"application/json, text/plain, */*"},
		"Accept-Language": {"en-US,en;q=0.9"},
		"User-Agent":      {userAgent},
		http.HeaderOrderKey: {
			"Accept",
			"Accept-Language",
			"User-Agent",
		},
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// Ping requests url and fails on transport errors or error statuses
func (t *TLSTransport) Ping(ctx context.Context, url string) error {
	resp, err := t.Get(ctx, url)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("ping returned status %d", resp.StatusCode)
	}
	return nil
}
