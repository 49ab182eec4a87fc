package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"

	log "github.com/sirupsen/logrus"
)

var ErrFetchFailed = errors.New("affiliate fetch failed")

// AffiliateClient implements WagerSnapshotSource against an affiliate stats API that
// takes start_at, end_at and key query parameters
type AffiliateClient struct {
	transport  HTTPTransport
	baseURL    string
	apiKey     string
	normalizer *PayloadNormalizer
}

// NewAffiliateClient creates a new affiliate API client
func NewAffiliateClient(transport HTTPTransport, baseURL, apiKey string, normalizer *PayloadNormalizer) *AffiliateClient {
	return &AffiliateClient{
		transport:  transport,
		baseURL:    baseURL,
		apiKey:     apiKey,
		normalizer: normalizer,
	}
}

// FetchWagers returns cumulative wagers for every affiliate user within window
func (c *AffiliateClient) FetchWagers(ctx context.Context, window entities.Window) ([]entities.WagerEntry, error) {
	endpoint, err := c.windowURL(window)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	entries, err := c.normalizer.Normalize(resp.Body)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"window":  window.Key(),
		"entries": len(entries),
	}).Debug("Fetched affiliate wagers")
	return entries, nil
}

func (c *AffiliateClient) windowURL(window entities.Window) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse affiliate URL: %w", err)
	}
	q := u.Query()
	q.Set("start_at", window.StartDate())
	q.Set("end_at", window.EndDate())
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
