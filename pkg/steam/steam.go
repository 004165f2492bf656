// Package steam fetches a profile's raw wishlist data from the Steam store.
// The store rate-limits and geo-blocks aggressively, so every request is
// routed through a scraping proxy that takes the upstream URL and an API
// key as query parameters.
package steam

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/wishcal/wishcal/pkg/whttp"
)

const (
	DefaultProxyEndpoint = "https://scraping.narf.ai/api/v1"
	DefaultTimeout       = 30 * time.Second

	wishlistURLFormat = "https://store.steampowered.com/wishlist/profiles/%s/wishlistdata?p=0"
)

// StatusError is returned when the proxy answers with a non-2xx status.
// The body is kept verbatim for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// Fetcher retrieves wishlist data through the configured proxy.
type Fetcher struct {
	Endpoint string
	APIKey   string

	client *retryablehttp.Client
}

// NewFetcher builds a Fetcher. An empty endpoint falls back to the default
// proxy; a non-positive timeout falls back to DefaultTimeout.
func NewFetcher(endpoint, apiKey string, timeout time.Duration) *Fetcher {
	if endpoint == "" {
		endpoint = DefaultProxyEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		Endpoint: endpoint,
		APIKey:   apiKey,
		client:   whttp.NewClient(timeout),
	}
}

// FetchWishlist fetches the raw wishlist payload for one Steam profile.
// A non-2xx response comes back as *StatusError so callers can treat it as
// a soft, item-scoped failure.
func (f *Fetcher) FetchWishlist(ctx context.Context, steamID string) ([]byte, error) {
	proxyURL, err := f.requestURL(steamID)
	if err != nil {
		return nil, err
	}

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    proxyURL,
	}, f.client)
	if err != nil {
		return nil, fmt.Errorf("fetching wishlist for %s: %w", steamID, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: res.BodyString}
	}
	return []byte(res.BodyString), nil
}

func (f *Fetcher) requestURL(steamID string) (string, error) {
	u, err := url.Parse(f.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid proxy endpoint: %w", err)
	}
	q := u.Query()
	q.Set("api_key", f.APIKey)
	q.Set("url", fmt.Sprintf(wishlistURLFormat, steamID))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
