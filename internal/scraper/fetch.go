package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dropalert/dropalert/internal/utils"
)

// maxBodySize caps how much of a product page is read. The shop's pages are
// well under 2 MB; anything larger is not a product page.
const maxBodySize = 5 << 20

// defaultHeaders mimics a regular browser session. The shop serves a reduced
// page (without price markup) to clients that look like bots.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-IN,en;q=0.9",
}

// Fetcher retrieves product pages with a browser-like header set.
type Fetcher struct {
	client  *http.Client
	headers map[string]string
}

// NewFetcher builds a fetcher. Extra headers override the defaults per key;
// pass nil to use the defaults as-is.
func NewFetcher(timeout time.Duration, headers map[string]string) *Fetcher {
	merged := make(map[string]string, len(defaultHeaders)+len(headers))
	for k, v := range defaultHeaders {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		headers: merged,
	}
}

// Fetch GETs the page and returns its body as a string. Non-2xx responses
// are errors.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}
	return string(body), nil
}
