package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/sony/gobreaker"

	"github.com/i474232898/bom-weather-sync/internal/weather"
)

// DefaultBaseURL is the prefix of the BOM observation product feeds.
const DefaultBaseURL = "https://www.bom.gov.au/fwo"

// DefaultUserAgent is sent with every request; BOM answers 403 to blank or
// library-default user agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"

// BOMProvider implements weather.Fetcher for Bureau of Meteorology
// observation products.
type BOMProvider struct {
	name      string
	baseURL   string
	userAgent string
	httpCfg   HTTPClientConfig

	mu sync.Mutex
	// one breaker per station key, so a bad station never blocks a good one
	circuits map[string]*gobreaker.CircuitBreaker
}

// NewBOMProvider creates a provider. The client timeout bounds the whole
// request; empty baseURL and userAgent fall back to the defaults.
func NewBOMProvider(cfg HTTPClientConfig, baseURL, userAgent string) *BOMProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}
	return &BOMProvider{
		name:      "bom",
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpCfg:   cfg,
		circuits:  make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (p *BOMProvider) Name() string {
	return p.name
}

// URL returns the feed URL for a station. Product and ID are operator
// supplied and embedded verbatim.
func (p *BOMProvider) URL(station weather.Station) string {
	return fmt.Sprintf("%s/%s/%s.%s.json", p.baseURL, station.Product, station.Product, station.ID)
}

// Fetch issues one GET for the station feed and returns the raw body.
func (p *BOMProvider) Fetch(ctx context.Context, station weather.Station) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, p.URL(station), nil)
	if err != nil {
		return nil, &weather.FetchError{Kind: weather.FetchTransport, Err: err}
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	return doRequest(ctx, p.httpCfg, p.breaker(station), req)
}

func (p *BOMProvider) breaker(station weather.Station) *gobreaker.CircuitBreaker {
	key := station.Key()

	p.mu.Lock()
	defer p.mu.Unlock()

	cb, ok := p.circuits[key]
	if !ok {
		cb = newBreaker("bom:"+key, p.httpCfg)
		p.circuits[key] = cb
	}
	return cb
}
