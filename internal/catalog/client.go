package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/freshplate/storefront/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Fetcher is the boundary to the upstream catalog API. Product pages and
// the package listing are fetched independently so a failure in one never
// blocks the other.
type Fetcher interface {
	// ListProducts fetches one page of products for the composed query.
	ListProducts(ctx context.Context, q Query) (*models.CatalogPage, error)

	// ListPackages fetches the fixed promotional package listing.
	ListPackages(ctx context.Context) ([]models.Package, error)
}

// Compile-time interface guard.
var _ Fetcher = (*Client)(nil)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_fetch_total",
		Help: "Upstream catalog fetches by resource.",
	}, []string{"resource"})
	fetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_fetch_errors_total",
		Help: "Failed upstream catalog fetches by resource.",
	}, []string{"resource"})
)

// ClientOptions configures the HTTP catalog client.
type ClientOptions struct {
	BaseURL   string        // Upstream API root, e.g. "http://catalog:8000/api".
	Timeout   time.Duration // Per-request timeout (default 10s).
	RateLimit int           // Max upstream requests per second (default 10).
}

// Client fetches catalog data over HTTP. Requests are rate-limited
// client-side so a burst of listing transitions cannot hammer the upstream.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a catalog client for the given upstream.
func NewClient(opts ClientOptions, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	return &Client{
		base:    opts.BaseURL,
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateLimit),
		logger:  logger,
	}
}

// ListProducts fetches one page of products matching q.
func (c *Client) ListProducts(ctx context.Context, q Query) (*models.CatalogPage, error) {
	var page models.CatalogPage
	url := c.base + "/products?" + q.Encode()
	if err := c.getJSON(ctx, "products", url, &page); err != nil {
		return nil, err
	}
	if page.Products == nil {
		page.Products = []models.Product{}
	}
	return &page, nil
}

// ListPackages fetches the promotional package listing.
func (c *Client) ListPackages(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	if err := c.getJSON(ctx, "packages", c.base+"/packages", &packages); err != nil {
		return nil, err
	}
	if packages == nil {
		packages = []models.Package{}
	}
	return packages, nil
}

// getJSON performs a rate-limited GET and decodes the JSON response body.
func (c *Client) getJSON(ctx context.Context, resource, url string, target any) error {
	fetchTotal.WithLabelValues(resource).Inc()

	if err := c.limiter.Wait(ctx); err != nil {
		fetchErrors.WithLabelValues(resource).Inc()
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		fetchErrors.WithLabelValues(resource).Inc()
		return fmt.Errorf("build %s request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		fetchErrors.WithLabelValues(resource).Inc()
		return fmt.Errorf("fetch %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fetchErrors.WithLabelValues(resource).Inc()
		return fmt.Errorf("fetch %s: unexpected status %d", resource, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		fetchErrors.WithLabelValues(resource).Inc()
		return fmt.Errorf("decode %s response: %w", resource, err)
	}

	c.logger.Debug("catalog fetch",
		zap.String("resource", resource),
		zap.String("url", url),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
