// Package shop orchestrates the storefront listing page: it owns the
// filter/search/page state for one browsing session, drives catalog fetches
// from state transitions, and routes cart events to the ledger.
package shop

import (
	"context"
	"slices"
	"sync"

	"github.com/freshplate/storefront/internal/catalog"
	"github.com/freshplate/storefront/pkg/models"
	"go.uber.org/zap"
)

// View is a consistent snapshot of the listing state for rendering.
type View struct {
	Filter     models.ProductType  `json:"filter"`
	Search     string              `json:"search"`
	Page       int                 `json:"page"`
	Count      int                 `json:"count"`
	Products   []models.Product    `json:"products"`
	Pagination *catalog.Pagination `json:"pagination,omitempty"`
}

// Controller is the state machine behind one storefront session. Filter and
// search transitions reset the page to 1 (changing scope invalidates the
// page position); page transitions do not touch filter or search. Every
// transition re-fetches the product page for the newly composed query.
//
// Fetches are fenced by a monotonic request sequence: a response belonging
// to anything but the latest issued query is discarded, so rapid successive
// transitions can never leave a stale result on screen.
type Controller struct {
	fetcher catalog.Fetcher
	logger  *zap.Logger

	mu     sync.Mutex
	filter models.ProductType
	search string
	page   int
	seq    uint64

	products []models.Product
	count    int

	packages       []models.Package
	packagesLoaded bool
}

// NewController creates a controller in its initial state: all products,
// no search, page 1. No fetch is issued until Load or a transition.
func NewController(fetcher catalog.Fetcher, logger *zap.Logger) *Controller {
	return &Controller{
		fetcher: fetcher,
		logger:  logger,
		filter:  models.FilterAll,
		page:    1,
	}
}

// Load performs the initial page load: the product fetch and the package
// fetch are independent, so a failure in one never blocks the other.
func (c *Controller) Load(ctx context.Context) {
	// Failures are logged inside refresh/Packages; the view keeps prior
	// (empty) data and the other fetch still proceeds.
	_ = c.refresh(ctx)
	_, _ = c.Packages(ctx)
}

// SetFilter selects a product-type filter and resets the page to 1.
func (c *Controller) SetFilter(ctx context.Context, filter models.ProductType) error {
	c.mu.Lock()
	c.filter = filter
	c.page = 1
	c.mu.Unlock()
	return c.refresh(ctx)
}

// SetSearch replaces the search term and resets the page to 1. The term is
// passed through verbatim; see catalog.Compose.
func (c *Controller) SetSearch(ctx context.Context, term string) error {
	c.mu.Lock()
	c.search = term
	c.page = 1
	c.mu.Unlock()
	return c.refresh(ctx)
}

// SetPage navigates to the given page, keeping filter and search. Pages
// below 1 are treated as 1.
func (c *Controller) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.refresh(ctx)
}

// NextPage advances one page; a no-op when already on the last page or when
// no pagination controls apply.
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	pag := catalog.ComputePagination(c.count, catalog.PageSize, c.page)
	if pag == nil || pag.IsLast {
		c.mu.Unlock()
		return nil
	}
	c.page = pag.Next()
	c.mu.Unlock()
	return c.refresh(ctx)
}

// PrevPage steps one page back; a no-op when already on the first page or
// when no pagination controls apply.
func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	pag := catalog.ComputePagination(c.count, catalog.PageSize, c.page)
	if pag == nil || pag.IsFirst {
		c.mu.Unlock()
		return nil
	}
	c.page = pag.Prev()
	c.mu.Unlock()
	return c.refresh(ctx)
}

// Packages returns the promotional package listing, fetching it at most
// once. The listing is independent of filter/search/page state, so listing
// transitions never re-fetch it; use RefreshPackages to force a reload.
func (c *Controller) Packages(ctx context.Context) ([]models.Package, error) {
	c.mu.Lock()
	if c.packagesLoaded {
		pkgs := slices.Clone(c.packages)
		c.mu.Unlock()
		return pkgs, nil
	}
	c.mu.Unlock()
	return c.RefreshPackages(ctx)
}

// RefreshPackages re-fetches the package listing unconditionally.
func (c *Controller) RefreshPackages(ctx context.Context) ([]models.Package, error) {
	pkgs, err := c.fetcher.ListPackages(ctx)
	if err != nil {
		c.logger.Error("package fetch failed", zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	c.packages = pkgs
	c.packagesLoaded = true
	c.mu.Unlock()
	return slices.Clone(pkgs), nil
}

// View returns a snapshot of the current listing state. Pagination is nil
// when the result fits on one page.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Filter:     c.filter,
		Search:     c.search,
		Page:       c.page,
		Count:      c.count,
		Products:   slices.Clone(c.products),
		Pagination: catalog.ComputePagination(c.count, catalog.PageSize, c.page),
	}
}

// refresh composes the query for the current state and fetches the matching
// product page. A fetch failure leaves the previous view data in place.
func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	q := catalog.Compose(c.page, c.filter, c.search)
	c.mu.Unlock()

	page, err := c.fetcher.ListProducts(ctx, q)
	if err != nil {
		c.logger.Error("product fetch failed",
			zap.String("query", q.Encode()),
			zap.Error(err),
		)
		return err
	}

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarding stale catalog response",
			zap.String("query", q.Encode()),
			zap.Uint64("seq", seq),
		)
		return nil
	}

	c.products = page.Products
	c.count = page.Count

	// A narrower result set can strand the page beyond the last page
	// (filter applied while deep in pagination). Clamp and fetch the real
	// last page.
	totalPages := (page.Count + catalog.PageSize - 1) / catalog.PageSize
	clamp := totalPages >= 1 && c.page > totalPages
	if clamp {
		c.page = totalPages
	}
	c.mu.Unlock()

	if clamp {
		return c.refresh(ctx)
	}
	return nil
}
