package testutil

import (
	"context"
	"sync"

	"github.com/freshplate/storefront/internal/catalog"
	"github.com/freshplate/storefront/pkg/models"
)

// Compile-time interface check.
var _ catalog.Fetcher = (*FakeFetcher)(nil)

// FakeFetcher is a scriptable catalog.Fetcher. It records every product
// query issued and serves responses from a configurable function, so tests
// can simulate slow, stale, or failing upstreams.
type FakeFetcher struct {
	mu      sync.Mutex
	queries []catalog.Query

	// ProductsFn serves ListProducts. When nil, an empty page is returned.
	ProductsFn func(ctx context.Context, q catalog.Query) (*models.CatalogPage, error)

	// Packages and PackagesErr serve ListPackages.
	Packages     []models.Package
	PackagesErr  error
	packageCalls int
}

// NewFakeFetcher returns a FakeFetcher serving empty results.
func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{}
}

// ListProducts records the query and delegates to ProductsFn.
func (f *FakeFetcher) ListProducts(ctx context.Context, q catalog.Query) (*models.CatalogPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	fn := f.ProductsFn
	f.mu.Unlock()

	if fn == nil {
		return &models.CatalogPage{Products: []models.Product{}}, nil
	}
	return fn(ctx, q)
}

// ListPackages returns the configured package list.
func (f *FakeFetcher) ListPackages(ctx context.Context) ([]models.Package, error) {
	f.mu.Lock()
	f.packageCalls++
	f.mu.Unlock()

	if f.PackagesErr != nil {
		return nil, f.PackagesErr
	}
	if f.Packages == nil {
		return []models.Package{}, nil
	}
	return f.Packages, nil
}

// Queries returns a copy of all product queries issued so far.
func (f *FakeFetcher) Queries() []catalog.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]catalog.Query, len(f.queries))
	copy(out, f.queries)
	return out
}

// PackageCalls returns how many times ListPackages was invoked.
func (f *FakeFetcher) PackageCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.packageCalls
}
