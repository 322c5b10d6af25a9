// Package catalog implements the storefront's view of the upstream product
// catalog: canonical query composition, the HTTP fetch client, and the
// pagination window derived from result counts.
package catalog

import (
	"net/url"
	"strconv"

	"github.com/freshplate/storefront/pkg/models"
)

// Query is the canonical, immutable parameter set for one catalog page
// fetch. Equal inputs always compose to an identical encoding, so queries
// are safe to use as cache keys and to compare in tests.
type Query struct {
	Page   int
	Filter models.ProductType
	Search string
}

// Compose builds a Query from the current listing state. The filter clause
// is omitted when the filter is FilterAll (or unset); the search clause is
// omitted when the term is empty. Search terms are passed through verbatim:
// surrounding whitespace is not trimmed, matching upstream behavior.
func Compose(page int, filter models.ProductType, search string) Query {
	return Query{Page: page, Filter: filter, Search: search}
}

// Values returns the upstream query parameters for q.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Filter != "" && q.Filter != models.FilterAll {
		v.Set("product_type", string(q.Filter))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// Encode returns the deterministic query-string form of q. url.Values
// encodes keys in sorted order, so equal queries encode byte-identically.
func (q Query) Encode() string {
	return q.Values().Encode()
}
