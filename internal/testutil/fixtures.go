package testutil

import (
	"github.com/freshplate/storefront/pkg/models"
)

// NewProduct returns a Product with sensible defaults, suitable for test fixtures.
// Override individual fields with options as needed.
func NewProduct(id int, opts ...func(*models.Product)) models.Product {
	p := models.Product{
		ID:     id,
		Name:   "Test Dish",
		Image:  "https://cdn.example.com/dishes/test.jpg",
		Price:  9.95,
		Rating: 4.0,
		Type:   models.ProductTypeBreakfast,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithName sets the product name.
func WithName(name string) func(*models.Product) {
	return func(p *models.Product) { p.Name = name }
}

// WithPrice sets the product price.
func WithPrice(price float64) func(*models.Product) {
	return func(p *models.Product) { p.Price = price }
}

// WithRating sets the product rating.
func WithRating(rating float64) func(*models.Product) {
	return func(p *models.Product) { p.Rating = rating }
}

// WithType sets the product type.
func WithType(pt models.ProductType) func(*models.Product) {
	return func(p *models.Product) { p.Type = pt }
}
