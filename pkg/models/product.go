package models

// ProductType categorizes a catalog product and doubles as the listing
// filter. FilterAll is the unfiltered default and is never sent upstream.
type ProductType string

const (
	FilterAll            ProductType = "All"
	ProductTypeBreakfast ProductType = "Breakfast"
	ProductTypeLunch     ProductType = "Lunch"
	ProductTypeDinner    ProductType = "Dinner"
)

// ProductTypes lists the selectable filter values in display order.
var ProductTypes = []ProductType{FilterAll, ProductTypeBreakfast, ProductTypeLunch, ProductTypeDinner}

// Valid reports whether pt is one of the known filter values.
func (pt ProductType) Valid() bool {
	switch pt {
	case FilterAll, ProductTypeBreakfast, ProductTypeLunch, ProductTypeDinner:
		return true
	}
	return false
}

// Product is a single catalog entry as served by the upstream catalog API.
type Product struct {
	ID     int         `json:"id"`
	Name   string      `json:"name"`
	Image  string      `json:"image,omitempty"`
	Price  float64     `json:"price"`
	Rating float64     `json:"rating"`
	Type   ProductType `json:"product_type"`
}

// CatalogPage is one page of catalog results. Count is the total number of
// products matching the query across all pages, not the page length.
type CatalogPage struct {
	Count    int       `json:"count"`
	Products []Product `json:"results"`
}

// Package is a fixed promotional bundle. The package listing is not
// paginated and does not participate in filter or search state.
type Package struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// CartLine is one entry in a user's cart: a snapshot of the product as it
// was when first added, plus the accumulated quantity. The snapshot is
// deliberately not refreshed on subsequent adds.
type CartLine struct {
	Product Product `json:"product"`
	Count   int     `json:"count"`
}
