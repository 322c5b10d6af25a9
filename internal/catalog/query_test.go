package catalog

import (
	"testing"

	"github.com/freshplate/storefront/pkg/models"
)

func TestComposeOmitsAllFilter(t *testing.T) {
	q := Compose(1, models.FilterAll, "")
	if got, want := q.Encode(), "page=1"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestComposeIncludesFilter(t *testing.T) {
	for _, filter := range []models.ProductType{
		models.ProductTypeBreakfast, models.ProductTypeLunch, models.ProductTypeDinner,
	} {
		q := Compose(2, filter, "")
		values := q.Values()
		if got := values.Get("product_type"); got != string(filter) {
			t.Errorf("product_type = %q, want %q", got, filter)
		}
		if values.Has("search") {
			t.Errorf("Compose(2, %q, \"\") should omit search, got %q", filter, values.Get("search"))
		}
	}
}

func TestComposeOmitsEmptySearch(t *testing.T) {
	q := Compose(1, models.ProductTypeLunch, "")
	if q.Values().Has("search") {
		t.Error("empty search term should be omitted")
	}
}

func TestComposeIncludesSearch(t *testing.T) {
	q := Compose(3, models.FilterAll, "pancake")
	if got, want := q.Encode(), "page=3&search=pancake"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestComposeDoesNotTrimSearch(t *testing.T) {
	// Whitespace passes through verbatim; the upstream treats it as part
	// of the term.
	q := Compose(1, models.FilterAll, " waffle ")
	if got, want := q.Values().Get("search"), " waffle "; got != want {
		t.Errorf("search = %q, want %q", got, want)
	}
}

func TestComposeDeterministic(t *testing.T) {
	first := Compose(2, models.ProductTypeDinner, "soup").Encode()
	for i := 0; i < 100; i++ {
		if got := Compose(2, models.ProductTypeDinner, "soup").Encode(); got != first {
			t.Fatalf("Encode() call %d = %q, want %q", i, got, first)
		}
	}
}

func TestComposeEqualInputsEqualQueries(t *testing.T) {
	a := Compose(4, models.ProductTypeBreakfast, "egg")
	b := Compose(4, models.ProductTypeBreakfast, "egg")
	if a != b {
		t.Errorf("equal inputs composed unequal queries: %+v vs %+v", a, b)
	}
}
