package shop_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/freshplate/storefront/internal/cart"
	"github.com/freshplate/storefront/internal/catalog"
	"github.com/freshplate/storefront/internal/services"
	"github.com/freshplate/storefront/internal/shop"
	"github.com/freshplate/storefront/internal/testutil"
	"github.com/freshplate/storefront/pkg/models"
)

type shopFixture struct {
	mux      *http.ServeMux
	fetcher  *testutil.FakeFetcher
	notifier *testutil.MockNotifier
	cookie   *http.Cookie
}

func newShopFixture(t *testing.T) *shopFixture {
	t.Helper()

	fetcher := testutil.NewFakeFetcher()
	fetcher.ProductsFn = catalogOf(sampleProducts(13, 5))
	fetcher.Packages = []models.Package{{ID: 1, Name: "Family Feast"}}

	repo, err := services.NewSQLiteCartRepository(context.Background(), testutil.NewStore(t))
	if err != nil {
		t.Fatalf("NewSQLiteCartRepository: %v", err)
	}
	notifier := testutil.NewMockNotifier()
	ledger := cart.NewLedger(repo, notifier, testutil.Logger())

	sessions := shop.NewSessions(fetcher, testutil.Logger(), time.Minute)
	handler := shop.NewHandler(sessions, ledger, testutil.Logger())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return &shopFixture{mux: mux, fetcher: fetcher, notifier: notifier}
}

// get performs a session-sticky GET against the shop API.
func (f *shopFixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == "shop_session" {
			f.cookie = c
		}
	}
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return body
}

func TestViewInitialLoad(t *testing.T) {
	f := newShopFixture(t)

	w := f.get(t, "/api/v1/shop/view")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if f.cookie == nil {
		t.Fatal("initial view did not set a session cookie")
	}

	body := decodeView(t, w)
	if body["count"].(float64) != 18 {
		t.Errorf("count = %v, want 18", body["count"])
	}
	if body["filter"] != "All" {
		t.Errorf("filter = %v, want All", body["filter"])
	}
	products := body["products"].([]any)
	if len(products) != 6 {
		t.Errorf("len(products) = %d, want one page of 6", len(products))
	}
	packages := body["packages"].([]any)
	if len(packages) != 1 {
		t.Errorf("len(packages) = %d, want 1", len(packages))
	}

	// 18 results = 3 pages of controls.
	pagination := body["pagination"].(map[string]any)
	if pagination["total_pages"].(float64) != 3 {
		t.Errorf("total_pages = %v, want 3", pagination["total_pages"])
	}
	if pagination["is_first"] != true {
		t.Error("is_first = false, want true")
	}
}

func TestViewFilterParamResetsPage(t *testing.T) {
	f := newShopFixture(t)

	f.get(t, "/api/v1/shop/view")
	f.get(t, "/api/v1/shop/view?page=3")

	w := f.get(t, "/api/v1/shop/view?product_type=Breakfast")
	body := decodeView(t, w)
	if body["page"].(float64) != 1 {
		t.Errorf("page after filter change = %v, want 1", body["page"])
	}
	if body["filter"] != "Breakfast" {
		t.Errorf("filter = %v, want Breakfast", body["filter"])
	}
	if body["count"].(float64) != 13 {
		t.Errorf("count = %v, want 13", body["count"])
	}
}

func TestViewInvalidFilterRejected(t *testing.T) {
	f := newShopFixture(t)

	w := f.get(t, "/api/v1/shop/view?product_type=Brunch")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content-type = %q, want problem+json", ct)
	}
}

func TestViewInvalidPageRejected(t *testing.T) {
	f := newShopFixture(t)

	for _, target := range []string{
		"/api/v1/shop/view?page=0",
		"/api/v1/shop/view?page=soon",
	} {
		if w := f.get(t, target); w.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, w.Code)
		}
	}
}

func TestViewStarsRendered(t *testing.T) {
	f := newShopFixture(t)
	f.fetcher.ProductsFn = func(context.Context, catalog.Query) (*models.CatalogPage, error) {
		return &models.CatalogPage{
			Count:    1,
			Products: []models.Product{{ID: 1, Name: "Pancake Stack", Rating: 3.3}},
		}, nil
	}

	w := f.get(t, "/api/v1/shop/view")
	body := decodeView(t, w)

	products := body["products"].([]any)
	if len(products) != 1 {
		t.Fatalf("len(products) = %d, want 1", len(products))
	}
	stars := products[0].(map[string]any)["stars"].([]any)
	want := []any{"full", "full", "full", "half", "empty"}
	for i := range want {
		if stars[i] != want[i] {
			t.Errorf("stars[%d] = %v, want %v", i, stars[i], want[i])
		}
	}
}

func TestViewPackagesSurviveProductFailure(t *testing.T) {
	f := newShopFixture(t)

	// Prime the session and the package cache.
	f.get(t, "/api/v1/shop/view")

	f.fetcher.ProductsFn = func(context.Context, catalog.Query) (*models.CatalogPage, error) {
		return nil, errors.New("products endpoint down")
	}

	w := f.get(t, "/api/v1/shop/view?search=egg")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (render prior data)", w.Code)
	}

	body := decodeView(t, w)
	if packages := body["packages"].([]any); len(packages) != 1 {
		t.Errorf("len(packages) = %d, want 1 despite product failure", len(packages))
	}
	// The prior product page is still rendered.
	if products := body["products"].([]any); len(products) != 6 {
		t.Errorf("len(products) = %d, want prior page of 6", len(products))
	}
}

func TestAddCartItem(t *testing.T) {
	f := newShopFixture(t)

	payload := `{"user": "a@x.com", "product": {"id": 1, "name": "Pancake Stack", "price": 8.5}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/shop/cart/items", strings.NewReader(payload))
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var line models.CartLine
	if err := json.NewDecoder(w.Body).Decode(&line); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	if line.Count != 1 {
		t.Errorf("Count = %d, want 1", line.Count)
	}

	msgs := f.notifier.Messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "Pancake Stack") {
		t.Errorf("notifications = %v, want one naming the product", msgs)
	}
}

func TestAddCartItemValidation(t *testing.T) {
	f := newShopFixture(t)

	for name, payload := range map[string]string{
		"not json":   "{",
		"missing id": `{"user": "a@x.com", "product": {"name": "Mystery"}}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/shop/cart/items", strings.NewReader(payload))
		w := httptest.NewRecorder()
		f.mux.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, w.Code)
		}
	}
}

func TestGetCartAccumulates(t *testing.T) {
	f := newShopFixture(t)

	payload := `{"user": "a@x.com", "product": {"id": 1, "name": "Pancake Stack"}}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/shop/cart/items", strings.NewReader(payload))
		f.mux.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shop/cart?user=a@x.com", nil)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		User  string                     `json:"user"`
		Lines map[string]models.CartLine `json:"lines"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if got := body.Lines["1"].Count; got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
}

func TestSessionStickinessAcrossRequests(t *testing.T) {
	f := newShopFixture(t)

	f.get(t, "/api/v1/shop/view?product_type=Lunch")
	w := f.get(t, "/api/v1/shop/view?page=1")

	// The filter set on the previous request survives in the session.
	body := decodeView(t, w)
	if body["filter"] != "Lunch" {
		t.Errorf("filter on follow-up request = %v, want Lunch (session state)", body["filter"])
	}
}
