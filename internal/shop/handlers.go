package shop

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/freshplate/storefront/internal/cart"
	"github.com/freshplate/storefront/internal/catalog"
	"github.com/freshplate/storefront/internal/server"
	"github.com/freshplate/storefront/pkg/models"
	"go.uber.org/zap"
)

// sessionCookie binds a browser to its listing controller.
const sessionCookie = "shop_session"

// Handler serves the storefront listing and cart API.
type Handler struct {
	sessions *Sessions
	ledger   *cart.Ledger
	logger   *zap.Logger
}

// NewHandler creates the shop API handler.
func NewHandler(sessions *Sessions, ledger *cart.Ledger, logger *zap.Logger) *Handler {
	return &Handler{sessions: sessions, ledger: ledger, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/shop/view", h.handleView)
	mux.HandleFunc("POST /api/v1/shop/cart/items", h.handleAddCartItem)
	mux.HandleFunc("GET /api/v1/shop/cart", h.handleGetCart)
}

// productView decorates a product with its rendered star states.
type productView struct {
	models.Product
	Stars [5]models.StarState `json:"stars"`
}

// viewResponse is the full listing payload for the storefront page.
type viewResponse struct {
	Filter     models.ProductType  `json:"filter"`
	Search     string              `json:"search"`
	Page       int                 `json:"page"`
	Count      int                 `json:"count"`
	Products   []productView       `json:"products"`
	Pagination *catalog.Pagination `json:"pagination,omitempty"`
	Packages   []models.Package    `json:"packages"`
}

// handleView applies any supplied listing transitions to the caller's
// session and returns the resulting view. Each query parameter maps to one
// transition, so supplying product_type or search resets the page to 1
// exactly as the page's own controls do.
func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	ctl, sid := h.session(w, r)
	ctx := r.Context()
	params := r.URL.Query()

	applied := false
	if params.Has("product_type") {
		filter := models.ProductType(params.Get("product_type"))
		if !filter.Valid() {
			server.BadRequest(w, "unknown product_type "+strconv.Quote(string(filter)), r.URL.Path)
			return
		}
		// Fetch errors keep the prior view; they are logged, not fatal.
		_ = ctl.SetFilter(ctx, filter)
		applied = true
	}
	if params.Has("search") {
		_ = ctl.SetSearch(ctx, params.Get("search"))
		applied = true
	}
	if params.Has("page") {
		page, err := strconv.Atoi(params.Get("page"))
		if err != nil || page < 1 {
			server.BadRequest(w, "page must be a positive integer", r.URL.Path)
			return
		}
		_ = ctl.SetPage(ctx, page)
		applied = true
	}
	if !applied {
		ctl.Load(ctx)
	}

	view := ctl.View()
	packages, err := ctl.Packages(ctx)
	if err != nil {
		// Package fetch failure never blocks product rendering.
		packages = []models.Package{}
	}

	products := make([]productView, len(view.Products))
	for i, p := range view.Products {
		products[i] = productView{Product: p, Stars: models.Stars(p.Rating)}
	}

	h.logger.Debug("listing view served",
		zap.String("session_id", sid),
		zap.String("filter", string(view.Filter)),
		zap.Int("page", view.Page),
	)

	writeJSON(w, http.StatusOK, viewResponse{
		Filter:     view.Filter,
		Search:     view.Search,
		Page:       view.Page,
		Count:      view.Count,
		Products:   products,
		Pagination: view.Pagination,
		Packages:   packages,
	})
}

// addCartItemRequest is the body for POST /api/v1/shop/cart/items.
type addCartItemRequest struct {
	User    string         `json:"user"`
	Product models.Product `json:"product"`
}

// handleAddCartItem merges one unit of a product into the user's cart.
func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body: "+err.Error(), r.URL.Path)
		return
	}
	if req.Product.ID <= 0 {
		server.BadRequest(w, "product.id is required", r.URL.Path)
		return
	}

	line, err := h.ledger.AddOne(r.Context(), req.User, req.Product)
	if err != nil {
		var perr *cart.PersistenceError
		if errors.As(err, &perr) {
			h.logger.Error("cart merge failed", zap.String("key", perr.Key), zap.Error(err))
			server.InternalError(w, "cart could not be saved", r.URL.Path)
			return
		}
		server.InternalError(w, "cart update failed", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, line)
}

// cartResponse is the payload for GET /api/v1/shop/cart.
type cartResponse struct {
	User  string                     `json:"user"`
	Lines map[string]models.CartLine `json:"lines"`
}

// handleGetCart returns the user's current cart contents.
func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")

	lines, err := h.ledger.Lines(r.Context(), user)
	if err != nil {
		h.logger.Error("cart read failed", zap.String("user", user), zap.Error(err))
		server.InternalError(w, "cart could not be read", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse{User: user, Lines: lines})
}

// session resolves the caller's controller from the session cookie,
// creating a new session (and setting the cookie) when needed.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Controller, string) {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	ctl, sid := h.sessions.Get(id)
	if sid != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ctl, sid
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
