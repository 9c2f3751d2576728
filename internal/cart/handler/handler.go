package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warungpos/pos-service/internal/apperr"
	"github.com/warungpos/pos-service/internal/auth"
	"github.com/warungpos/pos-service/internal/cart"
	"github.com/warungpos/pos-service/internal/platform/logger"
	"github.com/warungpos/pos-service/internal/product"
	"github.com/warungpos/pos-service/internal/server/respond"
)

type CartHandler struct {
	carts    *cart.Store
	products product.UseCase
	logger   logger.Logger
}

func NewCartHandler(carts *cart.Store, products product.UseCase, log logger.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		logger:   log,
	}
}

func (h *CartHandler) Routes(r chi.Router) {
	r.Get("/", h.Get)
	r.Delete("/", h.Clear)
	r.Post("/items", h.AddItem)
	r.Put("/items/{productId}", h.SetQuantity)
	r.Delete("/items/{productId}", h.RemoveItem)
}

type cartResponse struct {
	Items []cart.Line `json:"items"`
	Total float64     `json:"total"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(auth.GetRegisterID(r.Context()))
	respond.JSON(w, http.StatusOK, cartResponse{Items: c.Lines(), Total: c.Total()})
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("invalid request body"))
		return
	}
	if req.ProductID == "" {
		respond.Error(w, apperr.Validation("product_id is required"))
		return
	}
	if req.Quantity < 1 {
		respond.Error(w, apperr.Validation("quantity must be at least 1"))
		return
	}

	p, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		h.logger.Error("failed to resolve product for cart", zap.Error(err))
		respond.Error(w, err)
		return
	}

	c := h.carts.Get(auth.GetRegisterID(r.Context()))
	c.AddItem(p, req.Quantity)
	respond.JSON(w, http.StatusOK, cartResponse{Items: c.Lines(), Total: c.Total()})
}

type setQuantityRequest struct {
	// Raw string on purpose: non-numeric input is coerced to 0, not rejected.
	Quantity json.RawMessage `json:"quantity"`
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.Validation("invalid request body"))
		return
	}

	qty := coerceQuantity(req.Quantity)
	c := h.carts.Get(auth.GetRegisterID(r.Context()))
	c.SetQuantity(chi.URLParam(r, "productId"), qty)
	respond.JSON(w, http.StatusOK, cartResponse{Items: c.Lines(), Total: c.Total()})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(auth.GetRegisterID(r.Context()))
	c.RemoveItem(chi.URLParam(r, "productId"))
	respond.JSON(w, http.StatusOK, cartResponse{Items: c.Lines(), Total: c.Total()})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(auth.GetRegisterID(r.Context()))
	c.Clear()
	respond.JSON(w, http.StatusOK, cartResponse{Items: c.Lines(), Total: c.Total()})
}

// coerceQuantity accepts a JSON number or string; anything unparseable or
// negative becomes 0.
func coerceQuantity(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return cart.ParseQuantity(s)
	}
	return 0
}
