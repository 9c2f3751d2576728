package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warungpos/pos-service/internal/apperr"
	"github.com/warungpos/pos-service/internal/auth"
	"github.com/warungpos/pos-service/internal/platform/logger"
	"github.com/warungpos/pos-service/internal/receipt"
	"github.com/warungpos/pos-service/internal/server/respond"
	"github.com/warungpos/pos-service/internal/transaction"
	"github.com/warungpos/pos-service/internal/transaction/dto"
)

type TransactionHandler struct {
	uc              transaction.UseCase
	logger          logger.Logger
	checkoutTimeout time.Duration
}

func NewTransactionHandler(uc transaction.UseCase, checkoutTimeout time.Duration, log logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		uc:              uc,
		logger:          log,
		checkoutTimeout: checkoutTimeout,
	}
}

func (h *TransactionHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/receipt", h.Receipt)
}

func (h *TransactionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var input dto.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.Validation("invalid request body"))
		return
	}

	// A store call that never resolves must not block the register forever.
	ctx, cancel := context.WithTimeout(r.Context(), h.checkoutTimeout)
	defer cancel()

	result, err := h.uc.Checkout(ctx, auth.GetRegisterID(r.Context()), &input)
	if err != nil {
		h.logger.Error("checkout failed", zap.Error(err))
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, result)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.uc.ListTransactions(r.Context())
	if err != nil {
		h.logger.Error("failed to list transactions", zap.Error(err))
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.uc.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

func (h *TransactionHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	t, err := h.uc.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	paid := t.TotalPrice // exact payment when not specified
	if raw := r.URL.Query().Get("paid"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respond.Error(w, apperr.Validation("paid must be a number"))
			return
		}
		paid = p
	}

	html, err := receipt.Render(t, paid)
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}
