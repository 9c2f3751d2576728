package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungpos/pos-service/internal/apperr"
	"github.com/warungpos/pos-service/internal/auth"
	"github.com/warungpos/pos-service/internal/model"
	"github.com/warungpos/pos-service/internal/platform/logger"
	"github.com/warungpos/pos-service/internal/transaction/dto"
)

type fakeUseCase struct {
	checkoutFunc func(ctx context.Context, registerID string, input *dto.CheckoutInput) (*dto.CheckoutResult, error)
	getFunc      func(ctx context.Context, id string) (*model.Transaction, error)
}

func (f *fakeUseCase) Checkout(ctx context.Context, registerID string, input *dto.CheckoutInput) (*dto.CheckoutResult, error) {
	if f.checkoutFunc != nil {
		return f.checkoutFunc(ctx, registerID, input)
	}
	return nil, nil
}

func (f *fakeUseCase) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	return []model.Transaction{}, nil
}

func (f *fakeUseCase) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, id)
	}
	return nil, apperr.ErrNotFound
}

func newTestServer(uc *fakeUseCase) *httptest.Server {
	h := NewTransactionHandler(uc, 5*time.Second, logger.NewNop())

	r := chi.NewRouter()
	r.Use(auth.RegisterIDMiddleware)
	r.Post("/api/checkout", h.Checkout)
	r.Route("/api/transactions", h.Routes)
	return httptest.NewServer(r)
}

func TestCheckoutSuccess(t *testing.T) {
	uc := &fakeUseCase{
		checkoutFunc: func(ctx context.Context, registerID string, input *dto.CheckoutInput) (*dto.CheckoutResult, error) {
			assert.Equal(t, "default", registerID)
			assert.Equal(t, "Budi", input.CustomerName)
			return &dto.CheckoutResult{TransactionID: "t1", Total: 4500}, nil
		},
	}
	srv := newTestServer(uc)
	defer srv.Close()

	res, err := http.Post(srv.URL+"/api/checkout", "application/json",
		strings.NewReader(`{"customer_name":"Budi","note":"no sugar"}`))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)
	var result dto.CheckoutResult
	require.NoError(t, json.NewDecoder(res.Body).Decode(&result))
	assert.Equal(t, "t1", result.TransactionID)
	assert.Equal(t, float64(4500), result.Total)
}

func TestCheckoutValidationStatus(t *testing.T) {
	uc := &fakeUseCase{
		checkoutFunc: func(ctx context.Context, registerID string, input *dto.CheckoutInput) (*dto.CheckoutResult, error) {
			return nil, apperr.Validation("customer name is required")
		},
	}
	srv := newTestServer(uc)
	defer srv.Close()

	res, err := http.Post(srv.URL+"/api/checkout", "application/json",
		strings.NewReader(`{"customer_name":""}`))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCheckoutInsufficientStockStatus(t *testing.T) {
	uc := &fakeUseCase{
		checkoutFunc: func(ctx context.Context, registerID string, input *dto.CheckoutInput) (*dto.CheckoutResult, error) {
			return nil, apperr.ErrInsufficientStock
		},
	}
	srv := newTestServer(uc)
	defer srv.Close()

	res, err := http.Post(srv.URL+"/api/checkout", "application/json",
		strings.NewReader(`{"customer_name":"Budi"}`))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestReceiptEndpoint(t *testing.T) {
	note := "takeaway"
	uc := &fakeUseCase{
		getFunc: func(ctx context.Context, id string) (*model.Transaction, error) {
			return &model.Transaction{
				ID:           id,
				CustomerName: "Budi",
				Note:         &note,
				TotalPrice:   4500,
				CreatedAt:    time.Now(),
				Items: []model.TransactionItem{
					{ProductID: "p1", ProductName: "Coffee", Quantity: 2, TotalPrice: 2000},
				},
			}, nil
		},
	}
	srv := newTestServer(uc)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/api/transactions/t1/receipt?paid=5000")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
}

func TestReceiptUnderpaid(t *testing.T) {
	uc := &fakeUseCase{
		getFunc: func(ctx context.Context, id string) (*model.Transaction, error) {
			return &model.Transaction{ID: id, CustomerName: "Budi", TotalPrice: 4500, CreatedAt: time.Now()}, nil
		},
	}
	srv := newTestServer(uc)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/api/transactions/t1/receipt?paid=100")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestTransactionNotFound(t *testing.T) {
	srv := newTestServer(&fakeUseCase{})
	defer srv.Close()

	res, err := http.Get(srv.URL + "/api/transactions/missing")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
