package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/warungpos/pos-service/internal/auth"
	cartH "github.com/warungpos/pos-service/internal/cart/handler"
	catH "github.com/warungpos/pos-service/internal/category/handler"
	prodH "github.com/warungpos/pos-service/internal/product/handler"
	repH "github.com/warungpos/pos-service/internal/report/handler"
	txH "github.com/warungpos/pos-service/internal/transaction/handler"
)

type Handlers struct {
	Category    *catH.CategoryHandler
	Product     *prodH.ProductHandler
	Cart        *cartH.CartHandler
	Transaction *txH.TransactionHandler
	Report      *repH.ReportHandler
}

func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(auth.RegisterIDMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", h.Category.Routes)
		r.Route("/products", h.Product.Routes)
		r.Route("/cart", h.Cart.Routes)
		r.Post("/checkout", h.Transaction.Checkout)
		r.Route("/transactions", h.Transaction.Routes)
		r.Route("/reports", h.Report.Routes)
	})

	return r
}
