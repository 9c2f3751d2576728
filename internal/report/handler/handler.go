package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warungpos/pos-service/internal/platform/logger"
	"github.com/warungpos/pos-service/internal/report"
	"github.com/warungpos/pos-service/internal/server/respond"
)

const topSellerCount = 5

type ReportHandler struct {
	uc     report.UseCase
	logger logger.Logger
}

func NewReportHandler(uc report.UseCase, log logger.Logger) *ReportHandler {
	return &ReportHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReportHandler) Routes(r chi.Router) {
	r.Get("/sales", h.Sales)
	r.Get("/sales/top", h.TopSellers)
}

func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.uc.SalesReport(r.Context())
	if err != nil {
		h.logger.Error("failed to build sales report", zap.Error(err))
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, sales)
}

func (h *ReportHandler) TopSellers(w http.ResponseWriter, r *http.Request) {
	sales, err := h.uc.TopSellers(r.Context(), topSellerCount)
	if err != nil {
		h.logger.Error("failed to build top sellers", zap.Error(err))
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, sales)
}
