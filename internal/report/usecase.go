package report

import (
	"context"

	"github.com/warungpos/pos-service/internal/report/dto"
)

type UseCase interface {
	// SalesReport aggregates all-time sales per product, sorted descending by
	// quantity sold.
	SalesReport(ctx context.Context) ([]dto.ProductSales, error)

	// TopSellers returns the first n entries of the report.
	TopSellers(ctx context.Context, n int) ([]dto.ProductSales, error)
}
