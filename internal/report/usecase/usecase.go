package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/warungpos/pos-service/internal/apperr"
	"github.com/warungpos/pos-service/internal/model"
	"github.com/warungpos/pos-service/internal/platform/logger"
	"github.com/warungpos/pos-service/internal/product"
	"github.com/warungpos/pos-service/internal/report"
	"github.com/warungpos/pos-service/internal/report/dto"
)

type reportUseCase struct {
	repo     report.Repository
	products product.Repository
	logger   logger.Logger
}

func NewReportUseCase(repo report.Repository, products product.Repository, log logger.Logger) report.UseCase {
	return &reportUseCase{
		repo:     repo,
		products: products,
		logger:   log,
	}
}

func (uc *reportUseCase) SalesReport(ctx context.Context) ([]dto.ProductSales, error) {
	items, err := uc.repo.AllItems(ctx)
	if err != nil {
		return nil, &apperr.StoreReadError{Op: "sales item fetch", Err: err}
	}
	if len(items) == 0 {
		return []dto.ProductSales{}, nil
	}

	groups := Aggregate(items)

	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ProductID
	}
	products, err := uc.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, &apperr.StoreReadError{Op: "product name resolution", Err: err}
	}
	nameByID := make(map[string]string, len(products))
	for _, p := range products {
		nameByID[p.ID] = p.Name
	}

	for i := range groups {
		if name, ok := nameByID[groups[i].ProductID]; ok {
			groups[i].ProductName = name
		} else {
			// A sold product that has since been deleted still shows up,
			// labelled by its raw id.
			groups[i].ProductName = fmt.Sprintf("Unknown Product (%s)", groups[i].ProductID)
		}
	}

	return groups, nil
}

func (uc *reportUseCase) TopSellers(ctx context.Context, n int) ([]dto.ProductSales, error) {
	all, err := uc.SalesReport(ctx)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if n > len(all) {
		n = len(all)
	}
	return all[:n], nil
}

// Aggregate groups items by product in first-encounter order, then sorts
// descending by quantity. The sort is stable, so products with equal
// quantities keep their encounter order.
func Aggregate(items []model.TransactionItem) []dto.ProductSales {
	index := map[string]int{}
	groups := []dto.ProductSales{}

	for _, item := range items {
		i, ok := index[item.ProductID]
		if !ok {
			i = len(groups)
			index[item.ProductID] = i
			groups = append(groups, dto.ProductSales{ProductID: item.ProductID})
		}
		groups[i].TotalQuantity += item.Quantity
		groups[i].TotalRevenue += item.TotalPrice
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].TotalQuantity > groups[b].TotalQuantity
	})
	return groups
}
