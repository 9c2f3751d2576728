package report

import (
	"context"

	"github.com/warungpos/pos-service/internal/model"
)

type Repository interface {
	// AllItems returns every transaction item, oldest first. The aggregator
	// depends on this order for its stable tie-break.
	AllItems(ctx context.Context) ([]model.TransactionItem, error)
}
