package transaction

import (
	"context"

	"github.com/warungpos/pos-service/internal/model"
)

type Repository interface {
	// CreateWithItems persists the transaction header, its items and the
	// per-product stock decrements in one database transaction. Either all
	// three writes commit or none do.
	CreateWithItems(ctx context.Context, t *model.Transaction) error

	FindAll(ctx context.Context) ([]model.Transaction, error)
	FindByID(ctx context.Context, id string) (*model.Transaction, error)
}
