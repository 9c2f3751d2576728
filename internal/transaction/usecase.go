package transaction

import (
	"context"

	"github.com/warungpos/pos-service/internal/model"
	"github.com/warungpos/pos-service/internal/transaction/dto"
)

type UseCase interface {
	// Checkout converts the register's cart into a durable transaction plus
	// stock adjustments. On success the checked-out lines leave the cart; on
	// any failure it is left intact so the operator can retry.
	Checkout(ctx context.Context, registerID string, input *dto.CheckoutInput) (*dto.CheckoutResult, error)

	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
}
